package history

import (
	"slices"
	"time"

	"github.com/goliatone/go-history/internal/clone"
)

// New constructs a Store seeded with initial. The initial value is captured
// once and is what Reset returns to.
func New[T any](initial T, opts ...Option) *Store[T] {
	s := &Store[T]{cfg: applyOptions(opts)}
	s.initial = s.detach(initial)
	s.resetLocked()
	return s
}

// Current returns the snapshot at the cursor.
func (s *Store[T]) Current() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detach(s.snapshots[s.cursor])
}

// Initial returns the construction-time value.
func (s *Store[T]) Initial() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detach(s.initial)
}

// Commit proposes value as the next snapshot. It reports whether the history
// changed; a value equal to the current snapshot is ignored.
func (s *Store[T]) Commit(value T, opts ...CommitOption) bool {
	start := time.Now()
	cc := applyCommitOptions(opts)
	candidate := s.detach(value)

	s.mu.Lock()
	accepted := s.commitLocked(candidate, cc)
	state := s.stateLocked()
	s.mu.Unlock()

	s.observe(OpCommit, accepted, state, time.Since(start), nil)
	return accepted
}

// Update derives the next snapshot from the current one. The updater runs
// outside the store lock, so it may read from the store; if another writer
// moves the history while it runs, the updater is invoked again against the
// new current snapshot. A panicking updater leaves the store untouched.
func (s *Store[T]) Update(fn func(prev T) T, opts ...CommitOption) bool {
	if fn == nil {
		return false
	}
	accepted, _ := s.update(func(prev T) (T, error) {
		return fn(prev), nil
	}, opts)
	return accepted
}

// TryUpdate is Update for fallible updaters. An updater error aborts the
// commit, leaves the store untouched and is returned as *UpdateError.
func (s *Store[T]) TryUpdate(fn func(prev T) (T, error), opts ...CommitOption) (bool, error) {
	if fn == nil {
		return false, ErrNoUpdater
	}
	return s.update(fn, opts)
}

func (s *Store[T]) update(fn func(prev T) (T, error), opts []CommitOption) (bool, error) {
	start := time.Now()
	cc := applyCommitOptions(opts)

	for {
		s.mu.RLock()
		base := s.detach(s.snapshots[s.cursor])
		generation := s.generation
		cursor := s.cursor
		s.mu.RUnlock()

		next, err := fn(base)
		if err != nil {
			err = wrapUpdateError(cursor, err)
			s.mu.RLock()
			state := s.stateLocked()
			s.mu.RUnlock()
			s.observe(OpCommit, false, state, time.Since(start), err)
			return false, err
		}
		candidate := s.detach(next)

		s.mu.Lock()
		if s.generation != generation {
			s.mu.Unlock()
			continue
		}
		accepted := s.commitLocked(candidate, cc)
		state := s.stateLocked()
		s.mu.Unlock()

		s.observe(OpCommit, accepted, state, time.Since(start), nil)
		return accepted, nil
	}
}

// Undo moves the cursor one snapshot back. At the oldest snapshot it is a
// no-op and reports false.
func (s *Store[T]) Undo() bool {
	start := time.Now()
	s.mu.Lock()
	moved := s.cursor > 0
	if moved {
		s.cursor--
		s.generation++
	}
	state := s.stateLocked()
	s.mu.Unlock()

	s.observe(OpUndo, moved, state, time.Since(start), nil)
	return moved
}

// Redo moves the cursor one snapshot forward. At the newest snapshot it is a
// no-op and reports false.
func (s *Store[T]) Redo() bool {
	start := time.Now()
	s.mu.Lock()
	moved := s.cursor < len(s.snapshots)-1
	if moved {
		s.cursor++
		s.generation++
	}
	state := s.stateLocked()
	s.mu.Unlock()

	s.observe(OpRedo, moved, state, time.Since(start), nil)
	return moved
}

// CanUndo reports whether Undo would move the cursor.
func (s *Store[T]) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (s *Store[T]) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor < len(s.snapshots)-1
}

// Reset collapses the history to the construction-time value.
func (s *Store[T]) Reset() {
	start := time.Now()
	s.mu.Lock()
	s.resetLocked()
	state := s.stateLocked()
	s.mu.Unlock()

	s.observe(OpReset, true, state, time.Since(start), nil)
}

// Len returns the number of retained snapshots.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// Cursor returns the index of the current snapshot.
func (s *Store[T]) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Revision returns the revision of the current snapshot.
func (s *Store[T]) Revision() Revision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revisions[s.cursor]
}

// Revisions returns a copy of all retained revisions, oldest first.
func (s *Store[T]) Revisions() []Revision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.revisions)
}

// UndoTarget returns the revision Undo would revert, which is the current
// one, and reports false when there is nothing to undo.
func (s *Store[T]) UndoTarget() (Revision, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cursor == 0 {
		return Revision{}, false
	}
	return s.revisions[s.cursor], true
}

// PeekUndo returns the revision Undo would land on.
func (s *Store[T]) PeekUndo() (Revision, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cursor == 0 {
		return Revision{}, false
	}
	return s.revisions[s.cursor-1], true
}

// PeekRedo returns the revision Redo would land on.
func (s *Store[T]) PeekRedo() (Revision, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cursor >= len(s.revisions)-1 {
		return Revision{}, false
	}
	return s.revisions[s.cursor+1], true
}

func (s *Store[T]) commitLocked(candidate T, cc commitConfig) bool {
	if s.cfg.equal(candidate, s.snapshots[s.cursor]) {
		return false
	}

	keep := s.cursor + 1
	clear(s.snapshots[keep:])
	clear(s.revisions[keep:])
	s.seq++
	s.snapshots = append(s.snapshots[:keep], candidate)
	s.revisions = append(s.revisions[:keep], s.newRevision(s.seq, cc.label))
	s.cursor = len(s.snapshots) - 1

	if limit := s.cfg.maxEntries; limit > 0 && len(s.snapshots) > limit {
		excess := len(s.snapshots) - limit
		s.snapshots = slices.Delete(s.snapshots, 0, excess)
		s.revisions = slices.Delete(s.revisions, 0, excess)
		s.cursor -= excess
	}

	s.generation++
	return true
}

func (s *Store[T]) resetLocked() {
	s.seq = 0
	s.snapshots = []T{s.detach(s.initial)}
	s.revisions = []Revision{s.newRevision(0, "")}
	s.cursor = 0
	s.generation++
}

func (s *Store[T]) newRevision(seq int, label string) Revision {
	return Revision{
		ID:          s.cfg.newID(),
		Seq:         seq,
		Label:       label,
		CommittedAt: s.cfg.clock(),
	}
}

// historyState is a point-in-time view used for logging and activity.
type historyState struct {
	cursor   int
	length   int
	revision Revision
}

func (s *Store[T]) stateLocked() historyState {
	return historyState{
		cursor:   s.cursor,
		length:   len(s.snapshots),
		revision: s.revisions[s.cursor],
	}
}

// detach copies value when snapshot cloning is enabled.
func (s *Store[T]) detach(value T) T {
	if !s.cfg.cloneSnapshots {
		return value
	}
	return clone.Value(value)
}
