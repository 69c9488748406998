package state

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-history/internal/clone"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store keyed by Ref.Identifier. Snapshots are
// deep-copied on save and load.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	records map[string]memoryRecord[T]
	clock   func() time.Time
}

type memoryRecord[T any] struct {
	snapshot T
	meta     Meta
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{
		records: map[string]memoryRecord[T]{},
		clock:   time.Now,
	}
}

func (s *MemoryStore[T]) Load(ctx context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, Meta{}, false, err
	}
	key, err := ref.Identifier()
	if err != nil {
		return zero, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return zero, Meta{}, false, nil
	}
	return clone.Value(record.snapshot), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore[T]) Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkETag(meta.ETag, s.records[key].meta.ETag); err != nil {
		return Meta{}, err
	}
	saved := mergeMeta(meta, Meta{ETag: uuid.NewString()})
	if saved.UpdatedAt.IsZero() {
		saved.UpdatedAt = s.clock()
	}
	s.records[key] = memoryRecord[T]{snapshot: clone.Value(snapshot), meta: saved}
	return cloneMeta(saved), nil
}

// Delete removes the record for ref, reporting whether one existed.
func (s *MemoryStore[T]) Delete(_ context.Context, ref Ref) (bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[key]
	delete(s.records, key)
	return ok, nil
}
