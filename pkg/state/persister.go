package state

import (
	"context"
	"fmt"
	"sync"

	history "github.com/goliatone/go-history"
)

// Persister saves and restores the current snapshot of a history store under
// a fixed ref, tracking the last ETag it observed.
type Persister[T any] struct {
	store Store[T]
	ref   Ref

	mu   sync.Mutex
	etag string
}

func NewPersister[T any](store Store[T], ref Ref) *Persister[T] {
	return &Persister[T]{store: store, ref: ref}
}

// Ref returns the ref the persister writes to.
func (p *Persister[T]) Ref() Ref {
	return p.ref
}

// Save writes h.Current(). The revision ID at the cursor becomes
// Meta.SnapshotID.
func (p *Persister[T]) Save(ctx context.Context, h *history.Store[T]) (Meta, error) {
	if h == nil {
		return Meta{}, fmt.Errorf("state: history store is required")
	}
	return p.SaveValue(ctx, h.Current(), h.Revision().ID)
}

// SaveValue writes value directly. After a successful save or restore, later
// saves fail with ErrETagMismatch if another writer replaced the record in
// between.
func (p *Persister[T]) SaveValue(ctx context.Context, value T, snapshotID string) (Meta, error) {
	if p.store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	saved, err := p.store.Save(ctx, p.ref, value, Meta{
		SnapshotID: snapshotID,
		ETag:       p.etag,
	})
	if err != nil {
		return Meta{}, err
	}
	p.etag = saved.ETag
	return saved, nil
}

// Restore loads the persisted snapshot and commits it to h. Restoring a value
// equal to the current snapshot leaves the history unchanged.
func (p *Persister[T]) Restore(ctx context.Context, h *history.Store[T], opts ...history.CommitOption) (Meta, error) {
	if p.store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if h == nil {
		return Meta{}, fmt.Errorf("state: history store is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	snapshot, meta, ok, err := p.store.Load(ctx, p.ref)
	if err != nil {
		return Meta{}, err
	}
	if !ok {
		return Meta{}, fmt.Errorf("%w: %s", ErrNotFound, describeRef(p.ref))
	}
	h.Commit(snapshot, opts...)
	p.etag = meta.ETag
	return meta, nil
}

// Load returns the persisted snapshot without touching any history.
func (p *Persister[T]) Load(ctx context.Context) (T, Meta, error) {
	var zero T
	if p.store == nil {
		return zero, Meta{}, fmt.Errorf("state: store is required")
	}
	snapshot, meta, ok, err := p.store.Load(ctx, p.ref)
	if err != nil {
		return zero, Meta{}, err
	}
	if !ok {
		return zero, Meta{}, fmt.Errorf("%w: %s", ErrNotFound, describeRef(p.ref))
	}
	p.mu.Lock()
	p.etag = meta.ETag
	p.mu.Unlock()
	return snapshot, meta, nil
}
