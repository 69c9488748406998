// Package state persists history snapshots outside the process.
//
// A Store loads and saves one snapshot per Ref. MemoryStore keeps records in
// process; FileStore writes one JSON or YAML file per Ref using an atomic
// temp-file rename. Persister binds a Store and a Ref to a *history.Store:
//
//	p := state.NewPersister[resume.Theme](store, state.Ref{Namespace: "resume", Key: "theme"})
//	meta, err := p.Save(ctx, h)    // writes h.Current(), SnapshotID = h.Revision().ID
//	meta, err = p.Restore(ctx, h)  // loads and commits, so restoring is undoable
//
// Optimistic concurrency: when Meta.ETag is supplied to Save it must match the
// stored ETag, otherwise ErrETagMismatch is returned. Stores mint a new ETag on
// every successful save.
package state
