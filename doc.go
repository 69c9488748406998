// Package history provides a linear undo/redo history over arbitrary values.
//
// A Store holds a non-empty sequence of snapshots and a cursor:
//
//	store := history.New(Document{})
//	store.Commit(Document{Summary: "A"})
//	store.Update(func(prev Document) Document {
//		prev.Summary = "B"
//		return prev
//	})
//	store.Undo() // Summary "A"
//	store.Redo() // Summary "B"
//
// # Commits
//
// A commit whose value is structurally equal to the current snapshot is a
// no-op, so re-setting an unchanged form field never pollutes the history.
// Equality defaults to JSONEqual and can be replaced with WithEqual. Any other
// commit discards the redo tail, appends the value and moves the cursor to it.
// Debouncing rapid edits is the caller's job: one commit call produces at most
// one history entry.
//
// # Reset
//
// Reset collapses the history to the value passed to New, not the current
// one. It is meant to run when the owning session ends.
//
// # Bounds
//
// History is unbounded by default. WithMaxEntries evicts the oldest snapshots
// once the bound is exceeded; undoing all the way back then stops at the
// oldest retained snapshot instead of the initial value.
//
// # Ownership
//
// Callers must not mutate values returned by Current in place; derive a new
// value and commit it. WithSnapshotCloning enforces this with deep copies for
// plain data types.
//
// # Observability
//
// WithLogger receives a LogEvent per operation. WithActivityHooks fans state
// changes out to pkg/activity hooks as history.commit, history.undo,
// history.redo and history.reset events.
package history
