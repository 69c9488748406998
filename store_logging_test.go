package history

import (
	"errors"
	"testing"
)

func TestLoggerReceivesEveryOperation(t *testing.T) {
	var events []LogEvent
	store := New("A", WithLogger(LoggerFunc(func(event LogEvent) {
		events = append(events, event)
	})))

	store.Commit("B", WithLabel("first edit"))
	store.Commit("B")
	store.Undo()
	store.Undo()
	store.Redo()
	store.Reset()
	_, _ = store.TryUpdate(func(string) (string, error) { return "", errors.New("nope") })

	want := []struct {
		op       Op
		accepted bool
		cursor   int
		length   int
		failed   bool
	}{
		{OpCommit, true, 1, 2, false},
		{OpCommit, false, 1, 2, false},
		{OpUndo, true, 0, 2, false},
		{OpUndo, false, 0, 2, false},
		{OpRedo, true, 1, 2, false},
		{OpReset, true, 0, 1, false},
		{OpCommit, false, 0, 1, true},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d log events, got %d: %+v", len(want), len(events), events)
	}
	for i, w := range want {
		got := events[i]
		if got.Op != w.op || got.Accepted != w.accepted || got.Cursor != w.cursor || got.Len != w.length {
			t.Fatalf("event %d: expected %+v, got %+v", i, w, got)
		}
		if (got.Err != nil) != w.failed {
			t.Fatalf("event %d: unexpected error %v", i, got.Err)
		}
		if got.RevisionID == "" {
			t.Fatalf("event %d: expected revision id", i)
		}
	}
	if events[0].Label != "first edit" {
		t.Fatalf("expected label on commit log, got %q", events[0].Label)
	}
}

func TestWithNilLoggerIsSafe(t *testing.T) {
	store := New(1, WithLogger(nil))
	store.Commit(2)
	store.Undo()
	if store.Current() != 1 {
		t.Fatalf("expected 1, got %d", store.Current())
	}
	var fn LoggerFunc
	fn.LogHistory(LogEvent{})
}
