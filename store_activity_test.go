package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-history/pkg/activity"
)

func TestActivityHooksReceiveStateChanges(t *testing.T) {
	capture := &activity.CaptureHook{}
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := New("A",
		WithActivityHooks(activity.Hooks{capture, nil}),
		WithObject("resume", "doc-1"),
		WithActor("actor-1", "user-1", "tenant-1"),
		WithClock(func() time.Time { return at }),
		WithIDGenerator(sequentialIDs()),
	)

	store.Commit("B", WithLabel("Edit summary"))
	store.Commit("B")
	store.Undo()
	store.Undo()
	store.Redo()
	store.Redo()
	store.Reset()

	want := []string{activity.VerbCommit, activity.VerbUndo, activity.VerbRedo, activity.VerbReset}
	got := capture.Verbs()
	if len(got) != len(want) {
		t.Fatalf("expected verbs %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	commit := capture.Events[0]
	if commit.ObjectType != "resume" || commit.ObjectID != "doc-1" {
		t.Fatalf("unexpected object: %+v", commit)
	}
	if commit.ActorID != "actor-1" || commit.UserID != "user-1" || commit.TenantID != "tenant-1" {
		t.Fatalf("unexpected identity: %+v", commit)
	}
	if commit.Channel != activity.DefaultChannel {
		t.Fatalf("expected default channel, got %q", commit.Channel)
	}
	if commit.Position.RevisionID != "rev-2" || commit.Position.Label != "Edit summary" {
		t.Fatalf("unexpected commit position: %+v", commit.Position)
	}
	if commit.Position.Cursor != 1 || commit.Position.Length != 2 {
		t.Fatalf("unexpected commit position: %+v", commit.Position)
	}
	if !commit.OccurredAt.Equal(at) {
		t.Fatalf("expected clock timestamp, got %v", commit.OccurredAt)
	}
	undo := capture.Events[1]
	if undo.Position.Cursor != 0 || undo.Position.RevisionID != "rev-1" {
		t.Fatalf("unexpected undo position: %+v", undo.Position)
	}
}

func TestActivityHookFailureIsLoggedNotReturned(t *testing.T) {
	boom := errors.New("hook down")
	var logged []LogEvent
	store := New(1,
		WithActivityHooks(activity.Hooks{activity.HookFunc(func(context.Context, activity.Event) error {
			return boom
		})}),
		WithLogger(LoggerFunc(func(event LogEvent) { logged = append(logged, event) })),
	)

	if !store.Commit(2) {
		t.Fatalf("expected commit to succeed despite hook failure")
	}
	if store.Current() != 2 {
		t.Fatalf("expected 2, got %d", store.Current())
	}
	if len(logged) != 2 {
		t.Fatalf("expected operation log and hook failure log, got %+v", logged)
	}
	if !errors.Is(logged[1].Err, boom) {
		t.Fatalf("expected hook error to be logged, got %v", logged[1].Err)
	}
}

func TestDisabledEmitterSkipsHooks(t *testing.T) {
	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: false})
	store := New(1, WithActivityEmitter(emitter))
	store.Commit(2)
	store.Undo()
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events from disabled emitter, got %d", len(capture.Events))
	}
}
