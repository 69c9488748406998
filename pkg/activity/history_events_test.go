package activity

import (
	"context"
	"testing"
	"time"
)

func TestBuildCommitEventIncludesRevisionMetadata(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	input := HistoryEventInput{
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		ObjectType: " resume ",
		ObjectID:   " doc-1 ",
		RevisionID: "rev-2",
		Label:      "Update summary",
		Seq:        2,
		Cursor:     2,
		Length:     3,
		Metadata:   meta,
	}

	event := BuildCommitEvent(input)

	if event.Verb != VerbCommit {
		t.Fatalf("expected verb %s got %s", VerbCommit, event.Verb)
	}
	if event.ObjectType != "resume" || event.ObjectID != "doc-1" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" || event.UserID != "user" || event.TenantID != "tenant" {
		t.Fatalf("unexpected identity fields: %+v", event)
	}
	want := Position{RevisionID: "rev-2", Label: "Update summary", Seq: 2, Cursor: 2, Length: 3}
	if event.Position != want {
		t.Fatalf("expected position %+v, got %+v", want, event.Position)
	}
	if _, ok := event.Metadata["cursor"]; ok {
		t.Fatalf("expected position kept out of metadata, got %+v", event.Metadata)
	}
	if event.Metadata["custom"] != "value" {
		t.Fatalf("expected custom metadata preserved, got %+v", event.Metadata)
	}
	event.Metadata["custom"] = "changed"
	if meta["custom"] != "value" {
		t.Fatalf("expected input metadata untouched, got %+v", meta)
	}
}

func TestBuildEventObjectFallbacks(t *testing.T) {
	event := BuildUndoEvent(HistoryEventInput{RevisionID: "rev-9"})
	if event.ObjectType != DefaultObjectType {
		t.Fatalf("expected default object type, got %q", event.ObjectType)
	}
	if event.ObjectID != "rev-9" {
		t.Fatalf("expected revision id fallback, got %q", event.ObjectID)
	}

	event = BuildResetEvent(HistoryEventInput{})
	if event.ObjectID != DefaultObjectType {
		t.Fatalf("expected object type fallback, got %q", event.ObjectID)
	}
	if _, ok := event.Data()["revision_id"]; ok {
		t.Fatalf("expected no revision_id without a revision, got %+v", event.Data())
	}
}

func TestBuiltEventsFlowThroughEmitter(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	events := []Event{
		BuildCommitEvent(HistoryEventInput{ObjectID: "doc", OccurredAt: at}),
		BuildUndoEvent(HistoryEventInput{ObjectID: "doc", OccurredAt: at}),
		BuildRedoEvent(HistoryEventInput{ObjectID: "doc", OccurredAt: at}),
		BuildResetEvent(HistoryEventInput{ObjectID: "doc", OccurredAt: at}),
	}
	for _, event := range events {
		if err := emitter.Emit(context.Background(), event); err != nil {
			t.Fatalf("emit %s: %v", event.Verb, err)
		}
	}

	want := []string{VerbCommit, VerbUndo, VerbRedo, VerbReset}
	got := capture.Verbs()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s got %s", i, want[i], got[i])
		}
	}
	for _, event := range capture.Events {
		if event.Channel != DefaultChannel {
			t.Fatalf("expected default channel, got %q", event.Channel)
		}
		if !event.OccurredAt.Equal(at) {
			t.Fatalf("expected timestamp preserved, got %v", event.OccurredAt)
		}
	}
}
