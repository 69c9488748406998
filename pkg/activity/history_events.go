package activity

import (
	"maps"
	"strings"
	"time"
)

// Verbs emitted for history state changes.
const (
	VerbCommit = "history.commit"
	VerbUndo   = "history.undo"
	VerbRedo   = "history.redo"
	VerbReset  = "history.reset"
)

// DefaultObjectType is used when the caller does not name the tracked object.
const DefaultObjectType = "history"

// HistoryEventInput describes the common fields for history lifecycle events.
type HistoryEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	RevisionID string
	Label      string
	Seq        int
	Cursor     int
	Length     int
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildCommitEvent constructs an event for an accepted commit.
func BuildCommitEvent(input HistoryEventInput) Event {
	return buildHistoryEvent(VerbCommit, input)
}

// BuildUndoEvent constructs an event for a cursor move backwards.
func BuildUndoEvent(input HistoryEventInput) Event {
	return buildHistoryEvent(VerbUndo, input)
}

// BuildRedoEvent constructs an event for a cursor move forwards.
func BuildRedoEvent(input HistoryEventInput) Event {
	return buildHistoryEvent(VerbRedo, input)
}

// BuildResetEvent constructs an event for a reset to the initial snapshot.
func BuildResetEvent(input HistoryEventInput) Event {
	return buildHistoryEvent(VerbReset, input)
}

func buildHistoryEvent(verb string, input HistoryEventInput) Event {
	objectType := strings.TrimSpace(input.ObjectType)
	if objectType == "" {
		objectType = DefaultObjectType
	}
	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.RevisionID)
	}
	if objectID == "" {
		objectID = objectType
	}

	var metadata map[string]any
	if len(input.Metadata) > 0 {
		metadata = maps.Clone(input.Metadata)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Position: Position{
			RevisionID: strings.TrimSpace(input.RevisionID),
			Label:      strings.TrimSpace(input.Label),
			Seq:        input.Seq,
			Cursor:     input.Cursor,
			Length:     input.Length,
		},
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
