package usersink

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-history/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts history activity events to a go-users ActivitySink.
//
// When Verbs is non-empty only the listed verbs are forwarded, which lets
// callers record commits and resets without logging every undo/redo click.
// Channel, when set, replaces the channel of every forwarded record.
type Hook struct {
	Sink    usertypes.ActivitySink
	Verbs   []string
	Channel string
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if !normalized.Routable() || !h.accepts(normalized.Verb) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	record := Record(normalized)
	if channel := strings.TrimSpace(h.Channel); channel != "" {
		record.Channel = channel
	}
	return h.Sink.Log(ctx, record)
}

// Record converts a history event into the go-users activity shape. The
// timeline position is flattened into Data under cursor, length, seq,
// revision_id and label. Identity strings that are not UUIDs map to uuid.Nil.
func Record(event activity.Event) usertypes.ActivityRecord {
	event = activity.NormalizeEvent(event)
	channel := event.Channel
	if channel == "" {
		channel = activity.DefaultChannel
	}
	return usertypes.ActivityRecord{
		ActorID:    parseUUID(event.ActorID),
		UserID:     parseUUID(event.UserID),
		TenantID:   parseUUID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    channel,
		Data:       event.Data(),
		OccurredAt: event.OccurredAt,
	}
}

func (h Hook) accepts(verb string) bool {
	if len(h.Verbs) == 0 {
		return true
	}
	return slices.ContainsFunc(h.Verbs, func(candidate string) bool {
		return strings.TrimSpace(candidate) == verb
	})
}

func parseUUID(input string) uuid.UUID {
	input = strings.TrimSpace(input)
	if input == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(input)
	if err != nil {
		return uuid.Nil
	}
	return id
}
