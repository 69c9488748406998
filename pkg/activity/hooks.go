package activity

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// Position locates an event inside a history timeline.
type Position struct {
	RevisionID string
	Label      string
	Seq        int
	Cursor     int
	Length     int
}

// Event describes one history state change that can be fanned out to hooks.
// Identity fields are plain strings so callers are not tied to a UUID type.
// Metadata carries caller supplied extras; the timeline position lives in
// Position.
type Event struct {
	Verb       string
	ActorID    string
	UserID     string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	Position   Position
	Metadata   map[string]any
	OccurredAt time.Time
}

// Routable reports whether the event names a verb and an object.
func (e Event) Routable() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// Data flattens metadata and position into one map keyed the way sinks store
// them. Position keys win over metadata keys of the same name.
func (e Event) Data() map[string]any {
	data := make(map[string]any, len(e.Metadata)+5)
	maps.Copy(data, e.Metadata)
	data["cursor"] = e.Position.Cursor
	data["length"] = e.Position.Length
	data["seq"] = e.Position.Seq
	if e.Position.RevisionID != "" {
		data["revision_id"] = e.Position.RevisionID
	}
	if e.Position.Label != "" {
		data["label"] = e.Position.Label
	}
	return data
}

// ActivityHook receives normalized activity events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans out events to zero or more hooks.
type Hooks []ActivityHook

// Enabled reports whether there is at least one non-nil hook.
func (h Hooks) Enabled() bool {
	for _, hook := range h {
		if hook != nil {
			return true
		}
	}
	return false
}

// Notify forwards the event to every hook. Each failure is tagged with the
// hook's index and verb before the errors are joined. Events that are not
// routable are dropped.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if !h.Enabled() {
		return nil
	}

	normalized := NormalizeEvent(event)
	if !normalized.Routable() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for i, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, fmt.Errorf("activity: hook %d %s: %w", i, normalized.Verb, err))
		}
	}
	return errors.Join(errs...)
}

// NormalizeEvent trims identifiers and labels, clones metadata and stamps
// OccurredAt.
func NormalizeEvent(event Event) Event {
	normalized := event
	for _, field := range []*string{
		&normalized.Verb,
		&normalized.ActorID,
		&normalized.UserID,
		&normalized.TenantID,
		&normalized.ObjectType,
		&normalized.ObjectID,
		&normalized.Channel,
		&normalized.Position.RevisionID,
		&normalized.Position.Label,
	} {
		*field = strings.TrimSpace(*field)
	}
	if len(event.Metadata) > 0 {
		normalized.Metadata = maps.Clone(event.Metadata)
	} else {
		normalized.Metadata = nil
	}
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}
