package history

import (
	"context"
	"time"

	"github.com/goliatone/go-history/pkg/activity"
)

// WithActivityHooks emits an activity event for every state change. Nil hooks
// are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	emitter := activity.NewEmitter(hooks, activity.Config{Enabled: true})
	return func(cfg *config) {
		cfg.emitter = emitter
	}
}

// WithActivityEmitter uses a preconfigured emitter, e.g. one with a custom
// channel or one that is disabled by configuration.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(cfg *config) {
		cfg.emitter = emitter
	}
}

// WithObject names the tracked object in activity events, e.g. ("resume", id).
func WithObject(objectType, objectID string) Option {
	return func(cfg *config) {
		cfg.identity.ObjectType = objectType
		cfg.identity.ObjectID = objectID
	}
}

// WithActor attributes activity events to an actor, user and tenant.
func WithActor(actorID, userID, tenantID string) Option {
	return func(cfg *config) {
		cfg.identity.ActorID = actorID
		cfg.identity.UserID = userID
		cfg.identity.TenantID = tenantID
	}
}

// observe logs every operation and emits activity for the ones that changed
// state. Hook failures are logged, never returned.
func (s *Store[T]) observe(op Op, accepted bool, state historyState, duration time.Duration, err error) {
	s.cfg.logger.LogHistory(LogEvent{
		Op:         op,
		Accepted:   accepted,
		Cursor:     state.cursor,
		Len:        state.length,
		RevisionID: state.revision.ID,
		Label:      state.revision.Label,
		Duration:   duration,
		Err:        err,
	})
	if !accepted || !s.cfg.emitter.Enabled() {
		return
	}

	input := s.cfg.identity
	input.RevisionID = state.revision.ID
	input.Label = state.revision.Label
	input.Seq = state.revision.Seq
	input.Cursor = state.cursor
	input.Length = state.length
	input.OccurredAt = s.cfg.clock()

	var event activity.Event
	switch op {
	case OpCommit:
		event = activity.BuildCommitEvent(input)
	case OpUndo:
		event = activity.BuildUndoEvent(input)
	case OpRedo:
		event = activity.BuildRedoEvent(input)
	case OpReset:
		event = activity.BuildResetEvent(input)
	default:
		return
	}

	if emitErr := s.cfg.emitter.Emit(context.Background(), event); emitErr != nil {
		s.cfg.logger.LogHistory(LogEvent{
			Op:         op,
			Accepted:   accepted,
			Cursor:     state.cursor,
			Len:        state.length,
			RevisionID: state.revision.ID,
			Label:      state.revision.Label,
			Err:        emitErr,
		})
	}
}
