package history

import (
	"sync"
	"time"

	"github.com/goliatone/go-history/pkg/activity"
	"github.com/google/uuid"
)

// Store is a linear undo/redo history over values of type T.
//
// The snapshot sequence is never empty and the cursor always points at a valid
// snapshot. Committing a value that is structurally equal to the current
// snapshot is a no-op; committing anything else discards the redo tail.
type Store[T any] struct {
	mu sync.RWMutex

	initial   T
	snapshots []T
	revisions []Revision
	cursor    int

	// seq numbers accepted commits since the last reset.
	seq int
	// generation changes on every mutation and backs optimistic updates.
	generation uint64

	cfg config
}

// Revision describes one snapshot in the history.
type Revision struct {
	ID          string    `json:"id"`
	Seq         int       `json:"seq"`
	Label       string    `json:"label,omitempty"`
	CommittedAt time.Time `json:"committed_at"`
}

// Op names a history operation in log events.
type Op string

const (
	OpCommit Op = "commit"
	OpUndo   Op = "undo"
	OpRedo   Op = "redo"
	OpReset  Op = "reset"
)

// EqualFunc reports whether two snapshots are structurally equal.
type EqualFunc func(a, b any) bool

// Option configures a Store.
type Option func(*config)

type config struct {
	equal          EqualFunc
	maxEntries     int
	cloneSnapshots bool
	logger         Logger
	emitter        *activity.Emitter
	identity       activity.HistoryEventInput
	clock          func() time.Time
	newID          func() string
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.equal == nil {
		cfg.equal = JSONEqual
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	if cfg.clock == nil {
		cfg.clock = time.Now
	}
	if cfg.newID == nil {
		cfg.newID = uuid.NewString
	}
	return cfg
}

// WithEqual replaces the equality policy used to detect no-op commits.
func WithEqual(fn EqualFunc) Option {
	return func(cfg *config) {
		cfg.equal = fn
	}
}

// WithMaxEntries bounds the number of retained snapshots. The oldest snapshots
// are evicted once the bound is exceeded. Zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(cfg *config) {
		if n < 0 {
			n = 0
		}
		cfg.maxEntries = n
	}
}

// WithSnapshotCloning deep-copies values on commit and on read so callers can
// never alias a stored snapshot. Structs with unexported fields, such as
// time.Time, are copied whole; their unexported pointers stay shared.
func WithSnapshotCloning(enabled bool) Option {
	return func(cfg *config) {
		cfg.cloneSnapshots = enabled
	}
}

// WithClock overrides the time source used to stamp revisions.
func WithClock(clock func() time.Time) Option {
	return func(cfg *config) {
		cfg.clock = clock
	}
}

// WithIDGenerator overrides the revision ID generator (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(cfg *config) {
		cfg.newID = fn
	}
}

// CommitOption configures a single commit.
type CommitOption func(*commitConfig)

type commitConfig struct {
	label string
}

// WithLabel attaches a human readable label to the revision created by a
// commit, e.g. "Change theme".
func WithLabel(label string) CommitOption {
	return func(cfg *commitConfig) {
		cfg.label = label
	}
}

func applyCommitOptions(opts []CommitOption) commitConfig {
	cfg := commitConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
