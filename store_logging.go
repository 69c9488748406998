package history

import "time"

// LogEvent describes one history operation for logging.
type LogEvent struct {
	Op         Op
	Accepted   bool
	Cursor     int
	Len        int
	RevisionID string
	Label      string
	Duration   time.Duration
	Err        error
}

// Logger records history operations.
type Logger interface {
	LogHistory(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogHistory implements Logger.
func (f LoggerFunc) LogHistory(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogHistory(LogEvent) {}

// WithLogger attaches a logger to the store. A nil logger disables logging.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
