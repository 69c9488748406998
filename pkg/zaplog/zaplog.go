// Package zaplog adapts a *zap.Logger to the history and rules logger
// interfaces.
package zaplog

import (
	"fmt"
	"strings"

	history "github.com/goliatone/go-history"
	"github.com/goliatone/go-history/rules"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes history and evaluation events as structured zap entries.
// Successful events are logged at debug level, failures at warn.
type Logger struct {
	log *zap.Logger
}

var (
	_ history.Logger = (*Logger)(nil)
	_ rules.Logger   = (*Logger)(nil)
)

// New wraps log. A nil log discards everything.
func New(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log}
}

// Named returns a logger whose entries carry an additional name segment.
func (l *Logger) Named(name string) *Logger {
	return &Logger{log: l.log.Named(name)}
}

// LogHistory implements history.Logger.
func (l *Logger) LogHistory(event history.LogEvent) {
	fields := []zap.Field{
		zap.String("op", string(event.Op)),
		zap.Bool("accepted", event.Accepted),
		zap.Int("cursor", event.Cursor),
		zap.Int("len", event.Len),
		zap.Duration("duration", event.Duration),
	}
	if event.RevisionID != "" {
		fields = append(fields, zap.String("revision_id", event.RevisionID))
	}
	if event.Label != "" {
		fields = append(fields, zap.String("label", event.Label))
	}
	if event.Err != nil {
		l.log.Warn("history operation failed", append(fields, zap.Error(event.Err))...)
		return
	}
	if event.Accepted {
		l.log.Debug("history changed", fields...)
		return
	}
	l.log.Debug("history unchanged", fields...)
}

// LogEvaluation implements rules.Logger.
func (l *Logger) LogEvaluation(event rules.LogEvent) {
	fields := []zap.Field{
		zap.String("engine", event.Engine),
		zap.String("expr", event.Expr),
		zap.Duration("duration", event.Duration),
	}
	if event.Err != nil {
		l.log.Warn("rule evaluation failed", append(fields, zap.Error(event.Err))...)
		return
	}
	l.log.Debug("rule evaluated", fields...)
}

// ParseLevel converts one of debug, info, warn, error into a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("zaplog: invalid log level %q", level)
	}
}

// NewConsole builds a console logger writing to stderr at level.
func NewConsole(level string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
