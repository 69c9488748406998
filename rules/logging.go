package rules

import "time"

// LogEvent describes an evaluation attempt for logging.
type LogEvent struct {
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
}

// Logger records evaluator events.
type Logger interface {
	LogEvaluation(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogEvaluation implements Logger.
func (f LoggerFunc) LogEvaluation(event LogEvent) {
	if f != nil {
		f(event)
	}
}

// NopLogger discards evaluator events.
type NopLogger struct{}

func (NopLogger) LogEvaluation(LogEvent) {}

// Evaluate runs expr on evaluator, wrapping failures in *EvaluationError and
// reporting the attempt to logger.
func Evaluate(evaluator Evaluator, ctx RuleContext, expr string, logger Logger) (any, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	engine := EngineName(evaluator)
	if evaluator == nil {
		err := &EvaluationError{Engine: engine, Expr: expr, Err: ErrEngineUnavailable}
		logger.LogEvaluation(LogEvent{Engine: engine, Expr: expr, Err: err})
		return nil, err
	}
	start := time.Now()
	value, err := evaluator.Evaluate(ctx, expr)
	err = wrapEvaluationError(engine, expr, err)
	logger.LogEvaluation(LogEvent{
		Engine:   engine,
		Expr:     expr,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
