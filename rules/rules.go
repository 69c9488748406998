// Package rules evaluates expressions against history snapshots.
//
// Snapshots are exposed to expressions as top-level variables: a snapshot
// converted with SnapshotMap contributes one variable per top-level key, next
// to the reserved now, args and metadata bindings. Three engines share the
// Evaluator interface:
//
//	rules.NewExprEvaluator() // github.com/expr-lang/expr
//	rules.NewCELEvaluator()  // github.com/google/cel-go
//	rules.NewJSEvaluator()   // github.com/dop251/goja, needs -tags js_eval
//
// Compiled programs can be shared through a ProgramCache and custom functions
// through a FunctionRegistry.
package rules

import (
	"encoding/json"
	"fmt"
	"time"
)

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// RuleContext carries the inputs of one evaluation.
type RuleContext struct {
	Snapshot map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	if ctx.Now == nil {
		return time.Now()
	}
	return *ctx.Now
}

// bindings returns the variables visible to an expression. Snapshot keys
// never shadow the reserved names.
func (ctx RuleContext) bindings() map[string]any {
	env := make(map[string]any, len(ctx.Snapshot)+3)
	for key, value := range ctx.Snapshot {
		env[key] = value
	}
	env["now"] = ctx.timestamp()
	env["args"] = ctx.Args
	env["metadata"] = ctx.Metadata
	return env
}

// SnapshotMap converts any JSON-serialisable value into the generic map form
// the engines read, so struct snapshots are addressed by their JSON keys.
func SnapshotMap(value any) (map[string]any, error) {
	if value == nil {
		return map[string]any{}, nil
	}
	if m, ok := value.(map[string]any); ok {
		return m, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("rules: encode snapshot: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("rules: snapshot of %T is not an object: %w", value, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// EngineName reports which engine backs an evaluator.
func EngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return EngineExpr
	case *celEvaluator:
		return EngineCEL
	default:
		if jsEvaluatorType(e) {
			return EngineJS
		}
		return "custom"
	}
}

// Engine identifiers accepted by New.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// New constructs the evaluator for engine. An empty engine selects expr.
func New(engine string, cache ProgramCache, registry *FunctionRegistry) (Evaluator, error) {
	switch engine {
	case "", EngineExpr:
		return NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(registry)), nil
	case EngineCEL:
		return NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(registry)), nil
	case EngineJS:
		evaluator := NewJSEvaluator(JSWithProgramCache(cache), JSWithFunctionRegistry(registry))
		if evaluator == nil {
			return nil, ErrEngineUnavailable
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("rules: unknown engine %q", engine)
	}
}
