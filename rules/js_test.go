//go:build js_eval

package rules

import "testing"

func TestJSEvaluatorReadsSnapshot(t *testing.T) {
	evaluator := NewJSEvaluator(JSWithProgramCache(NewMemoryCache()))
	if EngineName(evaluator) != EngineJS {
		t.Fatalf("expected js engine, got %s", EngineName(evaluator))
	}
	got, err := evaluator.Evaluate(RuleContext{
		Snapshot: map[string]any{"skills": []any{"go", "sql"}},
	}, `skills.length >= 2`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}
}
