//go:build !js_eval

package rules

// NewJSEvaluator returns nil unless built with the js_eval tag.
func NewJSEvaluator(opts ...JSOption) Evaluator {
	_ = applyJSOptions(opts)
	return nil
}

func jsEvaluatorType(Evaluator) bool { return false }
