package resume

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-history/rules"
)

// Functions returns the helpers every Checker exposes to check expressions:
//
//	words(text)          number of whitespace separated words
//	bullets(experience)  responsibilities across all work experience entries
//
// Missing values count as zero.
func Functions() *rules.FunctionRegistry {
	registry := rules.NewFunctionRegistry()
	_ = registry.Register("words", wordsFunc)
	_ = registry.Register("bullets", bulletsFunc)
	return registry
}

func wordsFunc(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("resume: words expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return 0, nil
	case string:
		return len(strings.Fields(v)), nil
	default:
		return nil, fmt.Errorf("resume: words expects text, got %T", v)
	}
}

func bulletsFunc(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("resume: bullets expects 1 argument, got %d", len(args))
	}
	if args[0] == nil {
		return 0, nil
	}
	entries, ok := args[0].([]any)
	if !ok {
		return nil, fmt.Errorf("resume: bullets expects a list of entries, got %T", args[0])
	}
	total := 0
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if items, ok := fields["responsibilities"].([]any); ok {
			total += len(items)
		}
	}
	return total, nil
}
