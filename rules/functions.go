package rules

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Function is a callable exposed to expressions.
type Function func(args ...any) (any, error)

var (
	// ErrFunctionExists is returned when a name is registered twice.
	ErrFunctionExists = errors.New("rules: function already registered")
	// ErrFunctionNotFound is returned by Call for unknown names.
	ErrFunctionNotFound = errors.New("rules: function not registered")
)

// FunctionRegistry holds the custom functions available to every engine.
// Names are case-insensitive and exposed to expr and goja in lower case; CEL
// reaches them through call(name, [args]). The zero value is ready to use
// and a nil registry has no functions.
type FunctionRegistry struct {
	mu  sync.RWMutex
	fns map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{}
}

// Register adds fn under name.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "":
		return fmt.Errorf("rules: register: empty function name")
	case fn == nil:
		return fmt.Errorf("rules: register %q: nil function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.fns[key]; taken {
		return fmt.Errorf("%w: %q", ErrFunctionExists, key)
	}
	if r.fns == nil {
		r.fns = map[string]Function{}
	}
	r.fns[key] = fn
	return nil
}

// Merge registers every function of other that r does not already hold.
// Functions already in r win.
func (r *FunctionRegistry) Merge(other *FunctionRegistry) {
	if other == nil || other == r {
		return
	}
	other.mu.RLock()
	incoming := maps.Clone(other.fns)
	other.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fns == nil {
		r.fns = map[string]Function{}
	}
	for key, fn := range incoming {
		if _, taken := r.fns[key]; !taken {
			r.fns[key] = fn
		}
	}
}

// Clone returns an independent registry holding the same functions.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{fns: maps.Clone(r.fns)}
}

// Lookup returns the function registered under name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[strings.ToLower(name)]
	return fn, ok
}

// Call runs the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}
	return fn(args...)
}

// Names lists the registered names in lower case, sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.fns))
}
