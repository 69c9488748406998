package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/goliatone/go-history/rules"
	"gopkg.in/yaml.v3"
)

// Check is a named readiness rule. Expr is evaluated with the document's
// top-level JSON keys as variables and args.score holding the latest analysis
// score. Engine selects the rules engine; empty means the checker default.
type Check struct {
	ID     string `yaml:"id" json:"id"`
	Text   string `yaml:"text" json:"text"`
	Expr   string `yaml:"expr" json:"expr"`
	Engine string `yaml:"engine,omitempty" json:"engine,omitempty"`
}

// CheckResult is the outcome of one check. A check whose expression fails or
// does not yield a boolean is reported as not passed with Err set.
type CheckResult struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Passed bool   `json:"passed"`
	Err    error  `json:"-"`
}

// DefaultChecks returns the built-in rule set, written for the expr engine
// and the helpers in Functions.
func DefaultChecks() []Check {
	return []Check{
		{ID: "check-1", Text: "Uses strong action verbs", Expr: `args.score > 60`},
		{ID: "check-2", Text: "Includes quantifiable results", Expr: `args.score > 75`},
		{ID: "check-3", Text: "Summary is concise and impactful", Expr: `len(professionalSummary) > 50 && words(professionalSummary) < 100`},
		{ID: "check-4", Text: "Contains relevant keywords for the role", Expr: `args.score > 80`},
		{ID: "check-5", Text: "Formatted for ATS readability", Expr: `true`},
		{ID: "check-6", Text: "Contact details are complete", Expr: `contact.name != "" && contact.email != ""`},
		{ID: "check-7", Text: "Every role lists achievements", Expr: `bullets(workExperience) >= len(workExperience)`},
	}
}

type checkFile struct {
	Checks []Check `yaml:"checks"`
}

// LoadChecks reads a YAML rule set of the form
//
//	checks:
//	  - id: summary-length
//	    text: Summary is present
//	    expr: len(professionalSummary) > 0
func LoadChecks(r io.Reader) ([]Check, error) {
	var file checkFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("resume: check file is empty")
		}
		return nil, fmt.Errorf("resume: decode checks: %w", err)
	}
	seen := make(map[string]struct{}, len(file.Checks))
	for i, check := range file.Checks {
		if check.ID == "" || check.Expr == "" {
			return nil, fmt.Errorf("resume: check %d needs an id and an expr", i)
		}
		if _, dup := seen[check.ID]; dup {
			return nil, fmt.Errorf("resume: duplicate check id %q", check.ID)
		}
		seen[check.ID] = struct{}{}
	}
	return file.Checks, nil
}

// Checker evaluates checks against documents. Compiled programs are shared
// across runs through a program cache.
type Checker struct {
	checks   []Check
	engine   string
	cache    rules.ProgramCache
	registry *rules.FunctionRegistry
	logger   rules.Logger

	mu         sync.Mutex
	evaluators map[string]rules.Evaluator
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithDefaultEngine selects the engine for checks that name none.
func WithDefaultEngine(engine string) CheckerOption {
	return func(c *Checker) {
		c.engine = engine
	}
}

// WithEvaluator pins the evaluator used for engine.
func WithEvaluator(engine string, evaluator rules.Evaluator) CheckerOption {
	return func(c *Checker) {
		if evaluator != nil {
			c.evaluators[engine] = evaluator
		}
	}
}

// WithFunctions exposes registry functions to check expressions next to
// Functions. A registry entry replaces a built-in helper of the same name.
func WithFunctions(registry *rules.FunctionRegistry) CheckerOption {
	return func(c *Checker) {
		c.registry = registry
	}
}

// WithRulesLogger reports every evaluation to logger.
func WithRulesLogger(logger rules.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker builds a Checker over checks. Expressions run on the expr engine
// unless WithDefaultEngine or a check's Engine says otherwise.
func NewChecker(checks []Check, opts ...CheckerOption) *Checker {
	c := &Checker{
		checks:     append([]Check(nil), checks...),
		engine:     rules.EngineExpr,
		cache:      rules.NewMemoryCache(),
		evaluators: map[string]rules.Evaluator{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	registry := c.registry.Clone()
	if registry == nil {
		registry = rules.NewFunctionRegistry()
	}
	registry.Merge(Functions())
	c.registry = registry
	return c
}

// Checks returns the configured rule set.
func (c *Checker) Checks() []Check {
	return append([]Check(nil), c.checks...)
}

// Run evaluates every check against doc. It stops early, returning the
// results so far and ctx.Err(), when ctx is cancelled.
func (c *Checker) Run(ctx context.Context, doc Document, analysis Analysis) ([]CheckResult, error) {
	snapshot, err := rules.SnapshotMap(doc)
	if err != nil {
		return nil, err
	}
	ruleCtx := rules.RuleContext{
		Snapshot: snapshot,
		Args:     map[string]any{"score": analysis.Score},
	}

	results := make([]CheckResult, 0, len(c.checks))
	for _, check := range c.checks {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := CheckResult{ID: check.ID, Text: check.Text}
		evaluator, err := c.evaluator(check.Engine)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}
		value, err := rules.Evaluate(evaluator, ruleCtx, check.Expr, c.logger)
		switch passed, ok := value.(bool); {
		case err != nil:
			result.Err = err
		case !ok:
			result.Err = fmt.Errorf("resume: check %q returned %T, want bool", check.ID, value)
		default:
			result.Passed = passed
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *Checker) evaluator(engine string) (rules.Evaluator, error) {
	if engine == "" {
		engine = c.engine
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if evaluator, ok := c.evaluators[engine]; ok {
		return evaluator, nil
	}
	evaluator, err := rules.New(engine, c.cache, c.registry)
	if err != nil {
		return nil, err
	}
	c.evaluators[engine] = evaluator
	return evaluator, nil
}
