package resume

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultAnalysisDelay is how long the scheduler waits for edits to settle.
const DefaultAnalysisDelay = 1500 * time.Millisecond

type Suggestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Analysis is the scored feedback for one document.
type Analysis struct {
	Score       int          `json:"score"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Analyzer scores a document, typically by calling an external service.
type Analyzer interface {
	Analyze(ctx context.Context, doc Document) (Analysis, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, doc Document) (Analysis, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, doc Document) (Analysis, error) {
	return f(ctx, doc)
}

func failedAnalysis() Analysis {
	return Analysis{Suggestions: []Suggestion{{ID: "err-sugg", Text: "Could not fetch AI suggestions."}}}
}

// Scheduler debounces analysis requests. Only the most recently scheduled
// document is analysed; scheduling again cancels both the pending timer and
// any analysis still in flight.
type Scheduler struct {
	analyzer Analyzer
	delay    time.Duration
	base     context.Context
	onResult func(Analysis, error)

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	result  Analysis
	err     error
	stopped bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithResultHook is called after every completed analysis that was not
// superseded.
func WithResultHook(fn func(Analysis, error)) SchedulerOption {
	return func(s *Scheduler) {
		s.onResult = fn
	}
}

// NewScheduler builds a scheduler whose analyses derive their context from
// ctx. A non-positive delay selects DefaultAnalysisDelay.
func NewScheduler(ctx context.Context, analyzer Analyzer, delay time.Duration, opts ...SchedulerOption) *Scheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	if delay <= 0 {
		delay = DefaultAnalysisDelay
	}
	s := &Scheduler{analyzer: analyzer, delay: delay, base: ctx}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Schedule queues doc for analysis and reports whether it did. Documents
// without a contact name are not analysed.
func (s *Scheduler) Schedule(doc Document) bool {
	if s == nil || s.analyzer == nil || strings.TrimSpace(doc.Contact.Name) == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	gen := s.supersedeLocked()
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(gen, doc)
	})
	return true
}

// Result returns the latest completed analysis.
func (s *Scheduler) Result() (Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

// Clear drops pending work and the last result.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	s.result, s.err = Analysis{}, nil
}

// Stop drops pending work; later Schedule calls are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	s.stopped = true
}

func (s *Scheduler) supersedeLocked() uint64 {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return s.gen
}

func (s *Scheduler) run(gen uint64, doc Document) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	var (
		result Analysis
		err    error
	)
	if doc.ProfessionalSummary != "" || len(doc.WorkExperience) > 0 {
		result, err = s.analyzer.Analyze(ctx, doc)
		if err != nil {
			result = failedAnalysis()
		}
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.result, s.err = result, err
	s.cancel = nil
	hook := s.onResult
	s.mu.Unlock()

	if hook != nil {
		hook(result, err)
	}
}
