package resume

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type analysisOutcome struct {
	analysis Analysis
	err      error
}

func waitOutcome(t *testing.T, ch <-chan analysisOutcome) analysisOutcome {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for analysis")
		return analysisOutcome{}
	}
}

func hookInto(ch chan analysisOutcome) SchedulerOption {
	return WithResultHook(func(a Analysis, err error) {
		ch <- analysisOutcome{analysis: a, err: err}
	})
}

func namedDoc(name, summary string) Document {
	doc := Defaults()
	doc.Contact.Name = name
	doc.ProfessionalSummary = summary
	return doc
}

func TestSchedulerDebouncesToLatest(t *testing.T) {
	var calls atomic.Int32
	analyzer := AnalyzerFunc(func(_ context.Context, doc Document) (Analysis, error) {
		calls.Add(1)
		return Analysis{Score: len(doc.ProfessionalSummary)}, nil
	})
	outcomes := make(chan analysisOutcome, 4)
	scheduler := NewScheduler(context.Background(), analyzer, 200*time.Millisecond, hookInto(outcomes))
	defer scheduler.Stop()

	scheduler.Schedule(namedDoc("Ada", "a"))
	scheduler.Schedule(namedDoc("Ada", "ab"))
	scheduler.Schedule(namedDoc("Ada", "abc"))

	out := waitOutcome(t, outcomes)
	if out.err != nil || out.analysis.Score != 3 {
		t.Fatalf("expected latest document analysed, got %+v", out)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single analyzer call, got %d", calls.Load())
	}
	if result, _ := scheduler.Result(); result.Score != 3 {
		t.Fatalf("unexpected stored result %+v", result)
	}
}

func TestSchedulerSkipsUnnamedDocuments(t *testing.T) {
	scheduler := NewScheduler(context.Background(), AnalyzerFunc(func(context.Context, Document) (Analysis, error) {
		t.Errorf("analyzer must not run")
		return Analysis{}, nil
	}), time.Millisecond)
	defer scheduler.Stop()

	if scheduler.Schedule(namedDoc("  ", "summary")) {
		t.Fatalf("unnamed document must not be scheduled")
	}
}

func TestSchedulerZeroResultForEmptyDocument(t *testing.T) {
	var calls atomic.Int32
	outcomes := make(chan analysisOutcome, 1)
	scheduler := NewScheduler(context.Background(), AnalyzerFunc(func(context.Context, Document) (Analysis, error) {
		calls.Add(1)
		return Analysis{Score: 99}, nil
	}), time.Millisecond, hookInto(outcomes))
	defer scheduler.Stop()

	scheduler.Schedule(namedDoc("Ada", ""))
	out := waitOutcome(t, outcomes)
	if out.analysis.Score != 0 || len(out.analysis.Suggestions) != 0 || calls.Load() != 0 {
		t.Fatalf("expected zero result without analyzer call, got %+v (calls=%d)", out, calls.Load())
	}
}

func TestSchedulerReportsAnalyzerFailure(t *testing.T) {
	boom := errors.New("service down")
	outcomes := make(chan analysisOutcome, 1)
	scheduler := NewScheduler(context.Background(), AnalyzerFunc(func(context.Context, Document) (Analysis, error) {
		return Analysis{Score: 50}, boom
	}), time.Millisecond, hookInto(outcomes))
	defer scheduler.Stop()

	scheduler.Schedule(namedDoc("Ada", "summary"))
	out := waitOutcome(t, outcomes)
	if !errors.Is(out.err, boom) {
		t.Fatalf("expected analyzer error, got %v", out.err)
	}
	if out.analysis.Score != 0 || len(out.analysis.Suggestions) != 1 || out.analysis.Suggestions[0].ID != "err-sugg" {
		t.Fatalf("unexpected fallback analysis %+v", out.analysis)
	}
}

func TestSchedulerCancelsSupersededAnalysis(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	analyzer := AnalyzerFunc(func(ctx context.Context, doc Document) (Analysis, error) {
		if doc.ProfessionalSummary == "slow" {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return Analysis{}, ctx.Err()
		}
		return Analysis{Score: 42}, nil
	})
	outcomes := make(chan analysisOutcome, 2)
	scheduler := NewScheduler(context.Background(), analyzer, time.Millisecond, hookInto(outcomes))
	defer scheduler.Stop()

	scheduler.Schedule(namedDoc("Ada", "slow"))
	<-started
	scheduler.Schedule(namedDoc("Ada", "fast"))

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatalf("superseded analysis was not cancelled")
	}
	out := waitOutcome(t, outcomes)
	if out.analysis.Score != 42 {
		t.Fatalf("expected only the latest result, got %+v", out)
	}
}

func TestSchedulerClear(t *testing.T) {
	outcomes := make(chan analysisOutcome, 1)
	scheduler := NewScheduler(context.Background(), AnalyzerFunc(func(context.Context, Document) (Analysis, error) {
		return Analysis{Score: 10}, nil
	}), time.Millisecond, hookInto(outcomes))
	defer scheduler.Stop()

	scheduler.Schedule(namedDoc("Ada", "summary"))
	waitOutcome(t, outcomes)
	scheduler.Clear()
	if result, err := scheduler.Result(); result.Score != 0 || err != nil {
		t.Fatalf("expected cleared result, got %+v %v", result, err)
	}
}

func TestEditorSchedulesAnalysis(t *testing.T) {
	outcomes := make(chan analysisOutcome, 8)
	analyzer := AnalyzerFunc(func(_ context.Context, doc Document) (Analysis, error) {
		return Analysis{Score: 90, Suggestions: []Suggestion{{ID: "s1", Text: "Quantify results"}}}, nil
	})
	editor := newTestEditor(t, WithAnalyzer(analyzer, 20*time.Millisecond, hookInto(outcomes)))

	editor.SetSummary("Backend engineer")
	select {
	case <-outcomes:
		t.Fatalf("unnamed document must not be analysed")
	case <-time.After(100 * time.Millisecond):
	}

	editor.SetContact(Contact{Name: "Ada", Email: "ada@example.com"})
	waitOutcome(t, outcomes)

	analysis, err := editor.Analysis()
	if err != nil || analysis.Score != 90 {
		t.Fatalf("unexpected analysis %+v %v", analysis, err)
	}
	results, _ := editor.Checks(context.Background())
	if !resultsByID(results)["check-4"].Passed {
		t.Fatalf("keyword check must pass with score 90")
	}

	editor.SignOut()
	if analysis, _ := editor.Analysis(); analysis.Score != 0 {
		t.Fatalf("sign out must clear analysis, got %+v", analysis)
	}
}
