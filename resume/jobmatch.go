package resume

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	ErrNoJobMatcher          = errors.New("resume: no job matcher configured")
	ErrEmptyJobDescription   = errors.New("resume: empty job description")
	ErrNoSuggestion          = errors.New("resume: no suggestion to apply")
	ErrSuggestionUnsupported = errors.New("resume: suggestion cannot be applied automatically")
)

// JobMatch compares a document against one job description.
type JobMatch struct {
	MatchScore       int          `json:"matchScore"`
	Suggestions      []Suggestion `json:"suggestions"`
	MissingKeywords  []string     `json:"missingKeywords"`
	MatchingKeywords []string     `json:"matchingKeywords"`
}

func (m JobMatch) clone() JobMatch {
	m.Suggestions = slices.Clone(m.Suggestions)
	m.MissingKeywords = slices.Clone(m.MissingKeywords)
	m.MatchingKeywords = slices.Clone(m.MatchingKeywords)
	return m
}

// JobMatcher scores a document against a job description, typically by
// calling an external service.
type JobMatcher interface {
	MatchJob(ctx context.Context, doc Document, jobDescription string) (JobMatch, error)
}

// JobMatcherFunc adapts a function to JobMatcher.
type JobMatcherFunc func(ctx context.Context, doc Document, jobDescription string) (JobMatch, error)

func (f JobMatcherFunc) MatchJob(ctx context.Context, doc Document, jobDescription string) (JobMatch, error) {
	return f(ctx, doc, jobDescription)
}

// WithJobMatcher enables AnalyzeJobMatch.
func WithJobMatcher(matcher JobMatcher) EditorOption {
	return func(cfg *editorConfig) {
		cfg.matcher = matcher
	}
}

// SuggestionTarget names the part of the document a suggestion rewrites.
// Section is SectionSummary or SectionExperience; ExperienceID selects the
// role for the latter.
type SuggestionTarget struct {
	Section      string
	ExperienceID string
}

// jobMatches holds the latest job match of a session. gen is bumped on every
// request and on sign out so a slow matcher cannot publish a stale result.
type jobMatches struct {
	mu     sync.Mutex
	gen    uint64
	result *JobMatch
}

func (j *jobMatches) begin() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.gen++
	j.result = nil
	return j.gen
}

func (j *jobMatches) finish(gen uint64, match JobMatch) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if gen != j.gen {
		return false
	}
	j.result = &match
	return true
}

func (j *jobMatches) latest() (JobMatch, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil {
		return JobMatch{}, false
	}
	return j.result.clone(), true
}

func (j *jobMatches) clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.gen++
	j.result = nil
}

// AnalyzeJobMatch compares the current document with jobDescription and keeps
// the result for JobMatch and ApplyTopJobSuggestion. The previous result is
// dropped as soon as a new analysis starts. Scores are clamped to 0..100 and
// suggestions without an ID get one.
func (e *Editor) AnalyzeJobMatch(ctx context.Context, jobDescription string) (JobMatch, error) {
	if e.matcher == nil {
		return JobMatch{}, ErrNoJobMatcher
	}
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return JobMatch{}, ErrEmptyJobDescription
	}
	if ctx == nil {
		ctx = context.Background()
	}

	gen := e.matches.begin()
	match, err := e.matcher.MatchJob(ctx, e.Document(), jobDescription)
	if err != nil {
		return JobMatch{}, fmt.Errorf("resume: job match: %w", err)
	}
	match = e.normalizeMatch(match)
	e.matches.finish(gen, match.clone())
	return match, nil
}

func (e *Editor) normalizeMatch(match JobMatch) JobMatch {
	match.MatchScore = min(max(match.MatchScore, 0), 100)
	suggestions := make([]Suggestion, 0, len(match.Suggestions))
	for _, s := range match.Suggestions {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		if s.ID == "" {
			s.ID = "match-sugg-" + e.newID()
		}
		suggestions = append(suggestions, s)
	}
	match.Suggestions = suggestions
	match.MissingKeywords = cleanList(match.MissingKeywords)
	match.MatchingKeywords = cleanList(match.MatchingKeywords)
	return match
}

// JobMatch returns the latest completed job match, if any.
func (e *Editor) JobMatch() (JobMatch, bool) {
	return e.matches.latest()
}

// ApplyTopJobSuggestion writes the first job match suggestion into the
// professional summary. Only suggestions that talk about the summary or the
// professional statement are applied; others return ErrSuggestionUnsupported.
func (e *Editor) ApplyTopJobSuggestion() (bool, error) {
	match, ok := e.matches.latest()
	if !ok || len(match.Suggestions) == 0 {
		return false, ErrNoSuggestion
	}
	text := match.Suggestions[0].Text
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "summary") && !strings.Contains(lower, "professional statement") {
		return false, fmt.Errorf("%w: %q", ErrSuggestionUnsupported, text)
	}
	return e.ApplySuggestion(SuggestionTarget{Section: SectionSummary}, text)
}

// ApplySuggestion rewrites the target with text as one undoable edit. For a
// summary the text replaces it verbatim. For an experience the text is split
// into one responsibility per non-blank line.
func (e *Editor) ApplySuggestion(target SuggestionTarget, text string) (bool, error) {
	switch target.Section {
	case SectionSummary:
		return e.tryUpdate("Apply suggestion", func(doc Document) (Document, error) {
			doc.ProfessionalSummary = text
			return doc, nil
		})
	case SectionExperience:
		lines := cleanList(strings.Split(text, "\n"))
		return e.tryUpdate("Apply suggestion", func(doc Document) (Document, error) {
			i := slices.IndexFunc(doc.WorkExperience, func(w WorkExperience) bool { return w.ID == target.ExperienceID })
			if i < 0 {
				return doc, fmt.Errorf("%w: experience %q", ErrEntryNotFound, target.ExperienceID)
			}
			doc.WorkExperience[i].Responsibilities = lines
			return doc, nil
		})
	default:
		return false, fmt.Errorf("%w: section %q", ErrSuggestionUnsupported, target.Section)
	}
}
