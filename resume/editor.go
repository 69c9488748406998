package resume

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	history "github.com/goliatone/go-history"
	"github.com/goliatone/go-history/pkg/state"
	"github.com/google/uuid"
)

// ThemeRef is where the editor persists the theme by default.
var ThemeRef = state.Ref{Namespace: "resume", Key: "theme"}

// Editor is one resume editing session. All methods are safe for concurrent
// use; each accepted edit becomes an undoable history entry.
type Editor struct {
	history   *history.Store[Document]
	themes    *state.Persister[Theme]
	checker   *Checker
	scheduler *Scheduler
	matcher   JobMatcher
	matches   jobMatches
	logger    history.Logger
	newID     func() string
}

// EditorOption configures an Editor.
type EditorOption func(*editorConfig)

type editorConfig struct {
	themeStore   state.Store[Theme]
	themeRef     state.Ref
	historyOpts  []history.Option
	logger       history.Logger
	checks       []Check
	checkerOpts  []CheckerOption
	analyzer     Analyzer
	delay        time.Duration
	analysisOpts []SchedulerOption
	matcher      JobMatcher
	newID        func() string
}

// WithThemeStore persists theme changes to store and seeds new sessions with
// the stored theme.
func WithThemeStore(store state.Store[Theme]) EditorOption {
	return func(cfg *editorConfig) {
		cfg.themeStore = store
	}
}

// WithThemeRef overrides ThemeRef, e.g. to keep one theme per user.
func WithThemeRef(ref state.Ref) EditorOption {
	return func(cfg *editorConfig) {
		cfg.themeRef = ref
	}
}

// WithHistoryOptions forwards options to the underlying history store.
// Snapshot cloning is always enabled.
func WithHistoryOptions(opts ...history.Option) EditorOption {
	return func(cfg *editorConfig) {
		cfg.historyOpts = append(cfg.historyOpts, opts...)
	}
}

// WithLogger receives history events and editor warnings such as a theme that
// could not be restored.
func WithLogger(logger history.Logger) EditorOption {
	return func(cfg *editorConfig) {
		cfg.logger = logger
	}
}

// WithChecks replaces DefaultChecks.
func WithChecks(checks []Check, opts ...CheckerOption) EditorOption {
	return func(cfg *editorConfig) {
		cfg.checks = checks
		cfg.checkerOpts = append(cfg.checkerOpts, opts...)
	}
}

// WithAnalyzer enables debounced analysis after every change.
func WithAnalyzer(analyzer Analyzer, delay time.Duration, opts ...SchedulerOption) EditorOption {
	return func(cfg *editorConfig) {
		cfg.analyzer = analyzer
		cfg.delay = delay
		cfg.analysisOpts = append(cfg.analysisOpts, opts...)
	}
}

// WithEntryIDs overrides the generator for experience, education and award
// IDs (UUIDv4 by default).
func WithEntryIDs(fn func() string) EditorOption {
	return func(cfg *editorConfig) {
		cfg.newID = fn
	}
}

// NewEditor starts a session. The initial document is Defaults() with the
// persisted theme, if any, overlaid; it is also what SignOut returns to.
func NewEditor(ctx context.Context, opts ...EditorOption) (*Editor, error) {
	cfg := editorConfig{themeRef: ThemeRef, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.checks == nil {
		cfg.checks = DefaultChecks()
	}

	e := &Editor{
		checker: NewChecker(cfg.checks, cfg.checkerOpts...),
		matcher: cfg.matcher,
		logger:  cfg.logger,
		newID:   cfg.newID,
	}
	if e.logger == nil {
		e.logger = history.LoggerFunc(nil)
	}
	if cfg.themeStore != nil {
		e.themes = state.NewPersister(cfg.themeStore, cfg.themeRef)
	}
	if cfg.analyzer != nil {
		e.scheduler = NewScheduler(ctx, cfg.analyzer, cfg.delay, cfg.analysisOpts...)
	}

	initial := Defaults()
	theme, err := e.restoreTheme(ctx)
	if err != nil {
		return nil, err
	}
	initial.Theme = theme

	historyOpts := slices.Clone(cfg.historyOpts)
	if cfg.logger != nil {
		historyOpts = append([]history.Option{history.WithLogger(cfg.logger)}, historyOpts...)
	}
	historyOpts = append(historyOpts, history.WithSnapshotCloning(true))
	e.history = history.New(initial, historyOpts...)
	return e, nil
}

// restoreTheme overlays the persisted theme on the default one. A stored
// theme that does not validate is ignored.
func (e *Editor) restoreTheme(ctx context.Context) (Theme, error) {
	theme := DefaultTheme()
	if e.themes == nil {
		return theme, nil
	}
	saved, _, err := e.themes.Load(ctx)
	if errors.Is(err, state.ErrNotFound) {
		return theme, nil
	}
	if err != nil {
		return theme, fmt.Errorf("resume: load theme: %w", err)
	}
	merged := theme.Apply(ThemePatch(saved))
	if err := merged.Validate(); err != nil {
		e.logger.LogHistory(history.LogEvent{Op: history.OpReset, Label: "Restore theme", Err: err})
		return theme, nil
	}
	return merged, nil
}

// History exposes the underlying store for read access and revision queries.
func (e *Editor) History() *history.Store[Document] {
	return e.history
}

// Document returns the current resume.
func (e *Editor) Document() Document {
	return e.history.Current()
}

// Undo steps back one edit and reports whether anything changed.
func (e *Editor) Undo() bool {
	return e.changed(e.history.Undo())
}

// Redo reapplies the edit Undo last reverted.
func (e *Editor) Redo() bool {
	return e.changed(e.history.Redo())
}

// CanUndo reports whether Undo would change the document.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would change the document.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// UndoLabel names the edit Undo would revert.
func (e *Editor) UndoLabel() (string, bool) {
	rev, ok := e.history.UndoTarget()
	return rev.Label, ok
}

// RedoLabel names the edit Redo would reapply.
func (e *Editor) RedoLabel() (string, bool) {
	rev, ok := e.history.PeekRedo()
	return rev.Label, ok
}

// SetContact replaces the contact block.
func (e *Editor) SetContact(contact Contact) bool {
	return e.update("Edit contact", func(doc Document) Document {
		doc.Contact = contact
		return doc
	})
}

// SetSummary replaces the professional summary.
func (e *Editor) SetSummary(summary string) bool {
	return e.update("Edit summary", func(doc Document) Document {
		doc.ProfessionalSummary = summary
		return doc
	})
}

// SetSkills trims the entries and drops empty ones.
func (e *Editor) SetSkills(skills []string) bool {
	cleaned := cleanList(skills)
	return e.update("Edit skills", func(doc Document) Document {
		doc.Skills = cleaned
		return doc
	})
}

// AddExperience appends exp, assigning an ID when it has none, and returns
// the ID.
func (e *Editor) AddExperience(exp WorkExperience) string {
	if exp.ID == "" {
		exp.ID = e.newID()
	}
	exp.Responsibilities = slices.Clone(exp.Responsibilities)
	e.update("Add experience", func(doc Document) Document {
		doc.WorkExperience = append(doc.WorkExperience, exp)
		return doc
	})
	return exp.ID
}

// UpdateExperience edits the entry with the given id in place.
func (e *Editor) UpdateExperience(id string, fn func(*WorkExperience)) (bool, error) {
	if fn == nil {
		return false, history.ErrNoUpdater
	}
	return e.tryUpdate("Edit experience", func(doc Document) (Document, error) {
		i := slices.IndexFunc(doc.WorkExperience, func(w WorkExperience) bool { return w.ID == id })
		if i < 0 {
			return doc, fmt.Errorf("%w: experience %q", ErrEntryNotFound, id)
		}
		fn(&doc.WorkExperience[i])
		doc.WorkExperience[i].ID = id
		return doc, nil
	})
}

// RemoveExperience drops the entry with the given id. Unknown ids are a
// no-op.
func (e *Editor) RemoveExperience(id string) bool {
	return e.update("Remove experience", func(doc Document) Document {
		doc.WorkExperience = slices.DeleteFunc(doc.WorkExperience, func(w WorkExperience) bool { return w.ID == id })
		return doc
	})
}

// MoveExperience shifts an entry by offset positions, clamped to the list
// bounds.
func (e *Editor) MoveExperience(id string, offset int) bool {
	return e.update("Reorder experience", func(doc Document) Document {
		from := slices.IndexFunc(doc.WorkExperience, func(w WorkExperience) bool { return w.ID == id })
		if from < 0 {
			return doc
		}
		to := min(max(from+offset, 0), len(doc.WorkExperience)-1)
		entry := doc.WorkExperience[from]
		doc.WorkExperience = slices.Delete(doc.WorkExperience, from, from+1)
		doc.WorkExperience = slices.Insert(doc.WorkExperience, to, entry)
		return doc
	})
}

// AddEducation appends edu and returns its ID.
func (e *Editor) AddEducation(edu Education) string {
	if edu.ID == "" {
		edu.ID = e.newID()
	}
	e.update("Add education", func(doc Document) Document {
		doc.Education = append(doc.Education, edu)
		return doc
	})
	return edu.ID
}

// RemoveEducation drops the entry with the given id.
func (e *Editor) RemoveEducation(id string) bool {
	return e.update("Remove education", func(doc Document) Document {
		doc.Education = slices.DeleteFunc(doc.Education, func(ed Education) bool { return ed.ID == id })
		return doc
	})
}

// AddAward appends award and returns its ID.
func (e *Editor) AddAward(award Award) string {
	if award.ID == "" {
		award.ID = e.newID()
	}
	e.update("Add award", func(doc Document) Document {
		doc.AwardsAndCertifications = append(doc.AwardsAndCertifications, award)
		return doc
	})
	return award.ID
}

// RemoveAward drops the entry with the given id.
func (e *Editor) RemoveAward(id string) bool {
	return e.update("Remove award", func(doc Document) Document {
		doc.AwardsAndCertifications = slices.DeleteFunc(doc.AwardsAndCertifications, func(a Award) bool { return a.ID == id })
		return doc
	})
}

// SetSectionOrder accepts any arrangement of known, unique sections.
func (e *Editor) SetSectionOrder(order []string) (bool, error) {
	if err := validateSectionOrder(order); err != nil {
		return false, err
	}
	order = slices.Clone(order)
	return e.update("Reorder sections", func(doc Document) Document {
		doc.SectionOrder = order
		return doc
	}), nil
}

// Replace commits doc wholesale after validating it.
func (e *Editor) Replace(doc Document) (bool, error) {
	doc = doc.normalize()
	if err := doc.Validate(); err != nil {
		return false, err
	}
	return e.changed(e.history.Commit(doc, history.WithLabel("Replace resume"))), nil
}

// SelectTemplate switches the layout to a catalog template.
func (e *Editor) SelectTemplate(id string) (bool, error) {
	if _, ok := LookupTemplate(id); !ok {
		return false, fmt.Errorf("%w: unknown template %q", ErrInvalidDocument, id)
	}
	return e.update("Select template", func(doc Document) Document {
		doc.SelectedTemplate = id
		return doc
	}), nil
}

// UpdateTheme merges patch into the current theme and commits it. The
// resulting theme is persisted even when it equals the current one; a
// persistence failure is returned after the history change has been kept.
func (e *Editor) UpdateTheme(ctx context.Context, patch ThemePatch) (bool, error) {
	var theme Theme
	accepted, err := e.tryUpdate("Change theme", func(doc Document) (Document, error) {
		next := doc.Theme.Apply(patch)
		if err := next.Validate(); err != nil {
			return doc, err
		}
		doc.Theme = next
		theme = next
		return doc, nil
	})
	if err != nil {
		return false, err
	}
	if e.themes != nil {
		if _, err := e.themes.SaveValue(ctx, theme, e.history.Revision().ID); err != nil {
			return accepted, fmt.Errorf("resume: persist theme: %w", err)
		}
	}
	return accepted, nil
}

// ApplyTheme replaces the whole theme, e.g. from an imported theme file.
func (e *Editor) ApplyTheme(ctx context.Context, theme Theme) (bool, error) {
	return e.UpdateTheme(ctx, ThemePatch(theme))
}

// SignOut ends the session: history returns to the initial document and
// analysis and job match state are cleared.
func (e *Editor) SignOut() {
	e.history.Reset()
	e.matches.clear()
	if e.scheduler != nil {
		e.scheduler.Clear()
	}
}

// Close stops background analysis.
func (e *Editor) Close() {
	if e.scheduler != nil {
		e.scheduler.Stop()
	}
}

// Analysis returns the latest analysis result. It is the zero Analysis until
// an analyzer has completed.
func (e *Editor) Analysis() (Analysis, error) {
	if e.scheduler == nil {
		return Analysis{}, nil
	}
	return e.scheduler.Result()
}

// Checks evaluates the readiness rules against the current document and the
// latest analysis.
func (e *Editor) Checks(ctx context.Context) ([]CheckResult, error) {
	analysis, _ := e.Analysis()
	return e.checker.Run(ctx, e.Document(), analysis)
}

func (e *Editor) update(label string, fn func(Document) Document) bool {
	return e.changed(e.history.Update(func(prev Document) Document {
		return fn(prev).normalize()
	}, history.WithLabel(label)))
}

func (e *Editor) tryUpdate(label string, fn func(Document) (Document, error)) (bool, error) {
	accepted, err := e.history.TryUpdate(func(prev Document) (Document, error) {
		next, err := fn(prev)
		if err != nil {
			return prev, err
		}
		return next.normalize(), nil
	}, history.WithLabel(label))
	return e.changed(accepted), err
}

// changed schedules analysis of the new current document after an accepted
// change and passes accepted through.
func (e *Editor) changed(accepted bool) bool {
	if accepted && e.scheduler != nil {
		e.scheduler.Schedule(e.history.Current())
	}
	return accepted
}
