// Package engine implements the recipe progress session state machine.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/logger"
	"github.com/hammamikhairi/stepchef/internal/progress"
	"github.com/hammamikhairi/stepchef/internal/variation"
)

// Option configures the engine.
type Option func(*Engine)

// WithCelebrator sets the receiver of completion celebrations.
func WithCelebrator(c domain.Celebrator) Option {
	return func(e *Engine) {
		e.celebrator = c
	}
}

// WithVariationReset controls whether the selected variation is cleared
// when the user switches recipes or new analysis data is loaded. Off by
// default: a stale selection simply resolves to the base recipe.
func WithVariationReset(reset bool) Option {
	return func(e *Engine) {
		e.resetVariation = reset
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine manages recipe progress sessions. It depends only on interfaces
// and is fully testable with in-memory implementations.
type Engine struct {
	analyses       domain.AnalysisSource
	store          domain.SessionStore
	celebrator     domain.Celebrator
	log            *logger.Logger
	resetVariation bool
	now            func() time.Time

	// mu serializes load-mutate-save sequences so a toggle never sees a
	// half re-initialized session.
	mu sync.Mutex
}

// New creates an engine with the given dependencies and options.
func New(analyses domain.AnalysisSource, store domain.SessionStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		analyses: analyses,
		store:    store,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListAnalyses returns all available analysis results.
func (e *Engine) ListAnalyses(ctx context.Context) ([]domain.AnalysisSummary, error) {
	return e.analyses.List(ctx)
}

// StartSession begins a new session over the given analysis with the
// first recipe active and no steps checked.
func (e *Engine) StartSession(ctx context.Context, analysisID string) (*domain.Session, error) {
	a, err := e.analyses.Get(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}

	now := e.now()
	session := &domain.Session{
		ID:           generateID(),
		Analysis:     a,
		ActiveRecipe: 0,
		Completion:   progress.New(len(a.Recipes)),
		Celebrations: make(map[int]int),
		Status:       domain.SessionActive,
		StartedAt:    now,
		UpdatedAt:    now,
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("started session %s for %q (%d recipes)", session.ID, a.FoodItem, len(a.Recipes))
	return session, nil
}

// Reload swaps a new analysis into an existing session. All progress from
// the previous analysis is discarded.
func (e *Engine) Reload(ctx context.Context, sessionID, analysisID string) (*domain.Session, error) {
	a, err := e.analyses.Get(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.active(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Build the new state in full, then swap it in.
	tracker := progress.New(len(a.Recipes))
	session.Analysis = a
	session.Completion = tracker
	session.Celebrations = make(map[int]int)
	session.ActiveRecipe = 0
	if e.resetVariation {
		session.SelectedVariation = ""
	}
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("session %s reloaded with %q (%d recipes)", sessionID, a.FoodItem, len(a.Recipes))
	return session, nil
}

// SelectRecipe makes the recipe at index the active one.
func (e *Engine) SelectRecipe(ctx context.Context, sessionID string, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.active(ctx, sessionID)
	if err != nil {
		return err
	}

	if _, ok := session.RecipeAt(index); !ok {
		return fmt.Errorf("selecting recipe %d: %w", index, domain.ErrRecipeOutOfRange)
	}

	if index != session.ActiveRecipe && e.resetVariation {
		session.SelectedVariation = ""
	}
	session.ActiveRecipe = index
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	e.log.Debug("session %s selected recipe %d", sessionID, index)
	return nil
}

// CycleRecipe moves the active recipe by delta, wrapping around. Returns
// the new active index.
func (e *Engine) CycleRecipe(ctx context.Context, sessionID string, delta int) (int, error) {
	session, err := e.Status(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	n := 0
	if session.Analysis != nil {
		n = len(session.Analysis.Recipes)
	}
	if n == 0 {
		return 0, domain.ErrNoRecipes
	}

	next := ((session.ActiveRecipe+delta)%n + n) % n
	if err := e.SelectRecipe(ctx, sessionID, next); err != nil {
		return 0, err
	}
	return next, nil
}

// SelectVariation selects a variation of the active recipe by name,
// ignoring case. Returns the canonical name.
func (e *Engine) SelectVariation(ctx context.Context, sessionID, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.active(ctx, sessionID)
	if err != nil {
		return "", err
	}

	recipe, ok := session.Recipe()
	if !ok {
		return "", domain.ErrRecipeOutOfRange
	}

	canonical, ok := variation.Lookup(recipe, name)
	if !ok {
		return "", fmt.Errorf("variation %q on %q: %w", name, recipe.Title, domain.ErrVariationNotFound)
	}

	session.SelectedVariation = canonical
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}

	e.log.Debug("session %s selected variation %q", sessionID, canonical)
	return canonical, nil
}

// ClearVariation returns the session to the base recipe.
func (e *Engine) ClearVariation(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.active(ctx, sessionID)
	if err != nil {
		return err
	}

	session.SelectedVariation = ""
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// View returns the effective view of the active recipe. A session that
// points at no recipe yields an empty view.
func (e *Engine) View(ctx context.Context, sessionID string) (domain.EffectiveView, error) {
	var view domain.EffectiveView
	err := e.read(ctx, sessionID, func(s *domain.Session) {
		view = viewOf(s, s.ActiveRecipe)
	})
	return view, err
}

// ToggleStep checks or un-checks a step of the active recipe's effective
// instruction list.
func (e *Engine) ToggleStep(ctx context.Context, sessionID string, step int) (Toggle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.active(ctx, sessionID)
	if err != nil {
		return Toggle{}, err
	}

	view := viewOf(session, session.ActiveRecipe)
	t := e.driver(session).OnStepToggled(ctx, session.ActiveRecipe, step, view.TotalSteps(), view.Title)
	if !t.Applied {
		return t, nil
	}

	session.UpdatedAt = e.now()
	if err := e.store.Save(ctx, session); err != nil {
		return t, fmt.Errorf("saving session: %w", err)
	}

	e.log.Debug("session %s toggled step %d of recipe %d -> %v", sessionID, step, session.ActiveRecipe, t.Completed)
	return t, nil
}

// StepComplete reports whether a step of the active recipe is checked.
func (e *Engine) StepComplete(ctx context.Context, sessionID string, step int) (bool, error) {
	var done bool
	err := e.read(ctx, sessionID, func(s *domain.Session) {
		done = s.Completion.IsComplete(s.ActiveRecipe, step)
	})
	return done, err
}

// Progress returns the progress of the active recipe.
func (e *Engine) Progress(ctx context.Context, sessionID string) (Progress, error) {
	var p Progress
	err := e.read(ctx, sessionID, func(s *domain.Session) {
		p = e.progressOf(s, s.ActiveRecipe)
	})
	return p, err
}

// AllProgress returns the progress of every recipe in the session. The
// active recipe is measured against its effective view; the others
// against their base instructions.
func (e *Engine) AllProgress(ctx context.Context, sessionID string) ([]Progress, error) {
	var out []Progress
	err := e.read(ctx, sessionID, func(s *domain.Session) {
		if s.Analysis == nil {
			return
		}
		out = make([]Progress, len(s.Analysis.Recipes))
		for i := range s.Analysis.Recipes {
			out[i] = e.progressOf(s, i)
		}
	})
	return out, err
}

// ResetRecipe un-checks every step of the active recipe. No celebration
// is emitted.
func (e *Engine) ResetRecipe(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.active(ctx, sessionID)
	if err != nil {
		return err
	}

	if !session.Completion.Reset(session.ActiveRecipe) {
		return domain.ErrRecipeOutOfRange
	}
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("session %s reset recipe %d", sessionID, session.ActiveRecipe)
	return nil
}

// Status returns the full session state.
func (e *Engine) Status(ctx context.Context, sessionID string) (*domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return session, nil
}

// Abandon marks a session as abandoned.
func (e *Engine) Abandon(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	session.Status = domain.SessionAbandoned
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("session %s abandoned", sessionID)
	return nil
}

// read runs fn over a loaded session while holding e.mu.
func (e *Engine) read(ctx context.Context, sessionID string, fn func(*domain.Session)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	fn(session)
	return nil
}

// active loads a session and checks it can be mutated. Callers hold e.mu.
func (e *Engine) active(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session.Status != domain.SessionActive {
		return nil, domain.ErrSessionNotActive
	}
	return session, nil
}

func (e *Engine) driver(session *domain.Session) *Driver {
	d := NewDriver(session.Completion, e.celebrator, e.log)
	d.now = e.now
	d.SessionID = session.ID
	d.Crossings = session.Celebrations
	if session.Analysis != nil {
		d.FoodItem = session.Analysis.FoodItem
	}
	return d
}

func (e *Engine) progressOf(session *domain.Session, index int) Progress {
	return e.driver(session).Progress(index, viewOf(session, index).TotalSteps())
}

// viewOf resolves the recipe at index. The selected variation only
// applies to the active recipe.
func viewOf(session *domain.Session, index int) domain.EffectiveView {
	recipe, ok := session.RecipeAt(index)
	if !ok {
		return domain.EffectiveView{}
	}
	name := ""
	if index == session.ActiveRecipe {
		name = session.SelectedVariation
	}
	return variation.Resolve(recipe, name)
}
