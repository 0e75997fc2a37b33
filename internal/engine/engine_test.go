package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/stepchef/internal/analysis"
	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/logger"
	"github.com/hammamikhairi/stepchef/internal/storage"
)

// recorder collects celebrations.
type recorder struct {
	got []domain.Celebration
	err error
}

func (r *recorder) Celebrate(ctx context.Context, c domain.Celebration) error {
	r.got = append(r.got, c)
	return r.err
}

func setupEngine(t *testing.T, opts ...Option) (*Engine, *recorder, *analysis.MemorySource, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	analyses := analysis.NewMemorySource(log)
	store := storage.NewMemoryStore(log)
	rec := &recorder{}
	eng := New(analyses, store, log, append([]Option{WithCelebrator(rec)}, opts...)...)
	return eng, rec, analyses, context.Background()
}

func startSession(t *testing.T, eng *Engine, ctx context.Context, analysisID string) *domain.Session {
	t.Helper()
	session, err := eng.StartSession(ctx, analysisID)
	if err != nil {
		t.Fatalf("starting session: %v", err)
	}
	return session
}

func TestStartSession(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)

	tests := []struct {
		name       string
		analysisID string
		wantSlots  int
		wantErr    bool
	}{
		{"ramen", "ramen", 3, false},
		{"pancakes", "pancakes", 5, false},
		{"unknown analysis", "nonexistent", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := eng.StartSession(ctx, tt.analysisID)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if session.ID == "" {
				t.Fatal("session ID is empty")
			}
			if session.Status != domain.SessionActive {
				t.Fatalf("expected active status, got %s", session.Status)
			}
			if session.ActiveRecipe != 0 {
				t.Fatalf("expected recipe 0 active, got %d", session.ActiveRecipe)
			}
			if session.Completion.Len() != tt.wantSlots {
				t.Fatalf("expected %d completion slots, got %d", tt.wantSlots, session.Completion.Len())
			}
		})
	}
}

// Miso Ramen: 4 steps, no variations.
func TestCompletingRecipeCelebratesOnce(t *testing.T) {
	eng, rec, _, ctx := setupEngine(t)
	session := startSession(t, eng, ctx, "ramen")

	if err := eng.SelectRecipe(ctx, session.ID, 1); err != nil {
		t.Fatalf("select recipe: %v", err)
	}

	for step := 0; step < 4; step++ {
		tog, err := eng.ToggleStep(ctx, session.ID, step)
		if err != nil {
			t.Fatalf("toggle %d: %v", step, err)
		}
		if !tog.Completed {
			t.Fatalf("step %d: expected completed", step)
		}
		if step < 3 && tog.Celebration != nil {
			t.Fatalf("step %d: unexpected celebration", step)
		}
	}

	p, err := eng.Progress(ctx, session.ID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.Ratio != 1.0 {
		t.Fatalf("expected ratio 1.0, got %v", p.Ratio)
	}
	if p.State != domain.StateComplete {
		t.Fatalf("expected complete state, got %s", p.State)
	}

	if len(rec.got) != 1 {
		t.Fatalf("expected exactly 1 celebration, got %d", len(rec.got))
	}
	c := rec.got[0]
	if c.RecipeName != "Miso Ramen" {
		t.Fatalf("expected celebration for Miso Ramen, got %q", c.RecipeName)
	}
	if c.RecipeIndex != 1 || c.Crossing != 1 || c.SessionID != session.ID || c.FoodItem != "Ramen" {
		t.Fatalf("unexpected celebration: %+v", c)
	}
}

func TestRecrossingCelebratesAgain(t *testing.T) {
	eng, rec, analyses, ctx := setupEngine(t)

	a := &domain.Analysis{
		ID:       "three-steps",
		FoodItem: "Toast",
		Recipes: []domain.Recipe{{
			Title:        "Cinnamon Toast",
			Instructions: []string{"Toast the bread.", "Butter it.", "Dust with cinnamon sugar."},
		}},
	}
	if err := analyses.Add(ctx, a, false); err != nil {
		t.Fatalf("add analysis: %v", err)
	}
	session := startSession(t, eng, ctx, "three-steps")

	toggles := []struct {
		step            int
		wantCelebration bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{1, false}, // un-check is silent
		{1, true},  // re-crossing celebrates again
	}
	for i, tt := range toggles {
		tog, err := eng.ToggleStep(ctx, session.ID, tt.step)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if got := tog.Celebration != nil; got != tt.wantCelebration {
			t.Fatalf("toggle %d (step %d): celebration=%v, want %v", i, tt.step, got, tt.wantCelebration)
		}
	}

	if len(rec.got) != 2 {
		t.Fatalf("expected 2 celebrations, got %d", len(rec.got))
	}
	if rec.got[1].Crossing != 2 {
		t.Fatalf("expected second crossing numbered 2, got %d", rec.got[1].Crossing)
	}
}

func TestVariationView(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)
	session := startSession(t, eng, ctx, "ramen")

	view, err := eng.View(ctx, session.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Title != "Shoyu Ramen" || view.TotalSteps() != 6 {
		t.Fatalf("unexpected base view: %q with %d steps", view.Title, view.TotalSteps())
	}

	name, err := eng.SelectVariation(ctx, session.ID, "vegan")
	if err != nil {
		t.Fatalf("select variation: %v", err)
	}
	if name != "Vegan" {
		t.Fatalf("expected canonical name Vegan, got %q", name)
	}

	view, err = eng.View(ctx, session.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Title != "Shoyu Ramen (Vegan Variation)" {
		t.Fatalf("unexpected title %q", view.Title)
	}
	if view.TotalSteps() != 5 {
		t.Fatalf("expected 5 vegan steps, got %d", view.TotalSteps())
	}

	_, err = eng.SelectVariation(ctx, session.ID, "keto")
	if !errors.Is(err, domain.ErrVariationNotFound) {
		t.Fatalf("expected ErrVariationNotFound, got %v", err)
	}

	if err := eng.ClearVariation(ctx, session.ID); err != nil {
		t.Fatalf("clear variation: %v", err)
	}
	view, _ = eng.View(ctx, session.ID)
	if view.Variation != "" || view.TotalSteps() != 6 {
		t.Fatalf("expected base view after clear, got %q with %d steps", view.Title, view.TotalSteps())
	}
}

func TestToggleRespectsEffectiveSteps(t *testing.T) {
	eng, rec, _, ctx := setupEngine(t)
	session := startSession(t, eng, ctx, "ramen")

	if _, err := eng.SelectVariation(ctx, session.ID, "Vegan"); err != nil {
		t.Fatalf("select variation: %v", err)
	}

	// Step 5 exists in the base recipe but not in the 5-step variation.
	tog, err := eng.ToggleStep(ctx, session.ID, 5)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if tog.Applied {
		t.Fatal("expected out-of-range toggle to be ignored")
	}

	for step := 0; step < 5; step++ {
		if _, err := eng.ToggleStep(ctx, session.ID, step); err != nil {
			t.Fatalf("toggle %d: %v", step, err)
		}
	}
	if len(rec.got) != 1 {
		t.Fatalf("expected 1 celebration, got %d", len(rec.got))
	}
	if rec.got[0].RecipeName != "Shoyu Ramen (Vegan Variation)" {
		t.Fatalf("expected display name in celebration, got %q", rec.got[0].RecipeName)
	}

	// Back on the 6-step base recipe the same checks are 5/6.
	if err := eng.ClearVariation(ctx, session.ID); err != nil {
		t.Fatalf("clear variation: %v", err)
	}
	p, err := eng.Progress(ctx, session.ID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.Completed != 5 || p.Total != 6 || p.State != domain.StateIncomplete {
		t.Fatalf("unexpected base progress: %+v", p)
	}
}

func TestStaleVariationFallsBack(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)
	session := startSession(t, eng, ctx, "ramen")

	if _, err := eng.SelectVariation(ctx, session.ID, "Vegan"); err != nil {
		t.Fatalf("select variation: %v", err)
	}
	// Miso Ramen has no Vegan variation; the selection is kept but stale.
	if err := eng.SelectRecipe(ctx, session.ID, 1); err != nil {
		t.Fatalf("select recipe: %v", err)
	}

	s, _ := eng.Status(ctx, session.ID)
	if s.SelectedVariation != "Vegan" {
		t.Fatalf("expected selection to survive, got %q", s.SelectedVariation)
	}

	view, err := eng.View(ctx, session.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Title != "Miso Ramen" || view.TotalSteps() != 4 {
		t.Fatalf("expected base Miso Ramen, got %q with %d steps", view.Title, view.TotalSteps())
	}
}

func TestVariationResetPolicy(t *testing.T) {
	eng, _, _, ctx := setupEngine(t, WithVariationReset(true))
	session := startSession(t, eng, ctx, "ramen")

	if _, err := eng.SelectVariation(ctx, session.ID, "Vegan"); err != nil {
		t.Fatalf("select variation: %v", err)
	}

	// Re-selecting the same recipe keeps it.
	if err := eng.SelectRecipe(ctx, session.ID, 0); err != nil {
		t.Fatalf("select recipe: %v", err)
	}
	s, _ := eng.Status(ctx, session.ID)
	if s.SelectedVariation != "Vegan" {
		t.Fatalf("expected selection kept, got %q", s.SelectedVariation)
	}

	if err := eng.SelectRecipe(ctx, session.ID, 2); err != nil {
		t.Fatalf("select recipe: %v", err)
	}
	s, _ = eng.Status(ctx, session.ID)
	if s.SelectedVariation != "" {
		t.Fatalf("expected selection cleared, got %q", s.SelectedVariation)
	}
}

func TestReloadResetsProgress(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)
	session := startSession(t, eng, ctx, "pancakes")

	// Partially complete several of the 5 pancake recipes.
	for _, idx := range []int{0, 3, 4} {
		if err := eng.SelectRecipe(ctx, session.ID, idx); err != nil {
			t.Fatalf("select recipe %d: %v", idx, err)
		}
		if _, err := eng.ToggleStep(ctx, session.ID, 0); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	reloaded, err := eng.Reload(ctx, session.ID, "ramen")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Completion.Len() != 3 {
		t.Fatalf("expected 3 slots, got %d", reloaded.Completion.Len())
	}
	if reloaded.ActiveRecipe != 0 {
		t.Fatalf("expected active recipe reset to 0, got %d", reloaded.ActiveRecipe)
	}
	for i := 0; i < 3; i++ {
		if n := reloaded.Completion.Count(i); n != 0 {
			t.Fatalf("recipe %d: expected 0 completed, got %d", i, n)
		}
	}
	for _, i := range []int{3, 4} {
		if reloaded.Completion.Count(i) != 0 || reloaded.Completion.IsComplete(i, 0) {
			t.Fatalf("recipe %d: expected safe defaults", i)
		}
	}

	all, err := eng.AllProgress(ctx, session.ID)
	if err != nil {
		t.Fatalf("all progress: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 progress entries, got %d", len(all))
	}
	for _, p := range all {
		if p.Ratio != 0 {
			t.Fatalf("expected zero progress after reload, got %+v", p)
		}
	}
}

func TestSelectRecipeOutOfRange(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)
	session := startSession(t, eng, ctx, "ramen")

	for _, idx := range []int{-1, 3, 99} {
		err := eng.SelectRecipe(ctx, session.ID, idx)
		if !errors.Is(err, domain.ErrRecipeOutOfRange) {
			t.Fatalf("index %d: expected ErrRecipeOutOfRange, got %v", idx, err)
		}
	}
}

func TestCycleRecipe(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)
	session := startSession(t, eng, ctx, "ramen")

	tests := []struct {
		delta int
		want  int
	}{
		{1, 1},
		{1, 2},
		{1, 0},
		{-1, 2},
		{-4, 1},
	}
	for _, tt := range tests {
		got, err := eng.CycleRecipe(ctx, session.ID, tt.delta)
		if err != nil {
			t.Fatalf("cycle %d: %v", tt.delta, err)
		}
		if got != tt.want {
			t.Fatalf("cycle %d: expected %d, got %d", tt.delta, tt.want, got)
		}
	}
}

func TestResetRecipe(t *testing.T) {
	eng, rec, _, ctx := setupEngine(t)
	session := startSession(t, eng, ctx, "ramen")

	for step := 0; step < 6; step++ {
		eng.ToggleStep(ctx, session.ID, step)
	}
	if err := eng.ResetRecipe(ctx, session.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}

	p, _ := eng.Progress(ctx, session.ID)
	if p.Completed != 0 {
		t.Fatalf("expected 0 completed after reset, got %d", p.Completed)
	}
	done, _ := eng.StepComplete(ctx, session.ID, 0)
	if done {
		t.Fatal("expected step 0 unchecked after reset")
	}
	if len(rec.got) != 1 {
		t.Fatalf("reset must not celebrate; got %d celebrations", len(rec.got))
	}
}

func TestAbandon(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)
	session := startSession(t, eng, ctx, "ramen")

	if err := eng.Abandon(ctx, session.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}

	s, _ := eng.Status(ctx, session.ID)
	if s.Status != domain.SessionAbandoned {
		t.Fatalf("expected abandoned, got %s", s.Status)
	}

	_, err := eng.ToggleStep(ctx, session.ID, 0)
	if !errors.Is(err, domain.ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive, got %v", err)
	}

	// Queries keep working on an abandoned session.
	if _, err := eng.View(ctx, session.ID); err != nil {
		t.Fatalf("view after abandon: %v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)

	if _, err := eng.ToggleStep(ctx, "missing", 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := eng.Progress(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCelebratorErrorKeepsToggle(t *testing.T) {
	eng, rec, _, ctx := setupEngine(t)
	rec.err = errors.New("speaker unplugged")
	session := startSession(t, eng, ctx, "ramen")

	if err := eng.SelectRecipe(ctx, session.ID, 1); err != nil {
		t.Fatalf("select recipe: %v", err)
	}
	var last Toggle
	for step := 0; step < 4; step++ {
		var err error
		last, err = eng.ToggleStep(ctx, session.ID, step)
		if err != nil {
			t.Fatalf("toggle %d: %v", step, err)
		}
	}
	if last.Celebration == nil {
		t.Fatal("expected celebration despite celebrator error")
	}
	p, _ := eng.Progress(ctx, session.ID)
	if p.State != domain.StateComplete {
		t.Fatalf("expected complete, got %s", p.State)
	}
}
