package engine

import (
	"context"
	"time"

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/logger"
	"github.com/hammamikhairi/stepchef/internal/progress"
)

// Toggle is the outcome of checking or un-checking a step.
type Toggle struct {
	progress.ToggleResult
	// Celebration is set when the toggle finished the recipe.
	Celebration *domain.Celebration
}

// Progress summarizes one recipe's completion.
type Progress struct {
	RecipeIndex int
	Completed   int
	Total       int
	Ratio       float64
	State       domain.RecipeState
}

// Driver computes progress over a completion tracker and turns
// incomplete-to-complete crossings into celebrations.
type Driver struct {
	tracker    *progress.Tracker
	celebrator domain.Celebrator
	log        *logger.Logger
	now        func() time.Time

	// Filled into emitted celebrations.
	SessionID string
	FoodItem  string
	// Crossings counts completions per recipe index. May be nil.
	Crossings map[int]int
}

// NewDriver creates a driver over tracker. A nil celebrator drops
// celebrations after counting them.
func NewDriver(tracker *progress.Tracker, celebrator domain.Celebrator, log *logger.Logger) *Driver {
	return &Driver{
		tracker:    tracker,
		celebrator: celebrator,
		log:        log,
		now:        time.Now,
	}
}

// ComputeProgress returns the completed fraction of a recipe in [0, 1].
// A recipe with no steps reports 0.
func (d *Driver) ComputeProgress(recipe, totalSteps int) float64 {
	return progress.Ratio(d.tracker.CountWithin(recipe, totalSteps), totalSteps)
}

// State returns the boundary state of a recipe.
func (d *Driver) State(recipe, totalSteps int) domain.RecipeState {
	if totalSteps <= 0 {
		return domain.StateEmpty
	}
	if d.tracker.CountWithin(recipe, totalSteps) == totalSteps {
		return domain.StateComplete
	}
	return domain.StateIncomplete
}

// Progress returns the full progress summary of a recipe.
func (d *Driver) Progress(recipe, totalSteps int) Progress {
	return Progress{
		RecipeIndex: recipe,
		Completed:   d.tracker.CountWithin(recipe, totalSteps),
		Total:       totalSteps,
		Ratio:       d.ComputeProgress(recipe, totalSteps),
		State:       d.State(recipe, totalSteps),
	}
}

// OnStepToggled toggles a step and, if that finished the recipe, emits
// exactly one celebration naming it. Un-checking a step is silent.
// Celebrator failures are logged; the toggle stands.
func (d *Driver) OnStepToggled(ctx context.Context, recipe, step, totalSteps int, recipeName string) Toggle {
	res := d.tracker.Toggle(recipe, step, totalSteps)
	out := Toggle{ToggleResult: res}
	if !res.Applied {
		d.log.Debug("ignored toggle of step %d on recipe %d (%d steps)", step, recipe, totalSteps)
		return out
	}
	if !res.Crossed {
		return out
	}

	crossing := 1
	if d.Crossings != nil {
		d.Crossings[recipe]++
		crossing = d.Crossings[recipe]
	}

	c := domain.Celebration{
		SessionID:   d.SessionID,
		FoodItem:    d.FoodItem,
		RecipeIndex: recipe,
		RecipeName:  recipeName,
		Crossing:    crossing,
		At:          d.now(),
	}
	out.Celebration = &c

	d.log.Info("recipe %q completed (crossing %d)", recipeName, crossing)
	if d.celebrator != nil {
		if err := d.celebrator.Celebrate(ctx, c); err != nil {
			d.log.Warn("celebration for %q failed: %v", recipeName, err)
		}
	}
	return out
}
