package domain

import (
	"time"

	"github.com/hammamikhairi/stepchef/internal/progress"
)

// Session is one user's interaction with a loaded analysis: which recipe
// is active, which variation is selected, and which steps are checked off.
type Session struct {
	ID                string
	Analysis          *Analysis
	ActiveRecipe      int
	SelectedVariation string // empty when none
	Completion        *progress.Tracker
	Celebrations      map[int]int // recipe index -> completed crossings
	Status            SessionStatus
	StartedAt         time.Time
	UpdatedAt         time.Time
}

// Recipe returns the active recipe, or false if the session points at
// nothing (no analysis or an index outside the recipe list).
func (s *Session) Recipe() (Recipe, bool) {
	return s.RecipeAt(s.ActiveRecipe)
}

// RecipeAt returns the recipe at index i of the loaded analysis.
func (s *Session) RecipeAt(i int) (Recipe, bool) {
	if s.Analysis == nil || i < 0 || i >= len(s.Analysis.Recipes) {
		return Recipe{}, false
	}
	return s.Analysis.Recipes[i], true
}

// SessionStatus tracks the lifecycle of a session.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionAbandoned
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// RecipeState is the boundary state of one recipe's progress.
type RecipeState int

const (
	// StateEmpty is a recipe with no steps. It never becomes complete.
	StateEmpty RecipeState = iota
	// StateIncomplete has at least one unchecked step.
	StateIncomplete
	// StateComplete has every step checked.
	StateComplete
)

// String returns a human-readable recipe state.
func (s RecipeState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateIncomplete:
		return "incomplete"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Celebration is emitted when a recipe crosses from incomplete to fully
// checked off.
type Celebration struct {
	SessionID   string
	FoodItem    string
	RecipeIndex int
	RecipeName  string
	// Crossing counts completions of this recipe within the session,
	// starting at 1. A recipe un-checked and finished again celebrates
	// again with the next number.
	Crossing int
	At       time.Time
}
