// Package progress tracks which instruction steps have been checked off,
// per recipe, for one loaded analysis.
//
// A Tracker is owned by a single session and is not safe for concurrent
// mutation; callers serialize access the same way they serialize access
// to the session that holds it.
package progress

import "sort"

// ToggleResult reports what a Toggle call did.
type ToggleResult struct {
	// Applied is false when the recipe or step index was out of range
	// and nothing changed.
	Applied bool
	// Completed is the step's membership after the toggle.
	Completed bool
	// Crossed is true when this toggle checked off the last remaining
	// step of the recipe.
	Crossed bool
}

// Tracker maps recipe index to the set of completed step indices.
type Tracker struct {
	sets []map[int]struct{}
}

// New creates a tracker with one empty completion set per recipe.
func New(recipeCount int) *Tracker {
	t := &Tracker{}
	t.Initialize(recipeCount)
	return t
}

// Initialize discards all progress and creates one empty completion set
// per recipe index 0..recipeCount-1. The new mapping is built in full
// before it replaces the old one.
func (t *Tracker) Initialize(recipeCount int) {
	if recipeCount < 0 {
		recipeCount = 0
	}
	sets := make([]map[int]struct{}, recipeCount)
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}
	t.sets = sets
}

// Len returns the number of recipe slots.
func (t *Tracker) Len() int {
	if t == nil {
		return 0
	}
	return len(t.sets)
}

// set returns the completion set for a recipe, or nil if unknown.
func (t *Tracker) set(recipe int) map[int]struct{} {
	if t == nil || recipe < 0 || recipe >= len(t.sets) {
		return nil
	}
	return t.sets[recipe]
}

// Toggle flips the completion of a step. totalSteps is the length of the
// recipe's effective instruction list at the time of the toggle; steps
// outside [0, totalSteps) are ignored.
func (t *Tracker) Toggle(recipe, step, totalSteps int) ToggleResult {
	s := t.set(recipe)
	if s == nil || step < 0 || step >= totalSteps {
		return ToggleResult{Completed: t.IsComplete(recipe, step)}
	}

	wasDone := countWithin(s, totalSteps) == totalSteps

	_, on := s[step]
	if on {
		delete(s, step)
	} else {
		s[step] = struct{}{}
	}

	nowDone := countWithin(s, totalSteps) == totalSteps
	return ToggleResult{
		Applied:   true,
		Completed: !on,
		Crossed:   !wasDone && nowDone,
	}
}

// IsComplete reports whether a step is checked off. Unknown indices
// report false.
func (t *Tracker) IsComplete(recipe, step int) bool {
	s := t.set(recipe)
	if s == nil {
		return false
	}
	_, ok := s[step]
	return ok
}

// Count returns the number of completed steps for a recipe, 0 if the
// index is unknown.
func (t *Tracker) Count(recipe int) int {
	return len(t.set(recipe))
}

// CountWithin counts completed steps that fall inside [0, totalSteps).
// Switching to a variation with fewer steps can leave checks beyond the
// end of the list; they are kept but not counted.
func (t *Tracker) CountWithin(recipe, totalSteps int) int {
	return countWithin(t.set(recipe), totalSteps)
}

// Steps returns the completed step indices of a recipe in ascending order.
func (t *Tracker) Steps(recipe int) []int {
	s := t.set(recipe)
	out := make([]int, 0, len(s))
	for step := range s {
		out = append(out, step)
	}
	sort.Ints(out)
	return out
}

// Reset clears the completion set of a single recipe. It returns false
// if the index is unknown.
func (t *Tracker) Reset(recipe int) bool {
	if t.set(recipe) == nil {
		return false
	}
	t.sets[recipe] = make(map[int]struct{})
	return true
}

func countWithin(s map[int]struct{}, totalSteps int) int {
	if totalSteps <= 0 {
		return 0
	}
	n := 0
	for step := range s {
		if step >= 0 && step < totalSteps {
			n++
		}
	}
	return n
}

// Ratio returns completed/total clamped to [0, 1]. A recipe with no
// steps has ratio 0.
func Ratio(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 1
	}
	return float64(completed) / float64(total)
}
