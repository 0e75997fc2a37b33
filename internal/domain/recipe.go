// Package domain defines the core types and interfaces for the recipe
// progress engine. Apart from the completion tracker it holds, domain
// depends on nothing else in the module.
package domain

import "time"

// Analysis is one analyzed food item and the recipes produced for it.
// Recipes are addressed by their position in Recipes.
type Analysis struct {
	ID       string
	FoodItem string
	Recipes  []Recipe
	LoadedAt time.Time
}

// AnalysisSummary is a lightweight view of an analysis for listing.
type AnalysisSummary struct {
	ID          string
	FoodItem    string
	RecipeCount int
}

// Recipe represents one complete cooking procedure for a food item.
// Recipes are immutable once received from the analysis source.
type Recipe struct {
	Title           string
	Description     string
	Instructions    []string
	Ingredients     IngredientList
	Variations      []Variation
	Servings        int
	PrepTime        time.Duration
	CookTime        time.Duration
	Techniques      []string
	CulturalContext string
	Nutrition       *Nutrition
}

// Variation is a named alternative instruction set attached to a recipe,
// for example a dietary adaptation such as "Vegan".
type Variation struct {
	Name         string
	Description  string
	Instructions []string
}

// IngredientKind tags which representation an IngredientList carries.
type IngredientKind int

const (
	// IngredientsFlat is a plain ordered list of ingredient lines.
	IngredientsFlat IngredientKind = iota
	// IngredientsGrouped splits ingredients into named groups
	// ("For the sauce", "For the dough").
	IngredientsGrouped
)

// String returns a human-readable ingredient kind.
func (k IngredientKind) String() string {
	switch k {
	case IngredientsFlat:
		return "flat"
	case IngredientsGrouped:
		return "grouped"
	default:
		return "unknown"
	}
}

// IngredientList is either a flat list or a list of groups. Branch on Kind.
type IngredientList struct {
	Kind   IngredientKind
	Flat   []string
	Groups []IngredientGroup
}

// IngredientGroup is a titled block of ingredient lines.
type IngredientGroup struct {
	Name  string
	Items []string
}

// FlatIngredients builds a flat ingredient list.
func FlatIngredients(items ...string) IngredientList {
	return IngredientList{Kind: IngredientsFlat, Flat: items}
}

// GroupedIngredients builds a grouped ingredient list.
func GroupedIngredients(groups ...IngredientGroup) IngredientList {
	return IngredientList{Kind: IngredientsGrouped, Groups: groups}
}

// Len returns the total number of ingredient lines across all groups.
func (l IngredientList) Len() int {
	if l.Kind == IngredientsGrouped {
		n := 0
		for _, g := range l.Groups {
			n += len(g.Items)
		}
		return n
	}
	return len(l.Flat)
}

// Nutrition is per-serving nutrition metadata supplied by the analysis.
type Nutrition struct {
	Calories float64
	Protein  float64 // grams
	Carbs    float64 // grams
	Fat      float64 // grams
	Fiber    float64 // grams
	Sodium   float64 // milligrams
}

// EffectiveView is the recipe actually shown to the user after applying
// (or not applying) a selected variation. It is derived on demand and
// never written back to the recipe.
type EffectiveView struct {
	Title        string
	Instructions []string
	Ingredients  IngredientList
	// Variation is the name of the applied variation, empty when the
	// base recipe is shown.
	Variation string
}

// TotalSteps returns the number of instruction steps in the view.
func (v EffectiveView) TotalSteps() int {
	return len(v.Instructions)
}
