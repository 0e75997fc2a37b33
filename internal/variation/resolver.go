// Package variation derives the recipe view shown to the user from a base
// recipe and an optional variation selection.
package variation

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/stepchef/internal/domain"
)

// Find returns the variation with the given name. Names match exactly;
// selections come from the recipe's own variation list.
func Find(recipe domain.Recipe, name string) (domain.Variation, bool) {
	if name == "" {
		return domain.Variation{}, false
	}
	for _, v := range recipe.Variations {
		if v.Name == name {
			return v, true
		}
	}
	return domain.Variation{}, false
}

// Lookup is like Find but ignores case and surrounding whitespace. It
// returns the canonical name so typed input ("vegan") can be turned into
// a stored selection ("Vegan").
func Lookup(recipe domain.Recipe, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, v := range recipe.Variations {
		if strings.EqualFold(v.Name, name) {
			return v.Name, true
		}
	}
	return "", false
}

// Names lists the recipe's variation names in order.
func Names(recipe domain.Recipe) []string {
	out := make([]string, 0, len(recipe.Variations))
	for _, v := range recipe.Variations {
		out = append(out, v.Name)
	}
	return out
}

// Resolve returns the effective view of a recipe. An empty or unmatched
// name yields the base recipe; a stale selection is not an error. The
// returned slices are copies and never alias the recipe.
func Resolve(recipe domain.Recipe, name string) domain.EffectiveView {
	view := domain.EffectiveView{
		Title:        recipe.Title,
		Instructions: clone(recipe.Instructions),
		Ingredients:  cloneIngredients(recipe.Ingredients),
	}

	v, ok := Find(recipe, name)
	if !ok {
		return view
	}

	view.Title = Title(recipe.Title, v.Name)
	view.Variation = v.Name
	if len(v.Instructions) > 0 {
		view.Instructions = clone(v.Instructions)
	}
	return view
}

// Title annotates a recipe title with a variation name.
func Title(base, variation string) string {
	return fmt.Sprintf("%s (%s Variation)", base, variation)
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneIngredients(l domain.IngredientList) domain.IngredientList {
	out := domain.IngredientList{Kind: l.Kind, Flat: clone(l.Flat)}
	if l.Groups != nil {
		out.Groups = make([]domain.IngredientGroup, len(l.Groups))
		for i, g := range l.Groups {
			out.Groups[i] = domain.IngredientGroup{Name: g.Name, Items: clone(g.Items)}
		}
	}
	return out
}
