package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hammamikhairi/stepchef/internal/domain"
)

// ParseJSON decodes an analysis payload as returned by the food analysis
// service. The payload is loosely typed: the recipe list may be the top
// level array or live under "recipes", ingredients come either as a flat
// "ingredients" list or as "ingredientGroups", and numeric metadata is
// often a string with a unit ("12g", "15 minutes").
func ParseJSON(data []byte) (*domain.Analysis, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", domain.ErrInvalidAnalysis)
	}
	root := gjson.ParseBytes(data)

	a := &domain.Analysis{
		ID:       firstString(root, "id", "analysisId"),
		FoodItem: firstString(root, "foodItem", "food_item", "food", "name"),
	}

	recipes := root
	if root.IsObject() {
		recipes = root.Get("recipes")
	}
	recipes.ForEach(func(_, r gjson.Result) bool {
		a.Recipes = append(a.Recipes, parseJSONRecipe(r))
		return true
	})

	if a.FoodItem == "" && len(a.Recipes) > 0 {
		a.FoodItem = a.Recipes[0].Title
	}
	if err := validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

func parseJSONRecipe(r gjson.Result) domain.Recipe {
	recipe := domain.Recipe{
		Title:           firstString(r, "title", "name"),
		Description:     r.Get("description").String(),
		Instructions:    stringList(r.Get("instructions")),
		Ingredients:     parseJSONIngredients(r),
		Servings:        int(numberOf(r.Get("servings"))),
		PrepTime:        minutes(r.Get("prepTime")),
		CookTime:        minutes(r.Get("cookTime")),
		Techniques:      stringList(r.Get("techniques")),
		CulturalContext: firstString(r, "culturalContext", "cultural_context"),
	}

	r.Get("variations").ForEach(func(_, v gjson.Result) bool {
		recipe.Variations = append(recipe.Variations, domain.Variation{
			Name:         firstString(v, "type", "name"),
			Description:  v.Get("description").String(),
			Instructions: stringList(v.Get("instructions")),
		})
		return true
	})

	if n := r.Get("nutrition"); n.IsObject() {
		recipe.Nutrition = &domain.Nutrition{
			Calories: numberOf(n.Get("calories")),
			Protein:  numberOf(n.Get("protein")),
			Carbs:    numberOf(firstResult(n, "carbs", "carbohydrates")),
			Fat:      numberOf(n.Get("fat")),
			Fiber:    numberOf(n.Get("fiber")),
			Sodium:   numberOf(n.Get("sodium")),
		}
	}
	return recipe
}

// parseJSONIngredients prefers groups when the payload has any.
func parseJSONIngredients(r gjson.Result) domain.IngredientList {
	if groups := r.Get("ingredientGroups"); groups.IsArray() && len(groups.Array()) > 0 {
		var out []domain.IngredientGroup
		groups.ForEach(func(_, g gjson.Result) bool {
			out = append(out, domain.IngredientGroup{
				Name:  firstString(g, "title", "name", "group"),
				Items: ingredientLines(firstResult(g, "ingredients", "items")),
			})
			return true
		})
		return domain.GroupedIngredients(out...)
	}
	return domain.FlatIngredients(ingredientLines(r.Get("ingredients"))...)
}

// ingredientLines accepts plain strings or {amount, unit, item} objects.
func ingredientLines(list gjson.Result) []string {
	var out []string
	list.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			if s := strings.TrimSpace(v.String()); s != "" {
				out = append(out, s)
			}
			return true
		}
		var parts []string
		for _, key := range []string{"amount", "quantity", "unit", "item", "name"} {
			if s := strings.TrimSpace(v.Get(key).String()); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, " "))
		}
		return true
	})
	return out
}

func stringList(list gjson.Result) []string {
	var out []string
	list.ForEach(func(_, v gjson.Result) bool {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}

func firstResult(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func firstString(r gjson.Result, keys ...string) string {
	return strings.TrimSpace(firstResult(r, keys...).String())
}

func numberOf(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return parseNumber(v.String())
	default:
		return 0
	}
}

func minutes(v gjson.Result) time.Duration {
	return time.Duration(numberOf(v) * float64(time.Minute))
}
