package analysis

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/stepchef/internal/domain"
)

// yamlBook is the on-disk shape of a hand-written recipe book.
type yamlBook struct {
	ID       string       `yaml:"id"`
	FoodItem string       `yaml:"food_item"`
	Recipes  []yamlRecipe `yaml:"recipes"`
}

type yamlRecipe struct {
	Title            string          `yaml:"title"`
	Description      string          `yaml:"description"`
	Servings         int             `yaml:"servings"`
	PrepMinutes      float64         `yaml:"prep_minutes"`
	CookMinutes      float64         `yaml:"cook_minutes"`
	Ingredients      []string        `yaml:"ingredients"`
	IngredientGroups []yamlGroup     `yaml:"ingredient_groups"`
	Instructions     []string        `yaml:"instructions"`
	Variations       []yamlVariation `yaml:"variations"`
	Techniques       []string        `yaml:"techniques"`
	CulturalContext  string          `yaml:"cultural_context"`
	Nutrition        *yamlNutrition  `yaml:"nutrition"`
}

type yamlGroup struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

type yamlVariation struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Instructions []string `yaml:"instructions"`
}

type yamlNutrition struct {
	Calories float64 `yaml:"calories"`
	Protein  float64 `yaml:"protein"`
	Carbs    float64 `yaml:"carbs"`
	Fat      float64 `yaml:"fat"`
	Fiber    float64 `yaml:"fiber"`
	Sodium   float64 `yaml:"sodium"`
}

// ParseYAML decodes a recipe book. Unknown keys are rejected so typos in
// hand-written files surface instead of silently dropping data.
func ParseYAML(data []byte) (*domain.Analysis, error) {
	var book yamlBook
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&book); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAnalysis, err)
	}

	a := &domain.Analysis{ID: book.ID, FoodItem: book.FoodItem}
	for _, r := range book.Recipes {
		a.Recipes = append(a.Recipes, r.toDomain())
	}
	if a.FoodItem == "" && len(a.Recipes) > 0 {
		a.FoodItem = a.Recipes[0].Title
	}
	if err := validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r yamlRecipe) toDomain() domain.Recipe {
	out := domain.Recipe{
		Title:           r.Title,
		Description:     r.Description,
		Instructions:    r.Instructions,
		Servings:        r.Servings,
		PrepTime:        time.Duration(r.PrepMinutes * float64(time.Minute)),
		CookTime:        time.Duration(r.CookMinutes * float64(time.Minute)),
		Techniques:      r.Techniques,
		CulturalContext: r.CulturalContext,
	}

	if len(r.IngredientGroups) > 0 {
		groups := make([]domain.IngredientGroup, 0, len(r.IngredientGroups))
		for _, g := range r.IngredientGroups {
			groups = append(groups, domain.IngredientGroup{Name: g.Name, Items: g.Items})
		}
		out.Ingredients = domain.GroupedIngredients(groups...)
	} else {
		out.Ingredients = domain.FlatIngredients(r.Ingredients...)
	}

	for _, v := range r.Variations {
		out.Variations = append(out.Variations, domain.Variation{
			Name:         v.Name,
			Description:  v.Description,
			Instructions: v.Instructions,
		})
	}

	if n := r.Nutrition; n != nil {
		out.Nutrition = &domain.Nutrition{
			Calories: n.Calories,
			Protein:  n.Protein,
			Carbs:    n.Carbs,
			Fat:      n.Fat,
			Fiber:    n.Fiber,
			Sodium:   n.Sodium,
		}
	}
	return out
}
