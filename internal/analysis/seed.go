package analysis

import (
	"time"

	"github.com/hammamikhairi/stepchef/internal/domain"
)

// seed populates the source with built-in analyses.
func (s *MemorySource) seed() {
	now := time.Now()
	for _, a := range []*domain.Analysis{ramenAnalysis(), pancakeAnalysis()} {
		a.LoadedAt = now
		s.analyses[a.ID] = a
	}
	s.log.Debug("seeded %d analyses", len(s.analyses))
}

func ramenAnalysis() *domain.Analysis {
	return &domain.Analysis{
		ID:       "ramen",
		FoodItem: "Ramen",
		Recipes: []domain.Recipe{
			{
				Title:       "Shoyu Ramen",
				Description: "Clear soy-seasoned chicken broth with chashu and marinated egg.",
				Servings:    4,
				PrepTime:    30 * time.Minute,
				CookTime:    2 * time.Hour,
				Ingredients: domain.GroupedIngredients(
					domain.IngredientGroup{Name: "Broth", Items: []string{
						"2 l chicken stock", "1 sheet kombu", "4 slices ginger", "3 scallions",
					}},
					domain.IngredientGroup{Name: "Tare", Items: []string{
						"120 ml soy sauce", "2 tbsp mirin", "1 tbsp sake",
					}},
					domain.IngredientGroup{Name: "Toppings", Items: []string{
						"4 eggs", "400 g pork belly", "4 portions fresh ramen noodles", "nori",
					}},
				),
				Instructions: []string{
					"Simmer the chicken stock with kombu, ginger and scallion whites for 1 hour.",
					"Whisk soy sauce, mirin and sake into a tare.",
					"Boil the eggs for 6.5 minutes, chill, then marinate in a little tare.",
					"Roll and braise the pork belly until tender, then slice.",
					"Cook the noodles according to the packet.",
					"Put tare in each bowl, add hot broth, noodles and toppings.",
				},
				Variations: []domain.Variation{
					{
						Name:        "Vegan",
						Description: "Shiitake-kombu dashi with seared tofu.",
						Instructions: []string{
							"Simmer dried shiitake and kombu for 40 minutes.",
							"Whisk soy sauce, mirin and sake into a tare.",
							"Press and sear the tofu until golden.",
							"Cook egg-free noodles according to the packet.",
							"Put tare in each bowl, add hot dashi, noodles and tofu.",
						},
					},
					{
						Name:        "Spicy",
						Description: "Finish each bowl with chili oil.",
					},
				},
				Techniques:      []string{"simmering", "braising"},
				CulturalContext: "Tokyo-style ramen built on a chicken and soy base.",
				Nutrition:       &domain.Nutrition{Calories: 620, Protein: 32, Carbs: 68, Fat: 22, Fiber: 3, Sodium: 2100},
			},
			{
				Title:       "Miso Ramen",
				Description: "Sapporo-style ramen with a rich miso base.",
				Servings:    2,
				Ingredients: domain.FlatIngredients(
					"3 tbsp white miso", "1 l pork stock", "200 g ground pork",
					"1 cup bean sprouts", "2 portions noodles", "corn", "butter",
				),
				Instructions: []string{
					"Stir-fry the ground pork with garlic until browned.",
					"Add stock and bring to a simmer.",
					"Whisk in the miso off the boil.",
					"Serve over noodles with sprouts, corn and a pat of butter.",
				},
			},
			{
				Title:       "Tsukemen",
				Description: "Dipping noodles with a concentrated broth.",
				Servings:    2,
				Ingredients: domain.FlatIngredients(
					"500 ml tonkotsu broth", "2 tbsp fish powder", "300 g thick noodles", "lime",
				),
				Instructions: []string{
					"Reduce the broth by half.",
					"Season with fish powder and tare.",
					"Cook the noodles, then rinse in cold water.",
					"Serve noodles and hot dipping broth separately.",
					"Finish with a squeeze of lime.",
				},
				Variations: []domain.Variation{
					{
						Name:        "Gluten-Free",
						Description: "Rice noodles and tamari.",
						Instructions: []string{
							"Reduce the broth by half.",
							"Season with fish powder and tamari.",
							"Cook rice noodles, then rinse in cold water.",
							"Serve noodles and hot dipping broth separately.",
						},
					},
				},
			},
		},
	}
}

func pancakeAnalysis() *domain.Analysis {
	simple := func(title string, steps ...string) domain.Recipe {
		return domain.Recipe{
			Title:        title,
			Servings:     4,
			Ingredients:  domain.FlatIngredients("200 g flour", "2 eggs", "300 ml milk", "1 tbsp sugar", "pinch of salt"),
			Instructions: steps,
		}
	}
	return &domain.Analysis{
		ID:       "pancakes",
		FoodItem: "Pancakes",
		Recipes: []domain.Recipe{
			simple("Buttermilk Pancakes",
				"Whisk the dry ingredients.",
				"Whisk buttermilk, eggs and melted butter.",
				"Fold wet into dry until just combined.",
				"Rest the batter for 10 minutes.",
				"Cook on a buttered griddle until bubbles form, then flip.",
			),
			simple("Crêpes",
				"Blend all ingredients until smooth.",
				"Rest the batter for 30 minutes.",
				"Cook thin layers in a hot pan, 1 minute per side.",
			),
			simple("Dutch Baby",
				"Heat a cast-iron pan in a 220°C oven.",
				"Blend the batter.",
				"Melt butter in the hot pan and pour in the batter.",
				"Bake for 20 minutes until puffed.",
			),
			simple("Japanese Soufflé Pancakes",
				"Whisk yolks, milk and flour.",
				"Whip whites with sugar to stiff peaks.",
				"Fold the meringue into the yolk mixture.",
				"Pipe tall rounds and steam-cook covered on low heat.",
			),
			simple("Scallion Pancakes",
				"Make a hot-water dough and rest it.",
				"Roll out, brush with oil and scatter scallions.",
				"Coil, flatten and pan-fry until crisp.",
			),
		},
	}
}
