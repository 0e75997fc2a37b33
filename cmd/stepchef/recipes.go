package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/variation"
)

func recipesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recipes [file]",
		Short: "List the recipes and variations of an analysis",
		Long: `List the recipes of an analysis file with their variations and step counts.
Without a file, the built-in analyses are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if len(args) == 0 {
				summaries, err := a.source.List(ctx)
				if err != nil {
					return err
				}
				for _, s := range summaries {
					fmt.Fprintf(out, "%-12s %s (%d recipes)\n", s.ID, s.FoodItem, s.RecipeCount)
				}
				return nil
			}

			analysis, err := a.source.LoadFile(ctx, args[0])
			if err != nil {
				return err
			}
			printRecipes(out, analysis)
			return nil
		},
	}
}

func printRecipes(w io.Writer, a *domain.Analysis) {
	fmt.Fprintf(w, "%s (%s)\n", a.FoodItem, a.ID)
	for i, r := range a.Recipes {
		fmt.Fprintf(w, "\n%d. %s  [%d steps, %d ingredients]\n", i+1, r.Title, len(r.Instructions), r.Ingredients.Len())
		if r.Description != "" {
			fmt.Fprintf(w, "   %s\n", r.Description)
		}

		var meta []string
		if r.Servings > 0 {
			meta = append(meta, fmt.Sprintf("serves %d", r.Servings))
		}
		if r.PrepTime > 0 {
			meta = append(meta, "prep "+r.PrepTime.String())
		}
		if r.CookTime > 0 {
			meta = append(meta, "cook "+r.CookTime.String())
		}
		if r.Nutrition != nil && r.Nutrition.Calories > 0 {
			meta = append(meta, fmt.Sprintf("%.0f kcal", r.Nutrition.Calories))
		}
		if len(meta) > 0 {
			fmt.Fprintf(w, "   %s\n", strings.Join(meta, " · "))
		}

		for _, name := range variation.Names(r) {
			v, _ := variation.Find(r, name)
			steps := "base steps"
			if len(v.Instructions) > 0 {
				steps = fmt.Sprintf("%d steps", len(v.Instructions))
			}
			fmt.Fprintf(w, "   - %s (%s)\n", name, steps)
		}
	}
}
