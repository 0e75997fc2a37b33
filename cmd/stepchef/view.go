package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/stepchef/internal/conversation"
	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/engine"
)

func viewCmd() *cobra.Command {
	var (
		sel         selection
		builtinID   string
		check       []int
		ingredients bool
	)

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Print a recipe with its selected variation and progress",
		Long: `Print the effective view of one recipe. Steps given with --check are
checked off first, so finishing a recipe from the command line is celebrated
and recorded like in the interactive mode.`,
		Example: `  stepchef view ramen.json --recipe 2 --variation vegan
  stepchef view --check 1,2,3,4 --recipe 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			analysis, err := a.load(ctx, fileArg(args), builtinID)
			if err != nil {
				return err
			}

			notifier := conversation.NewCLINotifier(log, func(format string, v ...interface{}) {
				fmt.Fprintf(out, format+"\n", v...)
			})
			eng := a.engine(notifier)
			session, err := eng.StartSession(ctx, analysis.ID)
			if err != nil {
				return err
			}
			defer eng.Abandon(ctx, session.ID)

			if err := sel.apply(ctx, eng, session.ID); err != nil {
				return err
			}

			for _, n := range check {
				t, err := eng.ToggleStep(ctx, session.ID, n-1)
				if err != nil {
					return err
				}
				if !t.Applied {
					_ = notifier.NotifyUrgent(ctx, fmt.Sprintf("step %d does not exist, skipped", n))
				}
			}

			view, err := eng.View(ctx, session.ID)
			if err != nil {
				return err
			}
			p, err := eng.Progress(ctx, session.ID)
			if err != nil {
				return err
			}
			done := make([]bool, view.TotalSteps())
			for i := range done {
				if done[i], err = eng.StepComplete(ctx, session.ID, i); err != nil {
					return err
				}
			}

			printView(out, view, done, p, ingredients)
			return nil
		},
	}

	cmd.Flags().IntVarP(&sel.recipe, "recipe", "r", 0, "recipe number (1-based)")
	cmd.Flags().StringVarP(&sel.variation, "variation", "V", "", "variation to apply")
	cmd.Flags().StringVar(&builtinID, "analysis", "ramen", "built-in analysis to use when no file is given")
	cmd.Flags().IntSliceVarP(&check, "check", "c", nil, "step numbers to check off (1-based)")
	cmd.Flags().BoolVarP(&ingredients, "ingredients", "i", false, "include the ingredient list")
	return cmd
}

func printView(w io.Writer, view domain.EffectiveView, done []bool, p engine.Progress, ingredients bool) {
	fmt.Fprintln(w, view.Title)
	fmt.Fprintln(w, strings.Repeat("=", len([]rune(view.Title))))

	if ingredients {
		fmt.Fprintln(w, "\nIngredients:")
		switch view.Ingredients.Kind {
		case domain.IngredientsGrouped:
			for _, g := range view.Ingredients.Groups {
				fmt.Fprintf(w, "  %s\n", g.Name)
				for _, item := range g.Items {
					fmt.Fprintf(w, "    - %s\n", item)
				}
			}
		default:
			for _, item := range view.Ingredients.Flat {
				fmt.Fprintf(w, "  - %s\n", item)
			}
		}
	}

	fmt.Fprintln(w, "\nSteps:")
	for i, step := range view.Instructions {
		box := "[ ]"
		if done[i] {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s %d. %s\n", box, i+1, step)
	}

	fmt.Fprintf(w, "\nProgress: %d/%d (%.0f%%) %s\n", p.Completed, p.Total, p.Ratio*100, p.State)
}
