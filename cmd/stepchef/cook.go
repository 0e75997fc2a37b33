package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/stepchef/internal/conversation"
	"github.com/hammamikhairi/stepchef/internal/display"
)

func cookCmd() *cobra.Command {
	var (
		sel       selection
		builtinID string
	)

	cmd := &cobra.Command{
		Use:   "cook [file]",
		Short: "Cook interactively through the recipes of an analysis",
		Long: `Open the recipes of an analysis file as interactive checklists. Without a
file, a built-in analysis is used (see "stepchef recipes").`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			a.enableChime()

			analysis, err := a.load(ctx, fileArg(args), builtinID)
			if err != nil {
				return err
			}

			eng := a.engine()
			session, err := eng.StartSession(ctx, analysis.ID)
			if err != nil {
				return err
			}
			if err := sel.apply(ctx, eng, session.ID); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, display.RenderBanner(display.TermWidth(), describe(analysis)))

			m := display.New(ctx, eng, conversation.NewKeywordParser(log), session.ID, log)
			if err := display.Run(ctx, m); err != nil {
				return fmt.Errorf("running display: %w", err)
			}

			all, err := eng.AllProgress(ctx, session.ID)
			if err != nil {
				return err
			}
			for i, p := range all {
				fmt.Fprintf(out, "%-30s %d/%d %s\n", analysis.Recipes[i].Title, p.Completed, p.Total, p.State)
			}
			return eng.Abandon(ctx, session.ID)
		},
	}

	cmd.Flags().IntVarP(&sel.recipe, "recipe", "r", 0, "recipe number to start on (1-based)")
	cmd.Flags().StringVarP(&sel.variation, "variation", "V", "", "variation to select on the starting recipe")
	cmd.Flags().StringVar(&builtinID, "analysis", "ramen", "built-in analysis to use when no file is given")
	cmd.Flags().Bool("no-chime", false, "do not play a sound when a recipe is finished")
	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		if off, _ := cmd.Flags().GetBool("no-chime"); off {
			cfg.ChimeEnabled = false
		}
	}
	return cmd
}
