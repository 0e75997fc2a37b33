package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		limit int
		tally bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finished recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !cfg.HistoryEnabled {
				return errors.New("history is disabled (history.enabled=false)")
			}
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if tally {
				rows, err := a.history.Tally(ctx)
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Fprintf(out, "%4d  %-40s last %s\n", r.Count, r.RecipeName, r.Last.Local().Format("2006-01-02 15:04"))
				}
				return nil
			}

			entries, err := a.history.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "Nothing finished yet.")
				return nil
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s  %-12s %s", e.CompletedAt.Local().Format("2006-01-02 15:04"), e.FoodItem, e.RecipeName)
				if e.Crossing > 1 {
					line += fmt.Sprintf(" (x%d)", e.Crossing)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().BoolVar(&tally, "tally", false, "count completions per recipe")
	return cmd
}
