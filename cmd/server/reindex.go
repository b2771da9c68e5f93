package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newReindexCmd(state *cliState) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "reindex [plural...]",
		Short: "Rebuild search indexes from the record store",
		Long: "Clears and rebuilds the full-text index of the named record kinds " +
			"(e.g. banks job-titles), or of every kind when none is named.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := maintenanceContext(cmd.Context(), actor)
			a, err := openApp(ctx, state.cfg, state.logger, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			targets := a.catalog.engines
			if len(args) > 0 {
				targets = targets[:0:0]
				for _, plural := range args {
					e, ok := a.catalog.engine(plural)
					if !ok {
						return fmt.Errorf("unknown record kind %q", plural)
					}
					targets = append(targets, e)
				}
			} else {
				sort.Slice(targets, func(i, j int) bool {
					return targets[i].Kind().Plural < targets[j].Kind().Plural
				})
			}

			for _, e := range targets {
				n, err := e.Reindex(ctx)
				if err != nil {
					return fmt.Errorf("reindex %s: %w", e.Kind().Plural, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", e.Kind().Plural, n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Operator recorded in the logs")
	return cmd
}
