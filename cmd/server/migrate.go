package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hrcatalog/internal/platform/database"
)

func newMigrateCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := state.cfg
			if cfg.InMemory() {
				return errors.New("migrate needs DATABASE_URL or --database-url")
			}

			pool, err := database.Open(cmd.Context(), database.DefaultConfig(cfg.DatabaseURL), state.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(pool.DB()); err != nil {
				return err
			}
			version, err := database.MigrationVersion(pool.DB())
			if err != nil {
				return err
			}

			state.logger.Info("migrations applied", "version", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}
}
