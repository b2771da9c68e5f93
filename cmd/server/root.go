package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"hrcatalog/internal/platform/config"
	"hrcatalog/internal/platform/logger"
)

// cliState is resolved once in PersistentPreRunE and shared by subcommands.
type cliState struct {
	cfg    config.Server
	logger *slog.Logger
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := newRootCmd(&cliState{}).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(state *cliState) *cobra.Command {
	var (
		logLevel    string
		databaseURL string
		indexPath   string
	)

	rootCmd := &cobra.Command{
		Use:           "hrcatalog",
		Short:         "HR reference catalog service",
		Long:          "Serves the HR reference catalog, keeping the Postgres record store and the full-text index in step.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			state.cfg = config.FromEnv()

			// Precedence: flag > env > default.
			if cmd.Flags().Changed("log-level") {
				state.cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("database-url") {
				state.cfg.DatabaseURL = databaseURL
			}
			if cmd.Flags().Changed("index-path") {
				state.cfg.IndexPath = indexPath
			}

			state.logger = logger.New(state.cfg.LogLevel)
			slog.SetDefault(state.logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres connection URL; empty keeps records in memory")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index-path", "", "SQLite search index file; empty keeps the index in memory")

	rootCmd.AddCommand(newServeCmd(state))
	rootCmd.AddCommand(newMigrateCmd(state))
	rootCmd.AddCommand(newReindexCmd(state))
	rootCmd.AddCommand(newWatchCmd(state))
	rootCmd.AddCommand(newAdminTokenCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
