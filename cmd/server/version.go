package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hrcatalog/internal/platform/health"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hrcatalog version %s\n", health.Version)
			return nil
		},
	}
}
