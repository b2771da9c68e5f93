package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"hrcatalog/pkg/secrets"
)

type adminTokenOutput struct {
	Token string            `json:"token"`
	Hash  string            `json:"hash"`
	Usage map[string]string `json:"usage"`
}

func newAdminTokenCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Mint an operator token and its bcrypt hash",
		Long:  "Prints a random operator token and the bcrypt hash to set as ADMIN_TOKEN_HASH. Pass --token to hash an existing token instead.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				var err error
				if token, err = secrets.Generate(); err != nil {
					return err
				}
			}
			hash, err := secrets.Hash(token)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(adminTokenOutput{
				Token: token,
				Hash:  hash,
				Usage: map[string]string{
					"server": "export ADMIN_TOKEN_HASH='" + hash + "'",
					"curl":   "curl -H 'X-Admin-Token: " + token + "' http://localhost:8080/admin/index-repairs",
				},
			})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Existing token to hash; a random one is generated when empty")
	return cmd
}
