package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-blog/internal/store"
)

func UpsertCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Update an author's email, creating the author if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			updateEmail, _ := cmd.Flags().GetString("update-email")

			return withClient(cmd, env, func(ctx context.Context, client *store.Client) (interface{}, error) {
				return client.UpsertAuthorByEmail(ctx, email, updateEmail)
			})
		},
	}

	cmd.Flags().String("email", defaultUpsertEmail, "Email to look up, and to create with when missing")
	cmd.Flags().String("update-email", defaultUpsertNew, "Email to set when the author exists")

	return cmd
}
