package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-blog/internal/store"
)

func DeleteCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an author by email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")

			return withClient(cmd, env, func(ctx context.Context, client *store.Client) (interface{}, error) {
				return client.DeleteAuthorByEmail(ctx, email)
			})
		},
	}

	cmd.Flags().String("email", defaultUpsertEmail, "Email of the author to delete")

	return cmd
}
