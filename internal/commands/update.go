package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-blog/internal/store"
)

func UpdateCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change an author's email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			newEmail, _ := cmd.Flags().GetString("new-email")

			return withClient(cmd, env, func(ctx context.Context, client *store.Client) (interface{}, error) {
				return client.UpdateAuthorEmail(ctx, email, newEmail)
			})
		},
	}

	cmd.Flags().String("email", defaultEmail, "Current author email")
	cmd.Flags().String("new-email", defaultNewEmail, "Email to set")

	return cmd
}
