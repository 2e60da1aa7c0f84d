package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-blog/internal/store"
)

func FindCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "List all posts with their authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, env, func(ctx context.Context, client *store.Client) (interface{}, error) {
				return client.FindPostsWithAuthor(ctx)
			})
		},
	}
}
