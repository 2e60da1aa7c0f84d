package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-blog/internal/store"
)

func CreateCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an author together with their first post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			title, _ := cmd.Flags().GetString("title")
			content, _ := cmd.Flags().GetString("content")

			in := store.CreateAuthorInput{
				Email:       email,
				PostTitle:   title,
				PostContent: content,
			}
			if name != "" {
				in.Name = &name
			}

			return withClient(cmd, env, func(ctx context.Context, client *store.Client) (interface{}, error) {
				return client.CreateAuthorWithPost(ctx, in)
			})
		},
	}

	cmd.Flags().String("name", defaultName, "Author display name (empty for none)")
	cmd.Flags().String("email", defaultEmail, "Author email")
	cmd.Flags().String("title", defaultPostTitle, "Post title")
	cmd.Flags().String("content", defaultPostContent, "Post content")

	return cmd
}
