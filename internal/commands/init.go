package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-blog/internal/schema"
	"github.com/beesaferoot/gorm-blog/internal/store"
)

func InitCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the authors and posts tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			return withClient(cmd, env, func(ctx context.Context, client *store.Client) (interface{}, error) {
				migrator := schema.NewMigrator(client.DB().WithContext(ctx))
				out := cmd.OutOrStdout()

				if dryRun {
					pending, err := migrator.Pending()
					if err != nil {
						return nil, fmt.Errorf("failed to list pending steps: %w", err)
					}
					for _, step := range pending {
						fmt.Fprintf(out, "- %s (%s)\n", step.Name, step.Version)
					}
					return nil, nil
				}

				applied, err := migrator.Up()
				if err != nil {
					return nil, err
				}
				if len(applied) == 0 {
					fmt.Fprintln(out, "Schema is up to date.")
					return nil, nil
				}
				for _, step := range applied {
					fmt.Fprintf(out, "Applied %s (%s)\n", step.Name, step.Version)
				}
				return nil, nil
			})
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending schema steps without applying them")

	return cmd
}
