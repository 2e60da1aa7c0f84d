package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-blog/internal/commands"
	"github.com/beesaferoot/gorm-blog/internal/config"
	"github.com/beesaferoot/gorm-blog/internal/logger"
)

func main() {
	cfg := config.Default()
	env := commands.NewEnv(&cfg, logger.New(cfg.Log))

	rootCmd := &cobra.Command{
		Use:           "gorm-blog",
		Short:         "Authors and posts data-access tool",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := commands.LoadEnv()
			if err != nil {
				return err
			}
			*env = *loaded
			return nil
		},
	}

	rootCmd.AddCommand(
		commands.InitCmd(env),
		commands.CreateCmd(env),
		commands.FindCmd(env),
		commands.UpdateCmd(env),
		commands.DeleteCmd(env),
		commands.UpsertCmd(env),
	)

	if err := rootCmd.Execute(); err != nil {
		env.Log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
