package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-blog/internal/config"
	"github.com/beesaferoot/gorm-blog/internal/logger"
	"github.com/beesaferoot/gorm-blog/internal/render"
	"github.com/beesaferoot/gorm-blog/internal/store"
)

// Values used by the commands when no flags are given.
const (
	defaultName        = "hoplin2"
	defaultEmail       = "jhyoon0815103@gmail.com"
	defaultNewEmail    = "andrewyoon10@naver.com"
	defaultPostTitle   = "example-title"
	defaultPostContent = "example-content"
	defaultUpsertEmail = "hoplin.dev@gmail.com"
	defaultUpsertNew   = "a@naver.com"
)

// Env is what each command needs to run: configuration, a logger and a way
// to open the store. Tests replace OpenClient to inject an in-memory store.
type Env struct {
	Config     *config.Config
	Log        zerolog.Logger
	OpenClient func(ctx context.Context) (*store.Client, error)
}

// LoadEnv builds an Env from the process environment.
func LoadEnv() (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewEnv(cfg, logger.New(cfg.Log)), nil
}

// NewEnv returns an Env that opens the database described by cfg.
func NewEnv(cfg *config.Config, log zerolog.Logger) *Env {
	env := &Env{Config: cfg, Log: log}
	env.OpenClient = func(ctx context.Context) (*store.Client, error) {
		return store.Open(ctx, cfg.Database, log)
	}
	return env
}

// withClient opens a client, runs fn, prints its result and releases the
// client on every path.
func withClient(cmd *cobra.Command, env *Env, fn func(ctx context.Context, client *store.Client) (interface{}, error)) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env.Log.Debug().Str("driver", env.Config.Database.Driver).Str("command", cmd.Name()).Msg("opening store")

	client, err := env.OpenClient(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			env.Log.Warn().Err(closeErr).Msg("failed to release database connection")
		}
	}()

	result, err := fn(ctx, client)
	if err != nil {
		return err
	}

	if result == nil {
		return nil
	}
	if err := render.NewPrinter(cmd.OutOrStdout()).Print(result); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}
	return nil
}
