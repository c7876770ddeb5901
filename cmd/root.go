package main

import (
	"context"
	"fmt"

	"support-desk/config"
	"support-desk/internal/repository"
	"support-desk/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "support-desk",
	Short:         "Ticketing service for support teams",
	Long:          "support-desk serves the ticketing API and runs its maintenance tasks.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

// bootstrap loads configuration and builds the logger shared by commands.
func bootstrap() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openRepository builds and starts the configured storage backend.
func openRepository(ctx context.Context, log *zap.SugaredLogger, cfg *config.Config) (repository.Repository, error) {
	repo, err := repository.New(ctx, cfg.Storage.Backend, log, cfg)
	if err != nil {
		return nil, fmt.Errorf("repository initialization: %w", err)
	}
	if err := repo.OnStart(ctx); err != nil {
		return nil, fmt.Errorf("repository start: %w", err)
	}
	return repo, nil
}
