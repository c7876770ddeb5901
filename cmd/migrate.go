package main

import (
	"context"
	"fmt"

	"support-desk/config"
	"support-desk/internal/repository/bolt"
	"support-desk/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the storage schema up to date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx := cmd.Context()
		switch cfg.Storage.Backend {
		case config.BackendPostgres:
			if err := postgres.Migrate(ctx, cfg.Postgres); err != nil {
				return err
			}
		case config.BackendBolt:
			repo := bolt.New(log, cfg)
			if err := repo.OnStart(ctx); err != nil {
				return err
			}
			if err := repo.OnStop(context.Background()); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown repo backend: %s", cfg.Storage.Backend)
		}

		log.Infow("storage migrated", "backend", cfg.Storage.Backend)
		return nil
	},
}
