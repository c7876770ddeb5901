package main

import (
	"context"
	"fmt"

	"support-desk/internal/seed"

	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixtures from a toml, yaml or jsonc file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := seed.ReadFile(seedFile)
		if err != nil {
			return err
		}

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx := cmd.Context()
		repo, err := openRepository(ctx, log, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = repo.OnStop(context.Background()) }()

		res, err := seed.Apply(ctx, log, repo, doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d projects, %d tickets, %d comments\n",
			res.Users, res.Projects, res.Tickets, res.Comments)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "fixture file (.toml, .yaml, .yml, .json, .jsonc)")
	_ = seedCmd.MarkFlagRequired("file")
}
