package main

import (
	"fmt"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/app"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/spf13/cobra"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.OpenStore(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			if err := db.Close(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return err
		},
	}
}

func (c *cli) cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Purge expired tokens and idle fingerprints once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.OpenStore(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			hk := service.NewHousekeepingService(db, c.logger, c.cfg.HousekeepingInterval, c.cfg.FingerprintRetention)
			return writeJSON(cmd.OutOrStdout(), hk.Cleanup(cmd.Context()))
		},
	}
}
