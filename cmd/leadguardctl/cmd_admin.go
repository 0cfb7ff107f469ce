package main

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/app"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/spf13/cobra"
)

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage review console accounts",
	}
	cmd.AddCommand(c.adminCreateCmd(), c.adminSetPasswordCmd(), c.adminEnrollTOTPCmd())
	return cmd
}

// withAdminService opens the store for the duration of fn.
func (c *cli) withAdminService(ctx context.Context, fn func(*service.AdminService) error) error {
	secrets, err := c.loadSecrets()
	if err != nil {
		return err
	}
	db, err := app.OpenStore(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	svc, err := app.NewAdminService(c.cfg, secrets, db)
	if err != nil {
		return err
	}
	return fn(svc)
}

func (c *cli) adminCreateCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Create an admin; a password is generated when --password is omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAdminService(cmd.Context(), func(svc *service.AdminService) error {
				admin, generated, err := svc.CreateAdmin(cmd.Context(), args[0], password)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "created admin %s (%s)\n", admin.Username, admin.ID)
				if password == "" {
					fmt.Fprintf(out, "password: %s\n", generated)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	return cmd
}

func (c *cli) adminSetPasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "set-password USERNAME",
		Short: "Replace an admin's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAdminService(cmd.Context(), func(svc *service.AdminService) error {
				if err := svc.SetPassword(cmd.Context(), args[0], password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) adminEnrollTOTPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll-totp USERNAME",
		Short: "Generate a TOTP secret; logins then require a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAdminService(cmd.Context(), func(svc *service.AdminService) error {
				enrollment, err := svc.EnrollTOTP(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), enrollment)
			})
		},
	}
}
