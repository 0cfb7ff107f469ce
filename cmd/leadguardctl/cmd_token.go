package main

import (
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/app"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/spf13/cobra"
)

type tokenFlags struct {
	route     string
	userAgent string
	email     string
	phone     string
}

func (f *tokenFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.route, "route", service.RouteLead, "route the token is bound to")
	cmd.Flags().StringVar(&f.userAgent, "user-agent", "leadguardctl", "User-Agent recorded in the token")
	cmd.Flags().StringVar(&f.email, "email", "", "bind the token to this email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "bind the token to this phone number")
}

func (f *tokenFlags) fields() formtoken.Fields {
	if f.email == "" && f.phone == "" {
		return nil
	}
	return service.BoundFields(f.email, f.phone)
}

func (c *cli) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue, inspect and verify form tokens",
	}
	cmd.AddCommand(c.tokenIssueCmd(), c.tokenInspectCmd(), c.tokenVerifyCmd())
	return cmd
}

func (c *cli) tokenIssueCmd() *cobra.Command {
	var flags tokenFlags

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a form token with the deployment secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets, err := c.loadSecrets()
			if err != nil {
				return err
			}
			integrity, err := app.NewIntegrityService(c.cfg, secrets, nil)
			if err != nil {
				return err
			}

			issued, err := integrity.IssueFormToken(cmd.Context(), flags.route, flags.userAgent, flags.fields())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), issued)
		},
	}
	flags.register(cmd)
	return cmd
}

type inspectOutput struct {
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Route       string    `json:"route"`
	UserAgent   string    `json:"user_agent"`
	PayloadHash string    `json:"payload_hash"`
	JTI         string    `json:"jti"`
}

func (c *cli) tokenInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect TOKEN",
		Short: "Decode a token without checking its signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := formtoken.Parse(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), inspectOutput{
				IssuedAt:    tok.IssuedAt,
				ExpiresAt:   tok.IssuedAt.Add(c.cfg.TokenTTL),
				Route:       tok.Route,
				UserAgent:   tok.UserAgent,
				PayloadHash: tok.PayloadHash,
				JTI:         tok.JTI,
			})
		},
	}
}

type verifyOutput struct {
	Valid             bool   `json:"valid"`
	Reason            string `json:"reason,omitempty"`
	JTI               string `json:"jti,omitempty"`
	UserAgentMismatch bool   `json:"user_agent_mismatch"`
	Consumed          bool   `json:"consumed"`
}

func (c *cli) tokenVerifyCmd() *cobra.Command {
	var (
		flags   tokenFlags
		consume bool
	)

	cmd := &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Verify a token",
		Long: `Verify a token against the deployment secret.

By default the jti is checked against a throwaway in-memory store, so the
token stays usable. Pass --consume to mark it used in the configured
single-use backend.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets, err := c.loadSecrets()
			if err != nil {
				return err
			}

			var singleUse formtoken.SingleUseStore = formtoken.NewMemoryStore()
			if consume {
				db, err := app.OpenStore(cmd.Context(), c.cfg, c.logger)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				backend := app.OpenSingleUse(c.cfg, db, c.logger)
				defer func() { _ = backend.Close() }()
				singleUse = backend.Store
			}

			integrity, err := app.NewIntegrityService(c.cfg, secrets, singleUse)
			if err != nil {
				return err
			}

			res := integrity.VerifyFormToken(cmd.Context(), args[0], flags.route, flags.userAgent, flags.fields())
			return writeJSON(cmd.OutOrStdout(), verifyOutput{
				Valid:             res.Valid,
				Reason:            res.Reason,
				JTI:               res.JTI,
				UserAgentMismatch: res.UserAgentMismatch,
				Consumed:          res.Valid && consume,
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&consume, "consume", false, "mark the token used in the configured backend")
	return cmd
}
