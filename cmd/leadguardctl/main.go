// Command leadguardctl is the operator CLI for leadguard: it mints and
// inspects form tokens, runs the classifier offline, applies migrations and
// manages admin accounts. It reads the same LEADGUARD_* environment as the
// server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/app"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
	"github.com/spf13/cobra"
)

type cli struct {
	cfg     app.Config
	logger  *slog.Logger
	verbose bool
	secrets *app.Secrets
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "leadguardctl",
		Short:         "Operate a leadguard deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.cfg = app.LoadConfig()

			level := "warn"
			if c.verbose {
				level = "debug"
			}
			// stdout carries command output, so logs go to stderr.
			c.logger = slogx.New(slogx.Config{
				Service: "leadguardctl",
				Version: app.BuildVersion,
				Env:     c.cfg.Env,
				Level:   level,
				Format:  "text",
				Output:  cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.tokenCmd(),
		c.fingerprintCmd(),
		c.classifyCmd(),
		c.migrateCmd(),
		c.cleanupCmd(),
		c.adminCmd(),
	)
	return root
}

// loadSecrets resolves secrets once per invocation.
func (c *cli) loadSecrets() (app.Secrets, error) {
	if c.secrets != nil {
		return *c.secrets, nil
	}
	s, err := app.LoadSecrets(c.cfg, c.logger)
	if err != nil {
		return app.Secrets{}, err
	}
	c.secrets = &s
	return s, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
