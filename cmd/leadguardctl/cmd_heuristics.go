package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/app"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/spf13/cobra"
)

func (c *cli) fingerprintCmd() *cobra.Command {
	var ip, userAgent, email, phone, version string

	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Compute the submission fingerprint for a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets, err := c.loadSecrets()
			if err != nil {
				return err
			}
			fp, err := app.NewFingerprinter(c.cfg, secrets)
			if err != nil {
				return err
			}

			if version == "" {
				version = fp.Version()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fp.GenerateVersion(ip, userAgent, heuristics.Identifier(email, phone), version))
			return err
		},
	}
	cmd.Flags().StringVar(&ip, "ip", "", "client IP address")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "client User-Agent")
	cmd.Flags().StringVar(&email, "email", "", "submitted email")
	cmd.Flags().StringVar(&phone, "phone", "", "submitted phone number")
	cmd.Flags().StringVar(&version, "salt-version", "", "salt version (defaults to the active one)")
	return cmd
}

type classifyOutput struct {
	Verdict    heuristics.Verdict `json:"verdict"`
	Entropy    float64            `json:"entropy"`
	URLs       int                `json:"urls"`
	Disposable bool               `json:"disposable_email"`
}

func (c *cli) classifyCmd() *cobra.Command {
	var (
		count int
		since time.Duration
	)

	cmd := &cobra.Command{
		Use:   "classify [FILE]",
		Short: "Classify a JSON form payload offline",
		Long: `Classify a JSON form payload read from FILE, or stdin when FILE is
omitted or "-". --count and --since simulate a prior submission history for
the fingerprint.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			var payload heuristics.Payload
			if err := json.NewDecoder(in).Decode(&payload); err != nil {
				return fmt.Errorf("decode payload: %w", err)
			}

			classifier, err := app.NewClassifier(c.cfg)
			if err != nil {
				return err
			}

			now := time.Now()
			var counter *heuristics.Counter
			if count > 0 {
				counter = &heuristics.Counter{Count: count, FirstSeen: now.Add(-since), LastSeen: now}
			}

			text := payload.FreeText()
			return writeJSON(cmd.OutOrStdout(), classifyOutput{
				Verdict:    classifier.Classify(counter, payload, now),
				Entropy:    heuristics.ShannonEntropy(text),
				URLs:       heuristics.CountURLs(text),
				Disposable: classifier.IsDisposable(payload.String(heuristics.FieldEmail)),
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "prior submissions from this fingerprint")
	cmd.Flags().DurationVar(&since, "since", 0, "time since the first prior submission")
	return cmd
}
