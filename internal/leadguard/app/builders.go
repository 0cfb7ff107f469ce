package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/pkg/cryptox"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/aussiebroadwan/leadguard/pkg/jwtx"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config, service string) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: service,
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// NewIntegrityService wires the form token issuer and verifier. singleUse
// may be nil for callers that only issue tokens.
func NewIntegrityService(cfg Config, secrets Secrets, singleUse formtoken.SingleUseStore) (*service.IntegrityService, error) {
	tokenCfg := formtoken.Config{Secret: secrets.TokenSecret, TTL: cfg.TokenTTL}

	issuer, err := formtoken.NewIssuer(tokenCfg)
	if err != nil {
		return nil, fmt.Errorf("form token issuer: %w", err)
	}
	verifier, err := formtoken.NewVerifier(tokenCfg, singleUse)
	if err != nil {
		return nil, fmt.Errorf("form token verifier: %w", err)
	}

	return &service.IntegrityService{
		Issuer:   issuer,
		Verifier: verifier,
		Routes:   cfg.FormRoutes,
	}, nil
}

// NewClassifier loads thresholds from cfg.HeuristicsFile, or the defaults.
func NewClassifier(cfg Config) (*heuristics.Classifier, error) {
	thresholds := heuristics.DefaultThresholds()
	if cfg.HeuristicsFile != "" {
		var err error
		if thresholds, err = heuristics.LoadThresholds(cfg.HeuristicsFile); err != nil {
			return nil, err
		}
	}
	return heuristics.NewClassifier(thresholds), nil
}

func NewFingerprinter(cfg Config, secrets Secrets) (*heuristics.Fingerprinter, error) {
	return heuristics.NewFingerprinter(secrets.FingerprintSalt, cfg.FingerprintSaltVersion)
}

// NewSessionVerifier validates admin session tokens minted by NewAdminService.
func NewSessionVerifier(cfg Config, secrets Secrets) (jwtx.Verifier, error) {
	v, err := jwtx.NewVerifierHS256(secrets.SessionKey, jwtx.VerifyOptions{
		Issuer:   cfg.Issuer,
		Audience: []string{SessionAudience},
		Leeway:   30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("session verifier: %w", err)
	}
	return v, nil
}

func NewAdminService(cfg Config, secrets Secrets, db store.Store) (*service.AdminService, error) {
	signer, err := jwtx.NewSignerHS256(secrets.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("session signer: %w", err)
	}
	sealer, err := cryptox.NewSealer(secrets.TOTPKey)
	if err != nil {
		return nil, fmt.Errorf("TOTP sealer: %w", err)
	}

	return &service.AdminService{
		Store:      db,
		Signer:     signer,
		Sealer:     sealer,
		Pepper:     secrets.Pepper,
		Issuer:     cfg.Issuer,
		Audience:   []string{SessionAudience},
		SessionTTL: cfg.SessionTTL,
		TOTPIssuer: "LeadGuard",
	}, nil
}
