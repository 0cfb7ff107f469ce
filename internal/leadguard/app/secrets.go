package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/leadguard/pkg/cryptox"
	"github.com/aussiebroadwan/leadguard/pkg/jwtx"
)

// Secrets is the process-wide key material, loaded once at startup.
type Secrets struct {
	TokenSecret     []byte
	FingerprintSalt []byte
	SessionKey      []byte
	Pepper          []byte
	TOTPKey         []byte
}

// LoadSecrets resolves every secret. Inline values win over files; missing
// files are generated so a fresh deployment starts without manual setup.
func LoadSecrets(cfg Config, logger *slog.Logger) (Secrets, error) {
	var (
		s   Secrets
		err error
	)

	if s.TokenSecret, err = resolveSecret("form token secret", cfg.TokenSecret, cfg.TokenSecretFile, cryptox.TokenSize256, logger); err != nil {
		return Secrets{}, err
	}
	if s.FingerprintSalt, err = resolveSecret("fingerprint salt", cfg.FingerprintSalt, cfg.FingerprintSaltFile, cryptox.TokenSize256, logger); err != nil {
		return Secrets{}, err
	}
	if s.SessionKey, err = resolveSecret("session key", "", cfg.SessionKeyFile, jwtx.MinHMACKeySize, logger); err != nil {
		return Secrets{}, err
	}
	if s.Pepper, err = resolveSecret("password pepper", "", cfg.PepperFile, cryptox.TokenSize256, logger); err != nil {
		return Secrets{}, err
	}
	if s.TOTPKey, err = resolveSecret("TOTP sealing key", "", cfg.TOTPKeyFile, cryptox.TokenSize256, logger); err != nil {
		return Secrets{}, err
	}

	return s, nil
}

func resolveSecret(name, inline, path string, size int, logger *slog.Logger) ([]byte, error) {
	if inline != "" {
		if len(inline) < cryptox.MinSecretSize {
			return nil, fmt.Errorf("%s: %w", name, cryptox.ErrSecretTooShort)
		}
		logger.Debug("secret loaded from environment", "secret", name)
		return []byte(inline), nil
	}

	secret, err := cryptox.LoadOrGenerateSecret(path, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	logger.Debug("secret loaded from file", "secret", name, "path", path)
	return secret, nil
}
