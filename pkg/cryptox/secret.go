package cryptox

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MinSecretSize is the smallest secret LoadOrGenerateSecret will accept.
const MinSecretSize = 16

var ErrSecretTooShort = errors.New("cryptox: secret is too short")

// LoadOrGenerateSecret loads a base64url secret from path, generating and
// persisting a new one of size bytes when the file does not exist. The
// directory is created with 0750 and the file written with 0600.
func LoadOrGenerateSecret(path string, size int) ([]byte, error) {
	if size < MinSecretSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrSecretTooShort, size)
	}

	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("cryptox: create secret dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		encoded, err := GenerateToken(size)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
			return nil, fmt.Errorf("cryptox: write secret: %w", err)
		}
		return base64.RawURLEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, fmt.Errorf("cryptox: read secret: %w", err)
	}

	secret, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("cryptox: decode secret %s: %w", path, err)
	}
	if len(secret) < MinSecretSize {
		return nil, fmt.Errorf("%w: %s holds %d bytes", ErrSecretTooShort, path, len(secret))
	}
	return secret, nil
}
