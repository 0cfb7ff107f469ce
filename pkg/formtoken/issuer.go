package formtoken

import (
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/leadguard/pkg/cryptox"
)

// Config holds the process-wide, read-only settings shared by the issuer and
// the verifier.
type Config struct {
	// Secret is the HMAC-SHA256 key. Required.
	Secret []byte

	// TTL is the validity window. Defaults to DefaultTTL.
	TTL time.Duration

	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

func (c Config) normalise() (Config, error) {
	if len(c.Secret) == 0 {
		return c, ErrEmptySecret
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	// Copy so later mutation of the caller's slice can't change the key.
	c.Secret = append([]byte(nil), c.Secret...)
	return c, nil
}

// Issuer mints signed form tokens.
type Issuer struct {
	cfg Config
}

// Issued is what Issue returns to the page renderer.
type Issued struct {
	Token     string    `json:"token"`
	JTI       string    `json:"jti"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewIssuer(cfg Config) (*Issuer, error) {
	cfg, err := cfg.normalise()
	if err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg}, nil
}

// TTL returns the configured validity window.
func (i *Issuer) TTL() time.Duration { return i.cfg.TTL }

// Issue mints a token valid for route. fields may be nil, in which case the
// token is not bound to any payload.
func (i *Issuer) Issue(route, userAgent string, fields Fields) (Issued, error) {
	if route == "" {
		return Issued{}, ErrEmptyRoute
	}
	if strings.Contains(route, Delimiter) {
		return Issued{}, ErrInvalidRoute
	}

	jti, err := cryptox.GenerateHex(jtiBytes)
	if err != nil {
		return Issued{}, fmt.Errorf("formtoken: generate jti: %w", err)
	}

	payloadHash := NoPayload
	if fields != nil {
		payloadHash = HashFields(fields)
	}

	// Millisecond precision is all the wire format carries.
	now := i.cfg.Now().UTC().Truncate(time.Millisecond)

	tok := Token{
		IssuedAt:    now,
		Route:       route,
		UserAgent:   UserAgentPrefix(userAgent),
		PayloadHash: payloadHash,
		JTI:         jti,
	}
	tok.Signature = sign(i.cfg.Secret, tok.signingInput())

	return Issued{
		Token:     tok.String(),
		JTI:       jti,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.cfg.TTL),
	}, nil
}
