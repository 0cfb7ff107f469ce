package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/pkg/cryptox"
	"github.com/aussiebroadwan/leadguard/pkg/idx"
	"github.com/aussiebroadwan/leadguard/pkg/jwtx"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// ScopeLeadsReview grants read and review access to stored leads.
const ScopeLeadsReview = "leads:review"

const (
	totpPeriod = 30
	totpSkew   = 1
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTOTPRequired       = errors.New("TOTP code required")
	ErrInvalidTOTPCode    = errors.New("invalid TOTP code")
	ErrAdminExists        = errors.New("admin already exists")
	ErrTOTPUnavailable    = errors.New("TOTP sealing key not configured")
	ErrInvalidUsername    = errors.New("username is required")
)

// Session is a signed admin session.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Scopes      []string  `json:"scopes"`
}

// TOTPEnrollment is returned once when a TOTP secret is created.
type TOTPEnrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauth_url"`
}

// AdminService authenticates the operators who review leads.
type AdminService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Sealer     *cryptox.Sealer // nil disables TOTP enrollment
	Pepper     []byte
	Issuer     string
	Audience   []string
	SessionTTL time.Duration
	TOTPIssuer string
	Now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func (s *AdminService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateAdmin stores a new admin. An empty password is replaced by a
// generated one, which is returned.
func (s *AdminService) CreateAdmin(ctx context.Context, username, password string) (domain.Admin, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.Admin{}, "", ErrInvalidUsername
	}

	if password == "" {
		generated, err := cryptox.GeneratePassword()
		if err != nil {
			return domain.Admin{}, "", fmt.Errorf("generate password: %w", err)
		}
		password = generated
	}

	hash, err := cryptox.HashPassword(password, s.Pepper)
	if err != nil {
		return domain.Admin{}, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	admin := domain.Admin{
		ID:           idx.NewAt(now).String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := s.Store.Admins().CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Admin{}, "", ErrAdminExists
		}
		return domain.Admin{}, "", fmt.Errorf("create admin: %w", err)
	}

	slogx.FromContext(ctx).Info("admin created", "username", username)
	return admin, password, nil
}

// SetPassword replaces an admin's password.
func (s *AdminService) SetPassword(ctx context.Context, username, password string) error {
	hash, err := cryptox.HashPassword(password, s.Pepper)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Admins().UpdateAdminPassword(ctx, username, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// EnrollTOTP generates and stores a sealed TOTP secret for username,
// replacing any existing one.
func (s *AdminService) EnrollTOTP(ctx context.Context, username string) (TOTPEnrollment, error) {
	if s.Sealer == nil {
		return TOTPEnrollment{}, ErrTOTPUnavailable
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.TOTPIssuer,
		AccountName: username,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	sealed, err := s.Sealer.Seal([]byte(key.Secret()))
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("seal TOTP secret: %w", err)
	}
	if err := s.Store.Admins().UpdateAdminTOTP(ctx, username, sealed); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TOTPEnrollment{}, ErrInvalidCredentials
		}
		return TOTPEnrollment{}, fmt.Errorf("store TOTP secret: %w", err)
	}

	return TOTPEnrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// Login checks the password and, for enrolled admins, the TOTP code, then
// signs a session token carrying ScopeLeadsReview.
func (s *AdminService) Login(ctx context.Context, username, password, code string) (Session, error) {
	l := slogx.FromContext(ctx)

	admin, err := s.Store.Admins().GetAdminByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		// Burn the same hashing time as a real check.
		_ = cryptox.VerifyPassword(password, s.timingHash(), s.Pepper)
		l.Warn("admin login failed", "username", username, "reason", "unknown_user")
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("get admin: %w", err)
	}

	if err := cryptox.VerifyPassword(password, admin.PasswordHash, s.Pepper); err != nil {
		l.Warn("admin login failed", "username", username, "reason", "bad_password")
		return Session{}, ErrInvalidCredentials
	}

	amr := []string{"pwd"}
	if admin.HasTOTP() {
		if code == "" {
			return Session{}, ErrTOTPRequired
		}
		ok, err := s.validateTOTP(admin, code)
		if err != nil {
			return Session{}, err
		}
		if !ok {
			l.Warn("admin login failed", "username", username, "reason", "bad_totp")
			return Session{}, ErrInvalidTOTPCode
		}
		amr = append(amr, "otp")
	}

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	now := s.now()
	scopes := []string{ScopeLeadsReview}

	claims := jwtx.NewSessionClaims(admin.Username, scopes, amr, ttl, s.Issuer, s.Audience, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}

	if err := s.Store.Admins().TouchAdminLogin(ctx, admin.Username, now); err != nil {
		l.Error("failed to record admin login", slogx.Err(err))
	}
	l.Info("admin logged in", "username", admin.Username, "amr", amr)

	return Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(ttl),
		Scopes:      scopes,
	}, nil
}

func (s *AdminService) validateTOTP(admin domain.Admin, code string) (bool, error) {
	if s.Sealer == nil {
		return false, ErrTOTPUnavailable
	}
	secret, err := s.Sealer.Open(admin.TOTPSealed)
	if err != nil {
		return false, fmt.Errorf("open TOTP secret: %w", err)
	}
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), string(secret), s.now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		// Malformed codes are just wrong codes.
		return false, nil
	}
	return ok, nil
}

func (s *AdminService) timingHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = cryptox.HashPassword("leadguard-timing", s.Pepper)
	})
	return s.dummyHash
}
