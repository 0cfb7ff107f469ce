package service

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/leadguard/pkg/cryptox"
	"github.com/aussiebroadwan/leadguard/pkg/jwtx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

var testSessionKey = []byte(strings.Repeat("k", jwtx.MinHMACKeySize))

func newAdminService(t *testing.T, f *fixture) *AdminService {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(testSessionKey)
	require.NoError(t, err)
	sealer, err := cryptox.NewSealer([]byte("totp-sealing-key"))
	require.NoError(t, err)

	return &AdminService{
		Store:      f.store,
		Signer:     signer,
		Sealer:     sealer,
		Pepper:     []byte("pepper"),
		Issuer:     "leadguard",
		Audience:   []string{"leadguard-admin"},
		SessionTTL: time.Hour,
		TOTPIssuer: "LeadGuard",
		Now:        f.clock.Now,
	}
}

func TestAdmin_CreateAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(t, f)
	ctx := t.Context()

	admin, password, err := svc.CreateAdmin(ctx, "ops", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, "correct horse battery", password)
	require.NotEmpty(t, admin.ID)

	_, _, err = svc.CreateAdmin(ctx, "ops", "other")
	require.ErrorIs(t, err, ErrAdminExists)

	_, _, err = svc.CreateAdmin(ctx, "  ", "x")
	require.ErrorIs(t, err, ErrInvalidUsername)

	sess, err := svc.Login(ctx, "ops", "correct horse battery", "")
	require.NoError(t, err)
	require.Equal(t, "Bearer", sess.TokenType)
	require.Equal(t, f.clock.Now().Add(time.Hour), sess.ExpiresAt)

	verifier, err := jwtx.NewVerifierHS256(testSessionKey, jwtx.VerifyOptions{
		Issuer:   "leadguard",
		Audience: []string{"leadguard-admin"},
		Now:      f.clock.Now,
	})
	require.NoError(t, err)
	claims, err := verifier.Verify(sess.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "ops", claims.Subject)
	require.True(t, claims.HasScope(ScopeLeadsReview))
	require.Equal(t, []string{"pwd"}, claims.AMR)

	stored, err := f.store.Admins().GetAdminByUsername(ctx, "ops")
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
}

func TestAdmin_LoginFailures(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(t, f)
	ctx := t.Context()

	_, _, err := svc.CreateAdmin(ctx, "ops", "correct horse battery")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ops", "wrong", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "correct horse battery", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdmin_GeneratedPassword(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(t, f)

	_, password, err := svc.CreateAdmin(t.Context(), "ops", "")
	require.NoError(t, err)
	require.NotEmpty(t, password)

	_, err = svc.Login(t.Context(), "ops", password, "")
	require.NoError(t, err)

	require.NoError(t, svc.SetPassword(t.Context(), "ops", "rotated"))
	_, err = svc.Login(t.Context(), "ops", password, "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(t.Context(), "ops", "rotated", "")
	require.NoError(t, err)
}

func TestAdmin_TOTP(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(t, f)
	ctx := t.Context()

	_, _, err := svc.CreateAdmin(ctx, "ops", "pw")
	require.NoError(t, err)

	enrol, err := svc.EnrollTOTP(ctx, "ops")
	require.NoError(t, err)
	require.NotEmpty(t, enrol.Secret)
	require.Contains(t, enrol.URL, "otpauth://totp/")

	stored, err := f.store.Admins().GetAdminByUsername(ctx, "ops")
	require.NoError(t, err)
	require.True(t, stored.HasTOTP())
	require.NotContains(t, string(stored.TOTPSealed), enrol.Secret)

	_, err = svc.Login(ctx, "ops", "pw", "")
	require.ErrorIs(t, err, ErrTOTPRequired)

	_, err = svc.Login(ctx, "ops", "pw", "000000x")
	require.ErrorIs(t, err, ErrInvalidTOTPCode)

	code, err := totp.GenerateCode(enrol.Secret, f.clock.Now())
	require.NoError(t, err)
	sess, err := svc.Login(ctx, "ops", "pw", code)
	require.NoError(t, err)
	require.NotEmpty(t, sess.AccessToken)

	_, err = svc.EnrollTOTP(ctx, "nobody")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdmin_TOTPWithoutSealer(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(t, f)
	svc.Sealer = nil

	_, err := svc.EnrollTOTP(t.Context(), "ops")
	require.ErrorIs(t, err, ErrTOTPUnavailable)
}
