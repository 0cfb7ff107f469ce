package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/stretchr/testify/require"
)

// setupEnv points every path the CLI touches at a temp dir.
func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("LEADGUARD_DATABASE_FILE", filepath.Join(dir, "leadguard.db"))
	t.Setenv("LEADGUARD_TOKEN_SECRET_FILE", filepath.Join(dir, "form_token"))
	t.Setenv("LEADGUARD_FINGERPRINT_SALT_FILE", filepath.Join(dir, "salt"))
	t.Setenv("LEADGUARD_SESSION_KEY_FILE", filepath.Join(dir, "session_key"))
	t.Setenv("LEADGUARD_PEPPER_FILE", filepath.Join(dir, "pepper"))
	t.Setenv("LEADGUARD_TOTP_KEY_FILE", filepath.Join(dir, "totp_key"))
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, logs bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenIssueAndVerify(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "token", "issue", "--route", service.RouteBookingSubmit, "--email", "sam@example.com")
	require.NoError(t, err)

	var issued formtoken.Issued
	require.NoError(t, json.Unmarshal([]byte(out), &issued))
	require.NotEmpty(t, issued.Token)

	t.Run("inspect", func(t *testing.T) {
		out, err := run(t, "", "token", "inspect", issued.Token)
		require.NoError(t, err)

		var got inspectOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Equal(t, service.RouteBookingSubmit, got.Route)
		require.Equal(t, issued.JTI, got.JTI)
		require.NotEqual(t, formtoken.NoPayload, got.PayloadHash)
	})

	verify := func(t *testing.T, args ...string) verifyOutput {
		t.Helper()
		out, err := run(t, "", append([]string{"token", "verify", issued.Token, "--route", service.RouteBookingSubmit, "--email", "sam@example.com"}, args...)...)
		require.NoError(t, err)

		var got verifyOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		return got
	}

	t.Run("dry run leaves the token usable", func(t *testing.T) {
		require.True(t, verify(t).Valid)
		require.True(t, verify(t).Valid)
	})

	t.Run("consume is single use", func(t *testing.T) {
		first := verify(t, "--consume")
		require.True(t, first.Valid)
		require.True(t, first.Consumed)

		second := verify(t, "--consume")
		require.False(t, second.Valid)
		require.Equal(t, formtoken.ReasonReplayed, second.Reason)
	})

	t.Run("wrong route", func(t *testing.T) {
		out, err := run(t, "", "token", "verify", issued.Token, "--route", service.RouteLead, "--email", "sam@example.com")
		require.NoError(t, err)
		require.Contains(t, out, formtoken.ReasonRouteMismatch)
	})
}

func TestTokenIssue_UnknownRoute(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "token", "issue", "--route", "/not/configured")
	require.ErrorIs(t, err, service.ErrRouteNotAllowed)
}

func TestFingerprint_Stable(t *testing.T) {
	setupEnv(t)
	args := []string{"fingerprint", "--ip", "203.0.113.7", "--user-agent", "Mozilla/5.0", "--email", "Sam@Example.com"}

	a, err := run(t, "", args...)
	require.NoError(t, err)
	b, err := run(t, "", append(args[:len(args)-1], "sam@example.com")...)
	require.NoError(t, err)

	require.Len(t, strings.TrimSpace(a), 32)
	require.Equal(t, a, b)
}

func TestClassify(t *testing.T) {
	setupEnv(t)

	t.Run("clean payload", func(t *testing.T) {
		out, err := run(t, `{"email":"sam@example.com","damageDescription":"Rear bumper scraped on a bollard while parking"}`, "classify")
		require.NoError(t, err)

		var got classifyOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Equal(t, heuristics.ActionAllow, got.Verdict.Action)
	})

	t.Run("disposable email", func(t *testing.T) {
		out, err := run(t, `{"email":"x@mailinator.com","damageDescription":"Scratched door"}`, "classify", "-")
		require.NoError(t, err)

		var got classifyOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.True(t, got.Disposable)
		require.Equal(t, heuristics.ReasonDisposableEmail, got.Verdict.Reason)
	})

	t.Run("simulated history", func(t *testing.T) {
		out, err := run(t, `{"email":"sam@example.com"}`, "classify", "--count", "5", "--since", "5m")
		require.NoError(t, err)
		require.Contains(t, out, string(heuristics.ReasonHighFrequency))
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := run(t, `{`, "classify")
		require.Error(t, err)
	})
}

func TestAdminLifecycle(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "migrate")
	require.NoError(t, err)
	require.Contains(t, out, "migrations applied")

	out, err = run(t, "", "admin", "create", "ops")
	require.NoError(t, err)
	require.Contains(t, out, "password: ")

	_, err = run(t, "", "admin", "create", "ops", "--password", "another-password")
	require.ErrorIs(t, err, service.ErrAdminExists)

	out, err = run(t, "", "admin", "set-password", "ops", "--password", "correct-horse-battery")
	require.NoError(t, err)
	require.Contains(t, out, "password updated")

	out, err = run(t, "", "admin", "enroll-totp", "ops")
	require.NoError(t, err)

	var enrollment service.TOTPEnrollment
	require.NoError(t, json.Unmarshal([]byte(out), &enrollment))
	require.NotEmpty(t, enrollment.Secret)
	require.True(t, strings.HasPrefix(enrollment.URL, "otpauth://totp/"))

	out, err = run(t, "", "cleanup")
	require.NoError(t, err)
	require.Contains(t, out, `"used_tokens": 0`)
}
