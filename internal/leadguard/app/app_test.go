package app

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ListenFailureReleasesResources(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })

	dir := t.TempDir()
	cfg := LoadConfig()
	cfg.LogLevel = "error"
	cfg.Port = busy.Addr().(*net.TCPAddr).Port
	cfg.DatabaseFile = filepath.Join(dir, "leadguard.db")
	cfg.SingleUseBackend = SingleUseMemory
	cfg.TokenSecretFile = filepath.Join(dir, "form_token")
	cfg.FingerprintSaltFile = filepath.Join(dir, "salt")
	cfg.SessionKeyFile = filepath.Join(dir, "session")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.TOTPKeyFile = filepath.Join(dir, "totp")

	app, err := New(cfg)
	require.NoError(t, err)

	singleUseClosed := false
	closeSingleUse := app.singleUse.Close
	app.singleUse.Close = func() error {
		singleUseClosed = true
		return closeSingleUse()
	}

	err = app.Run()
	require.ErrorContains(t, err, "server failed")

	require.True(t, singleUseClosed)
	require.Error(t, app.db.Ping(t.Context()), "database left open")
}
