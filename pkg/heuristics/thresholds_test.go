package heuristics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds(t *testing.T) {
	th := heuristics.DefaultThresholds()
	require.NoError(t, th.Validate())
	require.Equal(t, 2.5, th.MinEntropy)
	require.Equal(t, 20, th.MinEntropyLength)
	require.Equal(t, 2, th.MaxURLs)
	require.Equal(t, 5, th.HighFrequencyCount)
	require.Equal(t, 15*time.Minute, th.HighFrequencyWindow)
	require.Equal(t, 10, th.BurstCount)
	require.Equal(t, time.Hour, th.BurstWindow)
}

func TestLoadThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heuristics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_urls: 1
high_frequency_window: 20m
disposable_domains:
  - spam.example
`), 0600))

	th, err := heuristics.LoadThresholds(path)
	require.NoError(t, err)
	require.Equal(t, 1, th.MaxURLs)
	require.Equal(t, 20*time.Minute, th.HighFrequencyWindow)
	require.Equal(t, []string{"spam.example"}, th.DisposableDomains)

	// Untouched keys keep their defaults
	require.Equal(t, 2.5, th.MinEntropy)
	require.Equal(t, 10, th.BurstCount)

	c := heuristics.NewClassifier(th)
	require.True(t, c.IsDisposable("x@spam.example"))
}

func TestLoadThresholds_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := heuristics.LoadThresholds(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("burst_count: 0\n"), 0600))
	_, err = heuristics.LoadThresholds(bad)
	require.ErrorIs(t, err, heuristics.ErrInvalidThresholds)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("max_urls: [\n"), 0600))
	_, err = heuristics.LoadThresholds(broken)
	require.Error(t, err)
}
