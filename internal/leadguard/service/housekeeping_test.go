package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestHousekeeping_Cleanup(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	now := f.clock.Now()

	_, err := f.store.UsedTokens().MarkUsed(ctx, domain.UsedToken{JTI: "old", Route: RouteLead, ExpiresAt: now.Add(-time.Minute), UsedAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = f.store.UsedTokens().MarkUsed(ctx, domain.UsedToken{JTI: "live", Route: RouteLead, ExpiresAt: now.Add(time.Minute), UsedAt: now})
	require.NoError(t, err)

	_, err = f.store.Fingerprints().RecordSubmission(ctx, "stale", now.Add(-40*24*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = f.store.Fingerprints().RecordSubmission(ctx, "fresh", now, time.Hour)
	require.NoError(t, err)

	mem := formtoken.NewMemoryStore()
	_, err = mem.CheckAndMark(ctx, "m1", RouteLead, now.Add(-time.Second))
	require.NoError(t, err)

	hk := NewHousekeepingService(f.store, slogx.Discard(), time.Hour, 0)
	hk.Now = f.clock.Now
	hk.MemoryTokens = mem

	report := hk.Cleanup(ctx)
	require.Equal(t, CleanupReport{UsedTokens: 1, Fingerprints: 1, MemoryTokens: 1}, report)

	_, err = f.store.Fingerprints().GetFingerprint(ctx, "fresh")
	require.NoError(t, err)
	require.Zero(t, mem.Len())
}

func TestHousekeeping_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	f := newFixture(t)
	hk := NewHousekeepingService(f.store, slogx.Discard(), 10*time.Millisecond, time.Hour)

	hk.Start()
	time.Sleep(30 * time.Millisecond)
	hk.Stop()

	// Shutdown may reach Stop more than once.
	require.NotPanics(t, hk.Stop)
}
