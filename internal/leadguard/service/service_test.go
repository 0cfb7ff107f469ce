package service

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store/drivers/sqlite"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/stretchr/testify/require"
)

const (
	testUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"
	testIP = "203.0.113.7"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store       *sqlite.Store
	clock       *testClock
	integrity   *IntegrityService
	submissions *SubmissionService
	review      *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	clock := &testClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
	cfg := formtoken.Config{Secret: []byte(strings.Repeat("s", 32)), Now: clock.Now}

	issuer, err := formtoken.NewIssuer(cfg)
	require.NoError(t, err)
	verifier, err := formtoken.NewVerifier(cfg, store.NewSingleUseAdapter(st))
	require.NoError(t, err)

	fp, err := heuristics.NewFingerprinter([]byte("test-salt"), "v1")
	require.NoError(t, err)

	integrity := &IntegrityService{Issuer: issuer, Verifier: verifier, Routes: DefaultRoutes()}

	return &fixture{
		store:     st,
		clock:     clock,
		integrity: integrity,
		submissions: &SubmissionService{
			Store:         st,
			Integrity:     integrity,
			Classifier:    heuristics.NewClassifier(heuristics.DefaultThresholds()),
			Fingerprinter: fp,
			Now:           clock.Now,
		},
		review: &ReviewService{Store: st, Now: clock.Now},
	}
}

// token issues a token for route bound to the payload's identity fields.
func (f *fixture) token(t *testing.T, route string, p heuristics.Payload) string {
	t.Helper()

	issued, err := f.integrity.IssueFormToken(t.Context(), route, testUA,
		BoundFields(p.String(heuristics.FieldEmail), p.String(heuristics.FieldPhone)))
	require.NoError(t, err)
	return issued.Token
}

func (f *fixture) submit(t *testing.T, route string, p heuristics.Payload) (SubmissionOutcome, error) {
	t.Helper()

	return f.submissions.Submit(t.Context(), SubmissionRequest{
		Route:     route,
		Token:     f.token(t, route, p),
		ClientIP:  testIP,
		UserAgent: testUA,
		Payload:   p,
	})
}

func bookingPayload() heuristics.Payload {
	return heuristics.Payload{
		"name":              "Dana Smith",
		"email":             "dana@example.com",
		"phone":             "(303) 555-0142",
		"serviceType":       "windshield_replacement",
		"vehicle":           "2019 Subaru Outback",
		"damageDescription": "A rock hit the windshield on the highway and the crack is spreading.",
	}
}
