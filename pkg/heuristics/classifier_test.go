package heuristics_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/stretchr/testify/require"
)

func TestEvaluateSubmissionRate(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	c := heuristics.NewClassifier(heuristics.DefaultThresholds())

	tests := []struct {
		name    string
		counter *heuristics.Counter
		want    heuristics.Verdict
	}{
		{"no history", nil, heuristics.Allow()},
		{"five in ten minutes", &heuristics.Counter{Count: 5, FirstSeen: now.Add(-10 * time.Minute)}, heuristics.Verdict{Action: heuristics.ActionChallenge, Reason: heuristics.ReasonHighFrequency}},
		{"three in five minutes", &heuristics.Counter{Count: 3, FirstSeen: now.Add(-5 * time.Minute)}, heuristics.Allow()},
		{"five at window edge", &heuristics.Counter{Count: 5, FirstSeen: now.Add(-15 * time.Minute)}, heuristics.Verdict{Action: heuristics.ActionChallenge, Reason: heuristics.ReasonHighFrequency}},
		{"five outside window", &heuristics.Counter{Count: 5, FirstSeen: now.Add(-16 * time.Minute)}, heuristics.Allow()},
		{"ten in forty minutes", &heuristics.Counter{Count: 10, FirstSeen: now.Add(-40 * time.Minute)}, heuristics.Verdict{Action: heuristics.ActionDefer, Reason: heuristics.ReasonBurstDetected}},
		{"ten in ten minutes prefers high frequency", &heuristics.Counter{Count: 10, FirstSeen: now.Add(-10 * time.Minute)}, heuristics.Verdict{Action: heuristics.ActionChallenge, Reason: heuristics.ReasonHighFrequency}},
		{"ten over two hours", &heuristics.Counter{Count: 10, FirstSeen: now.Add(-2 * time.Hour)}, heuristics.Allow()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, c.EvaluateSubmissionRate(tt.counter, now))
		})
	}
}

func TestCombine(t *testing.T) {
	challenge := heuristics.Verdict{Action: heuristics.ActionChallenge, Reason: heuristics.ReasonHighFrequency}
	deferred := heuristics.Verdict{Action: heuristics.ActionDefer, Reason: heuristics.ReasonBurstDetected}
	content := heuristics.Trigger{Trigger: true, Reason: heuristics.ReasonMultipleURLs}

	require.Equal(t, challenge, heuristics.Combine(challenge, content))
	require.Equal(t, deferred, heuristics.Combine(deferred, content))
	require.Equal(t,
		heuristics.Verdict{Action: heuristics.ActionChallenge, Reason: heuristics.ReasonMultipleURLs},
		heuristics.Combine(heuristics.Allow(), content),
	)
	require.Equal(t, heuristics.Allow(), heuristics.Combine(heuristics.Allow(), heuristics.Trigger{}))
}

func TestClassify(t *testing.T) {
	now := time.Now()
	c := heuristics.NewClassifier(heuristics.DefaultThresholds())

	v := c.Classify(nil, heuristics.Payload{"email": "x@guerrillamail.com"}, now)
	require.Equal(t, heuristics.ActionChallenge, v.Action)
	require.Equal(t, heuristics.ReasonDisposableEmail, v.Reason)

	v = c.Classify(&heuristics.Counter{Count: 12, FirstSeen: now.Add(-30 * time.Minute)}, heuristics.Payload{}, now)
	require.Equal(t, heuristics.ActionDefer, v.Action)
}
