package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/leadguard/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestCompositeKeyExtractor_SkipsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/leads", nil)
	req.RemoteAddr = "192.0.2.10:5555"

	route := func(r *http.Request) string { return r.URL.Path }
	none := func(*http.Request) string { return "" }

	require.Equal(t, "/v1/admin/leads|192.0.2.10", httpx.CompositeKeyExtractor("|", route, none, httpx.IPKeyExtractor)(req))
}

// submitFrom posts to a limited handler from ip and returns the status.
func submitFrom(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/lead", nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByIP(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) })
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2})(ok)

	require.Equal(t, http.StatusCreated, submitFrom(h, "203.0.113.1").Code)
	require.Equal(t, http.StatusCreated, submitFrom(h, "203.0.113.1").Code)

	rec := submitFrom(h, "203.0.113.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	require.Equal(t, http.StatusCreated, submitFrom(h, "203.0.113.2").Code, "other clients keep their own bucket")
}

func TestRateLimitMiddleware_NoKeyAllows(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	h := httpx.RateLimitMiddleware(cfg, func(*http.Request) string { return "" })(ok)

	for range 3 {
		require.Equal(t, http.StatusOK, submitFrom(h, "203.0.113.1").Code)
	}
}

func TestDefaultRateLimitProfiles_Ordering(t *testing.T) {
	p := httpx.DefaultRateLimitProfiles()
	require.Less(t, p.Strict.RequestsPerWindow, p.Moderate.RequestsPerWindow)
	require.Less(t, p.Moderate.RequestsPerWindow, p.Lenient.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	defaults := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	tests := []struct {
		name string
		env  map[string]string
		want httpx.RateLimitConfig
	}{
		{"no overrides", nil, defaults},
		{"requests", map[string]string{"REQUESTS": "50"}, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: time.Minute, Burst: 10}},
		{"window", map[string]string{"WINDOW_SEC": "120"}, httpx.RateLimitConfig{RequestsPerWindow: 10, Window: 2 * time.Minute, Burst: 10}},
		{"all", map[string]string{"REQUESTS": "200", "WINDOW_SEC": "30", "BURST": "250"}, httpx.RateLimitConfig{RequestsPerWindow: 200, Window: 30 * time.Second, Burst: 250}},
		{"invalid values ignored", map[string]string{"REQUESTS": "invalid", "WINDOW_SEC": "-10", "BURST": "0"}, defaults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv("RATELIMIT_TEST_"+k, v)
			}
			require.Equal(t, tt.want, httpx.ParseRateLimitFromEnv("TEST", defaults))
		})
	}
}

func TestRateLimitProfilesFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "2")

	p := httpx.RateLimitProfilesFromEnv()
	require.Equal(t, 2, p.Strict.RequestsPerWindow)
	require.Equal(t, httpx.DefaultRateLimitProfiles().Moderate, p.Moderate)
	require.Less(t, p.Moderate.RequestsPerWindow, p.Lenient.RequestsPerWindow)
}
