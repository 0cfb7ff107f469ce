package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/pkg/httpx"
	"github.com/aussiebroadwan/leadguard/pkg/leadsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes the database and, when it is a separate service, the single-use token store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	leadsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	leadsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, singleUse Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &leadsdk.HealthChecks{
			Database:  "ok",
			SingleUse: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Without this store every submission fails closed.
		if singleUse != nil {
			if err := singleUse.Ping(r.Context()); err != nil {
				checks.SingleUse = "error: " + err.Error()
				overallStatus = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, statusCode, leadsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
