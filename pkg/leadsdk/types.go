package leadsdk

import "time"

// HeaderFormToken may carry the form token instead of the body "token" field.
const HeaderFormToken = "X-Form-Token"

// GenericTokenError is the only explanation clients get for a rejected token.
const GenericTokenError = "Please refresh the page and try again."

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	// Error is a machine readable code, e.g. "invalid_request"
	Error string `json:"error"`

	// ErrorDescription is a human readable message
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when submission fields are invalid.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Form Token Types
// ============================================================================

// FormTokenRequest asks for a token optionally bound to identity fields.
type FormTokenRequest struct {
	Route string `json:"route"`

	// Fields may hold "email" and "phone". The submission must carry the
	// same values.
	Fields map[string]string `json:"fields,omitempty"`
}

type FormTokenResponse struct {
	Token     string    `json:"token"`
	Route     string    `json:"route"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ============================================================================
// Submission Types
// ============================================================================

// SubmitResponse is returned for every accepted submission, including ones
// held for review.
type SubmitResponse struct {
	OK     bool   `json:"ok"`
	LeadID string `json:"lead_id"`
}

// ============================================================================
// Admin Types
// ============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Scopes      []string  `json:"scopes"`
}

// Lead is a stored submission as shown to reviewers.
type Lead struct {
	ID                string         `json:"id"`
	Route             string         `json:"route"`
	Name              string         `json:"name"`
	Email             string         `json:"email,omitempty"`
	Phone             string         `json:"phone,omitempty"`
	ServiceType       string         `json:"service_type,omitempty"`
	Vehicle           string         `json:"vehicle,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	Payload           map[string]any `json:"payload,omitempty"`
	Action            string         `json:"action"`
	Reason            string         `json:"reason,omitempty"`
	UserAgentMismatch bool           `json:"user_agent_mismatch"`
	Status            string         `json:"status"`
	ReviewedBy        string         `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

type LeadListResponse struct {
	Leads []Lead `json:"leads"`
}

type VerdictCount struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
	Count  int    `json:"count"`
}

type SummaryResponse struct {
	Since    time.Time      `json:"since"`
	Total    int            `json:"total"`
	Verdicts []VerdictCount `json:"verdicts"`
}

// ReviewRequest moves a lead to "accepted" or "rejected".
type ReviewRequest struct {
	Status string `json:"status"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency /readyz probes.
type HealthChecks struct {
	Database  string `json:"database"`
	SingleUse string `json:"single_use"`
}
