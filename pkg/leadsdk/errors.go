package leadsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes used by the service.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeValidation        = "validation_error"
	ErrorCodeInvalidGrant      = "invalid_grant"
	ErrorCodeTOTPRequired      = "totp_required"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeRateLimited       = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string

	// Details holds per-field messages for validation errors.
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("leadsdk: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        valErr.Code,
			Description: valErr.Message,
			Details:     valErr.Details,
		}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        "unexpected_response",
		Description: http.StatusText(resp.StatusCode),
	}
}
