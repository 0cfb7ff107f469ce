package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/pkg/httpx"
	"github.com/aussiebroadwan/leadguard/pkg/leadsdk"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

type AdminLoginHandler struct {
	AdminService *service.AdminService
}

// ServeHTTP handles admin login.
//
//	@Summary		Admin login
//	@Description	Exchanges username, password and (when enrolled) a TOTP code for a bearer session token with the leads:review scope.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		leadsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	leadsdk.LoginResponse	"Session token"
//	@Failure		400		{object}	leadsdk.ErrorResponse	"Invalid body"
//	@Failure		401		{object}	leadsdk.ErrorResponse	"Invalid credentials or TOTP code required"
//	@Failure		429		{object}	leadsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/admin/login [post].
func (h *AdminLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req leadsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "Request body must be valid JSON")
		return
	}

	sess, err := h.AdminService.Login(r.Context(), strings.TrimSpace(req.Username), req.Password, req.TOTPCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTOTPRequired):
			httpx.WriteError(w, http.StatusUnauthorized, leadsdk.ErrorCodeTOTPRequired, "A TOTP code is required")
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidTOTPCode):
			httpx.WriteError(w, http.StatusUnauthorized, leadsdk.ErrorCodeInvalidGrant, "Invalid credentials")
		default:
			slogx.FromContext(r.Context()).Error("admin login error", slogx.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, leadsdk.ErrorCodeServerError, "An internal error occurred")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, leadsdk.LoginResponse{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
		ExpiresAt:   sess.ExpiresAt,
		Scopes:      sess.Scopes,
	})
}
