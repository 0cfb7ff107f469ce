package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/aussiebroadwan/leadguard/pkg/httpx"
	"github.com/aussiebroadwan/leadguard/pkg/leadsdk"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

type FormTokenHandler struct {
	IntegrityService *service.IntegrityService
}

// HandleGet mints an unbound form token.
//
//	@Summary		Mint a form token
//	@Description	Returns a single-use token valid for 30 minutes for the given form route. The token is bound to the caller's user agent (advisory) but not to any field values.
//	@Tags			Forms
//	@Produce		json
//	@Param			route	query		string						true	"Form route, e.g. /api/lead"
//	@Success		200		{object}	leadsdk.FormTokenResponse	"Token and expiry"
//	@Failure		400		{object}	leadsdk.ErrorResponse		"Unknown or missing route"
//	@Failure		429		{object}	leadsdk.ErrorResponse		"Rate limit exceeded"
//	@Router			/v1/forms/token [get].
func (h *FormTokenHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.issue(w, r, r.URL.Query().Get("route"), nil)
}

// HandlePost mints a token bound to identity fields.
//
//	@Summary		Mint a payload-bound form token
//	@Description	Like GET, but the token is also bound to the email and phone supplied. The submission must carry identical values.
//	@Tags			Forms
//	@Accept			json
//	@Produce		json
//	@Param			request	body		leadsdk.FormTokenRequest	true	"Route and fields to bind"
//	@Success		200		{object}	leadsdk.FormTokenResponse	"Token and expiry"
//	@Failure		400		{object}	leadsdk.ErrorResponse		"Invalid body or unknown route"
//	@Failure		429		{object}	leadsdk.ErrorResponse		"Rate limit exceeded"
//	@Router			/v1/forms/token [post].
func (h *FormTokenHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req leadsdk.FormTokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "Request body must be valid JSON")
		return
	}

	var fields formtoken.Fields
	email, phone := req.Fields[heuristics.FieldEmail], req.Fields[heuristics.FieldPhone]
	if email != "" || phone != "" {
		fields = service.BoundFields(email, phone)
	}
	h.issue(w, r, req.Route, fields)
}

func (h *FormTokenHandler) issue(w http.ResponseWriter, r *http.Request, route string, fields formtoken.Fields) {
	issued, err := h.IntegrityService.IssueFormToken(r.Context(), route, r.UserAgent(), fields)
	if err != nil {
		if errors.Is(err, service.ErrRouteNotAllowed) {
			httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "Unknown form route")
			return
		}
		slogx.FromContext(r.Context()).Error("failed to issue form token", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, leadsdk.ErrorCodeServerError, "An internal error occurred")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, leadsdk.FormTokenResponse{
		Token:     issued.Token,
		Route:     route,
		ExpiresAt: issued.ExpiresAt,
	})
}
