package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/aussiebroadwan/leadguard/pkg/httpx"
	"github.com/aussiebroadwan/leadguard/pkg/leadsdk"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

// SubmitHandler accepts one protected form. Route is both the mux pattern
// and the route tokens must be bound to.
type SubmitHandler struct {
	Route             string
	SubmissionService *service.SubmissionService
}

// ServeHTTP handles a lead form submission.
//
//	@Summary		Submit a lead form
//	@Description	Accepts a JSON object of form fields plus the form token (in "token" or the X-Form-Token header). Submissions the heuristics find suspicious are still accepted and flagged for review; the response does not say which.
//	@Tags			Submissions
//	@Accept			json
//	@Produce		json
//	@Param			X-Form-Token	header		string							false	"Form token, if not in the body"
//	@Param			request			body		object							true	"Form fields: name, email, phone, serviceType, vehicle, notes, damageDescription, token"
//	@Success		201				{object}	leadsdk.SubmitResponse			"Lead stored"
//	@Failure		400				{object}	leadsdk.ValidationErrorResponse	"Invalid fields, or an invalid token (error_description tells the user to refresh)"
//	@Failure		429				{object}	leadsdk.ErrorResponse			"Rate limit exceeded"
//	@Failure		500				{object}	leadsdk.ErrorResponse			"Internal error"
//	@Router			/api/lead [post]
//	@Router			/api/booking/submit [post].
func (h *SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload heuristics.Payload
	if err := httpx.DecodeJSON(w, r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "Request body must be a JSON object")
		return
	}

	token := r.Header.Get(leadsdk.HeaderFormToken)
	if token == "" {
		token = payload.String(service.FieldToken)
	}

	out, err := h.SubmissionService.Submit(ctx, service.SubmissionRequest{
		Route:     h.Route,
		Token:     token,
		ClientIP:  httpx.ClientIP(r),
		UserAgent: r.UserAgent(),
		Payload:   payload,
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.WriteJSON(w, http.StatusBadRequest, leadsdk.ValidationErrorResponse{
				Code:    leadsdk.ErrorCodeValidation,
				Message: "validation failed for some fields",
				Details: verr.Fields,
			})
		case errors.Is(err, service.ErrInvalidToken):
			httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, leadsdk.GenericTokenError)
		default:
			slogx.FromContext(ctx).Error("failed to store submission", slogx.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, leadsdk.ErrorCodeServerError, "An internal error occurred")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, leadsdk.SubmitResponse{OK: true, LeadID: out.LeadID})
}
