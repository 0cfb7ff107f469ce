package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/pkg/httpx"
	"github.com/aussiebroadwan/leadguard/pkg/leadsdk"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

const defaultSummaryWindow = 24 * time.Hour

type LeadsHandler struct {
	ReviewService *service.ReviewService
}

// HandleList lists stored leads.
//
//	@Summary		List leads
//	@Description	Returns leads newest first, optionally filtered by status and creation time.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status	query		string						false	"new, flagged, accepted or rejected"
//	@Param			since	query		string						false	"RFC 3339 timestamp"
//	@Param			limit	query		int							false	"Maximum results (default 50, max 500)"
//	@Success		200		{object}	leadsdk.LeadListResponse	"Leads"
//	@Failure		400		{object}	leadsdk.ErrorResponse		"Invalid filter"
//	@Failure		401		{object}	leadsdk.ErrorResponse		"Missing or invalid token"
//	@Failure		403		{object}	leadsdk.ErrorResponse		"Missing leads:review scope"
//	@Router			/v1/admin/leads [get].
func (h *LeadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f domain.LeadFilter

	if s := q.Get("status"); s != "" {
		status, err := domain.ParseLeadStatus(s)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "Unknown status")
			return
		}
		f.Status = status
	}
	if s := q.Get("since"); s != "" {
		since, err := time.Parse(time.RFC3339, s)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "since must be an RFC 3339 timestamp")
			return
		}
		f.Since = since
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "limit must be a positive integer")
			return
		}
		f.Limit = limit
	}

	leads, err := h.ReviewService.ListLeads(r.Context(), f)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list leads", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, leadsdk.ErrorCodeServerError, "An internal error occurred")
		return
	}

	out := leadsdk.LeadListResponse{Leads: make([]leadsdk.Lead, 0, len(leads))}
	for _, l := range leads {
		out.Leads = append(out.Leads, toLeadResponse(l))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleSummary counts verdicts.
//
//	@Summary		Verdict summary
//	@Description	Counts leads per verdict action and reason since a point in time (default: last 24 hours).
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			since	query		string					false	"RFC 3339 timestamp"
//	@Success		200		{object}	leadsdk.SummaryResponse	"Counts"
//	@Failure		400		{object}	leadsdk.ErrorResponse	"Invalid since"
//	@Failure		401		{object}	leadsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	leadsdk.ErrorResponse	"Missing leads:review scope"
//	@Router			/v1/admin/leads/summary [get].
func (h *LeadsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-defaultSummaryWindow)
	if s := r.URL.Query().Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "since must be an RFC 3339 timestamp")
			return
		}
		since = t
	}

	sum, err := h.ReviewService.Summary(r.Context(), since)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to summarise leads", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, leadsdk.ErrorCodeServerError, "An internal error occurred")
		return
	}

	out := leadsdk.SummaryResponse{Since: sum.Since, Total: sum.Total, Verdicts: make([]leadsdk.VerdictCount, 0, len(sum.Verdicts))}
	for _, v := range sum.Verdicts {
		out.Verdicts = append(out.Verdicts, leadsdk.VerdictCount{
			Action: string(v.Action),
			Reason: string(v.Reason),
			Count:  v.Count,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleReview records a review decision.
//
//	@Summary		Review a lead
//	@Description	Marks a lead accepted or rejected.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Lead ID"
//	@Param			request	body		leadsdk.ReviewRequest	true	"Decision"
//	@Success		200		{object}	leadsdk.Lead			"Updated lead"
//	@Failure		400		{object}	leadsdk.ErrorResponse	"Invalid status"
//	@Failure		401		{object}	leadsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	leadsdk.ErrorResponse	"Missing leads:review scope"
//	@Failure		404		{object}	leadsdk.ErrorResponse	"Lead not found"
//	@Router			/v1/admin/leads/{id}/review [post].
func (h *LeadsHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req leadsdk.ReviewRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "Request body must be valid JSON")
		return
	}

	status, err := domain.ParseLeadStatus(req.Status)
	if err != nil || !status.Reviewable() {
		httpx.WriteError(w, http.StatusBadRequest, leadsdk.ErrorCodeInvalidRequest, "status must be accepted or rejected")
		return
	}

	lead, err := h.ReviewService.MarkReviewed(r.Context(), r.PathValue("id"), status, httpx.SubjectFromContext(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeadNotFound):
			httpx.WriteError(w, http.StatusNotFound, leadsdk.ErrorCodeNotFound, "Lead not found")
		default:
			slogx.FromContext(r.Context()).Error("failed to review lead", slogx.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, leadsdk.ErrorCodeServerError, "An internal error occurred")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toLeadResponse(lead))
}

func toLeadResponse(l domain.Lead) leadsdk.Lead {
	out := leadsdk.Lead{
		ID:                l.ID,
		Route:             l.Route,
		Name:              l.Name,
		Email:             l.Email,
		Phone:             l.Phone,
		ServiceType:       l.ServiceType,
		Vehicle:           l.Vehicle,
		Notes:             l.Notes,
		Action:            string(l.Action),
		Reason:            string(l.Reason),
		UserAgentMismatch: l.UserAgentMismatch,
		Status:            string(l.Status),
		ReviewedBy:        l.ReviewedBy,
		ReviewedAt:        l.ReviewedAt,
		CreatedAt:         l.CreatedAt,
	}
	if len(l.Payload) > 0 {
		// Stored payloads were encoded by us; a bad row just omits it.
		_ = json.Unmarshal(l.Payload, &out.Payload)
	}
	return out
}
