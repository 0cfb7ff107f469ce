package leadsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"
)

var ErrSessionExpired = errors.New("leadsdk: session expired, log in again")

// Session holds an admin bearer token. Sessions are not refreshed; log in
// again once ExpiresAt passes.
type Session struct {
	client    *Client
	token     string
	expiresAt time.Time
	scopes    []string
}

func (s *Session) AccessToken() string  { return s.token }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

func (s *Session) HasScope(scope string) bool {
	return slices.Contains(s.scopes, scope)
}

// LeadQuery filters ListLeads. Zero values are omitted.
type LeadQuery struct {
	Status string
	Since  time.Time
	Limit  int
}

func (q LeadQuery) encode() string {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if !q.Since.IsZero() {
		v.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (s *Session) ListLeads(ctx context.Context, q LeadQuery) ([]Lead, error) {
	var out LeadListResponse
	if err := s.do(ctx, http.MethodGet, "/v1/admin/leads"+q.encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Leads, nil
}

// Summary counts verdicts for leads created at or after since. A zero since
// uses the server default of the last 24 hours.
func (s *Session) Summary(ctx context.Context, since time.Time) (*SummaryResponse, error) {
	path := "/v1/admin/leads/summary"
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}

	var out SummaryResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Review sets a lead's status to "accepted" or "rejected".
func (s *Session) Review(ctx context.Context, leadID, status string) (*Lead, error) {
	var out Lead
	path := "/v1/admin/leads/" + url.PathEscape(leadID) + "/review"
	if err := s.do(ctx, http.MethodPost, path, ReviewRequest{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) do(ctx context.Context, method, path string, body, target any) error {
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return ErrSessionExpired
	}

	resp, err := s.client.doRequest(ctx, method, path, body, map[string]string{
		"Authorization": "Bearer " + s.token,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}
