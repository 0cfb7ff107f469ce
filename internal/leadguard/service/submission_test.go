package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/stretchr/testify/require"
)

func TestSubmit_Accepted(t *testing.T) {
	f := newFixture(t)
	p := bookingPayload()
	p[FieldToken] = "should-not-be-stored"

	out, err := f.submit(t, RouteBookingSubmit, p)
	require.NoError(t, err)
	require.Equal(t, heuristics.Allow(), out.Verdict)
	require.Equal(t, domain.LeadNew, out.Status)

	lead, err := f.review.GetLead(t.Context(), out.LeadID)
	require.NoError(t, err)
	require.Equal(t, RouteBookingSubmit, lead.Route)
	require.Equal(t, "Dana Smith", lead.Name)
	require.Equal(t, "dana@example.com", lead.Email)
	require.Equal(t, "windshield_replacement", lead.ServiceType)
	require.Equal(t, "2019 Subaru Outback", lead.Vehicle)
	require.Contains(t, lead.Notes, "rock hit the windshield")
	require.Len(t, lead.Fingerprint, 32)

	var stored map[string]any
	require.NoError(t, json.Unmarshal(lead.Payload, &stored))
	require.NotContains(t, stored, FieldToken)
	require.Equal(t, "Dana Smith", stored["name"])
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		payload heuristics.Payload
		field   string
	}{
		{"missing name", heuristics.Payload{"email": "a@example.com"}, FieldName},
		{"no contact", heuristics.Payload{"name": "Al"}, "contact"},
		{"bad email", heuristics.Payload{"name": "Al", "email": "not-an-email"}, heuristics.FieldEmail},
		{"short phone", heuristics.Payload{"name": "Al", "phone": "555-01"}, heuristics.FieldPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.submissions.Submit(t.Context(), SubmissionRequest{
				Route:   RouteLead,
				Token:   "unused",
				Payload: tt.payload,
			})
			require.ErrorIs(t, err, ErrInvalidSubmission)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestSubmit_InvalidToken(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p := bookingPayload()

	t.Run("garbage", func(t *testing.T) {
		_, err := f.submissions.Submit(ctx, SubmissionRequest{Route: RouteLead, Token: "nope", Payload: p})
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong route", func(t *testing.T) {
		_, err := f.submissions.Submit(ctx, SubmissionRequest{
			Route:   RouteLead,
			Token:   f.token(t, RouteBookingSubmit, p),
			Payload: p,
		})
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("identity swapped after issue", func(t *testing.T) {
		tok := f.token(t, RouteLead, p)
		swapped := bookingPayload()
		swapped["email"] = "someone-else@example.com"

		_, err := f.submissions.Submit(ctx, SubmissionRequest{Route: RouteLead, Token: tok, Payload: swapped})
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("replayed", func(t *testing.T) {
		tok := f.token(t, RouteLead, p)
		req := SubmissionRequest{Route: RouteLead, Token: tok, ClientIP: testIP, UserAgent: testUA, Payload: p}

		_, err := f.submissions.Submit(ctx, req)
		require.NoError(t, err)
		_, err = f.submissions.Submit(ctx, req)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	leads, err := f.review.ListLeads(ctx, domain.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
}

func TestSubmit_ContentFlagged(t *testing.T) {
	f := newFixture(t)

	p := bookingPayload()
	p["damageDescription"] = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	out, err := f.submit(t, RouteBookingSubmit, p)
	require.NoError(t, err)
	require.Equal(t, heuristics.Verdict{Action: heuristics.ActionChallenge, Reason: heuristics.ReasonLowEntropy}, out.Verdict)
	require.Equal(t, domain.LeadFlagged, out.Status)

	p = bookingPayload()
	p["email"] = "bot@mailinator.com"
	out, err = f.submit(t, RouteBookingSubmit, p)
	require.NoError(t, err)
	require.Equal(t, heuristics.ReasonDisposableEmail, out.Verdict.Reason)
}

func TestSubmit_RateEscalation(t *testing.T) {
	f := newFixture(t)
	p := heuristics.Payload{"name": "Repeat Sender", "email": "repeat@example.com", "notes": "Please call me back about a quote."}

	for i := range 5 {
		out, err := f.submit(t, RouteLead, p)
		require.NoError(t, err)
		require.Equal(t, heuristics.ActionAllow, out.Verdict.Action, "submission %d", i+1)
		f.clock.Advance(time.Minute)
	}

	out, err := f.submit(t, RouteLead, p)
	require.NoError(t, err)
	require.Equal(t, heuristics.Verdict{Action: heuristics.ActionChallenge, Reason: heuristics.ReasonHighFrequency}, out.Verdict)
	require.Equal(t, domain.LeadFlagged, out.Status)

	// A different identity from the same client has its own counter.
	other := heuristics.Payload{"name": "Someone Else", "email": "else@example.com"}
	out, err = f.submit(t, RouteLead, other)
	require.NoError(t, err)
	require.Equal(t, heuristics.ActionAllow, out.Verdict.Action)

	// Once the observation window lapses the counter restarts.
	f.clock.Advance(2 * time.Hour)
	out, err = f.submit(t, RouteLead, p)
	require.NoError(t, err)
	require.Equal(t, heuristics.ActionAllow, out.Verdict.Action)
}
