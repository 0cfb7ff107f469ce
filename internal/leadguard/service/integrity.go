package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

// Form routes tokens are issued for by default.
const (
	RouteBookingSubmit = "/api/booking/submit"
	RouteLead          = "/api/lead"
)

var (
	ErrRouteNotAllowed = errors.New("route is not a protected form")
	ErrInvalidToken    = errors.New("invalid form token")
)

// DefaultRoutes returns the form routes protected out of the box.
func DefaultRoutes() []string {
	return []string{RouteBookingSubmit, RouteLead}
}

// IntegrityService issues and verifies form tokens for an allow-list of
// routes.
type IntegrityService struct {
	Issuer   *formtoken.Issuer
	Verifier *formtoken.Verifier
	Routes   []string
}

func (s *IntegrityService) AllowedRoute(route string) bool {
	return slices.Contains(s.Routes, route)
}

// IssueFormToken mints a token for route, optionally bound to fields.
func (s *IntegrityService) IssueFormToken(ctx context.Context, route, userAgent string, fields formtoken.Fields) (formtoken.Issued, error) {
	if !s.AllowedRoute(route) {
		return formtoken.Issued{}, fmt.Errorf("%w: %q", ErrRouteNotAllowed, route)
	}

	issued, err := s.Issuer.Issue(route, userAgent, fields)
	if err != nil {
		return formtoken.Issued{}, fmt.Errorf("issue form token: %w", err)
	}

	slogx.FromContext(ctx).Debug("form token issued",
		"route", route,
		"jti", issued.JTI,
		"bound", len(fields) > 0,
	)
	return issued, nil
}

// VerifyFormToken checks raw against route and consumes it when valid.
// Failure reasons are logged here and never returned to clients.
func (s *IntegrityService) VerifyFormToken(ctx context.Context, raw, route, userAgent string, fields formtoken.Fields) formtoken.Result {
	l := slogx.FromContext(ctx)

	res := s.Verifier.Verify(ctx, formtoken.Request{
		Token:     raw,
		Route:     route,
		UserAgent: userAgent,
		Fields:    fields,
	})

	if res.UserAgentMismatch {
		l.Info("form token user agent changed", "route", route, "jti", res.JTI)
	}
	if !res.Valid {
		l.Warn("form token rejected", "route", route, "jti", res.JTI, "reason", res.Reason)
	}
	return res
}
