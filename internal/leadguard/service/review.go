package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrNotReviewable = errors.New("status is not a review outcome")
)

// Summary counts leads per verdict since a point in time.
type Summary struct {
	Since    time.Time             `json:"since"`
	Total    int                   `json:"total"`
	Verdicts []domain.VerdictCount `json:"verdicts"`
}

type ReviewService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *ReviewService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ListLeads returns leads newest first. The limit is clamped to
// MaxListLimit and defaults to DefaultListLimit.
func (s *ReviewService) ListLeads(ctx context.Context, f domain.LeadFilter) ([]domain.Lead, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	return s.Store.Leads().ListLeads(ctx, f)
}

func (s *ReviewService) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	l, err := s.Store.Leads().GetLead(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Lead{}, ErrLeadNotFound
	}
	return l, err
}

func (s *ReviewService) Summary(ctx context.Context, since time.Time) (Summary, error) {
	counts, err := s.Store.Leads().SummariseVerdicts(ctx, since)
	if err != nil {
		return Summary{}, fmt.Errorf("summarise verdicts: %w", err)
	}

	sum := Summary{Since: since.UTC(), Verdicts: counts}
	for _, c := range counts {
		sum.Total += c.Count
	}
	if sum.Verdicts == nil {
		sum.Verdicts = []domain.VerdictCount{}
	}
	return sum, nil
}

// MarkReviewed records a reviewer's decision on a lead.
func (s *ReviewService) MarkReviewed(ctx context.Context, id string, status domain.LeadStatus, reviewer string) (domain.Lead, error) {
	if !status.Reviewable() {
		return domain.Lead{}, ErrNotReviewable
	}

	err := s.Store.Leads().UpdateLeadStatus(ctx, id, status, reviewer, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return domain.Lead{}, ErrLeadNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("update lead status: %w", err)
	}

	slogx.FromContext(ctx).Info("lead reviewed", "lead_id", id, "status", status, "reviewer", reviewer)
	return s.GetLead(ctx, id)
}
