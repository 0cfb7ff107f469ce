package domain

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
)

type LeadStatus string

const (
	// LeadNew is an allowed submission awaiting follow up.
	LeadNew LeadStatus = "new"
	// LeadFlagged is a deferred or challenged submission held for review.
	LeadFlagged  LeadStatus = "flagged"
	LeadAccepted LeadStatus = "accepted"
	LeadRejected LeadStatus = "rejected"
)

func ParseLeadStatus(s string) (LeadStatus, error) {
	switch st := LeadStatus(s); st {
	case LeadNew, LeadFlagged, LeadAccepted, LeadRejected:
		return st, nil
	default:
		return "", fmt.Errorf("unknown lead status %q", s)
	}
}

// Reviewable reports whether a reviewer may move a lead into status.
func (s LeadStatus) Reviewable() bool {
	return s == LeadAccepted || s == LeadRejected
}

// Lead is a stored form submission.
type Lead struct {
	ID          string
	Route       string
	Name        string
	Email       string
	Phone       string
	ServiceType string
	Vehicle     string
	Notes       string
	Payload     []byte // raw JSON as submitted, minus the token

	Fingerprint       string
	Action            heuristics.Action
	Reason            heuristics.Reason
	UserAgentMismatch bool
	Status            LeadStatus

	ReviewedBy string
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LeadFilter narrows ListLeads. Zero values match everything.
type LeadFilter struct {
	Status LeadStatus
	Since  time.Time
	Limit  int
}

// VerdictCount is one row of the review summary.
type VerdictCount struct {
	Action heuristics.Action `json:"action"`
	Reason heuristics.Reason `json:"reason,omitempty"`
	Count  int               `json:"count"`
}
