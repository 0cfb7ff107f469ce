package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/aussiebroadwan/leadguard/pkg/idx"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

// Submission fields beyond the ones the classifier reads.
const (
	FieldToken       = "token"
	FieldName        = "name"
	FieldServiceType = "serviceType"
	FieldVehicle     = "vehicle"

	minPhoneDigits = 8
	maxNameLength  = 200
)

var ErrInvalidSubmission = errors.New("invalid submission")

// ValidationError lists the offending fields of a submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidSubmission }

type SubmissionRequest struct {
	Route     string
	Token     string
	ClientIP  string
	UserAgent string
	Payload   heuristics.Payload
}

type SubmissionOutcome struct {
	LeadID  string
	Status  domain.LeadStatus
	Verdict heuristics.Verdict
}

// SubmissionService runs the lead capture pipeline: validate, verify the
// form token, count the fingerprint, classify and store.
type SubmissionService struct {
	Store         store.Store
	Integrity     *IntegrityService
	Classifier    *heuristics.Classifier
	Fingerprinter *heuristics.Fingerprinter
	Now           func() time.Time
}

func (s *SubmissionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Submit accepts a submission. Deferred and challenged submissions are
// stored too, flagged for review, so the caller answers every accepted
// submission the same way.
func (s *SubmissionService) Submit(ctx context.Context, req SubmissionRequest) (SubmissionOutcome, error) {
	l := slogx.FromContext(ctx)
	p := req.Payload

	if err := validateSubmission(p); err != nil {
		return SubmissionOutcome{}, err
	}

	email := p.String(heuristics.FieldEmail)
	phone := p.String(heuristics.FieldPhone)

	res := s.Integrity.VerifyFormToken(ctx, req.Token, req.Route, req.UserAgent, BoundFields(email, phone))
	if !res.Valid {
		return SubmissionOutcome{}, fmt.Errorf("%w: %s", ErrInvalidToken, res.Reason)
	}

	now := s.now()
	hash := s.Fingerprinter.Generate(req.ClientIP, req.UserAgent, heuristics.Identifier(email, phone))

	raw, err := encodePayload(p)
	if err != nil {
		return SubmissionOutcome{}, fmt.Errorf("encode payload: %w", err)
	}

	lead := domain.Lead{
		ID:                idx.NewAt(now).String(),
		Route:             req.Route,
		Name:              p.String(FieldName),
		Email:             strings.ToLower(email),
		Phone:             phone,
		ServiceType:       p.String(FieldServiceType),
		Vehicle:           p.String(FieldVehicle),
		Notes:             p.FreeText(),
		Payload:           raw,
		Fingerprint:       hash,
		UserAgentMismatch: res.UserAgentMismatch,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var verdict heuristics.Verdict
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var prev *heuristics.Counter
		fp, err := tx.Fingerprints().GetFingerprint(ctx, hash)
		switch {
		case err == nil:
			prev = fp.Counter()
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("get fingerprint: %w", err)
		}

		if _, err := tx.Fingerprints().RecordSubmission(ctx, hash, now, s.observationWindow()); err != nil {
			return fmt.Errorf("record fingerprint: %w", err)
		}

		verdict = s.Classifier.Classify(prev, p, now)
		lead.Action = verdict.Action
		lead.Reason = verdict.Reason
		lead.Status = domain.LeadNew
		if verdict.Action != heuristics.ActionAllow {
			lead.Status = domain.LeadFlagged
		}

		if err := tx.Leads().CreateLead(ctx, lead); err != nil {
			return fmt.Errorf("create lead: %w", err)
		}
		return nil
	})
	if err != nil {
		return SubmissionOutcome{}, err
	}

	attrs := []any{
		"lead_id", lead.ID,
		"route", lead.Route,
		"fingerprint", hash,
		"action", verdict.Action,
	}
	if verdict.Reason != heuristics.ReasonNone {
		attrs = append(attrs, "reason", verdict.Reason)
	}
	if lead.Status == domain.LeadFlagged {
		l.Warn("lead flagged for review", attrs...)
	} else {
		l.Info("lead accepted", attrs...)
	}

	return SubmissionOutcome{LeadID: lead.ID, Status: lead.Status, Verdict: verdict}, nil
}

// observationWindow is how long a fingerprint counter keeps growing before
// it restarts: the widest rate window.
func (s *SubmissionService) observationWindow() time.Duration {
	t := s.Classifier.Thresholds()
	return max(t.HighFrequencyWindow, t.BurstWindow)
}

// BoundFields are the identity fields a form token may be bound to. The
// token endpoint and the submission pipeline must agree on them.
func BoundFields(email, phone string) formtoken.Fields {
	return formtoken.Fields{
		heuristics.FieldEmail: strings.TrimSpace(email),
		heuristics.FieldPhone: strings.TrimSpace(phone),
	}
}

func validateSubmission(p heuristics.Payload) error {
	problems := make(map[string]string)

	name := p.String(FieldName)
	switch {
	case name == "":
		problems[FieldName] = "is required"
	case len(name) > maxNameLength:
		problems[FieldName] = "is too long"
	}

	email := p.String(heuristics.FieldEmail)
	phone := p.String(heuristics.FieldPhone)
	if email == "" && phone == "" {
		problems["contact"] = "an email or phone number is required"
	}
	if email != "" && (!strings.Contains(email, "@") || heuristics.EmailDomain(email) == "") {
		problems[heuristics.FieldEmail] = "is not a valid email address"
	}
	if phone != "" && countDigits(phone) < minPhoneDigits {
		problems[heuristics.FieldPhone] = "is not a valid phone number"
	}

	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// encodePayload stores the submission as received, minus its token.
func encodePayload(p heuristics.Payload) ([]byte, error) {
	out := make(map[string]any, len(p))
	for k, v := range p {
		if k == FieldToken {
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}
