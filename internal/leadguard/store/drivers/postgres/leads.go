package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/jackc/pgx/v5"
)

type leadsRepo struct {
	q querier
}

const leadColumns = `id, route, name, email, phone, service_type, vehicle, notes, payload,
	fingerprint, verdict_action, verdict_reason, ua_mismatch, status,
	reviewed_by, reviewed_at, created_at, updated_at`

func (r *leadsRepo) CreateLead(ctx context.Context, l domain.Lead) error {
	payload := l.Payload
	if payload == nil {
		payload = []byte("{}")
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		l.ID, l.Route, l.Name, l.Email, l.Phone, l.ServiceType, l.Vehicle, l.Notes, string(payload),
		l.Fingerprint, string(l.Action), string(l.Reason), l.UserAgentMismatch, string(l.Status),
		nullString(l.ReviewedBy), l.ReviewedAt, l.CreatedAt.UTC(), l.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *leadsRepo) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		return domain.Lead{}, mapNotFound(err)
	}
	return l, nil
}

func (r *leadsRepo) ListLeads(ctx context.Context, f domain.LeadFilter) ([]domain.Lead, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since.UTC())
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *leadsRepo) SummariseVerdicts(ctx context.Context, since time.Time) ([]domain.VerdictCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT verdict_action, verdict_reason, COUNT(*)
		FROM leads
		WHERE created_at >= $1
		GROUP BY verdict_action, verdict_reason
		ORDER BY verdict_action, verdict_reason`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VerdictCount
	for rows.Next() {
		var (
			action, reason string
			count          int64
		)
		if err := rows.Scan(&action, &reason, &count); err != nil {
			return nil, err
		}
		out = append(out, domain.VerdictCount{
			Action: heuristics.Action(action),
			Reason: heuristics.Reason(reason),
			Count:  int(count),
		})
	}
	return out, rows.Err()
}

func (r *leadsRepo) UpdateLeadStatus(ctx context.Context, id string, status domain.LeadStatus, reviewer string, at time.Time) error {
	return affectedOne(r.q.Exec(ctx, `
		UPDATE leads
		SET status = $1, reviewed_by = $2, reviewed_at = $3, updated_at = $3
		WHERE id = $4`,
		string(status), nullString(reviewer), at.UTC(), id,
	))
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		l              domain.Lead
		payload        string
		action, reason string
		status         string
		reviewedBy     *string
	)
	err := row.Scan(
		&l.ID, &l.Route, &l.Name, &l.Email, &l.Phone, &l.ServiceType, &l.Vehicle, &l.Notes, &payload,
		&l.Fingerprint, &action, &reason, &l.UserAgentMismatch, &status,
		&reviewedBy, &l.ReviewedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	l.Payload = []byte(payload)
	l.Action = heuristics.Action(action)
	l.Reason = heuristics.Reason(reason)
	l.Status = domain.LeadStatus(status)
	if reviewedBy != nil {
		l.ReviewedBy = *reviewedBy
	}
	if l.ReviewedAt != nil {
		t := l.ReviewedAt.UTC()
		l.ReviewedAt = &t
	}
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return l, nil
}
