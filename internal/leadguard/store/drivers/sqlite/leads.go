package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
)

type leadsRepo struct {
	db dbtx
}

const leadColumns = `id, route, name, email, phone, service_type, vehicle, notes, payload,
	fingerprint, verdict_action, verdict_reason, ua_mismatch, status,
	reviewed_by, reviewed_at, created_at, updated_at`

func (r *leadsRepo) CreateLead(ctx context.Context, l domain.Lead) error {
	if l.Payload == nil {
		l.Payload = []byte("{}")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Route, l.Name, l.Email, l.Phone, l.ServiceType, l.Vehicle, l.Notes, l.Payload,
		l.Fingerprint, string(l.Action), string(l.Reason), l.UserAgentMismatch, string(l.Status),
		mapStringNull(l.ReviewedBy), nullMillis(l.ReviewedAt), toMillis(l.CreatedAt), toMillis(l.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *leadsRepo) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	l, err := scanLead(row)
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
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if !f.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, toMillis(f.Since))
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT verdict_action, verdict_reason, COUNT(*)
		FROM leads
		WHERE created_at >= ?
		GROUP BY verdict_action, verdict_reason
		ORDER BY verdict_action, verdict_reason`, toMillis(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VerdictCount
	for rows.Next() {
		var action, reason string
		var count int
		if err := rows.Scan(&action, &reason, &count); err != nil {
			return nil, err
		}
		out = append(out, domain.VerdictCount{
			Action: heuristics.Action(action),
			Reason: heuristics.Reason(reason),
			Count:  count,
		})
	}
	return out, rows.Err()
}

func (r *leadsRepo) UpdateLeadStatus(ctx context.Context, id string, status domain.LeadStatus, reviewer string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE leads
		SET status = ?, reviewed_by = ?, reviewed_at = ?, updated_at = ?
		WHERE id = ?`,
		string(status), mapStringNull(reviewer), toMillis(at), toMillis(at), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (domain.Lead, error) {
	var (
		l                    domain.Lead
		action, reason       string
		status               string
		reviewedBy           sql.NullString
		reviewedAt           sql.NullInt64
		createdAt, updatedAt int64
	)
	err := s.Scan(
		&l.ID, &l.Route, &l.Name, &l.Email, &l.Phone, &l.ServiceType, &l.Vehicle, &l.Notes, &l.Payload,
		&l.Fingerprint, &action, &reason, &l.UserAgentMismatch, &status,
		&reviewedBy, &reviewedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	l.Action = heuristics.Action(action)
	l.Reason = heuristics.Reason(reason)
	l.Status = domain.LeadStatus(status)
	l.ReviewedBy = reviewedBy.String
	l.ReviewedAt = fromNullMillis(reviewedAt)
	l.CreatedAt = fromMillis(createdAt)
	l.UpdatedAt = fromMillis(updatedAt)
	return l, nil
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}
