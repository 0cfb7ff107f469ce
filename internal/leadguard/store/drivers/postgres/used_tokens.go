package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/jackc/pgx/v5"
)

type usedTokensRepo struct {
	q querier
}

// MarkUsed relies on RETURNING producing no row when the insert conflicts.
func (r *usedTokensRepo) MarkUsed(ctx context.Context, t domain.UsedToken) (bool, error) {
	var one int
	err := r.q.QueryRow(ctx, `
		INSERT INTO used_tokens (jti, route, expires_at, used_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (jti) DO NOTHING
		RETURNING 1`,
		t.JTI, t.Route, t.ExpiresAt.UTC(), t.UsedAt.UTC(),
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *usedTokensRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM used_tokens WHERE expires_at < $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
