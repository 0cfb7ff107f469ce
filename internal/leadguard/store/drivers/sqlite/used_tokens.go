package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
)

type usedTokensRepo struct {
	db dbtx
}

func (r *usedTokensRepo) MarkUsed(ctx context.Context, t domain.UsedToken) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO used_tokens (jti, route, expires_at, used_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (jti) DO NOTHING`,
		t.JTI, t.Route, toMillis(t.ExpiresAt), toMillis(t.UsedAt),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *usedTokensRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM used_tokens WHERE expires_at < ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
