package store

import (
	"context"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
)

// SingleUseAdapter exposes a Store's used-token table as a
// formtoken.SingleUseStore.
type SingleUseAdapter struct {
	s   Store
	now func() time.Time
}

func NewSingleUseAdapter(s Store) *SingleUseAdapter {
	return &SingleUseAdapter{s: s, now: time.Now}
}

func (a *SingleUseAdapter) CheckAndMark(ctx context.Context, jti, route string, expiresAt time.Time) (formtoken.CheckResult, error) {
	inserted, err := a.s.UsedTokens().MarkUsed(ctx, domain.UsedToken{
		JTI:       jti,
		Route:     route,
		ExpiresAt: expiresAt,
		UsedAt:    a.now().UTC(),
	})
	if err != nil {
		return formtoken.CheckResult{}, err
	}
	if !inserted {
		return formtoken.Replayed(), nil
	}
	return formtoken.Consumed(), nil
}
