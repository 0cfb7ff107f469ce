package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
)

type adminsRepo struct {
	q querier
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO admins (id, username, password_hash, totp_sealed, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Username, a.PasswordHash, a.TOTPSealed, a.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *adminsRepo) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var a domain.Admin
	err := r.q.QueryRow(ctx, `
		SELECT id, username, password_hash, totp_sealed, created_at, last_login_at
		FROM admins
		WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.TOTPSealed, &a.CreatedAt, &a.LastLoginAt)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func (r *adminsRepo) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	return affectedOne(r.q.Exec(ctx, `UPDATE admins SET password_hash = $1 WHERE username = $2`, passwordHash, username))
}

func (r *adminsRepo) UpdateAdminTOTP(ctx context.Context, username string, sealed []byte) error {
	return affectedOne(r.q.Exec(ctx, `UPDATE admins SET totp_sealed = $1 WHERE username = $2`, sealed, username))
}

func (r *adminsRepo) TouchAdminLogin(ctx context.Context, username string, at time.Time) error {
	return affectedOne(r.q.Exec(ctx, `UPDATE admins SET last_login_at = $1 WHERE username = $2`, at.UTC(), username))
}

func (r *adminsRepo) CountAdmins(ctx context.Context) (int, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return int(n), err
}
