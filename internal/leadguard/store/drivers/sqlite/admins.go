package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
)

type adminsRepo struct {
	db dbtx
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, username, password_hash, totp_sealed, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.PasswordHash, a.TOTPSealed, toMillis(a.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *adminsRepo) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var (
		a           domain.Admin
		createdAt   int64
		lastLoginAt sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, totp_sealed, created_at, last_login_at
		FROM admins
		WHERE username = ?`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.TOTPSealed, &createdAt, &lastLoginAt)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	a.CreatedAt = fromMillis(createdAt)
	a.LastLoginAt = fromNullMillis(lastLoginAt)
	return a, nil
}

func (r *adminsRepo) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	return r.exec(ctx, `UPDATE admins SET password_hash = ? WHERE username = ?`, passwordHash, username)
}

func (r *adminsRepo) UpdateAdminTOTP(ctx context.Context, username string, sealed []byte) error {
	return r.exec(ctx, `UPDATE admins SET totp_sealed = ? WHERE username = ?`, sealed, username)
}

func (r *adminsRepo) TouchAdminLogin(ctx context.Context, username string, at time.Time) error {
	return r.exec(ctx, `UPDATE admins SET last_login_at = ? WHERE username = ?`, toMillis(at), username)
}

func (r *adminsRepo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

// exec runs a single-row update and maps zero affected rows to ErrNotFound.
func (r *adminsRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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
