package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it and expose sub-repositories so a Tx can hand out
// the same repos bound to the transaction.
type Store interface {
	UsedTokens() UsedTokens
	Fingerprints() Fingerprints
	Leads() Leads
	Admins() Admins

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type UsedTokens interface {
	// MarkUsed inserts the jti and reports whether this call inserted it.
	// A false result with a nil error means the jti was already consumed.
	// Must be atomic under concurrent callers (unique key on jti).
	MarkUsed(ctx context.Context, t domain.UsedToken) (bool, error)

	// DeleteExpired purges records whose token expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Fingerprints interface {
	// GetFingerprint returns the counter for hash, or ErrNotFound.
	GetFingerprint(ctx context.Context, hash string) (domain.Fingerprint, error)

	// RecordSubmission upserts the counter for hash. If the stored window
	// started before now-window the counter restarts at 1.
	RecordSubmission(ctx context.Context, hash string, now time.Time, window time.Duration) (domain.Fingerprint, error)

	// DeleteStale removes counters last seen before cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type Leads interface {
	CreateLead(ctx context.Context, l domain.Lead) error
	GetLead(ctx context.Context, id string) (domain.Lead, error)

	// ListLeads returns leads newest first.
	ListLeads(ctx context.Context, f domain.LeadFilter) ([]domain.Lead, error)

	// SummariseVerdicts counts leads created at or after since, grouped by
	// verdict action and reason.
	SummariseVerdicts(ctx context.Context, since time.Time) ([]domain.VerdictCount, error)

	// UpdateLeadStatus sets status and reviewer, or returns ErrNotFound.
	UpdateLeadStatus(ctx context.Context, id string, status domain.LeadStatus, reviewer string, at time.Time) error
}

type Admins interface {
	// CreateAdmin inserts an admin, ErrAlreadyExists on a duplicate username.
	CreateAdmin(ctx context.Context, a domain.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)
	UpdateAdminPassword(ctx context.Context, username, passwordHash string) error
	UpdateAdminTOTP(ctx context.Context, username string, sealed []byte) error
	TouchAdminLogin(ctx context.Context, username string, at time.Time) error
	CountAdmins(ctx context.Context) (int, error)
}
