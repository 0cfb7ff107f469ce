package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the DB stays open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) UsedTokens() store.UsedTokens     { return &usedTokensRepo{db: t.tx} }
func (t *txStore) Fingerprints() store.Fingerprints { return &fingerprintsRepo{db: t.tx} }
func (t *txStore) Leads() store.Leads               { return &leadsRepo{db: t.tx} }
func (t *txStore) Admins() store.Admins             { return &adminsRepo{db: t.tx} }

// ApplyMigrations is a no-op; migrations run before any transaction.
func (t *txStore) ApplyMigrations() error { return nil }
