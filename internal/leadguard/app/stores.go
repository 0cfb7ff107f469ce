package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store/drivers/postgres"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store/drivers/redis"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store/drivers/sqlite"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
)

// OpenStore opens the configured database and applies migrations.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, error) {
	var (
		db  store.Store
		err error
	)

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, cfg.DatabaseURL)
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)
	return db, nil
}

// SingleUseBackend is the store the verifier consumes jtis through, plus
// whatever needs closing at shutdown. Memory is set only for the in-process
// backend so housekeeping can sweep it.
type SingleUseBackend struct {
	Store  formtoken.SingleUseStore
	Memory *formtoken.MemoryStore
	Close  func() error
}

func OpenSingleUse(cfg Config, db store.Store, logger *slog.Logger) SingleUseBackend {
	switch cfg.SingleUseBackend {
	case SingleUseRedis:
		rs := redis.NewSingleUseStore(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		logger.Info("single-use tokens tracked in redis", "addr", cfg.RedisAddr)
		return SingleUseBackend{Store: rs, Close: rs.Close}

	case SingleUseMemory:
		logger.Warn("single-use tokens tracked in process memory; replays are only caught within this instance")
		mem := formtoken.NewMemoryStore()
		return SingleUseBackend{Store: mem, Memory: mem, Close: func() error { return nil }}

	default:
		return SingleUseBackend{Store: store.NewSingleUseAdapter(db), Close: func() error { return nil }}
	}
}
