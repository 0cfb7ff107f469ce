// Package redis provides a formtoken.SingleUseStore backed by Redis, for
// deployments where several instances verify tokens against shared state.
package redis

import (
	"context"
	"time"

	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "leadguard:jti:"

	// minTTL keeps a marker alive briefly even for a token at the edge of
	// expiry, so a racing replay still finds it.
	minTTL = time.Second
)

type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// SingleUseStore marks jtis with SET NX. The key lives until the token
// expires; after that the verifier rejects the token before asking.
type SingleUseStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewSingleUseStore(opts Options) *SingleUseStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewSingleUseStoreFromClient(client, opts.KeyPrefix)
}

func NewSingleUseStoreFromClient(client *redis.Client, prefix string) *SingleUseStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &SingleUseStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SingleUseStore) CheckAndMark(ctx context.Context, jti, route string, expiresAt time.Time) (formtoken.CheckResult, error) {
	ok, err := s.client.SetNX(ctx, s.key(jti), route, ttlUntil(s.now(), expiresAt)).Result()
	if err != nil {
		return formtoken.CheckResult{}, err
	}
	if !ok {
		return formtoken.Replayed(), nil
	}
	return formtoken.Consumed(), nil
}

func (s *SingleUseStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SingleUseStore) Close() error {
	return s.client.Close()
}

func (s *SingleUseStore) key(jti string) string {
	return s.prefix + jti
}

func ttlUntil(now, expiresAt time.Time) time.Duration {
	ttl := expiresAt.Sub(now)
	if ttl < minTTL {
		return minTTL
	}
	return ttl
}
