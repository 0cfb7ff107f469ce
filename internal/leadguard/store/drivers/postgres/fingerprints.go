package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
)

type fingerprintsRepo struct {
	q querier
}

func (r *fingerprintsRepo) GetFingerprint(ctx context.Context, hash string) (domain.Fingerprint, error) {
	f := domain.Fingerprint{Hash: hash}
	err := r.q.QueryRow(ctx, `
		SELECT count, first_seen, last_seen
		FROM submission_fingerprints
		WHERE hash = $1`, hash,
	).Scan(&f.Count, &f.FirstSeen, &f.LastSeen)
	if err != nil {
		return domain.Fingerprint{}, mapNotFound(err)
	}
	f.FirstSeen, f.LastSeen = f.FirstSeen.UTC(), f.LastSeen.UTC()
	return f, nil
}

func (r *fingerprintsRepo) RecordSubmission(ctx context.Context, hash string, now time.Time, window time.Duration) (domain.Fingerprint, error) {
	f := domain.Fingerprint{Hash: hash}
	err := r.q.QueryRow(ctx, `
		INSERT INTO submission_fingerprints AS f (hash, count, first_seen, last_seen)
		VALUES ($1, 1, $2, $2)
		ON CONFLICT (hash) DO UPDATE SET
			count      = CASE WHEN f.first_seen < $3 THEN 1 ELSE f.count + 1 END,
			first_seen = CASE WHEN f.first_seen < $3 THEN EXCLUDED.first_seen ELSE f.first_seen END,
			last_seen  = EXCLUDED.last_seen
		RETURNING count, first_seen, last_seen`,
		hash, now.UTC(), now.Add(-window).UTC(),
	).Scan(&f.Count, &f.FirstSeen, &f.LastSeen)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	f.FirstSeen, f.LastSeen = f.FirstSeen.UTC(), f.LastSeen.UTC()
	return f, nil
}

func (r *fingerprintsRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM submission_fingerprints WHERE last_seen < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
