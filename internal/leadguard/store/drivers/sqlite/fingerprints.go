package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/domain"
)

type fingerprintsRepo struct {
	db dbtx
}

func (r *fingerprintsRepo) GetFingerprint(ctx context.Context, hash string) (domain.Fingerprint, error) {
	var (
		f                   = domain.Fingerprint{Hash: hash}
		firstSeen, lastSeen int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT count, first_seen, last_seen
		FROM submission_fingerprints
		WHERE hash = ?`, hash,
	).Scan(&f.Count, &firstSeen, &lastSeen)
	if err != nil {
		return domain.Fingerprint{}, mapNotFound(err)
	}
	f.FirstSeen, f.LastSeen = fromMillis(firstSeen), fromMillis(lastSeen)
	return f, nil
}

func (r *fingerprintsRepo) RecordSubmission(ctx context.Context, hash string, now time.Time, window time.Duration) (domain.Fingerprint, error) {
	var (
		f                   = domain.Fingerprint{Hash: hash}
		firstSeen, lastSeen int64
		nowMs               = toMillis(now)
		windowStart         = toMillis(now.Add(-window))
	)
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO submission_fingerprints (hash, count, first_seen, last_seen)
		VALUES (?1, 1, ?2, ?2)
		ON CONFLICT (hash) DO UPDATE SET
			count      = CASE WHEN first_seen < ?3 THEN 1 ELSE count + 1 END,
			first_seen = CASE WHEN first_seen < ?3 THEN excluded.first_seen ELSE first_seen END,
			last_seen  = excluded.last_seen
		RETURNING count, first_seen, last_seen`,
		hash, nowMs, windowStart,
	).Scan(&f.Count, &firstSeen, &lastSeen)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	f.FirstSeen, f.LastSeen = fromMillis(firstSeen), fromMillis(lastSeen)
	return f, nil
}

func (r *fingerprintsRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM submission_fingerprints WHERE last_seen < ?`, toMillis(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
