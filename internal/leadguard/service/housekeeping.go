package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

// DefaultFingerprintRetention is how long an idle fingerprint counter is
// kept.
const DefaultFingerprintRetention = 30 * 24 * time.Hour

// HousekeepingService periodically purges consumed form tokens past their
// expiry and idle fingerprint counters.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// MemoryTokens is swept too when the process-local single-use store is
	// in use.
	MemoryTokens *formtoken.MemoryStore

	Now func() time.Time

	// Internal channels for lifecycle management
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// CleanupReport counts what one cleanup pass removed.
type CleanupReport struct {
	UsedTokens   int64 `json:"used_tokens"`
	Fingerprints int64 `json:"fingerprints"`
	MemoryTokens int   `json:"memory_tokens"`
	Failures     int   `json:"failures"`
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to 1 hour and a non-positive retention to
// DefaultFingerprintRetention.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultFingerprintRetention
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		Now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs cleanup immediately and then every Interval until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop blocks until any in-progress cleanup has finished. Calls after the
// first are no-ops.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pass. Each deletion is independent; a failure in
// one does not stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) CleanupReport {
	now := s.Now().UTC()
	var report CleanupReport

	n, err := s.Store.UsedTokens().DeleteExpired(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired form tokens", slogx.Err(err))
		report.Failures++
	} else {
		report.UsedTokens = n
	}

	n, err = s.Store.Fingerprints().DeleteStale(ctx, now.Add(-s.Retention))
	if err != nil {
		s.Logger.Error("failed to delete stale fingerprints", slogx.Err(err))
		report.Failures++
	} else {
		report.Fingerprints = n
	}

	if s.MemoryTokens != nil {
		report.MemoryTokens = s.MemoryTokens.DeleteExpired(now)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"used_tokens", report.UsedTokens,
		"fingerprints", report.Fingerprints,
		"memory_tokens", report.MemoryTokens,
		"failures", report.Failures,
	)
	return report
}
