package formtoken

import (
	"context"
	"sync"
	"time"
)

// SingleUseStore records consumed token identifiers. CheckAndMark must be
// atomic across every process sharing the store: of two concurrent calls
// with the same jti, at most one may return a valid result.
//
// A non-nil error means the store could not answer; callers fail closed.
type SingleUseStore interface {
	CheckAndMark(ctx context.Context, jti, route string, expiresAt time.Time) (CheckResult, error)
}

// CheckResult is the store's verdict for a single jti.
type CheckResult struct {
	Valid  bool
	Reason string
}

// Consumed is the result for a jti marked by this call.
func Consumed() CheckResult { return CheckResult{Valid: true} }

// Replayed is the result for a jti that was already marked.
func Replayed() CheckResult { return CheckResult{Reason: ReasonReplayed} }

// MemoryStore is a process-local SingleUseStore guarded by a mutex. It only
// gives single-use guarantees within one process, so use it for tests and
// local development.
type MemoryStore struct {
	mu   sync.Mutex
	used map[string]memoryEntry
}

type memoryEntry struct {
	route     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{used: make(map[string]memoryEntry)}
}

func (m *MemoryStore) CheckAndMark(ctx context.Context, jti, route string, expiresAt time.Time) (CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return CheckResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.used[jti]; ok {
		return Replayed(), nil
	}
	m.used[jti] = memoryEntry{route: route, expiresAt: expiresAt}
	return Consumed(), nil
}

// DeleteExpired drops entries whose token has expired and returns how many
// were removed. Expired tokens fail verification before reaching the store,
// so forgetting them is safe.
func (m *MemoryStore) DeleteExpired(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for jti, e := range m.used {
		if now.After(e.expiresAt) {
			delete(m.used, jti)
			n++
		}
	}
	return n
}

// Len returns the number of tracked identifiers.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.used)
}
