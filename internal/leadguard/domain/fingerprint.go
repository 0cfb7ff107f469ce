package domain

import (
	"time"

	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
)

// Fingerprint is the submission counter for one hashed client identity.
// Count only grows while the observation window is open; once it lapses the
// next submission restarts the window at 1.
type Fingerprint struct {
	Hash      string
	Count     int
	FirstSeen time.Time
	LastSeen  time.Time
}

// Counter converts the record into the classifier's input.
func (f Fingerprint) Counter() *heuristics.Counter {
	return &heuristics.Counter{Count: f.Count, FirstSeen: f.FirstSeen, LastSeen: f.LastSeen}
}
