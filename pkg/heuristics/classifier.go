package heuristics

import "time"

// Classifier applies Thresholds to submissions. It holds no mutable state
// once built.
type Classifier struct {
	thresholds Thresholds
	disposable map[string]struct{}
}

func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{
		thresholds: t,
		disposable: newDomainSet(t.DisposableDomains),
	}
}

func (c *Classifier) Thresholds() Thresholds { return c.thresholds }

// Counter is the observed submission history for one fingerprint.
type Counter struct {
	Count     int
	FirstSeen time.Time
	LastSeen  time.Time
}

// EvaluateSubmissionRate decides from the prior counter for a fingerprint.
// A nil counter means no prior submissions. The high frequency check runs
// first so it wins when both apply.
func (c *Classifier) EvaluateSubmissionRate(counter *Counter, now time.Time) Verdict {
	if counter == nil {
		return Allow()
	}

	window := now.Sub(counter.FirstSeen)
	t := c.thresholds

	if counter.Count >= t.HighFrequencyCount && window <= t.HighFrequencyWindow {
		return Verdict{Action: ActionChallenge, Reason: ReasonHighFrequency}
	}
	if counter.Count >= t.BurstCount && window <= t.BurstWindow {
		return Verdict{Action: ActionDefer, Reason: ReasonBurstDetected}
	}
	return Allow()
}

// Classify runs the rate check followed by the content checks.
func (c *Classifier) Classify(counter *Counter, p Payload, now time.Time) Verdict {
	return Combine(c.EvaluateSubmissionRate(counter, now), c.ShouldTriggerChallenge(p))
}
