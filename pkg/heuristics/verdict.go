package heuristics

// Action is what the caller should do with a submission.
type Action string

const (
	ActionAllow     Action = "allow"
	ActionDefer     Action = "defer"
	ActionChallenge Action = "challenge"
)

// Reason explains a non-allow verdict.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonHighFrequency   Reason = "high_frequency"
	ReasonBurstDetected   Reason = "burst_detected"
	ReasonLowEntropy      Reason = "low_entropy"
	ReasonMultipleURLs    Reason = "multiple_urls"
	ReasonDisposableEmail Reason = "disposable_email"
)

// Trigger is the result of a content check.
type Trigger struct {
	Trigger bool   `json:"trigger"`
	Reason  Reason `json:"reason,omitempty"`
}

// Verdict is the classification for one submission.
type Verdict struct {
	Action Action `json:"action"`
	Reason Reason `json:"reason,omitempty"`
}

func Allow() Verdict { return Verdict{Action: ActionAllow} }

// Combine merges the rate decision with the content trigger. A rate
// decision other than allow wins; otherwise a content trigger becomes a
// challenge.
func Combine(rate Verdict, content Trigger) Verdict {
	if rate.Action != ActionAllow && rate.Action != "" {
		return rate
	}
	if content.Trigger {
		return Verdict{Action: ActionChallenge, Reason: content.Reason}
	}
	return Allow()
}
