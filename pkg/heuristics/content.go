package heuristics

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field names the content checks read.
const (
	FieldDamageDescription = "damageDescription"
	FieldNotes             = "notes"
	FieldEmail             = "email"
	FieldPhone             = "phone"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Payload is a submitted form. Values are whatever the JSON decoder
// produced; only string values are inspected.
type Payload map[string]any

// String returns the trimmed string value for key, or "" when absent or
// not a string.
func (p Payload) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case fmt.Stringer:
		return strings.TrimSpace(s.String())
	default:
		return ""
	}
}

// FreeText is the damage description, falling back to notes.
func (p Payload) FreeText() string {
	if s := p.String(FieldDamageDescription); s != "" {
		return s
	}
	return p.String(FieldNotes)
}

// contentCheck is one ordered content heuristic; the first match wins.
type contentCheck struct {
	reason Reason
	match  func(c *Classifier, p Payload) bool
}

var contentChecks = []contentCheck{
	{reason: ReasonLowEntropy, match: func(c *Classifier, p Payload) bool {
		text := p.FreeText()
		return utf8.RuneCountInString(text) > c.thresholds.MinEntropyLength &&
			ShannonEntropy(text) < c.thresholds.MinEntropy
	}},
	{reason: ReasonMultipleURLs, match: func(c *Classifier, p Payload) bool {
		return CountURLs(p.FreeText()) > c.thresholds.MaxURLs
	}},
	{reason: ReasonDisposableEmail, match: func(c *Classifier, p Payload) bool {
		email := p.String(FieldEmail)
		return email != "" && c.IsDisposable(email)
	}},
}

// ShouldTriggerChallenge runs the content checks in order and reports the
// first that matches. It is pure and safe for concurrent use.
func (c *Classifier) ShouldTriggerChallenge(p Payload) Trigger {
	for _, check := range contentChecks {
		if check.match(c, p) {
			return Trigger{Trigger: true, Reason: check.reason}
		}
	}
	return Trigger{}
}

// ShannonEntropy returns the entropy of the character distribution of s in
// bits per character. Empty text has zero entropy.
func ShannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}

	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}

	var h float64
	n := float64(total)
	for _, count := range freq {
		p := float64(count) / n
		h -= p * math.Log2(p)
	}
	return h
}

// CountURLs counts http and https URLs in s.
func CountURLs(s string) int {
	return len(urlPattern.FindAllStringIndex(s, -1))
}

// EmailDomain returns the lower-cased domain of an address, or "" if there
// is none.
func EmailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}
