// Package heuristics classifies form submissions from content and frequency
// signals alone. Nothing in here performs I/O apart from loading a
// thresholds file.
package heuristics

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidThresholds = errors.New("heuristics: invalid thresholds")

// Thresholds tunes the classifier. The defaults are carried over from the
// production site and have no documented derivation; treat them as starting
// points.
type Thresholds struct {
	// MinEntropy is the Shannon entropy in bits per character below which
	// free text counts as templated.
	MinEntropy float64 `yaml:"min_entropy"`
	// MinEntropyLength is the text length (in characters) the entropy check
	// needs to exceed before it applies.
	MinEntropyLength int `yaml:"min_entropy_length"`
	// MaxURLs is the largest URL count free text may carry.
	MaxURLs int `yaml:"max_urls"`

	HighFrequencyCount  int           `yaml:"high_frequency_count"`
	HighFrequencyWindow time.Duration `yaml:"high_frequency_window"`
	BurstCount          int           `yaml:"burst_count"`
	BurstWindow         time.Duration `yaml:"burst_window"`

	// DisposableDomains are added to the built-in list.
	DisposableDomains []string `yaml:"disposable_domains"`
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinEntropy:          2.5,
		MinEntropyLength:    20,
		MaxURLs:             2,
		HighFrequencyCount:  5,
		HighFrequencyWindow: 15 * time.Minute,
		BurstCount:          10,
		BurstWindow:         60 * time.Minute,
	}
}

// LoadThresholds reads a YAML file over the defaults, so a file only needs
// the keys it changes. Durations use Go syntax ("15m").
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("heuristics: read thresholds: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("heuristics: parse thresholds %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Thresholds) Validate() error {
	var problems []string
	if t.MinEntropy < 0 {
		problems = append(problems, "min_entropy must not be negative")
	}
	if t.MinEntropyLength < 0 {
		problems = append(problems, "min_entropy_length must not be negative")
	}
	if t.MaxURLs < 0 {
		problems = append(problems, "max_urls must not be negative")
	}
	if t.HighFrequencyCount <= 0 || t.HighFrequencyWindow <= 0 {
		problems = append(problems, "high frequency count and window must be positive")
	}
	if t.BurstCount <= 0 || t.BurstWindow <= 0 {
		problems = append(problems, "burst count and window must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidThresholds, strings.Join(problems, "; "))
	}
	return nil
}
