package heuristics

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
)

const (
	// DefaultSaltVersion is the active fingerprint salt version.
	DefaultSaltVersion = "v1"

	// AnonymousIdentifier stands in when a submission carries no contact.
	AnonymousIdentifier = "anonymous"

	fingerprintHexLen = 32
)

var ErrEmptySalt = errors.New("heuristics: fingerprint salt is empty")

// Fingerprinter derives rate-limit keys from client signals. Bumping the
// version makes every new fingerprint miss the old counters, which is how
// salts are rotated.
type Fingerprinter struct {
	salt    []byte
	version string
}

func NewFingerprinter(salt []byte, version string) (*Fingerprinter, error) {
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}
	if version == "" {
		version = DefaultSaltVersion
	}
	return &Fingerprinter{salt: append([]byte(nil), salt...), version: version}, nil
}

func (f *Fingerprinter) Version() string { return f.version }

// Generate fingerprints with the active version.
func (f *Fingerprinter) Generate(ip, userAgent, identifier string) string {
	return f.GenerateVersion(ip, userAgent, identifier, f.version)
}

// GenerateVersion returns the first 32 hex chars of
// SHA-256(version:salt:ip:userAgent:identifier).
func (f *Fingerprinter) GenerateVersion(ip, userAgent, identifier, version string) string {
	h := sha256.New()
	h.Write([]byte(version))
	h.Write([]byte{':'})
	h.Write(f.salt)
	h.Write([]byte(":" + ip + ":" + userAgent + ":" + identifier))
	return hex.EncodeToString(h.Sum(nil))[:fingerprintHexLen]
}

// Identifier picks the contact identifier for a submission: the lower-cased
// email, else the phone digits, else AnonymousIdentifier.
func Identifier(email, phone string) string {
	if e := strings.ToLower(strings.TrimSpace(email)); e != "" {
		return e
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if digits != "" {
		return digits
	}
	return AnonymousIdentifier
}
