package formtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTL is how long a form token stays valid after issuance.
	DefaultTTL = 30 * time.Minute

	// Delimiter separates the fields of the encoded token.
	Delimiter = ":"

	// NoPayload is the payload hash sentinel used when no fields are bound.
	NoPayload = "none"

	// UnknownUserAgent replaces a missing User-Agent header.
	UnknownUserAgent = "unknown"

	userAgentPrefixLen = 50
	payloadHashLen     = 16
	jtiBytes           = 16
	fieldCount         = 6

	// Tokens stamped further than this into the future are treated as expired.
	maxClockSkew = time.Minute
)

// Verification failure reasons. These are for logs and metrics only and
// should never be echoed back to the submitting client.
const (
	ReasonInvalidFormat    = "invalid_format"
	ReasonInvalidSignature = "invalid_signature"
	ReasonExpired          = "expired"
	ReasonRouteMismatch    = "route_mismatch"
	ReasonPayloadMismatch  = "payload_mismatch"
	ReasonReplayed         = "replayed"
	ReasonNotFound         = "not_found"
	ReasonJTICheckError    = "jti_check_error"
)

var (
	ErrEmptySecret  = errors.New("formtoken: signing secret is empty")
	ErrEmptyRoute   = errors.New("formtoken: route is empty")
	ErrInvalidRoute = errors.New("formtoken: route must not contain the delimiter")
	ErrMalformed    = errors.New("formtoken: malformed token")
)

// Fields is the subset of form fields a token can be bound to. Only
// identity-bearing fields (contact details) should be bound, not the whole
// form.
type Fields map[string]string

// Token is the decoded form of an integrity token.
type Token struct {
	IssuedAt    time.Time
	Route       string
	UserAgent   string // truncated prefix, see UserAgentPrefix
	PayloadHash string
	JTI         string
	Signature   string // hex HMAC-SHA256 over the other fields
}

// signingInput is the delimited string the signature covers.
func (t Token) signingInput() string {
	return strings.Join([]string{
		strconv.FormatInt(t.IssuedAt.UnixMilli(), 10),
		t.Route,
		t.UserAgent,
		t.PayloadHash,
		t.JTI,
	}, Delimiter)
}

// String encodes the token into its external representation.
func (t Token) String() string {
	return t.signingInput() + Delimiter + t.Signature
}

// HasPayload reports whether the token was bound to a set of fields.
func (t Token) HasPayload() bool {
	return t.PayloadHash != "" && t.PayloadHash != NoPayload
}

// Parse splits a raw token into its fields. It does not check the signature.
func Parse(raw string) (Token, error) {
	parts := strings.Split(strings.TrimSpace(raw), Delimiter)
	if len(parts) != fieldCount {
		return Token{}, ErrMalformed
	}

	ms, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || ms <= 0 {
		return Token{}, ErrMalformed
	}

	for _, p := range parts[1:] {
		if p == "" {
			return Token{}, ErrMalformed
		}
	}

	return Token{
		IssuedAt:    time.UnixMilli(ms).UTC(),
		Route:       parts[1],
		UserAgent:   parts[2],
		PayloadHash: parts[3],
		JTI:         parts[4],
		Signature:   parts[5],
	}, nil
}

// UserAgentPrefix normalises a User-Agent header into the value embedded in
// tokens. The delimiter is replaced so the field count stays fixed.
func UserAgentPrefix(ua string) string {
	ua = strings.TrimSpace(ua)
	if ua == "" {
		return UnknownUserAgent
	}
	if len(ua) > userAgentPrefixLen {
		ua = ua[:userAgentPrefixLen]
	}
	return strings.ReplaceAll(ua, Delimiter, "_")
}

// HashFields canonicalises fields as sorted key=value pairs joined by '&'
// and returns the first 16 hex characters of their SHA-256 digest. Empty
// values are skipped. Returns NoPayload when nothing is left to hash.
func HashFields(fields Fields) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if strings.TrimSpace(v) == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return NoPayload
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + fields[k]
	}

	sum := sha256.Sum256([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(sum[:])[:payloadHashLen]
}

func sign(secret []byte, input string) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(input))
	return hex.EncodeToString(mac.Sum(nil))
}

// signatureMatches compares against the lowercase hex encoding in constant
// time, so a signature with a case-changed digit does not match.
func signatureMatches(secret []byte, input, signature string) bool {
	return hmac.Equal([]byte(sign(secret, input)), []byte(signature))
}
