package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinHMACKeySize is the shortest HS256 key accepted (256 bits).
const MinHMACKeySize = 32

var ErrWeakKey = errors.New("jwtx: HMAC key too short")

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer signs session tokens with a shared HMAC key. Sessions are
// only ever verified by the service that issued them, so there is no
// public key to publish.
type HS256Signer struct {
	key []byte
}

func NewSignerHS256(key []byte) (*HS256Signer, error) {
	if len(key) < MinHMACKeySize {
		return nil, ErrWeakKey
	}
	return &HS256Signer{key: append([]byte(nil), key...)}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}
