package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer([]byte("master-key-material"))
	require.NoError(t, err)

	plaintext := []byte("JBSWY3DPEHPK3PXP")
	sealed, err := s.Seal(plaintext)
	require.NoError(t, err)
	require.NotContains(t, string(sealed), string(plaintext))

	// Nonce is random per call
	sealed2, err := s.Seal(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, sealed, sealed2)

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestSealer_Tampered(t *testing.T) {
	s, err := NewSealer([]byte("master-key-material"))
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("secret"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = s.Open(sealed)
	require.Error(t, err)
}

func TestSealer_WrongKey(t *testing.T) {
	a, err := NewSealer([]byte("key-a"))
	require.NoError(t, err)
	b, err := NewSealer([]byte("key-b"))
	require.NoError(t, err)

	sealed, err := a.Seal([]byte("secret"))
	require.NoError(t, err)

	_, err = b.Open(sealed)
	require.Error(t, err)
}

func TestSealer_Invalid(t *testing.T) {
	_, err := NewSealer(nil)
	require.Error(t, err)

	s, err := NewSealer([]byte("k"))
	require.NoError(t, err)
	_, err = s.Open([]byte("short"))
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}
