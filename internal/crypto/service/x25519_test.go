package service

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestX25519Service_RFC7748Vector(t *testing.T) {
	x := NewX25519(NewRandomSource())

	alicePriv := mustDecodeHex(t, "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a")
	alicePub := mustDecodeHex(t, "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a")
	bobPriv := mustDecodeHex(t, "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb")
	bobPub := mustDecodeHex(t, "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f")
	shared := mustDecodeHex(t, "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742")

	s1, err := x.SharedSecret(alicePriv, bobPub)
	require.NoError(t, err)
	assert.Equal(t, shared, s1)

	s2, err := x.SharedSecret(bobPriv, alicePub)
	require.NoError(t, err)
	assert.Equal(t, shared, s2)
}

func TestX25519Service_GenerateKeyPair(t *testing.T) {
	x := NewX25519(NewRandomSource())

	t.Run("agreement is symmetric", func(t *testing.T) {
		a, err := x.GenerateKeyPair()
		require.NoError(t, err)
		b, err := x.GenerateKeyPair()
		require.NoError(t, err)

		assert.Len(t, a.PrivateKey, cryptoDomain.KeySize)
		assert.Len(t, a.PublicKey, cryptoDomain.KeySize)
		assert.NotEqual(t, a.PublicKey, b.PublicKey)

		ab, err := x.SharedSecret(a.PrivateKey, b.PublicKey)
		require.NoError(t, err)
		ba, err := x.SharedSecret(b.PrivateKey, a.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	})

	t.Run("random failure", func(t *testing.T) {
		_, err := NewX25519(newFailingRandomSource()).GenerateKeyPair()
		assert.ErrorIs(t, err, cryptoDomain.ErrRandomSource)
	})
}

func TestX25519Service_SharedSecret_Failures(t *testing.T) {
	x := NewX25519(NewRandomSource())
	priv := mustKey(t)

	t.Run("short private key", func(t *testing.T) {
		_, err := x.SharedSecret(make([]byte, 31), make([]byte, 32))
		var lengthErr *cryptoDomain.LengthError
		require.ErrorAs(t, err, &lengthErr)
		assert.Equal(t, "private_key", lengthErr.Field)
	})

	t.Run("long public key", func(t *testing.T) {
		_, err := x.SharedSecret(priv, make([]byte, 33))
		var lengthErr *cryptoDomain.LengthError
		require.ErrorAs(t, err, &lengthErr)
		assert.Equal(t, "public_key", lengthErr.Field)
	})

	t.Run("all-zero public key", func(t *testing.T) {
		_, err := x.SharedSecret(priv, make([]byte, 32))
		assert.ErrorIs(t, err, cryptoDomain.ErrLowOrderPoint)
		assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
	})
}
