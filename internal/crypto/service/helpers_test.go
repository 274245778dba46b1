package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// fastKDFParams keeps Argon2id cheap for tests that do not check the production cost.
var fastKDFParams = cryptoDomain.KDFParams{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
	KeyLength:   cryptoDomain.KeySize,
}

func newTestKDF(t *testing.T, params cryptoDomain.KDFParams, pepper []byte) *Argon2idKDF {
	t.Helper()
	kdf, err := NewArgon2idKDF(params, pepper)
	require.NoError(t, err)
	return kdf
}

func mustKey(t *testing.T) []byte {
	t.Helper()
	key, err := NewRandomSource().Key()
	require.NoError(t, err)
	return key
}

// failingReader always returns err.
type failingReader struct {
	err error
}

func (r failingReader) Read(p []byte) (int, error) {
	return 0, r.err
}

func newFailingRandomSource() RandomSource {
	return NewRandomSourceFromReader(failingReader{err: errors.New("entropy exhausted")})
}

// repeatingReader yields the same byte forever.
func newRepeatingRandomSource(b byte) RandomSource {
	return NewRandomSourceFromReader(bytesRepeater(b))
}

type bytesRepeater byte

func (r bytesRepeater) Read(p []byte) (int, error) {
	copy(p, bytes.Repeat([]byte{byte(r)}, len(p)))
	return len(p), nil
}
