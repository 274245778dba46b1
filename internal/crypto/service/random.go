package service

import (
	"crypto/rand"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// randomSource draws nonces and keys from an io.Reader, crypto/rand.Reader by default.
type randomSource struct {
	reader io.Reader
}

// NewRandomSource creates a RandomSource backed by crypto/rand.
func NewRandomSource() RandomSource {
	return &randomSource{reader: rand.Reader}
}

// NewRandomSourceFromReader creates a RandomSource backed by r.
// r must be cryptographically secure and safe for concurrent use.
func NewRandomSourceFromReader(r io.Reader) RandomSource {
	return &randomSource{reader: r}
}

// Nonce returns a fresh 12-byte nonce.
func (r *randomSource) Nonce() ([]byte, error) {
	return r.read(cryptoDomain.NonceSize)
}

// Key returns a fresh 32-byte key.
func (r *randomSource) Key() ([]byte, error) {
	return r.read(cryptoDomain.KeySize)
}

func (r *randomSource) read(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.reader, b); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrRandomSource, err)
	}
	return b, nil
}
