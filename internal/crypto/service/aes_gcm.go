package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM
// (Advanced Encryption Standard with Galois/Counter Mode).
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce (96 bits), drawn from the RandomSource for every encryption
//   - 16-byte authentication tag, appended to the ciphertext
//
// Thread safety:
//
//	The cipher instance is stateless and safe for concurrent use from multiple
//	goroutines as long as its RandomSource is.
//
// Example usage:
//
//	cipher, err := NewAESGCM(key, NewRandomSource())
//	if err != nil {
//	    return err
//	}
//	ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
//	plaintext, err := cipher.Decrypt(ciphertext, nonce, nil)
type AESGCMCipher struct {
	aead   cipher.AEAD
	random RandomSource
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes. Any other length returns a *LengthError
// and the key is never padded or truncated.
func NewAESGCM(key []byte, random RandomSource) (*AESGCMCipher, error) {
	if err := cryptoDomain.CheckLength("key", key, cryptoDomain.KeySize); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead, random: random}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with optional additional authenticated data.
//
// A fresh 12-byte nonce is drawn for every call; nonces are never derived, counted or
// cached. The returned ciphertext has the 16-byte tag appended. Empty plaintext is
// valid and produces the tag alone.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce, err = a.random.Nonce()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt decrypts ciphertext using AES-256-GCM with the provided nonce and AAD.
//
// A nonce that is not 12 bytes returns a *LengthError without touching the cipher.
// Any tag verification failure returns ErrAuthenticationFailed; wrong key, wrong
// nonce and modified ciphertext are deliberately indistinguishable.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if err := cryptoDomain.CheckLength("nonce", nonce, a.aead.NonceSize()); err != nil {
		return nil, err
	}

	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
