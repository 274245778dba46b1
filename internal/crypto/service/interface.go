// Package service provides the cryptographic primitives of the envelope-encryption engine.
// Implements AES-256-GCM, Argon2id key derivation, X25519 key agreement and secret wrapping.
package service

import (
	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext‖tag and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt verifies and decrypts ciphertext‖tag using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AES-256-GCM cipher for a 32-byte key.
	CreateCipher(key []byte) (AEAD, error)
}

// RandomSource defines the interface for drawing key material from a CSPRNG.
// Implementations must be safe for concurrent use.
type RandomSource interface {
	// Nonce returns 12 fresh random bytes.
	Nonce() ([]byte, error)

	// Key returns 32 fresh random bytes.
	Key() ([]byte, error)
}

// KDF defines the interface for password-based key derivation.
type KDF interface {
	// DeriveKEK deterministically derives a 32-byte key-encryption key.
	DeriveKEK(password, salt string) ([]byte, error)
}

// KeyAgreement defines the interface for X25519 Diffie-Hellman.
type KeyAgreement interface {
	// GenerateKeyPair creates a fresh random key pair.
	GenerateKeyPair() (*cryptoDomain.KeyPair, error)

	// SharedSecret computes the 32-byte shared secret for privateKey and peerPublicKey.
	SharedSecret(privateKey, peerPublicKey []byte) ([]byte, error)
}

// KeyWrapper defines the interface for wrapping 32-byte secrets under a 32-byte KEK.
type KeyWrapper interface {
	// Wrap encrypts secret under kek with a fresh nonce.
	Wrap(role cryptoDomain.SecretRole, secret, kek []byte) (*cryptoDomain.WrappedSecret, error)

	// Unwrap validates sizes, then decrypts and returns the 32-byte secret.
	Unwrap(role cryptoDomain.SecretRole, wrapped *cryptoDomain.WrappedSecret, kek []byte) ([]byte, error)
}

// HashService provides integrity hashing of plaintext payloads.
type HashService interface {
	Hash(value []byte) string
}
