// Package usecase defines the business logic interfaces for envelope-encryption operations.
//
// Use cases compose the primitives from the service package into the key hierarchy:
// password -> KEK -> master key or X25519 private key, and private key + ephemeral public
// key -> shared secret -> DEK -> file.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// KeyUseCase defines the interface for password-rooted key lifecycle operations.
type KeyUseCase interface {
	// DeriveKEK derives the 32-byte key-encryption key for password and salt.
	// The caller owns the returned key and must zero it.
	DeriveKEK(ctx context.Context, password, salt string) ([]byte, error)

	// GenerateMasterKey creates a random 32-byte master key and wraps it under the KEK
	// derived from password and salt. The plaintext master key is never returned.
	GenerateMasterKey(ctx context.Context, password, salt string) (*cryptoDomain.WrappedSecret, error)

	// GenerateKeyPair creates a random X25519 key pair and wraps its private key under
	// the KEK derived from password and salt.
	GenerateKeyPair(ctx context.Context, password, salt string) (*cryptoDomain.WrappedKeyPair, error)

	// UnwrapSecret re-derives the KEK and decrypts a wrapped 32-byte secret.
	//
	// The nonce and blob sizes are validated before the KDF runs. The caller owns the
	// returned secret and must zero it.
	UnwrapSecret(
		ctx context.Context,
		role cryptoDomain.SecretRole,
		password, salt string,
		wrapped *cryptoDomain.WrappedSecret,
	) ([]byte, error)
}

// FileUseCase defines the interface for file payload encryption.
type FileUseCase interface {
	// Encrypt encrypts plaintext under a 32-byte master key or DEK with a fresh nonce.
	Encrypt(ctx context.Context, plaintext, key []byte) (*cryptoDomain.EncryptedFile, error)

	// Decrypt validates key and nonce sizes, then decrypts and hashes the plaintext.
	Decrypt(ctx context.Context, ciphertext, key, nonce []byte) (*cryptoDomain.DecryptedFile, error)

	// EncryptWithWrappedMasterKey unwraps the master key from password and salt and
	// then encrypts plaintext under it.
	EncryptWithWrappedMasterKey(
		ctx context.Context,
		plaintext []byte,
		password, salt string,
		wrappedMasterKey *cryptoDomain.WrappedSecret,
	) (*cryptoDomain.EncryptedFile, error)

	// DecryptWithWrappedMasterKey checks the nonce size, unwraps the master key from
	// password and salt and then decrypts ciphertext under it. The master key never
	// leaves the use case.
	DecryptWithWrappedMasterKey(
		ctx context.Context,
		ciphertext, nonce []byte,
		password, salt string,
		wrappedMasterKey *cryptoDomain.WrappedSecret,
	) (*cryptoDomain.DecryptedFile, error)

	// HybridEncrypt encrypts plaintext under a fresh DEK wrapped for recipientPublicKey.
	HybridEncrypt(ctx context.Context, plaintext, recipientPublicKey []byte) (*cryptoDomain.HybridEncryptedFile, error)

	// HybridDecrypt runs the four recipient stages in order and stops at the first failure.
	// Every failure is a *StageError naming the stage.
	HybridDecrypt(ctx context.Context, input *cryptoDomain.HybridDecryptInput) (*cryptoDomain.DecryptedFile, error)

	// Hash returns the lowercase hex SHA-256 of data.
	Hash(data []byte) string
}
