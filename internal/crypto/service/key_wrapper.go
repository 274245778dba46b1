package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// KeyWrapperService implements the KeyWrapper interface for envelope encryption.
//
// A single primitive protects every 32-byte secret in the scheme:
//   - master keys are wrapped under a password-derived KEK
//   - X25519 private keys are wrapped under a password-derived KEK
//   - per-file DEKs are wrapped under an X25519 shared secret
//
// The role only names the secret in error messages. Wrapped blobs are always
// 48 bytes (32 bytes of ciphertext followed by the 16-byte tag).
type KeyWrapperService struct {
	aeadManager AEADManager
}

// NewKeyWrapper creates a new KeyWrapperService instance with the provided AEADManager.
func NewKeyWrapper(aeadManager AEADManager) *KeyWrapperService {
	return &KeyWrapperService{
		aeadManager: aeadManager,
	}
}

// Wrap encrypts a 32-byte secret under kek with a fresh nonce.
//
// Returns a *LengthError if secret or kek is not 32 bytes.
func (kw *KeyWrapperService) Wrap(
	role cryptoDomain.SecretRole,
	secret, kek []byte,
) (*cryptoDomain.WrappedSecret, error) {
	if err := cryptoDomain.CheckLength(string(role), secret, cryptoDomain.KeySize); err != nil {
		return nil, err
	}
	if err := cryptoDomain.CheckLength("kek", kek, cryptoDomain.KeySize); err != nil {
		return nil, err
	}

	aead, err := kw.aeadManager.CreateCipher(kek)
	if err != nil {
		return nil, err
	}

	blob, nonce, err := aead.Encrypt(secret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap %s: %w", role, err)
	}

	return &cryptoDomain.WrappedSecret{Nonce: nonce, Blob: blob}, nil
}

// Unwrap validates sizes and decrypts a wrapped secret.
//
// Size checks run before any cryptographic work, in the order nonce, blob, kek.
// A tag mismatch returns ErrAuthenticationFailed. A decrypted value that is not
// 32 bytes is zeroed and rejected with ErrDerivedSecretSize.
func (kw *KeyWrapperService) Unwrap(
	role cryptoDomain.SecretRole,
	wrapped *cryptoDomain.WrappedSecret,
	kek []byte,
) ([]byte, error) {
	if wrapped == nil {
		wrapped = &cryptoDomain.WrappedSecret{}
	}
	if err := cryptoDomain.CheckLength(fmt.Sprintf("%s_nonce", role), wrapped.Nonce, cryptoDomain.NonceSize); err != nil {
		return nil, err
	}
	if err := cryptoDomain.CheckLength(fmt.Sprintf("wrapped_%s", role), wrapped.Blob, cryptoDomain.WrappedSecretSize); err != nil {
		return nil, err
	}
	if err := cryptoDomain.CheckLength("kek", kek, cryptoDomain.KeySize); err != nil {
		return nil, err
	}

	aead, err := kw.aeadManager.CreateCipher(kek)
	if err != nil {
		return nil, err
	}

	secret, err := aead.Decrypt(wrapped.Blob, wrapped.Nonce, nil)
	if err != nil {
		return nil, err
	}

	if len(secret) != cryptoDomain.KeySize {
		cryptoDomain.Zero(secret)
		return nil, cryptoDomain.ErrDerivedSecretSize
	}

	return secret, nil
}
