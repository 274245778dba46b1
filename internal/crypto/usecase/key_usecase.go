package usecase

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
	cryptoService "github.com/allisson/envelope/internal/crypto/service"
)

// keyUseCase implements the KeyUseCase interface.
//
// Every derived KEK is zeroed as soon as the wrap or unwrap that needed it returns.
type keyUseCase struct {
	kdf          cryptoService.KDF
	keyWrapper   cryptoService.KeyWrapper
	keyAgreement cryptoService.KeyAgreement
	random       cryptoService.RandomSource
	observer     cryptoDomain.Observer
}

// NewKeyUseCase creates a new KeyUseCase. A nil observer discards status messages.
func NewKeyUseCase(
	kdf cryptoService.KDF,
	keyWrapper cryptoService.KeyWrapper,
	keyAgreement cryptoService.KeyAgreement,
	random cryptoService.RandomSource,
	observer cryptoDomain.Observer,
) KeyUseCase {
	if observer == nil {
		observer = cryptoDomain.NopObserver{}
	}
	return &keyUseCase{
		kdf:          kdf,
		keyWrapper:   keyWrapper,
		keyAgreement: keyAgreement,
		random:       random,
		observer:     observer,
	}
}

// DeriveKEK derives the key-encryption key for password and salt.
func (k *keyUseCase) DeriveKEK(ctx context.Context, password, salt string) ([]byte, error) {
	k.observer.Observe(ctx, "deriving key-encryption key")
	return k.kdf.DeriveKEK(password, salt)
}

// GenerateMasterKey creates and wraps a fresh master key.
func (k *keyUseCase) GenerateMasterKey(
	ctx context.Context,
	password, salt string,
) (*cryptoDomain.WrappedSecret, error) {
	masterKey, err := k.random.Key()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(masterKey)

	k.observer.Observe(ctx, "generated master key")
	return k.wrap(ctx, cryptoDomain.RoleMasterKey, masterKey, password, salt)
}

// GenerateKeyPair creates a fresh X25519 pair and wraps its private key.
func (k *keyUseCase) GenerateKeyPair(
	ctx context.Context,
	password, salt string,
) (*cryptoDomain.WrappedKeyPair, error) {
	keyPair, err := k.keyAgreement.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	defer keyPair.Zero()

	k.observer.Observe(ctx, "generated key pair")
	wrapped, err := k.wrap(ctx, cryptoDomain.RolePrivateKey, keyPair.PrivateKey, password, salt)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.WrappedKeyPair{
		PublicKey:         keyPair.PublicKey,
		WrappedPrivateKey: wrapped,
	}, nil
}

// UnwrapSecret validates sizes, re-derives the KEK and unwraps the secret.
func (k *keyUseCase) UnwrapSecret(
	ctx context.Context,
	role cryptoDomain.SecretRole,
	password, salt string,
	wrapped *cryptoDomain.WrappedSecret,
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

	kek, err := k.DeriveKEK(ctx, password, salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(kek)

	k.observer.Observe(ctx, fmt.Sprintf("unwrapping %s", role))
	return k.keyWrapper.Unwrap(role, wrapped, kek)
}

func (k *keyUseCase) wrap(
	ctx context.Context,
	role cryptoDomain.SecretRole,
	secret []byte,
	password, salt string,
) (*cryptoDomain.WrappedSecret, error) {
	kek, err := k.DeriveKEK(ctx, password, salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(kek)

	k.observer.Observe(ctx, fmt.Sprintf("wrapping %s", role))
	return k.keyWrapper.Wrap(role, secret, kek)
}
