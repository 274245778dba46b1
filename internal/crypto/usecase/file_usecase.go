package usecase

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
	cryptoService "github.com/allisson/envelope/internal/crypto/service"
)

// fileUseCase implements the FileUseCase interface.
type fileUseCase struct {
	keyUseCase   KeyUseCase
	aeadManager  cryptoService.AEADManager
	keyWrapper   cryptoService.KeyWrapper
	keyAgreement cryptoService.KeyAgreement
	random       cryptoService.RandomSource
	hashService  cryptoService.HashService
	observer     cryptoDomain.Observer
}

// NewFileUseCase creates a new FileUseCase. A nil observer discards status messages.
func NewFileUseCase(
	keyUseCase KeyUseCase,
	aeadManager cryptoService.AEADManager,
	keyWrapper cryptoService.KeyWrapper,
	keyAgreement cryptoService.KeyAgreement,
	random cryptoService.RandomSource,
	hashService cryptoService.HashService,
	observer cryptoDomain.Observer,
) FileUseCase {
	if observer == nil {
		observer = cryptoDomain.NopObserver{}
	}
	return &fileUseCase{
		keyUseCase:   keyUseCase,
		aeadManager:  aeadManager,
		keyWrapper:   keyWrapper,
		keyAgreement: keyAgreement,
		random:       random,
		hashService:  hashService,
		observer:     observer,
	}
}

// Encrypt encrypts plaintext under key. Empty plaintext yields a 16-byte ciphertext.
func (f *fileUseCase) Encrypt(ctx context.Context, plaintext, key []byte) (*cryptoDomain.EncryptedFile, error) {
	aead, err := f.aeadManager.CreateCipher(key)
	if err != nil {
		return nil, err
	}

	f.observer.Observe(ctx, "encrypting file")
	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.EncryptedFile{
		Nonce:         nonce,
		Ciphertext:    ciphertext,
		PlaintextHash: f.hashService.Hash(plaintext),
	}, nil
}

// Decrypt validates the key and then the nonce before decrypting.
func (f *fileUseCase) Decrypt(
	ctx context.Context,
	ciphertext, key, nonce []byte,
) (*cryptoDomain.DecryptedFile, error) {
	if err := cryptoDomain.CheckLength("key", key, cryptoDomain.KeySize); err != nil {
		return nil, err
	}
	if err := cryptoDomain.CheckLength("nonce", nonce, cryptoDomain.NonceSize); err != nil {
		return nil, err
	}

	aead, err := f.aeadManager.CreateCipher(key)
	if err != nil {
		return nil, err
	}

	f.observer.Observe(ctx, "decrypting file")
	plaintext, err := aead.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.DecryptedFile{
		Plaintext:     plaintext,
		PlaintextHash: f.hashService.Hash(plaintext),
	}, nil
}

// EncryptWithWrappedMasterKey unwraps the master key and encrypts under it.
func (f *fileUseCase) EncryptWithWrappedMasterKey(
	ctx context.Context,
	plaintext []byte,
	password, salt string,
	wrappedMasterKey *cryptoDomain.WrappedSecret,
) (*cryptoDomain.EncryptedFile, error) {
	masterKey, err := f.keyUseCase.UnwrapSecret(ctx, cryptoDomain.RoleMasterKey, password, salt, wrappedMasterKey)
	if err != nil {
		return nil, fmt.Errorf("master key decryption failed: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	return f.Encrypt(ctx, plaintext, masterKey)
}

// DecryptWithWrappedMasterKey unwraps the master key and decrypts under it.
//
// The file nonce is size-checked before the KDF runs.
func (f *fileUseCase) DecryptWithWrappedMasterKey(
	ctx context.Context,
	ciphertext, nonce []byte,
	password, salt string,
	wrappedMasterKey *cryptoDomain.WrappedSecret,
) (*cryptoDomain.DecryptedFile, error) {
	if err := cryptoDomain.CheckLength("nonce", nonce, cryptoDomain.NonceSize); err != nil {
		return nil, err
	}

	masterKey, err := f.keyUseCase.UnwrapSecret(ctx, cryptoDomain.RoleMasterKey, password, salt, wrappedMasterKey)
	if err != nil {
		return nil, fmt.Errorf("master key decryption failed: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	return f.Decrypt(ctx, ciphertext, masterKey, nonce)
}

// HybridEncrypt generates a single-use DEK and ephemeral key pair for the recipient.
//
// The DEK and the ephemeral private key are zeroed before returning.
func (f *fileUseCase) HybridEncrypt(
	ctx context.Context,
	plaintext, recipientPublicKey []byte,
) (*cryptoDomain.HybridEncryptedFile, error) {
	if err := cryptoDomain.CheckLength("public_key", recipientPublicKey, cryptoDomain.KeySize); err != nil {
		return nil, err
	}

	dek, err := f.random.Key()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dek)

	ephemeral, err := f.keyAgreement.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	defer ephemeral.Zero()

	f.observer.Observe(ctx, "deriving shared secret")
	shared, err := f.keyAgreement.SharedSecret(ephemeral.PrivateKey, recipientPublicKey)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(shared)

	f.observer.Observe(ctx, "wrapping dek")
	wrappedDEK, err := f.keyWrapper.Wrap(cryptoDomain.RoleDEK, dek, shared)
	if err != nil {
		return nil, err
	}

	file, err := f.Encrypt(ctx, plaintext, dek)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.HybridEncryptedFile{
		EphemeralPublicKey: ephemeral.PublicKey,
		WrappedDEK:         wrappedDEK,
		File:               file,
	}, nil
}

// HybridDecrypt runs unwrap_private_key, derive_shared_secret, unwrap_dek and decrypt_file.
func (f *fileUseCase) HybridDecrypt(
	ctx context.Context,
	input *cryptoDomain.HybridDecryptInput,
) (*cryptoDomain.DecryptedFile, error) {
	if input == nil {
		input = &cryptoDomain.HybridDecryptInput{}
	}
	if err := checkHybridSizes(input); err != nil {
		return nil, err
	}

	privateKey, err := f.keyUseCase.UnwrapSecret(
		ctx,
		cryptoDomain.RolePrivateKey,
		input.Password,
		input.Salt,
		input.WrappedPrivateKey,
	)
	if err != nil {
		return nil, &cryptoDomain.StageError{Stage: cryptoDomain.StageUnwrapPrivateKey, Err: err}
	}
	defer cryptoDomain.Zero(privateKey)

	f.observer.Observe(ctx, "deriving shared secret")
	shared, err := f.keyAgreement.SharedSecret(privateKey, input.EphemeralPublicKey)
	if err != nil {
		return nil, &cryptoDomain.StageError{Stage: cryptoDomain.StageDeriveSharedSecret, Err: err}
	}
	defer cryptoDomain.Zero(shared)

	f.observer.Observe(ctx, "unwrapping dek")
	dek, err := f.keyWrapper.Unwrap(cryptoDomain.RoleDEK, input.WrappedDEK, shared)
	if err != nil {
		return nil, &cryptoDomain.StageError{Stage: cryptoDomain.StageUnwrapDEK, Err: err}
	}
	defer cryptoDomain.Zero(dek)

	decrypted, err := f.Decrypt(ctx, input.Ciphertext, dek, input.FileNonce)
	if err != nil {
		return nil, &cryptoDomain.StageError{Stage: cryptoDomain.StageDecryptFile, Err: err}
	}
	return decrypted, nil
}

// checkHybridSizes gates every fixed-size field before the KDF runs.
// Each failure is attributed to the stage that consumes the field.
func checkHybridSizes(input *cryptoDomain.HybridDecryptInput) error {
	privateKey := wrappedOrEmpty(input.WrappedPrivateKey)
	dek := wrappedOrEmpty(input.WrappedDEK)

	checks := []struct {
		stage cryptoDomain.Stage
		field string
		value []byte
		size  int
	}{
		{cryptoDomain.StageUnwrapPrivateKey, "private_key_nonce", privateKey.Nonce, cryptoDomain.NonceSize},
		{cryptoDomain.StageUnwrapPrivateKey, "wrapped_private_key", privateKey.Blob, cryptoDomain.WrappedSecretSize},
		{cryptoDomain.StageDeriveSharedSecret, "ephemeral_public_key", input.EphemeralPublicKey, cryptoDomain.KeySize},
		{cryptoDomain.StageUnwrapDEK, "dek_nonce", dek.Nonce, cryptoDomain.NonceSize},
		{cryptoDomain.StageUnwrapDEK, "wrapped_dek", dek.Blob, cryptoDomain.WrappedSecretSize},
		{cryptoDomain.StageDecryptFile, "file_nonce", input.FileNonce, cryptoDomain.NonceSize},
	}
	for _, c := range checks {
		if err := cryptoDomain.CheckLength(c.field, c.value, c.size); err != nil {
			return &cryptoDomain.StageError{Stage: c.stage, Err: err}
		}
	}
	return nil
}

func wrappedOrEmpty(w *cryptoDomain.WrappedSecret) *cryptoDomain.WrappedSecret {
	if w == nil {
		return &cryptoDomain.WrappedSecret{}
	}
	return w
}

// Hash returns the lowercase hex SHA-256 of data.
func (f *fileUseCase) Hash(data []byte) string {
	return f.hashService.Hash(data)
}
