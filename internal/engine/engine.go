// Package engine exposes the envelope-encryption operations to a host.
//
// Keys, nonces and wrapped blobs cross the boundary as lowercase hex strings;
// file contents cross it as raw byte buffers. Every operation returns a Result
// instead of an error so hosts that cannot see Go errors still get a typed
// failure kind.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/envelope/internal/codec"
	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
	cryptoService "github.com/allisson/envelope/internal/crypto/service"
	cryptoUseCase "github.com/allisson/envelope/internal/crypto/usecase"
)

// Engine is safe for concurrent use. It holds no mutable state.
type Engine struct {
	keys   cryptoUseCase.KeyUseCase
	files  cryptoUseCase.FileUseCase
	logger *slog.Logger
}

// New creates an Engine over already assembled use cases.
func New(keys cryptoUseCase.KeyUseCase, files cryptoUseCase.FileUseCase, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{keys: keys, files: files, logger: logger}
}

// NewWithParams assembles the default services with the given KDF parameters and pepper.
//
// Invalid parameters return an error matching cryptoDomain.ErrFatalKDF. A nil
// observer logs status messages through logger at debug level.
func NewWithParams(
	params cryptoDomain.KDFParams,
	pepper []byte,
	logger *slog.Logger,
	observer cryptoDomain.Observer,
) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = NewSlogObserver(logger)
	}

	kdf, err := cryptoService.NewArgon2idKDF(params, pepper)
	if err != nil {
		logger.Error("invalid key derivation parameters", slog.Any("error", err))
		return nil, err
	}

	random := cryptoService.NewRandomSource()
	aeadManager := cryptoService.NewAEADManager(random)
	keyWrapper := cryptoService.NewKeyWrapper(aeadManager)
	keyAgreement := cryptoService.NewX25519(random)

	keys := cryptoUseCase.NewKeyUseCase(kdf, keyWrapper, keyAgreement, random, observer)
	files := cryptoUseCase.NewFileUseCase(
		keys,
		aeadManager,
		keyWrapper,
		keyAgreement,
		random,
		cryptoService.NewSHA256HashService(),
		observer,
	)

	return New(keys, files, logger), nil
}

func run[T any](
	ctx context.Context,
	e *Engine,
	operation string,
	fn func(ctx context.Context) (T, error),
) Result[T] {
	id, err := uuid.NewV7()
	if err != nil {
		failure := NewFailure(fmt.Errorf("failed to generate operation id: %w: %v", cryptoDomain.ErrRandomSource, err))
		e.logger.ErrorContext(ctx, "operation failed",
			slog.String("operation", operation),
			slog.String("kind", string(failure.Kind)),
			slog.String("detail", failure.Detail),
		)
		return Fail[T](failure)
	}
	ctx = withOperationID(ctx, id)
	logger := e.logger.With(
		slog.String("operation", operation),
		slog.String("operation_id", id.String()),
	)

	value, err := fn(ctx)
	if err != nil {
		failure := NewFailure(err)
		attrs := []any{
			slog.String("kind", string(failure.Kind)),
			slog.String("detail", failure.Detail),
		}
		if failure.Stage != "" {
			attrs = append(attrs, slog.String("stage", failure.Stage))
		}

		switch failure.Kind {
		case KindFatalKDF, KindInternal:
			logger.ErrorContext(ctx, "operation failed", attrs...)
		default:
			logger.InfoContext(ctx, "operation failed", attrs...)
		}
		return Fail[T](failure)
	}

	logger.DebugContext(ctx, "operation completed")
	return Ok(value)
}

// DeriveKEKHex derives the KEK for password and salt and returns it as 64 hex characters.
func (e *Engine) DeriveKEKHex(ctx context.Context, password, salt string) Result[string] {
	return run(ctx, e, "derive_kek_hex", func(ctx context.Context) (string, error) {
		kek, err := e.keys.DeriveKEK(ctx, password, salt)
		if err != nil {
			return "", err
		}
		defer cryptoDomain.Zero(kek)

		return codec.EncodeHex(kek), nil
	})
}

// GenerateWrappedMasterKey creates a random master key wrapped under the password-derived KEK.
func (e *Engine) GenerateWrappedMasterKey(ctx context.Context, password, salt string) Result[WrappedKeyHex] {
	return run(ctx, e, "generate_wrapped_master_key", func(ctx context.Context) (WrappedKeyHex, error) {
		wrapped, err := e.keys.GenerateMasterKey(ctx, password, salt)
		if err != nil {
			return WrappedKeyHex{}, err
		}
		return wrappedKeyHex(wrapped), nil
	})
}

// UnwrapMasterKey recovers a master key and returns it as 64 hex characters.
func (e *Engine) UnwrapMasterKey(ctx context.Context, password, salt, wrappedHex, nonceHex string) Result[string] {
	return run(ctx, e, "unwrap_master_key", func(ctx context.Context) (string, error) {
		return e.unwrapHex(ctx, cryptoDomain.RoleMasterKey, password, salt, wrappedHex, nonceHex)
	})
}

// UnwrapPrivateKey recovers an X25519 private key and returns it as 64 hex characters.
func (e *Engine) UnwrapPrivateKey(ctx context.Context, password, salt, wrappedHex, nonceHex string) Result[string] {
	return run(ctx, e, "unwrap_private_key", func(ctx context.Context) (string, error) {
		return e.unwrapHex(ctx, cryptoDomain.RolePrivateKey, password, salt, wrappedHex, nonceHex)
	})
}

// GenerateWrappedKeyPair creates an X25519 key pair with its private key wrapped
// under the password-derived KEK.
func (e *Engine) GenerateWrappedKeyPair(ctx context.Context, password, salt string) Result[WrappedKeyPairHex] {
	return run(ctx, e, "generate_wrapped_key_pair", func(ctx context.Context) (WrappedKeyPairHex, error) {
		keyPair, err := e.keys.GenerateKeyPair(ctx, password, salt)
		if err != nil {
			return WrappedKeyPairHex{}, err
		}
		return WrappedKeyPairHex{
			PublicKey:         codec.EncodeHex(keyPair.PublicKey),
			WrappedPrivateKey: codec.EncodeHex(keyPair.WrappedPrivateKey.Blob),
			Nonce:             codec.EncodeHex(keyPair.WrappedPrivateKey.Nonce),
		}, nil
	})
}

// EncryptFile encrypts data under a hex master key.
func (e *Engine) EncryptFile(ctx context.Context, data []byte, masterKeyHex string) Result[EncryptedFileOutput] {
	return run(ctx, e, "encrypt_file", func(ctx context.Context) (EncryptedFileOutput, error) {
		masterKey, err := codec.DecodeHexSize("master_key", masterKeyHex, cryptoDomain.KeySize)
		if err != nil {
			return EncryptedFileOutput{}, err
		}
		defer cryptoDomain.Zero(masterKey)

		file, err := e.files.Encrypt(ctx, data, masterKey)
		if err != nil {
			return EncryptedFileOutput{}, err
		}
		return encryptedFileOutput(file), nil
	})
}

// EncryptFileWithPassword unwraps the master key from password and salt, then encrypts data.
func (e *Engine) EncryptFileWithPassword(
	ctx context.Context,
	data []byte,
	password, salt, wrappedHex, nonceHex string,
) Result[EncryptedFileOutput] {
	return run(ctx, e, "encrypt_file_with_password", func(ctx context.Context) (EncryptedFileOutput, error) {
		wrapped, err := decodeWrapped(cryptoDomain.RoleMasterKey, wrappedHex, nonceHex)
		if err != nil {
			return EncryptedFileOutput{}, err
		}

		file, err := e.files.EncryptWithWrappedMasterKey(ctx, data, password, salt, wrapped)
		if err != nil {
			return EncryptedFileOutput{}, err
		}
		return encryptedFileOutput(file), nil
	})
}

// DecryptFile decrypts ciphertext with a hex master key and hex nonce.
func (e *Engine) DecryptFile(
	ctx context.Context,
	ciphertext []byte,
	masterKeyHex, nonceHex string,
) Result[DecryptedFileOutput] {
	return run(ctx, e, "decrypt_file", func(ctx context.Context) (DecryptedFileOutput, error) {
		masterKey, err := codec.DecodeHex("master_key", masterKeyHex)
		if err != nil {
			return DecryptedFileOutput{}, err
		}
		defer cryptoDomain.Zero(masterKey)

		nonce, err := codec.DecodeHex("nonce", nonceHex)
		if err != nil {
			return DecryptedFileOutput{}, err
		}

		file, err := e.files.Decrypt(ctx, ciphertext, masterKey, nonce)
		if err != nil {
			return DecryptedFileOutput{}, err
		}
		return DecryptedFileOutput{Plaintext: file.Plaintext, PlaintextHash: file.PlaintextHash}, nil
	})
}

// DecryptFileWithPassword unwraps the master key from password and salt, then
// decrypts ciphertext. The master key is never returned to the caller.
func (e *Engine) DecryptFileWithPassword(
	ctx context.Context,
	ciphertext []byte,
	password, salt, wrappedHex, wrappedNonceHex, nonceHex string,
) Result[DecryptedFileOutput] {
	return run(ctx, e, "decrypt_file_with_password", func(ctx context.Context) (DecryptedFileOutput, error) {
		wrapped, err := decodeWrapped(cryptoDomain.RoleMasterKey, wrappedHex, wrappedNonceHex)
		if err != nil {
			return DecryptedFileOutput{}, err
		}

		nonce, err := codec.DecodeHex("nonce", nonceHex)
		if err != nil {
			return DecryptedFileOutput{}, err
		}

		file, err := e.files.DecryptWithWrappedMasterKey(ctx, ciphertext, nonce, password, salt, wrapped)
		if err != nil {
			return DecryptedFileOutput{}, err
		}
		return DecryptedFileOutput{Plaintext: file.Plaintext, PlaintextHash: file.PlaintextHash}, nil
	})
}

// HybridEncryptFile encrypts data for the holder of the private key matching publicKeyHex.
func (e *Engine) HybridEncryptFile(
	ctx context.Context,
	data []byte,
	publicKeyHex string,
) Result[HybridEncryptedFileOutput] {
	return run(ctx, e, "hybrid_encrypt_file", func(ctx context.Context) (HybridEncryptedFileOutput, error) {
		publicKey, err := codec.DecodeHexSize("public_key", publicKeyHex, cryptoDomain.KeySize)
		if err != nil {
			return HybridEncryptedFileOutput{}, err
		}

		file, err := e.files.HybridEncrypt(ctx, data, publicKey)
		if err != nil {
			return HybridEncryptedFileOutput{}, err
		}
		return HybridEncryptedFileOutput{
			EphemeralPublicKey: codec.EncodeHex(file.EphemeralPublicKey),
			WrappedDEK:         codec.EncodeHex(file.WrappedDEK.Blob),
			DEKNonce:           codec.EncodeHex(file.WrappedDEK.Nonce),
			FileNonce:          codec.EncodeHex(file.File.Nonce),
			Ciphertext:         file.File.Ciphertext,
			PlaintextHash:      file.File.PlaintextHash,
		}, nil
	})
}

// HybridDecryptFile recovers a hybrid-encrypted file.
//
// All hex fields are decoded before any stage runs; a format error is still
// attributed to the stage that consumes the field.
func (e *Engine) HybridDecryptFile(ctx context.Context, req HybridDecryptRequest) Result[DecryptedFileOutput] {
	return run(ctx, e, "hybrid_decrypt_file", func(ctx context.Context) (DecryptedFileOutput, error) {
		input, err := decodeHybridRequest(req)
		if err != nil {
			return DecryptedFileOutput{}, err
		}

		file, err := e.files.HybridDecrypt(ctx, input)
		if err != nil {
			return DecryptedFileOutput{}, err
		}
		return DecryptedFileOutput{Plaintext: file.Plaintext, PlaintextHash: file.PlaintextHash}, nil
	})
}

// HashFile returns the lowercase hex SHA-256 of data. It cannot fail.
func (e *Engine) HashFile(data []byte) string {
	return e.files.Hash(data)
}

func (e *Engine) unwrapHex(
	ctx context.Context,
	role cryptoDomain.SecretRole,
	password, salt, wrappedHex, nonceHex string,
) (string, error) {
	wrapped, err := decodeWrapped(role, wrappedHex, nonceHex)
	if err != nil {
		return "", err
	}

	secret, err := e.keys.UnwrapSecret(ctx, role, password, salt, wrapped)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(secret)

	return codec.EncodeHex(secret), nil
}
