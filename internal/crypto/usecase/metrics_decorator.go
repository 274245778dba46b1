package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
	"github.com/allisson/envelope/internal/metrics"
)

func recordMetrics(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	metrics.Record(ctx, m, metrics.DomainCrypto, operation, start, err)
}

// keyUseCaseWithMetrics decorates KeyUseCase with metrics instrumentation.
type keyUseCaseWithMetrics struct {
	next    KeyUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyUseCaseWithMetrics wraps a KeyUseCase with metrics recording.
func NewKeyUseCaseWithMetrics(useCase KeyUseCase, m metrics.BusinessMetrics) KeyUseCase {
	return &keyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// DeriveKEK records metrics for key derivation.
func (k *keyUseCaseWithMetrics) DeriveKEK(ctx context.Context, password, salt string) ([]byte, error) {
	start := time.Now()
	kek, err := k.next.DeriveKEK(ctx, password, salt)
	recordMetrics(ctx, k.metrics, metrics.OpKEKDerive, start, err)
	return kek, err
}

// GenerateMasterKey records metrics for master key creation.
func (k *keyUseCaseWithMetrics) GenerateMasterKey(
	ctx context.Context,
	password, salt string,
) (*cryptoDomain.WrappedSecret, error) {
	start := time.Now()
	wrapped, err := k.next.GenerateMasterKey(ctx, password, salt)
	recordMetrics(ctx, k.metrics, metrics.OpMasterKeyCreate, start, err)
	return wrapped, err
}

// GenerateKeyPair records metrics for key pair creation.
func (k *keyUseCaseWithMetrics) GenerateKeyPair(
	ctx context.Context,
	password, salt string,
) (*cryptoDomain.WrappedKeyPair, error) {
	start := time.Now()
	keyPair, err := k.next.GenerateKeyPair(ctx, password, salt)
	recordMetrics(ctx, k.metrics, metrics.OpKeyPairCreate, start, err)
	return keyPair, err
}

// UnwrapSecret records metrics for secret unwrapping, labelled by role.
func (k *keyUseCaseWithMetrics) UnwrapSecret(
	ctx context.Context,
	role cryptoDomain.SecretRole,
	password, salt string,
	wrapped *cryptoDomain.WrappedSecret,
) ([]byte, error) {
	start := time.Now()
	secret, err := k.next.UnwrapSecret(ctx, role, password, salt, wrapped)
	recordMetrics(ctx, k.metrics, metrics.UnwrapOperation(string(role)), start, err)
	return secret, err
}

// fileUseCaseWithMetrics decorates FileUseCase with metrics instrumentation.
type fileUseCaseWithMetrics struct {
	next    FileUseCase
	metrics metrics.BusinessMetrics
}

// NewFileUseCaseWithMetrics wraps a FileUseCase with metrics recording.
func NewFileUseCaseWithMetrics(useCase FileUseCase, m metrics.BusinessMetrics) FileUseCase {
	return &fileUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for direct file encryption.
func (f *fileUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	plaintext, key []byte,
) (*cryptoDomain.EncryptedFile, error) {
	start := time.Now()
	file, err := f.next.Encrypt(ctx, plaintext, key)
	recordMetrics(ctx, f.metrics, metrics.OpFileEncrypt, start, err)
	return file, err
}

// Decrypt records metrics for direct file decryption.
func (f *fileUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	ciphertext, key, nonce []byte,
) (*cryptoDomain.DecryptedFile, error) {
	start := time.Now()
	file, err := f.next.Decrypt(ctx, ciphertext, key, nonce)
	recordMetrics(ctx, f.metrics, metrics.OpFileDecrypt, start, err)
	return file, err
}

// EncryptWithWrappedMasterKey records metrics for password-based file encryption.
func (f *fileUseCaseWithMetrics) EncryptWithWrappedMasterKey(
	ctx context.Context,
	plaintext []byte,
	password, salt string,
	wrappedMasterKey *cryptoDomain.WrappedSecret,
) (*cryptoDomain.EncryptedFile, error) {
	start := time.Now()
	file, err := f.next.EncryptWithWrappedMasterKey(ctx, plaintext, password, salt, wrappedMasterKey)
	recordMetrics(ctx, f.metrics, metrics.OpFileEncryptWithPassword, start, err)
	return file, err
}

// DecryptWithWrappedMasterKey records metrics for password-based file decryption.
func (f *fileUseCaseWithMetrics) DecryptWithWrappedMasterKey(
	ctx context.Context,
	ciphertext, nonce []byte,
	password, salt string,
	wrappedMasterKey *cryptoDomain.WrappedSecret,
) (*cryptoDomain.DecryptedFile, error) {
	start := time.Now()
	file, err := f.next.DecryptWithWrappedMasterKey(ctx, ciphertext, nonce, password, salt, wrappedMasterKey)
	recordMetrics(ctx, f.metrics, metrics.OpFileDecryptWithPassword, start, err)
	return file, err
}

// HybridEncrypt records metrics for hybrid file encryption.
func (f *fileUseCaseWithMetrics) HybridEncrypt(
	ctx context.Context,
	plaintext, recipientPublicKey []byte,
) (*cryptoDomain.HybridEncryptedFile, error) {
	start := time.Now()
	file, err := f.next.HybridEncrypt(ctx, plaintext, recipientPublicKey)
	recordMetrics(ctx, f.metrics, metrics.OpFileHybridEncrypt, start, err)
	return file, err
}

// HybridDecrypt records metrics for hybrid file decryption.
func (f *fileUseCaseWithMetrics) HybridDecrypt(
	ctx context.Context,
	input *cryptoDomain.HybridDecryptInput,
) (*cryptoDomain.DecryptedFile, error) {
	start := time.Now()
	file, err := f.next.HybridDecrypt(ctx, input)
	recordMetrics(ctx, f.metrics, metrics.OpFileHybridDecrypt, start, err)
	return file, err
}

// Hash is not instrumented.
func (f *fileUseCaseWithMetrics) Hash(data []byte) string {
	return f.next.Hash(data)
}
