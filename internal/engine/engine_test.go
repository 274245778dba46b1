package engine

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

var testKDFParams = cryptoDomain.KDFParams{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
	KeyLength:   cryptoDomain.KeySize,
}

func newTestEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e, err := NewWithParams(testKDFParams, cryptoDomain.DefaultPepper(), logger, nil)
	require.NoError(t, err)
	return e, &buf
}

func requireKind[T any](t *testing.T, r Result[T], kind Kind) *Failure {
	t.Helper()
	require.False(t, r.Success(), "expected failure %s", kind)
	require.NotNil(t, r.Failure())
	assert.Equal(t, kind, r.Failure().Kind, r.Failure().Detail)
	return r.Failure()
}

func TestEngine_CorrectHorseScenario(t *testing.T) {
	ctx := context.Background()
	e, err := NewWithParams(cryptoDomain.DefaultKDFParams(), cryptoDomain.DefaultPepper(), slog.New(slog.DiscardHandler), nil)
	require.NoError(t, err)

	first := e.DeriveKEKHex(ctx, "CorrectHorse", "user@example.com")
	require.True(t, first.Success())
	second := e.DeriveKEKHex(ctx, "CorrectHorse", "user@example.com")
	require.True(t, second.Success())
	assert.Len(t, first.Value(), 64)
	assert.Equal(t, first.Value(), second.Value())

	key := hex.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
	encrypted := e.EncryptFile(ctx, []byte("hello world"), key)
	require.True(t, encrypted.Success())

	decrypted := e.DecryptFile(ctx, encrypted.Value().Ciphertext, key, encrypted.Value().Nonce)
	require.True(t, decrypted.Success())
	assert.Equal(t, []byte("hello world"), decrypted.Value().Plaintext)
	assert.Equal(t, e.HashFile([]byte("hello world")), decrypted.Value().PlaintextHash)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", decrypted.Value().PlaintextHash)

	tampered := bytes.Clone(encrypted.Value().Ciphertext)
	tampered[len(tampered)-1] ^= 0x01
	requireKind(t, e.DecryptFile(ctx, tampered, key, encrypted.Value().Nonce), KindAuthenticationFailure)
}

func TestEngine_MasterKeyLifecycle(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	wrapped := e.GenerateWrappedMasterKey(ctx, "CorrectHorse", "user@example.com")
	require.True(t, wrapped.Success())
	assert.Len(t, wrapped.Value().WrappedKey, 96)
	assert.Len(t, wrapped.Value().Nonce, 24)

	t.Run("unwrap", func(t *testing.T) {
		r := e.UnwrapMasterKey(ctx, "CorrectHorse", "user@example.com", wrapped.Value().WrappedKey, wrapped.Value().Nonce)
		require.True(t, r.Success())
		assert.Len(t, r.Value(), 64)
		assert.Equal(t, strings.ToLower(r.Value()), r.Value())
	})

	t.Run("uppercase hex input is accepted", func(t *testing.T) {
		r := e.UnwrapMasterKey(
			ctx,
			"CorrectHorse",
			"user@example.com",
			strings.ToUpper(wrapped.Value().WrappedKey),
			strings.ToUpper(wrapped.Value().Nonce),
		)
		assert.True(t, r.Success())
	})

	t.Run("wrong password", func(t *testing.T) {
		r := e.UnwrapMasterKey(ctx, "WrongHorse", "user@example.com", wrapped.Value().WrappedKey, wrapped.Value().Nonce)
		requireKind(t, r, KindAuthenticationFailure)
	})

	t.Run("encrypt with password", func(t *testing.T) {
		masterKey := e.UnwrapMasterKey(ctx, "CorrectHorse", "user@example.com", wrapped.Value().WrappedKey, wrapped.Value().Nonce)
		require.True(t, masterKey.Success())

		encrypted := e.EncryptFileWithPassword(
			ctx,
			[]byte("payload"),
			"CorrectHorse",
			"user@example.com",
			wrapped.Value().WrappedKey,
			wrapped.Value().Nonce,
		)
		require.True(t, encrypted.Success())

		decrypted := e.DecryptFile(ctx, encrypted.Value().Ciphertext, masterKey.Value(), encrypted.Value().Nonce)
		require.True(t, decrypted.Success())
		assert.Equal(t, []byte("payload"), decrypted.Value().Plaintext)
	})

	t.Run("decrypt with password", func(t *testing.T) {
		encrypted := e.EncryptFileWithPassword(
			ctx, []byte("payload"), "CorrectHorse", "user@example.com", wrapped.Value().WrappedKey, wrapped.Value().Nonce,
		)
		require.True(t, encrypted.Success())

		decrypted := e.DecryptFileWithPassword(
			ctx,
			encrypted.Value().Ciphertext,
			"CorrectHorse",
			"user@example.com",
			wrapped.Value().WrappedKey,
			wrapped.Value().Nonce,
			encrypted.Value().Nonce,
		)
		require.True(t, decrypted.Success())
		assert.Equal(t, []byte("payload"), decrypted.Value().Plaintext)
		assert.Equal(t, encrypted.Value().PlaintextHash, decrypted.Value().PlaintextHash)

		r := e.DecryptFileWithPassword(
			ctx, encrypted.Value().Ciphertext, "WrongHorse", "user@example.com",
			wrapped.Value().WrappedKey, wrapped.Value().Nonce, encrypted.Value().Nonce,
		)
		f := requireKind(t, r, KindAuthenticationFailure)
		assert.Contains(t, f.Detail, "master key decryption failed")

		r = e.DecryptFileWithPassword(
			ctx, encrypted.Value().Ciphertext, "CorrectHorse", "user@example.com",
			wrapped.Value().WrappedKey, wrapped.Value().Nonce, encrypted.Value().Nonce[:22],
		)
		requireKind(t, r, KindLengthMismatch)

		r = e.DecryptFileWithPassword(
			ctx, encrypted.Value().Ciphertext, "CorrectHorse", "user@example.com",
			wrapped.Value().WrappedKey, wrapped.Value().Nonce, "zz",
		)
		requireKind(t, r, KindFormatError)
	})

	t.Run("encrypt with wrong password", func(t *testing.T) {
		r := e.EncryptFileWithPassword(ctx, []byte("payload"), "x", "y", wrapped.Value().WrappedKey, wrapped.Value().Nonce)
		f := requireKind(t, r, KindAuthenticationFailure)
		assert.Contains(t, f.Detail, "master key decryption failed")
	})
}

func TestEngine_SizeGating(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	wrapped := e.GenerateWrappedMasterKey(ctx, "p", "s")
	require.True(t, wrapped.Success())
	blob := wrapped.Value().WrappedKey
	nonce := wrapped.Value().Nonce

	tests := []struct {
		name  string
		blob  string
		nonce string
		field string
	}{
		{"nonce 11 bytes", blob, nonce[:22], "master_key_nonce"},
		{"nonce 13 bytes", blob, nonce + "00", "master_key_nonce"},
		{"blob 47 bytes", blob[:94], nonce, "wrapped_master_key"},
		{"blob 49 bytes", blob + "00", nonce, "wrapped_master_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := requireKind(t, e.UnwrapMasterKey(ctx, "p", "s", tt.blob, tt.nonce), KindLengthMismatch)
			assert.Contains(t, f.Detail, tt.field)

			var lengthErr *cryptoDomain.LengthError
			assert.ErrorAs(t, f, &lengthErr)
		})
	}

	t.Run("decrypt file nonce sizes", func(t *testing.T) {
		key := hex.EncodeToString(make([]byte, 32))
		requireKind(t, e.DecryptFile(ctx, []byte("x"), key, strings.Repeat("00", 11)), KindLengthMismatch)
		requireKind(t, e.DecryptFile(ctx, []byte("x"), key, strings.Repeat("00", 13)), KindLengthMismatch)
	})

	t.Run("encrypt file key size", func(t *testing.T) {
		requireKind(t, e.EncryptFile(ctx, []byte("x"), strings.Repeat("00", 31)), KindLengthMismatch)
	})
}

func TestEngine_FormatErrors(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	t.Run("odd length precedes length check", func(t *testing.T) {
		requireKind(t, e.UnwrapMasterKey(ctx, "p", "s", "abc", strings.Repeat("00", 12)), KindFormatError)
	})

	t.Run("non-hex character", func(t *testing.T) {
		f := requireKind(t, e.UnwrapPrivateKey(ctx, "p", "s", strings.Repeat("00", 48), "zz"+strings.Repeat("00", 11)), KindFormatError)
		assert.Contains(t, f.Detail, "position 0")
		assert.NotContains(t, f.Detail, "zz")
	})

	t.Run("bad master key in encrypt", func(t *testing.T) {
		requireKind(t, e.EncryptFile(ctx, []byte("x"), strings.Repeat("g", 64)), KindFormatError)
	})

	t.Run("bad nonce in decrypt precedes bad key size", func(t *testing.T) {
		requireKind(t, e.DecryptFile(ctx, []byte("x"), "00", "0"), KindFormatError)
	})

	t.Run("bad public key", func(t *testing.T) {
		requireKind(t, e.HybridEncryptFile(ctx, []byte("x"), "xyz"), KindFormatError)
	})
}

func TestEngine_Hybrid(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	keyPair := e.GenerateWrappedKeyPair(ctx, "CorrectHorse", "user@example.com")
	require.True(t, keyPair.Success())
	assert.Len(t, keyPair.Value().PublicKey, 64)
	assert.Len(t, keyPair.Value().WrappedPrivateKey, 96)
	assert.Len(t, keyPair.Value().Nonce, 24)

	encrypted := e.HybridEncryptFile(ctx, []byte("for your eyes only"), keyPair.Value().PublicKey)
	require.True(t, encrypted.Success())

	request := func() HybridDecryptRequest {
		return HybridDecryptRequest{
			Password:           "CorrectHorse",
			Salt:               "user@example.com",
			WrappedPrivateKey:  keyPair.Value().WrappedPrivateKey,
			PrivateKeyNonce:    keyPair.Value().Nonce,
			EphemeralPublicKey: encrypted.Value().EphemeralPublicKey,
			WrappedDEK:         encrypted.Value().WrappedDEK,
			DEKNonce:           encrypted.Value().DEKNonce,
			FileNonce:          encrypted.Value().FileNonce,
			Ciphertext:         bytes.Clone(encrypted.Value().Ciphertext),
		}
	}

	t.Run("round trip", func(t *testing.T) {
		r := e.HybridDecryptFile(ctx, request())
		require.True(t, r.Success())
		assert.Equal(t, []byte("for your eyes only"), r.Value().Plaintext)
		assert.Equal(t, encrypted.Value().PlaintextHash, r.Value().PlaintextHash)
	})

	t.Run("unwrap private key directly", func(t *testing.T) {
		r := e.UnwrapPrivateKey(ctx, "CorrectHorse", "user@example.com", keyPair.Value().WrappedPrivateKey, keyPair.Value().Nonce)
		require.True(t, r.Success())
		assert.Len(t, r.Value(), 64)
	})

	tests := []struct {
		name   string
		mutate func(r *HybridDecryptRequest)
		kind   Kind
		stage  cryptoDomain.Stage
	}{
		{
			name:   "wrong password",
			mutate: func(r *HybridDecryptRequest) { r.Password = "WrongHorse" },
			kind:   KindAuthenticationFailure,
			stage:  cryptoDomain.StageUnwrapPrivateKey,
		},
		{
			name:   "bad private key nonce hex",
			mutate: func(r *HybridDecryptRequest) { r.PrivateKeyNonce = "q" },
			kind:   KindFormatError,
			stage:  cryptoDomain.StageUnwrapPrivateKey,
		},
		{
			name:   "short ephemeral key",
			mutate: func(r *HybridDecryptRequest) { r.EphemeralPublicKey = r.EphemeralPublicKey[:62] },
			kind:   KindLengthMismatch,
			stage:  cryptoDomain.StageDeriveSharedSecret,
		},
		{
			name:   "low-order ephemeral key",
			mutate: func(r *HybridDecryptRequest) { r.EphemeralPublicKey = strings.Repeat("00", 32) },
			kind:   KindAuthenticationFailure,
			stage:  cryptoDomain.StageDeriveSharedSecret,
		},
		{
			name:   "wrapped dek of 47 bytes",
			mutate: func(r *HybridDecryptRequest) { r.WrappedDEK = r.WrappedDEK[:94] },
			kind:   KindLengthMismatch,
			stage:  cryptoDomain.StageUnwrapDEK,
		},
		{
			name:   "swapped dek nonce",
			mutate: func(r *HybridDecryptRequest) { r.DEKNonce = r.FileNonce },
			kind:   KindAuthenticationFailure,
			stage:  cryptoDomain.StageUnwrapDEK,
		},
		{
			name:   "tampered ciphertext",
			mutate: func(r *HybridDecryptRequest) { r.Ciphertext[0] ^= 0x01 },
			kind:   KindAuthenticationFailure,
			stage:  cryptoDomain.StageDecryptFile,
		},
		{
			name:   "bad file nonce hex",
			mutate: func(r *HybridDecryptRequest) { r.FileNonce = "0" },
			kind:   KindFormatError,
			stage:  cryptoDomain.StageDecryptFile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request()
			tt.mutate(&req)

			f := requireKind(t, e.HybridDecryptFile(ctx, req), tt.kind)
			assert.Equal(t, string(tt.stage), f.Stage)
		})
	}
}

func TestEngine_EmptyPlaintext(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	key := hex.EncodeToString(bytes.Repeat([]byte{0x01}, 32))

	encrypted := e.EncryptFile(ctx, []byte{}, key)
	require.True(t, encrypted.Success())
	assert.Len(t, encrypted.Value().Ciphertext, cryptoDomain.TagSize)

	decrypted := e.DecryptFile(ctx, encrypted.Value().Ciphertext, key, encrypted.Value().Nonce)
	require.True(t, decrypted.Success())
	assert.Empty(t, decrypted.Value().Plaintext)
	assert.Equal(t, e.HashFile(nil), decrypted.Value().PlaintextHash)
}

func TestEngine_LogsNeverContainSecrets(t *testing.T) {
	ctx := context.Background()
	e, buf := newTestEngine(t)

	password := "CorrectHorseBatteryStaple"
	kek := e.DeriveKEKHex(ctx, password, "user@example.com")
	require.True(t, kek.Success())

	wrapped := e.GenerateWrappedMasterKey(ctx, password, "user@example.com")
	require.True(t, wrapped.Success())

	masterKey := e.UnwrapMasterKey(ctx, password, "user@example.com", wrapped.Value().WrappedKey, wrapped.Value().Nonce)
	require.True(t, masterKey.Success())

	encrypted := e.EncryptFile(ctx, []byte("top secret plaintext"), masterKey.Value())
	require.True(t, encrypted.Success())

	_ = e.UnwrapMasterKey(ctx, "WrongHorse", "user@example.com", wrapped.Value().WrappedKey, wrapped.Value().Nonce)

	logs := buf.String()
	assert.Contains(t, logs, "operation_id")
	assert.Contains(t, logs, "deriving key-encryption key")
	assert.Contains(t, logs, "authentication_failure")
	assert.NotContains(t, logs, password)
	assert.NotContains(t, logs, "WrongHorse")
	assert.NotContains(t, logs, kek.Value())
	assert.NotContains(t, logs, masterKey.Value())
	assert.NotContains(t, logs, "top secret plaintext")
}

func TestNewWithParams_FatalKDF(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e, err := NewWithParams(cryptoDomain.KDFParams{}, cryptoDomain.DefaultPepper(), logger, nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrFatalKDF)
	assert.Nil(t, e)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)

	_, err = NewWithParams(testKDFParams, []byte("short"), logger, nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrFatalKDF)
	assert.Equal(t, KindFatalKDF, KindOf(err))
}

func TestEngine_ObserverReceivesStatus(t *testing.T) {
	var statuses []string
	observer := cryptoDomain.ObserverFunc(func(ctx context.Context, status string) {
		_, ok := OperationIDFromContext(ctx)
		assert.True(t, ok)
		statuses = append(statuses, status)
	})

	e, err := NewWithParams(testKDFParams, cryptoDomain.DefaultPepper(), slog.New(slog.DiscardHandler), observer)
	require.NoError(t, err)

	r := e.GenerateWrappedMasterKey(context.Background(), "p", "s")
	require.True(t, r.Success())
	assert.Equal(t, []string{"generated master key", "deriving key-encryption key", "wrapping master_key"}, statuses)
}

func TestEngine_HybridDecrypt_LengthsCheckedBeforeKeyDerivation(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	keyPair := e.GenerateWrappedKeyPair(ctx, "CorrectHorse", "user@example.com")
	require.True(t, keyPair.Success())
	encrypted := e.HybridEncryptFile(ctx, []byte("for your eyes only"), keyPair.Value().PublicKey)
	require.True(t, encrypted.Success())

	var statuses []string
	observer := cryptoDomain.ObserverFunc(func(_ context.Context, status string) {
		statuses = append(statuses, status)
	})
	counted, err := NewWithParams(testKDFParams, cryptoDomain.DefaultPepper(), slog.New(slog.DiscardHandler), observer)
	require.NoError(t, err)

	r := counted.HybridDecryptFile(ctx, HybridDecryptRequest{
		Password:           "CorrectHorse",
		Salt:               "user@example.com",
		WrappedPrivateKey:  keyPair.Value().WrappedPrivateKey,
		PrivateKeyNonce:    keyPair.Value().Nonce,
		EphemeralPublicKey: encrypted.Value().EphemeralPublicKey,
		WrappedDEK:         encrypted.Value().WrappedDEK[:94],
		DEKNonce:           encrypted.Value().DEKNonce,
		FileNonce:          encrypted.Value().FileNonce[:22],
		Ciphertext:         encrypted.Value().Ciphertext,
	})

	f := requireKind(t, r, KindLengthMismatch)
	assert.Equal(t, string(cryptoDomain.StageUnwrapDEK), f.Stage)
	assert.Contains(t, f.Detail, "wrapped_dek")
	assert.Empty(t, statuses)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestEngine_OperationIDFailure(t *testing.T) {
	e, buf := newTestEngine(t)

	uuid.SetRand(failingReader{})
	defer uuid.SetRand(nil)

	r := e.DeriveKEKHex(context.Background(), "CorrectHorse", "user@example.com")

	f := requireKind(t, r, KindInternal)
	assert.ErrorIs(t, f, cryptoDomain.ErrRandomSource)
	assert.Contains(t, f.Detail, "operation id")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.NotContains(t, buf.String(), "CorrectHorse")
}
