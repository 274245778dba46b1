package engine

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/envelope/internal/codec"
)

func TestEngine_Properties(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("KEK derivation is deterministic", prop.ForAll(
		func(password, salt string) bool {
			a := e.DeriveKEKHex(ctx, password, salt)
			b := e.DeriveKEKHex(ctx, password, salt)
			return a.Success() && b.Success() && a.Value() == b.Value() && len(a.Value()) == 64
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("wrapped master key unwraps with the same password and salt", prop.ForAll(
		func(password, salt string) bool {
			wrapped := e.GenerateWrappedMasterKey(ctx, password, salt)
			if !wrapped.Success() {
				return false
			}
			unwrapped := e.UnwrapMasterKey(ctx, password, salt, wrapped.Value().WrappedKey, wrapped.Value().Nonce)
			return unwrapped.Success() && len(unwrapped.Value()) == 64
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("direct file round trip preserves bytes and hash", prop.ForAll(
		func(data, key []byte) bool {
			keyHex := codec.EncodeHex(key)
			encrypted := e.EncryptFile(ctx, data, keyHex)
			if !encrypted.Success() {
				return false
			}
			decrypted := e.DecryptFile(ctx, encrypted.Value().Ciphertext, keyHex, encrypted.Value().Nonce)
			return decrypted.Success() &&
				bytes.Equal(decrypted.Value().Plaintext, data) &&
				decrypted.Value().PlaintextHash == e.HashFile(data) &&
				len(encrypted.Value().Ciphertext) == len(data)+16
		},
		gen.SliceOf(gen.UInt8()),
		gen.SliceOfN(32, gen.UInt8()),
	))

	properties.Property("any single bit flip fails authentication", prop.ForAll(
		func(data []byte, pos uint, bit uint8) bool {
			keyHex := codec.EncodeHex(bytes.Repeat([]byte{0x5a}, 32))
			encrypted := e.EncryptFile(ctx, data, keyHex)
			if !encrypted.Success() {
				return false
			}
			ciphertext := bytes.Clone(encrypted.Value().Ciphertext)
			ciphertext[int(pos)%len(ciphertext)] ^= 1 << (bit % 8)

			decrypted := e.DecryptFile(ctx, ciphertext, keyHex, encrypted.Value().Nonce)
			return !decrypted.Success() && decrypted.Failure().Kind == KindAuthenticationFailure
		},
		gen.SliceOf(gen.UInt8()),
		gen.UInt(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	keyPair := e.GenerateWrappedKeyPair(ctx, "CorrectHorse", "user@example.com")
	require.True(t, keyPair.Success())

	nonces := make([]string, 32)
	g, gctx := errgroup.WithContext(ctx)
	for i := range nonces {
		g.Go(func() error {
			plaintext := []byte(fmt.Sprintf("file-%d", i))
			encrypted := e.HybridEncryptFile(gctx, plaintext, keyPair.Value().PublicKey)
			if _, err := encrypted.Unwrap(); err != nil {
				return err
			}
			nonces[i] = encrypted.Value().FileNonce

			decrypted := e.HybridDecryptFile(gctx, HybridDecryptRequest{
				Password:           "CorrectHorse",
				Salt:               "user@example.com",
				WrappedPrivateKey:  keyPair.Value().WrappedPrivateKey,
				PrivateKeyNonce:    keyPair.Value().Nonce,
				EphemeralPublicKey: encrypted.Value().EphemeralPublicKey,
				WrappedDEK:         encrypted.Value().WrappedDEK,
				DEKNonce:           encrypted.Value().DEKNonce,
				FileNonce:          encrypted.Value().FileNonce,
				Ciphertext:         encrypted.Value().Ciphertext,
			})
			value, err := decrypted.Unwrap()
			if err != nil {
				return err
			}
			if !bytes.Equal(value.Plaintext, plaintext) {
				return fmt.Errorf("file %d: plaintext mismatch", i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]struct{}, len(nonces))
	for _, n := range nonces {
		seen[n] = struct{}{}
	}
	assert.Len(t, seen, len(nonces), "every encryption must use a fresh nonce")
}
