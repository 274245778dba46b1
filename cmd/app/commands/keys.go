package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/allisson/envelope/internal/engine"
	appValidation "github.com/allisson/envelope/internal/validation"
)

// derivedKEK is the derive-kek result.
type derivedKEK struct {
	KEK string `json:"kek" yaml:"kek"`
}

// unwrappedKey is the result of the unwrap commands.
type unwrappedKey struct {
	Key string `json:"key" yaml:"key"`
}

// RunDeriveKEK derives the key-encryption key for creds and prints it as hex.
//
// The KEK is as sensitive as the password; the command exists for interop checks.
func RunDeriveKEK(
	ctx context.Context,
	eng *engine.Engine,
	logger *slog.Logger,
	writer io.Writer,
	creds Credentials,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := creds.Validate(); err != nil {
		return appValidation.WrapValidationError(err)
	}

	result := eng.DeriveKEKHex(ctx, creds.Password, creds.Salt)
	if !result.Success() {
		return failed("derive key-encryption key", result.Failure())
	}

	logger.Info("key-encryption key derived")

	out := derivedKEK{KEK: result.Value()}
	return writeResult(writer, format, out, []envLine{{"KEK", out.KEK}})
}

// RunCreateMasterKey generates a random master key wrapped under the KEK derived from creds.
//
// Output format (text):
//   - WRAPPED_MASTER_KEY="<96 hex characters>"
//   - MASTER_KEY_NONCE="<24 hex characters>"
//
// The plaintext master key is never printed.
func RunCreateMasterKey(
	ctx context.Context,
	eng *engine.Engine,
	logger *slog.Logger,
	writer io.Writer,
	creds Credentials,
	minPasswordLength int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := creds.ValidateNew(minPasswordLength); err != nil {
		return appValidation.WrapValidationError(err)
	}

	result := eng.GenerateWrappedMasterKey(ctx, creds.Password, creds.Salt)
	if !result.Success() {
		return failed("create master key", result.Failure())
	}

	logger.Info("master key created")

	out := result.Value()
	return writeResult(writer, format, out, []envLine{
		{"WRAPPED_MASTER_KEY", out.WrappedKey},
		{"MASTER_KEY_NONCE", out.Nonce},
	})
}

// RunUnwrapMasterKey recovers the master key and prints it as hex.
func RunUnwrapMasterKey(
	ctx context.Context,
	eng *engine.Engine,
	logger *slog.Logger,
	writer io.Writer,
	req WrappedKeyRequest,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return appValidation.WrapValidationError(err)
	}

	result := eng.UnwrapMasterKey(ctx, req.Password, req.Salt, req.WrappedKey, req.Nonce)
	if !result.Success() {
		return failed("unwrap master key", result.Failure())
	}

	logger.Info("master key unwrapped")

	out := unwrappedKey{Key: result.Value()}
	return writeResult(writer, format, out, []envLine{{"MASTER_KEY", out.Key}})
}

// RunCreateKeyPair generates an X25519 key pair whose private key is wrapped
// under the KEK derived from creds.
//
// Output format (text):
//   - PUBLIC_KEY="<64 hex characters>"
//   - WRAPPED_PRIVATE_KEY="<96 hex characters>"
//   - PRIVATE_KEY_NONCE="<24 hex characters>"
func RunCreateKeyPair(
	ctx context.Context,
	eng *engine.Engine,
	logger *slog.Logger,
	writer io.Writer,
	creds Credentials,
	minPasswordLength int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := creds.ValidateNew(minPasswordLength); err != nil {
		return appValidation.WrapValidationError(err)
	}

	result := eng.GenerateWrappedKeyPair(ctx, creds.Password, creds.Salt)
	if !result.Success() {
		return failed("create key pair", result.Failure())
	}

	out := result.Value()
	logger.Info("key pair created", slog.String("public_key", out.PublicKey))

	return writeResult(writer, format, out, []envLine{
		{"PUBLIC_KEY", out.PublicKey},
		{"WRAPPED_PRIVATE_KEY", out.WrappedPrivateKey},
		{"PRIVATE_KEY_NONCE", out.Nonce},
	})
}

// RunUnwrapPrivateKey recovers an X25519 private key and prints it as hex.
func RunUnwrapPrivateKey(
	ctx context.Context,
	eng *engine.Engine,
	logger *slog.Logger,
	writer io.Writer,
	req WrappedKeyRequest,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return appValidation.WrapValidationError(err)
	}

	result := eng.UnwrapPrivateKey(ctx, req.Password, req.Salt, req.WrappedKey, req.Nonce)
	if !result.Success() {
		return failed("unwrap private key", result.Failure())
	}

	logger.Info("private key unwrapped")

	out := unwrappedKey{Key: result.Value()}
	return writeResult(writer, format, out, []envLine{{"PRIVATE_KEY", out.Key}})
}
