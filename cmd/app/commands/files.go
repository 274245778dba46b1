package commands

import (
	"context"
	"log/slog"

	"github.com/allisson/envelope/internal/engine"
	appValidation "github.com/allisson/envelope/internal/validation"
)

// hashedFile is the result of the decrypt and hash commands.
type hashedFile struct {
	Hash string `json:"hash" yaml:"hash"`
}

// RunEncryptFile encrypts the input file and writes the ciphertext to the output file.
//
// The key is either a hex master key or a wrapped master key unlocked with a
// password. The nonce and the SHA-256 of the plaintext are printed; both are
// needed to decrypt and verify.
func RunEncryptFile(
	ctx context.Context,
	eng *engine.Engine,
	logger *slog.Logger,
	streams IOTuple,
	req EncryptFileRequest,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return appValidation.WrapValidationError(err)
	}

	data, err := readInput(req.Input, streams.Reader)
	if err != nil {
		return err
	}

	var result engine.Result[engine.EncryptedFileOutput]
	if w := req.WrappedMasterKey; w != nil {
		result = eng.EncryptFileWithPassword(ctx, data, w.Password, w.Salt, w.WrappedKey, w.Nonce)
	} else {
		result = eng.EncryptFile(ctx, data, req.MasterKey)
	}
	if !result.Success() {
		return failed("encrypt file", result.Failure())
	}

	out := result.Value()
	if err := writePayload(req.Output, out.Ciphertext); err != nil {
		return err
	}

	logger.Info("file encrypted",
		slog.Int("plaintext_size", len(data)),
		slog.Int("ciphertext_size", len(out.Ciphertext)),
	)

	return writeResult(streams.Writer, format, out, []envLine{
		{"NONCE", out.Nonce},
		{"HASH", out.PlaintextHash},
	})
}

// RunDecryptFile decrypts the input file and writes the plaintext to the output file.
//
// Nothing is written when authentication fails.
func RunDecryptFile(
	ctx context.Context,
	eng *engine.Engine,
	logger *slog.Logger,
	streams IOTuple,
	req DecryptFileRequest,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return appValidation.WrapValidationError(err)
	}

	ciphertext, err := readInput(req.Input, streams.Reader)
	if err != nil {
		return err
	}

	var result engine.Result[engine.DecryptedFileOutput]
	if w := req.WrappedMasterKey; w != nil {
		result = eng.DecryptFileWithPassword(ctx, ciphertext, w.Password, w.Salt, w.WrappedKey, w.Nonce, req.Nonce)
	} else {
		result = eng.DecryptFile(ctx, ciphertext, req.MasterKey, req.Nonce)
	}
	if !result.Success() {
		return failed("decrypt file", result.Failure())
	}

	out := result.Value()
	if err := writePayload(req.Output, out.Plaintext); err != nil {
		return err
	}

	logger.Info("file decrypted", slog.Int("plaintext_size", len(out.Plaintext)))

	h := hashedFile{Hash: out.PlaintextHash}
	return writeResult(streams.Writer, format, h, []envLine{{"HASH", h.Hash}})
}

// RunHybridEncryptFile encrypts the input file for the holder of the private key
// matching the recipient public key.
//
// Output format (text):
//   - EPHEMERAL_PUBLIC_KEY, WRAPPED_DEK, DEK_NONCE, FILE_NONCE and HASH, all hex.
func RunHybridEncryptFile(
	ctx context.Context,
	eng *engine.Engine,
	logger *slog.Logger,
	streams IOTuple,
	req HybridEncryptFileRequest,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return appValidation.WrapValidationError(err)
	}

	data, err := readInput(req.Input, streams.Reader)
	if err != nil {
		return err
	}

	result := eng.HybridEncryptFile(ctx, data, req.PublicKey)
	if !result.Success() {
		return failed("hybrid encrypt file", result.Failure())
	}

	out := result.Value()
	if err := writePayload(req.Output, out.Ciphertext); err != nil {
		return err
	}

	logger.Info("file encrypted for recipient",
		slog.String("recipient_public_key", req.PublicKey),
		slog.Int("plaintext_size", len(data)),
	)

	return writeResult(streams.Writer, format, out, []envLine{
		{"EPHEMERAL_PUBLIC_KEY", out.EphemeralPublicKey},
		{"WRAPPED_DEK", out.WrappedDEK},
		{"DEK_NONCE", out.DEKNonce},
		{"FILE_NONCE", out.FileNonce},
		{"HASH", out.PlaintextHash},
	})
}

// RunHybridDecryptFile unwraps the recipient private key, recovers the data
// encryption key and decrypts the input file.
//
// A failure names the stage that failed: unwrap_private_key, derive_shared_secret,
// unwrap_dek or decrypt_file.
func RunHybridDecryptFile(
	ctx context.Context,
	eng *engine.Engine,
	logger *slog.Logger,
	streams IOTuple,
	req HybridDecryptFileRequest,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return appValidation.WrapValidationError(err)
	}

	ciphertext, err := readInput(req.Input, streams.Reader)
	if err != nil {
		return err
	}

	result := eng.HybridDecryptFile(ctx, engine.HybridDecryptRequest{
		Password:           req.PrivateKey.Password,
		Salt:               req.PrivateKey.Salt,
		WrappedPrivateKey:  req.PrivateKey.WrappedKey,
		PrivateKeyNonce:    req.PrivateKey.Nonce,
		EphemeralPublicKey: req.EphemeralPublicKey,
		WrappedDEK:         req.WrappedDEK,
		DEKNonce:           req.DEKNonce,
		FileNonce:          req.FileNonce,
		Ciphertext:         ciphertext,
	})
	if !result.Success() {
		return failed("hybrid decrypt file", result.Failure())
	}

	out := result.Value()
	if err := writePayload(req.Output, out.Plaintext); err != nil {
		return err
	}

	logger.Info("file decrypted with private key", slog.Int("plaintext_size", len(out.Plaintext)))

	h := hashedFile{Hash: out.PlaintextHash}
	return writeResult(streams.Writer, format, h, []envLine{{"HASH", h.Hash}})
}

// RunHashFile prints the SHA-256 of the input file as hex.
func RunHashFile(eng *engine.Engine, streams IOTuple, input, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	data, err := readInput(input, streams.Reader)
	if err != nil {
		return err
	}

	h := hashedFile{Hash: eng.HashFile(data)}
	return writeResult(streams.Writer, format, h, []envLine{{"HASH", h.Hash}})
}
