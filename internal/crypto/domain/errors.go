package domain

import (
	"fmt"

	"github.com/allisson/envelope/internal/errors"
)

// Cryptographic operation error definitions.
//
// Input problems wrap errors.ErrInvalidInput so hosts can treat them as caller
// mistakes. ErrFatalKDF deliberately does not: it signals a broken build.
var (
	// ErrInvalidHex indicates a hex string has an odd length or a non-hex character.
	ErrInvalidHex = errors.Wrap(errors.ErrInvalidInput, "invalid hex encoding")

	// ErrLengthMismatch indicates a fixed-size field (key, nonce, blob) has the wrong size.
	//
	// Returned errors are *LengthError values that match this sentinel with errors.Is.
	ErrLengthMismatch = errors.Wrap(errors.ErrInvalidInput, "length mismatch")

	// ErrAuthenticationFailed indicates the AEAD tag did not verify.
	//
	// This error covers a wrong password, a wrong key, a wrong nonce and tampered
	// ciphertext. For security reasons the specific cause is never disclosed.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrInvalidInput, "authentication failed")

	// ErrLowOrderPoint indicates an X25519 exchange produced the all-zero shared secret.
	//
	// It wraps ErrAuthenticationFailed: no DEK can ever be unwrapped under such a secret.
	ErrLowOrderPoint = fmt.Errorf("%w: low-order public key", ErrAuthenticationFailed)

	// ErrDerivedSecretSize indicates an authenticated plaintext is not a 32-byte secret.
	ErrDerivedSecretSize = errors.Wrap(errors.ErrInvalidInput, "unwrapped secret has invalid size")

	// ErrFatalKDF indicates the key derivation parameters are invalid.
	//
	// This cannot be caused by caller input and should never occur in a correctly
	// configured build.
	ErrFatalKDF = errors.New("fatal key derivation error")

	// ErrRandomSource indicates the system CSPRNG could not be read.
	ErrRandomSource = errors.Wrap(errors.ErrInternal, "random source failure")
)

// LengthError reports a fixed-size field that does not have its required size.
type LengthError struct {
	Field    string
	Expected int
	Actual   int
}

// NewLengthError creates a LengthError for field.
func NewLengthError(field string, expected, actual int) *LengthError {
	return &LengthError{Field: field, Expected: expected, Actual: actual}
}

// Error implements the error interface.
func (e *LengthError) Error() string {
	return fmt.Sprintf("%s must be %d bytes, got %d", e.Field, e.Expected, e.Actual)
}

// Unwrap returns ErrLengthMismatch so callers can match on the sentinel.
func (e *LengthError) Unwrap() error {
	return ErrLengthMismatch
}

// CheckLength returns a *LengthError when b is not exactly expected bytes long.
func CheckLength(field string, b []byte, expected int) error {
	if len(b) != expected {
		return NewLengthError(field, expected, len(b))
	}
	return nil
}
