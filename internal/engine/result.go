package engine

import (
	"errors"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// Kind classifies a failed operation.
type Kind string

// Failure kinds reported to the host.
const (
	KindFormatError           Kind = "format_error"
	KindLengthMismatch        Kind = "length_mismatch"
	KindAuthenticationFailure Kind = "authentication_failure"
	KindDerivedSecretSize     Kind = "derived_secret_size"
	KindFatalKDF              Kind = "fatal_kdf"
	KindInternal              Kind = "internal"
)

// Failure describes why an operation did not succeed.
//
// Detail is built from error messages that never contain secret material.
// Stage is set only for hybrid decryption failures.
type Failure struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Stage  string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Detail string `json:"detail" yaml:"detail"`

	err error
}

// NewFailure classifies err into a Failure.
func NewFailure(err error) *Failure {
	f := &Failure{
		Kind:   KindOf(err),
		Detail: err.Error(),
		err:    err,
	}

	var stageErr *cryptoDomain.StageError
	if errors.As(err, &stageErr) {
		f.Stage = string(stageErr.Stage)
	}

	return f
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Detail
}

// Unwrap returns the classified error so errors.Is keeps working on the domain sentinels.
func (f *Failure) Unwrap() error {
	return f.err
}

// KindOf maps an error from the crypto layers onto a Kind.
func KindOf(err error) Kind {
	var lengthErr *cryptoDomain.LengthError

	switch {
	case errors.Is(err, cryptoDomain.ErrFatalKDF):
		return KindFatalKDF
	case errors.Is(err, cryptoDomain.ErrInvalidHex):
		return KindFormatError
	case errors.As(err, &lengthErr), errors.Is(err, cryptoDomain.ErrLengthMismatch):
		return KindLengthMismatch
	case errors.Is(err, cryptoDomain.ErrDerivedSecretSize):
		return KindDerivedSecretSize
	case errors.Is(err, cryptoDomain.ErrAuthenticationFailed):
		return KindAuthenticationFailure
	default:
		return KindInternal
	}
}

// Result is the outcome of an engine operation: either a value or a Failure, never both.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok returns a successful Result holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail returns a failed Result.
func Fail[T any](f *Failure) Result[T] {
	return Result[T]{failure: f}
}

// Success reports whether the operation succeeded.
func (r Result[T]) Success() bool {
	return r.failure == nil
}

// Value returns the payload, or the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Failure returns the failure, or nil on success.
func (r Result[T]) Failure() *Failure {
	return r.failure
}

// Unwrap converts the Result into Go's (value, error) convention.
func (r Result[T]) Unwrap() (T, error) {
	if r.failure != nil {
		var zero T
		return zero, r.failure
	}
	return r.value, nil
}
