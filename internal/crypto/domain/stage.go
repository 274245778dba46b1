package domain

import "fmt"

// Stage names one step of the hybrid decryption pipeline.
type Stage string

// Hybrid decryption runs these stages strictly in order.
const (
	StageUnwrapPrivateKey   Stage = "unwrap_private_key"
	StageDeriveSharedSecret Stage = "derive_shared_secret"
	StageUnwrapDEK          Stage = "unwrap_dek"
	StageDecryptFile        Stage = "decrypt_file"
)

// StageError qualifies a pipeline failure with the stage that produced it.
// Later stages are never executed once a StageError is returned.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}
