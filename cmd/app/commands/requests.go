package commands

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
	appValidation "github.com/allisson/envelope/internal/validation"
)

// Credentials is the password and salt a key-encryption key is derived from.
// The salt is conventionally the user's email address.
type Credentials struct {
	Password string `json:"password"`
	Salt     string `json:"salt"`
}

// Validate checks that both values are present. It applies no strength policy,
// so secrets wrapped under older policies stay recoverable.
func (c *Credentials) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Password, validation.Required),
		validation.Field(&c.Salt, validation.Required, appValidation.NotBlank),
	)
}

// ValidateNew checks the credentials used to create a new key.
func (c *Credentials) ValidateNew(minPasswordLength int) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Password,
			validation.Required,
			appValidation.PasswordStrength{MinLength: minPasswordLength},
		),
		validation.Field(&c.Salt, validation.Required, appValidation.NotBlank, appValidation.NoWhitespace),
	)
}

// WrappedKeyRequest identifies a wrapped secret and the credentials that unlock it.
type WrappedKeyRequest struct {
	Credentials
	WrappedKey string `json:"wrapped_key"`
	Nonce      string `json:"nonce"`
}

// Validate checks presence and hex encoding. Lengths are checked by the engine.
func (r *WrappedKeyRequest) Validate() error {
	if err := r.Credentials.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.WrappedKey, validation.Required, appValidation.Hex),
		validation.Field(&r.Nonce, validation.Required, appValidation.Hex),
	)
}

// FileRequest names the input and output files of a file command.
// Input "-" reads standard input.
type FileRequest struct {
	Input  string `json:"in"`
	Output string `json:"out"`
}

// Validate checks that both paths are set and differ.
func (r *FileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Input, validation.Required, appValidation.NotBlank),
		validation.Field(&r.Output,
			validation.Required,
			appValidation.NotBlank,
			validation.NotIn(r.Input, stdinPath).Error("must be a file different from the input"),
		),
	)
}

// EncryptFileRequest holds encrypt-file inputs. Exactly one of MasterKey or
// WrappedMasterKey must be set.
type EncryptFileRequest struct {
	FileRequest
	MasterKey        string             `json:"master_key"`
	WrappedMasterKey *WrappedKeyRequest `json:"wrapped_master_key"`
}

// Validate checks the file paths and the key source.
func (r *EncryptFileRequest) Validate() error {
	if err := r.FileRequest.Validate(); err != nil {
		return err
	}
	return validateKeySource(r.MasterKey, r.WrappedMasterKey)
}

// DecryptFileRequest holds decrypt-file inputs. Exactly one of MasterKey or
// WrappedMasterKey must be set.
type DecryptFileRequest struct {
	FileRequest
	Nonce            string             `json:"nonce"`
	MasterKey        string             `json:"master_key"`
	WrappedMasterKey *WrappedKeyRequest `json:"wrapped_master_key"`
}

// Validate checks the file paths, the nonce and the key source.
func (r *DecryptFileRequest) Validate() error {
	if err := r.FileRequest.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Nonce, validation.Required, appValidation.Hex),
	); err != nil {
		return err
	}
	return validateKeySource(r.MasterKey, r.WrappedMasterKey)
}

// HybridEncryptFileRequest holds hybrid-encrypt-file inputs.
type HybridEncryptFileRequest struct {
	FileRequest
	PublicKey string `json:"public_key"`
}

// Validate checks the file paths and that the recipient public key is 32 hex-encoded bytes.
func (r *HybridEncryptFileRequest) Validate() error {
	if err := r.FileRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.PublicKey, validation.Required, appValidation.HexBytes(cryptoDomain.KeySize)),
	)
}

// HybridDecryptFileRequest holds hybrid-decrypt-file inputs.
type HybridDecryptFileRequest struct {
	FileRequest
	PrivateKey         WrappedKeyRequest
	EphemeralPublicKey string `json:"ephemeral_public_key"`
	WrappedDEK         string `json:"wrapped_dek"`
	DEKNonce           string `json:"dek_nonce"`
	FileNonce          string `json:"file_nonce"`
}

// Validate checks the file paths, the wrapped private key and the envelope fields.
func (r *HybridDecryptFileRequest) Validate() error {
	if err := r.FileRequest.Validate(); err != nil {
		return err
	}
	if err := r.PrivateKey.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.EphemeralPublicKey, validation.Required, appValidation.Hex),
		validation.Field(&r.WrappedDEK, validation.Required, appValidation.Hex),
		validation.Field(&r.DEKNonce, validation.Required, appValidation.Hex),
		validation.Field(&r.FileNonce, validation.Required, appValidation.Hex),
	)
}

func validateKeySource(masterKey string, wrapped *WrappedKeyRequest) error {
	switch {
	case masterKey != "" && wrapped != nil:
		return validation.NewError("validation_key_source", "use either a master key or a wrapped master key")
	case masterKey != "":
		if err := validation.Validate(masterKey, appValidation.Hex); err != nil {
			return validation.Errors{"master_key": err}
		}
		return nil
	case wrapped != nil:
		return wrapped.Validate()
	default:
		return validation.NewError("validation_key_source", "a master key or a wrapped master key is required")
	}
}
