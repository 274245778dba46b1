package engine

import (
	"github.com/allisson/envelope/internal/codec"
	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

func wrappedKeyHex(w *cryptoDomain.WrappedSecret) WrappedKeyHex {
	return WrappedKeyHex{
		WrappedKey: codec.EncodeHex(w.Blob),
		Nonce:      codec.EncodeHex(w.Nonce),
	}
}

func encryptedFileOutput(f *cryptoDomain.EncryptedFile) EncryptedFileOutput {
	return EncryptedFileOutput{
		Ciphertext:    f.Ciphertext,
		Nonce:         codec.EncodeHex(f.Nonce),
		PlaintextHash: f.PlaintextHash,
	}
}

// decodeWrapped decodes both hex fields; sizes are checked by the key use case.
func decodeWrapped(role cryptoDomain.SecretRole, wrappedHex, nonceHex string) (*cryptoDomain.WrappedSecret, error) {
	blob, err := codec.DecodeHex("wrapped_"+string(role), wrappedHex)
	if err != nil {
		return nil, err
	}
	nonce, err := codec.DecodeHex(string(role)+"_nonce", nonceHex)
	if err != nil {
		return nil, err
	}
	return &cryptoDomain.WrappedSecret{Nonce: nonce, Blob: blob}, nil
}

func decodeHybridRequest(req HybridDecryptRequest) (*cryptoDomain.HybridDecryptInput, error) {
	wrappedPrivateKey, err := decodeWrapped(cryptoDomain.RolePrivateKey, req.WrappedPrivateKey, req.PrivateKeyNonce)
	if err != nil {
		return nil, &cryptoDomain.StageError{Stage: cryptoDomain.StageUnwrapPrivateKey, Err: err}
	}

	ephemeralPublicKey, err := codec.DecodeHex("ephemeral_public_key", req.EphemeralPublicKey)
	if err != nil {
		return nil, &cryptoDomain.StageError{Stage: cryptoDomain.StageDeriveSharedSecret, Err: err}
	}

	wrappedDEK, err := decodeWrapped(cryptoDomain.RoleDEK, req.WrappedDEK, req.DEKNonce)
	if err != nil {
		return nil, &cryptoDomain.StageError{Stage: cryptoDomain.StageUnwrapDEK, Err: err}
	}

	fileNonce, err := codec.DecodeHex("file_nonce", req.FileNonce)
	if err != nil {
		return nil, &cryptoDomain.StageError{Stage: cryptoDomain.StageDecryptFile, Err: err}
	}

	return &cryptoDomain.HybridDecryptInput{
		Password:           req.Password,
		Salt:               req.Salt,
		WrappedPrivateKey:  wrappedPrivateKey,
		EphemeralPublicKey: ephemeralPublicKey,
		WrappedDEK:         wrappedDEK,
		FileNonce:          fileNonce,
		Ciphertext:         req.Ciphertext,
	}, nil
}
