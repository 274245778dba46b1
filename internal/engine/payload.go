package engine

// WrappedKeyHex is a wrapped 32-byte secret. WrappedKey is 96 hex characters and
// Nonce is 24; they are always carried separately.
type WrappedKeyHex struct {
	WrappedKey string `json:"wrapped_key" yaml:"wrapped_key"`
	Nonce      string `json:"nonce" yaml:"nonce"`
}

// WrappedKeyPairHex is an X25519 public key plus its password-wrapped private key.
type WrappedKeyPairHex struct {
	PublicKey         string `json:"public_key" yaml:"public_key"`
	WrappedPrivateKey string `json:"wrapped_private_key" yaml:"wrapped_private_key"`
	Nonce             string `json:"nonce" yaml:"nonce"`
}

// EncryptedFileOutput is the result of a direct file encryption.
// Ciphertext is raw bytes (data followed by the 16-byte tag).
type EncryptedFileOutput struct {
	Ciphertext    []byte `json:"-" yaml:"-"`
	Nonce         string `json:"nonce" yaml:"nonce"`
	PlaintextHash string `json:"hash" yaml:"hash"`
}

// DecryptedFileOutput is the result of a file decryption.
type DecryptedFileOutput struct {
	Plaintext     []byte `json:"-" yaml:"-"`
	PlaintextHash string `json:"hash" yaml:"hash"`
}

// HybridEncryptedFileOutput is everything a recipient needs, besides their own
// wrapped private key and password, to decrypt a hybrid-encrypted file.
type HybridEncryptedFileOutput struct {
	EphemeralPublicKey string `json:"ephemeral_public_key" yaml:"ephemeral_public_key"`
	WrappedDEK         string `json:"wrapped_dek" yaml:"wrapped_dek"`
	DEKNonce           string `json:"dek_nonce" yaml:"dek_nonce"`
	FileNonce          string `json:"file_nonce" yaml:"file_nonce"`
	Ciphertext         []byte `json:"-" yaml:"-"`
	PlaintextHash      string `json:"hash" yaml:"hash"`
}

// HybridDecryptRequest carries the inputs of hybrid_decrypt_file. Every field
// except Password, Salt and Ciphertext is hex.
type HybridDecryptRequest struct {
	Password           string
	Salt               string
	WrappedPrivateKey  string
	PrivateKeyNonce    string
	EphemeralPublicKey string
	WrappedDEK         string
	DEKNonce           string
	FileNonce          string
	Ciphertext         []byte
}
