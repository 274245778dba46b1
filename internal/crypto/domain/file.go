package domain

// EncryptedFile is a file payload encrypted with AES-256-GCM.
type EncryptedFile struct {
	Nonce         []byte // 12-byte nonce, fresh per file
	Ciphertext    []byte // encrypted bytes ‖ 16-byte tag
	PlaintextHash string // hex SHA-256 of the plaintext before encryption
}

// DecryptedFile is the result of a successful file decryption.
type DecryptedFile struct {
	Plaintext     []byte
	PlaintextHash string // hex SHA-256 of Plaintext
}

// HybridEncryptedFile is a file encrypted under a single-use DEK that is itself
// wrapped under an X25519 shared secret.
//
// The recipient recovers the DEK from its private key and EphemeralPublicKey.
type HybridEncryptedFile struct {
	EphemeralPublicKey []byte
	WrappedDEK         *WrappedSecret
	File               *EncryptedFile
}

// HybridDecryptInput carries everything the recipient needs for a hybrid decryption.
//
// Password and Salt re-derive the KEK that unwraps the recipient's private key.
type HybridDecryptInput struct {
	Password           string
	Salt               string
	WrappedPrivateKey  *WrappedSecret
	EphemeralPublicKey []byte
	WrappedDEK         *WrappedSecret
	FileNonce          []byte
	Ciphertext         []byte
}
