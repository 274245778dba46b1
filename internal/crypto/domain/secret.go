// Package domain defines the core models of the envelope-encryption engine.
//
// It implements a password-rooted key hierarchy: password + pepper -> KEK -> master key
// or X25519 private key, and private key + ephemeral public key -> shared secret -> DEK.
// Every symmetric key is 32 bytes and every AEAD operation is AES-256-GCM.
package domain

// WrappedSecret is a 32-byte secret encrypted under a key-encryption key.
//
// Blob is always ciphertext (32 bytes) immediately followed by the 16-byte tag.
// The nonce is carried alongside and never embedded in the blob.
type WrappedSecret struct {
	Nonce []byte // 12-byte AES-GCM nonce
	Blob  []byte // 48-byte ciphertext ‖ tag
}

// KeyPair is an X25519 key pair.
type KeyPair struct {
	PrivateKey []byte // 32-byte scalar, never persisted in plaintext
	PublicKey  []byte // 32-byte point
}

// Zero clears the private scalar.
func (k *KeyPair) Zero() {
	if k == nil {
		return
	}
	Zero(k.PrivateKey)
}

// WrappedKeyPair is a public key plus its private key wrapped under a password-derived KEK.
type WrappedKeyPair struct {
	PublicKey         []byte
	WrappedPrivateKey *WrappedSecret
}
