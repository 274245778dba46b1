package domain

// Sizes of every fixed-length value handled by the engine, in bytes.
//
// All symmetric keys (KEK, master key, DEK, shared secret) and X25519 scalars and
// points are 32 bytes. AES-256-GCM uses a 12-byte nonce and appends a 16-byte
// authentication tag, so a wrapped 32-byte secret is always 48 bytes.
const (
	KeySize           = 32
	NonceSize         = 12
	TagSize           = 16
	WrappedSecretSize = KeySize + TagSize
)

// SecretRole names the semantic role a wrapped 32-byte secret plays.
//
// The same wrap/unwrap primitive serves every role; the role only appears in
// error messages, log attributes and metric labels.
type SecretRole string

const (
	// RoleMasterKey is the per-user symmetric key used for direct file encryption.
	RoleMasterKey SecretRole = "master_key"

	// RolePrivateKey is the per-user X25519 private scalar used in hybrid mode.
	RolePrivateKey SecretRole = "private_key"

	// RoleDEK is a per-file data-encryption key wrapped under an ECDH shared secret.
	RoleDEK SecretRole = "dek"
)
