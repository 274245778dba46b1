package domain

// PepperSize is the length of the application-wide pepper appended to passwords.
const PepperSize = 22

// pepper is the static secret additive mixed into every password before key derivation.
//
// It can be replaced at build time with:
//
//	go build -ldflags "-X github.com/allisson/envelope/internal/crypto/domain.pepper=<22 bytes>"
//
// Changing it makes every previously wrapped secret undecryptable. A pepper shipped
// inside a client binary is readable by anyone holding that binary.
var pepper = "envelope-pepper-v1-key"

// DefaultPepper returns a copy of the build-time pepper.
func DefaultPepper() []byte {
	return []byte(pepper)
}

// KDFParams holds the Argon2id cost parameters.
//
// Fields:
//   - Memory: memory cost in KiB
//   - Iterations: number of passes over memory
//   - Parallelism: number of lanes
//   - KeyLength: output length in bytes
type KDFParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultKDFParams returns the parameters every wrapped secret was created with:
// 64 MiB, 3 iterations, 1 lane, 32-byte output.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 1,
		KeyLength:   KeySize,
	}
}
