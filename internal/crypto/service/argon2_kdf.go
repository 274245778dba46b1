package service

import (
	"fmt"

	"golang.org/x/crypto/argon2"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// Argon2idKDF derives key-encryption keys from a password, a salt and the static pepper.
//
// The password bytes are concatenated with the pepper and hashed with Argon2id,
// keyed by the UTF-8 bytes of the salt. Derivation is deterministic and uses no
// randomness.
type Argon2idKDF struct {
	params cryptoDomain.KDFParams
	pepper []byte
}

// NewArgon2idKDF validates params and pepper and creates the KDF.
//
// Invalid parameters are a build defect, not an input error, and return ErrFatalKDF.
func NewArgon2idKDF(params cryptoDomain.KDFParams, pepper []byte) (*Argon2idKDF, error) {
	switch {
	case params.Iterations < 1:
		return nil, fmt.Errorf("%w: iterations must be at least 1", cryptoDomain.ErrFatalKDF)
	case params.Parallelism < 1:
		return nil, fmt.Errorf("%w: parallelism must be at least 1", cryptoDomain.ErrFatalKDF)
	case params.Memory < 8*uint32(params.Parallelism):
		return nil, fmt.Errorf("%w: memory must be at least 8 KiB per lane", cryptoDomain.ErrFatalKDF)
	case params.KeyLength != cryptoDomain.KeySize:
		return nil, fmt.Errorf("%w: key length must be %d", cryptoDomain.ErrFatalKDF, cryptoDomain.KeySize)
	case len(pepper) != cryptoDomain.PepperSize:
		return nil, fmt.Errorf("%w: pepper must be %d bytes", cryptoDomain.ErrFatalKDF, cryptoDomain.PepperSize)
	}

	p := make([]byte, len(pepper))
	copy(p, pepper)

	return &Argon2idKDF{params: params, pepper: p}, nil
}

// DeriveKEK derives a 32-byte KEK from password and salt.
//
// Empty passwords and salts are accepted; policy belongs to the caller. If the
// primitive fails internally the error matches ErrFatalKDF and no key is returned.
func (k *Argon2idKDF) DeriveKEK(password, salt string) (kek []byte, err error) {
	input := make([]byte, 0, len(password)+len(k.pepper))
	input = append(input, password...)
	input = append(input, k.pepper...)
	defer cryptoDomain.Zero(input)

	defer func() {
		if r := recover(); r != nil {
			cryptoDomain.Zero(kek)
			kek = nil
			err = fmt.Errorf("%w: %v", cryptoDomain.ErrFatalKDF, r)
		}
	}()

	kek = argon2.IDKey(
		input,
		[]byte(salt),
		k.params.Iterations,
		k.params.Memory,
		k.params.Parallelism,
		k.params.KeyLength,
	)
	if len(kek) != cryptoDomain.KeySize {
		cryptoDomain.Zero(kek)
		return nil, fmt.Errorf("%w: derived %d bytes", cryptoDomain.ErrFatalKDF, len(kek))
	}

	return kek, nil
}
