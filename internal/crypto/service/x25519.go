package service

import (
	"golang.org/x/crypto/curve25519"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// X25519Service implements the KeyAgreement interface using Curve25519 Diffie-Hellman.
//
// Private scalars are clamped by the primitive itself. The shared secret is used
// directly as a 32-byte key with no additional KDF step.
type X25519Service struct {
	random RandomSource
}

// NewX25519 creates a new X25519Service that draws private scalars from random.
func NewX25519(random RandomSource) *X25519Service {
	return &X25519Service{random: random}
}

// GenerateKeyPair creates a fresh key pair. The public key is the private scalar
// multiplied by the curve base point.
func (x *X25519Service) GenerateKeyPair() (*cryptoDomain.KeyPair, error) {
	privateKey, err := x.random.Key()
	if err != nil {
		return nil, err
	}

	publicKey, err := curve25519.X25519(privateKey, curve25519.Basepoint)
	if err != nil {
		cryptoDomain.Zero(privateKey)
		return nil, cryptoDomain.ErrLowOrderPoint
	}

	return &cryptoDomain.KeyPair{PrivateKey: privateKey, PublicKey: publicKey}, nil
}

// SharedSecret computes X25519(privateKey, peerPublicKey).
//
// Both inputs must be 32 bytes. A low-order peer public key yields an all-zero
// result and is rejected with ErrLowOrderPoint.
func (x *X25519Service) SharedSecret(privateKey, peerPublicKey []byte) ([]byte, error) {
	if err := cryptoDomain.CheckLength("private_key", privateKey, cryptoDomain.KeySize); err != nil {
		return nil, err
	}
	if err := cryptoDomain.CheckLength("public_key", peerPublicKey, cryptoDomain.KeySize); err != nil {
		return nil, err
	}

	shared, err := curve25519.X25519(privateKey, peerPublicKey)
	if err != nil {
		return nil, cryptoDomain.ErrLowOrderPoint
	}
	return shared, nil
}
