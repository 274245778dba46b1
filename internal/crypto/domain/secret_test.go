package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyPair_Zero(t *testing.T) {
	t.Run("clears private key only", func(t *testing.T) {
		kp := &KeyPair{
			PrivateKey: []byte{1, 2, 3, 4},
			PublicKey:  []byte{5, 6, 7, 8},
		}
		kp.Zero()
		assert.Equal(t, []byte{0, 0, 0, 0}, kp.PrivateKey)
		assert.Equal(t, []byte{5, 6, 7, 8}, kp.PublicKey)
	})

	t.Run("nil key pair", func(t *testing.T) {
		var kp *KeyPair
		assert.NotPanics(t, func() { kp.Zero() })
	})
}

func TestDefaultKDFParams(t *testing.T) {
	params := DefaultKDFParams()
	assert.Equal(t, uint32(65536), params.Memory)
	assert.Equal(t, uint32(3), params.Iterations)
	assert.Equal(t, uint8(1), params.Parallelism)
	assert.Equal(t, uint32(32), params.KeyLength)
}

func TestDefaultPepper(t *testing.T) {
	p := DefaultPepper()
	assert.Len(t, p, PepperSize)

	// Callers get a copy they may zero.
	Zero(p)
	assert.Len(t, DefaultPepper(), PepperSize)
	assert.NotEqual(t, make([]byte, PepperSize), DefaultPepper())
}

func TestObserverFunc(t *testing.T) {
	var got []string
	obs := ObserverFunc(func(_ context.Context, status string) {
		got = append(got, status)
	})

	obs.Observe(context.Background(), "first")
	obs.Observe(context.Background(), "second")
	NopObserver{}.Observe(context.Background(), "ignored")

	assert.Equal(t, []string{"first", "second"}, got)
}
