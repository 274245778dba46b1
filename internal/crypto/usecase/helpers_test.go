package usecase

import (
	"context"
	"sync"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
	cryptoService "github.com/allisson/envelope/internal/crypto/service"
)

var testKDFParams = cryptoDomain.KDFParams{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
	KeyLength:   cryptoDomain.KeySize,
}

// recordingObserver keeps every status message it receives.
type recordingObserver struct {
	mu       sync.Mutex
	messages []string
}

func (o *recordingObserver) Observe(_ context.Context, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, status)
}

func (o *recordingObserver) Messages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.messages...)
}

type testUseCases struct {
	keys     KeyUseCase
	files    FileUseCase
	random   cryptoService.RandomSource
	observer *recordingObserver
}

func newTestUseCases() *testUseCases {
	random := cryptoService.NewRandomSource()
	aeadManager := cryptoService.NewAEADManager(random)
	keyWrapper := cryptoService.NewKeyWrapper(aeadManager)
	keyAgreement := cryptoService.NewX25519(random)
	kdf, err := cryptoService.NewArgon2idKDF(testKDFParams, cryptoDomain.DefaultPepper())
	if err != nil {
		panic(err)
	}
	observer := &recordingObserver{}

	keys := NewKeyUseCase(kdf, keyWrapper, keyAgreement, random, observer)
	files := NewFileUseCase(
		keys,
		aeadManager,
		keyWrapper,
		keyAgreement,
		random,
		cryptoService.NewSHA256HashService(),
		observer,
	)

	return &testUseCases{keys: keys, files: files, random: random, observer: observer}
}
