package service

// AEADManagerService implements the AEADManager interface for creating AEAD cipher instances.
type AEADManagerService struct {
	random RandomSource
}

// NewAEADManager creates a new AEADManagerService whose ciphers draw nonces from random.
func NewAEADManager(random RandomSource) *AEADManagerService {
	return &AEADManagerService{random: random}
}

// CreateCipher creates an AES-256-GCM cipher instance.
// Returns a *LengthError if key is not 32 bytes.
func (am *AEADManagerService) CreateCipher(key []byte) (AEAD, error) {
	return NewAESGCM(key, am.random)
}
