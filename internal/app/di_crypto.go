package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
	cryptoService "github.com/allisson/envelope/internal/crypto/service"
	cryptoUseCase "github.com/allisson/envelope/internal/crypto/usecase"
	"github.com/allisson/envelope/internal/engine"
)

// RandomSource returns the CSPRNG-backed random source.
func (c *Container) RandomSource() cryptoService.RandomSource {
	c.randomSourceInit.Do(func() {
		c.randomSource = cryptoService.NewRandomSource()
	})
	return c.randomSource
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager(c.RandomSource())
	})
	return c.aeadManager
}

// KeyWrapper returns the secret wrapping service.
func (c *Container) KeyWrapper() cryptoService.KeyWrapper {
	c.keyWrapperInit.Do(func() {
		c.keyWrapper = cryptoService.NewKeyWrapper(c.AEADManager())
	})
	return c.keyWrapper
}

// KeyAgreement returns the X25519 key agreement service.
func (c *Container) KeyAgreement() cryptoService.KeyAgreement {
	c.keyAgreementInit.Do(func() {
		c.keyAgreement = cryptoService.NewX25519(c.RandomSource())
	})
	return c.keyAgreement
}

// HashService returns the SHA-256 hash service.
func (c *Container) HashService() cryptoService.HashService {
	c.hashServiceInit.Do(func() {
		c.hashService = cryptoService.NewSHA256HashService()
	})
	return c.hashService
}

// Observer returns the status observer, which logs at debug level.
func (c *Container) Observer() cryptoDomain.Observer {
	c.observerInit.Do(func() {
		c.observer = engine.NewSlogObserver(c.Logger())
	})
	return c.observer
}

// KDF returns the Argon2id key derivation service with the production parameters.
func (c *Container) KDF() (cryptoService.KDF, error) {
	var err error
	c.kdfInit.Do(func() {
		c.kdf, err = c.initKDF()
		if err != nil {
			c.initErrors["kdf"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kdf"]; exists {
		return nil, storedErr
	}
	return c.kdf, nil
}

// KeyUseCase returns the key lifecycle use case.
func (c *Container) KeyUseCase() (cryptoUseCase.KeyUseCase, error) {
	var err error
	c.keyUseCaseInit.Do(func() {
		c.keyUseCase, err = c.initKeyUseCase()
		if err != nil {
			c.initErrors["keyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyUseCase"]; exists {
		return nil, storedErr
	}
	return c.keyUseCase, nil
}

// FileUseCase returns the file encryption use case.
func (c *Container) FileUseCase() (cryptoUseCase.FileUseCase, error) {
	var err error
	c.fileUseCaseInit.Do(func() {
		c.fileUseCase, err = c.initFileUseCase()
		if err != nil {
			c.initErrors["fileUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileUseCase"]; exists {
		return nil, storedErr
	}
	return c.fileUseCase, nil
}

// Engine returns the host-facing engine.
func (c *Container) Engine() (*engine.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

// initKDF creates the KDF. Invalid parameters are logged at error level since
// they indicate a broken build rather than bad input.
func (c *Container) initKDF() (cryptoService.KDF, error) {
	kdf, err := cryptoService.NewArgon2idKDF(cryptoDomain.DefaultKDFParams(), cryptoDomain.DefaultPepper())
	if err != nil {
		c.Logger().Error("invalid key derivation parameters", "error", err)
		return nil, fmt.Errorf("failed to create kdf: %w", err)
	}
	return kdf, nil
}

// initKeyUseCase creates the key use case, wrapped with metrics if enabled.
func (c *Container) initKeyUseCase() (cryptoUseCase.KeyUseCase, error) {
	kdf, err := c.KDF()
	if err != nil {
		return nil, fmt.Errorf("failed to get kdf for key use case: %w", err)
	}

	baseUseCase := cryptoUseCase.NewKeyUseCase(
		kdf,
		c.KeyWrapper(),
		c.KeyAgreement(),
		c.RandomSource(),
		c.Observer(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for key use case: %w", err)
		}
		return cryptoUseCase.NewKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initFileUseCase creates the file use case, wrapped with metrics if enabled.
func (c *Container) initFileUseCase() (cryptoUseCase.FileUseCase, error) {
	keyUseCase, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for file use case: %w", err)
	}

	baseUseCase := cryptoUseCase.NewFileUseCase(
		keyUseCase,
		c.AEADManager(),
		c.KeyWrapper(),
		c.KeyAgreement(),
		c.RandomSource(),
		c.HashService(),
		c.Observer(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for file use case: %w", err)
		}
		return cryptoUseCase.NewFileUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initEngine creates the engine over the use cases.
func (c *Container) initEngine() (*engine.Engine, error) {
	keyUseCase, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for engine: %w", err)
	}

	fileUseCase, err := c.FileUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get file use case for engine: %w", err)
	}

	return engine.New(keyUseCase, fileUseCase, c.Logger()), nil
}
