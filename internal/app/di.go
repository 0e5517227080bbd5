// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/sealbox/sealbox/internal/config"
	cryptoDomain "github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/crypto/primitive"
	cryptoService "github.com/sealbox/sealbox/internal/crypto/service"
	cryptoUsecase "github.com/sealbox/sealbox/internal/crypto/usecase"
	"github.com/sealbox/sealbox/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	opMetrics       metrics.OperationMetrics

	// Crypto stack
	provider      primitive.Provider
	resolver      cryptoService.KeyResolver
	suiteRegistry *cryptoService.SuiteRegistry
	hashService   cryptoService.HashService
	cryptoUseCase cryptoUsecase.CryptoUseCase

	// Initialization flags and mutex for thread-safety
	mu                sync.Mutex
	loggerInit        sync.Once
	metricsInit       sync.Once
	providerInit      sync.Once
	resolverInit      sync.Once
	registryInit      sync.Once
	hashServiceInit   sync.Once
	cryptoUseCaseInit sync.Once
	initErrors        map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// PrimitiveProvider returns the cryptographic primitive provider.
func (c *Container) PrimitiveProvider() primitive.Provider {
	c.providerInit.Do(func() {
		c.provider = primitive.NewProvider()
	})
	return c.provider
}

// KeyResolver returns the key material resolver.
func (c *Container) KeyResolver() cryptoService.KeyResolver {
	c.resolverInit.Do(func() {
		c.resolver = cryptoService.NewKeyResolver(c.PrimitiveProvider())
	})
	return c.resolver
}

// OperationMetrics returns the crypto operation metrics, or a no-op
// implementation when metrics are disabled.
func (c *Container) OperationMetrics() (metrics.OperationMetrics, error) {
	var err error
	c.metricsInit.Do(func() {
		c.opMetrics, err = c.initMetrics()
		if err != nil {
			c.initErrors["metrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metrics"]; exists {
		return nil, storedErr
	}
	return c.opMetrics, nil
}

// MetricsProvider returns the Prometheus-backed metrics provider, which is
// nil when metrics are disabled or not yet initialized.
func (c *Container) MetricsProvider() *metrics.Provider {
	return c.metricsProvider
}

// SuiteRegistry returns the built suite registry.
func (c *Container) SuiteRegistry(ctx context.Context) (*cryptoService.SuiteRegistry, error) {
	var err error
	c.registryInit.Do(func() {
		c.suiteRegistry, err = c.initSuiteRegistry(ctx)
		if err != nil {
			c.initErrors["suiteRegistry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["suiteRegistry"]; exists {
		return nil, storedErr
	}
	return c.suiteRegistry, nil
}

// HashService returns the content hashing service.
func (c *Container) HashService() cryptoService.HashService {
	c.hashServiceInit.Do(func() {
		c.hashService = cryptoService.NewHashService(
			cryptoDomain.HashName(c.config.HashAlgorithm),
			c.Logger(),
		)
	})
	return c.hashService
}

// CryptoUseCase returns the agility orchestrator, decorated with metrics.
func (c *Container) CryptoUseCase(ctx context.Context) (cryptoUsecase.CryptoUseCase, error) {
	var err error
	c.cryptoUseCaseInit.Do(func() {
		c.cryptoUseCase, err = c.initCryptoUseCase(ctx)
		if err != nil {
			c.initErrors["cryptoUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoUseCase"]; exists {
		return nil, storedErr
	}
	return c.cryptoUseCase, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Close suite registry if initialized (keeper connections)
	if c.suiteRegistry != nil {
		if err := c.suiteRegistry.Close(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("suite registry close: %w", err))
		}
	}

	// Flush metrics if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics shutdown: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// Logs go to stderr: stdout is reserved for command output.
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initMetrics creates the metrics provider and operation meters, or the no-op
// implementation when metrics are disabled.
func (c *Container) initMetrics() (metrics.OperationMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpOperationMetrics(), nil
	}

	provider, err := metrics.NewProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	c.metricsProvider = provider

	opMetrics, err := metrics.NewOperationMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation metrics: %w", err)
	}
	return opMetrics, nil
}

// initSuiteRegistry validates the configured settings and builds a handler
// for every suite.
func (c *Container) initSuiteRegistry(ctx context.Context) (*cryptoService.SuiteRegistry, error) {
	settings, err := c.config.CryptoSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to build crypto settings: %w", err)
	}

	registry, err := cryptoService.BuildSuiteRegistry(
		ctx,
		settings,
		c.PrimitiveProvider(),
		c.KeyResolver(),
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build suite registry: %w", err)
	}
	return registry, nil
}

// initCryptoUseCase creates the orchestrator with all its dependencies.
func (c *Container) initCryptoUseCase(ctx context.Context) (cryptoUsecase.CryptoUseCase, error) {
	registry, err := c.SuiteRegistry(ctx)
	if err != nil {
		return nil, err
	}

	opMetrics, err := c.OperationMetrics()
	if err != nil {
		return nil, err
	}

	useCase := cryptoUsecase.NewAgilityUseCase(
		registry,
		c.PrimitiveProvider(),
		c.KeyResolver(),
		opMetrics,
		c.Logger(),
	)

	return cryptoUsecase.NewCryptoUseCaseWithMetrics(useCase, opMetrics), nil
}
