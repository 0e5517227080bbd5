package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/metrics"
)

// cryptoUseCaseWithMetrics decorates CryptoUseCase with operation metrics.
type cryptoUseCaseWithMetrics struct {
	next    CryptoUseCase
	metrics metrics.OperationMetrics
}

// NewCryptoUseCaseWithMetrics wraps a CryptoUseCase with metrics recording.
func NewCryptoUseCaseWithMetrics(useCase CryptoUseCase, m metrics.OperationMetrics) CryptoUseCase {
	return &cryptoUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for encryption operations.
func (c *cryptoUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	plaintext []byte,
	km cryptoDomain.KeyMaterial,
) ([]byte, error) {
	// The active suite is read before the call: a concurrent reload would
	// otherwise relabel this operation with the new suite.
	suite := string(c.next.ActiveSuiteID())

	start := time.Now()
	raw, err := c.next.Encrypt(ctx, plaintext, km)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "encrypt", suite, status)
	c.metrics.RecordDuration(ctx, "encrypt", suite, time.Since(start), status)

	return raw, err
}

// Decrypt records metrics for decryption operations. The suite label is left
// empty: which suite served the request is internal to the orchestrator.
func (c *cryptoUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	encrypted []byte,
	km cryptoDomain.KeyMaterial,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := c.next.Decrypt(ctx, encrypted, km)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "decrypt", "", status)
	c.metrics.RecordDuration(ctx, "decrypt", "", time.Since(start), status)

	return plaintext, err
}

// ActiveSuiteID passes through to the wrapped use case.
func (c *cryptoUseCaseWithMetrics) ActiveSuiteID() cryptoDomain.SuiteID {
	return c.next.ActiveSuiteID()
}

// Reload records metrics for settings reload operations.
func (c *cryptoUseCaseWithMetrics) Reload(ctx context.Context, settings cryptoDomain.Settings) error {
	start := time.Now()
	err := c.next.Reload(ctx, settings)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "reload", "", status)
	c.metrics.RecordDuration(ctx, "reload", "", time.Since(start), status)

	return err
}
