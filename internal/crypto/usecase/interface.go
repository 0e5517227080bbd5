// Package usecase implements the agility orchestrator: the single entry point
// for encryption and decryption that hides suite selection, fallback, and
// configuration reload from callers.
package usecase

import (
	"context"

	"github.com/sealbox/sealbox/internal/crypto/domain"
)

// CryptoUseCase is the outward-facing crypto API. Callers never pick a suite:
// encryption always uses the active suite, decryption resolves the suite from
// the data or falls back through the configured order.
type CryptoUseCase interface {
	// Encrypt seals plaintext under the active suite and returns the
	// serialized bundle.
	Encrypt(ctx context.Context, plaintext []byte, km domain.KeyMaterial) ([]byte, error)

	// Decrypt recovers plaintext from serialized bundle bytes or legacy
	// ciphertext. When every applicable suite fails, the returned error is
	// an *domain.AggregateDecryptionError.
	Decrypt(ctx context.Context, encrypted []byte, km domain.KeyMaterial) ([]byte, error)

	// ActiveSuiteID reports the suite currently used for new encryptions.
	ActiveSuiteID() domain.SuiteID

	// Reload rebuilds the suite registry from new settings and swaps it
	// atomically. On failure the previous registry stays in place.
	Reload(ctx context.Context, settings domain.Settings) error
}
