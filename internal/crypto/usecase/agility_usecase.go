package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	cryptoDomain "github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/crypto/primitive"
	cryptoService "github.com/sealbox/sealbox/internal/crypto/service"
	"github.com/sealbox/sealbox/internal/metrics"
)

// agilityUseCase implements CryptoUseCase over an atomically swappable suite
// registry.
//
// Decryption runs in up to three phases:
//  1. Probe: peek the suite id from the bundle header without full parsing.
//  2. Targeted: if the id resolves to a registered handler, try it first.
//  3. Fallback: walk the configured decryption order, skipping the suite
//     already tried, until one succeeds or all fail.
//
// The phases exist so the common case (well-formed current bundle) costs one
// attempt, while unreadable headers and legacy formats still decrypt.
type agilityUseCase struct {
	registry atomic.Pointer[cryptoService.SuiteRegistry]
	provider primitive.Provider
	resolver cryptoService.KeyResolver
	metrics  metrics.OperationMetrics
	logger   *slog.Logger
}

// NewAgilityUseCase creates the orchestrator over an already built registry.
func NewAgilityUseCase(
	registry *cryptoService.SuiteRegistry,
	provider primitive.Provider,
	resolver cryptoService.KeyResolver,
	m metrics.OperationMetrics,
	logger *slog.Logger,
) CryptoUseCase {
	u := &agilityUseCase{
		provider: provider,
		resolver: resolver,
		metrics:  m,
		logger:   logger,
	}
	u.registry.Store(registry)
	return u
}

// Encrypt seals plaintext under the active suite.
func (u *agilityUseCase) Encrypt(
	ctx context.Context,
	plaintext []byte,
	km cryptoDomain.KeyMaterial,
) ([]byte, error) {
	requestID := uuid.Must(uuid.NewV7()).String()
	handler := u.registry.Load().ActiveEncryptionHandler()

	bundle, err := handler.Encrypt(ctx, plaintext, km)
	if err != nil {
		u.logger.ErrorContext(ctx, "encryption failed",
			slog.String("request_id", requestID),
			slog.String("suite_id", string(handler.SuiteID())),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	raw, err := bundle.Marshal()
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "encrypted",
		slog.String("request_id", requestID),
		slog.String("suite_id", string(handler.SuiteID())),
		slog.Int("bundle_size", len(raw)),
	)
	return raw, nil
}

// Decrypt runs the probe, targeted, and fallback phases.
func (u *agilityUseCase) Decrypt(
	ctx context.Context,
	encrypted []byte,
	km cryptoDomain.KeyMaterial,
) ([]byte, error) {
	requestID := uuid.Must(uuid.NewV7()).String()
	registry := u.registry.Load()

	var attempts []cryptoDomain.DecryptionAttempt
	var triedSuiteID cryptoDomain.SuiteID

	// Probe + targeted phase.
	if suiteID, err := cryptoDomain.PeekSuiteID(encrypted); err == nil {
		if handler, err := registry.Handler(suiteID); err == nil {
			plaintext, err := handler.Decrypt(ctx, encrypted, km)
			if err == nil {
				u.metrics.RecordFallbackDepth(ctx, 1)
				u.logDecrypted(ctx, requestID, suiteID, 1)
				return plaintext, nil
			}
			triedSuiteID = suiteID
			attempts = append(attempts, cryptoDomain.DecryptionAttempt{SuiteID: suiteID, Err: err})
		} else {
			u.logger.DebugContext(ctx, "bundle names unregistered suite, falling back",
				slog.String("request_id", requestID),
				slog.String("suite_id", string(suiteID)),
			)
		}
	} else {
		u.logger.DebugContext(ctx, "unreadable header, falling back",
			slog.String("request_id", requestID),
		)
	}

	// Fallback phase: walk the configured order, skipping what the targeted
	// phase already tried.
	for _, handler := range registry.DecryptionHandlers() {
		if handler.SuiteID() == triedSuiteID {
			continue
		}

		plaintext, err := handler.Decrypt(ctx, encrypted, km)
		if err == nil {
			depth := len(attempts) + 1
			u.metrics.RecordFallbackDepth(ctx, depth)
			u.logDecrypted(ctx, requestID, handler.SuiteID(), depth)
			return plaintext, nil
		}
		attempts = append(attempts, cryptoDomain.DecryptionAttempt{SuiteID: handler.SuiteID(), Err: err})
	}

	aggErr := &cryptoDomain.AggregateDecryptionError{Attempts: attempts}
	u.metrics.RecordFallbackDepth(ctx, len(attempts))
	u.logger.WarnContext(ctx, "decryption exhausted all suites",
		slog.String("request_id", requestID),
		slog.Any("attempted_suites", aggErr.AttemptedSuites()),
	)
	return nil, aggErr
}

// ActiveSuiteID reports the suite currently used for new encryptions.
func (u *agilityUseCase) ActiveSuiteID() cryptoDomain.SuiteID {
	return u.registry.Load().ActiveEncryptionHandler().SuiteID()
}

// Reload builds a registry from the new settings and swaps it in. In-flight
// operations finish against the registry they loaded; the old registry's
// external connections are closed once the swap is visible.
func (u *agilityUseCase) Reload(ctx context.Context, settings cryptoDomain.Settings) error {
	registry, err := cryptoService.BuildSuiteRegistry(ctx, settings, u.provider, u.resolver, u.logger)
	if err != nil {
		u.logger.ErrorContext(ctx, "reload rejected, keeping previous settings",
			slog.String("error", err.Error()),
		)
		return err
	}

	old := u.registry.Swap(registry)
	if old != nil {
		if err := old.Close(ctx); err != nil {
			u.logger.WarnContext(ctx, "failed to close previous registry",
				slog.String("error", err.Error()),
			)
		}
	}

	u.logger.InfoContext(ctx, "crypto settings reloaded",
		slog.String("active_suite_id", string(settings.ActiveSuiteID)),
	)
	return nil
}

func (u *agilityUseCase) logDecrypted(
	ctx context.Context,
	requestID string,
	suiteID cryptoDomain.SuiteID,
	depth int,
) {
	u.logger.InfoContext(ctx, "decrypted",
		slog.String("request_id", requestID),
		slog.String("suite_id", string(suiteID)),
		slog.Int("attempts", depth),
	)
}
