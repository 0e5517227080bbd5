package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/crypto/primitive"
	"github.com/sealbox/sealbox/internal/errors"
)

// SuiteRegistry maps suite ids to their handlers and pins the active
// encryption handler plus the ordered decryption fallback list.
//
// A registry is immutable after build: configuration reload builds a new
// registry and the orchestrator swaps it atomically, so in-flight operations
// keep the registry they started with.
type SuiteRegistry struct {
	active   SuiteHandler
	handlers map[domain.SuiteID]SuiteHandler
	order    []SuiteHandler
	logger   *slog.Logger
}

// BuildSuiteRegistry validates the settings and constructs a handler for
// every defined suite.
//
// Failure policy is asymmetric on purpose: if the ACTIVE suite cannot be
// built the whole build fails (a silent fallback would downgrade new
// encryptions), while a non-active suite that fails to build is logged and
// skipped so one broken legacy keeper cannot take decryption down for
// everything else. Unknown ids in the decryption order are likewise logged
// and skipped.
func BuildSuiteRegistry(
	ctx context.Context,
	settings domain.Settings,
	provider primitive.Provider,
	resolver KeyResolver,
	logger *slog.Logger,
) (*SuiteRegistry, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	registry := &SuiteRegistry{
		handlers: make(map[domain.SuiteID]SuiteHandler, len(settings.Suites)),
		logger:   logger,
	}

	for id, def := range settings.Suites {
		handler, err := buildHandler(ctx, def, provider, resolver, logger)
		if err == nil {
			err = registry.Register(handler)
		}
		if err != nil {
			if id == settings.ActiveSuiteID {
				return nil, errors.Wrap(domain.ErrActiveSuiteUnavailable, err.Error())
			}
			logger.WarnContext(ctx, "skipping unavailable suite",
				slog.String("suite_id", string(id)),
				slog.String("error", err.Error()),
			)
		}
	}

	for _, id := range settings.DecryptionOrder {
		handler, ok := registry.handlers[id]
		if !ok {
			logger.WarnContext(ctx, "decryption order names unavailable suite",
				slog.String("suite_id", string(id)),
			)
			continue
		}
		registry.order = append(registry.order, handler)
	}

	registry.active = registry.handlers[settings.ActiveSuiteID]
	return registry, nil
}

// Register binds a handler under its suite id. A suite id is bound at most
// once: rebinding would change the algorithms behind persisted bundles.
func (r *SuiteRegistry) Register(handler SuiteHandler) error {
	id := handler.SuiteID()
	if _, exists := r.handlers[id]; exists {
		return errors.Wrap(
			domain.ErrInvalidSettings,
			fmt.Sprintf("suite %s is already registered", id),
		)
	}
	r.handlers[id] = handler
	return nil
}

func buildHandler(
	ctx context.Context,
	def domain.SuiteDefinition,
	provider primitive.Provider,
	resolver KeyResolver,
	logger *slog.Logger,
) (SuiteHandler, error) {
	if def.IsExternal() {
		return NewKeeperSuiteHandler(ctx, def, logger)
	}
	return NewHybridSuiteHandler(def, provider, resolver, logger)
}

// Handler looks up the handler registered under id.
func (r *SuiteRegistry) Handler(id domain.SuiteID) (SuiteHandler, error) {
	handler, ok := r.handlers[id]
	if !ok {
		return nil, errors.Wrap(domain.ErrUnknownSuite, fmt.Sprintf("suite %s", id))
	}
	return handler, nil
}

// ActiveEncryptionHandler returns the handler all new encryptions go through.
func (r *SuiteRegistry) ActiveEncryptionHandler() SuiteHandler {
	return r.active
}

// DecryptionHandlers returns the configured fallback handlers in attempt
// order. The returned slice is a copy.
func (r *SuiteRegistry) DecryptionHandlers() []SuiteHandler {
	out := make([]SuiteHandler, len(r.order))
	copy(out, r.order)
	return out
}

// Close releases external resources held by handlers (keeper connections).
func (r *SuiteRegistry) Close(ctx context.Context) error {
	var firstErr error
	for id, handler := range r.handlers {
		closer, ok := handler.(interface{ Close(context.Context) error })
		if !ok {
			continue
		}
		if err := closer.Close(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close suite %s: %w", id, err)
		}
	}
	return firstErr
}
