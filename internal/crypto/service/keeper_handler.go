package service

import (
	"context"
	"fmt"
	"log/slog"

	"gocloud.dev/secrets"

	"github.com/sealbox/sealbox/internal/crypto/domain"

	// Register all keeper provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeeperSuiteHandler implements SuiteHandler for legacy external suites: data
// encrypted before the hybrid scheme existed, held in the format of an
// external keeper service (KMS, Vault transit, or a local key).
//
// The handler is decrypt-only. New encryptions under a legacy suite are
// rejected so the fleet converges on hybrid suites through normal
// re-encryption.
type KeeperSuiteHandler struct {
	id     domain.SuiteID
	keeper *secrets.Keeper
	logger *slog.Logger
}

// NewKeeperSuiteHandler opens the keeper named by the suite's URI. Supports
// gcpkms://, awskms://, azurekeyvault://, hashivault://, and base64key://.
func NewKeeperSuiteHandler(
	ctx context.Context,
	def domain.SuiteDefinition,
	logger *slog.Logger,
) (*KeeperSuiteHandler, error) {
	keeper, err := secrets.OpenKeeper(ctx, def.KeeperURI)
	if err != nil {
		return nil, fmt.Errorf("suite %s: failed to open keeper: %w", def.ID, err)
	}

	return &KeeperSuiteHandler{id: def.ID, keeper: keeper, logger: logger}, nil
}

// SuiteID returns the id of the suite this handler serves.
func (h *KeeperSuiteHandler) SuiteID() domain.SuiteID {
	return h.id
}

// Encrypt always fails: legacy external suites cannot originate new bundles.
func (h *KeeperSuiteHandler) Encrypt(
	_ context.Context,
	_ []byte,
	_ domain.KeyMaterial,
) (*domain.Bundle, error) {
	return nil, domain.ErrEncryptUnsupported
}

// Decrypt hands the raw bytes to the external keeper. Legacy data is not in
// the bundle wire format, so no local parsing happens; the keeper either
// recognizes its own format or the attempt fails.
func (h *KeeperSuiteHandler) Decrypt(
	ctx context.Context,
	encrypted []byte,
	_ domain.KeyMaterial,
) ([]byte, error) {
	plaintext, err := h.keeper.Decrypt(ctx, encrypted)
	if err != nil {
		h.logger.DebugContext(ctx, "keeper decryption failed",
			slog.String("suite_id", string(h.id)),
		)
		return nil, domain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// Close releases the keeper connection.
func (h *KeeperSuiteHandler) Close(ctx context.Context) error {
	return h.keeper.Close()
}
