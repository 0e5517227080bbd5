package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/cloudflare/circl/kem"

	"github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/crypto/primitive"
)

// combineLabel domain-separates the hybrid key combiner; the suite id is
// appended so the same shared secrets never yield the same AEAD key under two
// suites.
const combineLabel = "sealbox:v1:hybrid-combine:"

// HybridSuiteHandler implements SuiteHandler for hybrid suites: a classical
// KEM and a post-quantum KEM run side by side, their shared secrets are
// combined through the KDF, and the result keys the AEAD.
//
// The security property is an OR: breaking the scheme requires breaking BOTH
// KEMs. The combiner length-frames each secret before concatenation so no
// boundary ambiguity exists between the two legs.
type HybridSuiteHandler struct {
	def       domain.SuiteDefinition
	classical kem.Scheme
	pqc       kem.Scheme
	provider  primitive.Provider
	resolver  KeyResolver
	logger    *slog.Logger
}

// NewHybridSuiteHandler creates a handler for the given hybrid suite
// definition. Fails if any algorithm the suite names is not supported by the
// provider, so a misconfigured suite is caught at registry build time rather
// than on first use.
func NewHybridSuiteHandler(
	def domain.SuiteDefinition,
	provider primitive.Provider,
	resolver KeyResolver,
	logger *slog.Logger,
) (*HybridSuiteHandler, error) {
	classical, err := provider.KEM(def.ClassicalKEM)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", def.ID, err)
	}
	pqc, err := provider.KEM(def.PQCKEM)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", def.ID, err)
	}
	if _, err := provider.KDF(def.KDF); err != nil {
		return nil, fmt.Errorf("suite %s: %w", def.ID, err)
	}

	return &HybridSuiteHandler{
		def:       def,
		classical: classical,
		pqc:       pqc,
		provider:  provider,
		resolver:  resolver,
		logger:    logger,
	}, nil
}

// SuiteID returns the id of the suite this handler serves.
func (h *HybridSuiteHandler) SuiteID() domain.SuiteID {
	return h.def.ID
}

// Encrypt runs the hybrid encryption pipeline: resolve keys, encapsulate to
// both KEMs, combine the shared secrets, derive the AEAD key, and seal the
// plaintext with the suite id as AAD. Every call produces a fresh salt,
// fresh encapsulations, and a fresh nonce.
func (h *HybridSuiteHandler) Encrypt(
	ctx context.Context,
	plaintext []byte,
	km domain.KeyMaterial,
) (*domain.Bundle, error) {
	keys, err := h.resolver.ResolveForEncryption(h.def, km)
	if err != nil {
		return nil, err
	}
	defer keys.Zero()

	classicalCT, classicalSS, err := h.classical.Encapsulate(keys.ClassicalPublic)
	if err != nil {
		return nil, fmt.Errorf("classical encapsulation failed: %w", err)
	}
	defer domain.Zero(classicalSS)

	pqcCT, pqcSS, err := h.pqc.Encapsulate(keys.PQCPublic)
	if err != nil {
		return nil, fmt.Errorf("pqc encapsulation failed: %w", err)
	}
	defer domain.Zero(pqcSS)

	key, err := h.combineAndDerive(classicalSS, pqcSS, keys.Salt)
	if err != nil {
		return nil, err
	}
	defer domain.Zero(key)

	aead, err := h.provider.AEADCipher(h.def.AEAD, key)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, []byte(h.def.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to seal plaintext: %w", err)
	}

	h.logger.DebugContext(ctx, "encrypted bundle",
		slog.String("suite_id", string(h.def.ID)),
		slog.Int("plaintext_size", len(plaintext)),
	)

	return &domain.Bundle{
		SuiteID:                h.def.ID,
		ClassicalEncapsulation: classicalCT,
		PQCEncapsulation:       pqcCT,
		KDFSalt:                keys.Salt,
		Nonce:                  nonce,
		Ciphertext:             ciphertext,
	}, nil
}

// Decrypt reverses the pipeline. All key-dependent failures collapse into
// ErrDecryptionFailed; the failing stage is logged at debug level only, so
// callers cannot distinguish wrong passphrase from tampered ciphertext.
func (h *HybridSuiteHandler) Decrypt(
	ctx context.Context,
	encrypted []byte,
	km domain.KeyMaterial,
) ([]byte, error) {
	bundle, err := domain.UnmarshalBundle(encrypted)
	if err != nil {
		return nil, err
	}

	keys, err := h.resolver.ResolveForDecryption(h.def, bundle.KDFSalt, km)
	if err != nil {
		return nil, err
	}
	defer keys.Zero()

	classicalSS, err := h.classical.Decapsulate(keys.ClassicalPrivate, bundle.ClassicalEncapsulation)
	if err != nil {
		h.logDecryptStage(ctx, "classical decapsulation")
		return nil, domain.ErrDecryptionFailed
	}
	defer domain.Zero(classicalSS)

	pqcSS, err := h.pqc.Decapsulate(keys.PQCPrivate, bundle.PQCEncapsulation)
	if err != nil {
		h.logDecryptStage(ctx, "pqc decapsulation")
		return nil, domain.ErrDecryptionFailed
	}
	defer domain.Zero(pqcSS)

	key, err := h.combineAndDerive(classicalSS, pqcSS, bundle.KDFSalt)
	if err != nil {
		return nil, err
	}
	defer domain.Zero(key)

	aead, err := h.provider.AEADCipher(h.def.AEAD, key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(bundle.Ciphertext, bundle.Nonce, []byte(h.def.ID))
	if err != nil {
		h.logDecryptStage(ctx, "aead authentication")
		return nil, domain.ErrDecryptionFailed
	}

	return plaintext, nil
}

// combineAndDerive length-frames the two shared secrets, concatenates them,
// and derives the AEAD key through the suite's KDF with the per-encryption
// salt and the suite-bound combine label.
func (h *HybridSuiteHandler) combineAndDerive(classicalSS, pqcSS, salt []byte) ([]byte, error) {
	combined := make([]byte, 0, 4+len(classicalSS)+len(pqcSS))
	combined = binary.BigEndian.AppendUint16(combined, uint16(len(classicalSS)))
	combined = append(combined, classicalSS...)
	combined = binary.BigEndian.AppendUint16(combined, uint16(len(pqcSS)))
	combined = append(combined, pqcSS...)
	defer domain.Zero(combined)

	kdf, err := h.provider.KDF(h.def.KDF)
	if err != nil {
		return nil, err
	}

	key, err := kdf(combined, salt, []byte(combineLabel+string(h.def.ID)), domain.SymmetricKeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive aead key: %w", err)
	}
	return key, nil
}

func (h *HybridSuiteHandler) logDecryptStage(ctx context.Context, stage string) {
	h.logger.DebugContext(ctx, "decryption stage failed",
		slog.String("suite_id", string(h.def.ID)),
		slog.String("stage", stage),
	)
}
