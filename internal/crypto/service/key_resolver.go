package service

import (
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/kem"

	"github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/crypto/primitive"
	"github.com/sealbox/sealbox/internal/errors"
)

// Domain separation labels for deriving per-leg KEM seeds from the stretched
// passphrase. The suite id is appended so the same passphrase yields
// independent key pairs under different suites.
const (
	classicalSeedLabel = "sealbox:v1:classical-kem-seed:"
	pqcSeedLabel       = "sealbox:v1:pqc-kem-seed:"
)

// StandardKeyResolver implements KeyResolver for both key material modes.
//
// Passphrase mode runs the full pipeline: Argon2id stretch, HKDF seed
// expansion with per-leg labels, deterministic KEM key pair derivation. A
// wrong passphrase still produces well-formed key pairs; wrongness only
// surfaces later as AEAD authentication failure, so no passphrase oracle
// exists before that point.
//
// Key file mode skips derivation and unpacks the supplied key bytes directly.
type StandardKeyResolver struct {
	provider primitive.Provider
}

// NewKeyResolver creates a StandardKeyResolver backed by the given primitive
// provider.
func NewKeyResolver(provider primitive.Provider) *StandardKeyResolver {
	return &StandardKeyResolver{provider: provider}
}

// ResolveForEncryption produces public keys and a fresh stretch salt.
func (r *StandardKeyResolver) ResolveForEncryption(
	def domain.SuiteDefinition,
	km domain.KeyMaterial,
) (*ResolvedKeys, error) {
	classical, pqc, err := r.schemes(def)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, domain.StretchSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	switch km.Mode {
	case domain.PassphraseDerived:
		return r.deriveKeyPairs(def, salt, km.Passphrase, classical, pqc)
	case domain.ExternalKeyFile:
		classicalPK, err := classical.UnmarshalBinaryPublicKey(km.ClassicalKey)
		if err != nil {
			return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "classical public key: "+err.Error())
		}
		pqcPK, err := pqc.UnmarshalBinaryPublicKey(km.PQCKey)
		if err != nil {
			return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "pqc public key: "+err.Error())
		}
		return &ResolvedKeys{ClassicalPublic: classicalPK, PQCPublic: pqcPK, Salt: salt}, nil
	default:
		return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "unknown key material mode")
	}
}

// ResolveForDecryption reproduces private keys from the bundle's salt.
func (r *StandardKeyResolver) ResolveForDecryption(
	def domain.SuiteDefinition,
	salt []byte,
	km domain.KeyMaterial,
) (*ResolvedKeys, error) {
	classical, pqc, err := r.schemes(def)
	if err != nil {
		return nil, err
	}

	switch km.Mode {
	case domain.PassphraseDerived:
		return r.deriveKeyPairs(def, salt, km.Passphrase, classical, pqc)
	case domain.ExternalKeyFile:
		classicalSK, err := classical.UnmarshalBinaryPrivateKey(km.ClassicalKey)
		if err != nil {
			return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "classical private key: "+err.Error())
		}
		pqcSK, err := pqc.UnmarshalBinaryPrivateKey(km.PQCKey)
		if err != nil {
			return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "pqc private key: "+err.Error())
		}
		return &ResolvedKeys{ClassicalPrivate: classicalSK, PQCPrivate: pqcSK, Salt: salt}, nil
	default:
		return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "unknown key material mode")
	}
}

func (r *StandardKeyResolver) schemes(def domain.SuiteDefinition) (classical, pqc kem.Scheme, err error) {
	classical, err = r.provider.KEM(def.ClassicalKEM)
	if err != nil {
		return nil, nil, err
	}
	pqc, err = r.provider.KEM(def.PQCKEM)
	if err != nil {
		return nil, nil, err
	}
	return classical, pqc, nil
}

// deriveKeyPairs runs stretch, seed expansion, and deterministic key pair
// derivation for both KEM legs. The same passphrase and salt always reproduce
// the same key pairs, which is what makes passphrase-only decryption work.
func (r *StandardKeyResolver) deriveKeyPairs(
	def domain.SuiteDefinition,
	salt, passphrase []byte,
	classical, pqc kem.Scheme,
) (*ResolvedKeys, error) {
	stretched := r.provider.StretchPassphrase(passphrase, salt, def.Stretch)

	kdf, err := r.provider.KDF(def.KDF)
	if err != nil {
		domain.Zero(stretched)
		return nil, err
	}

	classicalSeed, err := kdf(stretched, salt, []byte(classicalSeedLabel+string(def.ID)), classical.SeedSize())
	if err != nil {
		domain.Zero(stretched)
		return nil, fmt.Errorf("failed to derive classical seed: %w", err)
	}
	pqcSeed, err := kdf(stretched, salt, []byte(pqcSeedLabel+string(def.ID)), pqc.SeedSize())
	if err != nil {
		domain.Zero(stretched)
		domain.Zero(classicalSeed)
		return nil, fmt.Errorf("failed to derive pqc seed: %w", err)
	}

	classicalPK, classicalSK := classical.DeriveKeyPair(classicalSeed)
	pqcPK, pqcSK := pqc.DeriveKeyPair(pqcSeed)

	return &ResolvedKeys{
		ClassicalPublic:  classicalPK,
		ClassicalPrivate: classicalSK,
		PQCPublic:        pqcPK,
		PQCPrivate:       pqcSK,
		Salt:             salt,
		secrets:          [][]byte{stretched, classicalSeed, pqcSeed},
	}, nil
}
