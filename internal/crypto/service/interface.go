// Package service implements the suite handlers and supporting services of
// the agility framework: key resolution, hybrid encryption, external keeper
// delegation, the suite registry, and content hashing.
package service

import (
	"context"

	"github.com/cloudflare/circl/kem"

	"github.com/sealbox/sealbox/internal/crypto/domain"
)

// SuiteHandler executes the encrypt and decrypt pipeline of one suite.
//
// Handlers are stateless with respect to requests and safe for concurrent
// use. A handler only ever reads or writes bundles of its own suite; cross
// suite dispatch is the orchestrator's job.
type SuiteHandler interface {
	// SuiteID returns the id of the suite this handler serves.
	SuiteID() domain.SuiteID

	// Encrypt seals plaintext into a new bundle using the given key
	// material. Legacy external suites return ErrEncryptUnsupported.
	Encrypt(ctx context.Context, plaintext []byte, km domain.KeyMaterial) (*domain.Bundle, error)

	// Decrypt recovers plaintext from raw encrypted bytes. Failures are
	// reported as the coarse ErrDecryptionFailed without disclosing which
	// stage failed.
	Decrypt(ctx context.Context, encrypted []byte, km domain.KeyMaterial) ([]byte, error)
}

// KeyResolver turns opaque key material into concrete KEM key pairs for a
// suite. The two directions differ in where the stretch salt comes from:
// encryption mints a fresh salt, decryption replays the salt persisted in the
// bundle.
type KeyResolver interface {
	// ResolveForEncryption produces the public keys (and a fresh salt) used
	// to encapsulate toward the owner of the key material.
	ResolveForEncryption(def domain.SuiteDefinition, km domain.KeyMaterial) (*ResolvedKeys, error)

	// ResolveForDecryption reproduces the private keys using the salt
	// recovered from the bundle.
	ResolveForDecryption(def domain.SuiteDefinition, salt []byte, km domain.KeyMaterial) (*ResolvedKeys, error)
}

// HashService computes content digests with a configurable algorithm.
type HashService interface {
	// Hash returns the lowercase hex digest of data.
	Hash(data []byte) string

	// Algorithm returns the hash algorithm actually in use.
	Algorithm() domain.HashName
}

// ResolvedKeys holds the KEM key pairs produced by a KeyResolver, plus the
// stretch salt that produced them. Only the fields the direction needs are
// populated: encryption gets public keys, decryption gets private keys
// (passphrase derivation populates both).
//
// Callers zeroize with Zero once the operation completes.
type ResolvedKeys struct {
	ClassicalPublic  kem.PublicKey
	ClassicalPrivate kem.PrivateKey
	PQCPublic        kem.PublicKey
	PQCPrivate       kem.PrivateKey

	// Salt is the stretch salt: freshly generated for encryption, replayed
	// from the bundle for decryption.
	Salt []byte

	// retained intermediate secrets (stretched passphrase, KEM seeds),
	// kept only so Zero can wipe them.
	secrets [][]byte
}

// Zero wipes the retained intermediate secrets. The key pair objects
// themselves are dropped to the garbage collector; circl does not expose
// in-place erasure for them.
func (r *ResolvedKeys) Zero() {
	for _, s := range r.secrets {
		domain.Zero(s)
	}
	r.secrets = nil
}
