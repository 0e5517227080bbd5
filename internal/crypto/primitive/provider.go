// Package primitive supplies the cryptographic primitives consumed by the
// suite handlers: KEM schemes, AEAD ciphers, KDFs, and passphrase stretching,
// each identified by a short algorithm name.
//
// The package is the only place that touches the underlying crypto libraries
// (cloudflare/circl, golang.org/x/crypto, crypto/aes); everything above it
// works against the Provider interface.
package primitive

import (
	"github.com/cloudflare/circl/kem"

	"github.com/sealbox/sealbox/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext
	// (with the authentication tag appended) and the fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// KDF derives out of length bytes from input key material, a salt, and a
// domain-separation info string.
type KDF func(ikm, salt, info []byte, length int) ([]byte, error)

// Provider resolves algorithm names to primitive implementations.
type Provider interface {
	// KEM returns the KEM scheme registered under name.
	KEM(name domain.KEMName) (kem.Scheme, error)

	// AEADCipher builds an AEAD cipher instance for name using key.
	AEADCipher(name domain.AEADName, key []byte) (AEAD, error)

	// KDF returns the key derivation function registered under name.
	KDF(name domain.KDFName) (KDF, error)

	// StretchPassphrase runs the memory-hard passphrase stretch with the
	// given salt and parameters. It always produces output; a wrong
	// passphrase is only detected later by AEAD authentication failure.
	StretchPassphrase(passphrase, salt []byte, params domain.StretchParams) []byte
}

// StdProvider implements Provider with circl KEMs, stdlib and x/crypto AEADs,
// HKDF, and Argon2id.
type StdProvider struct{}

// NewProvider creates the standard primitive provider.
func NewProvider() *StdProvider {
	return &StdProvider{}
}
