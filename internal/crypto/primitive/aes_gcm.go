package primitive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/errors"
)

// AEADCipher builds an AEAD cipher instance for the given algorithm name.
// Returns ErrUnsupportedAlgorithm for unknown names. The key must be exactly
// 32 bytes for both supported algorithms.
func (p *StdProvider) AEADCipher(name domain.AEADName, key []byte) (AEAD, error) {
	if len(key) != domain.SymmetricKeySize {
		return nil, errors.Wrap(
			domain.ErrInvalidKeyMaterial,
			fmt.Sprintf("aead key must be %d bytes, got %d", domain.SymmetricKeySize, len(key)),
		)
	}

	switch name {
	case domain.AEADAESGCM:
		return newAESGCM(key)
	case domain.AEADChaCha20:
		return newChaCha20Poly1305(key)
	default:
		return nil, errors.Wrap(domain.ErrUnsupportedAlgorithm, fmt.Sprintf("aead %q", name))
	}
}

// aesGCMCipher implements AEAD using AES-256-GCM.
//
// The cipher instance is stateless and safe for concurrent use. Each
// encryption generates a unique 12-byte nonce from crypto/rand; nonce reuse
// under the same key is a critical defect, which is why the nonce is never
// accepted from the caller.
type aesGCMCipher struct {
	aead cipher.AEAD
}

func newAESGCM(key []byte) (*aesGCMCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &aesGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a freshly generated nonce. The AAD is
// authenticated but not encrypted; the suite handlers use it to bind the
// ciphertext to the suite identity. The 16-byte tag is appended to the
// returned ciphertext.
func (a *aesGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext with the provided nonce and AAD. Authentication
// failure, a wrong AAD, or a tampered ciphertext all surface as the same
// ErrDecryptionFailed.
func (a *aesGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() {
		return nil, domain.ErrDecryptionFailed
	}
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	if plaintext == nil {
		// Open yields nil for an empty plaintext; an empty message must
		// round-trip to an empty slice, not to "no plaintext".
		plaintext = []byte{}
	}
	return plaintext, nil
}
