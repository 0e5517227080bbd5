package primitive

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/sealbox/sealbox/internal/crypto/domain"
)

// chaCha20Poly1305Cipher implements AEAD using ChaCha20-Poly1305 (RFC 8439).
// Constant-time in software; preferred on platforms without AES acceleration.
type chaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

func newChaCha20Poly1305(key []byte) (*chaCha20Poly1305Cipher, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &chaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a freshly generated 12-byte nonce, with the
// Poly1305 tag appended to the ciphertext.
func (c *chaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext with the provided nonce and AAD.
func (c *chaCha20Poly1305Cipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, domain.ErrDecryptionFailed
	}
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
