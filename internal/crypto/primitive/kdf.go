package primitive

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/errors"
)

// KDF returns the key derivation function registered under name.
func (p *StdProvider) KDF(name domain.KDFName) (KDF, error) {
	switch name {
	case domain.KDFHKDFSHA256:
		return hkdfWith(sha256.New), nil
	case domain.KDFHKDFSHA512:
		return hkdfWith(sha512.New), nil
	default:
		return nil, errors.Wrap(domain.ErrUnsupportedAlgorithm, fmt.Sprintf("kdf %q", name))
	}
}

// hkdfWith builds an HKDF-based KDF over the given hash. If salt is empty, a
// zero-filled salt of the hash size is used per RFC 5869.
func hkdfWith(h func() hash.Hash) KDF {
	return func(ikm, salt, info []byte, length int) ([]byte, error) {
		if len(salt) == 0 {
			salt = make([]byte, h().Size())
		}

		reader := hkdf.New(h, ikm, salt, info)
		out := make([]byte, length)
		if _, err := io.ReadFull(reader, out); err != nil {
			return nil, fmt.Errorf("failed to derive key: %w", err)
		}

		return out, nil
	}
}
