package service

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"log/slog"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/sealbox/sealbox/internal/crypto/domain"
)

// standardHashService implements HashService over a fixed digest function
// chosen at construction time.
type standardHashService struct {
	name   domain.HashName
	digest func([]byte) []byte
}

// NewHashService creates a hash service for the configured algorithm. An
// unknown name falls back to SHA-256 with a logged warning rather than
// failing: hashing is an integrity aid, and a typo in its config should not
// stop the process.
func NewHashService(name domain.HashName, logger *slog.Logger) HashService {
	digest, ok := digestFor(name)
	if !ok {
		logger.Warn("unknown hash algorithm, falling back to sha256",
			slog.String("configured", string(name)),
		)
		name = domain.HashSHA256
		digest, _ = digestFor(domain.HashSHA256)
	}

	return &standardHashService{name: name, digest: digest}
}

func digestFor(name domain.HashName) (func([]byte) []byte, bool) {
	switch name {
	case domain.HashSHA256:
		return func(data []byte) []byte {
			sum := sha256.Sum256(data)
			return sum[:]
		}, true
	case domain.HashSHA512:
		return func(data []byte) []byte {
			sum := sha512.Sum512(data)
			return sum[:]
		}, true
	case domain.HashSHA3256:
		return func(data []byte) []byte {
			sum := sha3.Sum256(data)
			return sum[:]
		}, true
	case domain.HashBLAKE2b256:
		return func(data []byte) []byte {
			sum := blake2b.Sum256(data)
			return sum[:]
		}, true
	default:
		return nil, false
	}
}

// Hash returns the lowercase hex digest of data.
func (s *standardHashService) Hash(data []byte) string {
	return hex.EncodeToString(s.digest(data))
}

// Algorithm returns the hash algorithm actually in use, which differs from
// the configured one only after a fallback.
func (s *standardHashService) Algorithm() domain.HashName {
	return s.name
}
