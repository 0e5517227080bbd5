package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sealbox/sealbox/internal/crypto/domain"
)

func TestHashService(t *testing.T) {
	data := []byte("hello world")

	t.Run("sha256 known vector", func(t *testing.T) {
		svc := NewHashService(domain.HashSHA256, testLogger())
		assert.Equal(t,
			"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
			svc.Hash(data),
		)
		assert.Equal(t, domain.HashSHA256, svc.Algorithm())
	})

	t.Run("digest sizes", func(t *testing.T) {
		sizes := map[domain.HashName]int{
			domain.HashSHA256:     64,
			domain.HashSHA512:     128,
			domain.HashSHA3256:    64,
			domain.HashBLAKE2b256: 64,
		}
		for name, hexLen := range sizes {
			svc := NewHashService(name, testLogger())
			assert.Len(t, svc.Hash(data), hexLen, string(name))
			assert.Equal(t, name, svc.Algorithm())
		}
	})

	t.Run("same input same digest", func(t *testing.T) {
		svc := NewHashService(domain.HashBLAKE2b256, testLogger())
		assert.Equal(t, svc.Hash(data), svc.Hash(data))
		assert.NotEqual(t, svc.Hash(data), svc.Hash([]byte("hello worle")))
	})

	t.Run("unknown algorithm falls back to sha256", func(t *testing.T) {
		svc := NewHashService("md5", testLogger())
		assert.Equal(t, domain.HashSHA256, svc.Algorithm())
		assert.Equal(t,
			"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
			svc.Hash(data),
		)
	})
}
