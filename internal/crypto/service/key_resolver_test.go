package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/crypto/primitive"
)

func TestStandardKeyResolver(t *testing.T) {
	resolver := NewKeyResolver(primitive.NewProvider())
	def := testSuite("hybrid-test-suite")
	passphrase := []byte("correct-horse-battery-staple")

	t.Run("passphrase derivation is deterministic for same salt", func(t *testing.T) {
		salt := make([]byte, domain.StretchSaltSize)

		keys1, err := resolver.ResolveForDecryption(def, salt, domain.PassphraseKeyMaterial(passphrase))
		require.NoError(t, err)
		defer keys1.Zero()

		keys2, err := resolver.ResolveForDecryption(def, salt, domain.PassphraseKeyMaterial(passphrase))
		require.NoError(t, err)
		defer keys2.Zero()

		assert.True(t, keys1.ClassicalPublic.Equal(keys2.ClassicalPublic))
		assert.True(t, keys1.PQCPublic.Equal(keys2.PQCPublic))
	})

	t.Run("different suite id yields different key pairs", func(t *testing.T) {
		salt := make([]byte, domain.StretchSaltSize)
		other := testSuite("another-suite")

		keys1, err := resolver.ResolveForDecryption(def, salt, domain.PassphraseKeyMaterial(passphrase))
		require.NoError(t, err)
		defer keys1.Zero()

		keys2, err := resolver.ResolveForDecryption(other, salt, domain.PassphraseKeyMaterial(passphrase))
		require.NoError(t, err)
		defer keys2.Zero()

		assert.False(t, keys1.ClassicalPublic.Equal(keys2.ClassicalPublic))
		assert.False(t, keys1.PQCPublic.Equal(keys2.PQCPublic))
	})

	t.Run("encryption mints a fresh salt every call", func(t *testing.T) {
		km := domain.PassphraseKeyMaterial(passphrase)

		keys1, err := resolver.ResolveForEncryption(def, km)
		require.NoError(t, err)
		defer keys1.Zero()

		keys2, err := resolver.ResolveForEncryption(def, km)
		require.NoError(t, err)
		defer keys2.Zero()

		assert.Len(t, keys1.Salt, domain.StretchSaltSize)
		assert.NotEqual(t, keys1.Salt, keys2.Salt)
		assert.False(t, keys1.ClassicalPublic.Equal(keys2.ClassicalPublic))
	})

	t.Run("empty passphrase is opaque bytes, not an error", func(t *testing.T) {
		keys, err := resolver.ResolveForEncryption(def, domain.PassphraseKeyMaterial(nil))
		require.NoError(t, err)
		defer keys.Zero()
		assert.NotNil(t, keys.ClassicalPublic)
	})

	t.Run("malformed key file bytes are rejected", func(t *testing.T) {
		km := domain.KeyFileMaterial([]byte("junk"), []byte("junk"))

		_, err := resolver.ResolveForEncryption(def, km)
		assert.ErrorIs(t, err, domain.ErrInvalidKeyMaterial)

		_, err = resolver.ResolveForDecryption(def, make([]byte, domain.StretchSaltSize), km)
		assert.ErrorIs(t, err, domain.ErrInvalidKeyMaterial)
	})

	t.Run("unknown key material mode is rejected", func(t *testing.T) {
		_, err := resolver.ResolveForEncryption(def, domain.KeyMaterial{})
		assert.ErrorIs(t, err, domain.ErrInvalidKeyMaterial)
	})
}
