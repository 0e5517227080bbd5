package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/crypto/primitive"
)

// fastStretchParams keeps Argon2id cheap in tests.
var fastStretchParams = domain.StretchParams{Time: 1, MemoryKiB: 8 * 1024, Threads: 2}

func testSuite(id domain.SuiteID) domain.SuiteDefinition {
	return domain.SuiteDefinition{
		ID:           id,
		ClassicalKEM: domain.KEMX25519,
		PQCKEM:       domain.KEMMLKEM768,
		AEAD:         domain.AEADAESGCM,
		KDF:          domain.KDFHKDFSHA256,
		Stretch:      fastStretchParams,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T, def domain.SuiteDefinition) *HybridSuiteHandler {
	t.Helper()

	provider := primitive.NewProvider()
	handler, err := NewHybridSuiteHandler(def, provider, NewKeyResolver(provider), testLogger())
	require.NoError(t, err)
	return handler
}

func TestHybridSuiteHandlerEncryptDecrypt(t *testing.T) {
	ctx := context.Background()
	handler := newTestHandler(t, testSuite("hybrid-test-suite"))
	km := domain.PassphraseKeyMaterial([]byte("correct-horse-battery-staple"))

	plaintexts := map[string][]byte{
		"empty":       {},
		"small":       []byte("hello world"),
		"multi block": bytes.Repeat([]byte("0123456789abcdef"), 256),
	}

	for name, plaintext := range plaintexts {
		t.Run(name, func(t *testing.T) {
			bundle, err := handler.Encrypt(ctx, plaintext, km)
			require.NoError(t, err)
			assert.Equal(t, domain.SuiteID("hybrid-test-suite"), bundle.SuiteID)
			assert.Len(t, bundle.KDFSalt, domain.StretchSaltSize)

			raw, err := bundle.Marshal()
			require.NoError(t, err)

			got, err := handler.Decrypt(ctx, raw, km)
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)
		})
	}

	t.Run("fresh salt and nonce per encryption", func(t *testing.T) {
		plaintext := []byte("same plaintext twice")

		b1, err := handler.Encrypt(ctx, plaintext, km)
		require.NoError(t, err)
		b2, err := handler.Encrypt(ctx, plaintext, km)
		require.NoError(t, err)

		assert.NotEqual(t, b1.KDFSalt, b2.KDFSalt)
		assert.NotEqual(t, b1.Nonce, b2.Nonce)
		assert.NotEqual(t, b1.Ciphertext, b2.Ciphertext)
	})
}

func TestHybridSuiteHandlerDecryptFailures(t *testing.T) {
	ctx := context.Background()
	handler := newTestHandler(t, testSuite("hybrid-test-suite"))
	km := domain.PassphraseKeyMaterial([]byte("correct-horse-battery-staple"))

	bundle, err := handler.Encrypt(ctx, []byte("sensitive payload"), km)
	require.NoError(t, err)

	t.Run("wrong passphrase", func(t *testing.T) {
		raw, err := bundle.Marshal()
		require.NoError(t, err)

		wrong := domain.PassphraseKeyMaterial([]byte("hunter2"))
		_, err = handler.Decrypt(ctx, raw, wrong)
		assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
	})

	tampers := map[string]func(b domain.Bundle) domain.Bundle{
		"tampered classical encapsulation": func(b domain.Bundle) domain.Bundle {
			b.ClassicalEncapsulation = flipFirstByte(b.ClassicalEncapsulation)
			return b
		},
		"tampered pqc encapsulation": func(b domain.Bundle) domain.Bundle {
			b.PQCEncapsulation = flipFirstByte(b.PQCEncapsulation)
			return b
		},
		"tampered kdf salt": func(b domain.Bundle) domain.Bundle {
			b.KDFSalt = flipFirstByte(b.KDFSalt)
			return b
		},
		"tampered nonce": func(b domain.Bundle) domain.Bundle {
			b.Nonce = flipFirstByte(b.Nonce)
			return b
		},
		"tampered ciphertext": func(b domain.Bundle) domain.Bundle {
			b.Ciphertext = flipFirstByte(b.Ciphertext)
			return b
		},
	}

	for name, tamper := range tampers {
		t.Run(name, func(t *testing.T) {
			modified := tamper(*bundle)
			raw, err := modified.Marshal()
			require.NoError(t, err)

			_, err = handler.Decrypt(ctx, raw, km)
			assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
		})
	}

	t.Run("unparseable input", func(t *testing.T) {
		_, err := handler.Decrypt(ctx, []byte("not a bundle"), km)
		assert.ErrorIs(t, err, domain.ErrInvalidBundleFormat)
	})
}

func TestHybridSuiteHandlerSuiteBinding(t *testing.T) {
	ctx := context.Background()
	km := domain.PassphraseKeyMaterial([]byte("correct-horse-battery-staple"))

	// Two suites with identical algorithms but different ids.
	handlerA := newTestHandler(t, testSuite("suite-a"))
	handlerB := newTestHandler(t, testSuite("suite-b"))

	bundle, err := handlerA.Encrypt(ctx, []byte("bound to suite-a"), km)
	require.NoError(t, err)

	// Relabeling the bundle must not make it decryptable under the other
	// suite: the suite id participates in key derivation and AEAD AAD.
	bundle.SuiteID = "suite-b"
	raw, err := bundle.Marshal()
	require.NoError(t, err)

	_, err = handlerB.Decrypt(ctx, raw, km)
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestHybridSuiteHandlerKeyFileMode(t *testing.T) {
	ctx := context.Background()
	def := testSuite("hybrid-test-suite")
	handler := newTestHandler(t, def)

	provider := primitive.NewProvider()
	classical, err := provider.KEM(def.ClassicalKEM)
	require.NoError(t, err)
	pqc, err := provider.KEM(def.PQCKEM)
	require.NoError(t, err)

	classicalPK, classicalSK, err := classical.GenerateKeyPair()
	require.NoError(t, err)
	pqcPK, pqcSK, err := pqc.GenerateKeyPair()
	require.NoError(t, err)

	packedClassicalPK, err := classicalPK.MarshalBinary()
	require.NoError(t, err)
	packedPQCPK, err := pqcPK.MarshalBinary()
	require.NoError(t, err)
	packedClassicalSK, err := classicalSK.MarshalBinary()
	require.NoError(t, err)
	packedPQCSK, err := pqcSK.MarshalBinary()
	require.NoError(t, err)

	plaintext := []byte("encrypted to a key file")

	bundle, err := handler.Encrypt(ctx, plaintext, domain.KeyFileMaterial(packedClassicalPK, packedPQCPK))
	require.NoError(t, err)

	raw, err := bundle.Marshal()
	require.NoError(t, err)

	got, err := handler.Decrypt(ctx, raw, domain.KeyFileMaterial(packedClassicalSK, packedPQCSK))
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)

	t.Run("wrong private keys fail", func(t *testing.T) {
		_, otherSK, err := classical.GenerateKeyPair()
		require.NoError(t, err)
		_, otherPQCSK, err := pqc.GenerateKeyPair()
		require.NoError(t, err)

		packedOther, err := otherSK.MarshalBinary()
		require.NoError(t, err)
		packedOtherPQC, err := otherPQCSK.MarshalBinary()
		require.NoError(t, err)

		_, err = handler.Decrypt(ctx, raw, domain.KeyFileMaterial(packedOther, packedOtherPQC))
		assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
	})
}

func TestHybridSuiteHandlerChaCha20Suite(t *testing.T) {
	ctx := context.Background()
	def := domain.SuiteDefinition{
		ID:           "hybrid-p256-test",
		ClassicalKEM: domain.KEMP256,
		PQCKEM:       domain.KEMMLKEM1024,
		AEAD:         domain.AEADChaCha20,
		KDF:          domain.KDFHKDFSHA512,
		Stretch:      fastStretchParams,
	}
	handler := newTestHandler(t, def)
	km := domain.PassphraseKeyMaterial([]byte("correct-horse-battery-staple"))

	plaintext := make([]byte, 1024)
	_, err := rand.Read(plaintext)
	require.NoError(t, err)

	bundle, err := handler.Encrypt(ctx, plaintext, km)
	require.NoError(t, err)

	raw, err := bundle.Marshal()
	require.NoError(t, err)

	got, err := handler.Decrypt(ctx, raw, km)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func flipFirstByte(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	out[0] ^= 0xff
	return out
}
