package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hybridSuite(id SuiteID) SuiteDefinition {
	return SuiteDefinition{
		ID:           id,
		ClassicalKEM: KEMX25519,
		PQCKEM:       KEMMLKEM768,
		AEAD:         AEADAESGCM,
		KDF:          KDFHKDFSHA512,
		Stretch:      DefaultStretchParams(),
	}
}

func TestSuiteDefinitionValidate(t *testing.T) {
	t.Run("valid hybrid suite", func(t *testing.T) {
		assert.NoError(t, hybridSuite("hybrid-a").Validate())
	})

	t.Run("valid external suite needs only id and uri", func(t *testing.T) {
		def := SuiteDefinition{ID: "external-keeper", KeeperURI: "base64key://"}
		assert.NoError(t, def.Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		def := hybridSuite("")
		assert.ErrorIs(t, def.Validate(), ErrInvalidSettings)
	})

	t.Run("unknown classical kem", func(t *testing.T) {
		def := hybridSuite("hybrid-a")
		def.ClassicalKEM = "rsa-4096"
		assert.ErrorIs(t, def.Validate(), ErrInvalidSettings)
	})

	t.Run("unknown aead", func(t *testing.T) {
		def := hybridSuite("hybrid-a")
		def.AEAD = "des-cbc"
		assert.ErrorIs(t, def.Validate(), ErrInvalidSettings)
	})

	t.Run("zero stretch parameters", func(t *testing.T) {
		def := hybridSuite("hybrid-a")
		def.Stretch = StretchParams{}
		assert.ErrorIs(t, def.Validate(), ErrInvalidSettings)
	})
}

func TestSettingsValidate(t *testing.T) {
	validSettings := func() Settings {
		a := hybridSuite("hybrid-a")
		b := hybridSuite("hybrid-b")
		b.AEAD = AEADChaCha20
		return Settings{
			ActiveSuiteID:   "hybrid-a",
			DecryptionOrder: []SuiteID{"hybrid-a", "hybrid-b"},
			Suites:          map[SuiteID]SuiteDefinition{"hybrid-a": a, "hybrid-b": b},
		}
	}

	t.Run("valid settings", func(t *testing.T) {
		require.NoError(t, validSettings().Validate())
	})

	t.Run("missing active suite id", func(t *testing.T) {
		s := validSettings()
		s.ActiveSuiteID = ""
		assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
	})

	t.Run("active suite not defined", func(t *testing.T) {
		s := validSettings()
		s.ActiveSuiteID = "hybrid-z"
		assert.ErrorIs(t, s.Validate(), ErrActiveSuiteUnavailable)
	})

	t.Run("active suite may not be external", func(t *testing.T) {
		s := validSettings()
		s.Suites["external"] = SuiteDefinition{ID: "external", KeeperURI: "base64key://"}
		s.ActiveSuiteID = "external"
		assert.ErrorIs(t, s.Validate(), ErrActiveSuiteUnavailable)
	})

	t.Run("map key must match definition id", func(t *testing.T) {
		s := validSettings()
		s.Suites["mismatch"] = hybridSuite("hybrid-c")
		assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
	})

	t.Run("unknown entries in decryption order are allowed", func(t *testing.T) {
		s := validSettings()
		s.DecryptionOrder = append(s.DecryptionOrder, "retired-suite")
		assert.NoError(t, s.Validate())
	})

	t.Run("empty suites map", func(t *testing.T) {
		s := validSettings()
		s.Suites = nil
		assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
	})
}
