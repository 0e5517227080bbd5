package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/sealbox/sealbox/internal/crypto/domain"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, string(SuiteHybridX25519MLKEM768), cfg.ActiveSuiteID)
				assert.Equal(t, 3, cfg.Argon2Time)
				assert.Equal(t, 64*1024, cfg.Argon2MemoryKiB)
				assert.Equal(t, 4, cfg.Argon2Threads)
				assert.Equal(t, "", cfg.KeeperURI)
				assert.Equal(t, "sha256", cfg.HashAlgorithm)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "sealbox", cfg.MetricsNamespace)
			},
		},
		{
			name: "load custom suite configuration",
			envVars: map[string]string{
				"ACTIVE_SUITE_ID":          "hybrid-p256-mlkem1024-chacha20",
				"DECRYPTION_ATTEMPT_ORDER": "hybrid-p256-mlkem1024-chacha20,external-keeper",
				"KEEPER_URI":               "hashivault://legacy-key",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "hybrid-p256-mlkem1024-chacha20", cfg.ActiveSuiteID)
				assert.Equal(t, "hybrid-p256-mlkem1024-chacha20,external-keeper", cfg.DecryptionAttemptOrder)
				assert.Equal(t, "hashivault://legacy-key", cfg.KeeperURI)
			},
		},
		{
			name: "load custom stretch configuration",
			envVars: map[string]string{
				"ARGON2_TIME":       "5",
				"ARGON2_MEMORY_KIB": "131072",
				"ARGON2_THREADS":    "8",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Argon2Time)
				assert.Equal(t, 131072, cfg.Argon2MemoryKiB)
				assert.Equal(t, 8, cfg.Argon2Threads)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			// Load configuration
			cfg := Load()

			// Validate
			tt.validate(t, cfg)
		})
	}
}

func TestConfigCryptoSettings(t *testing.T) {
	t.Run("default settings define both hybrid suites", func(t *testing.T) {
		os.Clearenv()
		cfg := Load()

		settings, err := cfg.CryptoSettings()
		require.NoError(t, err)

		assert.Equal(t, SuiteHybridX25519MLKEM768, settings.ActiveSuiteID)
		assert.Len(t, settings.Suites, 2)
		assert.Contains(t, settings.Suites, SuiteHybridX25519MLKEM768)
		assert.Contains(t, settings.Suites, SuiteHybridP256MLKEM1024)

		// The default order names the external suite even when it is not
		// defined; the registry skips it at build time.
		assert.Equal(t, []cryptoDomain.SuiteID{
			SuiteHybridX25519MLKEM768,
			SuiteHybridP256MLKEM1024,
			SuiteExternalKeeper,
		}, settings.DecryptionOrder)

		active := settings.Suites[settings.ActiveSuiteID]
		assert.Equal(t, cryptoDomain.KEMX25519, active.ClassicalKEM)
		assert.Equal(t, cryptoDomain.KEMMLKEM768, active.PQCKEM)
		assert.Equal(t, uint32(3), active.Stretch.Time)
		assert.Equal(t, uint32(64*1024), active.Stretch.MemoryKiB)
	})

	t.Run("keeper uri enables the external suite", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("KEEPER_URI", "hashivault://legacy-key"))
		cfg := Load()

		settings, err := cfg.CryptoSettings()
		require.NoError(t, err)

		require.Contains(t, settings.Suites, SuiteExternalKeeper)
		assert.Equal(t, "hashivault://legacy-key", settings.Suites[SuiteExternalKeeper].KeeperURI)
		assert.True(t, settings.Suites[SuiteExternalKeeper].IsExternal())
	})

	t.Run("unknown active suite is rejected", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("ACTIVE_SUITE_ID", "no-such-suite"))
		cfg := Load()

		_, err := cfg.CryptoSettings()
		assert.ErrorIs(t, err, cryptoDomain.ErrActiveSuiteUnavailable)
	})

	t.Run("external suite cannot be active", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("ACTIVE_SUITE_ID", string(SuiteExternalKeeper)))
		require.NoError(t, os.Setenv("KEEPER_URI", "hashivault://legacy-key"))
		cfg := Load()

		_, err := cfg.CryptoSettings()
		assert.ErrorIs(t, err, cryptoDomain.ErrActiveSuiteUnavailable)
	})

	t.Run("zero stretch parameters are rejected", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("ARGON2_TIME", "0"))
		cfg := Load()

		_, err := cfg.CryptoSettings()
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidSettings)
	})
}
