// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"

	cryptoDomain "github.com/sealbox/sealbox/internal/crypto/domain"
)

// Built-in suite ids. Once any bundle has been written under one of these
// ids, its algorithm bindings must never change.
const (
	// SuiteHybridX25519MLKEM768 is the default active suite.
	SuiteHybridX25519MLKEM768 cryptoDomain.SuiteID = "hybrid-x25519-mlkem768-aesgcm"

	// SuiteHybridP256MLKEM1024 is the higher-margin alternative suite.
	SuiteHybridP256MLKEM1024 cryptoDomain.SuiteID = "hybrid-p256-mlkem1024-chacha20"

	// SuiteExternalKeeper is the legacy decrypt-only suite backed by an
	// external keeper. Registered only when KEEPER_URI is set.
	SuiteExternalKeeper cryptoDomain.SuiteID = "external-keeper"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// ActiveSuiteID is the suite used for all new encryptions.
	ActiveSuiteID string
	// DecryptionAttemptOrder is a comma-separated list of suite ids tried,
	// in order, when a bundle cannot be dispatched by its header.
	DecryptionAttemptOrder string

	// Argon2Time is the number of Argon2id passes for passphrase stretching.
	Argon2Time int
	// Argon2MemoryKiB is the Argon2id memory cost in KiB.
	Argon2MemoryKiB int
	// Argon2Threads is the Argon2id parallelism degree.
	Argon2Threads int

	// KeeperURI is the gocloud.dev keeper URI for the legacy external
	// suite (e.g., "hashivault://keyname"). Empty disables the suite.
	KeeperURI string

	// HashAlgorithm selects the content hash (sha256, sha512, sha3-256,
	// blake2b-256).
	HashAlgorithm string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		ActiveSuiteID: env.GetString("ACTIVE_SUITE_ID", string(SuiteHybridX25519MLKEM768)),
		DecryptionAttemptOrder: env.GetString(
			"DECRYPTION_ATTEMPT_ORDER",
			strings.Join([]string{
				string(SuiteHybridX25519MLKEM768),
				string(SuiteHybridP256MLKEM1024),
				string(SuiteExternalKeeper),
			}, ","),
		),

		Argon2Time:      env.GetInt("ARGON2_TIME", 3),
		Argon2MemoryKiB: env.GetInt("ARGON2_MEMORY_KIB", 64*1024),
		Argon2Threads:   env.GetInt("ARGON2_THREADS", 4),

		KeeperURI: env.GetString("KEEPER_URI", ""),

		HashAlgorithm: env.GetString("HASH_ALGORITHM", string(cryptoDomain.HashSHA256)),

		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "sealbox"),
	}
}

// CryptoSettings assembles the suite table from the configuration: the two
// built-in hybrid suites, plus the external keeper suite when a keeper URI is
// configured. Suite ids named in the decryption order that are not defined
// are carried through; the registry logs and skips them.
func (c *Config) CryptoSettings() (cryptoDomain.Settings, error) {
	stretch := cryptoDomain.StretchParams{
		Time:      uint32(c.Argon2Time),
		MemoryKiB: uint32(c.Argon2MemoryKiB),
		Threads:   uint8(c.Argon2Threads),
	}

	suites := map[cryptoDomain.SuiteID]cryptoDomain.SuiteDefinition{
		SuiteHybridX25519MLKEM768: {
			ID:           SuiteHybridX25519MLKEM768,
			ClassicalKEM: cryptoDomain.KEMX25519,
			PQCKEM:       cryptoDomain.KEMMLKEM768,
			AEAD:         cryptoDomain.AEADAESGCM,
			KDF:          cryptoDomain.KDFHKDFSHA256,
			Stretch:      stretch,
		},
		SuiteHybridP256MLKEM1024: {
			ID:           SuiteHybridP256MLKEM1024,
			ClassicalKEM: cryptoDomain.KEMP256,
			PQCKEM:       cryptoDomain.KEMMLKEM1024,
			AEAD:         cryptoDomain.AEADChaCha20,
			KDF:          cryptoDomain.KDFHKDFSHA512,
			Stretch:      stretch,
		},
	}

	if c.KeeperURI != "" {
		suites[SuiteExternalKeeper] = cryptoDomain.SuiteDefinition{
			ID:        SuiteExternalKeeper,
			KeeperURI: c.KeeperURI,
		}
	}

	var order []cryptoDomain.SuiteID
	for _, id := range strings.Split(c.DecryptionAttemptOrder, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		order = append(order, cryptoDomain.SuiteID(id))
	}

	settings := cryptoDomain.Settings{
		ActiveSuiteID:   cryptoDomain.SuiteID(c.ActiveSuiteID),
		DecryptionOrder: order,
		Suites:          suites,
	}

	if err := settings.Validate(); err != nil {
		return cryptoDomain.Settings{}, err
	}
	return settings, nil
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
