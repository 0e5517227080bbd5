// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sealbox/sealbox/internal/app"
	cryptoDomain "github.com/sealbox/sealbox/internal/crypto/domain"
)

// Key file name suffixes written by keygen and read back by encrypt/decrypt.
const (
	classicalPrivateSuffix = ".classical.key"
	classicalPublicSuffix  = ".classical.pub"
	pqcPrivateSuffix       = ".pqc.key"
	pqcPublicSuffix        = ".pqc.pub"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// resolveKeyMaterial builds key material from the command flags: a passphrase
// read from the named environment variable, or a pair of key files under the
// given prefix. Passing the passphrase through the environment rather than a
// flag keeps it out of shell history and process listings.
func resolveKeyMaterial(passphraseEnv, keyPrefix string, private bool) (cryptoDomain.KeyMaterial, error) {
	switch {
	case passphraseEnv != "":
		passphrase, ok := os.LookupEnv(passphraseEnv)
		if !ok {
			return cryptoDomain.KeyMaterial{}, fmt.Errorf(
				"environment variable %s is not set", passphraseEnv,
			)
		}
		return cryptoDomain.PassphraseKeyMaterial([]byte(passphrase)), nil

	case keyPrefix != "":
		classicalSuffix, pqcSuffix := classicalPublicSuffix, pqcPublicSuffix
		if private {
			classicalSuffix, pqcSuffix = classicalPrivateSuffix, pqcPrivateSuffix
		}

		classicalKey, err := readKeyFile(keyPrefix + classicalSuffix)
		if err != nil {
			return cryptoDomain.KeyMaterial{}, err
		}
		pqcKey, err := readKeyFile(keyPrefix + pqcSuffix)
		if err != nil {
			cryptoDomain.Zero(classicalKey)
			return cryptoDomain.KeyMaterial{}, err
		}
		return cryptoDomain.KeyFileMaterial(classicalKey, pqcKey), nil

	default:
		return cryptoDomain.KeyMaterial{}, fmt.Errorf(
			"either --passphrase-env or --key-prefix is required",
		)
	}
}

// readKeyFile reads and base64-decodes a key file written by keygen.
func readKeyFile(path string) ([]byte, error) {
	encoded, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode key file %s: %w", path, err)
	}
	return key, nil
}

// writeKeyFile base64-encodes and writes key bytes, owner-readable only.
func writeKeyFile(path string, key []byte) error {
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	return nil
}
