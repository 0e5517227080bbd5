package domain

import (
	"fmt"
	"strings"

	"github.com/sealbox/sealbox/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors to
// provide context for cryptographic failures. Decryption failures are kept
// deliberately coarse: callers never learn whether the key, the suite, or the
// ciphertext was at fault.
var (
	// ErrUnsupportedAlgorithm indicates a requested KEM, AEAD, or KDF name
	// is not known to the primitive provider.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrUnknownSuite indicates a suite id is not registered in the suite
	// registry. Recoverable: drives the orchestrator into fallback.
	ErrUnknownSuite = errors.Wrap(errors.ErrNotFound, "unknown suite")

	// ErrActiveSuiteUnavailable indicates the configured active encryption
	// suite did not resolve to a working handler. Fatal at startup: a
	// silent fallback here would silently downgrade security.
	ErrActiveSuiteUnavailable = errors.Wrap(errors.ErrConfiguration, "active encryption suite unavailable")

	// ErrInvalidSettings indicates the crypto settings failed validation.
	ErrInvalidSettings = errors.Wrap(errors.ErrConfiguration, "invalid crypto settings")

	// ErrInvalidBundleFormat indicates the bundle header or framing is
	// unparseable. Recoverable: drives fallback to the full ordered list.
	ErrInvalidBundleFormat = errors.Wrap(errors.ErrInvalidInput, "invalid bundle format")

	// ErrDecryptionFailed indicates KEM decapsulation or AEAD
	// authentication failed.
	//
	// This error can occur due to:
	//   - Wrong key material (e.g., wrong passphrase)
	//   - Ciphertext or encapsulation tampered with
	//   - Bundle decrypted under the wrong suite
	//
	// The specific cause is not disclosed to prevent oracle leakage; the
	// failing stage is logged internally for diagnostics.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrEncryptUnsupported indicates the suite cannot originate new
	// bundles (legacy external suites are decrypt-only).
	ErrEncryptUnsupported = errors.Wrap(errors.ErrUnsupported, "suite does not support encryption")

	// ErrInvalidKeyMaterial indicates key material is missing or malformed
	// for the requested operation.
	ErrInvalidKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "invalid key material")
)

// DecryptionAttempt records the outcome of one suite tried during a
// decryption request.
type DecryptionAttempt struct {
	SuiteID SuiteID
	Err     error
}

// AggregateDecryptionError is the terminal failure returned when every
// configured suite has been tried without success. It carries the list of
// attempted suite ids for diagnostics, never key material or intermediate
// secrets.
type AggregateDecryptionError struct {
	Attempts []DecryptionAttempt
}

// Error returns a single clear message rather than per-attempt cryptographic
// detail.
func (e *AggregateDecryptionError) Error() string {
	ids := make([]string, len(e.Attempts))
	for i, attempt := range e.Attempts {
		ids[i] = string(attempt.SuiteID)
	}
	return fmt.Sprintf(
		"could not decrypt with any configured suite (attempted: %s)",
		strings.Join(ids, ", "),
	)
}

// Unwrap matches the aggregate against ErrDecryptionFailed so callers can use
// errors.Is without inspecting attempts.
func (e *AggregateDecryptionError) Unwrap() error {
	return ErrDecryptionFailed
}

// AttemptedSuites returns the suite ids tried, in order.
func (e *AggregateDecryptionError) AttemptedSuites() []SuiteID {
	ids := make([]SuiteID, len(e.Attempts))
	for i, attempt := range e.Attempts {
		ids[i] = attempt.SuiteID
	}
	return ids
}
