package domain

import (
	"fmt"

	validation "github.com/jellydator/validation"

	"github.com/sealbox/sealbox/internal/errors"
)

// StretchParams are the Argon2id parameters used to stretch a passphrase
// before it becomes KEM key material. The stretch exists specifically to
// defend low-entropy passphrases; parameters are part of the suite definition
// so that historical bundles remain decryptable after a parameter bump.
type StretchParams struct {
	// Time is the number of Argon2id passes.
	Time uint32
	// MemoryKiB is the Argon2id memory cost in KiB.
	MemoryKiB uint32
	// Threads is the Argon2id parallelism degree.
	Threads uint8
}

// DefaultStretchParams returns the baseline Argon2id parameters
// (3 passes, 64 MiB, 4 lanes).
func DefaultStretchParams() StretchParams {
	return StretchParams{Time: 3, MemoryKiB: 64 * 1024, Threads: 4}
}

// SuiteDefinition identifies one algorithm combination.
//
// A hybrid suite names a classical KEM, a post-quantum KEM, an AEAD cipher,
// and a KDF. A legacy external suite instead names a keeper URI; its
// decryption is delegated to an external service and it cannot encrypt.
type SuiteDefinition struct {
	ID           SuiteID
	ClassicalKEM KEMName
	PQCKEM       KEMName
	AEAD         AEADName
	KDF          KDFName
	Stretch      StretchParams

	// KeeperURI, when non-empty, marks this suite as a legacy external
	// suite backed by a gocloud.dev secrets keeper
	// (e.g. "hashivault://keyname", "base64key://..."). The algorithm
	// fields above are ignored for such suites.
	KeeperURI string
}

// IsExternal reports whether the suite delegates decryption to an external
// keeper service.
func (s SuiteDefinition) IsExternal() bool {
	return s.KeeperURI != ""
}

// Validate checks the suite definition for structural errors. Hybrid suites
// must name all four algorithms; external suites only need the keeper URI.
func (s SuiteDefinition) Validate() error {
	if err := validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required, validation.Length(1, MaxSuiteIDLength)),
	); err != nil {
		return errors.Wrap(ErrInvalidSettings, err.Error())
	}

	if s.IsExternal() {
		return nil
	}

	err := validation.ValidateStruct(&s,
		validation.Field(&s.ClassicalKEM, validation.Required, validation.In(KEMX25519, KEMP256)),
		validation.Field(&s.PQCKEM, validation.Required, validation.In(KEMMLKEM768, KEMMLKEM1024)),
		validation.Field(&s.AEAD, validation.Required, validation.In(AEADAESGCM, AEADChaCha20)),
		validation.Field(&s.KDF, validation.Required, validation.In(KDFHKDFSHA256, KDFHKDFSHA512)),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidSettings, fmt.Sprintf("suite %s: %s", s.ID, err.Error()))
	}

	if s.Stretch.Time == 0 || s.Stretch.MemoryKiB == 0 || s.Stretch.Threads == 0 {
		return errors.Wrap(ErrInvalidSettings, fmt.Sprintf("suite %s: stretch parameters must be non-zero", s.ID))
	}

	return nil
}

// Settings is the process-wide crypto configuration: the active suite for new
// encryptions, the ordered list of suites to try on decryption, and the suite
// definitions themselves.
//
// Settings are built once at startup from validated configuration and treated
// as immutable thereafter. Reloading requires building a new suite registry
// and atomically swapping it; in-flight operations keep the registry they
// started with.
type Settings struct {
	ActiveSuiteID   SuiteID
	DecryptionOrder []SuiteID
	Suites          map[SuiteID]SuiteDefinition
}

// Validate checks the settings as a whole: the active suite must resolve to a
// defined, non-external suite, and every definition must be structurally
// valid. Unknown entries in DecryptionOrder are NOT an error here; the
// registry logs and skips them so one bad entry cannot block the rest.
func (s Settings) Validate() error {
	if s.ActiveSuiteID == "" {
		return errors.Wrap(ErrInvalidSettings, "active suite id is required")
	}
	if len(s.Suites) == 0 {
		return errors.Wrap(ErrInvalidSettings, "at least one suite must be defined")
	}

	active, ok := s.Suites[s.ActiveSuiteID]
	if !ok {
		return errors.Wrap(
			ErrActiveSuiteUnavailable,
			fmt.Sprintf("suite %s is not defined", s.ActiveSuiteID),
		)
	}
	if active.IsExternal() {
		return errors.Wrap(
			ErrActiveSuiteUnavailable,
			fmt.Sprintf("suite %s is external and cannot encrypt", s.ActiveSuiteID),
		)
	}

	for id, def := range s.Suites {
		if id != def.ID {
			return errors.Wrap(
				ErrInvalidSettings,
				fmt.Sprintf("suite map key %s does not match definition id %s", id, def.ID),
			)
		}
		if err := def.Validate(); err != nil {
			return err
		}
	}

	return nil
}
