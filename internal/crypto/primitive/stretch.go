package primitive

import (
	"golang.org/x/crypto/argon2"

	"github.com/sealbox/sealbox/internal/crypto/domain"
)

// StretchPassphrase runs Argon2id over the passphrase with the given salt and
// parameters, producing 32 bytes of stretched material.
//
// Stretching never fails for a wrong passphrase: it always produces some
// output, and wrongness is only detected later by AEAD authentication
// failure. This prevents a timing distinction between "wrong suite" and
// "wrong passphrase".
func (p *StdProvider) StretchPassphrase(passphrase, salt []byte, params domain.StretchParams) []byte {
	return argon2.IDKey(
		passphrase,
		salt,
		params.Time,
		params.MemoryKiB,
		params.Threads,
		domain.SymmetricKeySize,
	)
}
