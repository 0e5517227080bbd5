package primitive

import (
	"fmt"

	"github.com/cloudflare/circl/hpke"
	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"

	"github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/errors"
)

// kemSchemes maps configured KEM names to circl schemes. The DH-based
// classical KEMs come from circl's RFC 9180 DHKEM implementations; the
// post-quantum KEMs are FIPS 203 ML-KEM. All schemes support deterministic
// DeriveKeyPair, which the key resolver uses for passphrase-derived keys.
var kemSchemes = map[domain.KEMName]kem.Scheme{
	domain.KEMX25519:    hpke.KEM_X25519_HKDF_SHA256.Scheme(),
	domain.KEMP256:      hpke.KEM_P256_HKDF_SHA256.Scheme(),
	domain.KEMMLKEM768:  mlkem768.Scheme(),
	domain.KEMMLKEM1024: mlkem1024.Scheme(),
}

// KEM returns the KEM scheme registered under name.
func (p *StdProvider) KEM(name domain.KEMName) (kem.Scheme, error) {
	scheme, ok := kemSchemes[name]
	if !ok {
		return nil, errors.Wrap(domain.ErrUnsupportedAlgorithm, fmt.Sprintf("kem %q", name))
	}
	return scheme, nil
}
