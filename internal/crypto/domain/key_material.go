package domain

// KeyMaterialMode discriminates how key pairs are obtained for a suite.
type KeyMaterialMode int

const (
	// PassphraseDerived derives both KEM key pairs from a passphrase via
	// the stretch-then-derive pipeline.
	PassphraseDerived KeyMaterialMode = iota + 1

	// ExternalKeyFile uses externally supplied packed key pairs.
	ExternalKeyFile
)

// KeyMaterial carries the secret inputs for a single encrypt or decrypt call.
//
// It is never logged, never cached, and must not outlive the call that needs
// it; callers zeroize it with Zero once the operation returns.
type KeyMaterial struct {
	Mode KeyMaterialMode

	// Passphrase is the opaque passphrase bytes (PassphraseDerived mode).
	Passphrase []byte

	// ClassicalKey and PQCKey hold packed private keys for decryption, or
	// packed public keys for encryption (ExternalKeyFile mode).
	ClassicalKey []byte
	PQCKey       []byte
}

// PassphraseKeyMaterial builds key material that derives key pairs from the
// given passphrase.
func PassphraseKeyMaterial(passphrase []byte) KeyMaterial {
	return KeyMaterial{Mode: PassphraseDerived, Passphrase: passphrase}
}

// KeyFileMaterial builds key material from externally supplied packed keys.
func KeyFileMaterial(classicalKey, pqcKey []byte) KeyMaterial {
	return KeyMaterial{Mode: ExternalKeyFile, ClassicalKey: classicalKey, PQCKey: pqcKey}
}

// Zero clears all secret bytes held by the key material.
func (k *KeyMaterial) Zero() {
	Zero(k.Passphrase)
	Zero(k.ClassicalKey)
	Zero(k.PQCKey)
	k.Passphrase = nil
	k.ClassicalKey = nil
	k.PQCKey = nil
}
