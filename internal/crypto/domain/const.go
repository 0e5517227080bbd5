// Package domain defines the core types of the cryptographic agility
// framework: suite definitions, crypto settings, key material, and the
// encrypted bundle with its on-disk codec.
package domain

// SuiteID identifies one algorithm combination. A suite id, once used to
// encrypt any persisted bundle, must never be redefined with different
// algorithms: doing so breaks historical decryptability.
type SuiteID string

// KEMName identifies a key encapsulation mechanism supported by the
// primitive provider.
type KEMName string

const (
	// KEMX25519 is the X25519 Diffie-Hellman KEM with HKDF-SHA-256
	// (RFC 9180 DHKEM). Classical leg of a hybrid suite.
	KEMX25519 KEMName = "x25519-hkdf-sha256"

	// KEMP256 is the NIST P-256 Diffie-Hellman KEM with HKDF-SHA-256
	// (RFC 9180 DHKEM). Classical leg of a hybrid suite.
	KEMP256 KEMName = "p256-hkdf-sha256"

	// KEMMLKEM768 is the ML-KEM-768 post-quantum KEM (FIPS 203).
	KEMMLKEM768 KEMName = "ml-kem-768"

	// KEMMLKEM1024 is the ML-KEM-1024 post-quantum KEM (FIPS 203).
	KEMMLKEM1024 KEMName = "ml-kem-1024"
)

// AEADName identifies an authenticated encryption algorithm.
//
// Both supported algorithms provide Authenticated Encryption with Associated
// Data, use a 256-bit key, a 12-byte nonce, and a 16-byte authentication tag
// appended to the ciphertext.
type AEADName string

const (
	// AEADAESGCM is AES-256-GCM. Preferred on CPUs with AES-NI.
	AEADAESGCM AEADName = "aes-gcm"

	// AEADChaCha20 is ChaCha20-Poly1305 (RFC 8439). Constant-time in
	// software, preferred on platforms without AES acceleration.
	AEADChaCha20 AEADName = "chacha20-poly1305"
)

// KDFName identifies a key derivation function.
type KDFName string

const (
	// KDFHKDFSHA256 is HKDF with SHA-256 (RFC 5869).
	KDFHKDFSHA256 KDFName = "hkdf-sha256"

	// KDFHKDFSHA512 is HKDF with SHA-512 (RFC 5869).
	KDFHKDFSHA512 KDFName = "hkdf-sha512"
)

// HashName identifies a hash algorithm for the integrity hashing facade.
type HashName string

const (
	// HashSHA256 is SHA-256. The safe default when an unknown name is
	// configured.
	HashSHA256 HashName = "sha256"

	// HashSHA512 is SHA-512.
	HashSHA512 HashName = "sha512"

	// HashSHA3256 is SHA3-256.
	HashSHA3256 HashName = "sha3-256"

	// HashBLAKE2b256 is BLAKE2b with a 256-bit digest.
	HashBLAKE2b256 HashName = "blake2b-256"
)

const (
	// SymmetricKeySize is the size in bytes of the AEAD key derived from
	// the combined KEM shared secrets.
	SymmetricKeySize = 32

	// StretchSaltSize is the size in bytes of the per-encryption salt fed
	// to the passphrase stretch and the hybrid key combiner.
	StretchSaltSize = 32

	// MaxSuiteIDLength is the maximum length of a suite id persisted in a
	// bundle header.
	MaxSuiteIDLength = 255
)
