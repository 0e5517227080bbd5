package domain

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/sealbox/sealbox/internal/errors"
)

// Bundle wire format, version 1. All integers are big-endian:
//
//	[3 bytes: magic "SBX"]
//	[1 byte:  format version]
//	[2 bytes: suite id length][suite id (UTF-8)]
//	[4 bytes: classical encapsulation length][classical encapsulation]
//	[4 bytes: PQC encapsulation length][PQC encapsulation]
//	[2 bytes: KDF salt length][KDF salt]
//	[2 bytes: AEAD nonce length][AEAD nonce]
//	[4 bytes: ciphertext length][ciphertext || AEAD tag]
//
// The suite id sits directly after the fixed header so any consumer can read
// it without decrypting the rest.
var bundleMagic = [3]byte{'S', 'B', 'X'}

// BundleVersion is the current bundle format version.
const BundleVersion byte = 1

// Bundle is the persisted artifact of one encryption. It carries everything
// needed to attempt decryption except the key material. A bundle is immutable
// once written; re-encryption produces a new bundle.
type Bundle struct {
	// SuiteID is the id of the suite that produced this bundle, written at
	// encryption time and read first at decryption time.
	SuiteID SuiteID

	// ClassicalEncapsulation is the classical KEM encapsulation. For
	// DH-based KEMs this is the serialized ephemeral public key.
	ClassicalEncapsulation []byte

	// PQCEncapsulation is the post-quantum KEM encapsulated key.
	PQCEncapsulation []byte

	// KDFSalt is the per-encryption salt for passphrase stretching and the
	// hybrid key combiner. Fresh and unpredictable for every encryption.
	KDFSalt []byte

	// Nonce is the AEAD nonce, fresh for every encryption.
	Nonce []byte

	// Ciphertext is the AEAD output with the authentication tag appended.
	Ciphertext []byte
}

// Marshal serializes the bundle to its wire format.
func (b *Bundle) Marshal() ([]byte, error) {
	suiteID := []byte(b.SuiteID)
	if len(suiteID) == 0 || len(suiteID) > MaxSuiteIDLength {
		return nil, errors.Wrap(ErrInvalidBundleFormat, "suite id length out of range")
	}

	// Length prefixes are u16/u32; anything larger would truncate silently.
	fields := []struct {
		name string
		size int
		max  uint64
	}{
		{"classical encapsulation", len(b.ClassicalEncapsulation), math.MaxUint32},
		{"pqc encapsulation", len(b.PQCEncapsulation), math.MaxUint32},
		{"kdf salt", len(b.KDFSalt), math.MaxUint16},
		{"nonce", len(b.Nonce), math.MaxUint16},
		{"ciphertext", len(b.Ciphertext), math.MaxUint32},
	}
	for _, f := range fields {
		if uint64(f.size) > f.max {
			return nil, errors.Wrap(ErrInvalidBundleFormat, f.name+" too large to frame")
		}
	}

	size := len(bundleMagic) + 1 +
		2 + len(suiteID) +
		4 + len(b.ClassicalEncapsulation) +
		4 + len(b.PQCEncapsulation) +
		2 + len(b.KDFSalt) +
		2 + len(b.Nonce) +
		4 + len(b.Ciphertext)

	out := make([]byte, 0, size)
	out = append(out, bundleMagic[:]...)
	out = append(out, BundleVersion)
	out = appendBytes16(out, suiteID)
	out = appendBytes32(out, b.ClassicalEncapsulation)
	out = appendBytes32(out, b.PQCEncapsulation)
	out = appendBytes16(out, b.KDFSalt)
	out = appendBytes16(out, b.Nonce)
	out = appendBytes32(out, b.Ciphertext)
	return out, nil
}

// UnmarshalBundle parses a bundle from its wire format. Truncated or
// malformed input is rejected with ErrInvalidBundleFormat; no shared state is
// touched on failure.
func UnmarshalBundle(data []byte) (*Bundle, error) {
	r := bundleReader{data: data}

	if err := r.expectHeader(); err != nil {
		return nil, err
	}

	suiteID, err := r.bytes16("suite id")
	if err != nil {
		return nil, err
	}
	if len(suiteID) == 0 {
		return nil, errors.Wrap(ErrInvalidBundleFormat, "empty suite id")
	}

	classical, err := r.bytes32("classical encapsulation")
	if err != nil {
		return nil, err
	}
	pqc, err := r.bytes32("pqc encapsulation")
	if err != nil {
		return nil, err
	}
	salt, err := r.bytes16("kdf salt")
	if err != nil {
		return nil, err
	}
	nonce, err := r.bytes16("nonce")
	if err != nil {
		return nil, err
	}
	ciphertext, err := r.bytes32("ciphertext")
	if err != nil {
		return nil, err
	}

	if r.remaining() != 0 {
		return nil, errors.Wrap(ErrInvalidBundleFormat, "trailing bytes after ciphertext")
	}

	return &Bundle{
		SuiteID:                SuiteID(suiteID),
		ClassicalEncapsulation: classical,
		PQCEncapsulation:       pqc,
		KDFSalt:                salt,
		Nonce:                  nonce,
		Ciphertext:             ciphertext,
	}, nil
}

// PeekSuiteID reads only the header needed to extract the suite id, without
// validating or parsing the remainder. Cheap and side-effect free; used by
// the orchestrator for fast-path dispatch.
func PeekSuiteID(data []byte) (SuiteID, error) {
	r := bundleReader{data: data}

	if err := r.expectHeader(); err != nil {
		return "", err
	}

	suiteID, err := r.bytes16("suite id")
	if err != nil {
		return "", err
	}
	if len(suiteID) == 0 || !utf8.Valid(suiteID) {
		return "", errors.Wrap(ErrInvalidBundleFormat, "unreadable suite id")
	}

	return SuiteID(suiteID), nil
}

func appendBytes16(out, field []byte) []byte {
	out = binary.BigEndian.AppendUint16(out, uint16(len(field)))
	return append(out, field...)
}

func appendBytes32(out, field []byte) []byte {
	out = binary.BigEndian.AppendUint32(out, uint32(len(field)))
	return append(out, field...)
}

// bundleReader is a cursor over bundle wire bytes. All reads bound-check
// against the remaining input.
type bundleReader struct {
	data []byte
	pos  int
}

func (r *bundleReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *bundleReader) expectHeader() error {
	if r.remaining() < len(bundleMagic)+1 {
		return errors.Wrap(ErrInvalidBundleFormat, "truncated header")
	}
	if r.data[0] != bundleMagic[0] || r.data[1] != bundleMagic[1] || r.data[2] != bundleMagic[2] {
		return errors.Wrap(ErrInvalidBundleFormat, "bad magic")
	}
	if r.data[3] != BundleVersion {
		return errors.Wrap(
			ErrInvalidBundleFormat,
			fmt.Sprintf("unsupported format version %d", r.data[3]),
		)
	}
	r.pos = len(bundleMagic) + 1
	return nil
}

func (r *bundleReader) bytes16(field string) ([]byte, error) {
	if r.remaining() < 2 {
		return nil, errors.Wrap(ErrInvalidBundleFormat, "truncated "+field+" length")
	}
	n := int(binary.BigEndian.Uint16(r.data[r.pos:]))
	r.pos += 2
	return r.take(n, field)
}

func (r *bundleReader) bytes32(field string) ([]byte, error) {
	if r.remaining() < 4 {
		return nil, errors.Wrap(ErrInvalidBundleFormat, "truncated "+field+" length")
	}
	n := int(binary.BigEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	return r.take(n, field)
}

func (r *bundleReader) take(n int, field string) ([]byte, error) {
	if n > r.remaining() {
		return nil, errors.Wrap(ErrInvalidBundleFormat, "truncated "+field)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}
