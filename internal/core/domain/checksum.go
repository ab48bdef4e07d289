// Package domain defines the core types and configurations for content checksums.
package domain

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

const (
	// ChecksumSize is the length of a SHA-256 digest in bytes.
	ChecksumSize = 32

	// HexSize is the length of the canonical textual form of a Checksum.
	HexSize = ChecksumSize * 2

	// DefaultChunkSize bounds the memory used while streaming a source
	// through the digest. It only affects I/O granularity, never the result.
	DefaultChunkSize = 1024 * 1024 // 1MB

	// DefaultSidecarExtension is appended to a file path to locate the file
	// holding its recorded hex digest.
	DefaultSidecarExtension = ".checksum"
)

// Checksum is a SHA-256 digest of some content. The array type makes the
// length invariant impossible to violate once a value exists.
type Checksum [ChecksumSize]byte

// ChecksumFromBytes copies b into a Checksum. b must be exactly ChecksumSize long.
func ChecksumFromBytes(b []byte) (Checksum, error) {
	var c Checksum
	if len(b) != ChecksumSize {
		return c, cerrors.New(
			cerrors.ErrorLength, "checksum from bytes", "",
			fmt.Errorf("%w: got %d bytes, want %d", ErrLength, len(b), ChecksumSize),
		)
	}
	copy(c[:], b)
	return c, nil
}

// ParseChecksum decodes the hexadecimal form of a digest. Characters outside
// the hex alphabet are reported as ErrDecode; anything that does not decode
// to exactly 32 bytes, odd digit counts included, is reported as ErrLength.
func ParseChecksum(s string) (Checksum, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		if errors.Is(err, hex.ErrLength) {
			return Checksum{}, cerrors.New(
				cerrors.ErrorLength, "parse checksum", "",
				fmt.Errorf("%w: odd number of hex digits (%d)", ErrLength, len(s)),
			)
		}
		return Checksum{}, cerrors.New(
			cerrors.ErrorDecode, "parse checksum", "", fmt.Errorf("%w: %v", ErrDecode, err),
		)
	}

	if len(decoded) != ChecksumSize {
		return Checksum{}, cerrors.New(
			cerrors.ErrorLength, "parse checksum", "",
			fmt.Errorf("%w: decoded %d bytes, want %d", ErrLength, len(decoded), ChecksumSize),
		)
	}

	var c Checksum
	copy(c[:], decoded)
	return c, nil
}

// Hex returns the canonical 64 character lowercase hex form.
func (c Checksum) Hex() string {
	return hex.EncodeToString(c[:])
}

func (c Checksum) String() string {
	return c.Hex()
}

// Bytes returns a copy of the digest bytes.
func (c Checksum) Bytes() []byte {
	b := make([]byte, ChecksumSize)
	copy(b, c[:])
	return b
}

// Equal compares two digests in constant time.
func (c Checksum) Equal(other Checksum) bool {
	return subtle.ConstantTimeCompare(c[:], other[:]) == 1
}

// IsZero reports whether c is the zero value, which is what every failed
// computation returns alongside its error.
func (c Checksum) IsZero() bool {
	return c == Checksum{}
}

func (c Checksum) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Checksum) UnmarshalText(text []byte) error {
	parsed, err := ParseChecksum(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ChecksumOptions defines configuration for checksum computation and for the
// files that persist checksums.
type ChecksumOptions struct {
	// ChunkSize is the capacity of the reusable read buffer each computation
	// owns. Peak memory per computation is bounded by this value.
	// Must be a power of two between 4KB and 16MB.
	//
	// Default: 1MB
	ChunkSize uint32

	// SidecarExtension is appended to a file path to name the file holding
	// the recorded hex digest of that file.
	//
	// Default: ".checksum"
	SidecarExtension string

	// ManifestOptions controls how manifests are persisted.
	ManifestOptions *ManifestOptions
}
