// Package checksum is the public entry point for SHA-256 content checksums.
//
// A Checksum is a 32 byte value. It is produced by streaming content through
// SHA-256 in 1MB chunks, or by parsing its 64 character hex form, and is
// compared against the live content of a file with MatchesFile.
package checksum

import (
	"context"
	"io"
	"sync"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	svc "github.com/iamNilotpal/checksum/internal/core/services/checksum"
)

// Checksum is a SHA-256 digest. Values are comparable with ==.
type Checksum = domain.Checksum

var (
	// ErrDecode is wrapped by parse failures caused by non-hex input.
	ErrDecode = domain.ErrDecode

	// ErrLength is wrapped by parse failures caused by input not encoding 32 bytes.
	ErrLength = domain.ErrLength
)

var defaultService = sync.OnceValue(func() *svc.Service {
	// Default options always validate.
	s, err := svc.New(nil)
	if err != nil {
		panic(err)
	}
	return s
})

// Compute hashes r until it is exhausted.
func Compute(ctx context.Context, r io.Reader) (Checksum, error) {
	return defaultService().ComputeFromStream(ctx, r)
}

// ComputeFile hashes the content of the file at path.
func ComputeFile(ctx context.Context, path string) (Checksum, error) {
	return defaultService().ComputeFromFile(ctx, path)
}

// Parse decodes a hex digest. Use errors.Is with ErrDecode or ErrLength to
// learn why parsing failed.
func Parse(s string) (Checksum, error) {
	return domain.ParseChecksum(s)
}

// MatchesFile reports whether the file at path currently hashes to c.
// An error means the file could not be checked, not that it differs.
func MatchesFile(ctx context.Context, c Checksum, path string) (bool, error) {
	return defaultService().MatchesFile(ctx, c, path)
}
