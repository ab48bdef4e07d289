package ports

import (
	"context"
	"io"

	"github.com/iamNilotpal/checksum/internal/core/domain"
)

// ChecksumPort streams a byte source through a digest.
type ChecksumPort interface {
	// Compute reads r until it is exhausted and returns the digest of every
	// byte delivered along with the number of bytes hashed. On error the zero
	// Checksum is returned; partial digests are never exposed.
	Compute(ctx context.Context, r io.Reader) (domain.Checksum, int64, error)

	// ChunkSize returns the capacity of the read buffer used per computation.
	ChunkSize() int

	// Name returns the digest algorithm name.
	Name() string
}
