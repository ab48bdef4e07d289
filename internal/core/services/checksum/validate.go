package checksum

import (
	"fmt"
	"strings"

	cs "github.com/iamNilotpal/checksum/internal/adapters/checksum"
	"github.com/iamNilotpal/checksum/internal/adapters/compression"
	"github.com/iamNilotpal/checksum/internal/core/domain"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

// Validate checks fully populated options. Zero values are not filled in here;
// New applies defaults before validating.
func Validate(opts *domain.ChecksumOptions) error {
	if opts == nil {
		return cerrors.NewValidationError("options", nil, fmt.Errorf("options are required"))
	}

	if err := validateChunkSize(opts.ChunkSize); err != nil {
		return cerrors.NewValidationError("chunkSize", opts.ChunkSize, err)
	}

	ext := opts.SidecarExtension
	if len(ext) < 2 || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
		return cerrors.NewValidationError(
			"sidecarExtension", ext, fmt.Errorf("sidecar extension must start with '.' and name no directory, got %q", ext),
		)
	}

	if opts.ManifestOptions != nil && opts.ManifestOptions.Compression != nil {
		if err := compression.Validate(opts.ManifestOptions.Compression); err != nil {
			return cerrors.NewValidationError("manifestOptions.compression", opts.ManifestOptions.Compression.Level, err)
		}
	}

	return nil
}

func validateChunkSize(size uint32) error {
	if size < cs.MinChunkSize {
		return fmt.Errorf("chunk size must be at least 4KB (4096 bytes), got %d bytes", size)
	}

	if size > cs.MaxChunkSize {
		return fmt.Errorf("chunk size must not exceed 16MB (16777216 bytes), got %d bytes", size)
	}

	// Keeps reads aligned with file system block sizes.
	if size&(size-1) != 0 {
		return fmt.Errorf("chunk size must be a power of 2, got %d bytes", size)
	}

	return nil
}
