package compression

import (
	"fmt"
	"runtime"

	"github.com/iamNilotpal/checksum/internal/core/domain"
)

// DefaultMaxDecodedSize bounds decompression when no limit is configured.
const DefaultMaxDecodedSize uint64 = 256 << 20

// Returns CompressionOptions initialized with values suited to manifest
// files: compression on, balanced level, encoder and decoder concurrency
// left to the library.
func DefaultOptions() *domain.CompressionOptions {
	return &domain.CompressionOptions{
		Enable: true,
		Level:  DefaultLevel,
	}
}

// Checks if the compression options are valid and returns an error if any option
// is outside acceptable bounds.
func Validate(input *domain.CompressionOptions) error {
	if input.Level < FastestLevel || input.Level > BestLevel {
		return fmt.Errorf("compression level must be between %d and %d, got %d", FastestLevel, BestLevel, input.Level)
	}

	if int(input.EncoderConcurrency) > runtime.NumCPU() {
		return fmt.Errorf(
			"encoder concurrency must be between 0 and %d, got %d", runtime.NumCPU(), input.EncoderConcurrency,
		)
	}

	if int(input.DecoderConcurrency) > runtime.NumCPU() {
		return fmt.Errorf(
			"decoder concurrency must be between 0 and %d, got %d", runtime.NumCPU(), input.DecoderConcurrency,
		)
	}

	return nil
}
