package domain

// CompressionOptions configures how persisted manifests are compressed.
type CompressionOptions struct {
	// Enable toggles zstd compression for manifest files.
	// Loading always accepts both compressed and uncompressed manifests.
	Enable bool

	// Level defines the zstd encoder level when compression is enabled.
	// Supported levels:
	//   - 1: Fastest compression
	//   - 2: Default balanced compression (≈ zstd level 3)
	//   - 3: Better compression ratio with 2x-3x CPU usage
	//   - 4: Maximum compression regardless of CPU cost
	// If not specified, the default level will be used.
	Level uint8

	// EncoderConcurrency specifies the number of concurrent compression goroutines.
	// Default is number of CPU cores if set to 0.
	EncoderConcurrency uint8

	// DecoderConcurrency specifies the number of concurrent decompression goroutines.
	// Default is number of CPU cores if set to 0.
	DecoderConcurrency uint8

	// MaxDecodedSize caps the memory a single decompression may allocate.
	// Manifests whose decoded form would exceed it fail to load.
	// Default is 256 MiB if set to 0.
	MaxDecodedSize uint64
}
