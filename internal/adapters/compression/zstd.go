// Package compression provides manifest compression using the zstd algorithm.
package compression

import (
	"fmt"
	"sync"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/klauspost/compress/zstd"
)

// ZstdCompression implements CompressionPort using zstd. Compress always
// returns a zstd frame; deciding whether compressed output is worth keeping
// is left to the caller, which must record that choice alongside the data.
type ZstdCompression struct {
	level   uint8         // Current compression level (1-4)
	mu      sync.RWMutex  // Protects encoder and decoder against Close
	decoder *zstd.Decoder // Thread-safe decoder instance for decompression
	encoder *zstd.Encoder // Thread-safe encoder instance for compression
}

// Compression levels map one to one onto zstd.EncoderLevel.
const (
	FastestLevel uint8 = uint8(zstd.SpeedFastest)           // Optimized for speed with minimal compression
	DefaultLevel uint8 = uint8(zstd.SpeedDefault)           // Balanced between speed and compression ratio
	BetterLevel  uint8 = uint8(zstd.SpeedBetterCompression) // Better ratio at 2x-3x CPU
	BestLevel    uint8 = uint8(zstd.SpeedBestCompression)   // Maximum compression ratio, higher CPU usage
)

// NewZstdCompression creates a zstd compressor from opts.
//
// Returns an error if:
// - The options are invalid
// - The encoder or decoder initialization fails
func NewZstdCompression(opts *domain.CompressionOptions) (*ZstdCompression, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := Validate(opts); err != nil {
		return nil, err
	}

	encoderOpts := []zstd.EOption{zstd.WithEncoderLevel(zstd.EncoderLevel(opts.Level))}
	if opts.EncoderConcurrency > 0 {
		encoderOpts = append(encoderOpts, zstd.WithEncoderConcurrency(int(opts.EncoderConcurrency)))
	}

	encoder, err := zstd.NewWriter(nil, encoderOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	maxDecoded := opts.MaxDecodedSize
	if maxDecoded == 0 {
		maxDecoded = DefaultMaxDecodedSize
	}

	decoderOpts := []zstd.DOption{zstd.WithDecoderMaxMemory(maxDecoded)}
	if opts.DecoderConcurrency > 0 {
		decoderOpts = append(decoderOpts, zstd.WithDecoderConcurrency(int(opts.DecoderConcurrency)))
	}

	decoder, err := zstd.NewReader(nil, decoderOpts...)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &ZstdCompression{encoder: encoder, decoder: decoder, level: opts.Level}, nil
}

// Compress encodes data as a single zstd frame.
// The operation is thread-safe and can be called concurrently.
func (z *ZstdCompression) Compress(data []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.encoder == nil {
		return nil, fmt.Errorf("compression closed")
	}
	return z.encoder.EncodeAll(data, nil), nil
}

// Decompress restores the original data from its compressed form.
// The operation is thread-safe and can be called concurrently.
func (z *ZstdCompression) Decompress(data []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.decoder == nil {
		return nil, fmt.Errorf("compression closed")
	}

	decompressed, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}

	return decompressed, nil
}

// Level returns the current compression level.
func (z *ZstdCompression) Level() uint8 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.level
}

// Close releases the encoder and decoder. Calling Close more than once is a no-op.
func (z *ZstdCompression) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.encoder == nil {
		return nil
	}

	err := z.encoder.Close()
	z.decoder.Close()
	z.encoder, z.decoder = nil, nil

	if err != nil {
		return fmt.Errorf("error closing encoder : %w", err)
	}
	return nil
}
