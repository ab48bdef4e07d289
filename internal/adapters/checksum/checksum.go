package checksum

import (
	"github.com/iamNilotpal/checksum/internal/adapters/compression"
	"github.com/iamNilotpal/checksum/internal/core/domain"
)

// SHA256 is the only digest algorithm. Recorded checksums are compared
// byte for byte, so it must never change.
const SHA256 = "sha256"

const (
	MinChunkSize = 4096             // 4KB
	MaxChunkSize = 16 * 1024 * 1024 // 16MB
)

// Returns recommended checksum settings.
func DefaultOptions() *domain.ChecksumOptions {
	return &domain.ChecksumOptions{
		ChunkSize:        domain.DefaultChunkSize,
		SidecarExtension: domain.DefaultSidecarExtension,
		ManifestOptions: &domain.ManifestOptions{
			Compression: compression.DefaultOptions(),
		},
	}
}
