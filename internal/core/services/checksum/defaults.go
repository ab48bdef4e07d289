package checksum

import (
	"strings"

	cs "github.com/iamNilotpal/checksum/internal/adapters/checksum"
	"github.com/iamNilotpal/checksum/internal/adapters/compression"
	"github.com/iamNilotpal/checksum/internal/core/domain"
)

func prepareDefaults(opts *domain.ChecksumOptions) *domain.ChecksumOptions {
	if opts == nil {
		return cs.DefaultOptions()
	}

	prepared := *opts
	if prepared.ChunkSize == 0 {
		prepared.ChunkSize = domain.DefaultChunkSize
	}

	if strings.TrimSpace(prepared.SidecarExtension) == "" {
		prepared.SidecarExtension = domain.DefaultSidecarExtension
	}

	if prepared.ManifestOptions == nil {
		prepared.ManifestOptions = &domain.ManifestOptions{}
	} else {
		manifest := *prepared.ManifestOptions
		prepared.ManifestOptions = &manifest
	}

	if prepared.ManifestOptions.Compression == nil {
		prepared.ManifestOptions.Compression = compression.DefaultOptions()
	} else if prepared.ManifestOptions.Compression.Level == 0 {
		compressionOpts := *prepared.ManifestOptions.Compression
		compressionOpts.Level = compression.DefaultLevel
		prepared.ManifestOptions.Compression = &compressionOpts
	}

	return &prepared
}
