package config

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/iamNilotpal/checksum/internal/adapters/compression"
	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/services/checksum"
)

type Config struct {
	LogLevel string         `yaml:"log_level"` // debug, info, warn or error
	Checksum ChecksumConfig `yaml:"checksum"`
	Manifest ManifestConfig `yaml:"manifest"`
}

// Holds checksum computation settings.
type ChecksumConfig struct {
	ChunkSize        uint32 `yaml:"chunk_size"`        // Read buffer size per computation
	SidecarExtension string `yaml:"sidecar_extension"` // Suffix of sidecar checksum files
}

// Holds manifest persistence settings.
type ManifestConfig struct {
	Compress         bool  `yaml:"compress"`          // zstd compress saved manifests
	CompressionLevel uint8 `yaml:"compression_level"` // zstd level (1-4)
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Checksum: ChecksumConfig{
			ChunkSize:        domain.DefaultChunkSize, // 1MB
			SidecarExtension: domain.DefaultSidecarExtension,
		},
		Manifest: ManifestConfig{
			Compress:         true,
			CompressionLevel: compression.DefaultLevel,
		},
	}
}

// Loads configuration from a YAML file. Settings missing from the file keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// ChecksumOptions converts the configuration into service options.
func (c *Config) ChecksumOptions() *domain.ChecksumOptions {
	return &domain.ChecksumOptions{
		ChunkSize:        c.Checksum.ChunkSize,
		SidecarExtension: c.Checksum.SidecarExtension,
		ManifestOptions: &domain.ManifestOptions{
			Compression: &domain.CompressionOptions{
				Enable: c.Manifest.Compress,
				Level:  c.Manifest.CompressionLevel,
			},
		},
	}
}

func validateConfig(config *Config) error {
	if _, err := zapcore.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return checksum.Validate(config.ChecksumOptions())
}
