// Package manifest records the checksums of every file under a directory and
// later verifies the directory against that record.
package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/iamNilotpal/checksum/internal/adapters/compression"
	localfs "github.com/iamNilotpal/checksum/internal/adapters/fs"
	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/ports"
	"github.com/iamNilotpal/checksum/internal/core/services/checksum"
	"github.com/iamNilotpal/checksum/internal/serialize"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
	"github.com/iamNilotpal/checksum/pkg/logger"
)

// Every manifest file starts with one of these, telling Load whether the
// encoded manifest that follows is zstd compressed.
var (
	magicRaw  = []byte("CKM0")
	magicZstd = []byte("CKMZ")
)

const magicSize = 4

var errNilManifest = cerrors.NewValidationError("manifest", nil, fmt.Errorf("manifest is required"))

// Config holds the collaborators of a Service.
type Config struct {
	// Checksums computes and compares file checksums. Required.
	Checksums *checksum.Service

	Logger     *zap.SugaredLogger
	FileSystem ports.FileSystemPort
}

// Service builds, verifies and persists manifests. Files are hashed one
// after another, never concurrently.
type Service struct {
	checksums  *checksum.Service
	fs         ports.FileSystemPort
	compressor ports.CompressionPort
	compress   bool
	logger     *zap.SugaredLogger
}

// New returns a Service using the manifest options of the checksum service.
// Close releases the compressor.
func New(config *Config) (*Service, error) {
	if config == nil || config.Checksums == nil {
		return nil, cerrors.NewValidationError("checksums", nil, fmt.Errorf("checksum service is required"))
	}

	compressionOpts := config.Checksums.Options().ManifestOptions.Compression
	compressor, err := compression.NewZstdCompression(compressionOpts)
	if err != nil {
		return nil, err
	}

	svc := Service{
		checksums:  config.Checksums,
		fs:         config.FileSystem,
		compressor: compressor,
		compress:   compressionOpts.Enable,
		logger:     config.Logger,
	}

	if svc.fs == nil {
		svc.fs = localfs.NewLocalFileSystem()
	}
	if svc.logger == nil {
		svc.logger = logger.NewNop()
	}

	return &svc, nil
}

// Build hashes every regular file under root, in lexical path order.
func (s *Service) Build(ctx context.Context, root string) (*domain.Manifest, error) {
	m := &domain.Manifest{Root: root}

	err := s.fs.WalkFiles(root, func(relPath string, _ int64) error {
		sum, size, err := s.checksums.ComputeFromFileWithSize(ctx, filepath.Join(root, filepath.FromSlash(relPath)))
		if err != nil {
			return err
		}

		m.Entries = append(m.Entries, domain.ManifestEntry{Path: relPath, Size: size, Checksum: sum})
		return nil
	})
	if err != nil {
		if cerrors.CategoryOf(err) != 0 {
			return nil, err
		}
		return nil, cerrors.New(cerrors.ErrorIO, "walk", root, err)
	}

	s.logger.Infow("manifest built", "root", root, "entries", len(m.Entries))
	return m, nil
}

// Verify re-hashes every file m lists, resolved against root. Files that no
// longer exist are reported as missing; any other I/O failure aborts the
// verification and is returned. Files under root that m does not list are
// ignored.
func (s *Service) Verify(ctx context.Context, root string, m *domain.Manifest) (*domain.VerifyReport, error) {
	if m == nil {
		return nil, errNilManifest
	}

	report := &domain.VerifyReport{Total: len(m.Entries)}

	for _, entry := range m.Entries {
		if !filepath.IsLocal(filepath.FromSlash(entry.Path)) {
			return nil, cerrors.New(
				cerrors.ErrorManifest, "verify", entry.Path, fmt.Errorf("path escapes manifest root"),
			)
		}

		path := filepath.Join(root, filepath.FromSlash(entry.Path))
		match, err := s.checksums.MatchesFile(ctx, entry.Checksum, path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				report.Missing = append(report.Missing, entry.Path)
				continue
			}
			return nil, err
		}

		if match {
			report.Matched++
		} else {
			report.Mismatched = append(report.Mismatched, entry.Path)
		}
	}

	report.OK = len(report.Mismatched) == 0 && len(report.Missing) == 0
	s.logger.Infow(
		"manifest verified",
		"root", root, "ok", report.OK, "total", report.Total,
		"mismatched", len(report.Mismatched), "missing", len(report.Missing),
	)
	return report, nil
}

// Save writes m to filePath atomically. When compression is enabled the
// encoded manifest is stored zstd compressed, unless that would not make it
// smaller.
func (s *Service) Save(filePath string, m *domain.Manifest) error {
	if m == nil {
		return errNilManifest
	}

	encoded := serialize.MarshalManifest(m)

	payload := append(append(make([]byte, 0, magicSize+len(encoded)), magicRaw...), encoded...)
	if s.compress {
		compressed, err := s.compressor.Compress(encoded)
		if err != nil {
			return cerrors.New(cerrors.ErrorCompression, "save manifest", filePath, err)
		}
		if len(compressed) < len(encoded) {
			payload = append(append(make([]byte, 0, magicSize+len(compressed)), magicZstd...), compressed...)
		}
	}

	if err := s.fs.WriteFileAtomic(filePath, 0o644, payload); err != nil {
		return cerrors.New(cerrors.ErrorIO, "save manifest", filePath, err)
	}

	s.logger.Debugw("manifest saved", "path", filePath, "entries", len(m.Entries), "bytes", len(payload))
	return nil
}

// Load reads a manifest written by Save, compressed or not.
func (s *Service) Load(filePath string) (*domain.Manifest, error) {
	data, err := s.fs.ReadFile(filePath)
	if err != nil {
		return nil, cerrors.New(cerrors.ErrorIO, "load manifest", filePath, err)
	}

	if len(data) < magicSize {
		return nil, cerrors.New(cerrors.ErrorManifest, "load manifest", filePath, fmt.Errorf("file too short"))
	}

	magic, body := data[:magicSize], data[magicSize:]
	switch {
	case bytes.Equal(magic, magicRaw):
	case bytes.Equal(magic, magicZstd):
		body, err = s.compressor.Decompress(body)
		if err != nil {
			return nil, cerrors.New(cerrors.ErrorCompression, "load manifest", filePath, err)
		}
	default:
		return nil, cerrors.New(cerrors.ErrorManifest, "load manifest", filePath, fmt.Errorf("unknown header %q", magic))
	}

	m, err := serialize.UnmarshalManifest(body)
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", filePath, err)
	}
	return m, nil
}

// Close releases the compressor.
func (s *Service) Close() error {
	return s.compressor.Close()
}
