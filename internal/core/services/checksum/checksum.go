// Package checksum computes and verifies SHA-256 checksums of files.
//
// Every operation that reads content streams it through a fixed size chunk,
// and every file handle it opens is closed before the call returns. Failures
// to open or read are always reported as errors of category ErrorIO and are
// never folded into a "does not match" answer, so callers can tell content
// that is definitely different from content that could not be checked.
package checksum

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	cs "github.com/iamNilotpal/checksum/internal/adapters/checksum"
	"github.com/iamNilotpal/checksum/internal/adapters/fs"
	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/ports"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
	"github.com/iamNilotpal/checksum/pkg/logger"
)

// Config holds the collaborators of a Service. Every field is optional.
type Config struct {
	// Options controls chunk size and sidecar naming. Zero fields take defaults.
	Options *domain.ChecksumOptions

	// Logger receives debug records for every computation.
	Logger *zap.SugaredLogger

	// FileSystem overrides the local file system, mainly for tests.
	FileSystem ports.FileSystemPort

	// Engine overrides the streaming digest engine.
	Engine ports.ChecksumPort
}

// Service computes checksums of files and compares them with recorded ones.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	options *domain.ChecksumOptions
	engine  ports.ChecksumPort
	fs      ports.FileSystemPort
	logger  *zap.SugaredLogger
}

// New validates config and returns a ready Service.
func New(config *Config) (*Service, error) {
	if config == nil {
		config = &Config{}
	}

	opts := prepareDefaults(config.Options)
	if err := Validate(opts); err != nil {
		return nil, err
	}

	svc := Service{
		options: opts,
		engine:  config.Engine,
		fs:      config.FileSystem,
		logger:  config.Logger,
	}

	if svc.engine == nil {
		svc.engine = cs.NewEngine(int(opts.ChunkSize))
	}
	if svc.fs == nil {
		svc.fs = fs.NewLocalFileSystem()
	}
	if svc.logger == nil {
		svc.logger = logger.NewNop()
	}

	return &svc, nil
}

// Options returns the effective options, defaults applied.
func (s *Service) Options() *domain.ChecksumOptions {
	return s.options
}

// ComputeFromStream hashes r until it is exhausted.
func (s *Service) ComputeFromStream(ctx context.Context, r io.Reader) (domain.Checksum, error) {
	sum, _, err := s.engine.Compute(ctx, r)
	if err != nil {
		return domain.Checksum{}, cerrors.New(cerrors.ErrorIO, "compute checksum", "", err)
	}
	return sum, nil
}

// ComputeFromFile hashes the current content of the file at filePath.
func (s *Service) ComputeFromFile(ctx context.Context, filePath string) (domain.Checksum, error) {
	sum, _, err := s.ComputeFromFileWithSize(ctx, filePath)
	return sum, err
}

// ComputeFromFileWithSize is ComputeFromFile that also reports how many
// bytes were hashed.
func (s *Service) ComputeFromFileWithSize(ctx context.Context, filePath string) (domain.Checksum, int64, error) {
	s.logger.Debugw("computing checksum", "path", filePath, "chunkSize", s.engine.ChunkSize())

	file, err := s.fs.Open(filePath)
	if err != nil {
		return domain.Checksum{}, 0, cerrors.New(cerrors.ErrorIO, "open", filePath, err)
	}
	defer file.Close()

	sum, size, err := s.engine.Compute(ctx, bufio.NewReader(file))
	if err != nil {
		s.logger.Debugw("checksum computation failed", "path", filePath, "error", err)
		return domain.Checksum{}, 0, cerrors.New(cerrors.ErrorIO, "read", filePath, err)
	}

	return sum, size, nil
}

// MatchesFile reports whether the file at filePath currently hashes to
// expected. The whole file is re-read on every call.
func (s *Service) MatchesFile(ctx context.Context, expected domain.Checksum, filePath string) (bool, error) {
	actual, err := s.ComputeFromFile(ctx, filePath)
	if err != nil {
		return false, err
	}

	match := actual.Equal(expected)
	if !match {
		s.logger.Debugw("checksum mismatch", "path", filePath, "expected", expected.Hex(), "actual", actual.Hex())
	}
	return match, nil
}

// SidecarPath returns the path of the file holding the recorded checksum of filePath.
func (s *Service) SidecarPath(filePath string) string {
	return filePath + s.options.SidecarExtension
}

// WriteSidecar computes the checksum of filePath and records it, as a hex
// line, in the sidecar file next to it.
func (s *Service) WriteSidecar(ctx context.Context, filePath string) (domain.Checksum, error) {
	sum, err := s.ComputeFromFile(ctx, filePath)
	if err != nil {
		return domain.Checksum{}, err
	}

	sidecar := s.SidecarPath(filePath)
	if err := s.fs.WriteFileAtomic(sidecar, 0o644, []byte(sum.Hex()+"\n")); err != nil {
		return domain.Checksum{}, cerrors.New(cerrors.ErrorIO, "write sidecar", sidecar, err)
	}

	s.logger.Infow("checksum recorded", "path", filePath, "sidecar", sidecar, "checksum", sum.Hex())
	return sum, nil
}

// ReadSidecar returns the checksum recorded for filePath. Surrounding
// whitespace in the sidecar is ignored; anything else must be a valid digest.
func (s *Service) ReadSidecar(filePath string) (domain.Checksum, error) {
	sidecar := s.SidecarPath(filePath)

	data, err := s.fs.ReadFile(sidecar)
	if err != nil {
		return domain.Checksum{}, cerrors.New(cerrors.ErrorIO, "read sidecar", sidecar, err)
	}

	sum, err := domain.ParseChecksum(strings.TrimSpace(string(data)))
	if err != nil {
		return domain.Checksum{}, fmt.Errorf("sidecar %s: %w", sidecar, err)
	}
	return sum, nil
}

// VerifySidecar compares filePath against the checksum recorded in its sidecar.
func (s *Service) VerifySidecar(ctx context.Context, filePath string) (bool, error) {
	expected, err := s.ReadSidecar(filePath)
	if err != nil {
		return false, err
	}
	return s.MatchesFile(ctx, expected, filePath)
}
