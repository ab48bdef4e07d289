package manifest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/services/checksum"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

func newService(t *testing.T, opts *domain.ChecksumOptions) *Service {
	t.Helper()

	checksums, err := checksum.New(&checksum.Config{Options: opts})
	require.NoError(t, err)

	svc, err := New(&Config{Checksums: checksums})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, svc.Close()) })
	return svc
}

func populate(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestBuildListsFilesInOrder(t *testing.T) {
	root := t.TempDir()
	populate(t, root, map[string]string{
		"b.txt":          "bravo",
		"a.txt":          "alpha",
		"nested/c.txt":   "charlie",
		"nested/d/e.bin": strings.Repeat("e", 5000),
	})

	m, err := newService(t, nil).Build(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, root, m.Root)

	var paths []string
	for _, entry := range m.Entries {
		paths = append(paths, entry.Path)
	}
	require.Equal(t, []string{"a.txt", "b.txt", "nested/c.txt", "nested/d/e.bin"}, paths)
	require.Equal(t, int64(5000), m.Entries[3].Size)

	want, err := domain.ParseChecksum("8ed3f6ad685b959ead7022518e1af76cd816f8e8ec7ccdda1ed4018e8f2223f8")
	require.NoError(t, err)
	require.Equal(t, want, m.Entries[0].Checksum)
}

func TestBuildMissingRoot(t *testing.T) {
	_, err := newService(t, nil).Build(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.True(t, cerrors.IsIOError(err))
}

func TestBuildFollowsSymlinkedRoot(t *testing.T) {
	target := t.TempDir()
	populate(t, target, map[string]string{"a.txt": "alpha", "sub/b.txt": "bravo"})

	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	svc := newService(t, nil)
	ctx := context.Background()

	m, err := svc.Build(ctx, link)
	require.NoError(t, err)
	require.Equal(t, link, m.Root)
	require.Len(t, m.Entries, 2)
	require.Equal(t, "a.txt", m.Entries[0].Path)
	require.Equal(t, "sub/b.txt", m.Entries[1].Path)

	populate(t, target, map[string]string{"a.txt": "changed"})
	report, err := svc.Verify(ctx, link, m)
	require.NoError(t, err)
	require.False(t, report.OK)
	require.Equal(t, []string{"a.txt"}, report.Mismatched)
}

func TestBuildRejectsFileRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(path, []byte("not a directory"), 0o644))

	m, err := newService(t, nil).Build(context.Background(), path)
	require.Nil(t, m)
	require.True(t, cerrors.IsIOError(err))
}

func TestNilManifest(t *testing.T) {
	svc := newService(t, nil)

	report, err := svc.Verify(context.Background(), t.TempDir(), nil)
	require.Nil(t, report)
	require.True(t, cerrors.IsValidationError(err))

	err = svc.Save(filepath.Join(t.TempDir(), "manifest"), nil)
	require.True(t, cerrors.IsValidationError(err))
}

func TestVerifyReportsChanges(t *testing.T) {
	root := t.TempDir()
	populate(t, root, map[string]string{
		"keep.txt":    "unchanged",
		"change.txt":  "before",
		"remove.txt":  "soon gone",
		"sub/ok.data": "fine",
	})

	svc := newService(t, nil)
	ctx := context.Background()

	m, err := svc.Build(ctx, root)
	require.NoError(t, err)

	report, err := svc.Verify(ctx, root, m)
	require.NoError(t, err)
	require.True(t, report.OK)
	require.Equal(t, 4, report.Matched)

	populate(t, root, map[string]string{"change.txt": "after", "extra.txt": "not listed"})
	require.NoError(t, os.Remove(filepath.Join(root, "remove.txt")))

	report, err = svc.Verify(ctx, root, m)
	require.NoError(t, err)
	require.False(t, report.OK)
	require.Equal(t, 4, report.Total)
	require.Equal(t, 2, report.Matched)
	require.Equal(t, []string{"change.txt"}, report.Mismatched)
	require.Equal(t, []string{"remove.txt"}, report.Missing)
}

func TestVerifyRejectsEscapingPaths(t *testing.T) {
	m := &domain.Manifest{Entries: []domain.ManifestEntry{{Path: "../outside"}}}

	_, err := newService(t, nil).Verify(context.Background(), t.TempDir(), m)
	require.Equal(t, cerrors.ErrorManifest, cerrors.CategoryOf(err))
}

func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	populate(t, root, map[string]string{
		"one": strings.Repeat("repetitive content ", 200),
		"two": "short",
	})

	tests := []struct {
		name     string
		compress bool
		magic    []byte
	}{
		{"compressed", true, magicZstd},
		{"raw", false, magicRaw},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc := newService(t, &domain.ChecksumOptions{
				ManifestOptions: &domain.ManifestOptions{
					Compression: &domain.CompressionOptions{Enable: test.compress},
				},
			})

			m, err := svc.Build(context.Background(), root)
			require.NoError(t, err)

			// Many entries make the encoded manifest compressible.
			for i := 0; i < 50; i++ {
				m.Entries = append(m.Entries, m.Entries[0])
			}

			path := filepath.Join(t.TempDir(), "out", "manifest.ckm")
			require.NoError(t, svc.Save(path, m))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(data, test.magic))

			loaded, err := svc.Load(path)
			require.NoError(t, err)
			require.Equal(t, m, loaded)
		})
	}
}

func TestLoadReadsEitherEncoding(t *testing.T) {
	root := t.TempDir()
	populate(t, root, map[string]string{"file": "data"})
	path := filepath.Join(t.TempDir(), "manifest")

	writer := newService(t, &domain.ChecksumOptions{
		ManifestOptions: &domain.ManifestOptions{Compression: &domain.CompressionOptions{Enable: false}},
	})
	m, err := writer.Build(context.Background(), root)
	require.NoError(t, err)
	require.NoError(t, writer.Save(path, m))

	loaded, err := newService(t, nil).Load(path)
	require.NoError(t, err)
	require.Equal(t, m, loaded)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	svc := newService(t, nil)

	_, err := svc.Load(filepath.Join(dir, "missing"))
	require.True(t, cerrors.IsIOError(err))

	tests := []struct {
		name     string
		content  []byte
		category cerrors.ErrorCategory
	}{
		{"too short", []byte("CK"), cerrors.ErrorManifest},
		{"unknown header", []byte("NOPE...."), cerrors.ErrorManifest},
		{"corrupt zstd", append(bytes.Clone(magicZstd), "not zstd at all"...), cerrors.ErrorCompression},
		{"corrupt body", append(bytes.Clone(magicRaw), 0x00), cerrors.ErrorManifest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(test.name, " ", "-"))
			require.NoError(t, os.WriteFile(path, test.content, 0o644))

			_, err := svc.Load(path)
			require.Error(t, err)
			require.Equal(t, test.category, cerrors.CategoryOf(err))
		})
	}
}

func TestNewRequiresChecksumService(t *testing.T) {
	_, err := New(&Config{})
	require.True(t, cerrors.IsValidationError(err))

	_, err = New(nil)
	require.True(t, cerrors.IsValidationError(err))
}
