package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/checksum/internal/core/domain"
)

const (
	knownContent = "This tests if the hashing a file works correctly."
	knownHex     = "735e3ec1b05d901d07e84b1504518442aba2395fe3f945a1c962e81a8e152b2d"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"--log-level", "error"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func knownFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known.txt")
	require.NoError(t, os.WriteFile(path, []byte(knownContent), 0o644))
	return path
}

func TestCompute(t *testing.T) {
	path := knownFile(t)

	code, stdout, _ := runCLI(t, "compute", path)
	require.Equal(t, exitOK, code)
	require.Equal(t, knownHex+"  "+path+"\n", stdout)

	code, stdout, _ = runCLI(t, "compute", "--cid", path)
	require.Equal(t, exitOK, code)
	fields := strings.Fields(stdout)
	require.Len(t, fields, 3)
	require.True(t, strings.HasPrefix(fields[2], "bafkrei"))

	code, _, stderr := runCLI(t, "compute", path, filepath.Join(t.TempDir(), "missing"))
	require.Equal(t, exitError, code)
	require.Contains(t, stderr, "[io] open")
}

func TestVerify(t *testing.T) {
	path := knownFile(t)

	code, stdout, _ := runCLI(t, "verify", knownHex, path)
	require.Equal(t, exitOK, code)
	require.Equal(t, path+": OK\n", stdout)

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))
	code, stdout, _ = runCLI(t, "verify", knownHex, path)
	require.Equal(t, exitMismatch, code)
	require.Equal(t, path+": FAILED\n", stdout)

	code, _, stderr := runCLI(t, "verify", knownHex[:63], path)
	require.Equal(t, exitError, code)
	require.Contains(t, stderr, "[length]")

	code, _, stderr = runCLI(t, "verify", knownHex[:63]+"z", path)
	require.Equal(t, exitError, code)
	require.Contains(t, stderr, "[decode]")

	code, _, _ = runCLI(t, "verify", knownHex, filepath.Join(t.TempDir(), "missing"))
	require.Equal(t, exitError, code)
}

func TestVerifyAcceptsCID(t *testing.T) {
	path := knownFile(t)

	code, stdout, _ := runCLI(t, "compute", "--cid", path)
	require.Equal(t, exitOK, code)
	id := strings.Fields(stdout)[2]

	code, stdout, _ = runCLI(t, "verify", id, path)
	require.Equal(t, exitOK, code)
	require.Equal(t, path+": OK\n", stdout)

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))
	code, _, _ = runCLI(t, "verify", id, path)
	require.Equal(t, exitMismatch, code)
}

func TestSidecar(t *testing.T) {
	path := knownFile(t)

	code, stdout, _ := runCLI(t, "sidecar", "write", path)
	require.Equal(t, exitOK, code)
	require.Equal(t, knownHex+"  "+path+"\n", stdout)
	require.FileExists(t, path+domain.DefaultSidecarExtension)

	code, _, _ = runCLI(t, "sidecar", "verify", path)
	require.Equal(t, exitOK, code)

	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o644))
	code, _, _ = runCLI(t, "sidecar", "verify", path)
	require.Equal(t, exitMismatch, code)

	code, _, _ = runCLI(t, "sidecar", "remove", path)
	require.Equal(t, exitError, code)
}

func TestManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b"), []byte("bravo"), 0o644))
	out := filepath.Join(t.TempDir(), "manifest.ckm")

	code, stdout, _ := runCLI(t, "manifest", "build", root, out)
	require.Equal(t, exitOK, code)
	require.Equal(t, "2 files recorded in "+out+"\n", stdout)

	code, stdout, _ = runCLI(t, "manifest", "verify", root, out)
	require.Equal(t, exitOK, code)

	var report domain.VerifyReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.True(t, report.OK)
	require.Equal(t, 2, report.Matched)

	require.NoError(t, os.WriteFile(filepath.Join(root, "b"), []byte("changed"), 0o644))
	code, stdout, _ = runCLI(t, "manifest", "verify", root, out)
	require.Equal(t, exitMismatch, code)
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Equal(t, []string{"b"}, report.Mismatched)
}

func TestConfigFile(t *testing.T) {
	path := knownFile(t)
	cfg := filepath.Join(t.TempDir(), "checksum.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("checksum:\n  sidecar_extension: .sha256\n"), 0o644))

	code, _, _ := runCLI(t, "--config", cfg, "sidecar", "write", path)
	require.Equal(t, exitOK, code)
	require.FileExists(t, path+".sha256")

	require.NoError(t, os.WriteFile(cfg, []byte("checksum:\n  chunk_size: 3\n"), 0o644))
	code, _, stderr := runCLI(t, "--config", cfg, "compute", path)
	require.Equal(t, exitError, code)
	require.Contains(t, stderr, "chunkSize")
}

func TestUsageErrors(t *testing.T) {
	code, _, _ := runCLI(t)
	require.Equal(t, exitError, code)

	code, _, stderr := runCLI(t, "frobnicate")
	require.Equal(t, exitError, code)
	require.Contains(t, stderr, "unknown command")

	code, _, _ = runCLI(t, "verify", knownHex)
	require.Equal(t, exitError, code)

	code, _, _ = runCLI(t, "--help")
	require.Equal(t, exitOK, code)
}
