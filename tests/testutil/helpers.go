// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// BuildBinary compiles the materialization-audit command into a temp dir
// and returns the binary path.
func BuildBinary(t *testing.T) string {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "materialization-audit")
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/materialization-audit")
	cmd.Dir = RepoRoot(t)
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return binary
}
