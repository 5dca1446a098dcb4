package e2e

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"materialization-audit/internal/types"
	"materialization-audit/tests/testutil"
)

// newCAVEServer serves one global info service that also hosts the
// materialization API for its datastacks.
func newCAVEServer(t *testing.T) *httptest.Server {
	t.Helper()
	versions := map[string][2][]int{
		"alpha": {{1, 2}, {1, 2}},
		"beta":  {{7}, {7, 8}},
	}
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		write := func(payload interface{}) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(payload)
		}
		switch {
		case path == "/info/api/v2/datastacks":
			write([]string{"beta", "gamma", "alpha"})
		case strings.HasPrefix(path, "/info/api/v2/datastack/full/"):
			name := strings.TrimPrefix(path, "/info/api/v2/datastack/full/")
			if _, ok := versions[name]; !ok {
				http.NotFound(w, r)
				return
			}
			write(map[string]string{"local_server": server.URL})
		case path == "/materialize/version":
			write("4.36.2")
		case strings.HasPrefix(path, "/materialize/api/v2/datastack/"):
			parts := strings.Split(strings.TrimPrefix(path, "/materialize/api/v2/datastack/"), "/")
			set, ok := versions[parts[0]]
			if !ok || len(parts) < 2 {
				http.NotFound(w, r)
				return
			}
			if parts[1] == "versions" {
				if r.URL.Query().Get("expired") == "true" {
					write(set[1])
					return
				}
				write(set[0])
				return
			}
			write(map[string]string{"time_stamp": "2024-01-02T03:04:05.000000"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAuditCommandE2E(t *testing.T) {
	binary := testutil.BuildBinary(t)
	server := newCAVEServer(t)
	outPath := filepath.Join(t.TempDir(), "reports", "audit.json")

	cmd := exec.Command(binary, "audit",
		"--server", server.URL,
		"--format", "json",
		"--output", outPath,
		"--no-progress",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var report types.AuditReport
	require.NoError(t, json.Unmarshal(data, &report))

	require.Equal(t, 3, report.Enumerated)
	require.Equal(t, 1, report.Omitted)
	require.Len(t, report.Rows, 2)
	require.Equal(t, "alpha", report.Rows[0].Datastack)
	require.Equal(t, types.RowStatusSuccess, report.Rows[0].Status)
	require.Equal(t, "beta", report.Rows[1].Datastack)
	require.Equal(t, types.RowStatusFailed, report.Rows[1].Status)
	require.Equal(t, "2024-01-02", report.Rows[1].LatestTimestamp)
	require.NotEmpty(t, report.RunID)
}

func TestAuditCommandFailOnStaleE2E(t *testing.T) {
	binary := testutil.BuildBinary(t)
	server := newCAVEServer(t)

	cmd := exec.Command(binary, "audit",
		"--server", server.URL,
		"--datastack", "beta",
		"--no-progress",
		"--no-color",
		"--fail-on-stale",
	)
	var stdout strings.Builder
	cmd.Stdout = &stdout
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected exit error, got %v", err)
	require.Equal(t, 4, exitErr.ExitCode())
	require.Contains(t, stdout.String(), "Materialization Check Results")
	require.Contains(t, stdout.String(), "Failed")
}

func TestDatastacksCommandE2E(t *testing.T) {
	binary := testutil.BuildBinary(t)
	server := newCAVEServer(t)

	out, err := exec.Command(binary, "datastacks", "--server", server.URL, "--no-progress").Output()
	require.NoError(t, err)
	require.Equal(t, "alpha\nbeta\ngamma\n", string(out))
}

func TestAuditCommandRejectsUnknownFormatE2E(t *testing.T) {
	binary := testutil.BuildBinary(t)

	err := exec.Command(binary, "audit", "--format", "csv", "--datastack", "alpha").Run()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected exit error, got %v", err)
	require.Equal(t, 2, exitErr.ExitCode())
}
