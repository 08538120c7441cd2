package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpricer/internal/sink"
)

// selfExecEnv makes the test binary behave as mcpricer, so cluster can start it as a worker.
const selfExecEnv = "MCPRICER_TEST_SELF_EXEC"

func TestMain(m *testing.M) {
	if os.Getenv(selfExecEnv) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// runCluster runs the cluster command as the process command line, since workers are
// started from os.Args.
func runCluster(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(selfExecEnv, "1")

	argv := append([]string{"mcpricer", "cluster"}, args...)
	saved := os.Args
	os.Args = argv
	t.Cleanup(func() { os.Args = saved })

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(t.Context(), argv)
	return out.String(), err
}

func clusterSocket(t *testing.T) string {
	dir, err := os.MkdirTemp("", "mcp")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "c.sock")
}

func parseResult(t *testing.T, out string) float64 {
	t.Helper()
	line := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(line, "avg payoff is "), out)
	avg, err := strconv.ParseFloat(strings.TrimPrefix(line, "avg payoff is "), 64)
	require.NoError(t, err)
	return avg
}

func TestClusterPooledUnevenShares(t *testing.T) {
	const strike = 100.0
	path := filepath.Join(t.TempDir(), "stats.csv")

	out, err := runCluster(t,
		"-n", "3", "-i", "7", "-d", "2", "-H", "1", "-m", "1", "-k", "100",
		"--merge", "pooled", "--await-records", "-s", "1", "-o", path,
		"--socket", clusterSocket(t),
	)
	require.NoError(t, err)
	avg := parseResult(t, out)

	records, err := sink.ReadCSVFile(path)
	require.NoError(t, err)
	require.Len(t, records, 7)

	seen := make(map[int64]int, 7)
	sum := 0.0
	for _, r := range records {
		seen[r.Index]++
		sum += r.LastPrice - strike
	}
	for idx := int64(1); idx <= 7; idx++ {
		assert.Equal(t, 1, seen[idx], "path %d", idx)
	}
	assert.InDelta(t, sum/7, avg, 1e-5)
}

func TestClusterFlatMarketMeanOfMeans(t *testing.T) {
	out, err := runCluster(t,
		"--processes", "2", "-i", "4", "-x", "100", "-e", "0", "-v", "0",
		"-d", "1", "-H", "1", "-m", "1", "-k", "100", "-o", "",
		"--socket", clusterSocket(t),
	)
	require.NoError(t, err)
	assert.Equal(t, "avg payoff is 0.000000\n", out)
}
