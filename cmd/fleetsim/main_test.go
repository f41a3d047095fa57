package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/trace"
)

func TestRunWritesMetricsAndTrace(t *testing.T) {
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "metrics.json")
	tracePath := filepath.Join(dir, "run", "trace.jsonl.zst")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-size", "8", "-robots", "3", "-max-tasks", "4", "-initial-tasks", "2",
		"-time-max", "50", "-seed", "3", "-plain", "-log-level", "error",
		"-metrics", metricsPath, "-trace", tracePath,
	}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Object map")
	assert.Contains(t, out, "Cost map for WHEEL")
	assert.Contains(t, out, "- Robot summary")
	assert.Contains(t, out, "Max task: 4")

	raw, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	var m sim.SimulationMetrics
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, 50, m.TimeMax)
	assert.Equal(t, 3, m.Robots)
	assert.NotEmpty(t, m.EndReason)

	r, err := trace.Open(tracePath)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, m.RunID, r.Header().RunID)
	n := 0
	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, m.Ticks, n)
}

func TestRunSkipsMaps(t *testing.T) {
	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-size", "6", "-robots", "2", "-initial-tasks", "1", "-max-tasks", "2",
		"-time-max", "5", "-plain", "-maps=false", "-log-level", "error"}, &stdout, io.Discard)
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "Object map")
	assert.Contains(t, stdout.String(), "- Robot summary")
}

func TestRunRejectsBadConfig(t *testing.T) {
	err := run(context.Background(), []string{"-strategy", "unknown"}, io.Discard, io.Discard)
	assert.Error(t, err)

	err = run(context.Background(), []string{"-bogus"}, io.Discard, io.Discard)
	assert.Error(t, err)
}
