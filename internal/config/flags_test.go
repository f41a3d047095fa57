package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := Default()
	cfg.Bind(fs)
	return fs
}

func TestResolveDefaults(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Resolve(fs, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: 30\nrobots: 9\nstrategy: field\n"), 0o644))

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"-robots", "4", "-conflict", "preempt"}))

	cfg, err := Resolve(fs, path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Size, "file value kept")
	assert.Equal(t, "field", cfg.Strategy, "file value kept")
	assert.Equal(t, 4, cfg.Robots, "flag wins")
	assert.Equal(t, "preempt", cfg.ConflictPolicy)
}

func TestResolveValidates(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"-strategy", "nope"}))

	_, err := Resolve(fs, "")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestResolveIgnoresForeignFlags(t *testing.T) {
	fs := newFlagSet()
	fs.String("trace", "", "")
	require.NoError(t, fs.Parse([]string{"-trace", "out.zst", "-seed", "7"}))

	cfg, err := Resolve(fs, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
}
