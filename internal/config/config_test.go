package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(body)+"\n"), 0o644))
	return path
}

func TestDefaultMatchesSimulationDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2000, cfg.Horizon())
	assert.Equal(t, 12000, cfg.Energy())
	assert.Equal(t, 80, cfg.Walls())

	got, err := cfg.Simulation(nil)
	require.NoError(t, err)
	want := sim.DefaultConfig()
	assert.Equal(t, want.World, got.World)
	assert.Equal(t, want.MaxTasks, got.MaxTasks)
	assert.Equal(t, want.TimeMax, got.TimeMax)
	assert.Equal(t, want.StrategyName, got.StrategyName)
	assert.Equal(t, want.Policy, got.Policy)
	assert.Equal(t, want.Seed, got.Seed)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
size: 30
strategy: field
conflict_policy: preempt
seed: 42
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Size)
	assert.Equal(t, "field", cfg.Strategy)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 6, cfg.Robots, "unset keys keep their default")
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 3000, cfg.Horizon(), "horizon follows the grid size")
	assert.Equal(t, 18000, cfg.Energy())

	sc, err := cfg.Simulation(nil)
	require.NoError(t, err)
	assert.Equal(t, world.Preempt, sc.Policy)
	assert.Equal(t, 3000, sc.TimeMax)
}

func TestLoadExplicitHorizonAndEnergy(t *testing.T) {
	cfg, err := Load(writeFile(t, "time_max: 500\nrobot_energy: 900"))
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Horizon())
	assert.Equal(t, 900, cfg.Energy())
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	_, err := Load(writeFile(t, "robot_count: 4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robot_count")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"no tasks at all", func(c *Config) { c.MaxTasks, c.InitialTasks = 0, 0 }, true},
		{"zero size", func(c *Config) { c.Size = 0 }, false},
		{"no robots", func(c *Config) { c.Robots = 0 }, false},
		{"negative tasks", func(c *Config) { c.InitialTasks = -1 }, false},
		{"full of walls", func(c *Config) { c.WallDensity = 100 }, false},
		{"negative horizon", func(c *Config) { c.TimeMax = -5 }, false},
		{"bad policy", func(c *Config) { c.ConflictPolicy = "overwrite" }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"initial above max", func(c *Config) { c.InitialTasks = 20 }, false},
		{"unknown strategy", func(c *Config) { c.Strategy = "cbs" }, false},
		{"strategy case", func(c *Config) { c.Strategy = "Greedy" }, true},
		{"crowded grid", func(c *Config) {
			c.Size, c.WallDensity, c.Robots, c.InitialTasks, c.MaxTasks = 3, 50, 3, 3, 3
		}, false},
		{"tight grid", func(c *Config) {
			c.Size, c.WallDensity, c.Robots, c.InitialTasks, c.MaxTasks = 3, 30, 3, 3, 3
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Size = 12
	cfg.Strategy = "random"
	cfg.CheckInvariants = true

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.Save(path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Log = Log{Level: "warn", Format: "json"}

	var buf bytes.Buffer
	log, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	cfg.Log.Level = "loud"
	_, err = cfg.NewLogger(&buf)
	assert.Error(t, err)
}
