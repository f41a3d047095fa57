// Package config holds the startup parameters of a run. A YAML file overlays
// the built-in defaults and the result is checked against an embedded JSON
// schema before it is turned into a sim.SimulationConfig.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/fleet-explore/internal/algo"
	"github.com/elektrokombinacija/fleet-explore/internal/logging"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Ticks of horizon per grid row, and energy per tick of horizon, used when
// time_max or robot_energy are left at zero.
const (
	horizonPerRow    = 100
	energyPerHorizon = 6
)

//go:embed config.schema.json
var schemaJSON []byte

const schemaURL = "config.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Log selects the logger built by NewLogger.
type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // text or json
}

// Config is the on-disk run description.
type Config struct {
	Size         int `yaml:"size" json:"size"`
	Robots       int `yaml:"robots" json:"robots"`
	MaxTasks     int `yaml:"max_tasks" json:"max_tasks"`
	InitialTasks int `yaml:"initial_tasks" json:"initial_tasks"`
	WallDensity  int `yaml:"wall_density" json:"wall_density"` // Percent of cells

	// Zero derives size*100.
	TimeMax int `yaml:"time_max" json:"time_max"`
	// Zero derives horizon*6.
	RobotEnergy int `yaml:"robot_energy" json:"robot_energy"`

	Seed            int64  `yaml:"seed" json:"seed"`
	Strategy        string `yaml:"strategy" json:"strategy"`
	ConflictPolicy  string `yaml:"conflict_policy" json:"conflict_policy"`
	CheckInvariants bool   `yaml:"check_invariants" json:"check_invariants"`

	Log Log `yaml:"log" json:"log"`
}

// Default returns the standard 20x20 scenario with six robots.
func Default() Config {
	return Config{
		Size:           20,
		Robots:         6,
		MaxTasks:       16,
		InitialTasks:   8,
		WallDensity:    20,
		Seed:           1,
		Strategy:       "greedy",
		ConflictPolicy: world.Refuse.String(),
		Log:            Log{Level: "info", Format: "text"},
	}
}

// Load overlays the YAML file at path onto Default and validates the result.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Decode(raw); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays YAML onto c. An empty document leaves c unchanged.
func (c *Config) Decode(raw []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Save writes c as YAML.
func (c Config) Save(path string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// Horizon is TimeMax, or size*100 when unset.
func (c Config) Horizon() int {
	if c.TimeMax > 0 {
		return c.TimeMax
	}
	return c.Size * horizonPerRow
}

// Energy is RobotEnergy, or six horizons when unset.
func (c Config) Energy() int {
	if c.RobotEnergy > 0 {
		return c.RobotEnergy
	}
	return c.Horizon() * energyPerHorizon
}

// Walls is the number of wall cells generation will place.
func (c Config) Walls() int {
	return c.Size * c.Size * c.WallDensity / 100
}

// Validate checks c against the schema and the rules the schema cannot express.
func (c Config) Validate() error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var errs []error
	if c.InitialTasks > c.MaxTasks {
		errs = append(errs, fmt.Errorf("%w: initial_tasks %d exceeds max_tasks %d", ErrInvalid, c.InitialTasks, c.MaxTasks))
	}
	if free := c.Size*c.Size - c.Walls(); free < c.Robots+c.InitialTasks {
		errs = append(errs, fmt.Errorf("%w: %d free cells cannot hold %d robots and %d tasks",
			ErrInvalid, free, c.Robots, c.InitialTasks))
	}
	if !slices.Contains(algo.Names(), strings.ToLower(c.Strategy)) {
		errs = append(errs, fmt.Errorf("%w: unknown strategy %q (have %s)",
			ErrInvalid, c.Strategy, strings.Join(algo.Names(), ", ")))
	}
	return errors.Join(errs...)
}

// NewLogger builds the logger selected by c.Log, writing to w.
func (c Config) NewLogger(w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewSlogLogger(level, c.Log.Format, w), nil
}

// Simulation converts c into a runner configuration.
func (c Config) Simulation(log logging.Logger) (sim.SimulationConfig, error) {
	policy, err := world.ParseConflictPolicy(c.ConflictPolicy)
	if err != nil {
		return sim.SimulationConfig{}, err
	}
	return sim.SimulationConfig{
		World: world.Params{
			Size:            c.Size,
			NumRobots:       c.Robots,
			NumInitialTasks: c.InitialTasks,
			WallDensity:     c.WallDensity,
			RobotEnergy:     c.Energy(),
		},
		MaxTasks:        c.MaxTasks,
		TimeMax:         c.Horizon(),
		StrategyName:    c.Strategy,
		Policy:          policy,
		Seed:            c.Seed,
		CheckInvariants: c.CheckInvariants,
		Logger:          log,
	}, nil
}
