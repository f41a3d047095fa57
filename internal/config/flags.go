package config

import (
	"errors"
	"flag"
	"fmt"
)

// Bind registers one flag per setting on fs, writing into c.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Size, "size", c.Size, "Grid side length")
	fs.IntVar(&c.Robots, "robots", c.Robots, "Number of robots")
	fs.IntVar(&c.MaxTasks, "max-tasks", c.MaxTasks, "Task budget including initial tasks")
	fs.IntVar(&c.InitialTasks, "initial-tasks", c.InitialTasks, "Tasks present at start")
	fs.IntVar(&c.WallDensity, "walls", c.WallDensity, "Wall density in percent")
	fs.IntVar(&c.TimeMax, "time-max", c.TimeMax, "Horizon in ticks (0 = size*100)")
	fs.IntVar(&c.RobotEnergy, "energy", c.RobotEnergy, "Robot energy (0 = horizon*6)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Random seed")
	fs.StringVar(&c.Strategy, "strategy", c.Strategy, "Scheduling strategy")
	fs.StringVar(&c.ConflictPolicy, "conflict", c.ConflictPolicy, "Double assignment policy: refuse or preempt")
	fs.BoolVar(&c.CheckInvariants, "check", c.CheckInvariants, "Verify world invariants every tick")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "Log level: debug, info, warn, error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "Log format: text or json")
}

// Resolve loads the file at path (defaults when empty) and reapplies every
// flag explicitly set on fs, so flags win over the file.
func Resolve(fs *flag.FlagSet, path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}

	over := flag.NewFlagSet("override", flag.ContinueOnError)
	cfg.Bind(over)
	var errs []error
	fs.Visit(func(f *flag.Flag) {
		if over.Lookup(f.Name) == nil {
			return
		}
		if err := over.Set(f.Name, f.Value.String()); err != nil {
			errs = append(errs, fmt.Errorf("-%s: %w", f.Name, err))
		}
	})
	if err := errors.Join(errs...); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
