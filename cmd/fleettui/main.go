// Command fleettui steps a fleet exploration in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elektrokombinacija/fleet-explore/internal/config"
	"github.com/elektrokombinacija/fleet-explore/internal/render"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/tui"
)

func main() {
	fs := flag.NewFlagSet("fleettui", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file; flags override its values")
	interval := fs.Duration("interval", 100*time.Millisecond, "Delay between ticks")
	paused := fs.Bool("paused", false, "Start paused")
	defaults := config.Default()
	defaults.Bind(fs)
	_ = fs.Parse(os.Args[1:])

	runner, err := newRunner(fs, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fleettui: %v\n", err)
		os.Exit(1)
	}

	model := tui.New(runner, render.New(render.DefaultStyles()), *interval, *paused)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fleettui: %v\n", err)
		os.Exit(1)
	}
}

// newRunner builds a runner from the resolved config. Logs are discarded
// since they would tear the terminal view.
func newRunner(fs *flag.FlagSet, path string) (*sim.Runner, error) {
	cfg, err := config.Resolve(fs, path)
	if err != nil {
		return nil, err
	}
	log, err := cfg.NewLogger(io.Discard)
	if err != nil {
		return nil, err
	}
	simCfg, err := cfg.Simulation(log)
	if err != nil {
		return nil, err
	}
	return sim.NewRunner(simCfg)
}
