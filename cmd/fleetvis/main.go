// Command fleetvis shows a live fleet exploration in a desktop window.
package main

import (
	"flag"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/elektrokombinacija/fleet-explore/internal/config"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/vis"
)

func main() {
	fs := flag.NewFlagSet("fleetvis", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file; flags override its values")
	speed := fs.Float64("speed", 20, "Ticks per second while playing")
	defaults := config.Default()
	defaults.Bind(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Resolve(fs, *configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	simCfg, err := cfg.Simulation(logger)
	if err != nil {
		log.Fatal(err)
	}
	runner, err := sim.NewRunner(simCfg)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("Fleet Explorer"),
			app.Size(unit.Dp(1400), unit.Dp(900)),
		)

		application := vis.NewApp(runner, *speed)
		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}
