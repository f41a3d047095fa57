// Command fleetsim runs one fleet exploration headless and prints the final
// maps, summaries and metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/elektrokombinacija/fleet-explore/internal/config"
	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/render"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/trace"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "fleetsim: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fleetsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file; flags override its values")
	metricsPath := fs.String("metrics", "", "Write run metrics as JSON to this file")
	tracePath := fs.String("trace", "", "Write a per-tick trace (.jsonl.zst) to this file")
	plain := fs.Bool("plain", false, "Disable colors")
	maps := fs.Bool("maps", true, "Print object, knowledge and cost maps")
	defaults := config.Default()
	defaults.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Resolve(fs, *configPath)
	if err != nil {
		return err
	}
	log, err := cfg.NewLogger(stderr)
	if err != nil {
		return err
	}
	simCfg, err := cfg.Simulation(log)
	if err != nil {
		return err
	}
	runner, err := sim.NewRunner(simCfg)
	if err != nil {
		return err
	}

	if *tracePath != "" {
		tw, err := trace.Create(*tracePath, trace.NewHeader(runner.Metrics().RunID, runner.Strategy().Name(), simCfg))
		if err != nil {
			return err
		}
		defer func() {
			if cerr := tw.Close(); cerr != nil {
				log.Error("trace close failed", "path", *tracePath, "err", cerr)
			}
		}()
		runner.AddObserver(tw)
	}

	metrics, runErr := runner.Run(ctx)

	styles := render.DefaultStyles()
	if *plain {
		styles = render.PlainStyles()
	}
	rd := render.New(styles)
	runner.View(func(w *world.World, _ int) {
		var b strings.Builder
		if *maps {
			b.WriteString(rd.ObjectMap(w))
			b.WriteString("\n")
			b.WriteString(rd.KnownMap(w))
			b.WriteString("\n")
			for _, t := range core.RobotTypes() {
				b.WriteString(rd.CostMap(w, t))
				b.WriteString("\n")
			}
		}
		b.WriteString(rd.RobotSummary(w))
		b.WriteString("\n")
		b.WriteString(rd.TaskSummary(w, simCfg.MaxTasks))
		fmt.Fprintln(stdout, b.String())
	})
	if metrics != nil {
		fmt.Fprintln(stdout, rd.Box(rd.Report(*metrics)))
	}

	if *metricsPath != "" {
		if err := runner.ExportMetrics(*metricsPath); err != nil {
			return errors.Join(runErr, fmt.Errorf("export metrics: %w", err))
		}
	}
	return runErr
}
