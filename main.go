package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/formicary/config"
	"github.com/pthm-cable/formicary/sim"
	"github.com/pthm-cable/formicary/telemetry"
	"github.com/pthm-cable/formicary/terrain"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per loop iteration")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot (empty = use config)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var collector *telemetry.Collector
	var perf *telemetry.PerfCollector
	var output *telemetry.OutputManager
	if cfg.Telemetry.Enabled {
		collector = telemetry.NewCollector(cfg.Telemetry.WindowTicks)
		perf = telemetry.NewPerfCollector(int(cfg.Telemetry.WindowTicks))

		dir := cfg.Telemetry.OutputDir
		if *outputDir != "" {
			dir = *outputDir
		}
		var err error
		output, err = telemetry.NewOutputManager(dir)
		if err != nil {
			slog.Error("failed to open output directory", "error", err)
			os.Exit(1)
		}
		defer output.Close()

		if err := output.WriteConfig(cfg); err != nil {
			slog.Error("failed to snapshot config", "error", err)
			os.Exit(1)
		}
	}

	world := terrain.Generate(cfg.World.Width, cfg.World.Height, rngSeed)

	s, err := sim.New(sim.Options{
		Config:    cfg,
		Terrain:   world,
		Seed:      rngSeed,
		Collector: collector,
		Perf:      perf,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"world", cfg.World.Width*cfg.World.Height,
		"colonies", cfg.Colony.Count,
		"max_ticks", *maxTicks,
		"steps_per_update", *stepsPerUpdate,
		"output_dir", output.Dir(),
	)

	for {
		s.StepN(*stepsPerUpdate)

		if collector.ShouldFlush(s.Tick()) {
			stats := collector.Flush(s.Tick(), s.Snapshot())
			stats.LogStats()
			for i, pop := range s.Populations() {
				c := s.Colonies().Get(uint8(i))
				slog.Info("colony",
					"id", i,
					"food", c.FoodStored,
					"queen_alive", c.QueenAlive,
					"population", pop,
				)
			}
			if err := output.WriteTelemetry(stats); err != nil {
				slog.Error("telemetry write failed", "error", err)
			}

			perfStats := perf.Stats()
			perfStats.LogStats()
			if err := output.WritePerf(perfStats, s.Tick()); err != nil {
				slog.Error("perf write failed", "error", err)
			}
		}

		if *maxTicks > 0 && int(s.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick())
			return
		}
	}
}
