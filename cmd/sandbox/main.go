// Command sandbox runs the falling-sand simulation headless: it seeds
// a grid from a configuration file (or embedded defaults), advances it
// for a fixed number of ticks using either the sequential or the
// sharded scheduler, and optionally emits a telemetry CSV and a
// benchmark snapshot of the final material layout.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/Endebert/sandspiel/bench"
	"github.com/Endebert/sandspiel/config"
	"github.com/Endebert/sandspiel/grid"
	"github.com/Endebert/sandspiel/internal/seeding"
	"github.com/Endebert/sandspiel/sim"
	"github.com/Endebert/sandspiel/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config overlay (defaults embedded)")
	ticks := flag.Int("ticks", 500, "number of ticks to run")
	workers := flag.Int("workers", 0, "scheduler worker count (0 = runtime.NumCPU(), 1 = sequential)")
	seed := flag.Int64("seed", 0, "random seed (0 = time-derived)")
	quiet := flag.Bool("quiet", false, "suppress console output")
	snapshotPath := flag.String("snapshot", "", "path to write the final material layout as a flat byte file")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("sandbox: loading config: %v", err)
	}
	cfg := config.Cfg()

	if *workers == 0 {
		*workers = runtime.NumCPU()
	}
	if *workers < 1 {
		log.Fatalf("sandbox: workers must be >= 1, got %d", *workers)
	}
	if *ticks < 0 {
		log.Fatalf("sandbox: ticks must be >= 0, got %d", *ticks)
	}

	runSeed := *seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	s := sim.NewSimulation(cfg.Grid.Width, cfg.Grid.Height, runSeed)
	seeding.FillFromRatios(s, cfg, rand.New(rand.NewSource(runSeed)))

	if !*quiet {
		fmt.Printf("CFG grid=%dx%d ticks=%d workers=%d seed=%d\n",
			cfg.Grid.Width, cfg.Grid.Height, *ticks, *workers, runSeed)
	}

	csvWriter, err := telemetry.NewCSVWriter(cfg.Telemetry.CSVPath)
	if err != nil {
		log.Fatalf("sandbox: opening telemetry output: %v", err)
	}
	defer csvWriter.Close()

	windowLen := cfg.Telemetry.WindowLength
	if windowLen <= 0 {
		windowLen = 64
	}
	window := telemetry.NewWindow(0)

	start := time.Now()
	for i := 0; i < *ticks; i++ {
		tickStart := time.Now()
		failedLocks := s.ParTick(*workers)
		window.Observe(time.Since(tickStart).Seconds(), failedLocks)

		if (i+1)%windowLen == 0 || i == *ticks-1 {
			stats, next := window.Finish(int64(i), census(s))
			window = next
			if cfg.Telemetry.Enabled {
				if err := csvWriter.Write(stats); err != nil {
					log.Printf("sandbox: writing telemetry row: %v", err)
				}
			}
			if !*quiet && cfg.Telemetry.LogInterval > 0 && (i+1)%cfg.Telemetry.LogInterval == 0 {
				stats.LogStats()
			}
		}
	}
	elapsed := time.Since(start)

	if !*quiet {
		fmt.Printf("done ticks=%d workers=%d time=%v failed_locks=%d\n", *ticks, *workers, elapsed, s.FailedLocks())
	}

	if *snapshotPath != "" {
		if err := writeSnapshot(s, *snapshotPath); err != nil {
			log.Fatalf("sandbox: writing snapshot: %v", err)
		}
	}
}

func census(s *sim.Simulation) map[grid.Material]int {
	counts := map[grid.Material]int{}
	s.Each(func(_ grid.Position, p grid.Particle) {
		counts[p.Material]++
	})
	return counts
}

func writeSnapshot(s *sim.Simulation, path string) error {
	n := s.Width() * s.Height()
	materials := make([]grid.Material, n)
	s.Each(func(p grid.Position, particle grid.Particle) {
		materials[p.Y*s.Width()+p.X] = particle.Material
	})
	return os.WriteFile(path, bench.Encode(materials), 0o644)
}
