// Package seeding turns a config.FillConfig's named ratios into an
// initial material fill, shared by the sandbox and gui commands.
package seeding

import (
	"log"
	"math/rand"
	"runtime"

	"github.com/Endebert/sandspiel/config"
	"github.com/Endebert/sandspiel/grid"
	"github.com/Endebert/sandspiel/sim"
)

var materialByName = map[string]grid.Material{
	"air":             grid.Air,
	"sand":            grid.Sand,
	"sand_generator":  grid.SandGenerator,
	"water":           grid.Water,
	"water_generator": grid.WaterGenerator,
	"fire":            grid.Fire,
	"smoke":           grid.Smoke,
	"vapor":           grid.Vapor,
	"wood":            grid.Wood,
}

// FillFromRatios seeds every cell of s independently by drawing from
// cfg.Fill.Ratios, normalized against their own sum. A cfg with no
// ratios leaves the grid untouched (all Air, per Grid's zero value).
func FillFromRatios(s *sim.Simulation, cfg *config.Config, rng *rand.Rand) {
	ratios := cfg.Fill.Ratios
	if len(ratios) == 0 {
		return
	}

	materials := make([]grid.Material, 0, len(ratios))
	weights := make([]float64, 0, len(ratios))
	total := 0.0
	for _, r := range ratios {
		m, ok := materialByName[r.Material]
		if !ok {
			log.Fatalf("seeding: unknown fill material %q", r.Material)
		}
		materials = append(materials, m)
		weights = append(weights, r.Ratio)
		total += r.Ratio
	}
	if total <= 0 {
		return
	}

	n := s.Width() * s.Height()
	fill := make([]grid.Material, n)
	for i := range fill {
		draw := rng.Float64() * total
		acc := 0.0
		chosen := materials[len(materials)-1]
		for j, w := range weights {
			acc += w
			if draw < acc {
				chosen = materials[j]
				break
			}
		}
		fill[i] = chosen
	}
	s.ParFill(fill, runtime.NumCPU())
}
