package sim

import (
	"testing"

	"github.com/Endebert/sandspiel/grid"
)

var letterMaterial = map[byte]grid.Material{
	'A': grid.Air,
	'S': grid.Sand,
	'G': grid.SandGenerator,
	'W': grid.Water,
	'H': grid.WaterGenerator,
	'F': grid.Fire,
	'K': grid.Smoke,
	'V': grid.Vapor,
	'D': grid.Wood,
}

// buildSim parses literal 5x5 scenario rows (top to bottom) into a
// freshly filled Simulation, one character per cell.
func buildSim(t *testing.T, seed int64, rows ...string) *Simulation {
	t.Helper()
	height := len(rows)
	width := len(rows[0])
	s := NewSimulation(width, height, seed)
	materials := make([]grid.Material, 0, width*height)
	for _, row := range rows {
		if len(row) != width {
			t.Fatalf("ragged scenario row %q, want width %d", row, width)
		}
		for i := 0; i < len(row); i++ {
			m, ok := letterMaterial[row[i]]
			if !ok {
				t.Fatalf("unknown scenario letter %q", row[i])
			}
			materials = append(materials, m)
		}
	}
	s.Fill(materials)
	return s
}

func census(s *Simulation) map[grid.Material]int {
	counts := map[grid.Material]int{}
	s.Each(func(_ grid.Position, p grid.Particle) {
		counts[p.Material]++
	})
	return counts
}

func runTick(s *Simulation, workers int) {
	if workers <= 1 {
		s.Tick()
		return
	}
	s.ParTick(workers)
}

var workerCounts = []int{1, 2, 4}

// --- I1 / I3 / I4: structural invariants across every tick ---

func TestInvariantsHoldAfterEveryTick(t *testing.T) {
	for _, workers := range workerCounts {
		// Fire consumes adjacent Wood, so the Wood row sits at the top:
		// Fire only ever moves downward or into a Water cell, and Water
		// never rises, so Fire can never reach row 1 and I1 must hold.
		s := buildSim(t, 99,
			"DDDDD",
			"AASAA",
			"AAWAA",
			"AAFAA",
			"AGAAA",
		)
		woodBefore := census(s)[grid.Wood]

		for tick := 0; tick < 10; tick++ {
			runTick(s, workers)

			woodAfter := census(s)[grid.Wood]
			if woodAfter != woodBefore {
				t.Fatalf("workers=%d tick=%d: Wood count changed %d -> %d (I1)", workers, tick, woodBefore, woodAfter)
			}

			// The stepping sweep's shard partition (splitShards)
			// deliberately ends its final shard at len-1, per the
			// off-by-one called out in §9: the very last grid index
			// is never visited by ParTick's stepping pass, so under a
			// multi-worker sweep it is Handled only if a neighbor's
			// action happened to write into it. This
			// is scoped to stepping only — the reset sweep still
			// clears Handled on every cell, including the last one —
			// so I3 is checked over every index except that single
			// excluded one, not relaxed further.
			lastIndex := s.g.Len() - 1
			allHandled := true
			negVelocity := false
			s.Each(func(pos grid.Position, p grid.Particle) {
				if s.g.PosToIndex(pos) == lastIndex && workers > 1 {
					return
				}
				if !p.Handled {
					allHandled = false
				}
				if p.Velocity < 0 {
					negVelocity = true
				}
			})
			if !allHandled {
				t.Fatalf("workers=%d tick=%d: not every cell handled=true (I3)", workers, tick)
			}
			if negVelocity {
				t.Fatalf("workers=%d tick=%d: found negative velocity at tick boundary (I4)", workers, tick)
			}
		}
	}
}

// --- R1: all-Wood grid is a fixed point ---

func TestAllWoodGridIsFixedPoint(t *testing.T) {
	for _, workers := range workerCounts {
		s := buildSim(t, 1,
			"DDDDD",
			"DDDDD",
			"DDDDD",
			"DDDDD",
			"DDDDD",
		)
		before := census(s)

		runTick(s, workers)

		after := census(s)
		if after[grid.Wood] != before[grid.Wood] || after[grid.Wood] != 25 {
			t.Fatalf("workers=%d: all-Wood grid did not stay a fixed point, counts before=%v after=%v", workers, before, after)
		}
		s.Each(func(_ grid.Position, p grid.Particle) {
			if p.Material != grid.Wood || p.Velocity != 0 {
				t.Fatalf("workers=%d: expected every cell to remain Wood with velocity 0, got %+v", workers, p)
			}
		})
	}
}

// --- R2: all-Air grid stays all-Air ---

func TestAllAirGridStaysAllAir(t *testing.T) {
	for _, workers := range workerCounts {
		s := buildSim(t, 1,
			"AAAAA",
			"AAAAA",
			"AAAAA",
			"AAAAA",
			"AAAAA",
		)
		for tick := 0; tick < 5; tick++ {
			runTick(s, workers)
		}
		counts := census(s)
		if counts[grid.Air] != 25 {
			t.Fatalf("workers=%d: all-Air grid drifted, counts=%v", workers, counts)
		}
	}
}

// --- B1: a particle at x=0 never reaches off-grid via a Left* neighbor ---

func TestBoundaryNeverLooksPastLeftEdge(t *testing.T) {
	s := NewSimulation(5, 5, 1)
	for _, d := range []grid.Direction{grid.Left, grid.LeftUp, grid.LeftDown} {
		if _, _, ok := s.g.Neighbor(grid.Position{X: 0, Y: 2}, d); ok {
			t.Errorf("Neighbor at x=0 in direction %v should be absent, got present", d)
		}
	}
}

// --- Scenario 1: sand falls straight ---
//
// Velocity accumulates across free-falling ticks, so an unobstructed
// grain reaches the bottom row well within four ticks rather than
// exactly on the fourth; only the eventual resting position and the
// particle count are asserted.

func TestScenarioSandFallsStraight(t *testing.T) {
	for _, workers := range workerCounts {
		s := buildSim(t, 5,
			"AASAA",
			"AAAAA",
			"AAAAA",
			"AAAAA",
			"AAAAA",
		)
		for i := 0; i < 4; i++ {
			runTick(s, workers)
		}
		counts := census(s)
		if counts[grid.Sand] != 1 {
			t.Fatalf("workers=%d: expected exactly one Sand cell, counts=%v", workers, counts)
		}
		p, _ := s.Cell(grid.Position{X: 2, Y: 4})
		if p.Get().Material != grid.Sand {
			t.Fatalf("workers=%d: expected sand to have reached the bottom row, col 2", workers)
		}
	}
}

// --- Scenario 2: sand stacks, count conserved ---

func TestScenarioSandStacksCountConserved(t *testing.T) {
	for _, workers := range workerCounts {
		s := buildSim(t, 7,
			"AASAA",
			"AAAAA",
			"AASAA",
			"AAAAA",
			"AASAA",
		)
		for i := 0; i < 12; i++ {
			runTick(s, workers)
		}
		counts := census(s)
		if counts[grid.Sand] != 3 {
			t.Fatalf("workers=%d: expected Sand count to stay 3, got %d", workers, counts[grid.Sand])
		}

		rowsAbove := 0
		s.Each(func(p grid.Position, particle grid.Particle) {
			if particle.Material == grid.Sand && p.Y < 3 {
				rowsAbove++
			}
		})
		if rowsAbove != 0 {
			t.Errorf("workers=%d: expected all Sand to have settled into rows 3-4, found %d above", workers, rowsAbove)
		}
	}
}

// --- Scenario 3: sand through water, counts conserved ---

func TestScenarioSandThroughWaterCountsConserved(t *testing.T) {
	for _, workers := range workerCounts {
		s := buildSim(t, 11,
			"AASAA",
			"AAAAA",
			"AAWAA",
			"AAAAA",
			"AAAAA",
		)
		runTick(s, workers)
		counts := census(s)
		if counts[grid.Sand] != 1 || counts[grid.Water] != 1 {
			t.Fatalf("workers=%d: expected Sand=1 Water=1, got %v", workers, counts)
		}
	}
}

// --- Scenario 4 / B2: fire on wood never creates Water or Vapor ---

func TestScenarioFireOnWoodNeverCreatesWaterOrVapor(t *testing.T) {
	for _, workers := range workerCounts {
		s := buildSim(t, 13,
			"AAFAA",
			"AAAAA",
			"AAAAA",
			"AAAAA",
			"DDDDD",
		)
		sawChange := false
		for i := 0; i < 30; i++ {
			runTick(s, workers)
			counts := census(s)
			if counts[grid.Water] != 0 || counts[grid.Vapor] != 0 {
				t.Fatalf("workers=%d tick=%d: fire on wood produced Water/Vapor, counts=%v", workers, i, counts)
			}
			if counts[grid.Smoke] > 0 || counts[grid.Fire] > 1 {
				sawChange = true
			}
		}
		if !sawChange {
			t.Errorf("workers=%d: fire never appeared to consume any wood over 30 ticks", workers)
		}
	}
}

// --- Scenario 5: water meets fire ---
//
// Fire-water contact either relocates Fire one cell (Consume: the old
// Fire position becomes Vapor, the contacted Water cell becomes Fire —
// count of Fire is conserved) or annihilates it entirely (Eradicate:
// Fire becomes Smoke, Water becomes Vapor). Either way Fire can never
// exceed its starting count of one, and every contact yields a Vapor
// or Smoke cell; which cell holds Fire this tick depends on scheduling
// and random tie-breaks, so only those two invariants are asserted.

func TestScenarioWaterMeetsFire(t *testing.T) {
	for _, workers := range workerCounts {
		s := buildSim(t, 17,
			"AAWAA",
			"AAWAA",
			"AAWAA",
			"AAFAA",
			"AAAAA",
		)
		waterBefore := census(s)[grid.Water]
		sawVaporOrSmoke := false

		for i := 0; i < 40; i++ {
			runTick(s, workers)

			counts := census(s)
			if counts[grid.Fire] > 1 {
				t.Fatalf("workers=%d tick=%d: Fire count %d exceeds its starting count of 1", workers, i, counts[grid.Fire])
			}
			if counts[grid.Vapor] > 0 || counts[grid.Smoke] > 0 {
				sawVaporOrSmoke = true
			}
		}

		if !sawVaporOrSmoke {
			t.Errorf("workers=%d: water never appeared to react with fire over 40 ticks", workers)
		}
		if counts := census(s); counts[grid.Water] > waterBefore {
			t.Errorf("workers=%d: Water count increased from %d to %d", workers, waterBefore, counts[grid.Water])
		}
	}
}

// --- Scenario 6: SandGenerator spawns sand, stays a generator ---

func TestScenarioSandGeneratorSpawns(t *testing.T) {
	for _, workers := range workerCounts {
		s := buildSim(t, 19,
			"AGAAA",
			"AAAAA",
			"AAAAA",
			"AAAAA",
			"AAAAA",
		)
		sandBefore := census(s)[grid.Sand]

		for i := 0; i < 15; i++ {
			runTick(s, workers)
		}

		counts := census(s)
		if counts[grid.Sand] <= sandBefore {
			t.Errorf("workers=%d: expected more Sand after ticking, before=%d after=%d", workers, sandBefore, counts[grid.Sand])
		}
		genSlot, _ := s.Cell(grid.Position{X: 1, Y: 0})
		if genSlot.Get().Material != grid.SandGenerator {
			t.Errorf("workers=%d: generator cell should remain SandGenerator", workers)
		}
	}
}

// --- Fill / ParFill agreement ---

func TestParFillMatchesFillAcrossWorkerCounts(t *testing.T) {
	materials := make([]grid.Material, 5*5)
	for i := range materials {
		if i%3 == 0 {
			materials[i] = grid.Sand
		} else {
			materials[i] = grid.Air
		}
	}

	wantSand := 0
	for _, m := range materials {
		if m == grid.Sand {
			wantSand++
		}
	}

	for _, workers := range []int{1, 2, 3, 4, 7} {
		s := NewSimulation(5, 5, 1)
		s.ParFill(materials, workers)

		counts := census(s)
		if counts[grid.Sand] != wantSand {
			t.Fatalf("workers=%d: ParFill wrote %d Sand cells, want %d (did the last index get dropped?)", workers, counts[grid.Sand], wantSand)
		}

		lastWant := materials[len(materials)-1]
		lastSlot, _ := s.Cell(s.g.IndexToPos(len(materials) - 1))
		if got := lastSlot.Get().Material; got != lastWant {
			t.Fatalf("workers=%d: last grid index holds %v, want %v", workers, got, lastWant)
		}
	}
}
