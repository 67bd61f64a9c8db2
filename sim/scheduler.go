// Package sim ties the grid, material rules, and the per-cell Stepper
// together behind a single exported handle, Simulation, that external
// callers — renderers, CLIs, benchmark harnesses — drive one tick at a
// time. Everything above this package (windowing, rasterising,
// terminal UI, WASM bindings) talks to the simulation only through the
// operations below.
package sim

import (
	"math/rand"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Endebert/sandspiel/grid"
)

// Simulation owns a Grid and drives it one tick at a time.
type Simulation struct {
	g           *grid.Grid
	seed        int64
	tick        int64
	failedLocks atomic.Uint64
}

// NewSimulation builds a Simulation over a fresh width x height Grid,
// every cell initialized to Air. seed seeds the per-shard and
// single-threaded random streams; passing 0 is fine, it is not a
// sentinel for "unseeded".
func NewSimulation(width, height int, seed int64) *Simulation {
	return &Simulation{
		g:    grid.New(width, height),
		seed: seed,
	}
}

// Width returns the simulation grid's width in cells.
func (s *Simulation) Width() int { return s.g.Width() }

// Height returns the simulation grid's height in cells.
func (s *Simulation) Height() int { return s.g.Height() }

// Cell acquires a handle to the slot at p for external read or write.
// Callers must release it promptly; holding it across a Tick/ParTick
// call is forbidden.
func (s *Simulation) Cell(p grid.Position) (grid.Slot, bool) {
	return s.g.Cell(p)
}

// Each visits every cell in row-major order; used by renderers to
// sample the whole grid between ticks.
func (s *Simulation) Each(fn func(grid.Position, grid.Particle)) {
	s.g.Each(fn)
}

// FailedLocks returns the number of neighbor try-lock failures
// accumulated during the most recent Tick or ParTick call.
func (s *Simulation) FailedLocks() uint64 {
	return s.failedLocks.Load()
}

// Fill overwrites the first len(materials) slots, in row-major order
// starting at index 0, with fresh particles of the given materials
// (Handled=false, Velocity=0). It panics if materials is longer than
// the grid — an InvalidFill is a programmer error, not a runtime
// condition callers are expected to recover from.
func (s *Simulation) Fill(materials []grid.Material) {
	s.checkFillLen(materials)
	for i, m := range materials {
		slot, _ := s.g.Cell(s.g.IndexToPos(i))
		slot.Lock()
		slot.Set(grid.Particle{Material: m})
		slot.Unlock()
	}
}

// ParFill is Fill's parallel counterpart: the same row-major
// overwrite, but performed by workers worker goroutines each locking
// only the slots it touches. Safe to call because every worker writes
// to a disjoint range of indices.
func (s *Simulation) ParFill(materials []grid.Material, workers int) {
	s.checkFillLen(materials)
	if workers < 1 {
		workers = 1
	}
	shards := splitFillShards(len(materials), workers)

	var eg errgroup.Group
	for _, sh := range shards {
		sh := sh
		eg.Go(func() error {
			for i := sh.start; i < sh.end; i++ {
				slot, _ := s.g.Cell(s.g.IndexToPos(i))
				slot.Lock()
				slot.Set(grid.Particle{Material: materials[i]})
				slot.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()
}

func (s *Simulation) checkFillLen(materials []grid.Material) {
	if len(materials) > s.g.Len() {
		panic("sim: fill length exceeds grid size")
	}
}

// Tick advances the simulation by one step on the calling goroutine:
// a reset sweep followed by a single reverse pass over every cell.
// This is the path used when the host reports a parallelism of one
// (for example, a WASM runtime).
func (s *Simulation) Tick() {
	s.resetHandledSequential()

	rng := rand.New(rand.NewSource(s.seed + s.tick))
	st := &stepper{g: s.g, rng: rng, failedLocks: &s.failedLocks}
	s.failedLocks.Store(0)

	for i := s.g.Len() - 1; i >= 0; i-- {
		st.handle(s.g.IndexToPos(i))
	}
	s.tick++
}

// ParTick advances the simulation by one step across workers
// goroutines: a parallel reset sweep, then a parallel stepping sweep
// over contiguous, reverse-ordered index shards. It returns the number
// of neighbor try-lock failures observed during the stepping sweep.
func (s *Simulation) ParTick(workers int) uint64 {
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		s.Tick()
		return s.failedLocks.Load()
	}

	s.resetHandledParallel(workers)
	s.failedLocks.Store(0)

	shards := splitShards(s.g.Len(), workers)
	stepSeed := s.seed + s.tick

	var eg errgroup.Group
	for i, sh := range shards {
		i, sh := i, sh
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(stepSeed + int64(i)))
			st := &stepper{g: s.g, rng: rng, failedLocks: &s.failedLocks}
			for idx := sh.end - 1; idx >= sh.start; idx-- {
				st.handle(s.g.IndexToPos(idx))
			}
			return nil
		})
	}
	_ = eg.Wait()

	s.tick++
	return s.failedLocks.Load()
}

// resetHandledSequential clears every cell's Handled flag, one lock at
// a time, on the calling goroutine.
func (s *Simulation) resetHandledSequential() {
	for i := 0; i < s.g.Len(); i++ {
		slot, _ := s.g.Cell(s.g.IndexToPos(i))
		slot.Lock()
		p := slot.Get()
		p.Handled = false
		slot.Set(p)
		slot.Unlock()
	}
}

// resetHandledParallel clears every cell's Handled flag across
// workers goroutines, each locking only the slots in its own shard —
// no global lock, matching the reset sweep's performance requirement.
// Unlike the stepping sweep, the reset sweep must touch every cell, so
// it partitions with splitFillShards rather than splitShards: the
// stepping sweep's dropped-last-index behavior is scoped to stepping
// alone, never to the reset that precedes it.
func (s *Simulation) resetHandledParallel(workers int) {
	shards := splitFillShards(s.g.Len(), workers)
	var eg errgroup.Group
	for _, sh := range shards {
		sh := sh
		eg.Go(func() error {
			for i := sh.start; i < sh.end; i++ {
				slot, _ := s.g.Cell(s.g.IndexToPos(i))
				slot.Lock()
				p := slot.Get()
				p.Handled = false
				slot.Set(p)
				slot.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()
}

type shard struct{ start, end int }

// splitShards partitions [0, length) into n contiguous shards as
// evenly as possible. The final shard deliberately ends at length-1,
// not length — the last index is never visited by any shard. This
// mirrors an off-by-one present in the reference scheduler; whether
// the final cell should be processed is called out as an open
// question, not a bug to silently fix here.
func splitShards(length, n int) []shard {
	if n < 1 {
		n = 1
	}
	if n > length {
		n = length
	}
	if n == 0 {
		return nil
	}
	base := length / n
	shards := make([]shard, n)
	start := 0
	for i := 0; i < n; i++ {
		end := start + base
		if i == n-1 {
			end = length - 1
		}
		shards[i] = shard{start: start, end: end}
		start += base
	}
	return shards
}

// splitFillShards partitions [0, length) into n contiguous, fully
// covering shards. Unlike splitShards, it carries none of the
// stepping sweep's off-by-one: Fill and ParFill write every requested
// index, including the last one.
func splitFillShards(length, n int) []shard {
	if n < 1 {
		n = 1
	}
	if n > length {
		n = length
	}
	if n == 0 {
		return nil
	}
	base := length / n
	remainder := length % n
	shards := make([]shard, n)
	start := 0
	for i := 0; i < n; i++ {
		end := start + base
		if i < remainder {
			end++
		}
		shards[i] = shard{start: start, end: end}
		start = end
	}
	return shards
}
