package sim

import (
	"math/rand"
	"sync/atomic"

	"github.com/Endebert/sandspiel/grid"
	"github.com/Endebert/sandspiel/material"
)

// stepper advances a single cell's particle through one tick's worth
// of motion. It is not safe for concurrent use by itself — each
// worker goroutine owns one stepper, built around that goroutine's
// own *rand.Rand, per the thread-local-stream rule in the spec.
type stepper struct {
	g           *grid.Grid
	rng         *rand.Rand
	failedLocks *atomic.Uint64
}

// handle is the entry point for processing the cell at p: acquire its
// slot, skip it if already handled this tick, otherwise bump its
// velocity and hand off to step. Any chain of SwapAndMove outcomes
// reached from here runs as an explicit loop inside step rather than
// through recursive step calls, so a long free-fall never grows the
// goroutine's call stack; only the re-entrant handle call for a
// vacated cell recurses, and that recursion is bounded by how many
// cells get swapped into in a single tick.
func (s *stepper) handle(p grid.Position) {
	slot, ok := s.g.Cell(p)
	if !ok {
		return
	}
	slot.Lock()
	particle := slot.Get()
	if particle.Handled {
		slot.Unlock()
		return
	}
	particle.Velocity++
	slot.Set(particle)

	stepsRemaining := particle.Velocity
	if stepsRemaining < 0 {
		stepsRemaining = -stepsRemaining
	}
	s.step(p, slot, stepsRemaining)
}

// step runs the directional try-lock/collide loop for the particle
// currently at p (already locked as slot), continuing with new
// positions as SwapAndMove chains the particle onward, until its step
// budget is exhausted or some other CollisionDesire resolves the step.
func (s *stepper) step(p grid.Position, slot grid.Slot, stepsRemaining int16) {
	for {
		if stepsRemaining <= 0 {
			// Free-fall: the particle moved every step this tick
			// without obstruction. Velocity is retained so next
			// tick's handle() keeps accelerating it.
			self := slot.Get()
			self.Handled = true
			slot.Set(self)
			slot.Unlock()
			return
		}

		self := slot.Get()
		dirs := material.PreferredDirections(self.Material)
		moved := false

	directionLoop:
		for _, ext := range dirs {
			for _, d := range ext.Directions(s.rng) {
				np, nslot, ok := s.g.Neighbor(p, d)
				if !ok {
					continue
				}
				if !nslot.TryLock() {
					s.failedLocks.Add(1)
					continue
				}

				neighbor := nslot.Get()
				desire := material.Collide(self.Material, neighbor.Material, d, s.rng)

				switch desire.Kind {
				case material.Evade:
					nslot.Unlock()
					continue

				case material.SwapAndMove:
					nslot.Set(self)
					slot.Set(neighbor)
					slot.Unlock()
					s.handle(p) // re-enter the now-vacated cell
					p = np
					slot = nslot
					stepsRemaining--
					moved = true
					break directionLoop

				case material.SwapAndStop:
					self.Velocity = 0
					self.Handled = true
					neighbor.Handled = true
					nslot.Set(self)
					slot.Set(neighbor)
					nslot.Unlock()
					slot.Unlock()
					return

				case material.Convert:
					nslot.Set(grid.Particle{Material: desire.Result, Handled: true})
					nslot.Unlock()
					break directionLoop

				case material.Consume:
					copied := self
					copied.Handled = true
					nslot.Set(copied)
					nslot.Unlock()
					self.Material = desire.Result
					self.Velocity = 0
					self.Handled = true
					slot.Set(self)
					slot.Unlock()
					return

				case material.GetConverted:
					nslot.Unlock()
					self.Material = desire.Result
					self.Velocity = 0
					self.Handled = true
					slot.Set(self)
					slot.Unlock()
					return

				case material.Eradicate:
					neighbor.Material = desire.NeighborResult
					neighbor.Velocity = 0
					neighbor.Handled = true
					nslot.Set(neighbor)
					nslot.Unlock()

					self.Material = desire.Result
					self.Velocity = 0
					self.Handled = true
					slot.Set(self)
					slot.Unlock()
					return
				}
			}
		}

		if moved {
			continue
		}

		self.Velocity = 0
		self.Handled = true
		slot.Set(self)
		slot.Unlock()
		return
	}
}
