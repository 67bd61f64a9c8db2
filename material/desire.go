// Package material holds the pure rule functions that decide how two
// materials interact: the preferred-direction list for a material, and
// the CollisionDesire produced when a particle considers a neighbor in
// one of those directions. Nothing here touches a Grid or a lock —
// these are plain functions of (material, material, direction, rng).
package material

import "github.com/Endebert/sandspiel/grid"

// DesireKind is the closed set of outcomes the Stepper can apply.
type DesireKind int

const (
	// Evade: no change.
	Evade DesireKind = iota
	// SwapAndMove: exchange self and neighbor; continue stepping from
	// the neighbor's former position.
	SwapAndMove
	// SwapAndStop: exchange, then the moving particle halts.
	SwapAndStop
	// Convert: neighbor's material becomes Result; self unchanged.
	Convert
	// Consume: self overwrites neighbor with a copy of self; self
	// becomes Result.
	Consume
	// GetConverted: self becomes Result; neighbor unchanged.
	GetConverted
	// Eradicate: self becomes Result, neighbor becomes NeighborResult.
	Eradicate
)

// CollisionDesire is the outcome of a material-vs-material-vs-direction
// decision. Only the fields relevant to Kind are meaningful; the
// Stepper pattern-matches on Kind via a switch, never through an
// interface.
type CollisionDesire struct {
	Kind           DesireKind
	Result         grid.Material // Convert/Consume/GetConverted/Eradicate: self's or neighbor's new material
	NeighborResult grid.Material // Eradicate only: neighbor's new material
}
