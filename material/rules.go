package material

import (
	"math/rand"

	"github.com/Endebert/sandspiel/grid"
)

// PreferredDirections returns the ordered list of extended directions
// a particle of material m tries, in priority order, during one step.
func PreferredDirections(m grid.Material) []grid.ExtendedDirection {
	switch m {
	case Sand:
		return []grid.ExtendedDirection{
			grid.Single(grid.Down),
			grid.Pair(grid.RightDown, grid.LeftDown),
		}
	case SandGenerator:
		return []grid.ExtendedDirection{grid.Single(grid.Down)}
	case Water:
		return []grid.ExtendedDirection{
			grid.Single(grid.Down),
			grid.Pair(grid.RightDown, grid.LeftDown),
			grid.Pair(grid.Right, grid.Left),
		}
	case WaterGenerator:
		return []grid.ExtendedDirection{grid.Single(grid.Down)}
	case Fire:
		return []grid.ExtendedDirection{
			grid.Single(grid.Down),
			grid.Pair(grid.RightDown, grid.LeftDown),
			grid.Pair(grid.Right, grid.Left),
			grid.Single(grid.Up),
			grid.Pair(grid.RightUp, grid.LeftUp),
		}
	case Smoke, Vapor:
		return []grid.ExtendedDirection{
			grid.Single(grid.Up),
			grid.Pair(grid.RightUp, grid.LeftUp),
			grid.Pair(grid.Right, grid.Left),
		}
	default: // Air, Wood
		return nil
	}
}

// Material name aliases so this file reads the way the table in the
// spec does, without importing grid.Material under a different name
// at every call site.
const (
	Air            = grid.Air
	Sand           = grid.Sand
	SandGenerator  = grid.SandGenerator
	Water          = grid.Water
	WaterGenerator = grid.WaterGenerator
	Fire           = grid.Fire
	Smoke          = grid.Smoke
	Vapor          = grid.Vapor
	Wood           = grid.Wood
)

func evade() CollisionDesire { return CollisionDesire{Kind: Evade} }

func swapAndMove() CollisionDesire { return CollisionDesire{Kind: SwapAndMove} }

func swapAndStop() CollisionDesire { return CollisionDesire{Kind: SwapAndStop} }

func convert(m grid.Material) CollisionDesire {
	return CollisionDesire{Kind: Convert, Result: m}
}

func consume(m grid.Material) CollisionDesire {
	return CollisionDesire{Kind: Consume, Result: m}
}

func eradicate(self, neighbor grid.Material) CollisionDesire {
	return CollisionDesire{Kind: Eradicate, Result: self, NeighborResult: neighbor}
}

// rand2 picks a with probability 1/2, else b.
func rand2(rng *rand.Rand, a, b CollisionDesire) CollisionDesire {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}

// rand3 picks among a, b, c with probability 1/3 each.
func rand3(rng *rand.Rand, a, b, c CollisionDesire) CollisionDesire {
	switch rng.Intn(3) {
	case 0:
		return a
	case 1:
		return b
	default:
		return c
	}
}

func isDownward(d grid.Direction) bool {
	return d == grid.Down || d == grid.LeftDown || d == grid.RightDown
}

// Collide decides the outcome of self (the acting particle) considering
// a neighbor of material other in direction d. rng must be the
// caller's thread-local random stream.
func Collide(self, other grid.Material, d grid.Direction, rng *rand.Rand) CollisionDesire {
	switch self {
	case Sand:
		switch other {
		case Water:
			return rand2(rng, swapAndStop(), evade())
		case Air:
			return swapAndMove()
		default:
			return evade()
		}

	case SandGenerator:
		if other == Air {
			return rand2(rng, convert(Sand), evade())
		}
		return evade()

	case Water:
		switch other {
		case Air, Vapor, Smoke:
			return rand2(rng, swapAndMove(), evade())
		case Fire:
			return eradicate(Vapor, Smoke)
		default:
			return evade()
		}

	case WaterGenerator:
		if other == Air {
			return rand2(rng, convert(Water), evade())
		}
		return evade()

	case Air:
		return evade()

	case Fire:
		switch other {
		case Air, Smoke, Vapor:
			if isDownward(d) {
				return rand2(rng, swapAndStop(), evade())
			}
			return evade()
		case Water:
			return rand2(rng, consume(Vapor), eradicate(Smoke, Vapor))
		case Wood:
			return rand3(rng, consume(Smoke), consume(Fire), evade())
		default:
			return evade()
		}

	case Smoke:
		switch other {
		case Air:
			return rand2(rng, swapAndStop(), evade())
		case Vapor:
			return rand2(rng, swapAndStop(), eradicate(Water, Air))
		default:
			return evade()
		}

	case Vapor:
		switch other {
		case Air:
			return rand2(rng, swapAndStop(), evade())
		case Smoke:
			return rand2(rng, swapAndStop(), eradicate(Air, Water))
		default:
			return evade()
		}

	case Wood:
		return evade()

	default:
		return evade()
	}
}
