package grid

import "math/rand"

// ExtendedDirectionKind distinguishes a single preferred direction from
// a randomized pair.
type ExtendedDirectionKind int

const (
	// One yields a single fixed direction.
	One ExtendedDirectionKind = iota
	// Random yields both A and B, in a uniformly random order.
	Random
)

// ExtendedDirection is one entry of a material's preferred-direction
// list (spec's "extended direction"): either a single Direction or an
// unordered pair that is resolved to an order lazily, at iteration
// time, using the caller's random stream.
type ExtendedDirection struct {
	Kind ExtendedDirectionKind
	A, B Direction
}

// Single builds a One(d) extended direction.
func Single(d Direction) ExtendedDirection {
	return ExtendedDirection{Kind: One, A: d}
}

// Pair builds a Random(a,b) extended direction.
func Pair(a, b Direction) ExtendedDirection {
	return ExtendedDirection{Kind: Random, A: a, B: b}
}

// Directions expands the extended direction into the concrete
// Direction sequence to try, in order. A Random pair flips a coin on
// every call, using rng — callers must pass their own thread-local
// generator so expansion never contends or shares state across
// goroutines.
func (e ExtendedDirection) Directions(rng *rand.Rand) []Direction {
	if e.Kind == One {
		return []Direction{e.A}
	}
	if rng.Intn(2) == 0 {
		return []Direction{e.A, e.B}
	}
	return []Direction{e.B, e.A}
}
