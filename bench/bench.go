// Package bench materializes a simulation's initial material array to
// and from a flat byte sequence, for benchmark fixtures and
// reproducible scenario snapshots. It is the only package allowed to
// know about InvalidMaterialByte; the error never reaches grid,
// material, or sim.
package bench

import (
	"errors"
	"fmt"

	"github.com/Endebert/sandspiel/grid"
)

// ErrInvalidMaterialByte is returned by Decode when the input contains
// a byte outside the canonical material encoding.
var ErrInvalidMaterialByte = errors.New("bench: invalid material byte")

var byteToMaterial = map[byte]grid.Material{
	0: grid.Sand,
	1: grid.SandGenerator,
	2: grid.Water,
	3: grid.WaterGenerator,
	4: grid.Air,
	5: grid.Fire,
	6: grid.Smoke,
	7: grid.Vapor,
	8: grid.Wood,
}

var materialToByte = func() map[grid.Material]byte {
	m := make(map[grid.Material]byte, len(byteToMaterial))
	for b, mat := range byteToMaterial {
		m[mat] = b
	}
	return m
}()

// Encode converts a slice of materials to their canonical byte
// encoding, one byte per material, in order.
func Encode(materials []grid.Material) []byte {
	out := make([]byte, len(materials))
	for i, m := range materials {
		b, ok := materialToByte[m]
		if !ok {
			panic(fmt.Sprintf("bench: material %v has no byte encoding", m))
		}
		out[i] = b
	}
	return out
}

// Decode parses a flat byte sequence into materials. It fails fast on
// the first invalid byte, returning ErrInvalidMaterialByte wrapped with
// the offending index and value.
func Decode(data []byte) ([]grid.Material, error) {
	out := make([]grid.Material, len(data))
	for i, b := range data {
		m, ok := byteToMaterial[b]
		if !ok {
			return nil, fmt.Errorf("%w: byte 0x%02x at index %d", ErrInvalidMaterialByte, b, i)
		}
		out[i] = m
	}
	return out, nil
}
