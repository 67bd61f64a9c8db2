package bench

import (
	"errors"
	"testing"

	"github.com/Endebert/sandspiel/grid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	materials := []grid.Material{
		grid.Sand, grid.SandGenerator, grid.Water, grid.WaterGenerator,
		grid.Air, grid.Fire, grid.Smoke, grid.Vapor, grid.Wood,
	}
	encoded := Encode(materials)
	want := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8}
	for i := range want {
		if encoded[i] != want[i] {
			t.Fatalf("Encode()[%d] = %d, want %d", i, encoded[i], want[i])
		}
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	for i, m := range materials {
		if decoded[i] != m {
			t.Fatalf("Decode()[%d] = %v, want %v", i, decoded[i], m)
		}
	}
}

func TestDecodeRejectsInvalidByte(t *testing.T) {
	_, err := Decode([]byte{0, 1, 9})
	if err == nil {
		t.Fatal("expected Decode to reject byte value 9")
	}
	if !errors.Is(err, ErrInvalidMaterialByte) {
		t.Fatalf("expected error to wrap ErrInvalidMaterialByte, got %v", err)
	}
}

func TestEncodeEmpty(t *testing.T) {
	if got := Encode(nil); len(got) != 0 {
		t.Fatalf("Encode(nil) = %v, want empty", got)
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil) returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Decode(nil) = %v, want empty", got)
	}
}
