package coinselect

import "testing"

func TestNewDefaultRNGProducesVaryingOutput(t *testing.T) {
	rng, err := NewDefaultRNG()
	if err != nil {
		t.Fatalf("NewDefaultRNG() returned error: %v", err)
	}
	a := rng.Uint64()
	b := rng.Uint64()
	if a == b {
		t.Fatalf("consecutive draws from the chacha20 stream collided: %d == %d", a, b)
	}
}

func TestNewDefaultRNGDiffersAcrossInstances(t *testing.T) {
	first, err := NewDefaultRNG()
	if err != nil {
		t.Fatalf("NewDefaultRNG() returned error: %v", err)
	}
	second, err := NewDefaultRNG()
	if err != nil {
		t.Fatalf("NewDefaultRNG() returned error: %v", err)
	}
	if first.Uint64() == second.Uint64() {
		t.Fatalf("two independently seeded RNGs produced the same first value")
	}
}
