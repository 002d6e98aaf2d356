package coinselect

// RNG is the narrow randomness surface the single-random-draw fallback
// consumes. Production code seeds from crypto/rand; tests inject a
// math/rand source with a fixed seed for determinism.
type RNG interface {
	// Uint64 returns a pseudo-random 64-bit value.
	Uint64() uint64
}

// Shuffle performs an in-place Fisher-Yates shuffle of candidates using
// rng, the same pattern the teacher's wallet uses for shuffling output
// indices before signing.
func Shuffle(rng RNG, candidates []Candidate) {
	for i := len(candidates) - 1; i > 0; i-- {
		j := int(rng.Uint64() % uint64(i+1))
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
}
