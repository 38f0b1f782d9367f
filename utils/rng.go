package utils

import "math/rand/v2"

// NewRNG creates a deterministic generator for the provided seed
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// NewProcessRNG creates a generator seeded from the runtime's random source
func NewProcessRNG() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
