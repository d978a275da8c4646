package simulation

import (
	"math/rand/v2"
	"time"
)

// Source is the randomness the generator and the tick draw from.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewSource returns a deterministic PCG source for seed. A zero seed is
// replaced by the current time.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}
