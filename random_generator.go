package dlt

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
	"sync"
)

// SecureRandomGenerator implements RandomGenerator using crypto/rand, so every
// invocation draws fresh OS entropy
type SecureRandomGenerator struct{}

// NewSecureRandomGenerator creates a new secure random generator
func NewSecureRandomGenerator() *SecureRandomGenerator {
	return &SecureRandomGenerator{}
}

// GenerateInRange generates a secure random number within the specified range [min, max] (inclusive)
func (g *SecureRandomGenerator) GenerateInRange(min, max int) (int, error) {
	if err := ValidateRange(min, max); err != nil {
		return 0, err
	}

	// Handle edge case where min == max
	if min == max {
		return min, nil
	}

	randomBig, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		return 0, err
	}
	return int(randomBig.Int64()) + min, nil
}

// SeededGenerator implements RandomGenerator with a PCG source from a fixed
// seed. Sequences are reproducible, which makes it suitable for tests.
type SeededGenerator struct {
	mu  sync.Mutex
	rnd *mathrand.Rand
}

// NewSeededGenerator creates a generator whose output is fully determined by seed
func NewSeededGenerator(seed uint64) *SeededGenerator {
	return &SeededGenerator{rnd: mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// GenerateInRange returns a pseudo-random integer in [min, max]
func (g *SeededGenerator) GenerateInRange(min, max int) (int, error) {
	if err := ValidateRange(min, max); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return min + g.rnd.IntN(max-min+1), nil
}
