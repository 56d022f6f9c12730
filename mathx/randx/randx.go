package randx

import (
	"math/rand"
	randv2 "math/rand/v2"

	"github.com/seehuhn/mt19937"
)

// DefaultSeed は乱数シードを固定するときの既定値です。
const DefaultSeed = 0

// New returns a math/rand generator driven by MT19937-64 and seeded with seed.
// Generators built from the same seed produce identical streams.
func New(seed int64) *rand.Rand {
	mt := mt19937.New()
	mt.Seed(seed)
	return rand.New(mt)
}

// NewPCG returns a math/rand/v2 generator with a fixed seed.
func NewPCG(seed uint64) *randv2.Rand {
	return randv2.New(randv2.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func Rademacher(rng *rand.Rand) float64 {
	if rng.Intn(2) == 0 {
		return 1.0
	}
	return -1.0
}

// Choice returns a uniformly drawn element of xs. xs must not be empty.
func Choice[X any](xs []X, rng *rand.Rand) X {
	return xs[rng.Intn(len(xs))]
}
