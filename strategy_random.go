package weave

import (
	"fmt"
	"math/rand/v2"
)

// RandomStrategy picks uniformly among the enabled set at every
// scheduling point and answers every choice from the same PRNG stream. It
// reports IsFair false: a uniform draw gives every enabled operation
// nonzero probability at each individual step, but nothing bounds how long
// an unlucky run can keep starving one of them, so a monitor ending hot
// under bare RandomStrategy is not a meaningful liveness violation. Wrap it
// in FairRandomStrategy (strategy_fair.go) to get an actual fairness
// guarantee.
type RandomStrategy struct {
	seed uint64
	rng  *rand.Rand
}

// NewRandomStrategy builds a RandomStrategy seeded by seed.
func NewRandomStrategy(seed uint64) *RandomStrategy {
	return &RandomStrategy{seed: seed, rng: newRand(seed)}
}

func (s *RandomStrategy) NextOperation(enabled []*Operation, _ *Operation) (*Operation, error) {
	return enabled[s.rng.IntN(len(enabled))], nil
}

func (s *RandomStrategy) NextBoolean() bool { return s.rng.IntN(2) == 1 }

func (s *RandomStrategy) NextInteger(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

func (s *RandomStrategy) PrepareForNextIteration() {
	s.seed++
	s.rng = newRand(s.seed)
}

func (s *RandomStrategy) IsFair() bool { return false }

func (s *RandomStrategy) Description() string {
	return fmt.Sprintf("Random(seed=%d)", s.seed)
}

func (s *RandomStrategy) Err() error { return nil }
