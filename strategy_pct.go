package weave

import (
	"fmt"
	"math/rand/v2"
)

// pctHorizon bounds how far ahead PCTStrategy pre-selects priority-change
// points; an iteration with more scheduling points than this simply never
// hits the unselected tail, which only makes those later steps behave
// like a fixed priority order instead of adding more churn.
const pctHorizon = 256

// PCTStrategy implements probabilistic-concurrency-testing: a random
// total priority order over operations, with d "priority change points"
// chosen randomly ahead of each iteration. At each of those points the
// currently lowest-priority enabled operation is promoted to the highest
// priority, giving bugs that need a specific, small number of priority
// inversions a much better chance of appearing than uniform random
// scheduling would.
type PCTStrategy struct {
	d            int
	seed         uint64
	rng          *rand.Rand
	priority     map[uint64]int
	next         int
	changePoints map[int]bool
	step         int
}

// NewPCTStrategy builds a PCTStrategy with d priority-change points and
// PRNG seed.
func NewPCTStrategy(d int, seed uint64) *PCTStrategy {
	s := &PCTStrategy{d: d, seed: seed}
	s.reset()
	return s
}

func (s *PCTStrategy) reset() {
	s.rng = newRand(s.seed)
	s.priority = make(map[uint64]int)
	s.next = 0
	s.step = 0
	s.changePoints = make(map[int]bool, s.d)
	for len(s.changePoints) < s.d && len(s.changePoints) < pctHorizon {
		s.changePoints[s.rng.IntN(pctHorizon)] = true
	}
}

func (s *PCTStrategy) priorityOf(id uint64) int {
	p, ok := s.priority[id]
	if !ok {
		p = s.rng.Int()
		s.priority[id] = p
	}
	return p
}

func (s *PCTStrategy) NextOperation(enabled []*Operation, _ *Operation) (*Operation, error) {
	step := s.step
	s.step++
	if s.changePoints[step] {
		lowest := enabled[0]
		lowestPriority := s.priorityOf(lowest.ID)
		for _, op := range enabled[1:] {
			if p := s.priorityOf(op.ID); p > lowestPriority {
				lowest, lowestPriority = op, p
			}
		}
		s.priority[lowest.ID] = -s.next
		s.next++
	}
	best := enabled[0]
	bestPriority := s.priorityOf(best.ID)
	for _, op := range enabled[1:] {
		if p := s.priorityOf(op.ID); p < bestPriority {
			best, bestPriority = op, p
		}
	}
	return best, nil
}

func (s *PCTStrategy) NextBoolean() bool { return s.rng.IntN(2) == 1 }

func (s *PCTStrategy) NextInteger(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

func (s *PCTStrategy) PrepareForNextIteration() {
	s.seed++
	s.reset()
}

func (s *PCTStrategy) IsFair() bool { return true }

func (s *PCTStrategy) Description() string {
	return fmt.Sprintf("PCT(d=%d,seed=%d)", s.d, s.seed)
}

func (s *PCTStrategy) Err() error { return nil }
