package weave

import (
	"fmt"
	"math/rand/v2"
)

// ProbabilisticStrategy weights toward continuing whichever operation just
// ran: at each scheduling point, if the previously-run operation (current)
// is still enabled, it is picked again with probability w/(w+1) — this is
// the locality spec.md §4.5 describes ("weighted toward continuing the
// current op with probability w, improving locality"). The complementary
// 1/(w+1) branch (always taken when current is nil, not enabled, or w==0)
// picks the highest-priority enabled operation from a total order over
// known operation ids (first-seen order), demoting the chosen operation to the back of
// that order so the same priority pick doesn't repeat every time. Larger w
// means runs look more like a fixed single operation running to
// completion before the next switch; w == 0 always switches, picking
// uniformly by priority every step.
type ProbabilisticStrategy struct {
	w        int
	seed     uint64
	rng      *rand.Rand
	priority map[uint64]int
	next     int
}

// NewProbabilisticStrategy builds a ProbabilisticStrategy with priority
// change weight w (must be >= 0) and PRNG seed.
func NewProbabilisticStrategy(w int, seed uint64) *ProbabilisticStrategy {
	return &ProbabilisticStrategy{
		w:        w,
		seed:     seed,
		rng:      newRand(seed),
		priority: make(map[uint64]int),
	}
}

func (s *ProbabilisticStrategy) priorityOf(id uint64) int {
	p, ok := s.priority[id]
	if !ok {
		p = s.next
		s.next++
		s.priority[id] = p
	}
	return p
}

func (s *ProbabilisticStrategy) NextOperation(enabled []*Operation, current *Operation) (*Operation, error) {
	if current != nil && s.rng.IntN(s.w+1) != 0 {
		for _, op := range enabled {
			if op.ID == current.ID {
				return op, nil
			}
		}
	}

	// priority-change point: pick the highest-priority enabled operation,
	// then demote it to the back of the order so a different one wins next
	// time the same set is enabled.
	best := enabled[0]
	bestPriority := s.priorityOf(best.ID)
	for _, op := range enabled[1:] {
		p := s.priorityOf(op.ID)
		if p < bestPriority {
			best, bestPriority = op, p
		}
	}
	s.priority[best.ID] = s.next
	s.next++
	return best, nil
}

func (s *ProbabilisticStrategy) NextBoolean() bool { return s.rng.IntN(2) == 1 }

func (s *ProbabilisticStrategy) NextInteger(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

func (s *ProbabilisticStrategy) PrepareForNextIteration() {
	s.seed++
	s.rng = newRand(s.seed)
	s.priority = make(map[uint64]int)
	s.next = 0
}

func (s *ProbabilisticStrategy) IsFair() bool { return true }

func (s *ProbabilisticStrategy) Description() string {
	return fmt.Sprintf("Probabilistic(w=%d,seed=%d)", s.w, s.seed)
}

func (s *ProbabilisticStrategy) Err() error { return nil }
