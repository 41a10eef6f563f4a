package weave

import "fmt"

// dfsChoice records one decision this iteration: which alternative was
// picked, out of how many.
type dfsChoice struct {
	index   int
	numAlts int
}

// BoundedDFSStrategy performs systematic depth-first exploration of the
// first k scheduling/choice points of each iteration (k is the bound);
// beyond the bound it always takes the first alternative, so deeper
// interleavings are explored only as the DFS backtracks through the
// bounded prefix. PrepareForNextIteration backtracks to the rightmost
// choice point (within the bound) that still has an untried alternative,
// forces that prefix to replay, and lets everything after it explore
// fresh; once no such point remains the space is exhausted.
type BoundedDFSStrategy struct {
	bound     int
	replay    []int
	current   []dfsChoice
	exhausted bool
}

// NewBoundedDFSStrategy builds a BoundedDFSStrategy bounded to k choice
// points.
func NewBoundedDFSStrategy(k int) *BoundedDFSStrategy {
	return &BoundedDFSStrategy{bound: k}
}

func (s *BoundedDFSStrategy) pick(numAlts int) int {
	idx := len(s.current)
	var choice int
	switch {
	case idx < len(s.replay):
		choice = s.replay[idx]
	default:
		choice = 0
	}
	if choice >= numAlts {
		choice = numAlts - 1
	}
	if choice < 0 {
		choice = 0
	}
	s.current = append(s.current, dfsChoice{index: choice, numAlts: numAlts})
	return choice
}

func (s *BoundedDFSStrategy) NextOperation(enabled []*Operation, _ *Operation) (*Operation, error) {
	if s.exhausted {
		return nil, ErrStrategyExhausted
	}
	return enabled[s.pick(len(enabled))], nil
}

func (s *BoundedDFSStrategy) NextBoolean() bool { return s.pick(2) == 1 }

func (s *BoundedDFSStrategy) NextInteger(n int) int {
	if n <= 0 {
		return 0
	}
	return s.pick(n)
}

func (s *BoundedDFSStrategy) PrepareForNextIteration() {
	limit := len(s.current)
	if limit > s.bound {
		limit = s.bound
	}
	for i := limit - 1; i >= 0; i-- {
		c := s.current[i]
		if c.index+1 < c.numAlts {
			next := make([]int, i+1)
			for j := 0; j < i; j++ {
				next[j] = s.current[j].index
			}
			next[i] = c.index + 1
			s.replay = next
			s.current = nil
			return
		}
	}
	s.exhausted = true
	s.replay = nil
	s.current = nil
}

func (s *BoundedDFSStrategy) IsFair() bool { return false }

func (s *BoundedDFSStrategy) Description() string {
	return fmt.Sprintf("BoundedDFS(k=%d)", s.bound)
}

func (s *BoundedDFSStrategy) Err() error { return nil }
