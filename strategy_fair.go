package weave

import "fmt"

// FairRandomStrategy wraps another strategy's operation picks with a
// per-operation streak bound: any operation that has stayed continuously
// enabled for more than streakBound consecutive scheduling points without
// being picked is forced to run next, regardless of what the wrapped
// strategy would have chosen. That bound is what licenses IsFair()
// reporting true — the spec's own description of Random ("IsFair=false but
// a 'fair-random' wrapper emulates fairness after a configurable streak")
// is exactly this: RandomStrategy alone gives no such guarantee, but
// FairRandomStrategy(RandomStrategy(...), bound) does. NextBoolean/
// NextInteger are delegated straight through to inner; the streak bound
// only applies to operation scheduling, not to oracle choices (those have
// their own, separate streak bound — see oracle.go's FairRandom).
type FairRandomStrategy struct {
	inner       ExplorationStrategy
	streakBound int
	waiting     map[uint64]int
}

// NewFairRandomStrategy wraps inner with a streak bound of streakBound
// consecutive enabled-but-unpicked scheduling points (<=0 defaults to 100,
// matching oracle.go's default).
func NewFairRandomStrategy(inner ExplorationStrategy, streakBound int) *FairRandomStrategy {
	if streakBound <= 0 {
		streakBound = 100
	}
	return &FairRandomStrategy{inner: inner, streakBound: streakBound, waiting: make(map[uint64]int)}
}

func (s *FairRandomStrategy) NextOperation(enabled []*Operation, current *Operation) (*Operation, error) {
	for _, op := range enabled {
		if s.waiting[op.ID] >= s.streakBound {
			s.bump(enabled, op.ID)
			return op, nil
		}
	}
	picked, err := s.inner.NextOperation(enabled, current)
	if err != nil {
		return nil, err
	}
	s.bump(enabled, picked.ID)
	return picked, nil
}

// bump resets the picked operation's wait counter and increments every
// other enabled operation's, tracking how long each has gone unpicked
// while continuously enabled.
func (s *FairRandomStrategy) bump(enabled []*Operation, pickedID uint64) {
	for _, op := range enabled {
		if op.ID == pickedID {
			s.waiting[op.ID] = 0
		} else {
			s.waiting[op.ID]++
		}
	}
}

func (s *FairRandomStrategy) NextBoolean() bool     { return s.inner.NextBoolean() }
func (s *FairRandomStrategy) NextInteger(n int) int { return s.inner.NextInteger(n) }

func (s *FairRandomStrategy) PrepareForNextIteration() {
	s.inner.PrepareForNextIteration()
	s.waiting = make(map[uint64]int)
}

func (s *FairRandomStrategy) IsFair() bool { return true }

func (s *FairRandomStrategy) Description() string {
	return fmt.Sprintf("FairRandom(%s,streak=%d)", s.inner.Description(), s.streakBound)
}

func (s *FairRandomStrategy) Err() error { return s.inner.Err() }
