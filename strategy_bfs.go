package weave

// BFSStrategy round-robins through the enabled set: each call picks the
// smallest enabled operation id greater than the last one picked, wrapping
// back to the smallest enabled id once every operation has had a turn.
// This gives every enabled operation a bounded wait before its next turn —
// no operation can stay runnable forever while starving another, which is
// what makes it IsFair=true, unlike the fixed-lowest-id pick it used to be.
// Choices (NextBoolean/NextInteger) are fixed: always the first (zero/
// false) alternative.
type BFSStrategy struct {
	lastID uint64
}

// NewBFSStrategy builds the round-robin strategy.
func NewBFSStrategy() *BFSStrategy { return &BFSStrategy{} }

func (s *BFSStrategy) NextOperation(enabled []*Operation, _ *Operation) (*Operation, error) {
	var next, smallest *Operation
	for _, op := range enabled {
		if smallest == nil || op.ID < smallest.ID {
			smallest = op
		}
		if op.ID > s.lastID && (next == nil || op.ID < next.ID) {
			next = op
		}
	}
	if next == nil {
		next = smallest
	}
	s.lastID = next.ID
	return next, nil
}

func (s *BFSStrategy) NextBoolean() bool        { return false }
func (s *BFSStrategy) NextInteger(n int) int    { return 0 }
func (s *BFSStrategy) PrepareForNextIteration() { s.lastID = 0 }
func (s *BFSStrategy) IsFair() bool             { return true }
func (s *BFSStrategy) Description() string      { return "BFS" }
func (s *BFSStrategy) Err() error               { return nil }
