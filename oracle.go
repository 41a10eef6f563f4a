// oracle.go implements NondeterministicOracle: the program-facing surface
// for randomized choices (Random, RandomInt, FairRandom). Every choice is
// answered by the active ExplorationStrategy (so BoundedDFS/PCT/Replay
// control it exactly like they control operation interleaving) and
// recorded to the trace, so a bug that only reproduces under a specific
// sequence of random choices replays deterministically too. A choice is
// not a scheduling point: the oracle does not yield to the scheduler, and
// the calling operation keeps running after it.
package weave

// NondeterministicOracle answers an actor's in-action random choices,
// delegating the underlying decision to the configured ExplorationStrategy
// and recording every choice for replay.
type NondeterministicOracle struct {
	strategy ExplorationStrategy
	trace    *TraceRecorder
	hooks    *Hooks

	// fair tracks, per actor, the current run length and polarity of a
	// FairRandom call sequence, enforcing the streak bound below.
	fair map[ActorId]*fairState
	// fairStreakBound is the maximum number of consecutive identical
	// FairRandom results before the oracle forces a flip, guaranteeing
	// FairRandom cannot stall a liveness property on an unlucky streak of
	// "always true" (or "always false") under a fair strategy.
	fairStreakBound int
}

type fairState struct {
	lastValue bool
	streak    int
}

// NewNondeterministicOracle builds an oracle over strategy, recording
// every choice to trace (may be nil to disable recording, e.g. a replay
// run re-deriving the same trace has nothing new to record) and firing
// hooks (may be nil).
func NewNondeterministicOracle(strategy ExplorationStrategy, trace *TraceRecorder, hooks *Hooks, fairStreakBound int) *NondeterministicOracle {
	if fairStreakBound <= 0 {
		fairStreakBound = 100
	}
	return &NondeterministicOracle{
		strategy:        strategy,
		trace:           trace,
		hooks:           hooks,
		fair:            make(map[ActorId]*fairState),
		fairStreakBound: fairStreakBound,
	}
}

// Random returns the next nondeterministic boolean choice.
func (o *NondeterministicOracle) Random(id ActorId) bool {
	v := o.strategy.NextBoolean()
	if o.trace != nil {
		o.trace.RecordBoolean(v)
	}
	o.hooks.fireRandom(id, v)
	return v
}

// RandomInt returns the next nondeterministic choice in [0, n). n <= 0
// always returns 0.
func (o *NondeterministicOracle) RandomInt(id ActorId, n int) int {
	v := o.strategy.NextInteger(n)
	if o.trace != nil {
		o.trace.RecordInteger(v)
	}
	o.hooks.fireRandom(id, v)
	return v
}

// FairRandom returns a boolean choice guaranteed, under a fair strategy,
// not to run the same value more than fairStreakBound times in a row for
// a given actor — the mechanism that lets a monitor's liveness property
// depend on "this eventually becomes true" without that being starved by
// an adversarial-looking but technically-fair run of random choices.
//
// The strategy is consulted exactly once per call, same as Random and
// RandomInt, even when the streak bound is about to override its answer:
// every nondeterministic call must produce exactly one trace entry (§8's
// "BooleanChoice+IntegerChoice entries equal random/randomInt/fairRandom
// calls" invariant) and consume exactly one strategy draw, or a replayed
// run's streak state would diverge from the recorded one the moment a
// forced flip occurred.
func (o *NondeterministicOracle) FairRandom(id ActorId) bool {
	st, ok := o.fair[id]
	if !ok {
		st = &fairState{}
		o.fair[id] = st
	}

	v := o.strategy.NextBoolean()
	if st.streak >= o.fairStreakBound {
		v = !st.lastValue
	}
	if o.trace != nil {
		o.trace.RecordBoolean(v)
	}

	if v == st.lastValue {
		st.streak++
	} else {
		st.lastValue = v
		st.streak = 1
	}

	o.hooks.fireRandom(id, v)
	return v
}

// reset clears per-actor fair-random streak state ahead of the next
// iteration (ids are reallocated each iteration, so stale entries would
// only ever leak memory, never misbehave, but clearing keeps memory flat
// across a long run).
func (o *NondeterministicOracle) reset() {
	o.fair = make(map[ActorId]*fairState)
}
