// controller.go implements Runtime: the top-level object a program builds
// once, then drives through one or more iterations via Run. It owns the
// id allocator, the actor table, the Specification (monitors), the
// OperationScheduler, the NondeterministicOracle, and the TraceRecorder —
// every piece of per-iteration state is torn down and rebuilt between
// iterations so that iteration N+1 starts from exactly the same baseline
// as iteration 1 (ids restart at 1, monitors restart in their initial
// state, the trace is empty).
package weave

import (
	"errors"
	"sync"
)

// ExitReason classifies how Runtime.Run ended.
type ExitReason int

const (
	// ExitAllIterationsClean reports that every configured iteration
	// completed without an error and without ending in a monitor's hot
	// state under a fair strategy.
	ExitAllIterationsClean ExitReason = iota
	// ExitBugFound reports that at least one iteration produced an
	// error; see RunResult.Bugs.
	ExitBugFound
	// ExitStrategyExhausted reports that a systematic strategy
	// (BoundedDFS) exhausted its entire bounded search space before the
	// configured iteration count was reached.
	ExitStrategyExhausted
)

// String renders the exit reason for run summaries.
func (r ExitReason) String() string {
	switch r {
	case ExitAllIterationsClean:
		return "AllIterationsClean"
	case ExitBugFound:
		return "BugFound"
	case ExitStrategyExhausted:
		return "StrategyExhausted"
	default:
		return "Unknown"
	}
}

// BugReport is one iteration's failure: the error it ended with and the
// full schedule/choice trace that reproduces it (see ScheduleTrace and
// Config's replayTrace option).
type BugReport struct {
	Iteration int
	Err       error
	Trace     ScheduleTrace
}

// RunResult is Runtime.Run's exit discipline: which of the three outcomes
// occurred, how many iterations actually ran, and every bug found (one
// entry unless WithStopOnFirstBug(false) was configured).
type RunResult struct {
	Reason     ExitReason
	Iterations int
	Bugs       []BugReport
}

// Runtime is the top-level object a program constructs via New, then
// drives via Run. It is not safe for concurrent use by the caller (the
// caller's own goroutine is what drives CreateActor/SendEvent calls made
// outside of any action, during test setup); concurrency among already
// spawned actors is entirely managed internally by the scheduler.
type Runtime struct {
	config *Config
	hooks  *Hooks

	ids    *idAllocator
	actors map[ActorId]*Actor
	opSeq  uint64

	scheduler     *OperationScheduler
	oracle        *NondeterministicOracle
	spec          *Specification
	traceRecorder *TraceRecorder

	mu           sync.Mutex
	iterationErr error
}

// New builds a Runtime from opts, ready to run its first iteration.
func New(opts ...Option) (*Runtime, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	r := &Runtime{config: cfg, hooks: cfg.hooks}
	r.resetForIteration()
	return r, nil
}

func (r *Runtime) resetForIteration() {
	r.ids = newIDAllocator()
	r.actors = make(map[ActorId]*Actor)
	r.opSeq = 0
	r.iterationErr = nil
	r.traceRecorder = NewTraceRecorder()
	r.spec = NewSpecification(r.hooks)
	r.oracle = NewNondeterministicOracle(r.config.strategy, r.traceRecorder, r.hooks, r.config.fairRandomStreakBound)
	r.scheduler = NewOperationScheduler(r.config.strategy, r.hooks, r.traceRecorder, r.config.maxStepsPerIteration)
}

// Run executes the configured number of iterations of entry, each time
// calling entry to build the initial actor graph and then letting the
// scheduler drive every spawned actor to completion, a deadlock, or a
// reported error.
func (r *Runtime) Run(entry func(r *Runtime) error) (*RunResult, error) {
	result := &RunResult{Reason: ExitAllIterationsClean}
	for i := 0; i < r.config.iterations; i++ {
		result.Iterations = i + 1

		err := r.runIteration(entry)
		if err != nil {
			if errors.Is(err, ErrStrategyExhausted) {
				result.Reason = ExitStrategyExhausted
				return result, nil
			}
			result.Reason = ExitBugFound
			result.Bugs = append(result.Bugs, BugReport{Iteration: i + 1, Err: err, Trace: r.traceRecorder.Trace()})
			fatal := false
			var rerr *RuntimeError
			for e := err; errors.As(e, &rerr); e = rerr.Cause {
				if rerr.Kind.FatalToRun() {
					fatal = true
					break
				}
			}
			if r.config.stopOnFirstBug || fatal {
				return result, nil
			}
		}

		if i+1 < r.config.iterations {
			r.config.strategy.PrepareForNextIteration()
			r.resetForIteration()
		}
	}
	return result, nil
}

func (r *Runtime) runIteration(entry func(r *Runtime) error) error {
	if err := entry(r); err != nil {
		return err
	}
	if err := r.scheduler.Run(); err != nil {
		r.scheduler.Kill()
		return err
	}
	r.mu.Lock()
	iterErr := r.iterationErr
	r.mu.Unlock()
	if iterErr != nil {
		return iterErr
	}
	if err := r.config.strategy.Err(); err != nil {
		return err
	}
	if r.config.strategy.IsFair() {
		if hot := r.spec.LivenessViolations(); len(hot) > 0 {
			return newRuntimeError(KindLivenessViolation, nil, "detected liveness bug in hot state '%s'", hot[0].CurrentState().Name)
		}
	}
	return nil
}

// reportFatal records the first error reported by any actor this
// iteration and kills every operation's baton so the scheduler loop
// unwinds promptly instead of waiting on operations that will now never
// make further progress toward quiescence.
func (r *Runtime) reportFatal(err error) {
	r.mu.Lock()
	if r.iterationErr == nil {
		r.iterationErr = err
	}
	r.mu.Unlock()
	r.scheduler.Kill()
}

// CreateActor spawns a new actor of def's state machine as part of test
// setup (outside any running action).
func (r *Runtime) CreateActor(actorType, name string, def StateMachineDef) (ActorId, error) {
	return r.createActor(nil, actorType, name, def)
}

func (r *Runtime) createActor(creator *Actor, actorType, name string, def StateMachineDef) (ActorId, error) {
	var creatorGroup uint64
	if creator != nil {
		creatorGroup = creator.ID.Sequence
	}
	id := r.ids.NextActorId(actorType, name, creatorGroup)

	states := def.States
	if states == nil {
		states = map[StateName]*State{def.Root.Name: def.Root}
	}

	actor, err := NewActor(r, id, def.Root, states, def.OnHalt, r.hooks)
	if err != nil {
		return ActorId{}, err
	}

	r.opSeq++
	op := newOperation(r.opSeq, id)
	actor.op = op
	r.actors[id] = actor
	r.scheduler.Register(op)
	go actor.runLoop()

	return id, nil
}

// SendEvent delivers evt to target as part of test setup (outside any
// running action).
func (r *Runtime) SendEvent(target ActorId, evt Event) error {
	return r.sendEvent(nil, target, evt)
}

func (r *Runtime) sendEvent(from *Actor, target ActorId, evt Event) error {
	actor, ok := r.actors[target]
	if !ok {
		return newRuntimeError(KindUnhandledEvent, nil, "no such actor %s", target)
	}
	if from != nil {
		evt.Sender = from.ID
		evt.HasSender = true
	}
	r.hooks.fireSend(evt.Sender, evt.HasSender, target, evt)
	return actor.deliver(evt)
}

// RegisterMonitor registers m with the Specification for this iteration
// (test setup only; monitors are not created fresh per actor).
func (r *Runtime) RegisterMonitor(m *Monitor) {
	m.SetOracle(r.oracle)
	r.spec.RegisterMonitor(m)
}

// Monitor dispatches evt to every registered monitor, from test setup.
func (r *Runtime) Monitor(evt Event) error {
	return r.spec.Dispatch(evt)
}

// Assert raises KindAssertionFailure if cond is false, from test setup.
func (r *Runtime) Assert(cond bool, format string, args ...any) error {
	return Assert(cond, format, args...)
}
