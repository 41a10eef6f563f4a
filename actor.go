// actor.go implements Actor: a single schedulable state-machine, driving
// the eight-step dispatch core (dequeue, resolve, execute, transition,
// drain raised events, repeat) on its own goroutine, handed control by
// the OperationScheduler exactly when it is its turn to run.
package weave

import (
	"fmt"
	"runtime"
)

// StateMachineDef is the immutable blueprint a CreateActor call builds an
// Actor from: the root state of its hierarchy, every state reachable from
// it (keyed by name, for Goto/Push target lookup), and an optional OnHalt
// action run once, synchronously, when the actor transitions from
// Halting to Halted.
type StateMachineDef struct {
	Root   *State
	States map[StateName]*State
	OnHalt ActionFunc
}

// transitionKind distinguishes the three ways a post-step transition can
// be requested, whether declared in a handler table (GotoState/PushState)
// or invoked imperatively from within a DoAction body (Actor.Goto,
// Actor.Push, Actor.Pop).
type transitionKind int

const (
	transGoto transitionKind = iota
	transPush
	transPop
)

type pendingTransition struct {
	kind   transitionKind
	target StateName
}

type stepOutcome int

const (
	stepContinue stepOutcome = iota
	stepBlocked
	stepHalted
)

// Actor is one running state-machine: its hierarchical StateStack, its
// FIFO EventQueue, and the program-facing surface (Raise, Goto, Push,
// Pop, Receive, Random, RandomInt, FairRandom, Monitor, Assert,
// CreateActor, SendEvent) available to action bodies.
type Actor struct {
	ID      ActorId
	runtime *Runtime
	stack   *StateStack
	queue   *EventQueue
	states  map[StateName]*State
	onHalt  ActionFunc
	hooks   *Hooks

	op *Operation

	pendingRaise *pendingTransitionEvent
	transition   *pendingTransition

	halting  bool
	halted   bool
	inHalt   bool
	threadID int
}

// pendingTransitionEvent holds a raised event awaiting the drain step.
type pendingTransitionEvent struct {
	evt Event
}

// NewActor constructs an Actor in root's hierarchy, running root's entry
// action (if any) immediately, the way entering the initial state of any
// state machine does.
func NewActor(runtime *Runtime, id ActorId, root *State, states map[StateName]*State, onHalt ActionFunc, hooks *Hooks) (*Actor, error) {
	a := &Actor{
		ID:      id,
		runtime: runtime,
		stack:   NewStateStack(root),
		states:  states,
		onHalt:  onHalt,
		hooks:   hooks,
	}
	a.queue = NewEventQueue(func() bool { return a.stack.HasDefaultHandler() })
	a.queue.SetHooks(
		func(evt Event) { a.hooks.fireEnqueue(a.ID, evt) },
		func(res DequeueResult) {
			if res.Status == StatusEvent {
				a.hooks.fireDequeue(a.ID, res.Event)
			}
		},
		func(evt Event) { a.hooks.fireError(fmt.Sprintf("actor %s dropped event %s", a.ID, evt.Type)) },
	)
	a.syncQueueState()
	a.hooks.fireCreateActor(a.ID)

	if root.Entry != nil {
		a.hooks.fireStateTransition(a.ID, true, root.Name)
		if err := root.Entry(a, Event{}); err != nil {
			return nil, WrapError(fmt.Sprintf("actor %s entry action for %s", a.ID, root.Name), err)
		}
	}
	return a, nil
}

func (a *Actor) scheduler() *OperationScheduler { return a.runtime.scheduler }

func (a *Actor) syncQueueState() {
	deferred, ignored := a.stack.EffectiveDeferIgnore()
	a.queue.SetDeferIgnore(deferred, ignored)
}

// runLoop is the actor's goroutine body: park until first handed the
// baton, then repeatedly take one dispatch step and yield, until halted,
// an unrecoverable error occurs, or the scheduler kills every baton to
// unwind an ended iteration.
//
// It locks itself to its OS thread for its entire lifetime (mirroring
// eventloop/loop.go's run loop, which does the same before relying on
// thread-affinity-sensitive behavior), so currentThreadID() stays stable
// across scheduling points: checkControlled compares against the id
// stamped at the top of step(), and without the lock the Go scheduler is
// free to migrate this goroutine to a different OS thread between two
// ordinary calls, which would turn a perfectly legitimate call into a
// spurious KindUncontrolledInvocation — fatal to the whole run, not just
// the iteration. The lock is never released: runLoop's goroutine never
// does anything else once it returns, and an exiting goroutine that holds
// a locked thread takes that thread down with it, per runtime.LockOSThread's
// own documented behavior.
func (a *Actor) runLoop() {
	runtime.LockOSThread()
	if err := a.op.resume.Wait(); err != nil {
		return
	}
	for {
		outcome, err := a.step()
		if err != nil {
			a.runtime.reportFatal(err)
			_ = a.scheduler().Yield(a.op, OpCompleted, nil)
			return
		}
		switch outcome {
		case stepHalted:
			_ = a.scheduler().Yield(a.op, OpCompleted, nil)
			return
		case stepBlocked:
			if err := a.scheduler().Yield(a.op, OpBlockedReceive, nil); err != nil {
				return
			}
		default:
			if err := a.scheduler().Yield(a.op, OpEnabled, nil); err != nil {
				return
			}
		}
	}
}

// step performs one full macro-step: dequeue (or consult the default
// handler), dispatch and execute to quiescence, draining any raised
// events along the way, per the dispatch core's eight steps.
func (a *Actor) step() (stepOutcome, error) {
	a.threadID = currentThreadID()
	if a.halting {
		return a.finishHalt()
	}

	result := a.queue.Dequeue()
	var evt Event
	isDefault := false
	switch result.Status {
	case StatusNotReady:
		a.hooks.fireWait(a.ID)
		return stepBlocked, nil
	case StatusDefaultRaised:
		isDefault = true
	case StatusEvent:
		evt = result.Event
	}

	for {
		outcome, err := a.dispatchOne(evt, isDefault)
		if err != nil || outcome == stepHalted {
			return stepHalted, err
		}
		if a.pendingRaise == nil {
			break
		}
		next := a.pendingRaise.evt
		a.pendingRaise = nil
		a.hooks.fireHandleRaisedEvent(a.ID, next)
		evt = next
		isDefault = false
	}

	if a.halting {
		return a.finishHalt()
	}
	return stepContinue, nil
}

// dispatchOne resolves and runs exactly one handler against evt,
// including the pop-on-unhandled walk up the state stack, and applies
// any post-step transition it produces. It does not drain raised events;
// step's outer loop does that by calling dispatchOne again.
func (a *Actor) dispatchOne(evt Event, isDefault bool) (stepOutcome, error) {
	for {
		var h EventHandler
		var at *State
		var ok bool
		if isDefault {
			h, at, ok = a.stack.ResolveDefault()
			if ok {
				a.hooks.fireDefaultEventHandler(a.ID, at.Name)
			}
		} else {
			h, at, ok = a.stack.Resolve(evt.Type)
		}

		if !ok {
			if a.stack.Depth() <= 1 {
				if evt.MustHandle {
					return stepHalted, newRuntimeError(KindMustHandleViolation, nil,
						"actor %s: must-handle event %q reached the root state unhandled", a.ID, evt.Type)
				}
				return stepHalted, newRuntimeError(KindUnhandledEvent, nil,
					"actor %s: no handler for event %q in any active state", a.ID, evt.Type)
			}
			popped, err := a.stack.Pop()
			if err != nil {
				return stepHalted, err
			}
			a.hooks.firePopUnhandledEvent(a.ID, popped.Name, evt.Type)
			a.hooks.fireStateTransition(a.ID, false, popped.Name)
			if popped.Exit != nil {
				if err := popped.Exit(a, evt); err != nil {
					return stepHalted, WrapError(fmt.Sprintf("actor %s exit action for %s", a.ID, popped.Name), err)
				}
			}
			a.syncQueueState()
			continue
		}

		switch h.Kind {
		case DoAction:
			a.hooks.fireExecuteAction(a.ID, at.Name)
			if h.Action != nil {
				if err := h.Action(a, evt); err != nil {
					return stepHalted, WrapError(fmt.Sprintf("actor %s action in %s", a.ID, at.Name), err)
				}
			}
		case GotoState:
			a.transition = &pendingTransition{kind: transGoto, target: h.Target}
		case PushState:
			a.transition = &pendingTransition{kind: transPush, target: h.Target}
		}

		if a.transition != nil {
			t := a.transition
			a.transition = nil
			var err error
			switch t.kind {
			case transGoto:
				err = a.doGoto(t.target, evt)
			case transPush:
				err = a.doPush(t.target, evt)
			case transPop:
				err = a.doPop(evt)
			}
			if err != nil {
				return stepHalted, err
			}
		}
		return stepContinue, nil
	}
}

func (a *Actor) doGoto(target StateName, evt Event) error {
	targetState, ok := a.states[target]
	if !ok {
		return newRuntimeError(KindUnhandledEvent, nil, "actor %s: goto unknown state %q", a.ID, target)
	}
	from := a.stack.Current().Name
	targetPath := targetState.AncestorChain()
	lca := CommonAncestorDepth(a.stack.Frames(), targetPath)

	for a.stack.Depth() > lca {
		popped := a.stack.popForGoto()
		a.hooks.fireStateTransition(a.ID, false, popped.Name)
		if popped.Exit != nil {
			if err := popped.Exit(a, evt); err != nil {
				return WrapError(fmt.Sprintf("actor %s exit action for %s", a.ID, popped.Name), err)
			}
		}
	}
	for i := lca; i < len(targetPath); i++ {
		st := targetPath[i]
		a.stack.Push(st)
		a.hooks.fireStateTransition(a.ID, true, st.Name)
		if st.Entry != nil {
			if err := st.Entry(a, evt); err != nil {
				return WrapError(fmt.Sprintf("actor %s entry action for %s", a.ID, st.Name), err)
			}
		}
	}
	a.hooks.fireGoto(a.ID, from, target)
	a.syncQueueState()
	return nil
}

func (a *Actor) doPush(target StateName, evt Event) error {
	targetState, ok := a.states[target]
	if !ok {
		return newRuntimeError(KindUnhandledEvent, nil, "actor %s: push unknown state %q", a.ID, target)
	}
	a.stack.Push(targetState)
	a.hooks.fireStateTransition(a.ID, true, targetState.Name)
	a.hooks.firePush(a.ID, targetState.Name)
	if targetState.Entry != nil {
		if err := targetState.Entry(a, evt); err != nil {
			return WrapError(fmt.Sprintf("actor %s entry action for %s", a.ID, targetState.Name), err)
		}
	}
	a.syncQueueState()
	return nil
}

func (a *Actor) doPop(evt Event) error {
	popped, err := a.stack.Pop()
	if err != nil {
		return err
	}
	a.hooks.fireStateTransition(a.ID, false, popped.Name)
	a.hooks.firePop(a.ID, popped.Name)
	if popped.Exit != nil {
		if err := popped.Exit(a, evt); err != nil {
			return WrapError(fmt.Sprintf("actor %s exit action for %s", a.ID, popped.Name), err)
		}
	}
	a.syncQueueState()
	return nil
}

func (a *Actor) finishHalt() (stepOutcome, error) {
	a.inHalt = true
	a.hooks.fireHalt(a.ID)
	if a.onHalt != nil {
		if err := a.onHalt(a, Event{}); err != nil {
			a.inHalt = false
			return stepHalted, WrapError(fmt.Sprintf("actor %s OnHalt action", a.ID), err)
		}
	}
	a.inHalt = false
	a.halted = true
	if err := a.queue.Halt(); err != nil {
		return stepHalted, err
	}
	return stepHalted, nil
}

// deliver enqueues evt into this actor's inbox and, if the actor was
// parked waiting for its next event (implicitly idle or an explicit
// Receive), marks its operation runnable again. A spurious wake (the
// event didn't satisfy an active explicit Receive) is harmless: the
// actor's own loop re-blocks immediately, matching step()/Receive()'s
// retry-on-no-match design.
func (a *Actor) deliver(evt Event) error {
	if err := a.queue.Enqueue(evt); err != nil {
		return err
	}
	if a.op.status == OpBlockedReceive {
		a.scheduler().MarkRunnable(a.op)
	}
	return nil
}

// --- program-facing API, callable from within an action body ---

// checkControlled reports KindUncontrolledInvocation when an actor's API is
// called from a goroutine other than the one the scheduler's baton is
// currently held by — a background goroutine a library spawned (a timer, a
// reaper) calling back into the actor outside the scheduler's control,
// which would silently break the "exactly one operation runs at a time"
// invariant the whole runtime is built on. currentThreadID's platform
// fallback returns -1, which disables the check rather than false-alarm.
func (a *Actor) checkControlled() error {
	if tid := currentThreadID(); tid >= 0 && a.threadID >= 0 && tid != a.threadID {
		return newRuntimeError(KindUncontrolledInvocation, nil,
			"actor %s: API called from an uncontrolled goroutine (thread %d, expected %d)", a.ID, tid, a.threadID)
	}
	return nil
}

// Raise schedules evt to be dispatched immediately after the current
// handler (and any post-step transition it requested) completes, before
// the next regular dequeue — the raised-event drain step of the dispatch
// core.
func (a *Actor) Raise(evt EventType, payload any) error {
	if err := a.checkControlled(); err != nil {
		return err
	}
	if a.halting || a.inHalt {
		return newRuntimeError(KindIllegalOperationWhileHalted, nil, "actor %s: Raise called after Halt was requested", a.ID)
	}
	e := Event{Type: evt, Payload: payload, Sender: a.ID, HasSender: true}
	a.hooks.fireRaiseEvent(a.ID, e)
	a.pendingRaise = &pendingTransitionEvent{evt: e}
	return nil
}

// Goto requests a post-step transition to target, exiting up to the
// common ancestor and entering back down, exactly like a handler-table
// GotoState entry.
func (a *Actor) Goto(target StateName) error {
	if err := a.checkControlled(); err != nil {
		return err
	}
	if a.inHalt {
		return newRuntimeError(KindIllegalOperationWhileHalted, nil, "actor %s: Goto called from OnHalt", a.ID)
	}
	a.transition = &pendingTransition{kind: transGoto, target: target}
	return nil
}

// Push requests entering target as a nested child of the current state.
func (a *Actor) Push(target StateName) error {
	if err := a.checkControlled(); err != nil {
		return err
	}
	if a.inHalt {
		return newRuntimeError(KindIllegalOperationWhileHalted, nil, "actor %s: Push called from OnHalt", a.ID)
	}
	a.transition = &pendingTransition{kind: transPush, target: target}
	return nil
}

// Pop requests exiting the current (non-root) state.
func (a *Actor) Pop() error {
	if err := a.checkControlled(); err != nil {
		return err
	}
	if a.inHalt {
		return newRuntimeError(KindIllegalOperationWhileHalted, nil, "actor %s: Pop called from OnHalt", a.ID)
	}
	a.transition = &pendingTransition{kind: transPop}
	return nil
}

// Halt requests that the actor transition to Halting once the current
// step completes; OnHalt runs at the end of that same step (or, when Halt
// is called outside any step, at the start of the actor's next step),
// after which the actor is Halted and never scheduled again.
func (a *Actor) Halt() {
	a.halting = true
}

// Receive blocks the actor (a scheduling point) until an event matching
// predicate arrives, bypassing the current state's defer set (an
// explicit receive is specific to the types it names).
func (a *Actor) Receive(predicate func(Event) bool) (Event, error) {
	if err := a.checkControlled(); err != nil {
		return Event{}, err
	}
	if a.inHalt {
		return Event{}, newRuntimeError(KindIllegalOperationWhileHalted, nil, "actor %s: Receive called from OnHalt", a.ID)
	}
	if evt, ok := a.queue.BeginReceive(predicate); ok {
		a.hooks.fireReceive(a.ID, evt)
		return evt, nil
	}
	for {
		a.hooks.fireWait(a.ID)
		if err := a.scheduler().Yield(a.op, OpBlockedReceive, nil); err != nil {
			return Event{}, newRuntimeError(KindUncontrolledInvocation, err, "actor %s: killed while receiving", a.ID)
		}
		if evt, ok := a.queue.ReceiveResult(); ok {
			a.hooks.fireReceive(a.ID, evt)
			return evt, nil
		}
	}
}

// Random returns the next nondeterministic boolean choice.
func (a *Actor) Random() bool { return a.runtime.oracle.Random(a.ID) }

// RandomInt returns the next nondeterministic choice in [0, n).
func (a *Actor) RandomInt(n int) int { return a.runtime.oracle.RandomInt(a.ID, n) }

// FairRandom returns the next streak-bounded fair boolean choice.
func (a *Actor) FairRandom() bool { return a.runtime.oracle.FairRandom(a.ID) }

// Monitor dispatches evt to every registered Monitor, synchronously.
func (a *Actor) Monitor(evt Event) error { return a.runtime.spec.Dispatch(evt) }

// Assert raises KindAssertionFailure if cond is false.
func (a *Actor) Assert(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return newRuntimeError(KindAssertionFailure, nil, "actor %s: %s", a.ID, fmt.Sprintf(format, args...))
}

// CreateActor spawns a new actor of def's state machine, with this actor
// recorded as its creator group.
func (a *Actor) CreateActor(actorType, name string, def StateMachineDef) (ActorId, error) {
	return a.runtime.createActor(a, actorType, name, def)
}

// SendEvent delivers evt to target, tagging this actor as the sender.
func (a *Actor) SendEvent(target ActorId, evt Event) error {
	return a.runtime.sendEvent(a, target, evt)
}
