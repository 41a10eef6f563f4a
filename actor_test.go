package weave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests drive Actor's dispatch core through a full Runtime, since an
// Actor is only ever constructed by Runtime.createActor (it needs a live
// scheduler, oracle, and spec to run at all).

func TestRuntime_TwoActorsMessagePassingFixedOrder(t *testing.T) {
	var rounds int
	const target = 6

	pingState := NewState("S")
	pongState := NewState("S")
	var pingID, pongID ActorId

	pingState.OnDo("Ball", func(a *Actor, evt Event) error {
		rounds++
		if rounds >= target {
			a.Halt()
			return a.SendEvent(pongID, Event{Type: "Stop"})
		}
		return a.SendEvent(pongID, Event{Type: "Ball"})
	}).OnDo("Stop", func(a *Actor, evt Event) error {
		a.Halt()
		return nil
	})

	pongState.OnDo("Ball", func(a *Actor, evt Event) error {
		rounds++
		if rounds >= target {
			a.Halt()
			return a.SendEvent(pingID, Event{Type: "Stop"})
		}
		return a.SendEvent(pingID, Event{Type: "Ball"})
	}).OnDo("Stop", func(a *Actor, evt Event) error {
		a.Halt()
		return nil
	})

	rt, err := New(WithStrategy(NewBFSStrategy()))
	require.NoError(t, err)

	result, err := rt.Run(func(r *Runtime) error {
		var err error
		pingID, err = r.CreateActor("Pinger", "ping", StateMachineDef{Root: pingState})
		if err != nil {
			return err
		}
		pongID, err = r.CreateActor("Ponger", "pong", StateMachineDef{Root: pongState})
		if err != nil {
			return err
		}
		return r.SendEvent(pingID, Event{Type: "Ball"})
	})
	require.NoError(t, err)
	assert.Equal(t, ExitAllIterationsClean, result.Reason)
	assert.Equal(t, target, rounds)
}

func TestRuntime_DeferredEventDeliveredAfterStateChange(t *testing.T) {
	var order []string

	stateA := NewState("A")
	stateB := NewState("B")
	stateA.Defer("Go")
	stateA.OnGoto("Switch", "B")
	stateB.Entry = func(a *Actor, evt Event) error {
		order = append(order, "enteredB")
		return nil
	}
	stateB.OnDo("Go", func(a *Actor, evt Event) error {
		order = append(order, "handledGo")
		a.Halt()
		return nil
	})

	rt, err := New(WithStrategy(NewBFSStrategy()))
	require.NoError(t, err)

	result, err := rt.Run(func(r *Runtime) error {
		id, err := r.CreateActor("Deferrer", "d", StateMachineDef{
			Root:   stateA,
			States: map[StateName]*State{"A": stateA, "B": stateB},
		})
		if err != nil {
			return err
		}
		if err := r.SendEvent(id, Event{Type: "Go"}); err != nil {
			return err
		}
		return r.SendEvent(id, Event{Type: "Switch"})
	})
	require.NoError(t, err)
	assert.Equal(t, ExitAllIterationsClean, result.Reason)
	assert.Equal(t, []string{"enteredB", "handledGo"}, order)
}

func TestRuntime_PushAndPopRestoresParentState(t *testing.T) {
	var handled []string

	parent := NewState("Parent")
	child := NewState("Child").WithParent(parent)
	parent.OnPush("Enter", "Child")
	parent.OnDo("InParent", func(a *Actor, evt Event) error {
		handled = append(handled, "parent")
		a.Halt()
		return nil
	})
	child.OnDo("Leave", func(a *Actor, evt Event) error {
		handled = append(handled, "child")
		return a.Pop()
	})

	rt, err := New(WithStrategy(NewBFSStrategy()))
	require.NoError(t, err)

	result, err := rt.Run(func(r *Runtime) error {
		id, err := r.CreateActor("Pusher", "p", StateMachineDef{
			Root:   parent,
			States: map[StateName]*State{"Parent": parent, "Child": child},
		})
		if err != nil {
			return err
		}
		if err := r.SendEvent(id, Event{Type: "Enter"}); err != nil {
			return err
		}
		if err := r.SendEvent(id, Event{Type: "Leave"}); err != nil {
			return err
		}
		return r.SendEvent(id, Event{Type: "InParent"})
	})
	require.NoError(t, err)
	assert.Equal(t, ExitAllIterationsClean, result.Reason)
	assert.Equal(t, []string{"child", "parent"}, handled)
}
