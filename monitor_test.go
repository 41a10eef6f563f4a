package weave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_StartsInGivenStateAndRunsEntry(t *testing.T) {
	var entered bool
	start := NewMonitorState("Idle", Cold).OnDo("noop", func(m *Monitor, evt Event) error { return nil })
	start.Entry = func(m *Monitor, evt Event) error { entered = true; return nil }

	m, err := NewMonitor("TestMonitor", start)
	require.NoError(t, err)
	assert.True(t, entered)
	assert.Equal(t, StateName("Idle"), m.CurrentState().Name)
	assert.False(t, m.IsHot())
}

func TestMonitor_GotoTransitionsAndRunsTargetEntry(t *testing.T) {
	var enteredHot bool
	hot := NewMonitorState("Requested", Hot)
	hot.Entry = func(m *Monitor, evt Event) error { enteredHot = true; return nil }
	idle := NewMonitorState("Idle", Cold).OnGoto("Request", "Requested")

	m, err := NewMonitor("TestMonitor", idle, hot)
	require.NoError(t, err)

	require.NoError(t, m.ProcessEvent(Event{Type: "Request"}))
	assert.True(t, enteredHot)
	assert.True(t, m.IsHot())
	assert.Equal(t, StateName("Requested"), m.CurrentState().Name)
}

func TestMonitor_UnregisteredEventTypeIsSilentlyIgnored(t *testing.T) {
	idle := NewMonitorState("Idle", Cold)
	m, err := NewMonitor("TestMonitor", idle)
	require.NoError(t, err)

	assert.NoError(t, m.ProcessEvent(Event{Type: "Unrelated"}))
	assert.Equal(t, StateName("Idle"), m.CurrentState().Name)
}

func TestMonitor_AssertFailureIsAssertionFailureKind(t *testing.T) {
	idle := NewMonitorState("Idle", Cold)
	m, err := NewMonitor("TestMonitor", idle)
	require.NoError(t, err)

	err = m.Assert(false, "invariant %d broken", 7)
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindAssertionFailure, rerr.Kind)
}

func TestMonitor_GotoUnknownStateErrors(t *testing.T) {
	idle := NewMonitorState("Idle", Cold).OnGoto("Go", "Nowhere")
	m, err := NewMonitor("TestMonitor", idle)
	require.NoError(t, err)

	err = m.ProcessEvent(Event{Type: "Go"})
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindUnhandledEvent, rerr.Kind)
}
