package weave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runOpSequence starts a goroutine that waits for the baton, then reports
// to the scheduler exactly steps times (Enabled, with Completed on the last
// report); after the last report it stays parked in Yield until its baton
// is killed.
func runOpSequence(t *testing.T, s *OperationScheduler, op *Operation, steps int) {
	t.Helper()
	go func() {
		if err := op.resume.Wait(); err != nil {
			return
		}
		for i := 0; i < steps; i++ {
			status := OpEnabled
			if i == steps-1 {
				status = OpCompleted
			}
			if err := s.Yield(op, status, nil); err != nil {
				return
			}
		}
	}()
}

func TestOperationScheduler_RunsEveryOperationToCompletion(t *testing.T) {
	s := NewOperationScheduler(NewBFSStrategy(), nil, NewTraceRecorder(), 0)
	op1 := newOperation(1, ActorId{Sequence: 1, Type: "A"})
	op2 := newOperation(2, ActorId{Sequence: 2, Type: "B"})
	s.Register(op1)
	s.Register(op2)

	runOpSequence(t, s, op1, 2)
	runOpSequence(t, s, op2, 2)

	err := s.Run()
	assert.NoError(t, err)
}

func TestOperationScheduler_DeadlockWhenAllBlockedOnReceive(t *testing.T) {
	s := NewOperationScheduler(NewBFSStrategy(), nil, NewTraceRecorder(), 0)
	op1 := newOperation(1, ActorId{Sequence: 1, Type: "A"})
	s.Register(op1)

	go func() {
		require.NoError(t, op1.resume.Wait())
		_ = s.Yield(op1, OpBlockedReceive, []EventType{"Never"})
	}()

	err := s.Run()
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindDeadlock, rerr.Kind)
	s.Kill()
}

func TestOperationScheduler_MarkRunnableReEnablesBlockedOperation(t *testing.T) {
	s := NewOperationScheduler(NewBFSStrategy(), nil, NewTraceRecorder(), 0)
	op1 := newOperation(1, ActorId{Sequence: 1, Type: "A"})
	op2 := newOperation(2, ActorId{Sequence: 2, Type: "B"})
	s.Register(op1)
	s.Register(op2)

	done := make(chan struct{})
	go func() {
		require.NoError(t, op1.resume.Wait())
		// re-handed once op2 calls MarkRunnable to flip it back to enabled.
		require.NoError(t, s.Yield(op1, OpBlockedReceive, nil))
		_ = s.Yield(op1, OpCompleted, nil)
		close(done)
	}()

	go func() {
		require.NoError(t, op2.resume.Wait())
		s.MarkRunnable(op1)
		_ = s.Yield(op2, OpCompleted, nil)
	}()

	err := s.Run()
	assert.NoError(t, err)
	s.Kill()
	<-done
}

func TestOperationScheduler_MaxStepsPerIterationBoundsALiveRun(t *testing.T) {
	s := NewOperationScheduler(NewBFSStrategy(), nil, NewTraceRecorder(), 3)
	op1 := newOperation(1, ActorId{Sequence: 1, Type: "A"})
	s.Register(op1)

	go func() {
		if err := op1.resume.Wait(); err != nil {
			return
		}
		for {
			if err := s.Yield(op1, OpEnabled, nil); err != nil {
				return
			}
		}
	}()

	err := s.Run()
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindStrategyError, rerr.Kind)
	s.Kill()
}

func TestOperationScheduler_KillUnblocksParkedOperations(t *testing.T) {
	s := NewOperationScheduler(NewBFSStrategy(), nil, NewTraceRecorder(), 0)
	op1 := newOperation(1, ActorId{Sequence: 1, Type: "A"})
	s.Register(op1)

	killedErr := make(chan error, 1)
	go func() {
		killedErr <- op1.resume.Wait()
	}()

	s.Kill()
	select {
	case err := <-killedErr:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Kill did not unblock the parked operation")
	}
}
