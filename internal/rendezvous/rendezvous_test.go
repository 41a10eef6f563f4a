package rendezvous

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaton_HandWakesWait(t *testing.T) {
	b := New()
	done := make(chan error, 1)
	go func() { done <- b.Wait() }()

	// give the waiter a moment to park
	time.Sleep(10 * time.Millisecond)
	b.Hand()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Hand")
	}
}

func TestBaton_KillUnblocksWait(t *testing.T) {
	b := New()
	done := make(chan error, 1)
	go func() { done <- b.Wait() }()

	time.Sleep(10 * time.Millisecond)
	b.Kill()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrKilled)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Kill")
	}
}

func TestBaton_KillIsIdempotent(t *testing.T) {
	b := New()
	b.Kill()
	assert.NotPanics(t, func() { b.Kill() })
	assert.ErrorIs(t, b.Wait(), ErrKilled)
}

func TestBaton_KillAfterHandStillUnblocksFutureWaits(t *testing.T) {
	b := New()
	b.Hand()
	b.Kill()
	err := b.Wait()
	assert.ErrorIs(t, err, ErrKilled)
}
