// Package rendezvous implements the single-slot handoff primitive the
// scheduler uses to guarantee that exactly one operation executes at any
// moment (see Design Note: "single-slot rendezvous channels, not OS
// mutexes holding user state").
//
// A Baton starts parked. The owning goroutine calls Wait to block until
// handed the baton (by Hand) or until the Baton is killed (by Kill), which
// unblocks every current and future Wait with ErrKilled.
package rendezvous

import "errors"

// ErrKilled is returned by Wait once the Baton has been killed.
var ErrKilled = errors.New("rendezvous: baton killed")

// Baton is a single-slot, single-waiter-at-a-time handoff channel.
//
// It is NOT safe to call Wait concurrently from two goroutines on the same
// Baton; by construction the scheduler only ever has one goroutine parked
// on a given operation's Baton at a time.
type Baton struct {
	ch   chan struct{}
	dead chan struct{}
}

// New returns a parked Baton.
func New() *Baton {
	return &Baton{
		ch:   make(chan struct{}, 1),
		dead: make(chan struct{}),
	}
}

// Wait blocks until Hand is called (returns nil) or Kill is called (returns
// ErrKilled).
func (b *Baton) Wait() error {
	select {
	case <-b.dead:
		return ErrKilled
	default:
	}
	select {
	case <-b.ch:
		return nil
	case <-b.dead:
		return ErrKilled
	}
}

// Hand wakes the goroutine parked in Wait. Hand must not be called more
// than once without an intervening Wait; the scheduler enforces this by
// construction (it only hands off to an operation it just chose).
func (b *Baton) Hand() {
	select {
	case b.ch <- struct{}{}:
	case <-b.dead:
	}
}

// Kill permanently unblocks every past and future Wait call with
// ErrKilled. Kill is idempotent.
func (b *Baton) Kill() {
	select {
	case <-b.dead:
	default:
		close(b.dead)
	}
}
