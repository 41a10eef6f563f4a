//go:build unix

// uncontrolled_unix.go grounds the KindUncontrolledInvocation diagnostic in
// an actual OS thread id, the way a systematic tester needs to tell a
// program's own goroutines apart from a background goroutine a library
// spawned outside the scheduler's control (a timer, an http client's idle
// connection reaper, and similar) when that goroutine calls back into an
// actor's API from a thread the scheduler never handed the baton to.
package weave

import "golang.org/x/sys/unix"

// currentThreadID returns the OS thread id of the calling goroutine. The
// actor API compares it with the thread id of the actor's own goroutine to
// detect an uncontrolled call, and puts both ids in the resulting
// KindUncontrolledInvocation error.
func currentThreadID() int {
	return unix.Gettid()
}
