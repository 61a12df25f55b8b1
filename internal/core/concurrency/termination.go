package concurrency

import "sync/atomic"

// TerminationFlag is a single shared cell polled cooperatively by all workers
// of one run. It is injected explicitly rather than read from global state.
type TerminationFlag struct {
	terminated atomic.Bool
}

// NewTerminationFlag returns a running (not terminated) flag.
func NewTerminationFlag() *TerminationFlag {
	return &TerminationFlag{}
}

// Terminate requests cooperative cancellation. Safe from any goroutine.
func (t *TerminationFlag) Terminate() {
	t.terminated.Store(true)
}

// Running reports whether execution may continue.
func (t *TerminationFlag) Running() bool {
	return t == nil || !t.terminated.Load()
}
