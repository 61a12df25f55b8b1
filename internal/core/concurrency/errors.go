// Package concurrency defines executor errors
package concurrency

import "errors"

var (
	// ErrTerminated reports that the shared termination flag was observed
	// mid-flight. State is only safely readable up to the last completed
	// barrier.
	ErrTerminated = errors.New("execution terminated")

	// ErrExecutorStopped reports that work was submitted after Stop.
	ErrExecutorStopped = errors.New("executor is stopped")
)
