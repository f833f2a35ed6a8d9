package omp

import (
	"fmt"
	"runtime/debug"
)

// PanicError is the failure recorded for a worker whose body panicked.
// The worker still counts as terminated: Exit reaps it, the panic shows up
// as an [EventWorkerPanicked] event, and with [WithWorkerErrors] it reaches
// the originator as the Err of a [*WorkerError].
type PanicError struct {
	Value any    // argument to panic
	Stack string // the worker goroutine's stack when it panicked
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("region body panicked: %v\n%s", e.Value, e.Stack)
}

// Unwrap lets errors.Is and errors.As see through a panic(err).
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// recovered must be called from the deferred function of the worker
// goroutine so that the captured stack is the panicking one.
func recovered(v any) *PanicError {
	return &PanicError{Value: v, Stack: string(debug.Stack())}
}
