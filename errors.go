package cotask

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrCapacityExceeded is returned when a bounded table (the task
	// registry, or a timer service's pending list) is already at its
	// configured capacity. A full ready queue is reported as a bool
	// instead.
	ErrCapacityExceeded = errors.New("cotask: capacity exceeded")

	// ErrInvalidTransition is returned when a constructor-time
	// precondition (e.g. a non-positive configured capacity) fails. The
	// scheduler's internal schedule transition reports a failed
	// precondition as a bool; this error exists for the handful of operations
	// that construct a value and therefore have an idiomatic error return.
	ErrInvalidTransition = errors.New("cotask: invalid state transition")
)

// PanicError wraps a panic recovered from within a task body just long
// enough to log it with structure before Task.run re-panics with it.
// spec.md §7.4 requires an unhandled exception inside a task body to
// terminate the entire process — the core offers no in-process recovery
// — so this is never surfaced via Task.Err; it exists so that whatever
// ultimately recovers the re-panic (a test harness, or a caller's own
// top-level recover) sees a typed value with the original stack attached
// rather than the bare panic value.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("cotask: task panicked: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is an error,
// enabling errors.Is/errors.As through the cause chain.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
