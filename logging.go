package cotask

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// NewDefaultLogger returns a stderr-backed structured logger suitable for
// WithSchedulerLogger / WithTimerServiceLogger, using the pack's stumpy
// backend for logiface. It is a convenience only; any
// *logiface.Logger[*stumpy.Event] constructed via stumpy.L.New works
// equally well.
func NewDefaultLogger() *logiface.Logger[*stumpy.Event] {
	return stumpy.L.New(stumpy.L.WithStumpy())
}

// logTaskRejected logs a task that could not be registered (capacity
// exceeded). l may be nil, in which case this is a no-op.
func logTaskRejected(l *logiface.Logger[*stumpy.Event], maxTaskCount int) {
	if l == nil {
		return
	}
	l.Warning().Int(`max_task_count`, maxTaskCount).Log(`task rejected: registry at capacity`)
}

// logTaskZombie logs a task forced into Zombie state because it resumed
// without reaching a valid suspension point (a malformed awaitable).
func logTaskZombie(l *logiface.Logger[*stumpy.Event], id TaskID) {
	if l == nil {
		return
	}
	l.Err().Int(`task_index`, int(id.index)).Int(`task_gen`, int(id.gen)).
		Log(`task resumed but never left Active: forced to Zombie`)
}

// logTaskPanic logs a panic from within a task body, immediately before
// Task.run re-panics with it and takes the whole process down: this is
// the last structured diagnostic that will ever be emitted for it.
func logTaskPanic(l *logiface.Logger[*stumpy.Event], id TaskID, err *PanicError) {
	if l == nil {
		return
	}
	l.Emerg().Int(`task_index`, int(id.index)).Err(err).
		Log(`panic in task body: process terminating`)
}

// logTimerQueueFull logs a timer that could not be admitted because the
// service's pending list is already at timer_count capacity.
func logTimerQueueFull(l *logiface.Logger[*stumpy.Event], timerCount int) {
	if l == nil {
		return
	}
	l.Warning().Int(`timer_count`, timerCount).Log(`timer rejected: pending list at capacity`)
}
