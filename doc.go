// Package cotask implements a cooperative, single-threaded task scheduler
// intended for resource-constrained environments: microcontrollers,
// bare-metal runtimes, or any context where the steady-state path must not
// allocate.
//
// # Architecture
//
// A [Scheduler] owns a bounded task registry and a bounded ready queue. A
// [Task] is a suspendable top-level computation; it may call nested
// suspendable subroutines via [Call], which share the enclosing task's
// suspension context and are observable on the task's call stack
// ([Task.CallStackDepth]).
//
// Three primitives are built directly on the scheduler's suspend/resume
// protocol: [Yield] (cooperative reschedule), [Event]/[EventWaiter]
// (one-shot broadcast), and [TimerService] (deadline-driven wake-up against
// a [Clock]). [AnyOf] composes any number of these into a single awaitable
// that completes on the first child to resolve.
//
// # Execution model
//
// Exactly one task is ever executing at a time. The outer loop repeatedly
// calls [Scheduler.Step] (and any [Service], such as a [TimerService]) until
// quiescent or told to stop; [Scheduler.Run] does this directly. A task
// is always in exactly one of [Inactive],
// [Suspended], [Scheduled], [Active], [Done], or [Zombie].
//
// # Usage
//
//	sched, err := cotask.NewScheduler(cotask.WithMaxTaskCount(16))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	task, err := cotask.NewTask(sched, func(t *cotask.Task) error {
//	    cotask.Yield(t)
//	    fmt.Println("resumed after yielding once")
//	    return nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = task
//
//	sched.ScheduleAllSuspended()
//	for sched.Step() {
//	}
package cotask
