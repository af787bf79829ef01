package cotask

import "runtime/debug"

// TaskID identifies a registered Task within a Scheduler. The gen field
// distinguishes a slot's current occupant from a previous, since-departed
// one (ABA safety for the fixed-capacity slot table): once a slot is
// freed and reused, any TaskID retained from its prior occupant no
// longer compares equal to the new one, and Scheduler lookups reject it.
type TaskID struct {
	index uint32
	gen   uint32
}

// TaskFunc is the body of a Task. t gives the body access to Yield,
// Await and nested Call without needing a package-level "current task"
// global: the task that is Active passes itself down through t.
type TaskFunc func(t *Task) error

// Awaitable is anything a Task can suspend on: an Event, a Timer, an
// AnyOf composition, or a caller-defined type. The three methods mirror
// the predicate/notifier pair used throughout the scheduler's core
// (coronimo's scheduler.h: is_ready / on_suspend / on_resume), translated
// from C++ virtual dispatch to a Go interface.
type Awaitable interface {
	// Ready reports whether the awaited condition already holds. If
	// true, Suspend is never called: the awaiting task continues
	// immediately, synchronously, without ever leaving Active.
	Ready() bool

	// Suspend registers waiter as wanting to be woken when the
	// condition becomes true, and reports whether the caller should
	// actually suspend. A false return (having accepted no obligation
	// to wake waiter) tells the caller to continue synchronously, the
	// same as Ready()==true; this mirrors C++'s await_suspend
	// returning false. Implementations that return true MUST
	// eventually call waiter's resume path (directly, or by scheduling
	// it via a Scheduler), or the waiter is stuck forever.
	Suspend(waiter *Task) bool

	// Resume is called on the awaiting task's own goroutine, exactly
	// once, immediately before Await returns control to the task body.
	// It lets the awaitable hand over a result (e.g. Timer.Expired) or
	// release per-wait bookkeeping (e.g. EventWaiter.Close) without an
	// extra round trip.
	Resume()
}

// Task is one cooperatively-scheduled unit of execution. A Task's body
// runs on its own goroutine, but the scheduler guarantees that at most
// one Task's goroutine is ever actually running logic at a time: control
// is handed off synchronously via resumeCh/doneCh, so the concurrency
// model as observed from the body's perspective is single-threaded,
// exactly as the embedded original's single real thread of execution.
type Task struct {
	id    TaskID
	sched *Scheduler
	fn    TaskFunc
	prio  Priority

	state TaskState
	err   error

	started bool
	resumeCh chan struct{}
	doneCh   chan struct{}

	callstack []*Frame
}

// NewTask constructs a Task and registers it with sched. The task begins
// in Suspended state; it is not scheduled until ScheduleAllSuspended (or
// an awaitable that wakes it) moves it to Scheduled.
func NewTask(sched *Scheduler, fn TaskFunc, opts ...TaskOption) (*Task, error) {
	cfg := resolveTaskOptions(opts)
	t := &Task{
		fn:       fn,
		prio:     cfg.priority,
		resumeCh: make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	id, err := sched.registerTask(t)
	if err != nil {
		return nil, err
	}
	t.id = id
	t.sched = sched
	t.state = Suspended
	return t, nil
}

// ID returns the task's identity within its Scheduler.
func (t *Task) ID() TaskID { return t.id }

// Index returns the slot index portion of the id, stable for the
// lifetime of whichever task currently occupies that slot. Exposed
// mainly for logging/diagnostics and tests; ordinary code should treat
// TaskID as opaque and compare it for equality instead.
func (id TaskID) Index() uint32 { return id.index }

// Gen returns the generation counter portion of the id.
func (id TaskID) Gen() uint32 { return id.gen }

// State returns the task's current state.
func (t *Task) State() TaskState { return t.state }

// Priority returns the task's scheduling class, as given at construction.
func (t *Task) Priority() Priority { return t.prio }

// Err returns the error the task's body returned (nil on success), or
// nil if the task has not yet reached Done. A task in Zombie state
// always reports a nil Err: the defect there is structural (a malformed
// awaitable), not a value the body returned.
func (t *Task) Err() error { return t.err }

// CallStackDepth reports how many nested Call frames are currently
// active on this task's real Go call stack. It is a pure introspection
// aid (spec invariant: nested suspendable calls share one call stack);
// it does not affect control flow.
func (t *Task) CallStackDepth() int { return len(t.callstack) }

func (t *Task) pushFrame(f *Frame) { t.callstack = append(t.callstack, f) }

func (t *Task) popFrame() { t.callstack = t.callstack[:len(t.callstack)-1] }

// resume hands control to the task's goroutine and blocks until it hands
// control back (either by suspending again, via await, or by the body
// returning). It must only ever be called by the Scheduler, with at most
// one Task Active at a time.
func (t *Task) resume() {
	t.state = Active
	if !t.started {
		t.started = true
		go t.run()
	} else {
		t.resumeCh <- struct{}{}
	}
	<-t.doneCh
}

// run is the task's goroutine entry point. It executes exactly once per
// Task for its entire lifetime; subsequent resumes re-enter via await's
// channel handoff rather than a new goroutine.
//
// An unhandled panic inside the task body is not recovered into a task
// error: spec.md §7.4 requires it terminate the entire process, with no
// in-process recovery. run logs it at Emerg, for whatever structured
// diagnostics are still reachable in the instant before the crash, then
// re-panics; an unrecovered panic on any goroutine brings the whole Go
// process down regardless of what the scheduler's own goroutine is
// doing.
func (t *Task) run() {
	defer func() {
		if r := recover(); r != nil {
			pe := &PanicError{Value: r, Stack: debug.Stack()}
			if t.sched != nil {
				logTaskPanic(t.sched.opts.logger, t.id, pe)
			}
			panic(pe)
		}
	}()
	t.err = t.fn(t)
	t.state = Done
	t.doneCh <- struct{}{}
}

// await suspends the task on aw, returning once aw has woken it (or
// immediately, if aw was already ready). It is the primitive beneath the
// package-level Await and Yield helpers, and beneath Event/Timer/AnyOf's
// own blocking methods.
func (t *Task) await(aw Awaitable) {
	if aw.Ready() {
		aw.Resume()
		return
	}
	// state flips to Suspended before Suspend is called (not after) so
	// that an awaitable which wakes the task synchronously, within the
	// same call — yieldAwaitable, or a sibling in an AnyOf that turns
	// out to already be ready — can successfully call
	// scheduleIfSuspended, which requires that precondition.
	t.state = Suspended
	if !aw.Suspend(t) {
		t.state = Active
		aw.Resume()
		return
	}
	t.doneCh <- struct{}{}
	<-t.resumeCh
	aw.Resume()
}

// Await suspends the calling task until aw becomes ready, per Awaitable's
// contract. It must be called from within the task's own body (directly,
// or from a nested Call).
func Await(t *Task, aw Awaitable) {
	t.await(aw)
}

// Yield suspends the task and immediately re-schedules it at the back of
// the ready queue, giving every other Scheduled task a turn first. It is
// the idiomatic rendition of the embedded original's bare co_await
// std::suspend_always.
func Yield(t *Task) {
	t.await(yieldAwaitable{})
}

// yieldAwaitable always reports not-ready and accepts suspension, but
// schedules the waiter back onto the ready queue instantly rather than
// waiting on any external condition.
type yieldAwaitable struct{}

func (yieldAwaitable) Ready() bool { return false }

func (yieldAwaitable) Suspend(waiter *Task) bool {
	waiter.sched.scheduleIfSuspended(waiter)
	return true
}

func (yieldAwaitable) Resume() {}

// Frame represents one nested suspendable call on a Task's real Go call
// stack. The embedded original allocates a coroutine frame per nested
// suspendable function; in Go the same nesting is already just ordinary
// function calls sharing the goroutine's stack, so Frame exists purely
// so CallStackDepth can report the spec-mandated depth invariant.
type Frame struct {
	task *Task
}

// Task returns the Task this frame belongs to, so a nested function can
// itself Await or make a further nested Call without needing the task
// passed down a second argument.
func (f *Frame) Task() *Task { return f.task }

// Call runs body as a nested suspendable call within t's existing
// goroutine and call stack, tracking it on t.callstack for the duration.
// Any Await performed by body (directly, or via f.Task()) suspends the
// whole task, exactly as it would from the top-level body: there is only
// ever one real stack per task, nesting or not.
func Call(t *Task, body func(f *Frame) error) error {
	f := &Frame{task: t}
	t.pushFrame(f)
	defer t.popFrame()
	return body(f)
}
