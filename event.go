package cotask

// Event is a one-shot broadcast wake condition. Activate wakes every
// currently-registered waiter, in registration order, but only takes
// effect when there is at least one waiter registered: activating an
// event with no waiters is a no-op (spec.md §8). Once every registered
// waiter (including any created after activation) has completed its
// await or been closed, the event resets to inactive again — mirroring the embedded
// original's event::erase_awaitable, which clears active_ the instant
// the waiter list drains empty (scheduler.h's event/event_awaitable
// pair) — so a caller never needs to construct a fresh Event merely to
// wait on the same condition again once it has been fully drained.
type Event struct {
	active  bool
	waiters []*EventWaiter
}

// NewEvent constructs an inactive Event.
func NewEvent() *Event {
	return &Event{}
}

// IsActive reports whether the event is currently active. This is true
// from a successful Activate until every registered waiter has completed
// its await or been closed, draining the waiter list.
func (e *Event) IsActive() bool { return e.active }

// Activate wakes every currently-registered waiter, in registration
// order, and reports whether it did anything. It is a no-op — returning
// false, leaving active unchanged — when the event is already active, or
// when there are no waiters registered at all (spec.md §8: "activating
// an event with no waiters is a no-op").
func (e *Event) Activate() bool {
	if e.active || len(e.waiters) == 0 {
		return false
	}
	e.active = true
	for _, w := range e.waiters {
		w.notify()
	}
	return true
}

// CreateWaiter returns an Awaitable bound to this event, registered into
// its waiter list immediately (whether or not it turns out to need
// suspending), so that draining this waiter later — via its Resume,
// whichever path reaches it — can correctly observe when the list
// empties and reset the event to inactive. If autoActivate is true, the
// waiter's registration is immediately followed by a call to Activate:
// this is how a condition already known to be true at construction time
// (e.g. an already-past-deadline Timer, spec.md §4.5) gets represented
// as an event that is active from the moment anyone waits on it, without
// Activate's own no-op-when-empty rule getting in the way (the waiter
// being registered first is exactly what makes that Activate succeed).
//
// Go has no destructors: a waiter that is created but never awaited (and
// never explicitly Close'd) stays linked in the event's waiter list
// indefinitely. Callers that construct a waiter speculatively — e.g. a
// branch of an AnyOf that ends up not being used — should call Close on
// it once it's known to be unneeded.
func (e *Event) CreateWaiter(autoActivate bool) *EventWaiter {
	w := &EventWaiter{event: e, linked: true}
	e.waiters = append(e.waiters, w)
	if autoActivate {
		e.Activate()
	}
	return w
}

// Await blocks the calling task until the event is activated (or returns
// immediately if it already is). Equivalent to
// Await(t, e.CreateWaiter(false)).
func (e *Event) Await(t *Task) {
	Await(t, e.CreateWaiter(false))
}

// unlink removes w from the waiter list, if present, and resets the
// event to inactive if that drains the list empty — the Go rendition of
// erase_awaitable's "if (awaitables_.empty()) active_ = false;".
func (e *Event) unlink(w *EventWaiter) {
	for i, o := range e.waiters {
		if o == w {
			e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
			break
		}
	}
	if len(e.waiters) == 0 {
		e.active = false
	}
}

// EventWaiter is one registration against an Event, implementing
// Awaitable. Unlike the embedded original's intrusive list node, this is
// a plain heap-allocated value tracked in Event.waiters by slice
// membership: spec.md §8 explicitly permits this simplification outside
// of an allocation-free target.
type EventWaiter struct {
	event  *Event
	waiter *Task
	linked bool
	onWin  func()
}

// Ready reports whether the underlying event is currently active.
func (w *EventWaiter) Ready() bool { return w.event.active }

// Suspend records waiter as the task to wake on notify. w is already
// linked into the event's waiter list (done at CreateWaiter); Suspend
// always accepts (an EventWaiter never declines a suspension it has been
// offered — that only happens via Ready).
func (w *EventWaiter) Suspend(waiter *Task) bool {
	w.waiter = waiter
	return true
}

// Resume unlinks w from its event, possibly resetting the event to
// inactive if w was the last remaining waiter. Called exactly once per
// await, on both the immediately-ready and the suspended-then-woken
// path, which is what makes the drain-to-inactive reset correct
// regardless of which path a given waiter took.
func (w *EventWaiter) Resume() {
	if w.linked {
		w.linked = false
		w.event.unlink(w)
	}
}

// Close unlinks w from its event's waiter list without activating
// anything, for use by a composition (AnyOf) that no longer needs this
// branch once a sibling has already won, or by a caller discarding a
// waiter it never ended up awaiting.
func (w *EventWaiter) Close() {
	if w.linked {
		w.linked = false
		w.event.unlink(w)
	}
}

func (w *EventWaiter) notify() {
	if w.onWin != nil {
		w.onWin()
	}
	if w.waiter != nil {
		w.waiter.sched.scheduleIfSuspended(w.waiter)
	}
}

// setWinCallback registers fn to run the instant this waiter fires,
// before the scheduling effect takes place. It exists solely so AnyOf
// can learn which of several composed waiters fired first; ordinary
// callers never need it.
func (w *EventWaiter) setWinCallback(fn func()) {
	w.onWin = fn
}
