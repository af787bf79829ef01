package cotask

// anyOf composes several Awaitables, completing as soon as the first of
// them becomes ready. It is the rendition of spec.md §4.6's any_of{...},
// most commonly used to bound an Event or a long-running operation with
// a Timer: AnyOf(op.Wait(), timer.Wait()).
type anyOf struct {
	children []Awaitable
	won      int
}

// winRecorder is implemented by EventWaiter (the concrete Awaitable
// behind both Event.CreateWaiter and Timer.Wait). AnyOf uses it to learn
// which child actually fired, without needing a parallel fake Task or
// scheduler shim: the callback runs at the moment the waiter would
// otherwise schedule its task, a no-op hook to the existing notify path.
type winRecorder interface {
	setWinCallback(fn func())
}

// AnyOf returns an Awaitable that completes as soon as any one of
// children does. Once one child wins, AnyOf closes every other child
// that exposes a Close method (EventWaiter does; a caller-defined
// Awaitable may), so a timeout branch stops a still-pending operation
// branch from leaking a wake no one will observe, and vice versa. This
// is spec.md §8's "implicit cancellation... when the awaitable is
// dropped": AnyOf is the drop point.
func AnyOf(children ...Awaitable) Awaitable {
	return &anyOf{children: children, won: -1}
}

// Ready reports true if any child is already ready, without registering
// anything; the winning index is recorded so Resume (which follows
// either a true Ready or a Suspend) knows which child to forward to.
func (a *anyOf) Ready() bool {
	for i, c := range a.children {
		if c.Ready() {
			a.won = i
			return true
		}
	}
	return false
}

// Suspend registers waiter against every child. Whichever child fires
// first records itself as the winner via winRecorder before scheduling
// waiter; the scheduler's own state machine (scheduleIfSuspended is a
// no-op once waiter has left Suspended) guarantees waiter is scheduled
// at most once even though every child independently attempts it.
func (a *anyOf) Suspend(waiter *Task) bool {
	suspended := false
	for i, c := range a.children {
		index := i
		if wr, ok := c.(winRecorder); ok {
			wr.setWinCallback(func() {
				if a.won < 0 {
					a.won = index
				}
			})
		}
		if c.Suspend(waiter) {
			suspended = true
		} else if a.won < 0 {
			// c was actually ready at registration time; treat it as
			// the winner even though no callback fired.
			a.won = index
		}
	}
	return suspended
}

// Resume closes every child that didn't win, then calls the winning
// child's own Resume so it can hand over its result (e.g. a Timer's
// expired flag becoming observable).
func (a *anyOf) Resume() {
	for i, c := range a.children {
		if i == a.won {
			continue
		}
		if closer, ok := c.(interface{ Close() }); ok {
			closer.Close()
		}
	}
	if a.won >= 0 {
		a.children[a.won].Resume()
	}
}
