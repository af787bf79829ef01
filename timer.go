package cotask

import (
	"sort"
	"time"
)

// Clock is the minimal time-reading capability the timer service needs.
// spec.md describes this as a generic capability ("any type offering
// now()"); Go has no stackless-coroutine-style generic-over-capability
// mechanism that reads more naturally than a plain interface, so that is
// the rendition used here. RealClock, github.com/benbjohnson/clock's
// Clock and github.com/benbjohnson/clock's *Mock all satisfy it, the latter
// giving tests deterministic control over timer firing without a real
// sleep.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the wall clock. It is used when
// NewTimerService is passed a nil Clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time { return time.Now() }

// WithTimerCount and WithTimerServiceLogger (options.go) configure the
// service's capacity and logging; the clock is instead a constructor
// argument (nil selects RealClock), since every TimerService needs exactly one and
// tests virtually always want to supply github.com/benbjohnson/clock's
// *clock.Mock in its place.

// TimerService holds the set of pending Timers for one Scheduler,
// ordered ascending by deadline. Unlike the teacher repo's own
// container/heap-based timer queue, TimerService keeps pending sorted as
// a plain slice (binary-search insertion via sort.Search): spec.md §8
// invariant 5 requires the pending set be *observably* sorted ascending,
// which a heap's backing array only guarantees at the root, not
// throughout — so the ordering invariant here is adapted rather than
// reused from the teacher's own pattern.
type TimerService struct {
	opts    *timerServiceOptions
	clock   Clock
	pending []*Timer
}

// NewTimerService constructs a TimerService bound to clock. Pass
// RealClock{} for production use, or a github.com/benbjohnson/clock
// *clock.Mock (or any other Clock) for deterministic tests.
func NewTimerService(clock Clock, opts ...TimerServiceOption) (*TimerService, error) {
	cfg, err := resolveTimerServiceOptions(opts)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &TimerService{opts: cfg, clock: clock}, nil
}

// Timer is a single scheduled wake, embedding an Event that Activate-s
// when the deadline is reached. Close removes a still-pending timer from
// its service without activating the event; a waiter dropped by AnyOf
// leaves the timer itself pending.
type Timer struct {
	svc      *TimerService
	deadline time.Time
	event    *Event
	expired  bool
}

// Deadline returns the time this timer is scheduled to fire.
func (tm *Timer) Deadline() time.Time { return tm.deadline }

// Expired reports whether the timer has already fired.
func (tm *Timer) Expired() bool { return tm.expired }

// Wait returns an Awaitable for this timer's expiry, suitable for direct
// use with Await, or as a branch of AnyOf. An already-expired timer's
// waiter is created with auto-activation, so the returned Awaitable
// reports Ready immediately.
func (tm *Timer) Wait() Awaitable {
	return tm.event.CreateWaiter(tm.expired)
}

// Close removes the timer from its service's pending list if it has not
// yet fired. Safe to call on an already-fired or already-closed timer.
func (tm *Timer) Close() {
	tm.svc.remove(tm)
}

// SleepUntil constructs a Timer bound to this service, set to fire at
// deadline, inserted in ascending deadline order. If deadline is already
// at or before the clock's current time, the timer is constructed
// already expired: Wait creates its waiter with auto-activation, so the
// first Await on it completes synchronously without ever suspending,
// per spec.md §4.5.
func (s *TimerService) SleepUntil(deadline time.Time) (*Timer, error) {
	tm := &Timer{svc: s, deadline: deadline, event: NewEvent()}
	if !deadline.After(s.clock.Now()) {
		tm.expired = true
		return tm, nil
	}
	if len(s.pending) >= s.opts.timerCount {
		logTimerQueueFull(s.opts.logger, s.opts.timerCount)
		return nil, ErrCapacityExceeded
	}
	s.insert(tm)
	return tm, nil
}

// SleepFor is equivalent to SleepUntil(s.clock.Now().Add(d)).
func (s *TimerService) SleepFor(d time.Duration) (*Timer, error) {
	return s.SleepUntil(s.clock.Now().Add(d))
}

func (s *TimerService) insert(tm *Timer) {
	i := sort.Search(len(s.pending), func(i int) bool {
		return s.pending[i].deadline.After(tm.deadline)
	})
	s.pending = append(s.pending, nil)
	copy(s.pending[i+1:], s.pending[i:])
	s.pending[i] = tm
}

func (s *TimerService) remove(tm *Timer) {
	if tm.expired {
		return
	}
	for i, o := range s.pending {
		if o == tm {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Step examines the earliest-deadline pending timer; if the clock has
// reached or passed its deadline, it is popped, marked expired, its
// embedded event activated (waking every waiter registered against it,
// per Event's broadcast semantics), and Step returns true. Otherwise
// Step returns false. At most one timer fires per call, so multiple
// overdue timers drain over successive Step calls (spec.md §8, ordering
// guarantees), giving the ready queue a chance to make progress between
// each timer-driven wake rather than starving it.
func (s *TimerService) Step() bool {
	if len(s.pending) == 0 {
		return false
	}
	head := s.pending[0]
	if head.deadline.After(s.clock.Now()) {
		return false
	}
	s.pending = s.pending[1:]
	head.expired = true
	head.event.Activate()
	return true
}
