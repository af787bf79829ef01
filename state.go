package cotask

// TaskState is the finite-state machine every Task moves through.
//
// State Machine:
//
//	Inactive  --(register)-->   Suspended
//	Suspended --(schedule)-->   Scheduled
//	Scheduled --(step)-->       Active
//	Active    --(suspend)-->    Suspended
//	Active    --(yield)-->      Scheduled
//	Active    --(return)-->     Done
//	Active    --(malformed awaitable, still Active on return from resume)--> Zombie
//
// Done and Zombie are terminal: a task in either state is never resumed
// again by the scheduler.
type TaskState int

const (
	// Inactive is the state of a Task before it has been registered with
	// a Scheduler. Tasks are registered (and therefore leave Inactive) at
	// construction time; user code does not normally observe this state.
	Inactive TaskState = iota

	// Suspended tasks are registered but not in the ready queue. They
	// leave this state via Scheduler.ScheduleAllSuspended, or by an
	// awaitable's internal scheduleIfSuspended call (e.g. an Event
	// activating, or a Timer firing).
	Suspended

	// Scheduled tasks are present in the ready queue, awaiting their turn
	// to be resumed by Scheduler.Step.
	Scheduled

	// Active is the state of the single task currently being resumed.
	// At most one Task is Active at any instant.
	Active

	// Done tasks have returned from their body. They are never resumed
	// again but remain registered until Scheduler.UnregisterTask is
	// called.
	Done

	// Zombie tasks were rejected from the normal state machine: a resume
	// returned with the task still reporting Active state, which the
	// scheduler treats as a malformed awaitable. Zombie tasks are kept
	// registered for observation but are never resumed. A failed
	// registration does not produce a Zombie task: NewTask returns a nil
	// Task and ErrCapacityExceeded.
	Zombie
)

// String returns a human-readable representation of the state.
func (s TaskState) String() string {
	switch s {
	case Inactive:
		return "Inactive"
	case Suspended:
		return "Suspended"
	case Scheduled:
		return "Scheduled"
	case Active:
		return "Active"
	case Done:
		return "Done"
	case Zombie:
		return "Zombie"
	default:
		return "Unknown"
	}
}

// Priority tags a Task for scheduling class. This minimum viable
// implementation stores the tag but does not use it to order the ready
// queue — spec-permitted, see SPEC_FULL.md §4.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMid
	PriorityHigh
	PriorityISR
)

// String returns a human-readable representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMid:
		return "Mid"
	case PriorityHigh:
		return "High"
	case PriorityISR:
		return "ISR"
	default:
		return "Unknown"
	}
}
