package cotask

import "context"

// Scheduler owns a fixed-capacity registry of tasks and the single ready
// queue they move through. It is explicitly constructed via NewScheduler
// rather than a package-level singleton: spec.md sanctions this as a
// refactor of the embedded original's single static scheduler instance,
// not a change to its single-threaded cooperative semantics (nothing
// stops a caller from constructing exactly one Scheduler and using it
// as if it were global).
type Scheduler struct {
	opts *schedulerOptions

	slots    []taskSlot
	freeList []uint32
	ready    *idRing
}

type taskSlot struct {
	gen  uint32
	task *Task // nil when the slot is free
}

// Service is anything the Scheduler's Run loop drives once per step,
// alongside resuming ready tasks. TimerService implements Service; a
// caller-defined I/O poller or watchdog can too.
type Service interface {
	// Step performs at most one unit of the service's own work (e.g.
	// firing at most one overdue timer) and reports whether it did
	// anything. Run calls Step on every registered Service once per
	// iteration of its loop, regardless of return value, so a service
	// that always has more than one unit of work pending still makes
	// steady progress across iterations rather than starving the
	// ready queue.
	Step() bool
}

// NewScheduler constructs a Scheduler with the given options applied.
func NewScheduler(opts ...SchedulerOption) (*Scheduler, error) {
	cfg, err := resolveSchedulerOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		opts:  cfg,
		slots: make([]taskSlot, cfg.maxTaskCount),
		ready: newIDRing(cfg.maxTaskCount),
	}
	s.freeList = make([]uint32, cfg.maxTaskCount)
	for i := range s.freeList {
		s.freeList[i] = uint32(cfg.maxTaskCount - 1 - i)
	}
	return s, nil
}

// registerTask claims a free slot for t and returns its TaskID. Called
// only from NewTask.
func (s *Scheduler) registerTask(t *Task) (TaskID, error) {
	if len(s.freeList) == 0 {
		logTaskRejected(s.opts.logger, len(s.slots))
		return TaskID{}, ErrCapacityExceeded
	}
	idx := s.freeList[len(s.freeList)-1]
	s.freeList = s.freeList[:len(s.freeList)-1]
	slot := &s.slots[idx]
	slot.task = t
	return TaskID{index: idx, gen: slot.gen}, nil
}

// UnregisterTask removes a Done or Zombie task from the registry,
// freeing its slot for reuse (with an incremented generation, so any
// TaskID still held elsewhere for it becomes stale). It reports false if
// id does not resolve to a currently-registered task, or the task has
// not yet reached a terminal state.
func (s *Scheduler) UnregisterTask(id TaskID) bool {
	t := s.lookup(id)
	if t == nil {
		return false
	}
	if t.state != Done && t.state != Zombie {
		return false
	}
	s.ready.Remove(id)
	slot := &s.slots[id.index]
	slot.task = nil
	slot.gen++
	s.freeList = append(s.freeList, id.index)
	return true
}

// lookup resolves id to its Task, or nil if id is stale (a freed or
// reused slot) or out of range.
func (s *Scheduler) lookup(id TaskID) *Task {
	if int(id.index) >= len(s.slots) {
		return nil
	}
	slot := &s.slots[id.index]
	if slot.task == nil || slot.gen != id.gen {
		return nil
	}
	return slot.task
}

// ScheduleAllSuspended moves every currently Suspended task into
// Scheduled and appends it to the ready queue, in ascending TaskID.index
// order. It is the bulk rendition of the embedded original's top-level
// "activate everything that's waiting to start" call, typically used
// once at startup to admit a batch of newly-registered tasks.
func (s *Scheduler) ScheduleAllSuspended() int {
	n := 0
	for i := range s.slots {
		t := s.slots[i].task
		if t != nil && t.state == Suspended {
			if s.scheduleIfSuspended(t) {
				n++
			}
		}
	}
	return n
}

// scheduleIfSuspended moves t from Suspended to Scheduled and enqueues
// it, reporting whether it did so. It is a no-op (returning false) for a
// task not currently Suspended, or if the ready queue is already at
// capacity (which cannot happen in steady state, since capacity equals
// max_task_count and a task can only be enqueued once at a time, but is
// guarded defensively rather than assumed).
func (s *Scheduler) scheduleIfSuspended(t *Task) bool {
	if t.state != Suspended {
		return false
	}
	if !s.ready.PushBack(t.id) {
		return false
	}
	t.state = Scheduled
	return true
}

// Step resumes at most one Scheduled task: the one at the front of the
// ready queue. It reports whether a task was resumed. After the resumed
// task hands control back (by suspending, yielding, returning, or
// panicking), Step detects the zombie condition described on Zombie: if
// the task's state still reads Active, a malformed awaitable
// accepted a suspension obligation without ever updating task state, and
// Step forces it to Zombie rather than leaving it Active forever.
func (s *Scheduler) Step() bool {
	id, ok := s.ready.PopFront()
	if !ok {
		return false
	}
	t := s.lookup(id)
	if t == nil {
		// Stale entry (task unregistered out from under the queue via
		// UnregisterTask's Remove miss, or a defensive double-enqueue);
		// skip it rather than resuming a dangling pointer.
		return s.Step()
	}
	t.resume()
	if t.state == Active {
		t.state = Zombie
		logTaskZombie(s.opts.logger, id)
	}
	return true
}

// Run calls ScheduleAllSuspended once, then repeatedly calls Step
// followed by each service's Step, until ctx is done or a full iteration
// does no work at all. The embedded original's run() loops step()
// unconditionally forever, since its event loop is the entire program;
// a Go caller instead usually wants Run to return once an iteration
// finds nothing to do rather than spin a CPU core, so quiescence is
// treated as a second, additive exit condition alongside ctx
// cancellation. Quiescence is judged by that one iteration only: Run
// also returns while tasks are still Suspended on an event or on a
// timer whose deadline has not yet been reached.
func (s *Scheduler) Run(ctx context.Context, services ...Service) error {
	s.ScheduleAllSuspended()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		didWork := s.Step()
		for _, svc := range services {
			if svc.Step() {
				didWork = true
			}
		}
		if !didWork {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return nil
		}
	}
}
