package cotask

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// defaultMaxTaskCount is used when WithMaxTaskCount is not supplied.
const defaultMaxTaskCount = 32

// defaultTimerCount is used when WithTimerCount is not supplied.
const defaultTimerCount = 16

// schedulerOptions holds configuration for NewScheduler.
type schedulerOptions struct {
	maxTaskCount int
	logger       *logiface.Logger[*stumpy.Event]
}

// SchedulerOption configures a Scheduler at construction time.
type SchedulerOption interface {
	applyScheduler(*schedulerOptions)
}

type schedulerOptionFunc func(*schedulerOptions)

func (f schedulerOptionFunc) applyScheduler(o *schedulerOptions) { f(o) }

// WithMaxTaskCount sets the capacity of the task registry and ready queue.
// Defaults to 32.
func WithMaxTaskCount(n int) SchedulerOption {
	return schedulerOptionFunc(func(o *schedulerOptions) {
		o.maxTaskCount = n
	})
}

// WithSchedulerLogger attaches a structured logger. When unset, the
// scheduler performs no logging and allocates nothing for it.
func WithSchedulerLogger(l *logiface.Logger[*stumpy.Event]) SchedulerOption {
	return schedulerOptionFunc(func(o *schedulerOptions) {
		o.logger = l
	})
}

func resolveSchedulerOptions(opts []SchedulerOption) (*schedulerOptions, error) {
	cfg := &schedulerOptions{maxTaskCount: defaultMaxTaskCount}
	for _, o := range opts {
		if o == nil {
			continue
		}
		o.applyScheduler(cfg)
	}
	if cfg.maxTaskCount <= 0 {
		return nil, ErrInvalidTransition
	}
	return cfg, nil
}

// timerServiceOptions holds configuration for NewTimerService.
type timerServiceOptions struct {
	timerCount int
	logger     *logiface.Logger[*stumpy.Event]
}

// TimerServiceOption configures a TimerService at construction time.
type TimerServiceOption interface {
	applyTimerService(*timerServiceOptions)
}

type timerServiceOptionFunc func(*timerServiceOptions)

func (f timerServiceOptionFunc) applyTimerService(o *timerServiceOptions) { f(o) }

// WithTimerCount sets the maximum number of concurrently pending timers.
// Defaults to 16.
func WithTimerCount(n int) TimerServiceOption {
	return timerServiceOptionFunc(func(o *timerServiceOptions) {
		o.timerCount = n
	})
}

// WithTimerServiceLogger attaches a structured logger. When unset, the
// timer service performs no logging.
func WithTimerServiceLogger(l *logiface.Logger[*stumpy.Event]) TimerServiceOption {
	return timerServiceOptionFunc(func(o *timerServiceOptions) {
		o.logger = l
	})
}

// taskOptions holds configuration for NewTask.
type taskOptions struct {
	priority Priority
}

// TaskOption configures a Task at construction time.
type TaskOption interface {
	applyTask(*taskOptions)
}

type taskOptionFunc func(*taskOptions)

func (f taskOptionFunc) applyTask(o *taskOptions) { f(o) }

// WithPriority tags a task with a scheduling class. Defaults to
// PriorityMid. The priority is stored on the task only; it does not
// affect the order of the ready queue.
func WithPriority(p Priority) TaskOption {
	return taskOptionFunc(func(o *taskOptions) {
		o.priority = p
	})
}

func resolveTaskOptions(opts []TaskOption) *taskOptions {
	cfg := &taskOptions{priority: PriorityMid}
	for _, o := range opts {
		if o == nil {
			continue
		}
		o.applyTask(cfg)
	}
	return cfg
}

func resolveTimerServiceOptions(opts []TimerServiceOption) (*timerServiceOptions, error) {
	cfg := &timerServiceOptions{timerCount: defaultTimerCount}
	for _, o := range opts {
		if o == nil {
			continue
		}
		o.applyTimerService(cfg)
	}
	if cfg.timerCount <= 0 {
		return nil, ErrInvalidTransition
	}
	return cfg, nil
}
