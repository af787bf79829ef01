package cotask_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nohous/coroutine-mcu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnyOf_TimeoutWinsOverSlowEvent(t *testing.T) {
	mock := clock.NewMock()
	sched, err := cotask.NewScheduler(cotask.WithMaxTaskCount(1))
	require.NoError(t, err)
	svc, err := cotask.NewTimerService(mock)
	require.NoError(t, err)

	op := cotask.NewEvent()
	var result string

	_, err = cotask.NewTask(sched, func(task *cotask.Task) error {
		timeout, err := svc.SleepFor(time.Second)
		if err != nil {
			return err
		}
		cotask.Await(task, cotask.AnyOf(op.CreateWaiter(false), timeout.Wait()))
		if timeout.Expired() {
			result = "timeout"
		} else {
			result = "op"
		}
		return nil
	})
	require.NoError(t, err)

	sched.ScheduleAllSuspended()
	sched.Step()
	assert.Empty(t, result)

	mock.Add(2 * time.Second)
	svc.Step()
	for sched.Step() {
	}

	assert.Equal(t, "timeout", result)
}

func TestAnyOf_EventWinsOverTimeout(t *testing.T) {
	mock := clock.NewMock()
	sched, err := cotask.NewScheduler(cotask.WithMaxTaskCount(1))
	require.NoError(t, err)
	svc, err := cotask.NewTimerService(mock)
	require.NoError(t, err)

	op := cotask.NewEvent()
	var result string

	_, err = cotask.NewTask(sched, func(task *cotask.Task) error {
		timeout, err := svc.SleepFor(time.Minute)
		if err != nil {
			return err
		}
		cotask.Await(task, cotask.AnyOf(op.CreateWaiter(false), timeout.Wait()))
		if timeout.Expired() {
			result = "timeout"
		} else {
			result = "op"
		}
		return nil
	})
	require.NoError(t, err)

	sched.ScheduleAllSuspended()
	sched.Step()
	assert.Empty(t, result)

	op.Activate()
	for sched.Step() {
	}

	assert.Equal(t, "op", result)
}

func TestAnyOf_AlreadyReadyChildCompletesSynchronously(t *testing.T) {
	sched, err := cotask.NewScheduler(cotask.WithMaxTaskCount(1))
	require.NoError(t, err)

	ev := cotask.NewEvent()
	pending := cotask.NewEvent()

	ran := false
	task, err := cotask.NewTask(sched, func(task *cotask.Task) error {
		// ev's waiter is auto-activating, so AnyOf sees it Ready from the
		// moment it's created, without ev ever having had a prior waiter
		// to activate against.
		cotask.Await(task, cotask.AnyOf(ev.CreateWaiter(true), pending.CreateWaiter(false)))
		ran = true
		return nil
	})
	require.NoError(t, err)

	sched.ScheduleAllSuspended()
	sched.Step()

	assert.True(t, ran)
	assert.Equal(t, cotask.Done, task.State())
}
