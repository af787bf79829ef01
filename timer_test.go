package cotask_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nohous/coroutine-mcu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerService_FiresAtMostOnePerStep(t *testing.T) {
	mock := clock.NewMock()
	svc, err := cotask.NewTimerService(mock, cotask.WithTimerCount(4))
	require.NoError(t, err)

	t1, err := svc.SleepFor(1 * time.Second)
	require.NoError(t, err)
	t2, err := svc.SleepFor(2 * time.Second)
	require.NoError(t, err)

	mock.Add(3 * time.Second)

	assert.True(t, svc.Step())
	assert.True(t, t1.Expired())
	assert.False(t, t2.Expired())

	assert.True(t, svc.Step())
	assert.True(t, t2.Expired())

	assert.False(t, svc.Step())
}

func TestTimerService_SleepUntilPastWakesImmediately(t *testing.T) {
	mock := clock.NewMock()
	svc, err := cotask.NewTimerService(mock)
	require.NoError(t, err)

	tm, err := svc.SleepUntil(mock.Now().Add(-time.Second))
	require.NoError(t, err)
	assert.True(t, tm.Expired())
}

func TestTimerService_PendingListStaysSorted(t *testing.T) {
	mock := clock.NewMock()
	svc, err := cotask.NewTimerService(mock, cotask.WithTimerCount(8))
	require.NoError(t, err)

	_, err = svc.SleepFor(5 * time.Second)
	require.NoError(t, err)
	_, err = svc.SleepFor(1 * time.Second)
	require.NoError(t, err)
	third, err := svc.SleepFor(3 * time.Second)
	require.NoError(t, err)

	mock.Add(2 * time.Second)
	assert.True(t, svc.Step())
	// The 1s timer fired; the 3s timer (third) must still be pending
	// and next in line, proving insertion kept the list ordered rather
	// than merely FIFO.
	assert.False(t, third.Expired())
}

func TestTimerService_CapacityExceeded(t *testing.T) {
	mock := clock.NewMock()
	svc, err := cotask.NewTimerService(mock, cotask.WithTimerCount(1))
	require.NoError(t, err)

	_, err = svc.SleepFor(time.Second)
	require.NoError(t, err)

	_, err = svc.SleepFor(time.Second)
	assert.ErrorIs(t, err, cotask.ErrCapacityExceeded)
}

func TestTimerService_WakesAwaitingTask(t *testing.T) {
	mock := clock.NewMock()
	sched, err := cotask.NewScheduler(cotask.WithMaxTaskCount(1))
	require.NoError(t, err)
	svc, err := cotask.NewTimerService(mock)
	require.NoError(t, err)

	woke := false
	_, err = cotask.NewTask(sched, func(task *cotask.Task) error {
		tm, err := svc.SleepFor(time.Second)
		if err != nil {
			return err
		}
		cotask.Await(task, tm.Wait())
		woke = true
		return nil
	})
	require.NoError(t, err)

	sched.ScheduleAllSuspended()
	sched.Step()
	assert.False(t, woke)

	mock.Add(2 * time.Second)
	svc.Step()
	for sched.Step() {
	}
	assert.True(t, woke)
}
