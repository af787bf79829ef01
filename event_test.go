package cotask_test

import (
	"testing"

	"github.com/nohous/coroutine-mcu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_BroadcastWakesInRegistrationOrder(t *testing.T) {
	sched, err := cotask.NewScheduler(cotask.WithMaxTaskCount(4))
	require.NoError(t, err)

	ev := cotask.NewEvent()
	var woke []string

	for _, name := range []string{"first", "second", "third"} {
		name := name
		_, err := cotask.NewTask(sched, func(task *cotask.Task) error {
			ev.Await(task)
			woke = append(woke, name)
			return nil
		})
		require.NoError(t, err)
	}

	sched.ScheduleAllSuspended()
	for sched.Step() {
	}
	assert.Empty(t, woke, "no task should have woken before Activate")

	ev.Activate()
	for sched.Step() {
	}

	assert.Equal(t, []string{"first", "second", "third"}, woke)
}

func TestEvent_ActivateNoWaitersIsNoop(t *testing.T) {
	ev := cotask.NewEvent()
	assert.False(t, ev.Activate())
	assert.False(t, ev.IsActive())
}

func TestEvent_ActivateWithWaiterSucceedsOnceThenNoops(t *testing.T) {
	ev := cotask.NewEvent()
	w := ev.CreateWaiter(false)
	assert.True(t, ev.Activate())
	assert.True(t, ev.IsActive())
	assert.False(t, ev.Activate())
	assert.True(t, w.Ready())
}

func TestEvent_WaiterCreatedAfterActivateIsImmediatelyReady(t *testing.T) {
	ev := cotask.NewEvent()
	first := ev.CreateWaiter(false)
	require.True(t, ev.Activate())
	second := ev.CreateWaiter(false)
	assert.True(t, second.Ready())
	assert.True(t, first.Ready())
}

func TestEvent_CloseUnlinksWaiter(t *testing.T) {
	ev := cotask.NewEvent()
	w := ev.CreateWaiter(false)
	assert.False(t, w.Ready())
	w.Close()
	// w was the only registration; closing it drains the waiter list,
	// so Activate now has nothing to wake and correctly stays a no-op.
	assert.False(t, ev.Activate())
	assert.False(t, ev.IsActive())
}

func TestEvent_ActivateResetsOnceWaitersDrain(t *testing.T) {
	ev := cotask.NewEvent()
	w := ev.CreateWaiter(false)
	require.True(t, ev.Activate())
	assert.True(t, ev.IsActive())
	w.Resume()
	assert.False(t, ev.IsActive())
}

func TestEvent_CreateWaiterAutoActivate(t *testing.T) {
	ev := cotask.NewEvent()
	w := ev.CreateWaiter(true)
	assert.True(t, ev.IsActive())
	assert.True(t, w.Ready())
}
