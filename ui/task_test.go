package ui

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRepeatingTaskFires(t *testing.T) {
	var task RepeatingTask
	defer task.Stop()

	fired := make(chan struct{}, 8)
	task.Start(5*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.True(t, task.Active())

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("task never fired")
	}
}

func TestRepeatingTaskStopIsFinal(t *testing.T) {
	var task RepeatingTask
	var count atomic.Int32

	task.Start(time.Millisecond, func() { count.Add(1) })
	time.Sleep(20 * time.Millisecond)
	task.Stop()

	after := count.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, after, count.Load())
	require.False(t, task.Active())
}

func TestRepeatingTaskStopIdempotent(t *testing.T) {
	var task RepeatingTask
	// Stop before Start and repeated stops are all safe no-ops.
	task.Stop()
	task.Start(time.Millisecond, func() {})
	task.Stop()
	task.Stop()
	require.False(t, task.Active())
}

func TestRepeatingTaskRestart(t *testing.T) {
	var task RepeatingTask
	defer task.Stop()

	var first, second atomic.Int32
	task.Start(time.Millisecond, func() { first.Add(1) })
	task.Start(time.Millisecond, func() { second.Add(1) })
	time.Sleep(20 * time.Millisecond)
	task.Stop()

	// The restart replaced the callback; the old one no longer runs.
	firstAfter := first.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, firstAfter, first.Load())
	require.Greater(t, second.Load(), int32(0))
}

func TestRepeatingTaskIgnoresBadArgs(t *testing.T) {
	var task RepeatingTask
	task.Start(0, func() {})
	require.False(t, task.Active())
	task.Start(time.Millisecond, nil)
	require.False(t, task.Active())
}
