package ui

import (
	"context"
	"sync"
	"time"
)

// RepeatingTask runs a function on a fixed interval until stopped. Stop is
// idempotent, safe to call before Start, and guarantees the callback does not
// fire after it returns.
type RepeatingTask struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// Start begins periodic execution. A running task is restarted with the new
// interval and callback.
func (t *RepeatingTask) Start(interval time.Duration, fn func()) {
	if interval <= 0 || fn == nil {
		return
	}
	t.Stop()

	t.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.running.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.running.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Re-check cancellation so a fire racing Stop is dropped.
				select {
				case <-ctx.Done():
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Stop cancels the task and waits for the worker to exit, so no tick can fire
// once Stop has returned.
func (t *RepeatingTask) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	t.running.Wait()
}

// Active reports whether the task is currently scheduled.
func (t *RepeatingTask) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}
