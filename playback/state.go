package playback

import (
	"sync"
	"time"
)

// Gate controls whether conversion ticks are allowed to run. Stop is
// synchronous: once it returns, no tick body is executing and none will start
// until Start. Frames captured while the gate is closed are identified by
// comparing their capture time against ResumedAt.
type Gate struct {
	mu        sync.RWMutex
	enabled   bool
	resumedAt time.Time
}

// NewGate returns an open gate.
func NewGate() *Gate {
	return &Gate{enabled: true, resumedAt: time.Now()}
}

// Enabled reports whether ticks may run.
func (g *Gate) Enabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

// RunTick executes fn under the gate. It returns false without running fn
// when the gate is closed. Stop blocks until every in-flight RunTick returns.
func (g *Gate) RunTick(fn func()) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.enabled {
		return false
	}
	fn()
	return true
}

// Stop closes the gate. When Stop returns, no tick is running and no further
// tick can start until Start is called.
func (g *Gate) Stop() {
	g.mu.Lock()
	changed := g.enabled
	g.enabled = false
	g.mu.Unlock()
	if changed {
		notifyListeners(false)
	}
}

// Start reopens the gate and stamps the resume time, so frames captured while
// stopped can be told apart from live ones.
func (g *Gate) Start() {
	g.mu.Lock()
	changed := !g.enabled
	g.enabled = true
	g.resumedAt = time.Now()
	g.mu.Unlock()
	if changed {
		notifyListeners(true)
	}
}

// Toggle flips the gate and returns the new state.
func (g *Gate) Toggle() bool {
	if g.Enabled() {
		g.Stop()
		return false
	}
	g.Start()
	return true
}

// ResumedAt returns the time of the most recent Start.
func (g *Gate) ResumedAt() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.resumedAt
}

var (
	listenerMu sync.Mutex
	listeners  = make(map[int]func(bool))
	nextID     int
)

// Subscribe registers a callback invoked whenever any gate flips. It returns
// a function that removes the listener.
func Subscribe(fn func(enabled bool)) func() {
	if fn == nil {
		return func() {}
	}
	listenerMu.Lock()
	id := nextID
	nextID++
	listeners[id] = fn
	listenerMu.Unlock()
	return func() {
		listenerMu.Lock()
		delete(listeners, id)
		listenerMu.Unlock()
	}
}

func notifyListeners(enabled bool) {
	listenerMu.Lock()
	snapshot := make([]func(bool), 0, len(listeners))
	for _, fn := range listeners {
		snapshot = append(snapshot, fn)
	}
	listenerMu.Unlock()
	for _, fn := range snapshot {
		func(cb func(bool)) {
			defer func() { recover() }()
			cb(enabled)
		}(fn)
	}
}
