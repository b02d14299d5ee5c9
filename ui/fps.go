package ui

import (
	"strconv"
	"sync"
	"time"
)

// fpsCounter tracks how many frames arrived over the last second.
type fpsCounter struct {
	mu       sync.Mutex
	lastTick time.Time
	frames   int
	display  string
}

func (fc *fpsCounter) recordFrame(now time.Time) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.lastTick.IsZero() {
		fc.lastTick = now
	}
	fc.frames++
	elapsed := now.Sub(fc.lastTick)
	if elapsed >= time.Second {
		fps := int(float64(fc.frames) / elapsed.Seconds())
		if fps < 0 {
			fps = 0
		}
		fc.display = strconv.Itoa(fps)
		fc.frames = 0
		fc.lastTick = now
	}
}

func (fc *fpsCounter) label() string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.display == "" {
		return "0 FPS"
	}
	return fc.display + " FPS"
}
