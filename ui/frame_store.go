package ui

import (
	"context"
	"sync"
	"time"

	"github.com/svanichkin/mosaic/device"
	"github.com/svanichkin/mosaic/playback"
)

type frameRecord struct {
	frame      device.CameraFrame
	capturedAt time.Time
	version    uint64
	valid      bool
}

// FrameStore caches the newest camera frame. The render loop samples it once
// per tick; old frames are overwritten, never queued.
type FrameStore struct {
	mu     sync.RWMutex
	latest frameRecord
}

// NewFrameStore returns an empty store.
func NewFrameStore() *FrameStore {
	return &FrameStore{}
}

// Set replaces the cached frame and stamps its arrival time.
func (fs *FrameStore) Set(f device.CameraFrame) {
	fs.mu.Lock()
	fs.latest.frame = f
	fs.latest.capturedAt = time.Now()
	fs.latest.version++
	fs.latest.valid = true
	fs.mu.Unlock()
}

// Clear drops the cached frame so the UI falls back to status text.
func (fs *FrameStore) Clear() {
	fs.mu.Lock()
	fs.latest = frameRecord{version: fs.latest.version + 1}
	fs.mu.Unlock()
}

// Snapshot returns the newest frame, its capture time and whether one exists.
func (fs *FrameStore) Snapshot() (device.CameraFrame, time.Time, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.latest.frame, fs.latest.capturedAt, fs.latest.valid
}

// StartFramePump forwards camera frames into the store until ctx is canceled
// or the source closes. Frames arriving while the gate is closed are dropped
// so a later resume can never replay them.
func StartFramePump(ctx context.Context, src <-chan device.CameraFrame, fs *FrameStore, gate *playback.Gate, onFrame func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case f, ok := <-src:
				if !ok {
					return
				}
				if gate != nil && !gate.Enabled() {
					continue
				}
				fs.Set(f)
				if onFrame != nil {
					onFrame()
				}
			}
		}
	}()
	return done
}
