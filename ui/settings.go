package ui

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/svanichkin/mosaic/conf"
	"github.com/svanichkin/mosaic/logs"
	"github.com/svanichkin/mosaic/render"
)

// Settings owns the live render configuration and the auto-fit lock state.
// Reads go through an atomic pointer, so a tick always observes one coherent
// configuration: an update swaps the whole record, never a field at a time.
// Every accepted change is persisted immediately.
type Settings struct {
	cfg  atomic.Pointer[conf.RenderConfig]
	mu   sync.Mutex // serializes writers and guards locks
	lock conf.SizeLocks
	path string
}

// NewSettings publishes the loaded record and remembers where to persist it.
func NewSettings(s conf.Settings, path string) *Settings {
	st := &Settings{path: path, lock: s.Locks}
	cfg := s.Render.Normalize()
	st.cfg.Store(&cfg)
	return st
}

// Config returns the current configuration by value.
func (s *Settings) Config() conf.RenderConfig {
	return *s.cfg.Load()
}

// Locks returns the current auto-fit lock state.
func (s *Settings) Locks() conf.SizeLocks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock
}

func (s *Settings) update(mutate func(cfg *conf.RenderConfig, locks *conf.SizeLocks)) {
	s.mu.Lock()
	cfg := *s.cfg.Load()
	mutate(&cfg, &s.lock)
	cfg = cfg.Normalize()
	s.cfg.Store(&cfg)
	record := conf.Settings{Render: cfg, Locks: s.lock}
	path := s.path
	s.mu.Unlock()

	if err := conf.SaveSettings(path, record); err != nil {
		logs.LogV("[cfg] save failed: %v", err)
	}
}

// SetRamp applies a new glyph ramp. An unindexable ramp is refused and the
// previous ramp stays in effect.
func (s *Settings) SetRamp(ramp string) error {
	if err := conf.ValidateRamp(ramp); err != nil {
		return err
	}
	s.update(func(cfg *conf.RenderConfig, _ *conf.SizeLocks) {
		cfg.GlyphRamp = ramp
	})
	return nil
}

// SetFontSize is a manual edit: it locks the dimension against auto-fit.
func (s *Settings) SetFontSize(v float64) {
	s.update(func(cfg *conf.RenderConfig, locks *conf.SizeLocks) {
		cfg.Geometry.FontSize = v
		locks.FontSize = true
	})
}

// SetLetterSpacing is a manual edit: it locks the dimension against auto-fit.
func (s *Settings) SetLetterSpacing(v float64) {
	s.update(func(cfg *conf.RenderConfig, locks *conf.SizeLocks) {
		cfg.Geometry.LetterSpacing = v
		locks.LetterSpacing = true
	})
}

// SetLineHeight is a manual edit: it locks the dimension against auto-fit.
func (s *Settings) SetLineHeight(v float64) {
	s.update(func(cfg *conf.RenderConfig, locks *conf.SizeLocks) {
		cfg.Geometry.LineHeight = v
		locks.LineHeight = true
	})
}

// AdjustSampleStep nudges the sample step by delta, clamped to its range.
func (s *Settings) AdjustSampleStep(delta int) {
	s.update(func(cfg *conf.RenderConfig, _ *conf.SizeLocks) {
		cfg.SampleStep += delta
	})
}

// ToggleMirror flips horizontal mirroring.
func (s *Settings) ToggleMirror() {
	s.update(func(cfg *conf.RenderConfig, _ *conf.SizeLocks) {
		cfg.Color.Mirror = !cfg.Color.Mirror
	})
}

// ToggleInvert flips ramp traversal direction.
func (s *Settings) ToggleInvert() {
	s.update(func(cfg *conf.RenderConfig, _ *conf.SizeLocks) {
		cfg.Invert = !cfg.Invert
	})
}

// ToggleGrayscale flips the grayscale collapse.
func (s *Settings) ToggleGrayscale() {
	s.update(func(cfg *conf.RenderConfig, _ *conf.SizeLocks) {
		cfg.Color.Grayscale = !cfg.Color.Grayscale
	})
}

// Reset restores the documented defaults and clears every auto-fit lock.
// This is the only path that clears locks.
func (s *Settings) Reset() {
	s.update(func(cfg *conf.RenderConfig, locks *conf.SizeLocks) {
		*cfg = conf.Default()
		*locks = conf.SizeLocks{}
	})
}

// ApplyAutoFit installs geometry solved by the sizer. Locks are left alone:
// auto-fit never locks or unlocks anything.
func (s *Settings) ApplyAutoFit(g conf.GlyphGeometry) {
	s.update(func(cfg *conf.RenderConfig, _ *conf.SizeLocks) {
		cfg.Geometry = g
	})
}

// Randomize draws new values for the given fields and records the implied
// geometry locks.
func (s *Settings) Randomize(fields []render.Field, rng *rand.Rand) {
	s.update(func(cfg *conf.RenderConfig, locks *conf.SizeLocks) {
		next, delta := render.Randomize(*cfg, fields, rng)
		*cfg = next
		locks.FontSize = locks.FontSize || delta.FontSize
		locks.LetterSpacing = locks.LetterSpacing || delta.LetterSpacing
		locks.LineHeight = locks.LineHeight || delta.LineHeight
	})
}
