package conf

import (
	"fmt"
	"strings"
)

// Verbose enables diagnostic logging across the application.
var Verbose bool

// Ramp presets selectable by name. Each ramp is ordered from least to most ink.
var RampPresets = map[string]string{
	"standard": " .:-=+*#%@",
	"detailed": " .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$",
	"blocks":   " ░▒▓█",
	"binary":   " █",
	"dots":     " .•●",
}

// RampPresetNames returns the preset keys in a stable order.
func RampPresetNames() []string {
	return []string{"standard", "detailed", "blocks", "binary", "dots"}
}

// FontFamilies lists font families the randomizer may pick from. Entries may
// be family names or paths to font files; resolution happens in the metrics
// provider.
var FontFamilies = []string{"monospace", "courier", "menlo", "consolas"}

// Geometry clamp bounds applied after auto-fit solving.
const (
	MinFontSize      = 4.0
	MaxFontSize      = 128.0
	MinLineHeight    = 0.5
	MaxLineHeight    = 3.0
	MinLetterSpacing = -2.0
	MaxLetterSpacing = 8.0
)

// Slider ranges for numeric settings. The randomizer draws uniformly inside
// them and interactive edits are clamped to them.
const (
	MinSampleStep = 1
	MaxSampleStep = 32
	MinPercent    = 0.0
	MaxPercent    = 300.0
)

// ColorAdjust holds the per-pixel adjustment chain. Percentages are neutral
// at 100; 0 removes the effect's subject entirely, values above 100 amplify.
type ColorAdjust struct {
	Contrast   float64 `json:"contrast"`
	Brightness float64 `json:"brightness"`
	Saturation float64 `json:"saturation"`
	Grayscale  bool    `json:"grayscale"`
	Mirror     bool    `json:"mirror"`
}

// GlyphGeometry describes how one character cell is sized: FontSize in px,
// LetterSpacing in em, LineHeight as a unitless multiplier.
type GlyphGeometry struct {
	FontSize      float64 `json:"font_size"`
	LetterSpacing float64 `json:"letter_spacing"`
	LineHeight    float64 `json:"line_height"`
	FontFamily    string  `json:"font_family"`
}

// SizeLocks marks geometry dimensions the user has set by hand. A locked
// dimension is never overwritten by auto-fit.
type SizeLocks struct {
	FontSize      bool `json:"font_size"`
	LetterSpacing bool `json:"letter_spacing"`
	LineHeight    bool `json:"line_height"`
}

// Any reports whether at least one dimension is locked.
func (l SizeLocks) Any() bool {
	return l.FontSize || l.LetterSpacing || l.LineHeight
}

// All reports whether every dimension is locked.
func (l SizeLocks) All() bool {
	return l.FontSize && l.LetterSpacing && l.LineHeight
}

// RGB is an 8-bit color triple used for the rendered text and its backdrop.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RenderConfig is the full set of tunables read by the converter and sizer.
// It is treated as immutable once published; mutations copy then swap.
type RenderConfig struct {
	GlyphRamp  string        `json:"glyph_ramp"`
	SampleStep int           `json:"sample_step"`
	Color      ColorAdjust   `json:"color"`
	Geometry   GlyphGeometry `json:"geometry"`
	Invert     bool          `json:"invert"`
	Foreground RGB           `json:"foreground"`
	Background RGB           `json:"background"`
}

// Default returns the documented startup configuration.
func Default() RenderConfig {
	return RenderConfig{
		GlyphRamp:  RampPresets["standard"],
		SampleStep: 6,
		Color: ColorAdjust{
			Contrast:   100,
			Brightness: 100,
			Saturation: 100,
		},
		Geometry: GlyphGeometry{
			FontSize:   12,
			LineHeight: 1.0,
			FontFamily: "monospace",
		},
		Foreground: RGB{R: 235, G: 235, B: 235},
		Background: RGB{R: 12, G: 12, B: 14},
	}
}

// ErrEmptyRamp is returned when a ramp edit would leave no characters to
// index; the previous ramp stays in effect.
var ErrEmptyRamp = fmt.Errorf("glyph ramp must contain at least two characters")

// ValidateRamp rejects ramps the converter could not index.
func ValidateRamp(ramp string) error {
	if len([]rune(ramp)) < 2 {
		return ErrEmptyRamp
	}
	return nil
}

// Normalize clamps every field into its documented range and repairs values a
// hand-edited config file may carry. An unindexable ramp falls back to the
// default preset.
func (c RenderConfig) Normalize() RenderConfig {
	if ValidateRamp(c.GlyphRamp) != nil {
		c.GlyphRamp = RampPresets["standard"]
	}
	c.SampleStep = clampInt(c.SampleStep, MinSampleStep, MaxSampleStep)
	c.Color.Contrast = clampFloat(c.Color.Contrast, MinPercent, MaxPercent)
	c.Color.Brightness = clampFloat(c.Color.Brightness, MinPercent, MaxPercent)
	c.Color.Saturation = clampFloat(c.Color.Saturation, MinPercent, MaxPercent)
	c.Geometry = c.Geometry.Clamped()
	if strings.TrimSpace(c.Geometry.FontFamily) == "" {
		c.Geometry.FontFamily = "monospace"
	}
	return c
}

// Clamped bounds the geometry into the auto-fit ranges.
func (g GlyphGeometry) Clamped() GlyphGeometry {
	g.FontSize = clampFloat(g.FontSize, MinFontSize, MaxFontSize)
	g.LineHeight = clampFloat(g.LineHeight, MinLineHeight, MaxLineHeight)
	g.LetterSpacing = clampFloat(g.LetterSpacing, MinLetterSpacing, MaxLetterSpacing)
	return g
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
