package render

import (
	"fmt"
	"math"

	"github.com/svanichkin/mosaic/conf"
)

// ErrDegenerateFrame marks a frame with no usable pixels; the caller skips
// the tick without surfacing anything to the user.
var ErrDegenerateFrame = fmt.Errorf("frame has no usable pixels")

// Converter turns raw frames into glyph grids. Scratch buffers are reused
// across ticks so the per-tick cost stays at the output characters alone.
// A Converter is not safe for concurrent use; the render loop owns it.
type Converter struct {
	ramp    []rune
	rampSrc string
	rowBuf  []rune
}

// NewConverter returns a converter ready for the first tick.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert maps one frame through the active configuration into a glyph grid.
// Sampling is nearest-pixel at (x·step, y·step); the color adjustment chain
// runs contrast → brightness → saturation → grayscale, each a percentage
// multiplier neutral at 100, channels clamped to [0,255]. The glyph index is
// floor(L·(len−1)) over Rec.601 luminance, reversed under invert.
func (c *Converter) Convert(frame RawFrame, cfg conf.RenderConfig) (*GlyphGrid, error) {
	if !frame.Usable() {
		return nil, ErrDegenerateFrame
	}
	if err := conf.ValidateRamp(cfg.GlyphRamp); err != nil {
		return nil, err
	}
	step := cfg.SampleStep
	if step < 1 {
		step = 1
	}

	cols := frame.Width / step
	rows := frame.Height / step
	if cols == 0 || rows == 0 {
		// Шаг больше кадра: валидная пустая сетка.
		return &GlyphGrid{}, nil
	}

	if cfg.GlyphRamp != c.rampSrc {
		c.ramp = []rune(cfg.GlyphRamp)
		c.rampSrc = cfg.GlyphRamp
	}
	ramp := c.ramp
	rampMax := len(ramp) - 1

	if cap(c.rowBuf) < cols {
		c.rowBuf = make([]rune, cols)
	}
	rowBuf := c.rowBuf[:cols]
	lines := make([]string, rows)

	contrast := cfg.Color.Contrast / 100
	brightness := cfg.Color.Brightness / 100
	saturation := cfg.Color.Saturation / 100

	for y := 0; y < rows; y++ {
		sy := y * step
		for x := 0; x < cols; x++ {
			sx := x * step
			if cfg.Color.Mirror {
				sx = frame.Width - 1 - x*step
			}
			r, g, b := frame.at(sx, sy)

			r = clamp255((r-128)*contrast + 128)
			g = clamp255((g-128)*contrast + 128)
			b = clamp255((b-128)*contrast + 128)

			r = clamp255(r * brightness)
			g = clamp255(g * brightness)
			b = clamp255(b * brightness)

			lum := 0.299*r + 0.587*g + 0.114*b
			r = clamp255(lum + (r-lum)*saturation)
			g = clamp255(lum + (g-lum)*saturation)
			b = clamp255(lum + (b-lum)*saturation)

			// Grayscale collapses channels to their luminance, which leaves
			// the final luminance itself unchanged, so the glyph choice only
			// depends on the adjusted channels.
			l := (0.299*r + 0.587*g + 0.114*b) / 255
			if cfg.Invert {
				l = 1 - l
			}

			idx := int(math.Floor(l * float64(rampMax)))
			if idx < 0 {
				idx = 0
			} else if idx > rampMax {
				idx = rampMax
			}
			rowBuf[x] = ramp[idx]
		}
		lines[y] = string(rowBuf)
	}

	return &GlyphGrid{Cols: cols, Rows: rows, Lines: lines}, nil
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
