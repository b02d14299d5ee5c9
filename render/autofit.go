package render

import (
	"math"

	"github.com/svanichkin/mosaic/conf"
)

// Viewport is the drawable area, in pixels, the glyph grid should fill.
type Viewport struct {
	W float64
	H float64
}

// FallbackGlyphAspect is used when the font metrics provider cannot measure
// the active family.
const FallbackGlyphAspect = 0.6

// Change-suppression thresholds. A solve whose every dimension moves less
// than its epsilon is treated as a no-op, which keeps a resize observer from
// oscillating against its own feedback.
const (
	fontSizeEpsilon      = 0.1
	letterSpacingEpsilon = 0.01
	lineHeightEpsilon    = 0.01
)

// CellWidth returns the horizontal span of one glyph cell in pixels:
// the natural advance (fontSize·aspect) plus em-based letter spacing.
func CellWidth(g conf.GlyphGeometry, aspect float64) float64 {
	return g.FontSize*aspect + g.LetterSpacing*g.FontSize
}

// CellHeight returns the vertical span of one glyph cell in pixels.
func CellHeight(g conf.GlyphGeometry) float64 {
	return g.FontSize * g.LineHeight
}

// AutoFit chooses fontSize, letterSpacing and lineHeight so that cols cells
// exactly span vp.W and rows cells exactly span vp.H, holding any locked
// dimension fixed. Solved values are clamped into their bounds afterwards;
// clamping may leave residual overflow or underflow, which is accepted and
// never corrected by a re-solve. With every dimension locked the geometry is
// returned untouched.
func AutoFit(cols, rows int, vp Viewport, geom conf.GlyphGeometry, aspect float64, locks conf.SizeLocks) conf.GlyphGeometry {
	if cols <= 0 || rows <= 0 || vp.W <= 0 || vp.H <= 0 {
		return geom
	}
	if locks.All() {
		return geom
	}
	if aspect <= 0 {
		aspect = FallbackGlyphAspect
	}

	g := geom

	switch {
	case locks.FontSize:
		// Width and height each have one free variable left.
		if !locks.LetterSpacing {
			g.LetterSpacing = vp.W/(float64(cols)*g.FontSize) - aspect
		}
		if !locks.LineHeight {
			g.LineHeight = vp.H / (float64(rows) * g.FontSize)
		}

	case locks.LetterSpacing:
		// fontSize carries the horizontal fit, lineHeight the vertical.
		g.FontSize = vp.W / (float64(cols) * (aspect + g.LetterSpacing))
		g.FontSize = clampFontSize(g.FontSize)
		if !locks.LineHeight {
			g.LineHeight = vp.H / (float64(rows) * g.FontSize)
		}

	default:
		// fontSize and letterSpacing are both free (lineHeight locked or
		// not). Cell height depends on fontSize alone, so the vertical fit
		// fixes fontSize at the current lineHeight and letterSpacing absorbs
		// the horizontal remainder.
		g.FontSize = vp.H / (float64(rows) * g.LineHeight)
		g.FontSize = clampFontSize(g.FontSize)
		g.LetterSpacing = vp.W/(float64(cols)*g.FontSize) - aspect
	}

	g = g.Clamped()

	if math.Abs(g.FontSize-geom.FontSize) < fontSizeEpsilon &&
		math.Abs(g.LetterSpacing-geom.LetterSpacing) < letterSpacingEpsilon &&
		math.Abs(g.LineHeight-geom.LineHeight) < lineHeightEpsilon {
		return geom
	}
	return g
}

func clampFontSize(v float64) float64 {
	if math.IsNaN(v) || v < conf.MinFontSize {
		return conf.MinFontSize
	}
	if v > conf.MaxFontSize {
		return conf.MaxFontSize
	}
	return v
}
