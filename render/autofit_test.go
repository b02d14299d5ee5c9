package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svanichkin/mosaic/conf"
)

func baseGeometry() conf.GlyphGeometry {
	return conf.GlyphGeometry{FontSize: 12, LetterSpacing: 0, LineHeight: 1.0, FontFamily: "monospace"}
}

func TestAutoFitFillsViewportExactly(t *testing.T) {
	const aspect = 0.6
	vp := Viewport{W: 1280, H: 720}
	g := AutoFit(107, 80, vp, baseGeometry(), aspect, conf.SizeLocks{})

	require.InDelta(t, vp.W, CellWidth(g, aspect)*107, 1e-6)
	require.InDelta(t, vp.H, CellHeight(g)*80, 1e-6)
	require.GreaterOrEqual(t, g.FontSize, float64(conf.MinFontSize))
	require.LessOrEqual(t, g.FontSize, float64(conf.MaxFontSize))
	require.GreaterOrEqual(t, g.LetterSpacing, float64(conf.MinLetterSpacing))
	require.LessOrEqual(t, g.LetterSpacing, float64(conf.MaxLetterSpacing))
}

func TestAutoFitIdempotent(t *testing.T) {
	const aspect = 0.6
	vp := Viewport{W: 1280, H: 720}
	first := AutoFit(107, 80, vp, baseGeometry(), aspect, conf.SizeLocks{})
	second := AutoFit(107, 80, vp, first, aspect, conf.SizeLocks{})
	require.Equal(t, first, second)
}

func TestAutoFitAllLockedUnchanged(t *testing.T) {
	geom := baseGeometry()
	locks := conf.SizeLocks{FontSize: true, LetterSpacing: true, LineHeight: true}
	got := AutoFit(100, 50, Viewport{W: 800, H: 600}, geom, 0.6, locks)
	require.Equal(t, geom, got)
}

func TestAutoFitFontSizeLocked(t *testing.T) {
	const aspect = 0.5
	geom := baseGeometry()
	vp := Viewport{W: 960, H: 480}
	g := AutoFit(60, 30, vp, geom, aspect, conf.SizeLocks{FontSize: true})

	require.Equal(t, geom.FontSize, g.FontSize)
	require.InDelta(t, vp.W, CellWidth(g, aspect)*60, 1e-6)
	require.InDelta(t, vp.H, CellHeight(g)*30, 1e-6)
}

func TestAutoFitLetterSpacingLocked(t *testing.T) {
	const aspect = 0.6
	geom := baseGeometry()
	geom.LetterSpacing = 0.2
	vp := Viewport{W: 960, H: 480}
	g := AutoFit(80, 40, vp, geom, aspect, conf.SizeLocks{LetterSpacing: true})

	require.Equal(t, geom.LetterSpacing, g.LetterSpacing)
	require.InDelta(t, vp.W, CellWidth(g, aspect)*80, 1e-6)
	require.InDelta(t, vp.H, CellHeight(g)*40, 1e-6)
}

func TestAutoFitLineHeightLocked(t *testing.T) {
	const aspect = 0.6
	geom := baseGeometry()
	geom.LineHeight = 1.5
	vp := Viewport{W: 1280, H: 720}
	g := AutoFit(100, 40, vp, geom, aspect, conf.SizeLocks{LineHeight: true})

	require.Equal(t, geom.LineHeight, g.LineHeight)
	require.InDelta(t, vp.H, CellHeight(g)*40, 1e-6)
	require.InDelta(t, vp.W, CellWidth(g, aspect)*100, 1e-6)
}

func TestAutoFitClampWithoutResolve(t *testing.T) {
	const aspect = 0.6
	// An extreme viewport pushes letterSpacing past its bound. The clamp
	// leaves a horizontal underflow that must stay uncorrected.
	vp := Viewport{W: 100000, H: 720}
	g := AutoFit(107, 80, vp, baseGeometry(), aspect, conf.SizeLocks{})

	require.Equal(t, float64(conf.MaxLetterSpacing), g.LetterSpacing)
	require.Less(t, CellWidth(g, aspect)*107, vp.W)
	require.InDelta(t, vp.H, CellHeight(g)*80, 1e-6)
}

func TestAutoFitTinyViewportClampsFontSize(t *testing.T) {
	g := AutoFit(107, 80, Viewport{W: 20, H: 20}, baseGeometry(), 0.6, conf.SizeLocks{})
	require.Equal(t, float64(conf.MinFontSize), g.FontSize)
}

func TestAutoFitDegenerateInputsUnchanged(t *testing.T) {
	geom := baseGeometry()
	require.Equal(t, geom, AutoFit(0, 40, Viewport{W: 800, H: 600}, geom, 0.6, conf.SizeLocks{}))
	require.Equal(t, geom, AutoFit(40, 0, Viewport{W: 800, H: 600}, geom, 0.6, conf.SizeLocks{}))
	require.Equal(t, geom, AutoFit(40, 40, Viewport{W: 0, H: 600}, geom, 0.6, conf.SizeLocks{}))
	require.Equal(t, geom, AutoFit(40, 40, Viewport{W: 800, H: 0}, geom, 0.6, conf.SizeLocks{}))
}

func TestAutoFitFallbackAspect(t *testing.T) {
	vp := Viewport{W: 1280, H: 720}
	withFallback := AutoFit(107, 80, vp, baseGeometry(), 0, conf.SizeLocks{})
	withExplicit := AutoFit(107, 80, vp, baseGeometry(), FallbackGlyphAspect, conf.SizeLocks{})
	require.Equal(t, withExplicit, withFallback)
}

func TestAutoFitEpsilonSuppression(t *testing.T) {
	const aspect = 0.6
	vp := Viewport{W: 1280, H: 720}
	solved := AutoFit(107, 80, vp, baseGeometry(), aspect, conf.SizeLocks{})

	// A sub-pixel viewport wobble resolves to the same geometry.
	nudged := AutoFit(107, 80, Viewport{W: vp.W + 0.5, H: vp.H + 0.5}, solved, aspect, conf.SizeLocks{})
	require.Equal(t, solved, nudged)
}
