package conf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsNormalized(t *testing.T) {
	def := Default()
	require.Equal(t, def, def.Normalize())
	require.NoError(t, ValidateRamp(def.GlyphRamp))
}

func TestValidateRamp(t *testing.T) {
	require.ErrorIs(t, ValidateRamp(""), ErrEmptyRamp)
	require.ErrorIs(t, ValidateRamp("x"), ErrEmptyRamp)
	require.NoError(t, ValidateRamp(" #"))
	// Rune count matters, not byte count.
	require.ErrorIs(t, ValidateRamp("█"), ErrEmptyRamp)
	require.NoError(t, ValidateRamp(" █"))
}

func TestNormalizeClampsRanges(t *testing.T) {
	c := RenderConfig{
		GlyphRamp:  "x",
		SampleStep: 500,
		Color:      ColorAdjust{Contrast: -10, Brightness: 900, Saturation: 150},
		Geometry:   GlyphGeometry{FontSize: 1000, LetterSpacing: -9, LineHeight: 0},
	}
	n := c.Normalize()

	require.Equal(t, RampPresets["standard"], n.GlyphRamp)
	require.Equal(t, MaxSampleStep, n.SampleStep)
	require.Equal(t, float64(MinPercent), n.Color.Contrast)
	require.Equal(t, float64(MaxPercent), n.Color.Brightness)
	require.Equal(t, 150.0, n.Color.Saturation)
	require.Equal(t, float64(MaxFontSize), n.Geometry.FontSize)
	require.Equal(t, float64(MinLetterSpacing), n.Geometry.LetterSpacing)
	require.Equal(t, float64(MinLineHeight), n.Geometry.LineHeight)
	require.Equal(t, "monospace", n.Geometry.FontFamily)
}

func TestSizeLocks(t *testing.T) {
	require.False(t, SizeLocks{}.Any())
	require.True(t, SizeLocks{LineHeight: true}.Any())
	require.False(t, SizeLocks{LineHeight: true}.All())
	require.True(t, SizeLocks{FontSize: true, LetterSpacing: true, LineHeight: true}.All())
}

func TestRampPresetNamesCoverPresets(t *testing.T) {
	names := RampPresetNames()
	require.Len(t, names, len(RampPresets))
	for _, name := range names {
		ramp, ok := RampPresets[name]
		require.True(t, ok, name)
		require.NoError(t, ValidateRamp(ramp))
	}
}
