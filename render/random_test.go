package render

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svanichkin/mosaic/conf"
)

func TestRandomizeSingleFieldTouchesOnlyThatField(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := conf.Default()

	got, locks := Randomize(base, []Field{FieldContrast}, rng)

	require.False(t, locks.Any())
	require.NotEqual(t, base.Color.Contrast, got.Color.Contrast)
	require.GreaterOrEqual(t, got.Color.Contrast, float64(conf.MinPercent))
	require.LessOrEqual(t, got.Color.Contrast, float64(conf.MaxPercent))

	// Everything else stays put.
	got.Color.Contrast = base.Color.Contrast
	require.Equal(t, base, got)
}

func TestRandomizeEmptyFieldListIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := conf.Default()
	got, locks := Randomize(base, nil, rng)
	require.Equal(t, base, got)
	require.False(t, locks.Any())
}

func TestRandomizeGeometryDrawsSetLocks(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := conf.Default()

	_, locks := Randomize(base, []Field{FieldFontSize}, rng)
	require.True(t, locks.FontSize)
	require.False(t, locks.LetterSpacing)
	require.False(t, locks.LineHeight)

	_, locks = Randomize(base, []Field{FieldLetterSpacing, FieldLineHeight}, rng)
	require.False(t, locks.FontSize)
	require.True(t, locks.LetterSpacing)
	require.True(t, locks.LineHeight)
}

func TestRandomizeDomains(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := conf.Default()

	for i := 0; i < 200; i++ {
		got, _ := Randomize(base, AllFields(), rng)

		require.NoError(t, conf.ValidateRamp(got.GlyphRamp))
		require.GreaterOrEqual(t, got.SampleStep, conf.MinSampleStep)
		require.LessOrEqual(t, got.SampleStep, conf.MaxSampleStep)
		require.GreaterOrEqual(t, got.Geometry.FontSize, float64(conf.MinFontSize))
		require.LessOrEqual(t, got.Geometry.FontSize, float64(conf.MaxFontSize))
		require.GreaterOrEqual(t, got.Geometry.LetterSpacing, float64(conf.MinLetterSpacing))
		require.LessOrEqual(t, got.Geometry.LetterSpacing, float64(conf.MaxLetterSpacing))
		require.GreaterOrEqual(t, got.Geometry.LineHeight, float64(conf.MinLineHeight))
		require.LessOrEqual(t, got.Geometry.LineHeight, float64(conf.MaxLineHeight))
		require.Contains(t, conf.FontFamilies, got.Geometry.FontFamily)
	}
}

func TestRandomizeDoesNotMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	base := conf.Default()
	snapshot := base
	_, _ = Randomize(base, AllFields(), rng)
	require.Equal(t, snapshot, base)
}
