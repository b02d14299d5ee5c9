package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFontMetricsFallbackRatio(t *testing.T) {
	m := NewFontMetrics()

	require.InDelta(t, 64*FallbackAdvanceRatio, m.MeasureAdvanceWidth("monospace", 64), 1e-9)
	require.InDelta(t, FallbackAdvanceRatio, m.GlyphAspect("monospace"), 1e-9)
	require.Nil(t, m.Data())

	var nilMetrics *FontMetrics
	require.InDelta(t, FallbackAdvanceRatio, nilMetrics.GlyphAspect("anything"), 1e-9)
	require.Nil(t, nilMetrics.Data())
}

func TestFontMetricsReferenceSizeGuard(t *testing.T) {
	m := NewFontMetrics()
	require.InDelta(t, metricsReferenceSize*FallbackAdvanceRatio, m.MeasureAdvanceWidth("monospace", 0), 1e-9)
	require.InDelta(t, metricsReferenceSize*FallbackAdvanceRatio, m.MeasureAdvanceWidth("monospace", -5), 1e-9)
}

func TestLoadFontFileErrors(t *testing.T) {
	_, err := LoadFontFile(filepath.Join(t.TempDir(), "missing.ttf"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.ttf")
	require.NoError(t, os.WriteFile(bad, []byte("not a font"), 0o644))
	_, err = LoadFontFile(bad)
	require.Error(t, err)
}

func TestBaseName(t *testing.T) {
	require.Equal(t, "mono.ttf", baseName("/usr/share/fonts/mono.ttf"))
	require.Equal(t, "mono.ttf", baseName(`C:\fonts\mono.ttf`))
	require.Equal(t, "mono.ttf", baseName("mono.ttf"))
}
