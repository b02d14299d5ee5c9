package device

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FallbackAdvanceRatio is assumed for families that cannot be measured: the
// advance width of a typical monospace glyph relative to its point size.
const FallbackAdvanceRatio = 0.6

const metricsReferenceSize = 64.0

// FontMetrics measures glyph advance widths. At most one font file is loaded;
// families that do not resolve to it fall back to the approximate ratio.
type FontMetrics struct {
	data   []byte
	parsed *opentype.Font
	name   string
}

// NewFontMetrics returns a provider with no loaded font: every family
// measures at the fallback ratio.
func NewFontMetrics() *FontMetrics {
	return &FontMetrics{}
}

// LoadFontFile parses a TTF/OTF file and makes it the measured font. The raw
// bytes stay available for the export rasterizer.
func LoadFontFile(path string) (*FontMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("font file: %w", err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font parse: %w", err)
	}
	name := strings.TrimSuffix(strings.ToLower(baseName(path)), ".ttf")
	name = strings.TrimSuffix(name, ".otf")
	return &FontMetrics{data: data, parsed: parsed, name: name}, nil
}

// Data returns the raw font file bytes, or nil when no font is loaded.
func (m *FontMetrics) Data() []byte {
	if m == nil {
		return nil
	}
	return m.data
}

// MeasureAdvanceWidth returns the advance width in pixels of a representative
// glyph of family rendered at referenceSize. Unresolvable families measure at
// the fallback ratio.
func (m *FontMetrics) MeasureAdvanceWidth(family string, referenceSize float64) float64 {
	if referenceSize <= 0 {
		referenceSize = metricsReferenceSize
	}
	if m == nil || m.parsed == nil {
		return referenceSize * FallbackAdvanceRatio
	}
	face, err := opentype.NewFace(m.parsed, &opentype.FaceOptions{
		Size:    referenceSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return referenceSize * FallbackAdvanceRatio
	}
	defer face.Close()
	advance, ok := face.GlyphAdvance('M')
	if !ok || advance <= 0 {
		return referenceSize * FallbackAdvanceRatio
	}
	return float64(advance) / 64
}

// GlyphAspect returns the advance-to-size ratio used by the auto-fit sizer.
func (m *FontMetrics) GlyphAspect(family string) float64 {
	return m.MeasureAdvanceWidth(family, metricsReferenceSize) / metricsReferenceSize
}

func baseName(path string) string {
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
