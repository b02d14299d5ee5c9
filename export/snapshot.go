// Package export rasterizes a glyph grid into a PNG image. It is a pure
// function of the grid, the colors and the glyph geometry; no renderer state
// is consulted.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/svanichkin/mosaic/conf"
	"github.com/svanichkin/mosaic/render"
)

// SnapshotPNG draws the grid with the given colors and geometry and returns
// the encoded PNG. When fontData holds a parseable TTF/OTF it is rasterized
// at the configured size; otherwise a built-in bitmap face is used and the
// geometry's proportions are approximated.
func SnapshotPNG(grid *render.GlyphGrid, fg, bg conf.RGB, geom conf.GlyphGeometry, fontData []byte) ([]byte, error) {
	if grid.Empty() {
		return nil, fmt.Errorf("empty grid")
	}

	face, advance := resolveFace(fontData, geom.FontSize)
	defer face.Close()

	cellW := advance + geom.LetterSpacing*geom.FontSize
	if cellW < 1 {
		cellW = 1
	}
	cellH := geom.FontSize * geom.LineHeight
	if cellH < 1 {
		cellH = 1
	}

	w := int(math.Ceil(float64(grid.Cols) * cellW))
	h := int(math.Ceil(float64(grid.Rows) * cellH))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bgColor := color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 255}
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: fg.R, G: fg.G, B: fg.B, A: 255}),
		Face: face,
	}

	ascent := float64(face.Metrics().Ascent) / 64
	for rowIdx, line := range grid.Lines {
		y := float64(rowIdx)*cellH + ascent
		for colIdx, r := range []rune(line) {
			drawer.Dot = fixed.Point26_6{
				X: fixed.Int26_6(float64(colIdx) * cellW * 64),
				Y: fixed.Int26_6(y * 64),
			}
			drawer.DrawString(string(r))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// resolveFace returns a face for the requested size plus the advance width of
// a representative glyph in pixels.
func resolveFace(fontData []byte, fontSize float64) (font.Face, float64) {
	if fontSize <= 0 {
		fontSize = 12
	}
	if len(fontData) > 0 {
		if parsed, err := truetype.Parse(fontData); err == nil {
			face := truetype.NewFace(parsed, &truetype.Options{
				Size:    fontSize,
				DPI:     72,
				Hinting: font.HintingFull,
			})
			if adv, ok := face.GlyphAdvance('M'); ok && adv > 0 {
				return face, float64(adv) / 64
			}
			return face, fontSize * 0.6
		}
	}
	face := basicfont.Face7x13
	return face, 7
}
