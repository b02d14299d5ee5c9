package render

import "strings"

// RawFrame is a read-only view over one captured image. PixSize is the number
// of bytes per pixel: 4 for RGBA buffers, 3 for the packed RGB the camera
// backend produces. The converter never retains a frame past one tick.
type RawFrame struct {
	Width   int
	Height  int
	PixSize int
	Pix     []byte
}

// WrapRGB builds a frame view over a packed RGB24 buffer without copying.
func WrapRGB(width, height int, pix []byte) RawFrame {
	return RawFrame{Width: width, Height: height, PixSize: 3, Pix: pix}
}

// WrapRGBA builds a frame view over a packed RGBA buffer without copying.
func WrapRGBA(width, height int, pix []byte) RawFrame {
	return RawFrame{Width: width, Height: height, PixSize: 4, Pix: pix}
}

// Usable reports whether the frame carries at least one addressable pixel.
func (f RawFrame) Usable() bool {
	if f.Width <= 0 || f.Height <= 0 {
		return false
	}
	if f.PixSize != 3 && f.PixSize != 4 {
		return false
	}
	return len(f.Pix) >= f.Width*f.Height*f.PixSize
}

func (f RawFrame) at(x, y int) (r, g, b float64) {
	off := (y*f.Width + x) * f.PixSize
	return float64(f.Pix[off]), float64(f.Pix[off+1]), float64(f.Pix[off+2])
}

// GlyphGrid is one converted frame: Rows lines of exactly Cols characters
// each. A grid is regenerated whole every tick and never patched in place.
type GlyphGrid struct {
	Cols  int
	Rows  int
	Lines []string
}

// Empty reports whether the grid holds no cells. An empty grid is a valid
// degenerate result when the sample step exceeds a frame dimension.
func (g *GlyphGrid) Empty() bool {
	return g == nil || g.Cols == 0 || g.Rows == 0
}

// String renders the grid as a text block, each row terminated by a newline.
func (g *GlyphGrid) String() string {
	if g.Empty() {
		return ""
	}
	var sb strings.Builder
	sb.Grow((g.Cols*4 + 1) * g.Rows)
	for _, line := range g.Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
