package ui

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/svanichkin/mosaic/render"
)

// A frame older than this is considered frozen; the renderer shows animated
// static in its place until fresh frames arrive.
const frameFreezeThreshold = 1200 * time.Millisecond

const noiseFrameInterval = time.Second / 20

var noiseRandSeed uint64

func nextNoiseSeed() int64 {
	now := uint64(time.Now().UnixNano())
	seed := atomic.AddUint64(&noiseRandSeed, now+1)
	return int64(seed ^ now)
}

// noiseGrid builds one frame of static at the given grid size out of the
// active ramp's two extremes plus a sprinkling of mid glyphs.
func noiseGrid(cols, rows int, ramp string) *render.GlyphGrid {
	runes := []rune(ramp)
	if cols <= 0 || rows <= 0 || len(runes) < 2 {
		return nil
	}

	rng := rand.New(rand.NewSource(nextNoiseSeed()))
	lines := make([]string, rows)
	row := make([]rune, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			// Bias toward the ramp ends so the static reads as salt and pepper.
			switch rng.Intn(4) {
			case 0:
				row[x] = runes[len(runes)-1]
			case 1:
				row[x] = runes[rng.Intn(len(runes))]
			default:
				row[x] = runes[0]
			}
		}
		lines[y] = string(row)
	}
	return &render.GlyphGrid{Cols: cols, Rows: rows, Lines: lines}
}
