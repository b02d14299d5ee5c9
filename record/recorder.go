// Package record appends rendered glyph grids to a zstd-compressed stream
// file, one frame per entry, so a session can be replayed or inspected later.
package record

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/svanichkin/mosaic/render"
)

// Recorder writes a sequence of glyph grids to a single compressed file.
// Safe for use from one writer goroutine plus Close from anywhere; Close is
// idempotent.
type Recorder struct {
	mu     sync.Mutex
	file   *os.File
	enc    *zstd.Encoder
	closed bool
	frames int
}

// Open creates (or truncates) the stream file and prepares the encoder.
func Open(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("record open: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("record encoder: %w", err)
	}
	return &Recorder{file: f, enc: enc}, nil
}

// WriteGrid appends one grid with its timestamp. Empty grids are skipped.
func (r *Recorder) WriteGrid(ts time.Time, grid *render.GlyphGrid) error {
	if r == nil || grid.Empty() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("recorder closed")
	}
	header := fmt.Sprintf("--- %s %dx%d\n", ts.UTC().Format(time.RFC3339Nano), grid.Cols, grid.Rows)
	if _, err := r.enc.Write([]byte(header)); err != nil {
		return err
	}
	if _, err := r.enc.Write([]byte(grid.String())); err != nil {
		return err
	}
	r.frames++
	return nil
}

// Frames returns how many grids have been written.
func (r *Recorder) Frames() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close flushes the stream and releases the file. Repeated calls are no-ops.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	encErr := r.enc.Close()
	fileErr := r.file.Close()
	if encErr != nil {
		return encErr
	}
	return fileErr
}
