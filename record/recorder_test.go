package record

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/svanichkin/mosaic/render"
)

func testGrid() *render.GlyphGrid {
	return &render.GlyphGrid{Cols: 3, Rows: 2, Lines: []string{"ab ", " cd"}}
}

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.zst")
	rec, err := Open(path)
	require.NoError(t, err)

	ts := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	require.NoError(t, rec.WriteGrid(ts, testGrid()))
	require.NoError(t, rec.WriteGrid(ts.Add(time.Second), testGrid()))
	require.Equal(t, 2, rec.Frames())
	require.NoError(t, rec.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	require.NoError(t, err)
	text := string(raw)

	require.Equal(t, 2, strings.Count(text, "--- "))
	require.Contains(t, text, "2026-08-26T12:00:00Z 3x2\n")
	require.Contains(t, text, "ab \n cd\n")
}

func TestRecorderSkipsEmptyGrids(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.zst")
	rec, err := Open(path)
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.WriteGrid(time.Now(), &render.GlyphGrid{}))
	require.NoError(t, rec.WriteGrid(time.Now(), nil))
	require.Equal(t, 0, rec.Frames())
}

func TestRecorderCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.zst")
	rec, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())
	require.Error(t, rec.WriteGrid(time.Now(), testGrid()))
}

func TestRecorderOutputIsValidZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.zst")
	rec, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, rec.WriteGrid(time.Now(), testGrid()))
	require.NoError(t, rec.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	dec, err := zstd.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer dec.Close()
	_, err = io.ReadAll(dec)
	require.NoError(t, err)
}
