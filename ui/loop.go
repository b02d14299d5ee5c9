package ui

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/svanichkin/mosaic/conf"
	"github.com/svanichkin/mosaic/device"
	"github.com/svanichkin/mosaic/export"
	"github.com/svanichkin/mosaic/logs"
	"github.com/svanichkin/mosaic/playback"
	"github.com/svanichkin/mosaic/record"
	"github.com/svanichkin/mosaic/render"
)

// Reference pixel size of one terminal cell. The terminal cannot report true
// pixel metrics, so the auto-fit viewport is derived from these.
const (
	refCellPxW = 8
	refCellPxH = 16
)

const resizePollInterval = 50 * time.Millisecond

// Renderer owns the terminal and converts the newest camera frame into a
// glyph grid once per display tick.
type Renderer struct {
	Settings *Settings
	Frames   *FrameStore
	Gate     *playback.Gate
	Metrics  *device.FontMetrics
	Recorder *record.Recorder

	MaxFPS         int
	RandomInterval time.Duration

	conv *render.Converter
	rng  *rand.Rand

	redrawCh chan struct{}
	frameCh  chan *device.TerminalFrame

	randomTask RepeatingTask
	noiseTask  RepeatingTask

	statusMu      sync.RWMutex
	statusMessage string

	panelOn     atomic.Bool
	snapshotReq atomic.Bool
	fps         fpsCounter

	fitMu   sync.Mutex
	lastFit struct {
		cols, rows int
		vp         render.Viewport
	}

	lastDrawMu sync.Mutex
	lastDraw   struct {
		w, h int
		grid bool
	}
}

// NewRenderer wires the renderer's collaborators together.
func NewRenderer(settings *Settings, frames *FrameStore, gate *playback.Gate, metrics *device.FontMetrics) *Renderer {
	return &Renderer{
		Settings: settings,
		Frames:   frames,
		Gate:     gate,
		Metrics:  metrics,
		MaxFPS:   60,
		conv:     render.NewConverter(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		redrawCh: make(chan struct{}, 1),
		frameCh:  make(chan *device.TerminalFrame, 2),
	}
}

// RequestRedraw enqueues a redraw outside the regular tick cadence.
// Multiple requests coalesce into one.
func (r *Renderer) RequestRedraw() {
	select {
	case r.redrawCh <- struct{}{}:
	default:
	}
}

// SetStatusMessage updates the fallback text rendered when no frames are
// available. The message is trimmed; pass an empty string to clear it.
func (r *Renderer) SetStatusMessage(msg string) {
	r.statusMu.Lock()
	r.statusMessage = strings.TrimSpace(msg)
	r.statusMu.Unlock()
	r.RequestRedraw()
}

func (r *Renderer) currentStatusMessage() string {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.statusMessage
}

// Run drives the display until ctx is canceled. It owns the terminal device
// and the tick cadence; stopping playback does not stop Run, it only idles
// the conversion.
func (r *Renderer) Run(ctx context.Context) error {
	terminal, err := device.StartTerminal(r.frameCh, ctx.Done(), nil)
	if err != nil {
		return fmt.Errorf("terminal start: %w", err)
	}
	defer func() {
		r.randomTask.Stop()
		r.noiseTask.Stop()
		close(r.frameCh)
		<-terminal.Done()
	}()

	fps := r.MaxFPS
	if fps <= 0 || fps > 240 {
		fps = 60
	}
	tick := time.NewTicker(time.Second / time.Duration(fps))
	defer tick.Stop()
	resize := time.NewTicker(resizePollInterval)
	defer resize.Stop()

	var lastCols, lastRows int
	r.renderFrame()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-r.redrawCh:
			for {
				select {
				case <-r.redrawCh:
					continue
				default:
				}
				break
			}
			r.renderFrame()

		case <-tick.C:
			r.renderFrame()

		case <-resize.C:
			cols, rows, err := device.GetTermSize()
			if err != nil {
				continue
			}
			if cols != lastCols || rows != lastRows {
				lastCols, lastRows = cols, rows
				r.renderFrame()
			}
		}
	}
}

// HandleKey applies one keyboard command. KeyQuit is the caller's concern.
func (r *Renderer) HandleKey(k device.Key) {
	switch k {
	case device.KeyTogglePlayback:
		r.Gate.Toggle()
	case device.KeySnapshot:
		r.snapshotReq.Store(true)
	case device.KeyRandomize:
		r.Settings.Randomize(render.AllFields(), r.rng)
	case device.KeyToggleAutoRandom:
		r.toggleAutoRandom()
	case device.KeyTogglePanel:
		r.panelOn.Store(!r.panelOn.Load())
	case device.KeyToggleMirror:
		r.Settings.ToggleMirror()
	case device.KeyToggleInvert:
		r.Settings.ToggleInvert()
	case device.KeyToggleGrayscale:
		r.Settings.ToggleGrayscale()
	case device.KeyStepDown:
		r.Settings.AdjustSampleStep(-1)
	case device.KeyStepUp:
		r.Settings.AdjustSampleStep(1)
	case device.KeyReset:
		r.Settings.Reset()
	default:
		return
	}
	r.RequestRedraw()
}

func (r *Renderer) toggleAutoRandom() {
	if r.randomTask.Active() {
		r.randomTask.Stop()
		r.SetStatusMessage("")
		return
	}
	interval := r.RandomInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	r.randomTask.Start(interval, func() {
		r.Settings.Randomize(render.AllFields(), r.rng)
		r.RequestRedraw()
	})
}

func (r *Renderer) renderFrame() {
	cols, rows, err := device.GetTermSize()
	if err != nil || cols < 4 || rows < 2 {
		return
	}

	cfg := r.Settings.Config()
	frame, capturedAt, haveFrame := r.Frames.Snapshot()

	if !haveFrame {
		r.setNoiseAnimation(false)
		r.drawStatusScreen(cols, rows, r.statusOrDefault("Waiting for camera…"))
		return
	}

	if !r.Gate.Enabled() {
		r.setNoiseAnimation(false)
		r.drawStatusScreen(cols, rows, "PAUSED")
		return
	}
	// Frames captured before the last resume are never converted.
	if capturedAt.Before(r.Gate.ResumedAt()) {
		r.drawStatusScreen(cols, rows, r.statusOrDefault("Waiting for camera…"))
		return
	}

	now := time.Now()
	if now.Sub(capturedAt) > frameFreezeThreshold {
		r.setNoiseAnimation(true)
		r.drawNoise(cols, rows, cfg)
		return
	}
	r.setNoiseAnimation(false)

	var grid *render.GlyphGrid
	ran := r.Gate.RunTick(func() {
		raw := render.WrapRGB(frame.Width, frame.Height, frame.Data)
		g, err := r.conv.Convert(raw, cfg)
		if err != nil {
			// Degenerate frame: silently skip the tick.
			return
		}
		grid = g
	})
	if !ran || grid == nil {
		return
	}
	if grid.Empty() {
		r.drawStatusScreen(cols, rows, r.statusOrDefault("sample step exceeds frame size"))
		return
	}

	r.fps.recordFrame(now)
	r.autofit(grid.Cols, grid.Rows, cols, rows, cfg)

	if r.Recorder != nil {
		if err := r.Recorder.WriteGrid(now, grid); err != nil {
			logs.LogV("[rec] write failed: %v", err)
		}
	}
	if r.snapshotReq.Swap(false) {
		r.saveSnapshot(grid, cfg)
	}

	overlay := ""
	if r.panelOn.Load() {
		overlay = r.overlayLabel(grid, cfg)
	}
	data := r.buildGridFrame(cols, rows, grid, cfg, overlay)
	if data == "" {
		return
	}
	r.enqueue(data)
}

func (r *Renderer) statusOrDefault(def string) string {
	if msg := r.currentStatusMessage(); msg != "" {
		return msg
	}
	return def
}

// autofit recomputes the glyph geometry when the grid size or the viewport
// changed. The solver itself suppresses sub-epsilon churn.
func (r *Renderer) autofit(sourceCols, sourceRows, termCols, termRows int, cfg conf.RenderConfig) {
	vp := render.Viewport{
		W: float64(termCols) * refCellPxW,
		H: float64(termRows) * refCellPxH,
	}

	r.fitMu.Lock()
	unchanged := r.lastFit.cols == sourceCols && r.lastFit.rows == sourceRows && r.lastFit.vp == vp
	if !unchanged {
		r.lastFit.cols = sourceCols
		r.lastFit.rows = sourceRows
		r.lastFit.vp = vp
	}
	r.fitMu.Unlock()
	if unchanged {
		return
	}

	aspect := r.Metrics.GlyphAspect(cfg.Geometry.FontFamily)
	solved := render.AutoFit(sourceCols, sourceRows, vp, cfg.Geometry, aspect, r.Settings.Locks())
	if solved != cfg.Geometry {
		r.Settings.ApplyAutoFit(solved)
		logs.LogV("[fit] %dx%d in %.0fx%.0f -> font %.1fpx spacing %.2fem line %.2f",
			sourceCols, sourceRows, vp.W, vp.H,
			solved.FontSize, solved.LetterSpacing, solved.LineHeight)
	}
}

func (r *Renderer) saveSnapshot(grid *render.GlyphGrid, cfg conf.RenderConfig) {
	data, err := export.SnapshotPNG(grid, cfg.Foreground, cfg.Background, cfg.Geometry, r.Metrics.Data())
	if err != nil {
		logs.LogV("[snap] %v", err)
		return
	}
	name := fmt.Sprintf("mosaic-%s.png", time.Now().Format("20060102-150405"))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		logs.LogV("[snap] write failed: %v", err)
		return
	}
	r.SetStatusMessage("Saved " + name)
}

func (r *Renderer) setNoiseAnimation(active bool) {
	if active {
		if r.noiseTask.Active() {
			return
		}
		r.noiseTask.Start(noiseFrameInterval, r.RequestRedraw)
		return
	}
	r.noiseTask.Stop()
}

func (r *Renderer) drawNoise(cols, rows int, cfg conf.RenderConfig) {
	canvasRows := rows
	if r.panelOn.Load() {
		canvasRows--
	}
	grid := noiseGrid(cols, canvasRows, cfg.GlyphRamp)
	if grid == nil {
		return
	}
	data := r.buildGridFrame(cols, rows, grid, cfg, "NO SIGNAL")
	if data != "" {
		r.enqueue(data)
	}
}

func (r *Renderer) overlayLabel(grid *render.GlyphGrid, cfg conf.RenderConfig) string {
	parts := []string{
		fmt.Sprintf("RES %d×%d", grid.Cols, grid.Rows),
		r.fps.label(),
		fmt.Sprintf("STEP %d", cfg.SampleStep),
		fmt.Sprintf("FONT %.1fpx", cfg.Geometry.FontSize),
	}
	if cfg.Color.Mirror {
		parts = append(parts, "MIR")
	}
	if cfg.Invert {
		parts = append(parts, "INV")
	}
	if r.randomTask.Active() {
		parts = append(parts, "SHUFFLE")
	}
	return strings.Join(parts, " │ ")
}

// buildGridFrame lays the grid out centered in the terminal, clipping when it
// is larger than the canvas, and appends the optional overlay line.
func (r *Renderer) buildGridFrame(termCols, termRows int, grid *render.GlyphGrid, cfg conf.RenderConfig, overlay string) string {
	canvasRows := termRows
	if overlay != "" {
		canvasRows--
	}
	if termCols < 1 || canvasRows < 1 {
		return ""
	}

	fullClear := r.noteDraw(termCols, termRows, true)

	visCols := grid.Cols
	if visCols > termCols {
		visCols = termCols
	}
	visRows := grid.Rows
	if visRows > canvasRows {
		visRows = canvasRows
	}
	clipX := (grid.Cols - visCols) / 2
	clipY := (grid.Rows - visRows) / 2
	startCol := 1 + (termCols-visCols)/2
	startRow := 1 + (canvasRows-visRows)/2

	var sb strings.Builder
	writeFramePrefix(&sb, fullClear)
	fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm",
		cfg.Foreground.R, cfg.Foreground.G, cfg.Foreground.B,
		cfg.Background.R, cfg.Background.G, cfg.Background.B)

	for i := 0; i < visRows; i++ {
		line := []rune(grid.Lines[clipY+i])
		if clipX > 0 || len(line) > visCols {
			end := clipX + visCols
			if end > len(line) {
				end = len(line)
			}
			line = line[clipX:end]
		}
		fmt.Fprintf(&sb, "\x1b[%d;%dH%s", startRow+i, startCol, string(line))
	}

	if overlay != "" {
		writeOverlayLine(&sb, termRows, termCols, overlay)
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}

func (r *Renderer) drawStatusScreen(cols, rows int, message string) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return
	}
	r.noteDraw(cols, rows, false)

	lines := strings.Split(msg, "\n")
	startRow := 1 + max(0, (rows-len(lines))/2)

	var sb strings.Builder
	writeFramePrefix(&sb, true)
	for i, line := range lines {
		line = truncateRunes(strings.TrimSpace(line), cols)
		if line == "" {
			continue
		}
		row := startRow + i
		if row > rows {
			break
		}
		col := 1 + max(0, (cols-runeCount(line))/2)
		fmt.Fprintf(&sb, "\x1b[%d;%dH%s", row, col, line)
	}
	sb.WriteString("\x1b[0m")
	r.enqueue(sb.String())
}

// noteDraw records the draw mode and reports whether a full clear is needed.
func (r *Renderer) noteDraw(w, h int, grid bool) bool {
	r.lastDrawMu.Lock()
	defer r.lastDrawMu.Unlock()
	fullClear := r.lastDraw.w != w || r.lastDraw.h != h || r.lastDraw.grid != grid
	r.lastDraw.w, r.lastDraw.h, r.lastDraw.grid = w, h, grid
	return fullClear
}

func (r *Renderer) enqueue(data string) {
	tf := &device.TerminalFrame{Data: data}
	select {
	case r.frameCh <- tf:
	default:
		select {
		case <-r.frameCh:
		default:
		}
		select {
		case r.frameCh <- tf:
		default:
		}
	}
}

func writeFramePrefix(sb *strings.Builder, fullClear bool) {
	if fullClear {
		sb.WriteString("\x1b[2J\x1b[H")
	} else {
		sb.WriteString("\x1b[H")
	}
}

func writeOverlayLine(sb *strings.Builder, row, width int, label string) {
	runes := []rune(label)
	if len(runes) > width {
		runes = runes[:width]
	}
	pad := width - len(runes)
	left := pad / 2
	fmt.Fprintf(sb, "\x1b[%d;1H\x1b[48;2;20;20;24m\x1b[38;2;245;245;245m", row)
	sb.WriteString(strings.Repeat(" ", left))
	sb.WriteString(string(runes))
	sb.WriteString(strings.Repeat(" ", pad-left))
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit == 1 {
		return string(runes[:1])
	}
	return string(runes[:limit-1]) + "…"
}

func runeCount(s string) int {
	return len([]rune(s))
}
