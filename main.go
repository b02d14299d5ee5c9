package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/svanichkin/mosaic/conf"
	"github.com/svanichkin/mosaic/device"
	"github.com/svanichkin/mosaic/logs"
	"github.com/svanichkin/mosaic/playback"
	"github.com/svanichkin/mosaic/record"
	"github.com/svanichkin/mosaic/ui"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "[mosaic] %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	opts, err := conf.ParseCLI()
	if err != nil {
		return err
	}
	if opts.ShowVersion {
		printVersion()
		return nil
	}

	configPath := opts.ConfigPath
	logWriter, closeLog, logPath, logErr := initLogSink(configPath)
	if closeLog != nil {
		defer closeLog()
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if logErr == nil {
		fmt.Fprintf(os.Stderr, "[mosaic] logs: %s\n", logPath)
	} else {
		fmt.Fprintf(os.Stderr, "[mosaic] log file disabled (%v)\n", logErr)
	}

	appCtx, appCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer appCancel()

	settings := conf.LoadSettings(configPath)
	applyCLIOverrides(&settings, opts)

	metrics := device.NewFontMetrics()
	if opts.FontFile != "" {
		loaded, err := device.LoadFontFile(opts.FontFile)
		if err != nil {
			log.Printf("[font] %s: %v, using fallback metrics", opts.FontFile, err)
		} else {
			metrics = loaded
		}
	}

	var recorder *record.Recorder
	if opts.RecordPath != "" {
		recorder, err = record.Open(opts.RecordPath)
		if err != nil {
			return fmt.Errorf("recording: %w", err)
		}
		defer func() {
			frames := recorder.Frames()
			if cerr := recorder.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("recording close: %w", cerr)
			}
			fmt.Fprintf(os.Stderr, "[mosaic] recorded %d frames to %s\n", frames, opts.RecordPath)
		}()
	}

	gate := playback.NewGate()
	store := ui.NewFrameStore()
	live := ui.NewSettings(settings, configPath)
	renderer := ui.NewRenderer(live, store, gate, metrics)
	renderer.MaxFPS = opts.MaxFPS
	renderer.Recorder = recorder
	if opts.RandomEvery > 0 {
		renderer.RandomInterval = time.Duration(opts.RandomEvery) * time.Second
	}

	unsubscribe := playback.Subscribe(func(enabled bool) {
		if enabled {
			logs.LogV("[play] resumed")
		} else {
			logs.LogV("[play] stopped")
		}
	})
	defer unsubscribe()

	// The renderer owns the terminal from here on; stderr would corrupt the
	// alternate screen.
	if logWriter != nil {
		log.SetOutput(logWriter)
	} else {
		log.SetOutput(io.Discard)
	}

	rendererDone := make(chan error, 1)
	go func() {
		rendererDone <- renderer.Run(appCtx)
	}()

	frames, camErr := device.StartCameraStream(appCtx)
	if camErr != nil {
		// Capture failure is a persistent notice, not a fatal error. The app
		// stays up with the idle pipeline.
		log.Printf("[cam] %v", camErr)
		renderer.SetStatusMessage("Camera unavailable: " + camErr.Error())
	} else {
		ui.StartFramePump(appCtx, frames, store, gate, renderer.RequestRedraw)
	}

	keys, keyErr := device.StartKeyReader(appCtx)
	if keyErr != nil {
		log.Printf("[keys] %v", keyErr)
	} else {
		go func() {
			for k := range keys {
				if k == device.KeyQuit {
					appCancel()
					return
				}
				renderer.HandleKey(k)
			}
		}()
	}

	if opts.RandomEvery > 0 {
		renderer.HandleKey(device.KeyToggleAutoRandom)
	}

	<-appCtx.Done()
	if rerr := <-rendererDone; rerr != nil {
		return rerr
	}
	return nil
}

// applyCLIOverrides folds one-shot command-line switches into the persisted
// settings for this session.
func applyCLIOverrides(s *conf.Settings, opts *conf.AppOptions) {
	if opts.RampPreset != "" {
		if ramp, ok := conf.RampPresets[opts.RampPreset]; ok {
			s.Render.GlyphRamp = ramp
		}
	}
	if opts.SampleStep > 0 {
		s.Render.SampleStep = opts.SampleStep
	}
	if opts.Mirror {
		s.Render.Color.Mirror = !s.Render.Color.Mirror
	}
	if opts.Invert {
		s.Render.Invert = !s.Render.Invert
	}
	s.Render = s.Render.Normalize()
}

func initLogSink(configPath string) (io.Writer, func() error, string, error) {
	dir := filepath.Dir(configPath)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, "", err
	}
	logPath := filepath.Join(dir, "mosaic.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, logPath, err
	}
	closeFn := func() error {
		return f.Close()
	}
	return f, closeFn, logPath, nil
}

func appVersion() string {
	v := strings.TrimSpace(version)
	if v == "" {
		v = "dev"
	}
	if v != "dev" {
		return v
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if ver := strings.TrimSpace(bi.Main.Version); ver != "" && ver != "(devel)" {
			return ver
		}
		if derived := vcsVersion(bi); derived != "" {
			return derived
		}
	}
	return v
}

func vcsVersion(bi *debug.BuildInfo) string {
	revision := buildInfoSetting(bi, "vcs.revision")
	if revision == "" {
		return ""
	}
	short := revision
	if len(short) > 12 {
		short = short[:12]
	}
	dirty := ""
	if buildInfoSetting(bi, "vcs.modified") == "true" {
		dirty = "+dirty"
	}
	if ts := buildInfoSetting(bi, "vcs.time"); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			return fmt.Sprintf("v0.0.0-%s-%s%s", t.UTC().Format("20060102150405"), short, dirty)
		}
	}
	return short + dirty
}

func buildInfoSetting(bi *debug.BuildInfo, key string) string {
	for _, setting := range bi.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func printVersion() {
	fmt.Printf("mosaic %s\n", appVersion())
}
