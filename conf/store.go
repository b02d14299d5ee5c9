package conf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjson/hjson-go/v4"
)

// Settings is the on-disk record: the render configuration plus the auto-fit
// lock state, so manual overrides survive a restart.
type Settings struct {
	Render RenderConfig `json:"render"`
	Locks  SizeLocks    `json:"locks"`
}

// DefaultSettings returns the record used when no config file exists yet.
func DefaultSettings() Settings {
	return Settings{Render: Default()}
}

// ResolveConfigPath normalizes the config file path, expanding "~", converting
// it to an absolute path, and ensuring the parent directory exists. When cfg
// is empty, it defaults to $XDG_CONFIG_HOME/mosaic/config.json. A bare profile
// name without an extension maps into the default config directory.
func ResolveConfigPath(cfg string) (string, error) {
	raw := strings.TrimSpace(cfg)

	switch {
	case raw == "":
		if dir, err := defaultConfigDir(); err == nil {
			raw = filepath.Join(dir, "config.json")
		} else {
			raw = "config.json"
		}
	case filepath.Base(raw) == raw && filepath.Ext(raw) == "":
		if dir, err := defaultConfigDir(); err == nil {
			raw = filepath.Join(dir, raw+".json")
		} else {
			raw = raw + ".json"
		}
	}

	if strings.HasPrefix(raw, "~/") {
		if h, err := os.UserHomeDir(); err == nil {
			raw = filepath.Join(h, raw[2:])
		}
	}
	if abs, err := filepath.Abs(raw); err == nil {
		raw = abs
	}
	if err := os.MkdirAll(filepath.Dir(raw), 0o755); err != nil {
		return "", err
	}
	return raw, nil
}

func defaultConfigDir() (string, error) {
	d, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "mosaic"), nil
}

// LoadSettings reads the settings file at path. Hjson is used for parsing so
// hand-edited files with comments or trailing commas still load; plain JSON is
// a subset. A missing or corrupt file yields defaults and a nil error —
// startup never fails on bad persisted state.
func LoadSettings(path string) Settings {
	def := DefaultSettings()
	if path == "" {
		return def
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return def
	}
	var s Settings
	if err := hjson.Unmarshal(b, &s); err != nil {
		return def
	}
	s.Render = s.Render.Normalize()
	return s
}

// SaveSettings writes the record as indented JSON. Errors are returned so the
// caller can log them; a failed save never interrupts rendering.
func SaveSettings(path string, s Settings) error {
	if path == "" {
		return nil
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
