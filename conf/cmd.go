package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppOptions aggregates all CLI flags required by the application.
type AppOptions struct {
	Verbose     bool
	ShowVersion bool
	ConfigPath  string
	MaxFPS      int
	RampPreset  string
	SampleStep  int
	Mirror      bool
	Invert      bool
	RecordPath  string
	FontFile    string
	RandomEvery int // seconds between auto-randomize draws; 0 disables the timer
}

// ParseCLI parses command-line flags into an AppOptions structure and resolves
// the final configuration path. It performs only argument parsing and
// normalization; applying the options to the live settings happens later.
func ParseCLI() (*AppOptions, error) {
	opts := &AppOptions{MaxFPS: 60}

	args := compactArgs(os.Args[1:])
	for i := 0; i < len(args); i++ {
		token := args[i]
		if !strings.HasPrefix(token, "-") || token == "-" {
			return nil, fmt.Errorf("unexpected positional argument %q", token)
		}
		key, value, hasValue := splitFlagToken(token)
		if !hasValue && flagRequiresValue(key) && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			value = args[i+1]
			hasValue = true
			i++
		}
		if err := applyFlag(opts, token, key, value, hasValue); err != nil {
			return nil, err
		}
	}

	resolved, err := ResolveConfigPath(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config path error: %w", err)
	}
	opts.ConfigPath = resolved

	Verbose = opts.Verbose
	return opts, nil
}

func applyFlag(opts *AppOptions, token, key, value string, hasValue bool) error {
	switch key {
	case "v", "verbose":
		opts.Verbose = true
	case "version":
		opts.ShowVersion = true
	case "mirror":
		opts.Mirror = true
	case "invert":
		opts.Invert = true
	case "config":
		if !hasValue || value == "" {
			return fmt.Errorf("-config requires a value")
		}
		opts.ConfigPath = value
	case "record":
		if !hasValue || value == "" {
			return fmt.Errorf("-record requires a file path")
		}
		opts.RecordPath = value
	case "font":
		if !hasValue || value == "" {
			return fmt.Errorf("-font requires a file path")
		}
		opts.FontFile = value
	case "ramp":
		if !hasValue || value == "" {
			return fmt.Errorf("-ramp requires a preset name")
		}
		name := strings.ToLower(strings.TrimSpace(value))
		if _, ok := RampPresets[name]; !ok {
			return fmt.Errorf("unknown ramp preset %q (have: %s)", value, strings.Join(RampPresetNames(), ", "))
		}
		opts.RampPreset = name
	case "fps":
		n, err := parsePositiveInt(value, hasValue, "-fps")
		if err != nil {
			return err
		}
		if n > 240 {
			return fmt.Errorf("-fps %d out of range", n)
		}
		opts.MaxFPS = n
	case "step":
		n, err := parsePositiveInt(value, hasValue, "-step")
		if err != nil {
			return err
		}
		if n < MinSampleStep || n > MaxSampleStep {
			return fmt.Errorf("-step %d out of range [%d, %d]", n, MinSampleStep, MaxSampleStep)
		}
		opts.SampleStep = n
	case "shuffle":
		n, err := parsePositiveInt(value, hasValue, "-shuffle")
		if err != nil {
			return err
		}
		opts.RandomEvery = n
	default:
		return fmt.Errorf("unknown flag %q", token)
	}
	return nil
}

func parsePositiveInt(value string, hasValue bool, flag string) (int, error) {
	if !hasValue || value == "" {
		return 0, fmt.Errorf("%s requires a value", flag)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid value for %s: %q", flag, value)
	}
	return n, nil
}

func compactArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := make([]string, 0, len(args))
	for _, raw := range args {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func splitFlagToken(token string) (string, string, bool) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", "", false
	}
	parts := strings.SplitN(trimmed, "=", 2)
	key := normalizeFlagKey(parts[0])
	if len(parts) == 1 {
		return key, "", false
	}
	return key, parts[1], true
}

func normalizeFlagKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimLeft(trimmed, "-")
	return strings.ToLower(trimmed)
}

func flagRequiresValue(key string) bool {
	switch key {
	case "config", "record", "font", "ramp", "fps", "step", "shuffle":
		return true
	default:
		return false
	}
}
