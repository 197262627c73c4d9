package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config keys.
const (
	KeyOutputDir       = "output-dir"
	KeyOutputPrefix    = "output-prefix"
	KeySampleRate      = "sample-rate"
	KeySilenceDuration = "silence-duration"
	KeyMaxDuration     = "max-duration"
	KeyCheckInterval   = "check-interval"
	KeyThreshold       = "threshold"
	KeyDevice          = "device"
)

// Keys lists every supported configuration key in display order.
var Keys = []string{
	KeyOutputDir,
	KeyOutputPrefix,
	KeySampleRate,
	KeySilenceDuration,
	KeyMaxDuration,
	KeyCheckInterval,
	KeyThreshold,
	KeyDevice,
}

// EnvVar returns the environment variable consulted when key is not set in
// the config file, e.g. "output-dir" -> "SEGREC_OUTPUT_DIR".
func EnvVar(key string) string {
	return "SEGREC_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// fileName is the config file name inside the config directory.
const fileName = "config.yaml"

// Config holds user settings loaded from ~/.config/go-segrec/config.yaml.
// Zero values mean "not set".
type Config struct {
	OutputDir       string
	OutputPrefix    string
	Device          string
	SampleRate      int
	SilenceDuration time.Duration
	MaxDuration     time.Duration
	CheckInterval   time.Duration
	Threshold       float64
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-segrec.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "go-segrec"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "go-segrec"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, fileName), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns an empty Config if the file doesn't exist (not an error).
func Load() (Config, error) {
	return load(os.Getenv)
}

// load is Load with an injectable environment lookup.
func load(getenv func(string) string) (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	data, err := parseFile(p)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		data = make(map[string]string)
	}

	// Environment variable fallback (only if not set in config).
	for _, key := range Keys {
		if data[key] == "" {
			if v := getenv(EnvVar(key)); v != "" {
				data[key] = v
			}
		}
	}

	return fromMap(data)
}

// fromMap converts raw key/value settings into a Config.
// Unknown keys are ignored. Malformed values wrap ErrInvalidConfig.
func fromMap(data map[string]string) (Config, error) {
	var cfg Config
	for key, value := range data {
		if value == "" {
			continue
		}
		if err := ValidateValue(key, value); err != nil {
			return Config{}, err
		}
		switch key {
		case KeyOutputDir:
			cfg.OutputDir = ExpandPath(value)
		case KeyOutputPrefix:
			cfg.OutputPrefix = value
		case KeyDevice:
			cfg.Device = value
		case KeySampleRate:
			cfg.SampleRate, _ = strconv.Atoi(value)
		case KeySilenceDuration:
			cfg.SilenceDuration, _ = time.ParseDuration(value)
		case KeyMaxDuration:
			cfg.MaxDuration, _ = time.ParseDuration(value)
		case KeyCheckInterval:
			cfg.CheckInterval, _ = time.ParseDuration(value)
		case KeyThreshold:
			cfg.Threshold, _ = strconv.ParseFloat(value, 64)
		}
	}
	return cfg, nil
}

// ValidateValue checks that value is well-formed for key.
// Numeric and duration keys must be positive.
func ValidateValue(key, value string) error {
	switch key {
	case KeySampleRate:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s %q must be a positive integer: %w", key, value, ErrInvalidConfig)
		}
	case KeySilenceDuration, KeyMaxDuration, KeyCheckInterval:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s %q must be a positive duration (e.g. 3s, 100ms): %w", key, value, ErrInvalidConfig)
		}
	case KeyThreshold:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s %q must be a positive number: %w", key, value, ErrInvalidConfig)
		}
	}
	return nil
}

// parseFile reads a YAML mapping of key: value settings.
// An empty file yields an empty map.
func parseFile(p string) (map[string]string, error) {
	raw, err := os.ReadFile(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}

	data := make(map[string]string)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid syntax in %s: %w", p, err)
	}
	if data == nil {
		data = make(map[string]string)
	}
	return data, nil
}

// Save writes a single key: value to the config file.
// Unknown keys return ErrInvalidKey; malformed values return ErrInvalidConfig.
// Creates the config directory and file if they don't exist.
// Preserves existing settings but discards comments.
func Save(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%q (valid keys: %v): %w", key, Keys, ErrInvalidKey)
	}
	if err := ValidateValue(key, value); err != nil {
		return err
	}

	p, err := path()
	if err != nil {
		return err
	}

	// Ensure config directory exists.
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, err := parseFile(p)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		existing = make(map[string]string)
	}

	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the settings map to a file as YAML.
func writeFile(p string, data map[string]string) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	// #nosec G306 -- config file with standard permissions
	if err := os.WriteFile(p, out, 0644); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return data[key], nil
}

// List returns all config values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// EnsureOutputDir checks that d is usable as an output directory,
// creating it if missing. Returns nil if valid, or an error describing the problem.
func EnsureOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", d, ErrNotDirectory)
	}

	// Check if writable by attempting to create a temp file.
	f, err := os.CreateTemp(d, ".segrec-write-test-*")
	if err != nil {
		return fmt.Errorf("%s: %w: %v", d, ErrNotWritable, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name) // Best effort cleanup, ignore error

	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

// Dir returns the configuration directory path (exported for testing).
func Dir() (string, error) {
	return dir()
}
