// Package config loads optional user configuration for fontdoctor.
//
// Precedence, lowest to highest:
//  1. Hardcoded defaults
//  2. User config (~/.config/fontdoctor/config.yaml, XDG aware)
//  3. Environment variables (FONTDOCTOR_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Probe timeout bounds. Values outside this range are clamped rather than
// rejected so a bad config file never blocks a diagnostic run.
const (
	MinProbeTimeout     = 1 * time.Second
	MaxProbeTimeout     = 2 * time.Minute
	DefaultProbeTimeout = 10 * time.Second
)

// Config is the complete fontdoctor configuration.
type Config struct {
	Version int `yaml:"version"`

	// ExtraFontDirs are user-supplied font directories appended after the
	// platform's canonical directories in every check.
	ExtraFontDirs []string `yaml:"extra_font_dirs"`

	// ProbeTimeout bounds each external tool invocation.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// ReportPath overrides the persisted report location.
	// Empty means ~/.fontdoctor/report.json.
	ReportPath string `yaml:"report_path"`

	// HashDBPath points at an external reference-digest database.
	// Empty means the embedded best-effort database.
	HashDBPath string `yaml:"hash_db_path"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the debug log.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version:      1,
		ProbeTimeout: DefaultProbeTimeout,
		Logging:      LoggingConfig{Level: "info"},
	}
}

// UserConfigPath returns the user configuration file path, following the
// XDG Base Directory specification.
func UserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fontdoctor", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "fontdoctor", "config.yaml")
	}
	return filepath.Join(home, ".config", "fontdoctor", "config.yaml")
}

// Load builds the effective configuration: defaults, then the user config
// file if present, then FONTDOCTOR_* environment overrides, then clamping.
func Load() (*Config, error) {
	return loadFrom(UserConfigPath())
}

// loadFrom is Load with an explicit path, for tests.
func loadFrom(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No user config is fine.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.clamp()
	return cfg, nil
}

// applyEnvOverrides applies FONTDOCTOR_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FONTDOCTOR_PROBE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.ProbeTimeout = d
		} else if secs, err := strconv.Atoi(v); err == nil {
			c.ProbeTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("FONTDOCTOR_REPORT_PATH"); v != "" {
		c.ReportPath = v
	}
	if v := os.Getenv("FONTDOCTOR_HASH_DB"); v != "" {
		c.HashDBPath = v
	}
	if v := os.Getenv("FONTDOCTOR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// clamp forces out-of-range values back to usable ones.
func (c *Config) clamp() {
	if c.ProbeTimeout < MinProbeTimeout {
		c.ProbeTimeout = MinProbeTimeout
	}
	if c.ProbeTimeout > MaxProbeTimeout {
		c.ProbeTimeout = MaxProbeTimeout
	}
	if c.Version == 0 {
		c.Version = 1
	}
}
