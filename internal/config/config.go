package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a kurve session.
// Values are populated from .kurve.toml, KURVE_* env vars, and CLI flags.
type Config struct {
	// Dark selects the dark diagram and UI theme.
	Dark bool `mapstructure:"dark" toml:"dark"`
	// Colored tints the diagram plot area.
	Colored bool `mapstructure:"colored" toml:"colored"`
	// PollIntervalMS is the fallback file-poll interval in milliseconds.
	PollIntervalMS int `mapstructure:"poll_interval_ms" toml:"poll_interval_ms"`
	// ExportPath is where rendered diagrams are written.
	ExportPath string `mapstructure:"export_path" toml:"export_path"`
	// HistoryPath is the sqlite database recording table loads.
	HistoryPath string `mapstructure:"history_path" toml:"history_path"`
	// TelemetryPath is the JSONL worker event log. Empty disables it.
	TelemetryPath string `mapstructure:"telemetry_path" toml:"telemetry_path"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("dark", false)
	viper.SetDefault("colored", false)
	viper.SetDefault("poll_interval_ms", 500)
	viper.SetDefault("export_path", "titration.svg")
	viper.SetDefault("history_path", defaultHistoryPath())
	viper.SetDefault("telemetry_path", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// PollInterval converts the configured millisecond value; non-positive
// values fall back to the default.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Save writes cfg as TOML to path, creating parent directories as needed.
// The TUI uses it to persist theme toggles across sessions.
func Save(cfg Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: save: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: save: %w", err)
	}
	return nil
}

// DefaultFile is where Save persists settings when no explicit config
// file is in use.
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kurve.toml"
	}
	return filepath.Join(home, ".kurve.toml")
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kurve-history.db"
	}
	return filepath.Join(home, ".kurve", "history.db")
}
