// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/javiermolinar/slotboard/internal/grid"
	"github.com/javiermolinar/slotboard/internal/slot"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// GridConfig holds the scheduling grid geometry and duration bounds.
type GridConfig struct {
	StartHour   int      `toml:"start_hour"`   // first visible hour, e.g. 8
	SpanHours   int      `toml:"span_hours"`   // hourly rows rendered, e.g. 11
	SnapMinutes int      `toml:"snap_minutes"` // resize granularity, e.g. 15
	MinDuration int      `toml:"min_duration"` // minutes, timed slots
	MaxDuration int      `toml:"max_duration"` // minutes, timed slots
	Workdays    []string `toml:"workdays"`     // e.g. ["monday", "tuesday", ...]
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`  // TUI log file; the CLI logs to stderr
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			StartHour:   grid.DefaultStartHour,
			SpanHours:   grid.DefaultSpanHours,
			SnapMinutes: grid.DefaultSnapMinutes,
			MinDuration: slot.DefaultMinDuration,
			MaxDuration: slot.DefaultMaxDuration,
			Workdays:    []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
		Log: LogConfig{
			Level: "info",
			File:  "slotboard.log",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "slotboard.db"
	}
	return filepath.Join(home, ".local", "share", "slotboard", "slotboard.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "slotboard", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"SLOTBOARD_GRID_START_HOUR", &cfg.Grid.StartHour},
		{"SLOTBOARD_GRID_SPAN_HOURS", &cfg.Grid.SpanHours},
		{"SLOTBOARD_GRID_SNAP_MINUTES", &cfg.Grid.SnapMinutes},
		{"SLOTBOARD_MIN_DURATION", &cfg.Grid.MinDuration},
		{"SLOTBOARD_MAX_DURATION", &cfg.Grid.MaxDuration},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.env, v)
		}
		*o.dst = n
	}

	if v := os.Getenv("SLOTBOARD_WORKDAYS"); v != "" {
		cfg.Grid.Workdays = strings.Split(v, ",")
	}
	if v := os.Getenv("SLOTBOARD_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("SLOTBOARD_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("SLOTBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SLOTBOARD_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.GridGeometry().Validate(); err != nil {
		return err
	}
	if err := c.DurationBounds().Validate(); err != nil {
		return err
	}

	if len(c.Grid.Workdays) == 0 {
		return errors.New("at least one workday must be configured")
	}
	for _, day := range c.Grid.Workdays {
		if !isValidWeekday(day) {
			return fmt.Errorf("invalid workday: %s", day)
		}
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// GridGeometry returns the grid section as a grid.Config.
func (c *Config) GridGeometry() grid.Config {
	return grid.Config{
		StartHour:   c.Grid.StartHour,
		SpanHours:   c.Grid.SpanHours,
		SnapMinutes: c.Grid.SnapMinutes,
	}
}

// DurationBounds returns the clamp range for timed slots.
func (c *Config) DurationBounds() slot.Bounds {
	return slot.Bounds{Min: c.Grid.MinDuration, Max: c.Grid.MaxDuration}
}

var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

func isValidWeekday(day string) bool {
	return validWeekdays[strings.ToLower(strings.TrimSpace(day))]
}

// IsWorkday returns true if the given weekday name is a configured workday.
func (c *Config) IsWorkday(weekday string) bool {
	weekday = strings.ToLower(weekday)
	for _, d := range c.Grid.Workdays {
		if strings.ToLower(strings.TrimSpace(d)) == weekday {
			return true
		}
	}
	return false
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
