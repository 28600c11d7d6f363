package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/slotboard/internal/grid"
	"github.com/javiermolinar/slotboard/internal/slot"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.StartHour != 8 {
		t.Errorf("expected start_hour 8, got %d", cfg.Grid.StartHour)
	}
	if cfg.Grid.SpanHours != 11 {
		t.Errorf("expected span_hours 11, got %d", cfg.Grid.SpanHours)
	}
	if cfg.Grid.SnapMinutes != 15 {
		t.Errorf("expected snap_minutes 15, got %d", cfg.Grid.SnapMinutes)
	}
	if b := cfg.DurationBounds(); b.Min != 30 || b.Max != 720 {
		t.Errorf("expected bounds [30, 720], got %+v", b)
	}
	if len(cfg.Grid.Workdays) != 5 {
		t.Errorf("expected 5 workdays, got %d", len(cfg.Grid.Workdays))
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.StartHour != 8 {
		t.Errorf("expected default start_hour, got %d", cfg.Grid.StartHour)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
start_hour = 7
span_hours = 12
snap_minutes = 30
min_duration = 60
max_duration = 480
workdays = ["monday", "tuesday", "wednesday"]

[storage]
db_path = "/tmp/test.db"

[ui]
theme = "latte"

[log]
level = "debug"
file = "/tmp/slotboard-test.log"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := grid.Config{StartHour: 7, SpanHours: 12, SnapMinutes: 30}
	if cfg.GridGeometry() != want {
		t.Errorf("expected geometry %+v, got %+v", want, cfg.GridGeometry())
	}
	if b := cfg.DurationBounds(); b != (slot.Bounds{Min: 60, Max: 480}) {
		t.Errorf("expected bounds [60, 480], got %+v", b)
	}
	if len(cfg.Grid.Workdays) != 3 {
		t.Errorf("expected 3 workdays, got %d", len(cfg.Grid.Workdays))
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", cfg.UI.Theme)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/slotboard-test.log" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
start_hour = 7
span_hours = 12

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("SLOTBOARD_GRID_START_HOUR", "9")
	t.Setenv("SLOTBOARD_MAX_DURATION", "600")
	t.Setenv("SLOTBOARD_UI_THEME", "mocha")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Grid.StartHour != 9 {
		t.Errorf("expected start_hour 9 from env, got %d", cfg.Grid.StartHour)
	}
	// File value should be kept when no env override
	if cfg.Grid.SpanHours != 12 {
		t.Errorf("expected span_hours 12 from file, got %d", cfg.Grid.SpanHours)
	}
	// Env should override default
	if cfg.Grid.MaxDuration != 600 {
		t.Errorf("expected max_duration 600 from env, got %d", cfg.Grid.MaxDuration)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha from env, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_BadEnvInteger(t *testing.T) {
	t.Setenv("SLOTBOARD_GRID_SNAP_MINUTES", "quarter")
	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-numeric env override")
	}
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[grid\nstart_hour = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"start hour out of range", func(c *Config) { c.Grid.StartHour = 24 }, grid.ErrInvalidConfig},
		{"span past midnight", func(c *Config) { c.Grid.StartHour = 20; c.Grid.SpanHours = 6 }, grid.ErrInvalidConfig},
		{"snap does not divide hour", func(c *Config) { c.Grid.SnapMinutes = 25 }, grid.ErrInvalidConfig},
		{"zero min duration", func(c *Config) { c.Grid.MinDuration = 0 }, slot.ErrInvalidBounds},
		{"min above max", func(c *Config) { c.Grid.MinDuration = 800 }, slot.ErrInvalidBounds},
		{"max above a day", func(c *Config) { c.Grid.MaxDuration = 1500 }, slot.ErrInvalidBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidWorkday(t *testing.T) {
	cfg := Default()
	cfg.Grid.Workdays = []string{"monday", "funday"}

	err := cfg.Validate()
	if err == nil {
		t.Error("expected validation error for invalid workday")
	}
}

func TestValidate_EmptyWorkdays(t *testing.T) {
	cfg := Default()
	cfg.Grid.Workdays = []string{}

	err := cfg.Validate()
	if err == nil {
		t.Error("expected validation error for empty workdays")
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown log level")
	}
}

func TestIsWorkday(t *testing.T) {
	cfg := Default()

	tests := []struct {
		day  string
		want bool
	}{
		{"monday", true},
		{"Monday", true},
		{"FRIDAY", true},
		{"saturday", false},
		{"sunday", false},
	}

	for _, tc := range tests {
		t.Run(tc.day, func(t *testing.T) {
			got := cfg.IsWorkday(tc.day)
			if got != tc.want {
				t.Errorf("IsWorkday(%q) = %v, want %v", tc.day, got, tc.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Grid.StartHour = 6
	cfg.Grid.SnapMinutes = 10
	cfg.Grid.Workdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	cfg.Storage.DBPath = filepath.Join(tmpDir, "slots.db")

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Grid.StartHour != 6 {
		t.Errorf("expected start_hour 6, got %d", loaded.Grid.StartHour)
	}
	if loaded.Grid.SnapMinutes != 10 {
		t.Errorf("expected snap_minutes 10, got %d", loaded.Grid.SnapMinutes)
	}
	if !loaded.IsWorkday("saturday") {
		t.Error("expected saturday to be a workday after reload")
	}
	if loaded.Storage.DBPath != cfg.Storage.DBPath {
		t.Errorf("expected db_path %s, got %s", cfg.Storage.DBPath, loaded.Storage.DBPath)
	}
}
