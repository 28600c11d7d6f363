package grid

import (
	"errors"
	"testing"

	"github.com/javiermolinar/slotboard/internal/slot"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"full day", Config{StartHour: 0, SpanHours: 24, SnapMinutes: 5}, false},
		{"negative start", Config{StartHour: -1, SpanHours: 11, SnapMinutes: 15}, true},
		{"span past midnight", Config{StartHour: 20, SpanHours: 5, SnapMinutes: 15}, true},
		{"zero span", Config{StartHour: 8, SpanHours: 0, SnapMinutes: 15}, true},
		{"snap does not divide hour", Config{StartHour: 8, SpanHours: 11, SnapMinutes: 7}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want %v", err, ErrInvalidConfig)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewMapper_FallsBackToDefaults(t *testing.T) {
	m := NewMapper(Config{StartHour: 30, SpanHours: 0, SnapMinutes: 7})
	if m.Config() != DefaultConfig() {
		t.Errorf("got %+v, want defaults", m.Config())
	}

	m = NewMapper(Config{StartHour: 20, SpanHours: 11, SnapMinutes: 15})
	if m.Config().SpanHours != 4 {
		t.Errorf("span should shrink to fit the day, got %d", m.Config().SpanHours)
	}
}

func TestMapper_TimeToOffset(t *testing.T) {
	m := NewMapper(DefaultConfig())
	tests := []struct {
		in   string
		want int
	}{
		{"08:00", 0},
		{"08:15", 15},
		{"09:30", 90},
		{"18:59", 659},
		{"07:00", -60},
	}
	for _, tt := range tests {
		if got := m.TimeToOffset(tt.in); got != tt.want {
			t.Errorf("TimeToOffset(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMapper_OffsetToTime(t *testing.T) {
	m := NewMapper(DefaultConfig())
	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"grid start", 0, "08:00"},
		{"aligned", 90, "09:30"},
		{"rounds down", 7, "08:00"},
		{"rounds half up", 8, "08:15"},
		{"rounds up", 13, "08:15"},
		{"minute overflow rolls the hour", 53, "09:00"},
		{"above grid clamps to start", -45, "08:00"},
		{"past midnight caps at last snap", 2000, "23:45"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.OffsetToTime(tt.offset); got != tt.want {
				t.Errorf("OffsetToTime(%d) = %s, want %s", tt.offset, got, tt.want)
			}
		})
	}
}

func TestMapper_RoundTrip(t *testing.T) {
	for _, cfg := range []Config{
		DefaultConfig(),
		{StartHour: 0, SpanHours: 24, SnapMinutes: 15},
		{StartHour: 6, SpanHours: 12, SnapMinutes: 30},
	} {
		m := NewMapper(cfg)
		for mins := m.StartMinutes(); mins < slot.MinutesPerDay; mins += cfg.SnapMinutes {
			tm := slot.MinutesToTime(mins)
			if got := m.OffsetToTime(m.TimeToOffset(tm)); got != tm {
				t.Fatalf("start %d: round trip of %s gave %s", cfg.StartHour, tm, got)
			}
		}
	}
}

func TestMapper_Durations(t *testing.T) {
	m := NewMapper(DefaultConfig())

	if got := m.DurationToHeight(90); got != 90 {
		t.Errorf("DurationToHeight(90) = %d", got)
	}
	tests := []struct {
		height int
		want   int
	}{
		{90, 90},
		{97, 90},
		{98, 105},
		{3, 15},
		{-40, 15},
	}
	for _, tt := range tests {
		if got := m.HeightToDuration(tt.height); got != tt.want {
			t.Errorf("HeightToDuration(%d) = %d, want %d", tt.height, got, tt.want)
		}
	}
}

func TestMapper_RowsAndVisibility(t *testing.T) {
	m := NewMapper(DefaultConfig())
	rows := m.Rows()
	if len(rows) != 11 || rows[0] != "08:00" || rows[10] != "18:00" {
		t.Errorf("unexpected rows %v", rows)
	}
	if m.Height() != 660 {
		t.Errorf("Height() = %d, want 660", m.Height())
	}
	if !m.Visible("08:00") || !m.Visible("18:45") {
		t.Error("times inside the grid should be visible")
	}
	if m.Visible("07:59") || m.Visible("19:00") {
		t.Error("times outside the grid should not be visible")
	}
}
