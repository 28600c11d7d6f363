// Package grid maps between times of day and positions on the scheduling
// grid, and runs the interactive drag-to-resize session.
//
// Offsets are minutes since the grid start hour and are used one to one as
// pixel (or row) offsets by the rendering layer.
package grid

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/slotboard/internal/slot"
)

// Grid defaults.
const (
	DefaultStartHour   = 8
	DefaultSpanHours   = 11
	DefaultSnapMinutes = 15
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid grid configuration")

// Config holds the visible grid geometry.
type Config struct {
	StartHour   int // first visible hour
	SpanHours   int // number of hourly rows
	SnapMinutes int // interactive granularity
}

// DefaultConfig returns an 08:00 start, eleven hourly rows and 15 minute snapping.
func DefaultConfig() Config {
	return Config{
		StartHour:   DefaultStartHour,
		SpanHours:   DefaultSpanHours,
		SnapMinutes: DefaultSnapMinutes,
	}
}

// Validate checks that the grid fits in one day and the snap divides an hour.
func (c Config) Validate() error {
	if c.StartHour < 0 || c.StartHour > 23 {
		return fmt.Errorf("%w: start hour must be between 0 and 23, got %d", ErrInvalidConfig, c.StartHour)
	}
	if c.SpanHours < 1 || c.StartHour+c.SpanHours > 24 {
		return fmt.Errorf("%w: span of %d hours from %02d:00 leaves the day", ErrInvalidConfig, c.SpanHours, c.StartHour)
	}
	if c.SnapMinutes <= 0 || 60%c.SnapMinutes != 0 {
		return fmt.Errorf("%w: snap must divide 60, got %d", ErrInvalidConfig, c.SnapMinutes)
	}
	return nil
}

// Mapper converts between "HH:MM" times and grid offsets.
// The zero value is not usable; build one with NewMapper.
type Mapper struct {
	cfg Config
}

// NewMapper creates a Mapper. Invalid configurations fall back to the defaults
// for the offending fields, so a Mapper is always usable.
func NewMapper(cfg Config) Mapper {
	def := DefaultConfig()
	if cfg.StartHour < 0 || cfg.StartHour > 23 {
		cfg.StartHour = def.StartHour
	}
	if cfg.SpanHours < 1 || cfg.StartHour+cfg.SpanHours > 24 {
		cfg.SpanHours = min(def.SpanHours, 24-cfg.StartHour)
	}
	if cfg.SnapMinutes <= 0 || 60%cfg.SnapMinutes != 0 {
		cfg.SnapMinutes = def.SnapMinutes
	}
	return Mapper{cfg: cfg}
}

// Config returns the geometry the mapper was built with.
func (m Mapper) Config() Config {
	return m.cfg
}

// StartMinutes returns the grid start as minutes from midnight.
func (m Mapper) StartMinutes() int {
	return m.cfg.StartHour * 60
}

// Height returns the offset of the bottom edge of the grid.
func (m Mapper) Height() int {
	return m.cfg.SpanHours * 60
}

// TimeToOffset returns the minutes elapsed between the grid start and t.
// Times before the grid start yield negative offsets.
func (m Mapper) TimeToOffset(t string) int {
	return slot.TimeToMinutes(t) - m.StartMinutes()
}

// OffsetToTime returns the time at offset, rounded to the nearest snap.
// Offsets above the grid clamp to the grid start and the result never passes
// the last snap of the day.
func (m Mapper) OffsetToTime(offset int) string {
	offset = max(offset, 0)
	mins := m.StartMinutes() + m.snap(offset)
	return slot.MinutesToTime(min(mins, slot.MinutesPerDay-m.cfg.SnapMinutes))
}

// DurationToHeight returns the rendered height of a duration.
func (m Mapper) DurationToHeight(minutes int) int {
	return max(minutes, 0)
}

// HeightToDuration turns a dragged height into a duration rounded to the
// nearest snap. The result is at least one snap.
func (m Mapper) HeightToDuration(height int) int {
	return max(m.snap(height), m.cfg.SnapMinutes)
}

// Visible reports whether t falls inside the rendered grid.
func (m Mapper) Visible(t string) bool {
	off := m.TimeToOffset(t)
	return off >= 0 && off < m.Height()
}

// Rows returns the "HH:MM" label of every hourly row.
func (m Mapper) Rows() []string {
	rows := make([]string, m.cfg.SpanHours)
	for i := range rows {
		rows[i] = slot.MinutesToTime((m.cfg.StartHour + i) * 60)
	}
	return rows
}

// snap rounds offset to the nearest multiple of the snap, halves away from zero.
func (m Mapper) snap(offset int) int {
	s := m.cfg.SnapMinutes
	if offset < 0 {
		return -((-offset + s/2) / s * s)
	}
	return (offset + s/2) / s * s
}
