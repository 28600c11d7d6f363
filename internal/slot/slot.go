// Package slot defines installation availability slots and the engine that
// owns and mutates them: the in-memory Store, the mutation Service and the
// filter predicates used by list and search views.
package slot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/slotboard/internal/dateutil"
)

// Validation errors.
var (
	ErrInvalidCategory   = errors.New("category must be one of installation, maintenance, repair, consultation")
	ErrInvalidTimeFormat = errors.New("start time must be in HH:MM format")
	ErrInvalidBounds     = errors.New("duration bounds must satisfy 0 < min <= max <= 1440")
)

// ErrInvariantViolation reports store state that the id scheme should make
// impossible, such as the same slot id appearing twice.
var ErrInvariantViolation = errors.New("slot store invariant violated")

// Duration limits in minutes.
const (
	DefaultMinDuration = 30
	DefaultMaxDuration = 720
	AllDayDuration     = MinutesPerDay
	AllDayStart        = "00:00"
)

// Category is the kind of work a slot is offered for.
type Category string

const (
	CategoryInstallation Category = "installation"
	CategoryMaintenance  Category = "maintenance"
	CategoryRepair       Category = "repair"
	CategoryConsultation Category = "consultation"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryInstallation, CategoryMaintenance, CategoryRepair, CategoryConsultation}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryInstallation, CategoryMaintenance, CategoryRepair, CategoryConsultation:
		return true
	default:
		return false
	}
}

// Label returns the category name with an upper-case initial.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ParseCategory parses a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Kind distinguishes slots laid out in the timed grid from the all-day lane.
type Kind int

const (
	KindTimed Kind = iota
	KindAllDay
)

// TimeSlot is a bookable window on one date.
type TimeSlot struct {
	ID              string
	StartTime       string // "HH:MM"
	DurationMinutes int
	IsAllDay        bool
	InstallerCount  int
	Title           string
	Category        Category
	ColorToken      string // presentation hint, optional
	Available       bool
}

// Kind returns the lane the slot belongs to.
func (s TimeSlot) Kind() Kind {
	if s.IsAllDay {
		return KindAllDay
	}
	return KindTimed
}

// EndTime returns the "HH:MM" at which the slot ends.
func (s TimeSlot) EndTime() string {
	return EndTime(s.StartTime, s.DurationMinutes)
}

// Fields returns the editable fields of the slot.
func (s TimeSlot) Fields() Fields {
	return Fields{
		StartTime:       s.StartTime,
		DurationMinutes: s.DurationMinutes,
		IsAllDay:        s.IsAllDay,
		InstallerCount:  s.InstallerCount,
		Title:           s.Title,
		Category:        s.Category,
		ColorToken:      s.ColorToken,
		Available:       s.Available,
	}
}

// Fields holds the caller-supplied values for creating or editing a slot.
type Fields struct {
	StartTime       string
	DurationMinutes int
	IsAllDay        bool
	InstallerCount  int
	Title           string
	Category        Category
	ColorToken      string
	Available       bool
}

// DaySlotGroup holds the slots of one calendar date in insertion order.
type DaySlotGroup struct {
	Date  time.Time
	Slots []TimeSlot
}

// Key returns the ISO date identifying the group.
func (g DaySlotGroup) Key() string {
	return dateutil.Format(g.Date)
}

// Bounds is the clamp range for timed slot durations.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds returns the standard [30, 720] minute range.
func DefaultBounds() Bounds {
	return Bounds{Min: DefaultMinDuration, Max: DefaultMaxDuration}
}

// Validate checks that the bounds are usable.
func (b Bounds) Validate() error {
	if b.Min <= 0 || b.Min > b.Max || b.Max > MinutesPerDay {
		return fmt.Errorf("%w: got [%d, %d]", ErrInvalidBounds, b.Min, b.Max)
	}
	return nil
}

// Clamp forces minutes into the bounds.
func (b Bounds) Clamp(minutes int) int {
	return max(b.Min, min(minutes, b.Max))
}

// normalize turns caller fields into a slot without an id.
// Out-of-range durations are corrected rather than rejected.
func normalize(f Fields, b Bounds) (TimeSlot, error) {
	cat := f.Category
	if cat == "" {
		cat = CategoryInstallation
	}
	if !cat.Valid() {
		return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidCategory, f.Category)
	}

	s := TimeSlot{
		StartTime:       f.StartTime,
		DurationMinutes: f.DurationMinutes,
		IsAllDay:        f.IsAllDay,
		InstallerCount:  max(f.InstallerCount, 1),
		Title:           strings.TrimSpace(f.Title),
		Category:        cat,
		ColorToken:      f.ColorToken,
		Available:       f.Available,
	}
	if s.Title == "" {
		s.Title = cat.Label()
	}

	if s.IsAllDay {
		s.StartTime = AllDayStart
		s.DurationMinutes = AllDayDuration
		return s, nil
	}

	if !ValidTime(s.StartTime) {
		return TimeSlot{}, fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, f.StartTime)
	}
	s.DurationMinutes = b.Clamp(s.DurationMinutes)
	return s, nil
}
