// Package view holds the calendar view state machine: which granularity is
// shown, which period is visible, and which date, time and slot are selected.
package view

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned when parsing an unknown view name.
var ErrInvalidMode = errors.New("view must be one of day, week, month, schedule, list")

// Mode is a calendar granularity.
type Mode int

const (
	ModeDay Mode = iota
	ModeWeek
	ModeMonth
	ModeSchedule
	ModeList
)

// Modes returns every mode in tab order.
func Modes() []Mode {
	return []Mode{ModeDay, ModeWeek, ModeMonth, ModeSchedule, ModeList}
}

func (m Mode) String() string {
	switch m {
	case ModeDay:
		return "day"
	case ModeWeek:
		return "week"
	case ModeMonth:
		return "month"
	case ModeSchedule:
		return "schedule"
	case ModeList:
		return "list"
	default:
		return "unknown"
	}
}

// Title returns the mode name for tab labels.
func (m Mode) Title() string {
	s := m.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes() {
		if m.String() == in {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}
