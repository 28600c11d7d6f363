// Package dateutil provides calendar-date parsing and arithmetic helpers.
//
// All dates handled by slotboard are calendar dates: midnight UTC values whose
// clock component is ignored. Keeping everything in UTC avoids DST gaps when
// stepping day by day.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Layouts used for dates and months on the command line and in storage.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidMonthFormat = errors.New("month must be in YYYY-MM format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrDateInPast         = errors.New("cannot schedule in the past")
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses an inclusive date range.
// An empty start means today, an empty end means the start date.
func NewDateRange(startDate, endDate string) (*DateRange, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	end := start
	if endDate != "" {
		if end, err = ParseDate(endDate); err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}
	return &DateRange{Start: start, End: end}, nil
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	d := Date(date)
	return !d.Before(r.Start) && !d.After(r.End)
}

// ParseDate parses a YYYY-MM-DD date. An empty string yields today.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return Today(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// MustParseDate parses a YYYY-MM-DD date and panics on malformed input.
// Intended for literals in tests and fixtures.
func MustParseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic("dateutil: bad date literal " + s)
	}
	return t
}

// ParseMonth parses a YYYY-MM month. An empty string yields the current month.
func ParseMonth(s string) (year int, month time.Month, err error) {
	if s == "" {
		now := Today()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return 0, 0, ErrInvalidMonthFormat
	}
	return t.Year(), t.Month(), nil
}

// Format renders a date in ISO form.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// Date normalises t to midnight UTC of the same calendar day.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return Date(time.Now())
}

// TruncateToDay returns t at midnight, keeping its location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b share a calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MondayIndex returns the Monday-first weekday index of t (Monday=0, Sunday=6).
func MondayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	monday = Date(t).AddDate(0, 0, -MondayIndex(t))
	return monday, monday.AddDate(0, 0, 6)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseRelativeDate resolves a user-supplied scheduling date against relativeTo.
// It accepts "" or "today", "tomorrow", "next-week", a weekday name ("friday"),
// "next-<weekday>", or an absolute YYYY-MM-DD. Input is case-insensitive.
// Absolute dates before relativeTo return ErrDateInPast.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := Date(relativeTo)
	in := strings.ToLower(strings.TrimSpace(s))

	switch in {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	}

	if wd, ok := weekdays[strings.TrimPrefix(in, "next-")]; ok {
		return upcoming(today, wd), nil
	}
	if strings.HasPrefix(in, "next-") {
		return time.Time{}, ErrInvalidDateFormat
	}

	t, err := time.Parse(DateLayout, in)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	if t.Before(today) {
		return time.Time{}, ErrDateInPast
	}
	return t, nil
}

// upcoming returns the first target weekday strictly after today.
func upcoming(today time.Time, target time.Weekday) time.Time {
	n := int(target) - int(today.Weekday())
	if n <= 0 {
		n += 7
	}
	return today.AddDate(0, 0, n)
}
