// Package calendar generates the date cells behind month and week views.
//
// Every function here is pure: the same inputs always produce the same,
// identically ordered output.
package calendar

import (
	"time"

	"github.com/javiermolinar/slotboard/internal/dateutil"
)

const (
	// DaysPerWeek is the number of days in a week row.
	DaysPerWeek = 7
	// WeeksPerMonthGrid is the fixed number of week rows in a month grid.
	WeeksPerMonthGrid = 6
	// MonthGridCells is the fixed size of a month grid.
	MonthGridCells = DaysPerWeek * WeeksPerMonthGrid
)

// Cell is one day in a month grid.
type Cell struct {
	Date           time.Time
	IsCurrentMonth bool
}

// Day returns the day-of-month number of the cell.
func (c Cell) Day() int {
	return c.Date.Day()
}

// MonthGrid returns six Monday-first weeks covering the given month.
// Leading and trailing days belong to the neighbouring months and are flagged
// with IsCurrentMonth=false.
func MonthGrid(year int, month time.Month) [MonthGridCells]Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -dateutil.MondayIndex(first))

	var cells [MonthGridCells]Cell
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{
			Date:           d,
			IsCurrentMonth: d.Month() == first.Month() && d.Year() == first.Year(),
		}
	}
	return cells
}

// MonthGridRange returns the first and last dates shown by MonthGrid.
func MonthGridRange(year int, month time.Month) (first, last time.Time) {
	cells := MonthGrid(year, month)
	return cells[0].Date, cells[MonthGridCells-1].Date
}

// WeekDays returns seven consecutive dates starting at anchor.
// The anchor is used as given; callers wanting ISO weeks pass a Monday.
func WeekDays(anchor time.Time) [DaysPerWeek]time.Time {
	start := dateutil.Date(anchor)
	var days [DaysPerWeek]time.Time
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Weeks splits a month grid into its six week rows.
func Weeks(cells [MonthGridCells]Cell) [WeeksPerMonthGrid][DaysPerWeek]Cell {
	var rows [WeeksPerMonthGrid][DaysPerWeek]Cell
	for i, c := range cells {
		rows[i/DaysPerWeek][i%DaysPerWeek] = c
	}
	return rows
}

// WeekdayShortName returns the short name of a Monday-first weekday index.
func WeekdayShortName(idx int) string {
	names := [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if idx < 0 || idx >= len(names) {
		return ""
	}
	return names[idx]
}

// MonthAnchor identifies a month without a day component, so stepping it never
// needs day-of-month clamping.
type MonthAnchor struct {
	Year  int
	Month time.Month
}

// MonthOf returns the anchor of the month containing t.
func MonthOf(t time.Time) MonthAnchor {
	return MonthAnchor{Year: t.Year(), Month: t.Month()}
}

// Add shifts the anchor by n months (negative n goes backwards).
func (a MonthAnchor) Add(n int) MonthAnchor {
	idx := a.Year*12 + int(a.Month-1) + n
	return MonthAnchor{Year: floorDiv(idx, 12), Month: time.Month(floorMod(idx, 12) + 1)}
}

// Contains reports whether t falls inside the anchored month.
func (a MonthAnchor) Contains(t time.Time) bool {
	return t.Year() == a.Year && t.Month() == a.Month
}

// String renders the anchor as YYYY-MM.
func (a MonthAnchor) String() string {
	return time.Date(a.Year, a.Month, 1, 0, 0, 0, 0, time.UTC).Format(dateutil.MonthLayout)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
