package ui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/javiermolinar/slotboard/internal/slot"
)

// Stats holds aggregated statistics for a set of slots.
type Stats struct {
	Slots            int
	Unavailable      int
	AllDay           int
	Minutes          int // timed minutes only
	InstallerMinutes int // timed minutes weighted by installer count
	ByCategory       map[slot.Category]int
}

// Available returns the number of bookable slots.
func (s Stats) Available() int {
	return s.Slots - s.Unavailable
}

// Accumulate adds sl to the stats.
func (s *Stats) Accumulate(sl slot.TimeSlot) {
	if s.ByCategory == nil {
		s.ByCategory = make(map[slot.Category]int)
	}
	s.Slots++
	s.ByCategory[sl.Category]++
	if !sl.Available {
		s.Unavailable++
	}
	if sl.IsAllDay {
		s.AllDay++
		return
	}
	s.Minutes += sl.DurationMinutes
	s.InstallerMinutes += sl.DurationMinutes * sl.InstallerCount
}

// GroupStats aggregates every slot in groups.
func GroupStats(groups []slot.DaySlotGroup) Stats {
	var s Stats
	for _, g := range groups {
		for _, sl := range g.Slots {
			s.Accumulate(sl)
		}
	}
	return s
}

// FormatStats renders the stats summary line.
func FormatStats(s Stats) string {
	var parts []string
	for _, c := range slot.Categories() {
		if n := s.ByCategory[c]; n > 0 {
			parts = append(parts, formatCategory(c, fmt.Sprintf("%s: %d", c.Label(), n)))
		}
	}
	line := fmt.Sprintf("Slots: %d (%d available)", s.Slots, s.Available())
	if len(parts) > 0 {
		line += "  |  " + strings.Join(parts, "  ")
	}
	line += fmt.Sprintf("  |  Installer time: %s", FormatDuration(s.InstallerMinutes))
	return line
}

// AvailabilityBar creates an ASCII bar showing the share of bookable slots.
func AvailabilityBar(available, total, width int) string {
	if total == 0 {
		return "[" + strings.Repeat("░", width) + "] (no slots)"
	}

	pct := (available * 100) / total
	filled := (available * width) / total

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatHighlight(bar), fmt.Sprintf("(%d%% bookable)", pct))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// FormatSlotRow renders one slot as a table row. Titles longer than
// maxTitle are truncated with an ellipsis.
func FormatSlotRow(s slot.TimeSlot, maxTitle int) string {
	symbol := "●"
	if !s.Available {
		symbol = formatMuted("○")
	}

	when := s.StartTime + "-" + s.EndTime()
	duration := FormatDuration(s.DurationMinutes)
	if s.IsAllDay {
		when = "all day    "
		duration = ""
	}

	title := truncate(s.Title, maxTitle)
	row := fmt.Sprintf("  %s  %s  %s  %-*s  %-6s %s",
		symbol, when, formatCategory(s.Category, categoryTag(s.Category)),
		maxTitle, title, duration, formatMuted(installers(s.InstallerCount)))
	return strings.TrimRight(row, " ")
}

// categoryTag returns the one-letter tag of a category.
func categoryTag(c slot.Category) string {
	if c == "" {
		return "[?]"
	}
	return "[" + strings.ToUpper(string(c[:1])) + "]"
}

func installers(n int) string {
	if n == 1 {
		return "1 installer"
	}
	return fmt.Sprintf("%d installers", n)
}

// truncate shortens s to at most width runes, ending in "...".
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}

// dayOrder returns the slots of one day for display: the all-day lane first,
// then timed slots by start time. Slots starting together keep their
// insertion order.
func dayOrder(slots []slot.TimeSlot) []slot.TimeSlot {
	out := slices.Clone(slots)
	slices.SortStableFunc(out, func(a, b slot.TimeSlot) int {
		if a.IsAllDay != b.IsAllDay {
			if a.IsAllDay {
				return -1
			}
			return 1
		}
		return cmp.Compare(slot.TimeToMinutes(a.StartTime), slot.TimeToMinutes(b.StartTime))
	})
	return out
}

// titleWidth picks a title column width that fits the terminal.
func titleWidth() int {
	// "  ●  HH:MM-HH:MM  [X]  " + "  6h30m  9 installers"
	const overhead = 24 + 22
	return min(max(termWidth()-overhead, 20), 60)
}
