package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/slot"
	"github.com/javiermolinar/slotboard/internal/view"
)

// entry is one slot as listed by a view, with the date it lives on.
type entry struct {
	date time.Time
	slot slot.TimeSlot
}

// sortSlots orders slots all-day first, then by start time. Ties keep their
// insertion order.
func sortSlots(slots []slot.TimeSlot) []slot.TimeSlot {
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

// slotsOn returns the slots on date that pass the active filter, in
// display order.
func (m Model) slotsOn(date time.Time) []slot.TimeSlot {
	return sortSlots(m.filter.Apply(m.session.Store().Slots(date)))
}

// groups returns the filtered groups the Schedule and List views show.
func (m Model) groups() []slot.DaySlotGroup {
	store := m.session.Store()
	var groups []slot.DaySlotGroup
	if r, ok := m.session.View().VisibleRange(); ok {
		groups = store.GroupsBetween(r.Start, r.End)
	} else {
		groups = store.Groups()
	}
	groups = slot.FilterGroups(groups, m.filter)
	for i := range groups {
		groups[i].Slots = sortSlots(groups[i].Slots)
	}
	return groups
}

// entries lists the slots j and k step through in the active view.
func (m Model) entries() []entry {
	vc := m.session.View()
	var dates []time.Time
	switch vc.Mode() {
	case view.ModeDay, view.ModeMonth:
		dates = []time.Time{vc.SelectedDate()}
	case view.ModeWeek:
		days := vc.WeekDays()
		dates = days[:]
	default:
		var out []entry
		for _, g := range m.groups() {
			for _, s := range g.Slots {
				out = append(out, entry{date: g.Date, slot: s})
			}
		}
		return out
	}

	var out []entry
	for _, d := range dates {
		for _, s := range m.slotsOn(d) {
			out = append(out, entry{date: d, slot: s})
		}
	}
	return out
}

// selectedIndex returns the position of the selected slot in entries, or -1.
func selectedIndex(entries []entry, sel view.Selection) int {
	if !sel.HasSlot() {
		return -1
	}
	return slices.IndexFunc(entries, func(e entry) bool {
		return e.slot.ID == sel.SlotID && dateutil.SameDay(e.date, sel.Date)
	})
}

// isSelected reports whether s on date is the selected slot.
func (m Model) isSelected(date time.Time, s slot.TimeSlot) bool {
	sel := m.session.View().Selection()
	return sel.SlotID == s.ID && dateutil.SameDay(sel.Date, date)
}

// freeStart returns the first grid hour on date where a one-hour slot would
// not overlap a timed slot. A selected free time wins.
func (m Model) freeStart(date time.Time) string {
	sel := m.session.View().Selection()
	if sel.Time != "" && !sel.HasSlot() && dateutil.SameDay(sel.Date, date) {
		return sel.Time
	}

	rows := m.session.Mapper().Rows()
	slots := m.session.Store().Slots(date)
	for _, row := range rows {
		start := slot.TimeToMinutes(row)
		busy := slices.ContainsFunc(slots, func(s slot.TimeSlot) bool {
			if s.IsAllDay {
				return false
			}
			from := slot.TimeToMinutes(s.StartTime)
			return from < start+60 && start < from+s.DurationMinutes
		})
		if !busy {
			return row
		}
	}
	return rows[0]
}

// describeSlot renders a one-line description used for the clipboard and
// the footer.
func describeSlot(date time.Time, s slot.TimeSlot) string {
	when := "all day"
	if !s.IsAllDay {
		when = s.StartTime + "-" + s.EndTime()
	}
	title := s.Title
	if title == "" {
		title = "(untitled)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s %s [%s] %s", s.ID, dateutil.Format(date), when, title, s.Category.Label(), installers(s.InstallerCount))
	if !s.Available {
		b.WriteString(" unavailable")
	}
	return b.String()
}

func installers(n int) string {
	if n == 1 {
		return "1 installer"
	}
	return fmt.Sprintf("%d installers", n)
}

// formatDuration formats minutes as "1h 30m".
func formatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
