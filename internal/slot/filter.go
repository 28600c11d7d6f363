package slot

import "strings"

// FilterByType returns the slots of the given category in their original
// order. A nil category keeps every slot.
func FilterByType(slots []TimeSlot, c *Category) []TimeSlot {
	if c == nil {
		return keep(slots, func(TimeSlot) bool { return true })
	}
	return keep(slots, func(s TimeSlot) bool { return s.Category == *c })
}

// SearchByText returns the slots whose title or category contains query,
// ignoring case. An empty (or blank) query keeps every slot.
func SearchByText(slots []TimeSlot, query string) []TimeSlot {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return keep(slots, func(TimeSlot) bool { return true })
	}
	return keep(slots, func(s TimeSlot) bool {
		return strings.Contains(strings.ToLower(s.Title), q) ||
			strings.Contains(string(s.Category), q)
	})
}

// Filter combines a type filter and a text search.
type Filter struct {
	Category *Category
	Query    string
}

// IsZero reports whether the filter keeps everything.
func (f Filter) IsZero() bool {
	return f.Category == nil && strings.TrimSpace(f.Query) == ""
}

// Apply runs both predicates; surviving slots keep their relative order.
func (f Filter) Apply(slots []TimeSlot) []TimeSlot {
	return SearchByText(FilterByType(slots, f.Category), f.Query)
}

// FilterGroups applies f to every group and drops groups left empty.
func FilterGroups(groups []DaySlotGroup, f Filter) []DaySlotGroup {
	out := make([]DaySlotGroup, 0, len(groups))
	for _, g := range groups {
		if slots := f.Apply(g.Slots); len(slots) > 0 {
			out = append(out, DaySlotGroup{Date: g.Date, Slots: slots})
		}
	}
	return out
}

func keep(slots []TimeSlot, pred func(TimeSlot) bool) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}
