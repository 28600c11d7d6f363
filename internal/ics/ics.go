// Package ics converts slots to and from iCalendar feeds.
package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/javiermolinar/slotboard/internal/slot"
)

const productID = "-//slotboard//Installation slots//EN"

// Options controls how slots are exported.
type Options struct {
	// Location interprets slot start times. Defaults to time.Local.
	Location *time.Location
	// Now stamps DTSTAMP. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Calendar builds a VCALENDAR holding one VEVENT per slot. The slot id is
// the event UID, so re-importing an updated feed replaces events in place.
func Calendar(groups []slot.DaySlotGroup, opts Options) *ical.Calendar {
	opts = opts.withDefaults()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := opts.Now().UTC()
	for _, g := range groups {
		for _, s := range g.Slots {
			addEvent(cal, g.Date, s, stamp, opts.Location)
		}
	}
	return cal
}

// Write serializes groups as iCalendar to w.
func Write(w io.Writer, groups []slot.DaySlotGroup, opts Options) error {
	if _, err := io.WriteString(w, Calendar(groups, opts).Serialize()); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// Count returns the number of events Write would produce.
func Count(groups []slot.DaySlotGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Slots)
	}
	return n
}

func addEvent(cal *ical.Calendar, date time.Time, s slot.TimeSlot, stamp time.Time, loc *time.Location) {
	ev := cal.AddEvent(s.ID)
	ev.SetDtStampTime(stamp)
	ev.SetSummary(s.Title)
	ev.SetDescription(description(s))
	ev.SetProperty(ical.ComponentPropertyCategories, string(s.Category))

	if s.IsAllDay {
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		return
	}

	mins := slot.TimeToMinutes(s.StartTime)
	start := time.Date(date.Year(), date.Month(), date.Day(), mins/60, mins%60, 0, 0, loc)
	ev.SetStartAt(start)
	ev.SetEndAt(start.Add(time.Duration(s.DurationMinutes) * time.Minute))
}

func description(s slot.TimeSlot) string {
	avail := "available"
	if !s.Available {
		avail = "unavailable"
	}
	return fmt.Sprintf("%s slot, %d installer(s), %s", s.Category.Label(), s.InstallerCount, avail)
}
