package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/slot"
)

// Parse errors.
var (
	ErrMissingStart = errors.New("event has no DTSTART")
	ErrSpansDays    = errors.New("timed event lasts longer than a day")
)

const allDayLayout = "20060102"

// Entry is one imported event: the date it falls on and the fields a new
// slot would be created with. Imported events always get fresh ids.
type Entry struct {
	UID    string
	Date   time.Time
	Fields slot.Fields
}

// ReadOptions controls how events are interpreted.
type ReadOptions struct {
	// Location converts timed events to wall-clock slot times.
	// Defaults to time.Local.
	Location *time.Location
	// Logger receives one entry per skipped event.
	Logger *zap.Logger
}

// Read parses an iCalendar feed into entries. Events that cannot become a
// slot (no start, or timed events longer than a day) are skipped and
// logged; the rest are returned in feed order. A timed event running past
// midnight keeps its start date and full duration.
func Read(r io.Reader, opts ReadOptions) ([]Entry, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var out []Entry
	for _, ve := range cal.Events() {
		e, err := parseEvent(ve, opts.Location)
		if err != nil {
			opts.Logger.Warn("skipping event", zap.String("uid", e.UID), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func parseEvent(ve *ical.VEvent, loc *time.Location) (Entry, error) {
	var e Entry
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		e.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Fields.Title = p.Value
	}
	e.Fields.Category = slot.CategoryInstallation
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		for _, v := range strings.Split(p.Value, ",") {
			if c, err := slot.ParseCategory(v); err == nil {
				e.Fields.Category = c
				break
			}
		}
	}
	e.Fields.InstallerCount = 1
	e.Fields.Available = true

	dtstart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtstart == nil {
		return e, ErrMissingStart
	}

	if isAllDay(dtstart) {
		d, err := time.Parse(allDayLayout, strings.TrimSpace(dtstart.Value))
		if err != nil {
			return e, fmt.Errorf("parsing all-day start %q: %w", dtstart.Value, err)
		}
		e.Date = dateutil.Date(d)
		e.Fields.IsAllDay = true
		return e, nil
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return e, fmt.Errorf("parsing start: %w", err)
	}
	start = start.In(loc)
	e.Date = dateutil.Date(start)
	e.Fields.StartTime = start.Format("15:04")

	minutes := slot.DefaultMinDuration
	if end, err := ve.GetEndAt(); err == nil {
		end = end.In(loc)
		minutes = int(end.Sub(start) / time.Minute)
		if minutes > slot.MinutesPerDay {
			return e, ErrSpansDays
		}
	}
	e.Fields.DurationMinutes = minutes
	return e, nil
}

// isAllDay reports whether DTSTART carries a bare date.
func isAllDay(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}
