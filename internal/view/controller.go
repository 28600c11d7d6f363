package view

import (
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/calendar"
	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/slot"
)

// Selection names a date, optionally a time on it and optionally a slot.
// It does not own the slot: the slot may be deleted underneath it, in which
// case the controller clears the slot and time.
type Selection struct {
	Date   time.Time
	Time   string // "HH:MM", empty when no time is selected
	SlotID string // empty when no slot is selected
}

// HasSlot reports whether a slot is selected.
func (s Selection) HasSlot() bool {
	return s.SlotID != ""
}

// SlotReader is the read side of the slot store. *slot.Store satisfies it.
type SlotReader interface {
	Slots(date time.Time) []slot.TimeSlot
	Slot(date time.Time, id string) (slot.TimeSlot, bool)
	Count(date time.Time) int
	HasSlots(date time.Time) bool
}

// SelectFunc is notified when a slot becomes selected.
type SelectFunc func(date time.Time, at string, s slot.TimeSlot)

// Controller tracks the active view, the week and month anchors and the
// selection. It never mutates slots.
type Controller struct {
	slots    SlotReader
	now      func() time.Time
	logger   *zap.Logger
	onSelect []SelectFunc

	mode      Mode
	selection Selection
	week      time.Time // Monday of the visible week
	month     calendar.MonthAnchor
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the controller logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// OnSelect registers fn to run whenever a slot is selected.
func OnSelect(fn SelectFunc) Option {
	return func(c *Controller) { c.onSelect = append(c.onSelect, fn) }
}

// New creates a controller in Day view, anchored on today.
func New(slots SlotReader, opts ...Option) *Controller {
	c := &Controller{
		slots:  slots,
		now:    time.Now,
		logger: zap.NewNop(),
		mode:   ModeDay,
	}
	for _, opt := range opts {
		opt(c)
	}
	today := c.Today()
	c.selection = Selection{Date: today}
	c.anchorOn(today)
	return c
}

// Today returns the current calendar date according to the controller clock.
func (c *Controller) Today() time.Time {
	return dateutil.Date(c.now())
}

// Mode returns the active view.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection {
	return c.selection
}

// SelectedDate returns the selected date.
func (c *Controller) SelectedDate() time.Time {
	return c.selection.Date
}

// WeekAnchor returns the Monday of the visible week.
func (c *Controller) WeekAnchor() time.Time {
	return c.week
}

// MonthAnchor returns the visible month.
func (c *Controller) MonthAnchor() calendar.MonthAnchor {
	return c.month
}

// SwitchView changes the active view. Only the visible range changes.
func (c *Controller) SwitchView(m Mode) {
	if m == c.mode {
		return
	}
	c.logger.Debug("view switched", zap.Stringer("from", c.mode), zap.Stringer("to", m))
	c.mode = m
}

// SelectDate selects date and moves both anchors so it is visible.
// Moving to a different date clears the selected time and slot.
func (c *Controller) SelectDate(date time.Time) {
	date = dateutil.Date(date)
	if !dateutil.SameDay(date, c.selection.Date) {
		c.selection = Selection{Date: date}
	}
	c.anchorOn(date)
}

// OpenDay selects date and switches to the Day view, as when a cell is
// opened from the Month, Week or Schedule views.
func (c *Controller) OpenDay(date time.Time) {
	c.SelectDate(date)
	c.SwitchView(ModeDay)
}

// SelectTime selects a free time on date.
func (c *Controller) SelectTime(date time.Time, at string) {
	c.SelectDate(date)
	c.selection.Time = at
	c.selection.SlotID = ""
}

// SelectSlot selects the slot id on date together with its start time.
// It reports false and leaves the selection unchanged when the slot is missing.
func (c *Controller) SelectSlot(date time.Time, id string) bool {
	s, ok := c.slots.Slot(date, id)
	if !ok {
		c.logger.Debug("select missing slot", zap.String("date", dateutil.Format(date)), zap.String("id", id))
		return false
	}
	date = dateutil.Date(date)
	c.selection = Selection{Date: date, Time: s.StartTime, SlotID: s.ID}
	c.anchorOn(date)
	for _, fn := range c.onSelect {
		fn(date, s.StartTime, s)
	}
	return true
}

// SelectedSlot returns the selected slot, if it still exists.
func (c *Controller) SelectedSlot() (slot.TimeSlot, bool) {
	if !c.selection.HasSlot() {
		return slot.TimeSlot{}, false
	}
	return c.slots.Slot(c.selection.Date, c.selection.SlotID)
}

// ClearSlot drops the selected slot and time but keeps the date.
func (c *Controller) ClearSlot() {
	c.selection = Selection{Date: c.selection.Date}
}

// NextDay selects the following date.
func (c *Controller) NextDay() { c.SelectDate(c.selection.Date.AddDate(0, 0, 1)) }

// PrevDay selects the preceding date.
func (c *Controller) PrevDay() { c.SelectDate(c.selection.Date.AddDate(0, 0, -1)) }

// NextWeek shifts the week anchor forward seven days. A selected slot that
// leaves the week is deselected; the selected date stays.
func (c *Controller) NextWeek() { c.shiftWeek(calendar.DaysPerWeek) }

// PrevWeek shifts the week anchor back seven days.
func (c *Controller) PrevWeek() { c.shiftWeek(-calendar.DaysPerWeek) }

// NextMonth shifts the month anchor forward one month. A selected slot that
// leaves the month is deselected; the selected date stays.
func (c *Controller) NextMonth() { c.shiftMonth(1) }

// PrevMonth shifts the month anchor back one month.
func (c *Controller) PrevMonth() { c.shiftMonth(-1) }

func (c *Controller) shiftWeek(days int) {
	c.week = c.week.AddDate(0, 0, days)
	c.dropHiddenSlot(c.week, c.week.AddDate(0, 0, calendar.DaysPerWeek-1))
}

func (c *Controller) shiftMonth(months int) {
	c.month = c.month.Add(months)
	var start, end time.Time
	if c.mode == ModeSchedule {
		start = time.Date(c.month.Year, c.month.Month, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 0, dateutil.DaysInMonth(c.month.Year, c.month.Month)-1)
	} else {
		start, end = calendar.MonthGridRange(c.month.Year, c.month.Month)
	}
	c.dropHiddenSlot(start, end)
}

// dropHiddenSlot clears the selected slot and time when their date falls
// outside [start, end].
func (c *Controller) dropHiddenSlot(start, end time.Time) {
	d := dateutil.Date(c.selection.Date)
	if !c.selection.HasSlot() || (!d.Before(start) && !d.After(end)) {
		return
	}
	c.logger.Debug("selected slot scrolled out of view", zap.String("id", c.selection.SlotID))
	c.ClearSlot()
}

// Next advances the period of the active view. The List view is unbounded.
func (c *Controller) Next() {
	switch c.mode {
	case ModeDay:
		c.NextDay()
	case ModeWeek:
		c.NextWeek()
	case ModeMonth, ModeSchedule:
		c.NextMonth()
	}
}

// Prev moves the active view back one period.
func (c *Controller) Prev() {
	switch c.mode {
	case ModeDay:
		c.PrevDay()
	case ModeWeek:
		c.PrevWeek()
	case ModeMonth, ModeSchedule:
		c.PrevMonth()
	}
}

// GoToToday resets both anchors to contain today. Today becomes the
// selected date when it has at least one slot, and always in the Day view
// since that view shows nothing but the selected date.
func (c *Controller) GoToToday() {
	today := c.Today()
	c.anchorOn(today)
	if c.mode == ModeDay || c.slots.HasSlots(today) {
		c.SelectDate(today)
	}
}

// VisibleRange returns the dates the active view covers. The List view
// covers every date and reports false.
func (c *Controller) VisibleRange() (dateutil.DateRange, bool) {
	switch c.mode {
	case ModeDay:
		d := c.selection.Date
		return dateutil.DateRange{Start: d, End: d}, true
	case ModeWeek:
		return dateutil.DateRange{Start: c.week, End: c.week.AddDate(0, 0, calendar.DaysPerWeek-1)}, true
	case ModeMonth:
		start, end := calendar.MonthGridRange(c.month.Year, c.month.Month)
		return dateutil.DateRange{Start: start, End: end}, true
	case ModeSchedule:
		start := time.Date(c.month.Year, c.month.Month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, dateutil.DaysInMonth(c.month.Year, c.month.Month)-1)
		return dateutil.DateRange{Start: start, End: end}, true
	default:
		return dateutil.DateRange{}, false
	}
}

// VisibleDates lists every date in the visible range, or nil for the List view.
func (c *Controller) VisibleDates() []time.Time {
	r, ok := c.VisibleRange()
	if !ok {
		return nil
	}
	var out []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// WeekDays returns the seven dates of the visible week.
func (c *Controller) WeekDays() [calendar.DaysPerWeek]time.Time {
	return calendar.WeekDays(c.week)
}

// MonthCells returns the 42 cells of the visible month.
func (c *Controller) MonthCells() [calendar.MonthGridCells]calendar.Cell {
	return calendar.MonthGrid(c.month.Year, c.month.Month)
}

// IsToday reports whether date is today.
func (c *Controller) IsToday(date time.Time) bool {
	return dateutil.SameDay(date, c.Today())
}

// IsSelected reports whether date is the selected date.
func (c *Controller) IsSelected(date time.Time) bool {
	return dateutil.SameDay(date, c.selection.Date)
}

// SlotCount returns the badge count for date.
func (c *Controller) SlotCount(date time.Time) int {
	return c.slots.Count(date)
}

func (c *Controller) anchorOn(date time.Time) {
	c.week, _ = dateutil.WeekRange(date)
	c.month = calendar.MonthOf(date)
}

// SlotCreated implements slot.Observer.
func (c *Controller) SlotCreated(time.Time, slot.TimeSlot) {}

// SlotUpdated follows the selected slot to its new start time.
func (c *Controller) SlotUpdated(date time.Time, s slot.TimeSlot) {
	if c.selection.SlotID == s.ID && dateutil.SameDay(date, c.selection.Date) {
		c.selection.Time = s.StartTime
	}
}

// SlotResized implements slot.Observer.
func (c *Controller) SlotResized(time.Time, string, int) {}

// SlotDeleted clears the selection when it names the deleted slot.
func (c *Controller) SlotDeleted(date time.Time, id string) {
	if c.selection.SlotID == id && dateutil.SameDay(date, c.selection.Date) {
		c.logger.Debug("selected slot deleted", zap.String("id", id))
		c.ClearSlot()
	}
}
