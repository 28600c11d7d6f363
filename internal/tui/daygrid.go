package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/grid"
	"github.com/javiermolinar/slotboard/internal/slot"
)

// dayBlock is a timed slot placed on the Day grid.
type dayBlock struct {
	slot   slot.TimeSlot
	lane   int
	top    int // first grid line
	bottom int // last grid line, which carries the resize edge
	alt    bool
}

// dayLayout maps the selected date onto screen lines and columns. It is
// rebuilt for every frame and every mouse event so both agree.
type dayLayout struct {
	date       time.Time
	allDay     []slot.TimeSlot
	outside    []slot.TimeSlot // timed slots that miss the grid entirely
	blocks     []dayBlock
	rowMinutes int
	lines      int // grid lines
	top        int // screen line of grid line 0
	lanes      int
	laneW      int
}

// allDayLines is the height of the lane above the grid.
func (m Model) allDayLines() int {
	mapper := m.session.Mapper()
	n, outside := 0, false
	for _, s := range m.slotsOn(m.session.View().SelectedDate()) {
		switch {
		case s.IsAllDay:
			n++
		case outsideGrid(mapper, s):
			outside = true
		}
	}
	if outside {
		n++
	}
	return max(n, 1)
}

func outsideGrid(mapper grid.Mapper, s slot.TimeSlot) bool {
	off := mapper.TimeToOffset(s.StartTime)
	return off+mapper.DurationToHeight(s.DurationMinutes) <= 0 || off >= mapper.Height()
}

func (m Model) dayLayout() dayLayout {
	mapper := m.session.Mapper()
	rm := m.rowMinutes()
	l := dayLayout{
		date:       m.session.View().SelectedDate(),
		rowMinutes: rm,
		lines:      mapper.Height() / rm,
		top:        headerLines + m.allDayLines(),
	}

	var laneEnds []int
	for _, s := range m.slotsOn(l.date) {
		if s.IsAllDay {
			l.allDay = append(l.allDay, s)
			continue
		}
		if outsideGrid(mapper, s) {
			l.outside = append(l.outside, s)
			continue
		}

		off := mapper.TimeToOffset(s.StartTime)
		end := off + mapper.DurationToHeight(m.liveDuration(l.date, s))

		lane := -1
		for i, e := range laneEnds {
			if e <= off {
				lane = i
				break
			}
		}
		if lane < 0 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, 0)
		}
		laneEnds[lane] = end

		top := max(off, 0) / rm
		bottom := max((min(end, mapper.Height())+rm-1)/rm-1, top)
		b := dayBlock{slot: s, lane: lane, top: top, bottom: bottom}
		for i := len(l.blocks) - 1; i >= 0; i-- {
			prev := l.blocks[i]
			if prev.lane == lane {
				b.alt = prev.bottom == top-1 && prev.slot.Category == s.Category && !prev.alt
				break
			}
		}
		l.blocks = append(l.blocks, b)
	}

	l.lanes = max(len(laneEnds), 1)
	l.laneW = max((m.width-timeColW)/l.lanes, 1)
	return l
}

// liveDuration is the duration to draw for s: the provisional one while s
// is being dragged.
func (m Model) liveDuration(date time.Time, s slot.TimeSlot) int {
	if m.drag != nil && m.drag.Active() && m.drag.SlotID() == s.ID && dateutil.SameDay(m.drag.Date(), date) {
		return m.drag.Provisional()
	}
	return s.DurationMinutes
}

// line converts a screen row to a grid line.
func (l dayLayout) line(y int) (int, bool) {
	line := y - l.top
	return line, line >= 0 && line < l.lines
}

// offset converts a grid line to the grid offset of its lower edge.
func (l dayLayout) offset(line int) int {
	return (line + 1) * l.rowMinutes
}

// hit returns the block under screen position (x, y) and whether the
// position is on its lower edge.
func (l dayLayout) hit(x, y int) (dayBlock, bool, bool) {
	line, ok := l.line(y)
	if !ok || x < timeColW {
		return dayBlock{}, false, false
	}
	lane := min((x-timeColW)/l.laneW, l.lanes-1)
	for _, b := range l.blocks {
		if b.lane == lane && line >= b.top && line <= b.bottom {
			return b, line == b.bottom, true
		}
	}
	return dayBlock{}, false, false
}

func (m Model) renderDay(height int) string {
	l := m.dayLayout()
	s := m.styles
	mapper := m.session.Mapper()
	var lines []string

	// All-day lane
	for _, sl := range l.allDay {
		text := "● " + titleOf(sl) + " [" + sl.Category.Label() + "]"
		lines = append(lines, s.TimeLabel.Render(padRight("all", timeColW))+
			cell(s.Block(sl.Category, sl.Available, m.isSelected(l.date, sl), false), text, m.width-timeColW))
	}
	if len(l.outside) > 0 {
		var parts []string
		for _, sl := range l.outside {
			parts = append(parts, sl.StartTime+" "+titleOf(sl))
		}
		lines = append(lines, s.TimeLabel.Render(padRight("out", timeColW))+
			cell(s.Warning, "outside grid: "+strings.Join(parts, ", "), m.width-timeColW))
	}
	if len(lines) == 0 {
		lines = append(lines, s.TimeLabel.Render(padRight("all", timeColW))+cell(s.Muted, "no all-day slots", m.width-timeColW))
	}

	for i := 0; i < l.lines && len(lines) < height; i++ {
		label := ""
		if (i*l.rowMinutes)%60 == 0 {
			label = mapper.OffsetToTime(i * l.rowMinutes)
		}
		row := s.TimeLabel.Render(padRight(label, timeColW))
		for lane := 0; lane < l.lanes; lane++ {
			w := l.laneW
			if lane == l.lanes-1 {
				w = max(m.width-timeColW-l.laneW*(l.lanes-1), 0)
			}
			row += m.renderLaneCell(l, lane, i, w)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLaneCell(l dayLayout, lane, line, w int) string {
	for _, b := range l.blocks {
		if b.lane != lane || line < b.top || line > b.bottom {
			continue
		}
		st := m.styles.Block(b.slot.Category, b.slot.Available, m.isSelected(l.date, b.slot), b.alt)
		return cell(st, blockText(b, line-b.top, m.liveDuration(l.date, b.slot)), w)
	}
	if (line*l.rowMinutes)%60 == 0 {
		return m.styles.GridLine.Render(strings.Repeat("╌", w))
	}
	return m.styles.Base.Render(strings.Repeat(" ", w))
}

// blockText is the text on row i of a block.
func blockText(b dayBlock, i, duration int) string {
	height := b.bottom - b.top + 1
	s := b.slot
	switch {
	case i == 0:
		return " " + s.StartTime + "-" + slot.EndTime(s.StartTime, duration) + " " + titleOf(s)
	case i == 1 && height > 2:
		info := " " + installers(s.InstallerCount) + " · " + formatDuration(duration)
		if !s.Available {
			info += " · unavailable"
		}
		return info
	case i == height-1:
		return " ═"
	default:
		return ""
	}
}

func titleOf(s slot.TimeSlot) string {
	if s.Title == "" {
		return s.Category.Label()
	}
	return s.Title
}

// cell renders text truncated and padded to exactly w columns.
func cell(st lipgloss.Style, text string, w int) string {
	if w <= 0 {
		return ""
	}
	return st.Render(padRight(truncate(text, w), w))
}
