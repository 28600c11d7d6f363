package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/slotboard/internal/calendar"
	"github.com/javiermolinar/slotboard/internal/slot"
	"github.com/javiermolinar/slotboard/internal/tui/frame"
	"github.com/javiermolinar/slotboard/internal/tui/input"
	"github.com/javiermolinar/slotboard/internal/view"
)

const helpLine = "1-5 views  h/l period  H/L day  j/k slot  a add  +/- resize  x avail  d delete  / search  f type  ? help  q quit"

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return frame.Render(frame.State{})
	}
	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBody(),
		m.renderFooter(),
	)

	var overlay string
	switch m.mode {
	case ModeHelp:
		overlay = m.renderHelp()
	case ModeConfirmDelete:
		overlay = m.renderConfirm()
	}

	return frame.Render(frame.State{
		Width:   m.width,
		Height:  m.height,
		Base:    base,
		Overlay: overlay,
		Bg:      m.styles.Background(),
	})
}

func (m Model) renderHeader() string {
	active := m.session.View().Mode()
	var tabs []string
	for i, mode := range view.Modes() {
		label := fmt.Sprintf("%d %s", i+1, mode.Title())
		if mode == active {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	tabLine := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	title := m.styles.Title.Render(" " + m.periodTitle())
	if !m.filter.IsZero() {
		title += m.styles.Muted.Render("  filter: " + input.FormatQuery(m.filter))
	}
	return frame.Pad(tabLine+"\n"+title, m.width, headerLines, m.styles.Background())
}

// periodTitle names the period the active view shows.
func (m Model) periodTitle() string {
	vc := m.session.View()
	switch vc.Mode() {
	case view.ModeDay:
		d := vc.SelectedDate()
		title := d.Format("Monday 2 January 2006")
		if vc.IsToday(d) {
			title += " (today)"
		}
		return title
	case view.ModeWeek:
		days := vc.WeekDays()
		return days[0].Format("2 Jan") + " - " + days[len(days)-1].Format("2 Jan 2006")
	case view.ModeMonth:
		return monthTitle(vc.MonthAnchor())
	case view.ModeSchedule:
		return "Schedule for " + monthTitle(vc.MonthAnchor())
	default:
		return "All slots"
	}
}

func monthTitle(a calendar.MonthAnchor) string {
	return time.Date(a.Year, a.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

func (m Model) renderBody() string {
	height := m.bodyHeight()
	var content string
	switch m.session.View().Mode() {
	case view.ModeDay:
		content = m.renderDay(height)
	case view.ModeWeek:
		content = m.renderWeek(height)
	case view.ModeMonth:
		content = m.renderMonth(height)
	default:
		content = m.renderAgenda(height)
	}
	return frame.Place(m.width, height, lipgloss.Top, content, m.styles.Background())
}

// columnWidths splits the terminal width into n columns; the last one
// takes the remainder.
func (m Model) columnWidths(n int) []int {
	w := max(m.width/n, 1)
	widths := make([]int, n)
	for i := range widths {
		widths[i] = w
	}
	widths[n-1] = max(m.width-w*(n-1), 1)
	return widths
}

func (m Model) dayHeaderStyle(d time.Time) lipgloss.Style {
	vc := m.session.View()
	switch {
	case vc.IsSelected(d):
		return m.styles.DayHeaderSelected
	case vc.IsToday(d):
		return m.styles.DayHeaderToday
	default:
		return m.styles.DayHeader
	}
}

func (m Model) renderWeek(height int) string {
	vc := m.session.View()
	cfg := m.session.Config()
	days := vc.WeekDays()
	widths := m.columnWidths(calendar.DaysPerWeek)

	columns := make([][]string, len(days))
	for i, d := range days {
		w := widths[i]
		col := []string{cell(m.dayHeaderStyle(d), " "+d.Format("Mon 2"), w)}

		slots := m.slotsOn(d)
		room := height - 1
		if len(slots) == 0 {
			text := " no slots"
			if !cfg.IsWorkday(strings.ToLower(d.Weekday().String())) {
				text = " day off"
			}
			col = append(col, cell(m.styles.Muted, text, w))
		}
		for j, s := range slots {
			if j == room-1 && len(slots) > room {
				col = append(col, cell(m.styles.Muted, fmt.Sprintf(" +%d more", len(slots)-j), w))
				break
			}
			when := s.StartTime
			if s.IsAllDay {
				when = "all  "
			}
			st := m.styles.Block(s.Category, s.Available, m.isSelected(d, s), j%2 == 1)
			col = append(col, cell(st, " "+when+" "+titleOf(s), w))
		}
		columns[i] = col
	}

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		var line strings.Builder
		for i, col := range columns {
			if row < len(col) {
				line.WriteString(col[row])
			} else {
				line.WriteString(m.styles.Base.Render(strings.Repeat(" ", widths[i])))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMonth(height int) string {
	vc := m.session.View()
	widths := m.columnWidths(calendar.DaysPerWeek)
	weeks := calendar.Weeks(vc.MonthCells())
	cellH := max((height-1)/calendar.WeeksPerMonthGrid, 1)

	var header strings.Builder
	for i, w := range widths {
		header.WriteString(cell(m.styles.Muted, " "+calendar.WeekdayShortName(i), w))
	}
	lines := []string{header.String()}

	for _, week := range weeks {
		for j := 0; j < cellH; j++ {
			var line strings.Builder
			for i, c := range week {
				line.WriteString(m.monthCellLine(c, j, cellH, widths[i]))
			}
			lines = append(lines, line.String())
		}
	}
	return strings.Join(lines, "\n")
}

// monthCellLine renders line j of a month cell: the day number and badge,
// then as many slots as fit.
func (m Model) monthCellLine(c calendar.Cell, j, cellH, w int) string {
	slots := m.slotsOn(c.Date)
	if j == 0 {
		text := fmt.Sprintf(" %2d", c.Day())
		if n := len(slots); n > 0 {
			text += fmt.Sprintf(" (%d)", n)
		}
		st := m.dayHeaderStyle(c.Date)
		if !c.IsCurrentMonth && !m.session.View().IsSelected(c.Date) {
			st = m.styles.Muted
		}
		return cell(st, text, w)
	}

	i := j - 1
	if i >= len(slots) {
		return m.styles.Base.Render(strings.Repeat(" ", w))
	}
	if j == cellH-1 && len(slots) > i+1 {
		return cell(m.styles.Muted, fmt.Sprintf("  +%d more", len(slots)-i), w)
	}
	s := slots[i]
	st := m.styles.Category(s.Category)
	if m.isSelected(c.Date, s) {
		st = m.styles.Selected
	}
	return cell(st, "  "+titleOf(s), w)
}

// renderAgenda draws the Schedule and List views: a header per date
// followed by its slots, scrolled to m.scroll.
func (m Model) renderAgenda(height int) string {
	groups := m.groups()
	if len(groups) == 0 {
		return m.styles.Muted.Render(" No slots found.")
	}

	var lines []string
	for _, g := range groups {
		lines = append(lines, cell(m.dayHeaderStyle(g.Date), " "+g.Date.Format("Mon 2 Jan 2006"), m.width))
		for _, s := range g.Slots {
			lines = append(lines, m.agendaRow(g.Date, s))
		}
	}

	start := min(m.scroll, max(len(lines)-height, 0))
	end := min(start+height, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (m Model) agendaRow(date time.Time, s slot.TimeSlot) string {
	when := "all day    "
	if !s.IsAllDay {
		when = s.StartTime + "-" + s.EndTime()
	}
	text := fmt.Sprintf("   %s  %-30s %-13s %s", when, truncate(titleOf(s), 30), s.Category.Label(), installers(s.InstallerCount))
	if !s.IsAllDay {
		text += "  " + formatDuration(s.DurationMinutes)
	}
	st := m.styles.Category(s.Category)
	switch {
	case m.isSelected(date, s):
		st = m.styles.Selected
	case !s.Available:
		st = m.styles.Muted.Strikethrough(true)
	}
	return cell(st, text, m.width)
}

// listLine returns the agenda line of entry idx.
func (m Model) listLine(idx int) int {
	line, n := 0, 0
	for _, g := range m.groups() {
		line++
		for range g.Slots {
			if n == idx {
				return line
			}
			line++
			n++
		}
	}
	return line
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.mode == ModeSearch:
		status = m.search.View()
		if hints := input.Suggestions(m.search.Value()); len(hints) > 0 {
			status += m.styles.Muted.Render("  tab: " + strings.Join(hints, " "))
		}
	case m.statusMsg != "" && m.statusErr:
		status = m.styles.StatusError.Render(" " + m.statusMsg)
	case m.statusMsg != "":
		status = m.styles.Status.Render(" " + m.statusMsg)
	default:
		status = m.styles.Muted.Render(" " + m.selectionSummary())
	}
	help := m.styles.Help.Render(" " + truncate(helpLine, max(m.width-1, 0)))
	return frame.Pad(status+"\n"+help, m.width, footerLines, m.styles.Background())
}

func (m Model) selectionSummary() string {
	vc := m.session.View()
	if s, ok := vc.SelectedSlot(); ok {
		return describeSlot(vc.SelectedDate(), s)
	}
	d := vc.SelectedDate()
	n := len(m.slotsOn(d))
	summary := fmt.Sprintf("%s: %d slots", d.Format("Mon 2 Jan"), n)
	if t := vc.Selection().Time; t != "" {
		summary += " · " + t + " free"
	}
	return summary
}

var helpRows = [][2]string{
	{"1-5", "day, week, month, schedule, list"},
	{"h / l", "previous / next period"},
	{"H / L", "previous / next day"},
	{"K / J", "previous / next week"},
	{"t", "go to today"},
	{"j / k", "next / previous slot"},
	{"enter", "open the selected day"},
	{"a / A", "add timed / all-day slot"},
	{"+ / -", "grow / shrink by one snap"},
	{"drag", "drag a slot's lower edge to resize"},
	{"x", "toggle availability"},
	{"d", "delete slot"},
	{"/", "search, type:<category> filters"},
	{"f", "cycle type filter"},
	{"y", "copy slot"},
	{"esc", "clear filter or selection"},
	{"q", "quit"},
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Background(m.styles.palette.BgHighlight).Render("Keys"))
	for _, row := range helpRows {
		b.WriteString("\n")
		b.WriteString(padRight(row[0], 8))
		b.WriteString(row[1])
	}
	return m.styles.Box.Render(b.String())
}

func (m Model) renderConfirm() string {
	vc := m.session.View()
	s, ok := vc.SelectedSlot()
	if !ok {
		return m.styles.Box.Render("Nothing to delete")
	}
	return m.styles.Box.Render(fmt.Sprintf("Delete %s (%s)?\n\ny / enter to confirm, any other key cancels", s.ID, titleOf(s)))
}
