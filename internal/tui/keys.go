package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/slot"
	"github.com/javiermolinar/slotboard/internal/tui/commands"
	"github.com/javiermolinar/slotboard/internal/tui/input"
	"github.com/javiermolinar/slotboard/internal/view"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key", zap.String("key", msg.String()), zap.Int("mode", int(m.mode)))

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeHelp:
		m.mode = ModeNormal
		return m, nil
	case ModeConfirmDelete:
		return m.handleConfirmKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vc := m.session.View()

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "?":
		m.mode = ModeHelp
		return m, nil

	case "1", "2", "3", "4", "5":
		idx, _ := strconv.Atoi(key)
		vc.SwitchView(view.Modes()[idx-1])
		m.scroll = 0
		return m, nil

	// Navigation
	case "h", "left":
		vc.Prev()
		m.scroll = 0
	case "l", "right":
		vc.Next()
		m.scroll = 0
	case "H":
		vc.PrevDay()
	case "L":
		vc.NextDay()
	case "K":
		vc.SelectDate(vc.SelectedDate().AddDate(0, 0, -7))
	case "J":
		vc.SelectDate(vc.SelectedDate().AddDate(0, 0, 7))
	case "t":
		vc.GoToToday()
		m.scroll = 0
	case "j", "down":
		m.moveSelection(1)
	case "k", "up":
		m.moveSelection(-1)
	case "enter":
		if vc.Mode() != view.ModeDay {
			vc.OpenDay(vc.SelectedDate())
		}
	case "esc":
		if m.drag != nil {
			return m.cancelDrag("Resize cancelled")
		}
		if !m.filter.IsZero() {
			m.filter = slot.Filter{}
			return m.setStatus("Filter cleared", false)
		}
		vc.ClearSlot()

	// Mutations
	case "a":
		return m.addSlot(false)
	case "A":
		return m.addSlot(true)
	case "+", "=":
		return m.resizeSelected(m.session.Mapper().Config().SnapMinutes)
	case "-", "_":
		return m.resizeSelected(-m.session.Mapper().Config().SnapMinutes)
	case "x":
		return m.toggleAvailable()
	case "d":
		if _, ok := vc.SelectedSlot(); !ok {
			return m.setStatus("No slot selected", true)
		}
		m.mode = ModeConfirmDelete
		return m, nil

	// Filtering
	case "/":
		m.mode = ModeSearch
		m.searchFrom = m.filter
		m.search.SetValue(input.FormatQuery(m.filter))
		m.search.CursorEnd()
		m.fitSearch()
		cmd := m.search.Focus()
		return m, cmd
	case "f":
		m.filter.Category = nextCategory(m.filter.Category)
		m.scroll = 0
		label := "all types"
		if m.filter.Category != nil {
			label = m.filter.Category.Label()
		}
		return m.setStatus("Showing "+label, false)

	case "y":
		s, ok := vc.SelectedSlot()
		if !ok {
			return m.setStatus("No slot selected", true)
		}
		return m, commands.Copy(describeSlot(vc.SelectedDate(), s))
	}
	return m, nil
}

// handleSearchKeys edits the search line. The filter follows every
// keystroke; esc restores the filter the search started from.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.search.Blur()
		m.filter = m.searchFrom
		return m, nil
	case "enter":
		m.mode = ModeNormal
		m.search.Blur()
		f, err := input.ParseQuery(m.search.Value())
		m.filter = f
		m.scroll = 0
		if err != nil {
			return m.setStatus(err.Error(), true)
		}
		return m.setStatus(fmt.Sprintf("%d matching slots", len(m.entries())), false)
	case "tab":
		if value, ok := input.Autocomplete(m.search.Value()); ok {
			m.search.SetValue(value)
			m.search.CursorEnd()
			m.fitSearch()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.fitSearch()
	if f, err := input.ParseQuery(m.search.Value()); err == nil {
		m.filter = f
		m.scroll = 0
	}
	return m, cmd
}

// fitSearch sizes the search input to its text so the completion hints
// fit after it on the footer line.
func (m *Model) fitSearch() {
	avail := max(m.width-lipgloss.Width(m.search.Prompt)-2, 10)
	w := max(lipgloss.Width(m.search.Value()), lipgloss.Width(m.search.Placeholder)) + 1
	m.search.Width = min(w, avail)
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if msg.String() != "y" && msg.String() != "enter" {
		return m.setStatus("Delete cancelled", false)
	}
	return m.deleteSelected()
}

// moveSelection steps the slot selection through the active view.
func (m *Model) moveSelection(delta int) {
	entries := m.entries()
	if len(entries) == 0 {
		return
	}
	idx := selectedIndex(entries, m.session.View().Selection())
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(entries) - 1
	default:
		idx = min(max(idx+delta, 0), len(entries)-1)
	}
	e := entries[idx]
	m.session.View().SelectSlot(e.date, e.slot.ID)
	m.followSelection(idx)
}

// followSelection scrolls the Schedule and List views so entry idx shows.
func (m *Model) followSelection(idx int) {
	if mode := m.session.View().Mode(); mode != view.ModeSchedule && mode != view.ModeList {
		return
	}
	line := m.listLine(idx)
	height := m.bodyHeight()
	if line < m.scroll {
		m.scroll = line
	} else if height > 0 && line >= m.scroll+height {
		m.scroll = line - height + 1
	}
}

func nextCategory(c *slot.Category) *slot.Category {
	cats := slot.Categories()
	if c == nil {
		next := cats[0]
		return &next
	}
	for i, x := range cats {
		if x == *c && i+1 < len(cats) {
			next := cats[i+1]
			return &next
		}
	}
	return nil
}
