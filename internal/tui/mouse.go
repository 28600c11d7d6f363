package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/grid"
	"github.com/javiermolinar/slotboard/internal/slot"
	"github.com/javiermolinar/slotboard/internal/view"
)

// handleMouseMsg drives drag-to-resize on the Day grid and scrolls the
// Schedule and List views.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll = max(m.scroll-1, 0)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scroll++
		return m, nil
	}

	if m.drag != nil {
		return m.handleDrag(msg)
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.session.View().Mode() != view.ModeDay {
		return m, nil
	}
	return m.handlePress(msg.X, msg.Y)
}

// handlePress selects what is under the pointer. A press on the lower edge
// of a timed slot starts a resize.
func (m Model) handlePress(x, y int) (tea.Model, tea.Cmd) {
	l := m.dayLayout()
	vc := m.session.View()

	b, edge, ok := l.hit(x, y)
	if !ok {
		if line, inGrid := l.line(y); inGrid {
			vc.SelectTime(l.date, m.session.Mapper().OffsetToTime(line*l.rowMinutes))
		}
		return m, nil
	}

	vc.SelectSlot(l.date, b.slot.ID)
	if !edge {
		return m, nil
	}

	line, _ := l.line(y)
	rs, err := m.session.BeginResize(l.date, b.slot.ID, l.offset(line))
	if err != nil {
		m.logger.Debug("resize refused", zap.String("id", b.slot.ID), zap.Error(err))
		return m.setStatus(err.Error(), true)
	}
	m.drag = rs
	m.statusMsg = "Resizing " + b.slot.ID
	m.statusErr = false
	return m, nil
}

// handleDrag forwards pointer events to the live resize session through
// the session's pointer bus.
func (m Model) handleDrag(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	l := m.dayLayout()
	line := msg.Y - l.top
	p := grid.Point{Y: l.offset(line)}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.session.Bus().Move(p)
		m.statusMsg = "Resizing " + m.drag.SlotID() + " to " + formatDuration(m.drag.Provisional())
		return m, nil
	case tea.MouseActionRelease:
		m.session.Bus().Release(p)
		return m.finishDrag()
	}
	return m, nil
}

// finishDrag reports a committed resize and flushes it to storage.
func (m Model) finishDrag() (tea.Model, tea.Cmd) {
	rs := m.drag
	m.drag = nil
	if rs.State() != grid.SessionCommitted {
		return m.setStatus("Resize cancelled", false)
	}
	switch rs.Outcome() {
	case slot.OutcomeOK:
		return m.afterMutation("Resized " + rs.SlotID() + " to " + formatDuration(rs.Provisional()))
	case slot.OutcomeNotFound:
		return m.setStatus("Slot "+rs.SlotID()+" no longer exists", true)
	default:
		return m.setStatus("Slot "+rs.SlotID()+" cannot be resized", true)
	}
}

// cancelDrag aborts the live resize as if the pointer was lost.
func (m Model) cancelDrag(reason string) (tea.Model, tea.Cmd) {
	if m.drag == nil {
		return m, nil
	}
	m.session.Bus().Lost()
	m.drag = nil
	return m.setStatus(reason, false)
}
