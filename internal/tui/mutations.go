package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/slot"
	"github.com/javiermolinar/slotboard/internal/tui/commands"
)

// defaultAddMinutes is the duration of slots added from the keyboard.
const defaultAddMinutes = 60

// addSlot creates a slot on the selected date and selects it. Timed slots
// go to the selected free time, or the first free grid hour.
func (m Model) addSlot(allDay bool) (tea.Model, tea.Cmd) {
	vc := m.session.View()
	date := vc.SelectedDate()

	category := slot.CategoryInstallation
	if m.filter.Category != nil {
		category = *m.filter.Category
	}
	f := slot.Fields{
		IsAllDay:       allDay,
		InstallerCount: 1,
		Title:          "New " + category.Label(),
		Category:       category,
		Available:      true,
	}
	if !allDay {
		f.StartTime = m.freeStart(date)
		f.DurationMinutes = defaultAddMinutes
	}

	created, err := m.session.Service().Create(date, f)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	vc.SelectSlot(date, created.ID)
	return m.afterMutation(fmt.Sprintf("Created slot %s", created.ID))
}

// resizeSelected grows or shrinks the selected slot by delta minutes.
func (m Model) resizeSelected(delta int) (tea.Model, tea.Cmd) {
	vc := m.session.View()
	s, ok := vc.SelectedSlot()
	if !ok {
		return m.setStatus("No slot selected", true)
	}

	switch m.session.Service().Resize(vc.SelectedDate(), s.ID, s.DurationMinutes+delta) {
	case slot.OutcomeNotResizable:
		return m.setStatus("All-day slots cannot be resized", true)
	case slot.OutcomeNotFound:
		return m.setStatus("Slot "+s.ID+" no longer exists", true)
	}
	updated, _ := vc.SelectedSlot()
	return m.afterMutation(fmt.Sprintf("Resized %s to %s", s.ID, formatDuration(updated.DurationMinutes)))
}

// toggleAvailable flips whether the selected slot can be booked.
func (m Model) toggleAvailable() (tea.Model, tea.Cmd) {
	vc := m.session.View()
	s, ok := vc.SelectedSlot()
	if !ok {
		return m.setStatus("No slot selected", true)
	}

	f := s.Fields()
	f.Available = !f.Available
	outcome, err := m.session.Service().Update(vc.SelectedDate(), s.ID, f)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	if !outcome.OK() {
		return m.setStatus("Slot "+s.ID+" no longer exists", true)
	}
	state := "available"
	if !f.Available {
		state = "unavailable"
	}
	return m.afterMutation(fmt.Sprintf("Marked %s %s", s.ID, state))
}

// deleteSelected removes the selected slot. The controller drops the
// selection once the slot is gone.
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	vc := m.session.View()
	sel := vc.Selection()
	if !sel.HasSlot() {
		return m.setStatus("No slot selected", true)
	}
	if m.session.Service().Delete(sel.Date, sel.SlotID) != slot.OutcomeOK {
		return m.setStatus("Slot "+sel.SlotID+" was already gone", false)
	}
	return m.afterMutation("Deleted slot " + sel.SlotID)
}

// afterMutation shows action and flushes the change to storage.
func (m Model) afterMutation(action string) (tea.Model, tea.Cmd) {
	m.logger.Info(action)
	m.statusMsg = action
	m.statusErr = false
	return m, commands.Sync(action, m.sync)
}

// setStatus shows msg in the footer until the status timeout elapses.
func (m Model) setStatus(msg string, isErr bool) (tea.Model, tea.Cmd) {
	if isErr {
		m.logger.Warn("status", zap.String("msg", msg))
	}
	m.statusSeq++
	m.statusMsg = msg
	m.statusErr = isErr
	return m, commands.ClearStatusAfter(commands.StatusTimeout, m.statusSeq)
}
