package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fitSearch()
		return m, nil

	case tea.BlurMsg:
		// The release of a drag that leaves the window never arrives.
		return m.cancelDrag("Resize cancelled: focus lost")

	case commands.SyncedMsg:
		return m.setStatus(msg.Action, false)

	case commands.CopiedMsg:
		return m.setStatus("Copied to clipboard", false)

	case commands.ErrMsg:
		m.logger.Error("tui error", zap.Error(msg.Err))
		return m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true)

	case commands.StatusMsg:
		return m.setStatus(msg.Msg, false)

	case commands.ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}
	return m, nil
}
