// Package commands provides TUI command constructors and message types.
package commands

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusTimeout is how long a status message stays in the footer.
const StatusTimeout = 3 * time.Second

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message. Seq matches the
// status it clears so an older timer cannot wipe a newer message.
type ClearStatusMsg struct {
	Seq int
}

// SyncedMsg is sent once pending writes have been flushed to storage.
type SyncedMsg struct {
	Action string
}

// CopiedMsg is sent when text was placed on the clipboard.
type CopiedMsg struct {
	Text string
}

// writeClipboard is swapped in tests; the real clipboard needs a display.
var writeClipboard = clipboard.WriteAll

// Copy writes text to the system clipboard.
func Copy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return CopiedMsg{Text: text}
	}
}

// Sync reports the result of flushing a mutation to storage. A nil sync
// function means the session is not backed by storage.
func Sync(action string, sync func() error) tea.Cmd {
	return func() tea.Msg {
		if sync != nil {
			if err := sync(); err != nil {
				return ErrMsg{Err: err}
			}
		}
		return SyncedMsg{Action: action}
	}
}

// ClearStatusAfter clears status seq once d has elapsed.
func ClearStatusAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
