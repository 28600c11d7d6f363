// Package tui provides the terminal user interface for slotboard.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/grid"
	"github.com/javiermolinar/slotboard/internal/scheduling"
	"github.com/javiermolinar/slotboard/internal/slot"
	"github.com/javiermolinar/slotboard/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeHelp
	ModeConfirmDelete
)

// Layout constants, in terminal lines and columns.
const (
	headerLines = 2
	footerLines = 2
	timeColW    = 6 // "08:00 "
)

// rowOptions are the minutes one grid line may stand for, finest first.
var rowOptions = []int{15, 30, 60}

// Options configures the TUI.
type Options struct {
	Theme string

	// Sync flushes pending writes and reports storage errors. It runs
	// after every mutation; nil means the session has no storage.
	Sync func() error

	Logger *zap.Logger
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	session *scheduling.Session
	sync    func() error
	logger  *zap.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	mode       Mode
	search     textinput.Model
	filter     slot.Filter
	searchFrom slot.Filter // filter to restore when a search is abandoned

	// Terminal dimensions and layout
	width  int
	height int
	scroll int // first visible line of the Schedule and List views

	// Live drag started from the Day grid
	drag *grid.ResizeSession

	statusMsg string
	statusErr bool
	statusSeq int
}

// New creates a new TUI model over a loaded scheduling session.
func New(s *scheduling.Session, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	t, err := theme.Load(opts.Theme)
	if err != nil {
		logger.Warn("loading theme", zap.String("theme", opts.Theme), zap.Error(err))
	}

	search := textinput.New()
	search.Placeholder = "text or type:repair"
	search.Prompt = "/"
	search.CharLimit = 120

	return Model{
		session: s,
		sync:    opts.Sync,
		logger:  logger,
		theme:   t,
		styles:  NewStyles(t),
		search:  search,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the TUI and blocks until the user quits.
func Run(s *scheduling.Session, opts Options) error {
	model := New(s, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

// Filter returns the active type filter and search text.
func (m Model) Filter() slot.Filter {
	return m.filter
}

// Mode returns the current interaction mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Status returns the footer status message.
func (m Model) Status() string {
	return m.statusMsg
}

// bodyHeight returns the lines left between header and footer.
func (m Model) bodyHeight() int {
	return max(m.height-headerLines-footerLines, 0)
}

// rowMinutes picks the finest row size whose grid fits the body once the
// all-day lane is drawn.
func (m Model) rowMinutes() int {
	avail := m.bodyHeight() - m.allDayLines()
	height := m.session.Mapper().Height()
	for _, rm := range rowOptions {
		if height/rm <= avail {
			return rm
		}
	}
	return rowOptions[len(rowOptions)-1]
}
