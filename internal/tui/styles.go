package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/slotboard/internal/slot"
	"github.com/javiermolinar/slotboard/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	Base lipgloss.Style

	// Tabs and period title
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Title     lipgloss.Style

	// Day, week and month headers
	DayHeader         lipgloss.Style
	DayHeaderToday    lipgloss.Style
	DayHeaderSelected lipgloss.Style

	TimeLabel lipgloss.Style
	GridLine  lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Warning   lipgloss.Style

	// Footer
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style
	HelpKey     lipgloss.Style

	// Help overlay
	Box lipgloss.Style
}

// NewStyles creates styles from the given theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	return &Styles{
		palette: p,
		Base:    base,

		Tab: base.Foreground(p.FgMuted).Padding(0, 1),
		TabActive: lipgloss.NewStyle().
			Background(p.Accent).
			Foreground(p.TextOnAccent).
			Bold(true).
			Padding(0, 1),
		Title: base.Foreground(p.Accent).Bold(true),

		DayHeader:         base.Foreground(p.Fg).Bold(true),
		DayHeaderToday:    base.Foreground(p.Today).Bold(true),
		DayHeaderSelected: lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Bold(true),

		TimeLabel: base.Foreground(p.FgMuted),
		GridLine:  base.Foreground(p.BgHighlight),
		Muted:     base.Foreground(p.FgMuted),
		Selected:  lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg),
		Warning:   base.Foreground(p.Warning),

		Status:      base.Foreground(p.Accent),
		StatusError: base.Foreground(p.Warning).Bold(true),
		Help:        base.Foreground(p.FgMuted),
		HelpKey:     base.Foreground(p.Fg).Bold(true),

		Box: lipgloss.NewStyle().
			Background(p.BgHighlight).
			Foreground(p.Fg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			BorderBackground(p.BgHighlight).
			Padding(1, 2),
	}
}

// Background returns the screen background color.
func (s *Styles) Background() lipgloss.Color {
	return s.palette.Bg
}

// Block returns the style of a slot block. alt picks the alternate shade
// used when two blocks of one category touch.
func (s *Styles) Block(c slot.Category, available, selected, alt bool) lipgloss.Style {
	cc := s.palette.Category(c)
	bg := cc.Bg
	switch {
	case selected:
		bg = cc.Fg
	case !available:
		bg = cc.UnavailableBg
	case alt:
		bg = cc.BgAlt
	}
	st := lipgloss.NewStyle().Background(bg).Foreground(cc.Text)
	if selected {
		st = st.Foreground(s.palette.Bg).Bold(true)
	}
	if !available {
		st = st.Foreground(s.palette.FgMuted).Strikethrough(!selected)
	}
	return st
}

// Category returns a text style in the category hue.
func (s *Styles) Category(c slot.Category) lipgloss.Style {
	return s.Base.Foreground(s.palette.Category(c).Fg)
}
