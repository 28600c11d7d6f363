package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/slotboard/internal/slot"
)

// Color definitions for consistent styling across the UI.
var (
	// Categories get one hue each so a week reads at a glance.
	colorInstallation = color.New(color.FgCyan, color.Bold)
	colorMaintenance  = color.New(color.FgGreen)
	colorRepair       = color.New(color.FgRed)
	colorConsultation = color.New(color.FgMagenta)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Today marker and totals
	colorHighlight = color.New(color.FgYellow, color.Bold)

	// Muted: for secondary information and unavailable slots
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatCategory colors s with the hue of category c.
func formatCategory(c slot.Category, s string) string {
	switch c {
	case slot.CategoryInstallation:
		return colorInstallation.Sprint(s)
	case slot.CategoryMaintenance:
		return colorMaintenance.Sprint(s)
	case slot.CategoryRepair:
		return colorRepair.Sprint(s)
	case slot.CategoryConsultation:
		return colorConsultation.Sprint(s)
	default:
		return s
	}
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatHighlight formats text that should stand out.
func formatHighlight(s string) string {
	return colorHighlight.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
