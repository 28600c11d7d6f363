// Package frame composes the final TUI screen: padding to the terminal
// size, background fill and centered overlays.
package frame

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// State contains pre-rendered content for one frame.
type State struct {
	Width   int
	Height  int
	Base    string
	Overlay string // drawn centered over Base when non-empty
	Bg      lipgloss.Color
	Empty   string // shown before the first WindowSizeMsg
}

// Render composes the final view output.
func Render(s State) string {
	if s.Width == 0 || s.Height == 0 {
		if s.Empty != "" {
			return s.Empty
		}
		return "Loading..."
	}
	base := Pad(s.Base, s.Width, s.Height, s.Bg)
	if s.Overlay == "" {
		return base
	}
	return Overlay(base, s.Overlay, s.Width, s.Height, s.Bg)
}

// Place renders content in a lipgloss.Place box with background fill.
func Place(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(
		w,
		h,
		lipgloss.Left,
		vAlign,
		content,
		lipgloss.WithWhitespaceBackground(bg),
	)
	return Pad(placed, w, h, bg)
}

// Pad pads content to width and height with a background color. Lines
// wider than width are cut.
func Pad(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	fill := lipgloss.NewStyle().Background(bg)
	for i, line := range lines {
		w := lipgloss.Width(line)
		switch {
		case w > width:
			lines[i] = ansi.Cut(line, 0, width)
		case w < width:
			lines[i] = line + fill.Render(strings.Repeat(" ", width-w))
		}
	}
	return strings.Join(lines, "\n")
}

// Overlay centers box and splices it over base.
func Overlay(base, box string, width, height int, bg lipgloss.Color) string {
	boxLines := strings.Split(box, "\n")
	boxW := min(lipgloss.Width(box), width)
	boxH := len(boxLines)
	if boxW == 0 {
		return base
	}

	top := max((height-boxH)/2, 0)
	left := max((width-boxW)/2, 0)

	for i, line := range boxLines {
		w := lipgloss.Width(line)
		if w > boxW {
			line = ansi.Cut(line, 0, boxW)
		} else if w < boxW {
			line += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", boxW-w))
		}
		boxLines[i] = reapplyBackground(line, bg) + ansi.ResetStyle
	}

	baseLines := strings.Split(Pad(base, width, height, ""), "\n")
	for row := range baseLines {
		if row < top || row >= top+boxH {
			continue
		}
		line := baseLines[row]
		baseLines[row] = ansi.Cut(line, 0, left) + boxLines[row-top] + ansi.Cut(line, left+boxW, width)
	}
	return strings.Join(baseLines, "\n")
}

// reapplyBackground restores the box background after every ANSI reset so
// styled spans inside the box do not punch holes into it.
func reapplyBackground(line string, bg lipgloss.Color) string {
	if bg == "" {
		return line
	}
	seq := ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+seq)
	return strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+seq)
}
