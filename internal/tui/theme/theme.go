// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is the theme used when none, or an unknown one, is configured.
const DefaultName = "mocha"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Header bar, all-day lane
	BgSelection string `toml:"bg_selection"` // Cursor, selection
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Hour labels, other-month days
	Accent      string `toml:"accent"`       // Title, active tab, borders
	Today       string `toml:"today"`        // Today marker
	Warning     string `toml:"warning"`      // Status-line errors

	// One hue per slot category.
	Installation string `toml:"installation"`
	Maintenance  string `toml:"maintenance"`
	Repair       string `toml:"repair"`
	Consultation string `toml:"consultation"`
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = DefaultName
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}
	return parse(name, data)
}

// LoadFile loads a custom theme from a TOML file. Colors the file leaves
// out are taken from the default theme.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}
	base, err := Load(DefaultName)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parsing theme file %q: %w", path, err)
	}
	return base, nil
}

func parse(name string, data []byte) (*Theme, error) {
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()
	return &t, nil
}

func (t *Theme) applyDefaults() {
	if t.BgHighlight == "" {
		t.BgHighlight = t.Bg
	}
	if t.BgSelection == "" {
		t.BgSelection = coalesce(t.BgHighlight, t.Accent)
	}
	if t.Today == "" {
		t.Today = t.Accent
	}
	if t.Warning == "" {
		t.Warning = t.Accent
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
