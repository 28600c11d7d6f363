package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotboard/internal/config"
	"github.com/javiermolinar/slotboard/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  slotboard config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive(a.out, os.Stdin)
		},
	}
}

func runConfigInteractive(w io.Writer, in io.Reader) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(w, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(w, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(w, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(w, cfg)

	reader := bufio.NewReader(in)

	// Ask if user wants to edit
	if !promptYesNo(w, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(w, reader, cfg)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "\nConfiguration saved!")
	return nil
}

// editConfig prompts for every setting, keeping the current value on empty input.
func editConfig(w io.Writer, reader *bufio.Reader, cfg *config.Config) {
	cfg.Grid.StartHour = promptInt(w, reader, "Grid start hour", cfg.Grid.StartHour)
	cfg.Grid.SpanHours = promptInt(w, reader, "Grid span (hours)", cfg.Grid.SpanHours)
	cfg.Grid.SnapMinutes = promptInt(w, reader, "Snap (minutes)", cfg.Grid.SnapMinutes)
	cfg.Grid.MinDuration = promptInt(w, reader, "Minimum slot duration (minutes)", cfg.Grid.MinDuration)
	cfg.Grid.MaxDuration = promptInt(w, reader, "Maximum slot duration (minutes)", cfg.Grid.MaxDuration)
	cfg.Grid.Workdays = promptSlice(w, reader, "Workdays (comma-separated)", cfg.Grid.Workdays)
	cfg.Storage.DBPath = promptValue(w, reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(w, reader, cfg.UI.Theme)
	cfg.Log.Level = promptValue(w, reader, "Log level (debug, info, warn, error)", cfg.Log.Level)
	cfg.Log.File = promptValue(w, reader, "Log file", cfg.Log.File)
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[grid]")
	fmt.Fprintf(w, "  start_hour       = %d\n", cfg.Grid.StartHour)
	fmt.Fprintf(w, "  span_hours       = %d\n", cfg.Grid.SpanHours)
	fmt.Fprintf(w, "  snap_minutes     = %d\n", cfg.Grid.SnapMinutes)
	fmt.Fprintf(w, "  min_duration     = %d\n", cfg.Grid.MinDuration)
	fmt.Fprintf(w, "  max_duration     = %d\n", cfg.Grid.MaxDuration)
	fmt.Fprintf(w, "  workdays         = %s\n", strings.Join(cfg.Grid.Workdays, ", "))
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  file             = %s\n", cfg.Log.File)
}

func promptYesNo(w io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(w io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(w io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(w, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(w, "  Invalid number %q\n", value)
	}
}

func promptSlice(w io.Writer, reader *bufio.Reader, label string, current []string) []string {
	currentStr := strings.Join(current, ", ")
	fmt.Fprintf(w, "  %s [%s]: ", label, currentStr)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func promptTheme(w io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(w, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
