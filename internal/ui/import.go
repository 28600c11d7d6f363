package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/ics"
	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/slot"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file.ics]",
		Short: "Import slots from an iCalendar file",
		Long: `Create one slot per VEVENT in an iCalendar file.

Imported slots get new ids. Events without a start, or timed events longer
than a day, are skipped. A timed event that runs past midnight stays on its
start date. Durations are clamped like any other slot.`,
		Example: `  slotboard import ~/Downloads/availability.ics`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source file does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source path is a directory: %s", sourcePath)
			}

			s, err := a.ensureSession(cmd.Context(), logging.SinkStderr)
			if err != nil {
				return err
			}

			count, err := importSlots(s.Service(), sourcePath, a.logger)
			if err != nil {
				return err
			}
			if err := a.synced(); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Imported %d slots from %s\n", count, sourcePath)
			return nil
		},
	}

	return cmd
}

func importSlots(svc *slot.Service, sourcePath string, logger *zap.Logger) (int, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("opening source file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := ics.Read(f, ics.ReadOptions{Logger: logger})
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, e := range entries {
		if _, err := svc.Create(e.Date, e.Fields); err != nil {
			return imported, fmt.Errorf("importing event %q: %w", e.UID, err)
		}
		imported++
	}
	return imported, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
