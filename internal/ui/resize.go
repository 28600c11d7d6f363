package ui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/slot"
)

// ErrNotResizable is returned when resizing an all-day slot.
var ErrNotResizable = errors.New("all-day slots cannot be resized")

func (a *App) resizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize [slot-id] [minutes]",
		Short: "Change the duration of a slot",
		Long: `Set the duration of a timed slot.

The duration is clamped to the configured [min_duration, max_duration] range.`,
		Example: `  slotboard resize 2025-04-15-1 90`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[1], err)
			}

			s, err := a.ensureSession(cmd.Context(), logging.SinkStderr)
			if err != nil {
				return err
			}
			date, current, err := a.locate(s, args[0])
			if err != nil {
				return err
			}

			switch s.Service().Resize(date, current.ID, minutes) {
			case slot.OutcomeNotFound:
				return fmt.Errorf("%w: %s", ErrSlotNotFound, current.ID)
			case slot.OutcomeNotResizable:
				return fmt.Errorf("%w: %s", ErrNotResizable, current.ID)
			}
			if err := a.synced(); err != nil {
				return err
			}

			updated, _ := s.Store().Slot(date, current.ID)
			fmt.Fprintf(a.out, "Resized slot %s to %s (%s-%s)\n",
				updated.ID, FormatDuration(updated.DurationMinutes), updated.StartTime, updated.EndTime())
			if updated.DurationMinutes != minutes {
				fmt.Fprintln(a.out, formatMuted(fmt.Sprintf("  clamped from %s", FormatDuration(minutes))))
			}
			return nil
		},
	}
}
