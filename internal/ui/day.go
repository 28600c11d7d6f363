package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/grid"
	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/slot"
)

func (a *App) dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [date]",
		Short: "Show the slots of one day",
		Long: `Display one day's slots: the all-day lane first, then timed slots by
start time. Slots outside the configured grid hours are marked.`,
		Example: `  slotboard day
  slotboard day 2025-04-15`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := a.today()
			if len(args) == 1 {
				d, err := dateutil.ParseDate(args[0])
				if err != nil {
					return err
				}
				date = d
			}

			s, err := a.ensureSession(cmd.Context(), logging.SinkStderr)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, formatHeader(date.Format("Monday, January 2, 2006")))
			fmt.Fprintln(a.out, strings.Repeat("─", 60))
			slots := s.Store().Slots(date)
			if len(slots) == 0 {
				fmt.Fprintln(a.out, "No slots on this day.")
				return nil
			}
			fmt.Fprint(a.out, formatDay(slots, s.Mapper(), titleWidth()))

			stats := GroupStats([]slot.DaySlotGroup{{Date: date, Slots: slots}})
			fmt.Fprintln(a.out, strings.Repeat("─", 60))
			fmt.Fprintln(a.out, FormatStats(stats))
			fmt.Fprintf(a.out, "Bookable: %s\n", AvailabilityBar(stats.Available(), stats.Slots, 20))
			return nil
		},
	}
}

// formatDay renders a day's slots, one row each, marking timed slots that
// start outside the grid.
func formatDay(slots []slot.TimeSlot, m grid.Mapper, maxTitle int) string {
	var b strings.Builder
	for _, sl := range dayOrder(slots) {
		row := fmt.Sprintf("  %-14s%s", sl.ID, FormatSlotRow(sl, maxTitle))
		if !sl.IsAllDay && !m.Visible(sl.StartTime) {
			row += formatMuted("  (outside grid)")
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}

// weekdayLabel renders a date header, highlighting today.
func weekdayLabel(d, today time.Time) string {
	label := d.Format("Mon Jan 2")
	if dateutil.SameDay(d, today) {
		return formatHighlight(label + " (today)")
	}
	return formatHeader(label)
}
