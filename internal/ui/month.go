package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotboard/internal/calendar"
	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/slot"
)

const monthCellWidth = 8

func (a *App) monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show a month grid with slot counts",
		Long: `Display six Monday-first weeks covering the month, each day showing how
many slots it has. Days of the neighbouring months are dimmed.`,
		Example: `  slotboard month
  slotboard month 2025-04`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := a.today()
			year, month := today.Year(), today.Month()
			if len(args) == 1 {
				y, m, err := dateutil.ParseMonth(args[0])
				if err != nil {
					return err
				}
				year, month = y, m
			}

			s, err := a.ensureSession(cmd.Context(), logging.SinkStderr)
			if err != nil {
				return err
			}

			fmt.Fprint(a.out, formatMonth(year, month, today, s.Store()))

			first, last := calendar.MonthGridRange(year, month)
			var inMonth []slot.DaySlotGroup
			for _, g := range s.Store().GroupsBetween(first, last) {
				if g.Date.Month() == month {
					inMonth = append(inMonth, g)
				}
			}
			fmt.Fprintln(a.out, FormatStats(GroupStats(inMonth)))
			return nil
		},
	}
}

// formatMonth renders the month grid. Each cell shows the day number and,
// when the day has slots, their count.
func formatMonth(year int, month time.Month, today time.Time, counts interface{ Count(time.Time) int }) string {
	var b strings.Builder
	title := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	fmt.Fprintf(&b, "%s\n", formatHeader(title))

	for i := range calendar.DaysPerWeek {
		fmt.Fprintf(&b, "%-*s", monthCellWidth, calendar.WeekdayShortName(i))
	}
	b.WriteByte('\n')

	for _, week := range calendar.Weeks(calendar.MonthGrid(year, month)) {
		for _, c := range week {
			cell := fmt.Sprintf("%2d", c.Day())
			if n := counts.Count(c.Date); n > 0 {
				cell += fmt.Sprintf(" (%d)", n)
			}
			padded := fmt.Sprintf("%-*s", monthCellWidth, cell)
			switch {
			case dateutil.SameDay(c.Date, today):
				padded = formatHighlight(padded)
			case !c.IsCurrentMonth:
				padded = formatMuted(padded)
			}
			b.WriteString(padded)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
