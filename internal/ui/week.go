package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotboard/internal/calendar"
	"github.com/javiermolinar/slotboard/internal/config"
	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/slot"
)

func (a *App) weekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Show the slots of a week",
		Long: `Display Monday through Sunday of the week containing the date
(default: today), with per-category totals and the share of bookable slots.`,
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

			monday, sunday := dateutil.WeekRange(date)
			header := fmt.Sprintf("WEEK: %s - %s", monday.Format("Mon Jan 2"), sunday.Format("Mon Jan 2, 2006"))
			fmt.Fprintf(a.out, "\n  %s\n", formatHeader(header))
			fmt.Fprintln(a.out, strings.Repeat("─", 74))

			groups := s.Store().GroupsBetween(monday, sunday)
			printWeekTable(a.out, s.Store(), calendar.WeekDays(monday), a.today(), a.config, titleWidth())

			stats := GroupStats(groups)
			fmt.Fprintln(a.out, strings.Repeat("─", 74))
			fmt.Fprintf(a.out, "  %s\n", FormatStats(stats))
			fmt.Fprintf(a.out, "  Bookable: %s\n\n", AvailabilityBar(stats.Available(), stats.Slots, 20))
			return nil
		},
	}

	return cmd
}

// printWeekTable prints each day of the week with its slots. Days outside
// the configured workdays with no slots are collapsed to their header.
func printWeekTable(w io.Writer, store *slot.Store, days [calendar.DaysPerWeek]time.Time, today time.Time, cfg *config.Config, maxTitle int) {
	for _, d := range days {
		slots := store.Slots(d)
		label := weekdayLabel(d, today)
		switch {
		case len(slots) == 0 && !cfg.IsWorkday(strings.ToLower(d.Weekday().String())):
			fmt.Fprintf(w, "  %s  %s\n", label, formatMuted("(day off)"))
			continue
		case len(slots) == 0:
			fmt.Fprintf(w, "  %s  %s\n", label, formatMuted("no slots"))
			continue
		}
		fmt.Fprintf(w, "  %s\n", label)
		for _, sl := range dayOrder(slots) {
			fmt.Fprintf(w, "  %s\n", FormatSlotRow(sl, maxTitle))
		}
	}
}
