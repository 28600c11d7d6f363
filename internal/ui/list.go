package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/slot"
)

func (a *App) listCmd() *cobra.Command {
	var (
		category string
		search   string
		from     string
		to       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List slots, optionally filtered",
		Long: `List every slot grouped by date.

--type keeps one category, --search matches title or category text
(case-insensitive). --from and --to bound the dates, inclusive.`,
		Example: `  slotboard list
  slotboard list --type=repair
  slotboard list --search=boiler --from=2025-04-01 --to=2025-04-30`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := slot.Filter{Query: search}
			if category != "" {
				c, err := slot.ParseCategory(category)
				if err != nil {
					return err
				}
				filter.Category = &c
			}

			lo, hi, err := parseBounds(from, to)
			if err != nil {
				return err
			}

			s, err := a.ensureSession(cmd.Context(), logging.SinkStderr)
			if err != nil {
				return err
			}

			groups := slot.FilterGroups(s.Store().GroupsBetween(lo, hi), filter)
			if len(groups) == 0 {
				fmt.Fprintln(a.out, "No slots found.")
				return nil
			}
			printGroups(a.out, groups, titleWidth())
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, FormatStats(GroupStats(groups)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "type", "", "Only show one category")
	cmd.Flags().StringVar(&search, "search", "", "Only show slots whose title or category contains this text")
	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD)")

	return cmd
}

// parseBounds turns optional --from/--to values into an inclusive range.
// A missing bound leaves that side open.
func parseBounds(from, to string) (lo, hi time.Time, err error) {
	lo = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	hi = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if from != "" {
		if lo, err = dateutil.ParseDate(from); err != nil {
			return lo, hi, err
		}
	}
	if to != "" {
		if hi, err = dateutil.ParseDate(to); err != nil {
			return lo, hi, err
		}
	}
	if hi.Before(lo) {
		return lo, hi, dateutil.ErrEndDateBeforeStart
	}
	return lo, hi, nil
}

// printGroups prints slots grouped by date, each row prefixed with its id.
func printGroups(w io.Writer, groups []slot.DaySlotGroup, maxTitle int) {
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "=== %s ===\n", formatHeader(g.Date.Format("Mon 2006-01-02")))
		for _, sl := range g.Slots {
			fmt.Fprintf(w, "  %-14s%s\n", sl.ID, FormatSlotRow(sl, maxTitle))
		}
	}
}
