package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotboard/internal/ics"
	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/slot"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		out      string
		category string
		from     string
		to       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export slots as an iCalendar file",
		Long: `Write slots as VEVENTs to an .ics file, or to stdout with --out=-.

Each event's UID is the slot id, so re-importing an updated export into a
calendar replaces events instead of duplicating them.`,
		Example: `  slotboard export --out=slots.ics
  slotboard export --from=2025-04-01 --to=2025-04-30 --type=installation --out=-`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter slot.Filter
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

			var w io.Writer = a.out
			if out != "-" {
				path, err := resolvePath(out)
				if err != nil {
					return err
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := ics.Write(w, groups, ics.Options{Now: a.now}); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(a.out, "Exported %d slots to %s\n", ics.Count(groups), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "slotboard.ics", "Output file, or - for stdout")
	cmd.Flags().StringVar(&category, "type", "", "Only export one category")
	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD)")

	return cmd
}
