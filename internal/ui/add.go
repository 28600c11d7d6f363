package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/slot"
)

// ErrStartRequired is returned when a timed slot is added without --start.
var ErrStartRequired = errors.New("--start is required unless --all-day is set")

// slotFlags are the editable slot fields shared by add and edit.
type slotFlags struct {
	title       string
	start       string
	duration    int
	category    string
	installers  int
	allDay      bool
	unavailable bool
	color       string
}

func (f *slotFlags) register(fs *pflag.FlagSet, withTitle bool) {
	if withTitle {
		fs.StringVar(&f.title, "title", "", "Slot title")
	}
	fs.StringVar(&f.start, "start", "", "Start time (HH:MM)")
	fs.IntVar(&f.duration, "duration", 60, "Duration in minutes")
	fs.StringVar(&f.category, "category", string(slot.CategoryInstallation),
		"Category: installation, maintenance, repair or consultation")
	fs.IntVar(&f.installers, "installers", 1, "Number of installers")
	fs.BoolVar(&f.allDay, "all-day", false, "Make the slot span the whole day")
	fs.BoolVar(&f.unavailable, "unavailable", false, "Mark the slot as not bookable")
	fs.StringVar(&f.color, "color", "", "Color token shown by the board")
}

// apply copies the flags into fields. With onlyChanged set, flags the user
// did not pass leave the existing value alone.
func (f *slotFlags) apply(fs *pflag.FlagSet, fields *slot.Fields, onlyChanged bool) error {
	set := func(name string) bool { return !onlyChanged || fs.Changed(name) }

	if set("title") && fs.Lookup("title") != nil {
		fields.Title = f.title
	}
	if set("start") {
		fields.StartTime = f.start
	}
	if set("duration") {
		fields.DurationMinutes = f.duration
	}
	if set("category") {
		c, err := slot.ParseCategory(f.category)
		if err != nil {
			return err
		}
		fields.Category = c
	}
	if set("installers") {
		fields.InstallerCount = f.installers
	}
	if set("all-day") {
		fields.IsAllDay = f.allDay
	}
	if set("unavailable") {
		fields.Available = !f.unavailable
	}
	if set("color") {
		fields.ColorToken = f.color
	}
	return nil
}

func (a *App) addCmd() *cobra.Command {
	var (
		date  string
		flags slotFlags
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new slot",
		Long: `Add a bookable slot to a day.

Durations are clamped to the configured [min_duration, max_duration] range.
All-day slots always run from 00:00 for 24 hours.`,
		Example: `  slotboard add "Heat pump install" --date=2025-04-15 --start=09:00 --duration=120
  slotboard add "Depot day" --date=friday --all-day --category=consultation`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.allDay && flags.start == "" {
				return ErrStartRequired
			}
			day, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return err
			}

			var fields slot.Fields
			if err := flags.apply(cmd.Flags(), &fields, false); err != nil {
				return err
			}
			if len(args) == 1 {
				fields.Title = args[0]
			}

			s, err := a.ensureSession(cmd.Context(), logging.SinkStderr)
			if err != nil {
				return err
			}
			created, err := s.Service().Create(day, fields)
			if err != nil {
				return err
			}
			if err := a.synced(); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Created slot %s: %s [%s] %s %s\n",
				created.ID, created.Title, created.Category, dateutil.Format(day), describeTime(created))
			if !created.IsAllDay && created.DurationMinutes != fields.DurationMinutes {
				fmt.Fprintln(a.out, formatMuted(fmt.Sprintf("  duration clamped from %s", FormatDuration(fields.DurationMinutes))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, friday, next-monday; default: today)")
	flags.register(cmd.Flags(), false)

	return cmd
}

// describeTime renders when a slot runs.
func describeTime(s slot.TimeSlot) string {
	if s.IsAllDay {
		return "all day"
	}
	return fmt.Sprintf("%s-%s (%s)", s.StartTime, s.EndTime(), FormatDuration(s.DurationMinutes))
}
