package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotboard/internal/logging"
)

func (a *App) editCmd() *cobra.Command {
	var flags slotFlags

	cmd := &cobra.Command{
		Use:   "edit [slot-id]",
		Short: "Edit a slot",
		Long: `Change the fields of an existing slot. Only the flags you pass are changed.

Turning --all-day off needs a --start time.`,
		Example: `  slotboard edit 2025-04-15-1 --installers=3
  slotboard edit 2025-04-15-2 --all-day=false --start=13:00 --duration=90`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.ensureSession(cmd.Context(), logging.SinkStderr)
			if err != nil {
				return err
			}
			date, current, err := a.locate(s, args[0])
			if err != nil {
				return err
			}

			fields := current.Fields()
			if err := flags.apply(cmd.Flags(), &fields, true); err != nil {
				return err
			}
			if current.IsAllDay && !fields.IsAllDay && !cmd.Flags().Changed("start") {
				return ErrStartRequired
			}

			if _, err := s.Service().Update(date, current.ID, fields); err != nil {
				return err
			}
			if err := a.synced(); err != nil {
				return err
			}

			updated, _ := s.Store().Slot(date, current.ID)
			fmt.Fprintf(a.out, "Updated slot %s: %s [%s] %s\n",
				updated.ID, updated.Title, updated.Category, describeTime(updated))
			return nil
		},
	}

	flags.register(cmd.Flags(), true)
	return cmd
}
