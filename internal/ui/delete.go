package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/slot"
)

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [slot-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a slot",
		Long: `Delete a slot by its ID.

Deleting a slot that no longer exists is not an error.`,
		Example: `  slotboard delete 2025-04-15-1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.ensureSession(cmd.Context(), logging.SinkStderr)
			if err != nil {
				return err
			}

			id := args[0]
			date, _, ok := s.Store().Locate(id)
			if !ok || s.Service().Delete(date, id) == slot.OutcomeNotFound {
				fmt.Fprintf(a.out, "Slot %s not found, nothing to delete\n", id)
				return nil
			}
			if err := a.synced(); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Deleted slot %s\n", id)
			return nil
		},
	}
}
