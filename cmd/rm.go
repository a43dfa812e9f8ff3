package cmd

import (
	"log/slog"

	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/kylehosman/anytask/internal/reminder"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <task-id>...",
	Aliases: []string{"delete", "del"},
	Short:   "Delete tasks",
	Long:    `Deletes tasks permanently and cancels their reminders. Survivors keep their slots; the gap closes on the next move or toggle.`,
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			spool := reminder.NewSpool(store.BaseDir(), slog.Default())
			for _, arg := range args {
				task, err := store.GetTask(arg)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				if err := store.DeleteTask(task.ID); err != nil {
					output.Error("%v", err)
					return err
				}
				if err := reminder.CancelForTask(spool, task.ID); err != nil {
					output.Warning("reminder not cancelled: %v", err)
				}
				output.Success("Deleted: %s", task.Text)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
