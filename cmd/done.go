package cmd

import (
	"log/slog"
	"time"

	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/kylehosman/anytask/internal/reminder"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:     "done <task-id>...",
	Aliases: []string{"check", "complete"},
	Short:   "Mark tasks complete",
	Long:    `Completes tasks, remembering each task's slot so "undone" can restore it. Pending reminders are cancelled.`,
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			now := time.Now()
			spool := reminder.NewSpool(store.BaseDir(), slog.Default())
			for _, arg := range args {
				task, err := store.GetTask(arg)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				if err := store.CompleteTask(task.ID, now); err != nil {
					output.Error("%v", err)
					return err
				}
				if err := reminder.CancelForTask(spool, task.ID); err != nil {
					output.Warning("reminder not cancelled: %v", err)
				}
				output.Success("Done: %s", task.Text)
			}
			return nil
		})
	},
}

var undoneCmd = &cobra.Command{
	Use:     "undone <task-id>...",
	Aliases: []string{"uncheck"},
	Short:   "Mark tasks incomplete again",
	Long:    `Restores tasks to their remembered slot among the incomplete tasks. Reminders for tasks still due are rescheduled.`,
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			now := time.Now()
			spool := reminder.NewSpool(store.BaseDir(), slog.Default())
			for _, arg := range args {
				task, err := store.GetTask(arg)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				if err := store.UncompleteTask(task.ID); err != nil {
					output.Error("%v", err)
					return err
				}
				if task.DueAt != nil && task.DueAt.After(now) {
					restored, _ := store.GetTask(task.ID)
					if err := reminder.ScheduleForTask(spool, restored); err != nil {
						output.Warning("reminder not rescheduled: %v", err)
					}
				}
				output.Success("Restored: %s", task.Text)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
}
