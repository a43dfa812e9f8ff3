package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/kylehosman/anytask/internal/reminder"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:     "remind",
	Short:   "Manage task reminders",
	GroupID: "widget",
}

var remindListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List pending reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		spool := reminder.NewSpool(getBaseDir(), slog.Default())
		entries := spool.Entries()
		if len(entries) == 0 {
			output.Info("no pending reminders")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  %s\n", e.FireAt.Format("2006-01-02 15:04"), e.Identifier, e.Body)
		}
		return nil
	},
}

var remindDueCmd = &cobra.Command{
	Use:   "due",
	Short: "Fire reminders whose time has passed",
	Long: `Prints due reminders and removes them from the spool. Repeating tasks
that are still incomplete have their due date advanced by the repeat
interval and the next occurrence rescheduled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			spool := reminder.NewSpool(store.BaseDir(), slog.Default())
			now := time.Now()

			due := spool.Due(now)
			if len(due) == 0 {
				output.Info("nothing due")
				return nil
			}

			var fired []string
			for _, e := range due {
				fmt.Printf("%s  %s\n", e.Title, e.Body)
				fired = append(fired, e.ID)
			}
			if err := spool.Remove(fired...); err != nil {
				output.Error("%v", err)
				return err
			}

			// Advance repeating tasks past now and queue the next round.
			rescheduled := 0
			for _, e := range due {
				task, err := store.GetTask(taskIDFromIdentifier(e.Identifier))
				if err != nil || task.Complete {
					continue
				}
				if reminder.Advance(task, now) {
					if err := store.UpdateTask(task); err != nil {
						output.Warning("due date not advanced for %s: %v", task.ID, err)
						continue
					}
					if err := reminder.ScheduleForTask(spool, task); err != nil {
						output.Warning("reminder not rescheduled: %v", err)
						continue
					}
					rescheduled++
				}
			}
			if rescheduled > 0 {
				output.Info("rescheduled %d repeating reminder(s)", rescheduled)
			}
			return nil
		})
	},
}

var remindCancelCmd = &cobra.Command{
	Use:   "cancel <task-id>",
	Short: "Cancel a task's reminders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spool := reminder.NewSpool(getBaseDir(), slog.Default())
		if err := reminder.CancelForTask(spool, db.NormalizeTaskID(args[0])); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Cancelled reminders for %s", db.NormalizeTaskID(args[0]))
		return nil
	},
}

// taskIDFromIdentifier strips the repeat suffix a follow-up
// notification carries.
func taskIDFromIdentifier(identifier string) string {
	const suffix = "-repeat"
	if len(identifier) > len(suffix) && identifier[len(identifier)-len(suffix):] == suffix {
		return identifier[:len(identifier)-len(suffix)]
	}
	return identifier
}

func init() {
	remindCmd.AddCommand(remindListCmd, remindDueCmd, remindCancelCmd)
	rootCmd.AddCommand(remindCmd)
}
