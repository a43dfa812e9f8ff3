package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/dateparse"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/models"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/kylehosman/anytask/internal/reminder"
	"github.com/spf13/cobra"
)

var editRepeat repeatValue

var editCmd = &cobra.Command{
	Use:     "edit <task-id>",
	Short:   "Edit a task's text, due date, or repeat",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			task, err := store.GetTask(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}

			changed := false
			if text, _ := cmd.Flags().GetString("text"); text != "" {
				task.Text = strings.TrimSpace(text)
				changed = true
			}
			if clear, _ := cmd.Flags().GetBool("clear-due"); clear {
				task.DueAt = nil
				task.Repeat = models.RepeatNever
				changed = true
			} else if due, _ := cmd.Flags().GetString("due"); due != "" {
				at, err := dateparse.ParseDue(due)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				task.DueAt = &at
				changed = true
			}
			if cmd.Flags().Changed("repeat") {
				task.Repeat = models.Repeat(editRepeat)
				changed = true
			}

			if !changed {
				output.Error("nothing to change (use --text, --due, --repeat, or --clear-due)")
				return fmt.Errorf("no edits given")
			}
			if task.DueAt == nil && task.Repeat != models.RepeatNever {
				output.Error("--repeat requires a due date")
				return fmt.Errorf("--repeat requires a due date")
			}

			if err := store.UpdateTask(task); err != nil {
				output.Error("%v", err)
				return err
			}

			spool := reminder.NewSpool(store.BaseDir(), slog.Default())
			if err := reminder.ScheduleForTask(spool, task); err != nil {
				output.Warning("reminder not updated: %v", err)
			}

			output.Success("Updated %s", task.ID)
			return nil
		})
	},
}

func init() {
	editCmd.Flags().String("text", "", "new task text")
	editCmd.Flags().String("due", "", "new due date")
	editCmd.Flags().Var(&editRepeat, "repeat", "new repeat interval (or 'never')")
	editCmd.Flags().Bool("clear-due", false, "remove the due date and repeat")
	rootCmd.AddCommand(editCmd)
}
