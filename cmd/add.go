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

var addRepeat repeatValue = repeatValue(models.RepeatNever)

var addCmd = &cobra.Command{
	Use:     "add [text]",
	Aliases: []string{"a", "new"},
	Short:   "Add a task to the top of a section",
	Long:    `Adds a task at the top of its section. Existing incomplete tasks shift down one slot.`,
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			output.Error("task text is required")
			return fmt.Errorf("task text is required")
		}

		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			sectionRef, _ := cmd.Flags().GetString("section")
			section, err := resolveSection(store, sectionRef)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			task := &models.Task{
				Text:      text,
				SectionID: section.ID,
				Repeat:    models.Repeat(addRepeat),
			}

			if due, _ := cmd.Flags().GetString("due"); due != "" {
				at, err := dateparse.ParseDue(due)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				task.DueAt = &at
			}
			if task.DueAt == nil && task.Repeat != models.RepeatNever {
				output.Error("--repeat requires --due")
				return fmt.Errorf("--repeat requires --due")
			}

			if err := store.CreateTask(task); err != nil {
				output.Error("%v", err)
				return err
			}

			if task.DueAt != nil {
				spool := reminder.NewSpool(store.BaseDir(), slog.Default())
				if err := reminder.ScheduleForTask(spool, task); err != nil {
					output.Warning("reminder not scheduled: %v", err)
				}
			}

			output.Success("Added %s to %s", task.ID, section.Name)
			return nil
		})
	},
}

func init() {
	addCmd.Flags().StringP("section", "s", "", "section name or ID (default: selected section)")
	addCmd.Flags().String("due", "", "due date (e.g. 'tomorrow 9am', '+2h', '2026-03-01 14:00')")
	addCmd.Flags().Var(&addRepeat, "repeat", "repeat interval (hourly, daily, weekly, biweekly, monthly, bimonthly, yearly)")
	rootCmd.AddCommand(addCmd)
}
