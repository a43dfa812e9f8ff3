package cmd

import (
	"fmt"
	"strconv"

	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:     "move <task-id>... <slot>",
	Aliases: []string{"mv"},
	Short:   "Move tasks to a new slot in their section",
	Long: `Moves one or more tasks (all from the same section) so the first lands at
the given zero-based slot among the section's incomplete tasks. Remaining
tasks keep their relative order and slots are renumbered densely.`,
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest, err := strconv.Atoi(args[len(args)-1])
		if err != nil || dest < 0 {
			output.Error("last argument must be a non-negative slot number")
			return fmt.Errorf("invalid slot %q", args[len(args)-1])
		}
		taskArgs := args[:len(args)-1]

		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			var sectionID string
			var sources []int
			for _, arg := range taskArgs {
				task, err := store.GetTask(arg)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				if task.Complete {
					output.Error("%s is complete; only incomplete tasks can be moved", task.ID)
					return fmt.Errorf("task %s is complete", task.ID)
				}
				if sectionID == "" {
					sectionID = task.SectionID
				} else if task.SectionID != sectionID {
					output.Error("all tasks must be in the same section (use 'transfer' to change sections)")
					return fmt.Errorf("tasks span sections")
				}
				idx, err := incompleteIndex(store, task)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				sources = append(sources, idx)
			}

			if err := store.MoveTasks(sectionID, sources, dest); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Moved %d task(s) to slot %d", len(sources), dest)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
