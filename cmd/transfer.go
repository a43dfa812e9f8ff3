package cmd

import (
	"fmt"

	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/spf13/cobra"
)

var transferCmd = &cobra.Command{
	Use:     "transfer <task-id>... --to <section>",
	Aliases: []string{"xfer"},
	Short:   "Move tasks into another section",
	Long: `Reassigns tasks to another section in one batch. Transferred tasks land
below the destination's existing incomplete tasks; slots compact on the
next move or toggle there.`,
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		destRef, _ := cmd.Flags().GetString("to")
		if destRef == "" {
			output.Error("--to is required")
			return fmt.Errorf("--to is required")
		}

		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			dest, err := store.ResolveSectionRef(destRef)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			assignments := make(map[string]string, len(args))
			for _, arg := range args {
				task, err := store.GetTask(arg)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				if task.SectionID == dest.ID {
					output.Warning("%s is already in %s", task.ID, dest.Name)
					continue
				}
				assignments[task.ID] = dest.ID
			}
			if len(assignments) == 0 {
				return nil
			}

			if err := store.TransferTasks(assignments); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Transferred %d task(s) to %s", len(assignments), dest.Name)
			return nil
		})
	},
}

func init() {
	transferCmd.Flags().String("to", "", "destination section name or ID")
	rootCmd.AddCommand(transferCmd)
}
