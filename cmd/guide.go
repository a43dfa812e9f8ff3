package cmd

import (
	"fmt"

	"github.com/kylehosman/anytask/internal/output"
	"github.com/spf13/cobra"
)

const guideText = `# anytask

Tasks live in sections. One section is *selected* at a time; commands
without an explicit --section act on it.

## Everyday flow

    anytask init                      # once
    anytask add "buy milk"            # lands at the top of the section
    anytask add "call mom" --due "tomorrow 9am" --repeat weekly
    anytask list
    anytask done tsk-ab12cd
    anytask undone tsk-ab12cd         # restores its old slot

## Ordering

Incomplete tasks occupy slots 0..k-1 with no gaps. New tasks enter at
slot 0. Completing a task remembers its slot; un-completing restores it.
Reorder with:

    anytask move tsk-ab12cd 2         # to slot 2 of its section
    anytask transfer tsk-ab12cd --to Work

## Sections

    anytask section add Groceries --color green --icon cart
    anytask section use Groceries
    anytask section list

The *General* section is built in and cannot be renamed or deleted.

## Widget

A separate process (` + "`anytask-widget`" + `) renders the selected section
from a shared snapshot and can toggle tasks or switch sections. Its
writes are picked up automatically by the next anytask command, or
explicitly:

    anytask widget sync
    anytask widget size medium        # show 6 tasks instead of 3

## Reminders

Tasks with a due date get a reminder entry; repeating tasks get the
current occurrence plus the next one. Deliver due reminders with:

    anytask remind due
`

var guideCmd = &cobra.Command{
	Use:     "guide",
	Short:   "Show the usage guide",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			fmt.Print(guideText)
			return nil
		}
		rendered, err := output.RenderMarkdown(guideText)
		if err != nil {
			// Fall back to raw markdown rather than failing the command.
			fmt.Print(guideText)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	guideCmd.Flags().Bool("plain", false, "print raw markdown without styling")
	rootCmd.AddCommand(guideCmd)
}
