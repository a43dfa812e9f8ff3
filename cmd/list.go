package cmd

import (
	"fmt"
	"time"

	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/models"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List tasks",
	Long:    `Lists the selected section's tasks in display order: incomplete tasks by slot, then completed tasks newest first.`,
	GroupID: "tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		all, _ := cmd.Flags().GetBool("all")
		asJSON, _ := cmd.Flags().GetBool("json")

		var sections []models.Section
		if all {
			sections, err = store.ListSections()
			if err != nil {
				output.Error("%v", err)
				return err
			}
		} else {
			sectionRef, _ := cmd.Flags().GetString("section")
			section, err := resolveSection(store, sectionRef)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			sections = []models.Section{*section}
		}

		if asJSON {
			return listJSON(store, sections)
		}

		now := time.Now()
		for _, section := range sections {
			tasks, err := store.ListSectionTasks(section.ID)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			fmt.Printf("%s %s\n", output.SectionGlyph(&section), output.FormatSectionName(&section))
			if len(tasks) == 0 {
				fmt.Println(output.IndentString("no tasks", 2))
				continue
			}
			for i := range tasks {
				fmt.Println(output.IndentString(output.FormatTaskLine(&tasks[i], now), 2))
			}
		}
		return nil
	},
}

type sectionListing struct {
	Section models.Section `json:"section"`
	Tasks   []models.Task  `json:"tasks"`
}

func listJSON(store *db.DB, sections []models.Section) error {
	var out []sectionListing
	for _, section := range sections {
		tasks, err := store.ListSectionTasks(section.ID)
		if err != nil {
			return err
		}
		out = append(out, sectionListing{Section: section, Tasks: tasks})
	}
	return output.JSON(out)
}

func init() {
	listCmd.Flags().StringP("section", "s", "", "section name or ID (default: selected section)")
	listCmd.Flags().BoolP("all", "a", false, "list every section")
	listCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}
