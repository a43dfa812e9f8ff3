package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/config"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/models"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/spf13/cobra"
)

var errNameRequired = errors.New("name is required")

var sectionCmd = &cobra.Command{
	Use:     "section",
	Aliases: []string{"sec"},
	Short:   "Manage sections",
	GroupID: "sections",
}

var sectionAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a section",
	Long:  `Creates a section at the end of the section list. Without arguments an interactive form asks for name, color, and icon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			section := &models.Section{Editable: true, Color: models.ColorGray, Icon: models.IconList}

			if len(args) > 0 {
				section.Name = strings.TrimSpace(strings.Join(args, " "))
				if c, _ := cmd.Flags().GetString("color"); c != "" {
					section.Color = models.NormalizeColor(c)
				}
				if ic, _ := cmd.Flags().GetString("icon"); ic != "" {
					section.Icon = models.NormalizeIcon(ic)
				}
			} else {
				if err := runSectionForm("New Section", section); err != nil {
					return err
				}
			}

			if section.Name == "" {
				output.Error("%v", errNameRequired)
				return errNameRequired
			}

			if err := store.CreateSection(section); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Created section %s (%s)", section.Name, section.ID)
			return nil
		})
	},
}

var sectionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		sections, err := store.ListSections()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(sections)
		}

		selected, _ := config.GetSelectedSection(store.BaseDir())
		for i := range sections {
			section := &sections[i]
			open, done, err := sectionCounts(store, section.ID)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			line := output.FormatSectionLine(section, open, done)
			if section.ID == selected {
				line += "  *"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var sectionEditCmd = &cobra.Command{
	Use:   "edit <section>",
	Short: "Edit a section's name, color, or icon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			section, err := store.ResolveSectionRef(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}

			flagged := false
			if name, _ := cmd.Flags().GetString("name"); name != "" {
				section.Name = strings.TrimSpace(name)
				flagged = true
			}
			if c, _ := cmd.Flags().GetString("color"); c != "" {
				section.Color = models.NormalizeColor(c)
				flagged = true
			}
			if ic, _ := cmd.Flags().GetString("icon"); ic != "" {
				section.Icon = models.NormalizeIcon(ic)
				flagged = true
			}
			if !flagged {
				if err := runSectionForm("Edit Section: "+section.Name, section); err != nil {
					return err
				}
			}

			if err := store.UpdateSection(section); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Updated section %s", section.Name)
			return nil
		})
	},
}

var sectionRmCmd = &cobra.Command{
	Use:     "rm <section>",
	Aliases: []string{"delete"},
	Short:   "Delete a section and all its tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			section, err := store.ResolveSectionRef(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if err := store.DeleteSection(section.ID); err != nil {
				output.Error("%v", err)
				return err
			}
			// Selection falls back to the default section.
			if selected, _ := config.GetSelectedSection(store.BaseDir()); selected == section.ID {
				if def, err := store.GetSectionByName(db.DefaultSectionName); err == nil {
					config.SetSelectedSection(store.BaseDir(), def.ID)
				}
			}
			output.Success("Deleted section %s and its tasks", section.Name)
			return nil
		})
	},
}

var sectionUseCmd = &cobra.Command{
	Use:     "use <section>",
	Aliases: []string{"select"},
	Short:   "Make a section the selected one",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			section, err := store.ResolveSectionRef(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if err := config.SetSelectedSection(store.BaseDir(), section.ID); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Selected %s", section.Name)
			return nil
		})
	},
}

var sectionMoveCmd = &cobra.Command{
	Use:   "move <section> <slot>",
	Short: "Move a section to a new slot in the section list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := strconv.Atoi(args[1])
		if err != nil || slot < 0 {
			output.Error("slot must be a non-negative number")
			return fmt.Errorf("invalid slot %q", args[1])
		}
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			section, err := store.ResolveSectionRef(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if err := store.MoveSection(section.ID, slot); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Moved %s to slot %d", section.Name, slot)
			return nil
		})
	},
}

// runSectionForm collects name, color, and icon interactively.
func runSectionForm(title string, section *models.Section) error {
	var colorOptions []huh.Option[string]
	for _, c := range models.Colors() {
		colorOptions = append(colorOptions, huh.NewOption(string(c), string(c)))
	}
	var iconOptions []huh.Option[string]
	for _, ic := range models.Icons() {
		iconOptions = append(iconOptions, huh.NewOption(string(ic), string(ic)))
	}

	color := string(section.Color)
	icon := string(section.Icon)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&section.Name).
				Placeholder("Section name...").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errNameRequired
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions...).
				Value(&color),
			huh.NewSelect[string]().
				Title("Icon").
				Options(iconOptions...).
				Value(&icon),
		).Title(title),
	)

	if err := form.Run(); err != nil {
		return err
	}
	section.Name = strings.TrimSpace(section.Name)
	section.Color = models.Color(color)
	section.Icon = models.Icon(icon)
	return nil
}

func sectionCounts(store *db.DB, sectionID string) (open, done int, err error) {
	tasks, err := store.ListSectionTasks(sectionID)
	if err != nil {
		return 0, 0, err
	}
	for _, task := range tasks {
		if task.Complete {
			done++
		} else {
			open++
		}
	}
	return open, done, nil
}

func init() {
	sectionAddCmd.Flags().String("color", "", "section color (gray, red, orange, yellow, green, blue, purple, pink)")
	sectionAddCmd.Flags().String("icon", "", "section icon (list, star, heart, cart, book, briefcase, home, bell)")
	sectionEditCmd.Flags().String("name", "", "new section name")
	sectionEditCmd.Flags().String("color", "", "new section color")
	sectionEditCmd.Flags().String("icon", "", "new section icon")
	sectionListCmd.Flags().Bool("json", false, "output as JSON")

	sectionCmd.AddCommand(sectionAddCmd, sectionListCmd, sectionEditCmd, sectionRmCmd, sectionUseCmd, sectionMoveCmd)
	rootCmd.AddCommand(sectionCmd)
}
