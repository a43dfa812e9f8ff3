package cmd

import (
	"fmt"

	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/config"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/spf13/cobra"
)

var widgetCmd = &cobra.Command{
	Use:     "widget",
	Short:   "Manage the shared widget area",
	GroupID: "widget",
}

var widgetSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile widget intents and republish",
	Long:  `Absorbs pending widget toggles and section switches into the task store, then republishes the projection. Every other command does this implicitly; sync exists for running it on its own (e.g. from a timer).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// openStore already reconciles; publish to refresh the snapshot
		// even when nothing was pending.
		store, b, err := openStore()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		if err := b.Publish(""); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Widget area synced")
		return nil
	},
}

var widgetPublishCmd = &cobra.Command{
	Use:   "publish [section]",
	Short: "Publish a section's projection without reconciling",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		sectionID := ""
		if len(args) > 0 {
			section, err := store.ResolveSectionRef(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			sectionID = section.ID
		}

		if err := bridge.New(store, nil).Publish(sectionID); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Published")
		return nil
	},
}

var widgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the published projection",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := bridge.NewClient(getBaseDir()).Snapshot()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(snap)
		}

		if snap.Section.ID == "" {
			output.Info("nothing published yet (run 'anytask widget sync')")
			return nil
		}
		fmt.Printf("Section: %s (%s)\n", snap.Section.Name, snap.Section.ID)
		fmt.Printf("Published: %s\n", output.FormatTimeAgo(snap.PublishedAt))
		fmt.Printf("Tasks: %d total, %d visible\n", len(snap.TaskIDs), len(snap.VisibleTaskIDs))
		for i, text := range snap.VisibleTaskTexts {
			fmt.Printf("  %d. %s\n", i, text)
		}
		return nil
	},
}

var widgetSizeCmd = &cobra.Command{
	Use:   "size <small|medium>",
	Short: "Set the widget size (small shows 3 tasks, medium 6)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size := args[0]
		if size != config.WidgetSizeSmall && size != config.WidgetSizeMedium {
			output.Error("invalid size %q (valid: small, medium)", size)
			return fmt.Errorf("invalid size %q", size)
		}
		return runMutation(func(store *db.DB, b *bridge.Bridge) error {
			if err := config.SetWidgetSize(store.BaseDir(), size); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Widget size set to %s", size)
			return nil
		})
	},
}

func init() {
	widgetStatusCmd.Flags().Bool("json", false, "output as JSON")
	widgetCmd.AddCommand(widgetSyncCmd, widgetPublishCmd, widgetStatusCmd, widgetSizeCmd)
	rootCmd.AddCommand(widgetCmd)
}
