package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Create the task database",
	Long:    `Creates the shared data directory (default ~/.anytask, override with ANYTASK_DIR) with the SQLite database and a built-in General section.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := getBaseDir()

		if _, err := os.Stat(filepath.Join(dir, "tasks.db")); err == nil {
			output.Warning("%s already initialized", dir)
			return nil
		}

		database, err := db.Initialize(dir)
		if err != nil {
			output.Error("failed to initialize database: %v", err)
			return err
		}
		defer database.Close()

		fmt.Printf("Initialized %s\n", dir)

		// Seed the widget area so a widget started before the first task
		// still has a section to show.
		if err := bridge.New(database, nil).Publish(""); err != nil {
			output.Warning("widget publish failed: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
