package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/config"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/models"
	"github.com/spf13/pflag"
)

// openStore opens the shared database and absorbs any intents the
// widget wrote since the last run. Reconciliation failure is logged
// but never blocks the command; the worst case is a stale widget.
func openStore() (*db.DB, *bridge.Bridge, error) {
	database, err := db.Open(getBaseDir())
	if err != nil {
		return nil, nil, err
	}
	b := bridge.New(database, slog.Default())
	if err := b.Reconcile(); err != nil {
		slog.Warn("widget reconciliation failed", "error", err)
	}
	return database, b, nil
}

// runMutation wraps a store mutation with the widget handshake:
// reconcile inbound intents first, apply the mutation, republish.
func runMutation(fn func(store *db.DB, b *bridge.Bridge) error) error {
	store, b, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := fn(store, b); err != nil {
		return err
	}
	if err := b.Publish(""); err != nil {
		slog.Warn("widget publish failed", "error", err)
	}
	return nil
}

// resolveSection maps a --section argument (name or ID) to a section,
// defaulting to the selected section and then to the built-in one.
func resolveSection(store *db.DB, ref string) (*models.Section, error) {
	if ref != "" {
		return store.ResolveSectionRef(ref)
	}
	if selected, _ := config.GetSelectedSection(store.BaseDir()); selected != "" {
		if sec, err := store.GetSection(selected); err == nil {
			return sec, nil
		}
	}
	return store.GetSectionByName(db.DefaultSectionName)
}

// repeatValue is a pflag.Value for the --repeat flag so invalid
// intervals are rejected at parse time.
type repeatValue models.Repeat

var _ pflag.Value = (*repeatValue)(nil)

func (r *repeatValue) String() string {
	return string(*r)
}

func (r *repeatValue) Set(s string) error {
	norm := models.NormalizeRepeat(s)
	if !models.IsValidRepeat(norm) {
		return fmt.Errorf("invalid repeat %q (valid: %s)", s, strings.Join(repeatNames(), ", "))
	}
	*r = repeatValue(norm)
	return nil
}

func (r *repeatValue) Type() string {
	return "interval"
}

func repeatNames() []string {
	var names []string
	for _, rep := range models.Repeats() {
		names = append(names, string(rep))
	}
	return names
}

// incompleteIndex returns the position of taskID within the incomplete
// tasks of its section, in display order.
func incompleteIndex(store *db.DB, task *models.Task) (int, error) {
	tasks, err := store.ListSectionTasks(task.SectionID)
	if err != nil {
		return 0, err
	}
	idx := 0
	for _, t := range tasks {
		if t.Complete {
			continue
		}
		if t.ID == task.ID {
			return idx, nil
		}
		idx++
	}
	return 0, fmt.Errorf("task %s is not in the incomplete list", task.ID)
}
