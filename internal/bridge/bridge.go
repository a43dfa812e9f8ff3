// Package bridge keeps the shared widget area in sync with the task
// store. The app side publishes a projection of the selected section
// and reconciles write-intents the widget left behind; the widget side
// reads the projection and records intents without touching the store.
package bridge

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kylehosman/anytask/internal/config"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/models"
)

// Bridge is the app-side half: it owns the authoritative store and is
// the only writer of the projection snapshot.
type Bridge struct {
	store   *db.DB
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

func New(store *db.DB, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		store:   store,
		baseDir: store.BaseDir(),
		logger:  logger,
		now:     time.Now,
	}
}

// Publish rebuilds the projection for sectionID and writes the shared
// file. An empty sectionID publishes the configured selected section,
// falling back to the first section by position.
func (b *Bridge) Publish(sectionID string) error {
	return withSharedLock(b.baseDir, func() error {
		doc := loadDocument(b.baseDir)
		snap, err := b.buildSnapshot(sectionID, &doc.Snapshot)
		if err != nil {
			return err
		}
		doc.Snapshot = *snap
		return saveDocument(b.baseDir, doc)
	})
}

// Reconcile absorbs the widget's pending write-intents into the store,
// then republishes so the widget's next read reflects authoritative
// state. Safe to call any number of times: with nothing pending it
// touches neither the store nor the shared file.
func (b *Bridge) Reconcile() error {
	return withSharedLock(b.baseDir, func() error {
		doc := loadDocument(b.baseDir)
		if !doc.hasIntents() {
			return nil
		}

		if doc.DirtySectionID != "" {
			if err := b.applyDirtySection(doc); err != nil {
				return err
			}
			doc.DirtySectionID = ""
		}

		if len(doc.PendingToggles) > 0 {
			b.applyQueuedToggles(doc.PendingToggles)
			doc.PendingToggles = nil
		}

		if doc.SwitchSectionID != "" {
			if _, err := b.store.GetSection(doc.SwitchSectionID); err == nil {
				if err := config.SetSelectedSection(b.baseDir, doc.SwitchSectionID); err != nil {
					return fmt.Errorf("switch section: %w", err)
				}
			} else {
				b.logger.Debug("section switch skipped, section gone", "section", doc.SwitchSectionID)
			}
			doc.SwitchSectionID = ""
		}

		snap, err := b.buildSnapshot("", &doc.Snapshot)
		if err != nil {
			return err
		}
		doc.Snapshot = *snap
		return saveDocument(b.baseDir, doc)
	})
}

// applyDirtySection handles the direct-toggle form: the widget already
// flipped membership in the completed set, so the set is authoritative
// for that section. The original completion time of tasks completed on
// the widget is lost; they get the reconciliation time instead.
func (b *Bridge) applyDirtySection(doc *document) error {
	dirty := doc.DirtySectionID
	completed := make(map[string]bool)
	for _, id := range doc.Snapshot.CompletedIDsBySection[dirty] {
		completed[id] = true
	}

	tasks, err := b.store.ListSectionTasks(dirty)
	if err != nil {
		return fmt.Errorf("reconcile section %s: %w", dirty, err)
	}

	now := b.now()
	for _, task := range tasks {
		want := completed[task.ID]
		if task.Complete == want {
			continue
		}
		if want {
			err = b.store.CompleteTask(task.ID, now)
		} else {
			err = b.store.UncompleteTask(task.ID)
		}
		if err != nil {
			return fmt.Errorf("reconcile task %s: %w", task.ID, err)
		}
		b.logger.Debug("reconciled widget toggle", "task", task.ID, "complete", want)
	}
	return nil
}

// applyQueuedToggles handles the fallback form: each entry inverts the
// task's current state, so a double-queued toggle cancels out. Entries
// whose task no longer exists are dropped, not errors.
func (b *Bridge) applyQueuedToggles(queue []PendingToggle) {
	now := b.now()
	for _, pending := range queue {
		task, err := b.store.GetTask(pending.TaskID)
		if err != nil {
			b.logger.Debug("queued toggle skipped, task gone", "task", pending.TaskID)
			continue
		}
		if task.Complete {
			err = b.store.UncompleteTask(task.ID)
		} else {
			err = b.store.CompleteTask(task.ID, now)
		}
		if err != nil {
			b.logger.Warn("queued toggle failed", "task", task.ID, "error", err)
		}
	}
}

func (b *Bridge) buildSnapshot(sectionID string, prev *ProjectionSnapshot) (*ProjectionSnapshot, error) {
	sections, err := b.store.ListSections()
	if err != nil {
		return nil, err
	}

	selected := b.selectSection(sectionID, sections)
	snap := &ProjectionSnapshot{
		CompletedIDsBySection: make(map[string][]string),
		PublishedAt:           b.now(),
	}

	for _, sec := range sections {
		snap.Sections = append(snap.Sections, sectionRef(&sec))
		tasks, err := b.store.ListSectionTasks(sec.ID)
		if err != nil {
			return nil, err
		}
		var done []string
		for _, task := range tasks {
			if task.Complete {
				done = append(done, task.ID)
			}
		}
		snap.CompletedIDsBySection[sec.ID] = done

		if selected != nil && sec.ID == selected.ID {
			visible := config.VisibleTaskCount(b.baseDir)
			for _, task := range tasks {
				snap.TaskIDs = append(snap.TaskIDs, task.ID)
				snap.TaskTexts = append(snap.TaskTexts, task.Text)
				if !task.Complete && len(snap.VisibleTaskIDs) < visible {
					snap.VisibleTaskIDs = append(snap.VisibleTaskIDs, task.ID)
					snap.VisibleTaskTexts = append(snap.VisibleTaskTexts, task.Text)
				}
			}
		}
	}

	if selected != nil {
		snap.Section = sectionRef(selected)
	}
	if prev != nil {
		snap.LastSelectedSectionID = prev.LastSelectedSectionID
		if prev.Section.ID != "" && prev.Section.ID != snap.Section.ID {
			snap.LastSelectedSectionID = prev.Section.ID
		}
	}
	return snap, nil
}

// selectSection resolves which section to project. Explicit argument
// wins, then the configured selection, then the first section.
func (b *Bridge) selectSection(sectionID string, sections []models.Section) *models.Section {
	if sectionID == "" {
		sectionID, _ = config.GetSelectedSection(b.baseDir)
	}
	for i := range sections {
		if sections[i].ID == sectionID {
			return &sections[i]
		}
	}
	if len(sections) > 0 {
		return &sections[0]
	}
	return nil
}

func sectionRef(sec *models.Section) SectionRef {
	return SectionRef{ID: sec.ID, Name: sec.Name, Color: sec.Color, Icon: sec.Icon}
}
