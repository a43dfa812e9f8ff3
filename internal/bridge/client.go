package bridge

import (
	"time"
)

// Client is the widget-side half. It never opens the database: it
// renders from the published snapshot and records intents for the app
// to reconcile on its next run.
type Client struct {
	baseDir string
	now     func() time.Time
}

func NewClient(baseDir string) *Client {
	return &Client{baseDir: baseDir, now: time.Now}
}

// Snapshot returns the last published projection. Missing or malformed
// shared state comes back as an empty snapshot, never an error.
func (c *Client) Snapshot() *ProjectionSnapshot {
	doc := loadDocument(c.baseDir)
	return &doc.Snapshot
}

// ToggleTask flips the task's membership in the section's completed set
// and marks the section dirty. The app treats the set as authoritative
// for that section when it reconciles.
func (c *Client) ToggleTask(sectionID, taskID string) error {
	return withSharedLock(c.baseDir, func() error {
		doc := loadDocument(c.baseDir)
		doc.Snapshot.CompletedIDsBySection[sectionID] = toggleMembership(
			doc.Snapshot.CompletedIDsBySection[sectionID], taskID)
		doc.DirtySectionID = sectionID
		return saveDocument(c.baseDir, doc)
	})
}

// QueueToggle records a toggle without touching the completed set, for
// contexts where the widget cannot trust its view of current state.
// Two entries for the same task cancel out at reconcile time.
func (c *Client) QueueToggle(taskID string) error {
	return withSharedLock(c.baseDir, func() error {
		doc := loadDocument(c.baseDir)
		doc.PendingToggles = append(doc.PendingToggles, PendingToggle{
			TaskID:   taskID,
			QueuedAt: c.now(),
		})
		return saveDocument(c.baseDir, doc)
	})
}

// SwitchSection asks the app to make sectionID the selected section.
// No task state is involved.
func (c *Client) SwitchSection(sectionID string) error {
	return withSharedLock(c.baseDir, func() error {
		doc := loadDocument(c.baseDir)
		doc.SwitchSectionID = sectionID
		return saveDocument(c.baseDir, doc)
	})
}

func toggleMembership(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}
