package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kylehosman/anytask/internal/config"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/models"
)

func testBridge(t *testing.T) (*Bridge, *db.DB) {
	t.Helper()
	store, err := db.Initialize(t.TempDir())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, nil), store
}

func addSection(t *testing.T, store *db.DB, name string) *models.Section {
	t.Helper()
	s := &models.Section{Name: name, Color: models.ColorBlue, Icon: models.IconStar, Editable: true}
	if err := store.CreateSection(s); err != nil {
		t.Fatalf("CreateSection failed: %v", err)
	}
	return s
}

func addTask(t *testing.T, store *db.DB, sectionID, text string) *models.Task {
	t.Helper()
	task := &models.Task{Text: text, SectionID: sectionID}
	if err := store.CreateTask(task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	return task
}

func TestPublishSnapshot(t *testing.T) {
	b, store := testBridge(t)
	sec := addSection(t, store, "Groceries")

	// Insert-at-top: creation order reversed in display.
	ids := make(map[string]string)
	for _, text := range []string{"D", "C", "B", "A"} {
		ids[text] = addTask(t, store, sec.ID, text).ID
	}

	if err := b.Publish(sec.ID); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	snap := NewClient(store.BaseDir()).Snapshot()
	if snap.Section.ID != sec.ID || snap.Section.Name != "Groceries" {
		t.Errorf("snapshot section = %+v", snap.Section)
	}
	wantOrder := []string{"A", "B", "C", "D"}
	if len(snap.TaskTexts) != 4 {
		t.Fatalf("TaskTexts = %v", snap.TaskTexts)
	}
	for i, text := range wantOrder {
		if snap.TaskTexts[i] != text {
			t.Errorf("TaskTexts[%d] = %q, want %q", i, snap.TaskTexts[i], text)
		}
	}
	// Default widget size shows the small slice.
	if len(snap.VisibleTaskIDs) != config.VisibleTasksSmall {
		t.Errorf("visible slice = %d entries, want %d", len(snap.VisibleTaskIDs), config.VisibleTasksSmall)
	}
	if snap.VisibleTaskIDs[0] != ids["A"] {
		t.Errorf("visible head = %s, want %s", snap.VisibleTaskIDs[0], ids["A"])
	}
	// Both sections (default General plus Groceries) are listed.
	if len(snap.Sections) != 2 {
		t.Errorf("sections = %d, want 2", len(snap.Sections))
	}
	if snap.PublishedAt.IsZero() {
		t.Error("PublishedAt not set")
	}
}

func TestPublishFallsBackToFirstSection(t *testing.T) {
	b, store := testBridge(t)
	addTask(t, store, mustDefaultSection(t, store).ID, "hello")

	if err := b.Publish(""); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	snap := NewClient(store.BaseDir()).Snapshot()
	if snap.Section.Name != db.DefaultSectionName {
		t.Errorf("fallback section = %q", snap.Section.Name)
	}
}

func mustDefaultSection(t *testing.T, store *db.DB) *models.Section {
	t.Helper()
	sec, err := store.GetSectionByName(db.DefaultSectionName)
	if err != nil {
		t.Fatalf("default section missing: %v", err)
	}
	return sec
}

func TestReconcileDirtySection(t *testing.T) {
	b, store := testBridge(t)
	sec := addSection(t, store, "Groceries")
	taskB := addTask(t, store, sec.ID, "B")
	addTask(t, store, sec.ID, "A")

	if err := b.Publish(sec.ID); err != nil {
		t.Fatal(err)
	}

	client := NewClient(store.BaseDir())
	if err := client.ToggleTask(sec.ID, taskB.ID); err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if err := b.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	got, _ := store.GetTask(taskB.ID)
	if !got.Complete {
		t.Error("B not completed by reconciliation")
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	// Flag cleared and snapshot republished with B in the completed set.
	doc := loadDocument(store.BaseDir())
	if doc.DirtySectionID != "" {
		t.Errorf("dirty flag not cleared: %q", doc.DirtySectionID)
	}
	completed := doc.Snapshot.CompletedIDsBySection[sec.ID]
	if len(completed) != 1 || completed[0] != taskB.ID {
		t.Errorf("republished completed set = %v", completed)
	}
	// B left the visible slice.
	for _, id := range doc.Snapshot.VisibleTaskIDs {
		if id == taskB.ID {
			t.Error("completed task still in visible slice")
		}
	}
}

func TestReconcileDirtySectionUncompletes(t *testing.T) {
	b, store := testBridge(t)
	sec := addSection(t, store, "Inbox")
	task := addTask(t, store, sec.ID, "X")

	if err := b.Publish(sec.ID); err != nil {
		t.Fatal(err)
	}
	client := NewClient(store.BaseDir())

	// Toggle on then off from the widget before the app runs: the set
	// round-trips to empty, still dirty, and the task stays incomplete.
	if err := client.ToggleTask(sec.ID, task.ID); err != nil {
		t.Fatal(err)
	}
	if err := client.ToggleTask(sec.ID, task.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	got, _ := store.GetTask(task.ID)
	if got.Complete {
		t.Error("double widget toggle left task complete")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	b, store := testBridge(t)
	sec := addSection(t, store, "Groceries")
	task := addTask(t, store, sec.ID, "A")

	if err := b.Publish(sec.ID); err != nil {
		t.Fatal(err)
	}
	client := NewClient(store.BaseDir())
	if err := client.QueueToggle(task.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.Reconcile(); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}

	sharedPath := filepath.Join(store.BaseDir(), sharedFile)
	before, err := os.ReadFile(sharedPath)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Reconcile(); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}

	after, err := os.ReadFile(sharedPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("second reconcile with empty intents rewrote the shared file")
	}
	got, _ := store.GetTask(task.ID)
	if !got.Complete {
		t.Error("queued toggle did not apply")
	}
}

func TestQueuedToggleXOR(t *testing.T) {
	b, store := testBridge(t)
	sec := addSection(t, store, "Groceries")
	task := addTask(t, store, sec.ID, "A")

	client := NewClient(store.BaseDir())
	if err := client.QueueToggle(task.ID); err != nil {
		t.Fatal(err)
	}
	if err := client.QueueToggle(task.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	got, _ := store.GetTask(task.ID)
	if got.Complete {
		t.Error("double-queued toggle changed completion state")
	}
	if doc := loadDocument(store.BaseDir()); len(doc.PendingToggles) != 0 {
		t.Errorf("queue not drained: %d entries", len(doc.PendingToggles))
	}
}

func TestQueuedToggleForMissingTaskSkipped(t *testing.T) {
	b, store := testBridge(t)
	sec := addSection(t, store, "Groceries")
	survivor := addTask(t, store, sec.ID, "keep")

	client := NewClient(store.BaseDir())
	if err := client.QueueToggle("tsk-000000"); err != nil {
		t.Fatal(err)
	}
	if err := client.QueueToggle(survivor.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	got, _ := store.GetTask(survivor.ID)
	if !got.Complete {
		t.Error("toggle after a missing entry was not applied")
	}
}

func TestSwitchSection(t *testing.T) {
	b, store := testBridge(t)
	first := addSection(t, store, "Inbox")
	second := addSection(t, store, "Work")

	if err := config.SetSelectedSection(store.BaseDir(), first.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.Publish(""); err != nil {
		t.Fatal(err)
	}

	client := NewClient(store.BaseDir())
	if err := client.SwitchSection(second.ID); err != nil {
		t.Fatalf("SwitchSection failed: %v", err)
	}
	if err := b.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	selected, _ := config.GetSelectedSection(store.BaseDir())
	if selected != second.ID {
		t.Errorf("selected section = %s, want %s", selected, second.ID)
	}
	doc := loadDocument(store.BaseDir())
	if doc.SwitchSectionID != "" {
		t.Errorf("switch intent not cleared: %q", doc.SwitchSectionID)
	}
	if doc.Snapshot.Section.ID != second.ID {
		t.Errorf("republished section = %s, want %s", doc.Snapshot.Section.ID, second.ID)
	}
	if doc.Snapshot.LastSelectedSectionID != first.ID {
		t.Errorf("last selected = %s, want %s", doc.Snapshot.LastSelectedSectionID, first.ID)
	}
}

func TestSwitchToMissingSectionIgnored(t *testing.T) {
	b, store := testBridge(t)
	sec := addSection(t, store, "Inbox")
	if err := config.SetSelectedSection(store.BaseDir(), sec.ID); err != nil {
		t.Fatal(err)
	}

	client := NewClient(store.BaseDir())
	if err := client.SwitchSection("sec-ffffff"); err != nil {
		t.Fatal(err)
	}
	if err := b.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	selected, _ := config.GetSelectedSection(store.BaseDir())
	if selected != sec.ID {
		t.Errorf("selection changed to missing section: %s", selected)
	}
}

func TestMalformedSharedFileDefaults(t *testing.T) {
	b, store := testBridge(t)
	addSection(t, store, "Groceries")

	path := filepath.Join(store.BaseDir(), sharedFile)
	if err := os.WriteFile(path, []byte("{torn write"), 0644); err != nil {
		t.Fatal(err)
	}

	snap := NewClient(store.BaseDir()).Snapshot()
	if len(snap.TaskIDs) != 0 || snap.Section.ID != "" {
		t.Errorf("malformed file did not default: %+v", snap)
	}
	if err := b.Reconcile(); err != nil {
		t.Errorf("Reconcile errored on malformed file: %v", err)
	}
}
