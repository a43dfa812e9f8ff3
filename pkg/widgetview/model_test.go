package widgetview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/config"
	"github.com/kylehosman/anytask/internal/db"
	"github.com/kylehosman/anytask/internal/models"
)

// seedWidget initializes a store with a section and tasks, publishes a
// snapshot, and returns everything a model test needs.
func seedWidget(t *testing.T, texts ...string) (string, *db.DB, *models.Section) {
	t.Helper()
	dir := t.TempDir()
	store, err := db.Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sec := &models.Section{Name: "Inbox", Color: models.ColorBlue, Icon: models.IconList, Editable: true}
	if err := store.CreateSection(sec); err != nil {
		t.Fatalf("CreateSection failed: %v", err)
	}
	// Insert-at-top reverses creation order, so create in reverse.
	for i := len(texts) - 1; i >= 0; i-- {
		task := &models.Task{Text: texts[i], SectionID: sec.ID}
		if err := store.CreateTask(task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}
	if err := bridge.New(store, nil).Publish(sec.ID); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	return dir, store, sec
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestCursorStaysWithinVisibleWindow(t *testing.T) {
	dir, _, _ := seedWidget(t, "A", "B", "C", "D")
	m := NewModel(dir)

	// Small size shows three rows even though the section has four tasks.
	for i := 0; i < 6; i++ {
		m = press(t, m, runeKey('j'))
	}
	if m.cursor != 2 {
		t.Errorf("cursor after repeated down = %d, want 2", m.cursor)
	}

	for i := 0; i < 6; i++ {
		m = press(t, m, runeKey('k'))
	}
	if m.cursor != 0 {
		t.Errorf("cursor after repeated up = %d, want 0", m.cursor)
	}
}

func TestToggleRecordsIntentAndReconciles(t *testing.T) {
	dir, store, _ := seedWidget(t, "A", "B")
	m := NewModel(dir)
	taskID := m.snap.TaskIDs[0]

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.err != nil {
		t.Fatalf("toggle errored: %v", m.err)
	}
	// The widget's own view flips immediately.
	if !m.isCompleted(taskID) {
		t.Error("task not completed in widget view after toggle")
	}

	if err := bridge.New(store, nil).Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	task, err := store.GetTask(taskID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if task.CompletedAt == nil {
		t.Error("task not completed in store after reconcile")
	}
}

func TestQueueToggleReconciles(t *testing.T) {
	dir, store, _ := seedWidget(t, "A", "B")
	m := NewModel(dir)
	taskID := m.snap.TaskIDs[1]
	m.cursor = 1

	m = press(t, m, runeKey('q'))
	if m.err != nil {
		t.Fatalf("queue errored: %v", m.err)
	}
	// Queued toggles do not touch the completed set until reconciled.
	if m.isCompleted(taskID) {
		t.Error("queued toggle changed the widget view")
	}

	if err := bridge.New(store, nil).Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	task, err := store.GetTask(taskID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if task.CompletedAt == nil {
		t.Error("task not completed in store after reconcile")
	}
}

func TestSwitchToNextSectionCycles(t *testing.T) {
	dir, store, _ := seedWidget(t, "A")
	m := NewModel(dir)

	if len(m.snap.Sections) < 2 {
		t.Fatalf("expected default section plus Inbox, got %d", len(m.snap.Sections))
	}
	current := m.snap.Section.ID
	var want string
	for i, sec := range m.snap.Sections {
		if sec.ID == current {
			want = m.snap.Sections[(i+1)%len(m.snap.Sections)].ID
		}
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.pendingSwitch != want {
		t.Errorf("pendingSwitch = %q, want %q", m.pendingSwitch, want)
	}

	// After the app reconciles, a reload lands on the new section and
	// clears the pending marker.
	if err := bridge.New(store, nil).Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	m = press(t, m, runeKey('r'))
	if m.snap.Section.ID != want {
		t.Errorf("section after reconcile = %q, want %q", m.snap.Section.ID, want)
	}
	if m.pendingSwitch != "" {
		t.Errorf("pendingSwitch not cleared: %q", m.pendingSwitch)
	}
}

func TestCursorClampsWhenSectionShrinks(t *testing.T) {
	dir, store, sec := seedWidget(t, "A", "B", "C")
	m := NewModel(dir)
	m.cursor = 2

	// Complete everything but one task behind the widget's back.
	for _, id := range m.snap.TaskIDs[1:] {
		if err := store.CompleteTask(id, time.Now()); err != nil {
			t.Fatalf("CompleteTask failed: %v", err)
		}
	}
	if err := bridge.New(store, nil).Publish(sec.ID); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	m = press(t, m, runeKey('r'))
	if m.cursor != 0 {
		t.Errorf("cursor after shrink = %d, want 0", m.cursor)
	}
	if got := m.visibleCount(); got != 1 {
		t.Errorf("visibleCount = %d, want 1", got)
	}
}

func TestSizeKeysWriteConfig(t *testing.T) {
	dir, _, _ := seedWidget(t, "A")
	m := NewModel(dir)

	m = press(t, m, runeKey('m'))
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WidgetSize != config.WidgetSizeMedium {
		t.Errorf("WidgetSize = %q, want medium", cfg.WidgetSize)
	}

	m = press(t, m, runeKey('s'))
	cfg, err = config.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WidgetSize != config.WidgetSizeSmall {
		t.Errorf("WidgetSize = %q, want small", cfg.WidgetSize)
	}
}

func TestViewRendersSectionAndTasks(t *testing.T) {
	dir, _, _ := seedWidget(t, "Buy milk", "Walk dog")
	m := NewModel(dir)
	m, _ = toModel(m.Update(tea.WindowSizeMsg{Width: 60, Height: 20}))

	out := m.View()
	if !strings.Contains(out, "Inbox") {
		t.Errorf("view missing section name:\n%s", out)
	}
	if !strings.Contains(out, "Buy milk") || !strings.Contains(out, "Walk dog") {
		t.Errorf("view missing task text:\n%s", out)
	}
	if !strings.Contains(out, "[ ]") {
		t.Errorf("view missing open checkbox:\n%s", out)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	out = m.View()
	if !strings.Contains(out, "[x]") {
		t.Errorf("view missing done checkbox after toggle:\n%s", out)
	}
}

func TestViewWithoutSnapshot(t *testing.T) {
	m := NewModel(t.TempDir())
	out := m.View()
	if !strings.Contains(out, "nothing published yet") {
		t.Errorf("empty view = %q", out)
	}
}

func toModel(m tea.Model, _ tea.Cmd) (Model, tea.Cmd) {
	return m.(Model), nil
}
