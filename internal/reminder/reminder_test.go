package reminder

import (
	"testing"
	"time"

	"github.com/kylehosman/anytask/internal/models"
)

func testSpool(t *testing.T) *Spool {
	t.Helper()
	return NewSpool(t.TempDir(), nil)
}

func TestScheduleReplacesIdentifier(t *testing.T) {
	s := testSpool(t)
	first := time.Now().Add(time.Hour)
	second := first.Add(time.Hour)

	if err := s.Schedule("tsk-abc123", "Task due", "milk", first); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if err := s.Schedule("tsk-abc123", "Task due", "milk", second); err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}

	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if !entries[0].FireAt.Equal(second) {
		t.Errorf("FireAt = %v, want %v", entries[0].FireAt, second)
	}
	if entries[0].ID == "" {
		t.Error("entry ID not assigned")
	}
}

func TestCancelUnknownIsNoop(t *testing.T) {
	s := testSpool(t)
	if err := s.Cancel("tsk-nope"); err != nil {
		t.Errorf("Cancel of unknown identifier errored: %v", err)
	}
}

func TestDue(t *testing.T) {
	s := testSpool(t)
	now := time.Now()
	if err := s.Schedule("past", "Task due", "a", now.Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("future", "Task due", "b", now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	due := s.Due(now)
	if len(due) != 1 || due[0].Identifier != "past" {
		t.Errorf("Due = %+v, want only the past entry", due)
	}
}

func TestRemove(t *testing.T) {
	s := testSpool(t)
	if err := s.Schedule("one", "Task due", "a", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("two", "Task due", "b", time.Now()); err != nil {
		t.Fatal(err)
	}

	entries := s.Entries()
	if err := s.Remove(entries[0].ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	left := s.Entries()
	if len(left) != 1 || left[0].ID == entries[0].ID {
		t.Errorf("Remove left %+v", left)
	}
}

func TestScheduleForTaskRepeating(t *testing.T) {
	s := testSpool(t)
	due := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	task := &models.Task{ID: "tsk-abc123", Text: "water plants", DueAt: &due, Repeat: models.RepeatWeekly}

	if err := ScheduleForTask(s, task); err != nil {
		t.Fatalf("ScheduleForTask failed: %v", err)
	}

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (occurrence + repeat)", len(entries))
	}
	if entries[0].Identifier != "tsk-abc123" {
		t.Errorf("first identifier = %q", entries[0].Identifier)
	}
	if entries[1].Identifier != "tsk-abc123"+repeatSuffix {
		t.Errorf("second identifier = %q", entries[1].Identifier)
	}
	wantNext := due.Add(models.RepeatWeekly.Interval())
	if !entries[1].FireAt.Equal(wantNext) {
		t.Errorf("repeat FireAt = %v, want %v", entries[1].FireAt, wantNext)
	}
}

func TestScheduleForTaskNonRepeating(t *testing.T) {
	s := testSpool(t)
	due := time.Now().Add(time.Hour)
	task := &models.Task{ID: "tsk-abc123", Text: "one-off", DueAt: &due, Repeat: models.RepeatWeekly}

	if err := ScheduleForTask(s, task); err != nil {
		t.Fatal(err)
	}
	// Editing the repeat away removes the follow-up entry.
	task.Repeat = models.RepeatNever
	if err := ScheduleForTask(s, task); err != nil {
		t.Fatal(err)
	}

	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Identifier != task.ID {
		t.Errorf("identifier = %q", entries[0].Identifier)
	}
}

func TestScheduleForTaskWithoutDueCancels(t *testing.T) {
	s := testSpool(t)
	due := time.Now().Add(time.Hour)
	task := &models.Task{ID: "tsk-abc123", Text: "x", DueAt: &due, Repeat: models.RepeatDaily}
	if err := ScheduleForTask(s, task); err != nil {
		t.Fatal(err)
	}

	task.DueAt = nil
	if err := ScheduleForTask(s, task); err != nil {
		t.Fatal(err)
	}
	if entries := s.Entries(); len(entries) != 0 {
		t.Errorf("entries = %+v, want none", entries)
	}
}

func TestAdvance(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	overdue := now.Add(-25 * time.Hour)
	task := &models.Task{DueAt: &overdue, Repeat: models.RepeatDaily}
	if !Advance(task, now) {
		t.Fatal("Advance returned false for overdue repeating task")
	}
	if !task.DueAt.After(now) {
		t.Errorf("DueAt = %v, still in the past", task.DueAt)
	}
	// Two overdue intervals step twice: -25h + 48h = +23h.
	if got := task.DueAt.Sub(now); got != 23*time.Hour {
		t.Errorf("advanced by wrong amount: due %v after now", got)
	}

	future := now.Add(time.Hour)
	task = &models.Task{DueAt: &future, Repeat: models.RepeatDaily}
	if Advance(task, now) {
		t.Error("Advance moved a future due date")
	}

	task = &models.Task{DueAt: &overdue, Repeat: models.RepeatNever}
	if Advance(task, now) {
		t.Error("Advance moved a non-repeating task")
	}
}
