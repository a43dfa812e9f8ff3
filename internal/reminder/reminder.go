// Package reminder turns task due dates into scheduled notifications.
// Scheduling is fire-and-forget: a Scheduler is told "notify at T with
// this text, identified by this key" and can later be told to cancel
// by the same key. The default Scheduler is a JSON spool the `remind`
// command drains.
package reminder

import (
	"time"

	"github.com/kylehosman/anytask/internal/models"
)

// Scheduler is the notification contract. Schedule replaces any
// pending notification with the same identifier.
type Scheduler interface {
	Schedule(identifier, title, body string, fireAt time.Time) error
	Cancel(identifier string) error
}

// repeatSuffix distinguishes the follow-up notification of a repeating
// task from its primary one.
const repeatSuffix = "-repeat"

const defaultTitle = "Task due"

// ScheduleForTask registers the task's notifications. A repeating task
// gets two one-shots, the current occurrence and the next, because the
// repeat intervals are irregular and cannot be expressed as a fixed
// calendar rule.
func ScheduleForTask(s Scheduler, task *models.Task) error {
	if task.DueAt == nil {
		return CancelForTask(s, task.ID)
	}

	if err := s.Schedule(task.ID, defaultTitle, task.Text, *task.DueAt); err != nil {
		return err
	}

	if task.Repeat == models.RepeatNever {
		return s.Cancel(task.ID + repeatSuffix)
	}
	next := task.DueAt.Add(task.Repeat.Interval())
	return s.Schedule(task.ID+repeatSuffix, defaultTitle, task.Text, next)
}

// CancelForTask removes both of a task's notifications.
func CancelForTask(s Scheduler, taskID string) error {
	if err := s.Cancel(taskID); err != nil {
		return err
	}
	return s.Cancel(taskID + repeatSuffix)
}

// Advance moves a repeating task's due date forward past now, stepping
// by its repeat interval. Returns false when the task does not repeat,
// has no due date, or is already in the future.
func Advance(task *models.Task, now time.Time) bool {
	if task.DueAt == nil || task.Repeat == models.RepeatNever {
		return false
	}
	if task.DueAt.After(now) {
		return false
	}
	due := *task.DueAt
	interval := task.Repeat.Interval()
	for !due.After(now) {
		due = due.Add(interval)
	}
	task.DueAt = &due
	return true
}
