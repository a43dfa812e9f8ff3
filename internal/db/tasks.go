package db

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kylehosman/anytask/internal/models"
	"github.com/kylehosman/anytask/internal/ordering"
)

// CreateTask creates a new task at the top of its section's incomplete list:
// the new task takes position 0 and every incomplete sibling shifts down one.
func (db *DB) CreateTask(task *models.Task) error {
	task.SectionID = NormalizeSectionID(task.SectionID)
	return db.withWriteLock(func() error {
		if task.SectionID == "" {
			return fmt.Errorf("task requires a section")
		}
		var exists int
		if err := db.conn.QueryRow(`SELECT COUNT(*) FROM sections WHERE id = ?`, task.SectionID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("section not found: %s", task.SectionID)
		}
		if task.Repeat == "" {
			task.Repeat = models.RepeatNever
		}
		if !models.IsValidRepeat(task.Repeat) {
			return fmt.Errorf("invalid repeat interval: %s", task.Repeat)
		}

		task.CreatedAt = time.Now()
		task.Complete = false
		task.Position = 0

		tx, err := db.conn.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`
			UPDATE tasks SET position = position + 1
			WHERE section_id = ? AND complete = 0
		`, task.SectionID); err != nil {
			return err
		}

		// Retry loop for rare ID collisions (6 hex chars = 16.7M keyspace)
		const maxRetries = 3
		for attempt := 0; attempt < maxRetries; attempt++ {
			id, err := generateTaskID()
			if err != nil {
				return err
			}
			task.ID = id

			_, err = tx.Exec(`
				INSERT INTO tasks (id, text, complete, section_id, position, created_at, due_at, repeat_every)
				VALUES (?, ?, 0, ?, 0, ?, ?, ?)
			`, task.ID, task.Text, task.SectionID, task.CreatedAt, task.DueAt, task.Repeat)

			if err == nil {
				return tx.Commit()
			}
			if !strings.Contains(err.Error(), "UNIQUE constraint") {
				return err
			}
		}
		return fmt.Errorf("failed to generate unique task ID after %d attempts", maxRetries)
	})
}

// GetTask retrieves a task by ID.
// Accepts bare IDs without the tsk- prefix.
func (db *DB) GetTask(id string) (*models.Task, error) {
	id = NormalizeTaskID(id)
	row := db.conn.QueryRow(`
		SELECT id, text, complete, section_id, position, prev_position, created_at, completed_at, due_at, repeat_every
		FROM tasks WHERE id = ?
	`, id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListSectionTasks returns a section's tasks in display order: incomplete
// tasks first by dense position, then completed tasks by completion recency
// (most recent first, id as the stable tie-break).
//
// Sorting happens client-side: the position range may hold transient gaps
// after deletes, and numeric ascending order is correct either way.
func (db *DB) ListSectionTasks(sectionID string) ([]models.Task, error) {
	sectionID = NormalizeSectionID(sectionID)
	rows, err := db.conn.Query(`
		SELECT id, text, complete, section_id, position, prev_position, created_at, completed_at, due_at, repeat_every
		FROM tasks WHERE section_id = ?
	`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	SortForDisplay(tasks)
	return tasks, nil
}

// SortForDisplay sorts tasks in place: incomplete before complete, incomplete
// by position ascending, complete by completed_at descending with missing
// timestamps treated as earliest and ties broken by id ascending.
func SortForDisplay(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Complete != b.Complete {
			return !a.Complete
		}
		if !a.Complete {
			return a.Position < b.Position
		}
		at, bt := completedUnix(a), completedUnix(b)
		if at != bt {
			return at > bt
		}
		return a.ID < b.ID
	})
}

func completedUnix(t models.Task) int64 {
	if t.CompletedAt == nil {
		return 0
	}
	return t.CompletedAt.UnixNano()
}

// UpdateTask updates a task's text, due date, and repeat interval.
func (db *DB) UpdateTask(task *models.Task) error {
	return db.withWriteLock(func() error {
		if !models.IsValidRepeat(task.Repeat) {
			return fmt.Errorf("invalid repeat interval: %s", task.Repeat)
		}
		res, err := db.conn.Exec(`
			UPDATE tasks SET text = ?, due_at = ?, repeat_every = ? WHERE id = ?
		`, task.Text, task.DueAt, task.Repeat, task.ID)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("task not found: %s", task.ID)
		}
		return nil
	})
}

// DeleteTask removes a task. Surviving siblings keep their positions; the
// resulting gap is tolerated until the next move or completion toggle, since
// display sorts numerically regardless of contiguity.
func (db *DB) DeleteTask(id string) error {
	id = NormalizeTaskID(id)
	return db.withWriteLock(func() error {
		res, err := db.conn.Exec(`DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("task not found: %s", id)
		}
		return nil
	})
}

// MoveTasks splices the incomplete tasks of a section: the tasks at the given
// display indices move, preserving relative order, so the first lands at dest.
// Every incomplete task is then renumbered densely from 0.
func (db *DB) MoveTasks(sectionID string, sources []int, dest int) error {
	sectionID = NormalizeSectionID(sectionID)
	return db.withWriteLock(func() error {
		ids, err := db.incompleteIDsOrdered(sectionID)
		if err != nil {
			return err
		}

		reordered := ordering.Splice(ids, sources, dest)
		return db.renumberTx(reordered)
	})
}

// CompleteTask transitions a task to complete: its position is remembered in
// prev_position, incomplete siblings after it close the gap, and its own
// position drops out of the incomplete ranking. No-op if already complete.
func (db *DB) CompleteTask(id string, now time.Time) error {
	id = NormalizeTaskID(id)
	return db.withWriteLock(func() error {
		task, err := db.GetTask(id)
		if err != nil {
			return err
		}
		if task.Complete {
			return nil
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`
			UPDATE tasks SET position = position - 1
			WHERE section_id = ? AND complete = 0 AND position > ?
		`, task.SectionID, task.Position); err != nil {
			return err
		}

		if _, err := tx.Exec(`
			UPDATE tasks SET complete = 1, completed_at = ?, prev_position = ?, position = 0
			WHERE id = ?
		`, now, task.Position, task.ID); err != nil {
			return err
		}

		return tx.Commit()
	})
}

// UncompleteTask transitions a task back to incomplete, restoring its
// remembered position: siblings at or past prev_position shift up to make
// room. Without a remembered position the task is inserted at the top.
// No-op if already incomplete.
func (db *DB) UncompleteTask(id string) error {
	id = NormalizeTaskID(id)
	return db.withWriteLock(func() error {
		task, err := db.GetTask(id)
		if err != nil {
			return err
		}
		if !task.Complete {
			return nil
		}

		restoreAt := 0
		if task.PrevPosition != nil {
			restoreAt = *task.PrevPosition
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`
			UPDATE tasks SET position = position + 1
			WHERE section_id = ? AND complete = 0 AND position >= ?
		`, task.SectionID, restoreAt); err != nil {
			return err
		}

		if _, err := tx.Exec(`
			UPDATE tasks SET complete = 0, completed_at = NULL, prev_position = NULL, position = ?
			WHERE id = ?
		`, restoreAt, task.ID); err != nil {
			return err
		}

		return tx.Commit()
	})
}

// TransferTasks commits a batch of pending (task -> new section) assignments
// accumulated during an edit session. Transferred tasks are appended past the
// destination's current maximum position; density is restored lazily by the
// next move or insert in that section.
func (db *DB) TransferTasks(assignments map[string]string) error {
	if len(assignments) == 0 {
		return nil
	}
	return db.withWriteLock(func() error {
		tx, err := db.conn.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		nextPos := make(map[string]int)
		taskIDs := make([]string, 0, len(assignments))
		for taskID := range assignments {
			taskIDs = append(taskIDs, taskID)
		}
		sort.Strings(taskIDs)

		for _, taskID := range taskIDs {
			sectionID := NormalizeSectionID(assignments[taskID])
			tid := NormalizeTaskID(taskID)

			var exists int
			if err := tx.QueryRow(`SELECT COUNT(*) FROM sections WHERE id = ?`, sectionID).Scan(&exists); err != nil {
				return err
			}
			if exists == 0 {
				return fmt.Errorf("section not found: %s", sectionID)
			}

			pos, ok := nextPos[sectionID]
			if !ok {
				var maxPos sql.NullInt64
				if err := tx.QueryRow(`
					SELECT MAX(position) FROM tasks WHERE section_id = ? AND complete = 0
				`, sectionID).Scan(&maxPos); err != nil {
					return err
				}
				pos = 0
				if maxPos.Valid {
					pos = int(maxPos.Int64) + 1
				}
			}
			nextPos[sectionID] = pos + 1

			res, err := tx.Exec(`
				UPDATE tasks SET section_id = ?, position = ? WHERE id = ?
			`, sectionID, pos, tid)
			if err != nil {
				return err
			}
			n, _ := res.RowsAffected()
			if n == 0 {
				return fmt.Errorf("task not found: %s", tid)
			}
		}

		return tx.Commit()
	})
}

// RenumberSection reassigns dense positions 0..k-1 to a section's incomplete
// tasks in their current display order, clearing any delete-induced gaps.
func (db *DB) RenumberSection(sectionID string) error {
	sectionID = NormalizeSectionID(sectionID)
	return db.withWriteLock(func() error {
		ids, err := db.incompleteIDsOrdered(sectionID)
		if err != nil {
			return err
		}
		return db.renumberTx(ids)
	})
}

func (db *DB) incompleteIDsOrdered(sectionID string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT id FROM tasks
		WHERE section_id = ? AND complete = 0
		ORDER BY position ASC
	`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (db *DB) renumberTx(ids []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE tasks SET position = ? WHERE id = ?`, i, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func spliceIDs(ids []string, src, dest int) []string {
	return ordering.Splice(ids, []int{src}, dest)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	var complete int
	var prevPos sql.NullInt64
	var completedAt, dueAt sql.NullTime

	err := row.Scan(&task.ID, &task.Text, &complete, &task.SectionID, &task.Position,
		&prevPos, &task.CreatedAt, &completedAt, &dueAt, &task.Repeat)
	if err != nil {
		return nil, err
	}

	task.Complete = complete == 1
	if prevPos.Valid {
		p := int(prevPos.Int64)
		task.PrevPosition = &p
	}
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}
	if dueAt.Valid {
		t := dueAt.Time
		task.DueAt = &t
	}
	return &task, nil
}
