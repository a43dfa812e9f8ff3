package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kylehosman/anytask/internal/models"
)

// DefaultSectionName is the catch-all section created on first launch.
const DefaultSectionName = "General"

// CreateSection creates a new section, appended after all existing sections.
func (db *DB) CreateSection(section *models.Section) error {
	return db.withWriteLock(func() error {
		if section.Color == "" {
			section.Color = models.ColorGray
		}
		if section.Icon == "" {
			section.Icon = models.IconList
		}
		if !models.IsValidColor(section.Color) {
			return fmt.Errorf("invalid color: %s", section.Color)
		}
		if !models.IsValidIcon(section.Icon) {
			return fmt.Errorf("invalid icon: %s", section.Icon)
		}

		section.CreatedAt = time.Now()

		var maxPos sql.NullInt64
		if err := db.conn.QueryRow(`SELECT MAX(position) FROM sections`).Scan(&maxPos); err != nil {
			return err
		}
		if maxPos.Valid {
			section.Position = int(maxPos.Int64) + 1
		} else {
			section.Position = 0
		}

		// Retry loop for rare ID collisions (6 hex chars = 16.7M keyspace)
		const maxRetries = 3
		for attempt := 0; attempt < maxRetries; attempt++ {
			id, err := generateSectionID()
			if err != nil {
				return err
			}
			section.ID = id

			_, err = db.conn.Exec(`
				INSERT INTO sections (id, name, color, icon, editable, position, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, section.ID, section.Name, section.Color, section.Icon, boolToInt(section.Editable), section.Position, section.CreatedAt)

			if err == nil {
				return nil
			}
			if !strings.Contains(err.Error(), "UNIQUE constraint") {
				return err
			}
		}
		return fmt.Errorf("failed to generate unique section ID after %d attempts", maxRetries)
	})
}

// GetSection retrieves a section by ID.
// Accepts bare IDs without the sec- prefix.
func (db *DB) GetSection(id string) (*models.Section, error) {
	id = NormalizeSectionID(id)
	var section models.Section
	var editable int

	err := db.conn.QueryRow(`
		SELECT id, name, color, icon, editable, position, created_at
		FROM sections WHERE id = ?
	`, id).Scan(&section.ID, &section.Name, &section.Color, &section.Icon, &editable, &section.Position, &section.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("section not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	section.Editable = editable == 1
	return &section, nil
}

// GetSectionByName retrieves a section by name (case-insensitive).
func (db *DB) GetSectionByName(name string) (*models.Section, error) {
	var section models.Section
	var editable int

	err := db.conn.QueryRow(`
		SELECT id, name, color, icon, editable, position, created_at
		FROM sections WHERE name = ? COLLATE NOCASE
		ORDER BY position ASC LIMIT 1
	`, name).Scan(&section.ID, &section.Name, &section.Color, &section.Icon, &editable, &section.Position, &section.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("section not found: %s", name)
	}
	if err != nil {
		return nil, err
	}

	section.Editable = editable == 1
	return &section, nil
}

// ResolveSectionRef resolves a section reference (ID or name).
func (db *DB) ResolveSectionRef(ref string) (*models.Section, error) {
	if strings.HasPrefix(ref, sectionIDPrefix) {
		return db.GetSection(ref)
	}
	return db.GetSectionByName(ref)
}

// ListSections returns all sections in display order.
func (db *DB) ListSections() ([]models.Section, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, color, icon, editable, position, created_at
		FROM sections ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var section models.Section
		var editable int
		if err := rows.Scan(&section.ID, &section.Name, &section.Color, &section.Icon, &editable, &section.Position, &section.CreatedAt); err != nil {
			return nil, err
		}
		section.Editable = editable == 1
		sections = append(sections, section)
	}

	return sections, rows.Err()
}

// UpdateSection updates a section's name, color, and icon.
// Non-editable sections (the built-in default) are rejected.
func (db *DB) UpdateSection(section *models.Section) error {
	return db.withWriteLock(func() error {
		var editable int
		err := db.conn.QueryRow(`SELECT editable FROM sections WHERE id = ?`, section.ID).Scan(&editable)
		if err == sql.ErrNoRows {
			return fmt.Errorf("section not found: %s", section.ID)
		}
		if err != nil {
			return err
		}
		if editable == 0 {
			return fmt.Errorf("cannot modify built-in section")
		}

		if !models.IsValidColor(section.Color) {
			return fmt.Errorf("invalid color: %s", section.Color)
		}
		if !models.IsValidIcon(section.Icon) {
			return fmt.Errorf("invalid icon: %s", section.Icon)
		}

		_, err = db.conn.Exec(`
			UPDATE sections SET name = ?, color = ?, icon = ? WHERE id = ?
		`, section.Name, section.Color, section.Icon, section.ID)
		return err
	})
}

// DeleteSection deletes a section and cascades to every task it owns.
// The cascade is an explicit step in the same transaction so no task can
// survive with a dangling section reference.
func (db *DB) DeleteSection(id string) error {
	id = NormalizeSectionID(id)
	return db.withWriteLock(func() error {
		var editable int
		err := db.conn.QueryRow(`SELECT editable FROM sections WHERE id = ?`, id).Scan(&editable)
		if err == sql.ErrNoRows {
			return fmt.Errorf("section not found: %s", id)
		}
		if err != nil {
			return err
		}
		if editable == 0 {
			return fmt.Errorf("cannot delete built-in section")
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM tasks WHERE section_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM sections WHERE id = ?`, id); err != nil {
			return err
		}

		return tx.Commit()
	})
}

// MoveSection reassigns a section to a new display slot (0-based) and
// renumbers all sections densely.
func (db *DB) MoveSection(id string, slot int) error {
	id = NormalizeSectionID(id)
	return db.withWriteLock(func() error {
		rows, err := db.conn.Query(`SELECT id FROM sections ORDER BY position ASC`)
		if err != nil {
			return err
		}
		var ids []string
		for rows.Next() {
			var sid string
			if err := rows.Scan(&sid); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, sid)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		src := -1
		for i, sid := range ids {
			if sid == id {
				src = i
				break
			}
		}
		if src == -1 {
			return fmt.Errorf("section not found: %s", id)
		}

		reordered := spliceIDs(ids, src, slot)

		tx, err := db.conn.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		for i, sid := range reordered {
			if _, err := tx.Exec(`UPDATE sections SET position = ? WHERE id = ?`, i, sid); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

// BootstrapDefaultSection creates the non-editable default section when the
// store has no sections at all (first launch).
func (db *DB) BootstrapDefaultSection() error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM sections`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	id, err := generateSectionID()
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`
		INSERT INTO sections (id, name, color, icon, editable, position, created_at)
		VALUES (?, ?, 'gray', 'list', 0, 0, ?)
	`, id, DefaultSectionName, time.Now())
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
