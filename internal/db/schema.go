package db

// SchemaVersion is the current database schema version
const SchemaVersion = 3

const schema = `
-- Sections table
CREATE TABLE IF NOT EXISTS sections (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT 'gray',
    icon TEXT NOT NULL DEFAULT 'list',
    editable INTEGER NOT NULL DEFAULT 1,
    position INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Tasks table
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    complete INTEGER NOT NULL DEFAULT 0,
    section_id TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    prev_position INTEGER,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    completed_at DATETIME,
    due_at DATETIME,
    repeat_every TEXT NOT NULL DEFAULT 'never',
    FOREIGN KEY (section_id) REFERENCES sections(id)
);

-- Schema info table for version tracking
CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_tasks_section ON tasks(section_id);
CREATE INDEX IF NOT EXISTS idx_tasks_section_complete ON tasks(section_id, complete);
CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_at);
CREATE INDEX IF NOT EXISTS idx_sections_position ON sections(position);
`

// Migration defines a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations is the list of all database migrations in order.
// Version 1 is the initial schema - no migration needed.
// Fresh databases are created at the current version; these only run when
// opening a store written by an older build.
var Migrations = []Migration{
	{
		Version:     2,
		Description: "Add icon tag to sections",
		SQL:         `ALTER TABLE sections ADD COLUMN icon TEXT NOT NULL DEFAULT 'list';`,
	},
	{
		Version:     3,
		Description: "Add due date and repeat interval to tasks",
		SQL: `ALTER TABLE tasks ADD COLUMN due_at DATETIME;
ALTER TABLE tasks ADD COLUMN repeat_every TEXT NOT NULL DEFAULT 'never';
CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_at);`,
	},
}
