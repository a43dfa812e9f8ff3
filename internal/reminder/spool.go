package reminder

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const spoolFile = "reminders.json"
const spoolLockFile = "reminders.json.lock"

// Entry is one pending notification in the spool.
type Entry struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	FireAt     time.Time `json:"fire_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Spool is the default Scheduler: pending notifications live in a JSON
// file next to the database and are delivered by `remind due` rather
// than by an OS notification service.
type Spool struct {
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

func NewSpool(baseDir string, logger *slog.Logger) *Spool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spool{baseDir: baseDir, logger: logger, now: time.Now}
}

// Schedule adds or replaces the entry for identifier.
func (s *Spool) Schedule(identifier, title, body string, fireAt time.Time) error {
	return s.withLock(func() error {
		entries := s.load()
		entries = removeIdentifier(entries, identifier)
		entries = append(entries, Entry{
			ID:         uuid.NewString(),
			Identifier: identifier,
			Title:      title,
			Body:       body,
			FireAt:     fireAt,
			CreatedAt:  s.now(),
		})
		s.logger.Debug("reminder scheduled", "identifier", identifier, "fire_at", fireAt)
		return s.save(entries)
	})
}

// Cancel removes the entry for identifier. Cancelling an identifier
// that was never scheduled is a no-op.
func (s *Spool) Cancel(identifier string) error {
	return s.withLock(func() error {
		entries := s.load()
		trimmed := removeIdentifier(entries, identifier)
		if len(trimmed) == len(entries) {
			return nil
		}
		s.logger.Debug("reminder cancelled", "identifier", identifier)
		return s.save(trimmed)
	})
}

// Entries returns all pending entries sorted by fire time.
func (s *Spool) Entries() []Entry {
	entries := s.load()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FireAt.Equal(entries[j].FireAt) {
			return entries[i].Identifier < entries[j].Identifier
		}
		return entries[i].FireAt.Before(entries[j].FireAt)
	})
	return entries
}

// Due returns entries whose fire time has passed.
func (s *Spool) Due(now time.Time) []Entry {
	var due []Entry
	for _, e := range s.Entries() {
		if !e.FireAt.After(now) {
			due = append(due, e)
		}
	}
	return due
}

// Remove deletes entries by entry ID after they have been delivered.
func (s *Spool) Remove(entryIDs ...string) error {
	drop := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		drop[id] = true
	}
	return s.withLock(func() error {
		entries := s.load()
		kept := entries[:0]
		for _, e := range entries {
			if !drop[e.ID] {
				kept = append(kept, e)
			}
		}
		return s.save(kept)
	})
}

// load reads the spool, defaulting to empty on a missing or malformed
// file.
func (s *Spool) load() []Entry {
	data, err := os.ReadFile(filepath.Join(s.baseDir, spoolFile))
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("reminder spool unreadable, starting fresh", "error", err)
		return nil
	}
	return entries
}

// save writes the spool atomically (temp file + rename).
func (s *Spool) save(entries []Entry) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.baseDir, "reminders-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filepath.Join(s.baseDir, spoolFile))
}

func (s *Spool) withLock(fn func() error) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.baseDir, spoolLockFile), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

func removeIdentifier(entries []Entry, identifier string) []Entry {
	kept := entries[:0]
	for _, e := range entries {
		if e.Identifier != identifier {
			kept = append(kept, e)
		}
	}
	return kept
}
