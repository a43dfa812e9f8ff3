package bridge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
)

const sharedFile = "widget.json"
const sharedLockFile = "widget.json.lock"

// loadDocument reads the shared file. A missing or malformed file
// yields an empty document; the widget area is best-effort state and
// never blocks a command.
func loadDocument(baseDir string) *document {
	data, err := os.ReadFile(filepath.Join(baseDir, sharedFile))
	if err != nil {
		return &document{}
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return &document{}
	}
	if doc.Snapshot.CompletedIDsBySection == nil {
		doc.Snapshot.CompletedIDsBySection = make(map[string][]string)
	}
	return &doc
}

// saveDocument writes the shared file atomically (temp file + rename)
// so the widget never reads a torn document.
func saveDocument(baseDir string, doc *document) error {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(baseDir, "widget-*.json.tmp")
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

	return os.Rename(tmpName, filepath.Join(baseDir, sharedFile))
}

// withSharedLock serializes read-modify-write cycles on the shared file
// between the CLI and the widget process.
func withSharedLock(baseDir string, fn func() error) error {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(baseDir, sharedLockFile), os.O_CREATE|os.O_RDWR, 0644)
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
