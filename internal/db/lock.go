package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	lockFileName   = "db.lock"
	defaultTimeout = 500 * time.Millisecond
	lockBackoffMin = 5 * time.Millisecond
	lockBackoffMax = 50 * time.Millisecond
)

// writeLocker serializes writes to the shared store across processes.
// The CLI and the widget both open the same database file, so every
// mutation takes an OS-level file lock first. The lock drops
// automatically if the holder crashes.
type writeLocker struct {
	lockPath string
	lockFile *os.File
}

func newWriteLocker(baseDir string) *writeLocker {
	return &writeLocker{lockPath: filepath.Join(baseDir, lockFileName)}
}

// acquire polls for the exclusive lock until timeout, backing off
// between attempts. On timeout the error names the current holder so
// the user can tell whether the CLI or the widget is wedged.
func (l *writeLocker) acquire(timeout time.Duration) error {
	f, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	l.lockFile = f

	deadline := time.Now().Add(timeout)
	backoff := lockBackoffMin
	for {
		if err := l.tryLock(); err == nil {
			l.recordHolder()
			return nil
		}

		if time.Now().After(deadline) {
			holder := l.describeHolder()
			l.lockFile.Close()
			l.lockFile = nil
			return fmt.Errorf("store is locked by another process (waited %v)\n  holder: %s", timeout, holder)
		}

		time.Sleep(backoff)
		if backoff < lockBackoffMax {
			backoff *= 2
			if backoff > lockBackoffMax {
				backoff = lockBackoffMax
			}
		}
	}
}

func (l *writeLocker) release() error {
	if l.lockFile == nil {
		return nil
	}
	l.lockFile.Truncate(0)
	l.unlock()
	l.lockFile.Close()
	l.lockFile = nil
	return nil
}

// recordHolder stamps the lock file with this process's identity so a
// blocked process can report who holds the lock.
func (l *writeLocker) recordHolder() {
	if l.lockFile == nil {
		return
	}
	l.lockFile.Truncate(0)
	l.lockFile.Seek(0, 0)
	fmt.Fprintf(l.lockFile, "pid:%d\nproc:%s\ntime:%s\n",
		os.Getpid(), filepath.Base(os.Args[0]), time.Now().Format(time.RFC3339))
	l.lockFile.Sync()
}

func (l *writeLocker) describeHolder() string {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return "unknown"
	}

	var pid, proc, stamp string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		switch {
		case strings.HasPrefix(line, "pid:"):
			pid = strings.TrimPrefix(line, "pid:")
		case strings.HasPrefix(line, "proc:"):
			proc = strings.TrimPrefix(line, "proc:")
		case strings.HasPrefix(line, "time:"):
			stamp = strings.TrimPrefix(line, "time:")
		}
	}
	if pid == "" {
		return "unknown"
	}
	if proc == "" {
		proc = "unknown process"
	}

	if n, err := strconv.Atoi(pid); err == nil && !isProcessAlive(n) {
		return fmt.Sprintf("%s pid:%s since %s (stale, process dead)", proc, pid, stamp)
	}
	return fmt.Sprintf("%s pid:%s since %s", proc, pid, stamp)
}
