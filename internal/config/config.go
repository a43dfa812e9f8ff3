package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"

	"github.com/kylehosman/anytask/internal/models"
)

const configFile = "config.json"
const lockFile = "config.json.lock"

// Widget sizes and their visible task counts.
const (
	WidgetSizeSmall  = "small"
	WidgetSizeMedium = "medium"

	VisibleTasksSmall  = 3
	VisibleTasksMedium = 6
)

// Load reads the config from disk
func Load(baseDir string) (*models.Config, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Config{}, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// A torn or hand-edited file falls back to defaults rather than
		// blocking every command.
		return &models.Config{}, nil
	}
	return &cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(baseDir string, cfg *models.Config) error {
	configPath := filepath.Join(baseDir, configFile)

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write: temp file in same dir, then rename
	tmp, err := os.CreateTemp(baseDir, "config-*.json.tmp")
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

	return os.Rename(tmpName, configPath)
}

// withConfigLock serializes access to config.json using flock
func withConfigLock(baseDir string, fn func() error) error {
	lockPath := filepath.Join(baseDir, lockFile)

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
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

// SetSelectedSection records which section the app is focused on.
func SetSelectedSection(baseDir, sectionID string) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		cfg.SelectedSectionID = sectionID
		return Save(baseDir, cfg)
	})
}

// GetSelectedSection returns the focused section ID, or "" if unset.
func GetSelectedSection(baseDir string) (string, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	return cfg.SelectedSectionID, nil
}

// SetWidgetSize persists the widget size preference.
func SetWidgetSize(baseDir, size string) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		cfg.WidgetSize = size
		return Save(baseDir, cfg)
	})
}

// VisibleTaskCount maps the configured widget size to the number of
// tasks the widget shows. Unknown or unset sizes get the small count.
func VisibleTaskCount(baseDir string) int {
	cfg, err := Load(baseDir)
	if err != nil {
		return VisibleTasksSmall
	}
	if cfg.WidgetSize == WidgetSizeMedium {
		return VisibleTasksMedium
	}
	return VisibleTasksSmall
}
