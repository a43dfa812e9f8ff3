package db

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const (
	taskIDPrefix    = "tsk-"
	sectionIDPrefix = "sec-"
)

// NormalizeTaskID ensures a task ID has the tsk- prefix.
// Accepts bare hex IDs like "abc123" and returns "tsk-abc123".
func NormalizeTaskID(id string) string {
	if id == "" {
		return id
	}
	if !strings.HasPrefix(id, taskIDPrefix) {
		return taskIDPrefix + id
	}
	return id
}

// NormalizeSectionID ensures a section ID has the sec- prefix.
func NormalizeSectionID(id string) string {
	if id == "" {
		return id
	}
	if !strings.HasPrefix(id, sectionIDPrefix) {
		return sectionIDPrefix + id
	}
	return id
}

// generateTaskID generates a unique task ID
func generateTaskID() (string, error) {
	bytes := make([]byte, 3) // 6 hex characters - balances brevity with collision resistance
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return taskIDPrefix + hex.EncodeToString(bytes), nil
}

// generateSectionID generates a unique section ID
func generateSectionID() (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return sectionIDPrefix + hex.EncodeToString(bytes), nil
}
