// Package output provides styled terminal output helpers (success, error,
// task and section formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/kylehosman/anytask/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Strikethrough(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	// sectionStyles maps section color tags to terminal colors.
	sectionStyles = map[models.Color]lipgloss.Style{
		models.ColorGray:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		models.ColorRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.ColorOrange: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		models.ColorYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		models.ColorGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.ColorBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		models.ColorPurple: lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		models.ColorPink:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
	}

	// iconGlyphs gives each icon tag a terminal stand-in.
	iconGlyphs = map[models.Icon]string{
		models.IconList:      "☰",
		models.IconStar:      "★",
		models.IconHeart:     "♥",
		models.IconCart:      "🛒",
		models.IconBook:      "📖",
		models.IconBriefcase: "💼",
		models.IconHome:      "⌂",
		models.IconBell:      "🔔",
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeBuiltIn       = "built_in_section"
	ErrCodeDatabaseError = "database_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	fmt.Printf(`{"error":{"code":"%s","message":"%s"}}`, code, message)
	fmt.Println()
}

// SectionGlyph returns the colored icon glyph for a section.
func SectionGlyph(section *models.Section) string {
	glyph, ok := iconGlyphs[section.Icon]
	if !ok {
		glyph = iconGlyphs[models.IconList]
	}
	return sectionStyle(section.Color).Render(glyph)
}

// FormatSectionName returns the section name in its color.
func FormatSectionName(section *models.Section) string {
	return sectionStyle(section.Color).Render(section.Name)
}

// FormatSectionLine formats one section for `section list`:
// glyph, name, task counts, built-in marker.
func FormatSectionLine(section *models.Section, open, done int) string {
	var parts []string
	parts = append(parts, SectionGlyph(section))
	parts = append(parts, titleStyle.Render(section.Name))
	parts = append(parts, subtleStyle.Render(section.ID))
	parts = append(parts, subtleStyle.Render(fmt.Sprintf("%d open, %d done", open, done)))
	if !section.Editable {
		parts = append(parts, subtleStyle.Render("[built-in]"))
	}
	return strings.Join(parts, "  ")
}

// FormatTaskLine formats one task for list output. Completed tasks get
// a filled checkbox and struck-through text; overdue due dates stand out.
func FormatTaskLine(task *models.Task, now time.Time) string {
	checkbox := "[ ]"
	text := task.Text
	if task.Complete {
		checkbox = "[x]"
		text = doneStyle.Render(text)
	}

	parts := []string{checkbox, text, subtleStyle.Render(task.ID)}

	if task.DueAt != nil {
		due := FormatDue(*task.DueAt, now)
		if !task.Complete && task.DueAt.Before(now) {
			due = overdueStyle.Render(due)
		} else {
			due = subtleStyle.Render(due)
		}
		parts = append(parts, due)
	}
	if task.Repeat != models.RepeatNever && task.Repeat != "" {
		parts = append(parts, subtleStyle.Render("↻ "+string(task.Repeat)))
	}

	return strings.Join(parts, "  ")
}

// FormatDue renders a due timestamp compactly: clock only for today,
// otherwise date plus clock.
func FormatDue(due, now time.Time) string {
	if sameDay(due, now) {
		return "due " + due.Format("15:04")
	}
	return "due " + due.Format("2006-01-02 15:04")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nGROCERIES:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

func sectionStyle(c models.Color) lipgloss.Style {
	style, ok := sectionStyles[c]
	if !ok {
		return sectionStyles[models.ColorGray]
	}
	return style
}
