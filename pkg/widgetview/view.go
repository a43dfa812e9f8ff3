package widgetview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/kylehosman/anytask/internal/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Strikethrough(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	sectionColors = map[models.Color]lipgloss.Color{
		models.ColorGray:   lipgloss.Color("245"),
		models.ColorRed:    lipgloss.Color("196"),
		models.ColorOrange: lipgloss.Color("208"),
		models.ColorYellow: lipgloss.Color("220"),
		models.ColorGreen:  lipgloss.Color("42"),
		models.ColorBlue:   lipgloss.Color("45"),
		models.ColorPurple: lipgloss.Color("141"),
		models.ColorPink:   lipgloss.Color("212"),
	}
)

func (m Model) View() string {
	var b strings.Builder

	width := m.width
	if width <= 0 {
		width = 40
	}

	if m.snap.Section.ID == "" {
		b.WriteString(subtleStyle.Render("nothing published yet"))
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("run 'anytask widget sync' in the app"))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	// Section header in its color.
	color, ok := sectionColors[m.snap.Section.Color]
	if !ok {
		color = sectionColors[models.ColorGray]
	}
	header := headerStyle.Foreground(color).Render(m.snap.Section.Name)
	if m.pendingSwitch != "" {
		header += " " + pendingStyle.Render("(switching...)")
	}
	b.WriteString(truncate(header, width))
	b.WriteString("\n\n")

	count := m.visibleCount()
	if count == 0 {
		b.WriteString(subtleStyle.Render("no tasks"))
		b.WriteString("\n")
	}
	for i := 0; i < count; i++ {
		id := m.snap.TaskIDs[i]
		text := m.snap.TaskTexts[i]

		checkbox := "[ ]"
		if m.isCompleted(id) {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}

		prefix := "  "
		line := fmt.Sprintf("%s %s  %s", prefix, checkbox, text)
		if i == m.cursor {
			line = cursorStyle.Render(">") + line[1:]
		}
		b.WriteString(truncate(line, width))
		b.WriteString("\n")
	}
	if hidden := len(m.snap.TaskIDs) - count; hidden > 0 {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("  +%d more", hidden)))
		b.WriteString("\n")
	}

	// Section switcher row.
	if len(m.snap.Sections) > 1 {
		var names []string
		for _, sec := range m.snap.Sections {
			name := sec.Name
			if sec.ID == m.snap.Section.ID {
				name = headerStyle.Render(name)
			} else {
				name = subtleStyle.Render(name)
			}
			names = append(names, name)
		}
		b.WriteString("\n")
		b.WriteString(truncate(strings.Join(names, " | "), width))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(truncate(errStyle.Render(m.err.Error()), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// truncate trims a styled line to the given display width.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
