package widgetview

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kylehosman/anytask/internal/bridge"
	"github.com/kylehosman/anytask/internal/config"
)

// pollInterval is the cadence at which the widget re-reads the shared
// snapshot, mirroring how a home-screen widget refreshes on a timer.
const pollInterval = 5 * time.Second

type tickMsg time.Time

// Model is the Bubble Tea model for the widget. It holds the last read
// snapshot and a cursor; every write goes through the bridge client as
// an intent, never to the database.
type Model struct {
	client  *bridge.Client
	baseDir string

	snap   *bridge.ProjectionSnapshot
	cursor int

	// pendingSwitch is a section switch the app has not reconciled yet.
	pendingSwitch string

	keys keyMap
	help help.Model

	width  int
	height int
	err    error
}

func NewModel(baseDir string) Model {
	client := bridge.NewClient(baseDir)
	return Model{
		client:  client,
		baseDir: baseDir,
		snap:    client.Snapshot(),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.reload()
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return *m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.visibleCount()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.cursorTask(); ok {
			m.err = m.client.ToggleTask(m.snap.Section.ID, id)
			m.reload()
		}

	case key.Matches(msg, m.keys.Queue):
		if id, ok := m.cursorTask(); ok {
			m.err = m.client.QueueToggle(id)
			m.reload()
		}

	case key.Matches(msg, m.keys.Section):
		m.switchToNextSection()

	case key.Matches(msg, m.keys.Refresh):
		m.reload()

	case key.Matches(msg, m.keys.Small):
		m.err = config.SetWidgetSize(m.baseDir, config.WidgetSizeSmall)
		m.clampCursor()

	case key.Matches(msg, m.keys.Medium):
		m.err = config.SetWidgetSize(m.baseDir, config.WidgetSizeMedium)
	}
	return *m, nil
}

func (m *Model) reload() {
	m.snap = m.client.Snapshot()
	if m.pendingSwitch != "" && m.snap.Section.ID == m.pendingSwitch {
		m.pendingSwitch = ""
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if count := m.visibleCount(); m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// visibleCount is the number of task rows shown: the configured widget
// size capped by the section's incomplete tasks. Completing tasks, here
// or in the app, narrows the window.
func (m *Model) visibleCount() int {
	count := config.VisibleTaskCount(m.baseDir)
	open := 0
	for _, id := range m.snap.TaskIDs {
		if !m.isCompleted(id) {
			open++
		}
	}
	if open < count {
		return open
	}
	return count
}

// cursorTask returns the task ID under the cursor.
func (m *Model) cursorTask() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.TaskIDs) || m.cursor >= m.visibleCount() {
		return "", false
	}
	return m.snap.TaskIDs[m.cursor], true
}

// switchToNextSection records a switch intent for the section after the
// current one. The new section's tasks appear once the app reconciles
// and republishes.
func (m *Model) switchToNextSection() {
	sections := m.snap.Sections
	if len(sections) < 2 {
		return
	}
	current := m.snap.Section.ID
	if m.pendingSwitch != "" {
		current = m.pendingSwitch
	}
	next := sections[0].ID
	for i := range sections {
		if sections[i].ID == current && i+1 < len(sections) {
			next = sections[i+1].ID
			break
		}
	}
	if next == m.snap.Section.ID {
		m.pendingSwitch = ""
		return
	}
	if err := m.client.SwitchSection(next); err != nil {
		m.err = err
		return
	}
	m.pendingSwitch = next
	m.cursor = 0
}

// isCompleted reports whether the widget's view of the task is
// completed, including toggles not yet reconciled by the app.
func (m *Model) isCompleted(taskID string) bool {
	for _, id := range m.snap.CompletedIDsBySection[m.snap.Section.ID] {
		if id == taskID {
			return true
		}
	}
	return false
}

