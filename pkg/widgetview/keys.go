package widgetview

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the widget's key bindings.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Queue   key.Binding
	Section key.Binding
	Refresh key.Binding
	Small   key.Binding
	Medium  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle task"),
		),
		Queue: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "queue toggle"),
		),
		Section: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next section"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Small: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "small (3 tasks)"),
		),
		Medium: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "medium (6 tasks)"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Section, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Queue},
		{k.Section, k.Refresh, k.Small, k.Medium},
		{k.Help, k.Quit},
	}
}
