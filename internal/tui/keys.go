package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Listen key.Binding
	Speak  key.Binding
	Next   key.Binding
	Board  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Listen: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "listen/stop"),
		),
		Speak: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "hear word"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "tab"),
			key.WithHelp("n", "next word"),
		),
		Board: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "scoreboard"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Listen, k.Speak, k.Next, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Listen, k.Speak, k.Next},
		{k.Board, k.Help, k.Quit},
	}
}
