package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Back         key.Binding
	Quit         key.Binding
	Help         key.Binding
	ToggleDone   key.Binding
	SortCleanup  key.Binding
	SortRelevant key.Binding
	Refresh      key.Binding
	Open         key.Binding
	CopyURL      key.Binding
	Export       key.Binding
	CycleTheme   key.Binding
	Logout       key.Binding
	Interest     key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ToggleDone: key.NewBinding(
			key.WithKeys("x", " ", "space", "enter"),
			key.WithHelp("x/space", "toggle done"),
		),
		SortCleanup: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "sort by cleanup"),
		),
		SortRelevant: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "sort by relevance"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open url"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
		Interest: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "toggle interest"),
		),
	}
}

// Keys returns the keys as a slice for matching
func (k KeyMap) Keys() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Back, k.Quit, k.Help, k.ToggleDone,
		k.SortCleanup, k.SortRelevant, k.Refresh, k.Open, k.CopyURL,
		k.Export, k.CycleTheme, k.Logout, k.Interest,
	}
}
