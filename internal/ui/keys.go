package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the pager bindings. Movement follows less.
type keyMap struct {
	Quit, Help, CycleTheme, ToggleWrap, Escape key.Binding

	Up, Down, Top, Bottom key.Binding
	PageUp, PageDown      key.Binding
	HalfPageUp            key.Binding
	HalfPageDown          key.Binding

	Search, NextMatch, PrevMatch, Confirm key.Binding
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       bind("q", "quit", "q", "ctrl+c"),
		Help:       bind("?", "toggle help", "?"),
		CycleTheme: bind("T", "cycle theme", "T"),
		ToggleWrap: bind("w", "toggle wrap", "w"),
		Escape:     bind("esc", "clear search", "esc"),

		Up:           bind("k/up", "line up", "k", "up"),
		Down:         bind("j/down", "line down", "j", "down", "enter"),
		Top:          bind("g", "top", "g", "home"),
		Bottom:       bind("G", "bottom", "G", "end"),
		PageUp:       bind("b/pgup", "page up", "b", "pgup"),
		PageDown:     bind("space/pgdn", "page down", " ", "f", "pgdown"),
		HalfPageUp:   bind("u", "half page up", "u", "ctrl+u"),
		HalfPageDown: bind("d", "half page down", "d", "ctrl+d"),

		Search:    bind("/", "search", "/"),
		NextMatch: bind("n", "next match", "n"),
		PrevMatch: bind("N", "previous match", "N"),
		Confirm:   bind("enter", "confirm", "enter"),
	}
}

// ShortHelp is the status bar hint.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Help, k.Quit}
}

// FullHelp is the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.PageUp, k.PageDown, k.HalfPageUp, k.HalfPageDown},
		{k.Search, k.NextMatch, k.PrevMatch, k.Escape},
		{k.ToggleWrap, k.CycleTheme, k.Help, k.Quit},
	}
}
