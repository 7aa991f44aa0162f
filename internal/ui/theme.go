package ui

import "github.com/charmbracelet/lipgloss"

// Theme is a palette for the pager chrome: status bar, search markers and the
// help overlay. Log lines keep the colours the renderer gave them.
type Theme struct {
	Name string

	Base      string // behind the help overlay
	Bar       string // status bar background
	BarText   string // status bar foreground
	Highlight string // current match marker background

	Fg     string
	Dim    string
	Accent string
	Notice string
	Error  string
}

// Styles are the lipgloss styles the pager draws with.
type Styles struct {
	Fg     lipgloss.Style
	Rule   lipgloss.Style
	Accent lipgloss.Style
	Notice lipgloss.Style
	Error  lipgloss.Style

	StatusBar lipgloss.Style
	Title     lipgloss.Style
	Cursor    lipgloss.Style
	Marker    lipgloss.Style
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// Styles builds the pager styles for t.
func (t Theme) Styles() Styles {
	return Styles{
		Fg:     fg(t.Fg),
		Rule:   fg(t.Dim),
		Accent: fg(t.Accent),
		Notice: fg(t.Notice),
		Error:  fg(t.Error).Bold(true),

		StatusBar: fg(t.BarText).Background(lipgloss.Color(t.Bar)),
		Title:     fg(t.Base).Background(lipgloss.Color(t.Accent)).Bold(true).Padding(0, 1),
		Cursor:    fg(t.Notice).Background(lipgloss.Color(t.Highlight)).Bold(true),
		Marker:    fg(t.Accent),
	}
}

// palettes is the cycle order for T; the first entry is the fallback.
var palettes = []Theme{
	// https://github.com/EdenEast/nightfox.nvim
	{
		Name: "Nightfox", Base: "#131a24", Bar: "#192330", BarText: "#738091", Highlight: "#2b3b51",
		Fg: "#cdcecf", Dim: "#71839b", Accent: "#719cd6", Notice: "#dbc074", Error: "#c94f6d",
	},
	// https://github.com/rebelot/kanagawa.nvim
	{
		Name: "Kanagawa", Base: "#16161D", Bar: "#1F1F28", BarText: "#C8C093", Highlight: "#2D4F67",
		Fg: "#DCD7BA", Dim: "#727169", Accent: "#7E9CD8", Notice: "#E6C384", Error: "#E46876",
	},
	// Tailwind slate and sky.
	{
		Name: "Slate", Base: "#020617", Bar: "#0f172a", BarText: "#94a3b8", Highlight: "#0284c7",
		Fg: "#f1f5f9", Dim: "#64748b", Accent: "#38bdf8", Notice: "#f59e0b", Error: "#ef4444",
	},
}

func paletteIndex(name string) int {
	for i, p := range palettes {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// GetTheme looks a palette up by name. Unknown names get the first palette.
func GetTheme(name string) Theme {
	if i := paletteIndex(name); i >= 0 {
		return palettes[i]
	}
	return palettes[0]
}

// NextTheme returns the name that follows current in the cycle.
func NextTheme(current string) string {
	return palettes[(paletteIndex(current)+1)%len(palettes)].Name
}

// ThemeNames lists the palettes in cycle order.
func ThemeNames() []string {
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.Name
	}
	return names
}
