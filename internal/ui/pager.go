package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/assemble-logs/internal/prefs"
)

const (
	gutterWidth = 2
	tabSpaces   = "    "
)

// Options configures the pager.
type Options struct {
	// Title names what is being paged, usually the base log path.
	Title string
	// Lines are rendered output lines, possibly carrying ANSI styling.
	Lines     []string
	ThemeName string
	Wrap      bool
	// PrefsPath receives theme and wrap changes; empty disables saving.
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the pager state for Bubble Tea.
type Model struct {
	keys      keyMap
	help      help.Model
	logger    *slog.Logger
	prefsPath string

	title string
	lines []string
	plain []string
	// rows maps each line to its first row in the viewport content.
	rows []int

	theme    Theme
	wrap     bool
	width    int
	height   int
	ready    bool
	showHelp bool
	notice   string

	viewport viewport.Model
	search   searchState
}

// New creates a pager model over already rendered lines.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	lines := make([]string, len(opts.Lines))
	plain := make([]string, len(opts.Lines))
	for i, line := range opts.Lines {
		lines[i] = strings.ReplaceAll(line, "\t", tabSpaces)
		plain[i] = ansi.Strip(lines[i])
	}

	return Model{
		keys:      defaultKeyMap(),
		help:      help.New(),
		logger:    logger.With("component", "pager"),
		prefsPath: opts.PrefsPath,
		title:     opts.Title,
		lines:     lines,
		plain:     plain,
		rows:      make([]int, len(lines)),
		theme:     GetTheme(themeName),
		wrap:      opts.Wrap,
		search:    newSearchState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := max(msg.Height-1, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = contentHeight
		}
		m.help.Width = msg.Width
		m.refreshContent()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.viewport.View() + "\n" + m.renderStatus()
}

// handleKey processes keyboard input outside the search prompt.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.active {
		return m.handleSearchInput(msg)
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshContent()

	case key.Matches(msg, m.keys.ToggleWrap):
		m.wrap = !m.wrap
		m.savePrefs()
		m.refreshContent()

	case key.Matches(msg, m.keys.Search):
		m.search.active = true
		m.search.err = nil
		m.search.input.SetValue("")
		cmd := m.search.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.NextMatch):
		m.nextMatch()

	case key.Matches(msg, m.keys.PrevMatch):
		m.previousMatch()

	case key.Matches(msg, m.keys.Escape):
		if m.search.re != nil {
			m.clearSearch()
			m.refreshContent()
		}

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()

	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)

	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)

	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()

	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
	}

	return m, nil
}

// refreshContent lays the lines out for the current width, wrap mode and
// search state.
func (m *Model) refreshContent() {
	if !m.ready {
		return
	}

	styles := m.theme.Styles()
	wrapWidth := max(m.viewport.Width-gutterWidth, 1)
	current := m.search.currentLine()

	var b strings.Builder
	row := 0
	for i, line := range m.lines {
		m.rows[i] = row

		gutter := strings.Repeat(" ", gutterWidth)
		switch {
		case i == current:
			gutter = styles.Cursor.Render("▶") + " "
		case m.search.matched[i]:
			gutter = styles.Marker.Render("•") + " "
		}

		text := line
		if m.wrap {
			text = ansi.Hardwrap(line, wrapWidth, true)
		}
		for j, part := range strings.Split(text, "\n") {
			if row > 0 {
				b.WriteByte('\n')
			}
			if j == 0 {
				b.WriteString(gutter)
			} else {
				b.WriteString(strings.Repeat(" ", gutterWidth))
			}
			b.WriteString(part)
			row++
		}
	}
	m.viewport.SetContent(b.String())
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Wrap: m.wrap}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
		m.notice = "preferences not saved"
	}
}

// renderStatus renders the one-line status bar under the viewport.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	bar := styles.StatusBar.Width(m.width)

	if m.search.active {
		prompt := m.search.input.View()
		if m.search.err != nil {
			prompt += "  " + styles.Error.Render("invalid pattern")
		}
		return bar.Render(ansi.Truncate(prompt, m.width, ""))
	}

	left := styles.Title.Render("assemble-logs") + " " + styles.Fg.Render(m.title)

	var parts []string
	if m.notice != "" {
		parts = append(parts, styles.Notice.Render(m.notice))
	}
	if m.search.re != nil {
		if len(m.search.matches) == 0 {
			parts = append(parts, styles.Error.Render(fmt.Sprintf("/%s: no matches", m.search.query)))
		} else {
			parts = append(parts, styles.Accent.Render(fmt.Sprintf("/%s %d/%d", m.search.query, m.search.idx+1, len(m.search.matches))))
		}
	}
	parts = append(parts, fmt.Sprintf("%d lines", len(m.lines)))
	parts = append(parts, fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100))
	if m.wrap {
		parts = append(parts, "wrap")
	}
	parts = append(parts, m.theme.Name)

	right := strings.Join(parts, "  ")
	// The key hint is the first thing dropped on narrow terminals.
	hint := m.help.ShortHelpView(m.keys.ShortHelp())
	if lipgloss.Width(left)+lipgloss.Width(right)+lipgloss.Width(hint)+3 <= m.width {
		right += "  " + hint
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return bar.Render(ansi.Truncate(left+strings.Repeat(" ", gap)+right, m.width, ""))
}

// renderHelp renders the key binding overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	full := m.help
	full.ShowAll = true

	var b strings.Builder
	b.WriteString(styles.Fg.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.Rule.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(full.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(styles.Rule.Render("themes: " + strings.Join(ThemeNames(), ", ")))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Base)),
	)
}

// Run shows the pager until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run pager: %w", err)
	}
	return nil
}
