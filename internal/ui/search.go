package ui

import (
	"regexp"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchState holds the pager's search prompt and results.
type searchState struct {
	input  textinput.Model
	active bool
	err    error

	query   string
	re      *regexp.Regexp
	matches []int // Line indices that match
	matched map[int]bool
	idx     int // Current match index
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "pattern"
	ti.CharLimit = 200
	return searchState{input: ti}
}

// currentLine returns the line of the current match, or -1.
func (s searchState) currentLine() int {
	if s.idx < 0 || s.idx >= len(s.matches) {
		return -1
	}
	return s.matches[s.idx]
}

// handleSearchInput handles keyboard input while the prompt is open.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.search.input.Value()
		if query == "" {
			m.search.active = false
			m.search.input.Blur()
			return m, nil
		}

		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			// Stay in the prompt so the pattern can be fixed
			m.search.err = err
			return m, nil
		}

		m.search.re = re
		m.search.query = query
		m.search.err = nil
		m.search.active = false
		m.search.input.Blur()

		m.findMatches()
		m.refreshContent()
		m.scrollToMatch()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.search.active = false
		m.search.err = nil
		m.search.input.Blur()
		m.search.input.SetValue("")
		return m, nil

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

// findMatches finds every line matching the current pattern and selects the
// first match at or below the top of the viewport.
func (m *Model) findMatches() {
	m.search.matches = nil
	m.search.matched = map[int]bool{}
	m.search.idx = 0
	if m.search.re == nil {
		return
	}

	for i, line := range m.plain {
		if m.search.re.MatchString(line) {
			m.search.matches = append(m.search.matches, i)
			m.search.matched[i] = true
		}
	}

	top := m.viewport.YOffset
	for i, line := range m.search.matches {
		if m.rows[line] >= top {
			m.search.idx = i
			return
		}
	}
}

// clearSearch clears the search state.
func (m *Model) clearSearch() {
	m.search.re = nil
	m.search.query = ""
	m.search.matches = nil
	m.search.matched = nil
	m.search.idx = 0
}

// nextMatch moves to the next match, wrapping at the end.
func (m *Model) nextMatch() {
	if len(m.search.matches) == 0 {
		return
	}
	m.search.idx = (m.search.idx + 1) % len(m.search.matches)
	m.refreshContent()
	m.scrollToMatch()
}

// previousMatch moves to the previous match, wrapping at the start.
func (m *Model) previousMatch() {
	if len(m.search.matches) == 0 {
		return
	}
	m.search.idx = (m.search.idx - 1 + len(m.search.matches)) % len(m.search.matches)
	m.refreshContent()
	m.scrollToMatch()
}

// scrollToMatch centres the current match in the viewport when possible.
func (m *Model) scrollToMatch() {
	line := m.search.currentLine()
	if line < 0 {
		return
	}
	m.viewport.SetYOffset(max(m.rows[line]-m.viewport.Height/2, 0))
}
