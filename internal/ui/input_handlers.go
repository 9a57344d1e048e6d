package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/five82/lodestar/internal/state"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()

	case key.Matches(msg, m.keys.Escape):
		if m.snap.Search.HasSearch {
			m.input.SetValue("")
			m.dispatch(state.SetSearchTerm{Text: ""})
		}

	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(m.bodyHeight())
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-m.bodyHeight())
	case key.Matches(msg, m.keys.HalfPageDown):
		m.scroll(m.bodyHeight() / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.scroll(-m.bodyHeight() / 2)
	case key.Matches(msg, m.keys.Top):
		m.top = 0
	case key.Matches(msg, m.keys.Bottom):
		m.top = m.maxTop()

	case key.Matches(msg, m.keys.Search):
		return m, m.openPrompt(promptSearch, m.searchSource())

	case key.Matches(msg, m.keys.GotoLine):
		return m, m.openPrompt(promptGoto, "")

	case key.Matches(msg, m.keys.NextMatch):
		m.dispatch(state.Paginate{Direction: state.Next})
	case key.Matches(msg, m.keys.PrevMatch):
		m.dispatch(state.Paginate{Direction: state.Prev})

	case key.Matches(msg, m.keys.ToggleCase):
		sensitive := !m.snap.Search.CaseSensitive
		m.dispatch(state.SetCaseSensitive{Sensitive: sensitive})
		m.prefs.CaseSensitive = sensitive
		m.savePrefs()

	case key.Matches(msg, m.keys.ToggleLineNumbers):
		m.prefs.HideLineNumbers = !m.prefs.HideLineNumbers
		m.savePrefs()

	case key.Matches(msg, m.keys.Clear):
		if m.loader != nil {
			m.loader.Cancel()
			m.status = m.loader.Status()
		}
		m.input.SetValue("")
		m.dispatch(state.ClearLogs{})
		m.top = 0

	case key.Matches(msg, m.keys.Reload):
		if m.reload != nil {
			m.reload()
			if m.loader != nil {
				m.status = m.loader.Status()
			}
			m.notice = "reloading"
		}
	}

	m.clampTop()
	return m, nil
}

// openPrompt focuses the input line for mode, pre-filled with value.
func (m *Model) openPrompt(mode promptMode, value string) tea.Cmd {
	m.prompt = mode
	switch mode {
	case promptSearch:
		m.input.Prompt = "/"
		m.input.Placeholder = "regular expression"
	case promptGoto:
		m.input.Prompt = ":"
		m.input.Placeholder = "line number"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
}

// handlePromptKey handles keyboard input while the search or goto prompt is
// open. Search is applied as the user types.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.prompt == promptGoto {
			m.gotoLine(m.input.Value())
			m.input.SetValue("")
		}
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.prompt == promptSearch {
			m.dispatch(state.SetSearchTerm{Text: ""})
		}
		m.input.SetValue("")
		m.closePrompt()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.prompt == promptSearch && m.input.Value() != before {
		m.dispatch(state.SetSearchTerm{Text: m.input.Value()})
	}
	return m, cmd
}

// gotoLine parses a one-based line number and moves the cursor there.
func (m *Model) gotoLine(raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	n, err := strconv.Atoi(raw)
	total := len(m.snap.Lines)
	if err != nil || n < 1 {
		m.notice = "invalid line number: " + raw
		return
	}
	if total == 0 {
		m.notice = "no lines loaded"
		return
	}
	if n > total {
		m.notice = "line " + humanize.Comma(int64(n)) + " is past the end; jumped to last line"
		n = total
	}
	m.dispatch(state.ScrollToLine{Line: n - 1})
}

func (m Model) searchSource() string {
	if p := m.snap.Search.Pattern; p != nil {
		return p.Source()
	}
	return ""
}

// Scrolling

func (m Model) bodyHeight() int {
	// Status bar and footer/prompt line.
	return max(m.height-2, 1)
}

func (m Model) maxTop() int {
	return max(len(m.snap.Lines)-m.bodyHeight(), 0)
}

func (m *Model) scroll(delta int) {
	m.top += delta
	m.clampTop()
}

func (m *Model) clampTop() {
	m.top = min(max(m.top, 0), m.maxTop())
}

// centerOn scrolls so line sits in the middle of the log pane.
func (m *Model) centerOn(line int) {
	m.top = line - m.bodyHeight()/2
	m.clampTop()
}
