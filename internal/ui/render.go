package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/lodestar/internal/search"
	"github.com/five82/lodestar/internal/state"
)

const ellipsis = "…"

// renderMain renders the log pane, status bar and footer.
func (m Model) renderMain() string {
	m.viewport.SetContent(m.renderLines())

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderLines renders the visible window of lines only; the full sequence
// can hold millions of entries.
func (m Model) renderLines() string {
	lines := m.snap.Lines
	if len(lines) == 0 {
		return m.renderEmpty()
	}

	styles := m.theme.Styles()
	height := m.bodyHeight()
	end := min(m.top+height, len(lines))

	gutterWidth := 0
	if !m.prefs.HideLineNumbers {
		gutterWidth = len(strconv.Itoa(len(lines)))
	}
	textWidth := m.width
	if gutterWidth > 0 {
		textWidth -= gutterWidth + 1
	}
	textWidth = max(textWidth, 1)

	currentLine, hasCurrent := m.currentMatchLine()
	cursor := -1
	if m.snap.CursorLine != nil {
		cursor = *m.snap.CursorLine
	}

	var b strings.Builder
	for i := m.top; i < end; i++ {
		if i > m.top {
			b.WriteString("\n")
		}
		if gutterWidth > 0 {
			num := fmt.Sprintf("%*d ", gutterWidth, i+1)
			if i == cursor {
				b.WriteString(styles.CursorLine.Render(num))
			} else {
				b.WriteString(styles.Gutter.Render(num))
			}
		}
		b.WriteString(m.renderLine(lines[i], textWidth, styles, hasCurrent && i == currentLine))
	}
	return b.String()
}

// renderLine truncates line to width and highlights search matches. Lines
// with matches are rendered from their plain text so highlight offsets
// line up; other lines keep their ANSI colours.
func (m Model) renderLine(line string, width int, styles Styles, current bool) string {
	pattern := m.snap.Search.Pattern
	if pattern == nil {
		return ansi.Truncate(line, width, ellipsis)
	}
	plain := search.Plain(line)
	locs := pattern.FindAllStringIndex(plain)
	if len(locs) == 0 {
		return ansi.Truncate(line, width, ellipsis)
	}
	matchStyle := styles.Match
	if current {
		matchStyle = styles.CurrentMatch
	}
	return ansi.Truncate(highlight(plain, locs, matchStyle), width, ellipsis)
}

// highlight wraps each located range of s in style.
func highlight(s string, locs [][]int, style lipgloss.Style) string {
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start == end {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(style.Render(s[start:end]))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func (m Model) renderEmpty() string {
	styles := m.theme.Styles()
	var msg string
	switch {
	case m.status.Loading:
		msg = m.spinner.View() + " fetching " + m.status.URL
	case m.status.Err != nil:
		msg = styles.DangerText.Render("failed to load log: " + m.status.Err.Error())
	default:
		msg = styles.MutedText.Render("no log lines")
	}
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, msg)
}

// renderFooter renders the prompt when open, otherwise a key hint line.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.prompt != promptNone {
		return m.input.View()
	}
	if m.notice != "" {
		return styles.WarningText.Render(ansi.Truncate(m.notice, m.width, ellipsis))
	}
	hints := []string{"/ search", "n/N next/prev", "c case", ": goto", "r reload", "x clear", "? help", "q quit"}
	return styles.Footer.Render(ansi.Truncate(strings.Join(hints, "  "), m.width, ellipsis))
}

// searchSummary describes the active search for the status bar.
func searchSummary(s state.SearchState) string {
	if !s.HasSearch || s.Pattern == nil {
		return ""
	}
	caseLabel := "aA"
	if s.CaseSensitive {
		caseLabel = "Aa"
	}
	var position string
	switch {
	case s.MatchCount != nil && s.CurrentIndex != nil:
		position = fmt.Sprintf("%d/%d", *s.CurrentIndex+1, *s.MatchCount)
	case s.MatchCount == nil:
		position = "no matches"
	}
	summary := fmt.Sprintf("/%s [%s] %s", s.Pattern.Source(), caseLabel, position)
	if s.Pattern.Literal() {
		summary += " (literal)"
	}
	return summary
}
