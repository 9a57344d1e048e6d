package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/five82/lodestar/internal/ingest"
	"github.com/five82/lodestar/internal/logformat"
)

// renderStatusBar renders file name, load progress, errors and the search
// position on a single line.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles()
	bar := styles.StatusBar

	var left []string
	name := m.snap.FileName
	if name == "" {
		name = "(no file)"
	}
	left = append(left, styles.AccentText.Render(name))
	if m.snap.Format != logformat.FormatUnknown {
		left = append(left, styles.MutedText.Render(m.snap.Format.String()))
	}
	if progress := loadSummary(m.status); progress != "" {
		if m.status.Loading {
			progress = m.spinner.View() + " " + progress
		}
		left = append(left, styles.InfoText.Render(progress))
	}
	if m.status.Err != nil && !m.status.Loading {
		label := "error"
		if len(m.status.Lines) > 0 {
			label = "partial"
		}
		left = append(left, styles.DangerText.Render(label+": "+errorSummary(m.status.Err)))
	}

	var right []string
	if summary := searchSummary(m.snap.Search); summary != "" {
		right = append(right, styles.WarningText.Render(summary))
	}
	if total := len(m.snap.Lines); total > 0 {
		right = append(right, styles.MutedText.Render(
			"line "+humanize.Comma(int64(m.top+1))+"/"+humanize.Comma(int64(total))))
	}

	leftText := strings.Join(left, "  ")
	rightText := strings.Join(right, "  ")
	gap := m.width - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if gap < 1 {
		return bar.Render(ansi.Truncate(leftText+" "+rightText, m.width, ellipsis))
	}
	return bar.Render(leftText + strings.Repeat(" ", gap) + rightText)
}

// loadSummary reports bytes and lines read by the current ingest.
func loadSummary(s ingest.Status) string {
	if s.Loading {
		if s.Progress.Bytes == 0 {
			return "connecting"
		}
		return humanize.Bytes(uint64(s.Progress.Bytes)) + " · " + humanize.Comma(int64(s.Progress.Lines)) + " lines"
	}
	if s.Progress.Bytes > 0 {
		return humanize.Bytes(uint64(s.Progress.Bytes))
	}
	return ""
}

func errorSummary(err error) string {
	switch {
	case errors.Is(err, ingest.ErrTooManyLines):
		return err.Error() + ", showing the first lines"
	default:
		return err.Error()
	}
}
