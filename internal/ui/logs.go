package ui

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/herospath/internal/logtail"
)

type logsMsg struct {
	lines []string
	err   error
}

func loadLogsCmd(path string, maxLines int) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		lines, err := logtail.Tail(path, maxLines)
		return logsMsg{lines: lines, err: err}
	}
}

// logLineLimit is how many lines fit in the log overlay.
func (m Model) logLineLimit() int {
	return maxInt(m.height-logChromeHeight, 1)
}

// renderLogs renders the log overlay.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	width := maxInt(m.width-logChromeWidth, 10)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Recent log"))
	b.WriteString(styles.FaintText.Render("  " + truncateMiddle(m.logPath, width-12)))
	b.WriteString("\n\n")

	switch {
	case m.logErr != nil:
		b.WriteString(styles.DangerText.Render(m.logErr.Error()))
	case len(m.logLines) == 0:
		b.WriteString(styles.MutedText.Render("Log is empty."))
	default:
		for i, line := range m.logLines {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.logLineStyle(line, styles).Render(truncate(line, width)))
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(0, 1).
		Width(width + 2)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal.Render(b.String()))
}

func (m Model) logLineStyle(line string, styles Styles) lipgloss.Style {
	level, ok := logtail.Level(line)
	switch {
	case !ok:
		return styles.MutedText
	case level >= slog.LevelError:
		return styles.DangerText
	case level >= slog.LevelWarn:
		return styles.WarningText
	case level < slog.LevelInfo:
		return styles.FaintText
	default:
		return styles.Text
	}
}
