package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/herospath/internal/timeline"
)

// renderHeader renders the two status lines above the content.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bar := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width)

	return bar.Render(m.statusLine(styles)) + "\n" + bar.Render(m.detailLine(styles))
}

// statusLine shows playback state and position.
func (m Model) statusLine(styles Styles) string {
	bg := lipgloss.Color(m.theme.Surface)
	on := func(s lipgloss.Style) lipgloss.Style { return s.Background(bg) }
	sep := on(lipgloss.NewStyle()).Render("  ")

	parts := []string{on(styles.Logo).Render(" herospath")}

	if m.player.Running() {
		parts = append(parts, styles.Badge(m.theme.Success).Render("▶ PLAY"))
	} else {
		parts = append(parts, styles.Badge(m.theme.Muted).Render("‖ PAUSE"))
	}
	parts = append(parts, on(styles.MutedText).Render(formatInterval(m.player.Interval())))

	count := m.reel.Len()
	parts = append(parts,
		on(styles.MutedText).Render("Snapshots:")+on(styles.Text).Render(" "+humanize.Comma(int64(count))))

	if !m.frame.None() {
		parts = append(parts,
			on(styles.MutedText).Render("Frame:")+
				on(styles.Text).Render(fmt.Sprintf(" %d/%d", m.frame.Position+1, m.reel.FrameCount())))
		parts = append(parts, m.frameLabel(styles, on))
	}

	return strings.Join(parts, sep)
}

// frameLabel describes the current frame, with change counts for diffs.
func (m Model) frameLabel(styles Styles, on func(lipgloss.Style) lipgloss.Style) string {
	switch m.frame.Kind {
	case timeline.FrameSnapshot:
		return on(styles.AccentText).Render(fmt.Sprintf("snapshot #%d", m.frame.Index+1))
	case timeline.FrameDiff:
		label := on(styles.InfoText).Render(fmt.Sprintf("diff #%d→#%d", m.frame.Index+1, m.frame.Index+2))
		v, ok := m.reel.Resolve(m.frame)
		if !ok {
			return label
		}
		st := v.Diff.Script.Stats()
		return label + " " +
			on(styles.SuccessText).Render(fmt.Sprintf("+%d", st.Inserted)) + " " +
			on(styles.DangerText).Render(fmt.Sprintf("-%d", st.Deleted))
	default:
		return ""
	}
}

// detailLine shows when the visible snapshot was saved and where history lives.
func (m Model) detailLine(styles Styles) string {
	var parts []string

	if v, ok := m.reel.Resolve(m.frame); ok {
		snap := v.Snapshot
		parts = append(parts,
			"saved "+humanize.Time(snap.Timestamp),
			snap.Timestamp.Local().Format("2006-01-02 15:04:05"),
			snap.Language,
			humanize.Bytes(uint64(len(snap.Text))),
		)
	}

	if m.session != nil && m.width >= LayoutCompactWidth {
		parts = append(parts, truncateMiddle(m.session.Location(), m.width/3))
	}

	line := " " + truncate(strings.Join(parts, " · "), maxInt(m.width-1, 1))
	return styles.MutedText.Background(lipgloss.Color(m.theme.Surface)).Render(line)
}

// renderFooter shows the latest notice, or key hints when there is none.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	footer := styles.Footer.Width(m.width)

	if m.notice != "" {
		text := truncate(m.notice, maxInt(m.width-2, 1))
		return footer.Render(styles.WarningText.Background(lipgloss.Color(m.theme.Surface)).Render(text))
	}

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+strings.ToLower(h.Desc))
	}
	return footer.Render(truncate(strings.Join(hints, " · "), maxInt(m.width-2, 1)))
}

func formatInterval(d time.Duration) string {
	if d >= time.Second {
		return fmt.Sprintf("%.1fs/frame", d.Seconds())
	}
	return fmt.Sprintf("%dms/frame", d.Milliseconds())
}
