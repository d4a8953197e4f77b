package ui

import (
	"strings"

	"github.com/five82/herospath/internal/diff"
)

// renderSnapshot prepares snapshot text for the viewport.
func renderSnapshot(text string) string {
	return expandTabs(text)
}

// renderDiff styles an edit script for the terminal. It returns the content
// and the zero-based line of the first change, or -1 when nothing changed.
func renderDiff(script diff.Script, styles Styles) (string, int) {
	var b strings.Builder
	col, line, first := 0, 0, -1

	for _, span := range script {
		text, next := expandTabsFrom(span.Text, col)
		col = next
		if span.Op != diff.OpEqual && first < 0 {
			first = line
		}

		// Styles are applied per line so lipgloss does not pad the block.
		for i, seg := range strings.Split(text, "\n") {
			if i > 0 {
				b.WriteString("\n")
				line++
			}
			if seg == "" {
				continue
			}
			switch span.Op {
			case diff.OpInsert:
				b.WriteString(styles.Insert.Render(seg))
			case diff.OpDelete:
				b.WriteString(styles.Delete.Render(seg))
			default:
				b.WriteString(seg)
			}
		}
	}
	return b.String(), first
}
