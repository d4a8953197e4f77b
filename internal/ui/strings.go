package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// truncate shortens a string to the given display width, adding an ellipsis
// if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= runewidth.StringWidth(ellipsis) {
		return runewidth.Truncate(value, limit, "")
	}
	return runewidth.Truncate(value, limit, ellipsis)
}

// truncateMiddle shortens a string by removing characters from the middle,
// preserving both the beginning and end. For paths, it keeps the file name.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	if runewidth.StringWidth(value) <= limit {
		return value
	}

	sep := ellipsis + "/"
	sepWidth := runewidth.StringWidth(sep)
	if limit <= sepWidth+1 {
		return runewidth.Truncate(value, limit, "")
	}

	// Paths keep the whole file name when it fits in half the space.
	if idx := strings.LastIndexAny(value, `/\`); idx >= 0 {
		name := value[idx+1:]
		nameWidth := runewidth.StringWidth(name)
		if nameWidth > 0 && nameWidth < limit/2 {
			head := runewidth.Truncate(value[:idx], limit-nameWidth-sepWidth, "")
			return head + sep + name
		}
	}

	keep := limit - runewidth.StringWidth(ellipsis)
	prefix := keep / 2
	suffix := keep - prefix
	return runewidth.Truncate(value, prefix, "") + ellipsis + tailWidth(value, suffix)
}

// tailWidth returns the longest suffix of s no wider than width.
func tailWidth(s string, width int) string {
	runes := []rune(s)
	w := 0
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > width {
			break
		}
		w += rw
		i--
	}
	return string(runes[i:])
}

// padRight pads a string with spaces to the given display width.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func expandTabs(s string) string {
	out, _ := expandTabsFrom(s, 0)
	return out
}

// expandTabsFrom expands tabs in s as if it started at column col and
// returns the column after the last rune.
func expandTabsFrom(s string, col int) (string, int) {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return b.String(), col
}

// maxInt returns the larger of two integers.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
