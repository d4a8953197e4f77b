package ui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/herospath/internal/diff"
)

func stripANSI(s string) string {
	return ansi.Strip(s)
}

func TestRenderDiffReportsFirstChangedLine(t *testing.T) {
	script := diff.Script{
		{Op: diff.OpEqual, Text: "one\ntwo\n"},
		{Op: diff.OpDelete, Text: "three"},
		{Op: diff.OpInsert, Text: "3"},
		{Op: diff.OpEqual, Text: "\nfour"},
	}
	body, first := renderDiff(script, GetTheme("Nightfox").Styles())
	if first != 2 {
		t.Fatalf("first = %d, want 2", first)
	}
	if got, want := stripANSI(body), "one\ntwo\nthree3\nfour"; got != want {
		t.Fatalf("renderDiff = %q, want %q", got, want)
	}
}

func TestRenderDiffWithoutChanges(t *testing.T) {
	_, first := renderDiff(diff.Script{{Op: diff.OpEqual, Text: "same"}}, GetTheme("Slate").Styles())
	if first != -1 {
		t.Fatalf("first = %d, want -1", first)
	}
}

func TestRenderDiffMultilineInsert(t *testing.T) {
	script := diff.Script{
		{Op: diff.OpEqual, Text: "a"},
		{Op: diff.OpInsert, Text: "\n\tb\nc"},
	}
	body, first := renderDiff(script, GetTheme("Kanagawa").Styles())
	if first != 0 {
		t.Fatalf("first = %d, want 0", first)
	}
	if got, want := stripANSI(body), "a\n    b\nc"; got != want {
		t.Fatalf("renderDiff = %q, want %q", got, want)
	}
}

func TestRenderSnapshotExpandsTabs(t *testing.T) {
	if got := renderSnapshot("\tx"); got != "    x" {
		t.Fatalf("renderSnapshot = %q, want %q", got, "    x")
	}
}
