package logtail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLines(t *testing.T, n int, width int) (string, []string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "test.log")

	var content strings.Builder
	var lines []string
	for i := 1; i <= n; i++ {
		line := fmt.Sprintf("Line %d %s", i, strings.Repeat("x", width))
		content.WriteString(line + "\n")
		lines = append(lines, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return logPath, lines
}

func TestTail(t *testing.T) {
	logPath, expectedAll := writeLines(t, 10, 0)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Tail() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTailSpansBlocks(t *testing.T) {
	// 200 lines of ~110 bytes span several read blocks.
	logPath, all := writeLines(t, 200, 100)

	got, err := Tail(logPath, 75)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if !reflect.DeepEqual(got, all[125:]) {
		t.Fatalf("Tail() returned %d lines starting %q, want 75 starting %q", len(got), got[0], all[125])
	}
}

func TestTailWithoutTrailingNewline(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(logPath, []byte("one\r\ntwo\r\nthree"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Tail(logPath, 2)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if want := []string{"two", "three"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Tail() = %q, want %q", got, want)
	}
}

func TestTailMissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Tail() = %v, want nil", got)
	}
}

func TestTailEmptyFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(logPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Tail(logPath, 10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Tail() = %v, want empty", got)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		line   string
		want   slog.Level
		wantOK bool
	}{
		{`time=2024-05-01T12:00:00Z level=INFO msg="history loaded"`, slog.LevelInfo, true},
		{`time=2024-05-01T12:00:00Z level=WARN msg="Failed to save"`, slog.LevelWarn, true},
		{`level=ERROR msg=x`, slog.LevelError, true},
		{`time=x level=DEBUG`, slog.LevelDebug, true},
		{`plain text`, 0, false},
		{`level=LOUD msg=x`, 0, false},
	}
	for _, tt := range tests {
		got, ok := Level(tt.line)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("Level(%q) = %v, %v, want %v, %v", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}
