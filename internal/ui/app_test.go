package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/herospath/internal/prefs"
	"github.com/five82/herospath/internal/session"
	"github.com/five82/herospath/internal/timeline"
)

// idleScheduler never fires; tests drive the player through keys.
var idleScheduler = timeline.SchedulerFunc(func(time.Duration, func()) func() {
	return func() {}
})

func newTestModel(t *testing.T, texts ...string) (Model, *session.Session) {
	t.Helper()
	s := session.New(session.Options{Capacity: 10})
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range texts {
		s.Record(text, "plaintext", at.Add(time.Duration(i)*time.Second))
	}

	m := New(Options{
		Session:   s,
		Scheduler: idleScheduler,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	}, nil)

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m = update(t, m, fetchReelCmd(s)())
	return m, s
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelShowsFirstSnapshot(t *testing.T) {
	m, _ := newTestModel(t, "alpha", "alphabet")

	if m.frame.Kind != timeline.FrameSnapshot || m.frame.Index != 0 {
		t.Fatalf("frame = %v, want snapshot 0", m.frame)
	}
	view := stripANSI(m.View())
	for _, want := range []string{"herospath", "Frame: 1/3", "snapshot #1", "alpha"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelStepsThroughFrames(t *testing.T) {
	m, _ := newTestModel(t, "a", "ab", "abc")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.frame.Kind != timeline.FrameDiff || m.frame.Index != 0 {
		t.Fatalf("after right: frame = %v, want diff 0", m.frame)
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "+1") {
		t.Fatalf("diff header missing insert count:\n%s", view)
	}

	m = update(t, m, keyRunes("G"))
	if m.frame.Kind != timeline.FrameSnapshot || m.frame.Index != 2 {
		t.Fatalf("after G: frame = %v, want snapshot 2", m.frame)
	}

	// Wraps to the first frame.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.frame.Position != 0 {
		t.Fatalf("after wrap: position = %d, want 0", m.frame.Position)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.frame.Position != 4 {
		t.Fatalf("after left: position = %d, want 4", m.frame.Position)
	}
}

func TestModelEmptyHistory(t *testing.T) {
	m, _ := newTestModel(t)

	if !m.frame.None() {
		t.Fatalf("frame = %v, want none", m.frame)
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "No snapshots recorded yet") {
		t.Fatalf("view missing empty message:\n%s", view)
	}
}

func TestModelPlayPause(t *testing.T) {
	m, _ := newTestModel(t, "a", "b")

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.player.Running() {
		t.Fatal("player not running after space")
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "PLAY") {
		t.Fatalf("header missing play badge:\n%s", view)
	}

	// Stepping pauses playback.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.player.Running() {
		t.Fatal("player still running after manual step")
	}
}

func TestModelSpeedIsSavedToPrefs(t *testing.T) {
	m, _ := newTestModel(t, "a")

	before := m.player.Interval()
	m = update(t, m, keyRunes("-"))
	if got := m.player.Interval(); got != before*2 {
		t.Fatalf("interval = %v, want %v", got, before*2)
	}

	p := prefs.Load(m.prefsPath)
	if p.SpeedMS != int((before*2)/time.Millisecond) {
		t.Fatalf("prefs speed = %d, want %d", p.SpeedMS, (before*2)/time.Millisecond)
	}
}

func TestModelCycleThemeIsSavedToPrefs(t *testing.T) {
	m, _ := newTestModel(t, "a")

	m = update(t, m, keyRunes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want %q", m.theme.Name, "Kanagawa")
	}
	if p := prefs.Load(m.prefsPath); p.Theme != "Kanagawa" {
		t.Fatalf("prefs theme = %q, want %q", p.Theme, "Kanagawa")
	}
}

func TestModelRefetchesOnHistoryChange(t *testing.T) {
	m, s := newTestModel(t, "a")

	s.Record("ab", "plaintext", time.Now())
	next, cmd := m.Update(historyChangedMsg(2))
	if cmd == nil {
		t.Fatal("historyChangedMsg returned no command")
	}
	m = update(t, next.(Model), cmd())
	if m.reel.Len() != 2 {
		t.Fatalf("reel length = %d, want 2", m.reel.Len())
	}
	if m.player.Count() != 2 {
		t.Fatalf("player count = %d, want 2", m.player.Count())
	}
}

func TestModelHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, "a")

	m = update(t, m, keyRunes("?"))
	if !m.showHelp {
		t.Fatal("help not shown")
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Fatalf("help view missing title:\n%s", view)
	}
	m = update(t, m, keyRunes("x"))
	if m.showHelp {
		t.Fatal("help still shown after key")
	}
}

func TestModelShowsSessionNotice(t *testing.T) {
	m, _ := newTestModel(t, "a")
	m.notice = "Failed to save history 'memory': boom"

	if view := stripANSI(m.View()); !strings.Contains(view, "Failed to save history") {
		t.Fatalf("footer missing notice:\n%s", view)
	}
}

func TestModelQuitStopsPlayer(t *testing.T) {
	m, _ := newTestModel(t, "a", "b")
	m.player.Start(0)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if m.player.Running() {
		t.Fatal("player still running after quit")
	}
}

func TestModelLogOverlay(t *testing.T) {
	m, _ := newTestModel(t, "a")
	m.logPath = filepath.Join(t.TempDir(), "herospath.log")
	log := "time=2024-05-01T12:00:00Z level=INFO msg=\"history loaded\"\n" +
		"time=2024-05-01T12:00:01Z level=WARN msg=\"save failed\"\n"
	if err := os.WriteFile(m.logPath, []byte(log), 0o644); err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(keyRunes("L"))
	if cmd == nil {
		t.Fatal("L returned no command")
	}
	m = update(t, next.(Model), cmd())
	if !m.showLogs || len(m.logLines) != 2 {
		t.Fatalf("showLogs = %v, lines = %d, want overlay with 2 lines", m.showLogs, len(m.logLines))
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "save failed") {
		t.Fatalf("log overlay missing line:\n%s", view)
	}

	m = update(t, m, keyRunes("x"))
	if m.showLogs {
		t.Fatal("log overlay still shown after key")
	}
}
