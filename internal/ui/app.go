package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/herospath/internal/prefs"
	"github.com/five82/herospath/internal/session"
	"github.com/five82/herospath/internal/timeline"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   *session.Session
	Scheduler timeline.Scheduler // nil uses a ticker
	Interval  time.Duration
	Autoplay  bool
	ThemeName string
	PrefsPath string
	LogPath   string // shown by the log overlay
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	session   *session.Session
	player    *timeline.Player
	prefsPath string
	logPath   string
	logger    *slog.Logger
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	showLogs bool

	// Data state
	reel   timeline.Reel
	frame  timeline.Frame
	notice string

	logLines []string
	logErr   error

	content viewport.Model
}

// New creates a new Bubble Tea model. The player is created stopped; onFrame
// is wired by Run.
func New(opts Options, player *timeline.Player) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if player == nil {
		player = timeline.New(opts.Scheduler, nil)
	}
	if opts.Interval > 0 {
		player.SetInterval(opts.Interval)
	}

	return Model{
		ctx:       ctx,
		session:   opts.Session,
		player:    player,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		logger:    logger,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		fetchReelCmd(m.session),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := maxInt(msg.Height-headerHeight-footerHeight, 1)
		if !m.ready {
			m.content = viewport.New(msg.Width, h)
		} else {
			m.content.Width = msg.Width
			m.content.Height = h
		}
		m.ready = true
		m.updateContent(false)
		return m, nil

	case frameMsg:
		m.frame = timeline.Frame(msg)
		m.refreshNotice()
		m.updateContent(true)
		return m, nil

	case reelMsg:
		m.reel = timeline.Reel(msg)
		m.frame = m.player.SetCount(m.reel.Len())
		m.refreshNotice()
		m.updateContent(true)
		return m, nil

	case historyChangedMsg:
		return m, fetchReelCmd(m.session)

	case logsMsg:
		m.logLines, m.logErr = msg.lines, msg.err
		return m, nil

	case reloadDoneMsg:
		m.refreshNotice()
		if msg.err == nil {
			m.notice = "History reloaded"
		}
		return m, fetchReelCmd(m.session)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.content.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.showLogs {
		// Any key closes an overlay
		m.showHelp = false
		m.showLogs = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.player.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateContent(false)
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		return m, loadLogsCmd(m.logPath, m.logLineLimit())

	case key.Matches(msg, m.keys.Reload):
		return m, reloadCmd(m.ctx, m.session)

	case key.Matches(msg, m.keys.PlayPause):
		m.player.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.player.Stop()
		m.frame = m.player.Tick()
		m.updateContent(true)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.player.Stop()
		m.frame = m.player.Prev()
		m.updateContent(true)
		return m, nil

	case key.Matches(msg, m.keys.First):
		m.frame = m.player.SeekSnapshot(0)
		m.updateContent(true)
		return m, nil

	case key.Matches(msg, m.keys.Last):
		m.frame = m.player.SeekSnapshot(m.reel.Len() - 1)
		m.updateContent(true)
		return m, nil

	case key.Matches(msg, m.keys.Faster):
		m.player.SetInterval(m.player.Interval() / 2)
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		m.player.SetInterval(m.player.Interval() * 2)
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.content.ScrollUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.content.ScrollDown(1)
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.content.HalfPageUp()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.content.HalfPageDown()
		return m, nil
	}

	return m, nil
}

// updateContent renders the current frame into the viewport. With follow set,
// diff frames scroll to their first change.
func (m *Model) updateContent(follow bool) {
	if !m.ready {
		return
	}
	v, ok := m.reel.Resolve(m.frame)
	if !ok {
		m.content.SetContent(m.theme.Styles().MutedText.Render(emptyMessage(m.reel.Len())))
		m.content.GotoTop()
		return
	}

	if v.Diff == nil {
		m.content.SetContent(renderSnapshot(v.Snapshot.Text))
		return
	}

	body, first := renderDiff(v.Diff.Script, m.theme.Styles())
	m.content.SetContent(body)
	if follow && first >= 0 {
		m.content.SetYOffset(maxInt(first-changeContextLines, 0))
	}
}

func (m *Model) refreshNotice() {
	if m.session == nil {
		return
	}
	if n, ok := m.session.LatestNotice(); ok {
		m.notice = n.Message
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:   m.theme.Name,
		SpeedMS: int(m.player.Interval() / time.Millisecond),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", "path", m.prefsPath, "error", err)
	}
}

func emptyMessage(count int) string {
	if count == 0 {
		return "No snapshots recorded yet. Save the document to record one."
	}
	return ""
}

// Messages

type frameMsg timeline.Frame

type reelMsg timeline.Reel

type historyChangedMsg int

type reloadDoneMsg struct{ err error }

// Commands

func fetchReelCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return reelMsg(timeline.Reel{})
		}
		return reelMsg(s.Timeline())
	}
}

func reloadCmd(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return reloadDoneMsg{}
		}
		ctx, cancel := context.WithTimeout(ctx, ReloadTimeout)
		defer cancel()
		return reloadDoneMsg{err: s.Reload(ctx)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled. Playback starts immediately when opts.Autoplay is set.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var prog *tea.Program
	player := timeline.New(opts.Scheduler, func(f timeline.Frame) {
		prog.Send(frameMsg(f))
	})
	defer player.Stop()

	m := New(opts, player)
	prog = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Session != nil {
		opts.Session.OnChange(func(count int) {
			prog.Send(historyChangedMsg(count))
		})
		defer opts.Session.OnChange(nil)
	}
	if opts.Autoplay {
		player.Start(0)
	}

	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
