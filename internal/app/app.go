package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/herospath/internal/config"
	"github.com/five82/herospath/internal/diff"
	"github.com/five82/herospath/internal/prefs"
	"github.com/five82/herospath/internal/recorder"
	"github.com/five82/herospath/internal/session"
	"github.com/five82/herospath/internal/storage"
	"github.com/five82/herospath/internal/ui"
	"github.com/five82/herospath/internal/webview"
)

const closeTimeout = 5 * time.Second

// Options configure the herospath application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/herospath/prefs.toml
	RecordPath string // document to watch; empty views history only
	ExportPath string // write an HTML page and exit
	Serve      bool   // serve the web viewer instead of the TUI
	IntervalMS int    // playback speed; zero uses prefs, then config
	Reset      bool   // clear history before anything else
	Workspace  string // overrides the configured workspace
	Debug      bool
}

// Run boots herospath until the context is cancelled or the viewer exits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Workspace != "" {
		if cfg, err = cfg.WithWorkspace(opts.Workspace); err != nil {
			return err
		}
	}

	logger, closeLog, err := newLogger(cfg.LogPath, opts.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)
	interval := playbackInterval(opts.IntervalMS, userPrefs, cfg)

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	sess := session.New(session.Options{
		Capacity:  cfg.Capacity,
		Backend:   backend,
		Engine:    diff.NewEngine(diff.Options{Timeout: cfg.DiffTimeout, Highlight: cfg.Highlight}),
		SaveDelay: cfg.SaveDebounce,
		Logger:    logger,
	})
	// Load failures leave a notice and an empty history; keep going.
	_ = sess.Open(ctx)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := sess.Close(closeCtx); err != nil {
			logger.Error("close session failed", "error", err)
		}
	}()

	if opts.Reset {
		sess.Reset()
		if err := sess.Flush(ctx); err != nil {
			return fmt.Errorf("reset history: %w", err)
		}
		logger.Info("history reset", "location", sess.Location())
		if opts.RecordPath == "" && opts.ExportPath == "" && !opts.Serve {
			fmt.Fprintf(os.Stderr, "history cleared: %s\n", sess.Location())
			return nil
		}
	}

	pageOpts := webview.PageOptions{
		Title:    pageTitle(opts.RecordPath),
		Interval: interval,
		Dark:     ui.GetTheme(userPrefs.Theme).Dark,
		Engine:   sess.Engine(),
	}

	if opts.ExportPath != "" {
		if err := webview.Export(opts.ExportPath, sess.Timeline(), pageOpts); err != nil {
			return fmt.Errorf("export timeline: %w", err)
		}
		logger.Info("timeline exported", "path", opts.ExportPath, "snapshots", sess.Count())
		return nil
	}

	if opts.RecordPath != "" {
		rec, err := recorder.New(opts.RecordPath, sess, recorder.Options{
			SkipUnchanged: true,
			Logger:        logger,
		})
		if err != nil {
			return fmt.Errorf("watch document: %w", err)
		}
		defer rec.Close()
		if snaps := sess.Snapshots(); len(snaps) > 0 {
			rec.Prime(snaps[len(snaps)-1].Text)
		}
		if _, err := rec.Capture(); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("initial capture failed", "path", rec.Path(), "error", err)
		}
	} else {
		// Another process may be recording into the same storage.
		StartFollower(ctx, sess, defaultFollowInterval, logger)
	}

	if opts.Serve {
		srv := webview.NewServer(sess, pageOpts, logger)
		fmt.Fprintf(os.Stderr, "herospath: serving http://%s\n", cfg.ServeAddr)
		return srv.ListenAndServe(ctx, cfg.ServeAddr)
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Session:   sess,
		Interval:  interval,
		Autoplay:  true,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogPath,
		Logger:    logger,
	})
}

// openBackend returns the configured storage and a func releasing it.
func openBackend(cfg config.Config) (storage.Backend, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		store, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open history database: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return storage.NewFileStore(cfg.HistoryPath), func() {}, nil
	}
}

// newLogger writes structured logs to path. The terminal belongs to the UI,
// so nothing is logged to stderr.
func newLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

func playbackInterval(flagMS int, p prefs.Prefs, cfg config.Config) time.Duration {
	switch {
	case flagMS > 0:
		return time.Duration(flagMS) * time.Millisecond
	case p.Speed() > 0:
		return p.Speed()
	default:
		return cfg.Interval
	}
}

func pageTitle(recordPath string) string {
	if recordPath == "" {
		return webview.DefaultTitle
	}
	return filepath.Base(recordPath) + " · " + webview.DefaultTitle
}
