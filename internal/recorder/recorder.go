package recorder

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the bursts of events editors produce for one save.
const DefaultDebounce = 100 * time.Millisecond

// Sink receives captured document versions.
type Sink interface {
	Record(text, language string, at time.Time)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(text, language string, at time.Time)

// Record calls f.
func (f SinkFunc) Record(text, language string, at time.Time) { f(text, language, at) }

// Options configure a Recorder.
type Options struct {
	Debounce time.Duration
	// Language overrides detection from the file extension.
	Language string
	// SkipUnchanged drops saves whose text equals the previous capture.
	SkipUnchanged bool
	Logger        *slog.Logger
	Now           func() time.Time
}

// Recorder watches one document and records a snapshot after each save.
// The parent directory is watched so saves that replace the file through a
// rename are seen too.
type Recorder struct {
	path     string
	language string
	sink     Sink
	opts     Options
	logger   *slog.Logger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	last    string
	hasLast bool
	closed  bool
	lastErr error
	saves   int

	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New starts watching path. The file does not need to exist yet but its
// directory does.
func New(path string, sink Sink, opts Options) (*Recorder, error) {
	if sink == nil {
		return nil, errors.New("recorder: nil sink")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	language := opts.Language
	if language == "" {
		language = LanguageFor(abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	r := &Recorder{
		path:     abs,
		language: language,
		sink:     sink,
		opts:     opts,
		logger:   logger.With("document", abs),
		watcher:  fsw,
		closeCh:  make(chan struct{}),
	}

	r.closedWg.Add(1)
	go r.processLoop()

	r.logger.Info("recording document", "language", language)
	return r, nil
}

// Path returns the absolute path of the watched document.
func (r *Recorder) Path() string { return r.path }

// Language returns the tag attached to recorded snapshots.
func (r *Recorder) Language() string { return r.language }

// Saves returns how many snapshots the recorder has passed to its sink.
func (r *Recorder) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// LastError returns the most recent watch or read error.
func (r *Recorder) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Capture reads the document now and records it, as if it had just been
// saved. It reports whether a snapshot was recorded.
func (r *Recorder) Capture() (bool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		r.recordError(err)
		return false, fmt.Errorf("read %s: %w", r.path, err)
	}
	text := string(data)

	r.mu.Lock()
	if r.opts.SkipUnchanged && r.hasLast && text == r.last {
		r.mu.Unlock()
		r.logger.Debug("save skipped, text unchanged")
		return false, nil
	}
	r.last = text
	r.hasLast = true
	r.saves++
	r.mu.Unlock()

	r.sink.Record(text, r.language, r.opts.Now())
	return true, nil
}

// Prime sets the text the next save is compared against when SkipUnchanged
// is set, typically the newest snapshot already in history.
func (r *Recorder) Prime(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = text
	r.hasLast = true
}

// Close stops watching. Pending debounced saves are dropped.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.closeCh)
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()

	r.closedWg.Wait()
	return r.watcher.Close()
}

func (r *Recorder) processLoop() {
	defer r.closedWg.Done()

	for {
		select {
		case <-r.closeCh:
			return

		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if r.relevant(ev) {
				r.schedule()
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.recordError(err)
			r.logger.Warn("watch error", "error", err)
		}
	}
}

func (r *Recorder) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != r.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (r *Recorder) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.opts.Debounce, r.fire)
}

func (r *Recorder) fire() {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return
	}

	if _, err := r.Capture(); err != nil {
		// The file can vanish between the event and the read during
		// rename-based saves; the following Create event records it.
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Debug("document missing after event", "error", err)
			return
		}
		r.logger.Warn("capture failed", "error", err)
	}
}

func (r *Recorder) recordError(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}
