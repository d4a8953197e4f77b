package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/herospath/internal/diff"
	"github.com/five82/herospath/internal/history"
	"github.com/five82/herospath/internal/storage"
	"github.com/five82/herospath/internal/timeline"
)

// DefaultSaveDelay is the debounce window for background saves.
const DefaultSaveDelay = 250 * time.Millisecond

// ErrUnsavedChanges is returned by Reload when recorded snapshots have not
// reached storage, so replacing the history would drop them.
var ErrUnsavedChanges = errors.New("unsaved changes in memory")

// Options configure a Session.
type Options struct {
	Capacity  int
	Backend   storage.Backend // nil keeps history in memory only
	Engine    *diff.Engine    // nil uses default engine options
	SaveDelay time.Duration   // zero uses DefaultSaveDelay
	Logger    *slog.Logger
	// Now stamps notices; tests override it.
	Now func() time.Time
}

// Session owns the recorded history of one document together with its
// storage and the derived diff set. Every method is safe for concurrent use.
// History changes are serialized by the session lock; diff computation and
// storage writes happen outside it.
type Session struct {
	mu       sync.Mutex
	hist     *history.History
	backend  storage.Backend
	saver    *storage.Saver
	engine   *diff.Engine
	logger   *slog.Logger
	now      func() time.Time
	onChange func(count int)

	// computeAll derives the diff set; tests replace it to pause computation.
	computeAll func([]history.Snapshot) []diff.Diff

	reel    timeline.Reel
	reelGen uint64
	reelOK  bool

	noticeMu sync.Mutex
	notices  []Notice
}

// New returns a session with an empty history. Call Open to load persisted
// state.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	engine := opts.Engine
	if engine == nil {
		engine = diff.NewEngine(diff.Options{})
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	delay := opts.SaveDelay
	if delay == 0 {
		delay = DefaultSaveDelay
	}

	s := &Session{
		hist:    history.New(opts.Capacity),
		backend: opts.Backend,
		engine:  engine,
		logger:  logger,
		now:     now,
	}
	s.computeAll = engine.ComputeAll
	if s.backend != nil {
		s.saver = storage.NewSaver(s.backend, delay, func(err error) {
			s.warn(FormatWith(OpSave, s.backend.Describe(), err), err)
		})
	}
	return s
}

// OnChange registers fn to be called with the snapshot count after every
// change to the history. fn runs outside the session lock.
func (s *Session) OnChange(fn func(count int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Open loads the persisted history. A missing document starts empty. Corrupt
// or unreadable storage also starts empty and leaves a notice; the returned
// error is only for the caller's information.
func (s *Session) Open(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	loaded, err := storage.Load(ctx, s.backend, s.capacity())
	if err != nil {
		s.warn(describeLoadFailure(OpLoad, s.backend.Describe(), err), err)
		s.replace(nil)
		return err
	}
	s.logger.Info("history loaded", "location", s.backend.Describe(), "snapshots", loaded.Len())
	s.replace(loaded.All())
	return nil
}

// Reload re-reads the persisted history. On failure the current history is
// kept unchanged. When storage holds the same snapshots nothing is replaced
// and listeners are not notified. Snapshots that have not been written yet are
// flushed first; if they still cannot be written the history is kept and
// ErrUnsavedChanges is returned.
func (s *Session) Reload(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	loc := s.backend.Describe()
	if s.saver.Dirty() {
		if err := s.saver.Flush(ctx); err != nil {
			err = fmt.Errorf("%w: %w", ErrUnsavedChanges, err)
			s.warn(FormatWith(OpReload, loc, err), err)
			return err
		}
	}
	loaded, err := storage.Load(ctx, s.backend, s.capacity())
	if err != nil {
		s.warn(describeLoadFailure(OpReload, loc, err), err)
		return err
	}
	snaps := loaded.All()
	if s.unchanged(snaps) {
		s.logger.Debug("history unchanged on reload", "location", loc)
		return nil
	}
	if !s.replaceIfClean(snaps) {
		s.warn(FormatWith(OpReload, loc, ErrUnsavedChanges), ErrUnsavedChanges)
		return ErrUnsavedChanges
	}
	s.logger.Info("history reloaded", "location", loc, "snapshots", len(snaps))
	return nil
}

// Record appends a snapshot and schedules a background save. It never blocks
// on storage and a failed save does not undo the append.
func (s *Session) Record(text, language string, at time.Time) {
	s.mu.Lock()
	s.hist.Append(text, language, at)
	if err := s.hist.Validate(); err != nil {
		s.logger.Error("history invariant broken", "error", err)
	}
	count := s.hist.Len()
	s.scheduleSaveLocked()
	cb := s.onChange
	s.mu.Unlock()

	s.logger.Debug("snapshot recorded", "language", language, "bytes", len(text), "snapshots", count)
	if cb != nil {
		cb(count)
	}
}

// Reset clears the history and persists the empty document.
func (s *Session) Reset() {
	s.mu.Lock()
	s.hist.Reset()
	s.scheduleSaveLocked()
	cb := s.onChange
	s.mu.Unlock()

	s.logger.Info("history reset")
	if cb != nil {
		cb(0)
	}
}

// Count returns the number of recorded snapshots.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Len()
}

// Snapshots returns a copy of the history, oldest first.
func (s *Session) Snapshots() []history.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.All()
}

// Location describes where the history is persisted.
func (s *Session) Location() string {
	if s.backend == nil {
		return "memory"
	}
	return s.backend.Describe()
}

// Engine returns the diff engine used for the reel.
func (s *Session) Engine() *diff.Engine {
	return s.engine
}

// Timeline returns the snapshots and their diffs. The diff set is recomputed
// in full whenever the history has changed since the previous call. Diffs are
// computed outside the session lock so recording never waits on them. The
// returned slices are shared and must not be modified.
func (s *Session) Timeline() timeline.Reel {
	s.mu.Lock()
	gen := s.hist.Generation()
	if s.reelOK && gen == s.reelGen {
		reel := s.reel
		s.mu.Unlock()
		return reel
	}
	snaps := s.hist.All()
	s.mu.Unlock()

	start := time.Now()
	reel := timeline.Reel{Snapshots: snaps, Diffs: s.computeAll(snaps)}
	s.logger.Debug("diff set computed", "snapshots", len(snaps), "elapsed", time.Since(start))

	s.mu.Lock()
	if s.hist.Generation() == gen {
		s.reel = reel
		s.reelGen = gen
		s.reelOK = true
	}
	s.mu.Unlock()
	return reel
}

// Notices returns recent warnings, oldest first.
func (s *Session) Notices() []Notice {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// LatestNotice returns the most recent warning, if any.
func (s *Session) LatestNotice() (Notice, bool) {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	if len(s.notices) == 0 {
		return Notice{}, false
	}
	return s.notices[len(s.notices)-1], true
}

// Flush writes any pending save now.
func (s *Session) Flush(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Flush(ctx)
}

// Close flushes the pending save. The session keeps working in memory after
// Close but no longer persists.
func (s *Session) Close(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.Close(ctx); err != nil {
		s.warn(FormatWith(OpSave, s.backend.Describe(), err), err)
		return fmt.Errorf("flush history: %w", err)
	}
	return nil
}

func (s *Session) capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Cap()
}

func (s *Session) replace(snaps []history.Snapshot) {
	s.mu.Lock()
	s.hist.Replace(snaps)
	count := s.hist.Len()
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(count)
	}
}

// replaceIfClean swaps in snaps unless a recorded change is still waiting
// for storage. The check and the swap share one critical section so a Record
// cannot slip in between.
func (s *Session) replaceIfClean(snaps []history.Snapshot) bool {
	s.mu.Lock()
	if s.saver.Dirty() {
		s.mu.Unlock()
		return false
	}
	s.hist.Replace(snaps)
	count := s.hist.Len()
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(count)
	}
	return true
}

func (s *Session) unchanged(snaps []history.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hist.Len() != len(snaps) {
		return false
	}
	for i, snap := range snaps {
		cur, ok := s.hist.At(i)
		if !ok || !cur.Equal(snap) {
			return false
		}
	}
	return true
}

func (s *Session) scheduleSaveLocked() {
	if s.saver == nil {
		return
	}
	data, err := history.Encode(s.hist)
	if err != nil {
		s.warn(Format(OpEncode, err), err)
		return
	}
	s.saver.Save(data)
}

func (s *Session) warn(msg string, err error) {
	s.logger.Warn(msg, "error", err)

	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	if n := len(s.notices); n > 0 && s.notices[n-1].Message == msg {
		s.notices[n-1].At = s.now()
		return
	}
	s.notices = append(s.notices, Notice{At: s.now(), Level: slog.LevelWarn, Message: msg})
	if len(s.notices) > defaultMaxNotices {
		s.notices = s.notices[len(s.notices)-defaultMaxNotices:]
	}
}

func describeLoadFailure(op Op, location string, err error) string {
	var corrupt *history.CorruptHistoryError
	var unavailable *storage.UnavailableError
	switch {
	case errors.As(err, &corrupt):
		return FormatWith(op, location, corrupt)
	case errors.As(err, &unavailable):
		return FormatWith(op, location, fmt.Errorf("storage unavailable: %w", unavailable.Err))
	default:
		return FormatWith(op, location, err)
	}
}
