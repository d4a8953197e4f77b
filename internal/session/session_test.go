package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/herospath/internal/diff"
	"github.com/five82/herospath/internal/history"
	"github.com/five82/herospath/internal/storage"
	"github.com/five82/herospath/internal/timeline"
)

var base = time.Date(2024, 10, 10, 14, 32, 15, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession(t *testing.T, backend storage.Backend, capacity int) *Session {
	t.Helper()
	s := New(Options{
		Capacity:  capacity,
		Backend:   backend,
		SaveDelay: time.Hour,
		Logger:    quietLogger(),
		Now:       func() time.Time { return base },
	})
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func encoded(t *testing.T, texts ...string) []byte {
	t.Helper()
	h := history.New(0)
	for i, text := range texts {
		h.Append(text, "plaintext", base.Add(time.Duration(i)*time.Second))
	}
	data, err := history.Encode(h)
	require.NoError(t, err)
	return data
}

func TestSession_OpenMissingStartsEmpty(t *testing.T) {
	s := newSession(t, storage.NewMemoryStore(nil), 10)

	require.NoError(t, s.Open(context.Background()))
	assert.Zero(t, s.Count())
	assert.Empty(t, s.Notices())
	assert.Zero(t, s.Timeline().FrameCount())
}

func TestSession_OpenLoadsPersisted(t *testing.T) {
	s := newSession(t, storage.NewMemoryStore(encoded(t, "a", "ab")), 10)

	require.NoError(t, s.Open(context.Background()))
	assert.Equal(t, 2, s.Count())
	reel := s.Timeline()
	assert.Equal(t, 3, reel.FrameCount())
	require.Len(t, reel.Diffs, 1)
}

func TestSession_OpenCorruptStartsEmptyWithNotice(t *testing.T) {
	s := newSession(t, storage.NewMemoryStore([]byte(`{"not":"an array"}`)), 10)

	err := s.Open(context.Background())
	var corrupt *history.CorruptHistoryError
	require.ErrorAs(t, err, &corrupt)

	assert.Zero(t, s.Count())
	n, ok := s.LatestNotice()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(n.Message, "Failed to load history 'memory'"), n.Message)
	assert.Equal(t, slog.LevelWarn, n.Level)
	assert.Equal(t, base, n.At)
}

func TestSession_OpenUnavailableStartsEmpty(t *testing.T) {
	store := storage.NewMemoryStore(encoded(t, "a"))
	store.SetFailures(errors.New("permission denied"), nil)
	s := newSession(t, store, 10)

	err := s.Open(context.Background())
	var unavailable *storage.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Zero(t, s.Count())

	// The session keeps working in memory.
	s.Record("x", "go", base)
	assert.Equal(t, 1, s.Count())
	n, _ := s.LatestNotice()
	assert.Contains(t, n.Message, "permission denied")
}

func TestSession_ReloadFailureKeepsHistory(t *testing.T) {
	store := storage.NewMemoryStore(encoded(t, "a", "ab"))
	s := newSession(t, store, 10)
	require.NoError(t, s.Open(context.Background()))

	require.NoError(t, store.WriteAll(context.Background(), []byte("garbage")))
	err := s.Reload(context.Background())
	require.Error(t, err)

	assert.Equal(t, 2, s.Count())
	n, ok := s.LatestNotice()
	require.True(t, ok)
	assert.Contains(t, n.Message, "Failed to reload history")
}

func TestSession_ReloadReplacesHistory(t *testing.T) {
	store := storage.NewMemoryStore(encoded(t, "a"))
	s := newSession(t, store, 10)
	require.NoError(t, s.Open(context.Background()))
	before := s.Timeline()

	require.NoError(t, store.WriteAll(context.Background(), encoded(t, "x", "xy", "xyz")))
	require.NoError(t, s.Reload(context.Background()))

	assert.Equal(t, 3, s.Count())
	after := s.Timeline()
	assert.Equal(t, 1, before.Len())
	assert.Equal(t, 3, after.Len())
	assert.Len(t, after.Diffs, 2)
}

func TestSession_ReloadUnchangedKeepsTimeline(t *testing.T) {
	store := storage.NewMemoryStore(encoded(t, "a", "ab"))
	s := newSession(t, store, 10)
	require.NoError(t, s.Open(context.Background()))
	before := s.Timeline()

	calls := 0
	s.OnChange(func(int) { calls++ })
	require.NoError(t, s.Reload(context.Background()))

	assert.Zero(t, calls)
	after := s.Timeline()
	assert.Same(t, &before.Diffs[0], &after.Diffs[0])
}

func TestSession_ReloadFlushesPendingRecord(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	s := newSession(t, store, 10)
	require.NoError(t, s.Open(context.Background()))

	s.Record("a", "plaintext", base)
	require.NoError(t, s.Flush(context.Background()))
	s.Record("ab", "plaintext", base.Add(time.Second))

	require.NoError(t, s.Reload(context.Background()))

	assert.Equal(t, 2, s.Count())
	h, err := history.Decode(store.Bytes(), 10)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshots(), h.All())
}

func TestSession_ReloadKeepsUnsavedRecordAfterFailedSave(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	s := newSession(t, store, 10)
	require.NoError(t, s.Open(context.Background()))

	s.Record("a", "plaintext", base)
	require.NoError(t, s.Flush(context.Background()))
	store.SetFailures(nil, errors.New("disk full"))
	s.Record("ab", "plaintext", base.Add(time.Second))
	require.Error(t, s.Flush(context.Background()))

	err := s.Reload(context.Background())
	require.ErrorIs(t, err, ErrUnsavedChanges)

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, "ab", s.Snapshots()[1].Text)
	n, ok := s.LatestNotice()
	require.True(t, ok)
	assert.Contains(t, n.Message, "Failed to reload history")

	store.SetFailures(nil, nil)
	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, 2, s.Count())
	h, err := history.Decode(store.Bytes(), 10)
	require.NoError(t, err)
	assert.Len(t, h.All(), 2)
}

func TestSession_RecordDoesNotWaitForTimeline(t *testing.T) {
	s := newSession(t, nil, 10)
	s.Record("a", "plaintext", base)
	s.Record("ab", "plaintext", base.Add(time.Second))

	started := make(chan struct{})
	release := make(chan struct{})
	compute := s.computeAll
	s.computeAll = func(snaps []history.Snapshot) []diff.Diff {
		close(started)
		<-release
		return compute(snaps)
	}

	done := make(chan timeline.Reel)
	go func() { done <- s.Timeline() }()
	<-started

	recorded := make(chan struct{})
	go func() {
		s.Record("abc", "plaintext", base.Add(2*time.Second))
		close(recorded)
	}()
	select {
	case <-recorded:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked while the diff set was computed")
	}
	assert.Equal(t, 3, s.Count())

	close(release)
	stale := <-done
	assert.Equal(t, 2, stale.Len())

	s.computeAll = compute
	fresh := s.Timeline()
	assert.Equal(t, 3, fresh.Len(), "a reel computed before the change is not cached")
	assert.Len(t, fresh.Diffs, 2)
}

func TestSession_RecordPersistsInBackground(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	s := newSession(t, store, 10)
	require.NoError(t, s.Open(context.Background()))

	s.Record("a", "plaintext", base)
	s.Record("ab", "plaintext", base.Add(time.Second))
	assert.Zero(t, store.Writes(), "save is debounced")

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 1, store.Writes())

	h, err := history.Decode(store.Bytes(), 10)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshots(), h.All())
}

func TestSession_SaveFailureKeepsAppend(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	store.SetFailures(nil, errors.New("disk full"))
	s := New(Options{Capacity: 10, Backend: store, SaveDelay: time.Millisecond, Logger: quietLogger()})

	s.Record("a", "plaintext", base)
	assert.Equal(t, 1, s.Count())

	require.Eventually(t, func() bool {
		n, ok := s.LatestNotice()
		return ok && strings.Contains(n.Message, "disk full")
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, s.Count())
}

func TestSession_CapacityScenario(t *testing.T) {
	s := newSession(t, nil, 2)

	s.Record("a", "plaintext", base)
	s.Record("ab", "plaintext", base.Add(time.Second))
	s.Record("abc", "plaintext", base.Add(2*time.Second))

	reel := s.Timeline()
	require.Len(t, reel.Snapshots, 2)
	assert.Equal(t, "ab", reel.Snapshots[0].Text)
	assert.Equal(t, "abc", reel.Snapshots[1].Text)
	require.Len(t, reel.Diffs, 1)
	assert.Equal(t, `ab<ins class="hp-ins">c</ins>`, reel.Diffs[0].Markup)
	assert.Equal(t, "memory", s.Location())
}

func TestSession_TimelineCachedUntilChange(t *testing.T) {
	s := newSession(t, nil, 10)
	s.Record("a", "plaintext", base)
	s.Record("ab", "plaintext", base)

	first := s.Timeline()
	second := s.Timeline()
	require.Len(t, first.Diffs, 1)
	assert.Same(t, &first.Diffs[0], &second.Diffs[0], "unchanged history reuses the diff set")

	s.Record("abc", "plaintext", base)
	third := s.Timeline()
	assert.Len(t, third.Diffs, 2)
}

func TestSession_OnChangeReportsCount(t *testing.T) {
	store := storage.NewMemoryStore(encoded(t, "a", "b", "c"))
	s := newSession(t, store, 10)

	var counts []int
	s.OnChange(func(n int) { counts = append(counts, n) })

	require.NoError(t, s.Open(context.Background()))
	s.Record("d", "plaintext", base.Add(time.Minute))
	s.Reset()

	assert.Equal(t, []int{3, 4, 0}, counts)
}

func TestSession_ResetPersistsEmptyDocument(t *testing.T) {
	store := storage.NewMemoryStore(encoded(t, "a"))
	s := newSession(t, store, 10)
	require.NoError(t, s.Open(context.Background()))

	s.Reset()
	require.NoError(t, s.Flush(context.Background()))

	assert.Zero(t, s.Count())
	assert.JSONEq(t, `[]`, string(store.Bytes()))
}

func TestSession_NoticesAreBoundedAndDeduplicated(t *testing.T) {
	s := newSession(t, nil, 10)
	for i := 0; i < 3; i++ {
		s.warn("same", nil)
	}
	assert.Len(t, s.Notices(), 1)

	for i := 0; i < defaultMaxNotices+5; i++ {
		s.warn(strings.Repeat("x", i+1), nil)
	}
	notices := s.Notices()
	assert.Len(t, notices, defaultMaxNotices)
	assert.Equal(t, strings.Repeat("x", defaultMaxNotices+5), notices[len(notices)-1].Message)
}

func TestSession_CloseFlushes(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	s := New(Options{Capacity: 10, Backend: store, SaveDelay: time.Hour, Logger: quietLogger()})

	s.Record("a", "plaintext", base)
	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, 1, store.Writes())
}
