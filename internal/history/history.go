package history

import "time"

// DefaultCapacity is the number of snapshots kept when no capacity is configured.
const DefaultCapacity = 1000

// History is a bounded, insertion-ordered sequence of snapshots. The zero value
// is an empty history with DefaultCapacity.
type History struct {
	capacity int
	buf      []Snapshot
	head     int // slot of the oldest snapshot once buf is full
	gen      uint64
	now      func() time.Time
}

// New returns an empty history. Non-positive capacities use DefaultCapacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// WithClock overrides the clock used by AppendNow.
func (h *History) WithClock(now func() time.Time) *History {
	h.now = now
	return h
}

// Cap returns the maximum number of snapshots kept.
func (h *History) Cap() int {
	if h.capacity <= 0 {
		return DefaultCapacity
	}
	return h.capacity
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.buf)
}

// Generation changes every time the stored set changes.
func (h *History) Generation() uint64 {
	return h.gen
}

// Append stores a new snapshot at the tail, evicting the oldest one first when
// the history is full.
func (h *History) Append(text, language string, at time.Time) {
	at = normalizeTime(at)
	if last, ok := h.Latest(); ok && at.Before(last.Timestamp) {
		at = last.Timestamp
	}
	snap := Snapshot{Timestamp: at, Text: text, Language: language}

	if len(h.buf) < h.Cap() {
		h.buf = append(h.buf, snap)
	} else {
		h.buf[h.head] = snap
		h.head = (h.head + 1) % len(h.buf)
	}
	h.gen++
}

// AppendNow appends a snapshot stamped with the current time.
func (h *History) AppendNow(text, language string) {
	now := time.Now
	if h.now != nil {
		now = h.now
	}
	h.Append(text, language, now())
}

// At returns the i-th snapshot, oldest first.
func (h *History) At(i int) (Snapshot, bool) {
	if i < 0 || i >= len(h.buf) {
		return Snapshot{}, false
	}
	return h.buf[(h.head+i)%len(h.buf)], true
}

// Latest returns the newest snapshot.
func (h *History) Latest() (Snapshot, bool) {
	return h.At(len(h.buf) - 1)
}

// All returns a copy of the stored snapshots, oldest first.
func (h *History) All() []Snapshot {
	if len(h.buf) == 0 {
		return nil
	}
	out := make([]Snapshot, 0, len(h.buf))
	out = append(out, h.buf[h.head:]...)
	out = append(out, h.buf[:h.head]...)
	return out
}

// Reset drops every snapshot.
func (h *History) Reset() {
	h.buf = nil
	h.head = 0
	h.gen++
}

// Replace swaps the contents for snaps, appended in order. Only the newest
// Cap() snapshots survive.
func (h *History) Replace(snaps []Snapshot) {
	h.buf = nil
	h.head = 0
	if extra := len(snaps) - h.Cap(); extra > 0 {
		snaps = snaps[extra:]
	}
	for _, s := range snaps {
		h.Append(s.Text, s.Language, s.Timestamp)
	}
	h.gen++
}

// Validate checks the capacity invariant.
func (h *History) Validate() error {
	if len(h.buf) > h.Cap() {
		return &CapacityInvariantError{Len: len(h.buf), Cap: h.Cap()}
	}
	return nil
}
