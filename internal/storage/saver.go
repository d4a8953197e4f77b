package storage

import (
	"context"
	"sync"
	"time"
)

const writeTimeout = 5 * time.Second

// Saver writes history documents in the background. Save returns immediately;
// bursts within the debounce window collapse into one write of the newest
// document. Write failures are reported through onError; the failed document
// stays pending and is written by the next Flush unless a newer Save replaced
// it.
type Saver struct {
	backend Backend
	delay   time.Duration
	onError func(error)

	writeMu sync.Mutex // held for the duration of a backend write

	mu      sync.Mutex
	timer   *time.Timer
	pending []byte
	closed  bool
	// seq counts Save calls; written is the seq of the last document the
	// backend accepted.
	seq     uint64
	written uint64
}

// NewSaver returns a saver writing to backend. onError may be nil.
func NewSaver(backend Backend, delay time.Duration, onError func(error)) *Saver {
	if delay < 0 {
		delay = 0
	}
	return &Saver{backend: backend, delay: delay, onError: onError}
}

// Save schedules data to be written. Later calls replace pending data.
func (s *Saver) Save(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.pending = data
	s.seq++

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.flush(ctx); err != nil && s.onError != nil {
			s.onError(err)
		}
	})
}

// Dirty reports whether a saved document has not reached the backend yet,
// either because it is still pending or because its write failed.
func (s *Saver) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written != s.seq
}

// Flush writes any pending document now.
func (s *Saver) Flush(ctx context.Context) error {
	return s.flush(ctx)
}

// Close stops the timer and flushes pending data. Further saves are ignored.
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	return s.flush(ctx)
}

func (s *Saver) flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	data, seq := s.pending, s.seq
	s.pending = nil
	s.mu.Unlock()

	if data == nil {
		return nil
	}
	if err := s.backend.WriteAll(ctx, data); err != nil {
		s.mu.Lock()
		if s.pending == nil {
			s.pending = data
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.written = seq
	s.mu.Unlock()
	return nil
}
