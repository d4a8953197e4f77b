package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Backend. Failures can be injected for tests and
// for running without any writable location.
type MemoryStore struct {
	mu      sync.Mutex
	data    []byte
	present bool
	writes  int

	readErr  error
	writeErr error
}

// NewMemoryStore returns an empty store. A non-nil data slice is treated as an
// existing document.
func NewMemoryStore(data []byte) *MemoryStore {
	return &MemoryStore{data: data, present: data != nil}
}

// Describe implements Backend.
func (m *MemoryStore) Describe() string {
	return "memory"
}

// ReadAll implements Backend.
func (m *MemoryStore) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, &UnavailableError{Op: "read", Location: "memory", Err: m.readErr}
	}
	if !m.present {
		return nil, ErrNotExist
	}
	return append([]byte(nil), m.data...), nil
}

// WriteAll implements Backend.
func (m *MemoryStore) WriteAll(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return &UnavailableError{Op: "write", Location: "memory", Err: m.writeErr}
	}
	m.data = append([]byte(nil), data...)
	m.present = true
	m.writes++
	return nil
}

// Bytes returns the stored document.
func (m *MemoryStore) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Writes returns how many successful writes happened.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// SetFailures swaps the injected errors.
func (m *MemoryStore) SetFailures(readErr, writeErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = readErr
	m.writeErr = writeErr
}
