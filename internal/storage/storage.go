package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/herospath/internal/history"
)

// ErrNotExist is returned by ReadAll when nothing has been persisted yet.
var ErrNotExist = errors.New("history document does not exist")

// Backend stores a single serialized history document.
type Backend interface {
	// ReadAll returns the persisted document or ErrNotExist.
	ReadAll(ctx context.Context) ([]byte, error)
	// WriteAll replaces the persisted document.
	WriteAll(ctx context.Context, data []byte) error
	// Describe names the location for user-facing messages.
	Describe() string
}

// UnavailableError reports that the storage location cannot be read or written.
type UnavailableError struct {
	Op       string // "read" or "write"
	Location string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %s %s: %v", e.Op, e.Location, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Load reads and decodes the persisted history. A missing document yields an
// empty history and no error.
func Load(ctx context.Context, b Backend, capacity int) (*history.History, error) {
	data, err := b.ReadAll(ctx)
	if errors.Is(err, ErrNotExist) {
		return history.New(capacity), nil
	}
	if err != nil {
		return nil, err
	}
	h, err := history.Decode(data, capacity)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", b.Describe(), err)
	}
	return h, nil
}

// Save encodes and writes the history synchronously.
func Save(ctx context.Context, b Backend, h *history.History) error {
	data, err := history.Encode(h)
	if err != nil {
		return err
	}
	return b.WriteAll(ctx, data)
}
