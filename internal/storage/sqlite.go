package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore keeps the history document as a single row in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (and creates if needed) the database at path. Use ":memory:"
// for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &UnavailableError{Op: "open", Location: path, Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &UnavailableError{Op: "open", Location: path, Err: err}
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, &UnavailableError{Op: "open", Location: path, Err: err}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS history_document (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Describe implements Backend.
func (s *SQLiteStore) Describe() string {
	return "sqlite:" + s.path
}

// ReadAll implements Backend.
func (s *SQLiteStore) ReadAll(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM history_document WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, &UnavailableError{Op: "read", Location: s.Describe(), Err: err}
	}
	return data, nil
}

// WriteAll implements Backend.
func (s *SQLiteStore) WriteAll(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history_document (id, data, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, data, time.Now().Unix())
	if err != nil {
		return &UnavailableError{Op: "write", Location: s.Describe(), Err: err}
	}
	return nil
}

// UpdatedAt returns when the document was last written.
func (s *SQLiteStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var unix int64
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM history_document WHERE id = 1`).Scan(&unix)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotExist
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(unix, 0), nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
