// Package storage persists the encoded snapshot history.
//
// A Backend holds exactly one document: ReadAll returns it (or ErrNotExist on
// first run) and WriteAll replaces it wholesale. There is no append path and no
// partial-write recovery; the last writer wins.
//
// Backends:
//
//   - FileStore: <workspace>/snapshots.json, written through temp file + rename
//   - SQLiteStore: one row in a modernc.org/sqlite database
//   - MemoryStore: in-process, with injectable failures
//
// Saver decouples persistence from recording. Save hands over the encoded
// document and returns at once; a debounced timer performs the write on its own
// goroutine. A failed write is reported to the callback and leaves the in-memory
// history untouched.
//
// Errors: read and write failures come back as *UnavailableError. Load wraps
// decode failures, so callers test with errors.As for *history.CorruptHistoryError.
package storage
