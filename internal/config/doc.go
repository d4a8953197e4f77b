// Package config loads the herospath configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/herospath/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - capacity: 1000 snapshots
//   - interval_ms: 100 (playback speed)
//   - storage: "file"
//   - workspace: current directory
//   - history_path: <workspace>/snapshots.json
//   - sqlite_path: $XDG_DATA_HOME/herospath/history.db
//   - log_path: $XDG_STATE_HOME/herospath/herospath.log
//   - highlight: true
//   - diff_timeout_ms: 1000
//   - save_debounce_ms: 250
//   - serve_addr: 127.0.0.1:7489
//
// XDG base directories come from github.com/adrg/xdg.
//
// # TOML Format
//
//	capacity = 500
//	interval_ms = 250
//	storage = "sqlite"
//	workspace = "~/src/project"
//	highlight = true
//
// Every field is optional. Tilde expansion is performed on every path and
// relative paths are made absolute against the current directory.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - An unknown storage backend
//
// Missing config files are NOT an error.
package config
