// Package app wires configuration, storage, recording and the viewers into
// the herospath application.
//
// # Startup
//
//  1. Load config from ~/.config/herospath/config.toml (defaults if missing)
//  2. Open the structured log file under the XDG state directory
//  3. Open the history backend: a JSON file in the workspace or SQLite
//  4. Open the session; unreadable history starts empty with a notice
//  5. Optionally reset the history
//  6. Export, serve or run the TUI
//
// # Recording and Following
//
// With a record path the recorder watches that document and every save
// becomes a snapshot. Without one, a follower reloads the history every two
// seconds so a recorder running in another process shows up live. Reload
// failures back off exponentially up to thirty seconds.
//
// # Shutdown
//
// Cancelling the context stops the viewer. The session then flushes any
// pending save within a short timeout before the backend is closed.
package app
