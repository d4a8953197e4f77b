// Package ui provides the terminal timeline viewer.
//
// # Architecture Overview
//
// The viewer is a Bubble Tea program. The Model holds a timeline.Reel (the
// snapshots and their diffs) and the current timeline.Frame. A timeline.Player
// owns the playback position; its scheduler runs on a ticker goroutine and
// sends each new frame into the program as a message, so the Model never
// touches timers itself.
//
// # Screen Layout
//
//   - Header line 1: play state, speed, snapshot count, frame position and
//     the current frame label with inserted/deleted rune counts
//   - Header line 2: when the visible snapshot was saved, its language and
//     size, and where the history is stored
//   - Content: a viewport with the snapshot text, or the diff with insertions
//     and deletions coloured by the theme
//   - Footer: the latest session notice, or key hints
//
// # Event Flow
//
//  1. Run() creates the player and program and hooks session.OnChange
//  2. Init() fetches the reel from the session
//  3. Each player tick arrives as a frameMsg and re-renders the viewport
//  4. A recorded save arrives as historyChangedMsg and refetches the reel
//  5. Context cancellation cleanly shuts down the UI
//
// # Key Bindings
//
//   - Space: Play/pause
//   - ←/→: Step one frame (pauses playback)
//   - g/G: First/last snapshot
//   - +/-: Faster/slower
//   - j/k, ctrl+d/u: Scroll
//   - r: Reload history from storage
//   - L: Show the tail of the log file
//   - T: Cycle theme (saved to prefs)
//   - h/?: Help
//   - e/ctrl+c: Quit
package ui
