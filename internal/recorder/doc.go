// Package recorder turns saves of a document on disk into snapshots.
//
// A Recorder watches the document's directory with fsnotify, so both in-place
// writes and editors that save through a temporary file and rename are seen.
// Bursts of events within the debounce window collapse into one capture. Each
// capture reads the whole file and hands (text, language, time) to a Sink,
// normally a session.Session.
package recorder
