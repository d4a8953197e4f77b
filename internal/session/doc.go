// Package session ties a snapshot history to its storage backend and the diff
// set derived from it.
//
// Recording never waits on storage: the document is encoded under the session
// lock and handed to a debounced storage.Saver. Load, reload and save failures
// become notices (see Format) and log warnings instead of errors that stop the
// session.
package session
