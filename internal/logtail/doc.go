// Package logtail reads the end of the herospath log file for display.
//
// Tail reads backwards from the end of the file in fixed-size blocks until it
// has enough lines, so large logs are never loaded whole. Level recognises
// the level field written by slog's text handler so viewers can colour lines.
package logtail
