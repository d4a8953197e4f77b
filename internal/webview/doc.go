// Package webview renders a recorded timeline as a web page.
//
// Page builds a single self-contained HTML document. Every frame of the reel
// is embedded as JSON and the page cycles through them client-side, so an
// exported file needs no server. Diff and snapshot markup is passed through a
// bluemonday policy that keeps only the del, ins and span elements produced
// by the diff renderer.
//
// Server serves the same page live from a session, plus the frames as JSON
// at /api/timeline and a /healthz probe.
package webview
