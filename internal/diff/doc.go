// Package diff computes and renders the changes between neighbouring snapshots.
//
// # Edit Scripts
//
// Compute wraps github.com/sergi/go-diff: a Myers diff (DiffMain) followed by
// semantic cleanup (DiffCleanupSemantic), which shifts and merges fragments so
// edits line up with word and line boundaries instead of alternating single
// characters. The result is normalized (no empty spans, no two neighbouring
// spans with the same op).
//
// Every Script satisfies two reconstruction properties:
//
//	Source() == old   (equal + delete spans, in order)
//	Target() == new   (equal + insert spans, in order)
//
// Compute checks both after cleanup and falls back to the raw script, then to
// a whole-text replace, if either ever fails.
//
// # Rendering
//
// Rendering is two composable steps applied per span:
//
//  1. Escape: html.EscapeString on the raw span text, exactly once
//  2. Wrap: <del class="hp-del"> for deletions, <ins class="hp-ins"> for
//     insertions, nothing for equal spans
//
// With RenderOptions.Highlight, a lexical pass (Tokenize) first splits raw text
// into keyword, string, number and comment tokens. Each token is escaped on its
// own and wrapped in <span class="hp-tok-KIND">. The pass never changes the
// text: stripping tags and unescaping rendered markup gives back the input.
//
// # Batch
//
// ComputeAll produces one Diff per adjacent snapshot pair, in history order.
// The session recomputes the whole set whenever the history generation changes.
package diff
