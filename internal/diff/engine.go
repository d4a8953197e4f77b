package diff

import (
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/five82/herospath/internal/history"
)

// DefaultTimeout bounds how long a single diff may spend looking for a minimal
// script before settling for a coarser one.
const DefaultTimeout = time.Second

// Options configure an Engine.
type Options struct {
	// Timeout limits the diff search. Zero uses DefaultTimeout; negative
	// disables the limit.
	Timeout time.Duration
	// Highlight enables the lexical annotation pass in rendered markup.
	Highlight bool
}

// Engine computes and renders edit scripts.
type Engine struct {
	dmp  *diffmatchpatch.DiffMatchPatch
	opts Options
}

// Diff is the rendered change between two neighbouring snapshots.
type Diff struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Script Script `json:"script"`
	Markup string `json:"markup"`
}

// NewEngine returns an engine with opts.
func NewEngine(opts Options) *Engine {
	dmp := diffmatchpatch.New()
	switch {
	case opts.Timeout == 0:
		dmp.DiffTimeout = DefaultTimeout
	case opts.Timeout < 0:
		dmp.DiffTimeout = 0
	default:
		dmp.DiffTimeout = opts.Timeout
	}
	return &Engine{dmp: dmp, opts: opts}
}

var defaultEngine = NewEngine(Options{})

// Compute diffs two texts with the default engine.
func Compute(oldText, newText string) Script {
	return defaultEngine.Compute(oldText, newText)
}

// ComputeAll diffs every adjacent pair of snapshots with the default engine.
func ComputeAll(snaps []history.Snapshot) []Diff {
	return defaultEngine.ComputeAll(snaps)
}

// Compute returns the semantically cleaned edit script from oldText to newText.
func (e *Engine) Compute(oldText, newText string) Script {
	// diffmatchpatch rewrites invalid UTF-8, so identical input must not
	// reach it.
	if oldText == newText {
		return normalize(Script{{Op: OpEqual, Text: oldText}})
	}
	raw := e.dmp.DiffMain(oldText, newText, false)
	rawScript := fromDMP(raw)

	cleaned := normalize(fromDMP(e.dmp.DiffCleanupSemantic(raw)))
	if reconstructs(cleaned, oldText, newText) {
		return cleaned
	}

	// Cleanup must keep both reconstructions intact.
	if s := normalize(rawScript); reconstructs(s, oldText, newText) {
		return s
	}
	return normalize(Script{{Op: OpDelete, Text: oldText}, {Op: OpInsert, Text: newText}})
}

// ComputeAll returns one diff per adjacent pair, in order.
func (e *Engine) ComputeAll(snaps []history.Snapshot) []Diff {
	if len(snaps) < 2 {
		return nil
	}
	diffs := make([]Diff, 0, len(snaps)-1)
	for i := 0; i+1 < len(snaps); i++ {
		script := e.Compute(snaps[i].Text, snaps[i+1].Text)
		diffs = append(diffs, Diff{
			From:   i,
			To:     i + 1,
			Script: script,
			Markup: e.Render(script, snaps[i+1].Language),
		})
	}
	return diffs
}

// Render renders script using the engine's highlight setting.
func (e *Engine) Render(script Script, language string) string {
	return Render(script, RenderOptions{Highlight: e.opts.Highlight, Language: language})
}

// RenderText renders a whole snapshot using the engine's highlight setting.
func (e *Engine) RenderText(text, language string) string {
	return RenderText(text, RenderOptions{Highlight: e.opts.Highlight, Language: language})
}

func fromDMP(diffs []diffmatchpatch.Diff) Script {
	out := make(Script, 0, len(diffs))
	for _, d := range diffs {
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		default:
			op = OpEqual
		}
		out = append(out, Span{Op: op, Text: d.Text})
	}
	return out
}

func reconstructs(s Script, oldText, newText string) bool {
	return s.Source() == oldText && s.Target() == newText
}
