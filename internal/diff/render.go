package diff

import (
	"html"
	"strings"
)

// Markup class names. Deletions and insertions use del/ins elements, lexical
// tokens use spans.
const (
	ClassDelete      = "hp-del"
	ClassInsert      = "hp-ins"
	classTokenPrefix = "hp-tok-"
)

// RenderOptions control markup rendering.
type RenderOptions struct {
	Highlight bool
	Language  string
}

// Escape escapes text for HTML. It is the only place literal text is escaped.
func Escape(text string) string {
	return html.EscapeString(text)
}

// Wrap encloses already-escaped markup in the marker for op. Equal spans pass
// through unchanged.
func Wrap(op Op, escaped string) string {
	switch op {
	case OpDelete:
		return `<del class="` + ClassDelete + `">` + escaped + `</del>`
	case OpInsert:
		return `<ins class="` + ClassInsert + `">` + escaped + `</ins>`
	default:
		return escaped
	}
}

// Render turns an edit script into markup. With highlighting on, the old and
// new texts are tokenized whole so a token that straddles a change keeps its
// category on both sides of the boundary.
func Render(script Script, opts RenderOptions) string {
	var b strings.Builder
	if !opts.Highlight {
		for _, span := range script {
			if span.Text == "" {
				continue
			}
			b.WriteString(Wrap(span.Op, Escape(span.Text)))
		}
		return b.String()
	}

	source := &tokenCursor{toks: Tokenize(script.Source(), opts.Language)}
	target := &tokenCursor{toks: Tokenize(script.Target(), opts.Language)}
	for _, span := range script {
		if span.Text == "" {
			continue
		}
		var toks []Token
		switch span.Op {
		case OpDelete:
			toks = source.take(len(span.Text))
		case OpInsert:
			toks = target.take(len(span.Text))
		default:
			source.take(len(span.Text))
			toks = target.take(len(span.Text))
		}
		b.WriteString(Wrap(span.Op, renderTokens(toks)))
	}
	return b.String()
}

// RenderText renders plain snapshot text with the same escaping and optional
// lexical annotation as Render.
func RenderText(text string, opts RenderOptions) string {
	return renderBody(text, opts)
}

func renderBody(text string, opts RenderOptions) string {
	if !opts.Highlight {
		return Escape(text)
	}
	return renderTokens(Tokenize(text, opts.Language))
}

func renderTokens(toks []Token) string {
	var b strings.Builder
	for _, tok := range toks {
		escaped := Escape(tok.Text)
		if tok.Kind == TokenPlain {
			b.WriteString(escaped)
			continue
		}
		b.WriteString(`<span class="`)
		b.WriteString(classTokenPrefix)
		b.WriteString(tok.Kind.String())
		b.WriteString(`">`)
		b.WriteString(escaped)
		b.WriteString(`</span>`)
	}
	return b.String()
}

// tokenCursor walks a token stream in byte steps, splitting tokens where a
// step ends inside one.
type tokenCursor struct {
	toks []Token
	i    int
	off  int // bytes of toks[i] already consumed
}

func (c *tokenCursor) take(n int) []Token {
	var out []Token
	for n > 0 && c.i < len(c.toks) {
		tok := c.toks[c.i]
		rest := tok.Text[c.off:]
		if len(rest) > n {
			out = append(out, Token{Kind: tok.Kind, Text: rest[:n]})
			c.off += n
			return out
		}
		out = append(out, Token{Kind: tok.Kind, Text: rest})
		n -= len(rest)
		c.i++
		c.off = 0
	}
	return out
}
