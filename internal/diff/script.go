package diff

import (
	"strings"
	"unicode/utf8"
)

// Op is the kind of an edit span. Values follow the diff-match-patch convention.
type Op int

const (
	OpDelete Op = -1
	OpEqual  Op = 0
	OpInsert Op = 1
)

// String returns the op name.
func (o Op) String() string {
	switch o {
	case OpDelete:
		return "delete"
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Span is a contiguous fragment of text with its edit kind.
type Span struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Script is an ordered edit script turning one text into another.
type Script []Span

// Source reconstructs the old text from equal and deleted spans.
func (s Script) Source() string {
	var b strings.Builder
	for _, span := range s {
		if span.Op != OpInsert {
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

// Target reconstructs the new text from equal and inserted spans.
func (s Script) Target() string {
	var b strings.Builder
	for _, span := range s {
		if span.Op != OpDelete {
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

// Changed reports whether the script contains any insertion or deletion.
func (s Script) Changed() bool {
	for _, span := range s {
		if span.Op != OpEqual {
			return true
		}
	}
	return false
}

// Stats summarizes a script in runes.
type Stats struct {
	Inserted int
	Deleted  int
	Equal    int
}

// Stats counts inserted, deleted and unchanged runes.
func (s Script) Stats() Stats {
	var st Stats
	for _, span := range s {
		n := utf8.RuneCountInString(span.Text)
		switch span.Op {
		case OpInsert:
			st.Inserted += n
		case OpDelete:
			st.Deleted += n
		default:
			st.Equal += n
		}
	}
	return st
}

// normalize drops empty spans and merges neighbours with the same op.
func normalize(s Script) Script {
	out := make(Script, 0, len(s))
	for _, span := range s {
		if span.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Op == span.Op {
			out[n-1].Text += span.Text
			continue
		}
		out = append(out, span)
	}
	return out
}
