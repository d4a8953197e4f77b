package webview

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"regexp"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"

	"github.com/five82/herospath/internal/diff"
	"github.com/five82/herospath/internal/timeline"
)

// DefaultTitle is the page title when none is set.
const DefaultTitle = "herospath"

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

// markupPolicy admits only the elements the diff renderer emits.
var markupPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowAttrs("class").
		Matching(regexp.MustCompile(`^hp-[a-z]+(-[a-z]+)*$`)).
		OnElements("del", "ins", "span")
	p.AllowElements("del", "ins")
	return p
}()

// Sanitize strips everything from markup except del, ins and span elements
// carrying hp- classes.
func Sanitize(markup string) string {
	return markupPolicy.Sanitize(markup)
}

// PageOptions configure a rendered page.
type PageOptions struct {
	Title    string
	Interval time.Duration
	Dark     bool
	// Engine renders snapshot text. Nil uses a default engine.
	Engine *diff.Engine
	// Now is used for relative times. Nil uses time.Now.
	Now func() time.Time
}

// FrameData is one frame of the page, ready for display.
type FrameData struct {
	Kind     string        `json:"kind"`
	Position int           `json:"position"`
	Index    int           `json:"index"`
	Label    string        `json:"label"`
	Saved    string        `json:"saved"`
	Ago      string        `json:"ago"`
	Language string        `json:"language"`
	Inserted int           `json:"inserted"`
	Deleted  int           `json:"deleted"`
	Markup   template.HTML `json:"markup"`
}

type pageData struct {
	Title      string
	Dark       bool
	IntervalMS int64
	Count      int
	Frames     []FrameData
	First      FrameData
	Empty      bool
}

// Frames resolves every frame of reel into display data. Markup is sanitized.
func Frames(reel timeline.Reel, opts PageOptions) []FrameData {
	opts = opts.withDefaults()
	now := opts.Now()

	frames := make([]FrameData, 0, reel.FrameCount())
	for _, f := range reel.Frames() {
		v, ok := reel.Resolve(f)
		if !ok {
			continue
		}
		fd := FrameData{
			Kind:     f.Kind.String(),
			Position: f.Position,
			Index:    f.Index,
			Label:    frameLabel(f),
			Saved:    v.Snapshot.Timestamp.Format(time.RFC3339),
			Ago:      humanize.RelTime(v.Snapshot.Timestamp, now, "ago", "from now"),
			Language: v.Snapshot.Language,
		}
		if v.Diff != nil {
			st := v.Diff.Script.Stats()
			fd.Inserted, fd.Deleted = st.Inserted, st.Deleted
			fd.Markup = template.HTML(Sanitize(v.Diff.Markup))
		} else {
			fd.Markup = template.HTML(Sanitize(opts.Engine.RenderText(v.Snapshot.Text, v.Snapshot.Language)))
		}
		frames = append(frames, fd)
	}
	return frames
}

// Page renders a self-contained HTML page that cycles through reel.
func Page(reel timeline.Reel, opts PageOptions) ([]byte, error) {
	opts = opts.withDefaults()
	frames := Frames(reel, opts)

	data := pageData{
		Title:      opts.Title,
		Dark:       opts.Dark,
		IntervalMS: opts.Interval.Milliseconds(),
		Count:      reel.Len(),
		Frames:     frames,
		Empty:      len(frames) == 0,
	}
	if len(frames) > 0 {
		data.First = frames[0]
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// frameLabel numbers snapshots from one, as the terminal viewer does.
func frameLabel(f timeline.Frame) string {
	if f.Kind == timeline.FrameDiff {
		return fmt.Sprintf("diff #%d→#%d", f.Index+1, f.Index+2)
	}
	return fmt.Sprintf("snapshot #%d", f.Index+1)
}

func (o PageOptions) withDefaults() PageOptions {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Interval <= 0 {
		o.Interval = timeline.DefaultInterval
	}
	if o.Engine == nil {
		o.Engine = diff.NewEngine(diff.Options{})
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
