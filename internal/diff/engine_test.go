package diff

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/herospath/internal/history"
)

func TestCompute_ReconstructsBothTexts(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
	}{
		{"both empty", "", ""},
		{"insert into empty", "", "hello"},
		{"delete all", "hello", ""},
		{"append", "ab", "abc"},
		{"prepend", "world", "hello world"},
		{"replace word", "the quick brown fox", "the slow brown fox"},
		{"multiline", "func a() {\n\treturn 1\n}\n", "func a() int {\n\treturn 2\n}\n"},
		{"unicode", "naïve café", "naïve cafés 🚀"},
		{"markup chars", "<a href=\"x\">&</a>", "<a href='y'>&amp;</a>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := Compute(tt.old, tt.new)
			assert.Equal(t, tt.old, script.Source())
			assert.Equal(t, tt.new, script.Target())
			for _, span := range script {
				assert.NotEmpty(t, span.Text, "normalized scripts have no empty spans")
			}
		})
	}
}

func TestCompute_RandomRoundTrips(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("ab c\n{}é<>&")
	randText := func() string {
		n := rng.Intn(40)
		out := make([]rune, n)
		for i := range out {
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(out)
	}

	for i := 0; i < 300; i++ {
		a, b := randText(), randText()
		script := Compute(a, b)
		require.Equal(t, a, script.Source(), "source of %q -> %q", a, b)
		require.Equal(t, b, script.Target(), "target of %q -> %q", a, b)
	}
}

func TestCompute_IdenticalTextsOnlyEqual(t *testing.T) {
	for _, text := range []string{"", "a", "package main\n\nfunc main() {}\n"} {
		script := Compute(text, text)
		assert.False(t, script.Changed(), "diff of %q against itself", text)
		st := script.Stats()
		assert.Zero(t, st.Inserted)
		assert.Zero(t, st.Deleted)
	}
	assert.Empty(t, Compute("", ""))
}

func TestCompute_IdenticalInvalidUTF8IsUnchanged(t *testing.T) {
	for _, text := range []string{"a\xffab\U0001F600", "\xff", "ok\xc3"} {
		script := Compute(text, text)
		assert.False(t, script.Changed(), "diff of %q against itself", text)
		assert.Equal(t, text, script.Source())
		assert.Equal(t, text, script.Target())
		assert.Equal(t, Script{{Op: OpEqual, Text: text}}, script)
	}
}

func TestCompute_AppendIsSingleInsertion(t *testing.T) {
	script := Compute("ab", "abc")
	assert.Equal(t, Script{{Op: OpEqual, Text: "ab"}, {Op: OpInsert, Text: "c"}}, script)
}

func TestCompute_SemanticCleanupGroupsWords(t *testing.T) {
	script := Compute("the cat sat", "the dog sat")

	// Semantic cleanup yields one delete and one insert rather than
	// interleaved single characters.
	var changes int
	for _, span := range script {
		if span.Op != OpEqual {
			changes++
		}
	}
	assert.LessOrEqual(t, changes, 2)
	assert.Equal(t, Stats{Inserted: 3, Deleted: 3, Equal: 8}, script.Stats())
}

func TestComputeAll_PairsNeighbours(t *testing.T) {
	base := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	snaps := []history.Snapshot{
		{Timestamp: base, Text: "a", Language: "plaintext"},
		{Timestamp: base, Text: "ab", Language: "plaintext"},
		{Timestamp: base, Text: "abc", Language: "plaintext"},
	}

	diffs := ComputeAll(snaps)
	require.Len(t, diffs, 2)
	for i, d := range diffs {
		assert.Equal(t, i, d.From)
		assert.Equal(t, i+1, d.To)
		assert.Equal(t, Compute(snaps[i].Text, snaps[i+1].Text), d.Script)
	}
	assert.Equal(t, `ab<ins class="hp-ins">c</ins>`, diffs[1].Markup)
}

func TestComputeAll_SizeIsLenMinusOne(t *testing.T) {
	for n := 0; n <= 5; n++ {
		snaps := make([]history.Snapshot, n)
		for i := range snaps {
			snaps[i].Text = strings.Repeat("x", i)
		}
		want := n - 1
		if want < 0 {
			want = 0
		}
		assert.Len(t, ComputeAll(snaps), want, "n=%d", n)
	}
}

func TestNewEngine_Timeouts(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewEngine(Options{}).dmp.DiffTimeout)
	assert.Equal(t, time.Duration(0), NewEngine(Options{Timeout: -1}).dmp.DiffTimeout)
	assert.Equal(t, 50*time.Millisecond, NewEngine(Options{Timeout: 50 * time.Millisecond}).dmp.DiffTimeout)
}

func TestEngine_RenderUsesHighlightOption(t *testing.T) {
	plain := NewEngine(Options{})
	lit := NewEngine(Options{Highlight: true})

	assert.Equal(t, "return 1", plain.RenderText("return 1", "go"))
	assert.Equal(t,
		`<span class="hp-tok-keyword">return</span> <span class="hp-tok-number">1</span>`,
		lit.RenderText("return 1", "go"))
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "delete", OpDelete.String())
	assert.Equal(t, "equal", OpEqual.String())
	assert.Equal(t, "insert", OpInsert.String())
	assert.Equal(t, "unknown", Op(7).String())
}
