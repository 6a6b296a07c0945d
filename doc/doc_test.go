package doc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupFlatWhenItFits(t *testing.T) {
	d := Group(Concat(Text("foo"), Line, Text("bar")))
	assert.Equal(t, "foo bar", Render(80, d))
}

func TestGroupBreaksWhenTooWide(t *testing.T) {
	d := Group(Concat(Text("foo"), Line, Text("bar")))
	assert.Equal(t, "foo\nbar", Render(5, d))
}

func TestLineEmptyVanishesWhenFlat(t *testing.T) {
	d := Group(Concat(Text("("), LineEmpty, Text("x"), LineEmpty, Text(")")))
	assert.Equal(t, "(x)", Render(80, d))
}

func TestNestIndentsBrokenLines(t *testing.T) {
	d := Group(Concat(Text("foo"), Nest(2, Concat(Line, Text("bar")))))
	assert.Equal(t, "foo\n  bar", Render(5, d))
}

func TestHardlineForcesBreak(t *testing.T) {
	// plenty of room, but a hard line can never be flattened
	d := Group(Concat(Text("a"), Hardline, Text("b")))
	assert.Equal(t, "a\nb", Render(80, d))
}

func TestInnerGroupsStayFlat(t *testing.T) {
	inner := func() Doc {
		return Group(Concat(Text("aa"), Line, Text("bb")))
	}
	d := Group(Concat(inner(), Line, inner()))
	// the outer group exceeds the width, but each inner group fits on its
	// own line
	assert.Equal(t, "aa bb\naa bb", Render(10, d))
}

func TestFlatDocNeverBreaks(t *testing.T) {
	d := Group(Concat(Text("abc"), Line, Text("def")))
	out := Render(7, d)
	assert.False(t, strings.ContainsRune(out, '\n'))
}

func TestJoin(t *testing.T) {
	d := Join(Text(", "), []Doc{Text("a"), Text("b"), Text("c")})
	assert.Equal(t, "a, b, c", Render(80, d))
	assert.Equal(t, "", Render(80, Join(Text(", "), nil)))
}

func TestGreedyFitCountsCurrentColumn(t *testing.T) {
	// the group alone fits in the width, but not in what is left of the
	// current line after the committed prefix
	d := Concat(Text("prefix "), Group(Concat(Text("aa"), Line, Text("bb"))))
	assert.Equal(t, "prefix aa\nbb", Render(10, d))
}

func TestRenderDeterministic(t *testing.T) {
	d := Group(Concat(Text("foo"), Line, Group(Concat(Text("bar"), Line, Text("baz")))))
	assert.Equal(t, Render(9, d), Render(9, d))
}

func TestFprint(t *testing.T) {
	var sb strings.Builder
	err := Fprint(&sb, 80, Concat(Text("a"), Hardline, Text("b")))
	assert.NoError(t, err)
	assert.Equal(t, "a\nb", sb.String())
}
