// Package doc is a small layout-aware document model used to render the
// generated F* source with controlled line wrapping.
//
// Documents are built from text fragments, soft and hard line breaks,
// indentation scopes and groups, then rendered at a fixed page width. A group
// is rendered flat (all soft breaks as their flat text) whenever the entire
// flattened group fits in the space remaining on the current line; otherwise
// its soft breaks turn into newlines. Rendering is a pure function of the
// document and the width.
package doc

import (
	"io"
	"strings"
)

// Doc is a renderable document.
type Doc interface {
	node()
}

type textNode string

type lineNode struct {
	// flat is what the break renders as when its enclosing group is flat.
	flat string
}

type hardNode struct{}

type concatNode []Doc

type nestNode struct {
	delta int
	doc   Doc
}

type groupNode struct {
	doc Doc
}

func (textNode) node()   {}
func (lineNode) node()   {}
func (hardNode) node()   {}
func (concatNode) node() {}
func (nestNode) node()   {}
func (groupNode) node()  {}

var (
	// Nil is the empty document.
	Nil Doc = textNode("")
	// Space is a literal space, never a break point.
	Space Doc = textNode(" ")
	// Line renders as a space when flat and as a newline otherwise.
	Line Doc = lineNode{flat: " "}
	// LineEmpty renders as nothing when flat and as a newline otherwise.
	LineEmpty Doc = lineNode{flat: ""}
	// Hardline is always a newline and forces every enclosing group to break.
	Hardline Doc = hardNode{}
)

// Text is a literal text fragment. It must not contain newlines; use Hardline
// for those.
func Text(s string) Doc {
	return textNode(s)
}

// Concat joins documents side by side.
func Concat(ds ...Doc) Doc {
	return concatNode(ds)
}

// Nest increases the indentation of d's line breaks by delta columns.
func Nest(delta int, d Doc) Doc {
	return nestNode{delta: delta, doc: d}
}

// Group marks d as a unit that is rendered flat if it fits on the current
// line.
func Group(d Doc) Doc {
	return groupNode{doc: d}
}

// Join intersperses sep between the given documents.
func Join(sep Doc, ds []Doc) Doc {
	joined := make(concatNode, 0, 2*len(ds))
	for i, d := range ds {
		if i > 0 {
			joined = append(joined, sep)
		}
		joined = append(joined, d)
	}
	return joined
}

type mode int

const (
	modeBreak mode = iota
	modeFlat
)

type frame struct {
	indent int
	mode   mode
	doc    Doc
}

// Render lays out d at the given page width.
func Render(width int, d Doc) string {
	var sb strings.Builder
	col := 0
	pendingIndent := -1
	stack := []frame{{0, modeBreak, d}}

	text := func(s string) {
		if s == "" {
			return
		}
		if pendingIndent >= 0 {
			sb.WriteString(strings.Repeat(" ", pendingIndent))
			pendingIndent = -1
		}
		sb.WriteString(s)
		col += len(s)
	}
	newline := func(indent int) {
		sb.WriteByte('\n')
		pendingIndent = indent
		col = indent
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := f.doc.(type) {
		case textNode:
			text(string(n))
		case lineNode:
			if f.mode == modeFlat {
				text(n.flat)
			} else {
				newline(f.indent)
			}
		case hardNode:
			newline(f.indent)
		case concatNode:
			for i := len(n) - 1; i >= 0; i-- {
				stack = append(stack, frame{f.indent, f.mode, n[i]})
			}
		case nestNode:
			stack = append(stack, frame{f.indent + n.delta, f.mode, n.doc})
		case groupNode:
			m := modeFlat
			if f.mode == modeBreak && !fits(width-col, n.doc) {
				m = modeBreak
			}
			stack = append(stack, frame{f.indent, m, n.doc})
		}
	}
	return sb.String()
}

// Fprint renders d at the given width and writes the result to w.
func Fprint(w io.Writer, width int, d Doc) error {
	_, err := io.WriteString(w, Render(width, d))
	return err
}

// fits reports whether d, rendered entirely flat, takes at most space
// columns. A hard line break can never be rendered flat.
func fits(space int, d Doc) bool {
	stack := []Doc{d}
	for len(stack) > 0 {
		if space < 0 {
			return false
		}
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := d.(type) {
		case textNode:
			space -= len(n)
		case lineNode:
			space -= len(n.flat)
		case hardNode:
			return false
		case concatNode:
			for i := len(n) - 1; i >= 0; i-- {
				stack = append(stack, n[i])
			}
		case nestNode:
			stack = append(stack, n.doc)
		case groupNode:
			stack = append(stack, n.doc)
		}
	}
	return space >= 0
}
