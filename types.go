package hacfstar

import (
	"fmt"
	"strconv"

	"github.com/hacspec-lang/hacfstar/ast"
	"github.com/hacspec-lang/hacfstar/doc"
)

// translateBaseTyp renders a structural type, one rule per variant. No
// dictionary lookup happens here: a named alias renders as itself and its
// definition is emitted as a separate item.
func translateBaseTyp(tau ast.BaseTyp) doc.Doc {
	switch t := tau.(type) {
	case ast.Unit:
		return doc.Text("unit")
	case ast.Bool:
		return doc.Text("bool")
	case ast.IntTyp:
		sign := "u"
		if t.Signed {
			sign = ""
		}
		return doc.Text(fmt.Sprintf("pub_%sint%d", sign, t.Bits))
	case ast.Usize:
		return doc.Text("uint_size")
	case ast.Isize:
		return doc.Text("int_size")
	case ast.Str:
		return doc.Text("string")
	case ast.Seq:
		return doc.Group(doc.Concat(
			doc.Text("seq"), doc.Space, translateBaseTyp(t.Elem),
		))
	case ast.ArrayTyp:
		return doc.Group(doc.Concat(
			doc.Text("lseq"), doc.Space, translateBaseTyp(t.Elem),
			doc.Space, doc.Text(arraySizeStr(t.Size)),
		))
	case ast.Named:
		d := doc.Text(translateIdentStr(t.Name))
		if len(t.Args) == 0 {
			return d
		}
		args := make([]doc.Doc, 0, len(t.Args))
		for _, arg := range t.Args {
			args = append(args, translateBaseTyp(arg))
		}
		return doc.Concat(d, doc.Space, doc.Join(doc.Space, args))
	case ast.TypVar:
		return doc.Text(fmt.Sprintf("'t%d", t.ID))
	case ast.TupleTyp:
		elems := make([]doc.Doc, 0, len(t.Elems))
		for _, e := range t.Elems {
			elems = append(elems, translateBaseTyp(e))
		}
		return makeTypTuple(elems)
	case ast.NatInt:
		return doc.Concat(
			doc.Text("nat_mod"), doc.Space, doc.Text("0x"+t.Modulus),
		)
	}
	return doc.Nil
}

// arraySizeStr prints an array size in type position. Named constants are
// printed verbatim here; only value positions go through identifier
// translation.
func arraySizeStr(s ast.ArraySize) string {
	switch s := s.(type) {
	case ast.SizeNamed:
		return string(s)
	case ast.SizeLit:
		return strconv.Itoa(int(s))
	}
	return ""
}
