package hacfstar

import (
	"strconv"

	"github.com/hacspec-lang/hacfstar/ast"
	"github.com/hacspec-lang/hacfstar/doc"
)

// seqModule is the namespace for sequence and array operations.
const seqModule = "seq"

// maxAliasDepth bounds alias chasing through the type dictionary. The
// checker rejects cyclic aliasing, so hitting this bound means the snapshot
// is inconsistent.
const maxAliasDepth = 32

// translateBinop selects the operator symbol for op at the given operand
// type. Named operand types are resolved through the dictionary: natural
// modular integers get plain infix arithmetic, arrays and aliases are chased
// to their underlying type.
func translateBinop(op ast.BinOp, opTyp ast.BaseTyp, dict ast.TypeDict) (doc.Doc, error) {
	return translateBinopDepth(op, opTyp, dict, 0)
}

func translateBinopDepth(op ast.BinOp, opTyp ast.BaseTyp, dict ast.TypeDict, depth int) (doc.Doc, error) {
	if named, ok := opTyp.(ast.Named); ok {
		if depth > maxAliasDepth {
			return nil, invariantErrf("alias chain for type %s exceeds depth %d (cyclic dictionary?)",
				named.Name, maxAliasDepth)
		}
		if pair, ok := dict[named.Name]; ok {
			switch pair.Entry {
			case ast.DictNaturalInteger:
				switch op {
				case ast.OpAdd:
					return doc.Text("+"), nil
				case ast.OpSub:
					return doc.Text("-"), nil
				case ast.OpMul:
					return doc.Text("*"), nil
				case ast.OpDiv:
					return doc.Text("/"), nil
				case ast.OpRem:
					return doc.Text("%"), nil
				default:
					return nil, unsupportedErrf("operator %s on natural integer type %s", op, named.Name)
				}
			case ast.DictArray, ast.DictAlias:
				return translateBinopDepth(op, pair.Typ, dict, depth+1)
			}
		}
	}

	switch opTyp.(type) {
	case ast.Usize, ast.Isize:
		switch op {
		case ast.OpAdd:
			return doc.Text("+"), nil
		case ast.OpSub:
			return doc.Text("-"), nil
		case ast.OpMul:
			return doc.Text("*"), nil
		case ast.OpDiv:
			return doc.Text("/"), nil
		}
	case ast.Seq, ast.ArrayTyp:
		switch op {
		case ast.OpAdd:
			return doc.Text("`seq_add`"), nil
		case ast.OpSub:
			return doc.Text("`seq_minus`"), nil
		case ast.OpMul:
			return doc.Text("`seq_mul`"), nil
		case ast.OpDiv:
			return doc.Text("`seq_div`"), nil
		case ast.OpBitXor:
			return doc.Text("`seq_xor`"), nil
		case ast.OpBitAnd:
			return doc.Text("`seq_and`"), nil
		case ast.OpBitOr:
			return doc.Text("`seq_or`"), nil
		}
	}

	// the dotted family operates on the abstract (possibly secret) integer
	// representation; shifts are named functions at every type
	switch op {
	case ast.OpAdd:
		return doc.Text("+."), nil
	case ast.OpSub:
		return doc.Text("-."), nil
	case ast.OpMul:
		return doc.Text("*."), nil
	case ast.OpDiv:
		return doc.Text("/."), nil
	case ast.OpRem:
		return doc.Text("%."), nil
	case ast.OpBitXor:
		return doc.Text("^."), nil
	case ast.OpBitAnd:
		return doc.Text("&."), nil
	case ast.OpBitOr:
		return doc.Text("|."), nil
	case ast.OpShl:
		return doc.Text("`shift_left`"), nil
	case ast.OpShr:
		return doc.Text("`shift_right`"), nil
	case ast.OpLt:
		return doc.Text("<."), nil
	case ast.OpLe:
		return doc.Text("<=."), nil
	case ast.OpGe:
		return doc.Text(">=."), nil
	case ast.OpGt:
		return doc.Text(">."), nil
	case ast.OpNe:
		return doc.Text("!="), nil
	case ast.OpEq:
		return doc.Text("=="), nil
	case ast.OpAnd:
		return doc.Text("&&"), nil
	case ast.OpOr:
		return doc.Text("||"), nil
	}
	return nil, invariantErrf("unknown binary operator %s", op)
}

func translateUnop(op ast.UnOp) (doc.Doc, error) {
	switch op {
	case ast.OpNot:
		return doc.Text("~"), nil
	case ast.OpNeg:
		return doc.Text("-"), nil
	}
	return nil, invariantErrf("unknown unary operator %s", op)
}

// funcPrefix carries what the namespace resolution learned about a call's
// receiver type beyond the namespace token itself.
type funcPrefix interface {
	funcPrefix()
}

type prefixRegular struct{}

type prefixArray struct {
	Size ast.ArraySize
}

type prefixNatMod struct {
	Modulus string
}

func (prefixRegular) funcPrefix() {}
func (prefixArray) funcPrefix()   {}
func (prefixNatMod) funcPrefix()  {}

// translateFuncPrefix resolves a call's type prefix to its namespace token,
// chasing dictionary entries so that arrays and sequences land on the
// sequence-operations namespace and natural modular integers on the generic
// natural-number namespace.
func translateFuncPrefix(prefix ast.BaseTyp, dict ast.TypeDict, depth int) (string, funcPrefix, error) {
	switch t := prefix.(type) {
	case ast.IntTyp, ast.Usize, ast.Isize:
		return "int", prefixRegular{}, nil
	case ast.Str:
		return "string", prefixRegular{}, nil
	case ast.Seq:
		return seqModule, prefixRegular{}, nil
	case ast.ArrayTyp:
		return seqModule, prefixArray{Size: t.Size}, nil
	case ast.Named:
		if depth > maxAliasDepth {
			return "", nil, invariantErrf("alias chain for type %s exceeds depth %d (cyclic dictionary?)",
				t.Name, maxAliasDepth)
		}
		if pair, ok := dict[t.Name]; ok {
			return translateFuncPrefix(pair.Typ, dict, depth+1)
		}
		return translateIdentStr(t.Name), prefixRegular{}, nil
	case ast.NatInt:
		return "nat", prefixNatMod{Modulus: t.Modulus}, nil
	}
	return "", nil, invariantErrf("type %T cannot prefix a function call", prefix)
}

// translateFuncName resolves a call name. Without a type prefix the name is
// translated directly, except that a bare secret-integer constructor is a
// classification of a public value and becomes "secret". With a prefix the
// call becomes <namespace>_<name>, with the array size appended for the
// sized sequence constructors and the element type appended for sequence and
// array receivers.
func translateFuncName(prefix ast.BaseTyp, name ast.Ident, dict ast.TypeDict) (doc.Doc, error) {
	if prefix == nil {
		n := translateIdentStr(name.String())
		switch n {
		case "uint128", "uint64", "uint32", "uint16", "uint8",
			"int128", "int64", "int32", "int16", "int8":
			return doc.Text("secret"), nil
		}
		return doc.Text(n), nil
	}

	moduleName, info, err := translateFuncPrefix(prefix, dict, 0)
	if err != nil {
		return nil, err
	}
	var typeArg doc.Doc
	switch t := prefix.(type) {
	case ast.Seq:
		typeArg = translateBaseTyp(t.Elem)
	case ast.ArrayTyp:
		typeArg = translateBaseTyp(t.Elem)
	}

	funcIdent := translateIdentStr(name.String())
	d := doc.Text(moduleName + "_" + funcIdent)

	if moduleName == seqModule && needsSizeArg(funcIdent) {
		switch i := info.(type) {
		case prefixArray:
			switch s := i.Size.(type) {
			case ast.SizeNamed:
				d = doc.Concat(d, doc.Space, doc.Text(translateIdentStr(string(s))))
			case ast.SizeLit:
				d = doc.Concat(d, doc.Space, doc.Text(strconv.Itoa(int(s))))
			}
		case prefixRegular:
			// plain sequence constructors carry no size argument
		default:
			return nil, invariantErrf("sized constructor %s_%s applied to a non-array receiver",
				moduleName, funcIdent)
		}
	}

	if typeArg != nil {
		d = doc.Concat(d, doc.Space, doc.Text("#"), typeArg)
	}
	return d, nil
}

// needsSizeArg lists the sequence constructors that take an explicit length
// when applied to a fixed-size array receiver.
func needsSizeArg(funcIdent string) bool {
	switch funcIdent {
	case "new_", "from_slice", "from_slice_range":
		return true
	}
	return false
}
