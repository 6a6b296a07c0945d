// Package ast defines the checked, typed program representation consumed by
// the translator, together with the type dictionary that classifies named
// types.
//
// Everything here is produced by the upstream checker and handed to the
// translator as one immutable snapshot; nothing in this package is mutated
// during translation.
package ast

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
)

// Ident is a variable or function name: either an original source name or a
// hygienic name synthesized by the checker.
type Ident interface {
	fmt.Stringer
	ident()
}

// Original is a name as written in the source program.
type Original string

// Hygienic is a synthesized name, disambiguated by its numeric id.
type Hygienic struct {
	ID   int
	Base string
}

func (Original) ident() {}
func (Hygienic) ident() {}

func (o Original) String() string { return string(o) }
func (h Hygienic) String() string { return fmt.Sprintf("%s_%d", h.Base, h.ID) }

// BaseTyp is a structural type. The set of variants is closed.
type BaseTyp interface {
	baseTyp()
}

type (
	// Unit is the unit type.
	Unit struct{}
	// Bool is the boolean type.
	Bool struct{}
	// IntTyp is a sized public integer type; Bits is one of 8, 16, 32, 64
	// or 128.
	IntTyp struct {
		Bits   int
		Signed bool
	}
	// Usize is the unsigned machine-size integer type.
	Usize struct{}
	// Isize is the signed machine-size integer type.
	Isize struct{}
	// Str is the string type.
	Str struct{}
	// Seq is a sequence of Elem.
	Seq struct {
		Elem BaseTyp
	}
	// ArrayTyp is a fixed-size array of Elem.
	ArrayTyp struct {
		Size ArraySize
		Elem BaseTyp
	}
	// Named is a reference to a declared type, with optional generic
	// arguments. The name is a plain source string: hygienic names never
	// occur in type position.
	Named struct {
		Name string
		Args []BaseTyp
	}
	// TypVar is a type variable.
	TypVar struct {
		ID int
	}
	// TupleTyp is a product of the element types.
	TupleTyp struct {
		Elems []BaseTyp
	}
	// NatInt is a natural modular integer type; Modulus is the modulus as a
	// bare hexadecimal string (no 0x prefix).
	NatInt struct {
		Secret  bool
		Modulus string
	}
)

func (Unit) baseTyp()     {}
func (Bool) baseTyp()     {}
func (IntTyp) baseTyp()   {}
func (Usize) baseTyp()    {}
func (Isize) baseTyp()    {}
func (Str) baseTyp()      {}
func (Seq) baseTyp()      {}
func (ArrayTyp) baseTyp() {}
func (Named) baseTyp()    {}
func (TypVar) baseTyp()   {}
func (TupleTyp) baseTyp() {}
func (NatInt) baseTyp()   {}

// ArraySize is the size of a fixed array: a named constant or a literal.
type ArraySize interface {
	arraySize()
}

// SizeNamed is an array size given by a named constant.
type SizeNamed string

// SizeLit is an array size given literally.
type SizeLit int

func (SizeNamed) arraySize() {}
func (SizeLit) arraySize()   {}

// DictEntry classifies a named type in the type dictionary.
type DictEntry int

const (
	DictAlias DictEntry = iota
	DictArray
	DictNaturalInteger
)

// DictPair is a named type's underlying structural type together with its
// classification.
type DictPair struct {
	Typ   BaseTyp
	Entry DictEntry
}

// TypeDict resolves a named type to its underlying type. It is populated by
// the checker and read-only for the whole translation.
type TypeDict map[string]DictPair

// Literal is a literal value.
type Literal interface {
	literal()
}

// LitUnit is the unit literal.
type LitUnit struct{}

// LitBool is a boolean literal.
type LitBool bool

// LitInt is an integer literal. Bits is the width for sized integers and 0
// for the machine-size types, which are distinguished by Signed.
type LitInt struct {
	Value  *big.Int
	Bits   int
	Signed bool
}

// LitStr is a string literal.
type LitStr string

func (LitUnit) literal() {}
func (LitBool) literal() {}
func (LitInt) literal()  {}
func (LitStr) literal()  {}

// Pattern is a binding pattern.
type Pattern interface {
	pattern()
}

// PatIdent binds a single identifier.
type PatIdent struct {
	Ident Ident
}

// PatWildcard discards the bound value.
type PatWildcard struct{}

// PatTuple destructures a tuple.
type PatTuple struct {
	Pats []Pattern
}

func (PatIdent) pattern()    {}
func (PatWildcard) pattern() {}
func (PatTuple) pattern()    {}

// BinOp is a binary operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitXor
	OpBitAnd
	OpBitOr
	OpShl
	OpShr
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
)

var binOpNames = map[BinOp]string{
	OpAdd:    "add",
	OpSub:    "sub",
	OpMul:    "mul",
	OpDiv:    "div",
	OpRem:    "rem",
	OpBitXor: "bitxor",
	OpBitAnd: "bitand",
	OpBitOr:  "bitor",
	OpShl:    "shl",
	OpShr:    "shr",
	OpLt:     "lt",
	OpLe:     "le",
	OpGt:     "gt",
	OpGe:     "ge",
	OpEq:     "eq",
	OpNe:     "ne",
	OpAnd:    "and",
	OpOr:     "or",
}

func (op BinOp) String() string {
	if s, ok := binOpNames[op]; ok {
		return s
	}
	return fmt.Sprintf("binop(%d)", int(op))
}

// UnOp is a unary operator.
type UnOp int

const (
	OpNot UnOp = iota
	OpNeg
)

func (op UnOp) String() string {
	switch op {
	case OpNot:
		return "not"
	case OpNeg:
		return "neg"
	}
	return fmt.Sprintf("unop(%d)", int(op))
}

// Expression is a checked expression.
type Expression interface {
	expression()
}

type (
	// Binary applies a binary operator; OpTyp is the resolved operand type
	// and is required.
	Binary struct {
		Op    BinOp
		X, Y  Expression
		OpTyp BaseTyp
	}
	// Unary applies a unary operator.
	Unary struct {
		Op    UnOp
		X     Expression
		OpTyp BaseTyp
	}
	// Lit is a literal expression.
	Lit struct {
		Value Literal
	}
	// TupleExpr builds a tuple.
	TupleExpr struct {
		Elems []Expression
	}
	// Name references a variable.
	Name struct {
		Ident Ident
	}
	// FuncCall is a free function call with an optional type prefix
	// (nil when absent).
	FuncCall struct {
		Prefix BaseTyp
		Name   Ident
		Args   []Expression
	}
	// MethodCall is a method-style call on a receiver; RecvTyp is the
	// receiver's type (nil when absent).
	MethodCall struct {
		Receiver Expression
		RecvTyp  BaseTyp
		Name     Ident
		Args     []Expression
	}
	// ArrayIndex reads an array cell.
	ArrayIndex struct {
		Array Ident
		Index Expression
	}
	// NewArray builds an array or sequence from an element list.
	NewArray struct {
		Elems []Expression
	}
	// IntegerCast converts an integer to another width. It has no
	// translation yet.
	IntegerCast struct {
		To   BaseTyp
		Expr Expression
	}
)

func (Binary) expression()      {}
func (Unary) expression()       {}
func (Lit) expression()         {}
func (TupleExpr) expression()   {}
func (Name) expression()        {}
func (FuncCall) expression()    {}
func (MethodCall) expression()  {}
func (ArrayIndex) expression()  {}
func (NewArray) expression()    {}
func (IntegerCast) expression() {}

// MutatedInfo is the checker's mutated-variable annotation for a conditional
// or loop body: the ordered, duplicate-free list of outer variables the body
// assigns, and a synthesized trailing statement evaluating to the tuple of
// their final values.
type MutatedInfo struct {
	Vars []Ident
	Stmt Statement
}

// Validate checks the annotation's own invariants: the trailing statement is
// present and the variable list has no duplicates.
func (m *MutatedInfo) Validate() error {
	if m == nil {
		return errors.New("missing mutated-variable annotation")
	}
	if m.Stmt == nil {
		return errors.New("mutated-variable annotation has no trailing statement")
	}
	seen := set.New[string](len(m.Vars))
	for _, v := range m.Vars {
		if !seen.Insert(v.String()) {
			return errors.Errorf("duplicate %s in mutated-variable annotation", v)
		}
	}
	return nil
}

// Statement is a checked statement.
type Statement interface {
	statement()
}

type (
	// LetBinding binds a pattern, with an optional type annotation (nil
	// when absent).
	LetBinding struct {
		Pat  Pattern
		Typ  BaseTyp
		Expr Expression
	}
	// Reassignment rebinds an existing variable.
	Reassignment struct {
		Ident Ident
		Expr  Expression
	}
	// ArrayUpdate replaces one array cell.
	ArrayUpdate struct {
		Ident Ident
		Index Expression
		Value Expression
	}
	// ReturnExp is a return or tail expression.
	ReturnExp struct {
		Expr Expression
	}
	// Conditional is an if statement. Mutated is required and must list the
	// variables assigned in either branch, in the order used by both.
	Conditional struct {
		Cond    Expression
		Then    Block
		Else    *Block
		Mutated *MutatedInfo
	}
	// ForLoop iterates Var over [Lo, Hi). The body block carries the
	// mutated-variable annotation.
	ForLoop struct {
		Var  Ident
		Lo   Expression
		Hi   Expression
		Body Block
	}
)

func (LetBinding) statement()   {}
func (Reassignment) statement() {}
func (ArrayUpdate) statement()  {}
func (ReturnExp) statement()    {}
func (Conditional) statement()  {}
func (ForLoop) statement()      {}

// Block is an ordered statement sequence with a known return type. RetTyp is
// never nil in a checked program. Mutated is set by the checker on loop
// bodies.
type Block struct {
	Stmts   []Statement
	Mutated *MutatedInfo
	RetTyp  BaseTyp
}

// FuncArg is one typed function parameter.
type FuncArg struct {
	Name Ident
	Typ  BaseTyp
}

// FuncSig is a function's parameter list and return type.
type FuncSig struct {
	Args []FuncArg
	Ret  BaseTyp
}

// Item is a top-level declaration.
type Item interface {
	item()
}

type (
	// FnDecl declares a function.
	FnDecl struct {
		Name Ident
		Sig  FuncSig
		Body Block
	}
	// ArrayDecl declares a fixed-size array type.
	ArrayDecl struct {
		Name    string
		Size    Expression
		CellTyp BaseTyp
	}
	// ConstDecl declares a typed constant.
	ConstDecl struct {
		Name  Ident
		Typ   BaseTyp
		Value Expression
	}
	// NaturalIntegerDecl declares a natural modular integer type along with
	// its backing byte-array (canvas) type.
	NaturalIntegerDecl struct {
		Name       string
		CanvasName string
		Secret     bool
		CanvasSize Expression
		Modulus    string
	}
)

func (FnDecl) item()             {}
func (ArrayDecl) item()          {}
func (ConstDecl) item()          {}
func (NaturalIntegerDecl) item() {}

// Program is an ordered list of items; declaration order is significant.
type Program struct {
	Items []Item
}

// Snapshot is the full input to one translation unit: the checked program
// and its type dictionary.
type Snapshot struct {
	Program Program
	Dict    TypeDict
}
