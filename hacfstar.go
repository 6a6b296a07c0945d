// Package hacfstar translates checked hacspec programs into F* source text.
//
// The translator is a single-pass recursive descent over the typed AST
// produced by the upstream checker. It consults the checker's type
// dictionary to resolve operators and call names through type aliases, and
// encodes imperative control flow functionally: conditionals and loops
// rebind the tuple of variables their bodies mutate, as recorded by the
// checker's mutated-variable annotations.
package hacfstar

import (
	"fmt"
	"io"
	"strings"

	"github.com/hacspec-lang/hacfstar/ast"
	"github.com/hacspec-lang/hacfstar/doc"
)

// Ctx is the read-only state for one translation unit.
type Ctx struct {
	dict ast.TypeDict
}

// NewCtx returns a translation context over the given type dictionary.
func NewCtx(dict ast.TypeDict) Ctx {
	return Ctx{dict: dict}
}

func makeLetBinding(pat, typ, expr doc.Doc, toplevel bool) doc.Doc {
	binding := pat
	if typ != nil {
		binding = doc.Concat(binding, doc.Space, doc.Text(":"), doc.Space, typ)
	}
	d := doc.Nest(2, doc.Concat(
		doc.Group(doc.Concat(
			doc.Text("let"), doc.Space, doc.Group(binding), doc.Space, doc.Text("="),
		)),
		doc.Line,
		doc.Group(expr),
	))
	if toplevel {
		return d
	}
	return doc.Concat(d, doc.Line, doc.Text("in"))
}

// makeTuple renders a tuple; a single element stays bare so that singleton
// mutated-variable tuples rebind the variable directly.
func makeTuple(args []doc.Doc) doc.Doc {
	if len(args) == 1 {
		return args[0]
	}
	return doc.Group(doc.Concat(
		doc.Text("("),
		doc.Nest(2, doc.Group(doc.Concat(
			doc.LineEmpty,
			doc.Join(doc.Concat(doc.Text(","), doc.Line), args),
		))),
		doc.LineEmpty,
		doc.Text(")"),
	))
}

func makeList(args []doc.Doc) doc.Doc {
	return doc.Group(doc.Concat(
		doc.Text("["),
		doc.Nest(2, doc.Group(doc.Concat(
			doc.LineEmpty,
			doc.Join(doc.Concat(doc.Text(";"), doc.Line), args),
		))),
		doc.LineEmpty,
		doc.Text("]"),
	))
}

func makeTypTuple(args []doc.Doc) doc.Doc {
	return doc.Group(doc.Concat(
		doc.Text("("),
		doc.Nest(2, doc.Group(doc.Concat(
			doc.LineEmpty,
			doc.Join(doc.Concat(doc.Space, doc.Text("&"), doc.Line), args),
		))),
		doc.LineEmpty,
		doc.Text(")"),
	))
}

func makeParen(e doc.Doc) doc.Doc {
	return doc.Group(doc.Concat(
		doc.Text("("),
		doc.Nest(2, doc.Group(doc.Concat(doc.LineEmpty, e))),
		doc.Text(")"),
	))
}

func makeBeginParen(e doc.Doc) doc.Doc {
	return doc.Concat(
		doc.Text("begin"),
		doc.Nest(2, doc.Group(doc.Concat(doc.Line, e))),
		doc.Line,
		doc.Text("end"),
	)
}

func translatePattern(p ast.Pattern) doc.Doc {
	switch p := p.(type) {
	case ast.PatIdent:
		return translateIdent(p.Ident)
	case ast.PatWildcard:
		return doc.Text("_")
	case ast.PatTuple:
		pats := make([]doc.Doc, 0, len(p.Pats))
		for _, sub := range p.Pats {
			pats = append(pats, translatePattern(sub))
		}
		return makeTuple(pats)
	}
	return doc.Nil
}

// Expression renders one checked expression.
func (ctx Ctx) Expression(e ast.Expression) (doc.Doc, error) {
	switch e := e.(type) {
	case ast.Binary:
		if e.OpTyp == nil {
			return nil, invariantErrf("binary %s without a resolved operand type", e.Op)
		}
		lhs, err := ctx.Expression(e.X)
		if err != nil {
			return nil, err
		}
		rhs, err := ctx.Expression(e.Y)
		if err != nil {
			return nil, err
		}
		op, err := translateBinop(e.Op, e.OpTyp, ctx.dict)
		if err != nil {
			return nil, err
		}
		return doc.Group(doc.Concat(
			makeParen(lhs), doc.Space, op, doc.Space, makeParen(rhs),
		)), nil
	case ast.Unary:
		op, err := translateUnop(e.Op)
		if err != nil {
			return nil, err
		}
		operand, err := ctx.Expression(e.X)
		if err != nil {
			return nil, err
		}
		return doc.Group(doc.Concat(op, doc.Space, makeParen(operand))), nil
	case ast.Lit:
		return translateLiteral(e.Value)
	case ast.TupleExpr:
		elems, err := ctx.expressions(e.Elems)
		if err != nil {
			return nil, err
		}
		return makeTuple(elems), nil
	case ast.Name:
		return translateIdent(e.Ident), nil
	case ast.FuncCall:
		name, err := translateFuncName(e.Prefix, e.Name, ctx.dict)
		if err != nil {
			return nil, err
		}
		args, err := ctx.expressions(e.Args)
		if err != nil {
			return nil, err
		}
		d := name
		for _, arg := range args {
			d = doc.Concat(d, doc.Space, makeParen(arg))
		}
		return d, nil
	case ast.MethodCall:
		name, err := translateFuncName(e.RecvTyp, e.Name, ctx.dict)
		if err != nil {
			return nil, err
		}
		recv, err := ctx.Expression(e.Receiver)
		if err != nil {
			return nil, err
		}
		d := doc.Concat(name, doc.Space, makeParen(recv))
		args, err := ctx.expressions(e.Args)
		if err != nil {
			return nil, err
		}
		for _, arg := range args {
			d = doc.Concat(d, doc.Space, makeParen(arg))
		}
		return d, nil
	case ast.ArrayIndex:
		idx, err := ctx.Expression(e.Index)
		if err != nil {
			return nil, err
		}
		return doc.Concat(
			doc.Text("array_index"),
			doc.Space, makeParen(translateIdent(e.Array)),
			doc.Space, makeParen(idx),
		), nil
	case ast.NewArray:
		elems, err := ctx.expressions(e.Elems)
		if err != nil {
			return nil, err
		}
		return doc.Concat(
			doc.Text(seqModule+"_from_list"), doc.Space, makeList(elems),
		), nil
	case ast.IntegerCast:
		return nil, unsupportedErrf("integer casts have no translation")
	}
	return nil, invariantErrf("unknown expression %T", e)
}

func (ctx Ctx) expressions(es []ast.Expression) ([]doc.Doc, error) {
	ds := make([]doc.Doc, 0, len(es))
	for _, e := range es {
		d, err := ctx.Expression(e)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

func (ctx Ctx) mutatedTuple(m *ast.MutatedInfo) doc.Doc {
	vars := make([]doc.Doc, 0, len(m.Vars))
	for _, v := range m.Vars {
		vars = append(vars, translateIdent(v))
	}
	return makeTuple(vars)
}

// Statement renders one statement. Conditionals and loops require their
// mutated-variable annotation; its absence is a checker contract breach.
func (ctx Ctx) Statement(s ast.Statement) (doc.Doc, error) {
	d, err := ctx.statement(s)
	if err != nil {
		return nil, err
	}
	return doc.Group(d), nil
}

func (ctx Ctx) statement(s ast.Statement) (doc.Doc, error) {
	switch s := s.(type) {
	case ast.LetBinding:
		expr, err := ctx.Expression(s.Expr)
		if err != nil {
			return nil, err
		}
		var typ doc.Doc
		if s.Typ != nil {
			typ = translateBaseTyp(s.Typ)
		}
		return makeLetBinding(translatePattern(s.Pat), typ, expr, false), nil
	case ast.Reassignment:
		expr, err := ctx.Expression(s.Expr)
		if err != nil {
			return nil, err
		}
		return makeLetBinding(translateIdent(s.Ident), nil, expr, false), nil
	case ast.ArrayUpdate:
		idx, err := ctx.Expression(s.Index)
		if err != nil {
			return nil, err
		}
		val, err := ctx.Expression(s.Value)
		if err != nil {
			return nil, err
		}
		upd := doc.Concat(
			doc.Text("array_upd"),
			doc.Space, translateIdent(s.Ident),
			doc.Space, makeParen(idx),
			doc.Space, makeParen(val),
		)
		return makeLetBinding(translateIdent(s.Ident), nil, upd, false), nil
	case ast.ReturnExp:
		return ctx.Expression(s.Expr)
	case ast.Conditional:
		return ctx.conditional(s)
	case ast.ForLoop:
		return ctx.forLoop(s)
	}
	return nil, invariantErrf("unknown statement %T", s)
}

func (ctx Ctx) conditional(s ast.Conditional) (doc.Doc, error) {
	if err := s.Mutated.Validate(); err != nil {
		return nil, invariantErrf("conditional: %s", err)
	}
	cond, err := ctx.Expression(s.Cond)
	if err != nil {
		return nil, err
	}
	mutStmt, err := ctx.Statement(s.Mutated.Stmt)
	if err != nil {
		return nil, err
	}
	thenBlock, err := ctx.Block(s.Then, true)
	if err != nil {
		return nil, err
	}
	ifDoc := doc.Concat(
		doc.Text("if"), doc.Space, cond,
		doc.Space, doc.Text("then"), doc.Space,
		makeBeginParen(doc.Concat(thenBlock, doc.Hardline, mutStmt)),
	)
	if s.Else == nil {
		// the else branch just forwards the unchanged mutated tuple
		ifDoc = doc.Concat(ifDoc,
			doc.Space, doc.Text("else"), doc.Space, makeBeginParen(mutStmt))
	} else {
		elseBlock, err := ctx.Block(*s.Else, true)
		if err != nil {
			return nil, err
		}
		ifDoc = doc.Concat(ifDoc,
			doc.Space, doc.Text("else"), doc.Space,
			makeBeginParen(doc.Concat(elseBlock, doc.Hardline, mutStmt)))
	}
	return makeLetBinding(ctx.mutatedTuple(s.Mutated), nil, ifDoc, false), nil
}

func (ctx Ctx) forLoop(s ast.ForLoop) (doc.Doc, error) {
	if err := s.Body.Mutated.Validate(); err != nil {
		return nil, invariantErrf("for loop: %s", err)
	}
	lo, err := ctx.Expression(s.Lo)
	if err != nil {
		return nil, err
	}
	hi, err := ctx.Expression(s.Hi)
	if err != nil {
		return nil, err
	}
	body, err := ctx.Block(s.Body, true)
	if err != nil {
		return nil, err
	}
	mutStmt, err := ctx.Statement(s.Body.Mutated.Stmt)
	if err != nil {
		return nil, err
	}
	mutTuple := ctx.mutatedTuple(s.Body.Mutated)
	closureTuple := makeTuple([]doc.Doc{translateIdent(s.Var), mutTuple})
	loopExpr := doc.Concat(
		doc.Nest(2, doc.Group(doc.Concat(
			doc.Text("foldi"),
			doc.Space, makeParen(lo),
			doc.Space, makeParen(hi),
			doc.Space, doc.Text("(fun"),
			doc.Space, closureTuple,
			doc.Space, doc.Text("->"),
			doc.Line, body,
			doc.Hardline, mutStmt,
			doc.Text(")"),
		))),
		doc.Line,
		mutTuple,
	)
	return makeLetBinding(mutTuple, nil, loopExpr, false), nil
}

// Block renders a statement sequence. When the block returns unit and the
// context needs an explicit value (omitExtraUnit is false), a trailing unit
// literal is appended.
func (ctx Ctx) Block(b ast.Block, omitExtraUnit bool) (doc.Doc, error) {
	if b.RetTyp == nil {
		return nil, invariantErrf("block without a return type")
	}
	stmts := make([]doc.Doc, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		d, err := ctx.Statement(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, d)
	}
	d := doc.Join(doc.Hardline, stmts)
	if _, isUnit := b.RetTyp.(ast.Unit); isUnit && !omitExtraUnit {
		d = doc.Concat(d, doc.Hardline, doc.Text("()"))
	}
	return d, nil
}

// Item renders one top-level declaration.
func (ctx Ctx) Item(i ast.Item) (doc.Doc, error) {
	switch i := i.(type) {
	case ast.FnDecl:
		return ctx.fnDecl(i)
	case ast.ArrayDecl:
		size, err := ctx.Expression(i.Size)
		if err != nil {
			return nil, err
		}
		return typeDecl(translateIdentStr(i.Name), doc.Group(doc.Concat(
			doc.Text("lseq"),
			doc.Space, makeParen(translateBaseTyp(i.CellTyp)),
			doc.Space, makeParen(size),
		))), nil
	case ast.ConstDecl:
		value, err := ctx.Expression(i.Value)
		if err != nil {
			return nil, err
		}
		return makeLetBinding(translateIdent(i.Name), translateBaseTyp(i.Typ), value, true), nil
	case ast.NaturalIntegerDecl:
		return ctx.naturalIntegerDecl(i)
	}
	return nil, invariantErrf("unknown item %T", i)
}

func (ctx Ctx) fnDecl(i ast.FnDecl) (doc.Doc, error) {
	var args doc.Doc
	if len(i.Sig.Args) > 0 {
		argDocs := make([]doc.Doc, 0, len(i.Sig.Args))
		for _, a := range i.Sig.Args {
			argDocs = append(argDocs, makeParen(doc.Concat(
				translateIdent(a.Name),
				doc.Space, doc.Text(":"), doc.Space,
				translateBaseTyp(a.Typ),
			)))
		}
		args = doc.Join(doc.Line, argDocs)
	} else {
		args = doc.Text("()")
	}
	head := doc.Concat(
		translateIdent(i.Name),
		doc.Line, args,
		doc.Line,
		doc.Group(doc.Concat(doc.Text(":"), doc.Space, translateBaseTyp(i.Sig.Ret))),
	)
	body, err := ctx.Block(i.Body, false)
	if err != nil {
		return nil, err
	}
	if _, isUnit := i.Sig.Ret.(ast.Unit); isUnit {
		body = doc.Concat(body, doc.Hardline, doc.Text("()"))
	}
	return makeLetBinding(head, nil, doc.Group(body), true), nil
}

func (ctx Ctx) naturalIntegerDecl(i ast.NaturalIntegerDecl) (doc.Doc, error) {
	size, err := ctx.Expression(i.CanvasSize)
	if err != nil {
		return nil, err
	}
	canvas := typeDecl(translateIdentStr(i.CanvasName), doc.Group(doc.Concat(
		doc.Text("lseq"),
		doc.Space, makeParen(translateBaseTyp(ast.IntTyp{Bits: 8})),
		doc.Space, makeParen(size),
	)))
	modTyp := typeDecl(translateIdentStr(i.Name), doc.Group(doc.Concat(
		doc.Text("nat_mod"), doc.Space, doc.Text("0x"+i.Modulus),
	)))
	return doc.Concat(canvas, doc.Hardline, doc.Hardline, modTyp), nil
}

func typeDecl(name string, body doc.Doc) doc.Doc {
	return doc.Concat(
		doc.Group(doc.Concat(
			doc.Text("type"), doc.Space, doc.Text(name), doc.Space, doc.Text("="),
		)),
		doc.Nest(2, doc.Group(doc.Concat(doc.Line, body))),
	)
}

// Program renders all items in declaration order, each followed by a blank
// line.
func (ctx Ctx) Program(p ast.Program) (doc.Doc, error) {
	items := make([]doc.Doc, 0, len(p.Items))
	for _, i := range p.Items {
		d, err := ctx.Item(i)
		if err != nil {
			return nil, err
		}
		items = append(items, doc.Concat(d, doc.Hardline, doc.Hardline))
	}
	return doc.Concat(items...), nil
}

// File is a complete F* module: the fixed header plus one translated
// program.
type File struct {
	// ModuleName is the F* module name, usually the output file's stem.
	ModuleName string
	// SetOptions is the argument of the #set-options pragma.
	SetOptions string
	// Opens lists the namespaces opened by the module.
	Opens []string
	// Width is the page width the body is rendered at.
	Width int

	Program ast.Program
	Dict    ast.TypeDict
}

// Render translates the file's program and assembles the final module text.
func (f File) Render() (string, error) {
	ctx := NewCtx(f.Dict)
	body, err := ctx.Program(f.Program)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n\n", f.ModuleName)
	fmt.Fprintf(&sb, "#set-options \"%s\"\n\n", f.SetOptions)
	for _, o := range f.Opens {
		fmt.Fprintf(&sb, "open %s\n", o)
	}
	sb.WriteString("\n")
	sb.WriteString(doc.Render(f.Width, body))
	return sb.String(), nil
}

// Write renders the file and writes it to w in full, or writes nothing on a
// translation error.
func (f File) Write(w io.Writer) error {
	out, err := f.Render()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
