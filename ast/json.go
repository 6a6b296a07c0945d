package ast

import (
	"encoding/json"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// The checker serializes its snapshot as kind-discriminated JSON objects:
// every node of a sum type is an object carrying a "kind" field naming the
// variant next to the variant's own fields. DecodeSnapshot and EncodeSnapshot
// are inverses.

// DecodeSnapshot reads a checker snapshot from r.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var raw struct {
		Program struct {
			Items []json.RawMessage `json:"items"`
		} `json:"program"`
		Dict map[string]struct {
			Typ   json.RawMessage `json:"typ"`
			Entry string          `json:"entry"`
		} `json:"dict"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Snapshot{}, errors.Wrap(err, "decoding snapshot")
	}
	var s Snapshot
	for i, it := range raw.Program.Items {
		item, err := decodeItem(it)
		if err != nil {
			return Snapshot{}, errors.Wrapf(err, "item %d", i)
		}
		s.Program.Items = append(s.Program.Items, item)
	}
	if raw.Dict != nil {
		s.Dict = make(TypeDict, len(raw.Dict))
		for name, p := range raw.Dict {
			typ, err := decodeBaseTyp(p.Typ)
			if err != nil {
				return Snapshot{}, errors.Wrapf(err, "dict entry %s", name)
			}
			entry, err := parseDictEntry(p.Entry)
			if err != nil {
				return Snapshot{}, errors.Wrapf(err, "dict entry %s", name)
			}
			s.Dict[name] = DictPair{Typ: typ, Entry: entry}
		}
	}
	return s, nil
}

// EncodeSnapshot writes s to w in the snapshot interchange format.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	items := make([]any, 0, len(s.Program.Items))
	for _, it := range s.Program.Items {
		items = append(items, encodeItem(it))
	}
	dict := make(map[string]any, len(s.Dict))
	for name, p := range s.Dict {
		dict[name] = map[string]any{
			"typ":   encodeBaseTyp(p.Typ),
			"entry": dictEntryName(p.Entry),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(map[string]any{
		"program": map[string]any{"items": items},
		"dict":    dict,
	}), "encoding snapshot")
}

func parseDictEntry(s string) (DictEntry, error) {
	switch s {
	case "alias":
		return DictAlias, nil
	case "array":
		return DictArray, nil
	case "nat":
		return DictNaturalInteger, nil
	}
	return 0, errors.Errorf("unknown dict entry %q", s)
}

func dictEntryName(e DictEntry) string {
	switch e {
	case DictArray:
		return "array"
	case DictNaturalInteger:
		return "nat"
	default:
		return "alias"
	}
}

func kindOf(raw json.RawMessage) (string, error) {
	var env struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", errors.Wrap(err, "reading node kind")
	}
	return env.Kind, nil
}

func decodeIdent(raw json.RawMessage) (Ident, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "original":
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return Original(v.Name), nil
	case "hygienic":
		var v struct {
			ID   int    `json:"id"`
			Base string `json:"base"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return Hygienic{ID: v.ID, Base: v.Base}, nil
	}
	return nil, errors.Errorf("unknown ident kind %q", kind)
}

func encodeIdent(i Ident) any {
	switch i := i.(type) {
	case Original:
		return map[string]any{"kind": "original", "name": string(i)}
	case Hygienic:
		return map[string]any{"kind": "hygienic", "id": i.ID, "base": i.Base}
	}
	return nil
}

func decodeBaseTyp(raw json.RawMessage) (BaseTyp, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "unit":
		return Unit{}, nil
	case "bool":
		return Bool{}, nil
	case "int":
		var v struct {
			Bits   int  `json:"bits"`
			Signed bool `json:"signed"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return IntTyp{Bits: v.Bits, Signed: v.Signed}, nil
	case "usize":
		return Usize{}, nil
	case "isize":
		return Isize{}, nil
	case "str":
		return Str{}, nil
	case "seq":
		var v struct {
			Elem json.RawMessage `json:"elem"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		elem, err := decodeBaseTyp(v.Elem)
		if err != nil {
			return nil, err
		}
		return Seq{Elem: elem}, nil
	case "array":
		var v struct {
			Size json.RawMessage `json:"size"`
			Elem json.RawMessage `json:"elem"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		size, err := decodeArraySize(v.Size)
		if err != nil {
			return nil, err
		}
		elem, err := decodeBaseTyp(v.Elem)
		if err != nil {
			return nil, err
		}
		return ArrayTyp{Size: size, Elem: elem}, nil
	case "named":
		var v struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		t := Named{Name: v.Name}
		for _, a := range v.Args {
			arg, err := decodeBaseTyp(a)
			if err != nil {
				return nil, err
			}
			t.Args = append(t.Args, arg)
		}
		return t, nil
	case "typvar":
		var v struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return TypVar{ID: v.ID}, nil
	case "tuple":
		var v struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		t := TupleTyp{}
		for _, e := range v.Elems {
			elem, err := decodeBaseTyp(e)
			if err != nil {
				return nil, err
			}
			t.Elems = append(t.Elems, elem)
		}
		return t, nil
	case "natint":
		var v struct {
			Secret  bool   `json:"secret"`
			Modulus string `json:"modulus"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return NatInt{Secret: v.Secret, Modulus: v.Modulus}, nil
	}
	return nil, errors.Errorf("unknown type kind %q", kind)
}

func encodeBaseTyp(t BaseTyp) any {
	switch t := t.(type) {
	case nil:
		return nil
	case Unit:
		return map[string]any{"kind": "unit"}
	case Bool:
		return map[string]any{"kind": "bool"}
	case IntTyp:
		return map[string]any{"kind": "int", "bits": t.Bits, "signed": t.Signed}
	case Usize:
		return map[string]any{"kind": "usize"}
	case Isize:
		return map[string]any{"kind": "isize"}
	case Str:
		return map[string]any{"kind": "str"}
	case Seq:
		return map[string]any{"kind": "seq", "elem": encodeBaseTyp(t.Elem)}
	case ArrayTyp:
		return map[string]any{"kind": "array", "size": encodeArraySize(t.Size), "elem": encodeBaseTyp(t.Elem)}
	case Named:
		args := make([]any, 0, len(t.Args))
		for _, a := range t.Args {
			args = append(args, encodeBaseTyp(a))
		}
		m := map[string]any{"kind": "named", "name": t.Name}
		if len(args) > 0 {
			m["args"] = args
		}
		return m
	case TypVar:
		return map[string]any{"kind": "typvar", "id": t.ID}
	case TupleTyp:
		elems := make([]any, 0, len(t.Elems))
		for _, e := range t.Elems {
			elems = append(elems, encodeBaseTyp(e))
		}
		return map[string]any{"kind": "tuple", "elems": elems}
	case NatInt:
		return map[string]any{"kind": "natint", "secret": t.Secret, "modulus": t.Modulus}
	}
	return nil
}

func decodeArraySize(raw json.RawMessage) (ArraySize, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "named":
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return SizeNamed(v.Name), nil
	case "lit":
		var v struct {
			Value int `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return SizeLit(v.Value), nil
	}
	return nil, errors.Errorf("unknown array size kind %q", kind)
}

func encodeArraySize(s ArraySize) any {
	switch s := s.(type) {
	case SizeNamed:
		return map[string]any{"kind": "named", "name": string(s)}
	case SizeLit:
		return map[string]any{"kind": "lit", "value": int(s)}
	}
	return nil
}

func decodeLiteral(raw json.RawMessage) (Literal, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "unit":
		return LitUnit{}, nil
	case "bool":
		var v struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return LitBool(v.Value), nil
	case "int":
		var v struct {
			Value  string `json:"value"`
			Bits   int    `json:"bits"`
			Signed bool   `json:"signed"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		value, ok := new(big.Int).SetString(v.Value, 10)
		if !ok {
			return nil, errors.Errorf("bad integer literal %q", v.Value)
		}
		return LitInt{Value: value, Bits: v.Bits, Signed: v.Signed}, nil
	case "str":
		var v struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return LitStr(v.Value), nil
	}
	return nil, errors.Errorf("unknown literal kind %q", kind)
}

func encodeLiteral(l Literal) any {
	switch l := l.(type) {
	case LitUnit:
		return map[string]any{"kind": "unit"}
	case LitBool:
		return map[string]any{"kind": "bool", "value": bool(l)}
	case LitInt:
		return map[string]any{
			"kind":   "int",
			"value":  l.Value.String(),
			"bits":   l.Bits,
			"signed": l.Signed,
		}
	case LitStr:
		return map[string]any{"kind": "str", "value": string(l)}
	}
	return nil
}

func decodePattern(raw json.RawMessage) (Pattern, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "ident":
		var v struct {
			Ident json.RawMessage `json:"ident"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		id, err := decodeIdent(v.Ident)
		if err != nil {
			return nil, err
		}
		return PatIdent{Ident: id}, nil
	case "wildcard":
		return PatWildcard{}, nil
	case "tuple":
		var v struct {
			Pats []json.RawMessage `json:"pats"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		p := PatTuple{}
		for _, pr := range v.Pats {
			pat, err := decodePattern(pr)
			if err != nil {
				return nil, err
			}
			p.Pats = append(p.Pats, pat)
		}
		return p, nil
	}
	return nil, errors.Errorf("unknown pattern kind %q", kind)
}

func encodePattern(p Pattern) any {
	switch p := p.(type) {
	case PatIdent:
		return map[string]any{"kind": "ident", "ident": encodeIdent(p.Ident)}
	case PatWildcard:
		return map[string]any{"kind": "wildcard"}
	case PatTuple:
		pats := make([]any, 0, len(p.Pats))
		for _, sub := range p.Pats {
			pats = append(pats, encodePattern(sub))
		}
		return map[string]any{"kind": "tuple", "pats": pats}
	}
	return nil
}

var binOpByName = func() map[string]BinOp {
	m := make(map[string]BinOp, len(binOpNames))
	for op, name := range binOpNames {
		m[name] = op
	}
	return m
}()

func parseBinOp(s string) (BinOp, error) {
	if op, ok := binOpByName[s]; ok {
		return op, nil
	}
	return 0, errors.Errorf("unknown binary operator %q", s)
}

func parseUnOp(s string) (UnOp, error) {
	switch s {
	case "not":
		return OpNot, nil
	case "neg":
		return OpNeg, nil
	}
	return 0, errors.Errorf("unknown unary operator %q", s)
}

func decodeExprs(raws []json.RawMessage) ([]Expression, error) {
	var es []Expression
	for _, r := range raws {
		e, err := decodeExpression(r)
		if err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	return es, nil
}

func encodeExprs(es []Expression) []any {
	out := make([]any, 0, len(es))
	for _, e := range es {
		out = append(out, encodeExpression(e))
	}
	return out
}

func decodeExpression(raw json.RawMessage) (Expression, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "binary":
		var v struct {
			Op  string          `json:"op"`
			X   json.RawMessage `json:"x"`
			Y   json.RawMessage `json:"y"`
			Typ json.RawMessage `json:"typ"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		op, err := parseBinOp(v.Op)
		if err != nil {
			return nil, err
		}
		x, err := decodeExpression(v.X)
		if err != nil {
			return nil, err
		}
		y, err := decodeExpression(v.Y)
		if err != nil {
			return nil, err
		}
		typ, err := decodeBaseTyp(v.Typ)
		if err != nil {
			return nil, err
		}
		return Binary{Op: op, X: x, Y: y, OpTyp: typ}, nil
	case "unary":
		var v struct {
			Op  string          `json:"op"`
			X   json.RawMessage `json:"x"`
			Typ json.RawMessage `json:"typ"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		op, err := parseUnOp(v.Op)
		if err != nil {
			return nil, err
		}
		x, err := decodeExpression(v.X)
		if err != nil {
			return nil, err
		}
		typ, err := decodeBaseTyp(v.Typ)
		if err != nil {
			return nil, err
		}
		return Unary{Op: op, X: x, OpTyp: typ}, nil
	case "lit":
		var v struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		lit, err := decodeLiteral(v.Value)
		if err != nil {
			return nil, err
		}
		return Lit{Value: lit}, nil
	case "tuple":
		var v struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		es, err := decodeExprs(v.Elems)
		if err != nil {
			return nil, err
		}
		return TupleExpr{Elems: es}, nil
	case "name":
		var v struct {
			Ident json.RawMessage `json:"ident"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		id, err := decodeIdent(v.Ident)
		if err != nil {
			return nil, err
		}
		return Name{Ident: id}, nil
	case "call":
		var v struct {
			Prefix json.RawMessage   `json:"prefix"`
			Name   json.RawMessage   `json:"name"`
			Args   []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		prefix, err := decodeBaseTyp(v.Prefix)
		if err != nil {
			return nil, err
		}
		name, err := decodeIdent(v.Name)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(v.Args)
		if err != nil {
			return nil, err
		}
		return FuncCall{Prefix: prefix, Name: name, Args: args}, nil
	case "method":
		var v struct {
			Receiver json.RawMessage   `json:"receiver"`
			RecvTyp  json.RawMessage   `json:"recvtyp"`
			Name     json.RawMessage   `json:"name"`
			Args     []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		recv, err := decodeExpression(v.Receiver)
		if err != nil {
			return nil, err
		}
		recvTyp, err := decodeBaseTyp(v.RecvTyp)
		if err != nil {
			return nil, err
		}
		name, err := decodeIdent(v.Name)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(v.Args)
		if err != nil {
			return nil, err
		}
		return MethodCall{Receiver: recv, RecvTyp: recvTyp, Name: name, Args: args}, nil
	case "index":
		var v struct {
			Array json.RawMessage `json:"array"`
			Index json.RawMessage `json:"index"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		arr, err := decodeIdent(v.Array)
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpression(v.Index)
		if err != nil {
			return nil, err
		}
		return ArrayIndex{Array: arr, Index: idx}, nil
	case "newarray":
		var v struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		es, err := decodeExprs(v.Elems)
		if err != nil {
			return nil, err
		}
		return NewArray{Elems: es}, nil
	case "cast":
		var v struct {
			To   json.RawMessage `json:"to"`
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		to, err := decodeBaseTyp(v.To)
		if err != nil {
			return nil, err
		}
		e, err := decodeExpression(v.Expr)
		if err != nil {
			return nil, err
		}
		return IntegerCast{To: to, Expr: e}, nil
	}
	return nil, errors.Errorf("unknown expression kind %q", kind)
}

func encodeExpression(e Expression) any {
	switch e := e.(type) {
	case Binary:
		return map[string]any{
			"kind": "binary",
			"op":   e.Op.String(),
			"x":    encodeExpression(e.X),
			"y":    encodeExpression(e.Y),
			"typ":  encodeBaseTyp(e.OpTyp),
		}
	case Unary:
		return map[string]any{
			"kind": "unary",
			"op":   e.Op.String(),
			"x":    encodeExpression(e.X),
			"typ":  encodeBaseTyp(e.OpTyp),
		}
	case Lit:
		return map[string]any{"kind": "lit", "value": encodeLiteral(e.Value)}
	case TupleExpr:
		return map[string]any{"kind": "tuple", "elems": encodeExprs(e.Elems)}
	case Name:
		return map[string]any{"kind": "name", "ident": encodeIdent(e.Ident)}
	case FuncCall:
		m := map[string]any{
			"kind": "call",
			"name": encodeIdent(e.Name),
			"args": encodeExprs(e.Args),
		}
		if e.Prefix != nil {
			m["prefix"] = encodeBaseTyp(e.Prefix)
		}
		return m
	case MethodCall:
		m := map[string]any{
			"kind":     "method",
			"receiver": encodeExpression(e.Receiver),
			"name":     encodeIdent(e.Name),
			"args":     encodeExprs(e.Args),
		}
		if e.RecvTyp != nil {
			m["recvtyp"] = encodeBaseTyp(e.RecvTyp)
		}
		return m
	case ArrayIndex:
		return map[string]any{
			"kind":  "index",
			"array": encodeIdent(e.Array),
			"index": encodeExpression(e.Index),
		}
	case NewArray:
		return map[string]any{"kind": "newarray", "elems": encodeExprs(e.Elems)}
	case IntegerCast:
		return map[string]any{
			"kind": "cast",
			"to":   encodeBaseTyp(e.To),
			"expr": encodeExpression(e.Expr),
		}
	}
	return nil
}

func decodeMutated(raw json.RawMessage) (*MutatedInfo, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v struct {
		Vars []json.RawMessage `json:"vars"`
		Stmt json.RawMessage   `json:"stmt"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	m := &MutatedInfo{}
	for _, vr := range v.Vars {
		id, err := decodeIdent(vr)
		if err != nil {
			return nil, err
		}
		m.Vars = append(m.Vars, id)
	}
	stmt, err := decodeStatement(v.Stmt)
	if err != nil {
		return nil, err
	}
	m.Stmt = stmt
	return m, nil
}

func encodeMutated(m *MutatedInfo) any {
	if m == nil {
		return nil
	}
	vars := make([]any, 0, len(m.Vars))
	for _, v := range m.Vars {
		vars = append(vars, encodeIdent(v))
	}
	return map[string]any{"vars": vars, "stmt": encodeStatement(m.Stmt)}
}

func decodeBlock(raw json.RawMessage) (Block, error) {
	var v struct {
		Stmts   []json.RawMessage `json:"stmts"`
		Mutated json.RawMessage   `json:"mutated"`
		RetTyp  json.RawMessage   `json:"rettyp"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return Block{}, err
	}
	var b Block
	for _, sr := range v.Stmts {
		s, err := decodeStatement(sr)
		if err != nil {
			return Block{}, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	mutated, err := decodeMutated(v.Mutated)
	if err != nil {
		return Block{}, err
	}
	b.Mutated = mutated
	retTyp, err := decodeBaseTyp(v.RetTyp)
	if err != nil {
		return Block{}, err
	}
	b.RetTyp = retTyp
	return b, nil
}

func encodeBlock(b Block) any {
	stmts := make([]any, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		stmts = append(stmts, encodeStatement(s))
	}
	m := map[string]any{"stmts": stmts, "rettyp": encodeBaseTyp(b.RetTyp)}
	if b.Mutated != nil {
		m["mutated"] = encodeMutated(b.Mutated)
	}
	return m
}

func decodeStatement(raw json.RawMessage) (Statement, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "let":
		var v struct {
			Pat  json.RawMessage `json:"pat"`
			Typ  json.RawMessage `json:"typ"`
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		pat, err := decodePattern(v.Pat)
		if err != nil {
			return nil, err
		}
		typ, err := decodeBaseTyp(v.Typ)
		if err != nil {
			return nil, err
		}
		e, err := decodeExpression(v.Expr)
		if err != nil {
			return nil, err
		}
		return LetBinding{Pat: pat, Typ: typ, Expr: e}, nil
	case "assign":
		var v struct {
			Ident json.RawMessage `json:"ident"`
			Expr  json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		id, err := decodeIdent(v.Ident)
		if err != nil {
			return nil, err
		}
		e, err := decodeExpression(v.Expr)
		if err != nil {
			return nil, err
		}
		return Reassignment{Ident: id, Expr: e}, nil
	case "update":
		var v struct {
			Ident json.RawMessage `json:"ident"`
			Index json.RawMessage `json:"index"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		id, err := decodeIdent(v.Ident)
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpression(v.Index)
		if err != nil {
			return nil, err
		}
		val, err := decodeExpression(v.Value)
		if err != nil {
			return nil, err
		}
		return ArrayUpdate{Ident: id, Index: idx, Value: val}, nil
	case "return":
		var v struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		e, err := decodeExpression(v.Expr)
		if err != nil {
			return nil, err
		}
		return ReturnExp{Expr: e}, nil
	case "if":
		var v struct {
			Cond    json.RawMessage `json:"cond"`
			Then    json.RawMessage `json:"then"`
			Else    json.RawMessage `json:"else"`
			Mutated json.RawMessage `json:"mutated"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		cond, err := decodeExpression(v.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeBlock(v.Then)
		if err != nil {
			return nil, err
		}
		s := Conditional{Cond: cond, Then: then}
		if len(v.Else) > 0 && string(v.Else) != "null" {
			els, err := decodeBlock(v.Else)
			if err != nil {
				return nil, err
			}
			s.Else = &els
		}
		mutated, err := decodeMutated(v.Mutated)
		if err != nil {
			return nil, err
		}
		s.Mutated = mutated
		return s, nil
	case "for":
		var v struct {
			Var  json.RawMessage `json:"var"`
			Lo   json.RawMessage `json:"lo"`
			Hi   json.RawMessage `json:"hi"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		id, err := decodeIdent(v.Var)
		if err != nil {
			return nil, err
		}
		lo, err := decodeExpression(v.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := decodeExpression(v.Hi)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(v.Body)
		if err != nil {
			return nil, err
		}
		return ForLoop{Var: id, Lo: lo, Hi: hi, Body: body}, nil
	}
	return nil, errors.Errorf("unknown statement kind %q", kind)
}

func encodeStatement(s Statement) any {
	switch s := s.(type) {
	case LetBinding:
		m := map[string]any{
			"kind": "let",
			"pat":  encodePattern(s.Pat),
			"expr": encodeExpression(s.Expr),
		}
		if s.Typ != nil {
			m["typ"] = encodeBaseTyp(s.Typ)
		}
		return m
	case Reassignment:
		return map[string]any{
			"kind":  "assign",
			"ident": encodeIdent(s.Ident),
			"expr":  encodeExpression(s.Expr),
		}
	case ArrayUpdate:
		return map[string]any{
			"kind":  "update",
			"ident": encodeIdent(s.Ident),
			"index": encodeExpression(s.Index),
			"value": encodeExpression(s.Value),
		}
	case ReturnExp:
		return map[string]any{"kind": "return", "expr": encodeExpression(s.Expr)}
	case Conditional:
		m := map[string]any{
			"kind": "if",
			"cond": encodeExpression(s.Cond),
			"then": encodeBlock(s.Then),
		}
		if s.Else != nil {
			m["else"] = encodeBlock(*s.Else)
		}
		if s.Mutated != nil {
			m["mutated"] = encodeMutated(s.Mutated)
		}
		return m
	case ForLoop:
		return map[string]any{
			"kind": "for",
			"var":  encodeIdent(s.Var),
			"lo":   encodeExpression(s.Lo),
			"hi":   encodeExpression(s.Hi),
			"body": encodeBlock(s.Body),
		}
	}
	return nil
}

func decodeItem(raw json.RawMessage) (Item, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "fn":
		var v struct {
			Name json.RawMessage `json:"name"`
			Args []struct {
				Name json.RawMessage `json:"name"`
				Typ  json.RawMessage `json:"typ"`
			} `json:"args"`
			Ret  json.RawMessage `json:"ret"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		name, err := decodeIdent(v.Name)
		if err != nil {
			return nil, err
		}
		var sig FuncSig
		for _, a := range v.Args {
			argName, err := decodeIdent(a.Name)
			if err != nil {
				return nil, err
			}
			argTyp, err := decodeBaseTyp(a.Typ)
			if err != nil {
				return nil, err
			}
			sig.Args = append(sig.Args, FuncArg{Name: argName, Typ: argTyp})
		}
		ret, err := decodeBaseTyp(v.Ret)
		if err != nil {
			return nil, err
		}
		sig.Ret = ret
		body, err := decodeBlock(v.Body)
		if err != nil {
			return nil, err
		}
		return FnDecl{Name: name, Sig: sig, Body: body}, nil
	case "arraydecl":
		var v struct {
			Name string          `json:"name"`
			Size json.RawMessage `json:"size"`
			Cell json.RawMessage `json:"cell"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		size, err := decodeExpression(v.Size)
		if err != nil {
			return nil, err
		}
		cell, err := decodeBaseTyp(v.Cell)
		if err != nil {
			return nil, err
		}
		return ArrayDecl{Name: v.Name, Size: size, CellTyp: cell}, nil
	case "const":
		var v struct {
			Name  json.RawMessage `json:"name"`
			Typ   json.RawMessage `json:"typ"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		name, err := decodeIdent(v.Name)
		if err != nil {
			return nil, err
		}
		typ, err := decodeBaseTyp(v.Typ)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(v.Value)
		if err != nil {
			return nil, err
		}
		return ConstDecl{Name: name, Typ: typ, Value: value}, nil
	case "natdecl":
		var v struct {
			Name       string          `json:"name"`
			CanvasName string          `json:"canvas"`
			Secret     bool            `json:"secret"`
			CanvasSize json.RawMessage `json:"size"`
			Modulus    string          `json:"modulus"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		size, err := decodeExpression(v.CanvasSize)
		if err != nil {
			return nil, err
		}
		return NaturalIntegerDecl{
			Name:       v.Name,
			CanvasName: v.CanvasName,
			Secret:     v.Secret,
			CanvasSize: size,
			Modulus:    v.Modulus,
		}, nil
	}
	return nil, errors.Errorf("unknown item kind %q", kind)
}

func encodeItem(i Item) any {
	switch i := i.(type) {
	case FnDecl:
		args := make([]any, 0, len(i.Sig.Args))
		for _, a := range i.Sig.Args {
			args = append(args, map[string]any{
				"name": encodeIdent(a.Name),
				"typ":  encodeBaseTyp(a.Typ),
			})
		}
		return map[string]any{
			"kind": "fn",
			"name": encodeIdent(i.Name),
			"args": args,
			"ret":  encodeBaseTyp(i.Sig.Ret),
			"body": encodeBlock(i.Body),
		}
	case ArrayDecl:
		return map[string]any{
			"kind": "arraydecl",
			"name": i.Name,
			"size": encodeExpression(i.Size),
			"cell": encodeBaseTyp(i.CellTyp),
		}
	case ConstDecl:
		return map[string]any{
			"kind":  "const",
			"name":  encodeIdent(i.Name),
			"typ":   encodeBaseTyp(i.Typ),
			"value": encodeExpression(i.Value),
		}
	case NaturalIntegerDecl:
		return map[string]any{
			"kind":    "natdecl",
			"name":    i.Name,
			"canvas":  i.CanvasName,
			"secret":  i.Secret,
			"size":    encodeExpression(i.CanvasSize),
			"modulus": i.Modulus,
		}
	}
	return nil
}
