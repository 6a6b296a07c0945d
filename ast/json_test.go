package ast

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	body := Block{
		Stmts: []Statement{
			LetBinding{
				Pat:  PatIdent{Ident: Original("acc")},
				Typ:  Usize{},
				Expr: Lit{Value: LitInt{Value: big.NewInt(5)}},
			},
			ForLoop{
				Var: Original("i"),
				Lo:  Lit{Value: LitInt{Value: big.NewInt(5)}},
				Hi:  Name{Ident: Original("n")},
				Body: Block{
					Stmts: []Statement{Reassignment{
						Ident: Original("acc"),
						Expr: Binary{
							Op:    OpAdd,
							X:     Name{Ident: Original("acc")},
							Y:     Name{Ident: Original("i")},
							OpTyp: Usize{},
						},
					}},
					Mutated: &MutatedInfo{
						Vars: []Ident{Original("acc")},
						Stmt: ReturnExp{Expr: Name{Ident: Original("acc")}},
					},
					RetTyp: Unit{},
				},
			},
			Conditional{
				Cond: Unary{Op: OpNot, X: Name{Ident: Original("flag")}, OpTyp: Bool{}},
				Then: Block{
					Stmts: []Statement{ArrayUpdate{
						Ident: Original("s"),
						Index: Lit{Value: LitInt{Value: big.NewInt(5)}},
						Value: FuncCall{
							Name: Original("U32"),
							Args: []Expression{Lit{Value: LitInt{Value: big.NewInt(5), Bits: 32}}},
						},
					}},
					RetTyp: Unit{},
				},
				Mutated: &MutatedInfo{
					Vars: []Ident{Original("s")},
					Stmt: ReturnExp{Expr: Name{Ident: Original("s")}},
				},
			},
			ReturnExp{Expr: MethodCall{
				Receiver: Name{Ident: Hygienic{ID: 1, Base: "tmp"}},
				RecvTyp:  Named{Name: "State"},
				Name:     Original("len"),
				Args: []Expression{
					ArrayIndex{Array: Original("s"), Index: Lit{Value: LitInt{Value: big.NewInt(5)}}},
					NewArray{Elems: []Expression{Lit{Value: LitBool(true)}}},
				},
			}},
		},
		RetTyp: Usize{},
	}
	return Snapshot{
		Program: Program{Items: []Item{
			ConstDecl{Name: Original("N"), Typ: Usize{}, Value: Lit{Value: LitInt{Value: big.NewInt(5)}}},
			ArrayDecl{Name: "State", Size: Lit{Value: LitInt{Value: big.NewInt(5)}}, CellTyp: IntTyp{Bits: 64}},
			NaturalIntegerDecl{
				Name:       "FieldElement",
				CanvasName: "FieldCanvas",
				CanvasSize: Lit{Value: LitInt{Value: big.NewInt(5)}},
				Modulus:    "03",
			},
			FnDecl{
				Name: Original("sum"),
				Sig: FuncSig{
					Args: []FuncArg{
						{Name: Original("n"), Typ: Usize{}},
						{Name: Original("s"), Typ: Seq{Elem: IntTyp{Bits: 8}}},
					},
					Ret: Usize{},
				},
				Body: body,
			},
		}},
		Dict: TypeDict{
			"State": {
				Typ:   ArrayTyp{Size: SizeNamed("state_size"), Elem: IntTyp{Bits: 64}},
				Entry: DictArray,
			},
			"Fp": {
				Typ:   NatInt{Secret: true, Modulus: "03"},
				Entry: DictNaturalInteger,
			},
			"Word": {
				Typ:   TupleTyp{Elems: []BaseTyp{Bool{}, TypVar{ID: 0}}},
				Entry: DictAlias,
			},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	want := sampleSnapshot()
	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, want))
	got, err := DecodeSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeSnapshotUnknownItemKind(t *testing.T) {
	in := `{"program":{"items":[{"kind":"wat"}]}}`
	_, err := DecodeSnapshot(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown item kind "wat"`)
}

func TestDecodeSnapshotUnknownDictEntry(t *testing.T) {
	in := `{"program":{"items":[]},"dict":{"T":{"typ":{"kind":"unit"},"entry":"struct"}}}`
	_, err := DecodeSnapshot(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown dict entry "struct"`)
}

func TestDecodeSnapshotBadIntegerLiteral(t *testing.T) {
	in := `{"program":{"items":[{
		"kind":"const",
		"name":{"kind":"original","name":"n"},
		"typ":{"kind":"usize"},
		"value":{"kind":"lit","value":{"kind":"int","value":"not-a-number","bits":0,"signed":false}}
	}]}}`
	_, err := DecodeSnapshot(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad integer literal")
}

func TestDecodeSnapshotGarbage(t *testing.T) {
	_, err := DecodeSnapshot(strings.NewReader("{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding snapshot")
}
