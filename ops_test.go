package hacfstar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hacspec-lang/hacfstar/ast"
	"github.com/hacspec-lang/hacfstar/doc"
)

func testDict() ast.TypeDict {
	return ast.TypeDict{
		"State": {
			Typ:   ast.ArrayTyp{Size: ast.SizeNamed("state_size"), Elem: ast.IntTyp{Bits: 64}},
			Entry: ast.DictArray,
		},
		"StateAlias": {
			Typ:   ast.Named{Name: "State"},
			Entry: ast.DictAlias,
		},
		"Fp": {
			Typ:   ast.NatInt{Modulus: "11"},
			Entry: ast.DictNaturalInteger,
		},
	}
}

func renderBinop(t *testing.T, op ast.BinOp, typ ast.BaseTyp, dict ast.TypeDict) string {
	t.Helper()
	d, err := translateBinop(op, typ, dict)
	require.NoError(t, err)
	return doc.Render(80, d)
}

func TestBinopMachineIntegers(t *testing.T) {
	assert.Equal(t, "+", renderBinop(t, ast.OpAdd, ast.Usize{}, nil))
	assert.Equal(t, "-", renderBinop(t, ast.OpSub, ast.Isize{}, nil))
	assert.Equal(t, "*", renderBinop(t, ast.OpMul, ast.Usize{}, nil))
	assert.Equal(t, "/", renderBinop(t, ast.OpDiv, ast.Usize{}, nil))
	// remainder is not plain arithmetic on machine integers
	assert.Equal(t, "%.", renderBinop(t, ast.OpRem, ast.Usize{}, nil))
	assert.Equal(t, "<.", renderBinop(t, ast.OpLt, ast.Usize{}, nil))
}

func TestBinopDottedFamily(t *testing.T) {
	u32 := ast.IntTyp{Bits: 32}
	assert.Equal(t, "+.", renderBinop(t, ast.OpAdd, u32, nil))
	assert.Equal(t, "-.", renderBinop(t, ast.OpSub, u32, nil))
	assert.Equal(t, "^.", renderBinop(t, ast.OpBitXor, u32, nil))
	assert.Equal(t, "&.", renderBinop(t, ast.OpBitAnd, u32, nil))
	assert.Equal(t, "|.", renderBinop(t, ast.OpBitOr, u32, nil))
	assert.Equal(t, "`shift_left`", renderBinop(t, ast.OpShl, u32, nil))
	assert.Equal(t, "`shift_right`", renderBinop(t, ast.OpShr, u32, nil))
	assert.Equal(t, "<=.", renderBinop(t, ast.OpLe, u32, nil))
	assert.Equal(t, ">.", renderBinop(t, ast.OpGt, u32, nil))
}

func TestBinopSequences(t *testing.T) {
	seq := ast.Seq{Elem: ast.IntTyp{Bits: 8}}
	assert.Equal(t, "`seq_add`", renderBinop(t, ast.OpAdd, seq, nil))
	assert.Equal(t, "`seq_xor`", renderBinop(t, ast.OpBitXor, seq, nil))
	// named array types resolve to the sequence operators
	assert.Equal(t, "`seq_xor`", renderBinop(t, ast.OpBitXor, ast.Named{Name: "State"}, testDict()))
}

func TestBinopBooleans(t *testing.T) {
	assert.Equal(t, "==", renderBinop(t, ast.OpEq, ast.Bool{}, nil))
	assert.Equal(t, "!=", renderBinop(t, ast.OpNe, ast.Bool{}, nil))
	assert.Equal(t, "&&", renderBinop(t, ast.OpAnd, ast.Bool{}, nil))
	assert.Equal(t, "||", renderBinop(t, ast.OpOr, ast.Bool{}, nil))
}

func TestBinopNaturalIntegers(t *testing.T) {
	fp := ast.Named{Name: "Fp"}
	assert.Equal(t, "+", renderBinop(t, ast.OpAdd, fp, testDict()))
	assert.Equal(t, "%", renderBinop(t, ast.OpRem, fp, testDict()))

	_, err := translateBinop(ast.OpShl, fp, testDict())
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
}

func TestBinopAliasTransparency(t *testing.T) {
	dict := testDict()
	for _, op := range []ast.BinOp{ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpBitXor} {
		direct := renderBinop(t, op, ast.Named{Name: "State"}, dict)
		aliased := renderBinop(t, op, ast.Named{Name: "StateAlias"}, dict)
		assert.Equal(t, direct, aliased, "operator %s", op)
	}
}

func TestBinopCyclicDictionary(t *testing.T) {
	dict := ast.TypeDict{
		"A": {Typ: ast.Named{Name: "B"}, Entry: ast.DictAlias},
		"B": {Typ: ast.Named{Name: "A"}, Entry: ast.DictAlias},
	}
	_, err := translateBinop(ast.OpAdd, ast.Named{Name: "A"}, dict)
	require.Error(t, err)
	assert.True(t, IsInvariant(err))
	assert.Contains(t, err.Error(), "depth")
}

func TestUnops(t *testing.T) {
	d, err := translateUnop(ast.OpNot)
	require.NoError(t, err)
	assert.Equal(t, "~", doc.Render(80, d))
	d, err = translateUnop(ast.OpNeg)
	require.NoError(t, err)
	assert.Equal(t, "-", doc.Render(80, d))
}

func renderFuncName(t *testing.T, prefix ast.BaseTyp, name string, dict ast.TypeDict) string {
	t.Helper()
	d, err := translateFuncName(prefix, ast.Original(name), dict)
	require.NoError(t, err)
	return doc.Render(80, d)
}

func TestFuncNameSecretConstructors(t *testing.T) {
	// a bare secret-integer constructor classifies a public value
	assert.Equal(t, "secret", renderFuncName(t, nil, "U32", nil))
	assert.Equal(t, "secret", renderFuncName(t, nil, "I8", nil))
	assert.Equal(t, "secret", renderFuncName(t, nil, "U128", nil))
	assert.Equal(t, "poly", renderFuncName(t, nil, "poly", nil))
}

func TestFuncNameSeqPrefix(t *testing.T) {
	seq := ast.Seq{Elem: ast.IntTyp{Bits: 8}}
	assert.Equal(t, "seq_from_slice #pub_uint8", renderFuncName(t, seq, "from_slice", nil))
	assert.Equal(t, "seq_len #pub_uint8", renderFuncName(t, seq, "len", nil))
}

func TestFuncNameArrayPrefix(t *testing.T) {
	arr := ast.ArrayTyp{Size: ast.SizeLit(16), Elem: ast.IntTyp{Bits: 8}}
	assert.Equal(t, "seq_new_ 16 #pub_uint8", renderFuncName(t, arr, "new", nil))

	// a named array type chases the dictionary and appends its size, but not
	// an element type argument
	assert.Equal(t, "seq_new_ state_size", renderFuncName(t, ast.Named{Name: "State"}, "new", testDict()))
	assert.Equal(t, "seq_index", renderFuncName(t, ast.Named{Name: "State"}, "index", testDict()))
}

func TestFuncNameOtherPrefixes(t *testing.T) {
	assert.Equal(t, "int_rotate_left", renderFuncName(t, ast.IntTyp{Bits: 32}, "rotate_left", nil))
	assert.Equal(t, "nat_from_byte_seq_le",
		renderFuncName(t, ast.Named{Name: "Fp"}, "from_byte_seq_le", testDict()))
	assert.Equal(t, "string_len", renderFuncName(t, ast.Str{}, "len", nil))
	assert.Equal(t, "option_unwrap", renderFuncName(t, ast.Named{Name: "Option"}, "unwrap", nil))
}

func TestFuncNameBadPrefix(t *testing.T) {
	_, err := translateFuncName(ast.Unit{}, ast.Original("f"), nil)
	require.Error(t, err)
	assert.True(t, IsInvariant(err))
}
