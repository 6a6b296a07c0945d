package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutatedInfoValidate(t *testing.T) {
	m := &MutatedInfo{
		Vars: []Ident{Original("a"), Original("b")},
		Stmt: ReturnExp{Expr: TupleExpr{Elems: []Expression{
			Name{Ident: Original("a")},
			Name{Ident: Original("b")},
		}}},
	}
	assert.NoError(t, m.Validate())
}

func TestMutatedInfoValidateMissing(t *testing.T) {
	var m *MutatedInfo
	require.Error(t, m.Validate())
	assert.Contains(t, m.Validate().Error(), "missing")
}

func TestMutatedInfoValidateNoStatement(t *testing.T) {
	m := &MutatedInfo{Vars: []Ident{Original("a")}}
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement")
}

func TestMutatedInfoValidateDuplicates(t *testing.T) {
	m := &MutatedInfo{
		Vars: []Ident{Original("a"), Original("b"), Original("a")},
		Stmt: ReturnExp{Expr: Name{Ident: Original("a")}},
	}
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestIdentString(t *testing.T) {
	assert.Equal(t, "x", Original("x").String())
	assert.Equal(t, "tmp_7", Hygienic{ID: 7, Base: "tmp"}.String())
}

func TestBinOpString(t *testing.T) {
	assert.Equal(t, "add", OpAdd.String())
	assert.Equal(t, "shl", OpShl.String())
	assert.Equal(t, "not", OpNot.String())
	assert.Equal(t, "binop(99)", BinOp(99).String())
}
