package util

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hacspec-lang/hacfstar/ast"
	"github.com/hacspec-lang/hacfstar/config"
)

func TestModuleName(t *testing.T) {
	assert.Equal(t, "Hacspec.Chacha20", ModuleName("/out/Hacspec.Chacha20.fst"))
	assert.Equal(t, "Test", ModuleName("Test.fst"))
	assert.Equal(t, "Test", ModuleName(" Test.fst\n"))
	assert.Equal(t, "noext", ModuleName("dir/noext"))
}

func TestWriteFileIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fst")
	require.NoError(t, WriteFileIfChanged(path, []byte("first"), 0666))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	// rewriting with the same contents keeps them intact
	require.NoError(t, WriteFileIfChanged(path, []byte("first"), 0666))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	require.NoError(t, WriteFileIfChanged(path, []byte("second"), 0666))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func testSnapshot() ast.Snapshot {
	return ast.Snapshot{
		Program: ast.Program{Items: []ast.Item{
			ast.ConstDecl{
				Name:  ast.Original("BLOCKSIZE"),
				Typ:   ast.Usize{},
				Value: ast.Lit{Value: ast.LitInt{Value: big.NewInt(64)}},
			},
		}},
	}
}

func TestTranslate(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "Test.fst")
	units := []Unit{{Snapshot: testSnapshot(), OutPath: outPath}}
	require.NoError(t, Translate(units, config.Default()))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	out := string(got)
	assert.True(t, strings.HasPrefix(out, "module Test\n"))
	assert.Contains(t, out, `#set-options "--fuel 0 --ifuel 1 --z3rlimit 15"`)
	assert.Contains(t, out, "open Hacspec.Lib\n")
	assert.Contains(t, out, "let blocksize : uint_size =\n  usize 64\n")
}

func TestTranslateReportsFailures(t *testing.T) {
	dir := t.TempDir()
	bad := ast.Snapshot{
		Program: ast.Program{Items: []ast.Item{
			ast.ConstDecl{
				Name:  ast.Original("x"),
				Typ:   ast.Usize{},
				Value: ast.IntegerCast{To: ast.IntTyp{Bits: 8}, Expr: ast.Name{Ident: ast.Original("y")}},
			},
		}},
	}
	units := []Unit{
		{Snapshot: bad, OutPath: filepath.Join(dir, "Bad.fst")},
		{Snapshot: testSnapshot(), OutPath: filepath.Join(dir, "Good.fst")},
	}
	err := Translate(units, config.Default())
	require.Error(t, err)

	// the failing unit writes nothing, the good one still runs
	_, statErr := os.Stat(filepath.Join(dir, "Bad.fst"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "Good.fst"))
	assert.NoError(t, statErr)
}
