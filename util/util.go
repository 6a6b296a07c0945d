// Package util drives whole translation runs: it renders each unit and
// writes its output artifact, reporting failures without losing the other
// units.
package util

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/hacspec-lang/hacfstar"
	"github.com/hacspec-lang/hacfstar/ast"
	"github.com/hacspec-lang/hacfstar/config"
)

// Unit is one translation unit: a checker snapshot and the path its F*
// output goes to.
type Unit struct {
	Snapshot ast.Snapshot
	OutPath  string
}

// ModuleName derives the F* module name from the output artifact's filename
// stem.
func ModuleName(outPath string) string {
	base := filepath.Base(strings.TrimSpace(outPath))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// fileHasContents returns true if the file at path already holds data. It
// returns false if any errors are encountered along the way.
func fileHasContents(path string, data []byte) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil || stat.Size() != int64(len(data)) {
		return false
	}
	var buf [4096]byte
	for {
		n, err := f.Read(buf[:])
		if err != nil {
			return false
		}
		// got to end of file and contents are same
		if n == 0 {
			return true
		}
		if !bytes.Equal(buf[:n], data[:n]) {
			return false
		}
		data = data[n:]
	}
}

// WriteFileIfChanged writes data to name, first checking if it already has
// those contents.
//
// Same interface as [os.WriteFile] - creates name if it doesn't exist with
// perm, but doesn't set perm if the file does exist.
func WriteFileIfChanged(name string, data []byte, perm os.FileMode) error {
	if fileHasContents(name, data) {
		return nil
	}
	return os.WriteFile(name, data, perm)
}

// Translate renders every unit and writes its artifact. A unit that fails to
// translate or write is reported on stderr and skipped; the remaining units
// still run. The returned error is non-nil if any unit failed.
func Translate(units []Unit, opts config.Options) error {
	red := color.New(color.FgRed).SprintFunc()
	failed := false
	for _, u := range units {
		f := hacfstar.File{
			ModuleName: ModuleName(u.OutPath),
			SetOptions: opts.SetOptions,
			Opens:      opts.Opens,
			Width:      opts.Width,
			Program:    u.Snapshot.Program,
			Dict:       u.Snapshot.Dict,
		}
		out, err := f.Render()
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			fmt.Fprintln(os.Stderr, red("could not translate "+u.OutPath))
			failed = true
			continue
		}
		if err := WriteFileIfChanged(u.OutPath, []byte(out), 0666); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			fmt.Fprintln(os.Stderr, red("could not write output to "+u.OutPath))
			failed = true
			continue
		}
	}
	if failed {
		return errors.New("translation failed for some units")
	}
	return nil
}
