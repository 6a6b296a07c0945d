package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/hacspec-lang/hacfstar/ast"
	"github.com/hacspec-lang/hacfstar/config"
	"github.com/hacspec-lang/hacfstar/util"
)

func debugItem(debugIdent string, item ast.Item) {
	switch i := item.(type) {
	case ast.FnDecl:
		if i.Name.String() == debugIdent {
			spew.Dump(i)
		}
	case ast.ArrayDecl:
		if i.Name == debugIdent {
			spew.Dump(i)
		}
	case ast.ConstDecl:
		if i.Name.String() == debugIdent {
			spew.Dump(i)
		}
	case ast.NaturalIntegerDecl:
		if i.Name == debugIdent {
			spew.Dump(i)
		}
	}
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "o", "",
		"path of the F* file to generate (the module name is its stem)")

	var configPath string
	flag.StringVar(&configPath, "config", "",
		"optional toml file with emitter options")

	var debugIdent string
	flag.StringVar(&debugIdent, "debug", "",
		"spew a top-level declaration (use * to spew everything)")

	flag.Parse()
	if flag.NArg() != 1 || outPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: hacfstar -o <out.fst> <path to checker snapshot>")
		os.Exit(1)
	}
	snapPath := flag.Arg(0)

	in, err := os.Open(snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	snap, err := ast.DecodeSnapshot(in)
	in.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if debugIdent != "" {
		if debugIdent == "*" {
			spew.Dump(snap.Program)
		} else {
			for _, item := range snap.Program.Items {
				debugItem(debugIdent, item)
			}
		}
	}

	opts := config.Default()
	if configPath != "" {
		opts, err = config.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}

	units := []util.Unit{{Snapshot: snap, OutPath: outPath}}
	if err := util.Translate(units, opts); err != nil {
		os.Exit(1)
	}
}
