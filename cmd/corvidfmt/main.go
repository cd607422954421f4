// SPDX-License-Identifier: MIT

// Command corvidfmt tokenizes and parses a single source file, then
// reports either a byte-offset-anchored error or the file's
// top-level static-declaration list and free-name dependencies.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/corvidlang/corvid/corvid"
	"github.com/corvidlang/corvid/corvidutil"
)

// declKinds lists every corvid.DeclKind in declaration order, for
// grouping the printed declaration list by kind.
var declKinds = []corvid.DeclKind{
	corvid.DeclVar,
	corvid.DeclFunc,
	corvid.DeclTypeEnum,
	corvid.DeclTypeObject,
	corvid.DeclTypeAlias,
	corvid.DeclImport,
}

func main() {
	debug := flag.Bool("debug", false, "enable debug-level parser logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-debug] <file>\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if err := run(path, *debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, debug bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("corvidfmt: %w", err)
	}

	logger := logrus.New()
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	opts := corvid.NewParserOpts()
	opts.Logger = logger

	p := corvid.NewParser(*opts)
	view := p.Parse(path, src)

	if view.HasError {
		kind := "parse"
		if view.IsTokenError {
			kind = "lex"
		}
		return fmt.Errorf("corvidfmt: %s error: %s", kind, view.ErrMsg)
	}

	fmt.Println("OK")
	for _, kind := range declKinds {
		for _, decl := range corvidutil.Declarations(view, kind) {
			fmt.Printf("  %s %s\n", decl.Kind, declName(view, decl))
		}
	}

	if free := corvidutil.FreeNames(view); len(free) > 0 {
		fmt.Printf("free: %s\n", strings.Join(free, ", "))
	}
	return nil
}

// declName recovers a declaration's source name from its node's
// NameToken (for an import, the bound identifier rather than the
// target string), falling back to the node's own leading token when
// NameToken is unset.
func declName(view corvid.ResultView, decl corvid.Declaration) string {
	n := view.Nodes[decl.Node]
	tokIdx := n.Data.NameToken
	if tokIdx < 0 {
		tokIdx = n.StartToken
	}
	tok := view.Tokens[tokIdx]
	return tok.Text(view.Src)
}
