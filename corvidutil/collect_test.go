// SPDX-License-Identifier: MIT
package corvidutil

import (
	"testing"

	"github.com/corvidlang/corvid/ast"
	"github.com/corvidlang/corvid/corvid"
)

func TestCollectFindsAllIdentLeaves(t *testing.T) {
	v := parse(t, "var y: x + x + 1\n")
	tree := ast.Tree{Nodes: v.Nodes}

	idents := Collect(&tree, v.RootID, ast.KindIdent, func(_ ast.ID, n *ast.Node) int32 {
		return n.StartToken
	})
	if len(idents) != 2 {
		t.Fatalf("want 2 ident leaves (two uses of x), got %d", len(idents))
	}
}

func TestCollectIDsSortable(t *testing.T) {
	v := parse(t, "var y: x + x + 1\n")
	tree := ast.Tree{Nodes: v.Nodes}

	ids := CollectIDs(&tree, v.RootID, ast.KindIdent)
	if len(ids) != 2 {
		t.Fatalf("want 2 ident node ids, got %d", len(ids))
	}
	ids.Sort()
	if ids.Locate(ids[0]) != 0 {
		t.Fatalf("Locate should find the first sorted id at index 0, got %v", ids)
	}
}

func TestFreeNamesExcludesDeclared(t *testing.T) {
	v := parse(t, "y = x + 1\nvar z: y + q\n")
	names := FreeNames(v)

	want := map[string]bool{"x": true, "q": true}
	if len(names) != len(want) {
		t.Fatalf("want %d free names, got %v", len(want), names)
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("unexpected free name %q in %v", n, names)
		}
	}
}

func TestDeclarationsFiltersByKind(t *testing.T) {
	v := parse(t, "var a: 1\nvar b: 2\nfunc f(): pass\n")
	vars := Declarations(v, corvid.DeclVar)
	if len(vars) != 2 {
		t.Fatalf("want 2 var declarations, got %d", len(vars))
	}
	funcs := Declarations(v, corvid.DeclFunc)
	if len(funcs) != 1 {
		t.Fatalf("want 1 func declaration, got %d", len(funcs))
	}
}
