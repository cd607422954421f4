// SPDX-License-Identifier: MIT
package corvidutil

import (
	"context"
	"testing"

	"github.com/corvidlang/corvid/ast"
	"github.com/corvidlang/corvid/corvid"
)

func parse(t *testing.T, src string) corvid.ResultView {
	t.Helper()
	p := corvid.NewParser(*corvid.NewParserOpts())
	v := p.Parse("t.crv", []byte(src))
	if v.HasError {
		t.Fatalf("parse %q: %s", src, v.ErrMsg)
	}
	return v
}

func TestWalkVisitsEveryNode(t *testing.T) {
	v := parse(t, "var x: 1\nvar y: x + 2\n")
	tree := ast.Tree{Nodes: v.Nodes}

	seen := make(map[ast.ID]bool)
	Walk(&tree, v.RootID, func(id ast.ID, _ *ast.Node) bool {
		if seen[id] {
			t.Fatalf("node %d visited twice", id)
		}
		seen[id] = true
		return true
	})

	if len(seen) < 2 {
		t.Fatalf("expected to visit multiple nodes, saw %d", len(seen))
	}
}

func TestWalkStopsEarly(t *testing.T) {
	v := parse(t, "var x: 1\nvar y: 2\nvar z: 3\n")
	tree := ast.Tree{Nodes: v.Nodes}

	count := 0
	Walk(&tree, v.RootID, func(id ast.ID, _ *ast.Node) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Fatalf("expected traversal to stop after 2 visits, got %d", count)
	}
}

func TestLevelWalkGroupsByDepth(t *testing.T) {
	v := parse(t, "var x: 1 + 2\n")
	tree := ast.Tree{Nodes: v.Nodes}

	levels := LevelWalk(context.Background(), &tree, v.RootID)
	if len(levels) < 2 {
		t.Fatalf("expected at least 2 levels, got %d", len(levels))
	}
	if len(levels[0]) != 1 || levels[0][0] != v.RootID {
		t.Fatalf("level 0 should be exactly the root, got %v", levels[0])
	}
}

func TestWalkAsyncEmitsEveryNode(t *testing.T) {
	v := parse(t, "var x: 1\nvar y: 2\n")
	tree := ast.Tree{Nodes: v.Nodes}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count int
	for range WalkAsync(ctx, &tree, v.RootID) {
		count++
	}
	if count == 0 {
		t.Fatal("expected WalkAsync to emit at least one node")
	}
}

func TestChildIDsOrderedBySourcePosition(t *testing.T) {
	v := parse(t, "func add(a, b):\n    return a + b\nvar total: add(1, 2)\n")
	tree := ast.Tree{Nodes: v.Nodes}

	ids := ChildIDs(&tree, v.RootID)
	if len(ids) < 2 {
		t.Fatalf("expected the root to have at least 2 children, got %d", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if tree.Ptr(ids[i-1]).StartToken > tree.Ptr(ids[i]).StartToken {
			t.Fatalf("children out of source order at index %d", i)
		}
	}
}
