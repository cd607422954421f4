// SPDX-License-Identifier: MIT
package corvid

import (
	"sort"
	"strings"
	"testing"

	"github.com/corvidlang/corvid/ast"
)

// children walks a sibling chain in a ResultView's borrowed node slice,
// mirroring ast.Tree.ChildList without needing a live *ast.Tree.
func children(nodes []ast.Node, head ast.ID) []ast.ID {
	var out []ast.ID
	for id := head; id != ast.NoNode; id = nodes[id].Next {
		out = append(out, id)
	}
	return out
}

func parse(t *testing.T, src string) ResultView {
	t.Helper()
	p := NewParser(*NewParserOpts())
	v := p.Parse("test.crv", []byte(src))
	if v.HasError {
		t.Fatalf("parse(%q): %s", src, v.ErrMsg)
	}
	return v
}

func parseErr(t *testing.T, src string) ResultView {
	t.Helper()
	p := NewParser(*NewParserOpts())
	v := p.Parse("test.crv", []byte(src))
	if !v.HasError {
		t.Fatalf("parse(%q): expected an error, got none", src)
	}
	return v
}

func TestParseVarDecl(t *testing.T) {
	v := parse(t, "var x: 1\n")
	if len(v.Decls) != 1 || v.Decls[0].Kind != DeclVar {
		t.Fatalf("want 1 var decl, got %+v", v.Decls)
	}
}

func TestParseFuncDeclAndCall(t *testing.T) {
	v := parse(t, "func add(a, b):\n    return a + b\nvar total: add(1, 2)\n")
	if len(v.Decls) != 2 {
		t.Fatalf("want 2 decls, got %d", len(v.Decls))
	}
	if v.Decls[0].Kind != DeclFunc || v.Decls[1].Kind != DeclVar {
		t.Fatalf("got kinds %v, %v", v.Decls[0].Kind, v.Decls[1].Kind)
	}
}

func TestParseIfElseChain(t *testing.T) {
	src := "if x:\n    pass\nelse if y:\n    pass\nelse:\n    pass\n"
	v := parse(t, src)
	root := v.Nodes[v.RootID]
	stmt := root.Data.ChildrenHead
	ifNode := v.Nodes[stmt]
	if ifNode.Kind != ast.KindIfStmt {
		t.Fatalf("want KindIfStmt, got %v", ifNode.Kind)
	}
	elseClause := ifNode.Data.Child[2]
	if elseClause == ast.NoNode {
		t.Fatal("want an else clause")
	}
	inner := v.Nodes[elseClause].Data.Child[0]
	if v.Nodes[inner].Kind != ast.KindIfStmt {
		t.Fatalf("want nested if from 'else if', got %v", v.Nodes[inner].Kind)
	}
}

func TestParseMatchStatementCaseLabels(t *testing.T) {
	src := "match x:\n    1, 2:\n        pass\n    else:\n        pass\n"
	v := parse(t, src)
	root := v.Nodes[v.RootID]
	matchNode := v.Nodes[root.Data.ChildrenHead]
	if matchNode.Kind != ast.KindMatchStmt {
		t.Fatalf("want KindMatchStmt, got %v", matchNode.Kind)
	}
	cases := children(v.Nodes, matchNode.Data.ChildrenHead)
	if len(cases) != 2 {
		t.Fatalf("want 2 cases (one multi-cond, one else), got %d", len(cases))
	}
	if v.Nodes[cases[0]].Kind != ast.KindMatchCase {
		t.Fatalf("want first case KindMatchCase, got %v", v.Nodes[cases[0]].Kind)
	}
	conds := children(v.Nodes, v.Nodes[cases[0]].Data.ChildrenHead)
	if len(conds) != 2 {
		t.Fatalf("want 2 conditions in first case, got %d", len(conds))
	}
	if v.Nodes[cases[1]].Kind != ast.KindMatchElse {
		t.Fatalf("want second case KindMatchElse, got %v", v.Nodes[cases[1]].Kind)
	}
}

func TestParseForRangeEachBinding(t *testing.T) {
	v := parse(t, "for 0..10 each i:\n    pass\n")
	root := v.Nodes[v.RootID]
	forNode := v.Nodes[root.Data.ChildrenHead]
	if forNode.Kind != ast.KindForRangeStmt {
		t.Fatalf("want KindForRangeStmt, got %v", forNode.Kind)
	}
	rc := v.Nodes[forNode.Data.Child[0]]
	if rc.Kind != ast.KindRangeClause {
		t.Fatalf("want KindRangeClause, got %v", rc.Kind)
	}
	each := v.Nodes[forNode.Data.Child[1]]
	if each.Kind != ast.KindEachClause {
		t.Fatalf("want KindEachClause, got %v", each.Kind)
	}
}

func TestParseForEachKeyValueBinding(t *testing.T) {
	v := parse(t, "for items each k, val:\n    pass\n")
	root := v.Nodes[v.RootID]
	forNode := v.Nodes[root.Data.ChildrenHead]
	each := v.Nodes[forNode.Data.Child[1]]
	if !each.Data.Bool[0] {
		t.Fatal("want second each-binding var recorded")
	}
}

func TestParseWhileOptionBinding(t *testing.T) {
	v := parse(t, "while next() some item:\n    pass\n")
	root := v.Nodes[v.RootID]
	w := v.Nodes[root.Data.ChildrenHead]
	if w.Kind != ast.KindWhileStmt {
		t.Fatalf("want KindWhileStmt, got %v", w.Kind)
	}
	if !w.Data.Bool[1] {
		t.Fatal("want option-binding flag set")
	}
	if w.Data.NameToken == ast.NoNode {
		t.Fatal("want a bound name token")
	}
}

func TestParseTryCatch(t *testing.T) {
	v := parse(t, "try:\n    pass\ncatch e:\n    pass\n")
	root := v.Nodes[v.RootID]
	tryNode := v.Nodes[root.Data.ChildrenHead]
	if tryNode.Kind != ast.KindTryStmt {
		t.Fatalf("want KindTryStmt, got %v", tryNode.Kind)
	}
	catch := tryNode.Data.Child[1]
	if catch == ast.NoNode {
		t.Fatal("want a catch clause")
	}
	if v.Nodes[catch].Data.NameToken == ast.NoNode {
		t.Fatal("want the catch-bound variable recorded")
	}
}

func TestParseLambdaForms(t *testing.T) {
	tests := []string{
		"var f: x => x + 1\n",
		"var f: (a, b) => a + b\n",
		"var f: func(a, b):\n    return a + b\n",
	}
	for _, src := range tests {
		parse(t, src)
	}
}

func TestParseGroupVsLambdaDisambiguation(t *testing.T) {
	v := parse(t, "var x: (1 + 2) * 3\n")
	decl := v.Nodes[v.Decls[0].Node]
	rhs := v.Nodes[decl.Data.Child[1]]
	if rhs.Kind != ast.KindBinaryExpr {
		t.Fatalf("want top-level BinaryExpr for '(1+2)*3', got %v", rhs.Kind)
	}
	group := v.Nodes[rhs.Data.Child[0]]
	if group.Kind != ast.KindGroup {
		t.Fatalf("want left operand to be a Group, got %v", group.Kind)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	v := parse(t, "var x: a + b * c\n")
	decl := v.Nodes[v.Decls[0].Node]
	rhs := v.Nodes[decl.Data.Child[1]]
	if rhs.Kind != ast.KindBinaryExpr {
		t.Fatalf("want top-level BinaryExpr for '+', got %v", rhs.Kind)
	}
	right := v.Nodes[rhs.Data.Child[1]]
	if right.Kind != ast.KindBinaryExpr {
		t.Fatalf("want 'b * c' grouped as right operand of '+', got %v", right.Kind)
	}
}

func TestParseObjectAndEnumDecl(t *testing.T) {
	src := "type Color enum:\n    red\n    green\n    blue\n" +
		"type Point object:\n    x int\n    y int\n    func sum(self):\n        return self.x + self.y\n"
	v := parse(t, src)
	if len(v.Decls) != 2 {
		t.Fatalf("want 2 decls, got %d", len(v.Decls))
	}
	if v.Decls[0].Kind != DeclTypeEnum || v.Decls[1].Kind != DeclTypeObject {
		t.Fatalf("got kinds %v, %v", v.Decls[0].Kind, v.Decls[1].Kind)
	}
	objNode := v.Nodes[v.Decls[1].Node]
	methods := children(v.Nodes, objNode.Data.Child[0])
	if len(methods) != 1 {
		t.Fatalf("want 1 method, got %d", len(methods))
	}
}

func TestParseImportDecl(t *testing.T) {
	v := parse(t, `import io "io"` + "\n")
	if len(v.Decls) != 1 || v.Decls[0].Kind != DeclImport {
		t.Fatalf("want 1 import decl, got %+v", v.Decls)
	}
}

func TestParseImportRejectsNonStringTarget(t *testing.T) {
	v := parseErr(t, "import io foo\n")
	if !strings.Contains(v.ErrMsg, ErrBadImportTarget.Error()) {
		t.Fatalf("want ErrBadImportTarget, got %s", v.ErrMsg)
	}
}

func TestParseMixedIndentRejected(t *testing.T) {
	parseErr(t, "if x:\n    pass\nif y:\n\tpass\n")
}

func TestParseTemplateString(t *testing.T) {
	v := parse(t, `var x: "a{y}b"` + "\n")
	decl := v.Nodes[v.Decls[0].Node]
	rhs := v.Nodes[decl.Data.Child[1]]
	if rhs.Kind != ast.KindTemplateStringLit {
		t.Fatalf("want KindTemplateStringLit, got %v", rhs.Kind)
	}
	parts := children(v.Nodes, rhs.Data.ChildrenHead)
	if len(parts) != 3 {
		t.Fatalf("want 3 parts (str, expr, str), got %d", len(parts))
	}
}

func TestParseNamedArgsMustFollowBare(t *testing.T) {
	parseErr(t, "var x: f(a: 1, 2)\n")
}

func TestParseListAndMapLiterals(t *testing.T) {
	v := parse(t, "var xs: [1, 2, 3]\nvar m: {\"a\": 1}\n")
	if len(v.Decls) != 2 {
		t.Fatalf("want 2 decls, got %d", len(v.Decls))
	}
}

func TestFreeNameTracking(t *testing.T) {
	v := parse(t, "y = x + 1\nvar z: y + q\n")
	names := make([]string, 0, len(v.Deps))
	for name := range v.Deps {
		names = append(names, name)
	}
	sort.Strings(names)
	want := []string{"q", "x"}
	if len(names) != len(want) {
		t.Fatalf("got deps %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got deps %v, want %v", names, want)
		}
	}
}

func TestDupeIsIndependentOfNextParse(t *testing.T) {
	p := NewParser(*NewParserOpts())
	v1 := p.Parse("a.crv", []byte("var x: 1\n"))
	dup := Dupe(v1)
	p.Parse("b.crv", []byte("var y: 2\n"))

	if dup.Name != "a.crv" {
		t.Fatalf("Dupe should retain original name, got %q", dup.Name)
	}
	if len(dup.Decls) != 1 {
		t.Fatalf("Dupe should retain original decls, got %d", len(dup.Decls))
	}
}

func TestEachNodeHasUniqueSourceOrderedSiblings(t *testing.T) {
	v := parse(t, "var a: 1\nvar b: 2\nvar c: 3\n")
	root := v.Nodes[v.RootID]
	siblings := children(v.Nodes, root.Data.ChildrenHead)
	if len(siblings) != 3 {
		t.Fatalf("want 3 top-level statements, got %d", len(siblings))
	}
	for i := 1; i < len(siblings); i++ {
		if v.Nodes[siblings[i]].StartToken <= v.Nodes[siblings[i-1]].StartToken {
			t.Fatalf("siblings must appear in increasing source order: %v", siblings)
		}
	}
}
