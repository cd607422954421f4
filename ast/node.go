// SPDX-License-Identifier: MIT
package ast

import "github.com/corvidlang/corvid/lexer"

// Data is Node's tagged-union payload. Which fields are active is
// determined entirely by the owning Node's Kind; see the per-production
// comments in package corvid for the mapping. Using one flat struct
// instead of a Go type per node kind keeps the array cache-friendly and
// matches the "small inline data" shape spec'd for Node.
type Data struct {
	// Child holds up to three semantically-named children (e.g. a
	// binary expression's left/right operands, an if-statement's
	// condition/then-clause/else-clause). A slot that names a block
	// body (an if-statement's then-clause, a try body, a function body)
	// or an object's methods holds the head of a sibling chain.
	Child [3]int32

	// ChildrenHead is the head of a sibling-linked list (via Node.Next)
	// for variable-arity productions: a block's statements, a call's
	// arguments, a lambda's parameters, an object's fields, an enum's
	// members, a match's cases.
	ChildrenHead int32

	// NameToken is the token index of a production's primary name,
	// when that name is not already the node's StartToken (e.g. a
	// func declaration's StartToken is the `func` keyword; NameToken
	// is the identifier that follows it).
	NameToken int32

	Op OperatorKind

	// Bool holds up to two per-kind flag bits (e.g. CallExpr's
	// has_named_arg flag, or a no-paren call marker).
	Bool [2]bool

	// Int holds a small inline integer (a lambda's parameter count, or
	// the token index of an each-clause's second bound name).
	Int int32
}

// OperatorKind is an alias of lexer.OperatorKind for BinaryExpr/
// UnaryExpr/OpAssign nodes; it is the only lexer type ast depends on.
type OperatorKind = lexer.OperatorKind

// Node is a packed record: a kind tag, the first token that produced it,
// a sibling link, and a Data payload.
type Node struct {
	Kind       Kind
	StartToken int32
	Next       int32
	Data       Data
}

func emptyData() Data {
	return Data{
		Child:        [3]int32{NoNode, NoNode, NoNode},
		ChildrenHead: NoNode,
		NameToken:    NoNode,
	}
}

// New returns a zero-value Node of the given kind, with all index fields
// defaulted to NoNode rather than 0 (0 is a valid node index).
func New(kind Kind, startToken int32) Node {
	return Node{Kind: kind, StartToken: startToken, Next: NoNode, Data: emptyData()}
}
