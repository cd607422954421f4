// SPDX-License-Identifier: MIT
package ast

// Tree is the append-only node arena. It generalizes the teacher's
// pointer-and-map n-ary Node (hierarchy/node.go: a parent pointer plus a
// map[string]*Node of children) into a single growable slice addressed
// by 32-bit index, which is what spec §3/§9 calls for: no cyclic
// ownership, cache-friendly traversal, and a representation that's
// trivial to deep-copy (see Dupe in the corvid package).
type Tree struct {
	Nodes []Node
}

// Reset clears the tree's logical contents while retaining its backing
// array, so a Parser can reuse a Tree across Parse calls.
func (t *Tree) Reset() {
	t.Nodes = t.Nodes[:0]
}

// Push appends a node and returns its ID.
func (t *Tree) Push(n Node) ID {
	t.Nodes = append(t.Nodes, n)
	return ID(len(t.Nodes) - 1)
}

// Get returns the node at id. Callers must only pass IDs returned by
// Push on this Tree (or NoNode, for which Get panics — check against
// NoNode first).
func (t *Tree) Get(id ID) Node { return t.Nodes[id] }

// Ptr returns a pointer to the node at id for in-place mutation while
// building the tree (e.g. appending to a children list after the node
// was pushed).
func (t *Tree) Ptr(id ID) *Node { return &t.Nodes[id] }

// Len reports the number of nodes currently in the tree.
func (t *Tree) Len() int { return len(t.Nodes) }

// ChildList walks a sibling chain starting at head (as stored in
// Data.ChildrenHead) and returns the node IDs in source order.
func (t *Tree) ChildList(head ID) []ID {
	var out []ID
	for id := head; id != NoNode; id = t.Nodes[id].Next {
		out = append(out, id)
	}
	return out
}

// Builder tracks the head/tail of a sibling chain while it is being
// built, so a parser production with variable-arity children (a
// block's statements, a call's arguments, an object's fields) can
// append in O(1) instead of re-walking the chain on every child.
type Builder struct {
	head, tail ID
}

// NewBuilder returns an empty sibling-chain builder.
func NewBuilder() Builder { return Builder{head: NoNode, tail: NoNode} }

// Append links id onto the end of the chain being built.
func (b *Builder) Append(t *Tree, id ID) {
	if b.head == NoNode {
		b.head = id
		b.tail = id
		return
	}
	t.Ptr(b.tail).Next = id
	b.tail = id
}

// Head returns the chain's first node, or NoNode if nothing was
// appended.
func (b Builder) Head() ID { return b.head }
