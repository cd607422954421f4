// SPDX-License-Identifier: MIT

// Package corvidutil provides generic traversal and extraction helpers
// over an ast.Tree, generalizing the teacher's n-ary Hierarchy[T] walk
// (REF: breadth-first level-order traversal over a channel) to the
// flat, arena-indexed AST the parser produces.
package corvidutil

import (
	"context"
	"sort"

	"github.com/corvidlang/corvid/ast"
	"github.com/sirupsen/logrus"
)

// Config mirrors the teacher's per-Hierarchy Config: a shared logger
// and a debug flag, passed by the caller rather than pulled from a
// package global.
type Config struct {
	Logger logrus.FieldLogger
	Debug  bool
}

// DefConfig returns the package's default Config.
func DefConfig() *Config {
	return &Config{Logger: logrus.New()}
}

// ChildIDs returns id's direct children in source order. A Node keeps
// its children across two payload shapes (up to three named Child
// slots, any of which may head a sibling chain such as a block body,
// plus a ChildrenHead sibling chain for variable-arity lists);
// ChildIDs collects whichever of those are populated, following every
// chain, and orders the result by StartToken, so callers never need a
// per-Kind switch to walk generically.
func ChildIDs(tree *ast.Tree, id ast.ID) []ast.ID {
	if id == ast.NoNode {
		return nil
	}
	n := tree.Ptr(id)
	var out []ast.ID
	for _, c := range n.Data.Child {
		for ; c != ast.NoNode; c = tree.Ptr(c).Next {
			out = append(out, c)
		}
	}
	for c := n.Data.ChildrenHead; c != ast.NoNode; c = tree.Ptr(c).Next {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return tree.Ptr(out[i]).StartToken < tree.Ptr(out[j]).StartToken
	})
	return out
}

// Walk performs depth-first preorder traversal starting at root,
// calling visit for each node. Returning false from visit stops the
// traversal early (mirroring the teacher's TraverseComm-carried
// cancellation, but synchronously — Walk has no need for the
// teacher's buffered channel since there's no concurrent producer).
func Walk(tree *ast.Tree, root ast.ID, visit func(id ast.ID, n *ast.Node) bool) {
	var walk func(id ast.ID) bool
	walk = func(id ast.ID) bool {
		if id == ast.NoNode {
			return true
		}
		if !visit(id, tree.Ptr(id)) {
			return false
		}
		for _, child := range ChildIDs(tree, id) {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	walk(root)
}

// LevelWalk performs breadth-first traversal, grouping ids by depth —
// the same shape as the teacher's AllChildrenByLevel, adapted from a
// channel-fed *Hierarchy[T] queue to a plain slice-of-slices over the
// arena tree. ctx cancellation stops the walk and returns the levels
// accumulated so far.
func LevelWalk(ctx context.Context, tree *ast.Tree, root ast.ID) [][]ast.ID {
	if root == ast.NoNode {
		return nil
	}
	var levels [][]ast.ID
	queue := []ast.ID{root}
	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return levels
		default:
		}
		levels = append(levels, queue)
		var next []ast.ID
		for _, id := range queue {
			next = append(next, ChildIDs(tree, id)...)
		}
		queue = next
	}
	return levels
}

// WalkAsync streams every node reached from root over a channel in
// breadth-first order, closing the channel when the walk completes or
// ctx is cancelled — the direct analogue of the teacher's
// Hierarchy.Walk(ctx, traverseChan), kept for callers that want to
// consume a large tree incrementally instead of
// collecting it all up front.
func WalkAsync(ctx context.Context, tree *ast.Tree, root ast.ID) <-chan ast.ID {
	out := make(chan ast.ID)
	go func() {
		defer close(out)
		if root == ast.NoNode {
			return
		}
		queue := []ast.ID{root}
		for len(queue) > 0 {
			var front ast.ID
			front, queue = queue[0], queue[1:]
			select {
			case <-ctx.Done():
				return
			case out <- front:
			}
			queue = append(queue, ChildIDs(tree, front)...)
		}
	}()
	return out
}
