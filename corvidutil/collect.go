// SPDX-License-Identifier: MIT
package corvidutil

import (
	"github.com/corvidlang/corvid/ast"
	"github.com/corvidlang/corvid/corvid"
	"github.com/corvidlang/corvid/types"
)

// Collect walks tree from root and returns extract(n) for every node
// whose Kind is kind, in source order — the arena-tree counterpart to
// the teacher's List[T].Values(ctx, sortValues...): a typed, flattened
// view pulled out of a structural traversal.
func Collect[T any](tree *ast.Tree, root ast.ID, kind ast.Kind, extract func(id ast.ID, n *ast.Node) T) []T {
	var out []T
	Walk(tree, root, func(id ast.ID, n *ast.Node) bool {
		if n.Kind == kind {
			out = append(out, extract(id, n))
		}
		return true
	})
	return out
}

// CollectIDs is Collect specialized to just the matching node ids,
// returned as a types.Int32Slice so callers get its Sort/String/Locate
// helpers for free instead of a bare slice.
func CollectIDs(tree *ast.Tree, root ast.ID, kind ast.Kind) types.Int32Slice {
	return Collect(tree, root, kind, func(id ast.ID, _ *ast.Node) int32 { return id })
}

// FreeNames returns the sorted set of names view recorded as free —
// read before any declaration bound them in the frame that was active
// at the point of use (spec §4.2 "Free variables vs declarations").
func FreeNames(view corvid.ResultView) types.StringSlice {
	names := make(types.StringSlice, 0, len(view.Deps))
	for name := range view.Deps {
		names = append(names, name)
	}
	names.Sort()
	return names
}

// Declarations filters view's recorded declarations down to one kind.
func Declarations(view corvid.ResultView, kind corvid.DeclKind) []corvid.Declaration {
	var out []corvid.Declaration
	for _, d := range view.Decls {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
