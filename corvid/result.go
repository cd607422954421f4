// SPDX-License-Identifier: MIT
package corvid

import (
	"github.com/corvidlang/corvid/ast"
	"github.com/corvidlang/corvid/lexer"
)

// ResultView bundles one parse's output (spec §3 "Parse result", §6
// "Result"). It borrows its Nodes/Tokens/Src/Deps from the Parser that
// produced it — those buffers are only valid until the next Parse call
// on the same Parser. Callers that need the result to outlive the next
// Parse call must go through Dupe.
type ResultView struct {
	HasError     bool
	IsTokenError bool
	ErrMsg       string
	RootID       ast.ID
	Nodes        []ast.Node
	Tokens       []lexer.Token
	Src          []byte
	Name         string
	// Deps maps a free name (one referenced but never locally bound)
	// to the node id of its first reference.
	Deps map[string]ast.ID
	// Decls is the ordered list of top-level static declarations.
	Decls []Declaration
}

// Dupe clones v into freshly owned storage: the node array, token
// array, source bytes, and declaration list are copied outright; Deps
// is rebuilt over the same keys (Go strings are themselves immutable
// value copies once built from a byte slice, so unlike a borrowed-slice
// implementation there is no backing buffer left to rewrite — copying
// the map is sufficient to make it independent of the source Parser).
func Dupe(v ResultView) ResultView {
	out := ResultView{
		HasError:     v.HasError,
		IsTokenError: v.IsTokenError,
		ErrMsg:       v.ErrMsg,
		RootID:       v.RootID,
		Name:         v.Name,
	}

	out.Src = append([]byte(nil), v.Src...)

	out.Nodes = make([]ast.Node, len(v.Nodes))
	copy(out.Nodes, v.Nodes)

	out.Tokens = make([]lexer.Token, len(v.Tokens))
	copy(out.Tokens, v.Tokens)

	out.Decls = make([]Declaration, len(v.Decls))
	copy(out.Decls, v.Decls)

	out.Deps = make(map[string]ast.ID, len(v.Deps))
	for name, id := range v.Deps {
		out.Deps[name] = id
	}

	return out
}
