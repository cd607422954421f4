// SPDX-License-Identifier: MIT
package corvid

import "github.com/corvidlang/corvid/types"

// blockFrame holds the set of names declared in one lexical scope. It
// generalizes the teacher's flat map-of-children Node into a stack of
// name sets — the parser's blocks have nothing to do with the AST's
// own block-statement nodes, they exist purely to answer "is this name
// locally bound yet".
type blockFrame struct {
	names types.Set[string]
}

// blockStack is an ordered stack of frames, pushed on block entry and
// popped on block exit (spec §3, "Block state (parser-only)").
type blockStack struct {
	frames []blockFrame
}

func newBlockStack() *blockStack {
	b := &blockStack{}
	b.push()
	return b
}

func (b *blockStack) push() {
	b.frames = append(b.frames, blockFrame{names: types.NewSet[string]()})
}

func (b *blockStack) pop() {
	b.frames = b.frames[:len(b.frames)-1]
}

// declare adds name to the top frame.
func (b *blockStack) declare(name string) {
	b.frames[len(b.frames)-1].names.Add(name)
}

// declared reports whether name is bound in any frame, searched from
// the innermost scope outward.
func (b *blockStack) declared(name string) bool {
	for i := len(b.frames) - 1; i >= 0; i-- {
		if b.frames[i].names.Has(name) {
			return true
		}
	}
	return false
}

// reset drops every frame and pushes a fresh, empty outermost frame,
// for reuse across Parse calls.
func (b *blockStack) reset() {
	b.frames = b.frames[:0]
	b.push()
}
