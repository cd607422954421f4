// SPDX-License-Identifier: MIT

// Package corvid implements the tokenizer-driven, indentation-sensitive
// parser front end: Parser.Parse turns a source buffer into a flat AST
// plus the free-name dependency map and static-declaration list a
// downstream semantic pass consumes.
package corvid

import (
	"errors"
	"fmt"

	"github.com/corvidlang/corvid/ast"
	"github.com/corvidlang/corvid/lexer"
	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

// Parser is long-lived and reusable across multiple Parse calls; between
// parses it retains its buffer allocations but clears their logical
// contents (spec §3 "Parse result" lifecycle, §5 allocation policy).
// A Parser is not safe for concurrent Parse calls (see batch.ParseAll
// for parsing many sources concurrently with one Parser per source).
type Parser struct {
	opts   ParserOpts
	logger logrus.FieldLogger

	name string
	src  []byte

	tokens lexer.Stream
	tree   ast.Tree
	pos    int

	blocks *blockStack
	deps   map[string]ast.ID
	decls  []Declaration

	// indentStyle pins the parse to spaces (1) or tabs (2) once the
	// first non-zero indent token is seen; a mismatched indent token
	// later in the same parse is ErrMixedIndent.
	indentStyle uint8

	hasError     bool
	isTokenError bool
	errMsg       string
	errPos       int
}

// NewParser constructs a Parser with modest initial buffer capacities,
// mirroring the teacher's init-allocates-then-reuse lifecycle.
func NewParser(opts ParserOpts) *Parser {
	opts.Validate()
	p := &Parser{
		opts:   opts,
		logger: opts.Logger,
		blocks: newBlockStack(),
		deps:   make(map[string]ast.ID, 16),
		decls:  make([]Declaration, 0, 8),
	}
	p.tokens.Tokens = make([]lexer.Token, 0, 256)
	p.tree.Nodes = make([]ast.Node, 0, 256)
	return p
}

// reset clears per-parse state while keeping backing arrays.
func (p *Parser) reset(name string, src []byte) {
	p.name = name
	p.src = src
	p.tokens.Reset()
	p.tree.Reset()
	p.pos = 0
	p.blocks.reset()
	for k := range p.deps {
		delete(p.deps, k)
	}
	p.decls = p.decls[:0]
	p.indentStyle = 0
	p.hasError = false
	p.isTokenError = false
	p.errMsg = ""
	p.errPos = 0
}

// Parse runs the tokenizer then the recursive-descent grammar over src,
// returning a ResultView that borrows from this Parser's buffers (spec
// §4.2 "Public contract").
func (p *Parser) Parse(name string, src []byte) ResultView {
	p.reset(name, src)

	if err := lexer.Scan(src, p.opts.lexerOpts(), &p.tokens); err != nil {
		p.hasError = true
		p.isTokenError = true
		p.errMsg = err.Error()
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			p.errPos = lexErr.Pos
		}
		return p.view()
	}

	rootID, err := p.parseRoot()
	if err != nil {
		p.hasError = true
		p.isTokenError = false
		p.errMsg = err.Error()
		var perr *ParseError
		if errors.As(err, &perr) {
			p.errPos = perr.Pos
		}
		return p.view()
	}

	p.logger.Debugf("parse %q ok: %d tokens, %d nodes, deps=%s", name, p.tokens.Len(), p.tree.Len(), spew.Sprint(p.deps))

	return p.viewWithRoot(rootID)
}

// ParseNoErr wraps Parse and converts a non-empty error into a failure
// return (spec §4.2, "a convenience parse_no_err").
func (p *Parser) ParseNoErr(name string, src []byte) (ResultView, error) {
	v := p.Parse(name, src)
	if v.HasError {
		return v, fmt.Errorf("%s: %s", name, v.ErrMsg)
	}
	return v, nil
}

func (p *Parser) view() ResultView {
	return ResultView{
		HasError:     p.hasError,
		IsTokenError: p.isTokenError,
		ErrMsg:       p.errMsg,
		RootID:       ast.NoNode,
		Nodes:        p.tree.Nodes,
		Tokens:       p.tokens.Tokens,
		Src:          p.src,
		Name:         p.name,
		Deps:         p.deps,
		Decls:        p.decls,
	}
}

func (p *Parser) viewWithRoot(root ast.ID) ResultView {
	v := p.view()
	v.RootID = root
	return v
}

// --- token cursor -----------------------------------------------------

func (p *Parser) cur() lexer.Token { return p.tokens.At(p.pos) }

func (p *Parser) peek(n int) lexer.Token { return p.tokens.At(p.pos + n) }

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	p.pos++
	return t
}

// expect consumes the current token if it has kind; otherwise returns
// an ErrUnexpectedToken positioned at the current token.
func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	t := p.cur()
	if t.Kind != kind {
		return t, p.errf(t.Start, "%w: want kind %d, got %d", ErrUnexpectedToken, kind, t.Kind)
	}
	p.pos++
	return t, nil
}

// --- node helpers -------------------------------------------------------

func (p *Parser) newNode(kind ast.Kind, startTok int) ast.ID {
	return p.tree.Push(ast.New(kind, int32(startTok)))
}

func (p *Parser) node(id ast.ID) *ast.Node { return p.tree.Ptr(id) }

// --- dependency tracking (spec §4.2 "Dependency tracking", §9) --------

// noteIdentRef records name as a free-variable use the first time it is
// seen unbound; subsequent unbound uses of the same name do not move
// the recorded first-reference node id.
func (p *Parser) noteIdentRef(name string, id ast.ID) {
	if p.blocks.declared(name) {
		return
	}
	if _, exists := p.deps[name]; !exists {
		p.deps[name] = id
	}
}

// retractDep removes name's dependency entry only if it was first
// recorded at exactly id — the node that is now turning out to be an
// assignment target rather than a free read, per the spec's design
// note: a later shadowing declaration must never cancel an earlier,
// unrelated free reference to the same name.
func (p *Parser) retractDep(name string, id ast.ID) {
	if first, ok := p.deps[name]; ok && first == id {
		delete(p.deps, name)
	}
}

// --- indentation (spec §4.1 encoding, §4.2 block rule) -----------------

// checkIndentStyle pins the parse's indentation style to the first
// non-zero indent token's kind (spaces or tabs) and rejects any later
// non-zero indent token of the other kind.
func (p *Parser) checkIndentStyle(tok lexer.Token) error {
	if tok.IndentCount() == 0 {
		return nil
	}
	style := uint8(1)
	if tok.IndentIsTabs() {
		style = 2
	}
	if p.indentStyle == 0 {
		p.indentStyle = style
	} else if p.indentStyle != style {
		return p.errAt(tok.Start, ErrMixedIndent)
	}
	return nil
}

// skipBlankLines consumes indent+new_line pairs with nothing between
// them, at any indentation, so indentation only ever gets measured
// against a line that actually carries a statement.
func (p *Parser) skipBlankLines() {
	for p.cur().Kind == lexer.KindIndent && p.peek(1).Kind == lexer.KindNewLine {
		p.advance()
		p.advance()
	}
}

// parseRoot builds the root node whose children are the top-level
// statement list. The first statement must sit at column 0; any
// leading indent is rejected by parseStatementList's own bounds check
// since blockIndent is 0.
func (p *Parser) parseRoot() (ast.ID, error) {
	root := p.newNode(ast.KindRoot, p.pos)
	head, err := p.parseStatementList(0)
	if err != nil {
		return ast.NoNode, err
	}
	p.node(root).Data.ChildrenHead = head
	return root, nil
}

// parseStatementList parses statements whose leading indent equals
// blockIndent exactly, stopping (without consuming) at the first line
// indented less, and failing on a line indented more.
func (p *Parser) parseStatementList(blockIndent int32) (ast.ID, error) {
	b := ast.NewBuilder()
	for {
		p.skipBlankLines()
		tok := p.cur()
		if tok.Kind == lexer.KindEOF {
			break
		}
		if tok.Kind != lexer.KindIndent {
			return ast.NoNode, p.errf(tok.Start, "%w: expected line start", ErrUnexpectedToken)
		}
		count := int32(tok.IndentCount())
		if count < blockIndent {
			break
		}
		if count > blockIndent {
			return ast.NoNode, p.errAt(tok.Start, ErrUnexpectedIndent)
		}
		if err := p.checkIndentStyle(tok); err != nil {
			return ast.NoNode, err
		}
		p.advance()
		stmt, err := p.parseStatement(blockIndent)
		if err != nil {
			return ast.NoNode, err
		}
		b.Append(&p.tree, stmt)
	}
	return b.Head(), nil
}

// parseBlock parses the body introduced by a ':' — either a single
// inline statement (when the next token is not a newline) or an
// indented statement list whose indent is established by its first
// non-blank line (spec §4.2 "Indentation-driven blocks").
func (p *Parser) parseBlock() (ast.ID, error) {
	if p.cur().Kind != lexer.KindNewLine {
		return p.parseStatement(-1)
	}
	colonPos := p.cur().Start
	p.advance() // new_line
	p.skipBlankLines()

	tok := p.cur()
	if tok.Kind == lexer.KindEOF {
		return ast.NoNode, p.errAt(colonPos, ErrEmptyBlock)
	}
	if tok.Kind != lexer.KindIndent {
		return ast.NoNode, p.errf(tok.Start, "%w: expected an indented block", ErrUnexpectedToken)
	}
	if err := p.checkIndentStyle(tok); err != nil {
		return ast.NoNode, err
	}
	blockIndent := int32(tok.IndentCount())
	head, err := p.parseStatementList(blockIndent)
	if err != nil {
		return ast.NoNode, err
	}
	if head == ast.NoNode {
		return ast.NoNode, p.errAt(tok.Start, ErrEmptyBlock)
	}
	return head, nil
}
