// SPDX-License-Identifier: MIT
package corvid

import (
	"github.com/corvidlang/corvid/ast"
	"github.com/corvidlang/corvid/lexer"
)

// parseIfStmt parses `if cond: body`, then looks for a trailing
// else-chain at the same indent as the if itself (spec §4.2 "Control
// flow": "else-chains are parsed greedily and only attached if their
// leading else lies at the same indent as the if").
func (p *Parser) parseIfStmt(blockIndent int32) (ast.ID, error) {
	idx := p.pos
	p.advance() // if
	cond, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}
	if _, err := p.expect(lexer.KindColon); err != nil {
		return ast.NoNode, err
	}
	thenBody, err := p.parseBlock()
	if err != nil {
		return ast.NoNode, err
	}

	id := p.newNode(ast.KindIfStmt, idx)
	p.node(id).Data.Child[0] = cond
	p.node(id).Data.Child[1] = thenBody
	p.node(id).Data.Child[2] = ast.NoNode

	elseID, err := p.tryParseElseChain(blockIndent)
	if err != nil {
		return ast.NoNode, err
	}
	p.node(id).Data.Child[2] = elseID
	return id, nil
}

// tryParseElseChain looks one line ahead at blockIndent for `else`; it
// restores the cursor and returns ast.NoNode when no such line exists,
// so the enclosing statement list sees the line untouched.
func (p *Parser) tryParseElseChain(blockIndent int32) (ast.ID, error) {
	save := p.pos
	p.skipBlankLines()
	tok := p.cur()
	if tok.Kind != lexer.KindIndent || int32(tok.IndentCount()) != blockIndent || p.peek(1).Kind != lexer.KindElse {
		p.pos = save
		return ast.NoNode, nil
	}
	p.advance() // indent
	elseIdx := p.pos
	p.advance() // else

	clause := p.newNode(ast.KindElseClause, elseIdx)

	if p.cur().Kind == lexer.KindIf {
		nestedIf, err := p.parseIfStmt(blockIndent)
		if err != nil {
			return ast.NoNode, err
		}
		p.node(clause).Data.Child[0] = nestedIf
		return clause, nil
	}

	if _, err := p.expect(lexer.KindColon); err != nil {
		return ast.NoNode, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.NoNode, err
	}
	p.node(clause).Data.Child[0] = body
	return clause, nil
}

// parseMatchStmt parses `match expr:` followed by an indented list of
// bare `cond[, cond...]:` labels (there is no `case` keyword) and/or a
// trailing `else:` default label.
func (p *Parser) parseMatchStmt() (ast.ID, error) {
	idx := p.pos
	p.advance() // match
	subject, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}
	colonEnd := p.cur().End
	if _, err := p.expect(lexer.KindColon); err != nil {
		return ast.NoNode, err
	}

	cases, err := p.parseMatchBody(colonEnd)
	if err != nil {
		return ast.NoNode, err
	}

	id := p.newNode(ast.KindMatchStmt, idx)
	p.node(id).Data.Child[0] = subject
	p.node(id).Data.ChildrenHead = cases
	return id, nil
}

func (p *Parser) parseMatchBody(colonEnd uint32) (ast.ID, error) {
	if p.cur().Kind != lexer.KindNewLine {
		return ast.NoNode, p.errf(colonEnd, "%w: match body must be an indented block", ErrUnexpectedToken)
	}
	p.advance()
	p.skipBlankLines()

	tok := p.cur()
	if tok.Kind != lexer.KindIndent {
		return ast.NoNode, p.errf(colonEnd, "%w: expected an indented block", ErrUnexpectedToken)
	}
	if err := p.checkIndentStyle(tok); err != nil {
		return ast.NoNode, err
	}
	blockIndent := int32(tok.IndentCount())

	b := ast.NewBuilder()
	for {
		p.skipBlankLines()
		tok = p.cur()
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

		// A case label has no leading keyword (the keyword table has no
		// `case`): it is a bare comma-separated expression list ending
		// in ':'. An `else:` label marks the default case.
		if p.cur().Kind == lexer.KindElse {
			caseIdx := p.pos
			p.advance()
			if _, err := p.expect(lexer.KindColon); err != nil {
				return ast.NoNode, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return ast.NoNode, err
			}
			node := p.newNode(ast.KindMatchElse, caseIdx)
			p.node(node).Data.ChildrenHead = body
			if err := p.finishStmt(); err != nil {
				return ast.NoNode, err
			}
			b.Append(&p.tree, node)
			continue
		}

		caseIdx := p.pos
		cb := ast.NewBuilder()
		for {
			cond, err := p.parseExpr(0)
			if err != nil {
				return ast.NoNode, err
			}
			cb.Append(&p.tree, cond)
			if p.cur().Kind == lexer.KindComma {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.KindColon); err != nil {
			return ast.NoNode, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return ast.NoNode, err
		}
		node := p.newNode(ast.KindMatchCase, caseIdx)
		p.node(node).Data.ChildrenHead = cb.Head()
		p.node(node).Data.Child[0] = body
		if err := p.finishStmt(); err != nil {
			return ast.NoNode, err
		}
		b.Append(&p.tree, node)
	}
	if b.Head() == ast.NoNode {
		return ast.NoNode, p.errAt(tok.Start, ErrEmptyBlock)
	}
	return b.Head(), nil
}

// parseForStmt parses the five `for` variants (spec §4.2): plain
// iteration, range iteration, and each of those with an `each`
// binding clause.
func (p *Parser) parseForStmt() (ast.ID, error) {
	idx := p.pos
	p.advance() // for
	first, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}

	var id ast.ID
	if p.cur().Kind == lexer.KindDotDot {
		p.advance()
		second, err := p.parseExpr(0)
		if err != nil {
			return ast.NoNode, err
		}
		rc := p.newNode(ast.KindRangeClause, idx)
		p.node(rc).Data.Child[0] = first
		p.node(rc).Data.Child[1] = second
		id = p.newNode(ast.KindForRangeStmt, idx)
		p.node(id).Data.Child[0] = rc
	} else {
		id = p.newNode(ast.KindForIterStmt, idx)
		p.node(id).Data.Child[0] = first
	}

	pushed := false
	var eachID ast.ID = ast.NoNode
	if p.cur().Kind == lexer.KindEach {
		p.advance()
		v1Idx := p.pos
		v1Tok, err := p.expect(lexer.KindIdent)
		if err != nil {
			return ast.NoNode, err
		}
		eachID = p.newNode(ast.KindEachClause, v1Idx)
		p.node(eachID).Data.NameToken = int32(v1Idx)

		pushed = true
		p.blocks.push()
		p.blocks.declare(v1Tok.Text(p.src))

		if p.cur().Kind == lexer.KindComma {
			p.advance()
			v2Idx := p.pos
			v2Tok, err := p.expect(lexer.KindIdent)
			if err != nil {
				p.blocks.pop()
				return ast.NoNode, err
			}
			p.node(eachID).Data.Int = int32(v2Idx)
			p.node(eachID).Data.Bool[0] = true
			p.blocks.declare(v2Tok.Text(p.src))
		}
	}
	p.node(id).Data.Child[1] = eachID

	if _, err := p.expect(lexer.KindColon); err != nil {
		if pushed {
			p.blocks.pop()
		}
		return ast.NoNode, err
	}
	body, err := p.parseBlock()
	if pushed {
		p.blocks.pop()
	}
	if err != nil {
		return ast.NoNode, err
	}
	p.node(id).Data.ChildrenHead = body
	return id, nil
}

// parseWhileStmt parses the three `while` variants: infinite, a plain
// condition, and an option-binding condition (`while cond some v:`).
func (p *Parser) parseWhileStmt() (ast.ID, error) {
	idx := p.pos
	p.advance() // while

	id := p.newNode(ast.KindWhileStmt, idx)
	p.node(id).Data.Child[0] = ast.NoNode
	p.node(id).Data.NameToken = ast.NoNode

	pushed := false
	if p.cur().Kind != lexer.KindColon {
		cond, err := p.parseExpr(0)
		if err != nil {
			return ast.NoNode, err
		}
		p.node(id).Data.Child[0] = cond
		p.node(id).Data.Bool[0] = true // has condition

		if p.cur().Kind == lexer.KindSome {
			p.advance()
			vIdx := p.pos
			vTok, err := p.expect(lexer.KindIdent)
			if err != nil {
				return ast.NoNode, err
			}
			p.node(id).Data.NameToken = int32(vIdx)
			p.node(id).Data.Bool[1] = true // option-binding form
			pushed = true
			p.blocks.push()
			p.blocks.declare(vTok.Text(p.src))
		}
	}

	if _, err := p.expect(lexer.KindColon); err != nil {
		if pushed {
			p.blocks.pop()
		}
		return ast.NoNode, err
	}
	body, err := p.parseBlock()
	if pushed {
		p.blocks.pop()
	}
	if err != nil {
		return ast.NoNode, err
	}
	p.node(id).Data.ChildrenHead = body
	return id, nil
}

// parseTryStmt parses `try: body` then looks for a trailing `catch
// [v]: body` at the same indent, mirroring the if-statement's
// else-chain attachment.
func (p *Parser) parseTryStmt(blockIndent int32) (ast.ID, error) {
	idx := p.pos
	p.advance() // try
	if _, err := p.expect(lexer.KindColon); err != nil {
		return ast.NoNode, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.NoNode, err
	}

	id := p.newNode(ast.KindTryStmt, idx)
	p.node(id).Data.Child[0] = body

	catchID, err := p.tryParseCatchClause(blockIndent)
	if err != nil {
		return ast.NoNode, err
	}
	p.node(id).Data.Child[1] = catchID
	return id, nil
}

func (p *Parser) tryParseCatchClause(blockIndent int32) (ast.ID, error) {
	save := p.pos
	p.skipBlankLines()
	tok := p.cur()
	if tok.Kind != lexer.KindIndent || int32(tok.IndentCount()) != blockIndent || p.peek(1).Kind != lexer.KindCatch {
		p.pos = save
		return ast.NoNode, nil
	}
	p.advance() // indent
	catchIdx := p.pos
	p.advance() // catch

	pushed := false
	nameIdx := ast.NoNode
	if p.cur().Kind == lexer.KindIdent {
		nameIdx = int32(p.pos)
		vTok, err := p.expect(lexer.KindIdent)
		if err != nil {
			return ast.NoNode, err
		}
		pushed = true
		p.blocks.push()
		p.blocks.declare(vTok.Text(p.src))
	}
	if _, err := p.expect(lexer.KindColon); err != nil {
		if pushed {
			p.blocks.pop()
		}
		return ast.NoNode, err
	}
	body, err := p.parseBlock()
	if pushed {
		p.blocks.pop()
	}
	if err != nil {
		return ast.NoNode, err
	}

	clause := p.newNode(ast.KindCatchClause, catchIdx)
	p.node(clause).Data.NameToken = nameIdx
	p.node(clause).Data.ChildrenHead = body
	return clause, nil
}
