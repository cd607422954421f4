// SPDX-License-Identifier: MIT
package corvid

import (
	"github.com/corvidlang/corvid/ast"
	"github.com/corvidlang/corvid/lexer"
)

// parseSingleParamLambda handles `ident => expr`, recognized by
// parseAtom's one-token lookahead before the identifier is consumed as
// a plain ident (spec §4.2 "Lambdas").
func (p *Parser) parseSingleParamLambda() (ast.ID, error) {
	nameIdx := p.pos
	nameTok := p.advance() // ident
	p.advance()            // =>

	param := p.newNode(ast.KindParam, nameIdx)
	p.node(param).Data.NameToken = int32(nameIdx)

	p.blocks.push()
	p.blocks.declare(nameTok.Text(p.src))
	body, err := p.parseExpr(0)
	p.blocks.pop()
	if err != nil {
		return ast.NoNode, err
	}

	lam := p.newNode(ast.KindLambdaExpr, nameIdx)
	p.node(lam).Data.ChildrenHead = param
	p.node(lam).Data.Child[0] = body
	p.node(lam).Data.Int = 1
	return lam, nil
}

// parseParenOrLambda disambiguates `(expr)` grouping from the
// zero/multi-parameter lambda forms. It tentatively parses the first
// inner expression; a following comma means the parenthesized form was
// actually a parameter list, so it rewinds to the opening paren and
// re-parses as one (spec §4.2: "On comma inside a parenthesized
// expression that could be a group, the parser rewinds").
func (p *Parser) parseParenOrLambda() (ast.ID, error) {
	openIdx := p.pos
	p.advance() // '('

	if p.cur().Kind == lexer.KindRightParen && p.peek(1).Kind == lexer.KindEqualGreater {
		p.pos = openIdx
		return p.parseMultiParamLambda()
	}

	first, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}

	switch {
	case p.cur().Kind == lexer.KindComma:
		p.pos = openIdx
		return p.parseMultiParamLambda()

	case p.cur().Kind == lexer.KindRightParen && p.peek(1).Kind == lexer.KindEqualGreater:
		p.pos = openIdx
		return p.parseMultiParamLambda()

	case p.cur().Kind == lexer.KindRightParen:
		p.advance()
		id := p.newNode(ast.KindGroup, openIdx)
		p.node(id).Data.Child[0] = first
		return id, nil
	}

	return ast.NoNode, p.errf(p.cur().Start, "%w: expected ',' or ')' in parenthesized expression", ErrUnexpectedToken)
}

// parseParamList parses a `(name [type], ...)` list starting at the
// current '(' token, pushing a block frame and declaring each
// parameter so the body parsed by the caller treats them as bound
// rather than free.
func (p *Parser) parseParamList() ([]ast.ID, error) {
	p.advance() // '('
	var params []ast.ID
	p.blocks.push()
	for p.cur().Kind != lexer.KindRightParen {
		nameIdx := p.pos
		nameTok, err := p.expect(lexer.KindIdent)
		if err != nil {
			p.blocks.pop()
			return nil, err
		}
		param := p.newNode(ast.KindParam, nameIdx)
		p.node(param).Data.NameToken = int32(nameIdx)
		p.blocks.declare(nameTok.Text(p.src))

		if p.cur().Kind == lexer.KindIdent {
			typeNode, err := p.parseTypeExpr()
			if err != nil {
				p.blocks.pop()
				return nil, err
			}
			p.node(param).Data.Child[0] = typeNode
		}

		params = append(params, param)
		if p.cur().Kind == lexer.KindComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.KindRightParen); err != nil {
		p.blocks.pop()
		return nil, err
	}
	return params, nil
}

// parseMultiParamLambda parses `(params) => expr`, starting with p.pos
// at the opening paren.
func (p *Parser) parseMultiParamLambda() (ast.ID, error) {
	startIdx := p.pos
	params, err := p.parseParamList()
	if err != nil {
		return ast.NoNode, err
	}
	if _, err := p.expect(lexer.KindEqualGreater); err != nil {
		p.blocks.pop()
		return ast.NoNode, err
	}
	body, err := p.parseExpr(0)
	p.blocks.pop()
	if err != nil {
		return ast.NoNode, err
	}

	lam := p.newNode(ast.KindLambdaExpr, startIdx)
	b := ast.NewBuilder()
	for _, prm := range params {
		b.Append(&p.tree, prm)
	}
	p.node(lam).Data.ChildrenHead = b.Head()
	p.node(lam).Data.Child[0] = body
	p.node(lam).Data.Int = int32(len(params))
	return lam, nil
}

// parseFuncLambda parses the multi-line lambda form
// `func (params) [ret]: body`, distinguished from a top-level func
// declaration by the absence of a name between `func` and `(`.
func (p *Parser) parseFuncLambda() (ast.ID, error) {
	startIdx := p.pos
	p.advance() // func
	params, err := p.parseParamList()
	if err != nil {
		return ast.NoNode, err
	}
	var retType ast.ID = ast.NoNode
	if p.cur().Kind != lexer.KindColon {
		retType, err = p.parseTypeExpr()
		if err != nil {
			p.blocks.pop()
			return ast.NoNode, err
		}
	}
	if _, err := p.expect(lexer.KindColon); err != nil {
		p.blocks.pop()
		return ast.NoNode, err
	}
	body, err := p.parseBlock()
	p.blocks.pop()
	if err != nil {
		return ast.NoNode, err
	}

	lam := p.newNode(ast.KindLambdaMulti, startIdx)
	b := ast.NewBuilder()
	for _, prm := range params {
		b.Append(&p.tree, prm)
	}
	p.node(lam).Data.ChildrenHead = b.Head()
	p.node(lam).Data.Child[0] = retType
	p.node(lam).Data.Child[1] = body
	p.node(lam).Data.Int = int32(len(params))
	return lam, nil
}
