// SPDX-License-Identifier: MIT
package corvid

import (
	"github.com/corvidlang/corvid/ast"
	"github.com/corvidlang/corvid/lexer"
)

// finishStmt consumes a statement's trailing new_line, or does nothing
// when the statement ended in a nested block (the cursor is already
// sitting on the following line's indent token, or at EOF) — both are
// valid ways for a statement production to end. Anything else is
// trailing garbage.
func (p *Parser) finishStmt() error {
	switch p.cur().Kind {
	case lexer.KindNewLine:
		p.advance()
		return nil
	case lexer.KindEOF, lexer.KindIndent:
		return nil
	default:
		return p.errf(p.cur().Start, "%w: unexpected trailing token after statement", ErrUnexpectedToken)
	}
}

// parseStatement dispatches on the current token (spec §4.2
// "Statements") and, once the specific production returns, consumes
// the statement's terminator.
func (p *Parser) parseStatement(blockIndent int32) (ast.ID, error) {
	var id ast.ID
	var err error

	tok := p.cur()
	switch {
	case tok.Kind == lexer.KindIdent && p.peek(1).Kind == lexer.KindColon:
		id, err = p.parseLabeledBlockDecl()
	case tok.Kind == lexer.KindAt:
		id, err = p.parseAtStmt()
	case tok.Kind == lexer.KindType:
		id, err = p.parseTypeDecl()
	case tok.Kind == lexer.KindFunc:
		id, err = p.parseFuncDecl(false)
	case tok.Kind == lexer.KindIf:
		id, err = p.parseIfStmt(blockIndent)
	case tok.Kind == lexer.KindMatch:
		id, err = p.parseMatchStmt()
	case tok.Kind == lexer.KindFor:
		id, err = p.parseForStmt()
	case tok.Kind == lexer.KindWhile:
		id, err = p.parseWhileStmt()
	case tok.Kind == lexer.KindImport:
		id, err = p.parseImportDecl()
	case tok.Kind == lexer.KindPass:
		p.advance()
		id = p.newNode(ast.KindPassStmt, p.pos-1)
	case tok.Kind == lexer.KindContinue:
		p.advance()
		id = p.newNode(ast.KindContinueStmt, p.pos-1)
	case tok.Kind == lexer.KindBreak:
		p.advance()
		id = p.newNode(ast.KindBreakStmt, p.pos-1)
	case tok.Kind == lexer.KindReturn:
		id, err = p.parseReturnStmt()
	case tok.Kind == lexer.KindTry && p.peek(1).Kind == lexer.KindColon:
		id, err = p.parseTryStmt(blockIndent)
	case tok.Kind == lexer.KindVar:
		id, err = p.parseVarDecl()
	case tok.Kind == lexer.KindCapture:
		id, err = p.parseCaptureOrStaticDecl(ast.KindCaptureDecl)
	case tok.Kind == lexer.KindStatic:
		id, err = p.parseCaptureOrStaticDecl(ast.KindStaticDecl)
	default:
		id, err = p.parseExprOrAssignStmt()
	}

	if err != nil {
		return ast.NoNode, err
	}
	if err := p.finishStmt(); err != nil {
		return ast.NoNode, err
	}
	return id, nil
}

// parseLabeledBlockDecl parses `ident: <indented block>`.
func (p *Parser) parseLabeledBlockDecl() (ast.ID, error) {
	nameIdx := p.pos
	p.advance() // ident
	p.advance() // ':'
	body, err := p.parseBlock()
	if err != nil {
		return ast.NoNode, err
	}
	id := p.newNode(ast.KindLabeledBlockDecl, nameIdx)
	p.node(id).Data.NameToken = int32(nameIdx)
	p.node(id).Data.ChildrenHead = body
	return id, nil
}

// parseAtStmt parses `@ call(...)`.
func (p *Parser) parseAtStmt() (ast.ID, error) {
	idx := p.pos
	p.advance() // '@'
	call, err := p.parseTightTermCore()
	if err != nil {
		return ast.NoNode, err
	}
	if p.node(call).Kind != ast.KindCallExpr {
		return ast.NoNode, p.errf(p.tokens.At(idx).Start, "%w: '@' requires a call expression", ErrUnexpectedToken)
	}
	id := p.newNode(ast.KindAtStmt, idx)
	p.node(id).Data.Child[0] = call
	return id, nil
}

func (p *Parser) parseReturnStmt() (ast.ID, error) {
	idx := p.pos
	p.advance() // return
	if p.cur().Kind == lexer.KindNewLine || p.cur().Kind == lexer.KindEOF || !canStartTerm(p.cur()) {
		return p.newNode(ast.KindReturnStmt, idx), nil
	}
	val, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}
	id := p.newNode(ast.KindReturnExprStmt, idx)
	p.node(id).Data.Child[0] = val
	return id, nil
}

// matchAssignOp consumes and classifies an assignment operator at the
// cursor: `=` alone, or an arithmetic operator immediately (no byte
// gap) followed by `=`, which the tokenizer emits as two adjacent
// tokens rather than a dedicated compound-assign kind (spec §6's
// closed token-kind set has no such kind).
func (p *Parser) matchAssignOp() (matched bool, op lexer.OperatorKind) {
	tok := p.cur()
	if tok.Kind == lexer.KindEqual {
		p.advance()
		return true, lexer.OpNone
	}
	if tok.Kind == lexer.KindOperator {
		switch tok.Op {
		case lexer.OpPlus, lexer.OpMinus, lexer.OpStar, lexer.OpSlash:
			nxt := p.peek(1)
			if nxt.Kind == lexer.KindEqual && nxt.Start == tok.End {
				p.advance()
				p.advance()
				return true, tok.Op
			}
		}
	}
	return false, lexer.OpNone
}

// parseExprOrAssignStmt parses the statement-dispatch fallback: a bare
// expression statement, or an assignment when an assign operator
// follows the parsed left-hand side (spec §4.2 "Statements",
// "Dependency tracking").
func (p *Parser) parseExprOrAssignStmt() (ast.ID, error) {
	startIdx := p.pos
	lhs, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}

	matched, op := p.matchAssignOp()
	if !matched {
		id := p.newNode(ast.KindExprStmt, startIdx)
		p.node(id).Data.Child[0] = lhs
		return id, nil
	}

	lhsKind := p.node(lhs).Kind
	if lhsKind != ast.KindIdent && lhsKind != ast.KindAccessExpr && lhsKind != ast.KindIndexExpr {
		return ast.NoNode, p.errAt(p.tokens.At(startIdx).Start, ErrNotAssignable)
	}

	rhs, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}

	var id ast.ID
	if op == lexer.OpNone {
		id = p.newNode(ast.KindAssign, startIdx)
	} else {
		id = p.newNode(ast.KindOpAssign, startIdx)
		p.node(id).Data.Op = op
	}
	p.node(id).Data.Child[0] = lhs
	p.node(id).Data.Child[1] = rhs

	if lhsKind == ast.KindIdent {
		name := p.tokens.At(startIdx).Text(p.src)
		p.blocks.declare(name)
		p.retractDep(name, lhs)
	}

	return id, nil
}

// --- declarations (spec §4.2 "Declaration forms") ----------------------

func (p *Parser) parseVarDecl() (ast.ID, error) {
	idx := p.pos
	p.advance() // var
	nameIdx := p.pos
	nameTok, err := p.expect(lexer.KindIdent)
	if err != nil {
		return ast.NoNode, err
	}
	var typeNode ast.ID = ast.NoNode
	if p.cur().Kind != lexer.KindColon {
		typeNode, err = p.parseTypeExpr()
		if err != nil {
			return ast.NoNode, err
		}
	}
	if _, err := p.expect(lexer.KindColon); err != nil {
		return ast.NoNode, err
	}
	rhs, err := p.parseDeclRHS()
	if err != nil {
		return ast.NoNode, err
	}

	id := p.newNode(ast.KindVarDecl, idx)
	p.node(id).Data.NameToken = int32(nameIdx)
	p.node(id).Data.Child[0] = typeNode
	p.node(id).Data.Child[1] = rhs
	p.blocks.declare(nameTok.Text(p.src))
	p.recordDecl(DeclVar, id)
	return id, nil
}

// parseCaptureOrStaticDecl parses `capture name [= rhs]` / `static name
// [= rhs]`.
func (p *Parser) parseCaptureOrStaticDecl(kind ast.Kind) (ast.ID, error) {
	idx := p.pos
	p.advance() // capture|static
	nameIdx := p.pos
	nameTok, err := p.expect(lexer.KindIdent)
	if err != nil {
		return ast.NoNode, err
	}
	var rhs ast.ID = ast.NoNode
	if p.cur().Kind == lexer.KindEqual {
		p.advance()
		rhs, err = p.parseDeclRHS()
		if err != nil {
			return ast.NoNode, err
		}
	}
	id := p.newNode(kind, idx)
	p.node(id).Data.NameToken = int32(nameIdx)
	p.node(id).Data.Child[0] = rhs
	p.blocks.declare(nameTok.Text(p.src))
	return id, nil
}

// parseDeclRHS parses the right-hand side shared by var/capture/static:
// an expression, a match statement, or a multi-line lambda.
func (p *Parser) parseDeclRHS() (ast.ID, error) {
	switch p.cur().Kind {
	case lexer.KindMatch:
		return p.parseMatchStmt()
	case lexer.KindFunc:
		return p.parseFuncLambda()
	default:
		return p.parseExpr(0)
	}
}

// parseImportDecl parses `import name expr`, where expr must be a
// string literal node.
func (p *Parser) parseImportDecl() (ast.ID, error) {
	idx := p.pos
	p.advance() // import
	nameIdx := p.pos
	if _, err := p.expect(lexer.KindIdent); err != nil {
		return ast.NoNode, err
	}
	target, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}
	if p.node(target).Kind != ast.KindStringLit {
		return ast.NoNode, p.errAt(p.tokens.At(idx).Start, ErrBadImportTarget)
	}
	id := p.newNode(ast.KindImportDecl, idx)
	p.node(id).Data.NameToken = int32(nameIdx)
	p.node(id).Data.Child[0] = target
	p.recordDecl(DeclImport, id)
	return id, nil
}

// parseTypeDecl dispatches the three `type Name ...` forms.
func (p *Parser) parseTypeDecl() (ast.ID, error) {
	idx := p.pos
	p.advance() // type
	nameIdx := p.pos
	nameTok, err := p.expect(lexer.KindIdent)
	if err != nil {
		return ast.NoNode, err
	}

	switch p.cur().Kind {
	case lexer.KindEnum:
		p.advance()
		if _, err := p.expect(lexer.KindColon); err != nil {
			return ast.NoNode, err
		}
		members, err := p.parseEnumBody()
		if err != nil {
			return ast.NoNode, err
		}
		id := p.newNode(ast.KindEnumDecl, idx)
		p.node(id).Data.NameToken = int32(nameIdx)
		p.node(id).Data.ChildrenHead = members
		p.blocks.declare(nameTok.Text(p.src))
		p.recordDecl(DeclTypeEnum, id)
		return id, nil

	case lexer.KindObject:
		p.advance()
		if _, err := p.expect(lexer.KindColon); err != nil {
			return ast.NoNode, err
		}
		fields, methods, err := p.parseObjectBody()
		if err != nil {
			return ast.NoNode, err
		}
		id := p.newNode(ast.KindObjectDecl, idx)
		p.node(id).Data.NameToken = int32(nameIdx)
		p.node(id).Data.ChildrenHead = fields
		p.node(id).Data.Child[0] = methods
		p.blocks.declare(nameTok.Text(p.src))
		p.recordDecl(DeclTypeObject, id)
		return id, nil

	default:
		spec, err := p.parseTypeExpr()
		if err != nil {
			return ast.NoNode, err
		}
		id := p.newNode(ast.KindTypeAliasDecl, idx)
		p.node(id).Data.NameToken = int32(nameIdx)
		p.node(id).Data.Child[0] = spec
		p.blocks.declare(nameTok.Text(p.src))
		p.recordDecl(DeclTypeAlias, id)
		return id, nil
	}
}

// parseEnumBody parses the indented list of bare-identifier members
// under `type Name enum:`.
func (p *Parser) parseEnumBody() (ast.ID, error) {
	colonEnd := p.tokens.At(p.pos - 1).End
	if p.cur().Kind != lexer.KindNewLine {
		nameIdx := p.pos
		if _, err := p.expect(lexer.KindIdent); err != nil {
			return ast.NoNode, err
		}
		member := p.newNode(ast.KindTagMember, nameIdx)
		p.node(member).Data.NameToken = int32(nameIdx)
		return member, nil
	}
	p.advance() // new_line
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
		nameIdx := p.pos
		if _, err := p.expect(lexer.KindIdent); err != nil {
			return ast.NoNode, err
		}
		member := p.newNode(ast.KindTagMember, nameIdx)
		p.node(member).Data.NameToken = int32(nameIdx)
		b.Append(&p.tree, member)
		if err := p.finishStmt(); err != nil {
			return ast.NoNode, err
		}
	}
	if b.Head() == ast.NoNode {
		return ast.NoNode, p.errAt(tok.Start, ErrEmptyBlock)
	}
	return b.Head(), nil
}

// parseObjectBody parses the indented fields-then-methods list under
// `type Name object:`.
func (p *Parser) parseObjectBody() (fieldsHead, methodsHead ast.ID, err error) {
	colonEnd := p.tokens.At(p.pos - 1).End
	if p.cur().Kind != lexer.KindNewLine {
		return ast.NoNode, ast.NoNode, p.errf(colonEnd, "%w: object body must be indented", ErrUnexpectedToken)
	}
	p.advance()
	p.skipBlankLines()

	tok := p.cur()
	if tok.Kind != lexer.KindIndent {
		return ast.NoNode, ast.NoNode, p.errf(colonEnd, "%w: expected an indented block", ErrUnexpectedToken)
	}
	if err := p.checkIndentStyle(tok); err != nil {
		return ast.NoNode, ast.NoNode, err
	}
	blockIndent := int32(tok.IndentCount())

	fb := ast.NewBuilder()
	mb := ast.NewBuilder()
	any := false
	for {
		p.skipBlankLines()
		tok = p.cur()
		if tok.Kind == lexer.KindEOF {
			break
		}
		if tok.Kind != lexer.KindIndent {
			return ast.NoNode, ast.NoNode, p.errf(tok.Start, "%w: expected line start", ErrUnexpectedToken)
		}
		count := int32(tok.IndentCount())
		if count < blockIndent {
			break
		}
		if count > blockIndent {
			return ast.NoNode, ast.NoNode, p.errAt(tok.Start, ErrUnexpectedIndent)
		}
		if err := p.checkIndentStyle(tok); err != nil {
			return ast.NoNode, ast.NoNode, err
		}
		p.advance()
		any = true

		if p.cur().Kind == lexer.KindFunc {
			method, err := p.parseFuncDecl(true)
			if err != nil {
				return ast.NoNode, ast.NoNode, err
			}
			if err := p.finishStmt(); err != nil {
				return ast.NoNode, ast.NoNode, err
			}
			mb.Append(&p.tree, method)
			continue
		}

		nameIdx := p.pos
		if _, err := p.expect(lexer.KindIdent); err != nil {
			return ast.NoNode, ast.NoNode, err
		}
		var typeNode ast.ID = ast.NoNode
		if p.cur().Kind == lexer.KindIdent {
			typeNode, err = p.parseTypeExpr()
			if err != nil {
				return ast.NoNode, ast.NoNode, err
			}
		}
		field := p.newNode(ast.KindObjectField, nameIdx)
		p.node(field).Data.NameToken = int32(nameIdx)
		p.node(field).Data.Child[0] = typeNode
		if err := p.finishStmt(); err != nil {
			return ast.NoNode, ast.NoNode, err
		}
		fb.Append(&p.tree, field)
	}
	if !any {
		return ast.NoNode, ast.NoNode, p.errAt(tok.Start, ErrEmptyBlock)
	}
	return fb.Head(), mb.Head(), nil
}

// parseFuncDecl parses `func name(params) [ret]:` / `func name(params)
// [ret] = expr`. isMethod suppresses the top-level static-declaration
// entry, since method funcs are reached through their enclosing object
// declaration instead.
func (p *Parser) parseFuncDecl(isMethod bool) (ast.ID, error) {
	idx := p.pos
	p.advance() // func
	nameIdx := p.pos
	nameTok, err := p.expect(lexer.KindIdent)
	if err != nil {
		return ast.NoNode, err
	}
	// The function's own name is visible inside its body (recursion).
	p.blocks.declare(nameTok.Text(p.src))

	params, err := p.parseParamList()
	if err != nil {
		return ast.NoNode, err
	}

	var retType ast.ID = ast.NoNode
	if p.cur().Kind != lexer.KindColon && p.cur().Kind != lexer.KindEqual {
		retType, err = p.parseTypeExpr()
		if err != nil {
			p.blocks.pop()
			return ast.NoNode, err
		}
	}

	id := p.newNode(ast.KindFuncDecl, idx)
	p.node(id).Data.NameToken = int32(nameIdx)
	p.node(id).Data.Child[0] = retType
	p.node(id).Data.Bool[0] = isMethod

	switch p.cur().Kind {
	case lexer.KindEqual:
		p.advance()
		body, err := p.parseExpr(0)
		p.blocks.pop()
		if err != nil {
			return ast.NoNode, err
		}
		p.node(id).Data.Child[1] = body
		p.node(id).Data.Bool[1] = true // initializer form, not a block body

	case lexer.KindColon:
		p.advance()
		body, err := p.parseBlock()
		p.blocks.pop()
		if err != nil {
			return ast.NoNode, err
		}
		p.node(id).Data.Child[1] = body

	default:
		p.blocks.pop()
		return ast.NoNode, p.errf(p.cur().Start, "%w: expected ':' or '=' in function declaration", ErrUnexpectedToken)
	}

	b := ast.NewBuilder()
	for _, prm := range params {
		b.Append(&p.tree, prm)
	}
	p.node(id).Data.ChildrenHead = b.Head()

	if !isMethod {
		p.recordDecl(DeclFunc, id)
	}
	return id, nil
}
