// SPDX-License-Identifier: MIT
package corvid

import (
	"github.com/corvidlang/corvid/ast"
	"github.com/corvidlang/corvid/lexer"
)

// binOpPrec returns tok's binary-operator precedence per the table in
// spec §4.2. The open question about the caret/xor duplication (spec
// §9a) is resolved here by giving `^` exactly one row (6) and never
// repeating it at row 7.
func binOpPrec(tok lexer.Token) (int, bool) {
	switch tok.Kind {
	case lexer.KindOperator:
		switch tok.Op {
		case lexer.OpLessLess, lexer.OpGreaterGreater:
			return 9, true
		case lexer.OpAmpersand:
			return 8, true
		case lexer.OpVerticalBar:
			return 7, true
		case lexer.OpCaret:
			return 6, true
		case lexer.OpStar, lexer.OpSlash, lexer.OpPercent:
			return 5, true
		case lexer.OpPlus, lexer.OpMinus:
			return 4, true
		case lexer.OpLess, lexer.OpLessEqual, lexer.OpGreater, lexer.OpGreaterEqual,
			lexer.OpEqualEqual, lexer.OpBangEqual:
			return 2, true
		}
		return 0, false
	case lexer.KindLogicOp: // "||", xor
		return 7, true
	case lexer.KindAs:
		return 3, true
	case lexer.KindIs:
		return 2, true
	case lexer.KindAnd:
		return 1, true
	case lexer.KindOr:
		return 0, true
	}
	return 0, false
}

// nextBinOp returns the token that should be treated as the next binary
// operator, transparently skipping a new_line+indent pair when an
// operator follows on the next line — the one place a line break is
// tolerated between operands (spec §4.2, "only during right-operand
// parsing").
func (p *Parser) nextBinOp() (lexer.Token, int) {
	tok := p.cur()
	if tok.Kind == lexer.KindNewLine && p.peek(1).Kind == lexer.KindIndent {
		if _, ok := binOpPrec(p.peek(2)); ok {
			p.advance()
			p.advance()
			return p.cur(), 2
		}
	}
	return tok, 0
}

// parseExpr implements precedence climbing: parseTerm produces the
// left operand, then every operator at or above minPrec is folded in,
// each right operand recursively requiring strictly higher precedence
// so that `a + b * c * d` groups as `a + ((b * c) * d)` (spec §4.2).
func (p *Parser) parseExpr(minPrec int) (ast.ID, error) {
	left, err := p.parseTerm()
	if err != nil {
		return ast.NoNode, err
	}

	for {
		tok, skip := p.nextBinOp()
		prec, ok := binOpPrec(tok)
		if nxt := p.peek(1); ok && tok.Kind == lexer.KindOperator && nxt.Kind == lexer.KindEqual && nxt.Start == tok.End {
			ok = false // `+=` and friends: the operator belongs to matchAssignOp
		}
		if !ok || prec < minPrec {
			if skip > 0 {
				p.pos -= skip
			}
			return left, nil
		}

		switch tok.Kind {
		case lexer.KindAs:
			p.advance()
			typeNode, err := p.parseTypeExpr()
			if err != nil {
				return ast.NoNode, err
			}
			cast := p.newNode(ast.KindCastExpr, int(p.node(left).StartToken))
			p.node(cast).Data.Child[0] = left
			p.node(cast).Data.Child[1] = typeNode
			left = cast
			continue
		case lexer.KindIs:
			startTok := p.node(left).StartToken
			p.advance()
			op := lexer.OpEqualEqual
			if p.cur().Kind == lexer.KindNot {
				p.advance()
				op = lexer.OpBangEqual
			}
			right, err := p.parseExpr(prec + 1)
			if err != nil {
				return ast.NoNode, err
			}
			left = p.makeBinary(startTok, op, left, right)
			continue
		}

		var opKind lexer.OperatorKind
		switch tok.Kind {
		case lexer.KindOperator:
			opKind = tok.Op
		case lexer.KindLogicOp:
			opKind = lexer.OpDoubleVerticalBar
		case lexer.KindAnd:
			opKind = lexer.OpNone // and/or carry no OperatorKind payload; Kind of the BinaryExpr node + a dedicated marker distinguish them, see makeLogicalBinary.
		case lexer.KindOr:
			opKind = lexer.OpNone
		}

		startTok := p.node(left).StartToken
		p.advance()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return ast.NoNode, err
		}

		switch tok.Kind {
		case lexer.KindAnd:
			left = p.makeLogicalBinary(startTok, true, left, right)
		case lexer.KindOr:
			left = p.makeLogicalBinary(startTok, false, left, right)
		default:
			left = p.makeBinary(startTok, opKind, left, right)
		}
	}
}

func (p *Parser) makeBinary(startTok int32, op lexer.OperatorKind, left, right ast.ID) ast.ID {
	id := p.newNode(ast.KindBinaryExpr, int(startTok))
	p.node(id).Data.Op = op
	p.node(id).Data.Child[0] = left
	p.node(id).Data.Child[1] = right
	return id
}

// makeLogicalBinary builds the BinaryExpr node for `and`/`or`, which
// carry no OperatorKind payload of their own; Data.Bool[0] marks the
// node as a logical (vs. bitwise/arithmetic) binary, Data.Bool[1]
// distinguishes and (true) from or (false).
func (p *Parser) makeLogicalBinary(startTok int32, isAnd bool, left, right ast.ID) ast.ID {
	id := p.newNode(ast.KindBinaryExpr, int(startTok))
	p.node(id).Data.Bool[0] = true
	p.node(id).Data.Bool[1] = isAnd
	p.node(id).Data.Child[0] = left
	p.node(id).Data.Child[1] = right
	return id
}

// parseTerm handles the prefix layer: unary operators, throw, try-expr,
// coresume/coyield/coinit, and the if-expr keyword form, falling
// through to parseTightTerm for everything else (spec §4.2 "Term
// expression").
func (p *Parser) parseTerm() (ast.ID, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.KindNot:
		startIdx := p.pos
		p.advance()
		operand, err := p.parseTerm()
		if err != nil {
			return ast.NoNode, err
		}
		id := p.newNode(ast.KindUnaryExpr, startIdx)
		p.node(id).Data.Bool[0] = true // keyword "not"
		p.node(id).Data.Child[0] = operand
		return id, nil

	case lexer.KindOperator:
		if tok.Op == lexer.OpMinus || tok.Op == lexer.OpTilde || tok.Op == lexer.OpBang {
			startIdx := p.pos
			p.advance()
			operand, err := p.parseTerm()
			if err != nil {
				return ast.NoNode, err
			}
			id := p.newNode(ast.KindUnaryExpr, startIdx)
			p.node(id).Data.Op = tok.Op
			p.node(id).Data.Child[0] = operand
			return id, nil
		}

	case lexer.KindThrow:
		startIdx := p.pos
		p.advance()
		operand, err := p.parseExpr(0)
		if err != nil {
			return ast.NoNode, err
		}
		id := p.newNode(ast.KindThrowExpr, startIdx)
		p.node(id).Data.Child[0] = operand
		return id, nil

	case lexer.KindTry:
		startIdx := p.pos
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return ast.NoNode, err
		}
		id := p.newNode(ast.KindTryExpr, startIdx)
		p.node(id).Data.Child[0] = inner
		p.node(id).Data.Child[1] = ast.NoNode
		if p.cur().Kind == lexer.KindElse {
			p.advance()
			alt, err := p.parseExpr(0)
			if err != nil {
				return ast.NoNode, err
			}
			p.node(id).Data.Child[1] = alt
		}
		return id, nil

	case lexer.KindCoresume, lexer.KindCoyield, lexer.KindCoinit:
		startIdx := p.pos
		p.advance()
		kind := map[lexer.Kind]ast.Kind{
			lexer.KindCoresume: ast.KindCoresumeExpr,
			lexer.KindCoyield:  ast.KindCoyieldExpr,
			lexer.KindCoinit:   ast.KindCoinitExpr,
		}[tok.Kind]
		var operand ast.ID = ast.NoNode
		if canStartTerm(p.cur()) {
			var err error
			operand, err = p.parseExpr(0)
			if err != nil {
				return ast.NoNode, err
			}
		}
		id := p.newNode(kind, startIdx)
		p.node(id).Data.Child[0] = operand
		return id, nil

	case lexer.KindIf:
		return p.parseIfExpr()
	}

	return p.parseTightTerm()
}

// parseIfExpr parses the term-level `if cond then a [else b]` form
// (spec §4.2 "Control flow").
func (p *Parser) parseIfExpr() (ast.ID, error) {
	startIdx := p.pos
	p.advance() // if
	cond, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}
	if _, err := p.expect(lexer.KindThen); err != nil {
		return ast.NoNode, err
	}
	thenExpr, err := p.parseExpr(0)
	if err != nil {
		return ast.NoNode, err
	}
	id := p.newNode(ast.KindIfExpr, startIdx)
	p.node(id).Data.Child[0] = cond
	p.node(id).Data.Child[1] = thenExpr
	p.node(id).Data.Child[2] = ast.NoNode
	if p.cur().Kind == lexer.KindElse {
		p.advance()
		elseExpr, err := p.parseExpr(0)
		if err != nil {
			return ast.NoNode, err
		}
		clause := p.newNode(ast.KindIfExprElseClause, p.pos-1)
		p.node(clause).Data.Child[0] = elseExpr
		p.node(id).Data.Child[2] = clause
	}
	return id, nil
}

// canStartTerm reports whether tok can begin a term expression, used
// both for the no-paren call form and for optional-operand prefixes
// (coyield with no value).
func canStartTerm(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.KindIdent, lexer.KindNumber, lexer.KindNonDecimalInt,
		lexer.KindString, lexer.KindTemplateString, lexer.KindSymbol,
		lexer.KindTrue, lexer.KindFalse, lexer.KindNoneLit, lexer.KindError,
		lexer.KindLeftParen, lexer.KindLeftBracket, lexer.KindLeftBrace,
		lexer.KindNot, lexer.KindThrow, lexer.KindTry, lexer.KindCoresume,
		lexer.KindCoyield, lexer.KindCoinit, lexer.KindIf, lexer.KindFunc:
		return true
	case lexer.KindOperator:
		return tok.Op == lexer.OpMinus || tok.Op == lexer.OpTilde || tok.Op == lexer.OpBang
	}
	return false
}

// parseTightTerm parses a tight-term and, when it turns out to be a
// bare identifier or access expression, checks for the no-paren call
// form (spec §4.2 "No-paren call form").
func (p *Parser) parseTightTerm() (ast.ID, error) {
	left, err := p.parseTightTermCore()
	if err != nil {
		return ast.NoNode, err
	}
	kind := p.node(left).Kind
	if kind != ast.KindIdent && kind != ast.KindAccessExpr {
		return left, nil
	}
	// An operator after the callee is a binary operator, not the start of
	// a no-paren argument.
	if !canStartTerm(p.cur()) || p.cur().Kind == lexer.KindOperator {
		return left, nil
	}
	return p.parseNoParenCall(left)
}

// parseNoParenCall gathers whitespace-separated tight-term arguments
// until end of line, per spec's "terminated by newline or end-of-file,
// first argument mandatory".
func (p *Parser) parseNoParenCall(callee ast.ID) (ast.ID, error) {
	startTok := p.node(callee).StartToken
	b := ast.NewBuilder()
	for canStartTerm(p.cur()) {
		arg, err := p.parseTightTermCore()
		if err != nil {
			return ast.NoNode, err
		}
		b.Append(&p.tree, arg)
	}
	id := p.newNode(ast.KindCallExpr, int(startTok))
	p.node(id).Data.Child[0] = callee
	p.node(id).Data.ChildrenHead = b.Head()
	p.node(id).Data.Bool[0] = true // no-paren form
	return id, nil
}

// parseTightTermCore parses a single atom followed by the tight postfix
// chain: member access, index/slice, call, and (for ident/access left
// operands) object initializer.
func (p *Parser) parseTightTermCore() (ast.ID, error) {
	left, err := p.parseAtom()
	if err != nil {
		return ast.NoNode, err
	}

	for {
		switch p.cur().Kind {
		case lexer.KindDot:
			p.advance()
			nameIdx := p.pos
			if _, err := p.expect(lexer.KindIdent); err != nil {
				return ast.NoNode, err
			}
			id := p.newNode(ast.KindAccessExpr, int(p.node(left).StartToken))
			p.node(id).Data.Child[0] = left
			p.node(id).Data.NameToken = int32(nameIdx)
			left = id

		case lexer.KindLeftBracket:
			startTok := p.node(left).StartToken
			p.advance()
			first, err := p.parseExpr(0)
			if err != nil {
				return ast.NoNode, err
			}
			if p.cur().Kind == lexer.KindDotDot {
				p.advance()
				second, err := p.parseExpr(0)
				if err != nil {
					return ast.NoNode, err
				}
				if _, err := p.expect(lexer.KindRightBracket); err != nil {
					return ast.NoNode, err
				}
				id := p.newNode(ast.KindSliceExpr, int(startTok))
				p.node(id).Data.Child[0] = left
				p.node(id).Data.Child[1] = first
				p.node(id).Data.Child[2] = second
				left = id
			} else {
				if _, err := p.expect(lexer.KindRightBracket); err != nil {
					return ast.NoNode, err
				}
				id := p.newNode(ast.KindIndexExpr, int(startTok))
				p.node(id).Data.Child[0] = left
				p.node(id).Data.Child[1] = first
				left = id
			}

		case lexer.KindLeftParen:
			id, err := p.parseCallArgs(left)
			if err != nil {
				return ast.NoNode, err
			}
			left = id

		case lexer.KindLeftBrace:
			kind := p.node(left).Kind
			if kind != ast.KindIdent && kind != ast.KindAccessExpr {
				return left, nil
			}
			id, err := p.parseObjectInit(left)
			if err != nil {
				return ast.NoNode, err
			}
			left = id

		default:
			return left, nil
		}
	}
}

// parseCallArgs parses a parenthesized call's argument list, including
// named arguments (spec §4.2 "Named arguments").
func (p *Parser) parseCallArgs(callee ast.ID) (ast.ID, error) {
	startTok := p.node(callee).StartToken
	p.advance() // '('
	b := ast.NewBuilder()
	hasNamed := false
	for p.cur().Kind != lexer.KindRightParen {
		var argID ast.ID
		if p.cur().Kind == lexer.KindIdent && p.peek(1).Kind == lexer.KindColon {
			nameIdx := p.pos
			p.advance()
			p.advance()
			val, err := p.parseExpr(0)
			if err != nil {
				return ast.NoNode, err
			}
			argID = p.newNode(ast.KindNamedArg, nameIdx)
			p.node(argID).Data.NameToken = int32(nameIdx)
			p.node(argID).Data.Child[0] = val
			hasNamed = true
		} else {
			if hasNamed {
				return ast.NoNode, p.errAt(p.cur().Start, ErrNamedArgAfterBare)
			}
			val, err := p.parseExpr(0)
			if err != nil {
				return ast.NoNode, err
			}
			argID = val
		}
		b.Append(&p.tree, argID)
		if p.cur().Kind == lexer.KindComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.KindRightParen); err != nil {
		return ast.NoNode, err
	}
	id := p.newNode(ast.KindCallExpr, int(startTok))
	p.node(id).Data.Child[0] = callee
	p.node(id).Data.ChildrenHead = b.Head()
	p.node(id).Data.Bool[1] = hasNamed
	return id, nil
}

// parseObjectInit parses the `{field: expr, ...}` initializer that may
// follow an identifier or access expression.
func (p *Parser) parseObjectInit(left ast.ID) (ast.ID, error) {
	startTok := p.node(left).StartToken
	p.advance() // '{'
	b := ast.NewBuilder()
	for p.cur().Kind != lexer.KindRightBrace {
		nameIdx := p.pos
		if _, err := p.expect(lexer.KindIdent); err != nil {
			return ast.NoNode, err
		}
		if _, err := p.expect(lexer.KindColon); err != nil {
			return ast.NoNode, err
		}
		val, err := p.parseExpr(0)
		if err != nil {
			return ast.NoNode, err
		}
		field := p.newNode(ast.KindObjectField, nameIdx)
		p.node(field).Data.NameToken = int32(nameIdx)
		p.node(field).Data.Child[0] = val
		b.Append(&p.tree, field)
		if p.cur().Kind == lexer.KindComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.KindRightBrace); err != nil {
		return ast.NoNode, err
	}
	id := p.newNode(ast.KindObjectInit, int(startTok))
	p.node(id).Data.Child[0] = left
	p.node(id).Data.ChildrenHead = b.Head()
	return id, nil
}

// parseAtom parses a single leaf term: identifier, literal, grouped
// expression, list/map literal, or the start of a lambda form.
func (p *Parser) parseAtom() (ast.ID, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.KindIdent:
		if p.peek(1).Kind == lexer.KindEqualGreater {
			return p.parseSingleParamLambda()
		}
		idx := p.pos
		p.advance()
		name := tok.Text(p.src)
		id := p.newNode(ast.KindIdent, idx)
		p.node(id).Data.NameToken = int32(idx)
		p.noteIdentRef(name, id)
		return id, nil

	case lexer.KindNumber:
		idx := p.pos
		p.advance()
		return p.newNode(ast.KindNumberLit, idx), nil

	case lexer.KindNonDecimalInt:
		idx := p.pos
		p.advance()
		return p.newNode(ast.KindNonDecimalIntLit, idx), nil

	case lexer.KindString:
		idx := p.pos
		p.advance()
		return p.newNode(ast.KindStringLit, idx), nil

	case lexer.KindTemplateString:
		return p.parseTemplateStringLit()

	case lexer.KindSymbol:
		idx := p.pos
		p.advance()
		return p.newNode(ast.KindSymbolLit, idx), nil

	case lexer.KindError:
		idx := p.pos
		p.advance()
		id := p.newNode(ast.KindErrorSymbolLit, idx)
		if p.cur().Kind == lexer.KindSymbol {
			symIdx := p.pos
			p.advance()
			p.node(id).Data.NameToken = int32(symIdx)
		} else {
			p.node(id).Data.NameToken = ast.NoNode
		}
		return id, nil

	case lexer.KindTrue:
		idx := p.pos
		p.advance()
		return p.newNode(ast.KindTrueLit, idx), nil

	case lexer.KindFalse:
		idx := p.pos
		p.advance()
		return p.newNode(ast.KindFalseLit, idx), nil

	case lexer.KindNoneLit:
		idx := p.pos
		p.advance()
		return p.newNode(ast.KindNoneLit, idx), nil

	case lexer.KindAt:
		idx := p.pos
		p.advance()
		call, err := p.parseTightTermCore()
		if err != nil {
			return ast.NoNode, err
		}
		id := p.newNode(ast.KindAtExpr, idx)
		p.node(id).Data.Child[0] = call
		return id, nil

	case lexer.KindLeftBracket:
		idx := p.pos
		p.advance()
		b := ast.NewBuilder()
		for p.cur().Kind != lexer.KindRightBracket {
			el, err := p.parseExpr(0)
			if err != nil {
				return ast.NoNode, err
			}
			b.Append(&p.tree, el)
			if p.cur().Kind == lexer.KindComma {
				p.advance()
				continue
			}
			break
		}
		if p.cur().Kind != lexer.KindRightBracket {
			return ast.NoNode, p.errAt(p.cur().Start, ErrMissingDelimiter)
		}
		p.advance()
		id := p.newNode(ast.KindListLit, idx)
		p.node(id).Data.ChildrenHead = b.Head()
		return id, nil

	case lexer.KindLeftBrace:
		idx := p.pos
		p.advance()
		b := ast.NewBuilder()
		for p.cur().Kind != lexer.KindRightBrace {
			key, err := p.parseExpr(0)
			if err != nil {
				return ast.NoNode, err
			}
			if _, err := p.expect(lexer.KindColon); err != nil {
				return ast.NoNode, err
			}
			val, err := p.parseExpr(0)
			if err != nil {
				return ast.NoNode, err
			}
			entry := p.newNode(ast.KindMapEntry, int(p.node(key).StartToken))
			p.node(entry).Data.Child[0] = key
			p.node(entry).Data.Child[1] = val
			b.Append(&p.tree, entry)
			if p.cur().Kind == lexer.KindComma {
				p.advance()
				continue
			}
			break
		}
		if p.cur().Kind != lexer.KindRightBrace {
			return ast.NoNode, p.errAt(p.cur().Start, ErrMissingDelimiter)
		}
		p.advance()
		id := p.newNode(ast.KindMapLit, idx)
		p.node(id).Data.ChildrenHead = b.Head()
		return id, nil

	case lexer.KindLeftParen:
		return p.parseParenOrLambda()

	case lexer.KindFunc:
		return p.parseFuncLambda()

	case lexer.KindIf:
		return p.parseIfExpr()
	}

	return ast.NoNode, p.errf(tok.Start, "%w: kind %d can not start an expression", ErrUnexpectedToken, tok.Kind)
}

// parseTemplateStringLit consumes the interleaved template_string /
// template_expr_start / ... / right_brace / template_string run the
// tokenizer produced for one template string literal (spec §8 seed
// scenario 6), building one TemplateStringLit node whose children
// alternate string-segment and embedded-expression nodes.
func (p *Parser) parseTemplateStringLit() (ast.ID, error) {
	startIdx := p.pos
	b := ast.NewBuilder()
	for {
		segIdx := p.pos
		if _, err := p.expect(lexer.KindTemplateString); err != nil {
			return ast.NoNode, err
		}
		b.Append(&p.tree, p.newNode(ast.KindStringLit, segIdx))

		if p.cur().Kind != lexer.KindTemplateExprStart {
			break
		}
		p.advance()
		expr, err := p.parseExpr(0)
		if err != nil {
			return ast.NoNode, err
		}
		b.Append(&p.tree, expr)
		if _, err := p.expect(lexer.KindRightBrace); err != nil {
			return ast.NoNode, err
		}
	}
	id := p.newNode(ast.KindTemplateStringLit, startIdx)
	p.node(id).Data.ChildrenHead = b.Head()
	return id, nil
}

// parseTypeExpr parses the right-hand side of a cast or a type
// annotation. The spec leaves type-spec grammar mostly implicit
// (it only ever appears as a name, a dotted access, or an indexed
// generic-looking form); tight-term's ident/access/index chain already
// covers that shape, so it is reused here rather than duplicated.
func (p *Parser) parseTypeExpr() (ast.ID, error) {
	return p.parseTightTermCore()
}
