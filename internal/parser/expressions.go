package parser

import (
	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/lexer"
)

// parseExpression is the precedence-climbing core. It parses a prefix
// expression then repeatedly consumes infix/postfix operators whose
// precedence is greater than minPrec.
func (p *Parser) parseExpression(minPrec precedence) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for {
		curPrec := precedenceOf(p.cur.Kind)
		if curPrec <= minPrec {
			break
		}
		left = p.parseInfix(left, curPrec)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Kind {
	case lexer.KwNot, lexer.Minus:
		return p.parseUnary()
	case lexer.IntegerLiteral, lexer.LongIntegerLiteral, lexer.FloatLiteral, lexer.DoubleLiteral, lexer.StringLiteral:
		return p.parseLiteral()
	case lexer.KwTrue, lexer.KwFalse:
		return p.parseBooleanLiteral()
	case lexer.KwInvalid:
		return p.parseInvalidLiteral()
	case lexer.Identifier:
		return p.parseVariableOrPropertyIdent()
	case lexer.LeftParen:
		return p.parseGrouping()
	case lexer.LeftBracket:
		return p.parseArrayLiteral()
	case lexer.LeftBrace:
		return p.parseAALiteral()
	case lexer.KwNew:
		return p.parseNewExpression()
	case lexer.KwFunction, lexer.KwSub:
		return p.parseFunctionExpression()
	case lexer.TemplateStringBegin:
		return p.parseTemplateString()
	default:
		if lexer.IsAllowedProperty(p.cur.LowerText()) {
			return p.parseVariableOrPropertyIdent()
		}
		p.errorf(diagnostics.UnexpectedToken, p.cur.Range, p.cur.Text)
		p.advance()
		return nil
	}
}

func (p *Parser) parseUnary() ast.Expression {
	opTok := p.cur
	p.advance()
	operand := p.parseExpression(precUnary)
	return &ast.Unary{
		Base:     ast.NewBase(lexer.Range{Start: opTok.Range.Start, End: operand.Range().End}),
		Operator: opTok.Kind,
		Operand:  operand,
	}
}

func (p *Parser) parseLiteral() ast.Expression {
	tok := p.cur
	p.advance()
	return &ast.Literal{Base: ast.NewBase(tok.Range), Value: tok.Literal, Designator: tok.Designator}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.cur
	p.advance()
	return &ast.Literal{Base: ast.NewBase(tok.Range), Value: tok.Kind == lexer.KwTrue}
}

func (p *Parser) parseInvalidLiteral() ast.Expression {
	tok := p.cur
	p.advance()
	return &ast.Literal{Base: ast.NewBase(tok.Range), Value: nil}
}

func (p *Parser) parseVariableOrPropertyIdent() ast.Expression {
	tok := p.cur
	lower := tok.LowerText()
	if tok.Kind != lexer.Identifier && lexer.IsDisallowedIdentifier(lower) {
		p.errorf(diagnostics.CannotUseReservedWordAsIdentifier, tok.Range, tok.Text)
	}
	p.advance()
	return &ast.Variable{Base: ast.NewBase(tok.Range), Name: tok.Text, Designator: tok.Designator}
}

func (p *Parser) parseGrouping() ast.Expression {
	start := p.cur.Range.Start
	p.advance() // '('
	inner := p.parseExpression(precLowest)
	endTok, _ := p.expect(lexer.RightParen)
	return &ast.Grouping{Base: ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End}), Inner: inner}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	start := p.cur.Range.Start
	p.advance() // '['
	var elems []ast.Expression
	p.skipNewlinesAndColons()
	for !p.curIs(lexer.RightBracket) && !p.curIs(lexer.Eof) {
		elems = append(elems, p.parseExpression(precLowest))
		p.skipNewlinesAndColons()
		if p.curIs(lexer.Comma) {
			p.advance()
			p.skipNewlinesAndColons()
			continue
		}
		break
	}
	endTok, _ := p.expect(lexer.RightBracket)
	return &ast.ArrayLiteral{Base: ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End}), Elements: elems}
}

// parseAALiteral parses "{ key: value, ... }". Keys are an Identifier, a
// reserved word on the allow-list (excluding "rem" — see the Open Question
// decision in DESIGN.md), or a string literal.
func (p *Parser) parseAALiteral() ast.Expression {
	start := p.cur.Range.Start
	p.advance() // '{'
	var members []*ast.AAMember
	p.skipAASeparators()
	for !p.curIs(lexer.RightBrace) && !p.curIs(lexer.Eof) {
		keyTok := p.cur
		var key string
		switch {
		case keyTok.Kind == lexer.StringLiteral:
			key = keyTok.Text
			p.advance()
		case keyTok.Kind == lexer.Identifier:
			key = keyTok.Text
			p.advance()
		default:
			lower := keyTok.LowerText()
			if lower == "rem" {
				p.errorf(diagnostics.RemNotAllowedAsLiteralKey, keyTok.Range, keyTok.Text)
				key = keyTok.Text
				p.advance()
			} else if lexer.IsAllowedAALiteralKey(lower) {
				key = keyTok.Text
				p.advance()
			} else {
				p.errorf(diagnostics.InvalidAssociativeArrayKey, keyTok.Range, keyTok.Text)
				key = keyTok.Text
				p.advance()
			}
		}
		if _, ok := p.expect(lexer.Colon); !ok {
			p.synchronize()
		}
		value := p.parseExpression(precLowest)
		members = append(members, &ast.AAMember{
			Base:  ast.NewBase(lexer.Range{Start: keyTok.Range.Start, End: value.Range().End}),
			Key:   key, Value: value,
		})
		p.skipAASeparators()
	}
	endTok, _ := p.expect(lexer.RightBrace)
	return &ast.AALiteral{Base: ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End}), Members: members}
}

func (p *Parser) skipAASeparators() {
	for p.curIs(lexer.Comma) || p.curIs(lexer.Newline) || p.curIs(lexer.Colon) {
		p.advance()
	}
}

func (p *Parser) parseNewExpression() ast.Expression {
	start := p.cur.Range.Start
	p.advance() // 'new'
	nameTok := p.expectIdentifierLike()
	var args []ast.Expression
	end := nameTok.Range.End
	if p.curIs(lexer.LeftParen) {
		p.advance()
		args, end = p.parseArgList()
	}
	return &ast.NewExpression{Base: ast.NewBase(lexer.Range{Start: start, End: end}), ClassName: nameTok.Text, Args: args}
}

func (p *Parser) parseArgList() ([]ast.Expression, lexer.Position) {
	var args []ast.Expression
	for !p.curIs(lexer.RightParen) && !p.curIs(lexer.Eof) {
		args = append(args, p.parseExpression(precLowest))
		if len(args) > MaxArgs {
			p.errorf(diagnostics.TooManyCallableParameters, p.cur.Range, MaxArgs)
		}
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	endTok, _ := p.expect(lexer.RightParen)
	return args, endTok.Range.End
}

func (p *Parser) parseInfix(left ast.Expression, prec precedence) ast.Expression {
	switch p.cur.Kind {
	case lexer.LeftParen:
		return p.parseCall(left)
	case lexer.Dot:
		return p.parseDottedGet(left)
	case lexer.LeftBracket:
		return p.parseIndexedGet(left)
	default:
		return p.parseBinary(left, prec)
	}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	start := callee.Range().Start
	p.advance() // '('
	args, end := p.parseArgList()
	return &ast.Call{Base: ast.NewBase(lexer.Range{Start: start, End: end}), Callee: callee, Args: args}
}

func (p *Parser) parseDottedGet(target ast.Expression) ast.Expression {
	p.advance() // '.'
	nameTok := p.cur
	lower := nameTok.LowerText()
	if nameTok.Kind != lexer.Identifier && !lexer.IsAllowedProperty(lower) {
		p.errorf(diagnostics.CannotUseReservedWordAsIdentifier, nameTok.Range, nameTok.Text)
	}
	p.advance()
	return &ast.DottedGet{
		Base:   ast.NewBase(lexer.Range{Start: target.Range().Start, End: nameTok.Range.End}),
		Target: target, Name: nameTok.Text,
	}
}

func (p *Parser) parseIndexedGet(target ast.Expression) ast.Expression {
	p.advance() // '['
	idx := p.parseExpression(precLowest)
	endTok, _ := p.expect(lexer.RightBracket)
	return &ast.IndexedGet{
		Base:   ast.NewBase(lexer.Range{Start: target.Range().Start, End: endTok.Range.End}),
		Target: target, Index: idx,
	}
}

func (p *Parser) parseBinary(left ast.Expression, prec precedence) ast.Expression {
	opTok := p.cur
	p.advance()
	// Every binary operator, exponent included, binds left-associatively in
	// this dialect; see SPEC_FULL.md §4.2.
	right := p.parseExpression(prec)
	return &ast.Binary{
		Base:     ast.NewBase(lexer.Range{Start: left.Range().Start, End: right.Range().End}),
		Left:     left, Operator: opTok.Kind, Right: right,
	}
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	start := p.cur.Range.Start
	isSub := p.curIs(lexer.KwSub)
	p.advance() // 'function'/'sub'
	p.expect(lexer.LeftParen)
	params := p.parseParameterList()
	p.expect(lexer.RightParen)
	returnType := p.parseOptionalReturnType(isSub)

	var closer lexer.TokenType = lexer.KwEndFunction
	if isSub {
		closer = lexer.KwEndSub
	}
	body := p.parseBlockUntil(closer)
	endTok, ok := p.expect(closer)
	if !ok {
		if isSub {
			p.errorf(diagnostics.MissingTerminator, p.cur.Range, "end sub", "sub")
		} else {
			p.errorf(diagnostics.MissingTerminator, p.cur.Range, "end function", "function")
		}
	}
	return &ast.FunctionExpression{
		Base: ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End}),
		Params: params, ReturnType: returnType, Body: body, IsSub: isSub,
	}
}

func (p *Parser) parseOptionalReturnType(isSub bool) string {
	if p.curIs(lexer.KwAs) {
		p.advance()
		typeTok := p.expectIdentifierLike()
		return typeTok.Text
	}
	if isSub {
		return "void"
	}
	return "dynamic"
}

// parseParameterList parses "NAME [= DEFAULT] [as TYPE]" entries separated
// by commas, enforcing MaxArgs and the no-required-after-optional rule.
func (p *Parser) parseParameterList() []*ast.Parameter {
	var params []*ast.Parameter
	seenOptional := false
	for !p.curIs(lexer.RightParen) && !p.curIs(lexer.Eof) {
		nameTok := p.expectIdentifierLike()
		param := &ast.Parameter{Base: ast.NewBase(nameTok.Range), Name: nameTok.Text, Designator: nameTok.Designator}
		if p.curIs(lexer.Equal) {
			p.advance()
			param.Default = p.parseExpression(precLowest)
			seenOptional = true
		} else if seenOptional {
			p.errorf(diagnostics.RequiredParameterAfterOptional, nameTok.Range, nameTok.Text)
		}
		if p.curIs(lexer.KwAs) {
			p.advance()
			typeTok := p.expectIdentifierLike()
			param.Type = typeTok.Text
		}
		params = append(params, param)
		if len(params) > MaxArgs {
			p.errorf(diagnostics.TooManyCallableParameters, p.cur.Range, MaxArgs)
		}
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return params
}

// parseTemplateString consumes a full backtick template (already opened by
// the lexer as a TemplateStringBegin token) by alternating expression
// parses with ResumeTemplateAfterBrace calls on the underlying lexer.
func (p *Parser) parseTemplateString() ast.Expression {
	start := p.cur.Range.Start
	chunks := []string{p.cur.Text}
	var exprs []ast.Expression
	openKind := p.cur.Kind
	p.advance()
	for openKind == lexer.TemplateStringBegin || openKind == lexer.TemplateStringMiddle {
		exprs = append(exprs, p.parseExpression(precLowest))
		if !p.curIs(lexer.RightBrace) {
			p.errorf(diagnostics.UnexpectedToken, p.cur.Range, p.cur.Text)
		} else {
			p.advance()
		}
		next := p.lex.NextToken()
		chunks = append(chunks, next.Text)
		openKind = next.Kind
		p.cur = next
		p.peek = p.lex.NextToken()
	}
	end := p.cur.Range.End
	p.advance()
	return &ast.TemplateString{Base: ast.NewBase(lexer.Range{Start: start, End: end}), Chunks: chunks, Exprs: exprs}
}
