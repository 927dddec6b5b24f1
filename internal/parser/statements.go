package parser

import (
	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwExitWhile:
		return p.parseExitWhile()
	case lexer.KwFor:
		return p.parseFor()
	case lexer.KwForEach:
		return p.parseForEach()
	case lexer.KwExitFor:
		return p.parseExitFor()
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.KwGoto:
		return p.parseGoto()
	case lexer.KwPrint:
		return p.parsePrint()
	case lexer.KwEnd:
		if p.peekIs(lexer.Equal) {
			// "end = ..." is an assignment to a reserved word; the target
			// parse reports cannotUseReservedWordAsIdentifier.
			return p.parseAssignmentOrExpressionStatement()
		}
		return p.parseEnd()
	case lexer.KwStop:
		return p.parseStop()
	case lexer.KwFunction, lexer.KwSub:
		return p.parseFunctionStatement(AccessPublicDefault)
	case lexer.KwClass:
		return p.parseClass()
	case lexer.KwDim:
		return p.parseDim()
	case lexer.Comment:
		return p.parseCommentStatement()
	case lexer.KwSuper:
		return p.parseSuperCallStatement()
	default:
		return p.parseAssignmentOrExpressionStatement()
	}
}

// AccessPublicDefault is the access modifier used when a function/field
// declaration has no explicit modifier.
const AccessPublicDefault = ast.AccessPublic

func (p *Parser) parseBlockUntil(terminators ...lexer.TokenType) *ast.Block {
	start := p.cur.Range.Start
	var stmts []ast.Statement
	p.skipNewlinesAndColons()
	for {
		if p.curIs(lexer.Eof) {
			break
		}
		if p.matchesAny(terminators) {
			break
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.synchronize()
		}
		p.skipNewlinesAndColons()
	}
	end := p.cur.Range.Start
	return &ast.Block{Base: ast.NewBase(lexer.Range{Start: start, End: end}), Statements: stmts}
}

func (p *Parser) matchesAny(kinds []lexer.TokenType) bool {
	for _, k := range kinds {
		if p.cur.Kind == k {
			return true
		}
	}
	return false
}

// parseIf implements the ExpectCondition -> AfterCondition -> {SingleLine,
// MultiLine} state machine from SPEC_FULL.md §4.2.
func (p *Parser) parseIf() *ast.If {
	start := p.cur.Range.Start
	p.advance() // 'if'

	cond := p.parseExpression(precLowestPrec())
	if p.curIs(lexer.KwThen) {
		p.advance()
	}
	var trailingComment ast.Statement
	if p.curIs(lexer.Comment) {
		trailingComment = p.parseCommentStatement()
	}

	singleLine := !(p.curIs(lexer.Newline) || p.curIs(lexer.Colon))

	node := &ast.If{Condition: cond, SingleLine: singleLine}

	if singleLine {
		node.Then = p.parseSingleLineBranch()
		var elseIfs []ast.ElseIfBranch
		for p.curIs(lexer.KwElseIf) {
			p.advance()
			eiCond := p.parseExpression(precLowestPrec())
			if p.curIs(lexer.KwThen) {
				p.advance()
			}
			elseIfs = append(elseIfs, ast.ElseIfBranch{Condition: eiCond, Then: p.parseSingleLineBranch()})
		}
		node.ElseIfs = elseIfs
		if p.curIs(lexer.KwElse) {
			p.advance()
			node.Else = p.parseSingleLineBranch()
		}
		end := p.cur.Range.Start
		node.Base = ast.NewBase(lexer.Range{Start: start, End: end})
		return node
	}

	node.Then = p.parseBlockUntil(lexer.KwEndIf, lexer.KwElseIf, lexer.KwElse)
	if trailingComment != nil {
		node.Then.Statements = append([]ast.Statement{trailingComment}, node.Then.Statements...)
	}
	var elseIfs []ast.ElseIfBranch
	for p.curIs(lexer.KwElseIf) {
		p.advance()
		eiCond := p.parseExpression(precLowestPrec())
		if p.curIs(lexer.KwThen) {
			p.advance()
		}
		eiBody := p.parseBlockUntil(lexer.KwEndIf, lexer.KwElseIf, lexer.KwElse)
		elseIfs = append(elseIfs, ast.ElseIfBranch{Condition: eiCond, Then: eiBody})
	}
	node.ElseIfs = elseIfs
	if p.curIs(lexer.KwElse) {
		p.advance()
		node.Else = p.parseBlockUntil(lexer.KwEndIf)
	}
	endTok, ok := p.expect(lexer.KwEndIf)
	if !ok {
		p.errorf(diagnostics.MissingTerminator, p.cur.Range, "end if", "if")
	}
	node.Base = ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End})
	return node
}

// parseSingleLineBranch parses exactly one statement, terminated by a
// colon/newline boundary; it additionally checks the column-precedes-colon
// rule documented as an Open Question in SPEC_FULL.md §9: a single-line if
// whose branch is immediately followed by "end if" on the same line must
// have a colon separating the statement from "end if".
func (p *Parser) parseSingleLineBranch() *ast.Block {
	start := p.cur.Range.Start
	stmt := p.parseStatement()
	var stmts []ast.Statement
	if stmt != nil {
		stmts = append(stmts, stmt)
	}
	if p.curIs(lexer.KwEndIf) || p.curIs(lexer.KwEndWhile) {
		prevEnd := lexer.Position{}
		if stmt != nil {
			prevEnd = stmt.Range().End
		}
		if !prevEnd.Before(p.cur.Range.Start) {
			p.errorf(diagnostics.MissingColonBeforeSingleLineEndIf, p.cur.Range, p.cur.Text)
		}
	}
	end := p.cur.Range.Start
	return &ast.Block{Base: ast.NewBase(lexer.Range{Start: start, End: end}), Statements: stmts}
}

func (p *Parser) parseWhile() *ast.While {
	start := p.cur.Range.Start
	p.advance() // 'while'
	cond := p.parseExpression(precLowestPrec())
	body := p.parseBlockUntil(lexer.KwEndWhile)
	endTok, ok := p.expect(lexer.KwEndWhile)
	if !ok {
		p.errorf(diagnostics.MissingTerminator, p.cur.Range, "end while", "while")
	}
	return &ast.While{Base: ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End}), Condition: cond, Body: body}
}

func (p *Parser) parseExitWhile() *ast.ExitWhile {
	start := p.cur.Range
	p.advance()
	return &ast.ExitWhile{Base: ast.NewBase(start)}
}

func (p *Parser) parseExitFor() *ast.ExitFor {
	start := p.cur.Range
	p.advance()
	return &ast.ExitFor{Base: ast.NewBase(start)}
}

func (p *Parser) parseFor() *ast.For {
	start := p.cur.Range.Start
	p.advance() // 'for'
	nameTok := p.expectIdentifierLike()
	if _, ok := p.expect(lexer.Equal); !ok {
		p.synchronize()
	}
	from := p.parseExpression(precLowestPrec())
	if _, ok := p.expect(lexer.KwTo); !ok {
		p.synchronize()
	}
	to := p.parseExpression(precLowestPrec())
	var step ast.Expression
	if p.curIs(lexer.KwStep) {
		p.advance()
		step = p.parseExpression(precLowestPrec())
	}
	body := p.parseBlockUntil(lexer.KwEndFor)
	endTok, ok := p.expect(lexer.KwEndFor)
	if !ok {
		p.errorf(diagnostics.MissingTerminator, p.cur.Range, "end for", "for")
	}
	return &ast.For{
		Base:     ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End}),
		Variable: nameTok.Text, From: from, To: to, Step: step, Body: body,
	}
}

func (p *Parser) parseForEach() *ast.ForEach {
	start := p.cur.Range.Start
	p.advance() // 'for each'
	nameTok := p.expectIdentifierLike()
	if _, ok := p.expect(lexer.KwIn); !ok {
		p.synchronize()
	}
	target := p.parseExpression(precLowestPrec())
	body := p.parseBlockUntil(lexer.KwEndFor)
	endTok, ok := p.expect(lexer.KwEndFor)
	if !ok {
		p.errorf(diagnostics.MissingTerminator, p.cur.Range, "end for", "for each")
	}
	return &ast.ForEach{
		Base:         ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End}),
		ItemVariable: nameTok.Text, Target: target, Body: body,
	}
}

func (p *Parser) parseReturn() *ast.Return {
	start := p.cur.Range
	p.advance() // 'return'
	if p.curIs(lexer.Newline) || p.curIs(lexer.Colon) || p.curIs(lexer.Eof) ||
		p.curIs(lexer.KwEndFunction) || p.curIs(lexer.KwEndSub) {
		return &ast.Return{Base: ast.NewBase(start)}
	}
	value := p.parseExpression(precLowestPrec())
	return &ast.Return{Base: ast.NewBase(lexer.Range{Start: start.Start, End: value.Range().End}), Value: value}
}

func (p *Parser) parseGoto() *ast.Goto {
	start := p.cur.Range.Start
	p.advance() // 'goto'
	nameTok := p.expectIdentifierLike()
	return &ast.Goto{Base: ast.NewBase(lexer.Range{Start: start, End: nameTok.Range.End}), Label: nameTok.Text}
}

func (p *Parser) parsePrint() *ast.Print {
	start := p.cur.Range.Start
	p.advance() // 'print'
	var args []ast.Expression
	for !p.curIs(lexer.Newline) && !p.curIs(lexer.Colon) && !p.curIs(lexer.Eof) {
		args = append(args, p.parseExpression(precLowestPrec()))
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.cur.Range.Start
	if len(args) > 0 {
		end = args[len(args)-1].Range().End
	}
	return &ast.Print{Base: ast.NewBase(lexer.Range{Start: start, End: end}), Args: args}
}

func (p *Parser) parseEnd() *ast.End {
	rng := p.cur.Range
	p.advance()
	return &ast.End{Base: ast.NewBase(rng)}
}

func (p *Parser) parseStop() *ast.Stop {
	rng := p.cur.Range
	p.advance()
	return &ast.Stop{Base: ast.NewBase(rng)}
}

func (p *Parser) parseDim() ast.Statement {
	// "dim NAME[(size)]" desugars to an assignment to a freshly-sized
	// array; modelled here as Assignment to keep a single downstream node
	// kind.
	start := p.cur.Range.Start
	p.advance() // 'dim'
	nameTok := p.expectIdentifierLike()
	var sizeExpr ast.Expression
	if p.curIs(lexer.LeftParen) {
		p.advance()
		sizeExpr = p.parseExpression(precLowestPrec())
		p.expect(lexer.RightParen)
	}
	target := &ast.Variable{Base: ast.NewBase(nameTok.Range), Name: nameTok.Text}
	value := ast.Expression(&ast.ArrayLiteral{Base: ast.NewBase(nameTok.Range)})
	if sizeExpr != nil {
		value = &ast.Call{
			Base:   ast.NewBase(lexer.Range{Start: start, End: sizeExpr.Range().End}),
			Callee: &ast.Variable{Base: ast.NewBase(nameTok.Range), Name: "CreateArray"},
			Args:   []ast.Expression{sizeExpr},
		}
	}
	return &ast.Assignment{Base: ast.NewBase(lexer.Range{Start: start, End: value.Range().End}), Target: target, Value: value}
}

// parseSuperCallStatement parses "super(args)", legal only as the first
// statement of a constructor body; placement itself is checked by the
// validator, not here.
func (p *Parser) parseSuperCallStatement() *ast.SuperCallStatement {
	start := p.cur.Range.Start
	p.advance() // 'super'
	var args []ast.Expression
	end := p.cur.Range.Start
	if _, ok := p.expect(lexer.LeftParen); ok {
		args, end = p.parseArgList()
	} else {
		p.synchronize()
	}
	return &ast.SuperCallStatement{Base: ast.NewBase(lexer.Range{Start: start, End: end}), Args: args}
}

// parseCommentStatement turns a Comment token into a standalone statement so
// source-preserving consumers (the transpiler's passthrough case) can keep
// it; a comment trailing code on the same line becomes the next sibling
// statement in the enclosing block rather than being attached to the
// previous one.
func (p *Parser) parseCommentStatement() *ast.CommentStatement {
	tok := p.cur
	p.advance()
	return &ast.CommentStatement{Base: ast.NewBase(tok.Range), Text: tok.Text}
}

func (p *Parser) expectIdentifierLike() lexer.Token {
	if p.cur.Kind == lexer.Identifier {
		tok := p.cur
		p.advance()
		return tok
	}
	if lexer.IsAllowedProperty(p.cur.LowerText()) {
		tok := p.cur
		p.advance()
		return tok
	}
	p.errorf(diagnostics.UnexpectedToken, p.cur.Range, p.cur.Text)
	tok := p.cur
	p.advance()
	return tok
}

func precLowestPrec() precedence { return precLowest }
