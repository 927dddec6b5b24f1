package parser

import (
	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/lexer"
)

// parseFunctionStatement parses a named "function NAME(...)"/"sub NAME(...)"
// declaration. access is unused outside class-member parsing, where the
// caller has already consumed an access modifier keyword.
func (p *Parser) parseFunctionStatement(_ ast.AccessModifier) *ast.FunctionStatement {
	start := p.cur.Range.Start
	isSub := p.curIs(lexer.KwSub)
	p.advance() // 'function'/'sub'
	nameTok := p.expectIdentifierLike()
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
	return &ast.FunctionStatement{
		Base:       ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End}),
		Name:       nameTok.Text,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		IsSub:      isSub,
	}
}
