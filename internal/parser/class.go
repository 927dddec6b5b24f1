package parser

import (
	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/lexer"
)

// parseClass parses "class NAME [extends PARENT]" followed by
// newline-separated fields and methods, terminated by "end class".
func (p *Parser) parseClass() *ast.ClassStatement {
	start := p.cur.Range.Start
	p.advance() // 'class'
	nameTok := p.expectIdentifierLike()

	var extends string
	if p.curIs(lexer.KwExtends) {
		p.advance()
		extendsTok := p.expectIdentifierLike()
		extends = extendsTok.Text
	}

	node := &ast.ClassStatement{Name: nameTok.Text, Extends: extends}

	p.skipNewlinesAndColons()
	for !p.curIs(lexer.KwEndClass) && !p.curIs(lexer.Eof) {
		access := p.parseOptionalAccessModifier()
		override := false
		if p.curIs(lexer.KwOverride) {
			override = true
			p.advance()
		}

		switch p.cur.Kind {
		case lexer.KwFunction, lexer.KwSub:
			fn := p.parseFunctionStatement(access)
			method := &ast.ClassMethod{
				Base:          ast.NewBase(fn.Range()),
				Function:      fn,
				Access:        access,
				Override:      override,
				IsConstructor: fn.Name == "new",
			}
			if method.IsConstructor && override {
				p.errorf(diagnostics.ConstructorCannotBeOverride, method.Range())
			}
			node.Methods = append(node.Methods, method)
		default:
			field := p.parseClassField(access)
			if override {
				p.errorf(diagnostics.UnexpectedToken, field.Range(), "override on a field")
			}
			node.Fields = append(node.Fields, field)
		}
		p.skipNewlinesAndColons()
	}

	endTok, ok := p.expect(lexer.KwEndClass)
	if !ok {
		p.errorf(diagnostics.MissingTerminator, p.cur.Range, "end class", "class")
	}
	node.Base = ast.NewBase(lexer.Range{Start: start, End: endTok.Range.End})
	return node
}

func (p *Parser) parseOptionalAccessModifier() ast.AccessModifier {
	switch p.cur.Kind {
	case lexer.KwPublic:
		p.advance()
		return ast.AccessPublic
	case lexer.KwPrivate:
		p.advance()
		return ast.AccessPrivate
	case lexer.KwProtected:
		p.advance()
		return ast.AccessProtected
	default:
		return ast.AccessPublic
	}
}

func (p *Parser) parseClassField(access ast.AccessModifier) *ast.ClassField {
	start := p.cur.Range.Start
	nameTok := p.expectIdentifierLike()
	field := &ast.ClassField{Name: nameTok.Text, Access: access}
	end := nameTok.Range.End
	if p.curIs(lexer.KwAs) {
		p.advance()
		typeTok := p.expectIdentifierLike()
		field.Type = typeTok.Text
		end = typeTok.Range.End
	}
	if p.curIs(lexer.Equal) {
		p.advance()
		field.Default = p.parseExpression(precLowest)
		end = field.Default.Range().End
	}
	field.Base = ast.NewBase(lexer.Range{Start: start, End: end})
	return field
}
