package parser

import (
	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/lexer"
)

var compoundAssignOps = map[lexer.TokenType]lexer.TokenType{
	lexer.PlusEqual:      lexer.Plus,
	lexer.MinusEqual:     lexer.Minus,
	lexer.StarEqual:      lexer.Star,
	lexer.SlashEqual:     lexer.Slash,
	lexer.BackslashEqual: lexer.Backslash,
	lexer.CaretEqual:     lexer.Caret,
	lexer.LeftShiftEqual: lexer.LeftShift,
	lexer.RightShiftEqual: lexer.RightShift,
}

// parseAssignmentOrExpressionStatement disambiguates between an assignment
// target (Variable/DottedGet/IndexedGet followed by '=' or a compound
// operator), an increment/decrement, and a bare expression statement
// (almost always a Call).
func (p *Parser) parseAssignmentOrExpressionStatement() ast.Statement {
	start := p.cur.Range.Start
	// Parse above relational precedence so a following '=' is left for the
	// assignment check below instead of being read as a comparison.
	expr := p.parseExpression(precRelational)
	if expr == nil {
		p.synchronize()
		return nil
	}

	switch p.cur.Kind {
	case lexer.Equal:
		p.advance()
		value := p.parseExpression(precLowest)
		return p.buildAssignment(start, expr, value)
	case lexer.PlusPlus, lexer.MinusMinus:
		return p.parseIncrement(start, expr)
	default:
		if opTok, ok := compoundAssignOps[p.cur.Kind]; ok {
			p.advance()
			rhs := p.parseExpression(precLowest)
			desugared := &ast.Binary{
				Base:     ast.NewBase(lexer.Range{Start: expr.Range().Start, End: rhs.Range().End}),
				Left:     expr, Operator: opTok, Right: rhs,
			}
			return p.buildAssignment(start, expr, desugared)
		}
	}

	// A bare expression statement continues through any lower-precedence
	// operators the target parse stopped at.
	for precedenceOf(p.cur.Kind) > precLowest {
		expr = p.parseInfix(expr, precedenceOf(p.cur.Kind))
	}
	return &ast.ExpressionStatement{Base: ast.NewBase(lexer.Range{Start: start, End: expr.Range().End}), Expr: expr}
}

func (p *Parser) buildAssignment(start lexer.Position, target, value ast.Expression) ast.Statement {
	end := value.Range().End
	rng := lexer.Range{Start: start, End: end}
	switch t := target.(type) {
	case *ast.Variable:
		return &ast.Assignment{Base: ast.NewBase(rng), Target: t, Value: value}
	case *ast.DottedGet:
		return &ast.DottedSet{Base: ast.NewBase(rng), Target: t.Target, Name: t.Name, Value: value}
	case *ast.IndexedGet:
		return &ast.IndexedSet{Base: ast.NewBase(rng), Target: t.Target, Index: t.Index, Value: value}
	default:
		p.errorf(diagnostics.UnexpectedToken, target.Range(), "assignment target")
		return &ast.ExpressionStatement{Base: ast.NewBase(rng), Expr: target}
	}
}

func (p *Parser) parseIncrement(start lexer.Position, target ast.Expression) ast.Statement {
	if _, ok := target.(*ast.Call); ok {
		p.errorf(diagnostics.IncrementOnCallResult, target.Range())
	}
	op := ast.Increment
	if p.cur.Kind == lexer.MinusMinus {
		op = ast.Decrement
	}
	end := p.cur.Range.End
	p.advance()
	if p.cur.Kind == lexer.PlusPlus || p.cur.Kind == lexer.MinusMinus {
		p.errorf(diagnostics.ConsecutiveIncrementDecrement, p.cur.Range)
	}
	return &ast.IncrementStatement{Base: ast.NewBase(lexer.Range{Start: start, End: end}), Target: target, Operator: op}
}
