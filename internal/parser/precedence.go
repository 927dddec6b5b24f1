package parser

import "github.com/starlight-tv/bsc/internal/lexer"

type precedence int

const (
	precLowest precedence = iota
	precOr
	precAnd
	precRelational
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precPostfix
)

var precedences = map[lexer.TokenType]precedence{
	lexer.KwOr:           precOr,
	lexer.KwAnd:          precAnd,
	lexer.Equal:          precRelational,
	lexer.NotEqual:       precRelational,
	lexer.Less:           precRelational,
	lexer.LessEqual:      precRelational,
	lexer.Greater:        precRelational,
	lexer.GreaterEqual:   precRelational,
	lexer.Plus:           precAdditive,
	lexer.Minus:          precAdditive,
	lexer.Star:           precMultiplicative,
	lexer.Slash:          precMultiplicative,
	lexer.Backslash:      precMultiplicative,
	lexer.KwMod:          precMultiplicative,
	lexer.Caret:          precExponent,
	lexer.LeftParen:      precPostfix,
	lexer.Dot:            precPostfix,
	lexer.LeftBracket:    precPostfix,
}

func precedenceOf(t lexer.TokenType) precedence {
	if p, ok := precedences[t]; ok {
		return p
	}
	return precLowest
}
