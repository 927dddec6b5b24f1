package parser

import (
	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/lexer"
)

// Parse lexes and parses src in one step, merging lexer diagnostics ahead
// of parser diagnostics so callers see problems in source order.
func Parse(src, fileName string, opts ...lexer.LexerOption) (*ast.Program, *diagnostics.Bag) {
	lex, err := lexer.New(src, append(opts, lexer.WithFileName(fileName))...)
	bag := diagnostics.NewBag()
	if err != nil {
		bag.Add(diagnostics.New(diagnostics.FileUnreadable, fileName, lexer.Range{}, err.Error()))
		return ast.NewProgram(lexer.Range{}, nil), bag
	}
	p := New(lex, fileName)
	prog := p.ParseProgram()
	// The lexer is pulled lazily by the parser, so its diagnostics are only
	// complete once parsing has finished.
	for _, d := range lex.Diagnostics {
		bag.Add(diagnostics.NewRaw(lexerCodeFor(d.Code), fileName, d.Range, d.Message))
	}
	for _, d := range p.Diags.All() {
		bag.Add(d)
	}
	return prog, bag
}

func lexerCodeFor(code string) diagnostics.Code {
	switch code {
	case "unexpectedCharacter":
		return diagnostics.UnexpectedCharacter
	case "malformedNumericLiteral":
		return diagnostics.MalformedNumericLiteral
	case "malformedHexLiteral":
		return diagnostics.MalformedHexLiteral
	case "malformedBinaryLiteral":
		return diagnostics.MalformedBinaryLiteral
	case "unterminatedStringAtEol":
		return diagnostics.UnterminatedStringAtEol
	case "unterminatedStringAtEof":
		return diagnostics.UnterminatedStringAtEof
	case "unterminatedTemplateString":
		return diagnostics.UnterminatedTemplateString
	case "unknownHashConstName":
		return diagnostics.UnknownHashConstName
	case "invalidHashConstValue":
		return diagnostics.InvalidHashConstValue
	case "hashError":
		return diagnostics.HashErrorDirective
	case "danglingElseIf":
		return diagnostics.DanglingElseIf
	case "danglingElse":
		return diagnostics.DanglingElse
	case "danglingEndIf":
		return diagnostics.DanglingEndIf
	default:
		return diagnostics.UnexpectedCharacter
	}
}
