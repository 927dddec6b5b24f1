// Package parser turns a token stream from internal/lexer into an AST
// (internal/ast), using recursive descent with local error recovery.
package parser

import (
	"strconv"

	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/lexer"
)

// MaxArgs is the hard ceiling on call arguments and function parameters.
const MaxArgs = 255

// BlockContext names a kind of enclosing block. The parser keeps a stack
// of them (blockStack); synchronize() does not consult it.
type BlockContext int

const (
	BlockTopLevel BlockContext = iota
	BlockIf
	BlockWhile
	BlockFor
	BlockFunction
	BlockClass
)

// Parser consumes tokens from a single Lexer and produces a *ast.Program
// plus a diagnostics.Bag. It is not safe for concurrent use.
type Parser struct {
	lex      *lexer.Lexer
	fileName string
	Diags    *diagnostics.Bag

	cur  lexer.Token
	peek lexer.Token

	blockStack []BlockContext

	seenNonDirectiveStatement bool
}

// New constructs a Parser reading tokens from lex.
func New(lex *lexer.Lexer, fileName string) *Parser {
	p := &Parser{lex: lex, fileName: fileName, Diags: diagnostics.NewBag()}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
	if p.cur.Kind == lexer.Illegal {
		p.advance()
	}
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Kind == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Kind == t }

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, bool) {
	if p.cur.Kind == t {
		tok := p.cur
		p.advance()
		return tok, true
	}
	p.errorf(diagnostics.UnexpectedToken, p.cur.Range, p.cur.Text)
	return lexer.Token{}, false
}

func (p *Parser) errorf(code diagnostics.Code, rng lexer.Range, args ...any) {
	p.Diags.Addf(code, p.fileName, rng, args...)
}

func (p *Parser) pushBlock(b BlockContext) { p.blockStack = append(p.blockStack, b) }
func (p *Parser) popBlock() {
	if len(p.blockStack) > 0 {
		p.blockStack = p.blockStack[:len(p.blockStack)-1]
	}
}

// blockClosers is the set of tokens that terminate some block (used by
// synchronize to know when to stop skipping).
var blockClosers = map[lexer.TokenType]bool{
	lexer.KwEndIf: true, lexer.KwElse: true, lexer.KwElseIf: true,
	lexer.KwEndWhile: true, lexer.KwEndFor: true, lexer.KwEndSub: true,
	lexer.KwEndFunction: true, lexer.KwEndClass: true,
}

// statementStarters is the set of tokens that reliably begin a new
// top-level-shaped statement, used to recognise a synchronisation point
// even when no block closer is in scope.
var statementStarters = map[lexer.TokenType]bool{
	lexer.KwFunction: true, lexer.KwSub: true, lexer.KwIf: true,
	lexer.KwFor: true, lexer.KwForEach: true, lexer.KwWhile: true,
	lexer.KwPrint: true, lexer.KwReturn: true, lexer.KwClass: true,
	lexer.KwLibrary: true, lexer.KwImport: true, lexer.KwDim: true,
	lexer.KwGoto: true, lexer.KwStop: true, lexer.KwExit: true,
	lexer.KwSuper: true,
}

// synchronize discards tokens until a plausible recovery point: a Newline
// or Colon, any block closer (whatever block is open), or the start of a
// new statement. This mirrors the teacher's
// panic-mode recovery without needing actual panics/recover.
func (p *Parser) synchronize() {
	for {
		switch p.cur.Kind {
		case lexer.Eof:
			return
		case lexer.Newline, lexer.Colon:
			p.advance()
			return
		}
		if blockClosers[p.cur.Kind] || statementStarters[p.cur.Kind] {
			return
		}
		p.advance()
	}
}

func (p *Parser) skipNewlinesAndColons() {
	for p.cur.Kind == lexer.Newline || p.cur.Kind == lexer.Colon {
		p.advance()
	}
}

// ParseProgram parses the entire token stream.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.cur.Range.Start
	var statements []ast.Statement
	var libraries []*ast.LibraryStatement
	var imports []*ast.ImportStatement

	p.skipNewlinesAndColons()
	for !p.curIs(lexer.Eof) {
		if p.curIs(lexer.KwLibrary) {
			lib := p.parseLibraryStatement()
			if p.seenNonDirectiveStatement {
				p.errorf(diagnostics.LibraryNotAtTopOfFile, lib.Range())
			}
			libraries = append(libraries, lib)
			statements = append(statements, lib)
		} else if p.curIs(lexer.KwImport) {
			imp := p.parseImportStatement()
			if p.seenNonDirectiveStatement {
				p.errorf(diagnostics.ImportNotAtTopOfFile, imp.Range())
			}
			imports = append(imports, imp)
			statements = append(statements, imp)
		} else {
			stmt := p.parseStatement()
			if stmt != nil {
				p.seenNonDirectiveStatement = true
				statements = append(statements, stmt)
			}
		}
		p.skipNewlinesAndColons()
	}

	end := p.cur.Range.End
	prog := ast.NewProgram(lexer.Range{Start: start, End: end}, statements)
	prog.Libraries = libraries
	prog.Imports = imports
	return prog
}

func (p *Parser) parseLibraryStatement() *ast.LibraryStatement {
	start := p.cur.Range.Start
	p.advance() // 'library'
	pathTok, ok := p.expect(lexer.StringLiteral)
	if !ok {
		p.synchronize()
		return &ast.LibraryStatement{}
	}
	if pathTok.Text == "" {
		p.errorf(diagnostics.EmptyLibraryString, pathTok.Range)
	}
	return &ast.LibraryStatement{
		Base: ast.NewBase(lexer.Range{Start: start, End: pathTok.Range.End}),
		Path:     pathTok.Text,
	}
}

func (p *Parser) parseImportStatement() *ast.ImportStatement {
	start := p.cur.Range.Start
	p.advance() // 'import'
	pathTok, ok := p.expect(lexer.StringLiteral)
	if !ok {
		p.synchronize()
		return &ast.ImportStatement{}
	}
	return &ast.ImportStatement{
		Base: ast.NewBase(lexer.Range{Start: start, End: pathTok.Range.End}),
		Path:     pathTok.Text,
	}
}
