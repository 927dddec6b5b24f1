// Package lexer turns BASIC-dialect source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Diagnostic is the minimal shape the lexer needs to report a problem
// without importing internal/diagnostics (which would create a cycle if the
// registry ever wants lexer.Range for its own formatting). parser.Parse
// adapts these into diagnostics.Diagnostic, mapping Code to a registered
// diagnostics.Code.
type Diagnostic struct {
	Code    string
	Message string
	Range   Range
}

// LexerError is returned by New when construction itself fails (it never
// does today, but the shape matches the teacher's error-returning New for
// forward compatibility with stricter source validation).
type LexerError struct {
	Message string
}

func (e *LexerError) Error() string { return e.Message }

// LexerOption configures a Lexer at construction time.
type LexerOption func(*Lexer)

// WithFileName attaches a logical file name used only for diagnostic text.
func WithFileName(name string) LexerOption {
	return func(l *Lexer) { l.fileName = name }
}

// WithDefines seeds the conditional-compilation symbol table (equivalent to
// #const NAME = true/false declared externally, e.g. from bsconfig).
func WithDefines(defines map[string]bool) LexerOption {
	return func(l *Lexer) {
		for k, v := range defines {
			l.condConsts[toLowerASCII(k)] = v
		}
	}
}

// state is the minimal snapshot needed by saveState/restoreState to support
// character lookahead that must be undone (used by multi-word keyword
// merging and conditional-directive probing).
type state struct {
	pos     int
	line    int
	col     int
	ch      byte
	nextCh  byte
	hasNext bool
}

// Lexer tokenises one file's source text. It is not safe for concurrent
// use; the pipeline creates one Lexer per file.
type Lexer struct {
	input    string
	fileName string

	pos  int
	line int
	col  int

	ch      byte
	nextCh  byte
	hasNext bool

	condConsts map[string]bool
	condStack  []condFrame

	tokenHandlers map[byte]func() Token

	lookahead []Token

	Diagnostics []Diagnostic

	templateDepth int
}

type condFrame struct {
	active    bool // whether tokens are currently being emitted
	taken     bool // whether some branch in this #if chain already matched
	parentOff bool // true if an enclosing frame is itself inactive
}

// New constructs a Lexer over src. BOM is stripped if present.
func New(src string, opts ...LexerOption) (*Lexer, error) {
	src = strings.TrimPrefix(src, "\xef\xbb\xbf")
	src = norm.NFC.String(src)

	l := &Lexer{
		input:      src,
		line:       1,
		col:        0,
		condConsts: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.tokenHandlers = map[byte]func() Token{
		'+': l.handlePlus, '-': l.handleMinus, '*': l.handleAsterisk,
		'/': l.handleSlash, '%': l.handlePercent, '=': l.handleEquals,
		'<': l.handleLess, '>': l.handleGreater, '\\': l.handleBackslash,
		'^': l.handleCaret, '@': l.handleAt,
	}
	l.readChar()
	return l, nil
}

func (l *Lexer) readChar() {
	// Advance the position past the character being left behind, so the new
	// current character carries its own (line, column).
	if l.pos > 0 {
		if l.ch == '\n' {
			l.line++
			l.col = 0
		} else {
			l.col++
		}
	}
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	if l.pos+1 < len(l.input) {
		l.nextCh = l.input[l.pos+1]
		l.hasNext = true
	} else {
		l.nextCh = 0
		l.hasNext = false
	}
	l.pos++
}

func (l *Lexer) peekChar() byte {
	return l.ch
}

func (l *Lexer) peekCharN(n int) byte {
	idx := l.pos - 1 + n
	if idx < 0 || idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func (l *Lexer) matchAndConsume(expected byte) bool {
	if l.nextCh == expected {
		l.readChar()
		return true
	}
	return false
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col}
}

func (l *Lexer) saveState() state {
	return state{pos: l.pos, line: l.line, col: l.col, ch: l.ch, nextCh: l.nextCh, hasNext: l.hasNext}
}

func (l *Lexer) restoreState(s state) {
	l.pos, l.line, l.col, l.ch, l.nextCh, l.hasNext = s.pos, s.line, s.col, s.ch, s.nextCh, s.hasNext
}

// Peek returns the token n positions ahead without consuming it (Peek(0) is
// the next token to be returned by NextToken).
func (l *Lexer) Peek(n int) Token {
	for len(l.lookahead) <= n {
		l.lookahead = append(l.lookahead, l.nextTokenInternal())
	}
	return l.lookahead[n]
}

// NextToken returns and consumes the next token.
func (l *Lexer) NextToken() Token {
	if len(l.lookahead) > 0 {
		t := l.lookahead[0]
		l.lookahead = l.lookahead[1:]
		return t
	}
	return l.nextTokenInternal()
}

// TokenizeAll lexes the whole input, always ending with an Eof token.
func (l *Lexer) TokenizeAll() []Token {
	var toks []Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Kind == Eof {
			break
		}
	}
	return toks
}

func (l *Lexer) errorf(rng Range, code, format string, args ...any) {
	l.Diagnostics = append(l.Diagnostics, Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Range:   rng,
	})
}

func (l *Lexer) suppressed() bool {
	for _, f := range l.condStack {
		if !f.active {
			return true
		}
	}
	return false
}

func (l *Lexer) nextTokenInternal() Token {
	for {
		l.skipWhitespaceExceptNewline()

		if l.ch == '#' && l.col == 0 {
			if tok, ok := l.tryConditionalDirective(); ok {
				if l.suppressed() {
					continue
				}
				return tok
			}
		}

		if l.suppressed() {
			if l.ch == 0 {
				return Token{Kind: Eof, Range: Range{Start: l.currentPos(), End: l.currentPos()}}
			}
			l.readChar()
			continue
		}

		start := l.currentPos()

		switch {
		case l.ch == 0:
			return Token{Kind: Eof, Range: Range{Start: start, End: start}}
		case l.ch == '\n':
			l.readChar()
			return Token{Kind: Newline, Text: "\n", Range: Range{Start: start, End: l.currentPos()}}
		case l.ch == '\'':
			return l.readLineComment(start, "")
		case isLetter(l.ch):
			return l.readIdentifierOrKeyword(start)
		case isDigit(l.ch):
			return l.readNumber(start)
		case l.ch == '&' && (l.nextCh == 'h' || l.nextCh == 'H' || l.nextCh == 'b' || l.nextCh == 'B'):
			return l.readNumber(start)
		case l.ch == '"':
			return l.readString(start)
		case l.ch == '`':
			return l.readTemplateOpen(start)
		case l.ch == '(':
			return l.single(start, LeftParen)
		case l.ch == ')':
			return l.single(start, RightParen)
		case l.ch == '{':
			return l.single(start, LeftBrace)
		case l.ch == '}':
			return l.single(start, RightBrace)
		case l.ch == '[':
			return l.single(start, LeftBracket)
		case l.ch == ']':
			return l.single(start, RightBracket)
		case l.ch == ',':
			return l.single(start, Comma)
		case l.ch == ':':
			return l.single(start, Colon)
		case l.ch == '.':
			if isDigit(l.nextCh) {
				return l.readNumber(start)
			}
			return l.single(start, Dot)
		case l.ch == '$':
			return l.single(start, Dollar)
		}

		if handler, ok := l.tokenHandlers[l.ch]; ok {
			return handler()
		}

		ch := l.ch
		l.readChar()
		l.errorf(Range{Start: start, End: l.currentPos()}, "unexpectedCharacter", "unexpected character %q", ch)
		return Token{Kind: Illegal, Text: string(ch), Range: Range{Start: start, End: l.currentPos()}}
	}
}

func (l *Lexer) single(start Position, kind TokenType) Token {
	text := string(l.ch)
	l.readChar()
	return Token{Kind: kind, Text: text, Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) skipWhitespaceExceptNewline() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// readLineComment reads a comment body up to (not including) the closing
// newline or EOF. prefix is prepended to Text as-is, for the "rem"/"REM"
// case where the keyword text was already consumed by the caller.
func (l *Lexer) readLineComment(start Position, prefix string) Token {
	var sb strings.Builder
	sb.WriteString(prefix)
	for l.ch != '\n' && l.ch != 0 {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return Token{Kind: Comment, Text: sb.String(), Range: Range{Start: start, End: l.currentPos()}}
}

func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isAlnum(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

func (l *Lexer) readIdentifierOrKeyword(start Position) Token {
	startOff := l.pos - 1
	var sb strings.Builder
	for isAlnum(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	text := sb.String()
	lower := toLowerASCII(text)

	// rem/REM is a comment, not a keyword-as-identifier collision. The
	// keyword text itself was already consumed above, so it's carried
	// through as the comment's prefix rather than lost. Directly after a '.'
	// it is a property name instead (x.rem).
	if lower == "rem" && !(startOff > 0 && l.input[startOff-1] == '.') {
		return l.readLineComment(start, text)
	}

	designator := NoDesignator
	switch l.ch {
	case '$', '%', '!', '#', '&':
		designator = TypeDesignator(l.ch)
		text += string(l.ch)
		l.readChar()
	}

	if mergedText, mergedLower, ok := l.tryMergeMultiWordKeyword(lower); ok {
		text = mergedText
		lower = mergedLower
	}

	if kw, ok := lookupKeyword(lower); ok {
		return Token{Kind: kw, Text: text, Range: Range{Start: start, End: l.currentPos()}, IsReserved: true}
	}

	return Token{Kind: Identifier, Text: text, Range: Range{Start: start, End: l.currentPos()}, Designator: designator}
}

// multiWordKeywords maps a first word to the set of second words that, when
// separated only by horizontal whitespace (never a newline), merge into a
// single keyword token.
var multiWordKeywords = map[string]map[string]string{
	"end":  {"if": "end if", "for": "end for", "while": "end while", "sub": "end sub", "function": "end function", "class": "end class"},
	"else": {"if": "else if"},
	"for":  {"each": "for each"},
	"exit": {"for": "exit for", "while": "exit while"},
}

func (l *Lexer) tryMergeMultiWordKeyword(firstLower string) (text, lower string, ok bool) {
	second, hasSecond := multiWordKeywords[firstLower]
	if !hasSecond {
		return "", "", false
	}
	saved := l.saveState()
	l.skipWhitespaceExceptNewline()
	if !isLetter(l.ch) {
		l.restoreState(saved)
		return "", "", false
	}
	var sb strings.Builder
	for isAlnum(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	word := toLowerASCII(sb.String())
	if merged, found := second[word]; found {
		return merged, merged, true
	}
	l.restoreState(saved)
	return "", "", false
}

func (l *Lexer) readNumber(start Position) Token {
	if l.ch == '&' && (l.nextCh == 'h' || l.nextCh == 'H') {
		return l.readHexNumber(start)
	}
	if l.ch == '&' && (l.nextCh == 'b' || l.nextCh == 'B') {
		return l.readBinaryNumber(start)
	}
	return l.readDecimalNumber(start)
}

func (l *Lexer) readHexNumber(start Position) Token {
	l.readChar() // '&'
	l.readChar() // 'h'/'H'
	var sb strings.Builder
	for isHexDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	designator := l.consumeIntDesignator()
	text := "&h" + sb.String()
	v, err := strconv.ParseInt(sb.String(), 16, 64)
	if err != nil {
		l.errorf(Range{Start: start, End: l.currentPos()}, "malformedHexLiteral", "malformed hex literal %q", text)
		return Token{Kind: InvalidLiteral, Text: text, Range: Range{Start: start, End: l.currentPos()}}
	}
	return Token{Kind: literalKindForInt(designator), Text: text, Literal: v, Designator: designator, Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) readBinaryNumber(start Position) Token {
	l.readChar() // '&'
	l.readChar() // 'b'/'B'
	var sb strings.Builder
	for l.ch == '0' || l.ch == '1' {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	designator := l.consumeIntDesignator()
	text := "&b" + sb.String()
	v, err := strconv.ParseInt(sb.String(), 2, 64)
	if err != nil {
		l.errorf(Range{Start: start, End: l.currentPos()}, "malformedBinaryLiteral", "malformed binary literal %q", text)
		return Token{Kind: InvalidLiteral, Text: text, Range: Range{Start: start, End: l.currentPos()}}
	}
	return Token{Kind: literalKindForInt(designator), Text: text, Literal: v, Designator: designator, Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) consumeIntDesignator() TypeDesignator {
	switch l.ch {
	case '%', '&':
		d := TypeDesignator(l.ch)
		l.readChar()
		return d
	}
	return NoDesignator
}

func literalKindForInt(d TypeDesignator) TokenType {
	if d == LongDesignator {
		return LongIntegerLiteral
	}
	return IntegerLiteral
}

func (l *Lexer) readDecimalNumber(start Position) Token {
	var sb strings.Builder
	isFloat := false

	for isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.nextCh) {
		isFloat = true
		sb.WriteByte(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		sb.WriteByte(l.ch)
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			sb.WriteByte(l.ch)
			l.readChar()
		}
		for isDigit(l.ch) {
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}

	designator := NoDesignator
	switch l.ch {
	case '#':
		designator = DoubleDesignator
		isFloat = true
		l.readChar()
	case '!':
		designator = FloatDesignator
		isFloat = true
		l.readChar()
	case '&':
		designator = LongDesignator
		l.readChar()
	case '%':
		designator = IntegerDesignator
		l.readChar()
	}

	text := sb.String()
	end := l.currentPos()

	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.errorf(Range{Start: start, End: end}, "malformedNumericLiteral", "malformed numeric literal %q", text)
			return Token{Kind: InvalidLiteral, Text: text, Range: Range{Start: start, End: end}}
		}
		kind := FloatLiteral
		if designator == DoubleDesignator {
			kind = DoubleLiteral
		}
		return Token{Kind: kind, Text: text, Literal: v, Designator: designator, Range: Range{Start: start, End: end}}
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.errorf(Range{Start: start, End: end}, "malformedNumericLiteral", "malformed numeric literal %q", text)
		return Token{Kind: InvalidLiteral, Text: text, Range: Range{Start: start, End: end}}
	}
	return Token{Kind: literalKindForInt(designator), Text: text, Literal: v, Designator: designator, Range: Range{Start: start, End: end}}
}

func (l *Lexer) readString(start Position) Token {
	l.readChar() // opening quote
	var sb strings.Builder
	for {
		if l.ch == 0 {
			l.errorf(Range{Start: start, End: l.currentPos()}, "unterminatedStringAtEof", "unterminated string literal at end of file")
			return Token{Kind: InvalidLiteral, Text: sb.String(), Range: Range{Start: start, End: l.currentPos()}}
		}
		if l.ch == '\n' {
			l.errorf(Range{Start: start, End: l.currentPos()}, "unterminatedStringAtEol", "unterminated string literal at end of line")
			return Token{Kind: InvalidLiteral, Text: sb.String(), Range: Range{Start: start, End: l.currentPos()}}
		}
		if l.ch == '"' {
			if l.nextCh == '"' {
				sb.WriteByte('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // closing quote
			break
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return Token{Kind: StringLiteral, Text: sb.String(), Literal: sb.String(), Range: Range{Start: start, End: l.currentPos()}}
}

// readTemplateOpen begins a backtick template string. Only the literal
// prefix up to the first "${" (or the closing backtick) is consumed here;
// the parser drives further Peek/NextToken calls through the interpolated
// expression and calls back via Lexer state implicitly maintained on the
// cursor, matching how the rest of the token stream is produced.
func (l *Lexer) readTemplateOpen(start Position) Token {
	l.readChar() // opening backtick
	return l.readTemplateChunk(start, TemplateStringBegin, TemplateStringQuasi)
}

func (l *Lexer) readTemplateChunk(start Position, openKind, closeKind TokenType) Token {
	var sb strings.Builder
	for {
		switch {
		case l.ch == 0:
			l.errorf(Range{Start: start, End: l.currentPos()}, "unterminatedTemplateString", "unterminated template string")
			return Token{Kind: closeKind, Text: sb.String(), Literal: sb.String(), Range: Range{Start: start, End: l.currentPos()}}
		case l.ch == '`':
			l.readChar()
			return Token{Kind: closeKind, Text: sb.String(), Literal: sb.String(), Range: Range{Start: start, End: l.currentPos()}}
		case l.ch == '$' && l.nextCh == '{':
			l.readChar()
			l.readChar()
			l.templateDepth++
			return Token{Kind: openKind, Text: sb.String(), Literal: sb.String(), Range: Range{Start: start, End: l.currentPos()}}
		case l.ch == '\\' && l.nextCh == '`':
			sb.WriteByte('`')
			l.readChar()
			l.readChar()
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// ResumeTemplateAfterBrace is called by the parser once it has consumed a
// balanced "}" closing an interpolated expression, to resume scanning the
// next literal chunk of the enclosing template string.
func (l *Lexer) ResumeTemplateAfterBrace(start Position) Token {
	l.templateDepth--
	return l.readTemplateChunk(start, TemplateStringMiddle, TemplateStringEnd)
}

func (l *Lexer) handlePlus() Token {
	start := l.currentPos()
	if l.nextCh == '+' {
		l.readChar()
		l.readChar()
		return Token{Kind: PlusPlus, Text: "++", Range: Range{Start: start, End: l.currentPos()}}
	}
	if l.matchAndConsume('=') {
		l.readChar()
		return Token{Kind: PlusEqual, Text: "+=", Range: Range{Start: start, End: l.currentPos()}}
	}
	l.readChar()
	return Token{Kind: Plus, Text: "+", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handleMinus() Token {
	start := l.currentPos()
	if l.nextCh == '-' {
		l.readChar()
		l.readChar()
		return Token{Kind: MinusMinus, Text: "--", Range: Range{Start: start, End: l.currentPos()}}
	}
	if l.matchAndConsume('=') {
		l.readChar()
		return Token{Kind: MinusEqual, Text: "-=", Range: Range{Start: start, End: l.currentPos()}}
	}
	l.readChar()
	return Token{Kind: Minus, Text: "-", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handleAsterisk() Token {
	start := l.currentPos()
	if l.matchAndConsume('=') {
		l.readChar()
		return Token{Kind: StarEqual, Text: "*=", Range: Range{Start: start, End: l.currentPos()}}
	}
	l.readChar()
	return Token{Kind: Star, Text: "*", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handleSlash() Token {
	start := l.currentPos()
	if l.nextCh == '\'' {
		// no C-style comments in this dialect; fallthrough to operator.
	}
	if l.matchAndConsume('=') {
		l.readChar()
		return Token{Kind: SlashEqual, Text: "/=", Range: Range{Start: start, End: l.currentPos()}}
	}
	l.readChar()
	return Token{Kind: Slash, Text: "/", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handleBackslash() Token {
	start := l.currentPos()
	if l.matchAndConsume('=') {
		l.readChar()
		return Token{Kind: BackslashEqual, Text: "\\=", Range: Range{Start: start, End: l.currentPos()}}
	}
	l.readChar()
	return Token{Kind: Backslash, Text: "\\", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handleCaret() Token {
	start := l.currentPos()
	if l.matchAndConsume('=') {
		l.readChar()
		return Token{Kind: CaretEqual, Text: "^=", Range: Range{Start: start, End: l.currentPos()}}
	}
	l.readChar()
	return Token{Kind: Caret, Text: "^", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handlePercent() Token {
	start := l.currentPos()
	l.readChar()
	return Token{Kind: Percent, Text: "%", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handleEquals() Token {
	start := l.currentPos()
	l.readChar()
	return Token{Kind: Equal, Text: "=", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handleLess() Token {
	start := l.currentPos()
	if l.nextCh == '>' {
		l.readChar()
		l.readChar()
		return Token{Kind: NotEqual, Text: "<>", Range: Range{Start: start, End: l.currentPos()}}
	}
	if l.nextCh == '=' {
		l.readChar()
		l.readChar()
		return Token{Kind: LessEqual, Text: "<=", Range: Range{Start: start, End: l.currentPos()}}
	}
	if l.nextCh == '<' {
		l.readChar()
		if l.nextCh == '=' {
			l.readChar()
			l.readChar()
			return Token{Kind: LeftShiftEqual, Text: "<<=", Range: Range{Start: start, End: l.currentPos()}}
		}
		l.readChar()
		return Token{Kind: LeftShift, Text: "<<", Range: Range{Start: start, End: l.currentPos()}}
	}
	l.readChar()
	return Token{Kind: Less, Text: "<", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handleGreater() Token {
	start := l.currentPos()
	if l.nextCh == '=' {
		l.readChar()
		l.readChar()
		return Token{Kind: GreaterEqual, Text: ">=", Range: Range{Start: start, End: l.currentPos()}}
	}
	if l.nextCh == '>' {
		l.readChar()
		if l.nextCh == '=' {
			l.readChar()
			l.readChar()
			return Token{Kind: RightShiftEqual, Text: ">>=", Range: Range{Start: start, End: l.currentPos()}}
		}
		l.readChar()
		return Token{Kind: RightShift, Text: ">>", Range: Range{Start: start, End: l.currentPos()}}
	}
	l.readChar()
	return Token{Kind: Greater, Text: ">", Range: Range{Start: start, End: l.currentPos()}}
}

func (l *Lexer) handleAt() Token {
	start := l.currentPos()
	l.readChar()
	return Token{Kind: At, Text: "@", Range: Range{Start: start, End: l.currentPos()}}
}
