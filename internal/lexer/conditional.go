package lexer

import "strings"

// tryConditionalDirective attempts to recognise a '#'-prefixed preprocessor
// line at the start of a line. It returns ok=false if '#' is not actually a
// directive (there are none in this dialect that aren't line-initial, so
// ok is false only when the directive keyword itself is unrecognised).
func (l *Lexer) tryConditionalDirective() (Token, bool) {
	start := l.currentPos()
	saved := l.saveState()
	l.readChar() // consume '#'

	word := l.readBareWord()
	switch word {
	case "const":
		return l.finishHashConst(start)
	case "if":
		return l.finishHashIf(start)
	case "else":
		saved2 := l.saveState()
		l.skipWhitespaceExceptNewline()
		if toLowerASCII(l.readBareWordPeek()) == "if" {
			l.readBareWord()
			return l.finishHashElseIf(start)
		}
		l.restoreState(saved2)
		return l.finishHashElse(start)
	case "end":
		l.skipWhitespaceExceptNewline()
		if toLowerASCII(l.readBareWordPeek()) == "if" {
			l.readBareWord()
		}
		return l.finishHashEndIf(start)
	case "error":
		return l.finishHashError(start)
	default:
		l.restoreState(saved)
		return Token{}, false
	}
}

func (l *Lexer) readBareWord() string {
	var sb strings.Builder
	for isAlnum(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return toLowerASCII(sb.String())
}

func (l *Lexer) readBareWordPeek() string {
	saved := l.saveState()
	word := l.readBareWord()
	l.restoreState(saved)
	return word
}

func (l *Lexer) restOfLine() string {
	var sb strings.Builder
	for l.ch != '\n' && l.ch != 0 {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return strings.TrimSpace(sb.String())
}

func (l *Lexer) finishHashConst(start Position) (Token, bool) {
	l.skipWhitespaceExceptNewline()
	name := l.readBareWord()
	l.skipWhitespaceExceptNewline()
	if l.ch == '=' {
		l.readChar()
	}
	l.skipWhitespaceExceptNewline()
	valueWord := l.readBareWord()

	switch valueWord {
	case "true":
		l.condConsts[name] = true
	case "false":
		l.condConsts[name] = false
	default:
		if v, ok := l.condConsts[valueWord]; ok {
			l.condConsts[name] = v
		} else {
			l.errorf(Range{Start: start, End: l.currentPos()}, "invalidHashConstValue",
				"#const value must be true, false, or a previously defined name, got %q", valueWord)
		}
	}
	return Token{Kind: HashConst, Text: name, Range: Range{Start: start, End: l.currentPos()}}, true
}

func (l *Lexer) evalCondName(start Position) bool {
	name := l.readBareWord()
	if v, ok := l.condConsts[name]; ok {
		return v
	}
	l.errorf(Range{Start: start, End: l.currentPos()}, "unknownHashConstName", "unknown conditional-compilation name %q", name)
	return false
}

func (l *Lexer) finishHashIf(start Position) (Token, bool) {
	l.skipWhitespaceExceptNewline()
	negate := false
	if toLowerASCII(l.readBareWordPeek()) == "not" {
		negate = true
		l.readBareWord()
		l.skipWhitespaceExceptNewline()
	}
	value := l.evalCondName(l.currentPos())
	if negate {
		value = !value
	}

	parentOff := l.suppressed()
	l.condStack = append(l.condStack, condFrame{active: value && !parentOff, taken: value, parentOff: parentOff})
	return Token{Kind: HashIf, Range: Range{Start: start, End: l.currentPos()}}, true
}

func (l *Lexer) finishHashElseIf(start Position) (Token, bool) {
	if len(l.condStack) == 0 {
		l.errorf(Range{Start: start, End: l.currentPos()}, "danglingElseIf", "#else if with no matching #if")
		return Token{Kind: HashElseIf, Range: Range{Start: start, End: l.currentPos()}}, true
	}
	l.skipWhitespaceExceptNewline()
	value := l.evalCondName(l.currentPos())
	top := &l.condStack[len(l.condStack)-1]
	if top.taken || top.parentOff {
		top.active = false
	} else {
		top.active = value
		top.taken = value
	}
	return Token{Kind: HashElseIf, Range: Range{Start: start, End: l.currentPos()}}, true
}

func (l *Lexer) finishHashElse(start Position) (Token, bool) {
	if len(l.condStack) == 0 {
		l.errorf(Range{Start: start, End: l.currentPos()}, "danglingElse", "#else with no matching #if")
		return Token{Kind: HashElse, Range: Range{Start: start, End: l.currentPos()}}, true
	}
	top := &l.condStack[len(l.condStack)-1]
	top.active = !top.taken && !top.parentOff
	top.taken = true
	return Token{Kind: HashElse, Range: Range{Start: start, End: l.currentPos()}}, true
}

func (l *Lexer) finishHashEndIf(start Position) (Token, bool) {
	if len(l.condStack) == 0 {
		l.errorf(Range{Start: start, End: l.currentPos()}, "danglingEndIf", "#end if with no matching #if")
		return Token{Kind: HashEndIf, Range: Range{Start: start, End: l.currentPos()}}, true
	}
	l.condStack = l.condStack[:len(l.condStack)-1]
	return Token{Kind: HashEndIf, Range: Range{Start: start, End: l.currentPos()}}, true
}

func (l *Lexer) finishHashError(start Position) (Token, bool) {
	l.skipWhitespaceExceptNewline()
	msg := l.restOfLine()
	if !l.suppressed() {
		l.errorf(Range{Start: start, End: l.currentPos()}, "hashError", "%s", msg)
	}
	return Token{Kind: HashError, Text: msg, Range: Range{Start: start, End: l.currentPos()}}, true
}
