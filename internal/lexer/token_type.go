package lexer

// TokenType identifies the lexical class of a Token. The ordering below
// groups literals, then keywords, then operators/punctuation; IsLiteral,
// IsKeyword and IsOperator rely on the group boundaries so new entries must
// be inserted inside the correct block, not appended at the end.
type TokenType int

const (
	Illegal TokenType = iota
	Eof
	Newline
	Comment

	literalStart
	Identifier
	IntegerLiteral
	LongIntegerLiteral
	FloatLiteral
	DoubleLiteral
	StringLiteral
	BooleanLiteral
	InvalidLiteral
	TemplateStringBegin
	TemplateStringMiddle
	TemplateStringEnd
	TemplateStringQuasi
	literalEnd

	keywordStart
	KwAnd
	KwAs
	KwClass
	KwDim
	KwEach
	KwElse
	KwElseIf
	KwEnd
	KwEndClass
	KwEndFor
	KwEndFunction
	KwEndIf
	KwEndSub
	KwEndWhile
	KwExit
	KwExitFor
	KwExitWhile
	KwExtends
	KwFalse
	KwFor
	KwForEach
	KwFunction
	KwGoto
	KwIf
	KwImport
	KwIn
	KwInvalid
	KwLibrary
	KwMod
	KwNew
	KwNot
	KwObject
	KwOr
	KwOverride
	KwPrint
	KwPrivate
	KwProtected
	KwPublic
	KwReturn
	KwStep
	KwStop
	KwSub
	KwSuper
	KwThen
	KwTo
	KwTrue
	KwWhile
	keywordEnd

	operatorStart
	Plus
	Minus
	Star
	Slash
	Backslash
	Caret
	Percent
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	BackslashEqual
	CaretEqual
	LeftShift
	RightShift
	LeftShiftEqual
	RightShiftEqual
	PlusPlus
	MinusMinus
	operatorEnd

	delimiterStart
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Colon
	Dot
	At
	Dollar
	delimiterEnd

	// Conditional-compilation markers, produced only by the preprocessor
	// stage inside the lexer and never seen by the parser in normal flow.
	HashConst
	HashIf
	HashElseIf
	HashElse
	HashEndIf
	HashError
)

var keywords = map[string]TokenType{
	"and":       KwAnd,
	"as":        KwAs,
	"class":     KwClass,
	"dim":       KwDim,
	"each":      KwEach,
	"else":      KwElse,
	"else if":   KwElseIf,
	"end":       KwEnd,
	"end class": KwEndClass,
	"end for":   KwEndFor,
	"end function": KwEndFunction,
	"end if":    KwEndIf,
	"end sub":   KwEndSub,
	"end while": KwEndWhile,
	"exit":      KwExit,
	"exit for":  KwExitFor,
	"exit while": KwExitWhile,
	"extends":   KwExtends,
	"false":     KwFalse,
	"for":       KwFor,
	"for each":  KwForEach,
	"function":  KwFunction,
	"goto":      KwGoto,
	"if":        KwIf,
	"import":    KwImport,
	"in":        KwIn,
	"invalid":   KwInvalid,
	"library":   KwLibrary,
	"mod":       KwMod,
	"new":       KwNew,
	"not":       KwNot,
	"object":    KwObject,
	"or":        KwOr,
	"override":  KwOverride,
	"print":     KwPrint,
	"private":   KwPrivate,
	"protected": KwProtected,
	"public":    KwPublic,
	"return":    KwReturn,
	"step":      KwStep,
	"stop":      KwStop,
	"sub":       KwSub,
	"super":     KwSuper,
	"then":      KwThen,
	"to":        KwTo,
	"true":      KwTrue,
	"while":     KwWhile,
}

// disallowedIdentifiers is the set of reserved words that may never be used
// as a local variable/parameter name, even though they lex as Identifier in
// some positions. A handful of multi-word keywords are deliberately absent
// here because the grammar already disambiguates them from identifier use.
var disallowedIdentifiers = map[string]bool{
	"and": true, "class": true, "dim": true, "each": true, "else": true,
	"end": true, "exit": true, "false": true, "for": true, "function": true,
	"goto": true, "if": true, "import": true, "in": true, "invalid": true,
	"library": true, "mod": true, "new": true, "not": true, "object": true,
	"or": true, "override": true, "print": true, "return": true, "step": true,
	"stop": true, "sub": true, "super": true, "then": true, "to": true, "true": true,
	"while": true,
}

// allowedProperties is the set of reserved words that may still be used as
// a dotted property name or AA-literal key. It includes "rem", which is
// allowed as a dotted property only, never as a brace-literal key:
// allowedAALiteralKeys below is this set without "rem" — see the
// lexer/parser asymmetry documented in DESIGN.md.
var allowedProperties = map[string]bool{
	"and": true, "as": true, "class": true, "dim": true, "each": true,
	"else": true, "end": true, "exit": true, "false": true, "for": true,
	"function": true, "goto": true, "if": true, "import": true, "in": true,
	"invalid": true, "library": true, "mod": true, "new": true, "not": true,
	"object": true, "or": true, "override": true, "print": true, "private": true,
	"protected": true, "public": true, "return": true, "step": true, "stop": true,
	"sub": true, "then": true, "to": true, "true": true, "while": true,
	"rem": true,
}

// allowedAALiteralKeys excludes "rem", unlike allowedProperties — see the
// Open Question decision recorded in DESIGN.md.
var allowedAALiteralKeys = func() map[string]bool {
	m := make(map[string]bool, len(allowedProperties))
	for k, v := range allowedProperties {
		if k == "rem" {
			continue
		}
		m[k] = v
	}
	return m
}()

func lookupKeyword(lower string) (TokenType, bool) {
	t, ok := keywords[lower]
	return t, ok
}

// IsDisallowedIdentifier reports whether lower (already lowercased) may not
// be used as a local variable or parameter name.
func IsDisallowedIdentifier(lower string) bool {
	return disallowedIdentifiers[lower]
}

// IsAllowedProperty reports whether lower may be used as a dotted property
// name, including reserved words on the allow-list.
func IsAllowedProperty(lower string) bool {
	if lower == "rem" {
		return true
	}
	return allowedProperties[lower]
}

// IsAllowedAALiteralKey reports whether lower may be used as a bare
// associative-array literal key (excludes "rem").
func IsAllowedAALiteralKey(lower string) bool {
	return allowedAALiteralKeys[lower]
}

func (t TokenType) IsLiteral() bool {
	return t > literalStart && t < literalEnd
}

func (t TokenType) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

func (t TokenType) IsOperator() bool {
	return t > operatorStart && t < operatorEnd
}

func (t TokenType) IsDelimiter() bool {
	return t > delimiterStart && t < delimiterEnd
}

var tokenTypeStrings = map[TokenType]string{
	Illegal: "Illegal", Eof: "Eof", Newline: "Newline", Comment: "Comment",
	Identifier: "Identifier", IntegerLiteral: "IntegerLiteral",
	LongIntegerLiteral: "LongIntegerLiteral", FloatLiteral: "FloatLiteral",
	DoubleLiteral: "DoubleLiteral", StringLiteral: "StringLiteral",
	BooleanLiteral: "BooleanLiteral", InvalidLiteral: "InvalidLiteral",
	TemplateStringBegin: "TemplateStringBegin", TemplateStringMiddle: "TemplateStringMiddle",
	TemplateStringEnd: "TemplateStringEnd", TemplateStringQuasi: "TemplateStringQuasi",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Backslash: "\\", Caret: "^",
	Percent: "%", Equal: "=", NotEqual: "<>", Less: "<", LessEqual: "<=",
	Greater: ">", GreaterEqual: ">=", PlusEqual: "+=", MinusEqual: "-=",
	StarEqual: "*=", SlashEqual: "/=", BackslashEqual: "\\=", CaretEqual: "^=",
	LeftShift: "<<", RightShift: ">>", LeftShiftEqual: "<<=", RightShiftEqual: ">>=",
	PlusPlus: "++", MinusMinus: "--",
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	LeftBracket: "[", RightBracket: "]", Comma: ",", Colon: ":", Dot: ".",
	At: "@", Dollar: "$",
	HashConst: "#const", HashIf: "#if", HashElseIf: "#else if", HashElse: "#else",
	HashEndIf: "#end if", HashError: "#error",
}

func (t TokenType) String() string {
	if s, ok := tokenTypeStrings[t]; ok {
		return s
	}
	for text, kw := range keywords {
		if kw == t {
			return text
		}
	}
	return "Unknown"
}
