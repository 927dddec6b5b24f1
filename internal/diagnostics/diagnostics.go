// Package diagnostics is the central registry of compiler diagnostic kinds.
// Every other package reports problems through this registry rather than
// constructing ad hoc error strings, so codes and severities stay stable.
package diagnostics

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/starlight-tv/bsc/internal/lexer"
)

// Severity classifies how serious a Diagnostic is.
type Severity int

const (
	Error Severity = iota
	Warning
	Hint
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Hint:
		return "hint"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Code is a stable numeric diagnostic identifier. Removing an entry from
// the registry, or renumbering one, is a breaking change — see DESIGN.md.
type Code uint16

const (
	UnexpectedCharacter Code = 1000 + iota
	MalformedNumericLiteral
	MalformedHexLiteral
	MalformedBinaryLiteral
	UnterminatedStringAtEol
	UnterminatedStringAtEof
	UnterminatedTemplateString
	UnknownHashConstName
	InvalidHashConstValue
	HashErrorDirective
	DanglingElseIf
	DanglingElse
	DanglingEndIf
)

const (
	MissingTerminator Code = 2000 + iota
	MismatchedEndKeyword
	UnexpectedToken
	CannotUseReservedWordAsIdentifier
	InvalidFunctionParameterType
	TooManyCallableParameters
	RequiredParameterAfterOptional
	ConsecutiveIncrementDecrement
	IncrementOnCallResult
	EmptyLibraryString
	LibraryNotAtTopOfFile
	ImportNotAtTopOfFile
	MissingColonBeforeSingleLineEndIf
	InvalidAssociativeArrayKey
	RemNotAllowedAsLiteralKey
	DuplicateClassMember
)

const (
	CallToUnknownFunction Code = 3000 + iota
	DuplicateFunctionImplementation
	OverridesAncestorFunction
	DuplicateClassDeclaration
	NamespacedClassCannotShareNameWithNonNamespacedClass
	UnknownClassInNewExpression
	MethodOverridesNothingInAncestor
	ConstructorCannotBeOverride
	FieldCannotOverrideAncestorField
	ArgumentCountMismatch
	ImportPathCaseMismatch
	SuperCallMustBeFirstStatement
)

const (
	FileUnreadable Code = 4000 + iota
)

// Template is the registered shape for one diagnostic Code: its default
// severity and a printf-style message format.
type Template struct {
	Severity Severity
	Format   string
}

var registry = map[Code]Template{
	UnexpectedCharacter:        {Error, "unexpected character %q"},
	MalformedNumericLiteral:    {Error, "malformed numeric literal %q"},
	MalformedHexLiteral:        {Error, "malformed hex literal %q"},
	MalformedBinaryLiteral:     {Error, "malformed binary literal %q"},
	UnterminatedStringAtEol:    {Error, "unterminated string literal at end of line"},
	UnterminatedStringAtEof:    {Error, "unterminated string literal at end of file"},
	UnterminatedTemplateString: {Error, "unterminated template string"},
	UnknownHashConstName:       {Error, "unknown conditional-compilation name %q"},
	InvalidHashConstValue:      {Error, "#const value must be true, false, or a previously defined name"},
	HashErrorDirective:         {Error, "%s"},
	DanglingElseIf:             {Error, "#else if with no matching #if"},
	DanglingElse:               {Error, "#else with no matching #if"},
	DanglingEndIf:              {Error, "#end if with no matching #if"},

	MissingTerminator:                 {Error, "missing %q to close %q"},
	MismatchedEndKeyword:              {Error, "expected %q but found %q"},
	UnexpectedToken:                   {Error, "unexpected token %q"},
	CannotUseReservedWordAsIdentifier: {Error, "%q is a reserved word and cannot be used as an identifier"},
	InvalidFunctionParameterType:      {Error, "invalid parameter type %q"},
	TooManyCallableParameters:         {Error, "too many parameters: maximum is %d"},
	RequiredParameterAfterOptional:    {Error, "required parameter %q cannot follow an optional parameter"},
	ConsecutiveIncrementDecrement:     {Error, "consecutive increment/decrement operators are not allowed"},
	IncrementOnCallResult:             {Error, "increment/decrement cannot be applied to a call result"},
	EmptyLibraryString:                {Error, "library statement must name a library"},
	LibraryNotAtTopOfFile:             {Error, "library statements must appear before any other statement"},
	ImportNotAtTopOfFile:              {Error, "import statements must appear before any other statement"},
	MissingColonBeforeSingleLineEndIf: {Error, "single-line if must use a colon before %q"},
	InvalidAssociativeArrayKey:        {Error, "%q is not a valid associative array key"},
	RemNotAllowedAsLiteralKey:         {Error, "%q cannot be used as an associative array literal key; use it as a dotted property instead"},
	DuplicateClassMember:              {Error, "duplicate member name %q"},

	CallToUnknownFunction: {Error, "call to unknown function %q"},
	DuplicateFunctionImplementation: {Error, "duplicate implementation of function %q"},
	OverridesAncestorFunction:       {Hint, "function %q overrides a function already defined in an ancestor scope"},
	DuplicateClassDeclaration:       {Error, "duplicate declaration of class %q"},
	NamespacedClassCannotShareNameWithNonNamespacedClass: {Error, "class %q cannot share its leaf name with non-namespaced class %q"},
	UnknownClassInNewExpression:                          {Error, "unknown class %q in new expression"},
	MethodOverridesNothingInAncestor:                      {Error, "method %q is marked override but no ancestor defines it"},
	ConstructorCannotBeOverride:                           {Error, "constructor cannot be marked override"},
	FieldCannotOverrideAncestorField:                      {Error, "field %q cannot override a field already declared in an ancestor class"},
	ArgumentCountMismatch:                                 {Error, "function %q expects %d argument(s), got %d"},
	ImportPathCaseMismatch:                                {Warning, "import path %q does not match the on-disk casing %q"},
	SuperCallMustBeFirstStatement:                         {Error, "super() call must be the first statement of a constructor"},

	FileUnreadable: {Error, "could not read file: %s"},
}

// Lookup returns the registered template for code.
func Lookup(code Code) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// RelatedInformation points at a second location relevant to a Diagnostic
// (e.g. the ancestor definition an override hint refers to).
type RelatedInformation struct {
	Message string
	Range   lexer.Range
	File    string
}

// Diagnostic is one reported problem, ready for presentation or JSON
// serialisation.
type Diagnostic struct {
	Code                Code
	Severity            Severity
	Message             string
	Range               lexer.Range
	File                string
	RelatedInformation  []RelatedInformation
}

// New builds a Diagnostic from a registered code, formatting its message
// with args against the registry template. Severity may be overridden per
// call site (e.g. promoting a Hint to Warning under strict settings).
func New(code Code, file string, rng lexer.Range, args ...any) Diagnostic {
	tmpl, ok := registry[code]
	if !ok {
		return Diagnostic{Code: code, Severity: Error, Message: fmt.Sprintf("unregistered diagnostic code %d", code), Range: rng, File: file}
	}
	return Diagnostic{
		Code:     code,
		Severity: tmpl.Severity,
		Message:  fmt.Sprintf(tmpl.Format, args...),
		Range:    rng,
		File:     file,
	}
}

// NewRaw builds a Diagnostic whose message is already fully formatted
// (used when adapting a message produced upstream, e.g. by the lexer,
// rather than formatting fresh from the registry template).
func NewRaw(code Code, file string, rng lexer.Range, message string) Diagnostic {
	severity := Error
	if tmpl, ok := registry[code]; ok {
		severity = tmpl.Severity
	}
	return Diagnostic{Code: code, Severity: severity, Message: message, Range: rng, File: file}
}

// JSON renders d as a JSON object string using sjson, mirroring the shape
// consumed by the CLI's --json flag and by editor tooling.
func (d Diagnostic) JSON() (string, error) {
	json := "{}"
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		json, err = sjson.Set(json, path, value)
	}
	set("code", uint16(d.Code))
	set("severity", d.Severity.String())
	set("message", d.Message)
	set("file", d.File)
	set("range.start.line", d.Range.Start.Line)
	set("range.start.column", d.Range.Start.Column)
	set("range.end.line", d.Range.End.Line)
	set("range.end.column", d.Range.End.Column)
	for i, rel := range d.RelatedInformation {
		base := fmt.Sprintf("relatedInformation.%d.", i)
		set(base+"message", rel.Message)
		set(base+"file", rel.File)
		set(base+"range.start.line", rel.Range.Start.Line)
		set(base+"range.start.column", rel.Range.Start.Column)
	}
	return json, err
}

// Bag accumulates diagnostics for one file, keyed by (range, code) so that
// re-running validation is idempotent: adding the same diagnostic twice is
// a no-op, matching the multiset-stability invariant in SPEC_FULL.md §8.
type Bag struct {
	items []Diagnostic
	seen  map[bagKey]bool
}

type bagKey struct {
	code  Code
	start lexer.Position
	end   lexer.Position
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{seen: make(map[bagKey]bool)}
}

// Add reports d, deduplicating against any identical diagnostic already in
// the bag.
func (b *Bag) Add(d Diagnostic) {
	key := bagKey{code: d.Code, start: d.Range.Start, end: d.Range.End}
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.items = append(b.items, d)
}

// Addf reports a new diagnostic built from a registered code.
func (b *Bag) Addf(code Code, file string, rng lexer.Range, args ...any) {
	b.Add(New(code, file, rng, args...))
}

// Merge appends every diagnostic in other into b, subject to the same
// dedup rule as Add.
func (b *Bag) Merge(other *Bag) {
	for _, d := range other.items {
		b.Add(d)
	}
}

// All returns the accumulated diagnostics in report order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// HasErrors reports whether any diagnostic in the bag has Error severity.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
