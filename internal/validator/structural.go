package validator

import (
	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
)

// StructuralPass checks invariants that need only a single file's AST:
// class-member name uniqueness and super(...) call placement.
type StructuralPass struct{}

func (*StructuralPass) Name() string { return "structural" }

func (sp *StructuralPass) Run(_ *Context, file string, prog *ast.Program, diags *diagnostics.Bag) {
	for _, stmt := range prog.Statements {
		if cls, ok := stmt.(*ast.ClassStatement); ok {
			sp.checkClass(file, cls, diags)
		}
	}
}

func (sp *StructuralPass) checkClass(file string, cls *ast.ClassStatement, diags *diagnostics.Bag) {
	seen := map[string]ast.Node{}

	record := func(name string, node ast.Node) {
		ln := lowerName(name)
		if prior, dup := seen[ln]; dup {
			d := diagnostics.New(diagnostics.DuplicateClassMember, file, node.Range(), name)
			d.RelatedInformation = []diagnostics.RelatedInformation{{
				Message: "first declared here", Range: prior.Range(), File: file,
			}}
			diags.Add(d)
			return
		}
		seen[ln] = node
	}

	for _, f := range cls.Fields {
		record(f.Name, f)
	}
	for _, m := range cls.Methods {
		record(m.Function.Name, m)
		sp.checkSuperCallPlacement(file, m, diags)
	}
}

// checkSuperCallPlacement enforces that a super(...) call only ever appears
// as the literal first statement of a constructor's body (SPEC_FULL.md
// §4.4.1); anywhere else — a non-constructor method, or any position other
// than first — is an error.
func (sp *StructuralPass) checkSuperCallPlacement(file string, m *ast.ClassMethod, diags *diagnostics.Bag) {
	if m.Function == nil || m.Function.Body == nil {
		return
	}
	var first ast.Statement
	if len(m.Function.Body.Statements) > 0 {
		first = m.Function.Body.Statements[0]
	}
	v := &superCallVisitor{file: file, diags: diags, allowed: m.IsConstructor, first: first}
	ast.Walk(v, m.Function.Body)
}

type superCallVisitor struct {
	file    string
	diags   *diagnostics.Bag
	allowed bool
	first   ast.Statement
}

func (v *superCallVisitor) VisitExpression(ast.Expression) bool { return true }

func (v *superCallVisitor) VisitStatement(s ast.Statement) bool {
	if sc, ok := s.(*ast.SuperCallStatement); ok {
		if !v.allowed || s != v.first {
			v.diags.Addf(diagnostics.SuperCallMustBeFirstStatement, v.file, sc.Range())
		}
	}
	return true
}

func lowerName(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
