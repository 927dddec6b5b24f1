// Package validator runs the structural and scoped passes described in
// SPEC_FULL.md §4.4 over parsed files, grounded on the teacher's
// Pass/PassManager two-pass shape (internal/semantic/pass.go) but
// simplified: this dialect needs name resolution, arity checks and class
// override rules, not a Pascal-style overload/type lattice.
package validator

import (
	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
)

// Pass is one validation stage over a single file's AST.
type Pass interface {
	Name() string
	Run(ctx *Context, file string, prog *ast.Program, diags *diagnostics.Bag)
}

// Context carries whatever a pass needs beyond the current file: for the
// scoped pass, the component scope the file belongs to.
type Context struct {
	Scope ScopeLookup
}

// ScopeLookup is the minimal surface the validator needs from
// internal/scope, kept as an interface so validator tests can supply a
// fake without depending on the real Index.
type ScopeLookup interface {
	ResolveFunctionIn(file, name string) (paramCount, optionalFrom int, found bool)
	ResolveClassIn(file, name string) (extends string, found bool)
	ScopeFilesOf(file string) []string
	ResolveClassNodeIn(file, name string) (*ast.ClassStatement, bool)
	FunctionDefiningFilesIn(file, name string) []string
	FunctionDefinedByAncestorIn(file, name string) (string, bool)
	ClassDefiningFilesIn(file, name string) []string
	ConflictingLeafClassIn(file, name string) (string, bool)
}

// Manager runs an ordered list of passes over every file, mirroring the
// teacher's PassManager.
type Manager struct {
	passes []Pass
}

// NewManager returns a Manager configured with the standard two passes.
func NewManager() *Manager {
	return &Manager{passes: []Pass{&StructuralPass{}, &ScopedPass{}}}
}

// RunFile executes every registered pass, in order, over one file.
func (m *Manager) RunFile(ctx *Context, file string, prog *ast.Program, diags *diagnostics.Bag) {
	for _, p := range m.passes {
		p.Run(ctx, file, prog, diags)
	}
}
