package validator

import (
	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
)

// builtinFunctions is a small allow-list of platform-provided globals that
// are always resolvable, so the validator doesn't need a full standard
// library model to avoid false callToUnknownFunction diagnostics.
var builtinFunctions = map[string]bool{
	"createobject": true, "createarray": true, "type": true, "getglobalaa": true,
	"str": true, "val": true, "len": true, "left": true, "right": true,
	"mid": true, "instr": true, "ucase": true, "lcase": true,
}

// ScopedPass resolves calls and class references against the file's
// component scope, and checks class-inheritance rules that reach across
// files (override match, constructor-not-override, field non-override).
type ScopedPass struct{}

func (*ScopedPass) Name() string { return "scoped" }

func (sc *ScopedPass) Run(ctx *Context, file string, prog *ast.Program, diags *diagnostics.Bag) {
	if ctx == nil || ctx.Scope == nil {
		return
	}
	v := &scopedVisitor{ctx: ctx, file: file, diags: diags}
	ast.WalkProgram(v, prog)

	for _, stmt := range prog.Statements {
		switch n := stmt.(type) {
		case *ast.FunctionStatement:
			sc.checkFunctionDeclaration(ctx, file, n, diags)
		case *ast.ClassStatement:
			sc.checkClassDeclaration(ctx, file, n, diags)
			sc.checkClassInheritance(ctx, file, n, diags)
		}
	}
}

// checkFunctionDeclaration raises duplicateFunctionImplementation when n's
// name is also implemented by another file in the same component scope, or
// overridesAncestorFunction when an ancestor scope already defines it.
func (sc *ScopedPass) checkFunctionDeclaration(ctx *Context, file string, n *ast.FunctionStatement, diags *diagnostics.Bag) {
	if files := ctx.Scope.FunctionDefiningFilesIn(file, n.Name); len(files) > 1 {
		d := diagnostics.New(diagnostics.DuplicateFunctionImplementation, file, n.Range(), n.Name)
		for _, f := range files {
			if f == file {
				continue
			}
			d.RelatedInformation = append(d.RelatedInformation, diagnostics.RelatedInformation{
				Message: "also implemented here", File: f,
			})
		}
		diags.Add(d)
		return
	}
	if ancestorFile, found := ctx.Scope.FunctionDefinedByAncestorIn(file, n.Name); found {
		d := diagnostics.New(diagnostics.OverridesAncestorFunction, file, n.Range(), n.Name)
		d.RelatedInformation = []diagnostics.RelatedInformation{{
			Message: "ancestor definition here", File: ancestorFile,
		}}
		diags.Add(d)
	}
}

// checkClassDeclaration raises duplicateClassDeclaration when n's name is
// also declared by another file in the same component scope, and
// namespacedClassCannotShareNameWithNonNamespacedClass when a namespaced and
// a non-namespaced class in scope share a leaf name.
func (sc *ScopedPass) checkClassDeclaration(ctx *Context, file string, n *ast.ClassStatement, diags *diagnostics.Bag) {
	if files := ctx.Scope.ClassDefiningFilesIn(file, n.Name); len(files) > 1 {
		d := diagnostics.New(diagnostics.DuplicateClassDeclaration, file, n.Range(), n.Name)
		for _, f := range files {
			if f == file {
				continue
			}
			d.RelatedInformation = append(d.RelatedInformation, diagnostics.RelatedInformation{
				Message: "also declared here", File: f,
			})
		}
		diags.Add(d)
	}
	if other, found := ctx.Scope.ConflictingLeafClassIn(file, n.Name); found {
		diags.Addf(diagnostics.NamespacedClassCannotShareNameWithNonNamespacedClass, file, n.Range(), n.Name, other)
	}
}

type scopedVisitor struct {
	ctx   *Context
	file  string
	diags *diagnostics.Bag
}

func (v *scopedVisitor) VisitStatement(ast.Statement) bool { return true }

func (v *scopedVisitor) VisitExpression(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.Call:
		v.checkCall(n)
	case *ast.NewExpression:
		v.checkNew(n)
	}
	return true
}

func (v *scopedVisitor) checkCall(call *ast.Call) {
	variable, ok := call.Callee.(*ast.Variable)
	if !ok {
		return // method/dotted calls are resolved dynamically, out of scope here
	}
	name := variable.Name
	lname := lowerName(name)
	if builtinFunctions[lname] {
		return
	}
	paramCount, optionalFrom, found := v.ctx.Scope.ResolveFunctionIn(v.file, name)
	if !found {
		v.diags.Addf(diagnostics.CallToUnknownFunction, v.file, call.Range(), name)
		return
	}
	argc := len(call.Args)
	if argc < optionalFrom || argc > paramCount {
		v.diags.Addf(diagnostics.ArgumentCountMismatch, v.file, call.Range(), name, paramCount, argc)
	}
}

func (v *scopedVisitor) checkNew(n *ast.NewExpression) {
	if _, found := v.ctx.Scope.ResolveClassIn(v.file, n.ClassName); !found {
		v.diags.Addf(diagnostics.UnknownClassInNewExpression, v.file, n.Range(), n.ClassName)
	}
}

func (sc *ScopedPass) checkClassInheritance(ctx *Context, file string, cls *ast.ClassStatement, diags *diagnostics.Bag) {
	if cls.Extends == "" {
		for _, m := range cls.Methods {
			if m.Override {
				diags.Addf(diagnostics.MethodOverridesNothingInAncestor, file, m.Range(), m.Function.Name)
			}
		}
		return
	}

	if _, found := ctx.Scope.ResolveClassIn(file, cls.Extends); !found {
		return // unknown ancestor: no inheritance checks, and no diagnostic here
	}

	ancestorMethods, ancestorFields := sc.collectAncestorMembers(ctx, file, cls.Extends)

	for _, m := range cls.Methods {
		if m.IsConstructor && m.Override {
			diags.Addf(diagnostics.ConstructorCannotBeOverride, file, m.Range())
		}
		if m.Override && !m.IsConstructor && !ancestorMethods[lowerName(m.Function.Name)] {
			diags.Addf(diagnostics.MethodOverridesNothingInAncestor, file, m.Range(), m.Function.Name)
		}
	}
	for _, f := range cls.Fields {
		if ancestorFields[lowerName(f.Name)] {
			diags.Addf(diagnostics.FieldCannotOverrideAncestorField, file, f.Range(), f.Name)
		}
	}
}

// collectAncestorMembers walks the OOP extends chain starting at
// ancestorName (resolved within file's component scope, not necessarily
// file itself — a class's ancestor may live in any file the scope sees),
// unioning every ancestor's non-constructor method and field names. seen
// guards against a cyclic extends chain, which is reported elsewhere.
func (sc *ScopedPass) collectAncestorMembers(ctx *Context, file, ancestorName string) (methods, fields map[string]bool) {
	methods = map[string]bool{}
	fields = map[string]bool{}
	seen := map[string]bool{}
	cur := ancestorName
	for cur != "" {
		ln := lowerName(cur)
		if seen[ln] {
			break
		}
		seen[ln] = true
		node, found := ctx.Scope.ResolveClassNodeIn(file, cur)
		if !found {
			break
		}
		for _, m := range node.Methods {
			if !m.IsConstructor {
				methods[lowerName(m.Function.Name)] = true
			}
		}
		for _, f := range node.Fields {
			fields[lowerName(f.Name)] = true
		}
		cur = node.Extends
	}
	return methods, fields
}
