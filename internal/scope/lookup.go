package scope

import "github.com/starlight-tv/bsc/internal/ast"

// Lookup adapts an *Index to the validator.ScopeLookup interface (defined
// in internal/validator) without internal/scope importing internal/validator
// — Go's structural interface satisfaction makes that unnecessary. Methods
// stick to primitives and internal/ast types (never a new shared struct) so
// that direction of import never has to reverse.
type Lookup struct {
	idx *Index
}

// NewLookup returns a Lookup bound to idx.
func NewLookup(idx *Index) *Lookup {
	return &Lookup{idx: idx}
}

func (l *Lookup) componentScopeFor(file string) (*ComponentScope, bool) {
	compName, ok := l.idx.fileToComp[file]
	if !ok {
		compName = sourceComponentName
	}
	s, err := l.idx.Scope(compName)
	if err != nil {
		return nil, false
	}
	return s, true
}

// ResolveFunctionIn looks up name in the component scope owning file.
func (l *Lookup) ResolveFunctionIn(file, name string) (paramCount, optionalFrom int, found bool) {
	s, ok := l.componentScopeFor(file)
	if !ok {
		return 0, 0, false
	}
	sym, ok := s.ResolveFunction(name)
	if !ok {
		return 0, 0, false
	}
	return sym.ParamCount, sym.OptionalFrom, true
}

// ResolveClassIn looks up a class name in the component scope owning file.
func (l *Lookup) ResolveClassIn(file, name string) (extends string, found bool) {
	s, ok := l.componentScopeFor(file)
	if !ok {
		return "", false
	}
	sym, ok := s.ResolveClass(name)
	if !ok {
		return "", false
	}
	return sym.Extends, true
}

// ScopeFilesOf returns the natural-ordered file list of file's owning
// component scope.
func (l *Lookup) ScopeFilesOf(file string) []string {
	s, ok := l.componentScopeFor(file)
	if !ok {
		return nil
	}
	return s.Files()
}

// ResolveClassNodeIn returns the declaring *ast.ClassStatement for name,
// resolved within file's owning component scope, so the validator can walk
// an ancestor's real method/field list rather than just its presence.
func (l *Lookup) ResolveClassNodeIn(file, name string) (*ast.ClassStatement, bool) {
	s, ok := l.componentScopeFor(file)
	if !ok {
		return nil, false
	}
	return s.ResolveClassNode(name)
}

// FunctionDefiningFilesIn returns the files in file's own component scope
// (never ancestors) that declare name.
func (l *Lookup) FunctionDefiningFilesIn(file, name string) []string {
	s, ok := l.componentScopeFor(file)
	if !ok {
		return nil
	}
	return s.FunctionDefiningFiles(lower(name))
}

// FunctionDefinedByAncestorIn reports whether an ancestor scope of file
// already defines name, and which file defines it.
func (l *Lookup) FunctionDefinedByAncestorIn(file, name string) (string, bool) {
	s, ok := l.componentScopeFor(file)
	if !ok {
		return "", false
	}
	return s.FunctionDefinedByAncestor(lower(name))
}

// ClassDefiningFilesIn returns the files in file's own component scope
// (never ancestors) that declare name.
func (l *Lookup) ClassDefiningFilesIn(file, name string) []string {
	s, ok := l.componentScopeFor(file)
	if !ok {
		return nil
	}
	return s.ClassDefiningFiles(lower(name))
}

// ConflictingLeafClassIn returns another class name in file's own component
// scope whose leaf name collides with name's namespacing.
func (l *Lookup) ConflictingLeafClassIn(file, name string) (string, bool) {
	s, ok := l.componentScopeFor(file)
	if !ok {
		return "", false
	}
	return s.ConflictingLeafClass(name)
}
