// Package scope builds per-file symbol tables and unions them into
// component scopes following an XML component's extends chain, per
// SPEC_FULL.md §4.3.
package scope

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/lexer"
)

// SymbolKind distinguishes the handful of name categories the validator
// needs to resolve.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolClass
	SymbolNamespace
)

// Symbol is one declared name visible from a FileTable.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	File       string
	Range      lexer.Range
	ParamCount int
	OptionalFrom int // index of first optional parameter, or ParamCount if none
	Extends    string // for SymbolClass
	Class      *ast.ClassStatement // for SymbolClass, the declaring node itself
}

// FileTable holds every top-level declaration of a single parsed file.
type FileTable struct {
	File      string
	Functions map[string]*Symbol // keyed lowercase
	Classes   map[string]*Symbol // keyed lowercase
	Imports   []string
}

// BuildFileTable walks prog's top-level statements and records its
// function and class declarations. Nested declarations (e.g. a function
// expression assigned to a variable) are intentionally not indexed here —
// SPEC_FULL.md §4.3 only requires resolving named, file-level functions and
// classes.
func BuildFileTable(file string, prog *ast.Program) *FileTable {
	ft := &FileTable{File: file, Functions: map[string]*Symbol{}, Classes: map[string]*Symbol{}}
	for _, imp := range prog.Imports {
		ft.Imports = append(ft.Imports, imp.Path)
	}
	for _, stmt := range prog.Statements {
		switch n := stmt.(type) {
		case *ast.FunctionStatement:
			optFrom := len(n.Params)
			for i, p := range n.Params {
				if p.Default != nil {
					optFrom = i
					break
				}
			}
			ft.Functions[lower(n.Name)] = &Symbol{
				Name: n.Name, Kind: SymbolFunction, File: file, Range: n.Range(),
				ParamCount: len(n.Params), OptionalFrom: optFrom,
			}
		case *ast.ClassStatement:
			ft.Classes[lower(n.Name)] = &Symbol{
				Name: n.Name, Kind: SymbolClass, File: file, Range: n.Range(), Extends: n.Extends, Class: n,
			}
		}
	}
	return ft
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Component mirrors one XML component descriptor's membership and
// inheritance edge (pkg/program owns the actual XML decoding; this package
// only needs the resulting shape).
type Component struct {
	Name    string
	Extends string // empty for a root component
	Files   []string
}

// ComponentScope is the union of symbol tables for a component and every
// ancestor up its extends chain. The synthetic source scope is a component
// of its own and is not added to other components' scopes.
type ComponentScope struct {
	Name   string
	tables []*FileTable
	// ownCount is how many leading entries of tables belong to this
	// component itself, before ancestors (set by Index.Scope). Duplicate
	// checks (same-scope collision) only ever look at tables[:ownCount];
	// shadow/override checks only ever look at tables[ownCount:].
	ownCount int
}

// FunctionDefiningFiles returns, for a given lowercase function name, the
// files in this component's own scope (never ancestors) that define it, in
// natural order — used for the duplicateFunctionImplementation diagnostic.
func (s *ComponentScope) FunctionDefiningFiles(lowerName string) []string {
	var files []string
	for _, t := range s.tables[:s.ownCount] {
		if sym, ok := t.Functions[lowerName]; ok {
			files = append(files, sym.File)
		}
	}
	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })
	return files
}

// ClassDefiningFiles returns, for a given lowercase class name, the files in
// this component's own scope (never ancestors) that declare it, in natural
// order — used for the duplicateClassDeclaration diagnostic.
func (s *ComponentScope) ClassDefiningFiles(lowerName string) []string {
	var files []string
	for _, t := range s.tables[:s.ownCount] {
		if sym, ok := t.Classes[lowerName]; ok {
			files = append(files, sym.File)
		}
	}
	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })
	return files
}

// FunctionDefinedByAncestor reports whether some ancestor scope (never this
// component's own files) already defines lowerName, and the file that does —
// used for the overridesAncestorFunction hint.
func (s *ComponentScope) FunctionDefinedByAncestor(lowerName string) (string, bool) {
	for _, t := range s.tables[s.ownCount:] {
		if sym, ok := t.Functions[lowerName]; ok {
			return sym.File, true
		}
	}
	return "", false
}

// ResolveClassNode finds the declaring *ast.ClassStatement for name,
// searching own files before ancestors, for ancestor-member-aware override
// and field-shadow checks.
func (s *ComponentScope) ResolveClassNode(name string) (*ast.ClassStatement, bool) {
	sym, ok := s.ResolveClass(name)
	if !ok || sym.Class == nil {
		return nil, false
	}
	return sym.Class, true
}

// ConflictingLeafClass returns the name of another class declared in this
// component's own scope whose leaf name (the part after the last dot)
// matches name's, where exactly one of the pair is namespaced (dotted) and
// the other is not — the namespacedClassCannotShareNamewithNonNamespacedClass
// rule in SPEC_FULL.md §4.3.
func (s *ComponentScope) ConflictingLeafClass(name string) (string, bool) {
	leaf := leafOf(name)
	dotted := leaf != name
	ln := lower(name)
	for _, t := range s.tables[:s.ownCount] {
		for key, sym := range t.Classes {
			if key == ln {
				continue
			}
			otherLeaf := leafOf(sym.Name)
			otherDotted := otherLeaf != sym.Name
			if lower(otherLeaf) == lower(leaf) && dotted != otherDotted {
				return sym.Name, true
			}
		}
	}
	return "", false
}

// leafOf returns the part of a (possibly namespaced) class name after its
// last dot, or name itself if it isn't dotted.
func leafOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ResolveFunction finds a function symbol visible in s, searching the
// component's own files before ancestor files (ancestors are appended to
// tables in extends order by the Index builder).
func (s *ComponentScope) ResolveFunction(name string) (*Symbol, bool) {
	ln := lower(name)
	for _, t := range s.tables {
		if sym, ok := t.Functions[ln]; ok {
			return sym, true
		}
	}
	return nil, false
}

// ResolveClass finds a class symbol visible in s.
func (s *ComponentScope) ResolveClass(name string) (*Symbol, bool) {
	ln := lower(name)
	for _, t := range s.tables {
		if sym, ok := t.Classes[ln]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Files returns every file logically part of this scope (own + ancestors),
// sorted in natural order, matching the deterministic traversal guarantee
// in SPEC_FULL.md §5.
func (s *ComponentScope) Files() []string {
	var files []string
	seen := map[string]bool{}
	for _, t := range s.tables {
		if !seen[t.File] {
			seen[t.File] = true
			files = append(files, t.File)
		}
	}
	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })
	return files
}
