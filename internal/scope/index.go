package scope

import "fmt"

// sourceComponentName is the synthetic component backing every file under
// source/ that isn't associated with any XML descriptor (SPEC_FULL.md §12).
const sourceComponentName = "__source__"

// Index owns every file's symbol table and the program-wide component
// graph. It is the coordinator-owned object described in SPEC_FULL.md §5:
// a single instance aggregates results submitted by independent per-file
// workers; nothing here is mutated concurrently.
type Index struct {
	fileTables map[string]*FileTable   // by file path
	components map[string]*Component   // by component name
	fileToComp map[string]string       // file path -> owning component name
	scopeCache map[string]*ComponentScope
}

// NewIndex returns an empty Index with an implicit root "source" component.
func NewIndex() *Index {
	idx := &Index{
		fileTables: map[string]*FileTable{},
		components: map[string]*Component{sourceComponentName: {Name: sourceComponentName}},
		fileToComp: map[string]string{},
		scopeCache: map[string]*ComponentScope{},
	}
	return idx
}

// SetFile replaces file's symbol table, invalidating any cached scope that
// contains it (SPEC_FULL.md §4.3 "file AST change invalidates...").
func (idx *Index) SetFile(ft *FileTable) {
	idx.fileTables[ft.File] = ft
	if _, ok := idx.fileToComp[ft.File]; !ok {
		idx.fileToComp[ft.File] = sourceComponentName
		comp := idx.components[sourceComponentName]
		comp.Files = append(comp.Files, ft.File)
	}
	idx.invalidateScopesContaining(ft.File)
}

// RemoveFile drops a file's symbol table entirely.
func (idx *Index) RemoveFile(file string) {
	delete(idx.fileTables, file)
	idx.invalidateScopesContaining(file)
}

// SetComponent registers or replaces a component's descriptor-derived
// membership and extends edge, invalidating its own and every descendant's
// cached scope.
func (idx *Index) SetComponent(c *Component) {
	idx.components[c.Name] = c
	for _, f := range c.Files {
		idx.fileToComp[f] = c.Name
	}
	idx.invalidateDescendants(c.Name)
}

func (idx *Index) invalidateScopesContaining(file string) {
	comp, ok := idx.fileToComp[file]
	if !ok {
		return
	}
	idx.invalidateDescendants(comp)
}

// invalidateDescendants drops the cache entry for name and every component
// whose extends chain passes through it.
func (idx *Index) invalidateDescendants(name string) {
	delete(idx.scopeCache, name)
	for cname, c := range idx.components {
		if c.Extends == name {
			idx.invalidateDescendants(cname)
		}
	}
}

// Scope returns the (cached, lazily rebuilt) ComponentScope for component
// name, unioning its own files with every ancestor up the extends chain.
func (idx *Index) Scope(name string) (*ComponentScope, error) {
	if cached, ok := idx.scopeCache[name]; ok {
		return cached, nil
	}

	var tables []*FileTable
	seen := map[string]bool{}
	cur := name
	ownCount := 0
	first := true
	for cur != "" {
		if seen[cur] {
			return nil, fmt.Errorf("cyclic extends chain detected at component %q", cur)
		}
		seen[cur] = true
		comp, ok := idx.components[cur]
		if !ok {
			break
		}
		for _, f := range comp.Files {
			if ft, ok := idx.fileTables[f]; ok {
				tables = append(tables, ft)
			}
		}
		if first {
			ownCount = len(tables)
			first = false
		}
		cur = comp.Extends
	}

	scope := &ComponentScope{Name: name, tables: tables, ownCount: ownCount}
	idx.scopeCache[name] = scope
	return scope, nil
}

// AllComponentNames returns every registered component name, including the
// synthetic source scope.
func (idx *Index) AllComponentNames() []string {
	names := make([]string, 0, len(idx.components))
	for n := range idx.components {
		names = append(names, n)
	}
	return names
}
