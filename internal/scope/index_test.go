package scope

import (
	"testing"

	"github.com/starlight-tv/bsc/internal/parser"
)

func mustTable(t *testing.T, file, src string) *FileTable {
	t.Helper()
	prog, bag := parser.Parse(src, file)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors in %s: %v", file, bag.All())
	}
	return BuildFileTable(file, prog)
}

func TestDuplicateFunctionAcrossFiles(t *testing.T) {
	idx := NewIndex()
	idx.SetFile(mustTable(t, "a.bs", "function go()\nend function"))
	idx.SetFile(mustTable(t, "b.bs", "function go()\nend function"))

	scope, err := idx.Scope("__source__")
	if err != nil {
		t.Fatalf("Scope: %v", err)
	}
	files := scope.FunctionDefiningFiles("go")
	if len(files) != 2 {
		t.Fatalf("expected 2 definitions of 'go', got %d (%v)", len(files), files)
	}
}

func TestComponentExtendsChain(t *testing.T) {
	idx := NewIndex()
	idx.SetFile(mustTable(t, "base.bs", "function helper()\nend function"))
	idx.SetFile(mustTable(t, "child.bs", "function run()\nend function"))

	idx.SetComponent(&Component{Name: "Base", Files: []string{"base.bs"}})
	idx.SetComponent(&Component{Name: "Child", Extends: "Base", Files: []string{"child.bs"}})

	scope, err := idx.Scope("Child")
	if err != nil {
		t.Fatalf("Scope: %v", err)
	}
	if _, ok := scope.ResolveFunction("helper"); !ok {
		t.Fatalf("expected Child scope to resolve ancestor function 'helper'")
	}
	if _, ok := scope.ResolveFunction("run"); !ok {
		t.Fatalf("expected Child scope to resolve its own function 'run'")
	}
}

func TestInvalidationOnComponentExtendsChange(t *testing.T) {
	idx := NewIndex()
	idx.SetFile(mustTable(t, "base.bs", "function helper()\nend function"))
	idx.SetFile(mustTable(t, "other.bs", "function otherHelper()\nend function"))
	idx.SetComponent(&Component{Name: "Base", Files: []string{"base.bs"}})
	idx.SetComponent(&Component{Name: "Other", Files: []string{"other.bs"}})
	idx.SetComponent(&Component{Name: "Child", Extends: "Base", Files: []string{}})

	scope, _ := idx.Scope("Child")
	if _, ok := scope.ResolveFunction("otherHelper"); ok {
		t.Fatalf("Child should not yet see Other's functions")
	}

	idx.SetComponent(&Component{Name: "Child", Extends: "Other", Files: []string{}})
	scope2, _ := idx.Scope("Child")
	if _, ok := scope2.ResolveFunction("otherHelper"); !ok {
		t.Fatalf("expected re-pointed extends chain to resolve Other's function after invalidation")
	}
}
