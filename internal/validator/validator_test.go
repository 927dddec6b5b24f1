package validator

import (
	"testing"

	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/parser"
	"github.com/starlight-tv/bsc/internal/scope"
)

func TestValidatorDeterminism(t *testing.T) {
	prog, bag := parser.Parse("foo()\n", "m.bs")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.All())
	}

	idx := scope.NewIndex()
	idx.SetFile(scope.BuildFileTable("m.bs", prog))
	ctx := &Context{Scope: scope.NewLookup(idx)}

	mgr := NewManager()
	first := diagnostics.NewBag()
	mgr.RunFile(ctx, "m.bs", prog, first)
	second := diagnostics.NewBag()
	mgr.RunFile(ctx, "m.bs", prog, second)

	if len(first.All()) != len(second.All()) {
		t.Fatalf("validator is not idempotent: %d vs %d diagnostics", len(first.All()), len(second.All()))
	}
}

func TestCallToUnknownFunction(t *testing.T) {
	prog, _ := parser.Parse("doStuff()\n", "m.bs")
	idx := scope.NewIndex()
	idx.SetFile(scope.BuildFileTable("m.bs", prog))
	ctx := &Context{Scope: scope.NewLookup(idx)}

	bag := diagnostics.NewBag()
	NewManager().RunFile(ctx, "m.bs", prog, bag)
	if !bag.HasErrors() {
		t.Fatalf("expected callToUnknownFunction error")
	}
}

func TestOverrideWithoutAncestor(t *testing.T) {
	src := "class Child\noverride sub run()\nend sub\nend class"
	prog, pbag := parser.Parse(src, "m.bs")
	if pbag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", pbag.All())
	}
	idx := scope.NewIndex()
	idx.SetFile(scope.BuildFileTable("m.bs", prog))
	ctx := &Context{Scope: scope.NewLookup(idx)}

	bag := diagnostics.NewBag()
	NewManager().RunFile(ctx, "m.bs", prog, bag)
	if !bag.HasErrors() {
		t.Fatalf("expected methodOverridesNothingInAncestor error")
	}
}

func TestOverrideAgainstAncestorMemberList(t *testing.T) {
	parentSrc := "class Parent\nsub run()\nend sub\nend class"
	childOK := "class Child extends Parent\noverride sub run()\nend sub\nend class"
	childBad := "class Child extends Parent\noverride sub walk()\nend sub\nend class"

	run := func(childSrc string) *diagnostics.Bag {
		parentProg, _ := parser.Parse(parentSrc, "parent.bs")
		childProg, _ := parser.Parse(childSrc, "child.bs")
		idx := scope.NewIndex()
		idx.SetFile(scope.BuildFileTable("parent.bs", parentProg))
		idx.SetFile(scope.BuildFileTable("child.bs", childProg))
		ctx := &Context{Scope: scope.NewLookup(idx)}
		bag := diagnostics.NewBag()
		NewManager().RunFile(ctx, "child.bs", childProg, bag)
		return bag
	}

	if bag := run(childOK); bag.HasErrors() {
		t.Fatalf("did not expect an error overriding an actual ancestor method: %v", bag.All())
	}
	if bag := run(childBad); !bag.HasErrors() {
		t.Fatalf("expected methodOverridesNothingInAncestor for a method absent from the ancestor")
	}
}

func TestFieldCannotOverrideAncestorField(t *testing.T) {
	parentSrc := "class Parent\npublic x\nend class"
	childSrc := "class Child extends Parent\npublic x\nend class"

	parentProg, _ := parser.Parse(parentSrc, "parent.bs")
	childProg, _ := parser.Parse(childSrc, "child.bs")
	idx := scope.NewIndex()
	idx.SetFile(scope.BuildFileTable("parent.bs", parentProg))
	idx.SetFile(scope.BuildFileTable("child.bs", childProg))
	ctx := &Context{Scope: scope.NewLookup(idx)}

	bag := diagnostics.NewBag()
	NewManager().RunFile(ctx, "child.bs", childProg, bag)
	if !bag.HasErrors() {
		t.Fatalf("expected fieldCannotOverrideAncestorField error")
	}
}

func TestDuplicateFunctionImplementationAcrossFiles(t *testing.T) {
	src := "function helper()\nreturn 1\nend function"
	progA, _ := parser.Parse(src, "a.bs")
	progB, _ := parser.Parse(src, "b.bs")
	idx := scope.NewIndex()
	idx.SetFile(scope.BuildFileTable("a.bs", progA))
	idx.SetFile(scope.BuildFileTable("b.bs", progB))
	ctx := &Context{Scope: scope.NewLookup(idx)}

	bag := diagnostics.NewBag()
	NewManager().RunFile(ctx, "a.bs", progA, bag)
	NewManager().RunFile(ctx, "b.bs", progB, bag)
	if !bag.HasErrors() {
		t.Fatalf("expected duplicateFunctionImplementation error")
	}
}

func TestDuplicateClassDeclarationAcrossFiles(t *testing.T) {
	src := "class Widget\nend class"
	progA, _ := parser.Parse(src, "a.bs")
	progB, _ := parser.Parse(src, "b.bs")
	idx := scope.NewIndex()
	idx.SetFile(scope.BuildFileTable("a.bs", progA))
	idx.SetFile(scope.BuildFileTable("b.bs", progB))
	ctx := &Context{Scope: scope.NewLookup(idx)}

	bag := diagnostics.NewBag()
	NewManager().RunFile(ctx, "a.bs", progA, bag)
	NewManager().RunFile(ctx, "b.bs", progB, bag)
	if !bag.HasErrors() {
		t.Fatalf("expected duplicateClassDeclaration error")
	}
}
