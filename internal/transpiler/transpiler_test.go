package transpiler

import (
	"strings"
	"testing"

	"github.com/starlight-tv/bsc/internal/parser"
)

func TestTranspileSimpleAssignment(t *testing.T) {
	prog, bag := parser.Parse("x = 1 + 2\n", "m.bs")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.All())
	}
	res := New("m.bs", "m.brs").Transpile(prog)
	if !strings.Contains(res.Code, "x = 1 + 2") {
		t.Fatalf("expected lowered assignment, got %q", res.Code)
	}
}

func TestTranspileClassBecomesConstructorFunction(t *testing.T) {
	src := "class Animal\n" +
		"public name as string\n" +
		"public sub speak()\n" +
		"print m.name\n" +
		"end sub\n" +
		"end class\n"
	prog, bag := parser.Parse(src, "animal.bs")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.All())
	}
	res := New("animal.bs", "animal.brs").Transpile(prog)
	if !strings.Contains(res.Code, "function New__Animal()") {
		t.Fatalf("expected constructor function, got %q", res.Code)
	}
	if !strings.Contains(res.Code, "instance.speak = sub()") {
		t.Fatalf("expected speak method lowered onto instance, got %q", res.Code)
	}
	if !strings.Contains(res.Code, "return instance") {
		t.Fatalf("expected instance returned, got %q", res.Code)
	}
}

func TestTranspileClassExtendsCapturesSuper(t *testing.T) {
	src := "class Dog extends Animal\n" +
		"end class\n"
	prog, bag := parser.Parse(src, "dog.bs")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.All())
	}
	res := New("dog.bs", "dog.brs").Transpile(prog)
	if !strings.Contains(res.Code, "instance.super = New__Animal()") {
		t.Fatalf("expected super capture, got %q", res.Code)
	}
}

func TestTranspileNewExpressionBecomesDirectCall(t *testing.T) {
	prog, bag := parser.Parse("a = new Animal()\n", "m.bs")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.All())
	}
	res := New("m.bs", "m.brs").Transpile(prog)
	if !strings.Contains(res.Code, "a = New__Animal()") {
		t.Fatalf("expected direct constructor call, got %q", res.Code)
	}
}

func TestTranspileTemplateStringConcatenates(t *testing.T) {
	prog, bag := parser.Parse("x = `hello ${name}`\n", "m.bs")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.All())
	}
	res := New("m.bs", "m.brs").Transpile(prog)
	if !strings.Contains(res.Code, "Stringify__(name)") {
		t.Fatalf("expected wrapped interpolation, got %q", res.Code)
	}
}

func TestTranspileEmitsSourceMapMappings(t *testing.T) {
	prog, bag := parser.Parse("x = 1\ny = 2\n", "m.bs")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.All())
	}
	res := New("m.bs", "m.brs").Transpile(prog)
	if len(res.Map.Mappings()) < 2 {
		t.Fatalf("expected at least 2 mappings, got %d", len(res.Map.Mappings()))
	}
}
