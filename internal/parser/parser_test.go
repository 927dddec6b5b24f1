package parser

import (
	"testing"

	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
)

func TestParseEmptyFile(t *testing.T) {
	prog, bag := Parse("", "empty.bs")
	if len(prog.Statements) != 0 {
		t.Fatalf("expected zero statements, got %d", len(prog.Statements))
	}
	if len(bag.All()) != 0 {
		t.Fatalf("expected zero diagnostics, got %v", bag.All())
	}
}

func TestParseForEachShape(t *testing.T) {
	prog, bag := Parse("for each word in lipsum\nend for", "foreach.bs")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.All())
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	fe, ok := prog.Statements[0].(*ast.ForEach)
	if !ok {
		t.Fatalf("expected *ast.ForEach, got %T", prog.Statements[0])
	}
	if fe.ItemVariable != "word" {
		t.Fatalf("expected item variable 'word', got %q", fe.ItemVariable)
	}
}

func TestParseReservedWordAsDottedProperty(t *testing.T) {
	src := "sub m()\np = {}\np.end = true\nend sub"
	_, bag := Parse(src, "m.bs")
	if bag.HasErrors() {
		t.Fatalf("expected no errors, got %v", bag.All())
	}
}

func TestParseForbiddenIdentifier(t *testing.T) {
	src := "sub m()\nend = true\nend sub"
	_, bag := Parse(src, "m.bs")
	if !bag.HasErrors() {
		t.Fatalf("expected a forbidden-identifier error")
	}
	if all := bag.All(); len(all) != 1 || all[0].Code != diagnostics.CannotUseReservedWordAsIdentifier {
		t.Fatalf("expected exactly one cannotUseReservedWordAsIdentifier, got %v", all)
	}
}

func TestParseMaxArgsBoundary(t *testing.T) {
	args := ""
	for i := 0; i < MaxArgs; i++ {
		if i > 0 {
			args += ", "
		}
		args += "a" + itoa(i)
	}
	src := "sub m(" + args + ")\nend sub"
	_, bag := Parse(src, "m.bs")
	if bag.HasErrors() {
		t.Fatalf("expected exactly-MaxArgs parameters to pass, got %v", bag.All())
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}
