package diagnostics

import (
	"testing"

	"github.com/starlight-tv/bsc/internal/lexer"
)

func TestBagDeduplicates(t *testing.T) {
	b := NewBag()
	rng := lexer.Range{Start: lexer.Position{Line: 1, Column: 0}, End: lexer.Position{Line: 1, Column: 3}}
	b.Addf(CannotUseReservedWordAsIdentifier, "foo.bs", rng, "end")
	b.Addf(CannotUseReservedWordAsIdentifier, "foo.bs", rng, "end")
	if len(b.All()) != 1 {
		t.Fatalf("expected deduplication, got %d diagnostics", len(b.All()))
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag()
	rng := lexer.Range{}
	b.Addf(OverridesAncestorFunction, "foo.bs", rng, "run")
	if b.HasErrors() {
		t.Fatalf("hint-only bag should not report errors")
	}
	b.Addf(CallToUnknownFunction, "foo.bs", rng, "doStuff")
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors true after adding an Error diagnostic")
	}
}

func TestDiagnosticJSON(t *testing.T) {
	d := New(CallToUnknownFunction, "foo.bs", lexer.Range{}, "doStuff")
	js, err := d.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if js == "" || js == "{}" {
		t.Fatalf("expected populated JSON, got %q", js)
	}
}
