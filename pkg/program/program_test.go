package program

import (
	"strings"
	"testing"
)

func TestAddOrReplaceFileParsesAndTracks(t *testing.T) {
	p := New(".")
	_, bag := p.AddOrReplaceFile("source/main.bs", "function main()\nend function\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.All())
	}
}

func TestValidateCatchesUnknownCallAcrossComponentFiles(t *testing.T) {
	p := New(".")
	if _, err := p.AddOrReplaceComponent([]byte(`<component name="Widget"><script uri="widget.bs"/></component>`)); err != nil {
		t.Fatalf("AddOrReplaceComponent: %v", err)
	}
	p.AddOrReplaceFile("widget.bs", "sub init()\nmissingFunc()\nend sub\n")

	bag := p.Validate()
	if !bag.HasErrors() {
		t.Fatalf("expected an error for the unresolved call")
	}
}

func TestGetTranspiledFileContentsRewritesExtension(t *testing.T) {
	p := New(".")
	p.AddOrReplaceFile("source/main.bs", "x = 1\n")
	result, err := p.GetTranspiledFileContents("source/main.bs")
	if err != nil {
		t.Fatalf("GetTranspiledFileContents: %v", err)
	}
	if result.Code == "" {
		t.Fatalf("expected non-empty transpiled code")
	}
	if result.Map == "" {
		t.Fatalf("expected non-empty source map JSON")
	}
	if !strings.Contains(result.Map, `"file":"source/main.brs"`) {
		t.Fatalf("expected source map for the .brs output, got %s", result.Map)
	}
}

func TestComponentDescriptorRewriteForOutput(t *testing.T) {
	desc, err := ParseComponentDescriptor([]byte(`<component name="Widget" extends="Group"><script uri="widget.bs" type="text/brighterscript"/></component>`))
	if err != nil {
		t.Fatalf("ParseComponentDescriptor: %v", err)
	}
	out := desc.RewriteForTranspiledOutput()
	if out.Scripts[0].URI != "widget.brs" {
		t.Fatalf("expected .brs rewrite, got %q", out.Scripts[0].URI)
	}
	if out.Scripts[0].Type != "text/brightscript" {
		t.Fatalf("expected rewritten MIME type, got %q", out.Scripts[0].Type)
	}
}
