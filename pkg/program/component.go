// Package program ties the lexer/parser/scope/validator/transpiler
// pipeline together behind the Program facade described in SPEC_FULL.md's
// external interfaces section, and parses the XML component descriptors
// that define component scopes.
package program

import (
	"encoding/xml"
	"fmt"
)

// ComponentDescriptor is the decoded shape of a component's XML descriptor
// file: its name, optional parent ("extends"), and script references.
// Grounded on the fixed, known-schema idiom of stdlib encoding/xml struct
// tags (the pack's only XML library, arturoeanton-go-xml, targets dynamic
// schema-less documents via its OrderedMap/MapXML API — overkill for a
// descriptor with a handful of fixed elements, so the struct-tag decode is
// used directly here instead).
type ComponentDescriptor struct {
	XMLName xml.Name      `xml:"component"`
	Name    string        `xml:"name,attr"`
	Extends string        `xml:"extends,attr"`
	Scripts []ScriptEntry `xml:"script"`
}

// ScriptEntry is one <script uri="..." type="..."/> reference.
type ScriptEntry struct {
	URI  string `xml:"uri,attr"`
	Type string `xml:"type,attr"`
}

// ParseComponentDescriptor decodes one component XML descriptor.
func ParseComponentDescriptor(data []byte) (*ComponentDescriptor, error) {
	var d ComponentDescriptor
	if err := xml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("program: parsing component descriptor: %w", err)
	}
	if d.Name == "" {
		return nil, fmt.Errorf("program: component descriptor missing name attribute")
	}
	return &d, nil
}

// ScriptPaths returns the logical paths this descriptor references, in
// document order.
func (d *ComponentDescriptor) ScriptPaths() []string {
	paths := make([]string, len(d.Scripts))
	for i, s := range d.Scripts {
		paths[i] = s.URI
	}
	return paths
}

// RewriteForTranspiledOutput renders a copy of d with every ".bs" script
// URI rewritten to ".brs" and the BrighterScript MIME type rewritten to its
// BrightScript equivalent, the shape emitted alongside a compiled package.
func (d *ComponentDescriptor) RewriteForTranspiledOutput() *ComponentDescriptor {
	out := &ComponentDescriptor{XMLName: d.XMLName, Name: d.Name, Extends: d.Extends}
	out.Scripts = make([]ScriptEntry, len(d.Scripts))
	for i, s := range d.Scripts {
		out.Scripts[i] = ScriptEntry{URI: rewriteScriptURI(s.URI), Type: rewriteScriptType(s.Type)}
	}
	return out
}

func rewriteScriptURI(uri string) string {
	if len(uri) > 3 && uri[len(uri)-3:] == ".bs" {
		return uri[:len(uri)-3] + ".brs"
	}
	return uri
}

func rewriteScriptType(t string) string {
	if t == "text/brighterscript" {
		return "text/brightscript"
	}
	return t
}

// Marshal renders d back to an XML document.
func (d *ComponentDescriptor) Marshal() ([]byte, error) {
	out, err := xml.MarshalIndent(d, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("program: rendering component descriptor: %w", err)
	}
	return out, nil
}
