// Package sourcemap builds composable (line,col)-range mappings between an
// emitted text and its originating source, and serialises them to the
// standard Source Map v3 JSON shape. No third-party source-map library in
// the retrieved pack offers a generator API (the one reachable transitive
// dependency, go-sourcemap/sourcemap via grafana-k6, is consumer-only —
// see DESIGN.md), so the VLQ encoder here is hand-written.
package sourcemap

import "github.com/starlight-tv/bsc/internal/lexer"

// Mapping associates one position in generated output with a position in
// a named source file.
type Mapping struct {
	GeneratedLine   int
	GeneratedColumn int
	SourceFile      string
	SourceLine      int
	SourceColumn    int
}

// Builder accumulates Mappings for one output file in emission order.
type Builder struct {
	File     string
	Sources  []string
	mappings []Mapping
	srcIndex map[string]int
}

// NewBuilder returns a Builder for an output file named file.
func NewBuilder(file string) *Builder {
	return &Builder{File: file, srcIndex: map[string]int{}}
}

// Add records that (genLine, genCol) in the output corresponds to
// sourceRange.Start in sourceFile.
func (b *Builder) Add(genLine, genCol int, sourceFile string, sourceRange lexer.Range) {
	if _, ok := b.srcIndex[sourceFile]; !ok {
		b.srcIndex[sourceFile] = len(b.Sources)
		b.Sources = append(b.Sources, sourceFile)
	}
	b.mappings = append(b.mappings, Mapping{
		GeneratedLine: genLine, GeneratedColumn: genCol,
		SourceFile: sourceFile, SourceLine: sourceRange.Start.Line, SourceColumn: sourceRange.Start.Column,
	})
}

// Mappings returns the recorded mappings in emission order.
func (b *Builder) Mappings() []Mapping {
	return b.mappings
}

// Compose merges an upstream map (source text -> intermediate text) with a
// downstream map (intermediate text -> final text) into a single map from
// source text to final text, so S->L lowering followed by any further
// rewrite keeps one source map end to end.
func Compose(upstream, downstream *Builder) *Builder {
	// index downstream mappings by their (line, column) "source" position,
	// which is the upstream's generated position.
	byPos := make(map[[2]int]Mapping, len(downstream.mappings))
	for _, m := range downstream.mappings {
		byPos[[2]int{m.SourceLine, m.SourceColumn}] = m
	}

	composed := NewBuilder(downstream.File)
	for _, up := range upstream.mappings {
		down, ok := byPos[[2]int{up.GeneratedLine, up.GeneratedColumn}]
		if !ok {
			continue
		}
		composed.Add(down.GeneratedLine, down.GeneratedColumn, up.SourceFile,
			lexer.Range{Start: lexer.Position{Line: up.SourceLine, Column: up.SourceColumn}})
	}
	return composed
}
