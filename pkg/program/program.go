package program

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"

	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/diagnostics"
	"github.com/starlight-tv/bsc/internal/parser"
	"github.com/starlight-tv/bsc/internal/scope"
	"github.com/starlight-tv/bsc/internal/sourcemap"
	"github.com/starlight-tv/bsc/internal/transpiler"
	"github.com/starlight-tv/bsc/internal/validator"
)

// FileHandle is the live, parsed state of one source file tracked by a
// Program: its logical path, original text, and AST.
type FileHandle struct {
	LogicalPath string
	Text        string
	AST         *ast.Program
}

// TranspileResult is what getTranspiledFileContents returns for one file.
type TranspileResult struct {
	Code string
	Map  string // source-map-v3 JSON
}

// Hooks is the event stream described in SPEC_FULL.md's external
// interfaces section. Every field is optional; a nil hook is skipped.
type Hooks struct {
	BeforeFileParse       func(logicalPath string)
	AfterFileParse        func(logicalPath string, bag *diagnostics.Bag)
	BeforeProgramValidate func()
	AfterProgramValidate  func(bag *diagnostics.Bag)
	BeforeFileTranspile   func(logicalPath string)
	AfterFileTranspile    func(logicalPath string, result TranspileResult)
}

// Program is the coordinator-owned facade over the lex/parse/validate/
// transpile pipeline: it owns every file's AST and the program-wide scope
// Index, and is the only place cross-file aggregation happens.
type Program struct {
	RootDir string
	Hooks   Hooks

	files      map[string]*FileHandle
	components map[string]*ComponentDescriptor
	index      *scope.Index
	validators *validator.Manager
}

// New returns an empty Program rooted at rootDir.
func New(rootDir string) *Program {
	return &Program{
		RootDir:    rootDir,
		files:      map[string]*FileHandle{},
		components: map[string]*ComponentDescriptor{},
		index:      scope.NewIndex(),
		validators: validator.NewManager(),
	}
}

// AddOrReplaceFile parses text under logicalPath, replacing any prior
// parse, and updates the scope Index accordingly.
func (p *Program) AddOrReplaceFile(logicalPath, text string) (*FileHandle, *diagnostics.Bag) {
	if p.Hooks.BeforeFileParse != nil {
		p.Hooks.BeforeFileParse(logicalPath)
	}

	prog, bag := parser.Parse(text, logicalPath)
	handle := &FileHandle{LogicalPath: logicalPath, Text: text, AST: prog}
	p.files[logicalPath] = handle
	p.index.SetFile(scope.BuildFileTable(logicalPath, prog))

	if p.Hooks.AfterFileParse != nil {
		p.Hooks.AfterFileParse(logicalPath, bag)
	}
	return handle, bag
}

// AddOrReplaceComponent parses an XML descriptor and registers its files
// and extends edge with the scope Index under its own component name.
func (p *Program) AddOrReplaceComponent(data []byte) (*ComponentDescriptor, error) {
	desc, err := ParseComponentDescriptor(data)
	if err != nil {
		return nil, err
	}
	p.components[desc.Name] = desc
	p.index.SetComponent(&scope.Component{
		Name:    desc.Name,
		Extends: desc.Extends,
		Files:   desc.ScriptPaths(),
	})
	return desc, nil
}

// RemoveFile drops a file's parse state and scope entry.
func (p *Program) RemoveFile(logicalPath string) {
	delete(p.files, logicalPath)
	p.index.RemoveFile(logicalPath)
}

// Validate runs the validator pipeline over every tracked file's scope,
// returning the union of diagnostics across the program.
func (p *Program) Validate() *diagnostics.Bag {
	if p.Hooks.BeforeProgramValidate != nil {
		p.Hooks.BeforeProgramValidate()
	}

	result := diagnostics.NewBag()
	lookup := scope.NewLookup(p.index)
	ctx := &validator.Context{Scope: lookup}

	paths := make([]string, 0, len(p.files))
	for path := range p.files {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return natural.Less(paths[i], paths[j]) })

	for _, path := range paths {
		p.validators.RunFile(ctx, path, p.files[path].AST, result)
	}

	if p.Hooks.AfterProgramValidate != nil {
		p.Hooks.AfterProgramValidate(result)
	}
	return result
}

// GetTranspiledFileContents lowers logicalPath's AST to L-dialect text and
// a source map. The file must already have been added via AddOrReplaceFile.
func (p *Program) GetTranspiledFileContents(logicalPath string) (TranspileResult, error) {
	handle, ok := p.files[logicalPath]
	if !ok {
		return TranspileResult{}, fmt.Errorf("program: %s is not tracked", logicalPath)
	}

	if p.Hooks.BeforeFileTranspile != nil {
		p.Hooks.BeforeFileTranspile(logicalPath)
	}

	outName := brsOutputName(logicalPath)
	tp := transpiler.New(logicalPath, outName)
	out := tp.Transpile(handle.AST)
	result := TranspileResult{Code: out.Code, Map: out.Map.JSON()}

	if p.Hooks.AfterFileTranspile != nil {
		p.Hooks.AfterFileTranspile(logicalPath, result)
	}
	return result, nil
}

// ComposedMap merges this program's own S->L map with a downstream map
// (for instance a bundler's rewrite), so multi-stage pipelines keep a
// single end-to-end source map.
func ComposedMap(upstream, downstream *sourcemap.Builder) *sourcemap.Builder {
	return sourcemap.Compose(upstream, downstream)
}

func brsOutputName(logicalPath string) string {
	if len(logicalPath) > 3 && logicalPath[len(logicalPath)-3:] == ".bs" {
		return logicalPath[:len(logicalPath)-3] + ".brs"
	}
	return logicalPath
}
