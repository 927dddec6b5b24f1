// Package transpiler lowers a parsed S-dialect file to equivalent
// L-dialect text, emitting a source map alongside the text, per
// SPEC_FULL.md §4.5. Grounded on the teacher's AST-walk idiom (ast.go) and
// its CLI output conventions (cmd/dwscript/cmd).
package transpiler

import (
	"fmt"
	"strings"

	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/sourcemap"
)

// Result is the output of transpiling one file.
type Result struct {
	Code string
	Map  *sourcemap.Builder
}

// Transpiler walks one file's AST and produces L-dialect text.
type Transpiler struct {
	fileName  string
	outName   string
	sb        strings.Builder
	line      int
	col       int
	indent    int
	mapBuild  *sourcemap.Builder
	classes   map[string]*ast.ClassStatement
}

// New returns a Transpiler for fileName, emitting into a map attributed to
// outName.
func New(fileName, outName string) *Transpiler {
	return &Transpiler{fileName: fileName, outName: outName, line: 0, col: 0, mapBuild: sourcemap.NewBuilder(outName), classes: map[string]*ast.ClassStatement{}}
}

// Transpile renders prog to L-dialect source text plus a source map.
func (t *Transpiler) Transpile(prog *ast.Program) Result {
	for _, stmt := range prog.Statements {
		if cls, ok := stmt.(*ast.ClassStatement); ok {
			t.classes[cls.Name] = cls
		}
	}
	for _, stmt := range prog.Statements {
		switch stmt.(type) {
		case *ast.LibraryStatement, *ast.ImportStatement:
			continue // no in-band emission; contributed to the component's script-tag list
		}
		t.emitStatement(stmt)
	}
	return Result{Code: t.sb.String(), Map: t.mapBuild}
}

func (t *Transpiler) write(s string) {
	for _, r := range s {
		t.sb.WriteRune(r)
		if r == '\n' {
			t.line++
			t.col = 0
		} else {
			t.col++
		}
	}
}

func (t *Transpiler) writeIndent() {
	t.write(strings.Repeat("    ", t.indent))
}

func (t *Transpiler) mark(n ast.Node) {
	t.mapBuild.Add(t.line, t.col, t.fileName, n.Range())
}

func (t *Transpiler) emitStatement(stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.Block:
		for _, s := range n.Statements {
			t.emitStatement(s)
		}
	case *ast.Assignment:
		t.writeIndent()
		t.mark(n)
		t.emitExpr(n.Target)
		t.write(" = ")
		t.emitExpr(n.Value)
		t.write("\n")
	case *ast.DottedSet:
		t.writeIndent()
		t.mark(n)
		t.emitExpr(n.Target)
		t.write("." + n.Name + " = ")
		t.emitExpr(n.Value)
		t.write("\n")
	case *ast.IndexedSet:
		t.writeIndent()
		t.mark(n)
		t.emitExpr(n.Target)
		t.write("[")
		t.emitExpr(n.Index)
		t.write("] = ")
		t.emitExpr(n.Value)
		t.write("\n")
	case *ast.ExpressionStatement:
		t.writeIndent()
		t.mark(n)
		t.emitExpr(n.Expr)
		t.write("\n")
	case *ast.IncrementStatement:
		t.writeIndent()
		t.mark(n)
		t.emitExpr(n.Target)
		if n.Operator == ast.Increment {
			t.write("++\n")
		} else {
			t.write("--\n")
		}
	case *ast.If:
		t.emitIf(n)
	case *ast.While:
		t.writeIndent()
		t.mark(n)
		t.write("while ")
		t.emitExpr(n.Condition)
		t.write("\n")
		t.indent++
		t.emitStatement(n.Body)
		t.indent--
		t.writeIndent()
		t.write("end while\n")
	case *ast.ExitWhile:
		t.writeIndent()
		t.write("exit while\n")
	case *ast.For:
		t.writeIndent()
		t.mark(n)
		t.write(fmt.Sprintf("for %s = ", n.Variable))
		t.emitExpr(n.From)
		t.write(" to ")
		t.emitExpr(n.To)
		if n.Step != nil {
			t.write(" step ")
			t.emitExpr(n.Step)
		}
		t.write("\n")
		t.indent++
		t.emitStatement(n.Body)
		t.indent--
		t.writeIndent()
		t.write("end for\n")
	case *ast.ForEach:
		t.writeIndent()
		t.mark(n)
		t.write(fmt.Sprintf("for each %s in ", n.ItemVariable))
		t.emitExpr(n.Target)
		t.write("\n")
		t.indent++
		t.emitStatement(n.Body)
		t.indent--
		t.writeIndent()
		t.write("end for\n")
	case *ast.ExitFor:
		t.writeIndent()
		t.write("exit for\n")
	case *ast.Return:
		t.writeIndent()
		t.write("return")
		if n.Value != nil {
			t.write(" ")
			t.emitExpr(n.Value)
		}
		t.write("\n")
	case *ast.Goto:
		t.writeIndent()
		t.write("goto " + n.Label + "\n")
	case *ast.Label:
		t.write(n.Name + ":\n")
	case *ast.Print:
		t.writeIndent()
		t.write("print ")
		for i, a := range n.Args {
			if i > 0 {
				t.write("; ")
			}
			t.emitExpr(a)
		}
		t.write("\n")
	case *ast.End:
		t.writeIndent()
		t.write("end\n")
	case *ast.Stop:
		t.writeIndent()
		t.write("stop\n")
	case *ast.FunctionStatement:
		t.emitFunction(n)
	case *ast.ClassStatement:
		t.emitClassAsConstructorFunction(n)
	case *ast.CommentStatement:
		t.writeIndent()
		t.write(n.Text + "\n") // Text already starts with ' or rem
	case *ast.SuperCallStatement:
		// Reached only when a super() call isn't the constructor's leading
		// statement; emitClassAsConstructorFunction strips and lowers the
		// leading one separately into instance.super. Lowered as a direct
		// call to the ancestor constructor so the output still parses even
		// though the validator already reports this placement as an error.
		t.writeIndent()
		t.mark(n)
		t.write("m.super.new(" + joinExprs(n.Args) + ")\n")
	}
}

func (t *Transpiler) emitIf(n *ast.If) {
	t.writeIndent()
	t.mark(n)
	t.write("if ")
	t.emitExpr(n.Condition)
	t.write(" then\n")
	t.indent++
	t.emitStatement(n.Then)
	t.indent--
	for _, ei := range n.ElseIfs {
		t.writeIndent()
		t.write("else if ")
		t.emitExpr(ei.Condition)
		t.write(" then\n")
		t.indent++
		t.emitStatement(ei.Then)
		t.indent--
	}
	if n.Else != nil {
		t.writeIndent()
		t.write("else\n")
		t.indent++
		t.emitStatement(n.Else)
		t.indent--
	}
	t.writeIndent()
	t.write("end if\n")
}

func (t *Transpiler) emitFunction(n *ast.FunctionStatement) {
	t.writeIndent()
	t.mark(n)
	kw := "function"
	if n.IsSub {
		kw = "sub"
	}
	t.write(fmt.Sprintf("%s %s(%s)", kw, n.Name, joinParams(n.Params)))
	if !n.IsSub {
		t.write(" as " + n.ReturnType)
	}
	t.write("\n")
	t.indent++
	t.emitStatement(n.Body)
	t.indent--
	t.writeIndent()
	if n.IsSub {
		t.write("end sub\n")
	} else {
		t.write("end function\n")
	}
}

func joinParams(params []*ast.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		s := p.Name
		if p.Default != nil {
			s += " = " + exprToSource(p.Default)
		}
		if p.Type != "" {
			s += " as " + p.Type
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}
