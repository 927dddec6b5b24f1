package transpiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starlight-tv/bsc/internal/ast"
	"github.com/starlight-tv/bsc/internal/lexer"
)

func (t *Transpiler) emitExpr(e ast.Expression) {
	t.write(exprToSource(e))
}

// exprToSource renders e as L-dialect text. It is also used for contexts
// that never carry their own source-map entry, such as parameter defaults.
func exprToSource(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Literal:
		return literalText(n)
	case *ast.Variable:
		return n.Name // the lexer keeps any type-designator sigil in the name
	case *ast.Grouping:
		return "(" + exprToSource(n.Inner) + ")"
	case *ast.Unary:
		return n.Operator.String() + " " + exprToSource(n.Operand)
	case *ast.Binary:
		return exprToSource(n.Left) + " " + n.Operator.String() + " " + exprToSource(n.Right)
	case *ast.Call:
		return exprToSource(n.Callee) + "(" + joinExprs(n.Args) + ")"
	case *ast.DottedGet:
		return exprToSource(n.Target) + "." + n.Name
	case *ast.IndexedGet:
		return exprToSource(n.Target) + "[" + exprToSource(n.Index) + "]"
	case *ast.ArrayLiteral:
		return "[" + joinExprs(n.Elements) + "]"
	case *ast.AALiteral:
		parts := make([]string, len(n.Members))
		for i, m := range n.Members {
			parts[i] = m.Key + ": " + exprToSource(m.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.FunctionExpression:
		return functionExprText(n)
	case *ast.NewExpression:
		return "New__" + n.ClassName + "(" + joinExprs(n.Args) + ")"
	case *ast.TemplateString:
		return templateStringText(n)
	}
	return ""
}

func joinExprs(exprs []ast.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = exprToSource(e)
	}
	return strings.Join(parts, ", ")
}

func designatorSuffix(d lexer.TypeDesignator) string {
	if d == lexer.NoDesignator {
		return ""
	}
	return string(rune(d))
}

func literalText(n *ast.Literal) string {
	switch v := n.Value.(type) {
	case nil:
		return "invalid"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	case int64:
		return strconv.FormatInt(v, 10) + designatorSuffix(n.Designator)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64) + designatorSuffix(n.Designator)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// functionExprText renders an anonymous function/sub literal (and, via
// toFunctionExpression, a class method) inline. Its body is built with a
// throwaway Transpiler so indentation nests correctly; the mappings that
// sub-transpiler records are discarded; class methods carry span
// information only at the "instance.name = function(...)" line emitted by
// the caller, not per-statement inside the body.
func functionExprText(n *ast.FunctionExpression) string {
	kw := "function"
	if n.IsSub {
		kw = "sub"
	}
	var sb strings.Builder
	sb.WriteString(kw + "(" + joinParams(n.Params) + ")")
	if !n.IsSub {
		sb.WriteString(" as " + n.ReturnType)
	}
	sb.WriteString("\n")
	sub := New("", "")
	sub.indent = 1
	for _, s := range n.Body.Statements {
		sub.emitStatement(s)
	}
	sb.WriteString(sub.sb.String())
	if n.IsSub {
		sb.WriteString("end sub")
	} else {
		sb.WriteString("end function")
	}
	return sb.String()
}

// templateStringText lowers a backtick template into a chain of string
// concatenations, wrapping non-string interpolations in Stringify__ so
// concatenation never hits a type mismatch at runtime.
func templateStringText(n *ast.TemplateString) string {
	var parts []string
	for i, chunk := range n.Chunks {
		if chunk != "" {
			parts = append(parts, `"`+strings.ReplaceAll(chunk, `"`, `""`)+`"`)
		}
		if i < len(n.Exprs) {
			parts = append(parts, "Stringify__("+exprToSource(n.Exprs[i])+")")
		}
	}
	if len(parts) == 0 {
		return `""`
	}
	return strings.Join(parts, " + ")
}
