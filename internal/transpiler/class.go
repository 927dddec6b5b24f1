package transpiler

import (
	"fmt"
	"strings"

	"github.com/starlight-tv/bsc/internal/ast"
)

// mangleName flattens a dotted namespace-qualified name into a single L-
// dialect identifier, since the legacy dialect has no namespace syntax.
func mangleName(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

// emitClassAsConstructorFunction lowers a class declaration to a constructor
// function returning an associative array, the BrightScript idiom for
// object-oriented code: methods are plain function-valued AA members, and
// "m" is bound to the array automatically when a method is invoked through
// dot-call syntax. An ancestor instance is captured under instance.super so
// overriding methods can still reach it.
func (t *Transpiler) emitClassAsConstructorFunction(n *ast.ClassStatement) {
	ctorName := mangleName(n.Name)
	ctor := constructorMethod(n)

	var params []*ast.Parameter
	if ctor != nil {
		params = ctor.Function.Params
	}

	t.writeIndent()
	t.mark(n)
	t.write(fmt.Sprintf("function New__%s(%s)\n", ctorName, joinParams(params)))
	t.indent++

	t.writeIndent()
	t.write("instance = {}\n")

	if n.Extends != "" {
		t.writeIndent()
		t.write(fmt.Sprintf("instance.super = New__%s(%s)\n", mangleName(n.Extends), joinExprs(superCallArgs(ctor))))
		t.writeIndent()
		t.write("instance.append(instance.super)\n")
	}

	for _, f := range n.Fields {
		t.writeIndent()
		t.write("instance." + f.Name + " = ")
		if f.Default != nil {
			t.emitExpr(f.Default)
		} else {
			t.write(zeroValueForType(f.Type))
		}
		t.write("\n")
	}

	for _, m := range n.Methods {
		name := m.Function.Name
		fn := m.Function
		if m.IsConstructor {
			name = "new"
			fn = withoutLeadingSuperCall(fn)
		}
		t.writeIndent()
		t.write("instance." + name + " = " + functionExprText(toFunctionExpression(fn)) + "\n")
	}

	if ctor != nil {
		t.writeIndent()
		t.write("instance.new(" + joinArgNames(params) + ")\n")
	}

	t.writeIndent()
	t.write("return instance\n")
	t.indent--
	t.writeIndent()
	t.write("end function\n")
}

// constructorMethod returns n's "new" method, if it declares one.
func constructorMethod(n *ast.ClassStatement) *ast.ClassMethod {
	for _, m := range n.Methods {
		if m.IsConstructor {
			return m
		}
	}
	return nil
}

// superCallArgs returns the argument list of ctor's leading super(...) call,
// or nil if ctor has none (e.g. the class has no constructor, or its
// constructor doesn't chain to the ancestor explicitly).
func superCallArgs(ctor *ast.ClassMethod) []ast.Expression {
	if ctor == nil || ctor.Function.Body == nil || len(ctor.Function.Body.Statements) == 0 {
		return nil
	}
	if sc, ok := ctor.Function.Body.Statements[0].(*ast.SuperCallStatement); ok {
		return sc.Args
	}
	return nil
}

// withoutLeadingSuperCall returns fn with its leading super(...) statement
// removed, since that call is already lowered separately into
// instance.super; leaving it in fn's body would emit it a second time.
func withoutLeadingSuperCall(fn *ast.FunctionStatement) *ast.FunctionStatement {
	if fn.Body == nil || len(fn.Body.Statements) == 0 {
		return fn
	}
	if _, ok := fn.Body.Statements[0].(*ast.SuperCallStatement); !ok {
		return fn
	}
	trimmed := *fn
	body := *fn.Body
	body.Statements = fn.Body.Statements[1:]
	trimmed.Body = &body
	return &trimmed
}

// joinArgNames renders params as a bare comma-joined name list, for forwarding
// a constructor's own parameters into the instance.new(...) call that follows
// it, as opposed to joinParams' declaration-style rendering.
func joinArgNames(params []*ast.Parameter) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func toFunctionExpression(f *ast.FunctionStatement) *ast.FunctionExpression {
	return &ast.FunctionExpression{
		Base:       f.Base,
		Params:     f.Params,
		ReturnType: f.ReturnType,
		Body:       f.Body,
		IsSub:      f.IsSub,
	}
}

func zeroValueForType(declared string) string {
	switch strings.ToLower(declared) {
	case "integer", "longinteger":
		return "0"
	case "float", "double":
		return "0.0"
	case "string":
		return `""`
	case "boolean":
		return "false"
	default:
		return "invalid"
	}
}
