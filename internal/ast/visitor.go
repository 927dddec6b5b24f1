package ast

// Visitor is called once per node during Walk. Returning false from a
// method skips that node's children (Walk never descends past a false
// return); returning true continues the default depth-first traversal.
type Visitor interface {
	VisitExpression(Expression) bool
	VisitStatement(Statement) bool
}

// Walk performs a depth-first traversal of stmt, invoking v on every node.
// This is the single place that knows the full statement/expression
// variant set, so the validator and transpiler never need their own
// bespoke traversal switches beyond what's unique to each pass.
func Walk(v Visitor, stmt Statement) {
	if stmt == nil || !v.VisitStatement(stmt) {
		return
	}
	switch n := stmt.(type) {
	case *Block:
		for _, s := range n.Statements {
			Walk(v, s)
		}
	case *Assignment:
		WalkExpr(v, n.Target)
		WalkExpr(v, n.Value)
	case *DottedSet:
		WalkExpr(v, n.Target)
		WalkExpr(v, n.Value)
	case *IndexedSet:
		WalkExpr(v, n.Target)
		WalkExpr(v, n.Index)
		WalkExpr(v, n.Value)
	case *ExpressionStatement:
		WalkExpr(v, n.Expr)
	case *IncrementStatement:
		WalkExpr(v, n.Target)
	case *If:
		WalkExpr(v, n.Condition)
		Walk(v, n.Then)
		for _, ei := range n.ElseIfs {
			WalkExpr(v, ei.Condition)
			Walk(v, ei.Then)
		}
		if n.Else != nil {
			Walk(v, n.Else)
		}
	case *While:
		WalkExpr(v, n.Condition)
		Walk(v, n.Body)
	case *For:
		WalkExpr(v, n.From)
		WalkExpr(v, n.To)
		if n.Step != nil {
			WalkExpr(v, n.Step)
		}
		Walk(v, n.Body)
	case *ForEach:
		WalkExpr(v, n.Target)
		Walk(v, n.Body)
	case *Return:
		if n.Value != nil {
			WalkExpr(v, n.Value)
		}
	case *SuperCallStatement:
		for _, a := range n.Args {
			WalkExpr(v, a)
		}
	case *Print:
		for _, e := range n.Args {
			WalkExpr(v, e)
		}
	case *FunctionStatement:
		for _, p := range n.Params {
			if p.Default != nil {
				WalkExpr(v, p.Default)
			}
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *ClassField:
		if n.Default != nil {
			WalkExpr(v, n.Default)
		}
	case *ClassMethod:
		Walk(v, n.Function)
	case *ClassStatement:
		for _, f := range n.Fields {
			Walk(v, f)
		}
		for _, m := range n.Methods {
			Walk(v, m)
		}
	}
}

// WalkExpr traverses an expression subtree, invoking v on every node.
func WalkExpr(v Visitor, expr Expression) {
	if expr == nil || !v.VisitExpression(expr) {
		return
	}
	switch n := expr.(type) {
	case *Grouping:
		WalkExpr(v, n.Inner)
	case *Unary:
		WalkExpr(v, n.Operand)
	case *Binary:
		WalkExpr(v, n.Left)
		WalkExpr(v, n.Right)
	case *Call:
		WalkExpr(v, n.Callee)
		for _, a := range n.Args {
			WalkExpr(v, a)
		}
	case *DottedGet:
		WalkExpr(v, n.Target)
	case *IndexedGet:
		WalkExpr(v, n.Target)
		WalkExpr(v, n.Index)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			WalkExpr(v, e)
		}
	case *AALiteral:
		for _, m := range n.Members {
			WalkExpr(v, m.Value)
		}
	case *FunctionExpression:
		for _, p := range n.Params {
			if p.Default != nil {
				WalkExpr(v, p.Default)
			}
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *NewExpression:
		for _, a := range n.Args {
			WalkExpr(v, a)
		}
	case *TemplateString:
		for _, e := range n.Exprs {
			WalkExpr(v, e)
		}
	}
}

// WalkProgram walks every top-level statement of a Program in order.
func WalkProgram(v Visitor, p *Program) {
	for _, s := range p.Statements {
		Walk(v, s)
	}
}
