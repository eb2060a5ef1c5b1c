package ast

// Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order, children in source order.
// Helper records such as Binding, Param or Arm are not nodes; their node
// fields are visited directly.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	// Roots and statements
	case *Module:
		if n.Exports != nil {
			Walk(v, n.Exports)
		}
		for _, imp := range n.Imports {
			Walk(v, imp)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *Script:
		walkStmts(v, n.Statements)
	case *Exports:
		walkIdents(v, n.Names)
	case *Import:
		Walk(v, n.Path)
		walkIdents(v, n.Names)
	case *LetDec:
		Walk(v, n.Name)
		walkExpr(v, n.Type)
		walkExpr(v, n.Value)
	case *Using:
		walkExpr(v, n.Value)
		walkIdent(v, n.Alias)
	case *Foreign:
		Walk(v, n.Name)
		walkExpr(v, n.Type)
	case *ExprStatement:
		walkExpr(v, n.Value)
	case *Return:
		walkExpr(v, n.Value)

	// Type expressions
	case *Pi:
		for _, b := range n.Domain {
			Walk(v, b.Name)
			walkExpr(v, b.Type)
		}
		walkExpr(v, n.Codomain)
	case *Arrow:
		walkExpr(v, n.Domain)
		walkExpr(v, n.Codomain)
	case *Mu:
		Walk(v, n.Name)
		walkExpr(v, n.Body)
	case *Variant:
		for _, alt := range n.Alternatives {
			Walk(v, alt.Tag)
			walkExpr(v, alt.Payload)
		}
	case *Tagged:
		Walk(v, n.Tag)
		walkExpr(v, n.Payload)
	case *Modal:
		walkExpr(v, n.Type)
		walkExpr(v, n.Usage)

	// Expressions
	case *Lambda:
		for _, p := range n.Params {
			Walk(v, p.Name)
			walkExpr(v, p.Type)
		}
		walkExpr(v, n.Body)
	case *Match:
		walkExpr(v, n.Subject)
		for _, arm := range n.Arms {
			walkPattern(v, arm.Pattern)
			walkExpr(v, arm.Body)
		}
	case *Block:
		walkStmts(v, n.Statements)
		if n.Return != nil {
			Walk(v, n.Return)
		}
	case *Unary:
		walkExpr(v, n.Operand)
	case *Operation:
		walkExpr(v, n.Left)
		walkExpr(v, n.Right)
	case *Application:
		walkExpr(v, n.Function)
		walkExpr(v, n.Argument)
	case *Annotation:
		walkExpr(v, n.Term)
		walkExpr(v, n.Type)
	case *Projection:
		walkExpr(v, n.Record)
		Walk(v, n.Field)
	case *Injection:
		walkExpr(v, n.Base)
		for _, a := range n.Assignments {
			Walk(v, a.Key)
			walkExpr(v, a.Value)
		}
	case *Continuation:
		walkExpr(v, n.Body)

	// Atoms
	case *Identifier, *Label, *StringLit, *NumberLit, *BoolLit, *Reserved:
		// leaves
	case *Struct:
		for _, f := range n.Fields {
			Walk(v, f.Key)
			walkExpr(v, f.Value)
		}
		walkIdent(v, n.Tail)
	case *Tuple:
		walkExprs(v, n.Elements)
		walkIdent(v, n.Tail)
	case *List:
		walkExprs(v, n.Elements)
		walkIdent(v, n.Tail)
	case *Row:
		for _, f := range n.Fields {
			walkExpr(v, f.Value)
		}
		walkIdent(v, n.Tail)
	case *Dict:
		walkExpr(v, n.Key)
		walkExpr(v, n.Value)

	// Patterns
	case *PatternVariable:
		Walk(v, n.Name)
	case *PatternWildcard:
		// leaf
	case *PatternLiteral:
		walkExpr(v, n.Literal)
	case *PatternTagged:
		Walk(v, n.Tag)
		walkPattern(v, n.Payload)
	case *PatternStruct:
		for _, f := range n.Fields {
			Walk(v, f.Key)
			walkPattern(v, f.Value)
		}
		walkIdent(v, n.Tail)
	case *PatternTuple:
		for _, p := range n.Elements {
			walkPattern(v, p)
		}
		walkIdent(v, n.Tail)
	case *PatternList:
		for _, p := range n.Elements {
			walkPattern(v, p)
		}
		walkIdent(v, n.Tail)
	case *PatternRow:
		for _, f := range n.Fields {
			walkPattern(v, f.Value)
		}
		walkIdent(v, n.Tail)
	}

	v.Visit(nil)
}

func walkExpr(v Visitor, e Expr) {
	if e != nil {
		Walk(v, e)
	}
}

func walkExprs(v Visitor, list []Expr) {
	for _, e := range list {
		walkExpr(v, e)
	}
}

func walkPattern(v Visitor, p Pattern) {
	if p != nil {
		Walk(v, p)
	}
}

func walkStmts(v Visitor, list []Stmt) {
	for _, s := range list {
		if s != nil {
			Walk(v, s)
		}
	}
}

func walkIdent(v Visitor, id *Identifier) {
	if id != nil {
		Walk(v, id)
	}
}

func walkIdents(v Visitor, list []*Identifier) {
	for _, id := range list {
		walkIdent(v, id)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if node != nil && f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// CountByCategory returns how many nodes of each category the tree holds.
func CountByCategory(root Node) map[Category]int {
	counts := make(map[Category]int)
	Inspect(root, func(n Node) bool {
		counts[n.Category()]++
		return true
	})
	return counts
}
