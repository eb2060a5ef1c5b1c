// Package ast defines the abstract syntax tree of the Yap language.
//
// Types, terms and patterns share one syntax, so the tree is a single tagged
// union: every concrete node is a struct implementing Node, and every node
// belongs to exactly one Category. Consumers that only need to know whether
// something is a type expression, a term, a pattern, an atom or a statement
// switch on Category(); consumers that need details type-switch on the
// concrete struct. Trees are built bottom-up by the parser and are never
// mutated afterwards.
package ast

import (
	"github.com/yap-lang/yap/internal/position"
)

// Category is the coarse classification shared by all node variants.
type Category int

const (
	CategoryTypeExpr Category = iota
	CategoryExpr
	CategoryPattern
	CategoryAtom
	CategoryStatement
)

func (c Category) String() string {
	switch c {
	case CategoryTypeExpr:
		return "type_expr"
	case CategoryExpr:
		return "expr"
	case CategoryPattern:
		return "pattern"
	case CategoryAtom:
		return "atom"
	case CategoryStatement:
		return "statement"
	default:
		return "unknown"
	}
}

// Node is the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span covered by this node
	GetSpan() position.Span
	// Category returns the node's category
	Category() Category
}

// Expr is any node usable as a term or a type: the TypeExpr, Expr and Atom
// categories.
type Expr interface {
	Node
	exprNode()
}

// Pattern is any node of the Pattern category.
type Pattern interface {
	Node
	patternNode()
}

// Stmt is a statement that may appear in a script or a block.
type Stmt interface {
	Node
	stmtNode()
}

// Root is the result of parsing a whole input: *Module or *Script.
type Root interface {
	Node
	rootNode()
	Trivia() []*Comment
}

// Plicity distinguishes explicit binders and arguments from implicit ones.
type Plicity int

const (
	Explicit Plicity = iota
	Implicit
)

// Arrow returns the arrow marker used for the plicity.
func (p Plicity) Arrow() string {
	if p == Implicit {
		return "=>"
	}
	return "->"
}

// Comment is source trivia kept for round-trip tooling. It is not part of
// the node union.
type Comment struct {
	Span    position.Span
	Text    string // including delimiters
	IsBlock bool
}

func (c *Comment) GetSpan() position.Span { return c.Span }

// ===== Roots and statements =====

// Module is a source file that starts with exports or imports.
type Module struct {
	Span     position.Span
	Exports  *Exports // nil when the file starts with an import
	Imports  []*Import
	Body     *Script
	Comments []*Comment
}

// Script is a sequence of statements.
type Script struct {
	Span       position.Span
	Statements []Stmt
	Comments   []*Comment // only populated on a root script
}

// Exports is `export *;` or `export (a, b);`.
type Exports struct {
	Span  position.Span
	All   bool
	Names []*Identifier
}

// Import is `import "path";` or `import "path" (a, b);`.
type Import struct {
	Span  position.Span
	Path  *StringLit
	Names []*Identifier
}

// LetDec is `let name [: type] = value`, or `name := value` when Short.
type LetDec struct {
	Span  position.Span
	Name  *Identifier
	Type  Expr // optional
	Value Expr
	Short bool
}

// Using is `using expr [as alias]`.
type Using struct {
	Span  position.Span
	Value Expr
	Alias *Identifier // optional
}

// Foreign is `foreign name : type`.
type Foreign struct {
	Span position.Span
	Name *Identifier
	Type Expr
}

// ExprStatement is a bare expression or type used as a statement.
type ExprStatement struct {
	Span  position.Span
	Value Expr
}

// Return is the optional closing `return expr` of a block.
type Return struct {
	Span  position.Span
	Value Expr
}

func (n *Module) GetSpan() position.Span        { return n.Span }
func (n *Script) GetSpan() position.Span        { return n.Span }
func (n *Exports) GetSpan() position.Span       { return n.Span }
func (n *Import) GetSpan() position.Span        { return n.Span }
func (n *LetDec) GetSpan() position.Span        { return n.Span }
func (n *Using) GetSpan() position.Span         { return n.Span }
func (n *Foreign) GetSpan() position.Span       { return n.Span }
func (n *ExprStatement) GetSpan() position.Span { return n.Span }
func (n *Return) GetSpan() position.Span        { return n.Span }

func (*Module) Category() Category        { return CategoryStatement }
func (*Script) Category() Category        { return CategoryStatement }
func (*Exports) Category() Category       { return CategoryStatement }
func (*Import) Category() Category        { return CategoryStatement }
func (*LetDec) Category() Category        { return CategoryStatement }
func (*Using) Category() Category         { return CategoryStatement }
func (*Foreign) Category() Category       { return CategoryStatement }
func (*ExprStatement) Category() Category { return CategoryStatement }
func (*Return) Category() Category        { return CategoryStatement }

func (*Module) rootNode() {}
func (*Script) rootNode() {}

func (n *Module) Trivia() []*Comment { return n.Comments }
func (n *Script) Trivia() []*Comment { return n.Comments }

func (*LetDec) stmtNode()        {}
func (*Using) stmtNode()         {}
func (*Foreign) stmtNode()       {}
func (*ExprStatement) stmtNode() {}
