package ast

import (
	"strconv"

	"github.com/yap-lang/yap/internal/position"
)

// ===== Type expressions =====

// Binding is one `name: Type` entry of a pi domain.
type Binding struct {
	Span position.Span
	Name *Identifier
	Type Expr
}

// Pi is a dependent function type `(x: A, y: B) -> C`.
type Pi struct {
	Span     position.Span
	Domain   []*Binding
	Plicity  Plicity
	Codomain Expr
}

// Arrow is a non-dependent function type `A -> B` or `A => B`.
type Arrow struct {
	Span     position.Span
	Domain   Expr
	Plicity  Plicity
	Codomain Expr
}

// Mu is a recursive type `μ t -> body`.
type Mu struct {
	Span position.Span
	Name *Identifier
	Body Expr
}

// Alternative is one `#tag payload?` entry of a variant.
type Alternative struct {
	Span    position.Span
	Tag     *Identifier
	Payload Expr // optional
}

// Variant is `| #a A | #b B`.
type Variant struct {
	Span         position.Span
	Alternatives []*Alternative
}

// Tagged is a tagged value or constructor `#tag payload?`.
type Tagged struct {
	Span    position.Span
	Tag     *Identifier
	Payload Expr // optional
}

// Quantity is the usage annotation of a modal type.
type Quantity int

const (
	QuantityNone Quantity = iota // no <q> prefix
	QuantityZero
	QuantityOne
	QuantityMany
)

func (q Quantity) String() string {
	switch q {
	case QuantityZero:
		return "0"
	case QuantityOne:
		return "1"
	case QuantityMany:
		return "*"
	default:
		return "_"
	}
}

// Modal is `<q> T [| usage |]`. Either part may be absent but not both.
type Modal struct {
	Span     position.Span
	Quantity Quantity
	Type     Expr
	Usage    Expr // optional liquid refinement
}

// ===== Expressions =====

// Param is a lambda parameter, optionally annotated.
type Param struct {
	Span position.Span
	Name *Identifier
	Type Expr // optional
}

// Lambda is `\x y -> body` or `\(x, (y: T)) => body`.
type Lambda struct {
	Span    position.Span
	Params  []*Param
	Plicity Plicity
	Body    Expr
}

// Arm is one `| pattern -> body` alternative of a match.
type Arm struct {
	Span    position.Span
	Pattern Pattern
	Body    Expr
}

// Match is `match subject | p -> e ...` with arms kept in source order.
type Match struct {
	Span    position.Span
	Subject Expr
	Arms    []*Arm
}

// Block is `{ stmt; ...; return e }`.
type Block struct {
	Span       position.Span
	Statements []Stmt
	Return     *Return // optional
}

// Unary is a prefix `-` or `+`.
type Unary struct {
	Span     position.Span
	Operator string
	Operand  Expr
}

// Operation is a binary operator application.
type Operation struct {
	Span     position.Span
	Operator string
	Left     Expr
	Right    Expr
}

// Application is function application by juxtaposition. Implicit arguments
// are written `f @x`.
type Application struct {
	Span     position.Span
	Function Expr
	Argument Expr
	Plicity  Plicity
}

// Annotation is `term : Type`.
type Annotation struct {
	Span position.Span
	Term Expr
	Type Expr
}

// Projection is `record.field`.
type Projection struct {
	Span   position.Span
	Record Expr
	Field  *Identifier
}

// Assignment is one `key = value` update of an injection.
type Assignment struct {
	Span  position.Span
	Key   *Identifier
	Value Expr
}

// Injection is a record update `{ base | k = v }`; Base is nil for `{ | k = v }`.
type Injection struct {
	Span        position.Span
	Base        Expr
	Assignments []*Assignment
}

// Continuation is `reset e`, `shift e` or `resume e`.
type Continuation struct {
	Span    position.Span
	Keyword string
	Body    Expr
}

// ===== Atoms =====

// Identifier represents identifiers
type Identifier struct {
	Span position.Span
	Name string
}

// Label is `:name`. Name excludes the colon.
type Label struct {
	Span position.Span
	Name string
}

// StringLit is a string literal. Raw keeps the quoted source text.
type StringLit struct {
	Span  position.Span
	Value string
	Raw   string
}

// NumberLit is an integer or float literal kept in source form.
type NumberLit struct {
	Span    position.Span
	Raw     string
	IsFloat bool
}

// Int returns the integer value of a non-float literal.
func (n *NumberLit) Int() (int64, error) {
	return strconv.ParseInt(n.Raw, 10, 64)
}

// Float returns the value of the literal as a float64.
func (n *NumberLit) Float() (float64, error) {
	return strconv.ParseFloat(n.Raw, 64)
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Span  position.Span
	Value bool
}

// Reserved is one of the reserved literals `Type`, `Unit`, `Row` or `!`.
type Reserved struct {
	Span position.Span
	Name string
}

// Field is one `key: value` entry of a struct.
type Field struct {
	Span  position.Span
	Key   *Identifier
	Value Expr
}

// Struct is `{ a: 1, b: 2 | rest }`.
type Struct struct {
	Span   position.Span
	Fields []*Field
	Tail   *Identifier // optional
}

// Tuple is `{ 1, 2 | rest }`.
type Tuple struct {
	Span     position.Span
	Elements []Expr
	Tail     *Identifier // optional
}

// List is `[1, 2 | rest]`.
type List struct {
	Span     position.Span
	Elements []Expr
	Tail     *Identifier // optional
}

// RowKey is the key of a row entry: a field name or a positional index.
type RowKey struct {
	Span       position.Span
	Name       string
	Positional bool
}

// RowField is one `key: value` entry of a row.
type RowField struct {
	Span  position.Span
	Key   RowKey
	Value Expr
}

// Row is `[a: Nat, 0: Bool | rest]`.
type Row struct {
	Span   position.Span
	Fields []*RowField
	Tail   *Identifier // optional
}

// Dict is an index-typed dictionary `{ [Key]: Value }`.
type Dict struct {
	Span  position.Span
	Key   Expr
	Value Expr
}

func (n *Pi) GetSpan() position.Span           { return n.Span }
func (n *Arrow) GetSpan() position.Span        { return n.Span }
func (n *Mu) GetSpan() position.Span           { return n.Span }
func (n *Variant) GetSpan() position.Span      { return n.Span }
func (n *Tagged) GetSpan() position.Span       { return n.Span }
func (n *Modal) GetSpan() position.Span        { return n.Span }
func (n *Lambda) GetSpan() position.Span       { return n.Span }
func (n *Match) GetSpan() position.Span        { return n.Span }
func (n *Block) GetSpan() position.Span        { return n.Span }
func (n *Unary) GetSpan() position.Span        { return n.Span }
func (n *Operation) GetSpan() position.Span    { return n.Span }
func (n *Application) GetSpan() position.Span  { return n.Span }
func (n *Annotation) GetSpan() position.Span   { return n.Span }
func (n *Projection) GetSpan() position.Span   { return n.Span }
func (n *Injection) GetSpan() position.Span    { return n.Span }
func (n *Continuation) GetSpan() position.Span { return n.Span }
func (n *Identifier) GetSpan() position.Span   { return n.Span }
func (n *Label) GetSpan() position.Span        { return n.Span }
func (n *StringLit) GetSpan() position.Span    { return n.Span }
func (n *NumberLit) GetSpan() position.Span    { return n.Span }
func (n *BoolLit) GetSpan() position.Span      { return n.Span }
func (n *Reserved) GetSpan() position.Span     { return n.Span }
func (n *Struct) GetSpan() position.Span       { return n.Span }
func (n *Tuple) GetSpan() position.Span        { return n.Span }
func (n *List) GetSpan() position.Span         { return n.Span }
func (n *Row) GetSpan() position.Span          { return n.Span }
func (n *Dict) GetSpan() position.Span         { return n.Span }

func (*Pi) Category() Category           { return CategoryTypeExpr }
func (*Arrow) Category() Category        { return CategoryTypeExpr }
func (*Mu) Category() Category           { return CategoryTypeExpr }
func (*Variant) Category() Category      { return CategoryTypeExpr }
func (*Tagged) Category() Category       { return CategoryTypeExpr }
func (*Modal) Category() Category        { return CategoryTypeExpr }
func (*Lambda) Category() Category       { return CategoryExpr }
func (*Match) Category() Category        { return CategoryExpr }
func (*Block) Category() Category        { return CategoryExpr }
func (*Unary) Category() Category        { return CategoryExpr }
func (*Operation) Category() Category    { return CategoryExpr }
func (*Application) Category() Category  { return CategoryExpr }
func (*Annotation) Category() Category   { return CategoryExpr }
func (*Projection) Category() Category   { return CategoryExpr }
func (*Injection) Category() Category    { return CategoryExpr }
func (*Continuation) Category() Category { return CategoryExpr }
func (*Identifier) Category() Category   { return CategoryAtom }
func (*Label) Category() Category        { return CategoryAtom }
func (*StringLit) Category() Category    { return CategoryAtom }
func (*NumberLit) Category() Category    { return CategoryAtom }
func (*BoolLit) Category() Category      { return CategoryAtom }
func (*Reserved) Category() Category     { return CategoryAtom }
func (*Struct) Category() Category       { return CategoryAtom }
func (*Tuple) Category() Category        { return CategoryAtom }
func (*List) Category() Category         { return CategoryAtom }
func (*Row) Category() Category          { return CategoryAtom }
func (*Dict) Category() Category         { return CategoryAtom }

func (*Pi) exprNode()           {}
func (*Arrow) exprNode()        {}
func (*Mu) exprNode()           {}
func (*Variant) exprNode()      {}
func (*Tagged) exprNode()       {}
func (*Modal) exprNode()        {}
func (*Lambda) exprNode()       {}
func (*Match) exprNode()        {}
func (*Block) exprNode()        {}
func (*Unary) exprNode()        {}
func (*Operation) exprNode()    {}
func (*Application) exprNode()  {}
func (*Annotation) exprNode()   {}
func (*Projection) exprNode()   {}
func (*Injection) exprNode()    {}
func (*Continuation) exprNode() {}
func (*Identifier) exprNode()   {}
func (*Label) exprNode()        {}
func (*StringLit) exprNode()    {}
func (*NumberLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*Reserved) exprNode()     {}
func (*Struct) exprNode()       {}
func (*Tuple) exprNode()        {}
func (*List) exprNode()         {}
func (*Row) exprNode()          {}
func (*Dict) exprNode()         {}
