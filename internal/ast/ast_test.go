package ast

import (
	"strings"
	"testing"

	"github.com/yap-lang/yap/internal/position"
)

func createTestSpan(start, end int) position.Span {
	return position.Span{
		Start: position.Position{Line: 1, Column: start + 1, Offset: start},
		End:   position.Position{Line: 1, Column: end + 1, Offset: end},
	}
}

func ident(name string) *Identifier {
	return &Identifier{Span: createTestSpan(0, len(name)), Name: name}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		node Node
		want Category
	}{
		{&Pi{}, CategoryTypeExpr},
		{&Arrow{}, CategoryTypeExpr},
		{&Mu{}, CategoryTypeExpr},
		{&Variant{}, CategoryTypeExpr},
		{&Tagged{}, CategoryTypeExpr},
		{&Modal{}, CategoryTypeExpr},
		{&Lambda{}, CategoryExpr},
		{&Match{}, CategoryExpr},
		{&Block{}, CategoryExpr},
		{&Application{}, CategoryExpr},
		{&Injection{}, CategoryExpr},
		{&Continuation{}, CategoryExpr},
		{&Identifier{}, CategoryAtom},
		{&Struct{}, CategoryAtom},
		{&Row{}, CategoryAtom},
		{&Dict{}, CategoryAtom},
		{&PatternWildcard{}, CategoryPattern},
		{&PatternRow{}, CategoryPattern},
		{&Script{}, CategoryStatement},
		{&LetDec{}, CategoryStatement},
		{&Return{}, CategoryStatement},
	}

	for _, tt := range tests {
		if got := tt.node.Category(); got != tt.want {
			t.Errorf("%T.Category() = %s, want %s", tt.node, got, tt.want)
		}
	}
}

func TestSpanAccessor(t *testing.T) {
	span := createTestSpan(3, 9)
	op := &Operation{Span: span, Operator: "+", Left: ident("a"), Right: ident("b")}
	if op.GetSpan() != span {
		t.Errorf("GetSpan() = %v, want %v", op.GetSpan(), span)
	}
}

func TestDump(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			"operation",
			&Operation{Operator: "+", Left: ident("a"), Right: &Operation{Operator: "*", Left: ident("b"), Right: &NumberLit{Raw: "2"}}},
			"(+ a (* b 2))",
		},
		{
			"implicit application",
			&Application{Function: ident("f"), Argument: ident("T"), Plicity: Implicit},
			"(app f @T)",
		},
		{
			"pi",
			&Pi{Domain: []*Binding{{Name: ident("x"), Type: ident("Nat")}}, Codomain: &Reserved{Name: "Type"}},
			"(pi ((x Nat)) -> Type)",
		},
		{
			"modal without quantity",
			&Modal{Type: ident("T"), Usage: ident("f")},
			"(modal _ T f)",
		},
		{
			"struct with tail",
			&Struct{Fields: []*Field{{Key: ident("a"), Value: &NumberLit{Raw: "1"}}}, Tail: ident("r")},
			"(struct (a 1) | r)",
		},
		{
			"injection without base",
			&Injection{Assignments: []*Assignment{{Key: ident("k"), Value: &BoolLit{Value: true}}}},
			"(inject _ (k = true))",
		},
		{
			"match",
			&Match{Subject: ident("x"), Arms: []*Arm{
				{Pattern: &PatternTagged{Tag: ident("some"), Payload: &PatternVariable{Name: ident("y")}}, Body: ident("y")},
				{Pattern: &PatternWildcard{}, Body: &NumberLit{Raw: "0"}},
			}},
			"(match x ((ptag some (pvar y)) -> y) (_ -> 0))",
		},
		{
			"string literal",
			&StringLit{Value: "a\"b", Raw: `"a\"b"`},
			`"a\"b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dump(tt.node); got != tt.want {
				t.Errorf("Dump() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInspectOrder(t *testing.T) {
	// let x : Nat = f @a b
	let := &LetDec{
		Name: ident("x"),
		Type: ident("Nat"),
		Value: &Application{
			Function: &Application{Function: ident("f"), Argument: ident("a"), Plicity: Implicit},
			Argument: ident("b"),
		},
	}
	root := &Script{Statements: []Stmt{let}}

	var names []string
	Inspect(root, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})

	if got := strings.Join(names, " "); got != "x Nat f a b" {
		t.Errorf("visit order = %q", got)
	}
}

func TestInspectPrune(t *testing.T) {
	root := &Lambda{
		Params: []*Param{{Name: ident("x")}},
		Body:   &Block{Return: &Return{Value: ident("hidden")}},
	}

	seen := 0
	Inspect(root, func(n Node) bool {
		seen++
		_, isBlock := n.(*Block)
		return !isBlock
	})
	// lambda, param name, block
	if seen != 3 {
		t.Errorf("visited %d nodes, want 3", seen)
	}
}

func TestCountByCategory(t *testing.T) {
	root := &Script{Statements: []Stmt{
		&ExprStatement{Value: &Arrow{Domain: ident("A"), Codomain: ident("B")}},
	}}
	counts := CountByCategory(root)
	if counts[CategoryStatement] != 2 || counts[CategoryTypeExpr] != 1 || counts[CategoryAtom] != 2 {
		t.Errorf("counts = %v", counts)
	}
}
