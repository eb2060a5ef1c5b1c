package ast

import "github.com/yap-lang/yap/internal/position"

// PatternVariable binds the matched value to Name.
type PatternVariable struct {
	Span position.Span
	Name *Identifier
}

// PatternWildcard is `_`.
type PatternWildcard struct {
	Span position.Span
}

// PatternLiteral matches a literal: *NumberLit, *StringLit, *BoolLit or
// *Label. Negated is set for `-1` style numeric patterns.
type PatternLiteral struct {
	Span    position.Span
	Literal Expr
	Negated bool
}

// PatternTagged is `#tag pattern?`.
type PatternTagged struct {
	Span    position.Span
	Tag     *Identifier
	Payload Pattern // optional
}

// PatternField is one `key: pattern` entry of a struct pattern.
type PatternField struct {
	Span  position.Span
	Key   *Identifier
	Value Pattern
}

type PatternStruct struct {
	Span   position.Span
	Fields []*PatternField
	Tail   *Identifier // optional
}

type PatternTuple struct {
	Span     position.Span
	Elements []Pattern
	Tail     *Identifier // optional
}

type PatternList struct {
	Span     position.Span
	Elements []Pattern
	Tail     *Identifier // optional
}

// PatternRowField is one `key: pattern` entry of a row pattern.
type PatternRowField struct {
	Span  position.Span
	Key   RowKey
	Value Pattern
}

type PatternRow struct {
	Span   position.Span
	Fields []*PatternRowField
	Tail   *Identifier // optional
}

func (n *PatternVariable) GetSpan() position.Span { return n.Span }
func (n *PatternWildcard) GetSpan() position.Span { return n.Span }
func (n *PatternLiteral) GetSpan() position.Span  { return n.Span }
func (n *PatternTagged) GetSpan() position.Span   { return n.Span }
func (n *PatternStruct) GetSpan() position.Span   { return n.Span }
func (n *PatternTuple) GetSpan() position.Span    { return n.Span }
func (n *PatternList) GetSpan() position.Span     { return n.Span }
func (n *PatternRow) GetSpan() position.Span      { return n.Span }

func (*PatternVariable) Category() Category { return CategoryPattern }
func (*PatternWildcard) Category() Category { return CategoryPattern }
func (*PatternLiteral) Category() Category  { return CategoryPattern }
func (*PatternTagged) Category() Category   { return CategoryPattern }
func (*PatternStruct) Category() Category   { return CategoryPattern }
func (*PatternTuple) Category() Category    { return CategoryPattern }
func (*PatternList) Category() Category     { return CategoryPattern }
func (*PatternRow) Category() Category      { return CategoryPattern }

func (*PatternVariable) patternNode() {}
func (*PatternWildcard) patternNode() {}
func (*PatternLiteral) patternNode()  {}
func (*PatternTagged) patternNode()   {}
func (*PatternStruct) patternNode()   {}
func (*PatternTuple) patternNode()    {}
func (*PatternList) patternNode()     {}
func (*PatternRow) patternNode()      {}
