package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders a tree as a canonical S-expression. Spans and comments are
// left out, so two parses of equivalent source produce the same dump. It is
// the structural comparison used by round-trip checks and by `yap parse`.
func Dump(n Node) string {
	var d dumper
	d.node(n)
	return d.String()
}

type dumper struct {
	strings.Builder
}

func (d *dumper) open(head string) {
	d.WriteByte('(')
	d.WriteString(head)
}

func (d *dumper) close() {
	d.WriteByte(')')
}

func (d *dumper) sp() {
	d.WriteByte(' ')
}

func (d *dumper) tail(id *Identifier) {
	if id != nil {
		d.WriteString(" | ")
		d.WriteString(id.Name)
	}
}

func (d *dumper) expr(e Expr) {
	if e == nil {
		d.WriteByte('_')
		return
	}
	d.node(e)
}

func (d *dumper) node(n Node) {
	switch n := n.(type) {
	case nil:
		d.WriteString("nil")

	case *Module:
		d.open("module")
		if n.Exports != nil {
			d.sp()
			d.node(n.Exports)
		}
		for _, imp := range n.Imports {
			d.sp()
			d.node(imp)
		}
		d.sp()
		d.node(n.Body)
		d.close()
	case *Script:
		d.open("script")
		for _, s := range n.Statements {
			d.sp()
			d.node(s)
		}
		d.close()
	case *Exports:
		d.open("export")
		if n.All {
			d.WriteString(" *")
		}
		for _, id := range n.Names {
			d.sp()
			d.WriteString(id.Name)
		}
		d.close()
	case *Import:
		d.open("import ")
		d.WriteString(strconv.Quote(n.Path.Value))
		for _, id := range n.Names {
			d.sp()
			d.WriteString(id.Name)
		}
		d.close()
	case *LetDec:
		if n.Short {
			d.open("let:= ")
		} else {
			d.open("let ")
		}
		d.WriteString(n.Name.Name)
		if n.Type != nil {
			d.sp()
			d.node(n.Type)
		}
		d.sp()
		d.expr(n.Value)
		d.close()
	case *Using:
		d.open("using ")
		d.expr(n.Value)
		if n.Alias != nil {
			d.WriteString(" as ")
			d.WriteString(n.Alias.Name)
		}
		d.close()
	case *Foreign:
		d.open("foreign ")
		d.WriteString(n.Name.Name)
		d.sp()
		d.expr(n.Type)
		d.close()
	case *ExprStatement:
		d.expr(n.Value)
	case *Return:
		d.open("return ")
		d.expr(n.Value)
		d.close()

	case *Pi:
		d.open("pi (")
		for i, b := range n.Domain {
			if i > 0 {
				d.sp()
			}
			fmt.Fprintf(d, "(%s ", b.Name.Name)
			d.expr(b.Type)
			d.close()
		}
		d.WriteString(") ")
		d.WriteString(n.Plicity.Arrow())
		d.sp()
		d.expr(n.Codomain)
		d.close()
	case *Arrow:
		d.open(n.Plicity.Arrow())
		d.sp()
		d.expr(n.Domain)
		d.sp()
		d.expr(n.Codomain)
		d.close()
	case *Mu:
		d.open("mu ")
		d.WriteString(n.Name.Name)
		d.sp()
		d.expr(n.Body)
		d.close()
	case *Variant:
		d.open("variant")
		for _, alt := range n.Alternatives {
			d.sp()
			d.tagged(alt.Tag, alt.Payload)
		}
		d.close()
	case *Tagged:
		d.tagged(n.Tag, n.Payload)
	case *Modal:
		d.open("modal ")
		d.WriteString(n.Quantity.String())
		d.sp()
		d.expr(n.Type)
		if n.Usage != nil {
			d.sp()
			d.node(n.Usage)
		}
		d.close()

	case *Lambda:
		d.open("lambda (")
		for i, p := range n.Params {
			if i > 0 {
				d.sp()
			}
			if p.Type == nil {
				d.WriteString(p.Name.Name)
				continue
			}
			fmt.Fprintf(d, "(%s ", p.Name.Name)
			d.node(p.Type)
			d.close()
		}
		d.WriteString(") ")
		d.WriteString(n.Plicity.Arrow())
		d.sp()
		d.expr(n.Body)
		d.close()
	case *Match:
		d.open("match ")
		d.expr(n.Subject)
		for _, arm := range n.Arms {
			d.WriteString(" (")
			d.node(arm.Pattern)
			d.WriteString(" -> ")
			d.expr(arm.Body)
			d.close()
		}
		d.close()
	case *Block:
		d.open("block")
		for _, s := range n.Statements {
			d.sp()
			d.node(s)
		}
		if n.Return != nil {
			d.sp()
			d.node(n.Return)
		}
		d.close()
	case *Unary:
		d.open("unary ")
		d.WriteString(n.Operator)
		d.sp()
		d.expr(n.Operand)
		d.close()
	case *Operation:
		d.open(n.Operator)
		d.sp()
		d.expr(n.Left)
		d.sp()
		d.expr(n.Right)
		d.close()
	case *Application:
		d.open("app ")
		d.expr(n.Function)
		d.sp()
		if n.Plicity == Implicit {
			d.WriteByte('@')
		}
		d.expr(n.Argument)
		d.close()
	case *Annotation:
		d.open(": ")
		d.expr(n.Term)
		d.sp()
		d.expr(n.Type)
		d.close()
	case *Projection:
		d.open(". ")
		d.expr(n.Record)
		d.sp()
		d.WriteString(n.Field.Name)
		d.close()
	case *Injection:
		d.open("inject ")
		d.expr(n.Base)
		for _, a := range n.Assignments {
			fmt.Fprintf(d, " (%s = ", a.Key.Name)
			d.expr(a.Value)
			d.close()
		}
		d.close()
	case *Continuation:
		d.open(n.Keyword)
		d.sp()
		d.expr(n.Body)
		d.close()

	case *Identifier:
		d.WriteString(n.Name)
	case *Label:
		d.WriteByte(':')
		d.WriteString(n.Name)
	case *StringLit:
		d.WriteString(strconv.Quote(n.Value))
	case *NumberLit:
		d.WriteString(n.Raw)
	case *BoolLit:
		d.WriteString(strconv.FormatBool(n.Value))
	case *Reserved:
		d.WriteString(n.Name)
	case *Struct:
		d.open("struct")
		for _, f := range n.Fields {
			fmt.Fprintf(d, " (%s ", f.Key.Name)
			d.expr(f.Value)
			d.close()
		}
		d.tail(n.Tail)
		d.close()
	case *Tuple:
		d.open("tuple")
		for _, e := range n.Elements {
			d.sp()
			d.expr(e)
		}
		d.tail(n.Tail)
		d.close()
	case *List:
		d.open("list")
		for _, e := range n.Elements {
			d.sp()
			d.expr(e)
		}
		d.tail(n.Tail)
		d.close()
	case *Row:
		d.open("row")
		for _, f := range n.Fields {
			fmt.Fprintf(d, " (%s ", f.Key.Name)
			d.expr(f.Value)
			d.close()
		}
		d.tail(n.Tail)
		d.close()
	case *Dict:
		d.open("dict ")
		d.expr(n.Key)
		d.sp()
		d.expr(n.Value)
		d.close()

	case *PatternVariable:
		d.open("pvar ")
		d.WriteString(n.Name.Name)
		d.close()
	case *PatternWildcard:
		d.WriteByte('_')
	case *PatternLiteral:
		d.open("plit ")
		if n.Negated {
			d.WriteByte('-')
		}
		d.expr(n.Literal)
		d.close()
	case *PatternTagged:
		d.open("ptag ")
		d.WriteString(n.Tag.Name)
		if n.Payload != nil {
			d.sp()
			d.node(n.Payload)
		}
		d.close()
	case *PatternStruct:
		d.open("pstruct")
		for _, f := range n.Fields {
			fmt.Fprintf(d, " (%s ", f.Key.Name)
			d.node(f.Value)
			d.close()
		}
		d.tail(n.Tail)
		d.close()
	case *PatternTuple:
		d.open("ptuple")
		for _, p := range n.Elements {
			d.sp()
			d.node(p)
		}
		d.tail(n.Tail)
		d.close()
	case *PatternList:
		d.open("plist")
		for _, p := range n.Elements {
			d.sp()
			d.node(p)
		}
		d.tail(n.Tail)
		d.close()
	case *PatternRow:
		d.open("prow")
		for _, f := range n.Fields {
			fmt.Fprintf(d, " (%s ", f.Key.Name)
			d.node(f.Value)
			d.close()
		}
		d.tail(n.Tail)
		d.close()

	default:
		fmt.Fprintf(d, "<unknown %T>", n)
	}
}

func (d *dumper) tagged(tag *Identifier, payload Expr) {
	d.open("# ")
	d.WriteString(tag.Name)
	if payload != nil {
		d.sp()
		d.node(payload)
	}
	d.close()
}
