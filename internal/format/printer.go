package format

import (
	"strings"

	"github.com/yap-lang/yap/internal/ast"
	"github.com/yap-lang/yap/internal/lexer"
	"github.com/yap-lang/yap/internal/parser"
)

// Floors shared with the parser. A child printed below its floor is
// parenthesised.
const (
	lowest      = parser.LOWEST
	annotation  = parser.ANNOTATION
	itemFloor   = parser.ANNOTATION + 1
	binder      = parser.BINDER
	modalType   = parser.MODAL + 1
	application = parser.APPLICATION
	argument    = parser.APPLICATION + 1
	prefix      = parser.PREFIX
	projection  = parser.PROJECTION
)

// Node returns the canonical source text of n. Statements are printed
// without their terminating semicolon; roots are printed as whole files.
func Node(n ast.Node) string {
	p := &printer{}
	switch n := n.(type) {
	case ast.Root:
		p.root(n)
	case ast.Expr:
		p.expr(n, lowest)
	case ast.Pattern:
		p.pattern(n)
	case ast.Stmt:
		p.stmt(n)
	case *ast.Return:
		p.ret(n)
	case *ast.Exports:
		p.exports(n)
	case *ast.Import:
		p.importDecl(n)
	}
	return p.buf.String()
}

type printer struct {
	buf strings.Builder
}

func (p *printer) print(parts ...string) {
	for _, s := range parts {
		p.buf.WriteString(s)
	}
}

// tier is the loosest level at which e can be printed without parentheses.
func tier(e ast.Expr) parser.Precedence {
	switch e := e.(type) {
	case *ast.Operation:
		return parser.OperatorPrecedence(e.Operator)
	case *ast.Application:
		return parser.APPLICATION
	case *ast.Projection:
		return parser.PROJECTION
	case *ast.Unary:
		return parser.PREFIX
	case *ast.Annotation:
		return parser.ANNOTATION
	case *ast.Continuation:
		return parser.CONTINUATION
	case *ast.Modal:
		return parser.MODAL
	case *ast.Pi, *ast.Arrow, *ast.Mu, *ast.Lambda, *ast.Tagged, *ast.Variant:
		return parser.BINDER
	case *ast.Match:
		return parser.LOWEST
	}
	return parser.ATOM
}

// boundName reports whether e is an annotation of a bare name. In front of
// an arrow, `(x : A)` would read as a pi domain.
func boundName(e ast.Expr) bool {
	ann, ok := e.(*ast.Annotation)
	if !ok {
		return false
	}
	_, ok = ann.Term.(*ast.Identifier)
	return ok
}

// leading returns the type of the first token of e printed at floor.
func leading(e ast.Expr, floor parser.Precedence) lexer.TokenType {
	for {
		if tier(e) < floor {
			return lexer.TokenLParen
		}
		switch n := e.(type) {
		case *ast.Operation:
			e, floor = n.Left, parser.OperatorPrecedence(n.Operator).LeftFloor()
		case *ast.Application:
			e, floor = n.Function, application
		case *ast.Projection:
			e, floor = n.Record, projection
		case *ast.Annotation:
			e, floor = n.Term, annotation+1
		case *ast.Arrow:
			if boundName(n.Domain) {
				return lexer.TokenLParen
			}
			e, floor = n.Domain, binder+1
		case *ast.Modal:
			if n.Quantity != ast.QuantityNone {
				return lexer.TokenLt
			}
			e, floor = n.Type, modalType
		case *ast.Unary:
			if n.Operator == "+" {
				return lexer.TokenPlus
			}
			return lexer.TokenMinus
		case *ast.Identifier:
			return lexer.TokenIdentifier
		case *ast.NumberLit:
			return lexer.TokenInteger
		case *ast.StringLit:
			return lexer.TokenString
		case *ast.BoolLit:
			return lexer.TokenBool
		case *ast.Label:
			return lexer.TokenLabel
		case *ast.Reserved:
			return lexer.TokenReserved
		case *ast.Pi:
			return lexer.TokenLParen
		case *ast.Lambda:
			return lexer.TokenBackslash
		case *ast.Mu:
			return lexer.TokenMu
		case *ast.Tagged:
			return lexer.TokenHash
		case *ast.Variant:
			return lexer.TokenPipe
		case *ast.Match:
			return lexer.TokenMatch
		case *ast.Continuation:
			return lexer.TokenReset
		case *ast.List, *ast.Row:
			return lexer.TokenLBracket
		default:
			return lexer.TokenLBrace
		}
	}
}

// opensRight reports whether e printed at floor ends in a variant or a
// match, either of which would take a following `|` as its own.
func opensRight(e ast.Expr, floor parser.Precedence) bool {
	for e != nil {
		if tier(e) < floor {
			return false
		}
		switch n := e.(type) {
		case *ast.Variant, *ast.Match:
			return true
		case *ast.Operation:
			e, floor = n.Right, parser.OperatorPrecedence(n.Operator).RightFloor()
		case *ast.Unary:
			e, floor = n.Operand, prefix
		case *ast.Application:
			e, floor = n.Argument, argument
		case *ast.Annotation:
			e, floor = n.Type, annotation
		case *ast.Arrow:
			e, floor = n.Codomain, binder
		case *ast.Pi:
			e, floor = n.Codomain, binder
		case *ast.Lambda:
			e, floor = n.Body, binder
		case *ast.Mu:
			e, floor = n.Body, binder
		case *ast.Tagged:
			e, floor = n.Payload, binder
		case *ast.Continuation:
			e, floor = n.Body, parser.CONTINUATION
		case *ast.Modal:
			if n.Usage != nil || n.Quantity == ast.QuantityNone {
				return false
			}
			e, floor = n.Type, modalType
		default:
			return false
		}
	}
	return false
}

// expr prints e, in parentheses when its tier is below floor.
func (p *printer) expr(e ast.Expr, floor parser.Precedence) {
	if tier(e) < floor {
		p.paren(e)
		return
	}
	p.bare(e)
}

func (p *printer) paren(e ast.Expr) {
	p.print("(")
	p.bare(e)
	p.print(")")
}

// arg prints an application argument.
func (p *printer) arg(e ast.Expr) {
	if !parser.StartsArgument(leading(e, argument)) {
		p.paren(e)
		return
	}
	p.expr(e, argument)
}

// payload prints the payload of a tag. A payload followed by another
// variant alternative must not end open.
func (p *printer) payload(e ast.Expr, last bool) {
	if !parser.StartsPayload(leading(e, binder)) || (!last && opensRight(e, binder)) {
		p.paren(e)
		return
	}
	p.expr(e, binder)
}

// bare prints e without considering its context.
func (p *printer) bare(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Identifier:
		p.print(n.Name)
	case *ast.Label:
		p.print(":", n.Name)
	case *ast.StringLit:
		if n.Raw != "" {
			p.print(n.Raw)
		} else {
			p.print(lexer.Quote(n.Value))
		}
	case *ast.NumberLit:
		p.print(n.Raw)
	case *ast.BoolLit:
		if n.Value {
			p.print("true")
		} else {
			p.print("false")
		}
	case *ast.Reserved:
		p.print(n.Name)

	case *ast.Operation:
		prec := parser.OperatorPrecedence(n.Operator)
		p.expr(n.Left, prec.LeftFloor())
		p.print(" ", n.Operator, " ")
		p.expr(n.Right, prec.RightFloor())
	case *ast.Unary:
		p.print(n.Operator)
		// `++` is the append operator
		if n.Operator == "+" && leading(n.Operand, prefix) == lexer.TokenPlus {
			p.paren(n.Operand)
			return
		}
		p.expr(n.Operand, prefix)
	case *ast.Application:
		p.expr(n.Function, application)
		p.print(" ")
		if n.Plicity == ast.Implicit {
			p.print("@")
		}
		p.arg(n.Argument)
	case *ast.Projection:
		p.expr(n.Record, projection)
		p.print(".", n.Field.Name)
	case *ast.Annotation:
		p.expr(n.Term, annotation+1)
		p.print(" : ")
		p.expr(n.Type, annotation)
	case *ast.Continuation:
		p.print(n.Keyword, " ")
		p.expr(n.Body, parser.CONTINUATION)

	case *ast.Pi:
		p.print("(")
		for i, b := range n.Domain {
			if i > 0 {
				p.print(", ")
			}
			p.print(b.Name.Name, " : ")
			p.expr(b.Type, annotation)
		}
		p.print(") ", n.Plicity.Arrow(), " ")
		p.expr(n.Codomain, binder)
	case *ast.Arrow:
		if boundName(n.Domain) {
			p.print("(")
			p.paren(n.Domain)
			p.print(")")
		} else {
			p.expr(n.Domain, binder+1)
		}
		p.print(" ", n.Plicity.Arrow(), " ")
		p.expr(n.Codomain, binder)
	case *ast.Mu:
		p.print("μ ", n.Name.Name, " -> ")
		p.expr(n.Body, binder)
	case *ast.Lambda:
		p.lambda(n)
	case *ast.Tagged:
		p.print("#", n.Tag.Name)
		if n.Payload != nil {
			p.print(" ")
			p.payload(n.Payload, true)
		}
	case *ast.Variant:
		for i, alt := range n.Alternatives {
			if i > 0 {
				p.print(" ")
			}
			p.print("| #", alt.Tag.Name)
			if alt.Payload != nil {
				p.print(" ")
				p.payload(alt.Payload, i == len(n.Alternatives)-1)
			}
		}
	case *ast.Modal:
		if n.Quantity != ast.QuantityNone {
			p.print("<", n.Quantity.String(), "> ")
		}
		p.expr(n.Type, modalType)
		if n.Usage != nil {
			p.print(" [| ")
			p.expr(n.Usage, lowest)
			p.print(" |]")
		}
	case *ast.Match:
		p.match(n)

	case *ast.Block:
		p.block(n)
	case *ast.Struct:
		if p.openBrace(len(n.Fields), n.Tail) {
			break
		}
		p.print("{")
		for i, f := range n.Fields {
			if i > 0 {
				p.print(", ")
			}
			p.print(f.Key.Name, ": ")
			p.expr(f.Value, itemFloor)
		}
		p.tail(n.Tail, len(n.Fields) == 0)
		p.print("}")
	case *ast.Tuple:
		if p.openBrace(len(n.Elements), n.Tail) {
			break
		}
		p.print("{")
		p.items(n.Elements)
		p.tail(n.Tail, len(n.Elements) == 0)
		p.print("}")
	case *ast.Injection:
		p.injection(n)
	case *ast.Dict:
		p.print("{[")
		if leading(n.Key, lowest) == lexer.TokenPipe {
			p.print(" ")
		}
		p.expr(n.Key, lowest)
		p.print("]: ")
		p.expr(n.Value, itemFloor)
		p.print("}")
	case *ast.List:
		p.print("[")
		// `[|` opens a usage refinement
		if len(n.Elements) == 0 && n.Tail != nil {
			p.print(" ")
		}
		for i, e := range n.Elements {
			if i > 0 {
				p.print(", ")
			}
			// a list item cannot start with a bar
			if i == 0 && leading(e, itemFloor) == lexer.TokenPipe {
				p.paren(e)
				continue
			}
			p.expr(e, itemFloor)
		}
		p.tail(n.Tail, len(n.Elements) == 0)
		p.print("]")
	case *ast.Row:
		p.print("[")
		for i, f := range n.Fields {
			if i > 0 {
				p.print(", ")
			}
			p.print(f.Key.Name, ": ")
			p.expr(f.Value, itemFloor)
		}
		p.tail(n.Tail, len(n.Fields) == 0)
		p.print("]")
	}
}

func (p *printer) items(elements []ast.Expr) {
	for i, e := range elements {
		if i > 0 {
			p.print(", ")
		}
		p.expr(e, itemFloor)
	}
}

// openBrace prints braces holding only a tail as `{ | rest }`, which reads
// back as an open struct. It reports whether it printed anything.
func (p *printer) openBrace(items int, tail *ast.Identifier) bool {
	if items > 0 || tail == nil {
		return false
	}
	p.print("{ | ", tail.Name, " }")
	return true
}

// tail prints `| rest`. After items it is separated by a space.
func (p *printer) tail(tail *ast.Identifier, empty bool) {
	if tail == nil {
		return
	}
	if empty {
		p.print("| ", tail.Name)
		return
	}
	p.print(" | ", tail.Name)
}

func (p *printer) injection(n *ast.Injection) {
	p.print("{ ")
	if n.Base != nil {
		if _, ok := n.Base.(*ast.Variant); ok {
			p.paren(n.Base)
		} else {
			p.expr(n.Base, itemFloor)
		}
		p.print(" ")
	}
	p.print("| ")
	for i, a := range n.Assignments {
		if i > 0 {
			p.print(", ")
		}
		p.print(a.Key.Name, " = ")
		p.expr(a.Value, itemFloor)
	}
	p.print(" }")
}

func (p *printer) lambda(n *ast.Lambda) {
	typed := false
	for _, param := range n.Params {
		if param.Type != nil {
			typed = true
		}
	}

	p.print("\\")
	if typed {
		p.print("(")
		for i, param := range n.Params {
			if i > 0 {
				p.print(", ")
			}
			p.print(param.Name.Name)
			if param.Type != nil {
				p.print(" : ")
				p.expr(param.Type, annotation)
			}
		}
		p.print(")")
	} else {
		for i, param := range n.Params {
			if i > 0 {
				p.print(" ")
			}
			p.print(param.Name.Name)
		}
	}
	p.print(" ", n.Plicity.Arrow(), " ")
	p.expr(n.Body, binder)
}

func (p *printer) match(n *ast.Match) {
	p.print("match ")
	if opensRight(n.Subject, lowest+1) {
		p.paren(n.Subject)
	} else {
		p.expr(n.Subject, lowest+1)
	}
	for i, arm := range n.Arms {
		p.print(" | ")
		p.pattern(arm.Pattern)
		p.print(" -> ")
		if i < len(n.Arms)-1 && opensRight(arm.Body, lowest) {
			p.paren(arm.Body)
			continue
		}
		p.expr(arm.Body, lowest)
	}
}

func (p *printer) block(n *ast.Block) {
	// `{ }` would read back as a struct
	if len(n.Statements) == 0 && n.Return == nil {
		p.print("{ ; }")
		return
	}
	p.print("{")
	for _, s := range n.Statements {
		p.print(" ")
		p.stmt(s)
		p.print(";")
	}
	if n.Return != nil {
		p.print(" ")
		p.ret(n.Return)
	}
	p.print(" }")
}

func (p *printer) pattern(pat ast.Pattern) {
	switch n := pat.(type) {
	case *ast.PatternVariable:
		p.print(n.Name.Name)
	case *ast.PatternWildcard:
		p.print("_")
	case *ast.PatternLiteral:
		if n.Negated {
			p.print("-")
		}
		p.bare(n.Literal)
	case *ast.PatternTagged:
		p.print("#", n.Tag.Name)
		if n.Payload != nil {
			p.print(" ")
			p.pattern(n.Payload)
		}
	case *ast.PatternStruct:
		if p.openBrace(len(n.Fields), n.Tail) {
			break
		}
		p.print("{")
		for i, f := range n.Fields {
			if i > 0 {
				p.print(", ")
			}
			p.print(f.Key.Name, ": ")
			p.pattern(f.Value)
		}
		p.tail(n.Tail, len(n.Fields) == 0)
		p.print("}")
	case *ast.PatternTuple:
		if p.openBrace(len(n.Elements), n.Tail) {
			break
		}
		p.print("{")
		p.patterns(n.Elements)
		p.tail(n.Tail, len(n.Elements) == 0)
		p.print("}")
	case *ast.PatternList:
		p.print("[")
		if len(n.Elements) == 0 && n.Tail != nil {
			p.print(" ")
		}
		p.patterns(n.Elements)
		p.tail(n.Tail, len(n.Elements) == 0)
		p.print("]")
	case *ast.PatternRow:
		p.print("[")
		for i, f := range n.Fields {
			if i > 0 {
				p.print(", ")
			}
			p.print(f.Key.Name, ": ")
			p.pattern(f.Value)
		}
		p.tail(n.Tail, len(n.Fields) == 0)
		p.print("]")
	}
}

func (p *printer) patterns(elements []ast.Pattern) {
	for i, e := range elements {
		if i > 0 {
			p.print(", ")
		}
		p.pattern(e)
	}
}

func (p *printer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.LetDec:
		if n.Short {
			p.print(n.Name.Name, " := ")
			p.expr(n.Value, lowest)
			return
		}
		p.print("let ", n.Name.Name)
		if n.Type != nil {
			p.print(" : ")
			p.expr(n.Type, itemFloor)
		}
		p.print(" = ")
		p.expr(n.Value, lowest)
	case *ast.Using:
		p.print("using ")
		p.expr(n.Value, lowest)
		if n.Alias != nil {
			p.print(" as ", n.Alias.Name)
		}
	case *ast.Foreign:
		p.print("foreign ", n.Name.Name, " : ")
		p.expr(n.Type, lowest)
	case *ast.ExprStatement:
		p.expr(n.Value, lowest)
	}
}

func (p *printer) ret(r *ast.Return) {
	p.print("return ")
	p.expr(r.Value, lowest)
}

func (p *printer) exports(e *ast.Exports) {
	if e.All {
		p.print("export *")
		return
	}
	p.print("export (")
	p.names(e.Names)
	p.print(")")
}

func (p *printer) importDecl(imp *ast.Import) {
	p.print("import ")
	p.bare(imp.Path)
	if len(imp.Names) > 0 {
		p.print(" (")
		p.names(imp.Names)
		p.print(")")
	}
}

func (p *printer) names(ids []*ast.Identifier) {
	for i, id := range ids {
		if i > 0 {
			p.print(", ")
		}
		p.print(id.Name)
	}
}
