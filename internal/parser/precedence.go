package parser

import "github.com/yap-lang/yap/internal/lexer"

// Precedence levels, loosest first. Types and terms share the table.
type Precedence int

const (
	_ Precedence = iota
	LOWEST
	ANNOTATION   // e : T (right associative)
	CONTINUATION // reset shift resume (right associative)
	LOGICAL_OR   // ||
	LOGICAL_AND  // &&
	PIPELINE     // |> <|
	RELATIONAL   // == != < <= > >=
	CONCAT       // <> ++
	SUM          // + -
	PRODUCT      // * / %
	MODAL        // <q> T, T [| f |] (right associative)
	BINDER       // -> => pi μ \ #tag (right associative)
	APPLICATION  // f x, f @x
	PREFIX       // -x +x
	TAIL         // | rest inside aggregates
	INJECTION    // { r | k = v }
	PROJECTION   // a.b
	ATOM         // literals, identifiers, bracketed forms
)

// Associativity of an operator tier
type Associativity int

const (
	LeftAssociative Associativity = iota
	RightAssociative
)

// precedences maps infix operator tokens to their precedence levels
var precedences = map[lexer.TokenType]Precedence{
	lexer.TokenColon: ANNOTATION,

	lexer.TokenOr:  LOGICAL_OR,
	lexer.TokenAnd: LOGICAL_AND,

	lexer.TokenPipeRight: PIPELINE,
	lexer.TokenPipeLeft:  PIPELINE,

	lexer.TokenEq: RELATIONAL,
	lexer.TokenNe: RELATIONAL,
	lexer.TokenLt: RELATIONAL,
	lexer.TokenLe: RELATIONAL,
	lexer.TokenGt: RELATIONAL,
	lexer.TokenGe: RELATIONAL,

	lexer.TokenConcat: CONCAT,
	lexer.TokenAppend: CONCAT,

	lexer.TokenPlus:  SUM,
	lexer.TokenMinus: SUM,

	lexer.TokenMul: PRODUCT,
	lexer.TokenDiv: PRODUCT,
	lexer.TokenMod: PRODUCT,

	lexer.TokenModalOpen: MODAL,

	lexer.TokenArrow:    BINDER,
	lexer.TokenFatArrow: BINDER,

	lexer.TokenDot: PROJECTION,
}

// operatorAssociativity maps precedence levels to their associativity.
// Levels not listed are left associative.
var operatorAssociativity = map[Precedence]Associativity{
	ANNOTATION:   RightAssociative,
	CONTINUATION: RightAssociative,
	MODAL:        RightAssociative,
	BINDER:       RightAssociative,
}

// InfixPrecedence returns the level of an infix operator token and whether
// the token is an infix operator at all.
func InfixPrecedence(tt lexer.TokenType) (Precedence, bool) {
	prec, ok := precedences[tt]
	return prec, ok
}

// OperatorPrecedence returns the level of a binary operator spelled op.
// It is used by the printer, which only has the operator text.
func OperatorPrecedence(op string) Precedence {
	if prec, ok := operatorSpellings[op]; ok {
		return prec
	}
	return LOWEST
}

var operatorSpellings = map[string]Precedence{
	"||": LOGICAL_OR, "&&": LOGICAL_AND,
	"|>": PIPELINE, "<|": PIPELINE,
	"==": RELATIONAL, "!=": RELATIONAL, "<": RELATIONAL, "<=": RELATIONAL, ">": RELATIONAL, ">=": RELATIONAL,
	"<>": CONCAT, "++": CONCAT,
	"+": SUM, "-": SUM,
	"*": PRODUCT, "/": PRODUCT, "%": PRODUCT,
}

// Associativity returns how operators of the level group.
func (prec Precedence) Associativity() Associativity {
	if assoc, ok := operatorAssociativity[prec]; ok {
		return assoc
	}
	return LeftAssociative
}

// RightFloor is the minimum level of the right operand of a binary operator
// at this level: the level itself for right associative tiers, one above it
// otherwise.
func (prec Precedence) RightFloor() Precedence {
	if prec.Associativity() == RightAssociative {
		return prec
	}
	return prec + 1
}

// LeftFloor is the minimum level of the left operand.
func (prec Precedence) LeftFloor() Precedence {
	if prec.Associativity() == RightAssociative {
		return prec + 1
	}
	return prec
}
