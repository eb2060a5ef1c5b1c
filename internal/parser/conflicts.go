package parser

import (
	yerrors "github.com/yap-lang/yap/internal/errors"
	"github.com/yap-lang/yap/internal/lexer"
	"github.com/yap-lang/yap/internal/position"
)

// braceKind is the reading chosen for a `{ ... }` form.
type braceKind int

const (
	braceStruct braceKind = iota
	braceTuple
	braceBlock
	braceInjection
	braceDict
)

func (k braceKind) String() string {
	switch k {
	case braceStruct:
		return "struct"
	case braceTuple:
		return "tuple"
	case braceBlock:
		return "block"
	case braceInjection:
		return "injection"
	case braceDict:
		return "dict"
	default:
		return "unknown"
	}
}

// braceScan summarises the tokens between a `{` and its matching `}`.
type braceScan struct {
	semicolon position.Span // first depth-0 ';', if any
	comma     position.Span // first depth-0 ','
	hasSemi   bool
	hasComma  bool
	hasReturn bool
}

// scanBrace looks at the window from the `{` at offset k up to its
// matching `}`. Nothing is consumed.
func (p *Parser) scanBrace(k int) braceScan {
	var s braceScan
	depth := 0
	for i := k + 1; ; i++ {
		tok := p.peek(i)
		switch {
		case tok.Type == lexer.TokenEOF:
			return s
		case isOpener(tok.Type):
			depth++
		case isCloser(tok.Type):
			if depth == 0 {
				return s
			}
			depth--
		case depth != 0:
		case tok.Type == lexer.TokenSemicolon && !s.hasSemi:
			s.hasSemi, s.semicolon = true, tok.Span
		case tok.Type == lexer.TokenComma && !s.hasComma:
			s.hasComma, s.comma = true, tok.Span
		case tok.Type == lexer.TokenReturn:
			s.hasReturn = true
		}
	}
}

// matching returns the window offset of the bracket closing the opener at
// offset k, or -1 when the input ends first.
func (p *Parser) matching(k int) int {
	depth := 0
	for i := k; ; i++ {
		tok := p.peek(i)
		switch {
		case tok.Type == lexer.TokenEOF:
			return -1
		case isOpener(tok.Type):
			depth++
		case isCloser(tok.Type):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
}

// classifyBrace decides how the `{` under the cursor is read. The rules are
// tried in order:
//
//	{}                       struct
//	{ [ ... ] :              dict
//	{ | # ...                tuple whose first item is a variant
//	{ | r }                  open struct with no fields
//	{ | ...                  injection with no base
//	';' or 'return' inside   block (with ',' too: ambiguous)
//	{ let / using / foreign  block
//	{ x := ...               block
//	{ x : ...                struct
//	{ e | k = ...            injection
//	otherwise                tuple
func (p *Parser) classifyBrace() braceKind {
	first := p.peek(1)

	switch first.Type {
	case lexer.TokenRBrace:
		return braceStruct
	case lexer.TokenLBracket:
		if end := p.matching(1); end > 0 && p.peekIs(end+1, lexer.TokenColon) {
			return braceDict
		}
	case lexer.TokenPipe:
		if p.peekIs(2, lexer.TokenHash) {
			return braceTuple
		}
		if p.isOnlyTail(1) {
			return braceStruct
		}
		return braceInjection
	}

	scan := p.scanBrace(0)
	if scan.hasSemi && scan.hasComma {
		p.fail(yerrors.Ambiguity(
			scan.comma.Union(scan.semicolon),
			"ambiguous braces: ',' and ';' both separate items",
		))
	}
	if scan.hasSemi || scan.hasReturn {
		return braceBlock
	}

	switch first.Type {
	case lexer.TokenLet, lexer.TokenUsing, lexer.TokenForeign:
		return braceBlock
	case lexer.TokenIdentifier:
		switch p.peek(2).Type {
		case lexer.TokenWalrus:
			return braceBlock
		case lexer.TokenColon:
			return braceStruct
		}
	}
	return braceTuple
}

// isOnlyTail reports whether the tokens from k read `| name }`.
func (p *Parser) isOnlyTail(k int) bool {
	return p.peekIs(k, lexer.TokenPipe) &&
		p.peekIs(k+1, lexer.TokenIdentifier) &&
		p.peekIs(k+2, lexer.TokenRBrace)
}

// isInjectionBar reports whether the cursor is at `| key =`, the start of
// the assignments of an injection.
func (p *Parser) isInjectionBar() bool {
	return p.at(lexer.TokenPipe) &&
		p.peekIs(1, lexer.TokenIdentifier) &&
		p.peekIs(2, lexer.TokenAssign)
}

// bracketKind is the reading chosen for a `[ ... ]` form.
type bracketKind int

const (
	bracketList bracketKind = iota
	bracketRow
)

// classifyBracket decides between a list and a row: a first item of the
// form `name:` or `0:` makes a row.
func (p *Parser) classifyBracket() bracketKind {
	switch p.peek(1).Type {
	case lexer.TokenIdentifier, lexer.TokenInteger:
		if p.peekIs(2, lexer.TokenColon) {
			return bracketRow
		}
	}
	return bracketList
}
