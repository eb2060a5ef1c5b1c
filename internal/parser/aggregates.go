package parser

import (
	"github.com/yap-lang/yap/internal/ast"
	"github.com/yap-lang/yap/internal/lexer"
	"github.com/yap-lang/yap/internal/position"
)

// Items of aggregates are parsed one level above annotations, so that a
// stray `:` is reported instead of being read as a type ascription.
const itemFloor = ANNOTATION + 1

// parseBrace parses any `{ ... }` form after classifying it.
func (p *Parser) parseBrace() ast.Expr {
	switch p.classifyBrace() {
	case braceStruct:
		return p.parseStruct()
	case braceBlock:
		return p.parseBlock()
	case braceDict:
		return p.parseDict()
	case braceInjection:
		start := p.nextToken().Span.Start // '{'
		return p.parseInjection(start, nil)
	default:
		return p.parseTupleOrInjection()
	}
}

// parseTail parses an optional `| rest` before a closing bracket.
func (p *Parser) parseTail() *ast.Identifier {
	if p.at(lexer.TokenPipe) && p.peekIs(1, lexer.TokenIdentifier) {
		p.nextToken()
		return p.parseIdentifier("tail name")
	}
	return nil
}

// separator consumes a comma between items and reports whether another item
// follows. A trailing comma before the tail or the closer is allowed.
func (p *Parser) separator(closer lexer.TokenType) bool {
	if !p.accept(lexer.TokenComma) {
		return false
	}
	return !p.at(closer) && !p.at(lexer.TokenPipe)
}

// parseStruct parses `{ a: 1, b: 2 | rest }`.
func (p *Parser) parseStruct() ast.Expr {
	start := p.nextToken().Span.Start // '{'

	var fields []*ast.Field
	if !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenPipe) {
		for {
			if !p.at(lexer.TokenIdentifier) || !p.peekIs(1, lexer.TokenColon) {
				p.expected("struct field 'name: value'")
			}
			fstart := p.current().Span.Start
			key := p.parseIdentifier("field name")
			p.nextToken() // ':'
			value := p.parseExpression(itemFloor)
			fields = append(fields, &ast.Field{Span: p.spanFrom(fstart), Key: key, Value: value})
			if !p.separator(lexer.TokenRBrace) {
				break
			}
		}
	}

	tail := p.parseTail()
	p.expect(lexer.TokenRBrace, "'}'")
	return &ast.Struct{Span: p.spanFrom(start), Fields: fields, Tail: tail}
}

// parseTupleOrInjection parses `{ a, b | rest }`, or `{ base | k = v }` once
// the first item turns out to be followed by assignments.
func (p *Parser) parseTupleOrInjection() ast.Expr {
	start := p.nextToken().Span.Start // '{'

	first := p.parseTupleItem()
	if p.isInjectionBar() {
		return p.parseInjection(start, first)
	}

	elements := []ast.Expr{first}
	for p.separator(lexer.TokenRBrace) {
		elements = append(elements, p.parseTupleItem())
	}

	tail := p.parseTail()
	p.expect(lexer.TokenRBrace, "'}'")
	return &ast.Tuple{Span: p.spanFrom(start), Elements: elements, Tail: tail}
}

func (p *Parser) parseTupleItem() ast.Expr {
	item := p.parseExpression(itemFloor)
	if p.at(lexer.TokenColon) {
		p.syntaxError(p.current().Span, "cannot mix positional and keyed items in braces")
	}
	return item
}

// parseInjection parses the `| k = v, ...` part of an injection and the
// closing brace. The opening brace and the base, if any, are already read.
func (p *Parser) parseInjection(start position.Position, base ast.Expr) ast.Expr {
	p.expect(lexer.TokenPipe, "'|'")

	var assigns []*ast.Assignment
	for {
		astart := p.current().Span.Start
		key := p.parseIdentifier("field name")
		p.expect(lexer.TokenAssign, "'='")
		value := p.parseExpression(itemFloor)
		assigns = append(assigns, &ast.Assignment{Span: p.spanFrom(astart), Key: key, Value: value})
		if !p.separator(lexer.TokenRBrace) {
			break
		}
	}

	p.expect(lexer.TokenRBrace, "'}'")
	return &ast.Injection{Span: p.spanFrom(start), Base: base, Assignments: assigns}
}

// parseDict parses `{ [Key]: Value }`.
func (p *Parser) parseDict() ast.Expr {
	start := p.nextToken().Span.Start // '{'
	p.expect(lexer.TokenLBracket, "'['")
	key := p.parseExpression(LOWEST)
	p.expect(lexer.TokenRBracket, "']'")
	p.expect(lexer.TokenColon, "':'")
	value := p.parseExpression(itemFloor)
	p.expect(lexer.TokenRBrace, "'}'")
	return &ast.Dict{Span: p.spanFrom(start), Key: key, Value: value}
}

// parseBracket parses `[ ... ]` as a list or a row.
func (p *Parser) parseBracket() ast.Expr {
	if p.classifyBracket() == bracketRow {
		return p.parseRow()
	}
	return p.parseList()
}

// parseGluedTail parses `[|rest]`, a list holding only a tail, which the
// lexer reads with the `[|` of a usage refinement.
func (p *Parser) parseGluedTail() (position.Position, *ast.Identifier) {
	start := p.nextToken().Span.Start // '[|'
	tail := p.parseIdentifier("tail name")
	p.expect(lexer.TokenRBracket, "']'")
	return start, tail
}

func (p *Parser) parseList() ast.Expr {
	start := p.nextToken().Span.Start // '['

	var elements []ast.Expr
	if !p.at(lexer.TokenRBracket) && !p.at(lexer.TokenPipe) {
		for {
			elements = append(elements, p.parseExpression(itemFloor))
			if p.at(lexer.TokenColon) {
				p.syntaxError(p.current().Span, "cannot mix positional and keyed items in a list")
			}
			if !p.separator(lexer.TokenRBracket) {
				break
			}
		}
	}

	tail := p.parseTail()
	p.expect(lexer.TokenRBracket, "']'")
	return &ast.List{Span: p.spanFrom(start), Elements: elements, Tail: tail}
}

func (p *Parser) parseRow() ast.Expr {
	start := p.nextToken().Span.Start // '['

	var fields []*ast.RowField
	for {
		fstart := p.current().Span.Start
		key := p.parseRowKey()
		value := p.parseExpression(itemFloor)
		fields = append(fields, &ast.RowField{Span: p.spanFrom(fstart), Key: key, Value: value})
		if !p.separator(lexer.TokenRBracket) {
			break
		}
	}

	tail := p.parseTail()
	p.expect(lexer.TokenRBracket, "']'")
	return &ast.Row{Span: p.spanFrom(start), Fields: fields, Tail: tail}
}

// parseRowKey parses `name:` or `index:` and returns the key.
func (p *Parser) parseRowKey() ast.RowKey {
	tok := p.current()
	if (tok.Type != lexer.TokenIdentifier && tok.Type != lexer.TokenInteger) || !p.peekIs(1, lexer.TokenColon) {
		p.syntaxError(tok.Span, "cannot mix keyed and positional items in a row")
	}
	p.nextToken()
	p.nextToken() // ':'
	return ast.RowKey{Span: tok.Span, Name: tok.Literal, Positional: tok.Type == lexer.TokenInteger}
}
