package parser

import (
	"github.com/yap-lang/yap/internal/ast"
	"github.com/yap-lang/yap/internal/lexer"
)

// startsPattern reports whether a token can begin a pattern.
func startsPattern(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenIdentifier, lexer.TokenInteger, lexer.TokenFloat,
		lexer.TokenString, lexer.TokenBool, lexer.TokenLabel,
		lexer.TokenMinus, lexer.TokenHash,
		lexer.TokenLParen, lexer.TokenLBrace, lexer.TokenLBracket, lexer.TokenModalOpen:
		return true
	}
	return false
}

// parsePattern parses a match pattern.
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.current()

	switch tok.Type {
	case lexer.TokenIdentifier:
		p.nextToken()
		if tok.Literal == "_" {
			return &ast.PatternWildcard{Span: tok.Span}
		}
		return &ast.PatternVariable{Span: tok.Span, Name: &ast.Identifier{Span: tok.Span, Name: tok.Literal}}

	case lexer.TokenInteger, lexer.TokenFloat, lexer.TokenString, lexer.TokenBool, lexer.TokenLabel:
		lit := p.parsePrefixExpression(ATOM)
		return &ast.PatternLiteral{Span: lit.GetSpan(), Literal: lit}

	case lexer.TokenMinus:
		p.nextToken()
		num := p.current()
		if num.Type != lexer.TokenInteger && num.Type != lexer.TokenFloat {
			p.expected("number after '-' in pattern")
		}
		lit := p.parsePrefixExpression(ATOM)
		return &ast.PatternLiteral{Span: p.spanFrom(tok.Span.Start), Literal: lit, Negated: true}

	case lexer.TokenHash:
		p.nextToken()
		tag := p.parseIdentifier("tag name")
		var payload ast.Pattern
		if startsPattern(p.current().Type) {
			payload = p.parsePattern()
		}
		return &ast.PatternTagged{Span: p.spanFrom(tok.Span.Start), Tag: tag, Payload: payload}

	case lexer.TokenLParen:
		p.nextToken()
		pat := p.parsePattern()
		p.expect(lexer.TokenRParen, "')'")
		return pat

	case lexer.TokenLBrace:
		if p.peekIs(1, lexer.TokenRBrace) || p.isOnlyTail(1) ||
			(p.peekIs(1, lexer.TokenIdentifier) && p.peekIs(2, lexer.TokenColon)) {
			return p.parseStructPattern()
		}
		return p.parseTuplePattern()

	case lexer.TokenLBracket:
		if p.classifyBracket() == bracketRow {
			return p.parseRowPattern()
		}
		return p.parseListPattern()
	case lexer.TokenModalOpen:
		start, tail := p.parseGluedTail()
		return &ast.PatternList{Span: p.spanFrom(start), Tail: tail}
	}

	p.expected("pattern")
	return nil
}

func (p *Parser) parseStructPattern() ast.Pattern {
	start := p.nextToken().Span.Start // '{'

	var fields []*ast.PatternField
	if !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenPipe) {
		for {
			if !p.at(lexer.TokenIdentifier) || !p.peekIs(1, lexer.TokenColon) {
				p.expected("struct pattern field 'name: pattern'")
			}
			fstart := p.current().Span.Start
			key := p.parseIdentifier("field name")
			p.nextToken() // ':'
			value := p.parsePattern()
			fields = append(fields, &ast.PatternField{Span: p.spanFrom(fstart), Key: key, Value: value})
			if !p.separator(lexer.TokenRBrace) {
				break
			}
		}
	}

	tail := p.parseTail()
	p.expect(lexer.TokenRBrace, "'}'")
	return &ast.PatternStruct{Span: p.spanFrom(start), Fields: fields, Tail: tail}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.nextToken().Span.Start // '{'

	var elements []ast.Pattern
	for {
		elements = append(elements, p.parsePattern())
		if p.at(lexer.TokenColon) {
			p.syntaxError(p.current().Span, "cannot mix positional and keyed items in braces")
		}
		if !p.separator(lexer.TokenRBrace) {
			break
		}
	}

	tail := p.parseTail()
	p.expect(lexer.TokenRBrace, "'}'")
	return &ast.PatternTuple{Span: p.spanFrom(start), Elements: elements, Tail: tail}
}

func (p *Parser) parseListPattern() ast.Pattern {
	start := p.nextToken().Span.Start // '['

	var elements []ast.Pattern
	if !p.at(lexer.TokenRBracket) && !p.at(lexer.TokenPipe) {
		for {
			elements = append(elements, p.parsePattern())
			if p.at(lexer.TokenColon) {
				p.syntaxError(p.current().Span, "cannot mix positional and keyed items in a list pattern")
			}
			if !p.separator(lexer.TokenRBracket) {
				break
			}
		}
	}

	tail := p.parseTail()
	p.expect(lexer.TokenRBracket, "']'")
	return &ast.PatternList{Span: p.spanFrom(start), Elements: elements, Tail: tail}
}

func (p *Parser) parseRowPattern() ast.Pattern {
	start := p.nextToken().Span.Start // '['

	var fields []*ast.PatternRowField
	for {
		fstart := p.current().Span.Start
		key := p.parseRowKey()
		value := p.parsePattern()
		fields = append(fields, &ast.PatternRowField{Span: p.spanFrom(fstart), Key: key, Value: value})
		if !p.separator(lexer.TokenRBracket) {
			break
		}
	}

	tail := p.parseTail()
	p.expect(lexer.TokenRBracket, "']'")
	return &ast.PatternRow{Span: p.spanFrom(start), Fields: fields, Tail: tail}
}
