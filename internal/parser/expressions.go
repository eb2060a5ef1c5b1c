package parser

import (
	"github.com/yap-lang/yap/internal/ast"
	"github.com/yap-lang/yap/internal/lexer"
)

// ====== Expression Parsing (precedence climbing) ======

// parseExpression parses an expression whose operators all bind at least
// as tightly as floor.
func (p *Parser) parseExpression(floor Precedence) ast.Expr {
	left := p.parsePrefixExpression(floor)

	for {
		tok := p.current()

		if startsArgument(tok.Type) {
			if APPLICATION < floor {
				return left
			}
			left = p.parseApplication(left)
			continue
		}

		prec, ok := precedences[tok.Type]
		if !ok || prec < floor {
			return left
		}
		left = p.parseInfixExpression(left, prec)
	}
}

// parseInfixExpression continues left with the infix or postfix operator
// under the cursor.
func (p *Parser) parseInfixExpression(left ast.Expr, prec Precedence) ast.Expr {
	start := left.GetSpan().Start
	op := p.nextToken()

	switch op.Type {
	case lexer.TokenDot:
		field := p.parseIdentifier("field name")
		return &ast.Projection{Span: p.spanFrom(start), Record: left, Field: field}

	case lexer.TokenModalOpen:
		usage := p.parseExpression(LOWEST)
		p.expect(lexer.TokenModalClose, "'|]'")
		return &ast.Modal{Span: p.spanFrom(start), Type: left, Usage: usage}

	case lexer.TokenArrow, lexer.TokenFatArrow:
		codomain := p.parseExpression(prec.RightFloor())
		return &ast.Arrow{
			Span:     p.spanFrom(start),
			Domain:   left,
			Plicity:  plicityOf(op.Type),
			Codomain: codomain,
		}

	case lexer.TokenColon:
		typ := p.parseExpression(prec.RightFloor())
		return &ast.Annotation{Span: p.spanFrom(start), Term: left, Type: typ}
	}

	right := p.parseExpression(prec.RightFloor())
	return &ast.Operation{
		Span:     p.spanFrom(start),
		Operator: op.Literal,
		Left:     left,
		Right:    right,
	}
}

// startsArgument reports whether a token can begin an application argument.
func startsArgument(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenIdentifier, lexer.TokenInteger, lexer.TokenFloat,
		lexer.TokenString, lexer.TokenBool, lexer.TokenLabel, lexer.TokenReserved,
		lexer.TokenLParen, lexer.TokenLBrace, lexer.TokenLBracket, lexer.TokenAt:
		return true
	}
	return false
}

// startsPayload reports whether a token can begin the payload of a tag.
func startsPayload(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenHash, lexer.TokenBackslash, lexer.TokenMu:
		return true
	}
	return tt != lexer.TokenAt && startsArgument(tt)
}

// StartsArgument reports whether a token of type tt begins an application
// argument when it follows a complete expression.
func StartsArgument(tt lexer.TokenType) bool {
	return startsArgument(tt) && tt != lexer.TokenAt
}

// StartsPayload reports whether a token of type tt begins the payload of a
// tag or a variant alternative.
func StartsPayload(tt lexer.TokenType) bool {
	return startsPayload(tt)
}

func plicityOf(tt lexer.TokenType) ast.Plicity {
	if tt == lexer.TokenFatArrow {
		return ast.Implicit
	}
	return ast.Explicit
}

func (p *Parser) parseApplication(fn ast.Expr) ast.Expr {
	start := fn.GetSpan().Start
	plicity := ast.Explicit
	if p.accept(lexer.TokenAt) {
		plicity = ast.Implicit
	}
	arg := p.parseExpression(APPLICATION + 1)
	return &ast.Application{
		Span:     p.spanFrom(start),
		Function: fn,
		Argument: arg,
		Plicity:  plicity,
	}
}

// parsePrefixExpression parses the construct starting at the cursor. Binder
// and continuation forms stop their bodies at their own level, so they are
// accepted at any floor.
func (p *Parser) parsePrefixExpression(floor Precedence) ast.Expr {
	tok := p.current()

	switch tok.Type {
	case lexer.TokenIdentifier:
		return p.parseIdentifier("identifier")
	case lexer.TokenInteger, lexer.TokenFloat:
		p.nextToken()
		return &ast.NumberLit{Span: tok.Span, Raw: tok.Literal, IsFloat: tok.Type == lexer.TokenFloat}
	case lexer.TokenString:
		return p.parseStringLiteral()
	case lexer.TokenBool:
		p.nextToken()
		return &ast.BoolLit{Span: tok.Span, Value: tok.Literal == "true"}
	case lexer.TokenLabel:
		p.nextToken()
		return &ast.Label{Span: tok.Span, Name: tok.Literal[1:]}
	case lexer.TokenReserved:
		p.nextToken()
		return &ast.Reserved{Span: tok.Span, Name: tok.Literal}

	case lexer.TokenMinus, lexer.TokenPlus:
		p.nextToken()
		operand := p.parseExpression(PREFIX)
		return &ast.Unary{Span: p.spanFrom(tok.Span.Start), Operator: tok.Literal, Operand: operand}

	case lexer.TokenLParen:
		return p.parseGroupedExpression(floor)
	case lexer.TokenLBrace:
		return p.parseBrace()
	case lexer.TokenLBracket:
		return p.parseBracket()
	case lexer.TokenModalOpen:
		start, tail := p.parseGluedTail()
		return &ast.List{Span: p.spanFrom(start), Tail: tail}

	case lexer.TokenBackslash:
		return p.parseLambda()
	case lexer.TokenMu:
		return p.parseMu()
	case lexer.TokenHash:
		return p.parseTagged()
	case lexer.TokenPipe:
		return p.parseVariant()
	case lexer.TokenLt:
		return p.parseModal()
	case lexer.TokenMatch:
		return p.parseMatch()
	case lexer.TokenReset, lexer.TokenShift, lexer.TokenResume:
		p.nextToken()
		body := p.parseExpression(CONTINUATION)
		return &ast.Continuation{Span: p.spanFrom(tok.Span.Start), Keyword: tok.Literal, Body: body}

	case lexer.TokenReturn:
		p.syntaxError(tok.Span, "return is only allowed at the end of a block")
	}

	p.expected("expression")
	return nil
}

func (p *Parser) parseIdentifier(what string) *ast.Identifier {
	tok := p.expect(lexer.TokenIdentifier, what)
	return &ast.Identifier{Span: tok.Span, Name: tok.Literal}
}

func (p *Parser) parseStringLiteral() *ast.StringLit {
	tok := p.expect(lexer.TokenString, "string")
	value, err := lexer.Unquote(tok.Literal)
	if err != nil {
		p.syntaxError(tok.Span, "malformed string literal")
	}
	return &ast.StringLit{Span: tok.Span, Value: value, Raw: tok.Literal}
}

// parseGroupedExpression parses `( e )` and the pi forms that also start
// with a parenthesis.
func (p *Parser) parseGroupedExpression(floor Precedence) ast.Expr {
	if p.peekIs(1, lexer.TokenIdentifier) && p.peekIs(2, lexer.TokenColon) {
		return p.parsePiOrAnnotation(floor)
	}

	p.nextToken() // '('
	expr := p.parseExpression(LOWEST)
	p.expect(lexer.TokenRParen, "')'")
	return expr
}

// parsePiOrAnnotation parses `(x: A, y: B) -> C`. A single binding that is
// not followed by an arrow is a parenthesised annotation `(x: A)`. Below the
// binder level a single binding is always an annotation, and an arrow after
// it is left for the enclosing expression.
func (p *Parser) parsePiOrAnnotation(floor Precedence) ast.Expr {
	start := p.nextToken().Span.Start // '('

	var domain []*ast.Binding
	for {
		bstart := p.current().Span.Start
		name := p.parseIdentifier("parameter name")
		p.expect(lexer.TokenColon, "':'")
		typ := p.parseExpression(ANNOTATION)
		domain = append(domain, &ast.Binding{Span: p.spanFrom(bstart), Name: name, Type: typ})
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRParen, "')'")

	arrow := p.at(lexer.TokenArrow) || p.at(lexer.TokenFatArrow)
	if len(domain) == 1 && (!arrow || floor > BINDER) {
		b := domain[0]
		return &ast.Annotation{Span: p.spanFrom(start), Term: b.Name, Type: b.Type}
	}
	if !arrow {
		p.expected("-> or => after pi domain")
	}

	plicity := plicityOf(p.nextToken().Type)
	codomain := p.parseExpression(BINDER)
	return &ast.Pi{Span: p.spanFrom(start), Domain: domain, Plicity: plicity, Codomain: codomain}
}

// parseLambda parses `\x y -> e` or `\(x, y: T, (z: U)) => e`.
func (p *Parser) parseLambda() ast.Expr {
	start := p.nextToken().Span.Start // '\'

	var params []*ast.Param
	if p.accept(lexer.TokenLParen) {
		for {
			params = append(params, p.parseParam())
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		p.expect(lexer.TokenRParen, "')'")
	} else {
		for p.at(lexer.TokenIdentifier) {
			id := p.parseIdentifier("parameter")
			params = append(params, &ast.Param{Span: id.Span, Name: id})
		}
		if len(params) == 0 {
			p.expected("lambda parameter")
		}
	}

	if !p.at(lexer.TokenArrow) && !p.at(lexer.TokenFatArrow) {
		p.expected("-> or =>")
	}
	plicity := plicityOf(p.nextToken().Type)
	body := p.parseExpression(BINDER)
	return &ast.Lambda{Span: p.spanFrom(start), Params: params, Plicity: plicity, Body: body}
}

func (p *Parser) parseParam() *ast.Param {
	start := p.current().Span.Start
	if p.accept(lexer.TokenLParen) {
		name := p.parseIdentifier("parameter name")
		p.expect(lexer.TokenColon, "':'")
		typ := p.parseExpression(ANNOTATION)
		p.expect(lexer.TokenRParen, "')'")
		return &ast.Param{Span: p.spanFrom(start), Name: name, Type: typ}
	}

	name := p.parseIdentifier("parameter name")
	var typ ast.Expr
	if p.accept(lexer.TokenColon) {
		typ = p.parseExpression(ANNOTATION)
	}
	return &ast.Param{Span: p.spanFrom(start), Name: name, Type: typ}
}

// parseMu parses `μ t -> body`.
func (p *Parser) parseMu() ast.Expr {
	start := p.nextToken().Span.Start
	name := p.parseIdentifier("type variable")
	p.expect(lexer.TokenArrow, "'->'")
	body := p.parseExpression(BINDER)
	return &ast.Mu{Span: p.spanFrom(start), Name: name, Body: body}
}

// parseTagged parses `#tag payload?`. The payload is present when the next
// token can start one.
func (p *Parser) parseTagged() ast.Expr {
	start := p.nextToken().Span.Start
	tag := p.parseIdentifier("tag name")
	var payload ast.Expr
	if startsPayload(p.current().Type) {
		payload = p.parseExpression(BINDER)
	}
	return &ast.Tagged{Span: p.spanFrom(start), Tag: tag, Payload: payload}
}

// parseVariant parses `| #a A | #b B`. A bar that is not followed by a tag
// ends the variant.
func (p *Parser) parseVariant() ast.Expr {
	start := p.current().Span.Start
	var alts []*ast.Alternative

	for p.at(lexer.TokenPipe) && (len(alts) == 0 || p.peekIs(1, lexer.TokenHash)) {
		p.nextToken() // '|'
		astart := p.current().Span.Start
		p.expect(lexer.TokenHash, "'#' starting a variant alternative")
		tag := p.parseIdentifier("tag name")
		var payload ast.Expr
		if startsPayload(p.current().Type) {
			payload = p.parseExpression(BINDER)
		}
		alts = append(alts, &ast.Alternative{Span: p.spanFrom(astart), Tag: tag, Payload: payload})
	}
	return &ast.Variant{Span: p.spanFrom(start), Alternatives: alts}
}

// parseModal parses `<q> T` with q one of 0, 1 or *, optionally followed
// by a usage refinement `[| f |]`.
func (p *Parser) parseModal() ast.Expr {
	start := p.nextToken().Span.Start // '<'

	tok := p.current()
	var q ast.Quantity
	switch {
	case tok.Type == lexer.TokenInteger && tok.Literal == "0":
		q = ast.QuantityZero
	case tok.Type == lexer.TokenInteger && tok.Literal == "1":
		q = ast.QuantityOne
	case tok.Type == lexer.TokenMul:
		q = ast.QuantityMany
	case tok.Type == lexer.TokenInteger:
		p.syntaxError(tok.Span, "invalid quantity %s: expected 0, 1 or *", tok.Literal)
	default:
		p.expected("quantity 0, 1 or *")
	}
	p.nextToken()
	p.expect(lexer.TokenGt, "'>'")

	typ := p.parseExpression(MODAL + 1)
	var usage ast.Expr
	if p.accept(lexer.TokenModalOpen) {
		usage = p.parseExpression(LOWEST)
		p.expect(lexer.TokenModalClose, "'|]'")
	}
	return &ast.Modal{Span: p.spanFrom(start), Quantity: q, Type: typ, Usage: usage}
}

// parseMatch parses `match e | p -> e ...`. Arms are taken greedily: an arm
// body extends as far as possible and the next bar starts a new arm.
func (p *Parser) parseMatch() ast.Expr {
	start := p.nextToken().Span.Start
	subject := p.parseExpression(LOWEST)

	if !p.at(lexer.TokenPipe) {
		p.expected("'|' starting a match arm")
	}

	var arms []*ast.Arm
	for p.at(lexer.TokenPipe) {
		astart := p.nextToken().Span.Start
		pat := p.parsePattern()
		p.expect(lexer.TokenArrow, "'->'")
		body := p.parseExpression(LOWEST)
		arms = append(arms, &ast.Arm{Span: p.spanFrom(astart), Pattern: pat, Body: body})
	}
	return &ast.Match{Span: p.spanFrom(start), Subject: subject, Arms: arms}
}
