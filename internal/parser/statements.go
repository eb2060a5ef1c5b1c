package parser

import (
	"github.com/yap-lang/yap/internal/ast"
	yerrors "github.com/yap-lang/yap/internal/errors"
	"github.com/yap-lang/yap/internal/lexer"
	"github.com/yap-lang/yap/internal/position"
)

// ParseRoot parses the whole input. A file starting with `export` or
// `import` is a module, anything else a script.
func (p *Parser) ParseRoot() ast.Root {
	start := p.current().Span.Start

	if p.at(lexer.TokenExport) || p.at(lexer.TokenImport) {
		mod := p.parseModule(start)
		mod.Comments = p.comments
		return mod
	}

	script := p.parseScript(start)
	script.Comments = p.comments
	return script
}

func (p *Parser) parseModule(start position.Position) *ast.Module {
	mod := &ast.Module{}

	if p.at(lexer.TokenExport) {
		p.guardStatement(func() {
			mod.Exports = p.parseExports()
		})
	}
	for p.at(lexer.TokenImport) {
		p.guardStatement(func() {
			mod.Imports = append(mod.Imports, p.parseImport())
		})
	}

	mod.Body = p.parseScript(p.current().Span.Start)
	mod.Span = position.Span{Start: start, End: mod.Body.Span.End}
	return mod
}

// parseExports parses `export *;` or `export (a, b);`.
func (p *Parser) parseExports() *ast.Exports {
	start := p.nextToken().Span.Start // 'export'
	exp := &ast.Exports{}

	if p.accept(lexer.TokenMul) {
		exp.All = true
	} else {
		exp.Names = p.parseNameList()
	}
	p.expect(lexer.TokenSemicolon, "';'")
	exp.Span = p.spanFrom(start)
	return exp
}

// parseImport parses `import "path";` or `import "path" (a, b);`. The
// semicolon after a bare import is optional.
func (p *Parser) parseImport() *ast.Import {
	start := p.nextToken().Span.Start // 'import'
	imp := &ast.Import{Path: p.parseStringLiteral()}

	if p.at(lexer.TokenLParen) {
		imp.Names = p.parseNameList()
		p.expect(lexer.TokenSemicolon, "';'")
	} else {
		p.accept(lexer.TokenSemicolon)
	}
	imp.Span = p.spanFrom(start)
	return imp
}

// parseNameList parses `(a, b, c)`: at least one name, no trailing comma.
func (p *Parser) parseNameList() []*ast.Identifier {
	p.expect(lexer.TokenLParen, "'(' or '*'")
	names := []*ast.Identifier{p.parseIdentifier("name")}
	for p.accept(lexer.TokenComma) {
		names = append(names, p.parseIdentifier("name"))
	}
	p.expect(lexer.TokenRParen, "')'")
	return names
}

// guardStatement runs fn as one statement: a syntax error inside it is
// recorded and the parser skips to the next `;` at the current depth. It
// reports whether fn completed.
func (p *Parser) guardStatement(fn func()) bool {
	base := p.depth
	if p.guard(fn) {
		return true
	}
	p.synchronize(base)
	p.accept(lexer.TokenSemicolon)
	return false
}

// parseScript parses statements separated by semicolons up to end of input.
func (p *Parser) parseScript(start position.Position) *ast.Script {
	script := &ast.Script{}

	for !p.at(lexer.TokenEOF) {
		if p.accept(lexer.TokenSemicolon) {
			continue
		}
		if isCloser(p.current().Type) {
			tok := p.nextToken()
			p.addError(yerrors.Syntax(tok.Span, "unmatched %s", tok.Describe()))
			continue
		}

		var stmt ast.Stmt
		ok := p.guardStatement(func() {
			stmt = p.parseStatement()
			if !p.at(lexer.TokenSemicolon) && !p.at(lexer.TokenEOF) {
				p.expected("';'")
			}
		})
		if ok {
			script.Statements = append(script.Statements, stmt)
		}
	}

	script.Span = position.Span{Start: start, End: p.current().Span.Start}
	return script
}

// parseBlock parses `{ stmt; ...; return e }`.
func (p *Parser) parseBlock() ast.Expr {
	start := p.nextToken().Span.Start // '{'
	block := &ast.Block{}

	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		if p.accept(lexer.TokenSemicolon) {
			continue
		}
		if isCloser(p.current().Type) {
			tok := p.nextToken()
			p.addError(yerrors.Syntax(tok.Span, "unmatched %s", tok.Describe()))
			continue
		}
		if p.at(lexer.TokenReturn) {
			rstart := p.nextToken().Span.Start
			value := p.parseExpression(LOWEST)
			block.Return = &ast.Return{Span: p.spanFrom(rstart), Value: value}
			p.accept(lexer.TokenSemicolon)
			break
		}

		var stmt ast.Stmt
		ok := p.guardStatement(func() {
			stmt = p.parseStatement()
			if !p.at(lexer.TokenSemicolon) && !p.at(lexer.TokenRBrace) {
				p.expected("';' or '}'")
			}
		})
		if ok {
			block.Statements = append(block.Statements, stmt)
		}
	}

	p.expect(lexer.TokenRBrace, "'}'")
	block.Span = p.spanFrom(start)
	return block
}

// parseStatement parses a single statement without its terminator.
func (p *Parser) parseStatement() ast.Stmt {
	tok := p.current()

	switch tok.Type {
	case lexer.TokenLet:
		return p.parseLet()
	case lexer.TokenUsing:
		return p.parseUsing()
	case lexer.TokenForeign:
		return p.parseForeign()
	case lexer.TokenIdentifier:
		if p.peekIs(1, lexer.TokenWalrus) {
			return p.parseShortLet()
		}
	case lexer.TokenExport, lexer.TokenImport:
		p.syntaxError(tok.Span, "%s must come before any statement", tok.Literal)
	case lexer.TokenReturn:
		p.syntaxError(tok.Span, "return is only allowed at the end of a block")
	}

	value := p.parseExpression(LOWEST)
	return &ast.ExprStatement{Span: value.GetSpan(), Value: value}
}

// parseLet parses `let name [: Type] = value`.
func (p *Parser) parseLet() ast.Stmt {
	start := p.nextToken().Span.Start // 'let'
	name := p.parseIdentifier("name after let")

	var typ ast.Expr
	if p.accept(lexer.TokenColon) {
		typ = p.parseExpression(itemFloor)
	}
	p.expect(lexer.TokenAssign, "'='")
	value := p.parseExpression(LOWEST)
	return &ast.LetDec{Span: p.spanFrom(start), Name: name, Type: typ, Value: value}
}

// parseShortLet parses `name := value`.
func (p *Parser) parseShortLet() ast.Stmt {
	name := p.parseIdentifier("name")
	p.nextToken() // ':='
	value := p.parseExpression(LOWEST)
	return &ast.LetDec{Span: p.spanFrom(name.Span.Start), Name: name, Value: value, Short: true}
}

// parseUsing parses `using e [as name]`.
func (p *Parser) parseUsing() ast.Stmt {
	start := p.nextToken().Span.Start // 'using'
	value := p.parseExpression(LOWEST)

	var alias *ast.Identifier
	if p.accept(lexer.TokenAs) {
		alias = p.parseIdentifier("name after as")
	}
	return &ast.Using{Span: p.spanFrom(start), Value: value, Alias: alias}
}

// parseForeign parses `foreign name : Type`.
func (p *Parser) parseForeign() ast.Stmt {
	start := p.nextToken().Span.Start // 'foreign'
	name := p.parseIdentifier("name after foreign")
	p.expect(lexer.TokenColon, "':'")
	typ := p.parseExpression(LOWEST)
	return &ast.Foreign{Span: p.spanFrom(start), Name: name, Type: typ}
}
