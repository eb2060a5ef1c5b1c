// Package parser implements the Yap recursive descent parser.
//
// Expressions and types are parsed by one precedence-climbing routine over
// the table in precedence.go. Bracketed forms whose meaning depends on what
// follows (struct, tuple, block, injection, dict, row, list) are classified
// by bounded lookahead over a token window before any node is built.
//
// Syntax errors abort the statement being parsed. The parser then skips to
// the next semicolon at the statement's nesting depth and carries on, so one
// bad statement never hides errors in, or the trees of, its neighbours.
package parser

import (
	"github.com/yap-lang/yap/internal/ast"
	yerrors "github.com/yap-lang/yap/internal/errors"
	"github.com/yap-lang/yap/internal/lexer"
	"github.com/yap-lang/yap/internal/position"
)

// bailout is the panic value used to abandon the current statement.
type bailout struct{}

// Parser represents the recursive descent parser
type Parser struct {
	lexer  *lexer.Lexer
	window []lexer.Token // lookahead, comments removed
	prev   lexer.Token   // last consumed token
	depth  int           // bracket nesting of consumed tokens

	comments []*ast.Comment
	errors   yerrors.List
	lexErr   *yerrors.Error
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{lexer: l}
}

// Parse parses a complete source text. The root is always non-nil; it holds
// every statement that parsed, and errs every problem found, in source order.
func Parse(src string) (ast.Root, yerrors.List) {
	return ParseFile("", src)
}

// ParseFile is Parse with a filename recorded for diagnostics.
func ParseFile(filename, src string) (ast.Root, yerrors.List) {
	p := NewParser(lexer.NewWithFilename(src, filename))
	root := p.ParseRoot()
	return root, p.Errors()
}

// ParseExpr parses src as a single expression or type.
func ParseExpr(src string) (ast.Expr, error) {
	p := NewParser(lexer.New(src))
	var expr ast.Expr
	p.guard(func() {
		expr = p.parseExpression(LOWEST)
		if !p.at(lexer.TokenEOF) {
			p.expected("end of input")
		}
	})
	return expr, p.Errors().Err()
}

// ParsePattern parses src as a single pattern.
func ParsePattern(src string) (ast.Pattern, error) {
	p := NewParser(lexer.New(src))
	var pat ast.Pattern
	p.guard(func() {
		pat = p.parsePattern()
		if !p.at(lexer.TokenEOF) {
			p.expected("end of input")
		}
	})
	return pat, p.Errors().Err()
}

// Errors returns the errors found so far, sorted by position.
func (p *Parser) Errors() yerrors.List {
	p.errors.Sort()
	return p.errors
}

// Comments returns the comments skipped so far.
func (p *Parser) Comments() []*ast.Comment {
	return p.comments
}

// ===== Token window =====

// fill appends one significant token to the window.
func (p *Parser) fill() {
	for {
		tok := p.lexer.Next()
		switch tok.Type {
		case lexer.TokenComment:
			p.comments = append(p.comments, &ast.Comment{
				Span:    tok.Span,
				Text:    tok.Literal,
				IsBlock: len(tok.Literal) > 1 && tok.Literal[1] == '*',
			})
			continue
		case lexer.TokenError:
			// the stream is over; the parser sees end of input
			p.lexErr = p.lexer.Err()
			p.errors.Add(p.lexErr)
			end := tok.Span.Start
			tok = lexer.Token{Type: lexer.TokenEOF, Span: position.Span{Start: end, End: end}}
		}
		p.window = append(p.window, tok)
		return
	}
}

// peek returns the token k places ahead of the current one.
func (p *Parser) peek(k int) lexer.Token {
	for len(p.window) <= k {
		p.fill()
	}
	return p.window[k]
}

// current returns the token under the cursor.
func (p *Parser) current() lexer.Token {
	return p.peek(0)
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

func (p *Parser) peekIs(k int, tt lexer.TokenType) bool {
	return p.peek(k).Type == tt
}

// nextToken consumes the current token. EOF is never consumed.
func (p *Parser) nextToken() lexer.Token {
	tok := p.current()
	if tok.Type == lexer.TokenEOF {
		return tok
	}
	p.window = p.window[1:]
	p.prev = tok
	switch {
	case isOpener(tok.Type):
		p.depth++
	case isCloser(tok.Type) && p.depth > 0:
		p.depth--
	}
	return tok
}

// accept consumes the current token if it has type tt.
func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes a token of type tt or aborts the statement.
func (p *Parser) expect(tt lexer.TokenType, what string) lexer.Token {
	if !p.at(tt) {
		p.expected(what)
	}
	return p.nextToken()
}

func (p *Parser) spanFrom(start position.Position) position.Span {
	return position.Span{Start: start, End: p.prev.Span.End}
}

func isOpener(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenLParen, lexer.TokenLBrace, lexer.TokenLBracket, lexer.TokenModalOpen:
		return true
	}
	return false
}

func isCloser(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenRParen, lexer.TokenRBrace, lexer.TokenRBracket, lexer.TokenModalClose:
		return true
	}
	return false
}

// ===== Errors and recovery =====

// addError records err unless it is fallout from an error already
// reported: a lexical error that ended the stream, or an error at the same
// position.
func (p *Parser) addError(err *yerrors.Error) {
	if p.lexErr != nil && err.Span.Start.Offset >= p.lexErr.Span.Start.Offset {
		return
	}
	if n := len(p.errors); n > 0 && p.errors[n-1].Span.Start.Offset == err.Span.Start.Offset {
		return
	}
	p.errors.Add(err)
}

// fail records err and abandons the current statement.
func (p *Parser) fail(err *yerrors.Error) {
	p.addError(err)
	panic(bailout{})
}

// expected reports that the current token is not what the grammar needs.
func (p *Parser) expected(what string) {
	tok := p.current()
	p.fail(yerrors.Expected(tok.Span, what, tok.Describe()))
}

func (p *Parser) syntaxError(span position.Span, format string, args ...interface{}) {
	p.fail(yerrors.Syntax(span, format, args...))
}

// guard runs fn and reports whether it completed without a syntax error.
func (p *Parser) guard(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			ok = false
		}
	}()
	fn()
	return true
}

// synchronize skips to the next semicolon at nesting depth base, or to a
// closing bracket that would leave it, or to end of input. The stopping
// token is not consumed. At the top level there is nothing to close, so
// stray closers are skipped too.
func (p *Parser) synchronize(base int) {
	for {
		tok := p.current()
		switch {
		case tok.Type == lexer.TokenEOF:
			return
		case tok.Type == lexer.TokenSemicolon && p.depth <= base:
			return
		case isCloser(tok.Type) && p.depth <= base && base > 0:
			return
		}
		p.nextToken()
	}
}
