// Package lexer implements the Yap lexical analyzer.
//
// The lexer is a single forward pass over an immutable input string. Tokens
// are produced on demand by Next; comments are returned as TokenComment so
// that tools can keep them, and the parser skips them. The first lexical
// error ends the stream: one TokenError is returned, then TokenEOF forever.
package lexer

import (
	"iter"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	yerrors "github.com/yap-lang/yap/internal/errors"
	"github.com/yap-lang/yap/internal/position"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // line of the current char
	lineStart    int  // offset of the first byte of the current line

	filename string
	err      *yerrors.Error // first lexical error, ends the stream
	done     bool
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		line:     1,
		filename: filename,
	}
	l.readChar()
	return l
}

// Filename returns the name the lexer was created with.
func (l *Lexer) Filename() string {
	return l.filename
}

// Err returns the lexical error that terminated the stream, if any.
func (l *Lexer) Err() *yerrors.Error {
	return l.err
}

// All returns the remaining tokens, comments included, up to but not
// including EOF. The sequence can be ranged over once.
func (l *Lexer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok := l.Next()
			if tok.Type == TokenEOF || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize collects every token of input, comments included, without the
// trailing EOF. A lexical error is returned alongside the tokens read so far.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var toks []Token
	for tok := range l.All() {
		if tok.Type == TokenError {
			break
		}
		toks = append(toks, tok)
	}
	if l.err != nil {
		return toks, l.err
	}
	return toks, nil
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.ch == '\n' && l.readPosition > 0 {
		l.line++
		l.lineStart = l.readPosition
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	if l.position > len(l.input) {
		l.position = len(l.input)
	}
	l.readPosition++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// currentPosition returns the position of the current char
func (l *Lexer) currentPosition() position.Position {
	return position.Position{
		Line:   l.line,
		Column: l.position - l.lineStart + 1,
		Offset: l.position,
	}
}

// skipWhitespace skips insignificant whitespace, newlines included
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && (l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n') {
		l.readChar()
	}
}

// Next scans the input and returns the next token
func (l *Lexer) Next() Token {
	if l.done {
		return l.eof()
	}

	l.skipWhitespace()
	if l.atEOF() {
		return l.eof()
	}

	start := l.currentPosition()

	switch l.ch {
	case '=':
		switch l.peekChar() {
		case '=':
			return l.emit(TokenEq, 2, start)
		case '>':
			return l.emit(TokenFatArrow, 2, start)
		}
		return l.emit(TokenAssign, 1, start)
	case '+':
		if l.peekChar() == '+' {
			return l.emit(TokenAppend, 2, start)
		}
		return l.emit(TokenPlus, 1, start)
	case '-':
		if l.peekChar() == '>' {
			return l.emit(TokenArrow, 2, start)
		}
		return l.emit(TokenMinus, 1, start)
	case '*':
		return l.emit(TokenMul, 1, start)
	case '%':
		return l.emit(TokenMod, 1, start)
	case '/':
		switch l.peekChar() {
		case '/':
			return l.readLineComment(start)
		case '*':
			return l.readBlockComment(start)
		}
		return l.emit(TokenDiv, 1, start)
	case '!':
		if l.peekChar() == '=' {
			return l.emit(TokenNe, 2, start)
		}
		return l.emit(TokenReserved, 1, start)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.emit(TokenLe, 2, start)
		case '>':
			return l.emit(TokenConcat, 2, start)
		case '|':
			return l.emit(TokenPipeLeft, 2, start)
		}
		return l.emit(TokenLt, 1, start)
	case '>':
		if l.peekChar() == '=' {
			return l.emit(TokenGe, 2, start)
		}
		return l.emit(TokenGt, 1, start)
	case '&':
		if l.peekChar() == '&' {
			return l.emit(TokenAnd, 2, start)
		}
		return l.fail(start, 1, "illegal character '&' (did you mean '&&'?)")
	case '|':
		switch l.peekChar() {
		case '|':
			return l.emit(TokenOr, 2, start)
		case '>':
			return l.emit(TokenPipeRight, 2, start)
		case ']':
			return l.emit(TokenModalClose, 2, start)
		}
		return l.emit(TokenPipe, 1, start)
	case ':':
		if l.peekChar() == '=' {
			return l.emit(TokenWalrus, 2, start)
		}
		if isIdentStart(l.peekChar()) && !l.colonIsGlued() {
			return l.readLabel(start)
		}
		return l.emit(TokenColon, 1, start)
	case '[':
		if l.peekChar() == '|' {
			return l.emit(TokenModalOpen, 2, start)
		}
		return l.emit(TokenLBracket, 1, start)
	case ']':
		return l.emit(TokenRBracket, 1, start)
	case '(':
		return l.emit(TokenLParen, 1, start)
	case ')':
		return l.emit(TokenRParen, 1, start)
	case '{':
		return l.emit(TokenLBrace, 1, start)
	case '}':
		return l.emit(TokenRBrace, 1, start)
	case ';':
		return l.emit(TokenSemicolon, 1, start)
	case ',':
		return l.emit(TokenComma, 1, start)
	case '.':
		return l.emit(TokenDot, 1, start)
	case '@':
		return l.emit(TokenAt, 1, start)
	case '#':
		return l.emit(TokenHash, 1, start)
	case '\\':
		return l.emit(TokenBackslash, 1, start)
	case '"':
		return l.readString(start)
	}

	switch {
	case isIdentStart(l.ch):
		ident := l.readIdentifier()
		return l.token(lookupIdent(ident), ident, start)
	case isDigit(l.ch):
		return l.readNumber(start)
	case l.ch >= utf8.RuneSelf:
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if r == 'μ' {
			return l.emit(TokenMu, size, start)
		}
		return l.fail(start, size, "illegal character %q", r)
	}
	return l.fail(start, 1, "illegal character %q", rune(l.ch))
}

// colonIsGlued reports whether the ':' under the cursor directly follows an
// operand, in which case it is annotation punctuation and never a label.
func (l *Lexer) colonIsGlued() bool {
	if l.position == 0 {
		return false
	}
	prev := l.input[l.position-1]
	return isIdentPart(prev) || prev == ')' || prev == ']' || prev == '}' || prev == '"'
}

// emit consumes n bytes and returns them as a token of type tt
func (l *Lexer) emit(tt TokenType, n int, start position.Position) Token {
	for i := 0; i < n; i++ {
		l.readChar()
	}
	return l.token(tt, l.input[start.Offset:l.position], start)
}

func (l *Lexer) token(tt TokenType, literal string, start position.Position) Token {
	return Token{
		Type:    tt,
		Literal: literal,
		Span:    position.Span{Start: start, End: l.currentPosition()},
	}
}

func (l *Lexer) eof() Token {
	pos := l.currentPosition()
	return Token{Type: TokenEOF, Span: position.Span{Start: pos, End: pos}}
}

// fail records a lexical error covering n bytes from start and ends the stream.
func (l *Lexer) fail(start position.Position, n int, format string, args ...interface{}) Token {
	for i := 0; i < n && !l.atEOF(); i++ {
		l.readChar()
	}
	span := position.Span{Start: start, End: l.currentPosition()}
	l.err = yerrors.Lex(span, format, args...)
	l.done = true
	return Token{Type: TokenError, Literal: l.err.Message, Span: span}
}

// readIdentifier reads [A-Za-z_][A-Za-z0-9_']*
func (l *Lexer) readIdentifier() string {
	position := l.position
	for !l.atEOF() && isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readLabel(start position.Position) Token {
	l.readChar() // ':'
	l.readIdentifier()
	return l.token(TokenLabel, l.input[start.Offset:l.position], start)
}

// readNumber reads digits with an optional fractional part. Signs are
// unary operators and never part of the literal.
func (l *Lexer) readNumber(start position.Position) Token {
	for !l.atEOF() && isDigit(l.ch) {
		l.readChar()
	}
	tt := TokenInteger
	if l.ch == '.' && isDigit(l.peekChar()) {
		tt = TokenFloat
		l.readChar() // consume '.'
		for !l.atEOF() && isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.token(tt, l.input[start.Offset:l.position], start)
}

// readString reads a double-quoted literal, validating escapes. The token
// literal keeps the quotes; Unquote decodes it.
func (l *Lexer) readString(start position.Position) Token {
	l.readChar() // opening quote
	for {
		switch {
		case l.atEOF() || l.ch == '\n':
			span := position.Span{Start: start, End: l.currentPosition()}
			l.err = yerrors.Lex(span, "unterminated string literal")
			l.done = true
			return Token{Type: TokenError, Literal: l.err.Message, Span: span}
		case l.ch == '"':
			l.readChar()
			return l.token(TokenString, l.input[start.Offset:l.position], start)
		case l.ch == '\\':
			escStart := l.currentPosition()
			l.readChar()
			switch l.ch {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				l.readChar()
			case 'u':
				l.readChar()
				for i := 0; i < 4; i++ {
					if !isHex(l.ch) || l.atEOF() {
						return l.fail(escStart, 0, "invalid unicode escape in string literal")
					}
					l.readChar()
				}
			default:
				return l.fail(escStart, 1, "invalid escape sequence in string literal")
			}
		default:
			l.readChar()
		}
	}
}

func (l *Lexer) readLineComment(start position.Position) Token {
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
	return l.token(TokenComment, l.input[start.Offset:l.position], start)
}

// readBlockComment reads /* ... */ up to the first closing delimiter.
// Block comments do not nest.
func (l *Lexer) readBlockComment(start position.Position) Token {
	l.readChar() // '/'
	l.readChar() // '*'
	for {
		if l.atEOF() {
			span := position.Span{Start: start, End: l.currentPosition()}
			l.err = yerrors.Lex(span, "unterminated block comment")
			l.done = true
			return Token{Type: TokenError, Literal: l.err.Message, Span: span}
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return l.token(TokenComment, l.input[start.Offset:l.position], start)
		}
		l.readChar()
	}
}

// Unquote decodes a string literal produced by the lexer.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", strconv.ErrSyntax
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", strconv.ErrSyntax
		}
		switch body[i] {
		case '"', '\\', '/':
			b.WriteByte(body[i])
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, ok := hex4(body, i+1)
			if !ok {
				return "", strconv.ErrSyntax
			}
			i += 4
			// combine surrogate pairs written as two escapes
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i+1:], `\u`) {
				if r2, ok := hex4(body, i+3); ok {
					if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
						r = dec
						i += 6
					}
				}
			}
			b.WriteRune(r)
		default:
			return "", strconv.ErrSyntax
		}
	}
	return b.String(), nil
}

func hex4(s string, at int) (rune, bool) {
	if at+4 > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+4], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// Quote encodes s as a string literal using only the escapes the lexer accepts.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte("0123456789abcdef"[r>>4])
				b.WriteByte("0123456789abcdef"[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '\''
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHex(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
