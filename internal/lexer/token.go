package lexer

import (
	"fmt"

	"github.com/yap-lang/yap/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types of the Yap language
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenComment

	// Literals
	TokenIdentifier
	TokenLabel // :name
	TokenInteger
	TokenFloat
	TokenString
	TokenBool
	TokenReserved // Type, Unit, Row, !

	// Keywords
	TokenLet
	TokenUsing
	TokenAs
	TokenForeign
	TokenExport
	TokenImport
	TokenMatch
	TokenReturn
	TokenReset
	TokenShift
	TokenResume
	TokenMu // μ

	// Operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenConcat     // <>
	TokenAppend     // ++
	TokenPipeRight  // |>
	TokenPipeLeft   // <|
	TokenAnd        // &&
	TokenOr         // ||
	TokenArrow      // ->
	TokenFatArrow   // =>
	TokenAssign     // =
	TokenWalrus     // :=
	TokenAt         // @
	TokenHash       // #
	TokenBackslash  // \
	TokenPipe       // |
	TokenModalOpen  // [|
	TokenModalClose // |]

	// Delimiters
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenColon
)

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string // raw lexeme; for errors the diagnostic text
	Span    position.Span
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Span: %s}", t.Type, t.Literal, t.Span)
}

// Describe renders the token for "found" parts of diagnostics.
func (t Token) Describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return fmt.Sprintf("identifier %q", t.Literal)
	case TokenInteger, TokenFloat:
		return fmt.Sprintf("number %s", t.Literal)
	case TokenString:
		return fmt.Sprintf("string %s", t.Literal)
	case TokenLabel:
		return fmt.Sprintf("label %s", t.Literal)
	case TokenError:
		return "invalid input"
	}
	return fmt.Sprintf("'%s'", t.Literal)
}

// IsKeyword reports whether the token type is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenLet && tt <= TokenMu
}

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenError:   "ERROR",
	TokenComment: "COMMENT",

	TokenIdentifier: "IDENTIFIER",
	TokenLabel:      "LABEL",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenBool:       "BOOL",
	TokenReserved:   "RESERVED",

	TokenLet:     "LET",
	TokenUsing:   "USING",
	TokenAs:      "AS",
	TokenForeign: "FOREIGN",
	TokenExport:  "EXPORT",
	TokenImport:  "IMPORT",
	TokenMatch:   "MATCH",
	TokenReturn:  "RETURN",
	TokenReset:   "RESET",
	TokenShift:   "SHIFT",
	TokenResume:  "RESUME",
	TokenMu:      "MU",

	TokenPlus:       "PLUS",
	TokenMinus:      "MINUS",
	TokenMul:        "MUL",
	TokenDiv:        "DIV",
	TokenMod:        "MOD",
	TokenEq:         "EQ",
	TokenNe:         "NE",
	TokenLt:         "LT",
	TokenLe:         "LE",
	TokenGt:         "GT",
	TokenGe:         "GE",
	TokenConcat:     "CONCAT",
	TokenAppend:     "APPEND",
	TokenPipeRight:  "PIPE_RIGHT",
	TokenPipeLeft:   "PIPE_LEFT",
	TokenAnd:        "AND",
	TokenOr:         "OR",
	TokenArrow:      "ARROW",
	TokenFatArrow:   "FAT_ARROW",
	TokenAssign:     "ASSIGN",
	TokenWalrus:     "WALRUS",
	TokenAt:         "AT",
	TokenHash:       "HASH",
	TokenBackslash:  "BACKSLASH",
	TokenPipe:       "PIPE",
	TokenModalOpen:  "MODAL_OPEN",
	TokenModalClose: "MODAL_CLOSE",

	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenLBracket:  "LBRACKET",
	TokenRBracket:  "RBRACKET",
	TokenSemicolon: "SEMICOLON",
	TokenComma:     "COMMA",
	TokenDot:       "DOT",
	TokenColon:     "COLON",
}

// keywords maps reserved words to their token types. Booleans and the
// reserved literals share the lookup so that none of them can ever be
// classified as an identifier.
var keywords = map[string]TokenType{
	"let":     TokenLet,
	"using":   TokenUsing,
	"as":      TokenAs,
	"foreign": TokenForeign,
	"export":  TokenExport,
	"import":  TokenImport,
	"match":   TokenMatch,
	"return":  TokenReturn,
	"reset":   TokenReset,
	"shift":   TokenShift,
	"resume":  TokenResume,
	"true":    TokenBool,
	"false":   TokenBool,
	"Type":    TokenReserved,
	"Unit":    TokenReserved,
	"Row":     TokenReserved,
}

// lookupIdent checks if identifier is keyword
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}
