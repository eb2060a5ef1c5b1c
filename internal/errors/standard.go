// Package errors provides the error taxonomy of the Yap front end.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yap-lang/yap/internal/position"
)

// Kind represents different categories of front-end errors
type Kind int

const (
	// KindLex covers unterminated strings and comments, bad escapes and
	// illegal characters. It ends the token stream.
	KindLex Kind = iota
	// KindSyntax covers expected-vs-found mismatches. It aborts the
	// enclosing statement only.
	KindSyntax
	// KindAmbiguity is reported when a documented tie-break cannot pick a
	// single reading.
	KindAmbiguity
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindSyntax:
		return "syntax error"
	case KindAmbiguity:
		return "ambiguity error"
	default:
		return "error"
	}
}

// Error is a single positioned front-end error.
type Error struct {
	Kind     Kind
	Span     position.Span
	Expected string // what the grammar wanted, may be empty
	Found    string // what was actually there, may be empty
	Message  string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Span.Start, e.Kind, e.Description())
}

// Description renders the human readable part of the error without position.
func (e *Error) Description() string {
	switch {
	case e.Message != "" && e.Expected != "":
		return fmt.Sprintf("%s: expected %s, found %s", e.Message, e.Expected, e.Found)
	case e.Expected != "":
		return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
	default:
		return e.Message
	}
}

// Lex creates a lexical error.
func Lex(span position.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: KindLex, Span: span, Message: fmt.Sprintf(format, args...)}
}

// Expected creates a syntax error describing a missing construct.
func Expected(span position.Span, expected, found string) *Error {
	return &Error{Kind: KindSyntax, Span: span, Expected: expected, Found: found}
}

// Syntax creates a syntax error with a free-form message.
func Syntax(span position.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: KindSyntax, Span: span, Message: fmt.Sprintf(format, args...)}
}

// Ambiguity creates an ambiguity error.
func Ambiguity(span position.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: KindAmbiguity, Span: span, Message: fmt.Sprintf(format, args...)}
}

// List is an ordered collection of errors. The zero value is ready to use.
type List []*Error

// Add appends an error to the list.
func (l *List) Add(err *Error) {
	*l = append(*l, err)
}

// Len, Less and Swap order errors by source offset.
func (l List) Len() int      { return len(l) }
func (l List) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l List) Less(i, j int) bool {
	return l[i].Span.Start.Offset < l[j].Span.Start.Offset
}

// Sort sorts the list by position, keeping insertion order for ties.
func (l List) Sort() {
	sort.Stable(l)
}

// Count returns how many errors of the given kind the list holds.
func (l List) Count(kind Kind) int {
	n := 0
	for _, e := range l {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Error implements the error interface.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	b.WriteString(l[0].Error())
	fmt.Fprintf(&b, " (and %d more errors)", len(l)-1)
	return b.String()
}

// Err returns nil for an empty list and the list itself otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
