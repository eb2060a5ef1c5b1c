package format

import (
	"github.com/yap-lang/yap/internal/ast"
	"github.com/yap-lang/yap/internal/parser"
	"github.com/yap-lang/yap/internal/position"
)

// Source parses src and returns it in canonical form. Sources with syntax
// errors are not formatted: the returned error is the parser's error list.
func Source(filename string, src []byte, opts Options) ([]byte, error) {
	text := string(src)
	root, errs := parser.ParseFile(filename, text)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	out := Node(root)
	if opts.PreserveNewlineStyle && hasCRLF(text) {
		out = toCRLF(out)
	}
	return []byte(FormatText(out, opts)), nil
}

// unit is one top-level line of output: a header declaration or a
// statement, with its terminator.
type unit struct {
	span position.Span
	text string
}

// root prints a file. Each declaration and statement takes one line.
// Comments are moved out of the statements that contain them: a comment on
// the line a statement ends stays at the end of that line, any other
// comment goes on its own line before the next statement.
func (p *printer) root(r ast.Root) {
	var units []unit
	var body *ast.Script

	switch r := r.(type) {
	case *ast.Module:
		if r.Exports != nil {
			units = append(units, unit{r.Exports.Span, Node(r.Exports) + ";"})
		}
		for _, imp := range r.Imports {
			units = append(units, unit{imp.Span, Node(imp) + ";"})
		}
		body = r.Body
	case *ast.Script:
		body = r
	}

	header := len(units)
	if body != nil {
		for _, s := range body.Statements {
			units = append(units, unit{s.GetSpan(), Node(s) + ";"})
		}
	}

	comments := r.Trivia()
	next := 0
	lastLine := 0 // source line the output has reached

	for i, u := range units {
		blank := i > 0 && i == header
		for next < len(comments) && comments[next].Span.Start.Offset < u.span.Start.Offset {
			c := comments[next]
			p.separate(&blank, lastLine, c.Span.Start.Line)
			p.print(c.Text, "\n")
			lastLine = max(lastLine, c.Span.End.Line)
			next++
		}

		p.separate(&blank, lastLine, u.span.Start.Line)
		p.print(u.text)
		lastLine = u.span.End.Line

		limit := -1
		if i+1 < len(units) {
			limit = units[i+1].span.Start.Offset
		}
		for next < len(comments) &&
			comments[next].Span.Start.Line == u.span.End.Line &&
			(limit < 0 || comments[next].Span.Start.Offset < limit) {
			p.print(" ", comments[next].Text)
			lastLine = max(lastLine, comments[next].Span.End.Line)
			next++
		}
		p.print("\n")
	}

	for ; next < len(comments); next++ {
		c := comments[next]
		blank := false
		p.separate(&blank, lastLine, c.Span.Start.Line)
		p.print(c.Text, "\n")
		lastLine = max(lastLine, c.Span.End.Line)
	}
}

// separate writes one empty line when one is wanted or the source had at
// least one between line last and line line.
func (p *printer) separate(blank *bool, last, line int) {
	if *blank || (last > 0 && line > last+1) {
		if p.buf.Len() > 0 {
			p.print("\n")
		}
	}
	*blank = false
}
