package position

import (
	"fmt"
	"strings"
)

// SpanHighlighter renders source excerpts with the covered bytes underlined.
type SpanHighlighter struct {
	file    *SourceFile
	context int
}

// NewSpanHighlighter creates a new span highlighter showing context lines
// above and below the highlighted region.
func NewSpanHighlighter(file *SourceFile, context int) *SpanHighlighter {
	if context < 0 {
		context = 0
	}
	return &SpanHighlighter{file: file, context: context}
}

// HighlightSpan returns the lines covered by span, each followed by a caret
// line marking the span's columns.
func (sh *SpanHighlighter) HighlightSpan(span Span) string {
	if !span.IsValid() {
		return ""
	}

	var result strings.Builder

	startLine := max(1, span.Start.Line-sh.context)
	endLine := min(sh.file.LineCount(), span.End.Line+sh.context)

	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		line := sh.file.GetLine(lineNum)
		fmt.Fprintf(&result, "%4d | %s\n", lineNum, line)

		if lineNum >= span.Start.Line && lineNum <= span.End.Line {
			sh.addHighlighting(&result, lineNum, line, span)
		}
	}

	return result.String()
}

// addHighlighting adds ASCII highlighting under the relevant part of the line.
func (sh *SpanHighlighter) addHighlighting(result *strings.Builder, lineNum int, line string, span Span) {
	startCol, endCol := 1, len(line)+1
	if lineNum == span.Start.Line {
		startCol = span.Start.Column
	}
	if lineNum == span.End.Line {
		endCol = span.End.Column
	}
	// zero-width spans (EOF, missing tokens) still get one caret
	if endCol <= startCol {
		endCol = startCol + 1
	}

	result.WriteString("     | ")
	for i := 1; i < startCol; i++ {
		if i <= len(line) && line[i-1] == '\t' {
			result.WriteByte('\t')
		} else {
			result.WriteByte(' ')
		}
	}
	result.WriteString(strings.Repeat("^", endCol-startCol))
	result.WriteByte('\n')
}
