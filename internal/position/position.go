// Package position provides source position tracking for the Yap front end.
// Spans are half-open byte ranges [Start.Offset, End.Offset) that also carry
// line and column information for diagnostics.
package position

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Position represents a single point in source code
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based byte column
	Offset int // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// After returns true if this position comes after other
func (p Position) After(other Position) bool {
	return p.Offset > other.Offset
}

// Span represents a range of source code between two positions
type Span struct {
	Start Position // Starting position (inclusive)
	End   Position // Ending position (exclusive)
}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() && s.Start.Offset <= s.End.Offset
}

// String returns a string representation of the span
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Contains returns true if the span contains the given offset
func (s Span) Contains(offset int) bool {
	return s.Start.Offset <= offset && offset < s.End.Offset
}

// Overlaps returns true if this span overlaps with other
func (s Span) Overlaps(other Span) bool {
	if !s.IsValid() || !other.IsValid() {
		return false
	}
	return s.Start.Offset < other.End.Offset && other.Start.Offset < s.End.Offset
}

// Union returns a span that encompasses both this span and other
func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}

	start := s.Start
	if other.Start.Before(start) {
		start = other.Start
	}

	end := s.End
	if other.End.After(end) {
		end = other.End
	}

	return Span{Start: start, End: end}
}

// Between returns the span running from the start of a to the end of b.
func Between(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}

// Length returns the length of the span in bytes
func (s Span) Length() int {
	if !s.IsValid() {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}

// SourceFile represents a source file with content and position tracking
type SourceFile struct {
	Filename string // File path
	Content  string // Source code content
	lines    []int  // byte offset of the first character of each line
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	lines := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &SourceFile{
		Filename: filename,
		Content:  content,
		lines:    lines,
	}
}

// Name returns the base name used when printing positions.
func (sf *SourceFile) Name() string {
	if sf.Filename == "" {
		return "<input>"
	}
	return filepath.Base(sf.Filename)
}

// LineCount returns the number of lines in the file.
func (sf *SourceFile) LineCount() int {
	return len(sf.lines)
}

// GetLine returns the specified line (1-based) without its terminator,
// or an empty string if the line does not exist.
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.lines) {
		return ""
	}
	start := sf.lines[lineNum-1]
	end := len(sf.Content)
	if lineNum < len(sf.lines) {
		end = sf.lines[lineNum] - 1
	}
	return strings.TrimSuffix(sf.Content[start:end], "\r")
}

// GetSpanText returns the text covered by the span
func (sf *SourceFile) GetSpanText(span Span) string {
	if span.Start.Offset < 0 || span.End.Offset > len(sf.Content) || span.Start.Offset > span.End.Offset {
		return ""
	}
	return sf.Content[span.Start.Offset:span.End.Offset]
}

// PositionFromOffset converts a byte offset to a Position
func (sf *SourceFile) PositionFromOffset(offset int) Position {
	if offset < 0 || offset > len(sf.Content) {
		return Position{}
	}
	// index of the last line start <= offset
	line := sort.Search(len(sf.lines), func(i int) bool { return sf.lines[i] > offset })
	return Position{
		Line:   line,
		Column: offset - sf.lines[line-1] + 1,
		Offset: offset,
	}
}

// Located renders a position prefixed with the file name, e.g. main.yap:3:7.
func (sf *SourceFile) Located(p Position) string {
	return fmt.Sprintf("%s:%s", sf.Name(), p.String())
}
