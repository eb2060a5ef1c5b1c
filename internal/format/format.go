// Package format prints Yap syntax trees back as canonical source text.
//
// The printer inserts only the parentheses the grammar needs, so that
// parsing the output yields the tree that was printed. FormatText applies
// the whitespace rules every output file follows.
package format

import (
	"bytes"
	"strings"
)

// Options controls formatting style.
type Options struct {
	// PreserveNewlineStyle: when true, CRLF in input keeps CRLF in output; else LF.
	PreserveNewlineStyle bool
}

// DefaultOptions returns sane defaults.
func DefaultOptions() Options {
	return Options{PreserveNewlineStyle: true}
}

// FormatBytes normalises whitespace in source bytes.
func FormatBytes(in []byte, opts Options) []byte {
	return []byte(FormatText(string(in), opts))
}

// FormatText applies the whitespace rules only:
// - trailing spaces and tabs are trimmed from each line
// - the text ends with exactly one newline
// - CRLF is kept when the options and the input both use it.
func FormatText(text string, opts Options) string {
	useCRLF := opts.PreserveNewlineStyle && hasCRLF(text)

	lines := strings.Split(normalizeNewlines(text), "\n")
	// the final newline is written back below
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	sep := "\n"
	if useCRLF {
		sep = "\r\n"
	}

	var buf bytes.Buffer
	for i, ln := range lines {
		if i > 0 {
			buf.WriteString(sep)
		}
		buf.WriteString(strings.TrimRight(ln, " \t"))
	}
	buf.WriteString(sep)

	return buf.String()
}

func hasCRLF(text string) bool {
	return strings.Contains(text, "\r\n")
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func toCRLF(text string) string {
	return strings.ReplaceAll(normalizeNewlines(text), "\n", "\r\n")
}
