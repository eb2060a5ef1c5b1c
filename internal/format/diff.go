package format

import (
	"fmt"
	"strings"
)

// DiffOptions controls diff generation.
type DiffOptions struct {
	Context int // unchanged lines shown around each change
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Context: 3}
}

// LineType represents the type of a diff line.
type LineType int

const (
	LineTypeContext LineType = iota // Unchanged context line
	LineTypeAdded                   // Added line (+)
	LineTypeRemoved                 // Removed line (-)
)

// Line represents a single line in a diff.
type Line struct {
	Type    LineType
	Content string
}

// Hunk represents a contiguous block of changes.
type Hunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []Line
}

// Header returns the `@@ -a,b +c,d @@` line of the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// DiffResult represents the result of a diff operation.
type DiffResult struct {
	Hunks        []Hunk
	LinesAdded   int
	LinesRemoved int
}

// HasChanges reports whether the inputs differ.
func (r *DiffResult) HasChanges() bool {
	return len(r.Hunks) > 0
}

// DiffFormatter generates unified diffs between a source and its
// formatted version.
type DiffFormatter struct {
	options DiffOptions
}

// NewDiffFormatter creates a new diff formatter.
func NewDiffFormatter(options DiffOptions) *DiffFormatter {
	if options.Context < 0 {
		options.Context = 0
	}
	return &DiffFormatter{options: options}
}

// GenerateDiff compares original and modified line by line.
func (df *DiffFormatter) GenerateDiff(original, modified string) *DiffResult {
	a := splitLines(original)
	b := splitLines(modified)
	ops := editScript(a, b)

	result := &DiffResult{}
	for _, op := range ops {
		switch op.kind {
		case LineTypeAdded:
			result.LinesAdded++
		case LineTypeRemoved:
			result.LinesRemoved++
		}
	}
	result.Hunks = df.hunks(ops)
	return result
}

// FormatDiff renders a diff result in unified format. It returns the empty
// string when nothing changed.
func (df *DiffFormatter) FormatDiff(filename string, result *DiffResult) string {
	if !result.HasChanges() {
		return ""
	}

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\t(original)\n", filename)
	fmt.Fprintf(&out, "+++ %s\t(formatted)\n", filename)
	for _, h := range result.Hunks {
		out.WriteString(h.Header())
		out.WriteByte('\n')
		for _, line := range h.Lines {
			switch line.Type {
			case LineTypeAdded:
				out.WriteByte('+')
			case LineTypeRemoved:
				out.WriteByte('-')
			default:
				out.WriteByte(' ')
			}
			out.WriteString(line.Content)
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// Diff formats src and returns a unified diff from src to the result,
// empty when src is already canonical.
func Diff(filename string, src []byte, opts Options) (string, error) {
	formatted, err := Source(filename, src, opts)
	if err != nil {
		return "", err
	}
	df := NewDiffFormatter(DefaultDiffOptions())
	return df.FormatDiff(filename, df.GenerateDiff(string(src), string(formatted))), nil
}

func splitLines(text string) []string {
	text = normalizeNewlines(text)
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// edit is one step of an edit script.
type edit struct {
	kind LineType
	a, b int // 0-based line indexes in the original and modified text
	text string
}

// editScript returns a shortest edit script from a to b, computed from the
// longest common subsequence of lines.
func editScript(a, b []string) []edit {
	n, m := len(a), len(b)
	// lcs[i][j] is the LCS length of a[i:] and b[j:]
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var ops []edit
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && a[i] == b[j]:
			ops = append(ops, edit{LineTypeContext, i, j, a[i]})
			i++
			j++
		case i < n && (j == m || lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, edit{LineTypeRemoved, i, j, a[i]})
			i++
		default:
			ops = append(ops, edit{LineTypeAdded, i, j, b[j]})
			j++
		}
	}
	return ops
}

// hunks groups the changes of ops with their surrounding context. Changes
// separated by more than twice the context share no hunk.
func (df *DiffFormatter) hunks(ops []edit) []Hunk {
	ctx := df.options.Context
	var hunks []Hunk

	for start := 0; start < len(ops); {
		// find the next change
		first := start
		for first < len(ops) && ops[first].kind == LineTypeContext {
			first++
		}
		if first == len(ops) {
			break
		}

		// extend while the gap between changes is small enough
		last := first
		for k := first + 1; k < len(ops); k++ {
			if ops[k].kind == LineTypeContext {
				continue
			}
			if k-last-1 > 2*ctx {
				break
			}
			last = k
		}

		from := max(start, first-ctx)
		to := min(len(ops), last+ctx+1)
		h := Hunk{OriginalStart: ops[from].a + 1, ModifiedStart: ops[from].b + 1}
		for _, op := range ops[from:to] {
			h.Lines = append(h.Lines, Line{Type: op.kind, Content: op.text})
			if op.kind != LineTypeAdded {
				h.OriginalCount++
			}
			if op.kind != LineTypeRemoved {
				h.ModifiedCount++
			}
		}
		// empty ranges are numbered by the line before them
		if h.OriginalCount == 0 {
			h.OriginalStart--
		}
		if h.ModifiedCount == 0 {
			h.ModifiedStart--
		}
		hunks = append(hunks, h)
		start = to
	}
	return hunks
}
