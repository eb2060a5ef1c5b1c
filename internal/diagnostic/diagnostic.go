// Diagnostic rendering for the Yap front end.
// Turns positioned front-end errors into compiler-style reports with the
// offending source line and a caret underline.

package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	yerrors "github.com/yap-lang/yap/internal/errors"
	"github.com/yap-lang/yap/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic message.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticNote
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticNote:
		return "note"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Code    string
	Title   string
	Message string
	Notes   []string
	Span    position.Span
	Level   DiagnosticLevel
	Kind    yerrors.Kind
}

// Error codes per error kind.
const (
	CodeLex       = "E0001"
	CodeSyntax    = "E0002"
	CodeAmbiguity = "E0003"
	CodeTruncated = "E0100"
)

// FromError converts a front-end error into a diagnostic.
func FromError(err *yerrors.Error) *Diagnostic {
	d := &Diagnostic{
		Title:   err.Kind.String(),
		Message: err.Description(),
		Span:    err.Span,
		Level:   DiagnosticError,
		Kind:    err.Kind,
	}
	switch err.Kind {
	case yerrors.KindLex:
		d.Code = CodeLex
		d.Notes = append(d.Notes, "the rest of the file was not parsed")
	case yerrors.KindSyntax:
		d.Code = CodeSyntax
	case yerrors.KindAmbiguity:
		d.Code = CodeAmbiguity
		d.Notes = append(d.Notes, "add parentheses or a trailing comma to pick a reading")
	}
	return d
}

// DiagnosticConfig controls diagnostic behavior.
type DiagnosticConfig struct {
	// MaxErrors stops collection after this many errors; zero means no limit.
	MaxErrors int
	// Context is the number of source lines shown around each span.
	Context int
	// Color wraps levels and carets in ANSI escapes.
	Color       bool
	ShowSource  bool
	ShowNotes   bool
	HideSummary bool
}

// DefaultConfig returns the configuration used by the command line tools.
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{MaxErrors: 50, ShowSource: true, ShowNotes: true}
}

// DiagnosticEngine collects the diagnostics of one source file.
type DiagnosticEngine struct {
	file        *position.SourceFile
	diagnostics []Diagnostic
	config      DiagnosticConfig
	truncated   bool
}

// NewDiagnosticEngine creates an engine reporting against file.
func NewDiagnosticEngine(file *position.SourceFile, config DiagnosticConfig) *DiagnosticEngine {
	return &DiagnosticEngine{file: file, config: config}
}

// AddDiagnostic adds a diagnostic to the engine.
func (de *DiagnosticEngine) AddDiagnostic(d *Diagnostic) {
	if de.truncated {
		return
	}
	if de.config.MaxErrors > 0 && d.Level == DiagnosticError && de.ErrorCount() >= de.config.MaxErrors {
		de.truncated = true
		de.diagnostics = append(de.diagnostics, Diagnostic{
			Code:    CodeTruncated,
			Title:   "too many errors",
			Message: fmt.Sprintf("stopping after %d errors", de.config.MaxErrors),
			Span:    d.Span,
			Level:   DiagnosticNote,
		})
		return
	}
	de.diagnostics = append(de.diagnostics, *d)
}

// AddErrors adds every error of errs.
func (de *DiagnosticEngine) AddErrors(errs yerrors.List) {
	for _, err := range errs {
		de.AddDiagnostic(FromError(err))
	}
}

// GetDiagnostics returns all diagnostics.
func (de *DiagnosticEngine) GetDiagnostics() []Diagnostic {
	return de.diagnostics
}

// ErrorCount returns the number of error-level diagnostics.
func (de *DiagnosticEngine) ErrorCount() int {
	n := 0
	for _, d := range de.diagnostics {
		if d.Level == DiagnosticError {
			n++
		}
	}
	return n
}

// HasErrors returns true if there are any errors.
func (de *DiagnosticEngine) HasErrors() bool {
	return de.ErrorCount() > 0
}

// Clear removes all diagnostics.
func (de *DiagnosticEngine) Clear() {
	de.diagnostics = de.diagnostics[:0]
	de.truncated = false
}

// SortDiagnostics sorts diagnostics by position, then severity. The
// truncation note stays last.
func (de *DiagnosticEngine) SortDiagnostics() {
	sort.SliceStable(de.diagnostics, func(i, j int) bool {
		a, b := de.diagnostics[i], de.diagnostics[j]
		if (a.Code == CodeTruncated) != (b.Code == CodeTruncated) {
			return b.Code == CodeTruncated
		}
		if a.Span.Start.Offset != b.Span.Start.Offset {
			return a.Span.Start.Offset < b.Span.Start.Offset
		}
		return a.Level < b.Level
	})
}

// FormatDiagnostics returns every diagnostic followed by a summary line.
func (de *DiagnosticEngine) FormatDiagnostics() string {
	if len(de.diagnostics) == 0 {
		return ""
	}

	de.SortDiagnostics()

	var result strings.Builder
	for i := range de.diagnostics {
		if i > 0 && de.config.ShowSource {
			result.WriteString("\n")
		}
		result.WriteString(de.formatSingleDiagnostic(&de.diagnostics[i]))
	}
	if !de.config.HideSummary {
		result.WriteString(de.formatSummary())
	}
	return result.String()
}

// formatSingleDiagnostic renders
//
//	main.yap:3:7: error[E0002]: syntax error: expected ..., found ...
//	   3 | let x = ;
//	     |         ^
func (de *DiagnosticEngine) formatSingleDiagnostic(d *Diagnostic) string {
	var result strings.Builder

	fmt.Fprintf(&result, "%s: %s: %s\n",
		de.file.Located(d.Span.Start),
		de.paint(levelColor(d.Level), fmt.Sprintf("%s[%s]", d.Level, d.Code)),
		de.headline(d),
	)

	if de.config.ShowSource && d.Span.IsValid() {
		excerpt := position.NewSpanHighlighter(de.file, de.config.Context).HighlightSpan(d.Span)
		result.WriteString(de.paintCarets(excerpt))
	}

	if de.config.ShowNotes {
		for _, note := range d.Notes {
			fmt.Fprintf(&result, "  = %s: %s\n", de.paint(ansiCyan, "note"), note)
		}
	}
	return result.String()
}

func (de *DiagnosticEngine) headline(d *Diagnostic) string {
	switch {
	case d.Message == "":
		return d.Title
	case d.Title == "":
		return d.Message
	default:
		return d.Title + ": " + d.Message
	}
}

// formatSummary formats a summary of all diagnostics.
func (de *DiagnosticEngine) formatSummary() string {
	errorCount := de.ErrorCount()
	warningCount := 0
	for _, d := range de.diagnostics {
		if d.Level == DiagnosticWarning {
			warningCount++
		}
	}
	if errorCount == 0 && warningCount == 0 {
		return ""
	}

	var parts []string
	if errorCount > 0 {
		parts = append(parts, plural(errorCount, "error"))
	}
	if warningCount > 0 {
		parts = append(parts, plural(warningCount, "warning"))
	}
	return fmt.Sprintf("\n%s: %s\n", de.file.Name(), strings.Join(parts, ", "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[1;31m"
	ansiYellow = "\x1b[1;33m"
	ansiCyan   = "\x1b[1;36m"
)

func levelColor(l DiagnosticLevel) string {
	switch l {
	case DiagnosticError:
		return ansiRed
	case DiagnosticWarning:
		return ansiYellow
	default:
		return ansiCyan
	}
}

func (de *DiagnosticEngine) paint(color, text string) string {
	if !de.config.Color {
		return text
	}
	return color + text + ansiReset
}

// paintCarets colours the caret runs of a highlighted excerpt.
func (de *DiagnosticEngine) paintCarets(excerpt string) string {
	if !de.config.Color {
		return excerpt
	}
	lines := strings.SplitAfter(excerpt, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "     | ") {
			continue
		}
		first := strings.IndexByte(line, '^')
		if first < 0 {
			continue
		}
		last := strings.LastIndexByte(line, '^') + 1
		lines[i] = line[:first] + ansiRed + line[first:last] + ansiReset + line[last:]
	}
	return strings.Join(lines, "")
}

// Render is a convenience wrapper formatting errs against the source of
// filename with the given configuration.
func Render(filename, src string, errs yerrors.List, config DiagnosticConfig) string {
	engine := NewDiagnosticEngine(position.NewSourceFile(filename, src), config)
	engine.AddErrors(errs)
	return engine.FormatDiagnostics()
}
