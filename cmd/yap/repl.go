package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/yap-lang/yap/internal/ast"
	"github.com/yap-lang/yap/internal/cli"
	"github.com/yap-lang/yap/internal/diagnostic"
	yerrors "github.com/yap-lang/yap/internal/errors"
	"github.com/yap-lang/yap/internal/format"
	"github.com/yap-lang/yap/internal/parser"
)

const (
	promptMain = "yap> "
	promptCont = "...  "
)

// prompter reads input lines. liner.State implements it for terminals.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// lineReader is the prompter used when input is not a terminal.
type lineReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (r *lineReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *lineReader) AppendHistory(string) {}

type replSession struct {
	*app
	in   prompter
	dump bool
}

func (a *app) cmdRepl(args []string) int {
	fs := a.flags("repl")
	noHistory := fs.Bool("no-history", false, "do not read or write the history file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s := &replSession{app: a, dump: true}
	if f, ok := a.stdin.(*os.File); ok && cli.IsTerminal(f) {
		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)
		s.in = ln

		if path := historyPath(a.config.HistoryFile); path != "" && !*noHistory {
			if f, err := os.Open(path); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(path); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				} else {
					a.logger.Warn("cannot save history: %v", err)
				}
			}()
		}
		fmt.Fprintf(a.stdout, "Yap %s. Type :help for help, :quit to exit.\n", cli.Version)
	} else {
		s.in = &lineReader{scanner: bufio.NewScanner(a.stdin), out: io.Discard}
	}

	return s.loop()
}

func historyPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, rest)
	}
	return path
}

func (s *replSession) loop() int {
	for {
		src, ok := s.read()
		if !ok {
			return 0
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed) {
				return 0
			}
			continue
		}
		s.in.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		s.eval(src)
	}
}

// read collects lines until the input parses or fails before its end. An
// empty continuation line submits the input as it is.
func (s *replSession) read() (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := s.in.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if b.Len() > 0 && errors.Is(err, io.EOF) {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			s.logger.Error("%v", err)
			return "", false
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, errs := parser.Parse(src); !incomplete(src, errs) {
			return src, true
		}
	}
}

// incomplete reports whether errs only complain about input ending early.
func incomplete(src string, errs yerrors.List) bool {
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if e.Span.End.Offset < len(src) {
			return false
		}
	}
	return true
}

func (s *replSession) eval(src string) {
	root, errs := parser.ParseFile("<repl>", src)
	if len(errs) > 0 {
		config := s.diagnostics()
		config.HideSummary = true
		fmt.Fprint(s.stderr, diagnostic.Render("<repl>", src, errs, config))
		return
	}
	if s.dump {
		fmt.Fprintln(s.stdout, ast.Dump(root))
		return
	}
	fmt.Fprintln(s.stdout, strings.TrimRight(format.Node(root), "\n"))
}

// command runs a :command and reports whether the session should end.
func (s *replSession) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(s.stdout, "Enter Yap source; input continues on the next line until it parses.")
		fmt.Fprintln(s.stdout, "  :dump     print the syntax tree (default)")
		fmt.Fprintln(s.stdout, "  :fmt      print the canonical source")
		fmt.Fprintln(s.stdout, "  :quit     exit")
	case ":dump":
		s.dump = true
	case ":fmt":
		s.dump = false
	default:
		fmt.Fprintf(s.stdout, "unknown command %s. Type :help for help.\n", fields[0])
	}
	return false
}
