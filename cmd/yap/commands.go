package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/yap-lang/yap/internal/ast"
	"github.com/yap-lang/yap/internal/cli"
	"github.com/yap-lang/yap/internal/diagnostic"
	"github.com/yap-lang/yap/internal/format"
	"github.com/yap-lang/yap/internal/imports"
	"github.com/yap-lang/yap/internal/lexer"
	"github.com/yap-lang/yap/internal/loader"
	"github.com/yap-lang/yap/internal/position"
	"github.com/yap-lang/yap/internal/watch"
)

// load expands args and parses every file found. An empty args means the
// current directory.
func (a *app) load(ctx context.Context, args []string) ([]*loader.File, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	paths, err := loader.Expand(args)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	files, err := loader.ParseFiles(ctx, paths, a.config.Workers)
	if err != nil {
		return nil, err
	}
	a.logger.Info("parsed %d files in %v", len(files), time.Since(start).Round(time.Microsecond))
	return files, nil
}

// report prints the diagnostics of f and reports whether it had any.
func (a *app) report(f *loader.File) bool {
	if f.OK() {
		return false
	}
	fmt.Fprint(a.stderr, diagnostic.Render(f.Path, string(f.Source), f.Errors, a.diagnostics()))
	return true
}

func (a *app) cmdParse(ctx context.Context, args []string) int {
	fs := a.flags("parse")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := cli.ValidateArgs(fs.Args(), 1, "yap parse FILE..."); err != nil {
		return a.fail(err)
	}

	files, err := a.load(ctx, fs.Args())
	if err != nil {
		return a.fail(err)
	}
	status := 0
	for _, f := range files {
		if len(files) > 1 {
			fmt.Fprintf(a.stdout, "%s:\n", f.Path)
		}
		fmt.Fprintln(a.stdout, ast.Dump(f.Root))
		if a.report(f) {
			status = 1
		}
	}
	return status
}

func (a *app) cmdCheck(ctx context.Context, args []string) int {
	fs := a.flags("check")
	watchMode := fs.Bool("watch", false, "re-check files when they change")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	files, err := a.load(ctx, fs.Args())
	if err != nil {
		return a.fail(err)
	}
	status := a.checkFiles(files)
	if !*watchMode {
		return status
	}

	w, err := watch.New(time.Duration(a.config.Debounce), loader.Extension)
	if err != nil {
		return a.fail(err)
	}
	defer w.Close()
	w.OnError = func(err error) { a.logger.Warn("%v", err) }

	roots := fs.Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if err := w.Add(root); err != nil {
			return a.fail(err)
		}
	}
	a.logger.Info("watching %s", strings.Join(roots, ", "))

	cache := loader.NewCache()
	for _, f := range files {
		cache.Add(f)
	}
	err = w.Run(ctx, func(paths []string) {
		var changed []*loader.File
		for _, path := range paths {
			f, ok, err := cache.ReadFile(path)
			if err != nil {
				a.logger.Warn("%v", err)
				continue
			}
			if !ok {
				a.logger.Debug("%s unchanged", path)
				continue
			}
			changed = append(changed, f)
		}
		if len(changed) > 0 {
			a.checkFiles(changed)
		}
	})
	if err != nil {
		return a.fail(err)
	}
	return status
}

func (a *app) checkFiles(files []*loader.File) int {
	status := 0
	for _, f := range files {
		if a.report(f) {
			status = 1
		}
	}
	if n := loader.Errors(files); n > 0 {
		a.logger.Info("%d files checked, %d errors", len(files), n)
	} else {
		a.logger.Info("%d files checked, no errors", len(files))
	}
	return status
}

func (a *app) cmdFmt(ctx context.Context, args []string) int {
	fs := a.flags("fmt")
	var (
		write = fs.Bool("w", false, "write result to (source) file instead of stdout")
		list  = fs.Bool("l", false, "list files whose formatting differs")
		diff  = fs.Bool("d", false, "print a unified diff instead of the formatted source")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	files, err := a.load(ctx, fs.Args())
	if err != nil {
		return a.fail(err)
	}

	opts := format.DefaultOptions()
	status := 0
	for _, f := range files {
		if a.report(f) {
			status = 1
			continue
		}
		out, err := format.Source(f.Path, f.Source, opts)
		if err != nil {
			status = a.fail(err)
			continue
		}

		same := bytes.Equal(out, f.Source)
		switch {
		case *diff:
			df := format.NewDiffFormatter(format.DefaultDiffOptions())
			fmt.Fprint(a.stdout, df.FormatDiff(f.Path, df.GenerateDiff(string(f.Source), string(out))))
		case *list:
			if !same {
				fmt.Fprintln(a.stdout, f.Path)
			}
		case *write:
			if same {
				continue
			}
			if err := writeFile(f.Path, out); err != nil {
				status = a.fail(err)
				continue
			}
			a.logger.Info("formatted %s", f.Path)
		default:
			a.stdout.Write(out)
		}
	}
	return status
}

// writeFile replaces path keeping its permissions.
func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, info.Mode().Perm()), "write %s", path)
}

func (a *app) cmdTokens(args []string) int {
	fs := a.flags("tokens")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	path := fs.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		return a.fail(errors.Wrapf(err, "read %s", path))
	}

	l := lexer.NewWithFilename(string(src), path)
	for tok := range l.All() {
		if tok.Type == lexer.TokenError {
			break
		}
		fmt.Fprintf(a.stdout, "%-12s %-14s %q\n", tok.Span, tok.Type, tok.Literal)
	}
	if lexErr := l.Err(); lexErr != nil {
		engine := diagnostic.NewDiagnosticEngine(position.NewSourceFile(path, string(src)), a.diagnostics())
		engine.AddDiagnostic(diagnostic.FromError(lexErr))
		fmt.Fprint(a.stderr, engine.FormatDiagnostics())
		return 1
	}
	return 0
}

func (a *app) cmdImports(ctx context.Context, args []string) int {
	fs := a.flags("imports")
	lowest := fs.Bool("lowest", false, "resolve to the lowest satisfying versions")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := cli.ValidateArgs(fs.Args(), 1, "yap imports FILE..."); err != nil {
		return a.fail(err)
	}

	files, err := a.load(ctx, fs.Args())
	if err != nil {
		return a.fail(err)
	}

	status := 0
	for _, f := range files {
		if a.report(f) {
			status = 1
			continue
		}
		inv, errs := imports.Collect(f.Root)
		if len(errs) > 0 {
			fmt.Fprint(a.stderr, diagnostic.Render(f.Path, string(f.Source), errs, a.diagnostics()))
			status = 1
		}

		fmt.Fprintf(a.stdout, "%s:\n", f.Path)
		switch {
		case inv.ExportsAll:
			fmt.Fprintln(a.stdout, "  export *")
		case len(inv.Exports) > 0:
			fmt.Fprintf(a.stdout, "  export %s\n", strings.Join(inv.Exports, ", "))
		}
		for _, e := range inv.Imports {
			line := "  import " + e.Package
			if e.Constraint != "" {
				line += " " + e.Constraint
			}
			if len(e.Names) > 0 {
				line += " (" + strings.Join(e.Names, ", ") + ")"
			}
			fmt.Fprintln(a.stdout, line)
		}

		if len(a.config.Packages) == 0 || len(inv.Imports) == 0 {
			continue
		}
		res, conflicts := imports.Resolve(imports.Index(a.config.Packages), inv.Requirements(),
			imports.ResolveOptions{PreferLower: *lowest})
		for _, req := range inv.Requirements() {
			if v, ok := res[req.Name]; ok {
				fmt.Fprintf(a.stdout, "  resolved %s %s\n", req.Name, v)
			}
		}
		for _, err := range conflicts {
			fmt.Fprintf(a.stderr, "%s: %v\n", f.Path, err)
			status = 1
		}
	}
	return status
}

func (a *app) cmdVersion(args []string) int {
	fs := a.flags("version")
	jsonOutput := fs.Bool("json", false, "output version in JSON format")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := cli.PrintVersion(a.stdout, toolName, *jsonOutput); err != nil {
		return a.fail(err)
	}
	return 0
}
