// Package loader reads Yap source files and parses them concurrently.
// Every file is parsed independently; results come back in input order.
package loader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/yap-lang/yap/internal/ast"
	yerrors "github.com/yap-lang/yap/internal/errors"
	"github.com/yap-lang/yap/internal/parser"
)

// Extension is the file extension of Yap sources.
const Extension = ".yap"

// File is one parsed source file.
type File struct {
	Path   string
	Source []byte
	Root   ast.Root
	Errors yerrors.List
}

// OK reports whether the file parsed without errors.
func (f *File) OK() bool { return len(f.Errors) == 0 }

// Parse parses src as the contents of path.
func Parse(path string, src []byte) *File {
	root, errs := parser.ParseFile(path, string(src))
	return &File{Path: path, Source: src, Root: root, Errors: errs}
}

// ReadFile reads and parses one file. Only I/O failures are returned as
// errors; syntax errors are recorded on the File.
func ReadFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Parse(path, src), nil
}

// ParseFiles reads and parses paths with at most workers files in flight.
// workers <= 0 means one per CPU. The first I/O failure cancels the
// remaining reads. Cancelling ctx stops it between files.
func ParseFiles(ctx context.Context, paths []string, workers int) ([]*File, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	files := make([]*File, len(paths))
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := ReadFile(path)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Acquire fails only once gctx is done; report why.
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "parse cancelled")
	}
	return files, nil
}

// Expand replaces every directory in args by the .yap files below it,
// sorted by path. Plain files are kept as given, whatever their extension.
func Expand(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != arg && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			if !d.IsDir() && filepath.Ext(path) == Extension {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", arg)
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

// Errors counts the errors across files.
func Errors(files []*File) int {
	n := 0
	for _, f := range files {
		n += len(f.Errors)
	}
	return n
}
