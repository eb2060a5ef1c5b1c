// Package imports lists what a Yap module imports and exports. It works on
// the syntax tree alone: no path is looked up on disk.
//
// An import path may carry a version constraint after an `@`, as in
// `import "std/io@^1.2";`. The constraint uses the usual semantic version
// range syntax.
package imports

import (
	"sort"
	"strings"

	semver "github.com/Masterminds/semver/v3"

	"github.com/yap-lang/yap/internal/ast"
	yerrors "github.com/yap-lang/yap/internal/errors"
	"github.com/yap-lang/yap/internal/position"
)

// Entry is one import declaration.
type Entry struct {
	Path       string // as written, constraint included
	Package    string // path without the constraint
	Constraint string // empty when the import is unversioned
	Names      []string
	Span       position.Span

	constraint *semver.Constraints
}

// Allows reports whether version v satisfies the import's constraint. An
// unversioned import allows every version.
func (e *Entry) Allows(v *semver.Version) bool {
	if e.constraint == nil {
		return true
	}
	return e.constraint.Check(v)
}

// Inventory is the import and export surface of one file.
type Inventory struct {
	ExportsAll bool
	Exports    []string
	Imports    []*Entry
}

// SplitPath splits `pkg@constraint` at its last `@`.
func SplitPath(path string) (pkg, constraint string) {
	at := strings.LastIndexByte(path, '@')
	if at < 0 {
		return path, ""
	}
	return path[:at], strings.TrimSpace(path[at+1:])
}

// Collect builds the inventory of root. A script has an empty inventory.
// Malformed constraints are reported with the span of their import; the
// entry is kept, unversioned.
func Collect(root ast.Root) (*Inventory, yerrors.List) {
	inv := &Inventory{}
	mod, ok := root.(*ast.Module)
	if !ok {
		return inv, nil
	}

	if mod.Exports != nil {
		inv.ExportsAll = mod.Exports.All
		inv.Exports = names(mod.Exports.Names)
	}

	var errs yerrors.List
	for _, imp := range mod.Imports {
		e := &Entry{
			Path:  imp.Path.Value,
			Names: names(imp.Names),
			Span:  imp.Span,
		}
		e.Package, e.Constraint = SplitPath(e.Path)
		if e.Package == "" {
			errs.Add(yerrors.Syntax(imp.Path.Span, "import path %q has no package", e.Path))
		}
		if e.Constraint != "" {
			c, err := semver.NewConstraint(e.Constraint)
			if err != nil {
				errs.Add(yerrors.Syntax(imp.Path.Span, "invalid version constraint %q: %v", e.Constraint, err))
			} else {
				e.constraint = c
			}
		}
		inv.Imports = append(inv.Imports, e)
	}
	return inv, errs
}

// Requirements merges the imports of inv by package. Constraints on the
// same package are intersected.
func (inv *Inventory) Requirements() []Requirement {
	byPackage := make(map[string][]string)
	var order []string
	for _, e := range inv.Imports {
		if _, seen := byPackage[e.Package]; !seen {
			order = append(order, e.Package)
			byPackage[e.Package] = nil
		}
		if e.constraint != nil {
			byPackage[e.Package] = append(byPackage[e.Package], e.Constraint)
		}
	}
	sort.Strings(order)

	reqs := make([]Requirement, 0, len(order))
	for _, pkg := range order {
		reqs = append(reqs, Requirement{Name: pkg, Constraint: strings.Join(byPackage[pkg], ", ")})
	}
	return reqs
}

func names(ids []*ast.Identifier) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}
