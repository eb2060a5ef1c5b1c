package imports

import (
	"reflect"
	"testing"

	semver "github.com/Masterminds/semver/v3"

	"github.com/yap-lang/yap/internal/parser"
)

func collect(t *testing.T, src string) *Inventory {
	t.Helper()
	root, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse failed: %v", errs)
	}
	inv, errs := Collect(root)
	if len(errs) != 0 {
		t.Fatalf("collect failed: %v", errs)
	}
	return inv
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path, pkg, constraint string
	}{
		{"std/io", "std/io", ""},
		{"std/io@^1.2", "std/io", "^1.2"},
		{"lib@ >=1.0, <2 ", "lib", ">=1.0, <2"},
		{"@scope/pkg@~0.3", "@scope/pkg", "~0.3"},
	}
	for _, tt := range tests {
		pkg, c := SplitPath(tt.path)
		if pkg != tt.pkg || c != tt.constraint {
			t.Errorf("SplitPath(%q) = %q, %q; want %q, %q", tt.path, pkg, c, tt.pkg, tt.constraint)
		}
	}
}

func TestCollect(t *testing.T) {
	inv := collect(t, "export (main, helper);\nimport \"std/io@^1.2\" (print);\nimport \"lib\";\nlet main = print 1;")

	if inv.ExportsAll {
		t.Error("ExportsAll must be false for a name list")
	}
	if !reflect.DeepEqual(inv.Exports, []string{"main", "helper"}) {
		t.Errorf("exports = %v", inv.Exports)
	}
	if len(inv.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(inv.Imports))
	}

	io := inv.Imports[0]
	if io.Package != "std/io" || io.Constraint != "^1.2" || !reflect.DeepEqual(io.Names, []string{"print"}) {
		t.Errorf("first import = %+v", io)
	}
	if !io.Allows(semver.MustParse("1.4.0")) || io.Allows(semver.MustParse("2.0.0")) {
		t.Error("^1.2 must allow 1.4.0 and reject 2.0.0")
	}
	if lib := inv.Imports[1]; lib.Constraint != "" || !lib.Allows(semver.MustParse("9.9.9")) {
		t.Errorf("unversioned import = %+v", lib)
	}
}

func TestCollectScript(t *testing.T) {
	inv := collect(t, "let x = 1;")
	if inv.ExportsAll || len(inv.Exports) != 0 || len(inv.Imports) != 0 {
		t.Errorf("a script must have an empty inventory, got %+v", inv)
	}
}

func TestCollectBadConstraint(t *testing.T) {
	root, errs := parser.Parse(`import "lib@not a version";`)
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	inv, errs := Collect(root)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0].Span.Start.Offset != 7 {
		t.Errorf("error should point at the path, got %v", errs[0].Span)
	}
	if len(inv.Imports) != 1 || !inv.Imports[0].Allows(semver.MustParse("0.1.0")) {
		t.Error("the import must be kept as unversioned")
	}
}

func TestRequirements(t *testing.T) {
	inv := collect(t, "import \"b@>=1.1\";\nimport \"a\";\nimport \"b@<2\" (x);")

	reqs := inv.Requirements()
	want := []Requirement{
		{Name: "a", Constraint: ""},
		{Name: "b", Constraint: ">=1.1, <2"},
	}
	if !reflect.DeepEqual(reqs, want) {
		t.Errorf("requirements = %+v, want %+v", reqs, want)
	}
}
