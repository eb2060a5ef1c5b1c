package imports

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	index := Index{
		"std/io": {"1.0.0", "1.2.0", "1.4.1", "2.0.0"},
		"lib":    {"0.1.0", "0.2.0"},
	}
	reqs := []Requirement{
		{Name: "lib"},
		{Name: "std/io", Constraint: "^1.2"},
	}

	res, errs := Resolve(index, reqs, ResolveOptions{})
	if len(errs) != 0 {
		t.Fatalf("resolve failed: %v", errs)
	}
	if res["std/io"] != "1.4.1" {
		t.Errorf("expected std/io=1.4.1, got %s", res["std/io"])
	}
	if res["lib"] != "0.2.0" {
		t.Errorf("expected lib=0.2.0, got %s", res["lib"])
	}

	res, errs = Resolve(index, reqs, ResolveOptions{PreferLower: true})
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	if res["std/io"] != "1.2.0" || res["lib"] != "0.1.0" {
		t.Errorf("lowest resolution = %v", res)
	}
}

func TestResolveConflicts(t *testing.T) {
	index := Index{
		"a": {"2.0.0"},
		"b": {"not-a-version"},
	}
	reqs := []Requirement{
		{Name: "a", Constraint: "~1.0"},
		{Name: "b"},
		{Name: "c"},
	}

	res, errs := Resolve(index, reqs, ResolveOptions{})
	if len(errs) != 3 {
		t.Fatalf("expected 3 conflicts, got %v", errs)
	}
	if len(res) != 0 {
		t.Errorf("nothing should resolve, got %v", res)
	}
	var conflict *ConflictError
	if !errors.As(errs[0], &conflict) || conflict.Package != "a" {
		t.Errorf("first error = %v", errs[0])
	}
}
