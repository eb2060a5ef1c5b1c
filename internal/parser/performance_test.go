package parser

import (
	"fmt"
	"strings"
	"testing"
)

func generateModule(n int) string {
	var b strings.Builder
	b.WriteString("export *;\nimport \"std/io\" (print);\n")
	for i := 0; i < n; i++ {
		switch i % 5 {
		case 0:
			fmt.Fprintf(&b, "let f%d : (x: Nat) -> Nat = \\x -> x;\nlet g%d = f%d %d;\n", i, i, i, i)
		case 1:
			fmt.Fprintf(&b, "let r%d = {a: %d, b: [1, 2 | xs]};\n", i, i)
		case 2:
			fmt.Fprintf(&b, "let m%d = match n | 0 -> :zero | {a: x | r} -> x | _ -> :other;\n", i)
		case 3:
			fmt.Fprintf(&b, "let t%d : | #a Nat | #b = #a %d;\n", i, i)
		case 4:
			fmt.Fprintf(&b, "let b%d = { y := f x; return y + 1; };\n", i)
		}
	}
	return b.String()
}

func TestGeneratedModuleParses(t *testing.T) {
	_, errs := Parse(generateModule(50))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func benchmarkParse(b *testing.B, n int) {
	src := generateModule(n)
	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, errs := Parse(src); len(errs) != 0 {
			b.Fatal(errs)
		}
	}
}

func BenchmarkParse_Small(b *testing.B) { benchmarkParse(b, 10) }
func BenchmarkParse_Large(b *testing.B) { benchmarkParse(b, 5000) }

// Error recovery must stay linear when every statement is broken.
func BenchmarkParse_AllErrors(b *testing.B) {
	src := strings.Repeat("let = ;\n", 2000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Parse(src)
	}
}
