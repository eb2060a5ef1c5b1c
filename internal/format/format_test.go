package format

import (
	"testing"

	"github.com/yap-lang/yap/internal/ast"
	"github.com/yap-lang/yap/internal/parser"
)

func TestFormatText_TrailingSpaceAndNewline_LF(t *testing.T) {
	in := "a  \n b\t\t  \n"
	got := FormatText(in, Options{PreserveNewlineStyle: false})
	want := "a\n b\n"
	if got != want {
		t.Fatalf("LF trim failed: got=%q want=%q", got, want)
	}
}

func TestFormatText_EnsureTrailingNewline_WhenMissing(t *testing.T) {
	in := "no-newline"
	got := FormatText(in, Options{PreserveNewlineStyle: false})
	want := "no-newline\n"
	if got != want {
		t.Fatalf("ensure trailing newline failed: got=%q want=%q", got, want)
	}
}

func TestFormatText_PreserveCRLF_OnFiles(t *testing.T) {
	in := "x  \r\ny\t \r\n"
	got := FormatText(in, Options{PreserveNewlineStyle: true})
	want := "x\r\ny\r\n"
	if got != want {
		t.Fatalf("CRLF preservation failed: got=%q want=%q", got, want)
	}
}

func TestFormatText_EmptyInput_ProducesSingleNewline(t *testing.T) {
	got := FormatText("", Options{PreserveNewlineStyle: false})
	want := "\n"
	if got != want {
		t.Fatalf("empty input formatting failed: got=%q want=%q", got, want)
	}
}

func TestNodeExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a+b*c", "a + b * c"},
		{"(a + b) * c", "(a + b) * c"},
		{"a - (b - c)", "a - (b - c)"},
		{"f (g x) @T", "f (g x) @T"},
		{"-f x", "-f x"},
		{"f :self", "f :self"},
		{"r.a.b", "r.a.b"},
		{"x : A -> B", "x : A -> B"},
		{"reset a + b", "reset a + b"},
		{`\x -> (x + 1)`, `\x -> (x + 1)`},
		{`\(x, y: Nat) => y`, `\(x, y : Nat) => y`},
		{"(x: Nat) -> Vec x", "(x : Nat) -> Vec x"},
		{"((x: Nat)) -> T", "((x : Nat)) -> T"},
		{"(x: Nat)", "x : Nat"},
		{"#some x + 1", "#some x + 1"},
		{"| #a Nat | #b", "| #a Nat | #b"},
		{"μ t -> | #nil | #cons t", "μ t -> | #nil | #cons t"},
		{"<1> T [| f |]", "<1> T [| f |]"},
		{"match x | #some y -> y | #none -> 0", "match x | #some y -> y | #none -> 0"},
		{"{a: 1, b: 2 | r}", "{a: 1, b: 2 | r}"},
		{"{ r | a = 1 }", "{ r | a = 1 }"},
		{"{|a = 1}", "{ | a = 1 }"},
		{"{[String]: Nat}", "{[String]: Nat}"},
		{"{ x := 1; return x }", "{ x := 1; return x }"},
		{"{ f x }", "{f x}"},
		{"{ f x; }", "{ f x; }"},
		{"[1, 2 | xs]", "[1, 2 | xs]"},
		{"[|xs]", "[ | xs]"},
		{"{|r}", "{ | r }"},
		{"{ ; }", "{ ; }"},
		{"[a: Nat, 0: Bool | r]", "[a: Nat, 0: Bool | r]"},
		{`"a\tb"`, `"a\tb"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := parser.ParseExpr(tt.input)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if got := Node(expr); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func id(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func num(raw string) *ast.NumberLit { return &ast.NumberLit{Raw: raw} }

// Trees the parser never yields from unparenthesised text; the printer has
// to add the parentheses itself.
func TestNodeInsertsParentheses(t *testing.T) {
	tests := []struct {
		name     string
		node     ast.Expr
		expected string
	}{
		{
			"unary argument",
			&ast.Application{Function: id("f"), Argument: &ast.Unary{Operator: "-", Operand: id("x")}},
			"f (-x)",
		},
		{
			"unary payload",
			&ast.Tagged{Tag: id("a"), Payload: &ast.Unary{Operator: "-", Operand: num("1")}},
			"#a (-1)",
		},
		{
			"right nested subtraction",
			&ast.Operation{Operator: "-", Left: id("a"), Right: &ast.Operation{Operator: "-", Left: id("b"), Right: id("c")}},
			"a - (b - c)",
		},
		{
			"annotated name as arrow domain",
			&ast.Arrow{Domain: &ast.Annotation{Term: id("x"), Type: id("A")}, Codomain: id("B")},
			"((x : A)) -> B",
		},
		{
			"lambda applied",
			&ast.Application{
				Function: &ast.Lambda{Params: []*ast.Param{{Name: id("y")}}, Body: id("y")},
				Argument: id("x"),
			},
			`(\y -> y) x`,
		},
		{
			"variant inside a non-last alternative",
			&ast.Variant{Alternatives: []*ast.Alternative{
				{Tag: id("a"), Payload: &ast.Arrow{
					Domain:   id("A"),
					Codomain: &ast.Variant{Alternatives: []*ast.Alternative{{Tag: id("b")}}},
				}},
				{Tag: id("c")},
			}},
			"| #a (A -> | #b) | #c",
		},
		{
			"match inside a non-last arm",
			&ast.Match{
				Subject: id("x"),
				Arms: []*ast.Arm{
					{
						Pattern: &ast.PatternVariable{Name: id("p")},
						Body: &ast.Match{Subject: id("y"), Arms: []*ast.Arm{
							{Pattern: &ast.PatternWildcard{}, Body: num("1")},
						}},
					},
					{Pattern: &ast.PatternWildcard{}, Body: num("2")},
				},
			},
			"match x | p -> (match y | _ -> 1) | _ -> 2",
		},
		{
			"variant as first list element",
			&ast.List{Elements: []ast.Expr{&ast.Variant{Alternatives: []*ast.Alternative{{Tag: id("a")}}}}},
			"[(| #a)]",
		},
		{
			"refined type under a quantity",
			&ast.Modal{
				Quantity: ast.QuantityOne,
				Type:     &ast.Modal{Type: id("T"), Usage: id("f")},
			},
			"<1> (T [| f |])",
		},
		{
			"unary plus twice",
			&ast.Unary{Operator: "+", Operand: &ast.Unary{Operator: "+", Operand: id("x")}},
			"+(+x)",
		},
		{
			"tag without payload applied",
			&ast.Application{Function: &ast.Tagged{Tag: id("none")}, Argument: id("x")},
			"(#none) x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Node(tt.node)
			if got != tt.expected {
				t.Fatalf("got %q, want %q", got, tt.expected)
			}
			back, err := parser.ParseExpr(got)
			if err != nil {
				t.Fatalf("reparse of %q failed: %v", got, err)
			}
			if ast.Dump(back) != ast.Dump(tt.node) {
				t.Errorf("reparse changed the tree:\n got: %s\nwant: %s", ast.Dump(back), ast.Dump(tt.node))
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		`let id : (x: Type) -> Type = \x -> x;`,
		"x := 1; using m as n; foreign puts : String -> Unit; f x",
		"let r = { y := f x; return y + 1; };",
		"export *;\nimport \"std/io\" (print);\nimport \"lib\";\nprint 1;",
		"let t : | #a Nat | #b = #a 1;",
		"let m = match n | 0 -> :zero | -1 -> :neg | _ -> :other;",
		"let p = match xs | [] -> 0 | [x | rest] -> 1 | [a: y, 0: z | r'] -> 2;",
		"let q = match s | {a: x | r} -> x | {x, _} -> x | #pair {a, b} -> b;",
		"let v = <0> T + 1; let w = f @T x.y; let z = {r | a = [1, 2], b = {}};",
		"let k = {[String]: <*> Nat [| f |]};",
		`let l = \(x, (y: Nat)) => reset shift k;`,
		"let n = -a * b - -c; let u = {x, y | r}; let e = [ | xs];",
		"let s = a |> f <| b == c && d || e ++ g <> h;",
		"let mu = μ list -> | #nil | #cons {a, list};",
		"let b = { ; }; let o = { | r }; let g = [|xs];",
		"let h = match s | { | r } -> 0 | #cons [|r] -> 1;",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			root, errs := parser.Parse(src)
			if len(errs) != 0 {
				t.Fatalf("parse failed: %v", errs)
			}
			printed := Node(root)

			again, errs := parser.Parse(printed)
			if len(errs) != 0 {
				t.Fatalf("reparse of %q failed: %v", printed, errs)
			}
			if ast.Dump(again) != ast.Dump(root) {
				t.Errorf("tree changed:\n got: %s\nwant: %s", ast.Dump(again), ast.Dump(root))
			}
			if twice := Node(again); twice != printed {
				t.Errorf("printing is not idempotent:\nfirst:  %q\nsecond: %q", printed, twice)
			}
		})
	}
}

func TestSourceKeepsComments(t *testing.T) {
	in := "// header\nexport (a, b);\nimport \"lib\"   (f);\n\nlet a=1;   // one\nlet b = f a;\n\n/* tail */\n"
	want := "// header\nexport (a, b);\nimport \"lib\" (f);\n\nlet a = 1; // one\nlet b = f a;\n\n/* tail */\n"

	got, err := Source("a.yap", []byte(in), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	again, err := Source("a.yap", got, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(got) {
		t.Errorf("formatting is not idempotent:\n%s", again)
	}
}

func TestSourceHoistsInnerComments(t *testing.T) {
	in := "let a =\n  /* inner */\n  1;\nlet b = 2;\n"
	want := "let a = 1;\n/* inner */\nlet b = 2;\n"

	got, err := Source("", []byte(in), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSourcePreservesCRLF(t *testing.T) {
	got, err := Source("", []byte("let a=1;\r\nlet b=2;\r\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if want := "let a = 1;\r\nlet b = 2;\r\n"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, err = Source("", []byte("let a=1;\r\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if want := "let a = 1;\n"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSourceRejectsSyntaxErrors(t *testing.T) {
	if _, err := Source("bad.yap", []byte("let a = ;"), DefaultOptions()); err == nil {
		t.Fatal("expected an error for invalid source")
	}
}

func TestDiff(t *testing.T) {
	got, err := Diff("a.yap", []byte("let a=1;\nlet b = 2;\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := "--- a.yap\t(original)\n" +
		"+++ a.yap\t(formatted)\n" +
		"@@ -1,2 +1,2 @@\n" +
		"-let a=1;\n" +
		"+let a = 1;\n" +
		" let b = 2;\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	got, err = Diff("a.yap", []byte("let a = 1;\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("canonical source produced a diff:\n%s", got)
	}
}

func TestDiffHunks(t *testing.T) {
	var original, modified string
	for i := 0; i < 20; i++ {
		line := string(rune('a'+i)) + "\n"
		original += line
		if i == 2 || i == 15 {
			modified += "X\n"
			continue
		}
		modified += line
	}

	df := NewDiffFormatter(DiffOptions{Context: 1})
	result := df.GenerateDiff(original, modified)
	if len(result.Hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(result.Hunks))
	}
	if result.LinesAdded != 2 || result.LinesRemoved != 2 {
		t.Errorf("stats = +%d -%d", result.LinesAdded, result.LinesRemoved)
	}
	if h := result.Hunks[0].Header(); h != "@@ -2,3 +2,3 @@" {
		t.Errorf("first hunk header = %s", h)
	}
	if h := result.Hunks[1].Header(); h != "@@ -15,3 +15,3 @@" {
		t.Errorf("second hunk header = %s", h)
	}
}
