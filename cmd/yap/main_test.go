package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yap-lang/yap/internal/ast"
	"github.com/yap-lang/yap/internal/format"
	"github.com/yap-lang/yap/internal/parser"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// yap runs the command with a config file from dir, empty when config is "".
func yap(t *testing.T, dir, config, stdin string, args ...string) result {
	t.Helper()
	configPath := filepath.Join(dir, "yap-test.json")
	if config != "" {
		writeTestFile(t, configPath, config)
	}
	var stdout, stderr bytes.Buffer
	argv := append([]string{"-config", configPath, "-color", "never"}, args...)
	code := run(context.Background(), argv, strings.NewReader(stdin), &stdout, &stderr)
	return result{code, stdout.String(), stderr.String()}
}

func writeTestFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUsage(t *testing.T) {
	dir := t.TempDir()
	if r := yap(t, dir, "", ""); r.code != 2 || !strings.Contains(r.stderr, "COMMANDS:") {
		t.Errorf("no command: code %d, stderr %q", r.code, r.stderr)
	}
	if r := yap(t, dir, "", "", "frobnicate"); r.code != 2 || !strings.Contains(r.stderr, `unknown command "frobnicate"`) {
		t.Errorf("unknown command: code %d, stderr %q", r.code, r.stderr)
	}
	if r := yap(t, dir, "", "", "help", "fmt"); r.code != 0 || !strings.Contains(r.stdout, "yap fmt -w src") {
		t.Errorf("help fmt: code %d, stdout %q", r.code, r.stdout)
	}
}

func TestVersion(t *testing.T) {
	r := yap(t, t.TempDir(), "", "", "version", "-json")
	if r.code != 0 {
		t.Fatalf("exit %d: %s", r.code, r.stderr)
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(r.stdout), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", r.stdout, err)
	}
	if out["tool"] != "yap" {
		t.Errorf("tool = %v, want yap", out["tool"])
	}
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	src := "let id = \\x -> x;\nid 1;\n"
	path := writeTestFile(t, filepath.Join(dir, "main.yap"), src)

	r := yap(t, dir, "", "", "parse", path)
	if r.code != 0 {
		t.Fatalf("exit %d: %s", r.code, r.stderr)
	}
	root, _ := parser.Parse(src)
	if want := ast.Dump(root) + "\n"; r.stdout != want {
		t.Errorf("got %q, want %q", r.stdout, want)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeTestFile(t, filepath.Join(dir, "good.yap"), "let a = 1;\n")
	bad := writeTestFile(t, filepath.Join(dir, "bad.yap"), "let a = 1;\nlet = 2;\nlet c = 3;\n")

	if r := yap(t, dir, "", "", "check", good); r.code != 0 || r.stderr != "" {
		t.Errorf("good file: code %d, stderr %q", r.code, r.stderr)
	}

	r := yap(t, dir, "", "", "check", dir)
	if r.code != 1 {
		t.Fatalf("exit %d, want 1", r.code)
	}
	if !strings.Contains(r.stderr, "bad.yap:2:") || !strings.Contains(r.stderr, "error[E0002]") {
		t.Errorf("missing diagnostic for %s:\n%s", bad, r.stderr)
	}
	if strings.Contains(r.stderr, "good.yap") {
		t.Errorf("good file reported:\n%s", r.stderr)
	}
}

func TestFmtCommand(t *testing.T) {
	dir := t.TempDir()
	src := "let   a=1 ;\nlet b = (a);\n"
	path := writeTestFile(t, filepath.Join(dir, "main.yap"), src)
	want, err := format.Source(path, []byte(src), format.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if r := yap(t, dir, "", "", "fmt", path); r.code != 0 || r.stdout != string(want) {
		t.Errorf("fmt: code %d, got %q, want %q", r.code, r.stdout, want)
	}
	if r := yap(t, dir, "", "", "fmt", "-l", dir); r.stdout != path+"\n" {
		t.Errorf("fmt -l = %q, want %q", r.stdout, path+"\n")
	}
	if r := yap(t, dir, "", "", "fmt", "-d", path); !strings.HasPrefix(r.stdout, "--- "+path+"\t(original)\n") {
		t.Errorf("fmt -d = %q", r.stdout)
	}

	if r := yap(t, dir, "", "", "fmt", "-w", path); r.code != 0 {
		t.Fatalf("fmt -w: exit %d: %s", r.code, r.stderr)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("file after -w = %q, want %q", got, want)
	}
	if r := yap(t, dir, "", "", "fmt", "-l", path); r.stdout != "" {
		t.Errorf("formatted file still listed: %q", r.stdout)
	}
}

func TestFmtRefusesBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	src := "let = ;\n"
	path := writeTestFile(t, filepath.Join(dir, "broken.yap"), src)

	r := yap(t, dir, "", "", "fmt", "-w", path)
	if r.code != 1 {
		t.Errorf("exit %d, want 1", r.code)
	}
	if got, _ := os.ReadFile(path); string(got) != src {
		t.Errorf("broken file was rewritten: %q", got)
	}
}

func TestTokensCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, filepath.Join(dir, "t.yap"), "let x = 1; // one\n")

	r := yap(t, dir, "", "", "tokens", path)
	if r.code != 0 {
		t.Fatalf("exit %d: %s", r.code, r.stderr)
	}
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d tokens:\n%s", len(lines), r.stdout)
	}
	if !strings.Contains(lines[5], `"// one"`) {
		t.Errorf("comment token missing: %q", lines[5])
	}

	bad := writeTestFile(t, filepath.Join(dir, "bad.yap"), "let s = \"open\n")
	if r := yap(t, dir, "", "", "tokens", bad); r.code != 1 || !strings.Contains(r.stderr, "error[E0001]") {
		t.Errorf("lex error: code %d, stderr %q", r.code, r.stderr)
	}
}

func TestImportsCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, filepath.Join(dir, "m.yap"),
		"export (main);\nimport \"std/io@^1.2\" (print);\nimport \"lib\";\nlet main = print 1;\n")
	config := `{"packages": {"std/io": ["1.1.0", "1.2.0", "1.4.1", "2.0.0"], "lib": ["0.1.0"]}}`

	r := yap(t, dir, config, "", "imports", path)
	if r.code != 0 {
		t.Fatalf("exit %d: %s", r.code, r.stderr)
	}
	want := path + ":\n" +
		"  export main\n" +
		"  import std/io ^1.2 (print)\n" +
		"  import lib\n" +
		"  resolved lib 0.1.0\n" +
		"  resolved std/io 1.4.1\n"
	if r.stdout != want {
		t.Errorf("got:\n%s\nwant:\n%s", r.stdout, want)
	}

	r = yap(t, dir, `{"packages": {"std/io": ["2.0.0"]}}`, "", "imports", path)
	if r.code != 1 || !strings.Contains(r.stderr, "cannot resolve std/io") {
		t.Errorf("conflict: code %d, stderr %q", r.code, r.stderr)
	}
}

func TestReplCommand(t *testing.T) {
	stdin := "let x = 1;\n:fmt\n1 +\n2;\nlet = ;\n:quit\n"
	r := yap(t, t.TempDir(), "", stdin, "repl")
	if r.code != 0 {
		t.Fatalf("exit %d: %s", r.code, r.stderr)
	}

	root, _ := parser.Parse("let x = 1;")
	lines := strings.Split(r.stdout, "\n")
	if len(lines) < 2 || lines[0] != ast.Dump(root) || lines[1] != "1 + 2;" {
		t.Errorf("unexpected output:\n%s", r.stdout)
	}
	if !strings.Contains(r.stderr, "<repl>:1:") {
		t.Errorf("missing diagnostic:\n%s", r.stderr)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"1 + 2;", false},
		{"1 +", true},
		{"let f = \\x ->", true},
		{"{ a: 1,", true},
		{"/* open", true},
		{"let = 1;", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, errs := parser.Parse(tt.src)
			if got := incomplete(tt.src, errs); got != tt.want {
				t.Errorf("incomplete(%q) = %v, want %v (%v)", tt.src, got, tt.want, errs)
			}
		})
	}
}
