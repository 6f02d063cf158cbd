package engine

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/quill/internal/config"
)

func newEngine(t *testing.T, cfg *config.Config) (*Engine, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	e, err := New(Options{
		Config: cfg,
		Out:    out,
		Err:    io.Discard,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	return e, out
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.quill")
	code := "int sum = 0;\nfor (int i = 0; i < arguments.length; i++) { sum += arguments[i].length; }\nprintln(sum);"
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	e, out := newEngine(t, nil)
	res := e.RunFile(path, []string{"ab", "cde"})
	if !res.OK() {
		t.Fatalf("run failed:\n%s", res.Report())
	}
	if out.String() != "5\n" {
		t.Errorf("output = %q", out.String())
	}
	if res.ExitStatus() != ExitOK || res.Report() != "" {
		t.Errorf("exit = %d, report = %q", res.ExitStatus(), res.Report())
	}
}

func TestRunFileMissing(t *testing.T) {
	e, _ := newEngine(t, nil)
	res := e.RunFile(filepath.Join(t.TempDir(), "nope.quill"), nil)
	car, ok := res.Fault()
	if !ok || car.TypeName() != config.IOExceptionName {
		t.Fatalf("err = %v, want %s", res.Err, config.IOExceptionName)
	}
	if res.ExitStatus() != ExitFault {
		t.Errorf("exit = %d", res.ExitStatus())
	}
}

func TestRunSourceReport(t *testing.T) {
	e, _ := newEngine(t, nil)
	res := e.RunSource("", "void f() {\n\tthrow new Exception(\"boom\");\n}\nf();", nil)
	want := "System.Exception: boom\n  at f()  (<unknown>, 2)\n  from (<unknown>, 4)\n"
	if diff := cmp.Diff(want, res.Report()); diff != "" {
		t.Errorf("report (-want +got):\n%s", diff)
	}
	if res.ExitStatus() != ExitFault || res.Internal() {
		t.Errorf("exit = %d", res.ExitStatus())
	}
}

func TestRunSourceSyntax(t *testing.T) {
	e, _ := newEngine(t, nil)
	res := e.RunSource("", "int x = 1;\nint y = ;", nil)
	car, ok := res.Fault()
	if !ok || car.TypeName() != config.BadSyntaxExceptionName {
		t.Fatalf("err = %v", res.Err)
	}
	if !strings.HasSuffix(res.Report(), "from (<unknown>, 2)\n") {
		t.Errorf("report = %q", res.Report())
	}
}

func TestInteractiveConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Interactive = true
	e, out := newEngine(t, cfg)
	if res := e.RunSource("", "6 * 7;", nil); !res.OK() {
		t.Fatal(res.Report())
	}
	if out.String() != "42\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestEvalSession(t *testing.T) {
	e, out := newEngine(t, nil)
	steps := []struct {
		code  string
		fault string
	}{
		{"int x = 40;", ""},
		{"class Acc { int total; void add(int n) { total += n; } }", ""},
		{"Acc a = new Acc();", ""},
		{"a.add(x); a.add(2);", ""},
		{"a.total;", ""},
		{"missing;", config.UndefinedSymbolExceptionName},
		{"x + 2;", ""},
		{"", ""},
	}
	for _, s := range steps {
		res := e.Eval(s.code)
		if s.fault == "" {
			if !res.OK() {
				t.Fatalf("%q: %s", s.code, res.Report())
			}
			continue
		}
		if car, ok := res.Fault(); !ok || car.TypeName() != s.fault {
			t.Fatalf("%q: err = %v, want %s", s.code, res.Err, s.fault)
		}
	}
	if out.String() != "42\n42\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestBindAndCall(t *testing.T) {
	e, out := newEngine(t, nil)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.Bind("limit", 3))
	must(e.Bind("names", []string{"ann", "bo"}))
	must(e.Bind("join", func(parts []string, sep string) string { return strings.Join(parts, sep) }))
	must(e.Bind("half", func(n float64) float64 { return n / 2 }))
	must(e.Bind("check", func(n int) (int, error) {
		if n < 0 {
			return 0, errors.New("negative")
		}
		return n, nil
	}))

	res := e.RunSource("", `println(limit, names.length, join(names, "+"), half(3));
int twice(int n) { return n * 2; }
string greet(string who) { return "hi " + who; }
int[] firsts(int n) { int[] a = new int[n]; for (int i = 0; i < n; i++) a[i] = i; return a; }
try { check(-1); } catch (Exception ex) { println("host:", ex.getMessage()); }`, nil)
	if !res.OK() {
		t.Fatal(res.Report())
	}
	if got, want := out.String(), "3 2 ann+bo 1.5\nhost: negative\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	got, err := e.Call("twice", 21)
	if err != nil || got != int64(42) {
		t.Errorf("twice = %v, %v", got, err)
	}
	got, err = e.Call("greet", "you")
	if err != nil || got != "hi you" {
		t.Errorf("greet = %v, %v", got, err)
	}
	got, err = e.Call("firsts", 3)
	if diff := cmp.Diff([]interface{}{int64(0), int64(1), int64(2)}, got); err != nil || diff != "" {
		t.Errorf("firsts: %v %s", err, diff)
	}
	if _, err := e.Call("nope"); err == nil {
		t.Error("calling a missing function must fail")
	}
	if _, err := e.Call("twice", "x"); err == nil {
		t.Error("a mistyped argument must fail")
	}
	if v, err := e.Get("limit"); err != nil || v != int64(3) {
		t.Errorf("Get(limit) = %v, %v", v, err)
	}
}

func TestBindRejectsUnsupported(t *testing.T) {
	e, _ := newEngine(t, nil)
	if err := e.Bind("ch", make(chan int)); err == nil {
		t.Error("channels cannot be bound")
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxCallDepth = 0
	if _, err := New(Options{Config: cfg, Err: io.Discard}); err == nil {
		t.Error("an invalid config must be rejected")
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.quill")
	bad := filepath.Join(dir, "bad.quill")
	if err := os.WriteFile(good, []byte(`println("never printed");`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("int x = ;"), 0o644); err != nil {
		t.Fatal(err)
	}
	e, out := newEngine(t, nil)
	if res := e.Check(good); !res.OK() {
		t.Fatal(res.Report())
	}
	if out.Len() != 0 {
		t.Errorf("check ran the script: %q", out.String())
	}
	car, ok := e.Check(bad).Fault()
	if !ok || car.TypeName() != config.BadSyntaxExceptionName {
		t.Errorf("bad script: fault = %v", car)
	}
}
