package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/pkg/engine"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	script := writeFile(t, "args.quill", `println(arguments.length, arguments[0]);`)
	failing := writeFile(t, "fail.quill", `throw new Exception("nope");`)
	bad := writeFile(t, "bad.quill", "int x = ;")
	cfgFile := writeFile(t, "quill.yaml", "interactive: true\n")
	badCfg := writeFile(t, "broken.yaml", "no_such_key: 1\n")

	tests := []struct {
		name    string
		args    []string
		stdin   string
		status  int
		stdout  string
		stderrs string
	}{
		{name: "file", args: []string{script, "x", "y"}, status: engine.ExitOK, stdout: "2 x\n"},
		{name: "snippet", args: []string{"-e", `println(1 + 2);`}, status: engine.ExitOK, stdout: "3\n"},
		{name: "snippet args", args: []string{"-e", `println(arguments[0]);`, "z"}, status: engine.ExitOK, stdout: "z\n"},
		{name: "stdin", stdin: `println("piped");`, status: engine.ExitOK, stdout: "piped\n"},
		{name: "echo flag", args: []string{"-i", "-e", "2 * 21;"}, status: engine.ExitOK, stdout: "42\n"},
		{name: "echo config", args: []string{"-config", cfgFile, "-e", "5;"}, status: engine.ExitOK, stdout: "5\n"},
		{name: "fault", args: []string{failing}, status: engine.ExitFault, stderrs: "System.Exception: nope"},
		{name: "missing file", args: []string{"/no/such.quill"}, status: engine.ExitFault, stderrs: config.IOExceptionName},
		{name: "check ok", args: []string{"-check", script}, status: engine.ExitOK},
		{name: "check bad", args: []string{"-check", bad}, status: engine.ExitFault, stderrs: config.BadSyntaxExceptionName},
		{name: "check without file", args: []string{"-check"}, status: exitUsage, stderrs: "-check needs a script file"},
		{name: "bad config", args: []string{"-config", badCfg, script}, status: exitUsage, stderrs: "broken.yaml"},
		{name: "unknown flag", args: []string{"-nope"}, status: exitUsage, stderrs: "Usage: quill"},
		{name: "help", args: []string{"-h"}, status: engine.ExitOK, stderrs: "Usage: quill"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			status := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			if status != tt.status {
				t.Errorf("status = %d, want %d (stderr %q)", status, tt.status, stderr.String())
			}
			if stdout.String() != tt.stdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.stdout)
			}
			if !strings.Contains(stderr.String(), tt.stderrs) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.stderrs)
			}
		})
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"int x = 1;", false},
		{"int f() {", true},
		{"int f() {\n return 1;\n}", false},
		{"println(1,", true},
		{"int[] a = [1, 2", true},
		{`println("{");`, false},
		{"/* { */ int y = 2;", false},
		{"}", false},
	}
	for _, tt := range tests {
		if got := incomplete(tt.code); got != tt.want {
			t.Errorf("incomplete(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

// fakeTerminal feeds scripted lines to the REPL loop and records prompts.
type fakeTerminal struct {
	bytes.Buffer
	lines   []string
	prompts []string
}

func (f *fakeTerminal) ReadLine() (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func (f *fakeTerminal) SetPrompt(p string) { f.prompts = append(f.prompts, p) }

func TestLoop(t *testing.T) {
	ft := &fakeTerminal{lines: []string{
		"int x = 20;",
		"",
		"int twice(int n) {",
		"  return n * 2;",
		"}",
		"twice(x) + 2;",
		"nope;",
		"x;",
	}}
	e, err := engine.New(engine.Options{Out: ft, Err: ft})
	if err != nil {
		t.Fatal(err)
	}
	if status := loop(e, ft); status != engine.ExitOK {
		t.Errorf("status = %d, want the last step's status", status)
	}
	out := ft.String()
	if !strings.HasPrefix(out, "42\n") || !strings.HasSuffix(out, "20\n") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, config.UndefinedSymbolExceptionName) {
		t.Errorf("fault not reported: %q", out)
	}
	want := []string{prompt, morePrompt, morePrompt, prompt, prompt, prompt, prompt}
	if diff := cmp.Diff(want, ft.prompts); diff != "" {
		t.Errorf("prompts (-want +got):\n%s", diff)
	}
}

func TestLoopExit(t *testing.T) {
	ft := &fakeTerminal{lines: []string{"nope;", "exit", `println("after");`}}
	e, err := engine.New(engine.Options{Out: ft, Err: ft})
	if err != nil {
		t.Fatal(err)
	}
	if status := loop(e, ft); status != engine.ExitFault {
		t.Errorf("status = %d, want the failed step's status", status)
	}
	if strings.Contains(ft.String(), "after") {
		t.Errorf("loop kept reading after exit: %q", ft.String())
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	lines, _, closeHistory := openHistory(path, discardLogger())
	lines.Add("int x = 1;")
	lines.Add("x;")
	closeHistory()

	lines, store, closeHistory := openHistory(path, discardLogger())
	defer closeHistory()
	if store == nil {
		t.Fatal("history store not opened")
	}
	if lines.Len() != 2 || lines.At(0) != "x;" {
		t.Errorf("history not reloaded: %d lines", lines.Len())
	}
}

func TestOpenHistoryInMemory(t *testing.T) {
	lines, store, closeHistory := openHistory("", discardLogger())
	defer closeHistory()
	if store != nil {
		t.Error("no store expected without a history file")
	}
	lines.Add("a;")
	if lines.Len() != 1 {
		t.Errorf("Len = %d", lines.Len())
	}
}

func TestPrefixRecall(t *testing.T) {
	lines, store, closeHistory := openHistory(filepath.Join(t.TempDir(), "history.db"), discardLogger())
	defer closeHistory()
	for _, l := range []string{"println(1);", "x = 2;", "println(2);"} {
		lines.Add(l)
	}
	r := &prefixRecall{store: store, logger: discardLogger()}

	if _, _, ok := r.complete("print", 5, 'a'); ok {
		t.Fatal("only Tab recalls")
	}
	var got []string
	line := "print"
	for {
		next, pos, ok := r.complete(line, len(line), '\t')
		if !ok {
			break
		}
		if pos != len(next) {
			t.Errorf("cursor at %d, want end of %q", pos, next)
		}
		got = append(got, next)
		line = next
	}
	if diff := cmp.Diff([]string{"println(2);", "println(1);"}, got); diff != "" {
		t.Errorf("recalled (-want +got):\n%s", diff)
	}

	// Editing the line starts a new search.
	if next, _, ok := r.complete("x", 1, '\t'); !ok || next != "x = 2;" {
		t.Errorf("new search = %q, %v", next, ok)
	}
}
