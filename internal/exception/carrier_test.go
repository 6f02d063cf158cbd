package exception

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type payload string

func (p payload) TypeName() string { return string(p) }

func TestFormatTraceEntry(t *testing.T) {
	tests := []struct {
		name   string
		fn     string
		params []string
		file   string
		line   int
		want   string
	}{
		{"full", "calc", []string{"Integer", "Integer"}, "/a/f.quill", 117, "calc(Integer,Integer)  (/a/f.quill, 117)"},
		{"no params", "calc", nil, "/a/f.quill", 3, "calc  (/a/f.quill, 3)"},
		{"empty params", "calc", []string{}, "f", 3, "calc()  (f, 3)"},
		{"no file", "calc", []string{"Integer"}, "", 3, "calc(Integer)"},
		{"unset line", "calc", nil, "f", -1, "calc  (f)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTraceEntry(tt.fn, tt.params, tt.file, tt.line); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTraceGrowth(t *testing.T) {
	c := New(payload("System.Exception"), "boom")
	if c.Capacity() != 0 {
		t.Fatalf("fresh carrier should have no buffer, got %d", c.Capacity())
	}
	var want []string
	for i := 0; i < 11; i++ {
		c.SetLocation("f", i+1)
		c.AddTrace(fmt.Sprintf("fn%d", i), nil, "", -1)
		want = append(want, fmt.Sprintf("fn%d", i))
		if i == 9 && c.Capacity() != 10 {
			t.Errorf("capacity after 10 entries = %d, want 10", c.Capacity())
		}
	}
	if c.Depth() != 11 {
		t.Errorf("depth = %d, want 11", c.Depth())
	}
	if c.Capacity() != 20 {
		t.Errorf("capacity = %d, want 20", c.Capacity())
	}
	if diff := cmp.Diff(want, c.Trace()); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if _, line := c.Location(); line != -1 {
		t.Errorf("line should be unset after a trace entry, got %d", line)
	}
}

func TestLocationFirstSetWins(t *testing.T) {
	c := New(payload("System.Exception"), "boom")
	c.SetLocationIfUnset("inner.quill", 4)
	c.SetLocationIfUnset("outer.quill", 9)
	if file, line := c.Location(); file != "inner.quill" || line != 4 {
		t.Errorf("location = %s:%d, want inner.quill:4", file, line)
	}
	c.AddTrace("f", nil, "inner.quill", 4)
	c.SetLocationIfUnset("outer.quill", 9)
	if file, line := c.Location(); file != "outer.quill" || line != 9 {
		t.Errorf("location = %s:%d, want outer.quill:9", file, line)
	}
}

func TestRender(t *testing.T) {
	c := New(payload("System.DivByZeroException"), "Cannot divide by zero.")
	c.AddTrace("funB", []string{"Integer"}, "f", 8)
	c.AddTrace("funA", []string{"Integer"}, "f", 4)
	c.SetLocation("f", 15)

	want := "System.DivByZeroException: Cannot divide by zero.\n" +
		"  at funB(Integer)  (f, 8)\n" +
		"  at funA(Integer)  (f, 4)\n" +
		"  from (f, 15)"
	if got := c.Render(0, false); got != want {
		t.Errorf("Render mismatch:\n%s\nwant:\n%s", got, want)
	}
	if got := c.Render(0, true); got != want+"\n" {
		t.Errorf("trailing newline missing: %q", got)
	}
	if got := c.Render(2, false); !strings.HasPrefix(got, "  System.DivByZeroException") || !strings.Contains(got, "\n    at funB") {
		t.Errorf("indent not applied: %q", got)
	}

	c.SetRaw(true)
	if got := c.Render(0, false); strings.Contains(got, "from") {
		t.Errorf("raw render should have no footer: %q", got)
	}
}

func TestRenderCause(t *testing.T) {
	inner := New(payload("System.Exception"), "inner")
	inner.SetLocation("g", 2)
	outer := New(payload("System.IOException"), "outer")
	outer.SetLocation("f", 1)
	outer.SetCause(New(payload("System.Exception"), "replaced"))
	outer.SetCause(inner)

	want := "System.IOException: outer\n" +
		"  from (f, 1)\n" +
		"Caused by:\n" +
		"System.Exception: inner\n" +
		"  from (g, 2)"
	if got := outer.Render(0, false); got != want {
		t.Errorf("Render mismatch:\n%s\nwant:\n%s", got, want)
	}
	if !errors.Is(outer, inner) {
		t.Errorf("errors.Is should follow the cause chain")
	}
}

func TestRenderCauseChainCap(t *testing.T) {
	// Six carriers: the outermost plus five causes.
	chain := make([]*Carrier, 6)
	for i := range chain {
		chain[i] = New(payload("System.Exception"), fmt.Sprintf("level %d", i))
	}
	for i := 0; i < 5; i++ {
		chain[i].SetCause(chain[i+1])
	}
	out := chain[0].Render(0, false)
	if n := strings.Count(out, "Caused by:"); n != 4 {
		t.Errorf("Caused by count = %d, want 4\n%s", n, out)
	}
	if n := strings.Count(out, "More causes ..."); n != 1 {
		t.Errorf("elision count = %d, want 1\n%s", n, out)
	}
	if strings.Contains(out, "level 5") {
		t.Errorf("sixth carrier should be elided\n%s", out)
	}
	// The marker gets a line of its own after the last footer.
	if !strings.HasSuffix(out, ")\nMore causes ...\n") {
		t.Errorf("elision marker should follow the footer on its own line\n%q", out)
	}
}

func TestIsFatal(t *testing.T) {
	if !New(payload("System.StackOverflowException"), "").IsFatal() {
		t.Errorf("stack overflow must be fatal")
	}
	if New(payload("System.Exception"), "").IsFatal() {
		t.Errorf("plain exception must not be fatal")
	}
	if got := New(nil, "x").TypeName(); got != "System.Exception" {
		t.Errorf("nil payload type = %q", got)
	}
}
