package parser

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/token"
)

func TestLazyAstInfoParsesOnce(t *testing.T) {
	var calls int32
	info := NewLazyAstInfo("f.quill", func() (*ast.Program, *diagnostics.DiagnosticError) {
		atomic.AddInt32(&calls, 1)
		return &ast.Program{}, nil
	})
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("trigger ran before the tree was read")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info.Tree()
			info.Fault()
		}()
	}
	wg.Wait()
	first := info.Tree()
	if second := info.Tree(); first != second {
		t.Errorf("Tree returned different programs")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("trigger ran %d times, want 1", n)
	}
	if first.File != "f.quill" {
		t.Errorf("tree file = %q", first.File)
	}
}

func TestAstInfoTreeXorFault(t *testing.T) {
	fault := diagnostics.NewError(diagnostics.ErrP001, token.Token{Line: 3}, "boom")
	tests := []struct {
		name      string
		tree      *ast.Program
		fault     *diagnostics.DiagnosticError
		wantTree  bool
		wantFault bool
		wantEmpty bool
	}{
		{"tree only", &ast.Program{}, nil, true, false, false},
		{"fault only", nil, fault, false, true, false},
		{"both prefers fault", &ast.Program{}, fault, false, true, false},
		{"neither is empty tree", nil, nil, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewAstInfo("x.quill", tt.tree, tt.fault)
			if (info.Tree() != nil) != tt.wantTree {
				t.Errorf("tree presence = %v", info.Tree() != nil)
			}
			if (info.Fault() != nil) != tt.wantFault {
				t.Errorf("fault presence = %v", info.Fault() != nil)
			}
			if tt.wantEmpty && !info.Tree().Empty {
				t.Errorf("expected empty marker")
			}
			if tt.wantFault {
				if _, err := info.Result(); err == nil {
					t.Errorf("Result should return the fault")
				}
			}
		})
	}
}

func TestSourceParseIsMemoized(t *testing.T) {
	src := NewMemory("int x = 1;")
	a, err := src.Parse(false, false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := src.Parse(true, true)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("Parse returned different infos")
	}
	c, err := src.Scan(true)
	if err != nil || c != a {
		t.Errorf("Scan should share the memoized info")
	}
	if a.Source() != src {
		t.Errorf("info does not point back to its source")
	}
}

func TestScanNeverThrowsUnlessAsked(t *testing.T) {
	src := NewMemory("int x = #;")
	info, err := src.Scan(false)
	if err != nil {
		t.Fatalf("Scan(false) returned %v", err)
	}
	if info.Fault() == nil || info.Fault().Code != diagnostics.ErrL001 {
		t.Errorf("info should carry the lexical fault, got %v", info.Fault())
	}
	if _, err := src.Scan(true); err == nil {
		t.Errorf("Scan(true) should return the lexical fault")
	}
}

func firstToken(t *testing.T, src *Source, typ token.TokenType, nth int) token.Token {
	t.Helper()
	seen := 0
	for _, tok := range src.Tokens() {
		if tok.Type == typ && tok.Channel == token.Default {
			if seen == nth {
				return tok
			}
			seen++
		}
	}
	t.Fatalf("token %s #%d not found", typ, nth)
	return token.Token{}
}

func TestDocBefore(t *testing.T) {
	src := NewMemory(`/* $PRAGMA$ strict */
/* doc for f */
// trailing line comment
int f() { return 1; }
/* doc for x */

int x = 1; int y = 2;
`)
	tests := []struct {
		name   string
		nth    int
		want   string
		wantOk bool
	}{
		{"comment past line comment", 0, "/* doc for f */", true},
		{"comment past blank line", 1, "/* doc for x */", true},
		{"code in between", 2, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := src.DocBefore(firstToken(t, src, token.INT_T, tt.nth))
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("DocBefore = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestDirectiveIsNotDoc(t *testing.T) {
	src := NewMemory("/* $PRAGMA$ strict */\nint z;")
	if doc, ok := src.DocBefore(firstToken(t, src, token.INT_T, 0)); ok {
		t.Errorf("directive taken as doc: %q", doc)
	}
}

func TestDirectives(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two directives", "/* $PRAGMA$ Strict */\n/* $PRAGMA$  fast  */\nint x;", []string{"Strict", "fast"}},
		{"stops at code", "/* $PRAGMA$ a */ int x; /* $PRAGMA$ b */", []string{"a"}},
		{"stops at plain comment", "/* hello */ /* $PRAGMA$ a */", nil},
		{"empty value stops", "/* $PRAGMA$ */ /* $PRAGMA$ a */", nil},
		{"multi-line is not a directive", "/* $PRAGMA$ a\n */", nil},
		{"line comments are filler", "// x\n/* $PRAGMA$ a */", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMemory(tt.input).Directives().Values()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("directives mismatch (-want +got):\n%s", diff)
			}
		})
	}

	d := NewMemory("/* $PRAGMA$ Strict */").Directives()
	if !d.Contains("strict") || !d.Contains("STRICT") || d.Contains("loose") {
		t.Errorf("Contains should compare case-insensitively")
	}
}

func TestDirectivesProcessingOff(t *testing.T) {
	src := NewMemory("/* $PRAGMA$ a */")
	src.SetProcessDirectives(false)
	if n := src.Directives().Len(); n != 0 {
		t.Errorf("expected no directives, got %d", n)
	}
	src.SetProcessDirectives(true)
	if n := src.Directives().Len(); n != 1 {
		t.Errorf("expected 1 directive, got %d", n)
	}
}

func TestSourceFileNames(t *testing.T) {
	if got := NewMemory("").FileName(); got != "<unknown>" {
		t.Errorf("memory source name = %q", got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "main.quill")
	if err := os.WriteFile(path, []byte("int x = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(src.FileName()) || !strings.HasSuffix(src.FileName(), "main.quill") {
		t.Errorf("file name not canonical: %q", src.FileName())
	}
	if _, err := Open(filepath.Join(dir, "missing.quill")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
