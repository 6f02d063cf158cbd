package symbols

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/quill/internal/errs"
)

func TestShadowing(t *testing.T) {
	tbl := NewTable[int](nil)
	tbl.Declare("x", 1)
	tbl.EnterScope()
	tbl.Declare("x", 2)
	if v, _ := tbl.Lookup("x", false); v != 2 {
		t.Errorf("inner x = %d, want 2", v)
	}
	tbl.ExitScope()
	if v, _ := tbl.Lookup("x", false); v != 1 {
		t.Errorf("outer x = %d, want 1", v)
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	tbl := NewTable[int](nil)
	if err := tbl.Declare("x", 1); err != nil {
		t.Fatal(err)
	}
	err := tbl.Declare("x", 2)
	var dup *errs.DuplicateSymbolError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err.Error() != `variable "x" is already defined` {
		t.Errorf("message = %q", err.Error())
	}
	if v, _ := tbl.Lookup("x", false); v != 1 {
		t.Errorf("duplicate overwrote the value")
	}
}

func TestGlobalFlag(t *testing.T) {
	globals := NewGlobalTable[string]()
	globals.Declare("g", "global")
	globals.BindExternal("host", "bound")

	frame := NewTable(globals)
	frame.Declare("l", "local")

	tests := []struct {
		name      string
		tryGlobal bool
		want      string
		wantOk    bool
	}{
		{"l", false, "local", true},
		{"g", false, "", false},
		{"g", true, "global", true},
		{"host", false, "", false},
		{"host", true, "bound", true},
		{"missing", true, "", false},
	}
	for _, tt := range tests {
		got, ok := frame.Lookup(tt.name, tt.tryGlobal)
		if ok != tt.wantOk || got != tt.want {
			t.Errorf("Lookup(%q, %v) = %q, %v", tt.name, tt.tryGlobal, got, ok)
		}
	}

	if _, ok := frame.External("host"); ok {
		t.Errorf("frame tables have no external bindings")
	}
	if v, ok := globals.External("host"); !ok || v != "bound" {
		t.Errorf("External = %q, %v", v, ok)
	}
	// Declared globals shadow host bindings.
	globals.BindExternal("g", "host g")
	if v, _ := frame.Lookup("g", true); v != "global" {
		t.Errorf("g = %q", v)
	}
}

func TestGlobalBlockScopesArePrivate(t *testing.T) {
	globals := NewGlobalTable[string]()
	globals.Declare("g", "global")
	globals.EnterScope()
	globals.Declare("inner", "block-local")

	frame := NewTable(globals)
	if v, ok := frame.Lookup("inner", true); ok {
		t.Errorf("frame sees a block local of the global table: %q", v)
	}
	if v, ok := frame.Lookup("g", true); !ok || v != "global" {
		t.Errorf("g = %q, %v", v, ok)
	}
	if v, ok := globals.Lookup("inner", false); !ok || v != "block-local" {
		t.Errorf("global table lost its own block local: %q, %v", v, ok)
	}
}

func TestBindExternalOnFrameIsInternal(t *testing.T) {
	defer func() {
		if errs.RecoverInternal(recover()) == nil {
			t.Errorf("expected internal error")
		}
	}()
	NewTable[int](NewGlobalTable[int]()).BindExternal("x", 1)
}

func TestTraverse(t *testing.T) {
	tbl := NewTable[int](nil)
	tbl.Declare("a", 1)
	tbl.Declare("b", 2)
	tbl.EnterScope()
	tbl.Declare("c", 3)

	var got []string
	tbl.Traverse(func(level int, name string, _ int) bool {
		got = append(got, name)
		return true
	}, true)
	if diff := cmp.Diff([]string{"c", "a", "b"}, got); diff != "" {
		t.Errorf("top-down order (-want +got):\n%s", diff)
	}

	got = nil
	tbl.Traverse(func(level int, name string, _ int) bool {
		got = append(got, name)
		return name != "a"
	}, false)
	if diff := cmp.Diff([]string{"a"}, got); diff != "" {
		t.Errorf("early stop (-want +got):\n%s", diff)
	}
	if tbl.NestLevel() != 2 {
		t.Errorf("NestLevel = %d", tbl.NestLevel())
	}
}

func TestImportFromWithExclusions(t *testing.T) {
	prev := NewGlobalTable[int]()
	prev.Declare("arguments", 0)
	prev.Declare("x", 1)
	prev.Declare("y", 2)
	prev.EnterScope()
	prev.Declare("x", 10)

	next := NewGlobalTable[int]()
	next.Declare("y", 99)
	next.ImportFrom(prev, "arguments")

	if _, ok := next.Lookup("arguments", false); ok {
		t.Errorf("excluded name was imported")
	}
	if v, _ := next.Lookup("x", false); v != 10 {
		t.Errorf("x = %d, want the visible 10", v)
	}
	if v, _ := next.Lookup("y", false); v != 99 {
		t.Errorf("existing y was overwritten: %d", v)
	}
}
