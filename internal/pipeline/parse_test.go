package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/modules"
)

func TestParseProcessor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.quill")
	if err := os.WriteFile(path, []byte("int x = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		ctx      *PipelineContext
		eager    bool
		wantFile string
		wantErr  bool
	}{
		{"memory", NewContext("", "int x = 1;", nil), true, config.UnknownFileName, false},
		{"named code", NewContext(path, "int y = 2;", nil), true, path, false},
		{"file", NewContext(path, "", nil), true, path, false},
		{"eager syntax fault", NewContext("", "int x = ;", nil), true, config.UnknownFileName, true},
		{"lazy syntax fault", NewContext("", "int x = ;", nil), false, config.UnknownFileName, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(&ParseProcessor{Eager: tt.eager}).Run(tt.ctx)
			if got.Failed() != tt.wantErr {
				t.Fatalf("errors = %v, wantErr %v", got.Errors, tt.wantErr)
			}
			if got.Info == nil {
				t.Fatal("no AstInfo")
			}
			if name := got.Info.FileName(); name != tt.wantFile && filepath.Base(name) != filepath.Base(tt.wantFile) {
				t.Errorf("file = %q, want %q", name, tt.wantFile)
			}
			if tt.wantErr {
				var diag *diagnostics.DiagnosticError
				if !errors.As(got.Err(), &diag) {
					t.Errorf("want a diagnostic, got %T", got.Err())
				}
			}
		})
	}
}

func TestParseProcessorMissingFile(t *testing.T) {
	ctx := New(&ParseProcessor{}).Run(NewContext(filepath.Join(t.TempDir(), "nope.quill"), "", nil))
	if !errors.Is(ctx.Err(), modules.ErrScriptNotFound) {
		t.Errorf("err = %v, want ErrScriptNotFound", ctx.Err())
	}
	if ctx.Info != nil {
		t.Error("no AstInfo expected for a missing file")
	}
}

func TestParseProcessorSkipsAfterFailure(t *testing.T) {
	ctx := NewContext("", "int x = 1;", nil)
	ctx.Errors = append(ctx.Errors, errors.New("earlier"))
	New(&ParseProcessor{}).Run(ctx)
	if ctx.Info != nil || len(ctx.Errors) != 1 {
		t.Errorf("a failed context must pass through untouched")
	}
}

func TestDirectivesSwitch(t *testing.T) {
	code := "/* $PRAGMA$ strict */\nint x = 1;"
	on := New(&ParseProcessor{ProcessDirectives: true, Eager: true}).Run(NewContext("", code, nil))
	off := New(&ParseProcessor{Eager: true}).Run(NewContext("", code, nil))
	if n := on.Source.Directives().Len(); n != 1 {
		t.Errorf("directives with processing on = %d, want 1", n)
	}
	if n := off.Source.Directives().Len(); n != 0 {
		t.Errorf("directives with processing off = %d, want 0", n)
	}
}
