package backend

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/exception"
	"github.com/funvibe/quill/internal/modules"
	"github.com/funvibe/quill/internal/pipeline"
)

func newRuntime(t *testing.T) (*evaluator.Runtime, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	rt, err := evaluator.NewRuntime(config.Default(), out, io.Discard, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	return rt, out
}

func run(rt *evaluator.Runtime, code string, args []string, opts evaluator.RunOptions) *pipeline.PipelineContext {
	p := pipeline.New(
		&pipeline.ParseProcessor{ProcessDirectives: true},
		NewExecutionProcessor(NewTreeWalk(rt, opts)),
	)
	return p.Run(pipeline.NewContext("", code, args))
}

func TestTreeWalkRun(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		args      []string
		wantOut   string
		wantValue string
		wantFault string
	}{
		{"prints", `println("hi");`, nil, "hi\n", "", ""},
		{"arguments", `println(arguments[0]);`, []string{"x"}, "x\n", "", ""},
		{"value", `1 + 2;`, nil, "", "3", ""},
		{"fault", `int z = 0; 1 / z;`, nil, "", "", config.DivByZeroExceptionName},
		{"syntax", `int = ;`, nil, "", "", config.BadSyntaxExceptionName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, out := newRuntime(t)
			ctx := run(rt, tt.code, tt.args, evaluator.RunOptions{Mode: modules.Initial})
			if tt.wantFault != "" {
				var car *exception.Carrier
				if !errors.As(ctx.Err(), &car) || car.TypeName() != tt.wantFault {
					t.Fatalf("err = %v, want %s", ctx.Err(), tt.wantFault)
				}
				return
			}
			if ctx.Failed() {
				t.Fatalf("unexpected error: %v", ctx.Err())
			}
			if out.String() != tt.wantOut {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
			if tt.wantValue != "" && (ctx.Value == nil || ctx.Value.Inspect() != tt.wantValue) {
				t.Errorf("value = %v, want %s", ctx.Value, tt.wantValue)
			}
		})
	}
}

func TestTreeWalkSharedThread(t *testing.T) {
	rt, _ := newRuntime(t)
	th := rt.NewThread()
	defer th.Close()

	b := NewTreeWalk(rt, evaluator.RunOptions{KeepFrame: true})
	b.Thread = th
	ctx := pipeline.New(&pipeline.ParseProcessor{}, NewExecutionProcessor(b)).Run(pipeline.NewContext("", "int x = 1;", nil))
	if ctx.Failed() {
		t.Fatal(ctx.Err())
	}
	if th.Depth() != 1 {
		t.Errorf("depth = %d, want the kept script frame", th.Depth())
	}
	th.Unwind()
	if rt.ThreadCount() != 1 {
		t.Errorf("the backend must not close a thread it was given")
	}
}

func TestExecutionSkippedAfterFailure(t *testing.T) {
	rt, out := newRuntime(t)
	ctx := pipeline.NewContext("", `println("no");`, nil)
	ctx.Errors = append(ctx.Errors, errors.New("earlier"))
	NewExecutionProcessor(NewTreeWalk(rt, evaluator.RunOptions{})).Process(ctx)
	if out.Len() != 0 || len(ctx.Errors) != 1 {
		t.Error("execution must not run after a failed stage")
	}
}
