// Package engine is the embedding API of the Quill interpreter: run script
// files and snippets, continue a REPL session, and exchange values with Go.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/funvibe/quill/internal/backend"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/errs"
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/modules"
	"github.com/funvibe/quill/internal/pipeline"
)

// Options configure a new Engine. Zero values mean config.Default(), the
// process streams, and a text logger on Err at the configured level.
type Options struct {
	Config *config.Config
	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger
}

// Engine owns one runtime. Script runs are serialized; Bind and Call may be
// used between them.
type Engine struct {
	cfg        *config.Config
	rt         *evaluator.Runtime
	marshaller *Marshaller
	logger     *slog.Logger

	mu sync.Mutex
}

func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	errw := opts.Err
	if errw == nil {
		errw = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		level, _ := cfg.SlogLevel()
		logger = slog.New(slog.NewTextHandler(errw, &slog.HandlerOptions{Level: level}))
	}
	rt, err := evaluator.NewRuntime(cfg, opts.Out, errw, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, rt: rt, marshaller: NewMarshaller(rt), logger: logger}, nil
}

func (e *Engine) Config() *config.Config { return e.cfg }

// RunFile runs a script file as a fresh program.
func (e *Engine) RunFile(path string, args []string) Result {
	return e.run(pipeline.NewContext(path, "", args), evaluator.RunOptions{
		Mode:        modules.Initial,
		Interactive: e.cfg.Interactive,
	})
}

// RunSource runs code as a fresh program. name labels the code in traces;
// an empty name means it did not come from a file.
func (e *Engine) RunSource(name, code string, args []string) Result {
	return e.run(pipeline.NewContext(name, code, args), evaluator.RunOptions{
		Mode:        modules.Initial,
		Interactive: e.cfg.Interactive,
	})
}

// Eval runs one REPL step. It sees the variables, functions and classes of
// the steps before it and prints the value of its last statement.
func (e *Engine) Eval(code string) Result {
	if code == "" {
		return Result{Value: evaluator.VOID}
	}
	return e.run(pipeline.NewContext("", code, nil), evaluator.RunOptions{
		Mode:        modules.Accumulative,
		Interactive: true,
	})
}

func (e *Engine) run(ctx *pipeline.PipelineContext, opts evaluator.RunOptions) (res Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err := errs.RecoverInternal(r)
			e.logger.Error("internal error", "error", err)
			res = Result{Err: err}
		}
	}()

	p := pipeline.New(
		&pipeline.ParseProcessor{ProcessDirectives: e.cfg.ProcessDirectives},
		backend.NewExecutionProcessor(backend.NewTreeWalk(e.rt, opts)),
	)
	ctx = p.Run(ctx)
	if err := ctx.Err(); err != nil {
		return Result{Err: e.rt.Exceptions.Convert(err)}
	}
	return Result{Value: ctx.Value}
}

// Bind makes a Go value visible to every script run afterwards. Functions
// are callable from scripts; their arguments and results are converted.
func (e *Engine) Bind(name string, val interface{}) error {
	obj, err := e.marshaller.ToValue(val)
	if err != nil {
		return fmt.Errorf("binding %s: %w", name, err)
	}
	e.rt.Bind(name, obj)
	return nil
}

// Get returns a global of the last script, or a bound value, as a Go value.
func (e *Engine) Get(name string) (interface{}, error) {
	obj, ok := e.rt.Global(name)
	if !ok {
		return nil, fmt.Errorf("variable %q not found", name)
	}
	return e.marshaller.FromValue(obj, nil)
}

// Call calls a global function of the last script by name.
func (e *Engine) Call(name string, args ...interface{}) (result interface{}, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = errs.RecoverInternal(r)
		}
	}()

	fn, ok := e.rt.Global(name)
	if !ok {
		return nil, fmt.Errorf("function %q not found", name)
	}
	values := make([]evaluator.Object, len(args))
	for i, arg := range args {
		v, err := e.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		values[i] = v
	}

	th := e.rt.NewThread()
	defer th.Close()
	obj, err := e.rt.Invoke(th, fn, values...)
	if err != nil {
		return nil, err
	}
	return e.marshaller.FromValue(obj, nil)
}

// Check parses a script file without running it.
func (e *Engine) Check(path string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := pipeline.New(&pipeline.ParseProcessor{ProcessDirectives: e.cfg.ProcessDirectives, Eager: true})
	ctx := p.Run(pipeline.NewContext(path, "", nil))
	if err := ctx.Err(); err != nil {
		return Result{Err: e.rt.Exceptions.Convert(err)}
	}
	return Result{Value: evaluator.VOID}
}
