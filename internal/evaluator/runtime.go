// Package evaluator runs Quill programs.
//
// A Runtime holds what every script invocation shares: the type registry,
// the module manager, the heap and the host bindings. Each script thread owns
// a stack of frames; a Context is the view of one frame handed to the code
// running in it.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/modules"
	"github.com/funvibe/quill/internal/parser"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

type Runtime struct {
	Registry   *typesystem.Registry
	Modules    *modules.Manager
	Heap       *Heap
	Exceptions *KnownExceptions
	Config     *config.Config

	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger
	outMu  sync.Mutex

	builtins map[string]*Builtin

	mu         sync.RWMutex
	bindings   map[string]Object
	lastGlobal *symbols.Table[*Slot]

	threads sync.Map // uuid.UUID -> *Thread
}

// NewRuntime builds a runtime and loads the System classes. A nil cfg means
// config.Default(); nil writers mean the process streams.
func NewRuntime(cfg *config.Config, out, errw io.Writer, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	if logger == nil {
		level, err := cfg.SlogLevel()
		if err != nil {
			return nil, err
		}
		logger = slog.New(slog.NewTextHandler(errw, &slog.HandlerOptions{Level: level}))
	}
	rt := &Runtime{
		Registry: typesystem.NewRegistry(),
		Modules:  modules.NewManager(cfg.ModulePaths, logger),
		Heap:     &Heap{},
		Config:   cfg,
		Out:      out,
		Err:      errw,
		Logger:   logger,
		bindings: make(map[string]Object),
	}
	rt.Exceptions = &KnownExceptions{rt: rt}
	rt.builtins = builtins()

	if err := rt.loadPrelude(); err != nil {
		return nil, fmt.Errorf("loading %s classes: %w", config.SystemNamespace, err)
	}
	return rt, nil
}

func (rt *Runtime) loadPrelude() error {
	info, err := parser.NewMemory(prelude).Parse(true, true)
	if err != nil {
		return err
	}
	th := rt.NewThread()
	defer th.Close()

	frame := &Frame{
		Scope:      symbols.NewGlobalTable[*Slot](),
		Namespaces: []string{config.SystemNamespace},
		Info:       FrameInfo{Name: "<prelude>", File: config.UnknownFileName},
	}
	if err := th.push(frame); err != nil {
		return err
	}
	defer th.pop()
	return th.context().loadClasses(classDeclarations(info.Tree()), config.SystemNamespace)
}

// Bind makes a host value visible to every script started afterwards.
func (rt *Runtime) Bind(name string, value Object) {
	rt.mu.Lock()
	rt.bindings[name] = value
	rt.mu.Unlock()
}

func (rt *Runtime) newGlobalTable() *symbols.Table[*Slot] {
	table := symbols.NewGlobalTable[*Slot]()
	rt.mu.RLock()
	for name, v := range rt.bindings {
		table.BindExternal(name, NewSlot(typesystem.Any, v))
	}
	rt.mu.RUnlock()
	return table
}

// Global looks a name up in the global table of the last top-level script
// and in the host bindings.
func (rt *Runtime) Global(name string) (Object, bool) {
	if table := rt.LastGlobal(); table != nil {
		if slot, ok := table.Lookup(name, true); ok {
			return slot.Value, true
		}
		return nil, false
	}
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	v, ok := rt.bindings[name]
	return v, ok
}

// Invoke calls a callable value for the host. The call runs in a "<host>"
// frame that sees the globals of the last top-level script.
func (rt *Runtime) Invoke(th *Thread, callee Object, args ...Object) (Object, error) {
	globals := rt.LastGlobal()
	if globals == nil {
		globals = rt.newGlobalTable()
	}
	frame := &Frame{
		Scope:      symbols.NewTable(globals),
		Namespaces: defaultNamespaces,
		Info:       FrameInfo{Name: "<host>", File: config.UnknownFileName},
	}
	if err := th.push(frame); err != nil {
		return nil, err
	}
	defer th.pop()
	result, err := th.context().callValue(callee, args)
	if err != nil {
		return nil, rt.Exceptions.Convert(err)
	}
	return result, nil
}

// LastGlobal is the global table of the most recent top-level script.
func (rt *Runtime) LastGlobal() *symbols.Table[*Slot] {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.lastGlobal
}

func (rt *Runtime) setLastGlobal(t *symbols.Table[*Slot]) {
	rt.mu.Lock()
	rt.lastGlobal = t
	rt.mu.Unlock()
}

// NewThread creates a script thread with an empty frame stack.
func (rt *Runtime) NewThread() *Thread {
	th := &Thread{ID: uuid.New(), rt: rt}
	rt.threads.Store(th.ID, th)
	rt.debug("thread started", "thread", th.ID.String())
	return th
}

// Thread returns a live thread by ID.
func (rt *Runtime) Thread(id uuid.UUID) (*Thread, bool) {
	v, ok := rt.threads.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Thread), true
}

func (rt *Runtime) ThreadCount() int {
	n := 0
	rt.threads.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func (rt *Runtime) maxCallDepth() int {
	if rt.Config.MaxCallDepth > 0 {
		return rt.Config.MaxCallDepth
	}
	return config.DefaultMaxCallDepth
}

func (rt *Runtime) maxArrayLength() int64 {
	if rt.Config.MaxArrayLength > 0 {
		return rt.Config.MaxArrayLength
	}
	return config.DefaultMaxArrayLength
}

// writeOut writes script output. Threads share the writer.
func (rt *Runtime) writeOut(s string) {
	rt.outMu.Lock()
	defer rt.outMu.Unlock()
	if _, err := io.WriteString(rt.Out, s); err != nil {
		rt.Logger.Warn("script output failed", "error", err)
	}
}

func (rt *Runtime) debug(msg string, args ...interface{}) {
	if rt.Logger.Enabled(context.Background(), slog.LevelDebug) {
		rt.Logger.Debug(msg, args...)
	}
}
