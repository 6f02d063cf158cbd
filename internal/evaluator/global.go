package evaluator

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/modules"
	"github.com/funvibe/quill/internal/parser"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

// RunOptions control one run of a global script.
type RunOptions struct {
	Args []string
	Mode modules.Mode
	// Interactive prints the value of the last statement.
	Interactive bool
	// KeepFrame leaves the script frame on the thread for inspection. The
	// caller unwinds it.
	KeepFrame bool
}

// GlobalScriptExecutable runs a whole script in a frame of its own. The
// frame adds no trace entry; a fault leaving it is located by its last
// statement.
type GlobalScriptExecutable struct {
	Info    *parser.AstInfo
	Options RunOptions

	included bool
	script   *modules.Script
	globals  *symbols.Table[*Slot]
}

// Exclusions lists the variables a continuing script must not take over
// from the previous one: the arguments, which are bound again, and the
// functions the script declares itself.
func (ge *GlobalScriptExecutable) Exclusions() []string {
	out := []string{config.ArgumentsVarName}
	if ge.script != nil {
		out = append(out, ge.script.Functions...)
	}
	return out
}

// Globals is the global table of the last execution.
func (ge *GlobalScriptExecutable) Globals() *symbols.Table[*Slot] { return ge.globals }

func (ge *GlobalScriptExecutable) Execute(th *Thread, args []Argument) (Object, error) {
	rt := th.rt
	script, err := rt.Modules.LoadScriptAsModule(ge.Info, ge.Options.Mode)
	if err != nil {
		return nil, rt.Exceptions.Convert(err)
	}
	ge.script = script
	prog := ge.Info.Tree()

	scope := rt.newGlobalTable()
	if prev := rt.LastGlobal(); prev != nil && !ge.included && ge.Options.Mode == modules.Accumulative {
		scope.ImportFrom(prev, ge.Exclusions()...)
	}
	ge.globals = scope

	frame := &Frame{
		Scope:      scope,
		Namespaces: defaultNamespaces,
		Info:       FrameInfo{Name: "<script>", File: ge.Info.FileName()},
	}
	if err := th.push(frame); err != nil {
		return nil, err
	}
	if !ge.Options.KeepFrame {
		defer th.pop()
	}
	if !ge.included {
		defer rt.setLastGlobal(scope)
	}

	c := th.context()
	result, err := ge.run(c, prog, args)
	if err != nil {
		return nil, rt.Exceptions.Convert(err)
	}
	if rv, ok := result.(*ReturnValue); ok {
		result = rv.Value
	}
	if ge.Options.Interactive && result != VOID {
		ge.echo(c, result)
	}
	return result, nil
}

func (ge *GlobalScriptExecutable) run(c *Context, prog *ast.Program, args []Argument) (Object, error) {
	for _, a := range args {
		if err := c.fr.Scope.Declare(a.Name, a.Slot); err != nil {
			return nil, err
		}
	}
	for _, inc := range prog.Includes {
		if err := c.include(inc); err != nil {
			return nil, err
		}
	}
	if err := c.loadClasses(classDeclarations(prog), ""); err != nil {
		return nil, err
	}
	if err := c.hoistFunctions(prog); err != nil {
		return nil, err
	}
	return c.dispatch(prog)
}

// echo prints an interactive result. A fault while formatting the value is
// logged and dropped.
func (ge *GlobalScriptExecutable) echo(c *Context, v Object) {
	s, err := c.stringify(v)
	if err != nil {
		car := c.rt.Exceptions.Convert(err)
		c.rt.Logger.Warn("cannot print result", "script", ge.Info.FileName(), "error", car.Error())
		return
	}
	c.rt.writeOut(s + "\n")
}

// hoistFunctions declares the global functions of prog before any
// statement runs. A function pulled in by an include is replaced.
func (c *Context) hoistFunctions(prog *ast.Program) error {
	globals := c.fr.Scope.Globals()
	for _, stmt := range prog.Statements {
		fd, ok := stmt.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		fn, err := c.newFunction(fd.Name, fd.Params, fd.ReturnType, fd.Body, true)
		if err != nil {
			return c.located(err, fd.NameToken.Line)
		}
		if slot, exists := globals.Lookup(fd.Name, false); exists {
			if _, isFn := slot.Value.(*Function); isFn {
				slot.Value = fn
				continue
			}
		}
		if err := globals.Declare(fd.Name, NewSlot(typesystem.Function, fn)); err != nil {
			return c.located(err, fd.NameToken.Line)
		}
	}
	return nil
}

// RunScript runs info as a top-level script on th, binding opts.Args as
// the arguments variable.
func (rt *Runtime) RunScript(th *Thread, info *parser.AstInfo, opts RunOptions) (Object, error) {
	values := make([]Object, len(opts.Args))
	for i, a := range opts.Args {
		values[i] = &String{Value: a}
	}
	arr := rt.Heap.NewArray(rt.Registry.ArrayTypeFor(typesystem.String), values)
	args := []Argument{{Name: config.ArgumentsVarName, Slot: NewSlot(arr.ArrayType, arr)}}
	ge := &GlobalScriptExecutable{Info: info, Options: opts}
	return ge.Execute(th, args)
}
