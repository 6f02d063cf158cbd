package evaluator

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/errs"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

// Executable is a unit of invocation: it pushes a frame, binds its
// arguments, runs its body and pops the frame again.
type Executable interface {
	Execute(th *Thread, args []Argument) (Object, error)
}

// FunctionExecutable runs a function, method, constructor or lambda. This
// overrides the receiver stored in the function.
type FunctionExecutable struct {
	Fn   *Function
	This *Instance
}

func (fe *FunctionExecutable) Execute(th *Thread, args []Argument) (Object, error) {
	fn := fe.Fn
	this := fe.This
	if this == nil {
		this = fn.This
	}
	frame := &Frame{
		Scope:      symbols.NewTable(fn.Globals),
		Namespaces: defaultNamespaces,
		Info:       FrameInfo{Name: fn.Name, Params: fn.ParamNames(), File: fn.File},
		This:       this,
		Class:      fn.Class,
	}
	return th.runFrame(frame, func(c *Context) (Object, error) {
		if err := c.bindArguments(fn, args); err != nil {
			return nil, err
		}
		result, err := c.dispatch(fn.Body)
		if err != nil {
			return nil, err
		}
		return c.completeReturn(fn, result)
	})
}

// bindArguments declares the captured variables of a closure, then the
// parameters. Captures share the slot of the enclosing frame.
func (c *Context) bindArguments(fn *Function, args []Argument) error {
	for _, b := range fn.Captured {
		if b.Name == config.ThisVarName {
			continue
		}
		if err := c.fr.Scope.Declare(b.Name, b.Slot); err != nil {
			return err
		}
	}
	if len(fn.Captured) > 0 {
		c.fr.Scope.EnterScope()
	}
	for _, a := range args {
		if err := c.fr.Scope.Declare(a.Name, a.Slot); err != nil {
			return err
		}
	}
	return nil
}

// completeReturn unwraps a return signal and checks it against the declared
// return type.
func (c *Context) completeReturn(fn *Function, result Object) (Object, error) {
	var value Object = VOID
	switch r := result.(type) {
	case *ReturnValue:
		value = r.Value
	case *BreakSignal, *ContinueSignal:
		return nil, c.throw(config.RuntimeCheckExceptionName, "%s used outside of a loop.", r.Inspect())
	default:
		if _, isExpr := fn.Body.(*ast.ExpressionStatement); isExpr {
			value = result
		}
	}
	switch {
	case fn.Return == typesystem.Void:
		if value != VOID {
			return nil, c.throw(config.TypeIncompatibleExceptionName,
				"Function %s is void and cannot return a value.", fn.Name)
		}
		return VOID, nil
	case value == VOID:
		if fn.Return == typesystem.Any {
			return VOID, nil
		}
		return nil, c.throw(config.TypeIncompatibleExceptionName,
			"Function %s must return a value of type %s.", fn.Name, fn.Return)
	}
	return c.coerce(fn.Return, value)
}

// dispatch runs one of the closed set of entry shapes.
func (c *Context) dispatch(entry ast.Entry) (Object, error) {
	switch n := entry.(type) {
	case *ast.Program:
		return c.execProgram(n)
	case *ast.MethodBody:
		return c.execStatements(n.Block.Statements)
	case *ast.BlockStatement:
		return c.execBlock(n)
	case *ast.ExpressionStatement:
		return c.execStatement(n)
	default:
		errs.Internal("cannot execute a %T", entry)
	}
	return nil, nil
}

// prepareArguments checks a call's values against the function's parameters
// and wraps them into arguments.
func (c *Context) prepareArguments(fn *Function, values []Object) ([]Argument, error) {
	if len(values) != len(fn.Params) {
		return nil, c.throw(config.IllegalArgumentExceptionName,
			"%s expects %d arguments, got %d.", fn.Name, len(fn.Params), len(values))
	}
	args := make([]Argument, len(values))
	for i, v := range values {
		t := fn.ParamTypes[i]
		cv, err := c.coerce(t, v)
		if err != nil {
			return nil, err
		}
		args[i] = Argument{Name: fn.Params[i].Name, Slot: NewSlot(t, cv)}
	}
	return args, nil
}

// callFunction invokes fn with this as receiver; this may be nil.
func (c *Context) callFunction(fn *Function, this *Instance, values []Object) (Object, error) {
	args, err := c.prepareArguments(fn, values)
	if err != nil {
		return nil, err
	}
	return (&FunctionExecutable{Fn: fn, This: this}).Execute(c.th, args)
}

// newFunction resolves the signature of a declared callable. The body runs
// against the globals of the current frame.
func (c *Context) newFunction(name string, params []*ast.Parameter, ret *ast.TypeRef, body ast.Entry, requireFinalized bool) (*Function, error) {
	fn := &Function{
		Name:       name,
		Params:     params,
		ParamTypes: make([]typesystem.Type, len(params)),
		Body:       body,
		File:       c.File(),
		Globals:    c.fr.Scope.Globals(),
	}
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		if seen[p.Name] {
			return nil, c.throw(config.RuntimeCheckExceptionName, "Duplicate parameter %s in %s.", p.Name, name)
		}
		seen[p.Name] = true
		t, err := c.resolveType(p.Type, requireFinalized)
		if err != nil {
			return nil, err
		}
		if t == typesystem.Void {
			return nil, c.throw(config.TypeIncompatibleExceptionName, "Parameter %s of %s cannot be void.", p.Name, name)
		}
		fn.ParamTypes[i] = t
	}
	rt, err := c.resolveType(ret, requireFinalized)
	if err != nil {
		return nil, err
	}
	fn.Return = rt
	return fn, nil
}
