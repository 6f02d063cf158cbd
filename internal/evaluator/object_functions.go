package evaluator

import (
	"strings"

	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

// Binding is a captured variable of a closure. Captures share the slot, so
// writes on either side are visible to both.
type Binding struct {
	Name string
	Slot *Slot
}

// Function is a script function, method, constructor or lambda.
type Function struct {
	Name       string
	Params     []*ast.Parameter
	ParamTypes []typesystem.Type
	Return     typesystem.Type
	Body       ast.Entry
	File       string

	// Globals is the global table of the script that declared the function.
	Globals *symbols.Table[*Slot]
	// This and Class are set for methods and for lambdas created inside
	// one.
	This     *Instance
	Class    *typesystem.ClassType
	Captured []Binding
}

func (f *Function) Type() ObjectType             { return FUNCTION_OBJ }
func (f *Function) RuntimeType() typesystem.Type { return typesystem.Function }

func (f *Function) Inspect() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.String()
	}
	return f.Name + "(" + strings.Join(names, ", ") + ")"
}

// ParamNames lists the declared parameter types as they appear in traces.
func (f *Function) ParamNames() []string {
	names := make([]string, len(f.ParamTypes))
	for i, t := range f.ParamTypes {
		names[i] = t.String()
	}
	return names
}

// BuiltinFunction is a hosted callable. It runs in the caller's frame.
type BuiltinFunction func(ctx *Context, args []Object) (Object, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType             { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string              { return "builtin " + b.Name }
func (b *Builtin) RuntimeType() typesystem.Type { return typesystem.Function }

type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType             { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string              { return rv.Value.Inspect() }
func (rv *ReturnValue) RuntimeType() typesystem.Type { return rv.Value.RuntimeType() }

type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType             { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string              { return "break" }
func (bs *BreakSignal) RuntimeType() typesystem.Type { return typesystem.Void }

type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType             { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string              { return "continue" }
func (cs *ContinueSignal) RuntimeType() typesystem.Type { return typesystem.Void }

func isSignal(o Object) bool {
	switch o.(type) {
	case *ReturnValue, *BreakSignal, *ContinueSignal:
		return true
	}
	return false
}
