package evaluator

import (
	"strings"
	"unicode/utf8"

	"github.com/funvibe/quill/internal/config"
)

// builtins returns the hosted functions every script can call.
func builtins() map[string]*Builtin {
	list := []*Builtin{
		{Name: config.PrintFuncName, Fn: builtinPrint("")},
		{Name: config.PrintlnFuncName, Fn: builtinPrint("\n")},
		{Name: config.TypeOfFuncName, Fn: builtinTypeOf},
		{Name: config.LenFuncName, Fn: builtinLen},
		{Name: config.StringFuncName, Fn: builtinToString},
		{Name: config.FormatFuncName, Fn: builtinFormat},
	}
	m := make(map[string]*Builtin, len(list))
	for _, b := range list {
		m[b.Name] = b
	}
	return m
}

func builtinPrint(end string) BuiltinFunction {
	return func(ctx *Context, args []Object) (Object, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			s, err := ctx.stringify(a)
			if err != nil {
				return nil, err
			}
			parts[i] = s
		}
		ctx.rt.writeOut(strings.Join(parts, " ") + end)
		return VOID, nil
	}
}

func builtinTypeOf(ctx *Context, args []Object) (Object, error) {
	if err := ctx.arity(config.TypeOfFuncName, args, 1); err != nil {
		return nil, err
	}
	return &String{Value: args[0].RuntimeType().String()}, nil
}

func builtinLen(ctx *Context, args []Object) (Object, error) {
	if err := ctx.arity(config.LenFuncName, args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case *Array:
		return &Integer{Value: int64(len(v.Elements))}, nil
	case *String:
		return &Integer{Value: int64(utf8.RuneCountInString(v.Value))}, nil
	case *Null:
		return nil, ctx.throw(config.NullReferenceExceptionName, "Cannot take the length of null.")
	}
	return nil, ctx.throw(config.TypeIncompatibleExceptionName, "%s has no length.", args[0].RuntimeType())
}

func builtinToString(ctx *Context, args []Object) (Object, error) {
	if err := ctx.arity(config.StringFuncName, args, 1); err != nil {
		return nil, err
	}
	s, err := ctx.stringify(args[0])
	if err != nil {
		return nil, err
	}
	return &String{Value: s}, nil
}

func builtinFormat(ctx *Context, args []Object) (Object, error) {
	if len(args) == 0 {
		return nil, ctx.throw(config.IllegalArgumentExceptionName, "%s expects a format string.", config.FormatFuncName)
	}
	f, ok := args[0].(*String)
	if !ok {
		return nil, ctx.throw(config.IllegalArgumentExceptionName,
			"%s expects a String, got %s.", config.FormatFuncName, args[0].RuntimeType())
	}
	s, err := ctx.formatValues(f.Value, args[1:])
	if err != nil {
		return nil, err
	}
	return &String{Value: s}, nil
}

func (c *Context) arity(name string, args []Object, want int) error {
	if len(args) != want {
		return c.throw(config.IllegalArgumentExceptionName, "%s expects %d arguments, got %d.", name, want, len(args))
	}
	return nil
}

// stringify renders a value for output. An instance whose class defines
// toString() is rendered by calling it.
func (c *Context) stringify(v Object) (string, error) {
	inst, ok := v.(*Instance)
	if !ok {
		return v.Inspect(), nil
	}
	m, ok := inst.Class.FindMethod(config.StringFuncName)
	if !ok || m.Static || len(m.Params) != 0 {
		return v.Inspect(), nil
	}
	res, err := c.callFunction(m.Impl.(*Function), inst, nil)
	if err != nil {
		return "", err
	}
	s, ok := res.(*String)
	if !ok {
		return "", c.throw(config.TypeIncompatibleExceptionName,
			"%s.%s must return a String, got %s.", inst.Class.Name(), config.StringFuncName, res.RuntimeType())
	}
	return s.Value, nil
}
