package evaluator

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
)

func (c *Context) evalArguments(exprs []ast.Expression) ([]Object, error) {
	values := make([]Object, len(exprs))
	for i, e := range exprs {
		v, err := c.eval(e)
		if err != nil {
			return nil, err
		}
		if v == VOID {
			return nil, c.throw(config.TypeIncompatibleExceptionName, "Argument %d has no value.", i+1)
		}
		values[i] = v
	}
	return values, nil
}

// evalCall resolves the callee first so that a.m() dispatches on the
// runtime class of a and a bare m() inside a method reaches this.
func (c *Context) evalCall(n *ast.CallExpression) (Object, error) {
	callee, err := c.evalCallee(n.Function)
	if err != nil {
		return nil, err
	}
	values, err := c.evalArguments(n.Arguments)
	if err != nil {
		return nil, err
	}
	return c.callValue(callee, values)
}

func (c *Context) evalCallee(expr ast.Expression) (Object, error) {
	m, ok := expr.(*ast.MemberExpression)
	if !ok {
		return c.eval(expr)
	}
	recv, err := c.evalReceiver(m.Left)
	if err != nil {
		return nil, err
	}
	name := m.Member.Value
	switch r := recv.(type) {
	case *Null:
		return nil, c.throw(config.NullReferenceExceptionName, "Cannot call %s on null.", name)
	case *Instance:
		if method, ok := r.Class.FindMethod(name); ok {
			return c.methodValue(method, r), nil
		}
	case *TypeObject:
		if method, ok := r.Class.FindMethod(name); ok {
			if !method.Static {
				return nil, c.throw(config.RuntimeCheckExceptionName,
					"%s.%s is not static.", r.Class.Name(), name)
			}
			return c.methodValue(method, nil), nil
		}
	}
	slot, err := c.fieldSlot(recv, name)
	if err != nil {
		return nil, err
	}
	return slot.Value, nil
}

func (c *Context) callValue(callee Object, values []Object) (Object, error) {
	switch fn := callee.(type) {
	case *Function:
		return c.callFunction(fn, nil, values)
	case *Builtin:
		return fn.Fn(c, values)
	case *Null:
		return nil, c.throw(config.NullReferenceExceptionName, "Cannot call null.")
	}
	return nil, c.throw(config.TypeIncompatibleExceptionName, "%s is not callable.", callee.RuntimeType())
}

// Call invokes a callable value on behalf of a builtin or the host.
func (c *Context) Call(callee Object, args ...Object) (Object, error) {
	return c.callValue(callee, args)
}
