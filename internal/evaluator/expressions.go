package evaluator

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/errs"
	"github.com/funvibe/quill/internal/typesystem"
)

func (c *Context) eval(expr ast.Expression) (Object, error) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return &Integer{Value: n.Value}, nil
	case *ast.FloatLiteral:
		return &Float{Value: n.Value}, nil
	case *ast.StringLiteral:
		return &String{Value: n.Value}, nil
	case *ast.BooleanLiteral:
		return nativeBool(n.Value), nil
	case *ast.NullLiteral:
		return NULL, nil
	case *ast.ThisExpression:
		if c.fr.This == nil {
			return nil, c.throw(config.UndefinedSymbolExceptionName, "this is not available here.")
		}
		return c.fr.This, nil
	case *ast.Identifier:
		return c.evalIdentifier(n)
	case *ast.GroupedExpression:
		return c.eval(n.Inner)
	case *ast.PrefixExpression:
		return c.evalPrefix(n)
	case *ast.PostfixExpression:
		return c.evalPostfix(n)
	case *ast.InfixExpression:
		return c.evalInfix(n)
	case *ast.AssignExpression:
		return c.evalAssign(n)
	case *ast.CastExpression:
		return c.evalCast(n)
	case *ast.CallExpression:
		return c.evalCall(n)
	case *ast.IndexExpression:
		return c.evalIndex(n)
	case *ast.MemberExpression:
		return c.evalMember(n)
	case *ast.NewExpression:
		return c.evalNew(n)
	case *ast.ArrayLiteral:
		return c.evalArrayLiteral(n, nil)
	case *ast.LambdaExpression:
		return c.evalLambda(n)
	}
	errs.Internal("cannot evaluate expression %T", expr)
	return nil, nil
}

// lookupSlot resolves a bare name to a variable: locals first, then the
// fields of this, the static fields of the class, and finally the globals
// and host bindings.
func (c *Context) lookupSlot(name string) (*Slot, bool) {
	if slot, ok := c.memberSlot(name); ok {
		return slot, true
	}
	return c.fr.Scope.Lookup(name, true)
}

// memberSlot is lookupSlot without the globals.
func (c *Context) memberSlot(name string) (*Slot, bool) {
	if slot, ok := c.fr.Scope.Lookup(name, false); ok {
		return slot, true
	}
	if c.fr.This != nil {
		if slot, ok := c.fr.This.Fields[name]; ok {
			return slot, true
		}
	}
	if c.fr.Class != nil {
		if slot, ok := c.staticSlot(c.fr.Class, name); ok {
			return slot, true
		}
	}
	return nil, false
}

func (c *Context) evalIdentifier(n *ast.Identifier) (Object, error) {
	if slot, ok := c.memberSlot(n.Value); ok {
		return slot.Value, nil
	}
	if c.fr.This != nil {
		if m, ok := c.fr.This.Class.FindMethod(n.Value); ok {
			return c.methodValue(m, c.fr.This), nil
		}
	}
	if c.fr.Class != nil {
		if m, ok := c.fr.Class.FindMethod(n.Value); ok {
			return c.methodValue(m, c.fr.This), nil
		}
	}
	if slot, ok := c.fr.Scope.Lookup(n.Value, true); ok {
		return slot.Value, nil
	}
	if b, ok := c.rt.builtins[n.Value]; ok {
		return b, nil
	}
	if t, ok := c.lookupTypeName(n.Value, true); ok {
		if class, ok := t.(*typesystem.ClassType); ok {
			return &TypeObject{Class: class}, nil
		}
	}
	return nil, c.throw(config.UndefinedSymbolExceptionName, "Undefined symbol: %s", n.Value)
}

// methodValue turns a method into a callable value bound to this.
func (c *Context) methodValue(m *typesystem.Method, this *Instance) *Function {
	fn := *m.Impl.(*Function)
	if !m.Static {
		fn.This = this
	}
	return &fn
}

func (c *Context) evalArrayLiteral(n *ast.ArrayLiteral, elem typesystem.Type) (Object, error) {
	values := make([]Object, len(n.Elements))
	for i, e := range n.Elements {
		v, err := c.evalWithHint(e, elem)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	if elem == nil {
		elem = commonType(values)
	}
	for i, v := range values {
		cv, err := c.coerce(elem, v)
		if err != nil {
			return nil, err
		}
		values[i] = cv
	}
	return c.rt.Heap.NewArray(c.rt.Registry.ArrayTypeFor(elem), values), nil
}

// commonType is the element type of an unhinted array literal: the shared
// runtime type of all values, or Any.
func commonType(values []Object) typesystem.Type {
	if len(values) == 0 {
		return typesystem.Any
	}
	t := values[0].RuntimeType()
	for _, v := range values[1:] {
		if v.RuntimeType() != t {
			return typesystem.Any
		}
	}
	if t == typesystem.Null || t == typesystem.Void {
		return typesystem.Any
	}
	return t
}

// evalLambda creates a closure. The visible local variables are captured
// by slot; this is taken from the frame.
func (c *Context) evalLambda(n *ast.LambdaExpression) (Object, error) {
	fn, err := c.newFunction("<lambda>", n.Params, nil, n.Body, true)
	if err != nil {
		return nil, err
	}
	fn.This = c.fr.This
	fn.Class = c.fr.Class
	global := c.fr.Scope.IsGlobal()
	seen := map[string]bool{}
	c.fr.Scope.Traverse(func(level int, name string, slot *Slot) bool {
		// The outermost scope of a global table stays reachable through
		// the function's globals.
		if global && level == 0 {
			return true
		}
		if !seen[name] && name != config.ThisVarName {
			seen[name] = true
			fn.Captured = append(fn.Captured, Binding{Name: name, Slot: slot})
		}
		return true
	}, true)
	return fn, nil
}
