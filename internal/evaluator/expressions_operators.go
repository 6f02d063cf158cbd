package evaluator

import (
	"math"
	"strings"

	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/typesystem"
)

const divByZeroMessage = "Cannot divide by zero."

func (c *Context) evalPrefix(n *ast.PrefixExpression) (Object, error) {
	switch n.Operator {
	case "++", "--":
		slot, err := c.targetSlot(n.Right)
		if err != nil {
			return nil, err
		}
		return c.step(slot, n.Operator)
	}
	right, err := c.eval(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "!":
		if b, ok := right.(*Boolean); ok {
			return nativeBool(!b.Value), nil
		}
	case "-":
		switch v := right.(type) {
		case *Integer:
			return &Integer{Value: -v.Value}, nil
		case *Float:
			return &Float{Value: -v.Value}, nil
		}
	}
	return nil, c.throw(config.TypeIncompatibleExceptionName,
		"Operator %s is not defined for %s.", n.Operator, right.RuntimeType())
}

func (c *Context) evalPostfix(n *ast.PostfixExpression) (Object, error) {
	slot, err := c.targetSlot(n.Left)
	if err != nil {
		return nil, err
	}
	old := slot.Value
	if _, err := c.step(slot, n.Operator); err != nil {
		return nil, err
	}
	return old, nil
}

// step applies ++ or -- to slot and returns the new value.
func (c *Context) step(slot *Slot, op string) (Object, error) {
	delta := int64(1)
	if op == "--" {
		delta = -1
	}
	var next Object
	switch v := slot.Value.(type) {
	case *Integer:
		next = &Integer{Value: v.Value + delta}
	case *Float:
		next = &Float{Value: v.Value + float64(delta)}
	default:
		return nil, c.throw(config.TypeIncompatibleExceptionName,
			"Operator %s is not defined for %s.", op, slot.Value.RuntimeType())
	}
	slot.Value = next
	return next, nil
}

func (c *Context) evalInfix(n *ast.InfixExpression) (Object, error) {
	left, err := c.eval(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Operator == "&&" || n.Operator == "||" {
		return c.logical(n, left)
	}
	right, err := c.eval(n.Right)
	if err != nil {
		return nil, err
	}
	return c.binary(n.Operator, left, right)
}

func (c *Context) logical(n *ast.InfixExpression, left Object) (Object, error) {
	lb, ok := left.(*Boolean)
	if !ok {
		return nil, c.throw(config.TypeIncompatibleExceptionName,
			"Operator %s is not defined for %s.", n.Operator, left.RuntimeType())
	}
	if (n.Operator == "&&" && !lb.Value) || (n.Operator == "||" && lb.Value) {
		return lb, nil
	}
	right, err := c.eval(n.Right)
	if err != nil {
		return nil, err
	}
	if _, ok := right.(*Boolean); !ok {
		return nil, c.throw(config.TypeIncompatibleExceptionName,
			"Operator %s is not defined for %s.", n.Operator, right.RuntimeType())
	}
	return right, nil
}

func (c *Context) binary(op string, left, right Object) (Object, error) {
	switch op {
	case "==":
		return nativeBool(objectsEqual(left, right)), nil
	case "!=":
		return nativeBool(!objectsEqual(left, right)), nil
	}
	if op == "+" {
		if _, ok := left.(*String); ok {
			return c.concat(left, right)
		}
		if _, ok := right.(*String); ok {
			return c.concat(left, right)
		}
	}
	switch l := left.(type) {
	case *Integer:
		switch r := right.(type) {
		case *Integer:
			return c.integerOp(op, l.Value, r.Value)
		case *Float:
			return c.floatOp(op, float64(l.Value), r.Value)
		}
	case *Float:
		switch r := right.(type) {
		case *Integer:
			return c.floatOp(op, l.Value, float64(r.Value))
		case *Float:
			return c.floatOp(op, l.Value, r.Value)
		}
	case *String:
		if r, ok := right.(*String); ok {
			if res, ok := compare(op, strings.Compare(l.Value, r.Value)); ok {
				return res, nil
			}
		}
	}
	return nil, c.throw(config.TypeIncompatibleExceptionName,
		"Operator %s is not defined for %s and %s.", op, left.RuntimeType(), right.RuntimeType())
}

func (c *Context) concat(left, right Object) (Object, error) {
	ls, err := c.stringify(left)
	if err != nil {
		return nil, err
	}
	rs, err := c.stringify(right)
	if err != nil {
		return nil, err
	}
	return &String{Value: ls + rs}, nil
}

func (c *Context) integerOp(op string, l, r int64) (Object, error) {
	switch op {
	case "+":
		return &Integer{Value: l + r}, nil
	case "-":
		return &Integer{Value: l - r}, nil
	case "*":
		return &Integer{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, c.throw(config.DivByZeroExceptionName, divByZeroMessage)
		}
		return &Integer{Value: l / r}, nil
	case "%":
		if r == 0 {
			return nil, c.throw(config.DivByZeroExceptionName, divByZeroMessage)
		}
		return &Integer{Value: l % r}, nil
	}
	if res, ok := compare(op, cmpInt(l, r)); ok {
		return res, nil
	}
	return nil, c.throw(config.TypeIncompatibleExceptionName, "Operator %s is not defined for Integer.", op)
}

func (c *Context) floatOp(op string, l, r float64) (Object, error) {
	switch op {
	case "+":
		return &Float{Value: l + r}, nil
	case "-":
		return &Float{Value: l - r}, nil
	case "*":
		return &Float{Value: l * r}, nil
	case "/":
		return &Float{Value: l / r}, nil
	case "%":
		return &Float{Value: math.Mod(l, r)}, nil
	}
	cmp := 0
	switch {
	case l < r:
		cmp = -1
	case l > r:
		cmp = 1
	}
	if res, ok := compare(op, cmp); ok {
		return res, nil
	}
	return nil, c.throw(config.TypeIncompatibleExceptionName, "Operator %s is not defined for Float.", op)
}

func cmpInt(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func compare(op string, cmp int) (Object, bool) {
	switch op {
	case "<":
		return nativeBool(cmp < 0), true
	case "<=":
		return nativeBool(cmp <= 0), true
	case ">":
		return nativeBool(cmp > 0), true
	case ">=":
		return nativeBool(cmp >= 0), true
	}
	return nil, false
}

// objectsEqual compares primitives by value and everything else by
// identity. Integers and floats compare numerically.
func objectsEqual(a, b Object) bool {
	switch l := a.(type) {
	case *Integer:
		switch r := b.(type) {
		case *Integer:
			return l.Value == r.Value
		case *Float:
			return float64(l.Value) == r.Value
		}
		return false
	case *Float:
		switch r := b.(type) {
		case *Integer:
			return l.Value == float64(r.Value)
		case *Float:
			return l.Value == r.Value
		}
		return false
	case *Boolean:
		r, ok := b.(*Boolean)
		return ok && l.Value == r.Value
	case *String:
		r, ok := b.(*String)
		return ok && l.Value == r.Value
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *TypeObject:
		r, ok := b.(*TypeObject)
		return ok && l.Class == r.Class
	}
	return a == b
}

func (c *Context) evalAssign(n *ast.AssignExpression) (Object, error) {
	slot, err := c.targetSlot(n.Target)
	if err != nil {
		return nil, err
	}
	var v Object
	if n.Operator == "=" {
		v, err = c.evalWithHint(n.Value, slot.Type)
	} else {
		var right Object
		right, err = c.eval(n.Value)
		if err == nil {
			v, err = c.binary(strings.TrimSuffix(n.Operator, "="), slot.Value, right)
		}
	}
	if err != nil {
		return nil, err
	}
	if v, err = c.coerce(slot.Type, v); err != nil {
		return nil, err
	}
	slot.Value = v
	return v, nil
}

// targetSlot resolves an assignable expression to the slot it names.
func (c *Context) targetSlot(expr ast.Expression) (*Slot, error) {
	switch n := expr.(type) {
	case *ast.Identifier:
		if slot, ok := c.lookupSlot(n.Value); ok {
			return slot, nil
		}
		return nil, c.throw(config.UndefinedSymbolExceptionName, "Undefined symbol: %s", n.Value)
	case *ast.GroupedExpression:
		return c.targetSlot(n.Inner)
	case *ast.MemberExpression:
		recv, err := c.evalReceiver(n.Left)
		if err != nil {
			return nil, err
		}
		return c.fieldSlot(recv, n.Member.Value)
	case *ast.IndexExpression:
		arr, idx, err := c.evalIndexOperands(n)
		if err != nil {
			return nil, err
		}
		a, ok := arr.(*Array)
		if !ok {
			return nil, c.throw(config.TypeIncompatibleExceptionName, "Cannot assign to an element of %s.", arr.RuntimeType())
		}
		return c.element(a, idx)
	}
	return nil, c.throw(config.RuntimeCheckExceptionName, "Cannot assign to %s.", expr.String())
}

// evalCast converts between numbers, renders any value as a string and
// checks class casts against the runtime class.
func (c *Context) evalCast(n *ast.CastExpression) (Object, error) {
	t, err := c.resolveType(n.Type, true)
	if err != nil {
		return nil, err
	}
	v, err := c.eval(n.Value)
	if err != nil {
		return nil, err
	}
	if v == VOID {
		return nil, c.throw(config.TypeIncompatibleExceptionName, "Expression has no value.")
	}
	switch t {
	case typesystem.Integer:
		switch x := v.(type) {
		case *Integer:
			return x, nil
		case *Float:
			return &Integer{Value: int64(x.Value)}, nil
		}
	case typesystem.Float:
		switch x := v.(type) {
		case *Integer:
			return &Float{Value: float64(x.Value)}, nil
		case *Float:
			return x, nil
		}
	case typesystem.String:
		if v == NULL {
			return NULL, nil
		}
		s, err := c.stringify(v)
		if err != nil {
			return nil, err
		}
		return &String{Value: s}, nil
	default:
		if typesystem.IsAssignable(t, v.RuntimeType()) {
			return v, nil
		}
	}
	return nil, c.throw(config.ClassCastExceptionName, "Cannot cast %s to %s.", v.RuntimeType(), t)
}
