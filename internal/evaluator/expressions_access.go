package evaluator

import (
	"unicode/utf8"

	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

const lengthMember = "length"

// dottedName flattens a.b.c into "a.b.c".
func dottedName(expr ast.Expression) (string, bool) {
	switch n := expr.(type) {
	case *ast.Identifier:
		return n.Value, true
	case *ast.MemberExpression:
		left, ok := dottedName(n.Left)
		if !ok {
			return "", false
		}
		return left + "." + n.Member.Value, true
	}
	return "", false
}

// evalReceiver evaluates the left side of a member access. A dotted name
// whose head is not a variable may name a class, as in System.Exception.
func (c *Context) evalReceiver(expr ast.Expression) (Object, error) {
	if m, ok := expr.(*ast.MemberExpression); ok {
		if name, ok := dottedName(m); ok {
			head, _ := dottedName(leftmost(m))
			if _, isVar := c.lookupSlot(head); !isVar {
				if t, ok := c.lookupTypeName(name, true); ok {
					if class, ok := t.(*typesystem.ClassType); ok {
						return &TypeObject{Class: class}, nil
					}
				}
			}
		}
	}
	return c.eval(expr)
}

func leftmost(expr ast.Expression) ast.Expression {
	for {
		m, ok := expr.(*ast.MemberExpression)
		if !ok {
			return expr
		}
		expr = m.Left
	}
}

func (c *Context) evalMember(n *ast.MemberExpression) (Object, error) {
	recv, err := c.evalReceiver(n.Left)
	if err != nil {
		return nil, err
	}
	name := n.Member.Value
	switch r := recv.(type) {
	case *Array:
		if name == lengthMember {
			return &Integer{Value: int64(len(r.Elements))}, nil
		}
	case *String:
		if name == lengthMember {
			return &Integer{Value: int64(utf8.RuneCountInString(r.Value))}, nil
		}
	case *Instance:
		if slot, ok := r.Fields[name]; ok {
			return slot.Value, nil
		}
		if m, ok := r.Class.FindMethod(name); ok {
			return c.methodValue(m, r), nil
		}
	case *TypeObject:
		if m, ok := r.Class.FindMethod(name); ok && m.Static {
			return c.methodValue(m, nil), nil
		}
	}
	slot, err := c.fieldSlot(recv, name)
	if err != nil {
		return nil, err
	}
	return slot.Value, nil
}

// fieldSlot finds the slot of a field or static field of recv.
func (c *Context) fieldSlot(recv Object, name string) (*Slot, error) {
	switch r := recv.(type) {
	case *Null:
		return nil, c.throw(config.NullReferenceExceptionName, "Cannot access member %s of null.", name)
	case *Instance:
		if slot, ok := r.Fields[name]; ok {
			return slot, nil
		}
		if slot, ok := c.staticSlot(r.Class, name); ok {
			return slot, nil
		}
		return nil, c.throw(config.UndefinedSymbolExceptionName, "%s has no member %s.", r.Class.Name(), name)
	case *TypeObject:
		if slot, ok := c.staticSlot(r.Class, name); ok {
			return slot, nil
		}
		return nil, c.throw(config.UndefinedSymbolExceptionName, "%s has no static member %s.", r.Class.Name(), name)
	}
	return nil, c.throw(config.TypeIncompatibleExceptionName, "%s has no member %s.", recv.RuntimeType(), name)
}

func (c *Context) evalIndexOperands(n *ast.IndexExpression) (Object, int64, error) {
	container, err := c.eval(n.Left)
	if err != nil {
		return nil, 0, err
	}
	iv, err := c.eval(n.Index)
	if err != nil {
		return nil, 0, err
	}
	idx, ok := iv.(*Integer)
	if !ok {
		return nil, 0, c.throw(config.TypeIncompatibleExceptionName, "Index must be an Integer, got %s.", iv.RuntimeType())
	}
	if container == NULL {
		return nil, 0, c.throw(config.NullReferenceExceptionName, "Cannot index null.")
	}
	return container, idx.Value, nil
}

func (c *Context) evalIndex(n *ast.IndexExpression) (Object, error) {
	container, idx, err := c.evalIndexOperands(n)
	if err != nil {
		return nil, err
	}
	switch v := container.(type) {
	case *Array:
		slot, err := c.element(v, idx)
		if err != nil {
			return nil, err
		}
		return slot.Value, nil
	case *String:
		runes := []rune(v.Value)
		if idx < 0 || idx >= int64(len(runes)) {
			return nil, c.outOfRange(idx, len(runes))
		}
		return &String{Value: string(runes[idx])}, nil
	}
	return nil, c.throw(config.TypeIncompatibleExceptionName, "Cannot index %s.", container.RuntimeType())
}

func (c *Context) element(a *Array, idx int64) (*Slot, error) {
	if idx < 0 || idx >= int64(len(a.Elements)) {
		return nil, c.outOfRange(idx, len(a.Elements))
	}
	return a.Elements[idx], nil
}

func (c *Context) outOfRange(idx int64, length int) error {
	return c.throw(config.ArrayOutOfRangeExceptionName, "Index %d is out of range for length %d.", idx, length)
}

func (c *Context) evalNew(n *ast.NewExpression) (Object, error) {
	if n.Size != nil {
		return c.newArray(n)
	}
	class, err := c.resolveClass(n.Type)
	if err != nil {
		return nil, err
	}
	values, err := c.evalArguments(n.Arguments)
	if err != nil {
		return nil, err
	}
	return c.instantiate(class, values)
}

func (c *Context) newArray(n *ast.NewExpression) (Object, error) {
	t, err := c.resolveType(n.Type, true)
	if err != nil {
		return nil, err
	}
	at, ok := t.(*typesystem.ArrayType)
	if !ok {
		return nil, c.throw(config.TypeIncompatibleExceptionName, "%s is not an array type.", t)
	}
	sv, err := c.eval(n.Size)
	if err != nil {
		return nil, err
	}
	size, ok := sv.(*Integer)
	if !ok {
		return nil, c.throw(config.TypeIncompatibleExceptionName, "Array size must be an Integer, got %s.", sv.RuntimeType())
	}
	if size.Value < 0 {
		return nil, c.throw(config.IllegalArgumentExceptionName, "Negative array size: %d.", size.Value)
	}
	if limit := c.rt.maxArrayLength(); size.Value > limit {
		return nil, c.throw(config.IllegalArgumentExceptionName,
			"Array size %d exceeds the limit of %d.", size.Value, limit)
	}
	values := make([]Object, size.Value)
	for i := range values {
		values[i] = defaultValue(at.Elem)
	}
	return c.rt.Heap.NewArray(at, values), nil
}

// findConstructor picks the constructor for argc arguments. A class that
// declares none uses those of its nearest ancestor that does.
func findConstructor(class *typesystem.ClassType, argc int) (*typesystem.Method, bool) {
	for t := class; t != nil; t = t.Parent {
		if len(t.Constructors) == 0 {
			continue
		}
		return t.Constructor(argc)
	}
	return nil, false
}

func declaresConstructors(class *typesystem.ClassType) bool {
	for t := class; t != nil; t = t.Parent {
		if len(t.Constructors) > 0 {
			return true
		}
	}
	return false
}

// instantiate allocates an instance, runs the field initializers of every
// class in the chain, ancestors first, and then the constructor.
func (c *Context) instantiate(class *typesystem.ClassType, values []Object) (Object, error) {
	ctor, ok := findConstructor(class, len(values))
	if !ok && (len(values) > 0 || declaresConstructors(class)) {
		return nil, c.throw(config.IllegalArgumentExceptionName,
			"%s has no constructor taking %d arguments.", class.Name(), len(values))
	}
	inst := c.rt.Heap.NewInstance(class)

	var chain []*typesystem.ClassType
	for t := class; t != nil; t = t.Parent {
		chain = append(chain, t)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if err := c.initFields(chain[i], inst); err != nil {
			return nil, err
		}
	}
	if ctor != nil {
		if _, err := c.callFunction(ctor.Impl.(*Function), inst, values); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (c *Context) initFields(class *typesystem.ClassType, inst *Instance) error {
	var fields []*typesystem.Field
	for _, f := range class.Fields {
		if !f.Static && f.Decl != nil && f.Decl.Value != nil {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	frame := &Frame{
		Scope:      symbols.NewTable(c.fr.Scope.Globals()),
		Namespaces: defaultNamespaces,
		Info:       FrameInfo{Name: class.Name() + ".<init>", File: class.File},
		This:       inst,
		Class:      class,
	}
	_, err := c.th.runFrame(frame, func(ic *Context) (Object, error) {
		for _, f := range fields {
			if err := ic.initSlot(inst.Fields[f.Name], f.Decl.Value, f.Decl.Token.Line); err != nil {
				return nil, err
			}
		}
		return VOID, nil
	})
	return err
}
