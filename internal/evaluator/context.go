package evaluator

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/exception"
	"github.com/funvibe/quill/internal/typesystem"
)

// Context is the view of one frame given to the code running in it. It is
// built per call and never stored.
type Context struct {
	rt *Runtime
	th *Thread
	fr *Frame
}

func (c *Context) Runtime() *Runtime { return c.rt }
func (c *Context) Thread() *Thread   { return c.th }
func (c *Context) Frame() *Frame     { return c.fr }
func (c *Context) File() string      { return c.fr.Info.File }

func (c *Context) throw(typeName, format string, args ...interface{}) *exception.Carrier {
	return c.rt.Exceptions.New(typeName, format, args...)
}

// Throw raises a System exception on behalf of a builtin or the host.
func (c *Context) Throw(typeName, format string, args ...interface{}) error {
	return c.throw(typeName, format, args...)
}

// throwAt raises with an explicit location, for faults outside statement
// execution such as class loading.
func (c *Context) throwAt(line int, typeName, format string, args ...interface{}) *exception.Carrier {
	car := c.rt.Exceptions.New(typeName, format, args...)
	car.SetLocation(c.File(), line)
	return car
}

// lookupTypeName resolves a dotted class name through the frame's
// namespaces.
func (c *Context) lookupTypeName(name string, requireFinalized bool) (typesystem.Type, bool) {
	for _, ns := range c.fr.Namespaces {
		full := name
		if ns != "" {
			full = ns + "." + name
		}
		if t, ok := c.rt.Registry.Lookup(full, requireFinalized); ok {
			return t, true
		}
	}
	return nil, false
}

// resolveType maps a written type to its descriptor. A nil ref is Any.
func (c *Context) resolveType(ref *ast.TypeRef, requireFinalized bool) (typesystem.Type, error) {
	if ref == nil {
		return typesystem.Any, nil
	}
	var base typesystem.Type
	if p, ok := typesystem.PrimitiveByKeyword(ref.Name); ok {
		base = p
	} else if t, ok := c.lookupTypeName(ref.Name, requireFinalized); ok {
		base = t
	} else {
		return nil, c.throw(config.UndefinedSymbolExceptionName, "Unknown type: %s", ref.Name)
	}
	if ref.Dims > 0 && base == typesystem.Void {
		return nil, c.throw(config.TypeIncompatibleExceptionName, "Cannot declare an array of Void.")
	}
	for i := 0; i < ref.Dims; i++ {
		base = c.rt.Registry.ArrayTypeFor(base)
	}
	return base, nil
}

func (c *Context) resolveClass(ref *ast.TypeRef) (*typesystem.ClassType, error) {
	t, err := c.resolveType(ref, true)
	if err != nil {
		return nil, err
	}
	class, ok := t.(*typesystem.ClassType)
	if !ok {
		return nil, c.throw(config.TypeIncompatibleExceptionName, "%s is not a class.", t)
	}
	return class, nil
}

// staticSlot finds a static field on class or its ancestors.
func (c *Context) staticSlot(class *typesystem.ClassType, name string) (*Slot, bool) {
	for t := class; t != nil; t = t.Parent {
		value, ok := c.rt.Registry.Value(t.Name())
		if !ok {
			continue
		}
		if v, ok := value.Get(name); ok {
			return v.(*Slot), true
		}
	}
	return nil, false
}
