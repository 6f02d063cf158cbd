package evaluator

import (
	"strings"

	"github.com/funvibe/quill/internal/exception"
	"github.com/funvibe/quill/internal/typesystem"
)

type Array struct {
	ArrayType *typesystem.ArrayType
	Elements  []*Slot
}

func (a *Array) Type() ObjectType             { return ARRAY_OBJ }
func (a *Array) RuntimeType() typesystem.Type { return a.ArrayType }

func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = inspectNested(e.Value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func inspectNested(o Object) string {
	if s, ok := o.(*String); ok {
		return `"` + s.Value + `"`
	}
	return o.Inspect()
}

// Instance is an object of a script class. An instance of an exception
// class remembers the carrier it was last thrown with, so a later throw can
// link it as a cause.
type Instance struct {
	Class  *typesystem.ClassType
	Fields map[string]*Slot
	ID     int64

	thrown *exception.Carrier
}

func (i *Instance) Type() ObjectType             { return INSTANCE_OBJ }
func (i *Instance) RuntimeType() typesystem.Type { return i.Class }

// TypeName makes an instance usable as a carrier payload.
func (i *Instance) TypeName() string { return i.Class.Name() }

func (i *Instance) Inspect() string {
	if msg, ok := i.message(); ok {
		return i.Class.Name() + ": " + msg
	}
	return i.Class.Name()
}

func (i *Instance) message() (string, bool) {
	slot, ok := i.Fields[messageField]
	if !ok {
		return "", false
	}
	s, ok := slot.Value.(*String)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// TypeObject stands for a class named in expression position, as in
// Counter.count or Counter.reset().
type TypeObject struct {
	Class *typesystem.ClassType
}

func (t *TypeObject) Type() ObjectType             { return TYPE_OBJ }
func (t *TypeObject) Inspect() string              { return "class " + t.Class.Name() }
func (t *TypeObject) RuntimeType() typesystem.Type { return t.Class }
