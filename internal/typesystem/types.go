// Package typesystem describes the runtime types of Quill values and keeps
// the registry through which type names are resolved.
package typesystem

import (
	"strings"
	"sync"

	"github.com/funvibe/quill/internal/ast"
)

type Kind int

const (
	KindPrimitive Kind = iota
	KindClass
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// Type is a type descriptor. Name is the registry key; String is what
// diagnostics and traces print.
type Type interface {
	Name() string
	Kind() Kind
	String() string
}

type Primitive struct {
	keyword string
	name    string
}

func (p *Primitive) Name() string   { return p.name }
func (p *Primitive) Kind() Kind     { return KindPrimitive }
func (p *Primitive) String() string { return p.name }

var (
	Integer  = &Primitive{"int", "Integer"}
	Float    = &Primitive{"float", "Float"}
	Bool     = &Primitive{"bool", "Bool"}
	String   = &Primitive{"string", "String"}
	Void     = &Primitive{"void", "Void"}
	Any      = &Primitive{"var", "Any"}
	Null     = &Primitive{"null", "Null"}
	Function = &Primitive{"", "Function"}
)

var primitives = []*Primitive{Integer, Float, Bool, String, Void, Any, Null, Function}

var byKeyword = func() map[string]*Primitive {
	m := make(map[string]*Primitive)
	for _, p := range primitives {
		if p.keyword != "" {
			m[p.keyword] = p
		}
	}
	return m
}()

// PrimitiveByKeyword maps a source keyword such as int to its descriptor.
func PrimitiveByKeyword(keyword string) (*Primitive, bool) {
	p, ok := byKeyword[keyword]
	return p, ok
}

type ArrayType struct {
	Elem Type
}

func (a *ArrayType) Name() string   { return a.Elem.Name() + "[]" }
func (a *ArrayType) Kind() Kind     { return KindArray }
func (a *ArrayType) String() string { return a.Elem.String() + "[]" }

type Field struct {
	Name   string
	Type   Type
	Static bool
	Decl   *ast.FieldDeclaration
}

// Method is a callable member. Constructors are methods named after the
// class with a nil Return.
type Method struct {
	Name   string
	Params []Type
	Return Type
	Static bool
	Owner  *ClassType
	Decl   *ast.FunctionDeclaration
	Ctor   *ast.ConstructorDeclaration
	// Impl is the runtime body, owned by the evaluator.
	Impl interface{}
}

// ParamNames returns the display names used in trace entries.
func (m *Method) ParamNames() []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.String()
	}
	return names
}

type ClassType struct {
	name   string
	Parent *ClassType
	Decl   *ast.ClassDeclaration
	File   string

	Fields       []*Field
	Methods      map[string]*Method
	Constructors []*Method
}

func NewClassType(name string, parent *ClassType) *ClassType {
	return &ClassType{name: name, Parent: parent, Methods: make(map[string]*Method)}
}

func (c *ClassType) Name() string   { return c.name }
func (c *ClassType) Kind() Kind     { return KindClass }
func (c *ClassType) String() string { return c.name }

// ShortName drops the namespace: System.Exception -> Exception.
func (c *ClassType) ShortName() string {
	if i := strings.LastIndexByte(c.name, '.'); i >= 0 {
		return c.name[i+1:]
	}
	return c.name
}

// IsDerivedFrom reports whether c is other or one of its descendants.
func (c *ClassType) IsDerivedFrom(other *ClassType) bool {
	for t := c; t != nil; t = t.Parent {
		if t == other {
			return true
		}
	}
	return false
}

func (c *ClassType) FindMethod(name string) (*Method, bool) {
	for t := c; t != nil; t = t.Parent {
		if m, ok := t.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// InstanceFields lists non-static fields, ancestors first.
func (c *ClassType) InstanceFields() []*Field {
	var chain []*ClassType
	for t := c; t != nil; t = t.Parent {
		chain = append(chain, t)
	}
	var out []*Field
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range chain[i].Fields {
			if !f.Static {
				out = append(out, f)
			}
		}
	}
	return out
}

// Constructor picks the constructor taking argc arguments.
func (c *ClassType) Constructor(argc int) (*Method, bool) {
	for _, m := range c.Constructors {
		if len(m.Params) == argc {
			return m, true
		}
	}
	return nil, false
}

// TypeValue is the runtime slot of a registry entry. Classes keep their
// static fields here.
type TypeValue struct {
	mu      sync.RWMutex
	statics map[string]interface{}
}

func NewTypeValue() *TypeValue {
	return &TypeValue{statics: make(map[string]interface{})}
}

func (v *TypeValue) Get(name string) (interface{}, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.statics[name]
	return val, ok
}

func (v *TypeValue) Set(name string, val interface{}) {
	v.mu.Lock()
	v.statics[name] = val
	v.mu.Unlock()
}

func (v *TypeValue) Has(name string) bool {
	_, ok := v.Get(name)
	return ok
}
