package evaluator

import (
	"strconv"

	"github.com/funvibe/quill/internal/typesystem"
)

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType             { return INTEGER_OBJ }
func (i *Integer) Inspect() string              { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) RuntimeType() typesystem.Type { return typesystem.Integer }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType             { return FLOAT_OBJ }
func (f *Float) RuntimeType() typesystem.Type { return typesystem.Float }

func (f *Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'f', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'N' || c == 'I' {
			return s
		}
	}
	return s + ".0"
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType             { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string              { return strconv.FormatBool(b.Value) }
func (b *Boolean) RuntimeType() typesystem.Type { return typesystem.Bool }

type String struct {
	Value string
}

func (s *String) Type() ObjectType             { return STRING_OBJ }
func (s *String) Inspect() string              { return s.Value }
func (s *String) RuntimeType() typesystem.Type { return typesystem.String }

type Null struct{}

func (n *Null) Type() ObjectType             { return NULL_OBJ }
func (n *Null) Inspect() string              { return "null" }
func (n *Null) RuntimeType() typesystem.Type { return typesystem.Null }

// Void is what statements and void functions produce. It is never stored.
type Void struct{}

func (v *Void) Type() ObjectType             { return VOID_OBJ }
func (v *Void) Inspect() string              { return "" }
func (v *Void) RuntimeType() typesystem.Type { return typesystem.Void }

var (
	NULL  = &Null{}
	VOID  = &Void{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// defaultValue is what a declared but unassigned slot of type t holds.
func defaultValue(t typesystem.Type) Object {
	switch t {
	case typesystem.Integer:
		return &Integer{}
	case typesystem.Float:
		return &Float{}
	case typesystem.Bool:
		return FALSE
	}
	return NULL
}
