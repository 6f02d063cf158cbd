package evaluator

import (
	"github.com/funvibe/quill/internal/typesystem"
)

type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	FLOAT_OBJ    = "FLOAT"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	NULL_OBJ     = "NULL"
	VOID_OBJ     = "VOID"
	ARRAY_OBJ    = "ARRAY"
	INSTANCE_OBJ = "INSTANCE"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	TYPE_OBJ     = "TYPE"

	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
)

type Object interface {
	Type() ObjectType
	Inspect() string
	RuntimeType() typesystem.Type
}

// Slot is a mutable value cell with the type it was declared with. Scopes,
// instance fields, array elements and static fields all hold slots.
type Slot struct {
	Type  typesystem.Type
	Value Object
}

func NewSlot(t typesystem.Type, v Object) *Slot {
	return &Slot{Type: t, Value: v}
}

// Argument is a value passed to a call. The caller builds it; parameter
// binding consumes it.
type Argument struct {
	Name string
	Slot *Slot
}
