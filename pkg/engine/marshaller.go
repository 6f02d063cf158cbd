package engine

import (
	"fmt"
	"reflect"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/typesystem"
)

var (
	objectType = reflect.TypeOf((*evaluator.Object)(nil)).Elem()
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// Marshaller handles conversion between Go and Quill values.
type Marshaller struct {
	rt *evaluator.Runtime
}

func NewMarshaller(rt *evaluator.Runtime) *Marshaller {
	return &Marshaller{rt: rt}
}

// ToValue converts a Go value to a Quill Object. Functions become
// builtins that convert their arguments and results on each call.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return evaluator.NULL, nil
	}
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return &evaluator.Integer{Value: int64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Float{Value: v.Float()}, nil
	case reflect.Bool:
		return &evaluator.Boolean{Value: v.Bool()}, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		return m.sliceToArray(v)
	case reflect.Func:
		return m.funcToBuiltin(v), nil
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		return m.ToValue(v.Elem().Interface())
	}
	return nil, fmt.Errorf("cannot convert %T to a Quill value", val)
}

// elemType maps a Go element type to the Quill type of an array element.
func elemType(t reflect.Type) typesystem.Type {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return typesystem.Integer
	case reflect.Float32, reflect.Float64:
		return typesystem.Float
	case reflect.Bool:
		return typesystem.Bool
	case reflect.String:
		return typesystem.String
	}
	return typesystem.Any
}

func (m *Marshaller) sliceToArray(v reflect.Value) (*evaluator.Array, error) {
	elements := make([]evaluator.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = val
	}
	at := m.rt.Registry.ArrayTypeFor(elemType(v.Type().Elem()))
	return m.rt.Heap.NewArray(at, elements), nil
}

// FromValue converts a Quill Object to a Go value.
// targetType is optional; if provided, tries to convert to that type.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}
	if targetType == objectType {
		return obj, nil
	}

	switch o := obj.(type) {
	case *evaluator.Integer:
		if targetType != nil {
			switch targetType.Kind() {
			case reflect.Float32, reflect.Float64:
				return reflect.ValueOf(float64(o.Value)).Convert(targetType).Interface(), nil
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
				return reflect.ValueOf(o.Value).Convert(targetType).Interface(), nil
			}
		}
		return o.Value, nil
	case *evaluator.Float:
		if targetType != nil && targetType.Kind() == reflect.Float32 {
			return float32(o.Value), nil
		}
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.Array:
		return m.arrayToSlice(o, targetType)
	case *evaluator.Instance:
		return m.instanceToMap(o)
	case *evaluator.Null:
		return nil, nil
	}
	return obj, nil
}

func (m *Marshaller) arrayToSlice(a *evaluator.Array, targetType reflect.Type) (interface{}, error) {
	elem := reflect.TypeOf((*interface{})(nil)).Elem()
	if targetType != nil && targetType.Kind() == reflect.Slice {
		elem = targetType.Elem()
	}
	slice := reflect.MakeSlice(reflect.SliceOf(elem), 0, len(a.Elements))
	for i, slot := range a.Elements {
		val, err := m.FromValue(slot.Value, elem)
		if err != nil {
			return nil, err
		}
		rv, err := assignable(val, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		slice = reflect.Append(slice, rv)
	}
	return slice.Interface(), nil
}

func (m *Marshaller) instanceToMap(inst *evaluator.Instance) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(inst.Fields))
	for name, slot := range inst.Fields {
		val, err := m.FromValue(slot.Value, nil)
		if err != nil {
			return nil, err
		}
		out[name] = val
	}
	return out, nil
}

// assignable wraps val as a reflect.Value of type t, converting when Go
// allows it.
func assignable(val interface{}, t reflect.Type) (reflect.Value, error) {
	if val == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(val)
	switch {
	case rv.Type().AssignableTo(t):
		return rv, nil
	case rv.Type().ConvertibleTo(t) && (t.Kind() != reflect.String || rv.Kind() == reflect.String):
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", rv.Type(), t)
}

// funcToBuiltin wraps a Go function. A trailing error result is raised as
// a System.Exception; the first other result is the call's value.
func (m *Marshaller) funcToBuiltin(fn reflect.Value) *evaluator.Builtin {
	fnType := fn.Type()
	name := fnType.String()
	return &evaluator.Builtin{Name: name, Fn: func(ctx *evaluator.Context, args []evaluator.Object) (evaluator.Object, error) {
		numIn := fnType.NumIn()
		variadic := fnType.IsVariadic()
		if (variadic && len(args) < numIn-1) || (!variadic && len(args) != numIn) {
			return nil, ctx.Throw(config.IllegalArgumentExceptionName,
				"Host function expects %d arguments, got %d.", numIn, len(args))
		}

		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			var target reflect.Type
			if variadic && i >= numIn-1 {
				target = fnType.In(numIn - 1).Elem()
			} else {
				target = fnType.In(i)
			}
			val, err := m.FromValue(arg, target)
			if err != nil {
				return nil, ctx.Throw(config.IllegalArgumentExceptionName, "Argument %d: %s.", i+1, err)
			}
			rv, err := assignable(val, target)
			if err != nil {
				return nil, ctx.Throw(config.IllegalArgumentExceptionName, "Argument %d: %s.", i+1, err)
			}
			in[i] = rv
		}

		out := fn.Call(in)
		if n := len(out); n > 0 && fnType.Out(n-1) == errorType {
			if err, _ := out[n-1].Interface().(error); err != nil {
				return nil, ctx.Throw(config.ExceptionTypeName, "%s", err.Error())
			}
			out = out[:n-1]
		}
		if len(out) == 0 {
			return evaluator.VOID, nil
		}
		res, err := m.ToValue(out[0].Interface())
		if err != nil {
			return nil, ctx.Throw(config.TypeIncompatibleExceptionName, "Host result: %s.", err)
		}
		return res, nil
	}}
}
