package evaluator

import (
	"errors"
	"fmt"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/errs"
	"github.com/funvibe/quill/internal/exception"
	"github.com/funvibe/quill/internal/modules"
	"github.com/funvibe/quill/internal/typesystem"
)

// RuntimeCheckError is a semantic check that failed outside any frame. It
// becomes a script exception of the named type at the first frame boundary.
type RuntimeCheckError struct {
	Exception string
	Message   string
}

func (e *RuntimeCheckError) Error() string { return e.Exception + ": " + e.Message }

// KnownExceptions creates the System exceptions the runtime itself raises.
type KnownExceptions struct {
	rt *Runtime
}

// New allocates an instance of the named System exception and wraps it in a
// carrier. The instance gets its message field set; no script constructor
// runs.
func (k *KnownExceptions) New(typeName, format string, args ...interface{}) *exception.Carrier {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	t, ok := k.rt.Registry.Lookup(typeName, true)
	if !ok {
		errs.Internal("exception type %s is not loaded", typeName)
	}
	class, ok := t.(*typesystem.ClassType)
	if !ok {
		errs.Internal("exception type %s is not a class", typeName)
	}
	inst := k.rt.Heap.NewInstance(class)
	if slot, ok := inst.Fields[messageField]; ok {
		slot.Value = &String{Value: msg}
	}
	car := exception.New(inst, msg)
	inst.thrown = car
	return car
}

// Convert turns any error reaching a frame boundary into a carrier. Internal
// errors are not script faults and are raised again.
func (k *KnownExceptions) Convert(err error) *exception.Carrier {
	var (
		car   *exception.Carrier
		diag  *diagnostics.DiagnosticError
		check *RuntimeCheckError
		dup   *errs.DuplicateSymbolError
		cycle *modules.CycleError
		ie    *errs.InternalError
	)
	switch {
	case errors.As(err, &car):
		return car
	case errors.As(err, &ie):
		panic(ie)
	case errors.As(err, &diag):
		c := k.New(config.BadSyntaxExceptionName, "[%s] %s", diag.Code, diag.Message)
		c.SetLocation(diag.File, diag.Line())
		return c
	case errors.As(err, &check):
		return k.New(check.Exception, "%s", check.Message)
	case errors.As(err, &dup):
		return k.New(config.RuntimeCheckExceptionName, "%s %s is already defined.", titleKind(dup.Kind), dup.Name)
	case errors.As(err, &cycle):
		return k.New(config.CyclicDependencyExceptionName, "%s", cycle.Error())
	case errors.Is(err, modules.ErrScriptNotFound):
		return k.New(config.IOExceptionName, "Couldn't find script file. %s", trimNotFound(err))
	}
	return k.New(config.RuntimeCheckExceptionName, "%s", err.Error())
}

func titleKind(kind string) string {
	switch kind {
	case "variable":
		return "Variable"
	case "type":
		return "Type"
	}
	return kind
}

// trimNotFound keeps the "(path)" part of a not-found error.
func trimNotFound(err error) string {
	msg := err.Error()
	prefix := modules.ErrScriptNotFound.Error() + " "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return "(" + msg + ")"
}

// exceptionClass is System.Exception.
func (c *Context) exceptionClass() *typesystem.ClassType {
	t, ok := c.rt.Registry.Lookup(config.ExceptionTypeName, true)
	if !ok {
		errs.Internal("%s is not loaded", config.ExceptionTypeName)
	}
	return t.(*typesystem.ClassType)
}

// raise throws a script value. Only exception instances can be thrown. A
// cause stored in the instance links the new carrier to the cause's own.
func (c *Context) raise(v Object) *exception.Carrier {
	inst, ok := v.(*Instance)
	if !ok || !inst.Class.IsDerivedFrom(c.exceptionClass()) {
		return c.throw(config.TypeIncompatibleExceptionName,
			"Only an instance of %s can be thrown, got %s.", config.ExceptionTypeName, v.RuntimeType())
	}
	msg, _ := inst.message()
	car := exception.New(inst, msg)
	if slot, ok := inst.Fields[causeField]; ok {
		if cause, ok := slot.Value.(*Instance); ok {
			car.SetCause(cause.carrier())
		}
	}
	inst.thrown = car
	return car
}

// carrier returns the carrier the instance was last thrown with, making
// one for an exception that was never thrown.
func (i *Instance) carrier() *exception.Carrier {
	if i.thrown == nil {
		msg, _ := i.message()
		i.thrown = exception.New(i, msg)
		i.thrown.SetRaw(true)
	}
	return i.thrown
}

// payload returns the thrown instance of a carrier.
func payload(car *exception.Carrier) (*Instance, bool) {
	inst, ok := car.Payload().(*Instance)
	return inst, ok
}
