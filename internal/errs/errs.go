// Package errs holds the engine-level error types shared by the runtime
// packages: symbol clashes and internal invariant faults.
package errs

import (
	"fmt"
)

// DuplicateSymbolError is returned when a name is declared twice in the same
// scope or a type is registered twice.
type DuplicateSymbolError struct {
	Kind string // "variable" or "type"
	Name string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("%s %q is already defined", e.Kind, e.Name)
}

// InternalError is an engine bug. It is raised with panic and recovered only
// at the engine boundary; scripts can never catch it.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return "internal error: " + e.Message }

// Internal panics with an InternalError.
func Internal(format string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(format, args...)})
}

// RecoverInternal converts a recovered InternalError into an error. Any other
// panic value is re-raised.
func RecoverInternal(r interface{}) error {
	if r == nil {
		return nil
	}
	if ie, ok := r.(*InternalError); ok {
		return ie
	}
	panic(r)
}
