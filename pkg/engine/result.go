package engine

import (
	"errors"

	"github.com/funvibe/quill/internal/errs"
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/exception"
)

// Exit statuses of a run.
const (
	ExitOK       = 0
	ExitFault    = 1
	ExitInternal = 3
)

// Result is the outcome of one run: a value, or the fault that ended it.
type Result struct {
	Value evaluator.Object
	Err   error
}

func (r Result) OK() bool { return r.Err == nil }

// Fault returns the script fault, if the run ended with one.
func (r Result) Fault() (*exception.Carrier, bool) {
	var car *exception.Carrier
	if errors.As(r.Err, &car) {
		return car, true
	}
	return nil, false
}

func (r Result) Internal() bool {
	var ie *errs.InternalError
	return errors.As(r.Err, &ie)
}

func (r Result) ExitStatus() int {
	switch {
	case r.Err == nil:
		return ExitOK
	case r.Internal():
		return ExitInternal
	}
	return ExitFault
}

// Report renders the error for a user: the full trace of a script fault,
// or the message of anything else. It is empty for a successful run.
func (r Result) Report() string {
	if r.Err == nil {
		return ""
	}
	if car, ok := r.Fault(); ok {
		return car.Render(0, true)
	}
	return r.Err.Error() + "\n"
}
