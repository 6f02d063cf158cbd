// Package backend provides an interface for different execution backends.
package backend

import (
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the script of the pipeline context and returns its value
	Run(ctx *pipeline.PipelineContext) (evaluator.Object, error)

	// Name returns the backend name for display
	Name() string
}
