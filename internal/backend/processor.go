package backend

import (
	"github.com/funvibe/quill/internal/pipeline"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.Info == nil || ctx.Failed() {
		return ctx
	}
	result, err := p.Backend.Run(ctx)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Value = result
	return ctx
}
