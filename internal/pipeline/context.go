package pipeline

import (
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/parser"
)

// Processor is one stage of a pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries a script from its text to its result.
type PipelineContext struct {
	// FilePath names a script on disk. When SourceCode is set too, the
	// code is used and FilePath only names it.
	FilePath   string
	SourceCode string
	Args       []string

	Source *parser.Source
	Info   *parser.AstInfo

	Value  evaluator.Object
	Errors []error
}

func NewContext(filePath, sourceCode string, args []string) *PipelineContext {
	return &PipelineContext{FilePath: filePath, SourceCode: sourceCode, Args: args}
}

func (c *PipelineContext) Failed() bool { return len(c.Errors) > 0 }

// Err returns the first recorded error.
func (c *PipelineContext) Err() error {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors[0]
}
