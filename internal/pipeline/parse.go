package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/funvibe/quill/internal/modules"
	"github.com/funvibe/quill/internal/parser"
)

// ParseProcessor turns the script text into an AstInfo.
type ParseProcessor struct {
	ProcessDirectives bool
	// Eager forces the parse and records a syntax fault in the context.
	// Otherwise the parse runs when the tree is first needed.
	Eager bool
}

func (p *ParseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	if ctx.Source == nil {
		src, err := p.open(ctx)
		if err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
		ctx.Source = src
	}
	ctx.Source.SetProcessDirectives(p.ProcessDirectives)

	info, err := ctx.Source.Parse(p.Eager, p.Eager)
	ctx.Info = info
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}

func (p *ParseProcessor) open(ctx *PipelineContext) (*parser.Source, error) {
	switch {
	case ctx.SourceCode != "" && ctx.FilePath != "":
		return parser.New(ctx.FilePath, strings.NewReader(ctx.SourceCode))
	case ctx.FilePath != "":
		src, err := parser.Open(ctx.FilePath)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (%s)", modules.ErrScriptNotFound, ctx.FilePath)
		}
		return src, err
	}
	return parser.NewMemory(ctx.SourceCode), nil
}
