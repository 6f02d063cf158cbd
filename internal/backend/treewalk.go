package backend

import (
	"fmt"

	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/pipeline"
)

// TreeWalkBackend runs scripts on the tree-walking evaluator.
type TreeWalkBackend struct {
	Runtime *evaluator.Runtime
	Options evaluator.RunOptions
	// Thread runs the scripts when set. Otherwise each run gets a thread of
	// its own.
	Thread *evaluator.Thread
}

// NewTreeWalk creates a new tree-walk backend
func NewTreeWalk(rt *evaluator.Runtime, opts evaluator.RunOptions) *TreeWalkBackend {
	return &TreeWalkBackend{Runtime: rt, Options: opts}
}

// Run executes the script as a global script with the context's arguments.
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (evaluator.Object, error) {
	if ctx.Info == nil {
		return nil, fmt.Errorf("no script to execute")
	}
	opts := b.Options
	opts.Args = ctx.Args

	th := b.Thread
	if th == nil {
		th = b.Runtime.NewThread()
		defer th.Close()
	}
	return b.Runtime.RunScript(th, ctx.Info, opts)
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}
