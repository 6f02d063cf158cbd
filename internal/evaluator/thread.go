package evaluator

import (
	"github.com/google/uuid"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/errs"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

// FrameInfo describes a frame for inspection and traces.
type FrameInfo struct {
	Name   string
	Params []string // nil for script and initializer frames
	File   string
}

// Frame is the per-call state: a fresh scope, the namespaces type names are
// resolved against, and the receiver of a method call.
type Frame struct {
	Scope      *symbols.Table[*Slot]
	Namespaces []string
	Info       FrameInfo
	This       *Instance
	Class      *typesystem.ClassType
}

// defaultNamespaces lets scripts name System classes without the prefix.
var defaultNamespaces = []string{"", config.SystemNamespace}

// Thread is one script thread. Its frame stack is never shared, so it is not
// locked.
type Thread struct {
	ID     uuid.UUID
	rt     *Runtime
	frames []*Frame
}

func (th *Thread) Runtime() *Runtime { return th.rt }

func (th *Thread) push(f *Frame) error {
	if len(th.frames) >= th.rt.maxCallDepth() {
		return th.rt.Exceptions.New(config.StackOverflowExceptionName,
			"Stack overflow: more than %d nested calls.", th.rt.maxCallDepth())
	}
	th.frames = append(th.frames, f)
	th.rt.debug("frame push", "thread", th.ID.String(), "frame", f.Info.Name, "depth", len(th.frames))
	return nil
}

func (th *Thread) pop() {
	n := len(th.frames)
	if n == 0 {
		errs.Internal("pop from an empty frame stack")
	}
	f := th.frames[n-1]
	th.frames[n-1] = nil
	th.frames = th.frames[:n-1]
	th.rt.debug("frame pop", "thread", th.ID.String(), "frame", f.Info.Name, "depth", n-1)
}

func (th *Thread) Depth() int { return len(th.frames) }

// Current returns the top frame, or nil.
func (th *Thread) Current() *Frame {
	if len(th.frames) == 0 {
		return nil
	}
	return th.frames[len(th.frames)-1]
}

// FrameInfoFromTop describes the i-th frame counting from the top, 0 being
// the running one.
func (th *Thread) FrameInfoFromTop(i int) (FrameInfo, bool) {
	if i < 0 || i >= len(th.frames) {
		return FrameInfo{}, false
	}
	return th.frames[len(th.frames)-1-i].Info, true
}

// Unwind drops frames a non-reentrant script kept for inspection.
func (th *Thread) Unwind() {
	for len(th.frames) > 0 {
		th.pop()
	}
}

// Close deregisters the thread from its runtime.
func (th *Thread) Close() {
	th.rt.threads.Delete(th.ID)
	th.rt.debug("thread closed", "thread", th.ID.String())
}

// context builds the view of the top frame.
func (th *Thread) context() *Context {
	f := th.Current()
	if f == nil {
		errs.Internal("no frame on thread %s", th.ID)
	}
	return &Context{rt: th.rt, th: th, fr: f}
}

// runFrame pushes f, runs body in it and pops it again. A fault leaving the
// frame gets one trace entry naming the frame.
func (th *Thread) runFrame(f *Frame, body func(*Context) (Object, error)) (Object, error) {
	if err := th.push(f); err != nil {
		return nil, err
	}
	result, err := func() (Object, error) {
		defer th.pop()
		return body(th.context())
	}()
	if err != nil {
		c := th.rt.Exceptions.Convert(err)
		file, line := c.Location()
		if line == config.UnsetLine {
			file = f.Info.File
		}
		c.AddTrace(f.Info.Name, f.Info.Params, file, line)
		return nil, c
	}
	return result, nil
}
