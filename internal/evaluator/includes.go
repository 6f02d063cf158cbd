package evaluator

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/modules"
)

// includeResult is what a finished include leaves behind for later include
// sites: the global functions it declared.
type includeResult struct {
	path      string
	names     []string
	functions map[string]*Slot
}

const includeTraceName = "on including"

// include runs an included script once per engine and copies its global
// functions into the including script. A fault inside the included script
// gets an entry naming the included file before the include site is
// recorded.
func (c *Context) include(inc *ast.IncludeStatement) error {
	line := inc.Token.Line
	path, err := c.rt.Modules.Resolve(c.File(), inc.Path)
	if err != nil {
		return c.located(err, line)
	}
	cached, done, err := c.rt.Modules.BeginInclude(path)
	if err != nil {
		return c.located(err, line)
	}
	if done {
		return c.importInclude(cached.(*includeResult), line)
	}

	res, err := c.runInclude(path)
	c.rt.Modules.EndInclude(path, res, err == nil)
	if err != nil {
		car := c.rt.Exceptions.Convert(err)
		file, at := car.Location()
		if at == config.UnsetLine {
			file = path
		}
		car.AddTrace(includeTraceName, nil, file, at)
		car.SetLocationIfUnset(c.File(), line)
		return car
	}
	return c.importInclude(res, line)
}

func (c *Context) runInclude(path string) (*includeResult, error) {
	src, err := c.rt.Modules.Source(path)
	if err != nil {
		return nil, err
	}
	src.SetProcessDirectives(c.rt.Config.ProcessDirectives)
	info, err := src.Parse(false, false)
	if err != nil {
		return nil, err
	}
	child := &GlobalScriptExecutable{
		Info:     info,
		Options:  RunOptions{Mode: modules.Accumulative},
		included: true,
	}
	if _, err := child.Execute(c.th, nil); err != nil {
		return nil, err
	}

	res := &includeResult{path: path, functions: make(map[string]*Slot)}
	for _, name := range child.script.Functions {
		if slot, ok := child.globals.Lookup(name, false); ok {
			res.names = append(res.names, name)
			res.functions[name] = slot
		}
	}
	c.rt.debug("include finished", "path", path, "functions", len(res.names))
	return res, nil
}

// importInclude declares copies of the included functions. A name the
// including script already has is left alone.
func (c *Context) importInclude(res *includeResult, line int) error {
	globals := c.fr.Scope.Globals()
	for _, name := range res.names {
		if _, exists := globals.Lookup(name, false); exists {
			continue
		}
		slot := res.functions[name]
		if err := globals.Declare(name, NewSlot(slot.Type, slot.Value)); err != nil {
			return c.located(err, line)
		}
	}
	return nil
}
