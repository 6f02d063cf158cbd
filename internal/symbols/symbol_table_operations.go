package symbols

import (
	"github.com/funvibe/quill/internal/errs"
)

func (t *Table[V]) EnterScope() {
	t.scopes = append(t.scopes, newScope[V]())
}

func (t *Table[V]) ExitScope() {
	if len(t.scopes) == 0 {
		errs.Internal("exit from an empty symbol table")
	}
	t.scopes[len(t.scopes)-1] = nil
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Declare adds name to the innermost scope. Names in outer scopes may be
// shadowed; a second declaration in the same scope fails.
func (t *Table[V]) Declare(name string, v V) error {
	top := t.top()
	if _, exists := top.vars[name]; exists {
		return &errs.DuplicateSymbolError{Kind: "variable", Name: name}
	}
	top.vars[name] = v
	top.order = append(top.order, name)
	return nil
}

// Lookup searches scopes innermost first. With tryGlobal set, a miss falls
// through to the outermost scope of the global table and then to the host
// bindings. Block scopes of the global table stay private to it.
func (t *Table[V]) Lookup(name string, tryGlobal bool) (V, bool) {
	if v, ok := t.lookupLocal(name); ok {
		return v, true
	}
	var zero V
	if !tryGlobal {
		return zero, false
	}
	g := t.Globals()
	if g == nil {
		return zero, false
	}
	if g != t && len(g.scopes) > 0 {
		if v, ok := g.scopes[0].vars[name]; ok {
			return v, true
		}
	}
	v, ok := g.external[name]
	return v, ok
}

func (t *Table[V]) lookupLocal(name string) (V, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if v, ok := t.scopes[i].vars[name]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// BindExternal registers a host binding. Only the global table has them.
func (t *Table[V]) BindExternal(name string, v V) {
	if !t.IsGlobal() {
		errs.Internal("external binding %q on a frame table", name)
	}
	t.external[name] = v
}

func (t *Table[V]) External(name string) (V, bool) {
	var zero V
	if !t.IsGlobal() {
		return zero, false
	}
	v, ok := t.external[name]
	return v, ok
}

// Traverse visits every variable with its scope level, 0 being the
// outermost. Within a scope names come in declaration order. Returning false
// from fn stops the walk.
func (t *Table[V]) Traverse(fn func(level int, name string, v V) bool, topDown bool) {
	n := len(t.scopes)
	for i := 0; i < n; i++ {
		level := i
		if topDown {
			level = n - 1 - i
		}
		s := t.scopes[level]
		for _, name := range s.order {
			if !fn(level, name, s.vars[name]) {
				return
			}
		}
	}
}

// ImportFrom declares the visible variables of src in the innermost scope of
// t, skipping names listed in exclude and names t already declares there.
// Shadowed variables of src are not copied.
func (t *Table[V]) ImportFrom(src *Table[V], exclude ...string) {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	type binding struct {
		name string
		v    V
	}
	var visible []binding
	src.Traverse(func(_ int, name string, v V) bool {
		if !skip[name] {
			skip[name] = true
			visible = append(visible, binding{name, v})
		}
		return true
	}, true)
	top := t.top()
	for i := len(visible) - 1; i >= 0; i-- {
		b := visible[i]
		if _, exists := top.vars[b.name]; !exists {
			top.vars[b.name] = b.v
			top.order = append(top.order, b.name)
		}
	}
}

func (t *Table[V]) top() *scope[V] {
	if len(t.scopes) == 0 {
		errs.Internal("symbol table has no scope")
	}
	return t.scopes[len(t.scopes)-1]
}
