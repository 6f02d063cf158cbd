// Package symbols implements the variable tables of a frame.
//
// A Table is an ordered stack of scopes. Every call frame owns one; the
// module's global frame owns the global table, which additionally keeps a
// flat map of bindings supplied by the host.
package symbols

type scope[V any] struct {
	vars  map[string]V
	order []string
}

func newScope[V any]() *scope[V] {
	return &scope[V]{vars: make(map[string]V)}
}

type Table[V any] struct {
	scopes   []*scope[V]
	globals  *Table[V]
	external map[string]V
}

// NewGlobalTable returns the table of a module's global frame.
func NewGlobalTable[V any]() *Table[V] {
	t := &Table[V]{external: make(map[string]V)}
	t.EnterScope()
	return t
}

// NewTable returns a frame table that falls back to globals when a lookup
// asks for it.
func NewTable[V any](globals *Table[V]) *Table[V] {
	t := &Table[V]{globals: globals}
	t.EnterScope()
	return t
}

func (t *Table[V]) IsGlobal() bool { return t.external != nil }

// Globals returns the table consulted by Lookup(name, true). For the global
// table that is the table itself.
func (t *Table[V]) Globals() *Table[V] {
	if t.IsGlobal() {
		return t
	}
	return t.globals
}

func (t *Table[V]) NestLevel() int { return len(t.scopes) }
