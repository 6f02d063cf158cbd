package typesystem

import (
	"sort"
	"sync"

	"github.com/funvibe/quill/internal/errs"
)

type entry struct {
	typ       Type
	value     *TypeValue
	finalized bool
	stamp     uint64
}

// EntryInfo is a snapshot of a registry entry.
type EntryInfo struct {
	Type      Type
	Value     *TypeValue
	Finalized bool
	Stamp     uint64
}

// Registry is the global type table. Types are registered unfinalized while
// a script's declarations are loaded and only become visible to ordinary
// lookups once the whole batch is finalized.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	stamp   uint64

	arraysMu sync.Mutex
	arrays   map[string]*ArrayType
}

// NewRegistry returns a registry holding the finalized primitives.
func NewRegistry() *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		arrays:  make(map[string]*ArrayType),
	}
	for _, p := range primitives {
		r.stamp++
		r.entries[p.Name()] = &entry{typ: p, value: NewTypeValue(), finalized: true, stamp: r.stamp}
	}
	return r
}

func (r *Registry) Register(name string, t Type, finalized bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return &errs.DuplicateSymbolError{Kind: "type", Name: name}
	}
	r.stamp++
	r.entries[name] = &entry{typ: t, value: NewTypeValue(), finalized: finalized, stamp: r.stamp}
	return nil
}

func (r *Registry) Finalize(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		e, ok := r.entries[name]
		if !ok {
			errs.Internal("finalize of unknown type %q", name)
		}
		e.finalized = true
	}
}

// EvictUnfinalized rolls back a failed batch. Names that are not registered
// are ignored; a finalized name is an engine bug.
func (r *Registry) EvictUnfinalized(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		e, ok := r.entries[name]
		if !ok {
			continue
		}
		if e.finalized {
			errs.Internal("Removed a finalized type %q.", name)
		}
		delete(r.entries, name)
	}
}

func (r *Registry) Lookup(name string, requireFinalized bool) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok || (requireFinalized && !e.finalized) {
		return nil, false
	}
	return e.typ, true
}

// Entry returns a snapshot of the entry, finalized or not.
func (r *Registry) Entry(name string) (EntryInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return EntryInfo{}, false
	}
	return EntryInfo{Type: e.typ, Value: e.value, Finalized: e.finalized, Stamp: e.stamp}, true
}

// Value returns the runtime slot of a finalized type.
func (r *Registry) Value(name string) (*TypeValue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok || !e.finalized {
		return nil, false
	}
	return e.value, true
}

// ArrayTypeFor interns array types by element name. The cache is separate
// from the main table and never evicted.
func (r *Registry) ArrayTypeFor(elem Type) *ArrayType {
	r.arraysMu.Lock()
	defer r.arraysMu.Unlock()
	key := elem.Name()
	if a, ok := r.arrays[key]; ok {
		return a
	}
	a := &ArrayType{Elem: elem}
	r.arrays[key] = a
	return a
}

// Names lists every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
