package evaluator

import (
	"sync/atomic"

	"github.com/funvibe/quill/internal/typesystem"
)

// Heap allocates instances and arrays. Go's collector owns the memory; the
// heap hands out identities and keeps the allocation count.
type Heap struct {
	allocated atomic.Int64
}

// NewInstance allocates an instance with every field at its default value.
// Initializers and constructors are the caller's business.
func (h *Heap) NewInstance(class *typesystem.ClassType) *Instance {
	fields := class.InstanceFields()
	inst := &Instance{
		Class:  class,
		Fields: make(map[string]*Slot, len(fields)),
		ID:     h.allocated.Add(1),
	}
	for _, f := range fields {
		inst.Fields[f.Name] = NewSlot(f.Type, defaultValue(f.Type))
	}
	return inst
}

func (h *Heap) NewArray(t *typesystem.ArrayType, values []Object) *Array {
	h.allocated.Add(1)
	arr := &Array{ArrayType: t, Elements: make([]*Slot, len(values))}
	for i, v := range values {
		arr.Elements[i] = NewSlot(t.Elem, v)
	}
	return arr
}

// Allocated returns the number of allocations made so far.
func (h *Heap) Allocated() int64 {
	return h.allocated.Load()
}
