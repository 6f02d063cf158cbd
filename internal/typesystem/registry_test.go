package typesystem

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/quill/internal/errs"
)

func TestTwoPhaseVisibility(t *testing.T) {
	r := NewRegistry()
	shape := NewClassType("Shape", nil)
	if err := r.Register("Shape", shape, false); err != nil {
		t.Fatal(err)
	}

	if _, ok := r.Lookup("Shape", true); ok {
		t.Errorf("unfinalized type visible to ordinary lookup")
	}
	if got, ok := r.Lookup("Shape", false); !ok || got != shape {
		t.Errorf("unfinalized type hidden from loader lookup")
	}
	if _, ok := r.Value("Shape"); ok {
		t.Errorf("unfinalized type exposes its value slot")
	}

	r.Finalize("Shape")
	if got, ok := r.Lookup("Shape", true); !ok || got != shape {
		t.Errorf("finalized type not visible")
	}
	if _, ok := r.Value("Shape"); !ok {
		t.Errorf("finalized type has no value slot")
	}
}

func TestEvictUnfinalized(t *testing.T) {
	r := NewRegistry()
	r.Register("A", NewClassType("A", nil), false)
	r.Register("B", NewClassType("B", nil), false)
	r.EvictUnfinalized("A", "B", "Missing")
	if _, ok := r.Lookup("A", false); ok {
		t.Errorf("A survived eviction")
	}
	// The name is free again.
	if err := r.Register("A", NewClassType("A", nil), true); err != nil {
		t.Errorf("re-register after eviction: %v", err)
	}
}

func TestEvictFinalizedIsInternal(t *testing.T) {
	r := NewRegistry()
	r.Register("A", NewClassType("A", nil), true)

	defer func() {
		err := errs.RecoverInternal(recover())
		if err == nil {
			t.Fatalf("expected an internal error")
		}
		if _, ok := r.Lookup("A", true); !ok {
			t.Errorf("finalized type was removed")
		}
	}()
	r.EvictUnfinalized("A")
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	var dup *errs.DuplicateSymbolError
	if err := r.Register("Integer", NewClassType("Integer", nil), true); !errors.As(err, &dup) {
		t.Errorf("primitive name should be taken, got %v", err)
	}
	r.Register("A", NewClassType("A", nil), false)
	if err := r.Register("A", NewClassType("A", nil), false); !errors.As(err, &dup) || dup.Name != "A" {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestStampsIncrease(t *testing.T) {
	r := NewRegistry()
	r.Register("A", NewClassType("A", nil), true)
	r.Register("B", NewClassType("B", nil), true)
	a, _ := r.Entry("A")
	b, _ := r.Entry("B")
	if a.Stamp >= b.Stamp {
		t.Errorf("stamps not monotonic: %d, %d", a.Stamp, b.Stamp)
	}
	i, _ := r.Entry("Integer")
	if i.Stamp >= a.Stamp {
		t.Errorf("primitives should be registered first")
	}
}

func TestArrayTypeFor(t *testing.T) {
	r := NewRegistry()
	a := r.ArrayTypeFor(Integer)
	if b := r.ArrayTypeFor(Integer); a != b {
		t.Errorf("array types not interned")
	}
	if got := a.String(); got != "Integer[]" {
		t.Errorf("String() = %q", got)
	}
	nested := r.ArrayTypeFor(a)
	if nested.Name() != "Integer[][]" || r.ArrayTypeFor(r.ArrayTypeFor(Integer)) != nested {
		t.Errorf("nested array not interned: %s", nested.Name())
	}
	if _, ok := r.Lookup("Integer[]", false); ok {
		t.Errorf("array types must not enter the main table")
	}
}

func TestConcurrentLookup(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Lookup("Integer", true)
				r.ArrayTypeFor(String)
			}
		}()
	}
	r.Register("C", NewClassType("C", nil), true)
	wg.Wait()
}

func TestNames(t *testing.T) {
	r := NewRegistry()
	r.Register("Zed", NewClassType("Zed", nil), false)
	want := []string{"Any", "Bool", "Float", "Function", "Integer", "Null", "String", "Void", "Zed"}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}
