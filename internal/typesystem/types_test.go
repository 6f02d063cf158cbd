package typesystem

import "testing"

func TestIsAssignable(t *testing.T) {
	r := NewRegistry()
	base := NewClassType("Base", nil)
	derived := NewClassType("Derived", base)
	other := NewClassType("Other", nil)
	ints := r.ArrayTypeFor(Integer)

	tests := []struct {
		name   string
		target Type
		value  Type
		want   bool
	}{
		{"same primitive", Integer, Integer, true},
		{"int widens to float", Float, Integer, true},
		{"float does not narrow", Integer, Float, false},
		{"any takes all", Any, ints, true},
		{"null string", String, Null, true},
		{"null int", Integer, Null, false},
		{"derived to base", base, derived, true},
		{"base to derived", derived, base, false},
		{"unrelated", base, other, false},
		{"null class", base, Null, true},
		{"array exact", ints, r.ArrayTypeFor(Integer), true},
		{"array element differs", ints, r.ArrayTypeFor(Float), false},
		{"array of any", r.ArrayTypeFor(Any), ints, true},
		{"null array", ints, Null, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAssignable(tt.target, tt.value); got != tt.want {
				t.Errorf("IsAssignable(%s, %s) = %v, want %v", tt.target, tt.value, got, tt.want)
			}
		})
	}
}

func TestClassMembers(t *testing.T) {
	base := NewClassType("System.Exception", nil)
	base.Fields = append(base.Fields, &Field{Name: "message", Type: String})
	base.Methods["getMessage"] = &Method{Name: "getMessage", Return: String, Owner: base}

	derived := NewClassType("App.Error", base)
	derived.Fields = append(derived.Fields,
		&Field{Name: "code", Type: Integer},
		&Field{Name: "count", Type: Integer, Static: true})

	if m, ok := derived.FindMethod("getMessage"); !ok || m.Owner != base {
		t.Errorf("inherited method not found")
	}
	fields := derived.InstanceFields()
	if len(fields) != 2 || fields[0].Name != "message" || fields[1].Name != "code" {
		t.Errorf("instance fields = %v", fields)
	}
	if derived.ShortName() != "Error" || base.ShortName() != "Exception" {
		t.Errorf("short names: %s, %s", derived.ShortName(), base.ShortName())
	}
}

func TestPrimitiveByKeyword(t *testing.T) {
	tests := map[string]*Primitive{
		"int": Integer, "float": Float, "bool": Bool,
		"string": String, "void": Void, "var": Any,
	}
	for kw, want := range tests {
		if got, ok := PrimitiveByKeyword(kw); !ok || got != want {
			t.Errorf("%s -> %v", kw, got)
		}
	}
	if _, ok := PrimitiveByKeyword("Integer"); ok {
		t.Errorf("display names are not keywords")
	}
}

func TestMethodParamNames(t *testing.T) {
	r := NewRegistry()
	m := &Method{Name: "f", Params: []Type{Integer, r.ArrayTypeFor(String)}}
	got := m.ParamNames()
	if len(got) != 2 || got[0] != "Integer" || got[1] != "String[]" {
		t.Errorf("ParamNames = %v", got)
	}
}
