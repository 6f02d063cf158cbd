package typesystem

// IsAssignable reports whether a value of type value may be stored in a
// slot declared as target.
func IsAssignable(target, value Type) bool {
	if target == nil || target == Any || target == value {
		return true
	}
	switch t := target.(type) {
	case *Primitive:
		switch t {
		case Float:
			return value == Integer
		case String:
			return value == Null
		}
		return false
	case *ClassType:
		if value == Null {
			return true
		}
		vc, ok := value.(*ClassType)
		return ok && vc.IsDerivedFrom(t)
	case *ArrayType:
		if value == Null {
			return true
		}
		va, ok := value.(*ArrayType)
		if !ok {
			return false
		}
		// Element types must match exactly; arrays are mutable.
		return va.Elem == t.Elem || t.Elem == Any
	}
	return false
}

// IsNumeric reports whether t takes part in arithmetic.
func IsNumeric(t Type) bool {
	return t == Integer || t == Float
}
