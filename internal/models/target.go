package models

// TargetKind tags the variant held by a PathTarget.
type TargetKind int

const (
	TargetScalar TargetKind = iota
	TargetEmptyArray
	TargetEmptyObject
	TargetReference
)

// PathTarget is a parsed but not yet merged assignment right-hand side: a
// scalar literal, an empty-container marker, or an unresolved reference.
type PathTarget struct {
	Kind TargetKind
	// Scalar holds the literal when Kind is TargetScalar. It is always
	// null, bool, int, float or string.
	Scalar *Value
	// Ref holds the aliased path when Kind is TargetReference.
	Ref Path
}

// ScalarTarget wraps a scalar literal.
func ScalarTarget(v *Value) PathTarget {
	return PathTarget{Kind: TargetScalar, Scalar: v}
}

// EmptyArrayTarget marks a "[]" occurrence.
func EmptyArrayTarget() PathTarget {
	return PathTarget{Kind: TargetEmptyArray}
}

// EmptyObjectTarget marks a "{}" occurrence.
func EmptyObjectTarget() PathTarget {
	return PathTarget{Kind: TargetEmptyObject}
}

// ReferenceTarget marks an alias to another field.
func ReferenceTarget(ref Path) PathTarget {
	return PathTarget{Kind: TargetReference, Ref: ref}
}

// ToValue converts the target into a fresh Value. References have no value
// and report false.
func (t PathTarget) ToValue() (*Value, bool) {
	switch t.Kind {
	case TargetScalar:
		return t.Scalar, true
	case TargetEmptyArray:
		return NewArray(), true
	case TargetEmptyObject:
		return NewObject(), true
	}
	return nil, false
}

func (t PathTarget) String() string {
	switch t.Kind {
	case TargetEmptyArray:
		return "[]"
	case TargetEmptyObject:
		return "{}"
	case TargetReference:
		return "ref(" + t.Ref.String() + ")"
	}
	return t.Scalar.String()
}

// Assignment pairs a full path with the target assigned there.
type Assignment struct {
	Path   Path
	Target PathTarget
}

func (a Assignment) String() string {
	return a.Path.Display() + ": " + a.Target.String()
}
