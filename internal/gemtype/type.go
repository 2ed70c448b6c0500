// Package gemtype implements the nominal type descriptors used throughout
// the middle-end. Types are identified purely by their display string, the
// same way gem/ir.py's Type dataclass compares by its `display` field.
package gemtype

import "fmt"

// Type is a nominal type descriptor. Equality is always by Display.
type Type struct {
	Display string
}

func (t Type) String() string { return t.Display }

// Equal reports whether two types denote the same nominal type.
func (t Type) Equal(other Type) bool { return t.Display == other.Display }

// New builds a plain (non-reference) type with the given display name.
func New(display string) Type { return Type{Display: display} }

// Built-in type names pre-installed into any root type map.
const (
	Int      = "int"
	Float    = "float"
	String   = "string"
	Bool     = "bool"
	Nil      = "nil"
	Any      = "any"
	Pointer  = "pointer"
	Function = "function"
)

// Builtins returns the fixed set of built-in types installed into a fresh
// root scope before analysis begins.
func Builtins() []Type {
	return []Type{
		New(Int), New(Float), New(String), New(Bool),
		New(Nil), New(Any), New(Pointer), New(Function),
	}
}

// Reference wraps another type as a reference. Display is derived so that
// Reference(T) never collides with a plain T in a TypeMap keyed by display
// string.
type Reference struct {
	Inner Type
}

// Type renders the reference as a gemtype.Type so it can be stored and
// compared alongside plain types (e.g. as a Param's or Symbol's type).
func (r Reference) Type() Type {
	return Type{Display: fmt.Sprintf("&%s", r.Inner.Display)}
}

func (r Reference) String() string { return r.Type().Display }

// IsReference reports whether a display string denotes a ReferenceType, and
// if so returns the dereferenced inner type.
func IsReference(t Type) (Type, bool) {
	if len(t.Display) > 1 && t.Display[0] == '&' {
		return Type{Display: t.Display[1:]}, true
	}
	return Type{}, false
}

// Deref returns the inner type if t is a reference, otherwise t itself —
// used by attribute desugaring, which dereferences the receiver's type
// before looking up "{type}.{attr}".
func Deref(t Type) Type {
	if inner, ok := IsReference(t); ok {
		return inner
	}
	return t
}
