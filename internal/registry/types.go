// Package registry - type descriptors for the generated wrapper.
package registry

// Kind classifies a TypeDescriptor.
type Kind int

const (
	// KindPrimitive is a ctypes primitive such as c_uint, c_void_p or None.
	KindPrimitive Kind = iota
	// KindNamed is a type declared by the schema (Instance, Extent2D, ...).
	KindNamed
	// KindPointer is POINTER(Elem).
	KindPointer
	// KindArray is (Elem*Length).
	KindArray
)

const (
	// NoneType is the target spelling of void.
	NoneType = "None"
	// VoidPointer is the opaque pointer type.
	VoidPointer = "c_void_p"
	// CharType is the single character type.
	CharType = "c_char"
	// NativeString is the nul-terminated string type.
	NativeString = "c_char_p"
)

// TypeDescriptor is a target language type expression.
type TypeDescriptor struct {
	Kind   Kind
	Name   string
	Elem   *TypeDescriptor
	Length string
}

// Primitive returns the descriptor of a ctypes primitive.
func Primitive(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindPrimitive, Name: name}
}

// Named returns the descriptor of a schema defined type.
func Named(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindNamed, Name: name}
}

// Pointer wraps base in a pointer. Pointers to void and char map to the
// native c_void_p and c_char_p instead of a generic POINTER().
func Pointer(base TypeDescriptor) TypeDescriptor {
	if base.Kind == KindPrimitive {
		switch base.Name {
		case NoneType:
			return Primitive(VoidPointer)
		case CharType:
			return Primitive(NativeString)
		}
	}

	elem := base
	return TypeDescriptor{Kind: KindPointer, Elem: &elem}
}

// PointerN applies Pointer depth times.
func PointerN(base TypeDescriptor, depth int) TypeDescriptor {
	for i := 0; i < depth; i++ {
		base = Pointer(base)
	}
	return base
}

// Array wraps base in a fixed length array. length is a literal or the
// normalized name of an enumeration constant.
func Array(base TypeDescriptor, length string) TypeDescriptor {
	elem := base
	return TypeDescriptor{Kind: KindArray, Elem: &elem, Length: length}
}

// String renders the descriptor as a Python ctypes expression.
func (t TypeDescriptor) String() string {
	switch t.Kind {
	case KindPointer:
		return "POINTER(" + t.Elem.String() + ")"
	case KindArray:
		return "(" + t.Elem.String() + "*" + t.Length + ")"
	default:
		return t.Name
	}
}

// BaseName strips every pointer and array layer and returns the innermost name.
func (t TypeDescriptor) BaseName() string {
	curr := t
	for curr.Elem != nil {
		curr = *curr.Elem
	}
	return curr.Name
}
