package resolver

import (
	"github.com/griffnb/vkwrap/internal/naming"
	"github.com/griffnb/vkwrap/internal/registry"
	"github.com/griffnb/vkwrap/internal/schema"
)

// TypeMapper maps a base type spelling to its descriptor.
type TypeMapper interface {
	MapType(spelling string) registry.TypeDescriptor
}

// DeclType builds the descriptor of a declarator. Pointers bind to the base
// type and array dimensions nest with the last one innermost, so
// `float m[3][4]` becomes ((c_float*4)*3).
func DeclType(mapper TypeMapper, d schema.Decl) registry.TypeDescriptor {
	t := registry.PointerN(mapper.MapType(d.Type), d.Pointers)
	for i := len(d.Dims) - 1; i >= 0; i-- {
		length := d.Dims[i].Length
		if d.Dims[i].Constant {
			length = naming.StripNativePrefix(length)
		}
		t = registry.Array(t, length)
	}
	return t
}
